// Package api serves the analyzer over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seo-optimizer/onpage/analyzer"
	"github.com/seo-optimizer/onpage/logging"
	"github.com/seo-optimizer/onpage/metrics"
	"github.com/seo-optimizer/onpage/middleware"
)

// retainMonths is how many months of analysis counters are kept, the current one included
const retainMonths = 12

// Options wires the server's collaborators
type Options struct {
	Analyzer   *analyzer.Analyzer
	Statistics *logging.Statistics
	Metrics    *metrics.Metrics
	Logger     *zap.Logger
	// DefaultDomain is used when a request does not name one
	DefaultDomain string
	RateLimit     float64
	Burst         int
}

// Server holds the state for the REST API server.
type Server struct {
	analyzer      *analyzer.Analyzer
	stats         *logging.Statistics
	metrics       *metrics.Metrics
	logger        *zap.Logger
	limiter       *middleware.RateLimiter
	defaultDomain string
	router        *gin.Engine
	httpServer    *http.Server
}

// NewServer creates a new Server instance.
func NewServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 2
	}
	if opts.Burst <= 0 {
		opts.Burst = 5
	}
	if opts.Analyzer == nil {
		opts.Analyzer, _ = analyzer.New(analyzer.Options{Logger: opts.Logger, Metrics: opts.Metrics})
	}
	if opts.Statistics == nil {
		opts.Statistics, _ = logging.NewStatistics("", false)
	}

	s := &Server{
		analyzer:      opts.Analyzer,
		stats:         opts.Statistics,
		metrics:       opts.Metrics,
		logger:        opts.Logger,
		limiter:       middleware.NewRateLimiter(opts.RateLimit, opts.Burst),
		defaultDomain: opts.DefaultDomain,
		router:        gin.New(),
	}
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler serving every route
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.Use(
		middleware.ErrorHandler(s.logger),
		middleware.RequestID(),
		middleware.AccessLog(s.logger),
		middleware.CORS(),
	)

	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := s.router.Group("/api")
	api.Use(middleware.Stats(s.stats, s.metrics, s.logger))
	{
		api.GET("/health", s.healthCheck)
		api.POST("/analyze", s.limiter.RateLimit(), s.handleAnalyze)
		api.GET("/statistics", s.handleStatistics)
		api.GET("/cache", s.handleCache)
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sweepLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", zap.String("addr", addr))
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("Server shutting down")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := s.stats.Save(); err != nil {
		s.logger.Warn("Failed to save statistics", zap.Error(err))
	}
	return nil
}

// sweepLoop runs sweep every ten minutes until ctx is cancelled
func (s *Server) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep drops idle rate limit buckets and expired monthly statistics
func (s *Server) sweep() {
	if removed := s.limiter.Cleanup(time.Hour); removed > 0 {
		s.logger.Debug("Removed idle rate limit buckets", zap.Int("removed", removed))
	}
	if storage := s.analyzer.GetStats(); storage != nil {
		storage.Cleanup(retainMonths)
	}
}
