package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seo-optimizer/onpage/analyzer"
	"github.com/seo-optimizer/onpage/api"
	"github.com/seo-optimizer/onpage/config"
	"github.com/seo-optimizer/onpage/logging"
	"github.com/seo-optimizer/onpage/metrics"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analyzer as an HTTP API",
		Long: `Serve starts the HTTP API:

  GET  /api/health      liveness
  POST /api/analyze     review a Markdown document
  GET  /api/statistics  request statistics
  GET  /api/cache       analysis cache statistics
  GET  /metrics         Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd, config.LogLevelInfo); err != nil {
				return err
			}
			defer a.logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, a)
		},
	}

	cmd.Flags().String("port", "8082", "port to listen on")
	cmd.Flags().String("domain", "", "domain used when a request does not name one")

	return cmd
}

func runServe(ctx context.Context, a *app) error {
	cfg := a.cfg
	gin.SetMode(cfg.Server.Mode)

	m := metrics.New("onpage")

	seo, err := analyzer.New(analyzer.Options{
		DataDir:   cfg.DataDir,
		CacheTTL:  cfg.Cache.TTL,
		CacheSize: cfg.Cache.Size,
		Logger:    a.logger,
		Metrics:   m,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := seo.Shutdown(); err != nil {
			a.logger.Warn("Failed to shut down analyzer", zap.Error(err))
		}
	}()

	stats, err := logging.NewStatistics(cfg.DataDir, cfg.Server.DevMode)
	if err != nil {
		return fmt.Errorf("failed to initialize statistics: %w", err)
	}

	server := api.NewServer(api.Options{
		Analyzer:      seo,
		Statistics:    stats,
		Metrics:       m,
		Logger:        a.logger,
		DefaultDomain: cfg.Domain,
		RateLimit:     cfg.Server.RateLimit,
		Burst:         cfg.Server.Burst,
	})

	return server.Run(ctx, ":"+cfg.Server.Port)
}
