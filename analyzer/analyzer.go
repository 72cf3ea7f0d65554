package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/seo-optimizer/onpage/metrics"
	"github.com/seo-optimizer/onpage/stats"
)

// Default cache settings
const (
	DefaultCacheTTL  = 30 * time.Minute
	DefaultCacheSize = 1000
)

// Options configures an Analyzer
type Options struct {
	// DataDir enables persistent monthly statistics when set
	DataDir   string
	CacheTTL  time.Duration
	CacheSize int
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
}

// CacheStats provides statistics about the analyzer's cache
type CacheStats struct {
	Entries  int           `json:"entries"`
	Capacity int           `json:"capacity"`
	Hits     int64         `json:"hits"`
	Misses   int64         `json:"misses"`
	TTL      time.Duration `json:"ttl"`
}

// Analyzer runs analyses and caches their reports.
// Cached reports are shared between callers and must be treated as read-only.
type Analyzer struct {
	cache     *expirable.LRU[string, *Report]
	cacheTTL  time.Duration
	cacheSize int
	hits      atomic.Int64
	misses    atomic.Int64
	stats     *stats.Storage
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// New creates a new Analyzer instance
func New(opts Options) (*Analyzer, error) {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	a := &Analyzer{
		cache:     expirable.NewLRU[string, *Report](opts.CacheSize, nil, opts.CacheTTL),
		cacheTTL:  opts.CacheTTL,
		cacheSize: opts.CacheSize,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
	}

	if opts.DataDir != "" {
		storage, err := stats.NewStorage(opts.DataDir, opts.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize stats storage: %w", err)
		}
		a.stats = storage
	}

	return a, nil
}

// generateCacheKey hashes the canonical JSON of the inputs
func generateCacheKey(doc Document, cfg Config) (string, error) {
	data, err := json.Marshal(struct {
		Document Document `json:"document"`
		Config   Config   `json:"config"`
	}{doc, cfg})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data)), nil
}

// IsCached reports whether a report for these inputs is cached and not expired
func (a *Analyzer) IsCached(doc Document, cfg Config) bool {
	key, err := generateCacheKey(doc, cfg)
	if err != nil {
		return false
	}
	_, ok := a.cache.Peek(key)
	return ok
}

// Analyze returns the report for doc and cfg, from cache when possible
func (a *Analyzer) Analyze(ctx context.Context, doc Document, cfg Config) (*Report, error) {
	start := time.Now()

	key, keyErr := generateCacheKey(doc, cfg)
	if keyErr == nil {
		if report, ok := a.cache.Get(key); ok {
			a.hits.Add(1)
			a.record(stats.Delta{CacheHits: 1})
			a.metrics.CacheEvent("hit")
			a.metrics.ObserveAnalysis("cached", time.Since(start))
			a.logger.Debug("Analysis cache hit", zap.String("key", key), zap.String("keyword", cfg.Keyword))
			return report, nil
		}
	}
	a.misses.Add(1)
	a.metrics.CacheEvent("miss")

	report, err := Run(ctx, doc, cfg)
	if err != nil {
		kind := ErrorKind(err)
		if kind == "" {
			kind = "error"
		}
		a.record(stats.Delta{CacheMisses: 1, Rejected: 1})
		a.metrics.ObserveAnalysis(kind, time.Since(start))
		a.logger.Debug("Analysis rejected", zap.String("kind", kind), zap.Error(err))
		return nil, err
	}

	counts := report.Counts()
	a.record(stats.Delta{
		Analyses:    1,
		CacheMisses: 1,
		Passed:      counts[SeverityPass],
		Warnings:    counts[SeverityWarning],
		Failures:    counts[SeverityFail],
	})
	for _, f := range report.Findings {
		a.metrics.ObserveFinding(f.Category.String(), f.Severity.String())
	}
	a.metrics.ObserveAnalysis("ok", time.Since(start))

	if keyErr == nil {
		a.cache.Add(key, report)
	}
	a.logger.Debug("Analysis completed",
		zap.String("keyword", cfg.Keyword),
		zap.Int("findings", len(report.Findings)),
		zap.Stringer("worst", report.Worst()),
		zap.Duration("duration", time.Since(start)))

	return report, nil
}

func (a *Analyzer) record(d stats.Delta) {
	if a.stats != nil {
		a.stats.Record(d)
	}
}

// GetCacheStats returns statistics about the cache
func (a *Analyzer) GetCacheStats() CacheStats {
	return CacheStats{
		Entries:  a.cache.Len(),
		Capacity: a.cacheSize,
		Hits:     a.hits.Load(),
		Misses:   a.misses.Load(),
		TTL:      a.cacheTTL,
	}
}

// ClearCache clears the analysis cache
func (a *Analyzer) ClearCache() {
	a.cache.Purge()
}

// GetStats returns the statistics storage, nil when no data directory was configured
func (a *Analyzer) GetStats() *stats.Storage {
	return a.stats
}

// Shutdown flushes statistics and clears the cache
func (a *Analyzer) Shutdown() error {
	if a == nil {
		return nil
	}
	a.cache.Purge()
	if a.stats != nil {
		if err := a.stats.Shutdown(); err != nil {
			return fmt.Errorf("failed to shutdown stats storage: %w", err)
		}
	}
	return nil
}
