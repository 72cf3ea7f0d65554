package analyzer

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"testing"
	"time"
)

type MemStats struct {
	HeapAlloc  uint64
	TotalAlloc uint64
	NumGC      uint32
}

func getMemStats() MemStats {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return MemStats{
		HeapAlloc:  stats.HeapAlloc,
		TotalAlloc: stats.TotalAlloc,
		NumGC:      stats.NumGC,
	}
}

func newTestAnalyzer(t *testing.T, opts Options) *Analyzer {
	t.Helper()
	a, err := New(opts)
	if err != nil {
		t.Fatalf("Failed to create analyzer: %v", err)
	}
	t.Cleanup(func() {
		if err := a.Shutdown(); err != nil {
			t.Errorf("Shutdown failed: %v", err)
		}
	})
	return a
}

func TestAnalyzer_CachesReports(t *testing.T) {
	a := newTestAnalyzer(t, Options{})
	doc, cfg := sampleDocument(), sampleConfig()

	if a.IsCached(doc, cfg) {
		t.Fatal("Report should not be cached before the first analysis")
	}

	first, err := a.Analyze(context.Background(), doc, cfg)
	if err != nil {
		t.Fatalf("Failed to analyze: %v", err)
	}
	if !a.IsCached(doc, cfg) {
		t.Error("Report should be cached immediately after analysis")
	}

	second, err := a.Analyze(context.Background(), doc, cfg)
	if err != nil {
		t.Fatalf("Failed to analyze: %v", err)
	}
	if first != second {
		t.Error("Expected the cached report to be returned")
	}

	stats := a.GetCacheStats()
	if stats.Entries != 1 {
		t.Errorf("Expected 1 cache entry, got %d", stats.Entries)
	}
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("Expected 1 hit and 1 miss, got %d hits and %d misses", stats.Hits, stats.Misses)
	}
	if stats.Capacity != DefaultCacheSize || stats.TTL != DefaultCacheTTL {
		t.Errorf("Unexpected cache defaults: capacity %d, ttl %s", stats.Capacity, stats.TTL)
	}
}

func TestAnalyzer_KeyCoversConfig(t *testing.T) {
	a := newTestAnalyzer(t, Options{})
	doc, cfg := sampleDocument(), sampleConfig()

	if _, err := a.Analyze(context.Background(), doc, cfg); err != nil {
		t.Fatalf("Failed to analyze: %v", err)
	}

	other := cfg
	other.Keyword = "writers"
	if a.IsCached(doc, other) {
		t.Error("A different keyword must not hit the cache")
	}

	doc.Paragraphs = append(doc.Paragraphs, "one more paragraph")
	if a.IsCached(doc, cfg) {
		t.Error("A different document must not hit the cache")
	}
}

func TestAnalyzer_RejectionsAreNotCached(t *testing.T) {
	a := newTestAnalyzer(t, Options{})
	doc, cfg := sampleDocument(), sampleConfig()
	doc.Title = ""

	_, err := a.Analyze(context.Background(), doc, cfg)
	if !errors.Is(err, ErrMissingTitle) {
		t.Fatalf("Expected ErrMissingTitle, got %v", err)
	}
	if a.IsCached(doc, cfg) {
		t.Error("Rejected inputs should not be cached")
	}
	if entries := a.GetCacheStats().Entries; entries != 0 {
		t.Errorf("Expected empty cache, got %d entries", entries)
	}
}

func TestCachePurging(t *testing.T) {
	a := newTestAnalyzer(t, Options{CacheTTL: 50 * time.Millisecond})
	doc, cfg := sampleDocument(), sampleConfig()

	if _, err := a.Analyze(context.Background(), doc, cfg); err != nil {
		t.Fatalf("Failed to analyze: %v", err)
	}
	if !a.IsCached(doc, cfg) {
		t.Error("Report should be cached immediately after analysis")
	}

	time.Sleep(200 * time.Millisecond)

	if a.IsCached(doc, cfg) {
		t.Error("Report should not be cached after TTL expiration")
	}
}

func TestClearCache(t *testing.T) {
	a := newTestAnalyzer(t, Options{})
	doc, cfg := sampleDocument(), sampleConfig()

	if _, err := a.Analyze(context.Background(), doc, cfg); err != nil {
		t.Fatalf("Failed to analyze: %v", err)
	}
	a.ClearCache()

	if a.IsCached(doc, cfg) {
		t.Error("Report should not be cached after ClearCache")
	}
}

func TestAnalyzer_RecordsStatistics(t *testing.T) {
	a := newTestAnalyzer(t, Options{DataDir: t.TempDir()})
	doc, cfg := sampleDocument(), sampleConfig()

	for i := 0; i < 3; i++ {
		if _, err := a.Analyze(context.Background(), doc, cfg); err != nil {
			t.Fatalf("Failed to analyze: %v", err)
		}
	}
	doc.Paragraphs = nil
	if _, err := a.Analyze(context.Background(), doc, cfg); err == nil {
		t.Fatal("Expected a precondition error")
	}

	storage := a.GetStats()
	if storage == nil {
		t.Fatal("Expected statistics storage when a data directory is set")
	}
	stats := storage.GetCurrentStats()
	if stats.Analyses != 1 {
		t.Errorf("Expected 1 analysis, got %d", stats.Analyses)
	}
	if stats.CacheHits != 2 {
		t.Errorf("Expected 2 cache hits, got %d", stats.CacheHits)
	}
	if stats.CacheMisses != 2 {
		t.Errorf("Expected 2 cache misses, got %d", stats.CacheMisses)
	}
	if stats.Rejected != 1 {
		t.Errorf("Expected 1 rejection, got %d", stats.Rejected)
	}
	if stats.Passed == 0 {
		t.Error("Expected passing findings to be counted")
	}
}

func TestAnalyzer_WithoutDataDir(t *testing.T) {
	a := newTestAnalyzer(t, Options{})
	if a.GetStats() != nil {
		t.Error("Expected no statistics storage without a data directory")
	}
}

func TestConcurrentCacheAccess(t *testing.T) {
	a := newTestAnalyzer(t, Options{})
	doc, cfg := sampleDocument(), sampleConfig()

	concurrency := 100

	var wg sync.WaitGroup
	errChan := make(chan error, concurrency)

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			if i%2 == 0 {
				if _, err := a.Analyze(context.Background(), doc, cfg); err != nil {
					errChan <- fmt.Errorf("analyze error: %v", err)
				}
			} else {
				a.IsCached(doc, cfg)
			}
		}(i)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		t.Errorf("Concurrent access error: %v", err)
	}

	stats := a.GetCacheStats()
	if stats.Hits+stats.Misses != int64(concurrency/2) {
		t.Errorf("Expected %d lookups, got %d", concurrency/2, stats.Hits+stats.Misses)
	}
	if stats.Entries != 1 {
		t.Errorf("Expected 1 cache entry, got %d", stats.Entries)
	}
}

func TestMemoryEfficiency(t *testing.T) {
	a := newTestAnalyzer(t, Options{CacheSize: 10})

	runtime.GC()
	before := getMemStats()

	for i := 0; i < 200; i++ {
		doc := sampleDocument()
		doc.Title = fmt.Sprintf("SEO Basics part %d", i)
		if _, err := a.Analyze(context.Background(), doc, sampleConfig()); err != nil {
			t.Fatalf("Failed to analyze: %v", err)
		}
	}

	runtime.GC()
	after := getMemStats()

	t.Logf("Heap Allocation: %d bytes -> %d bytes", before.HeapAlloc, after.HeapAlloc)
	t.Logf("Total Allocation delta: %d bytes", after.TotalAlloc-before.TotalAlloc)
	t.Logf("Number of GC runs: %d -> %d", before.NumGC, after.NumGC)

	if entries := a.GetCacheStats().Entries; entries > 10 {
		t.Errorf("Cache size larger than capacity: got %d entries, expected maximum 10", entries)
	}
}
