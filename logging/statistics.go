// Package logging provides the application logger and API request statistics.
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const statisticsFile = "statistics.json"

// Statistics represents the collected API request statistics
type Statistics struct {
	UniqueClients    map[string]time.Time `json:"uniqueClients"`    // IP -> Last Visit Time
	AnalysisRequests int                  `json:"analysisRequests"` // Total number of analysis requests
	ErrorCount       int                  `json:"errorCount"`
	PopularKeywords  map[string]int       `json:"popularKeywords"` // keyword -> Count
	TotalLoadTime    float64              `json:"totalLoadTime"`   // milliseconds
	LastPersisted    time.Time            `json:"lastPersisted"`

	mutex   sync.RWMutex
	path    string
	devMode bool
	now     func() time.Time
}

// KeywordCount is a keyword and how often it was analyzed
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// Summary is the view of the statistics served by the API
type Summary struct {
	UniqueClients24h int            `json:"uniqueVisitors24h"`
	TotalRequests    int            `json:"totalRequests"`
	ErrorRate        float64        `json:"errorRate"`
	AverageLoadTime  float64        `json:"averageLoadTime"`
	PopularKeywords  []KeywordCount `json:"popularKeywords,omitempty"`
}

// NewStatistics creates statistics persisted under dataDir, loading any
// previous file. An empty dataDir keeps them in memory only.
func NewStatistics(dataDir string, devMode bool) (*Statistics, error) {
	s := &Statistics{
		UniqueClients:   make(map[string]time.Time),
		PopularKeywords: make(map[string]int),
		LastPersisted:   time.Now(),
		devMode:         devMode,
		now:             time.Now,
	}
	if dataDir == "" {
		return s, nil
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create data directory: %w", err)
	}
	s.path = filepath.Join(dataDir, statisticsFile)
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// TrackClient records a client visit
func (s *Statistics) TrackClient(ip string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.UniqueClients[ip] = s.now()
}

func normalizeKeyword(keyword string) string {
	return strings.ToLower(strings.Join(strings.Fields(keyword), " "))
}

// TrackAnalysis records an analysis request
func (s *Statistics) TrackAnalysis(keyword string, duration time.Duration, failed bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.AnalysisRequests++
	if kw := normalizeKeyword(keyword); kw != "" {
		s.PopularKeywords[kw]++
	}
	if failed {
		s.ErrorCount++
	}
	s.TotalLoadTime += float64(duration) / float64(time.Millisecond)
}

// Requests returns the number of tracked analysis requests
func (s *Statistics) Requests() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.AnalysisRequests
}

func (s *Statistics) uniqueClients24h() int {
	count := 0
	cutoff := s.now().Add(-24 * time.Hour)
	for _, lastVisit := range s.UniqueClients {
		if lastVisit.After(cutoff) {
			count++
		}
	}
	return count
}

// popularKeywords returns the top n keywords, most frequent first
func (s *Statistics) popularKeywords(n int) []KeywordCount {
	out := make([]KeywordCount, 0, len(s.PopularKeywords))
	for kw, count := range s.PopularKeywords {
		out = append(out, KeywordCount{Keyword: kw, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Keyword < out[j].Keyword
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func (s *Statistics) errorRate() float64 {
	if s.AnalysisRequests == 0 {
		return 0
	}
	return float64(s.ErrorCount) / float64(s.AnalysisRequests) * 100
}

func (s *Statistics) averageLoadTime() float64 {
	if s.AnalysisRequests == 0 {
		return 0
	}
	return s.TotalLoadTime / float64(s.AnalysisRequests)
}

// Summary returns the current statistics. Popular keywords are only
// included in development mode.
func (s *Statistics) Summary() Summary {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	summary := Summary{
		UniqueClients24h: s.uniqueClients24h(),
		TotalRequests:    s.AnalysisRequests,
		ErrorRate:        s.errorRate(),
		AverageLoadTime:  s.averageLoadTime(),
	}
	if s.devMode {
		summary.PopularKeywords = s.popularKeywords(5)
	}
	return summary
}

// Save persists the statistics to a file
func (s *Statistics) Save() error {
	if s.path == "" {
		return nil
	}

	s.mutex.Lock()
	s.LastPersisted = s.now()
	data, err := json.Marshal(s)
	s.mutex.Unlock()
	if err != nil {
		return fmt.Errorf("could not encode statistics: %w", err)
	}

	tempFile := s.path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o644); err != nil {
		return fmt.Errorf("could not write statistics file: %w", err)
	}
	if err := os.Rename(tempFile, s.path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("could not replace statistics file: %w", err)
	}
	return nil
}

// Load reads the statistics from a file
func (s *Statistics) Load() error {
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // Not an error if file doesn't exist yet
		}
		return fmt.Errorf("could not open statistics file: %w", err)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := json.Unmarshal(data, s); err != nil {
		return fmt.Errorf("could not decode statistics: %w", err)
	}
	if s.UniqueClients == nil {
		s.UniqueClients = make(map[string]time.Time)
	}
	if s.PopularKeywords == nil {
		s.PopularKeywords = make(map[string]int)
	}
	return nil
}
