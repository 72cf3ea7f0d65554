package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seo-optimizer/onpage/logging"
	"github.com/seo-optimizer/onpage/metrics"
)

// KeywordKey is the gin context key where the analyze handler stores the focus keyword
const KeywordKey = "keyword"

// AnalyzePath is the route whose requests are tracked as analyses
const AnalyzePath = "/api/analyze"

// saveEvery is how many analyses pass between statistics saves
const saveEvery = 100

// Stats tracks clients and analysis requests, and counts every request in metrics
func Stats(stats *logging.Statistics, m *metrics.Metrics, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		stats.TrackClient(c.ClientIP())

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, path, c.Writer.Status())

		if c.Request.URL.Path != AnalyzePath || c.Request.Method != http.MethodPost {
			return
		}
		stats.TrackAnalysis(c.GetString(KeywordKey), time.Since(start), c.Writer.Status() >= http.StatusBadRequest)

		if stats.Requests()%saveEvery == 0 {
			go func() {
				if err := stats.Save(); err != nil {
					logger.Warn("Failed to save statistics", zap.Error(err))
				}
			}()
		}
	}
}
