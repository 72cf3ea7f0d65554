package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seo-optimizer/onpage/analyzer"
	"github.com/seo-optimizer/onpage/loader"
	"github.com/seo-optimizer/onpage/logging"
	"github.com/seo-optimizer/onpage/middleware"
	"github.com/seo-optimizer/onpage/stats"
)

// AnalyzeRequest is the body of POST /api/analyze
type AnalyzeRequest struct {
	Markdown         string `json:"markdown" binding:"required"`
	Domain           string `json:"domain"`
	FrontMatter      bool   `json:"frontMatter"`
	KeywordField     string `json:"keywordField"`
	DescriptionField string `json:"descriptionField"`
	Keyword          string `json:"keyword"`
	Title            string `json:"title"`
	Description      string `json:"description"`
}

// StatisticsResponse is the body of GET /api/statistics. Monthly holds the
// analysis counters of the current month, or of the month named by ?month=YYYY-MM.
type StatisticsResponse struct {
	logging.Summary
	Monthly *stats.MonthlyStats `json:"monthly,omitempty"`
	Months  []string            `json:"months,omitempty"`
}

// ErrorResponse is returned for every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func (r AnalyzeRequest) options(defaultDomain string) loader.Options {
	domain := r.Domain
	if domain == "" {
		domain = defaultDomain
	}
	return loader.Options{
		FrontMatter:      r.FrontMatter,
		KeywordField:     r.KeywordField,
		DescriptionField: r.DescriptionField,
		Keyword:          r.Keyword,
		Title:            r.Title,
		Description:      r.Description,
		Domain:           domain,
	}
}

// Health check
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var request AnalyzeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request: " + err.Error()})
		return
	}
	if request.FrontMatter && request.KeywordField == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "keywordField is required when frontMatter is set"})
		return
	}

	doc, cfg, err := loader.Load([]byte(request.Markdown), request.options(s.defaultDomain))
	if cfg.Keyword != "" {
		c.Set(middleware.KeywordKey, cfg.Keyword)
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	cacheStatus := "MISS"
	if s.analyzer.IsCached(doc, cfg) {
		cacheStatus = "HIT"
	}
	report, err := s.analyzer.Analyze(c.Request.Context(), doc, cfg)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.Header("X-Cache", cacheStatus)

	c.JSON(http.StatusOK, report)
}

// fail answers precondition errors with 422 and anything else with 500
func (s *Server) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	if analyzer.IsPrecondition(err) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Kind: analyzer.ErrorKind(err)})
		return
	}
	s.logger.Error("Analysis failed", zap.Error(err), zap.String("request_id", c.GetString(middleware.RequestIDKey)))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to analyze content: " + err.Error()})
}

func (s *Server) handleStatistics(c *gin.Context) {
	response := StatisticsResponse{Summary: s.stats.Summary()}

	if storage := s.analyzer.GetStats(); storage != nil {
		monthly := storage.GetCurrentStats()
		if month := c.Query("month"); month != "" {
			var ok bool
			if monthly, ok = storage.GetMonthlyStats(month); !ok {
				c.JSON(http.StatusNotFound, ErrorResponse{Error: "No statistics for month " + month})
				return
			}
		}
		response.Monthly = &monthly
		response.Months = storage.GetAllMonths()
	}

	c.JSON(http.StatusOK, response)
}

func (s *Server) handleCache(c *gin.Context) {
	c.JSON(http.StatusOK, s.analyzer.GetCacheStats())
}
