package analyzer

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMatcher(t *testing.T, term string) *Matcher {
	t.Helper()
	m, err := NewMatcher(term)
	require.NoError(t, err)
	return m
}

// words returns n filler words
func words(n int) string {
	return strings.TrimSpace(strings.Repeat("lorem ", n))
}

func sampleDocument() Document {
	return Document{
		Title: "SEO Basics for Writers",
		Paragraphs: []string{
			"Learn SEO basics here. This guide walks through the on-page checks that matter.",
			words(280),
		},
		Headings: map[int][]string{
			2: {"Why SEO matters", "Getting started"},
			3: {"Title tags"},
		},
		Images: []Image{
			{Alt: "seo checklist", Source: "checklist.png"},
			{Source: "banner.png"},
		},
		Links: []Link{
			{Href: "https://example.com/a", Text: "internal"},
			{Href: "https://other.com/b", Text: "external"},
		},
	}
}

func sampleConfig() Config {
	return Config{Keyword: "SEO", Domain: "example.com"}
}

func TestRun_CategoryOrder(t *testing.T) {
	report, err := Run(context.Background(), sampleDocument(), sampleConfig())
	require.NoError(t, err)

	assert.Equal(t, Categories, report.Categories())

	last := Category(-1)
	for _, f := range report.Findings {
		assert.GreaterOrEqual(t, int(f.Category), int(last), "findings out of order at %s/%s", f.Category, f.Check)
		last = f.Category
	}
}

func TestRun_Idempotent(t *testing.T) {
	doc, cfg := sampleDocument(), sampleConfig()

	first, err := Run(context.Background(), doc, cfg)
	require.NoError(t, err)
	second, err := Run(context.Background(), doc, cfg)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestRun_Preconditions(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Document, *Config)
		wantErr error
		kind    string
	}{
		{
			name:    "missing title",
			mutate:  func(d *Document, _ *Config) { d.Title = "" },
			wantErr: ErrMissingTitle,
			kind:    "MissingTitleError",
		},
		{
			name:    "blank title",
			mutate:  func(d *Document, _ *Config) { d.Title = "   " },
			wantErr: ErrMissingTitle,
			kind:    "MissingTitleError",
		},
		{
			name:    "no paragraphs",
			mutate:  func(d *Document, _ *Config) { d.Paragraphs = nil },
			wantErr: ErrMissingContent,
			kind:    "MissingContentError",
		},
		{
			name:    "empty keyword",
			mutate:  func(_ *Document, c *Config) { c.Keyword = "" },
			wantErr: ErrInvalidKeywordPattern,
			kind:    "InvalidKeywordPatternError",
		},
		{
			name:    "control characters in keyword",
			mutate:  func(_ *Document, c *Config) { c.Keyword = "seo\x00" },
			wantErr: ErrInvalidKeywordPattern,
			kind:    "InvalidKeywordPatternError",
		},
		{
			name:    "missing domain",
			mutate:  func(_ *Document, c *Config) { c.Domain = "" },
			wantErr: ErrMissingDomain,
			kind:    "MissingDomainError",
		},
		{
			name:    "control characters in domain",
			mutate:  func(_ *Document, c *Config) { c.Domain = "example.com\n" },
			wantErr: ErrInvalidDomain,
			kind:    "InvalidDomainError",
		},
		{
			name:    "only empty paragraphs",
			mutate:  func(d *Document, _ *Config) { d.Paragraphs = []string{"", "  "} },
			wantErr: ErrZeroWordCount,
			kind:    "ZeroWordCountError",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, cfg := sampleDocument(), sampleConfig()
			tt.mutate(&doc, &cfg)

			report, err := Run(context.Background(), doc, cfg)
			assert.Nil(t, report)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.kind, ErrorKind(err))
			assert.True(t, IsPrecondition(err))
		})
	}
}

func TestRun_InvalidDomainIsNotAKeywordError(t *testing.T) {
	cfg := sampleConfig()
	cfg.Domain = "exam\x7fple.com"

	_, err := Run(context.Background(), sampleDocument(), cfg)
	require.ErrorIs(t, err, ErrInvalidDomain)
	assert.NotErrorIs(t, err, ErrInvalidKeywordPattern)
	assert.Contains(t, err.Error(), "domain")
}

func TestRun_TitleOverrideWins(t *testing.T) {
	doc := sampleDocument()
	doc.Title = ""
	cfg := sampleConfig()
	cfg.TitleOverride = "SEO guide"

	report, err := Run(context.Background(), doc, cfg)
	require.NoError(t, err)
	assert.Equal(t, "SEO guide", report.Title)
}

func TestRun_Example1DensityPass(t *testing.T) {
	// 300 words, keyword appears in three text nodes
	doc := Document{
		Title: "Guide",
		Paragraphs: []string{
			"Learn SEO basics here. " + words(96),
			"More on seo. " + words(97),
			"Final SEO note " + words(97),
		},
	}
	require.Equal(t, 300, WordCount(doc.Paragraphs))

	report, err := Run(context.Background(), doc, Config{Keyword: "SEO", Domain: "example.com"})
	require.NoError(t, err)

	density, ok := report.Find(CategoryKeywordDensity, "density")
	require.True(t, ok)
	assert.Equal(t, SeverityPass, density.Severity)
	assert.Equal(t, 3, report.Metrics.KeywordTarget)
	assert.Equal(t, 3, report.Metrics.KeywordCount)
	assert.Equal(t, 1.0, report.Metrics.KeywordDensity)

	_, hasTarget := report.Find(CategoryKeywordDensity, "target")
	assert.False(t, hasTarget)
}

func TestRun_Example2TitleWithoutKeyword(t *testing.T) {
	doc := sampleDocument()
	doc.Title = "Guide"

	report, err := Run(context.Background(), doc, sampleConfig())
	require.NoError(t, err)

	length, ok := report.Find(CategoryTitle, "length")
	require.True(t, ok)
	assert.Equal(t, SeverityPass, length.Severity)

	placement, ok := report.Find(CategoryTitle, "placement")
	require.True(t, ok)
	assert.Equal(t, SeverityFail, placement.Severity)
	assert.Contains(t, placement.Message, "does not appear in the title")
}

func TestRun_Example5EmptyParagraphs(t *testing.T) {
	doc := sampleDocument()
	doc.Paragraphs = []string{}

	_, err := Run(context.Background(), doc, sampleConfig())
	assert.ErrorIs(t, err, ErrMissingContent)
}

func TestRun_NoHeadingsOmitsSection(t *testing.T) {
	doc := sampleDocument()
	doc.Headings = nil

	report, err := Run(context.Background(), doc, sampleConfig())
	require.NoError(t, err)
	assert.Empty(t, report.ByCategory(CategoryHeadings))
	assert.Equal(t, 0, report.Metrics.Headings)
}

func TestRun_TextNodesPreferredForDensity(t *testing.T) {
	doc := sampleDocument()
	doc.TextNodes = []string{"seo", "SEO again", "nothing", "Seo"}

	report, err := Run(context.Background(), doc, sampleConfig())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Metrics.KeywordCount)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, sampleDocument(), sampleConfig())
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, IsPrecondition(err))
}

func TestReport_Helpers(t *testing.T) {
	report := &Report{Findings: []Finding{
		{Category: CategoryTitle, Check: "length", Severity: SeverityPass},
		{Category: CategoryTitle, Check: "placement", Severity: SeverityFail},
		{Category: CategoryLinks, Check: "count", Severity: SeverityWarning},
		{Category: CategoryHeadings, Check: "structure", Severity: SeverityInfo},
	}}

	assert.Len(t, report.ByCategory(CategoryTitle), 2)
	assert.Equal(t, []Category{CategoryTitle, CategoryLinks, CategoryHeadings}, report.Categories())
	assert.Equal(t, SeverityFail, report.Worst())

	counts := report.Counts()
	assert.Equal(t, 1, counts[SeverityPass])
	assert.Equal(t, 1, counts[SeverityWarning])
	assert.Equal(t, 1, counts[SeverityFail])
	assert.Equal(t, 1, counts[SeverityInfo])

	_, ok := report.Find(CategoryImages, "count")
	assert.False(t, ok)
}

func TestFinding_JSONUsesNames(t *testing.T) {
	data, err := json.Marshal(Finding{Category: CategoryMetaDescription, Check: "length", Severity: SeverityWarning, Message: "m"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"category":"meta-description","check":"length","severity":"warning","message":"m"}`, string(data))

	var f Finding
	require.NoError(t, json.Unmarshal(data, &f))
	assert.Equal(t, CategoryMetaDescription, f.Category)
	assert.Equal(t, SeverityWarning, f.Severity)
}

func TestErrorKind_Wrapped(t *testing.T) {
	err := &FrontMatterFieldError{Field: "tags"}
	assert.ErrorIs(t, err, ErrMissingFrontMatterField)
	assert.Equal(t, "MissingFrontMatterFieldError", ErrorKind(err))
	assert.Contains(t, err.Error(), `"tags"`)

	assert.Equal(t, "", ErrorKind(nil))
	assert.Equal(t, "", ErrorKind(assert.AnError))
}
