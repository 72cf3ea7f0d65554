package analyzer

import (
	"fmt"
	"math"
	"strings"
)

// Word count thresholds
const (
	MinWordCount  = 300
	GoodWordCount = 500
)

// Keyword density thresholds, in basis points of the word count (100 = 1%)
const (
	densityWarnBasisPoints = 75
	densityPassBasisPoints = 100
)

// WordCount sums the whitespace-delimited tokens of every paragraph
func WordCount(paragraphs []string) int {
	count := 0
	for _, p := range paragraphs {
		count += len(strings.Fields(p))
	}
	return count
}

// AnalyzeWordCount classifies the content length
func AnalyzeWordCount(wordCount int) []Finding {
	f := Finding{
		Category: CategoryWordCount,
		Check:    "count",
		Evidence: []string{fmt.Sprintf("%d words", wordCount)},
	}
	switch {
	case wordCount < MinWordCount:
		f.Severity = SeverityFail
		f.Message = fmt.Sprintf("A %d word count is below the recommendation of a %d - %d word minimum.", wordCount, MinWordCount, GoodWordCount)
	case wordCount <= GoodWordCount:
		f.Severity = SeverityPass
		f.Message = fmt.Sprintf("A %d word count is a good start for your content.", wordCount)
	default:
		f.Severity = SeverityPass
		f.Message = fmt.Sprintf("A %d word count will help your content gain traction in search engines. Good job!", wordCount)
	}
	return []Finding{f}
}

// Density holds the keyword density computation
type Density struct {
	WordCount  int
	Count      int
	Target     int
	Difference int
	// BasisPoints is round(Count/WordCount, 4) * 10000
	BasisPoints int
}

// Percent returns the density as a percentage, e.g. 1.23 for 1.23%
func (d Density) Percent() float64 {
	return float64(d.BasisPoints) / 100
}

// ComputeDensity derives the keyword density from a word count and occurrence count
func ComputeDensity(wordCount, count int) (Density, error) {
	if wordCount <= 0 {
		return Density{}, ErrZeroWordCount
	}
	target := int(math.RoundToEven(float64(wordCount) / 100))
	bp := int(math.Round(float64(count) * 10000 / float64(wordCount)))
	return Density{
		WordCount:   wordCount,
		Count:       count,
		Target:      target,
		Difference:  count - target,
		BasisPoints: bp,
	}, nil
}

// AnalyzeKeywordDensity classifies how often the keyword appears relative to the word count.
// Occurrences are counted as text nodes containing the keyword.
func AnalyzeKeywordDensity(wordCount int, text []string, kw *Matcher) ([]Finding, Density, error) {
	d, err := ComputeDensity(wordCount, kw.CountNodes(text))
	if err != nil {
		return nil, Density{}, err
	}

	summary := Finding{
		Category: CategoryKeywordDensity,
		Check:    "density",
		Message: fmt.Sprintf("The focus keyword '%s' has been used %d times with a keyword density of %s%%.",
			kw.Term(), d.Count, formatPercent(d.Percent())),
	}
	switch {
	case d.BasisPoints < densityWarnBasisPoints:
		summary.Severity = SeverityFail
	case d.BasisPoints < densityPassBasisPoints:
		summary.Severity = SeverityWarning
	default:
		summary.Severity = SeverityPass
	}
	findings := []Finding{summary}

	if d.Difference < 0 {
		findings = append(findings, Finding{
			Category: CategoryKeywordDensity,
			Check:    "target",
			Severity: SeverityFail,
			Message: fmt.Sprintf("The target use is %d and the keyword appears %d times in the content. Add the keyword %d more times to be between 1 - 1.5%% KWD.",
				d.Target, d.Count, -d.Difference),
		})
	}
	return findings, d, nil
}

func formatPercent(p float64) string {
	s := fmt.Sprintf("%.2f", p)
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}
