package analyzer

import (
	"fmt"
	"html"
	"strings"
)

// HeadingLevels are the sub-heading levels inspected by the heading analyzer.
var HeadingLevels = []int{2, 3, 4, 5, 6}

// Image is an image found in the content
type Image struct {
	Alt    string `json:"alt,omitempty" yaml:"alt,omitempty"`
	Source string `json:"src,omitempty" yaml:"src,omitempty"`
}

// String renders the image as an HTML tag for evidence output
func (i Image) String() string {
	return fmt.Sprintf(`<img alt="%s" src="%s"/>`, html.EscapeString(i.Alt), html.EscapeString(i.Source))
}

// Link is an anchor found in the content
type Link struct {
	Href string `json:"href,omitempty" yaml:"href,omitempty"`
	Text string `json:"text,omitempty" yaml:"text,omitempty"`
}

// String renders the link as an HTML anchor for evidence output
func (l Link) String() string {
	return fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(l.Href), html.EscapeString(l.Text))
}

// Document is the normalized view of a piece of content.
// It is built once by the loader and treated as read-only by every analyzer.
type Document struct {
	Title      string           `json:"title"`
	Paragraphs []string         `json:"paragraphs"`
	Headings   map[int][]string `json:"headings,omitempty"`
	Images     []Image          `json:"images,omitempty"`
	Links      []Link           `json:"links,omitempty"`

	// MetaOverride is an explicit meta description taken from front matter.
	MetaOverride string `json:"metaOverride,omitempty"`

	// TextNodes holds every non-blank text node of the rendered content.
	// When empty, the title, headings and paragraphs are used instead.
	TextNodes []string `json:"textNodes,omitempty"`
}

// text returns the corpus used to count raw keyword occurrences
func (d Document) text() []string {
	if len(d.TextNodes) > 0 {
		return d.TextNodes
	}
	nodes := make([]string, 0, len(d.Paragraphs)+1)
	if d.Title != "" {
		nodes = append(nodes, d.Title)
	}
	for _, level := range HeadingLevels {
		nodes = append(nodes, d.Headings[level]...)
	}
	return append(nodes, d.Paragraphs...)
}

// Config holds the focus keyword and site settings for one analysis
type Config struct {
	Keyword             string `json:"keyword"`
	Domain              string `json:"domain"`
	TitleOverride       string `json:"titleOverride,omitempty"`
	DescriptionOverride string `json:"descriptionOverride,omitempty"`
}

// Category identifies the report section a finding belongs to
type Category int

const (
	CategoryTitle Category = iota
	CategoryMetaDescription
	CategoryWordCount
	CategoryKeywordDensity
	CategoryImages
	CategoryLinks
	CategoryHeadings
)

// Categories lists every category in report order
var Categories = []Category{
	CategoryTitle,
	CategoryMetaDescription,
	CategoryWordCount,
	CategoryKeywordDensity,
	CategoryImages,
	CategoryLinks,
	CategoryHeadings,
}

var categoryNames = map[Category]string{
	CategoryTitle:           "title",
	CategoryMetaDescription: "meta-description",
	CategoryWordCount:       "word-count",
	CategoryKeywordDensity:  "keyword-density",
	CategoryImages:          "images",
	CategoryLinks:           "links",
	CategoryHeadings:        "headings",
}

var categoryTitles = map[Category]string{
	CategoryTitle:           "Title",
	CategoryMetaDescription: "Meta Description",
	CategoryWordCount:       "Word Count",
	CategoryKeywordDensity:  "Keyword Count & Density",
	CategoryImages:          "Images",
	CategoryLinks:           "Links",
	CategoryHeadings:        "Content Structure",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Title returns the human readable section heading
func (c Category) Title() string {
	return categoryTitles[c]
}

// MarshalText implements encoding.TextMarshaler
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *Category) UnmarshalText(text []byte) error {
	for cat, name := range categoryNames {
		if name == string(text) {
			*c = cat
			return nil
		}
	}
	return fmt.Errorf("unknown category %q", text)
}

// Severity classifies a finding
type Severity int

const (
	// SeverityInfo marks evidence-only findings that carry no verdict
	SeverityInfo Severity = iota
	SeverityPass
	SeverityWarning
	SeverityFail
)

var severityNames = map[Severity]string{
	SeverityInfo:    "info",
	SeverityPass:    "pass",
	SeverityWarning: "warning",
	SeverityFail:    "fail",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Severity) UnmarshalText(text []byte) error {
	for sev, name := range severityNames {
		if name == strings.ToLower(string(text)) {
			*s = sev
			return nil
		}
	}
	return fmt.Errorf("unknown severity %q", text)
}

// Finding is a single classified observation about the content
type Finding struct {
	Category Category `json:"category" yaml:"category"`
	Check    string   `json:"check" yaml:"check"`
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message" yaml:"message"`
	Evidence []string `json:"evidence,omitempty" yaml:"evidence,omitempty"`
}

// Metrics are the raw numbers the findings were derived from
type Metrics struct {
	TitleLength       int     `json:"titleLength" yaml:"titleLength"`
	DescriptionLength int     `json:"descriptionLength" yaml:"descriptionLength"`
	WordCount         int     `json:"wordCount" yaml:"wordCount"`
	KeywordCount      int     `json:"keywordCount" yaml:"keywordCount"`
	KeywordTarget     int     `json:"keywordTarget" yaml:"keywordTarget"`
	KeywordDensity    float64 `json:"keywordDensity" yaml:"keywordDensity"`
	Images            int     `json:"images" yaml:"images"`
	InternalLinks     int     `json:"internalLinks" yaml:"internalLinks"`
	ExternalLinks     int     `json:"externalLinks" yaml:"externalLinks"`
	Headings          int     `json:"headings" yaml:"headings"`
}

// Report is the ordered result of one analysis run
type Report struct {
	Keyword     string    `json:"keyword" yaml:"keyword"`
	Domain      string    `json:"domain" yaml:"domain"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Metrics     Metrics   `json:"metrics" yaml:"metrics"`
	Findings    []Finding `json:"findings" yaml:"findings"`
}

// ByCategory returns the findings of one category in report order
func (r *Report) ByCategory(c Category) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Category == c {
			out = append(out, f)
		}
	}
	return out
}

// Find returns the first finding with the given category and check
func (r *Report) Find(c Category, check string) (Finding, bool) {
	for _, f := range r.Findings {
		if f.Category == c && f.Check == check {
			return f, true
		}
	}
	return Finding{}, false
}

// Categories returns the categories present in the report, in order
func (r *Report) Categories() []Category {
	seen := make(map[Category]bool)
	var out []Category
	for _, f := range r.Findings {
		if !seen[f.Category] {
			seen[f.Category] = true
			out = append(out, f.Category)
		}
	}
	return out
}

// Worst returns the most severe verdict in the report
func (r *Report) Worst() Severity {
	worst := SeverityInfo
	for _, f := range r.Findings {
		if f.Severity > worst {
			worst = f.Severity
		}
	}
	return worst
}

// Counts tallies findings per severity
func (r *Report) Counts() map[Severity]int {
	counts := make(map[Severity]int, len(severityNames))
	for _, f := range r.Findings {
		counts[f.Severity]++
	}
	return counts
}
