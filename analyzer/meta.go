package analyzer

import (
	"fmt"
	"unicode/utf8"
)

// Recommended meta description bounds, in characters
const (
	MinDescriptionLength = 50
	MaxDescriptionLength = 160
)

// DescriptionSource records where the meta description came from
type DescriptionSource int

const (
	DescriptionFromConfig DescriptionSource = iota
	DescriptionFromFrontMatter
	DescriptionFromFirstParagraph
)

func (s DescriptionSource) String() string {
	switch s {
	case DescriptionFromConfig:
		return "description override"
	case DescriptionFromFrontMatter:
		return "front matter description"
	default:
		return "first paragraph"
	}
}

// ResolveDescription picks the meta description: config override, then the
// document's front matter override, then the first 160 characters of the first paragraph.
func ResolveDescription(doc Document, cfg Config) (string, DescriptionSource) {
	if cfg.DescriptionOverride != "" {
		return cfg.DescriptionOverride, DescriptionFromConfig
	}
	if doc.MetaOverride != "" {
		return doc.MetaOverride, DescriptionFromFrontMatter
	}
	if len(doc.Paragraphs) == 0 {
		return "", DescriptionFromFirstParagraph
	}
	return truncateRunes(doc.Paragraphs[0], MaxDescriptionLength), DescriptionFromFirstParagraph
}

// AnalyzeMetaDescription checks the description length and keyword presence.
func AnalyzeMetaDescription(description string, source DescriptionSource, kw *Matcher) []Finding {
	length := utf8.RuneCountInString(description)

	lengthFinding := Finding{
		Category: CategoryMetaDescription,
		Check:    "length",
		Severity: SeverityPass,
		Message:  fmt.Sprintf("Meta description (%s) is %d characters.", source, length),
		Evidence: []string{description},
	}
	if length < MinDescriptionLength || length > MaxDescriptionLength {
		lengthFinding.Severity = SeverityWarning
		lengthFinding.Message = fmt.Sprintf("Meta description (%s) is %d characters, outside the recommended %d - %d.",
			source, length, MinDescriptionLength, MaxDescriptionLength)
	}

	keyword := Finding{
		Category: CategoryMetaDescription,
		Check:    "keyword",
	}
	if kw.Contains(description) {
		keyword.Severity = SeverityPass
		keyword.Message = fmt.Sprintf("The focus keyword was found in the %s.", source)
	} else {
		keyword.Severity = SeverityFail
		keyword.Message = fmt.Sprintf("The focus keyword was not found in the first %d characters of the %s.", MaxDescriptionLength, source)
	}

	return []Finding{lengthFinding, keyword}
}

// truncateRunes truncates a string to maxLen runes (not bytes).
func truncateRunes(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen])
}
