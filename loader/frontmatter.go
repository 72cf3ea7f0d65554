package loader

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/seo-optimizer/onpage/analyzer"
)

// FrontMatter holds the metadata block of a document. Lookups ignore key case.
type FrontMatter map[string]any

// ParseFrontMatter splits source into its front matter and the Markdown body.
// Delimited YAML, TOML and JSON blocks are recognised, and so are undelimited
// "Key: value" metadata lines at the top of the file. A source without front
// matter yields an empty FrontMatter.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var data map[string]any
	body, err := frontmatter.Parse(bytes.NewReader(source), &data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse front matter: %w", err)
	}
	if len(data) == 0 && bytes.Equal(body, source) {
		fm, rest := parseMetaLines(source)
		return fm, rest, nil
	}

	fm := make(FrontMatter, len(data))
	for key, value := range data {
		fm[strings.ToLower(key)] = value
	}
	return fm, body, nil
}

var (
	metaLine         = regexp.MustCompile(`^[ ]{0,3}([A-Za-z0-9_-]+):\s*(.*)$`)
	metaContinuation = regexp.MustCompile(`^[ ]{4,}(.*)$`)
	metaEnd          = regexp.MustCompile(`^(-{3}|\.{3})(\s.*)?$`)
)

// parseMetaLines reads a leading block of "Key: value" lines. Keys are
// lowercased, every value is a list, and lines indented by four or more
// spaces continue the previous key. The block ends at the first blank line,
// at a "---" or "..." line, or at the first line that is not metadata.
func parseMetaLines(source []byte) (FrontMatter, []byte) {
	fm := FrontMatter{}
	rest := source
	key := ""

	for len(rest) > 0 {
		line, next, _ := bytes.Cut(rest, []byte("\n"))
		text := strings.TrimRight(string(line), "\r")

		if strings.TrimSpace(text) == "" || metaEnd.MatchString(text) {
			rest = next
			break
		}
		if m := metaLine.FindStringSubmatch(text); m != nil {
			key = strings.ToLower(m[1])
			values, _ := fm[key].([]string)
			fm[key] = append(values, strings.TrimSpace(m[2]))
		} else if m := metaContinuation.FindStringSubmatch(text); m != nil && key != "" {
			fm[key] = append(fm[key].([]string), strings.TrimSpace(m[1]))
		} else {
			break
		}
		rest = next
	}

	if len(fm) == 0 {
		return fm, source
	}
	return fm, rest
}

// First returns the field as a string. List values yield their first item.
func (fm FrontMatter) First(field string) (string, bool) {
	value, ok := fm[strings.ToLower(field)]
	if !ok || value == nil {
		return "", false
	}
	switch v := value.(type) {
	case string:
		return v, true
	case []any:
		if len(v) == 0 {
			return "", false
		}
		return fmt.Sprint(v[0]), true
	case []string:
		if len(v) == 0 {
			return "", false
		}
		return v[0], true
	default:
		return fmt.Sprint(v), true
	}
}

// Keyword returns the focus keyword: the first comma-separated entry of field
func (fm FrontMatter) Keyword(field string) (string, error) {
	value, ok := fm.First(field)
	if !ok {
		return "", &analyzer.FrontMatterFieldError{Field: field}
	}
	first, _, _ := strings.Cut(value, ",")
	return strings.TrimSpace(first), nil
}

// TitleSource records where a title was found
type TitleSource int

const (
	TitleUnresolved TitleSource = iota
	TitleFromOverride
	TitleFromFrontMatter
	TitleFromHeading
)

func (s TitleSource) String() string {
	switch s {
	case TitleFromOverride:
		return "override"
	case TitleFromFrontMatter:
		return "front matter"
	case TitleFromHeading:
		return "first heading"
	default:
		return "unresolved"
	}
}

// TitleResolution is the outcome of title lookup
type TitleResolution struct {
	Title  string
	Source TitleSource
}

// Resolved reports whether a title was found
func (r TitleResolution) Resolved() bool {
	return r.Source != TitleUnresolved
}

// ResolveTitle tries the override, then the front matter title, then the first h1.
func ResolveTitle(override string, fm FrontMatter, heading string) TitleResolution {
	if strings.TrimSpace(override) != "" {
		return TitleResolution{Title: override, Source: TitleFromOverride}
	}
	if title, ok := fm.First("title"); ok && strings.TrimSpace(title) != "" {
		return TitleResolution{Title: title, Source: TitleFromFrontMatter}
	}
	if strings.TrimSpace(heading) != "" {
		return TitleResolution{Title: heading, Source: TitleFromHeading}
	}
	return TitleResolution{Source: TitleUnresolved}
}
