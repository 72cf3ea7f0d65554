package analyzer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Matcher performs literal, case-insensitive searches for a term.
// The term is escaped before compilation so regexp metacharacters match themselves.
type Matcher struct {
	term string
	re   *regexp.Regexp
}

// NewMatcher compiles a case-insensitive literal matcher for a focus keyword
func NewMatcher(term string) (*Matcher, error) {
	return newMatcher(term, "keyword", ErrInvalidKeywordPattern)
}

// NewDomainMatcher compiles a matcher for the domain that marks internal links
func NewDomainMatcher(domain string) (*Matcher, error) {
	return newMatcher(domain, "domain", ErrInvalidDomain)
}

func newMatcher(term, what string, invalid error) (*Matcher, error) {
	if strings.TrimSpace(term) == "" {
		return nil, fmt.Errorf("%w: %s is empty", invalid, what)
	}
	if !utf8.ValidString(term) {
		return nil, fmt.Errorf("%w: %s is not valid UTF-8", invalid, what)
	}
	for _, r := range term {
		if unicode.IsControl(r) {
			return nil, fmt.Errorf("%w: %s %q contains control characters", invalid, what, term)
		}
	}

	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(term))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", invalid, err)
	}
	return &Matcher{term: term, re: re}, nil
}

// Term returns the original, unescaped term
func (m *Matcher) Term() string {
	return m.term
}

// Contains reports whether s contains the term
func (m *Matcher) Contains(s string) bool {
	if s == "" {
		return false
	}
	return m.re.MatchString(s)
}

// MatchEnd returns the rune offset just past the first match in s,
// or -1 when there is no match.
func (m *Matcher) MatchEnd(s string) int {
	loc := m.re.FindStringIndex(s)
	if loc == nil {
		return -1
	}
	return utf8.RuneCountInString(s[:loc[1]])
}

// CountNodes returns how many of the given text nodes contain the term
func (m *Matcher) CountNodes(nodes []string) int {
	count := 0
	for _, n := range nodes {
		if m.Contains(n) {
			count++
		}
	}
	return count
}
