package analyzer

import (
	"errors"
	"fmt"
)

// Precondition failures. Each one aborts the run before a report is built.
var (
	ErrMissingTitle            = errors.New("no title could be resolved from an override, front matter or a top-level heading")
	ErrMissingContent          = errors.New("the content has no paragraphs")
	ErrMissingFrontMatterField = errors.New("front matter field not found")
	ErrInvalidKeywordPattern   = errors.New("invalid focus keyword")
	ErrZeroWordCount           = errors.New("word count is zero, keyword density is undefined")
	ErrMissingDomain           = errors.New("no domain configured for link classification")
	ErrInvalidDomain           = errors.New("invalid domain")
)

var errorKinds = []struct {
	err  error
	kind string
}{
	{ErrMissingTitle, "MissingTitleError"},
	{ErrMissingContent, "MissingContentError"},
	{ErrMissingFrontMatterField, "MissingFrontMatterFieldError"},
	{ErrInvalidKeywordPattern, "InvalidKeywordPatternError"},
	{ErrZeroWordCount, "ZeroWordCountError"},
	{ErrMissingDomain, "MissingDomainError"},
	{ErrInvalidDomain, "InvalidDomainError"},
}

// FrontMatterFieldError reports a front matter lookup that found nothing
type FrontMatterFieldError struct {
	Field string
}

func (e *FrontMatterFieldError) Error() string {
	return fmt.Sprintf("front matter field %q not found", e.Field)
}

func (e *FrontMatterFieldError) Unwrap() error {
	return ErrMissingFrontMatterField
}

// ErrorKind returns the stable kind name of a precondition error,
// or an empty string for any other error.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return ""
}

// IsPrecondition reports whether err is one of the precondition failures
func IsPrecondition(err error) bool {
	return ErrorKind(err) != ""
}
