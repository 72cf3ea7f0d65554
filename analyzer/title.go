package analyzer

import (
	"fmt"
	"unicode/utf8"
)

// MaxTitleLength is the number of characters search engines typically display
const MaxTitleLength = 60

// AnalyzeTitle checks the title length and where the keyword sits in it.
func AnalyzeTitle(title string, kw *Matcher) []Finding {
	length := utf8.RuneCountInString(title)

	lengthFinding := Finding{
		Category: CategoryTitle,
		Check:    "length",
		Severity: SeverityPass,
		Message:  fmt.Sprintf("Length of title: %d characters.", length),
		Evidence: []string{title},
	}
	if length > MaxTitleLength {
		lengthFinding.Severity = SeverityFail
		lengthFinding.Message = fmt.Sprintf("Length of title: %d characters, over the %d character limit.", length, MaxTitleLength)
	}

	placement := Finding{
		Category: CategoryTitle,
		Check:    "placement",
	}
	end := kw.MatchEnd(title)
	switch {
	case end < 0:
		placement.Severity = SeverityFail
		placement.Message = "The keyword does not appear in the title."
	case 2*end <= length:
		// end <= length/2 without integer truncation
		placement.Severity = SeverityPass
		placement.Message = "The focus keyword is in the title and placed near the beginning."
	default:
		placement.Severity = SeverityPass
		placement.Message = "The focus keyword is in the title."
	}

	return []Finding{lengthFinding, placement}
}
