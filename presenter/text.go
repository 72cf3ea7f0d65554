package presenter

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/seo-optimizer/onpage/analyzer"
)

var linkSubsections = map[string]string{
	"internal": "Internal Links",
	"external": "External Links",
}

// subsection returns the sub-heading a finding is listed under, if any
func subsection(f analyzer.Finding) (string, bool) {
	switch f.Category {
	case analyzer.CategoryImages:
		if f.Check != "count" {
			return f.Message, true
		}
	case analyzer.CategoryLinks:
		title, ok := linkSubsections[f.Check]
		return title, ok
	case analyzer.CategoryHeadings:
		if f.Check != "structure" {
			return f.Message, true
		}
	}
	return "", false
}

func rule(ch byte) string {
	return strings.Repeat(string(ch), lineWidth)
}

func (p *Presenter) renderText(report *analyzer.Report) error {
	w := bufio.NewWriter(p.w)

	fmt.Fprintf(w, "On-page SEO review for the focus keyword '%s' (%s)\n", report.Keyword, report.Domain)

	for _, category := range report.Categories() {
		findings := report.ByCategory(category)

		fmt.Fprintf(w, "\n%s\n%s\n", category.Title(), rule('='))

		for _, f := range findings {
			if _, ok := subsection(f); ok {
				continue
			}
			if f.Check == "length" {
				for _, e := range f.Evidence {
					fmt.Fprintln(w, e)
				}
			}
			fmt.Fprintln(w, p.paint(severityColor(f.Severity), f.Message))
		}

		explanation := analyzer.Rationale(category)
		if explanation.Text != "" {
			fmt.Fprintf(w, "\nSEO Behind This Section: %s\n", explanation.Text)
			if len(explanation.References) > 0 {
				fmt.Fprintf(w, "Reference(s): %s\n", strings.Join(explanation.References, " and "))
			}
		}

		for _, f := range findings {
			title, ok := subsection(f)
			if !ok {
				continue
			}
			fmt.Fprintf(w, "\n%s\n%s\n", title, rule('*'))
			switch f.Category {
			case analyzer.CategoryImages:
				for _, e := range f.Evidence {
					fmt.Fprintln(w, p.paint(severityColor(f.Severity), e))
				}
			case analyzer.CategoryLinks:
				fmt.Fprintln(w, p.paint(severityColor(f.Severity), f.Message))
				for _, e := range f.Evidence {
					fmt.Fprintln(w, e)
				}
			default:
				for _, e := range f.Evidence {
					fmt.Fprintln(w, e)
				}
			}
		}
	}

	counts := report.Counts()
	fmt.Fprintf(w, "\n%s\nSummary: %s, %s, %s\n", rule('='),
		p.paint(colorGreen, fmt.Sprintf("%d passed", counts[analyzer.SeverityPass])),
		p.paint(colorYellow, fmt.Sprintf("%d warnings", counts[analyzer.SeverityWarning])),
		p.paint(colorRed, fmt.Sprintf("%d failed", counts[analyzer.SeverityFail])))

	return w.Flush()
}
