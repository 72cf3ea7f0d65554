package analyzer

import "fmt"

// HeadingPartition splits the headings of one level by keyword presence
type HeadingPartition struct {
	Level          int
	WithKeyword    []string
	WithoutKeyword []string
}

// Total returns the number of headings at this level
func (p HeadingPartition) Total() int {
	return len(p.WithKeyword) + len(p.WithoutKeyword)
}

func partitionLevel(level int, headings []string, kw *Matcher) HeadingPartition {
	p := HeadingPartition{Level: level}
	for _, h := range headings {
		if kw.Contains(h) {
			p.WithKeyword = append(p.WithKeyword, h)
		} else {
			p.WithoutKeyword = append(p.WithoutKeyword, h)
		}
	}
	return p
}

// PartitionHeadings partitions every sub-heading level
func PartitionHeadings(headings map[int][]string, kw *Matcher) map[int]HeadingPartition {
	out := make(map[int]HeadingPartition, len(HeadingLevels))
	for _, level := range HeadingLevels {
		out[level] = partitionLevel(level, headings[level], kw)
	}
	return out
}

// AnalyzeHeadings lists sub-headings with and without the keyword.
// The findings are informational and carry no verdict.
func AnalyzeHeadings(headings map[int][]string, kw *Matcher) []Finding {
	partitions := PartitionHeadings(headings, kw)

	total := 0
	for _, level := range HeadingLevels {
		total += partitions[level].Total()
	}
	if total == 0 {
		return nil
	}

	findings := []Finding{{
		Category: CategoryHeadings,
		Check:    "structure",
		Severity: SeverityInfo,
		Message:  fmt.Sprintf("%d sub-heading(s) found in your content.", total),
	}}
	for _, level := range HeadingLevels {
		p := partitions[level]
		if len(p.WithKeyword) > 0 {
			findings = append(findings, Finding{
				Category: CategoryHeadings,
				Check:    fmt.Sprintf("h%d-with-keyword", level),
				Severity: SeverityInfo,
				Message:  fmt.Sprintf("H%d Heading(s) with Keyword", level),
				Evidence: p.WithKeyword,
			})
		}
		if len(p.WithoutKeyword) > 0 {
			findings = append(findings, Finding{
				Category: CategoryHeadings,
				Check:    fmt.Sprintf("h%d-without-keyword", level),
				Severity: SeverityInfo,
				Message:  fmt.Sprintf("H%d Heading(s) without Keyword", level),
				Evidence: p.WithoutKeyword,
			})
		}
	}
	return findings
}
