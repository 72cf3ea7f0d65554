package analyzer

import (
	"fmt"
	"strconv"
)

// RecommendedLinks is the number of links SEO guides ask for
const RecommendedLinks = 3

// LinkPartition splits links into internal and external
type LinkPartition struct {
	Internal []Link
	External []Link
}

// PartitionLinks classifies a link as internal when its href contains the domain.
// A missing href is external.
func PartitionLinks(links []Link, domain *Matcher) LinkPartition {
	var p LinkPartition
	for _, l := range links {
		if domain.Contains(l.Href) {
			p.Internal = append(p.Internal, l)
		} else {
			p.External = append(p.External, l)
		}
	}
	return p
}

// AnalyzeLinks reports the overall, internal and external link counts
func AnalyzeLinks(links []Link, domain *Matcher) []Finding {
	overall := Finding{
		Category: CategoryLinks,
		Check:    "count",
	}
	if len(links) == 0 {
		overall.Severity = SeverityWarning
		overall.Message = fmt.Sprintf("SEO best practices recommend %d links and there are none in your content.", RecommendedLinks)
	} else {
		overall.Severity = SeverityPass
		overall.Message = fmt.Sprintf("%d links were found in your content.", len(links))
		overall.Evidence = []string{strconv.Itoa(len(links))}
	}

	p := PartitionLinks(links, domain)

	internal := Finding{
		Category: CategoryLinks,
		Check:    "internal",
	}
	if len(p.Internal) < 1 {
		internal.Severity = SeverityWarning
		internal.Message = "There are no internal links."
	} else {
		internal.Severity = SeverityPass
		internal.Message = fmt.Sprintf("%d internal links exist in your content.", len(p.Internal))
		internal.Evidence = renderAll(p.Internal)
	}

	external := Finding{
		Category: CategoryLinks,
		Check:    "external",
	}
	switch n := len(p.External); {
	case n < 1:
		external.Severity = SeverityWarning
		external.Message = "There are no external links."
	case n < RecommendedLinks:
		external.Severity = SeverityWarning
		external.Message = fmt.Sprintf("%d external links exist.", n)
	default:
		external.Severity = SeverityPass
		external.Message = fmt.Sprintf("%d external links exist.", n)
	}
	if len(p.External) > 0 {
		external.Evidence = renderAll(p.External)
	}

	return []Finding{overall, internal, external}
}
