package analyzer

import "fmt"

// ImagePartition splits images by whether their alt text carries the keyword
type ImagePartition struct {
	WithKeyword    []Image
	WithoutKeyword []Image
}

// PartitionImages keeps the original order inside each partition.
// An image without alt text counts as not carrying the keyword.
func PartitionImages(images []Image, kw *Matcher) ImagePartition {
	var p ImagePartition
	for _, img := range images {
		if kw.Contains(img.Alt) {
			p.WithKeyword = append(p.WithKeyword, img)
		} else {
			p.WithoutKeyword = append(p.WithoutKeyword, img)
		}
	}
	return p
}

// AnalyzeImages checks that the content has images and reports alt text keyword usage
func AnalyzeImages(images []Image, kw *Matcher) []Finding {
	if len(images) == 0 {
		return []Finding{{
			Category: CategoryImages,
			Check:    "count",
			Severity: SeverityFail,
			Message:  "There are no identifiable images.",
		}}
	}

	findings := []Finding{{
		Category: CategoryImages,
		Check:    "count",
		Severity: SeverityPass,
		Message:  fmt.Sprintf("%d image(s) were found in your content. Good job!", len(images)),
	}}

	p := PartitionImages(images, kw)
	if len(p.WithKeyword) > 0 {
		findings = append(findings, Finding{
			Category: CategoryImages,
			Check:    "with-keyword",
			Severity: SeverityPass,
			Message:  "Images with keyword in alt tag",
			Evidence: renderAll(p.WithKeyword),
		})
	}
	if len(p.WithoutKeyword) > 0 {
		findings = append(findings, Finding{
			Category: CategoryImages,
			Check:    "without-keyword",
			Severity: SeverityWarning,
			Message:  "Images without the keyword in alt tag",
			Evidence: renderAll(p.WithoutKeyword),
		})
	}
	return findings
}

func renderAll[T fmt.Stringer](items []T) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.String()
	}
	return out
}
