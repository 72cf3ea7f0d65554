package analyzer

// Explanation is the reasoning behind a report section
type Explanation struct {
	Text       string
	References []string
}

var rationale = map[Category]Explanation{
	CategoryTitle: {
		Text: "Google typically displays the first 50 - 60 characters and staying under 60 means most of your titles will fully display in SERPs.",
	},
	CategoryMetaDescription: {
		Text: "The focus keyword should appear in the meta description of the page and be 50 - 160 characters.",
		References: []string{
			"https://rankmath.com/kb/score-100-in-tests/#focus-keyword-in-the-meta-description-primary-focus-keyword-only",
			"https://moz.com/learn/seo/meta-description",
		},
	},
	CategoryWordCount: {
		Text:       "SEO best practices are not clear on what search engines consider a good length for content. A minimum of 300 - 500 words is used here.",
		References: []string{"https://rankmath.com/kb/score-100-in-tests/#overall-content-length"},
	},
	CategoryKeywordDensity: {
		Text:       "It is recommended that your focus keyword should appear between 1 - 1.5%.",
		References: []string{"https://rankmath.com/kb/score-100-in-tests/#Keyword%20Density%20."},
	},
	CategoryImages: {
		Text: "Adding media to your content helps improve your SEO standing. At least one image is expected. Add the focus keyword to the alt tag of your images and try to include it in the file name.",
		References: []string{
			"https://rankmath.com/kb/score-100-in-tests/#use-of-media-in-your-posts",
			"https://moz.com/learn/seo/alt-text",
		},
	},
	CategoryLinks: {
		Text: "Providing both internal and external links is a good way for your site to build credibility.",
		References: []string{
			"https://rankmath.com/kb/score-100-in-tests/#linking-to-internal-resources",
			"https://rankmath.com/kb/score-100-in-tests/#linking-to-external-sources",
		},
	},
	CategoryHeadings: {
		Text:       "Using additional sub-headings helps readers and search engines understand the structure of your content.",
		References: []string{"https://rankmath.com/kb/score-100-in-tests/#focus-keyword-in-subheading-primary-and-secondary-focus-keywords"},
	},
}

// Rationale returns the explanation shown under a report section
func Rationale(c Category) Explanation {
	return rationale[c]
}
