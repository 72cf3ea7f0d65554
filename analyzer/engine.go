package analyzer

import (
	"context"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
)

// Run checks the preconditions, runs every analyzer concurrently and
// assembles the findings in category order.
func Run(ctx context.Context, doc Document, cfg Config) (*Report, error) {
	title := doc.Title
	if cfg.TitleOverride != "" {
		title = cfg.TitleOverride
	}
	if strings.TrimSpace(title) == "" {
		return nil, ErrMissingTitle
	}
	if len(doc.Paragraphs) == 0 {
		return nil, ErrMissingContent
	}
	kw, err := NewMatcher(cfg.Keyword)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Domain) == "" {
		return nil, ErrMissingDomain
	}
	domain, err := NewDomainMatcher(cfg.Domain)
	if err != nil {
		return nil, err
	}
	words := WordCount(doc.Paragraphs)
	if words == 0 {
		return nil, ErrZeroWordCount
	}

	description, source := ResolveDescription(doc, cfg)
	text := doc.text()

	var (
		slots   = make([][]Finding, len(Categories))
		density Density
	)
	g, gctx := errgroup.WithContext(ctx)
	run := func(c Category, fn func() ([]Finding, error)) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			findings, err := fn()
			if err != nil {
				return err
			}
			slots[c] = findings
			return nil
		})
	}

	run(CategoryTitle, func() ([]Finding, error) {
		return AnalyzeTitle(title, kw), nil
	})
	run(CategoryMetaDescription, func() ([]Finding, error) {
		return AnalyzeMetaDescription(description, source, kw), nil
	})
	run(CategoryWordCount, func() ([]Finding, error) {
		return AnalyzeWordCount(words), nil
	})
	run(CategoryKeywordDensity, func() ([]Finding, error) {
		findings, d, err := AnalyzeKeywordDensity(words, text, kw)
		density = d
		return findings, err
	})
	run(CategoryImages, func() ([]Finding, error) {
		return AnalyzeImages(doc.Images, kw), nil
	})
	run(CategoryLinks, func() ([]Finding, error) {
		return AnalyzeLinks(doc.Links, domain), nil
	})
	run(CategoryHeadings, func() ([]Finding, error) {
		return AnalyzeHeadings(doc.Headings, kw), nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		Keyword:     cfg.Keyword,
		Domain:      cfg.Domain,
		Title:       title,
		Description: description,
		Findings:    make([]Finding, 0, 16),
	}
	for _, c := range Categories {
		report.Findings = append(report.Findings, slots[c]...)
	}

	links := PartitionLinks(doc.Links, domain)
	headings := 0
	for _, level := range HeadingLevels {
		headings += len(doc.Headings[level])
	}
	report.Metrics = Metrics{
		TitleLength:       utf8.RuneCountInString(title),
		DescriptionLength: utf8.RuneCountInString(description),
		WordCount:         words,
		KeywordCount:      density.Count,
		KeywordTarget:     density.Target,
		KeywordDensity:    density.Percent(),
		Images:            len(doc.Images),
		InternalLinks:     len(links.Internal),
		ExternalLinks:     len(links.External),
		Headings:          headings,
	}
	return report, nil
}
