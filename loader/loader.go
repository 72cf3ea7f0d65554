// Package loader turns a Markdown source into the document and configuration
// consumed by the analyzer.
package loader

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/seo-optimizer/onpage/analyzer"
)

// Options selects how the keyword, title and description are found.
// In front matter mode KeywordField names the field holding the keyword list;
// otherwise Keyword is used as is.
type Options struct {
	FrontMatter      bool
	KeywordField     string
	DescriptionField string

	Keyword     string
	Title       string
	Description string

	Domain string
}

// Load parses source and returns the document and analysis configuration
func Load(source []byte, opts Options) (analyzer.Document, analyzer.Config, error) {
	var (
		doc analyzer.Document
		cfg = analyzer.Config{
			Domain:        opts.Domain,
			TitleOverride: opts.Title,
		}
	)

	fm, body, err := ParseFrontMatter(source)
	if opts.FrontMatter {
		if err != nil {
			return doc, cfg, err
		}

		keyword, err := fm.Keyword(opts.KeywordField)
		if err != nil {
			return doc, cfg, err
		}
		cfg.Keyword = keyword

		if opts.DescriptionField != "" {
			description, ok := fm.First(opts.DescriptionField)
			if !ok {
				return doc, cfg, &analyzer.FrontMatterFieldError{Field: opts.DescriptionField}
			}
			doc.MetaOverride = description
		}
	} else {
		// metadata is stripped but not consulted
		if err != nil {
			body = source
		}
		fm = nil
		cfg.Keyword = opts.Keyword
		cfg.DescriptionOverride = opts.Description
	}

	html, err := Render(body)
	if err != nil {
		return doc, cfg, err
	}
	page, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return doc, cfg, fmt.Errorf("failed to parse rendered markdown: %w", err)
	}

	extract(page, &doc)
	doc.Title = ResolveTitle(opts.Title, fm, firstHeading(page)).Title

	return doc, cfg, nil
}

// LoadFile reads path and loads it
func LoadFile(path string, opts Options) (analyzer.Document, analyzer.Config, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return analyzer.Document{}, analyzer.Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Load(source, opts)
}

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithUnsafe(),
		),
	)
}

// Render converts Markdown to HTML. Inline HTML is kept so raw <img> and <a> tags are analyzed too.
func Render(markdown []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := newMarkdown().Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}
	return buf.Bytes(), nil
}

func extract(page *goquery.Document, doc *analyzer.Document) {
	page.Find("p").Each(func(_ int, s *goquery.Selection) {
		doc.Paragraphs = append(doc.Paragraphs, strings.TrimSpace(s.Text()))
	})

	doc.Headings = make(map[int][]string, len(analyzer.HeadingLevels))
	for _, level := range analyzer.HeadingLevels {
		page.Find(fmt.Sprintf("h%d", level)).Each(func(_ int, s *goquery.Selection) {
			doc.Headings[level] = append(doc.Headings[level], strings.TrimSpace(s.Text()))
		})
	}

	page.Find("img").Each(func(_ int, s *goquery.Selection) {
		alt, _ := s.Attr("alt")
		src, _ := s.Attr("src")
		doc.Images = append(doc.Images, analyzer.Image{Alt: alt, Source: src})
	})

	page.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		doc.Links = append(doc.Links, analyzer.Link{Href: href, Text: strings.TrimSpace(s.Text())})
	})

	doc.TextNodes = textNodes(page)
}

// textNodes returns every non-blank text node in document order
func textNodes(page *goquery.Document) []string {
	var nodes []string
	var walk func(s *goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, child *goquery.Selection) {
			if goquery.NodeName(child) == "#text" {
				if text := strings.TrimSpace(child.Text()); text != "" {
					nodes = append(nodes, text)
				}
				return
			}
			walk(child)
		})
	}
	walk(page.Selection)
	return nodes
}

func firstHeading(page *goquery.Document) string {
	return strings.TrimSpace(page.Find("h1").First().Text())
}
