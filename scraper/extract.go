package scraper

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/seotest/models"
	"github.com/use-agent/seotest/simhash"
	"golang.org/x/net/html"
)

const contentSelector = "h1, h2, h3, h4, h5, h6, p"

// ExtractOptions tunes Extract.
type ExtractOptions struct {
	// DuplicateThreshold is the simhash distance at or below which a content
	// block is dropped as a near duplicate of an earlier one. Negative keeps
	// every block.
	DuplicateThreshold int
}

// DefaultExtractOptions mirrors the config defaults.
var DefaultExtractOptions = ExtractOptions{DuplicateThreshold: 3}

// Extract parses rawHTML and collects the page elements the test-data
// transformer consumes. sourceURL resolves relative links and decides which
// links are internal. Every element carries a selector that matches only it.
func Extract(rawHTML, sourceURL string, opts ExtractOptions) (*models.ScrapeResult, error) {
	base, err := url.Parse(sourceURL)
	if err != nil || base.Host == "" {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput, "source URL must be absolute", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeExtraction, "parse HTML", err)
	}

	e := &extractor{
		result: models.NewScrapeResult(),
		sel:    newSelectorBuilder(doc.Nodes[0]),
		base:   base,
		seen:   make(map[string]struct{}),
		opts:   opts,
	}
	e.metatags(doc)
	e.images(doc)
	e.content(doc)
	e.links(doc)

	if e.skipped > 0 {
		slog.Debug("elements skipped without a unique selector", "url", sourceURL, "count", e.skipped)
	}
	return e.result, nil
}

type extractor struct {
	result  *models.ScrapeResult
	sel     *selectorBuilder
	base    *url.URL
	seen    map[string]struct{}
	opts    ExtractOptions
	skipped int
}

func (e *extractor) selectorFor(n *html.Node, preferred ...string) (string, bool) {
	s, ok := e.sel.For(n, preferred...)
	if !ok {
		e.skipped++
	}
	return s, ok
}

// metatags collects <meta name|property content> elements.
func (e *extractor) metatags(doc *goquery.Document) {
	doc.Find("meta[content]").Each(func(_ int, s *goquery.Selection) {
		content, _ := s.Attr("content")
		if strings.TrimSpace(content) == "" {
			return
		}

		var preferred []string
		if name, ok := s.Attr("name"); ok && name != "" {
			preferred = append(preferred, attrSelector("meta", "name", name))
		} else if prop, ok := s.Attr("property"); ok && prop != "" {
			preferred = append(preferred, attrSelector("meta", "property", prop))
		} else {
			return
		}

		sel, ok := e.selectorFor(s.Nodes[0], preferred...)
		if !ok {
			return
		}
		e.result.Metatags = append(e.result.Metatags, models.Metatag{
			Selector: models.Str(sel),
			Content:  models.Str(content),
		})
	})
}

// images collects every <img>; a missing alt is recorded as empty.
func (e *extractor) images(doc *goquery.Document) {
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		var preferred []string
		if src, ok := s.Attr("src"); ok && src != "" {
			preferred = append(preferred, attrSelector("img", "src", src))
		}
		sel, ok := e.selectorFor(s.Nodes[0], preferred...)
		if !ok {
			return
		}
		alt, _ := s.Attr("alt")
		e.result.Images = append(e.result.Images, models.ImageTag{
			Selector: models.Str(sel),
			Alt:      models.Str(strings.TrimSpace(alt)),
		})
	})
}

// content collects headings and paragraphs with visible text, dropping near
// duplicates.
func (e *extractor) content(doc *goquery.Document) {
	var index *simhash.Index
	if e.opts.DuplicateThreshold >= 0 {
		index = simhash.NewIndex(e.opts.DuplicateThreshold)
	}

	doc.Find(contentSelector).Each(func(_ int, s *goquery.Selection) {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text == "" {
			return
		}
		if index != nil && !index.Add(text) {
			return
		}
		sel, ok := e.selectorFor(s.Nodes[0])
		if !ok {
			return
		}
		e.result.Content = append(e.result.Content, models.Block{
			Selector: models.Str(sel),
			Content:  models.Str(text),
		})
	})
}

// links splits http(s) anchors into internal and external by host,
// deduplicated on the resolved URL.
func (e *extractor) links(doc *goquery.Document) {
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}

		resolved, err := e.base.Parse(href)
		if err != nil {
			return
		}
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}
		resolved.Fragment, resolved.RawFragment = "", ""

		abs := resolved.String()
		if _, ok := e.seen[abs]; ok {
			return
		}
		e.seen[abs] = struct{}{}

		link := models.LinkTag{Href: models.Str(abs)}
		if strings.EqualFold(resolved.Hostname(), e.base.Hostname()) {
			e.result.InternalLinks = append(e.result.InternalLinks, link)
		} else {
			e.result.ExternalLinks = append(e.result.ExternalLinks, link)
		}
	})
}
