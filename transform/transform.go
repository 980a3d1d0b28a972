// Package transform turns scraped page elements into test-data records for
// the page-edit script.
package transform

import (
	"github.com/use-agent/seotest/models"
)

const (
	// Marker flags an edited value. It is prepended to text values and
	// appended to link hrefs.
	Marker = "[UPDATED] "

	// ContentSelectorSuffix is appended to a content selector to target the
	// heading the edit script inserts.
	ContentSelectorSuffix = " h1"

	// keywordAttribute is the <meta> attribute a keyword case rewrites.
	keywordAttribute = "content"
)

// Transform builds one test case per scraped element, grouped by category in
// the order metatags, images, content, internal links, external links, each
// group keeping input order.
//
// The whole result is validated before any case is built; a missing category
// or element field yields an *models.InputError and no cases.
func Transform(result *models.ScrapeResult, id, idPage string) ([]models.TestCase, error) {
	if err := Validate(result); err != nil {
		return nil, err
	}

	common := models.DefaultCommon(id, idPage)
	cases := make([]models.TestCase, 0, result.Len())

	for _, m := range result.Metatags {
		cases = append(cases, models.KeywordCase{
			Selector:          *m.Selector,
			Old:               *m.Content,
			New:               Marker + *m.Content,
			AttributeToUpdate: keywordAttribute,
			Common:            common,
		})
	}
	for _, img := range result.Images {
		cases = append(cases, models.ImageCase{
			Selector: *img.Selector,
			New:      Marker + *img.Alt,
			Common:   common,
		})
	}
	for _, b := range result.Content {
		cases = append(cases, models.ContentCase{
			Old:         *b.Content,
			New:         Marker + *b.Content,
			Selector:    *b.Selector,
			NewSelector: *b.Selector + ContentSelectorSuffix,
			Common:      common,
		})
	}
	for _, l := range result.InternalLinks {
		cases = append(cases, models.InternalLinkCase{LinkEdit: linkEdit(*l.Href, common)})
	}
	for _, l := range result.ExternalLinks {
		cases = append(cases, models.ExternalLinkCase{LinkEdit: linkEdit(*l.Href, common)})
	}

	return cases, nil
}

// TransformDocument unwraps the {"result": ...} envelope and calls Transform.
func TransformDocument(doc *models.ScrapeDocument, id, idPage string) ([]models.TestCase, error) {
	if doc == nil || doc.Result == nil {
		return nil, models.MissingCategory("result")
	}
	return Transform(doc.Result, id, idPage)
}

// Link hrefs get the marker as a suffix with no separator.
func linkEdit(href string, common models.Common) models.LinkEdit {
	return models.LinkEdit{Old: href, New: href + Marker, Common: common}
}

// Validate reports the first missing category or element field, scanning
// categories in output order.
func Validate(result *models.ScrapeResult) error {
	if result == nil {
		return models.MissingCategory("result")
	}

	switch {
	case result.Metatags == nil:
		return models.MissingCategory(models.CategoryMetatags)
	case result.Images == nil:
		return models.MissingCategory(models.CategoryImages)
	case result.Content == nil:
		return models.MissingCategory(models.CategoryContent)
	case result.InternalLinks == nil:
		return models.MissingCategory(models.CategoryInternalLinks)
	case result.ExternalLinks == nil:
		return models.MissingCategory(models.CategoryExternalLinks)
	}

	for i, m := range result.Metatags {
		if m.Selector == nil {
			return models.MissingField(models.CategoryMetatags, i, "selector")
		}
		if m.Content == nil {
			return models.MissingField(models.CategoryMetatags, i, "content")
		}
	}
	for i, img := range result.Images {
		if img.Selector == nil {
			return models.MissingField(models.CategoryImages, i, "selector")
		}
		if img.Alt == nil {
			return models.MissingField(models.CategoryImages, i, "alt")
		}
	}
	for i, b := range result.Content {
		if b.Selector == nil {
			return models.MissingField(models.CategoryContent, i, "selector")
		}
		if b.Content == nil {
			return models.MissingField(models.CategoryContent, i, "content")
		}
	}
	for i, l := range result.InternalLinks {
		if l.Href == nil {
			return models.MissingField(models.CategoryInternalLinks, i, "href")
		}
	}
	for i, l := range result.ExternalLinks {
		if l.Href == nil {
			return models.MissingField(models.CategoryExternalLinks, i, "href")
		}
	}
	return nil
}
