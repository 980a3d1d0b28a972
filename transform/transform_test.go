package transform

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/use-agent/seotest/models"
)

func sampleResult() *models.ScrapeResult {
	return &models.ScrapeResult{
		Metatags: []models.Metatag{
			{Selector: models.Str(`meta[name="description"]`), Content: models.Str("Home")},
			{Selector: models.Str(`meta[name="keywords"]`), Content: models.Str("go, seo")},
		},
		Images: []models.ImageTag{
			{Selector: models.Str("#logo"), Alt: models.Str("Logo")},
		},
		Content: []models.Block{
			{Selector: models.Str("body > h1"), Content: models.Str("Welcome")},
			{Selector: models.Str("body > p"), Content: models.Str("Intro")},
		},
		InternalLinks: []models.LinkTag{
			{Href: models.Str("https://example.com/about")},
		},
		ExternalLinks: []models.LinkTag{
			{Href: models.Str("https://other.org/")},
			{Href: models.Str("https://third.net/x")},
		},
	}
}

func TestTransform_LengthAndOrder(t *testing.T) {
	r := sampleResult()
	cases, err := Transform(r, "1", "p1")
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}

	if len(cases) != r.Len() {
		t.Fatalf("got %d cases, want %d", len(cases), r.Len())
	}

	want := []models.Kind{
		models.KindKeyword, models.KindKeyword,
		models.KindImage,
		models.KindContent, models.KindContent,
		models.KindInternalLink,
		models.KindExternalLink, models.KindExternalLink,
	}
	for i, c := range cases {
		if c.Kind() != want[i] {
			t.Errorf("case %d: kind %q, want %q", i, c.Kind(), want[i])
		}
	}

	if got := cases[3].(models.ContentCase).Old; got != "Welcome" {
		t.Errorf("content order: first old = %q, want Welcome", got)
	}
	if got := cases[7].OldValue(); got != "https://third.net/x" {
		t.Errorf("external order: last old = %q", got)
	}
}

func TestTransform_Properties(t *testing.T) {
	cases, err := Transform(sampleResult(), "case-7", "page-3")
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}

	for i, c := range cases {
		common := c.Defaults()
		if common.ID != "case-7" || common.IDPage != "page-3" {
			t.Errorf("case %d: ids = (%q, %q)", i, common.ID, common.IDPage)
		}
		if !common.Status || !common.ForceSet {
			t.Errorf("case %d: status=%v force_set=%v, want both true", i, common.Status, common.ForceSet)
		}

		switch v := c.(type) {
		case models.KeywordCase:
			if v.New != Marker+v.Old {
				t.Errorf("keyword %d: new = %q", i, v.New)
			}
			if v.AttributeToUpdate != "content" {
				t.Errorf("keyword %d: attribute_to_update = %q", i, v.AttributeToUpdate)
			}
		case models.ContentCase:
			if v.New != Marker+v.Old {
				t.Errorf("content %d: new = %q", i, v.New)
			}
			if v.NewSelector != v.Selector+" h1" {
				t.Errorf("content %d: new_selector = %q", i, v.NewSelector)
			}
		case models.ImageCase:
			if v.New != "[UPDATED] Logo" {
				t.Errorf("image %d: new = %q", i, v.New)
			}
		case models.InternalLinkCase, models.ExternalLinkCase:
			if c.NewValue() != c.OldValue()+Marker {
				t.Errorf("link %d: new = %q", i, c.NewValue())
			}
		default:
			t.Errorf("case %d: unexpected type %T", i, c)
		}
	}
}

func TestTransform_Empty(t *testing.T) {
	cases, err := Transform(models.NewScrapeResult(), "1", "p1")
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if len(cases) != 0 {
		t.Errorf("got %d cases, want 0", len(cases))
	}
}

func TestTransform_MalformedInput(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(r *models.ScrapeResult)
		code     string
		category string
		field    string
	}{
		{"metatag without content", func(r *models.ScrapeResult) { r.Metatags[1].Content = nil },
			models.ErrCodeMissingField, "metatags", "content"},
		{"metatag without selector", func(r *models.ScrapeResult) { r.Metatags[0].Selector = nil },
			models.ErrCodeMissingField, "metatags", "selector"},
		{"image without alt", func(r *models.ScrapeResult) { r.Images[0].Alt = nil },
			models.ErrCodeMissingField, "images", "alt"},
		{"content without selector", func(r *models.ScrapeResult) { r.Content[1].Selector = nil },
			models.ErrCodeMissingField, "content", "selector"},
		{"internal link without href", func(r *models.ScrapeResult) { r.InternalLinks[0].Href = nil },
			models.ErrCodeMissingField, "internal_links", "href"},
		{"external link without href", func(r *models.ScrapeResult) { r.ExternalLinks[1].Href = nil },
			models.ErrCodeMissingField, "external_links", "href"},
		{"missing images", func(r *models.ScrapeResult) { r.Images = nil },
			models.ErrCodeMissingCategory, "images", ""},
		{"missing external links", func(r *models.ScrapeResult) { r.ExternalLinks = nil },
			models.ErrCodeMissingCategory, "external_links", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := sampleResult()
			tt.mutate(r)

			cases, err := Transform(r, "1", "p1")
			if cases != nil {
				t.Errorf("got %d cases on failure, want none", len(cases))
			}
			if !errors.Is(err, models.ErrMalformedInput) {
				t.Fatalf("error %v is not ErrMalformedInput", err)
			}

			var inErr *models.InputError
			if !errors.As(err, &inErr) {
				t.Fatalf("error %T is not *models.InputError", err)
			}
			if inErr.Code != tt.code || inErr.Category != tt.category || inErr.Field != tt.field {
				t.Errorf("got (%s, %s, %s), want (%s, %s, %s)",
					inErr.Code, inErr.Category, inErr.Field, tt.code, tt.category, tt.field)
			}
		})
	}
}

func TestTransformDocument_Example(t *testing.T) {
	input := `{"result": {"metatags": [{"selector": "title", "content": "Home"}], "images": [], "content": [], "internal_links": [], "external_links": []}}`

	doc, err := models.DecodeScrapeDocument(strings.NewReader(input))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	cases, err := TransformDocument(doc, "1", "p1")
	if err != nil {
		t.Fatalf("TransformDocument: %v", err)
	}

	data, err := json.Marshal(cases)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got []map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []map[string]any{{
		"type":                "keyword",
		"selector":            "title",
		"old":                 "Home",
		"new":                 "[UPDATED] Home",
		"attribute_to_update": "content",
		"id":                  "1",
		"id_page":             "p1",
		"status":              true,
		"force_set":           true,
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v\nwant %v", got, want)
	}
}

func TestTransformDocument_MissingKeys(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{"no result", `{}`, ""},
		{"no content key", `{"result": {"metatags": [], "images": [], "internal_links": [], "external_links": []}}`, ""},
		{"null links", `{"result": {"metatags": [], "images": [], "content": [], "internal_links": null, "external_links": []}}`, ""},
		{"image without alt", `{"result": {"metatags": [], "images": [{"selector": "img"}], "content": [], "internal_links": [], "external_links": []}}`, "alt"},
		{"capitalized Content", `{"result": {"metatags": [{"selector": "title", "Content": "Home"}], "images": [], "content": [], "internal_links": [], "external_links": []}}`, "content"},
		{"capitalized Href", `{"result": {"metatags": [], "images": [], "content": [], "internal_links": [{"HREF": "/a"}], "external_links": []}}`, "href"},
		{"capitalized Metatags", `{"result": {"Metatags": [], "images": [], "content": [], "internal_links": [], "external_links": []}}`, ""},
		{"uppercase IMAGES", `{"result": {"metatags": [], "IMAGES": [], "content": [], "internal_links": [], "external_links": []}}`, ""},
		{"uppercase RESULT", `{"RESULT": {"metatags": [], "images": [], "content": [], "internal_links": [], "external_links": []}}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := models.DecodeScrapeDocument(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			_, err = TransformDocument(doc, "1", "p1")
			var inErr *models.InputError
			if !errors.As(err, &inErr) {
				t.Fatalf("got %v, want *models.InputError", err)
			}
			if inErr.Field != tt.field {
				t.Errorf("field = %q, want %q", inErr.Field, tt.field)
			}
		})
	}
}

func TestEncode_KeySets(t *testing.T) {
	cases, err := Transform(sampleResult(), "1", "p1")
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	data, err := Encode(cases)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var got []map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, rec := range got {
		_, hasOld := rec["old"]
		_, hasAttr := rec["attribute_to_update"]
		_, hasNewSel := rec["new_selector"]
		_, hasSel := rec["selector"]

		switch rec["type"] {
		case "keyword":
			if !hasOld || !hasAttr || hasNewSel || !hasSel {
				t.Errorf("keyword keys wrong: %v", rec)
			}
		case "image":
			if hasOld || hasAttr || hasNewSel || !hasSel {
				t.Errorf("image keys wrong: %v", rec)
			}
		case "content":
			if !hasOld || hasAttr || !hasNewSel || !hasSel {
				t.Errorf("content keys wrong: %v", rec)
			}
		case "internal_link", "external_links":
			if !hasOld || hasAttr || hasNewSel || hasSel {
				t.Errorf("link keys wrong: %v", rec)
			}
		default:
			t.Errorf("unexpected type %v", rec["type"])
		}
	}

	if !strings.Contains(string(data), "\n    {") {
		t.Errorf("output is not 4-space indented:\n%s", data)
	}
}

func TestEncode_NoEscaping(t *testing.T) {
	r := models.NewScrapeResult()
	r.InternalLinks = []models.LinkTag{{Href: models.Str("/search?q=a&page=2")}}
	r.Content = []models.Block{{Selector: models.Str("p"), Content: models.Str("Größe <b>")}}

	cases, err := Transform(r, "1", "p1")
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	data, err := Encode(cases)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	for _, s := range []string{"a&page=2", "Größe <b>"} {
		if !strings.Contains(string(data), s) {
			t.Errorf("output missing %q:\n%s", s, data)
		}
	}
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "scraped.json")
	out := filepath.Join(dir, "test_data.json")

	input := `{"result": {"metatags": [], "images": [{"selector": "img", "alt": "cat"}], "content": [], "internal_links": [{"href": "/a"}], "external_links": []}}`
	if err := os.WriteFile(in, []byte(input), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := ConvertFile(in, out, "id", "id_page")
	if err != nil {
		t.Fatalf("ConvertFile: %v", err)
	}
	if n != 2 {
		t.Errorf("n = %d, want 2", n)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var got []map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got[1]["new"] != "/a[UPDATED] " {
		t.Errorf("link new = %v", got[1]["new"])
	}
}

func TestConvertFile_NoOutputOnError(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "scraped.json")
	out := filepath.Join(dir, "test_data.json")

	input := `{"result": {"metatags": [{"selector": "title"}], "images": [], "content": [], "internal_links": [], "external_links": []}}`
	if err := os.WriteFile(in, []byte(input), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := ConvertFile(in, out, "id", "id_page"); !errors.Is(err, models.ErrMalformedInput) {
		t.Fatalf("got %v, want malformed input", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("output file exists after failure")
	}
}
