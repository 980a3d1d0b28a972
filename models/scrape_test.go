package models

import (
	"errors"
	"strings"
	"testing"
)

func TestDecodeScrapeDocument(t *testing.T) {
	doc, err := DecodeScrapeDocument(strings.NewReader(`{"result": {
		"metatags": [{"selector": "title", "content": ""}],
		"images": [],
		"content": [{"selector": "p", "Content": "shadow"}],
		"internal_links": null,
		"Result": "ignored"}}` + "\n\t "))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	r := doc.Result
	if r == nil {
		t.Fatal("result is nil")
	}

	if r.Metatags[0].Content == nil || *r.Metatags[0].Content != "" {
		t.Errorf("empty content should be present, got %v", r.Metatags[0].Content)
	}
	if r.Images == nil || len(r.Images) != 0 {
		t.Errorf("images = %#v, want empty non-nil", r.Images)
	}
	if r.Content[0].Content != nil {
		t.Errorf("content matched a differently cased key: %q", *r.Content[0].Content)
	}
	if r.InternalLinks != nil {
		t.Errorf("null category should decode as absent")
	}
	if r.ExternalLinks != nil {
		t.Errorf("missing category should decode as absent")
	}
}

func TestDecodeScrapeDocument_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"trailing garbage", `{"result": {}} trailing-garbage`},
		{"second document", `{"result": {}}{"result": {}}`},
		{"truncated", `{"result": {`},
		{"element not an object", `{"result": {"metatags": ["title"]}}`},
		{"field not a string", `{"result": {"internal_links": [{"href": 7}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeScrapeDocument(strings.NewReader(tt.input))
			var se *ScrapeError
			if !errors.As(err, &se) {
				t.Fatalf("got %v, want *ScrapeError", err)
			}
			if se.Code != ErrCodeInvalidInput {
				t.Errorf("code = %q, want %q", se.Code, ErrCodeInvalidInput)
			}
		})
	}
}

func TestTestDataRequest_Missing(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`{"id": "", "id_page": "", "scraped": {}}`, ""},
		{`{"ID": "1", "id_page": "p", "scraped": {}}`, "id"},
		{`{"id": "1", "id_page": null, "scraped": {}}`, "id_page"},
		{`{"id": "1", "id_page": "p"}`, "scraped"},
	}

	for _, tt := range tests {
		var req TestDataRequest
		if err := req.UnmarshalJSON([]byte(tt.input)); err != nil {
			t.Fatalf("%s: %v", tt.input, err)
		}
		if got := req.Missing(); got != tt.want {
			t.Errorf("%s: Missing() = %q, want %q", tt.input, got, tt.want)
		}
	}
}
