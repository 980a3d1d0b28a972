package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Category names as they appear in a scrape document.
const (
	CategoryMetatags      = "metatags"
	CategoryImages        = "images"
	CategoryContent       = "content"
	CategoryInternalLinks = "internal_links"
	CategoryExternalLinks = "external_links"
)

// ScrapeDocument is the envelope written by the scraping step:
//
//	{"result": {"metatags": [...], "images": [...], ...}}
type ScrapeDocument struct {
	Result *ScrapeResult `json:"result"`
}

// ScrapeResult holds the page elements extracted by a scrape.
// A nil slice means the category was absent (missing key or null);
// an empty JSON array decodes to a non-nil empty slice.
type ScrapeResult struct {
	Metatags      []Metatag  `json:"metatags"`
	Images        []ImageTag `json:"images"`
	Content       []Block    `json:"content"`
	InternalLinks []LinkTag  `json:"internal_links"`
	ExternalLinks []LinkTag  `json:"external_links"`
}

// Metatag is a <meta> element and its content attribute.
type Metatag struct {
	Selector *string `json:"selector"`
	Content  *string `json:"content"`
}

// ImageTag is an <img> element and its alt text.
type ImageTag struct {
	Selector *string `json:"selector"`
	Alt      *string `json:"alt"`
}

// Block is a text-bearing element such as a heading or paragraph.
type Block struct {
	Selector *string `json:"selector"`
	Content  *string `json:"content"`
}

// LinkTag is an anchor target.
type LinkTag struct {
	Href *string `json:"href"`
}

// NewScrapeResult returns a result with every category present and empty.
func NewScrapeResult() *ScrapeResult {
	return &ScrapeResult{
		Metatags:      []Metatag{},
		Images:        []ImageTag{},
		Content:       []Block{},
		InternalLinks: []LinkTag{},
		ExternalLinks: []LinkTag{},
	}
}

// Len is the total number of elements across all categories.
func (r *ScrapeResult) Len() int {
	return len(r.Metatags) + len(r.Images) + len(r.Content) + len(r.InternalLinks) + len(r.ExternalLinks)
}

// DecodeScrapeDocument reads a single JSON scrape document from r.
// Anything but whitespace after the document is rejected.
// Structural validation is left to the transformer.
func DecodeScrapeDocument(r io.Reader) (*ScrapeDocument, error) {
	dec := json.NewDecoder(r)

	var doc ScrapeDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, NewScrapeError(ErrCodeInvalidInput, "decode scrape document", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after document")
		}
		return nil, NewScrapeError(ErrCodeInvalidInput, "trailing data after scrape document", err)
	}
	return &doc, nil
}

// encoding/json matches object keys case-insensitively, so "Content" would
// satisfy a `json:"content"` tag. Scrape documents are keyed exactly: the
// decoders below look keys up verbatim and leave anything else absent.

// UnmarshalJSON decodes the envelope, keeping Result nil unless the exact
// key "result" holds a non-null value.
func (d *ScrapeDocument) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	*d = ScrapeDocument{}
	if raw, ok := present(fields, "result"); ok {
		var r ScrapeResult
		if err := json.Unmarshal(raw, &r); err != nil {
			return err
		}
		d.Result = &r
	}
	return nil
}

// UnmarshalJSON decodes the five categories by exact key.
func (r *ScrapeResult) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	*r = ScrapeResult{}
	if err := decodeList(fields, CategoryMetatags, &r.Metatags); err != nil {
		return err
	}
	if err := decodeList(fields, CategoryImages, &r.Images); err != nil {
		return err
	}
	if err := decodeList(fields, CategoryContent, &r.Content); err != nil {
		return err
	}
	if err := decodeList(fields, CategoryInternalLinks, &r.InternalLinks); err != nil {
		return err
	}
	return decodeList(fields, CategoryExternalLinks, &r.ExternalLinks)
}

func (m *Metatag) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	*m = Metatag{}
	if m.Selector, err = decodeString(fields, "selector"); err != nil {
		return err
	}
	m.Content, err = decodeString(fields, "content")
	return err
}

func (t *ImageTag) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	*t = ImageTag{}
	if t.Selector, err = decodeString(fields, "selector"); err != nil {
		return err
	}
	t.Alt, err = decodeString(fields, "alt")
	return err
}

func (b *Block) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	*b = Block{}
	if b.Selector, err = decodeString(fields, "selector"); err != nil {
		return err
	}
	b.Content, err = decodeString(fields, "content")
	return err
}

func (l *LinkTag) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	*l = LinkTag{}
	l.Href, err = decodeString(fields, "href")
	return err
}

func objectFields(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// present returns the raw value under key; a JSON null counts as absent.
func present(fields map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	raw, ok := fields[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, false
	}
	return raw, true
}

func decodeString(fields map[string]json.RawMessage, key string) (*string, error) {
	raw, ok := present(fields, key)
	if !ok {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("field %q: %w", key, err)
	}
	return &s, nil
}

// decodeList leaves *dst nil when key is absent; "[]" yields an empty,
// non-nil slice.
func decodeList[T any](fields map[string]json.RawMessage, key string, dst *[]T) error {
	raw, ok := present(fields, key)
	if !ok {
		return nil
	}
	list := []T{}
	if err := json.Unmarshal(raw, &list); err != nil {
		return fmt.Errorf("category %q: %w", key, err)
	}
	*dst = list
	return nil
}

// Str returns a pointer to s. Handy for building results in code.
func Str(s string) *string {
	return &s
}

// String implements fmt.Stringer for log output.
func (r *ScrapeResult) String() string {
	return fmt.Sprintf("metatags=%d images=%d content=%d internal_links=%d external_links=%d",
		len(r.Metatags), len(r.Images), len(r.Content), len(r.InternalLinks), len(r.ExternalLinks))
}
