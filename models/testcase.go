package models

import (
	"bytes"
	"encoding/json"
)

// Kind discriminates TestCase variants. The values are consumed verbatim by
// the injected page script, including the plural "external_links".
type Kind string

const (
	KindKeyword      Kind = "keyword"
	KindImage        Kind = "image"
	KindContent      Kind = "content"
	KindInternalLink Kind = "internal_link"
	KindExternalLink Kind = "external_links"
)

// TestCase is one proposed edit to an element of a page.
// The concrete types are KeywordCase, ImageCase, ContentCase,
// InternalLinkCase and ExternalLinkCase.
type TestCase interface {
	Kind() Kind
	Defaults() Common
	// OldValue and NewValue report the edit; OldValue is empty for images.
	OldValue() string
	NewValue() string
}

// Common holds the fields every test case carries.
type Common struct {
	ID       string `json:"id"`
	IDPage   string `json:"id_page"`
	Status   bool   `json:"status"`
	ForceSet bool   `json:"force_set"`
}

// DefaultCommon returns the shared tail for a page: enabled and forced.
func DefaultCommon(id, idPage string) Common {
	return Common{ID: id, IDPage: idPage, Status: true, ForceSet: true}
}

// KeywordCase rewrites an attribute of a <meta> element.
type KeywordCase struct {
	Selector          string `json:"selector"`
	Old               string `json:"old"`
	New               string `json:"new"`
	AttributeToUpdate string `json:"attribute_to_update"`
	Common
}

// ImageCase rewrites the alt text of an image. The old alt is not recorded.
type ImageCase struct {
	Selector string `json:"selector"`
	New      string `json:"new"`
	Common
}

// ContentCase rewrites the text of a block element.
type ContentCase struct {
	Old         string `json:"old"`
	New         string `json:"new"`
	Selector    string `json:"selector"`
	NewSelector string `json:"new_selector"`
	Common
}

// LinkEdit is the payload shared by link cases.
type LinkEdit struct {
	Old string `json:"old"`
	New string `json:"new"`
	Common
}

// InternalLinkCase rewrites the href of a same-host link.
type InternalLinkCase struct{ LinkEdit }

// ExternalLinkCase rewrites the href of an off-host link.
type ExternalLinkCase struct{ LinkEdit }

func (c KeywordCase) Kind() Kind      { return KindKeyword }
func (c ImageCase) Kind() Kind        { return KindImage }
func (c ContentCase) Kind() Kind      { return KindContent }
func (c InternalLinkCase) Kind() Kind { return KindInternalLink }
func (c ExternalLinkCase) Kind() Kind { return KindExternalLink }

func (c KeywordCase) Defaults() Common { return c.Common }
func (c ImageCase) Defaults() Common   { return c.Common }
func (c ContentCase) Defaults() Common { return c.Common }
func (c LinkEdit) Defaults() Common    { return c.Common }

func (c KeywordCase) OldValue() string { return c.Old }
func (c ImageCase) OldValue() string   { return "" }
func (c ContentCase) OldValue() string { return c.Old }
func (c LinkEdit) OldValue() string    { return c.Old }

func (c KeywordCase) NewValue() string { return c.New }
func (c ImageCase) NewValue() string   { return c.New }
func (c ContentCase) NewValue() string { return c.New }
func (c LinkEdit) NewValue() string    { return c.New }

// MarshalJSON prepends the "type" discriminator to the variant's fields.
func (c KeywordCase) MarshalJSON() ([]byte, error) {
	type fields KeywordCase
	return marshalRaw(struct {
		Type Kind `json:"type"`
		fields
	}{c.Kind(), fields(c)})
}

func (c ImageCase) MarshalJSON() ([]byte, error) {
	type fields ImageCase
	return marshalRaw(struct {
		Type Kind `json:"type"`
		fields
	}{c.Kind(), fields(c)})
}

func (c ContentCase) MarshalJSON() ([]byte, error) {
	type fields ContentCase
	return marshalRaw(struct {
		Type Kind `json:"type"`
		fields
	}{c.Kind(), fields(c)})
}

func (c InternalLinkCase) MarshalJSON() ([]byte, error) {
	return marshalRaw(struct {
		Type Kind `json:"type"`
		LinkEdit
	}{c.Kind(), c.LinkEdit})
}

func (c ExternalLinkCase) MarshalJSON() ([]byte, error) {
	return marshalRaw(struct {
		Type Kind `json:"type"`
		LinkEdit
	}{c.Kind(), c.LinkEdit})
}

// marshalRaw encodes v without HTML escaping; callers that want escaping get
// it from the outer encoder.
func marshalRaw(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
