package models

import "encoding/json"

// TestDataRequest is the payload for POST /api/v1/test-data.
//
// ID and IDPage must be present but may be empty strings; they are
// opaque and copied through unchanged.
type TestDataRequest struct {
	// ID is copied onto every generated test case. Required.
	ID *string `json:"id"`

	// IDPage identifies the page under test. Required.
	IDPage *string `json:"id_page"`

	// Scraped is the scrape document to convert. Required.
	Scraped *ScrapeDocument `json:"scraped"`
}

// UnmarshalJSON decodes the request by exact key, like ScrapeDocument.
func (r *TestDataRequest) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	*r = TestDataRequest{}
	if r.ID, err = decodeString(fields, "id"); err != nil {
		return err
	}
	if r.IDPage, err = decodeString(fields, "id_page"); err != nil {
		return err
	}
	if raw, ok := present(fields, "scraped"); ok {
		var doc ScrapeDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return err
		}
		r.Scraped = &doc
	}
	return nil
}

// Missing names the first required field that is absent, or "".
func (r *TestDataRequest) Missing() string {
	switch {
	case r.ID == nil:
		return "id"
	case r.IDPage == nil:
		return "id_page"
	case r.Scraped == nil:
		return "scraped"
	}
	return ""
}

// ScrapeRequest is the payload for POST /api/v1/scrape.
type ScrapeRequest struct {
	// URL is the target page to scrape. Required.
	URL string `json:"url" binding:"required,url"`

	// Timeout is the maximum duration in seconds for fetch and extraction.
	// Default: 30. Max: 120.
	Timeout int `json:"timeout,omitempty" binding:"omitempty,min=1,max=120"`

	// MaxAge allows serving a cached result younger than this many
	// milliseconds. Zero disables the cache for this request.
	MaxAge int `json:"max_age,omitempty" binding:"omitempty,min=0"`
}

// Defaults applies default values to unset fields.
func (r *ScrapeRequest) Defaults() {
	if r.Timeout == 0 {
		r.Timeout = 30
	}
}
