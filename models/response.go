package models

// TestDataResponse is the response for POST /api/v1/test-data.
type TestDataResponse struct {
	Success  bool         `json:"success"`
	Count    int          `json:"count"`
	TestData []TestCase   `json:"test_data"`
	Error    *ErrorDetail `json:"error,omitempty"`
}

// ScrapeResponse is the response for POST /api/v1/scrape.
type ScrapeResponse struct {
	// Success indicates whether the scrape completed without errors.
	Success bool `json:"success"`

	// FinalURL is the URL after following all redirects.
	FinalURL string `json:"final_url,omitempty"`

	// Title is the document title, for display only.
	Title string `json:"title,omitempty"`

	// Document is the scrape envelope accepted by /api/v1/test-data.
	Document *ScrapeDocument `json:"document,omitempty"`

	// CacheStatus is "hit", "miss", or empty when caching was not requested.
	CacheStatus string `json:"cache_status,omitempty"`

	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorResponse is the body for failures outside the typed endpoints.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Error   *ErrorDetail `json:"error"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status       string `json:"status"`
	Uptime       string `json:"uptime"`
	CacheEntries int    `json:"cache_entries"`
	Version      string `json:"version"`
}
