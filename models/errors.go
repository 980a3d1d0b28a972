package models

import (
	"errors"
	"fmt"
)

// Error codes used in API responses and internal error handling.
const (
	ErrCodeTimeout      = "SCRAPE_TIMEOUT"
	ErrCodeNavigation   = "NAVIGATION_FAILED"
	ErrCodeExtraction   = "EXTRACTION_FAILED"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeInternal     = "INTERNAL_ERROR"

	// Malformed scrape input, raised by the transformer.
	ErrCodeMissingCategory = "MISSING_CATEGORY"
	ErrCodeMissingField    = "MISSING_FIELD"
)

// ErrMalformedInput matches every InputError via errors.Is.
var ErrMalformedInput = errors.New("malformed input")

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ScrapeError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ScrapeError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// NewScrapeError creates a new ScrapeError.
func NewScrapeError(code, message string, err error) *ScrapeError {
	return &ScrapeError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *ScrapeError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}

// InputError reports a scrape document that lacks a category or an element
// field. Index is -1 when the error concerns a whole category.
type InputError struct {
	Code     string
	Category string
	Index    int
	Field    string
}

// MissingCategory returns an InputError for an absent top-level category.
func MissingCategory(category string) *InputError {
	return &InputError{Code: ErrCodeMissingCategory, Category: category, Index: -1}
}

// MissingField returns an InputError for an element lacking a field.
func MissingField(category string, index int, field string) *InputError {
	return &InputError{Code: ErrCodeMissingField, Category: category, Index: index, Field: field}
}

func (e *InputError) Error() string {
	if e.Code == ErrCodeMissingCategory {
		return fmt.Sprintf("%s: missing category %q", e.Code, e.Category)
	}
	return fmt.Sprintf("%s: %s[%d] has no %q", e.Code, e.Category, e.Index, e.Field)
}

func (e *InputError) Is(target error) bool {
	return target == ErrMalformedInput
}

// ToDetail converts the error to an API-facing ErrorDetail.
func (e *InputError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Error()}
}
