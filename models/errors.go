package models

import (
	"errors"
	"fmt"
)

// Error codes used in API responses and internal error handling.
const (
	// Configuration errors, raised while building a trawler or browser.
	ErrCodeNotImplemented = "NOT_IMPLEMENTED"
	ErrCodeInvalidConfig  = "INVALID_CONFIG"

	// Raised lazily, on the first fetch attempt of a session.
	ErrCodeMethodNotImplemented = "METHOD_NOT_IMPLEMENTED"

	// Usage error: aggregated data read before anything was collected.
	ErrCodeNoData = "NO_DATA"

	// Backend and extraction failures.
	ErrCodeFetch        = "FETCH_FAILED"
	ErrCodeTimeout      = "SCRAPE_TIMEOUT"
	ErrCodeNavigation   = "NAVIGATION_FAILED"
	ErrCodeBrowserCrash = "BROWSER_CRASH"
	ErrCodeExtraction   = "EXTRACTION_FAILED"

	// API layer.
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// Sentinels reachable through errors.Is on the matching TrawlError.
var (
	ErrNotImplemented       = errors.New("not implemented")
	ErrMethodNotImplemented = errors.New("scrape method not implemented")
	ErrInvalidConfig        = errors.New("invalid configuration")
	ErrNoData               = errors.New("no data")
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// TrawlError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type TrawlError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *TrawlError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *TrawlError) Unwrap() error {
	return e.Err
}

// NewTrawlError creates a new TrawlError.
func NewTrawlError(code, message string, err error) *TrawlError {
	return &TrawlError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *TrawlError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}

// CodeOf returns the code of the first TrawlError in err's chain,
// or ErrCodeInternal when there is none.
func CodeOf(err error) string {
	var te *TrawlError
	if errors.As(err, &te) {
		return te.Code
	}
	return ErrCodeInternal
}
