package engine

import (
	"context"
	"net/http"
	"time"
)

// Engine is the interface that all fetch backends must implement.
type Engine interface {
	// Name returns the engine identifier (e.g. "http", "colly", "rod").
	Name() string

	// Fetch retrieves the page content for the given request.
	Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error)
}

// Driver is a live browser automation session. Driven engines borrow it;
// whoever started it is responsible for closing it.
type Driver interface {
	Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error)
	Close() error
}

// FetchRequest contains everything an engine needs to fetch a page.
type FetchRequest struct {
	URL     string
	Headers map[string]string
	Cookies []http.Cookie
	Timeout time.Duration
	Stealth bool

	// WaitSelector, when set, makes driven engines wait for a matching
	// element before reading the DOM.
	WaitSelector string
}

// FetchResult is the output of a successful engine fetch.
type FetchResult struct {
	HTML       string
	Title      string
	StatusCode int
	FinalURL   string
	EngineName string
}
