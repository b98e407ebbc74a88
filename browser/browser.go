// Package browser runs one multi-page search session against a target site
// and normalises what it finds into a models.Bundle.
//
// Every site shares the same session state machine; a site contributes only
// its search URL and an Extractor. Sites are looked up by Kind through a
// registry, so adding one is a Register call.
package browser

import (
	"context"
	"log/slog"
	"time"

	"github.com/use-agent/trawler/engine"
	"github.com/use-agent/trawler/models"
)

// Kind names a supported target site.
type Kind string

const (
	KindBing             Kind = "bing"
	KindStackOverflow    Kind = "stackoverflow"
	KindStackOverflowDoc Kind = "stackoverflow-doc"
	KindWordPress        Kind = "wordpress"
)

// State is the position of a session in its pagination loop.
type State int

const (
	StateInit State = iota
	StateFetching
	StateExtracting
	StateMore
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateFetching:
		return "FETCHING"
	case StateExtracting:
		return "EXTRACTING"
	case StateMore:
		return "MORE"
	case StateDone:
		return "DONE"
	case StateFailed:
		return "FAILED"
	}
	return "UNKNOWN"
}

// Browser is one search session for one keyword on one site.
type Browser interface {
	Kind() Kind
	Keyword() string
	State() State

	// Search fetches pages until the site has no next page or the page
	// limit is reached. A session searches once.
	Search(ctx context.Context) (*models.Bundle, error)

	// Data returns the bundle of a completed search.
	Data() (*models.Bundle, error)

	// Close releases resources the session opened itself. It never closes
	// a driver passed in through Options. Safe to call more than once.
	Close() error
}

// Page is what an Extractor finds on one results page.
type Page struct {
	Results         []models.Result
	RelatedKeywords []string

	// NextURL is the absolute URL of the next results page, or empty.
	NextURL string
}

// Extractor parses one fetched results page. pageURL is the URL the HTML
// was served from and is used to resolve relative links.
type Extractor func(html, keyword, pageURL string) (*Page, error)

// DriverStarter starts a browser driver for a driven method.
type DriverStarter func(engine.Method) (engine.Driver, error)

// Options configures a session.
type Options struct {
	Keyword string

	// MaxPages caps the number of pages fetched. Values below 1 mean 1.
	MaxPages int

	// Method is validated lazily, on Search. Empty selects engine.DefaultMethod.
	Method string

	// BaseURL overrides the site's default origin. Required for
	// self-hosted sites.
	BaseURL string

	// Driver is borrowed for driven methods and never closed by the session.
	Driver engine.Driver

	// StartDriver is used when a driven method has no Driver. The session
	// owns and closes what it starts.
	StartDriver DriverStarter

	// Resolver maps the method to an engine. Nil uses engine.DefaultBackends.
	Resolver engine.Resolver

	// PageTimeout bounds each page fetch. Zero leaves it to the engine.
	PageTimeout time.Duration

	// PageRate caps page fetches per second. Zero disables pacing.
	PageRate float64

	Logger *slog.Logger
}
