package trawler

import (
	"log/slog"
	"time"

	"github.com/use-agent/trawler/browser"
	"github.com/use-agent/trawler/engine"
)

// DriverStarter starts a browser driver for a driven method.
type DriverStarter = browser.DriverStarter

// Option customises a Trawler.
type Option func(*Trawler)

// WithDriver lends an already running driver to the trawler. The trawler
// shares it with every session and never closes it.
func WithDriver(d engine.Driver) Option {
	return func(t *Trawler) {
		t.driver = d
		t.ownsDriver = false
	}
}

// WithDriverStarter replaces how the trawler starts its own driver.
func WithDriverStarter(f DriverStarter) Option {
	return func(t *Trawler) { t.starter = f }
}

// WithResolver replaces the method-to-engine mapping used by sessions.
func WithResolver(r engine.Resolver) Option {
	return func(t *Trawler) { t.resolver = r }
}

// WithLogger sets the logger. Nil keeps slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(t *Trawler) {
		if l != nil {
			t.log = l
		}
	}
}

// WithPageTimeout bounds every page fetch.
func WithPageTimeout(d time.Duration) Option {
	return func(t *Trawler) { t.pageTimeout = d }
}

// WithPageRate caps page fetches per second inside each session.
func WithPageRate(r float64) Option {
	return func(t *Trawler) { t.pageRate = r }
}
