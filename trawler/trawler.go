// Package trawler expands a seed keyword into variants, runs one browser
// session per variant and merges everything into one models.Aggregate.
//
//	t, err := trawler.New(trawler.Config{Keyword: "MongoDB", GenerateKeywords: true})
//	if err != nil { ... }
//	defer t.Stop()
//	t.GeneratedKeywords() // [learning MongoDB, Programming with MongoDB, MongoDB tutorials]
//	if err := t.Run(ctx); err != nil { ... }
//	data, err := t.Data()
package trawler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/use-agent/trawler/browser"
	"github.com/use-agent/trawler/config"
	"github.com/use-agent/trawler/engine"
	"github.com/use-agent/trawler/keywords"
	"github.com/use-agent/trawler/models"
	"github.com/use-agent/trawler/scraper"
)

const (
	DefaultBrowser  = browser.KindBing
	DefaultMaxPages = 3
)

// State is the lifecycle position of a Trawler.
type State int

const (
	StateConfigured State = iota
	StateDriverReady
	StateNoDriver
	StateRunning
	StateRan
)

func (s State) String() string {
	switch s {
	case StateConfigured:
		return "CONFIGURED"
	case StateDriverReady:
		return "DRIVER_READY"
	case StateNoDriver:
		return "NO_DRIVER"
	case StateRunning:
		return "RUNNING"
	case StateRan:
		return "RAN"
	}
	return "UNKNOWN"
}

// Config describes one trawl.
type Config struct {
	// Keyword is the seed search term. Required.
	Keyword string

	// Browser is the site kind. Empty selects DefaultBrowser.
	Browser string

	// MaxPages caps pages per keyword variant. Zero selects DefaultMaxPages.
	MaxPages int

	// Method is the scrape method. Empty selects engine.DefaultMethod.
	// It is validated when the first session searches.
	Method string

	// BaseURL is required by self-hosted sites.
	BaseURL string

	// GenerateKeywords expands Keyword with Prefixes and Suffixes.
	GenerateKeywords bool

	// Prefixes and Suffixes fall back to keywords.DefaultTemplates when empty.
	Prefixes []string
	Suffixes []string
}

// Trawler runs the sessions of one trawl and owns the aggregate record.
// Its methods are safe for concurrent use. A Run started while another is
// in progress fails with INVALID_CONFIG.
type Trawler struct {
	id        string
	cfg       Config
	kind      browser.Kind
	templates keywords.Templates

	driver     engine.Driver
	ownsDriver bool
	starter    DriverStarter
	resolver   engine.Resolver

	pageTimeout time.Duration
	pageRate    float64
	log         *slog.Logger

	mu       sync.Mutex
	state    State
	agg      *models.Aggregate
	ran      bool
	stopped  bool
	stopOnce sync.Once
	stopErr  error
}

// New validates cfg and, when the method drives a browser and no driver
// was lent with WithDriver, starts one. The returned Trawler must be
// stopped to release that driver.
func New(cfg Config, opts ...Option) (*Trawler, error) {
	if cfg.Browser == "" {
		cfg.Browser = string(DefaultBrowser)
	}
	kind := browser.Kind(cfg.Browser)
	if err := browser.Validate(kind); err != nil {
		return nil, err
	}
	if cfg.Keyword == "" {
		return nil, models.NewTrawlError(models.ErrCodeInvalidConfig, "keyword is required", models.ErrInvalidConfig)
	}
	if cfg.MaxPages == 0 {
		cfg.MaxPages = DefaultMaxPages
	}

	templates := keywords.DefaultTemplates()
	if len(cfg.Prefixes) > 0 {
		templates.Prefixes = append([]string(nil), cfg.Prefixes...)
	}
	if len(cfg.Suffixes) > 0 {
		templates.Suffixes = append([]string(nil), cfg.Suffixes...)
	}
	cfg.Prefixes, cfg.Suffixes = nil, nil

	t := &Trawler{
		id:        uuid.NewString(),
		cfg:       cfg,
		kind:      kind,
		templates: templates,
		starter:   DefaultDriverStarter,
		log:       slog.Default(),
		state:     StateConfigured,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.log = t.log.With("trawl_id", t.id, "browser", cfg.Browser)

	method, err := engine.ParseMethod(cfg.Method)
	switch {
	case t.driver != nil:
		t.state = StateDriverReady
	case err == nil && method.NeedsDriver():
		d, err := t.starter(method)
		if err != nil {
			return nil, err
		}
		t.driver = d
		t.ownsDriver = true
		t.state = StateDriverReady
		t.log.Debug("driver started", "method", string(method))
	default:
		t.state = StateNoDriver
	}
	return t, nil
}

// DefaultDriverStarter launches a scraper.Driver configured from the
// environment.
func DefaultDriverStarter(engine.Method) (engine.Driver, error) {
	cfg := config.Load()
	return scraper.Start(cfg.Browser, cfg.Scraper)
}

// ID identifies the trawler in logs and API responses.
func (t *Trawler) ID() string { return t.id }

func (t *Trawler) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// GeneratedKeywords returns the keyword list a run uses: the seed alone,
// or its expansion when GenerateKeywords is set.
func (t *Trawler) GeneratedKeywords() []string {
	return keywords.Resolve(t.cfg.Keyword, t.cfg.GenerateKeywords, t.templates)
}

// Run searches every keyword variant in order and merges each session into
// the aggregate. The first failing session aborts the run and nothing from
// that run is kept. Results of successful runs accumulate.
func (t *Trawler) Run(ctx context.Context) error {
	t.mu.Lock()
	switch {
	case t.stopped:
		t.mu.Unlock()
		return models.NewTrawlError(models.ErrCodeInvalidConfig, "trawler is stopped", models.ErrInvalidConfig)
	case t.state == StateRunning:
		t.mu.Unlock()
		return models.NewTrawlError(models.ErrCodeInvalidConfig, "trawler is already running", models.ErrInvalidConfig)
	}
	prev := t.state
	t.state = StateRunning
	run := models.NewAggregate()
	if t.agg != nil {
		run = t.agg.Clone()
	}
	t.mu.Unlock()

	kws := t.GeneratedKeywords()
	t.log.Info("trawl started", "keyword", t.cfg.Keyword, "variants", len(kws))

	for _, kw := range kws {
		bundle, err := t.session(ctx, kw)
		if err != nil {
			t.mu.Lock()
			t.state = prev
			t.mu.Unlock()
			t.log.Warn("trawl aborted", "keyword", kw, "error", err)
			return err
		}
		run.Merge(bundle, t.cfg.Keyword, kws)
		t.log.Debug("gathered data for keyword", "keyword", kw, "results", bundle.ResultsCount)
	}

	t.mu.Lock()
	t.agg = run
	t.ran = true
	t.state = StateRan
	t.mu.Unlock()

	t.log.Info("trawl finished", "results", run.ResultsCount, "related_keywords", run.RelatedKeywordsCount)
	return nil
}

// session runs one browser for kw, lending it the shared driver.
func (t *Trawler) session(ctx context.Context, kw string) (*models.Bundle, error) {
	b, err := browser.New(t.kind, browser.Options{
		Keyword:     kw,
		MaxPages:    t.cfg.MaxPages,
		Method:      t.cfg.Method,
		BaseURL:     t.cfg.BaseURL,
		Driver:      t.driver,
		Resolver:    t.resolver,
		PageTimeout: t.pageTimeout,
		PageRate:    t.pageRate,
		Logger:      t.log,
	})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := b.Close(); err != nil {
			t.log.Warn("closing browser session", "keyword", kw, "error", err)
		}
	}()
	return b.Search(ctx)
}

// Data returns a copy of the aggregate. It fails with a NO_DATA error while
// nothing has been collected, whether or not Run was called; use Ran to
// tell the two apart.
func (t *Trawler) Data() (*models.Aggregate, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.agg == nil || len(t.agg.Results) == 0 {
		return nil, models.NewTrawlError(
			models.ErrCodeNoData,
			fmt.Sprintf("no results for %q: either nothing was found or Run was not called; call Run first, then read Data", t.cfg.Keyword),
			models.ErrNoData,
		)
	}
	return t.agg.Clone(), nil
}

// Ran reports whether at least one run completed.
func (t *Trawler) Ran() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ran
}

// Stop closes the driver the trawler started. A driver lent with
// WithDriver is left running. Safe to call more than once, and before Run.
func (t *Trawler) Stop() error {
	t.stopOnce.Do(func() {
		t.mu.Lock()
		t.stopped = true
		d, owns := t.driver, t.ownsDriver
		t.mu.Unlock()
		if owns && d != nil {
			t.stopErr = d.Close()
			t.log.Debug("driver stopped", "error", t.stopErr)
		}
	})
	return t.stopErr
}
