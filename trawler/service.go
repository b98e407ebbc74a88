package trawler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/use-agent/trawler/config"
	"github.com/use-agent/trawler/engine"
	"github.com/use-agent/trawler/keywords"
	"github.com/use-agent/trawler/models"
)

// ServiceOptions configures a Service.
type ServiceOptions struct {
	// Defaults fill request fields left empty.
	Defaults config.TrawlConfig

	// Templates expand keywords when a request sends no prefixes or suffixes.
	Templates keywords.Templates

	// Driver is shared by every driven trawl. Nil limits the service to
	// direct methods.
	Driver engine.Driver

	Resolver    engine.Resolver
	PageTimeout time.Duration
	Logger      *slog.Logger
}

// Service runs one Trawler per request. It backs the HTTP API.
type Service struct {
	opts ServiceOptions
	log  *slog.Logger
}

func NewService(opts ServiceOptions) *Service {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	opts.Templates = opts.Templates.Clone()
	return &Service{opts: opts, log: log}
}

// Trawl runs req to completion and returns the run id and the aggregate.
// A run that found nothing yields an empty aggregate, not an error.
func (s *Service) Trawl(ctx context.Context, req *models.TrawlRequest) (string, *models.Aggregate, error) {
	cfg := s.config(req)

	opts := []Option{
		WithResolver(s.opts.Resolver),
		WithLogger(s.log),
		WithPageTimeout(s.opts.PageTimeout),
		WithPageRate(s.opts.Defaults.PageRate),
	}
	if s.opts.Driver != nil {
		opts = append(opts, WithDriver(s.opts.Driver))
	} else {
		opts = append(opts, WithDriverStarter(noDriver))
	}

	t, err := New(cfg, opts...)
	if err != nil {
		return "", nil, err
	}
	defer func() { _ = t.Stop() }()

	if err := t.Run(ctx); err != nil {
		return t.ID(), nil, err
	}
	data, err := t.Data()
	if errors.Is(err, models.ErrNoData) {
		data = models.NewAggregate()
		data.SearchKeyword = cfg.Keyword
		data.GeneratedKeywords = t.GeneratedKeywords()
		err = nil
	}
	return t.ID(), data, err
}

func (s *Service) config(req *models.TrawlRequest) Config {
	cfg := Config{
		Keyword:          req.Keyword,
		Browser:          req.Browser,
		MaxPages:         req.MaxPages,
		Method:           req.Method,
		BaseURL:          req.BaseURL,
		GenerateKeywords: req.GenerateKeywords,
		Prefixes:         req.Prefixes,
		Suffixes:         req.Suffixes,
	}
	d := s.opts.Defaults
	if cfg.Browser == "" {
		cfg.Browser = d.Browser
	}
	if cfg.Method == "" {
		cfg.Method = d.Method
	}
	if cfg.MaxPages == 0 {
		cfg.MaxPages = d.MaxPages
	}
	if len(cfg.Prefixes) == 0 {
		cfg.Prefixes = s.opts.Templates.Prefixes
	}
	if len(cfg.Suffixes) == 0 {
		cfg.Suffixes = s.opts.Templates.Suffixes
	}
	return cfg
}

func noDriver(m engine.Method) (engine.Driver, error) {
	return nil, models.NewTrawlError(
		models.ErrCodeBrowserCrash,
		"no browser driver is running, scrape method "+string(m)+" is unavailable",
		nil,
	)
}
