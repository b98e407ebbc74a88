package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/use-agent/trawler/engine"
	"github.com/use-agent/trawler/metrics"
	"github.com/use-agent/trawler/models"
	"github.com/use-agent/trawler/simhash"
)

// nearDuplicateDistance is the simhash distance at or below which two
// consecutive pages are reported as the same page served twice.
const nearDuplicateDistance = 3

// defaultHeaders go out with every page request. Sites may override them.
var defaultHeaders = map[string]string{
	"Accept-Language": "en-US,en;q=0.9",
}

// Site describes one target site to the shared session.
type Site struct {
	Kind Kind

	// DefaultBase is the origin used when Options.BaseURL is empty.
	// Empty means the site is self-hosted and a base URL is required.
	DefaultBase string

	// SearchURL builds the first results page for keyword.
	SearchURL func(base, keyword string) string

	Extract Extractor

	// WaitSelector is the element driven engines wait for before reading
	// the DOM.
	WaitSelector string

	// Headers are merged over defaultHeaders. Cookies pin the site's
	// language or consent state.
	Headers map[string]string
	Cookies []http.Cookie
}

// requestHeaders returns a fresh header map for one fetch.
func (site Site) requestHeaders() map[string]string {
	h := maps.Clone(defaultHeaders)
	maps.Copy(h, site.Headers)
	return h
}

// session implements Browser for any Site.
type session struct {
	site     Site
	opts     Options
	base     string
	maxPages int
	resolver engine.Resolver
	log      *slog.Logger

	mu    sync.Mutex
	state State
	data  *models.Bundle

	owned     engine.Driver
	closeOnce sync.Once
	closeErr  error
}

func newSession(site Site, opts Options) (*session, error) {
	if opts.Keyword == "" {
		return nil, models.NewTrawlError(models.ErrCodeInvalidConfig, "keyword is required", models.ErrInvalidConfig)
	}
	base := opts.BaseURL
	if base == "" {
		base = site.DefaultBase
	}
	if base == "" {
		return nil, models.NewTrawlError(
			models.ErrCodeInvalidConfig,
			fmt.Sprintf("%s browser needs a base URL", site.Kind),
			models.ErrInvalidConfig,
		)
	}

	s := &session{
		site:     site,
		opts:     opts,
		base:     base,
		maxPages: max(opts.MaxPages, 1),
		resolver: opts.Resolver,
		log:      opts.Logger,
		state:    StateInit,
	}
	if s.resolver == nil {
		s.resolver = engine.DefaultBackends()
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	s.log = s.log.With("site", string(site.Kind), "keyword", opts.Keyword)
	return s, nil
}

func (s *session) Kind() Kind      { return s.site.Kind }
func (s *session) Keyword() string { return s.opts.Keyword }

func (s *session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *session) Search(ctx context.Context) (*models.Bundle, error) {
	if st := s.State(); st != StateInit {
		return nil, models.NewTrawlError(
			models.ErrCodeInvalidConfig,
			fmt.Sprintf("search already started on this session (state %s)", st),
			nil,
		)
	}

	bundle, err := s.search(ctx)
	if err != nil {
		s.setState(StateFailed)
		metrics.RecordSession(string(s.site.Kind), 0, err)
		s.log.Warn("search failed", "error", err)
		return nil, err
	}

	s.mu.Lock()
	s.data = bundle
	s.state = StateDone
	s.mu.Unlock()

	metrics.RecordSession(string(s.site.Kind), bundle.ResultsCount, nil)
	s.log.Debug("search done",
		"results", bundle.ResultsCount,
		"related_keywords", bundle.RelatedKeywordsCount,
	)
	return bundle, nil
}

func (s *session) search(ctx context.Context) (*models.Bundle, error) {
	s.setState(StateFetching)

	eng, err := s.engine()
	if err != nil {
		return nil, err
	}

	var limiter *rate.Limiter
	if s.opts.PageRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.opts.PageRate), 1)
	}

	var (
		bundle  = models.NewBundle()
		pageURL = s.site.SearchURL(s.base, s.opts.Keyword)
		seen    simhash.Sequence
	)

	for page := 1; ; page++ {
		s.setState(StateFetching)
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return nil, models.NewTrawlError(models.ErrCodeTimeout, "waiting for page slot", err)
			}
		}

		start := time.Now()
		res, err := eng.Fetch(ctx, &engine.FetchRequest{
			URL:          pageURL,
			Timeout:      s.opts.PageTimeout,
			WaitSelector: s.site.WaitSelector,
			Headers:      s.site.requestHeaders(),
			Cookies:      s.site.Cookies,
		})
		if err != nil {
			metrics.RecordPage(string(s.site.Kind), eng.Name(), time.Since(start), err)
			return nil, fetchError(err, pageURL)
		}
		metrics.RecordPage(string(s.site.Kind), res.EngineName, time.Since(start), nil)

		fp := simhash.FingerprintPage(res.HTML)
		if prev, ok := seen.Observe(fp); ok && simhash.Similar(prev, fp, nearDuplicateDistance) {
			s.log.Warn("page looks like the previous one, pagination may be looping",
				"page", page, "url", pageURL, "distance", simhash.Distance(prev, fp))
		}

		s.setState(StateExtracting)
		base := res.FinalURL
		if base == "" {
			base = pageURL
		}
		found, err := s.site.Extract(res.HTML, s.opts.Keyword, base)
		if err != nil {
			return nil, models.NewTrawlError(
				models.ErrCodeExtraction,
				fmt.Sprintf("failed to extract page %d of %s", page, s.site.Kind),
				err,
			)
		}

		offset := bundle.ResultsCount
		for i := range found.Results {
			r := &found.Results[i]
			r.Keyword = s.opts.Keyword
			r.Site = string(s.site.Kind)
			r.Page = page
			r.Rank = offset + i + 1
		}
		bundle.Append(found.Results, found.RelatedKeywords)
		s.log.Debug("page extracted",
			"page", page, "url", pageURL,
			"results", len(found.Results), "next", found.NextURL != "")

		if found.NextURL == "" || page >= s.maxPages {
			break
		}
		s.setState(StateMore)
		pageURL = found.NextURL
	}

	bundle.NextURL = ""
	return bundle, nil
}

// engine validates the method and binds it to a driver, starting a
// session-local one when needed.
func (s *session) engine() (engine.Engine, error) {
	method, err := engine.ParseMethod(s.opts.Method)
	if err != nil {
		return nil, err
	}

	driver := s.opts.Driver
	if method.NeedsDriver() && driver == nil {
		if s.opts.StartDriver == nil {
			return nil, models.NewTrawlError(
				models.ErrCodeBrowserCrash,
				fmt.Sprintf("scrape method %q needs a driver and none was supplied", method),
				nil,
			)
		}
		d, err := s.opts.StartDriver(method)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.owned = d
		s.mu.Unlock()
		driver = d
		s.log.Debug("started session-local driver", "method", string(method))
	}

	return s.resolver.Resolve(method, driver)
}

func (s *session) Data() (*models.Bundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateDone || s.data == nil {
		return nil, models.NewTrawlError(
			models.ErrCodeNoData,
			"no data yet, call Search first",
			models.ErrNoData,
		)
	}
	return s.data, nil
}

func (s *session) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		owned := s.owned
		s.owned = nil
		s.mu.Unlock()
		if owned != nil {
			s.closeErr = owned.Close()
		}
	})
	return s.closeErr
}

// fetchError keeps coded errors from the engine and codes the rest.
func fetchError(err error, pageURL string) error {
	var te *models.TrawlError
	if errors.As(err, &te) {
		return err
	}
	code := models.ErrCodeFetch
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		code = models.ErrCodeTimeout
	}
	return models.NewTrawlError(code, "failed to fetch "+pageURL, err)
}
