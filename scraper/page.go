package scraper

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/trawler/engine"
	"github.com/use-agent/trawler/models"
	"github.com/ysmood/gson"
)

// waitSelectorTimeout bounds how long a fetch waits for req.WaitSelector.
// A results page with no hits never renders the selector.
const waitSelectorTimeout = 10 * time.Second

var _ engine.Driver = (*Driver)(nil)

// Fetch loads req.URL in a pooled tab and returns the rendered DOM.
//
// Lifecycle (numbered steps match the inline comments):
//
//  1. Timeout guard          – hard deadline on the entire operation
//  2. Acquire page           – borrow a tab from the pool (or create one)
//  3. DEFER: cleanup         – about:blank + return to pool (leak prevention)
//  4. Tab setup              – stealth JS and extra headers, undone before the
//     tab goes back to the pool (before navigation!)
//  5. Hijack mount           – block images/CSS/fonts/media (before navigation!)
//  6. Context binding        – propagate timeout to all Rod operations
//  7. Navigate               – triggers page load
//  8. Wait                   – DOM stable, then the optional selector
//  9. Extract                – page.HTML() + document.title
//
// Steps 4-5 must happen before step 7: stealth JS and resource blocking only
// take effect for navigations that happen after they are installed.
func (d *Driver) Fetch(ctx context.Context, req *engine.FetchRequest) (*engine.FetchResult, error) {
	if d.closed.Load() {
		return nil, models.NewTrawlError(models.ErrCodeBrowserCrash, "driver is closed", nil)
	}

	// ── 1. Timeout guard ──────────────────────────────────────────────
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = d.scraperCfg.DefaultTimeout
	}
	if d.scraperCfg.MaxTimeout > 0 && timeout > d.scraperCfg.MaxTimeout {
		timeout = d.scraperCfg.MaxTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// ── 2. Acquire page from pool ─────────────────────────────────────
	d.activePages.Add(1)
	defer d.activePages.Add(-1)

	page, acquireErr := d.pagePool.Get(func() (*rod.Page, error) {
		return d.browser.Page(proto.TargetCreateTarget{})
	})
	if acquireErr != nil {
		return nil, models.NewTrawlError(
			models.ErrCodeBrowserCrash,
			"failed to acquire page from pool",
			acquireErr,
		)
	}

	// ── 3. Cleanup: blank the tab and return it to the pool ───────────
	defer func() {
		if navErr := page.Navigate("about:blank"); navErr != nil {
			slog.Warn("cleanup: failed to navigate to about:blank",
				"error", navErr,
			)
		}
		d.pagePool.Put(page)
	}()

	// ── 4. Stealth injection, extra headers and cookies ──────────────
	reset := prepareTab(rodTab{page}, req)
	defer reset()
	setCookies(page, req)

	// ── 5. Mount hijack router ────────────────────────────────────────
	router := setupHijack(page, d.scraperCfg.BlockedResourceTypes, d.scraperCfg.BlockAds)
	if router != nil {
		defer func() { _ = router.Stop() }()
	}

	// ── 6. Bind request context to page ───────────────────────────────
	p := page.Context(ctx)

	// ── 7. Navigate ───────────────────────────────────────────────────
	if err := p.Navigate(req.URL); err != nil {
		return nil, categorizeError(err, "navigation to target URL failed")
	}

	// ── 8. Wait strategy ──────────────────────────────────────────────
	if stableErr := p.WaitDOMStable(300*time.Millisecond, 0.1); stableErr != nil {
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM",
			"error", stableErr,
		)
	}
	if req.WaitSelector != "" {
		if _, err := p.Timeout(waitSelectorTimeout).Element(req.WaitSelector); err != nil {
			slog.Debug("wait selector not found, proceeding with current DOM",
				"selector", req.WaitSelector, "url", req.URL, "error", err)
		}
	}

	// Status code via the Navigation Timing API; no CDP listener needed.
	var statusCode int
	if res, err := p.Eval(`() => {
		try {
			const entries = performance.getEntriesByType("navigation");
			if (entries.length > 0) return entries[0].responseStatus || 0;
		} catch(e) {}
		return 0;
	}`); err == nil {
		statusCode = res.Value.Int()
	}

	// ── 9. Extract rendered HTML ──────────────────────────────────────
	rawHTML, htmlErr := p.HTML()
	if htmlErr != nil {
		return nil, categorizeError(htmlErr, "failed to extract page HTML")
	}

	title := evalStringOrEmpty(p, `() => document.title`)
	finalURL := evalStringOrEmpty(p, `() => window.location.href`)
	if finalURL == "" {
		finalURL = req.URL
	}

	return &engine.FetchResult{
		HTML:       rawHTML,
		Title:      title,
		StatusCode: statusCode,
		FinalURL:   finalURL,
		EngineName: string(engine.MethodRod),
	}, nil
}

// tab is the part of a pooled page that per-fetch setup touches.
type tab interface {
	EvalOnNewDocument(js string) (remove func() error, err error)
	setExtraHeaders(headers map[string]string) error
}

type rodTab struct{ *rod.Page }

func (t rodTab) setExtraHeaders(headers map[string]string) error {
	return proto.NetworkSetExtraHTTPHeaders{Headers: toHeadersMap(headers)}.Call(t.Page)
}

// prepareTab installs the per-request stealth script and headers on t.
// The returned reset undoes both so a pooled tab carries nothing into the
// next fetch.
func prepareTab(t tab, req *engine.FetchRequest) (reset func()) {
	var removeStealth func() error
	if req.Stealth {
		remove, err := t.EvalOnNewDocument(stealth.JS)
		if err != nil {
			slog.Warn("stealth injection failed, proceeding without stealth",
				"error", err,
			)
		} else {
			removeStealth = remove
		}
	}

	headersSet := false
	if len(req.Headers) > 0 {
		if err := t.setExtraHeaders(req.Headers); err != nil {
			slog.Debug("setting extra headers failed", "error", err)
		} else {
			headersSet = true
		}
	}

	return func() {
		if removeStealth != nil {
			if err := removeStealth(); err != nil {
				slog.Warn("cleanup: failed to remove stealth script", "error", err)
			}
		}
		if headersSet {
			if err := t.setExtraHeaders(nil); err != nil {
				slog.Warn("cleanup: failed to clear extra headers", "error", err)
			}
		}
	}
}

// setCookies stores req.Cookies in the browser, defaulting the domain to
// the target host.
func setCookies(page *rod.Page, req *engine.FetchRequest) {
	for _, cookie := range req.Cookies {
		domain := cookie.Domain
		if domain == "" {
			if u, err := url.Parse(req.URL); err == nil {
				domain = u.Hostname()
			}
		}
		path := cookie.Path
		if path == "" {
			path = "/"
		}
		_, _ = proto.NetworkSetCookie{
			Name:   cookie.Name,
			Value:  cookie.Value,
			Domain: domain,
			Path:   path,
		}.Call(page)
	}
}

// evalStringOrEmpty evaluates a JS expression and returns the string result,
// swallowing any errors (useful for optional metadata extraction).
func evalStringOrEmpty(page *rod.Page, js string) string {
	res, err := page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

// categorizeError wraps raw errors into typed TrawlErrors so callers can
// tell timeouts from navigation failures.
func categorizeError(err error, msg string) *models.TrawlError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewTrawlError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewTrawlError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewTrawlError(models.ErrCodeNavigation, msg, err)
	}
}
