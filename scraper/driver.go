package scraper

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/use-agent/trawler/config"
	"github.com/use-agent/trawler/models"
)

// Driver is a launched Chromium process plus a pool of reusable tabs.
// It implements engine.Driver and is safe for concurrent use: several
// browser sessions may borrow the same Driver.
type Driver struct {
	browser     *rod.Browser
	launcher    *launcher.Launcher
	pagePool    rod.Pool[rod.Page]
	browserCfg  config.BrowserConfig
	scraperCfg  config.ScraperConfig
	activePages atomic.Int32

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// Start launches a headless browser and initialises the reusable page pool.
func Start(browserCfg config.BrowserConfig, scraperCfg config.ScraperConfig) (*Driver, error) {
	if browserCfg.MaxPages < 1 {
		browserCfg.MaxPages = 1
	}

	l := launcher.New().
		Headless(browserCfg.Headless).
		NoSandbox(browserCfg.NoSandbox)

	if browserCfg.BrowserBin != "" {
		l = l.Bin(browserCfg.BrowserBin)
	}
	if browserCfg.DefaultProxy != "" {
		l = l.Proxy(browserCfg.DefaultProxy)
	}

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-features"), "AudioServiceOutOfProcess,TranslateUI")
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("disable-renderer-backgrounding"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-backgrounding-occluded-windows"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewTrawlError(
			models.ErrCodeBrowserCrash,
			"failed to launch browser",
			err,
		)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, models.NewTrawlError(
			models.ErrCodeBrowserCrash,
			"failed to connect to browser",
			err,
		)
	}

	slog.Info("page pool created", "maxPages", browserCfg.MaxPages)

	return &Driver{
		browser:    browser,
		launcher:   l,
		pagePool:   rod.NewPagePool(browserCfg.MaxPages),
		browserCfg: browserCfg,
		scraperCfg: scraperCfg,
	}, nil
}

// Stats returns a snapshot of the pool's current state.
func (d *Driver) Stats() models.PoolStats {
	return models.PoolStats{
		DriverRunning: !d.closed.Load(),
		MaxPages:      d.browserCfg.MaxPages,
		ActivePages:   int(d.activePages.Load()),
	}
}

// Close drains the page pool and kills the browser process. Only the first
// call does any work; later calls return the first call's error.
func (d *Driver) Close() error {
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		slog.Info("driver shutting down: draining page pool")
		d.pagePool.Cleanup(func(p *rod.Page) {
			_ = p.Close()
		})
		slog.Info("driver shutting down: closing browser")
		if err := d.browser.Close(); err != nil {
			d.closeErr = models.NewTrawlError(models.ErrCodeBrowserCrash, "failed to close browser", err)
		}
		d.launcher.Cleanup()
		slog.Info("driver shutdown complete")
	})
	return d.closeErr
}
