package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/use-agent/trawler/api"
	"github.com/use-agent/trawler/api/handler"
	"github.com/use-agent/trawler/cache"
	"github.com/use-agent/trawler/engine"
	"github.com/use-agent/trawler/keywords"
	"github.com/use-agent/trawler/models"
	"github.com/use-agent/trawler/scraper"
	"github.com/use-agent/trawler/trawler"
	"github.com/use-agent/trawler/webhook"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the HTTP API.",
	RunE: func(cmd *cobra.Command, args []string) error {
		slog.Info("trawler starting",
			"host", cfg.Server.Host,
			"port", cfg.Server.Port,
			"mode", cfg.Server.Mode,
			"maxTabs", cfg.Browser.MaxPages,
		)

		// ── 1. Keyword templates ────────────────────────────────────
		templates, err := keywords.LoadTemplates(cfg.Trawl.TemplatesFile)
		if err != nil {
			return err
		}

		// ── 2. Shared driver (launches browser) ─────────────────────
		// Without Chromium the API still serves the direct methods.
		var (
			driver engine.Driver
			stats  handler.StatsFunc
		)
		if d, err := scraper.Start(cfg.Browser, cfg.Scraper); err != nil {
			slog.Warn("browser driver unavailable, only http and colly methods will work", "error", err)
		} else {
			defer d.Close()
			driver = d
			stats = d.Stats
		}

		// ── 3. Engines, cache, webhooks ─────────────────────────────
		backends := newBackends(cfg)
		defer backends.Close()

		cc := cache.New(cfg.Cache.MaxEntries)
		defer cc.Stop()

		svc := trawler.NewService(trawler.ServiceOptions{
			Defaults:    cfg.Trawl,
			Templates:   templates,
			Driver:      driver,
			Resolver:    backends,
			PageTimeout: cfg.Scraper.DefaultTimeout,
		})

		// ── 4. Router + server ──────────────────────────────────────
		router := api.NewRouter(svc, stats, cfg, cc, webhook.NewSender(), time.Now())
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		srv := &http.Server{
			Addr:    addr,
			Handler: router,
		}

		errCh := make(chan error, 1)
		go func() {
			slog.Info("HTTP server listening", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		// ── 5. Graceful shutdown ────────────────────────────────────
		select {
		case err := <-errCh:
			return models.NewTrawlError(models.ErrCodeInternal, "HTTP server error", err)
		case <-cmd.Context().Done():
			slog.Info("shutdown signal received")
		}

		// Give in-flight requests 5 seconds to complete.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("HTTP server forced shutdown", "error", err)
		} else {
			slog.Info("HTTP server drained gracefully")
		}

		// Deferred closes drain the page pool and kill Chrome.
		slog.Info("trawler stopped")
		return nil
	},
}
