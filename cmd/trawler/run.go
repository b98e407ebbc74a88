package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/use-agent/trawler/engine"
	"github.com/use-agent/trawler/keywords"
	"github.com/use-agent/trawler/models"
	"github.com/use-agent/trawler/scraper"
	"github.com/use-agent/trawler/trawler"
)

var runFlags struct {
	browser     string
	method      string
	baseURL     string
	maxPages    int
	generateKws bool
	prefixes    []string
	suffixes    []string
	timeout     time.Duration
	compact     bool
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&runFlags.browser, "browser", "b", "", "site to search (default from TRAWLER_BROWSER)")
	f.StringVarP(&runFlags.method, "method", "m", "", "scrape method: http, colly, rod, rod-stealth or auto")
	f.StringVar(&runFlags.baseURL, "base-url", "", "site origin, required for wordpress")
	f.IntVarP(&runFlags.maxPages, "max-pages", "p", 0, "result pages per keyword (default from TRAWLER_MAX_PAGES)")
	f.BoolVarP(&runFlags.generateKws, "generate-kws", "g", false, "also search prefix and suffix variants of the keyword")
	f.StringSliceVar(&runFlags.prefixes, "prefix", nil, "keyword prefix template (repeatable)")
	f.StringSliceVar(&runFlags.suffixes, "suffix", nil, "keyword suffix template (repeatable)")
	f.DurationVar(&runFlags.timeout, "timeout", 5*time.Minute, "deadline for the whole trawl")
	f.BoolVar(&runFlags.compact, "compact", false, "print JSON on one line")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run <keyword>",
	Short: "Runs one trawl and prints the aggregated results as JSON.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		templates, err := keywords.LoadTemplates(cfg.Trawl.TemplatesFile)
		if err != nil {
			return err
		}
		prefixes, suffixes := runFlags.prefixes, runFlags.suffixes
		if len(prefixes) == 0 {
			prefixes = templates.Prefixes
		}
		if len(suffixes) == 0 {
			suffixes = templates.Suffixes
		}

		backends := newBackends(cfg)
		defer backends.Close()

		t, err := trawler.New(trawler.Config{
			Keyword:          args[0],
			Browser:          or(runFlags.browser, cfg.Trawl.Browser),
			MaxPages:         or(runFlags.maxPages, cfg.Trawl.MaxPages),
			Method:           or(runFlags.method, cfg.Trawl.Method),
			BaseURL:          runFlags.baseURL,
			GenerateKeywords: runFlags.generateKws,
			Prefixes:         prefixes,
			Suffixes:         suffixes,
		},
			trawler.WithResolver(backends),
			trawler.WithDriverStarter(func(engine.Method) (engine.Driver, error) {
				return scraper.Start(cfg.Browser, cfg.Scraper)
			}),
			trawler.WithPageTimeout(cfg.Scraper.DefaultTimeout),
			trawler.WithPageRate(cfg.Trawl.PageRate),
		)
		if err != nil {
			return err
		}
		defer func() { _ = t.Stop() }()

		ctx, cancel := context.WithTimeout(cmd.Context(), runFlags.timeout)
		defer cancel()
		if err := t.Run(ctx); err != nil {
			return err
		}

		data, err := t.Data()
		if errors.Is(err, models.ErrNoData) {
			slog.Warn("trawl found nothing", "keyword", args[0])
			data = models.NewAggregate()
			data.SearchKeyword = args[0]
			data.GeneratedKeywords = t.GeneratedKeywords()
		} else if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		if !runFlags.compact {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(data)
	},
}

func or[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}
