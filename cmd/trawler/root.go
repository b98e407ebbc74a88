package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/use-agent/trawler/config"
	"github.com/use-agent/trawler/engine"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "trawler",
	Short: "trawler searches sites for a keyword and its variants and collects the results.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		initLogger(cfg.Log, os.Stderr)
	},
	SilenceUsage: true,
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig, w io.Writer) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}

func newBackends(cfg *config.Config) *engine.Backends {
	return engine.NewBackends(engine.BackendsConfig{
		UserAgents:       cfg.Engine.UserAgents,
		EscalationDelays: cfg.Engine.EscalationDelays,
		MemoryTTL:        cfg.Engine.MemoryTTL,
	})
}
