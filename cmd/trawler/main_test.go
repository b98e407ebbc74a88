package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/use-agent/trawler/config"
)

func TestOr(t *testing.T) {
	assert.Equal(t, "bing", or("", "bing"))
	assert.Equal(t, "wordpress", or("wordpress", "bing"))
	assert.Equal(t, 3, or(0, 3))
	assert.Equal(t, 1, or(1, 3))
}

func TestSitesCmd(t *testing.T) {
	var out bytes.Buffer
	sitesCmd.SetOut(&out)
	sitesCmd.Run(sitesCmd, nil)

	got := out.String()
	assert.Contains(t, got, "  bing\n")
	assert.Contains(t, got, "  stackoverflow\n")
	assert.Contains(t, got, "  rod (default)\n")
	assert.True(t, strings.Index(got, "sites:") < strings.Index(got, "methods:"))
}

func TestInitLogger(t *testing.T) {
	var out bytes.Buffer
	initLogger(config.LogConfig{Level: "warn", Format: "text"}, &out)
	defer initLogger(config.LogConfig{}, &bytes.Buffer{})

	slog.Info("hidden")
	slog.Warn("shown")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "level=WARN")
}
