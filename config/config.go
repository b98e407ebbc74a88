package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Scraper   ScraperConfig
	Engine    EngineConfig
	Trawl     TrawlConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig
}

// EngineConfig controls the direct engines and the auto dispatcher.
type EngineConfig struct {
	// EscalationDelays is the staged start delay for each tier of the
	// auto method (http, rod, rod-stealth).
	EscalationDelays []time.Duration // default: [0s, 2s, 5s]

	// UserAgents rotated by the direct engines. Empty uses the built-in set.
	UserAgents []string

	// MemoryTTL is how long the auto method remembers a domain's winner.
	MemoryTTL time.Duration // default: 24h
}

// TrawlConfig holds the defaults applied to a trawl when the caller leaves
// a field empty.
type TrawlConfig struct {
	Browser  string // default: "bing"
	Method   string // default: "rod"
	MaxPages int    // default: 3

	// PageRate caps page fetches per second inside one session. 0 disables pacing.
	PageRate float64 // default: 1

	// TemplatesFile is an optional YAML file with prefixes and suffixes.
	TemplatesFile string
}

// CacheConfig controls the trawl response cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached responses.
	MaxEntries int // default: 1000
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// MaxPages is the page pool capacity (max concurrent tabs).
	MaxPages int // default: 4

	// DefaultProxy is the proxy URL for all browser traffic.
	DefaultProxy string

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string
}

// ScraperConfig controls driven page loads.
type ScraperConfig struct {
	// DefaultTimeout is the per-page timeout when the caller sets none.
	DefaultTimeout time.Duration // default: 30s

	// MaxTimeout caps any per-page timeout.
	MaxTimeout time.Duration // default: 120s

	// BlockedResourceTypes lists resource types to block.
	// default: ["Image", "Stylesheet", "Font", "Media"]
	BlockedResourceTypes []string

	// BlockAds drops requests to well-known ad and tracking domains.
	BlockAds bool // default: true
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 1

	// Burst is the maximum burst size per API key.
	Burst int // default: 3
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("TRAWLER_HOST", "0.0.0.0"),
			Port: envIntOr("TRAWLER_PORT", 8080),
			Mode: envOr("TRAWLER_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:     envBoolOr("TRAWLER_HEADLESS", true),
			MaxPages:     envIntOr("TRAWLER_MAX_TABS", 4),
			DefaultProxy: os.Getenv("TRAWLER_PROXY"),
			NoSandbox:    envBoolOr("TRAWLER_NO_SANDBOX", false),
			BrowserBin:   os.Getenv("TRAWLER_BROWSER_BIN"),
		},
		Scraper: ScraperConfig{
			DefaultTimeout: envDurationOr("TRAWLER_PAGE_TIMEOUT", 30*time.Second),
			MaxTimeout:     envDurationOr("TRAWLER_MAX_PAGE_TIMEOUT", 120*time.Second),
			BlockedResourceTypes: envSliceOr("TRAWLER_BLOCKED_RESOURCES", []string{
				"Image", "Stylesheet", "Font", "Media",
			}),
			BlockAds: envBoolOr("TRAWLER_BLOCK_ADS", true),
		},
		Engine: EngineConfig{
			EscalationDelays: envDurationSliceOr("TRAWLER_ESCALATION_DELAYS", []time.Duration{0, 2 * time.Second, 5 * time.Second}),
			UserAgents:       envSliceOr("TRAWLER_USER_AGENTS", nil),
			MemoryTTL:        envDurationOr("TRAWLER_DOMAIN_MEMORY_TTL", 24*time.Hour),
		},
		Trawl: TrawlConfig{
			Browser:       envOr("TRAWLER_BROWSER", "bing"),
			Method:        envOr("TRAWLER_METHOD", "rod"),
			MaxPages:      envIntOr("TRAWLER_MAX_PAGES", 3),
			PageRate:      envFloatOr("TRAWLER_PAGE_RATE", 1.0),
			TemplatesFile: os.Getenv("TRAWLER_TEMPLATES_FILE"),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("TRAWLER_AUTH_ENABLED", true),
			APIKeys: envSliceOr("TRAWLER_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("TRAWLER_RATE_RPS", 1.0),
			Burst:             envIntOr("TRAWLER_RATE_BURST", 3),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("TRAWLER_CACHE_MAX_ENTRIES", 1000),
		},
		Log: LogConfig{
			Level:  envOr("TRAWLER_LOG_LEVEL", "info"),
			Format: envOr("TRAWLER_LOG_FORMAT", "json"),
		},
	}
}

func envDurationSliceOr(key string, fallback []time.Duration) []time.Duration {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]time.Duration, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				if d, err := time.ParseDuration(trimmed); err == nil {
					result = append(result, d)
				}
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
