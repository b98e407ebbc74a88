package models

// TrawlRequest is the payload for POST /api/v1/trawl.
type TrawlRequest struct {
	// Keyword is the seed search term. Required.
	Keyword string `json:"keyword" binding:"required"`

	// Browser selects the site kind: "bing", "stackoverflow",
	// "stackoverflow-doc" or "wordpress". Default: server config.
	Browser string `json:"browser,omitempty"`

	// MaxPages caps the pages fetched per keyword variant.
	// Default: server config. Max: 50.
	MaxPages int `json:"max_pages,omitempty" binding:"omitempty,min=1,max=50"`

	// Method selects the scrape backend ("http", "colly", "rod",
	// "rod-stealth", "auto"). Unknown values fail at the first fetch.
	Method string `json:"method,omitempty"`

	// BaseURL is required for self-hosted sites (wordpress).
	BaseURL string `json:"base_url,omitempty" binding:"omitempty,url"`

	// GenerateKeywords expands the seed with prefix/suffix templates.
	GenerateKeywords bool `json:"generate_kws,omitempty"`

	// Prefixes and Suffixes override the configured templates.
	Prefixes []string `json:"prefixes,omitempty"`
	Suffixes []string `json:"suffixes,omitempty"`

	// Timeout is the deadline for the whole trawl in seconds.
	// Default: 120. Max: 600.
	Timeout int `json:"timeout,omitempty" binding:"omitempty,min=1,max=600"`

	// MaxAge enables the response cache: a cached response younger than
	// MaxAge milliseconds is returned instead of running again.
	MaxAge int `json:"max_age,omitempty" binding:"omitempty,min=0"`

	WebhookURL    string `json:"webhook_url,omitempty" binding:"omitempty,url"`
	WebhookSecret string `json:"webhook_secret,omitempty"`
}

// Defaults fills unset fields from the server-side trawl defaults.
func (r *TrawlRequest) Defaults(browser, method string, maxPages int) {
	if r.Browser == "" {
		r.Browser = browser
	}
	if r.Method == "" {
		r.Method = method
	}
	if r.MaxPages == 0 {
		r.MaxPages = maxPages
	}
	if r.Timeout == 0 {
		r.Timeout = 120
	}
}
