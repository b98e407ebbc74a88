package models

// TrawlResponse is the response for POST /api/v1/trawl.
type TrawlResponse struct {
	// Success indicates whether every session of the trawl completed.
	Success bool `json:"success"`

	// ID identifies the run (also used as the webhook job id).
	ID string `json:"id"`

	// Data is the aggregate record. Nil when the run failed or found nothing.
	Data *Aggregate `json:"data,omitempty"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// CacheStatus indicates whether the response was served from cache.
	// Values: "hit", "miss", or empty (caching not requested).
	CacheStatus string `json:"cache_status,omitempty"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// TrawlMs is the time spent inside Trawler.Run.
	TrawlMs int64 `json:"trawl_ms"`
}

// SitesResponse is the response for GET /api/v1/sites.
type SitesResponse struct {
	Browsers []string `json:"browsers"`
	Methods  []string `json:"methods"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status    string    `json:"status"` // "healthy" or "degraded"
	Uptime    string    `json:"uptime"`
	PoolStats PoolStats `json:"pool_stats"`
	Version   string    `json:"version"`
}

// PoolStats reports the state of the shared browser driver.
type PoolStats struct {
	DriverRunning bool `json:"driver_running"`
	MaxPages      int  `json:"max_pages"`
	ActivePages   int  `json:"active_pages"`
}
