// Package metrics exposes Prometheus instrumentation for trawl sessions.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PagesFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trawler_pages_fetched_total",
			Help: "Total number of result pages fetched",
		},
		[]string{"site", "engine", "status"},
	)

	PageFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trawler_page_fetch_duration_seconds",
			Help:    "Duration of result page fetches in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"site", "engine"},
	)

	SessionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trawler_sessions_total",
			Help: "Total number of browser sessions by outcome",
		},
		[]string{"site", "outcome"},
	)

	ResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trawler_results_total",
			Help: "Total number of search results extracted",
		},
		[]string{"site"},
	)
)

// RecordPage records one page fetch. engineName may be empty when the fetch
// failed before an engine answered.
func RecordPage(site, engineName string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	if engineName == "" {
		engineName = "unknown"
	}
	PagesFetchedTotal.WithLabelValues(site, engineName, status).Inc()
	PageFetchDuration.WithLabelValues(site, engineName).Observe(d.Seconds())
}

// RecordSession records the end of a browser session and how many results
// it produced.
func RecordSession(site string, results int, err error) {
	outcome := "done"
	if err != nil {
		outcome = "failed"
	}
	SessionsTotal.WithLabelValues(site, outcome).Inc()
	if results > 0 {
		ResultsTotal.WithLabelValues(site).Add(float64(results))
	}
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
