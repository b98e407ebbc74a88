package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/use-agent/trawler/config"
	"github.com/use-agent/trawler/models"
)

type nopRunner struct{}

func (nopRunner) Trawl(ctx context.Context, req *models.TrawlRequest) (string, *models.Aggregate, error) {
	return "id", models.NewAggregate(), nil
}

func newTestRouter() *gin.Engine {
	cfg := &config.Config{
		Server:    config.ServerConfig{Mode: gin.TestMode},
		Auth:      config.AuthConfig{Enabled: true, APIKeys: []string{"k"}},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100},
		Trawl:     config.TrawlConfig{Browser: "bing", Method: "http", MaxPages: 1},
	}
	return NewRouter(nopRunner{}, nil, cfg, nil, nil, time.Now())
}

func TestRouter(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		key    string
		status int
	}{
		{"health is public", http.MethodGet, "/api/v1/health", "", "", http.StatusOK},
		{"metrics is public", http.MethodGet, "/metrics", "", "", http.StatusOK},
		{"sites needs key", http.MethodGet, "/api/v1/sites", "", "", http.StatusUnauthorized},
		{"sites", http.MethodGet, "/api/v1/sites", "", "k", http.StatusOK},
		{"trawl needs key", http.MethodPost, "/api/v1/trawl", `{"keyword":"x"}`, "", http.StatusUnauthorized},
		{"trawl", http.MethodPost, "/api/v1/trawl", `{"keyword":"x"}`, "k", http.StatusOK},
		{"old scrape route is gone", http.MethodPost, "/api/v1/scrape", `{}`, "k", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
