package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/trawler/cache"
	"github.com/use-agent/trawler/config"
	"github.com/use-agent/trawler/models"
	"github.com/use-agent/trawler/webhook"
)

func init() { gin.SetMode(gin.TestMode) }

var defaults = config.TrawlConfig{Browser: "bing", Method: "rod", MaxPages: 3}

type fakeRunner struct {
	mu    sync.Mutex
	calls []models.TrawlRequest
	err   error
}

func (f *fakeRunner) Trawl(ctx context.Context, req *models.TrawlRequest) (string, *models.Aggregate, error) {
	f.mu.Lock()
	f.calls = append(f.calls, *req)
	f.mu.Unlock()
	if f.err != nil {
		return "run-err", nil, f.err
	}
	agg := models.NewAggregate()
	agg.Merge(&models.Bundle{
		Results:      []models.Result{{Title: "MongoDB docs", URL: "https://www.mongodb.com/docs/"}},
		ResultsCount: 1,
	}, req.Keyword, []string{req.Keyword})
	return "run-1", agg, nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	urls   []string
	events []*webhook.Event
}

func (f *fakeNotifier) DeliverAsync(url, secret string, ev *webhook.Event) <-chan error {
	f.mu.Lock()
	f.urls = append(f.urls, url)
	f.events = append(f.events, ev)
	f.mu.Unlock()
	done := make(chan error)
	close(done)
	return done
}

func post(t *testing.T, h gin.HandlerFunc, body string) (*httptest.ResponseRecorder, models.TrawlResponse) {
	t.Helper()
	r := gin.New()
	r.POST("/trawl", h)
	req := httptest.NewRequest(http.MethodPost, "/trawl", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp models.TrawlResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestTrawl_Success(t *testing.T) {
	runner := &fakeRunner{}
	w, resp := post(t, Trawl(runner, defaults, nil, nil), `{"keyword":"MongoDB","generate_kws":true}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, "run-1", resp.ID)
	require.NotNil(t, resp.Data)
	assert.Equal(t, 1, resp.Data.ResultsCount)
	assert.Equal(t, "MongoDB", resp.Data.SearchKeyword)
	assert.Empty(t, resp.CacheStatus)

	require.Len(t, runner.calls, 1)
	got := runner.calls[0]
	assert.Equal(t, "bing", got.Browser)
	assert.Equal(t, "rod", got.Method)
	assert.Equal(t, 3, got.MaxPages)
	assert.Equal(t, 120, got.Timeout)
	assert.True(t, got.GenerateKeywords)
}

func TestTrawl_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"missing keyword", `{"browser":"bing"}`},
		{"max pages too high", `{"keyword":"x","max_pages":500}`},
		{"bad base url", `{"keyword":"x","base_url":"not a url"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{}
			w, resp := post(t, Trawl(runner, defaults, nil, nil), tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, models.ErrCodeInvalidInput, resp.Error.Code)
			assert.Empty(t, runner.calls)
		})
	}
}

func TestTrawl_UnknownBrowser(t *testing.T) {
	runner := &fakeRunner{}
	w, resp := post(t, Trawl(runner, defaults, nil, nil), `{"keyword":"x","browser":"altavista"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, models.ErrCodeNotImplemented, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "altavista")
	assert.Empty(t, runner.calls)
}

func TestTrawl_RunnerErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{models.NewTrawlError(models.ErrCodeFetch, "failed to fetch", nil), http.StatusBadGateway, models.ErrCodeFetch},
		{models.NewTrawlError(models.ErrCodeTimeout, "deadline", nil), http.StatusGatewayTimeout, models.ErrCodeTimeout},
		{models.NewTrawlError(models.ErrCodeMethodNotImplemented, "Not implemented", nil), http.StatusBadRequest, models.ErrCodeMethodNotImplemented},
		{models.NewTrawlError(models.ErrCodeBrowserCrash, "no driver", nil), http.StatusServiceUnavailable, models.ErrCodeBrowserCrash},
		{errors.New("boom"), http.StatusInternalServerError, models.ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			notifier := &fakeNotifier{}
			w, resp := post(t, Trawl(&fakeRunner{err: tt.err}, defaults, nil, notifier),
				`{"keyword":"x","webhook_url":"https://hooks.test/in"}`)

			assert.Equal(t, tt.status, w.Code)
			assert.False(t, resp.Success)
			assert.Equal(t, "run-err", resp.ID)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)

			require.Len(t, notifier.events, 1)
			assert.Equal(t, webhook.EventTrawlFailed, notifier.events[0].Type)
			assert.Equal(t, "run-err", notifier.events[0].JobID)
		})
	}
}

func TestTrawl_Cache(t *testing.T) {
	runner := &fakeRunner{}
	cc := cache.New(10)
	defer cc.Stop()
	h := Trawl(runner, defaults, cc, nil)

	_, first := post(t, h, `{"keyword":"MongoDB","max_age":60000}`)
	assert.Equal(t, "miss", first.CacheStatus)

	_, second := post(t, h, `{"keyword":"MongoDB","max_age":60000}`)
	assert.Equal(t, "hit", second.CacheStatus)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, runner.calls, 1)

	_, other := post(t, h, `{"keyword":"MongoDB","max_age":60000,"max_pages":1}`)
	assert.Equal(t, "miss", other.CacheStatus)
	assert.Len(t, runner.calls, 2)

	_, uncached := post(t, h, `{"keyword":"MongoDB"}`)
	assert.Empty(t, uncached.CacheStatus)
	assert.Len(t, runner.calls, 3)
}

func TestTrawl_WebhookCompleted(t *testing.T) {
	notifier := &fakeNotifier{}
	post(t, Trawl(&fakeRunner{}, defaults, nil, notifier), `{"keyword":"x","webhook_url":"https://hooks.test/in"}`)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, "https://hooks.test/in", notifier.urls[0])
	assert.Equal(t, webhook.EventTrawlCompleted, notifier.events[0].Type)
	assert.Equal(t, "run-1", notifier.events[0].JobID)
}

func TestTrawl_NoWebhookURL(t *testing.T) {
	notifier := &fakeNotifier{}
	post(t, Trawl(&fakeRunner{}, defaults, nil, notifier), `{"keyword":"x"}`)
	assert.Empty(t, notifier.events)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		stats  StatsFunc
		status string
	}{
		{"no driver", nil, "degraded"},
		{"idle", func() models.PoolStats { return models.PoolStats{DriverRunning: true, MaxPages: 4} }, "healthy"},
		{"busy", func() models.PoolStats { return models.PoolStats{DriverRunning: true, MaxPages: 4, ActivePages: 4} }, "degraded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", Health(tt.stats, time.Now()))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			var resp models.HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.status, resp.Status)
			assert.Equal(t, Version, resp.Version)
		})
	}
}

func TestSites(t *testing.T) {
	r := gin.New()
	r.GET("/sites", Sites())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sites", nil))

	var resp models.SitesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Browsers, "bing")
	assert.Contains(t, resp.Browsers, "stackoverflow")
	assert.Equal(t, []string{"http", "colly", "rod", "rod-stealth", "auto"}, resp.Methods)
}
