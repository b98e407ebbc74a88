package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/trawler/browser"
	"github.com/use-agent/trawler/cache"
	"github.com/use-agent/trawler/config"
	"github.com/use-agent/trawler/models"
	"github.com/use-agent/trawler/webhook"
)

// TrawlRunner runs one trawl to completion.
type TrawlRunner interface {
	Trawl(ctx context.Context, req *models.TrawlRequest) (id string, data *models.Aggregate, err error)
}

// Notifier delivers webhook events in the background.
type Notifier interface {
	DeliverAsync(url, secret string, event *webhook.Event) <-chan error
}

// Trawl returns a handler for POST /api/v1/trawl.
//
// Orchestration flow:
//  1. Parse & validate request, apply defaults.
//  2. Cache lookup when max_age is set.
//  3. Run the trawl under the request timeout  (records trawl_ms)
//  4. Fill Timing, store in cache, respond.
//  5. Fire the webhook, if any, for success and failure alike.
func Trawl(runner TrawlRunner, defaults config.TrawlConfig, cc *cache.Cache, notifier Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		// ── 1. Parse request ────────────────────────────────────────
		var req models.TrawlRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.TrawlResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults(defaults.Browser, defaults.Method, defaults.MaxPages)

		if err := browser.Validate(browser.Kind(req.Browser)); err != nil {
			respondError(c, err, "", models.TimingInfo{TotalMs: time.Since(totalStart).Milliseconds()})
			return
		}

		// ── 2. Cache lookup ─────────────────────────────────────────
		cacheKey := cache.Key(&req)
		if cc != nil && req.MaxAge > 0 {
			if cached, hit := cc.Get(cacheKey, req.MaxAge); hit {
				resp := *cached
				resp.CacheStatus = "hit"
				resp.Timing = models.TimingInfo{
					TotalMs: time.Since(totalStart).Milliseconds(),
				}
				c.JSON(http.StatusOK, resp)
				return
			}
		}

		// ── 3. Trawl ────────────────────────────────────────────────
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(req.Timeout)*time.Second)
		defer cancel()

		trawlStart := time.Now()
		id, data, err := runner.Trawl(ctx, &req)
		timing := models.TimingInfo{
			TrawlMs: time.Since(trawlStart).Milliseconds(),
		}

		if err != nil {
			timing.TotalMs = time.Since(totalStart).Milliseconds()
			resp := respondError(c, err, id, timing)
			notify(notifier, &req, webhook.EventTrawlFailed, id, resp.Error)
			return
		}

		// ── 4. Respond ──────────────────────────────────────────────
		timing.TotalMs = time.Since(totalStart).Milliseconds()
		resp := &models.TrawlResponse{
			Success: true,
			ID:      id,
			Data:    data,
			Timing:  timing,
		}
		if cc != nil && req.MaxAge > 0 {
			cc.Set(cacheKey, resp)
			out := *resp
			out.CacheStatus = "miss"
			resp = &out
		}
		c.JSON(http.StatusOK, resp)

		// ── 5. Webhook ──────────────────────────────────────────────
		notify(notifier, &req, webhook.EventTrawlCompleted, id, data)
	}
}

func notify(n Notifier, req *models.TrawlRequest, typ, id string, data any) {
	if n == nil || req.WebhookURL == "" {
		return
	}
	n.DeliverAsync(req.WebhookURL, req.WebhookSecret, webhook.NewEvent(typ, id, data))
}
