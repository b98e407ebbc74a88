package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/trawler/models"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// StatsFunc reports the shared driver's pool. Nil means no driver.
type StatsFunc func() models.PoolStats

// Health returns a handler for GET /api/v1/health.
//
// Degrades status when no driver is running or > 80% of pages are active.
func Health(stats StatsFunc, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ps models.PoolStats
		if stats != nil {
			ps = stats()
		}

		status := "healthy"
		switch {
		case !ps.DriverRunning:
			status = "degraded"
		case ps.MaxPages > 0 && ps.ActivePages > int(float64(ps.MaxPages)*0.8):
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:    status,
			Uptime:    time.Since(startTime).Round(time.Second).String(),
			PoolStats: ps,
			Version:   Version,
		})
	}
}
