package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/trawler/models"
)

// respondError maps an error to the correct HTTP status code and writes
// a structured JSON error response.
func respondError(c *gin.Context, err error, id string, timing models.TimingInfo) *models.TrawlResponse {
	var te *models.TrawlError
	if !errors.As(err, &te) {
		te = models.NewTrawlError(models.ErrCodeInternal, err.Error(), err)
	}

	resp := &models.TrawlResponse{
		Success: false,
		ID:      id,
		Error:   te.ToDetail(),
		Timing:  timing,
	}
	c.JSON(mapErrorToStatus(te), resp)
	return resp
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.TrawlError) int {
	switch e.Code {
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeNavigation, models.ErrCodeFetch, models.ErrCodeExtraction:
		return http.StatusBadGateway // 502
	case models.ErrCodeBrowserCrash:
		return http.StatusServiceUnavailable // 503
	case models.ErrCodeInvalidInput, models.ErrCodeInvalidConfig,
		models.ErrCodeNotImplemented, models.ErrCodeMethodNotImplemented:
		return http.StatusBadRequest // 400
	case models.ErrCodeNoData:
		return http.StatusNotFound // 404
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
