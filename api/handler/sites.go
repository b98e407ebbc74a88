package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/trawler/browser"
	"github.com/use-agent/trawler/engine"
	"github.com/use-agent/trawler/models"
)

// Sites returns a handler for GET /api/v1/sites listing browser kinds and
// scrape methods.
func Sites() gin.HandlerFunc {
	return func(c *gin.Context) {
		kinds := browser.Kinds()
		resp := models.SitesResponse{
			Browsers: make([]string, 0, len(kinds)),
			Methods:  make([]string, 0, len(engine.Methods())),
		}
		for _, k := range kinds {
			resp.Browsers = append(resp.Browsers, string(k))
		}
		for _, m := range engine.Methods() {
			resp.Methods = append(resp.Methods, string(m))
		}
		c.JSON(http.StatusOK, resp)
	}
}
