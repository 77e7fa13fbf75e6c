package middleware

import (
	"net/http"

	"github.com/flexprice/billingsession/internal/redirect"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows the site's own origin to call the API with credentials
func CORSMiddleware(site *redirect.SiteURL) gin.HandlerFunc {
	origin := site.BaseURL()

	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")
		c.Writer.Header().Add("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}
