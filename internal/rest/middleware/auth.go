package middleware

import (
	"strings"

	"github.com/flexprice/billingsession/internal/auth"
	"github.com/flexprice/billingsession/internal/logger"
	"github.com/flexprice/billingsession/internal/types"
	"github.com/gin-gonic/gin"
)

const bearerPrefix = "Bearer "

// AuthenticateMiddleware resolves the Bearer token in the Authorization
// header into a user and stores it in the request context. Requests without
// a valid session continue anonymously: the billing operations themselves
// report a missing session in the shape their caller expects.
func AuthenticateMiddleware(provider auth.Provider, logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(types.HeaderAuthorization)
		if authHeader == "" {
			c.Next()
			return
		}

		// Check if the authorization header is in the correct format
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			logger.Debugw("ignoring malformed authorization header")
			c.Next()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		u, err := provider.VerifySession(c.Request.Context(), token)
		if err != nil {
			logger.WithContext(c.Request.Context()).Debugw("session verification failed", "error", err)
			c.Next()
			return
		}

		c.Request = c.Request.WithContext(types.SetUser(c.Request.Context(), u.ID, u.Email))
		c.Next()
	}
}
