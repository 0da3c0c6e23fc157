package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"photomarket/internal/pkg/response"
)

// CronSecret guards the batch-job endpoints with the shared secret the
// external scheduler presents in X-Cron-Secret. Constant-time compare.
func CronSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Cron secret is not configured")
			c.Abort()
			return
		}

		presented := c.GetHeader("X-Cron-Secret")
		if subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) != 1 {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Invalid cron secret")
			c.Abort()
			return
		}

		c.Next()
	}
}
