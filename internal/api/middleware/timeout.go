package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bassista/go_core/internal/result"
)

// RequestTimeout puts a deadline on each request's context. It never kills a
// handler: downstream code must honor ctx.Done() itself, the middleware only
// reports the overrun.
func RequestTimeout(d time.Duration) gin.HandlerFunc {
	if d <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		// If the deadline passed and the handler wrote nothing, answer with
		// the usual failure envelope. A response already in flight cannot be
		// replaced safely.
		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusGatewayTimeout,
				result.Failf(result.KindIOFailure, "api.timeout", "request exceeded the %s deadline", d))
		}
	}
}
