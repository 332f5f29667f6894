package http

import (
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/allisson/useradmin/internal/gate"
	"github.com/allisson/useradmin/internal/httputil"
	"github.com/allisson/useradmin/internal/ratelimit"
)

// GateMiddleware runs the gating pipeline before the handler.
//
// The client is identified by its source address and the credential is read from the
// Authorization header. A rejected request is answered with the status mapped from the
// rejection cause and never reaches the handler. Rate limit rejections carry a Retry-After
// header in whole seconds. An admitted request carries its principal in the request context,
// retrievable with gate.GetPrincipal.
func GateMiddleware(pipeline *gate.Pipeline, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := pipeline.Evaluate(c.Request.Context(), gate.Request{
			ClientID:      c.ClientIP(),
			Authorization: c.GetHeader("Authorization"),
		})

		if !decision.Admitted() {
			if decision.RetryAfter > 0 {
				secs := ratelimit.Result{RetryAfter: decision.RetryAfter}.RetryAfterSeconds()
				c.Header("Retry-After", strconv.Itoa(secs))
			}
			httputil.HandleErrorGin(c, decision.Err, logger)
			c.Abort()
			return
		}

		if decision.Principal != nil {
			c.Request = c.Request.WithContext(gate.WithPrincipal(c.Request.Context(), decision.Principal))
		}

		c.Next()
	}
}
