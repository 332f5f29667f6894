package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	authDomain "github.com/allisson/useradmin/internal/auth/domain"
	"github.com/allisson/useradmin/internal/gate"
	"github.com/allisson/useradmin/internal/metrics"
)

// fixedStage returns the same decision for every request and records what it saw.
type fixedStage struct {
	decision gate.Decision
	seen     gate.Request
}

func (s *fixedStage) Name() string { return "fixed" }

func (s *fixedStage) Evaluate(_ context.Context, req gate.Request, _ *authDomain.Principal) gate.Decision {
	s.seen = req
	return s.decision
}

func newGateRouter(stage *fixedStage, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pipeline := gate.NewPipeline(metrics.NewNoOpBusinessMetrics(), logger, stage)

	router := gin.New()
	router.GET("/protected", GateMiddleware(pipeline, logger), handler)
	return router
}

func TestGateMiddleware(t *testing.T) {
	t.Run("Success_PrincipalInContext", func(t *testing.T) {
		principal := &authDomain.Principal{User: authDomain.UserSnapshot{ID: 7, RoleID: 2}}
		stage := &fixedStage{decision: gate.Decision{Principal: principal}}

		var got *authDomain.Principal
		router := newGateRouter(stage, func(c *gin.Context) {
			got, _ = gate.GetPrincipal(c.Request.Context())
			c.Status(http.StatusNoContent)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.RemoteAddr = "10.0.0.9:5555"
		req.Header.Set("Authorization", "Bearer abc")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, principal, got)
		assert.Equal(t, "10.0.0.9", stage.seen.ClientID)
		assert.Equal(t, "Bearer abc", stage.seen.Authorization)
	})

	tests := []struct {
		name           string
		err            error
		retryAfter     time.Duration
		expectedStatus int
		expectedRetry  string
	}{
		{
			name:           "Error_Unauthorized",
			err:            authDomain.ErrInvalidSignature,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Error_RevocationUnavailableFailsClosed",
			err:            authDomain.ErrRevocationUnavailable,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Error_Forbidden",
			err:            authDomain.ErrInsufficientRole,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Error_RateLimited",
			err:            authDomain.ErrRateLimited,
			retryAfter:     1500 * time.Millisecond,
			expectedStatus: http.StatusTooManyRequests,
			expectedRetry:  "2",
		},
		{
			name:           "Error_LimiterUnavailable",
			err:            authDomain.ErrRateLimiterUnavailable,
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name:           "Error_UnknownCause",
			err:            errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stage := &fixedStage{decision: gate.Decision{Err: tt.err, RetryAfter: tt.retryAfter}}
			called := false
			router := newGateRouter(stage, func(c *gin.Context) {
				called = true
				c.Status(http.StatusNoContent)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedRetry, w.Header().Get("Retry-After"))
			assert.False(t, called)
			assert.NotContains(t, w.Body.String(), "signature")
		})
	}
}
