// Package gate composes the request-gating pipeline: rate limiting, authentication and
// authorization evaluated in that order, stopping at the first rejection.
//
// The pipeline is transport agnostic. The HTTP layer builds a Request from the inbound call,
// evaluates it and translates the Decision into a response.
package gate

import (
	"context"
	"log/slog"
	"time"

	authDomain "github.com/allisson/useradmin/internal/auth/domain"
	"github.com/allisson/useradmin/internal/metrics"
)

// Request is the gate's view of an inbound call.
type Request struct {
	// ClientID identifies the caller for rate limiting, usually the source address.
	ClientID string
	// Authorization is the raw Authorization header value.
	Authorization string
}

// Decision is the outcome of a stage or of the whole pipeline.
type Decision struct {
	// Stage is the name of the stage that produced the decision. Empty when admitted.
	Stage string
	// Reason classifies a rejection. ReasonNone when admitted.
	Reason authDomain.RejectionReason
	// Err is the rejection cause. Nil when admitted.
	Err error
	// Principal is the authenticated identity, once a stage has established it.
	Principal *authDomain.Principal
	// RetryAfter is set on rate limit rejections.
	RetryAfter time.Duration
}

// Admitted reports whether the decision lets the request through.
func (d Decision) Admitted() bool {
	return d.Err == nil
}

// Stage is one step of the pipeline. It receives the principal established by earlier stages,
// which is nil before authentication.
type Stage interface {
	Name() string
	Evaluate(ctx context.Context, req Request, principal *authDomain.Principal) Decision
}

// Pipeline evaluates stages in order and stops at the first rejection.
type Pipeline struct {
	stages  []Stage
	metrics metrics.BusinessMetrics
	logger  *slog.Logger
}

// NewPipeline creates a Pipeline running stages in the given order.
func NewPipeline(m metrics.BusinessMetrics, logger *slog.Logger, stages ...Stage) *Pipeline {
	return &Pipeline{
		stages:  stages,
		metrics: m,
		logger:  logger,
	}
}

// With returns a new pipeline running p's stages followed by extra.
func (p *Pipeline) With(extra ...Stage) *Pipeline {
	stages := make([]Stage, 0, len(p.stages)+len(extra))
	stages = append(stages, p.stages...)
	stages = append(stages, extra...)
	return &Pipeline{stages: stages, metrics: p.metrics, logger: p.logger}
}

// Evaluate runs the pipeline for req.
func (p *Pipeline) Evaluate(ctx context.Context, req Request) Decision {
	var principal *authDomain.Principal

	for _, stage := range p.stages {
		d := stage.Evaluate(ctx, req, principal)
		if !d.Admitted() {
			d.Stage = stage.Name()
			d.Reason = authDomain.ReasonOf(d.Err)
			if d.Principal == nil {
				d.Principal = principal
			}
			p.reject(ctx, req, d)
			return d
		}
		if d.Principal != nil {
			principal = d.Principal
		}
	}

	return Decision{Principal: principal}
}

func (p *Pipeline) reject(ctx context.Context, req Request, d Decision) {
	p.metrics.RecordRejection(ctx, d.Stage, string(d.Reason))

	attrs := []any{
		slog.String("stage", d.Stage),
		slog.String("reason", string(d.Reason)),
		slog.String("client_id", req.ClientID),
	}
	if d.Principal != nil {
		attrs = append(attrs, slog.Int64("user_id", d.Principal.User.ID))
	}

	if d.Reason == authDomain.ReasonUnavailable {
		p.logger.Warn("request rejected", append(attrs, slog.Any("error", d.Err))...)
		return
	}
	p.logger.Debug("request rejected", attrs...)
}
