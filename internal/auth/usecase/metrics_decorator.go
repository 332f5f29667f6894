package usecase

import (
	"context"
	"time"

	authDomain "github.com/allisson/useradmin/internal/auth/domain"
	"github.com/allisson/useradmin/internal/metrics"
)

// authenticatorWithMetrics decorates Authenticator with metrics instrumentation.
type authenticatorWithMetrics struct {
	next    Authenticator
	metrics metrics.BusinessMetrics
}

// NewAuthenticatorWithMetrics wraps an Authenticator with metrics recording.
func NewAuthenticatorWithMetrics(authenticator Authenticator, m metrics.BusinessMetrics) Authenticator {
	return &authenticatorWithMetrics{
		next:    authenticator,
		metrics: m,
	}
}

func (a *authenticatorWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "auth", operation, status)
	a.metrics.RecordDuration(ctx, "auth", operation, time.Since(start), status)
}

// Issue records metrics for login attempts.
func (a *authenticatorWithMetrics) Issue(
	ctx context.Context,
	input *authDomain.IssueTokenInput,
) (*authDomain.IssueTokenOutput, error) {
	start := time.Now()
	output, err := a.next.Issue(ctx, input)
	a.record(ctx, "token_issue", start, err)
	return output, err
}

// Mint records metrics for token minting.
func (a *authenticatorWithMetrics) Mint(
	ctx context.Context,
	snapshot authDomain.UserSnapshot,
) (*authDomain.IssueTokenOutput, error) {
	start := time.Now()
	output, err := a.next.Mint(ctx, snapshot)
	a.record(ctx, "token_mint", start, err)
	return output, err
}

// Authenticate records metrics for token verification.
func (a *authenticatorWithMetrics) Authenticate(
	ctx context.Context,
	rawToken string,
) (*authDomain.Principal, error) {
	start := time.Now()
	principal, err := a.next.Authenticate(ctx, rawToken)
	a.record(ctx, "token_authenticate", start, err)
	return principal, err
}

// Revoke records metrics for token revocation, including failed cache writes.
func (a *authenticatorWithMetrics) Revoke(ctx context.Context, principal *authDomain.Principal) error {
	start := time.Now()
	err := a.next.Revoke(ctx, principal)
	a.record(ctx, "token_revoke", start, err)
	return err
}
