package domain

import (
	"github.com/allisson/useradmin/internal/errors"
)

// Credential errors. All of them map to an access-denied outcome.
var (
	// ErrMissingCredential indicates the Authorization header is absent or not a bearer credential.
	ErrMissingCredential = errors.Wrap(errors.ErrUnauthorized, "missing credential")

	// ErrInvalidToken indicates the token failed to unseal.
	ErrInvalidToken = errors.Wrap(errors.ErrUnauthorized, "invalid token")

	// ErrInvalidSignature indicates the token signature does not verify.
	ErrInvalidSignature = errors.Wrap(ErrInvalidToken, "invalid signature")

	// ErrMalformedToken indicates the token structure or claim set cannot be parsed.
	ErrMalformedToken = errors.Wrap(ErrInvalidToken, "malformed token")

	// ErrTokenExpired indicates the embedded expiry is in the past.
	ErrTokenExpired = errors.Wrap(errors.ErrUnauthorized, "token expired")

	// ErrTokenRevoked indicates the token has been denylisted before its natural expiry.
	ErrTokenRevoked = errors.Wrap(errors.ErrUnauthorized, "token revoked")

	// ErrRevocationUnavailable indicates the revocation lookup failed or timed out.
	// It is an unauthorized outcome: the gate fails closed.
	ErrRevocationUnavailable = errors.Wrap(errors.ErrUnauthorized, "revocation store unavailable")

	// ErrInvalidCredentials indicates a login attempt with an unknown email or wrong password.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")
)

// Encoding, authorization and rate limiting errors.
var (
	// ErrTokenEncoding indicates a claim set could not be sealed.
	ErrTokenEncoding = errors.New("token encoding failed")

	// ErrInsufficientRole indicates the principal's role is not allowed by the policy.
	ErrInsufficientRole = errors.Wrap(errors.ErrForbidden, "insufficient role")

	// ErrUserInactive indicates the user exists but may not log in.
	ErrUserInactive = errors.Wrap(errors.ErrForbidden, "user inactive")

	// ErrRateLimited indicates the client exceeded its request budget.
	ErrRateLimited = errors.Wrap(errors.ErrTooManyRequests, "rate limit exceeded")

	// ErrCapabilitiesUnavailable indicates the role's capability set could not be resolved.
	ErrCapabilitiesUnavailable = errors.Wrap(errors.ErrUnavailable, "capability lookup unavailable")

	// ErrRateLimiterUnavailable indicates the limiter backend could not be reached.
	ErrRateLimiterUnavailable = errors.Wrap(errors.ErrUnavailable, "rate limiter unavailable")
)

// ReasonOf classifies a gate error into its rejection reason.
// Unknown errors classify as ReasonUnavailable so they are denied, never admitted.
func ReasonOf(err error) RejectionReason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, ErrRevocationUnavailable), errors.Is(err, ErrRateLimiterUnavailable):
		return ReasonUnavailable
	case errors.Is(err, ErrMissingCredential):
		return ReasonMissingCredential
	case errors.Is(err, ErrInvalidToken):
		return ReasonInvalidToken
	case errors.Is(err, ErrTokenExpired):
		return ReasonExpired
	case errors.Is(err, ErrTokenRevoked):
		return ReasonRevoked
	case errors.Is(err, errors.ErrTooManyRequests):
		return ReasonRateLimited
	case errors.Is(err, errors.ErrForbidden):
		return ReasonForbidden
	case errors.Is(err, errors.ErrUnauthorized):
		return ReasonInvalidToken
	default:
		return ReasonUnavailable
	}
}
