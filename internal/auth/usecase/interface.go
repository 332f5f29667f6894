// Package usecase implements the authenticator and the authorizer of the gating pipeline.
package usecase

import (
	"context"

	authDomain "github.com/allisson/useradmin/internal/auth/domain"
	userDomain "github.com/allisson/useradmin/internal/user/domain"
)

// UserFinder looks up users presenting credentials at login.
type UserFinder interface {
	// GetByEmail returns ErrUserNotFound if no user has the email.
	GetByEmail(ctx context.Context, email string) (*userDomain.User, error)
}

// CapabilityResolver returns the capabilities granted to a role.
// An unknown role resolves to an empty set.
type CapabilityResolver interface {
	GetCapabilities(ctx context.Context, roleID int64) ([]authDomain.Capability, error)
}

// Authenticator issues, verifies and revokes bearer tokens.
type Authenticator interface {
	// Issue verifies an email and password and mints a token for the user.
	//
	// Unknown emails and wrong passwords both return ErrInvalidCredentials so callers cannot
	// enumerate accounts. Inactive users get ErrUserInactive.
	Issue(ctx context.Context, input *authDomain.IssueTokenInput) (*authDomain.IssueTokenOutput, error)

	// Mint seals a token for snapshot expiring one token lifetime from now.
	Mint(ctx context.Context, snapshot authDomain.UserSnapshot) (*authDomain.IssueTokenOutput, error)

	// Authenticate turns a raw bearer token into a principal.
	//
	// Checks run in order and stop at the first failure: unseal (ErrInvalidSignature or
	// ErrMalformedToken), expiry against the clock (ErrTokenExpired), then the revocation lookup
	// (ErrTokenRevoked). A lookup that errors or exceeds its timeout returns
	// ErrRevocationUnavailable and the token is not accepted.
	Authenticate(ctx context.Context, rawToken string) (*authDomain.Principal, error)

	// Revoke denylists the principal's token for the rest of its lifetime.
	// A token that is already expired is not written.
	Revoke(ctx context.Context, principal *authDomain.Principal) error
}

// Authorizer decides whether a principal satisfies a route policy.
type Authorizer interface {
	// Authorize returns nil when allowed and ErrInsufficientRole when denied.
	// Returns ErrCapabilitiesUnavailable if the role's capabilities could not be resolved.
	Authorize(ctx context.Context, principal *authDomain.Principal, policy authDomain.Policy) error
}
