package domain

import (
	"time"
)

// UserSnapshot is the copy of the user record sealed inside a token.
// It is taken at login time and never refreshed for the token's lifetime.
type UserSnapshot struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Status    int    `json:"status"`
	RoleID    int64  `json:"role_id"`
}

// Claims is the claim set sealed into a token: a user snapshot and an absolute expiry.
// Claims are immutable once issued; a new login or password change mints new ones.
type Claims struct {
	// ID makes every minted token distinct, even two minted for the same user in the same second.
	ID        string
	User      UserSnapshot
	ExpiresAt time.Time
}

// IsExpired reports whether the claims are dead at now. A token is dead at its expiry instant.
func (c Claims) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// RemainingLifetime returns how long the claims stay valid after now, or zero if already expired.
// This is the time-to-live of a revocation entry written at now.
func (c Claims) RemainingLifetime(now time.Time) time.Duration {
	remaining := c.ExpiresAt.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	TokenID   string
	User      UserSnapshot
	ExpiresAt time.Time
	// Token is the raw bearer token the principal authenticated with (never logged).
	Token string `json:"-"`
}

// Claims rebuilds the claim set the principal was authenticated from.
func (p *Principal) Claims() Claims {
	return Claims{ID: p.TokenID, User: p.User, ExpiresAt: p.ExpiresAt}
}

// IssueTokenInput contains the credentials presented at login.
type IssueTokenInput struct {
	Email    string
	Password string //nolint:gosec // plaintext only in transit, never stored
}

// IssueTokenOutput contains a freshly sealed token and its absolute expiry.
type IssueTokenOutput struct {
	Token     string
	ExpiresAt time.Time
}
