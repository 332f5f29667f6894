// Package revocation provides the token revocation store: a shared key-value cache with
// per-entry time-to-live that marks tokens as invalid before their natural expiry.
//
// The gate treats the store as a set-membership oracle. Keys are token fingerprints, never raw
// tokens, and every entry expires on its own once the token it denylists would have expired.
package revocation

import (
	"context"
	"time"

	apperrors "github.com/allisson/useradmin/internal/errors"
)

// ErrNotFound is returned by Get when no entry exists for a key.
var ErrNotFound = apperrors.Wrap(apperrors.ErrNotFound, "revocation entry not found")

// RevokedValue is the value written for a revoked token.
const RevokedValue = "revoked"

// Store is the revocation cache consumed by the authenticator.
type Store interface {
	// Put writes value under key for ttl. A non-positive ttl writes nothing.
	Put(ctx context.Context, key, value string, ttl time.Duration) error

	// Get returns the value under key or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Delete removes the entry under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}
