// Package service provides technical services for authentication operations.
//
// This package implements the token codec that seals and unseals claim sets, the fingerprinting
// used to key revocation entries, password hashing, and custody of the token signing secret.
package service

import (
	"context"

	authDomain "github.com/allisson/useradmin/internal/auth/domain"
)

// TokenCodec seals claim sets into signed opaque tokens and unseals them back.
// Implementations are stateless and safe for concurrent use. Unseal never checks expiry;
// expiry policy belongs to the authenticator.
type TokenCodec interface {
	// Seal signs claims and returns the opaque token. Fails with ErrTokenEncoding on malformed claims.
	Seal(claims authDomain.Claims) (string, error)

	// Unseal verifies token and returns its claims. Fails with ErrInvalidSignature when the
	// signature does not verify and ErrMalformedToken when the token cannot be parsed.
	Unseal(token string) (authDomain.Claims, error)
}

// TokenService derives revocation keys from raw tokens.
type TokenService interface {
	// HashToken returns a keyed fingerprint of plainToken as a hexadecimal string.
	// The raw token is never used as a cache key.
	HashToken(plainToken string) string
}

// PasswordService hashes and verifies user passwords.
type PasswordService interface {
	// HashPassword hashes a plain text password using Argon2id.
	HashPassword(plainPassword string) (string, error)

	// ComparePassword reports whether plainPassword matches hashedPassword.
	ComparePassword(plainPassword string, hashedPassword string) bool
}

// KMSService encrypts and decrypts the token signing secret with a KMS provider.
type KMSService interface {
	// Encrypt encrypts plaintext with the keeper behind keyURI and returns base64 ciphertext.
	Encrypt(ctx context.Context, keyURI string, plaintext []byte) (string, error)

	// Decrypt decodes base64 ciphertext and decrypts it with the keeper behind keyURI.
	Decrypt(ctx context.Context, keyURI string, ciphertext string) ([]byte, error)
}
