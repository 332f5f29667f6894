package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	apperrors "github.com/allisson/useradmin/internal/errors"
)

// tokenService implements TokenService using HMAC-SHA256 with a key derived from the signing secret.
type tokenService struct {
	key []byte
}

// HashToken returns the HMAC-SHA256 fingerprint of plainToken as a hexadecimal string.
func (t *tokenService) HashToken(plainToken string) string {
	mac := hmac.New(sha256.New, t.key)
	mac.Write([]byte(plainToken))
	return hex.EncodeToString(mac.Sum(nil))
}

// NewTokenService creates a TokenService keyed from secret.
func NewTokenService(secret []byte) (TokenService, error) {
	if len(secret) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "token signing secret is empty")
	}

	key, err := deriveKey(secret, fingerprintKeyInfo)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to derive token fingerprint key")
	}

	return &tokenService{key: key}, nil
}
