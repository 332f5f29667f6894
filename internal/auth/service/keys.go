package service

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	signingKeyInfo     = "useradmin-token-signing-v1"
	fingerprintKeyInfo = "useradmin-token-fingerprint-v1"
)

// deriveKey uses HKDF-SHA256 to derive a 32-byte key for a single purpose from the signing secret.
// The signing key and the fingerprint key never share material.
func deriveKey(secret []byte, info string) ([]byte, error) {
	reader := hkdf.New(sha256.New, secret, nil, []byte(info))

	key := make([]byte, 32)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, err
	}

	return key, nil
}
