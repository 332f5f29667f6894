package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenService(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		service, err := NewTokenService([]byte("secret"))
		require.NoError(t, err)
		assert.IsType(t, &tokenService{}, service)
	})

	t.Run("Error_EmptySecret", func(t *testing.T) {
		service, err := NewTokenService([]byte{})
		assert.Error(t, err)
		assert.Nil(t, service)
	})
}

func TestTokenService_HashToken(t *testing.T) {
	service, err := NewTokenService([]byte("fingerprint-secret"))
	require.NoError(t, err)

	t.Run("Success_HexEncodedDigest", func(t *testing.T) {
		tokenHash := service.HashToken("header.payload.signature")
		assert.Len(t, tokenHash, 64, "HMAC-SHA256 should be 64 hex characters")
		assert.NotContains(t, tokenHash, "payload")
	})

	t.Run("Success_ConsistentHashing", func(t *testing.T) {
		assert.Equal(t, service.HashToken("token-xyz"), service.HashToken("token-xyz"))
	})

	t.Run("Success_DifferentTokensProduceDifferentHashes", func(t *testing.T) {
		assert.NotEqual(t, service.HashToken("token-one"), service.HashToken("token-two"))
	})

	t.Run("Success_DifferentSecretsProduceDifferentHashes", func(t *testing.T) {
		other, err := NewTokenService([]byte("other-secret"))
		require.NoError(t, err)
		assert.NotEqual(t, service.HashToken("token-one"), other.HashToken("token-one"))
	})
}

func TestDeriveKey(t *testing.T) {
	signing, err := deriveKey([]byte("secret"), signingKeyInfo)
	require.NoError(t, err)
	fingerprint, err := deriveKey([]byte("secret"), fingerprintKeyInfo)
	require.NoError(t, err)

	assert.Len(t, signing, 32)
	assert.Len(t, fingerprint, 32)
	assert.NotEqual(t, signing, fingerprint)
}
