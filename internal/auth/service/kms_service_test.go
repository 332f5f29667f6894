package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// generateLocalSecretsURI generates a base64key:// URI for testing.
func generateLocalSecretsURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

func TestKMSService_EncryptDecrypt(t *testing.T) {
	ctx := context.Background()
	kmsService := NewKMSService()
	keyURI := generateLocalSecretsURI(t)

	t.Run("Success_RoundTrip", func(t *testing.T) {
		ciphertext, err := kmsService.Encrypt(ctx, keyURI, []byte("signing-secret"))
		require.NoError(t, err)
		assert.NotContains(t, ciphertext, "signing-secret")

		plaintext, err := kmsService.Decrypt(ctx, keyURI, ciphertext)
		require.NoError(t, err)
		assert.Equal(t, []byte("signing-secret"), plaintext)
	})

	t.Run("Error_DifferentKey", func(t *testing.T) {
		ciphertext, err := kmsService.Encrypt(ctx, keyURI, []byte("signing-secret"))
		require.NoError(t, err)

		plaintext, err := kmsService.Decrypt(ctx, generateLocalSecretsURI(t), ciphertext)
		assert.Error(t, err)
		assert.Nil(t, plaintext)
	})

	t.Run("Error_InvalidBase64", func(t *testing.T) {
		_, err := kmsService.Decrypt(ctx, keyURI, "%%%")
		assert.ErrorContains(t, err, "failed to decode secret ciphertext")
	})

	t.Run("Error_InvalidURI", func(t *testing.T) {
		_, err := kmsService.Encrypt(ctx, "invalid://uri", []byte("x"))
		assert.ErrorContains(t, err, "failed to open KMS keeper")
	})
}

func TestLoadSigningSecret(t *testing.T) {
	ctx := context.Background()
	kmsService := NewKMSService()

	t.Run("Success_PlainSecret", func(t *testing.T) {
		secret, err := LoadSigningSecret(ctx, kmsService, "plain", "")
		require.NoError(t, err)
		assert.Equal(t, []byte("plain"), secret)
	})

	t.Run("Success_SealedSecret", func(t *testing.T) {
		keyURI := generateLocalSecretsURI(t)
		ciphertext, err := kmsService.Encrypt(ctx, keyURI, []byte("sealed"))
		require.NoError(t, err)

		secret, err := LoadSigningSecret(ctx, kmsService, ciphertext, keyURI)
		require.NoError(t, err)
		assert.Equal(t, []byte("sealed"), secret)
	})

	t.Run("Error_EmptySecret", func(t *testing.T) {
		_, err := LoadSigningSecret(ctx, kmsService, "", "")
		assert.Error(t, err)
	})
}
