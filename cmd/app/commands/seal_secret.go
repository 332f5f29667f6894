package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"

	authService "github.com/allisson/useradmin/internal/auth/service"
)

const generatedSecretSize = 32

// RunSealSecret encrypts a token signing secret with the KMS keeper behind keyURI and prints the
// environment variables the server reads it from. A random 32-byte secret is generated when
// secret is empty.
//
// For local development use keyURI="base64key://<32-byte-base64-key>".
func RunSealSecret(
	ctx context.Context,
	kms authService.KMSService,
	logger *slog.Logger,
	keyURI string,
	secret string,
	format string,
	io IOTuple,
) error {
	if keyURI == "" {
		return fmt.Errorf("--kms-key-uri is required")
	}

	if secret == "" {
		raw := make([]byte, generatedSecretSize)
		if _, err := rand.Read(raw); err != nil {
			return fmt.Errorf("failed to generate secret: %w", err)
		}
		secret = base64.StdEncoding.EncodeToString(raw)
	}

	ciphertext, err := kms.Encrypt(ctx, keyURI, []byte(secret))
	if err != nil {
		return fmt.Errorf("failed to seal secret: %w", err)
	}

	if format == "json" {
		if err := writeJSON(io.Writer, map[string]string{
			"auth_token_secret":             ciphertext,
			"auth_token_secret_kms_key_uri": keyURI,
		}); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintf(io.Writer, "AUTH_TOKEN_SECRET=%q\n", ciphertext)
		_, _ = fmt.Fprintf(io.Writer, "AUTH_TOKEN_SECRET_KMS_KEY_URI=%q\n", keyURI)
	}

	logger.Info("signing secret sealed")
	return nil
}
