package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	authDomain "github.com/allisson/useradmin/internal/auth/domain"
	apperrors "github.com/allisson/useradmin/internal/errors"
)

// sealedClaims is the JWT payload: the user snapshot and the standard jti and exp claims.
type sealedClaims struct {
	User authDomain.UserSnapshot `json:"user"`
	jwt.RegisteredClaims
}

// jwtCodec implements TokenCodec with HS256 JSON Web Tokens.
type jwtCodec struct {
	signingKey []byte
	parser     *jwt.Parser
}

// NewTokenCodec creates a TokenCodec whose HMAC key is derived from secret.
func NewTokenCodec(secret []byte) (TokenCodec, error) {
	if len(secret) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "token signing secret is empty")
	}

	signingKey, err := deriveKey(secret, signingKeyInfo)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to derive token signing key")
	}

	return &jwtCodec{
		signingKey: signingKey,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}, nil
}

// Seal signs claims with HS256. ExpiresAt is carried at second precision.
func (c *jwtCodec) Seal(claims authDomain.Claims) (string, error) {
	if claims.User.ID <= 0 || claims.ExpiresAt.IsZero() {
		return "", authDomain.ErrTokenEncoding
	}

	payload := sealedClaims{
		User: claims.User,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        claims.ID,
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt.Truncate(time.Second)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, payload).SignedString(c.signingKey)
	if err != nil {
		return "", apperrors.Wrap(authDomain.ErrTokenEncoding, err.Error())
	}

	return token, nil
}

// Unseal verifies the HS256 signature and returns the claims with ExpiresAt in UTC.
func (c *jwtCodec) Unseal(token string) (authDomain.Claims, error) {
	var payload sealedClaims

	_, err := c.parser.ParseWithClaims(token, &payload, func(*jwt.Token) (any, error) {
		return c.signingKey, nil
	})
	if err != nil {
		if apperrors.Is(err, jwt.ErrTokenMalformed) {
			return authDomain.Claims{}, authDomain.ErrMalformedToken
		}
		return authDomain.Claims{}, authDomain.ErrInvalidSignature
	}

	if payload.ExpiresAt == nil || payload.User.ID <= 0 {
		return authDomain.Claims{}, authDomain.ErrMalformedToken
	}

	return authDomain.Claims{
		ID:        payload.ID,
		User:      payload.User,
		ExpiresAt: payload.ExpiresAt.UTC(),
	}, nil
}
