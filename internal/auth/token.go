// Package auth implements session-token issuance and credential verification.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims describes the session-token payload. preferred_username mirrors
// what the delegated identity backend's userinfo endpoint returns, so
// clients see the same claim shape in both auth modes.
type Claims struct {
	PreferredUsername string `json:"preferred_username,omitempty"`
	jwt.RegisteredClaims
}

// Codec issues and verifies signed, time-bound session tokens. Both
// operations are pure functions of their inputs and the immutable signing
// secret, so a Codec is safe for concurrent use.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec builds a Codec signing with the given symmetric secret.
// A non-positive ttl falls back to one hour.
func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Codec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue creates a signed HS256 token for the identity, valid from now until
// now+ttl on the server's wall clock. No clock-skew tolerance is applied.
func (c *Codec) Issue(identity string) (string, error) {
	now := c.now()
	claims := &Claims{
		PreferredUsername: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks the signature and expiry of a token and returns the subject
// identity embedded at issuance. Failures map to ErrTokenExpired,
// ErrTokenSignature, or ErrTokenMalformed.
func (c *Codec) Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrSignatureInvalid):
			return "", ErrTokenSignature
		default:
			return "", ErrTokenMalformed
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", ErrTokenMalformed
	}
	return claims.Subject, nil
}

// Authenticate implements the middleware.Authenticator contract by verifying
// a self-issued token locally. The context is unused: verification is
// CPU-bound and never blocks.
func (c *Codec) Authenticate(_ context.Context, token string) (string, error) {
	return c.Verify(token)
}
