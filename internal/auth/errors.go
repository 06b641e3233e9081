package auth

import "errors"

// ErrInvalidCredentials is returned when a login attempt does not match a
// known identity/secret pair, or the identity backend rejects the grant.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrTokenExpired is returned when a token's expiry has passed.
var ErrTokenExpired = errors.New("token expired")

// ErrTokenSignature is returned when a token's signature does not verify.
var ErrTokenSignature = errors.New("token signature mismatch")

// ErrTokenMalformed is returned when a token cannot be parsed at all.
var ErrTokenMalformed = errors.New("malformed token")
