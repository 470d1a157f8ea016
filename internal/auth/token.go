// Package auth inspects bearer tokens locally. Signatures are verified by the
// backend, the client only reads the expiry claim to decide when to log out.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformedToken = errors.New("malformed token")
	ErrNoExpiry       = errors.New("token has no expiry")
)

// ExpiresAt decodes the exp claim without verifying the signature.
func ExpiresAt(token string) (time.Time, error) {
	if token == "" {
		return time.Time{}, ErrMalformedToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if exp == nil {
		return time.Time{}, ErrNoExpiry
	}

	return exp.Time, nil
}

// IsExpired reports whether the token can no longer be used at now.
// Malformed tokens and tokens without exp count as expired.
func IsExpired(token string, now time.Time) bool {
	exp, err := ExpiresAt(token)
	if err != nil {
		return true
	}
	return !exp.After(now)
}

// IsAuthenticated reports whether a usable token is present.
func IsAuthenticated(token string, now time.Time) bool {
	return token != "" && !IsExpired(token, now)
}
