// Copyright (c) 2026 Rackline. All rights reserved.

// Package sec provides token inspection primitives for the edge gateway.
//
// # Architecture
//
// The gateway never signs tokens and never holds signing keys — the backend
// is the token authority. This package only decodes the payload of a
// backend-issued JWT to read its expiry claim. Signature verification is
// deliberately absent: the backend re-verifies every proxied request, and
// the session check endpoint documents this asymmetry in its contract.
package sec

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Decode failure modes, kept distinct so callers can map them onto the
// machine-checkable auth error strings.
var (
	// ErrMalformedToken means the string is not a decodable JWT structure.
	ErrMalformedToken = errors.New("sec: malformed token")

	// ErrMissingExpiry means the payload decoded but carries no exp claim.
	ErrMissingExpiry = errors.New("sec: token has no expiry claim")
)

// TokenClaims is the subset of the backend token payload the gateway reads.
type TokenClaims struct {
	// Subject is the account ID the backend issued the token for.
	Subject string

	// ExpiresAt is the decoded exp claim.
	ExpiresAt time.Time
}

// ExpiredAt reports whether the token is expired at the given instant.
//
// The boundary is inclusive: a token whose exp equals now is already expired.
func (c *TokenClaims) ExpiredAt(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// DecodeUnverified extracts the expiry claim from a JWT without checking
// its signature.
//
// # Returns
//   - ErrMalformedToken when the payload is not decodable.
//   - ErrMissingExpiry when no exp claim is present.
func DecodeUnverified(tokenString string) (*TokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrMalformedToken
	}

	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return nil, ErrMissingExpiry
	}

	subject, _ := claims.GetSubject()

	return &TokenClaims{
		Subject:   subject,
		ExpiresAt: expiry.Time,
	}, nil
}
