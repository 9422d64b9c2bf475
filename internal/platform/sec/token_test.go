// Copyright (c) 2026 Rackline. All rights reserved.

package sec_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rackline/rackline/internal/platform/sec"
)

// signedToken builds a real JWT. The signing secret is irrelevant because
// decoding never verifies it.
func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("any-secret"))
	require.NoError(t, err)
	return token
}

/*
TestDecodeUnverified_ReadsClaims checks that subject and expiry come back
from a well-formed token regardless of who signed it.
*/
func TestDecodeUnverified_ReadsClaims(t *testing.T) {
	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signedToken(t, jwt.MapClaims{
		"sub": "user-42",
		"exp": expiry.Unix(),
	})

	claims, err := sec.DecodeUnverified(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.Subject)
	assert.True(t, claims.ExpiresAt.Equal(expiry))
}

/*
TestDecodeUnverified_Failures covers the two distinct failure modes.
*/
func TestDecodeUnverified_Failures(t *testing.T) {
	t.Run("malformed_token", func(t *testing.T) {
		_, err := sec.DecodeUnverified("not-a-jwt")
		assert.ErrorIs(t, err, sec.ErrMalformedToken)
	})

	t.Run("missing_expiry", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{"sub": "user-42"})
		_, err := sec.DecodeUnverified(token)
		assert.ErrorIs(t, err, sec.ErrMissingExpiry)
	})
}

/*
TestTokenClaims_ExpiredAt pins the inclusive expiry boundary: a token whose
exp equals the current instant is already expired.
*/
func TestTokenClaims_ExpiredAt(t *testing.T) {
	expiry := time.Unix(1700000000, 0)
	claims := &sec.TokenClaims{ExpiresAt: expiry}

	assert.False(t, claims.ExpiredAt(expiry.Add(-time.Second)))
	assert.True(t, claims.ExpiredAt(expiry))
	assert.True(t, claims.ExpiredAt(expiry.Add(time.Second)))
}
