// Copyright (c) 2026 Rackline. All rights reserved.

package session_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rackline/rackline/internal/session"
	"github.com/rackline/rackline/pkg/identity"
)

// tokenExpiring builds a backend-style JWT with the given expiry.
func tokenExpiring(t *testing.T, expiry time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": expiry.Unix(),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

// encodedUser returns a user cookie value as the login handler writes it.
func encodedUser(t *testing.T, role identity.RoleType) string {
	t.Helper()
	user := &identity.User{
		ID:       "user-1",
		Username: "dana",
		Email:    "dana@example.com",
		RoleType: role,
	}
	value, err := user.Encode()
	require.NoError(t, err)
	return value
}

/*
TestService_Verify_FailureStrings checks that every failure path reports
its machine-checkable error string and never authenticates.
*/
func TestService_Verify_FailureStrings(t *testing.T) {
	now := time.Unix(1700000000, 0)
	service := session.NewServiceWithClock(func() time.Time { return now })

	liveToken := tokenExpiring(t, now.Add(time.Hour))
	user := encodedUser(t, identity.RoleTypeUser)

	tests := []struct {
		name     string
		tokenRaw string
		userRaw  string
		wantErr  string
	}{
		{"no_cookies", "", "", "Token Not Found"},
		{"token_only", liveToken, "", "Token Not Found"},
		{"user_only", "", user, "Token Not Found"},
		{"garbage_token", "garbage", user, "Invalid Token Format"},
		{"token_without_expiry", noExpiryToken(t), user, "Invalid Token Format"},
		{"expired_token", tokenExpiring(t, now.Add(-time.Minute)), user, "Token Expired"},
		{"unreadable_user", liveToken, "{not-json", "Authentication Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := service.Verify(tt.tokenRaw, tt.userRaw)
			assert.False(t, result.Authenticated)
			assert.Equal(t, tt.wantErr, result.Error)
			assert.Nil(t, result.User)
		})
	}
}

func noExpiryToken(t *testing.T) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

/*
TestService_Verify_ExpiryBoundary pins the monotonic expiry property: the
same token verifies strictly before its exp claim and fails from exp on.
*/
func TestService_Verify_ExpiryBoundary(t *testing.T) {
	expiry := time.Unix(1700000000, 0)
	token := tokenExpiring(t, expiry)
	user := encodedUser(t, identity.RoleTypeUser)

	at := func(now time.Time) session.VerifyResult {
		service := session.NewServiceWithClock(func() time.Time { return now })
		return service.Verify(token, user)
	}

	assert.True(t, at(expiry.Add(-time.Second)).Authenticated)

	atExpiry := at(expiry)
	assert.False(t, atExpiry.Authenticated)
	assert.Equal(t, "Token Expired", atExpiry.Error)

	after := at(expiry.Add(time.Second))
	assert.False(t, after.Authenticated)
	assert.Equal(t, "Token Expired", after.Error)
}

/*
TestService_Verify_Success checks the happy path returns the credential.
*/
func TestService_Verify_Success(t *testing.T) {
	now := time.Unix(1700000000, 0)
	service := session.NewServiceWithClock(func() time.Time { return now })

	token := tokenExpiring(t, now.Add(time.Hour))
	result := service.Verify(token, encodedUser(t, identity.RoleTypeProvider))

	require.True(t, result.Authenticated)
	assert.Empty(t, result.Error)
	assert.Equal(t, token, result.Token)
	require.NotNil(t, result.User)
	assert.Equal(t, "dana", result.User.Username)
	assert.Equal(t, identity.RoleTypeProvider, result.User.RoleType)
}

/*
TestService_Status checks the soft variant: presence-only, expiry is never
consulted, and no error strings are produced.
*/
func TestService_Status(t *testing.T) {
	service := session.NewService()
	user := encodedUser(t, identity.RoleTypeUser)

	// An expired token still counts as present.
	expired := tokenExpiring(t, time.Now().Add(-time.Hour))
	result := service.Status(expired, user)
	assert.True(t, result.Authenticated)
	assert.Empty(t, result.Error)

	assert.False(t, service.Status("", user).Authenticated)
	assert.False(t, service.Status(expired, "").Authenticated)
	assert.False(t, service.Status(expired, "{broken").Authenticated)
}
