// Copyright (c) 2026 Rackline. All rights reserved.

package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rackline/rackline/internal/session"
	"github.com/rackline/rackline/pkg/identity"
)

func testCredential(t *testing.T) *session.Credential {
	t.Helper()
	return &session.Credential{
		Token: "token-value",
		User: &identity.User{
			ID:       "user-1",
			Username: "dana",
			Email:    "dana@example.com",
			RoleType: identity.RoleTypeUser,
		},
	}
}

// cookiesByName indexes a recorder's Set-Cookie headers.
func cookiesByName(recorder *httptest.ResponseRecorder) map[string]*http.Cookie {
	indexed := make(map[string]*http.Cookie)
	for _, cookie := range recorder.Result().Cookies() {
		indexed[cookie.Name] = cookie
	}
	return indexed
}

/*
TestCookieCodec_Write_PairTogether checks that token and user are always
written as a pair with identical attributes.
*/
func TestCookieCodec_Write_PairTogether(t *testing.T) {
	codec := session.NewCookieCodec(false)
	recorder := httptest.NewRecorder()

	require.NoError(t, codec.Write(recorder, testCredential(t), false))

	cookies := cookiesByName(recorder)
	require.Contains(t, cookies, "token")
	require.Contains(t, cookies, "user")

	token := cookies["token"]
	assert.Equal(t, "token-value", token.Value)
	assert.Equal(t, "/", token.Path)
	assert.True(t, token.HttpOnly)

	// Session cookie: no Expires.
	assert.True(t, token.Expires.IsZero())
	assert.True(t, cookies["user"].Expires.IsZero())
}

/*
TestCookieCodec_Write_Remember checks the 30-day expiry on remembered
sessions.
*/
func TestCookieCodec_Write_Remember(t *testing.T) {
	codec := session.NewCookieCodec(false)
	recorder := httptest.NewRecorder()

	require.NoError(t, codec.Write(recorder, testCredential(t), true))

	expected := time.Now().Add(30 * 24 * time.Hour)
	for _, name := range []string{"token", "user"} {
		expires := cookiesByName(recorder)[name].Expires
		require.False(t, expires.IsZero(), "cookie %s should carry Expires", name)
		assert.WithinDuration(t, expected, expires, time.Minute)
	}
}

/*
TestCookieCodec_Write_UserRoundTrips checks the user cookie value decodes
back to the original record.
*/
func TestCookieCodec_Write_UserRoundTrips(t *testing.T) {
	codec := session.NewCookieCodec(false)
	recorder := httptest.NewRecorder()
	credential := testCredential(t)

	require.NoError(t, codec.Write(recorder, credential, false))

	decoded, err := identity.DecodeCookieValue(cookiesByName(recorder)["user"].Value)
	require.NoError(t, err)
	assert.Equal(t, credential.User, decoded)
}

/*
TestCookieCodec_Clear_Idempotent checks that clearing twice produces the
same final cookie state as clearing once: all three names expired.
*/
func TestCookieCodec_Clear_Idempotent(t *testing.T) {
	codec := session.NewCookieCodec(false)

	clearOnce := httptest.NewRecorder()
	codec.Clear(clearOnce)

	clearTwice := httptest.NewRecorder()
	codec.Clear(clearTwice)
	codec.Clear(clearTwice)

	once := cookiesByName(clearOnce)
	twice := cookiesByName(clearTwice)

	for _, name := range []string{"token", "user", "refreshToken"} {
		require.Contains(t, once, name)
		require.Contains(t, twice, name)

		assert.Equal(t, once[name].Value, twice[name].Value)
		assert.Equal(t, once[name].MaxAge, twice[name].MaxAge)
		assert.Empty(t, twice[name].Value)
		assert.Less(t, twice[name].MaxAge, 0)
	}
}

/*
TestCookieCodec_Read returns raw values and empty strings for absent
cookies.
*/
func TestCookieCodec_Read(t *testing.T) {
	codec := session.NewCookieCodec(false)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{Name: "token", Value: "abc"})

	tokenRaw, userRaw := codec.Read(request)
	assert.Equal(t, "abc", tokenRaw)
	assert.Empty(t, userRaw)
}
