// Copyright (c) 2026 Rackline. All rights reserved.

package session

import (
	"net/http"
	"time"

	"github.com/rackline/rackline/internal/platform/constants"
)

// CookieCodec reads, writes, and clears the session cookie pair.
//
// # Why a codec?
//
// Centralizing cookie I/O is what enforces the credential invariant: the
// only write path takes a full [Credential], and the only clear path removes
// both names (plus the legacy refreshToken) in one call.
type CookieCodec struct {
	// secure toggles the Secure attribute; enabled in production only so
	// local development over plain HTTP keeps working.
	secure bool
}

// NewCookieCodec constructs a codec for the given deployment mode.
func NewCookieCodec(secure bool) *CookieCodec {
	return &CookieCodec{secure: secure}
}

// Read returns the raw values of the token and user cookies.
// Absent cookies read as empty strings; no decoding happens here.
func (codec *CookieCodec) Read(request *http.Request) (tokenRaw, userRaw string) {
	if cookie, err := request.Cookie(constants.TokenCookieName); err == nil {
		tokenRaw = cookie.Value
	}
	if cookie, err := request.Cookie(constants.UserCookieName); err == nil {
		userRaw = cookie.Value
	}
	return tokenRaw, userRaw
}

/*
Write persists a credential pair into the response cookies.

Description: Sets the token and the JSON-serialized user record with
identical attributes. With remember, both cookies carry a 30-day Expires;
without it they are session cookies that die with the browser.

Parameters:
  - writer: http.ResponseWriter
  - credential: *Credential (both fields must be set)
  - remember: bool

Returns:
  - error: serialization failures of the user record
*/
func (codec *CookieCodec) Write(writer http.ResponseWriter, credential *Credential, remember bool) error {
	encodedUser, err := credential.User.Encode()
	if err != nil {
		return err
	}

	var expires time.Time
	if remember {
		expires = time.Now().Add(constants.RememberedSessionTTL)
	}

	codec.set(writer, constants.TokenCookieName, credential.Token, expires)
	codec.set(writer, constants.UserCookieName, encodedUser, expires)
	return nil
}

/*
Clear removes the session cookies from the client.

Description: Expires token, user, and the legacy refreshToken on the shared
path. The operation is idempotent: clearing an already-clear session writes
the same expired cookies again with no further effect.
*/
func (codec *CookieCodec) Clear(writer http.ResponseWriter) {
	for _, name := range []string{
		constants.TokenCookieName,
		constants.UserCookieName,
		constants.RefreshTokenCookieName,
	} {
		// MaxAge < 0 serializes as Max-Age=0, the immediate-delete form.
		http.SetCookie(writer, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     constants.CookiePath,
			MaxAge:   -1,
			Secure:   codec.secure,
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		})
	}
}

// set writes one session cookie with the shared attribute set.
func (codec *CookieCodec) set(writer http.ResponseWriter, name, value string, expires time.Time) {
	http.SetCookie(writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     constants.CookiePath,
		Expires:  expires,
		Secure:   codec.secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
