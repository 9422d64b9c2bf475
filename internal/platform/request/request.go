// Copyright (c) 2026 Rackline. All rights reserved.

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away common body decoding and cookie reading patterns, ensuring
consistent error handling and type safety across handlers.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/rackline/rackline/internal/platform/constants"
	"github.com/rackline/rackline/internal/platform/ctxutil"
	"github.com/rackline/rackline/internal/platform/validate"
	"github.com/rackline/rackline/pkg/identity"
)

// maxBodyBytes caps decoded request bodies. Oversized payloads fail with a
// decode error before any backend call is made.
const maxBodyBytes = 5 << 20

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	limited := http.MaxBytesReader(nil, request.Body, maxBodyBytes)
	if err := json.NewDecoder(limited).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
CookieValue returns the raw value of a named cookie, or "" if absent.
*/
func CookieValue(request *http.Request, name string) string {
	cookie, err := request.Cookie(name)
	if err != nil || cookie == nil {
		return ""
	}
	return cookie.Value
}

/*
TokenCookie returns the bearer token carried in the session token cookie,
or "" when the visitor is anonymous.
*/
func TokenCookie(request *http.Request) string {
	return CookieValue(request, constants.TokenCookieName)
}

/*
SessionUser extracts the cookie-derived user record from the request context.

Returns nil if the route gate did not attach one.
*/
func SessionUser(request *http.Request) *identity.User {
	return ctxutil.GetSessionUser(request.Context())
}
