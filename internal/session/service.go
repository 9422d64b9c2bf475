// Copyright (c) 2026 Rackline. All rights reserved.

package session

import (
	"time"

	"github.com/rackline/rackline/internal/platform/constants"
	"github.com/rackline/rackline/internal/platform/sec"
	"github.com/rackline/rackline/pkg/identity"
)

// Service implements the session verification use cases.
//
// It is pure over its inputs: cookie values go in, a [VerifyResult] comes
// out. All cookie and HTTP side effects live in the handler layer so the
// decision logic stays trivially testable.
type Service struct {
	// now is injectable for deterministic expiry tests.
	now func() time.Time
}

// NewService constructs a [Service] using the wall clock.
func NewService() *Service {
	return &Service{now: time.Now}
}

// NewServiceWithClock constructs a [Service] with an injected clock.
func NewServiceWithClock(now func() time.Time) *Service {
	return &Service{now: now}
}

/*
Verify inspects the raw cookie pair and decides whether the session is live.

Description: Requires both cookies, decodes the token payload without
signature verification, and compares the expiry claim against the clock.
Every failure is closed: the caller must clear the cookie pair whenever
Authenticated is false.

Parameters:
  - tokenRaw: raw token cookie value ("" when absent)
  - userRaw: raw user cookie value ("" when absent)

Returns:
  - VerifyResult: Authenticated plus credential on success, or one of the
    machine-checkable error strings on failure.
*/
func (service *Service) Verify(tokenRaw, userRaw string) VerifyResult {

	// Both halves of the credential must be present together.
	if tokenRaw == "" || userRaw == "" {
		return VerifyResult{Error: constants.ErrTokenNotFound}
	}

	// Decode the payload only. The backend owns the signing keys and
	// re-verifies every proxied request; see the package doc.
	claims, err := sec.DecodeUnverified(tokenRaw)
	if err != nil {
		return VerifyResult{Error: constants.ErrInvalidTokenFormat}
	}

	// Inclusive boundary: a token expiring exactly now is already dead.
	if claims.ExpiredAt(service.now()) {
		return VerifyResult{Error: constants.ErrTokenExpired}
	}

	// A token without a readable user record is an inconsistent session.
	user, err := identity.DecodeCookieValue(userRaw)
	if err != nil {
		return VerifyResult{Error: constants.ErrAuthentication}
	}

	return VerifyResult{
		Authenticated: true,
		Token:         tokenRaw,
		User:          user,
	}
}

/*
Status performs the soft, non-destructive variant of Verify.

Description: Reports whether a credential pair is present and readable
without validating expiry. Used by UI surfaces that want to render an
optimistic logged-in state without risking a logout side effect.

Returns:
  - VerifyResult: never carries an error string; Authenticated simply
    reports presence.
*/
func (service *Service) Status(tokenRaw, userRaw string) VerifyResult {
	if tokenRaw == "" || userRaw == "" {
		return VerifyResult{}
	}

	user, err := identity.DecodeCookieValue(userRaw)
	if err != nil {
		return VerifyResult{}
	}

	return VerifyResult{
		Authenticated: true,
		Token:         tokenRaw,
		User:          user,
	}
}
