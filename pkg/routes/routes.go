// Copyright (c) 2026 Rackline. All rights reserved.

/*
Package routes classifies page paths for authentication and role gating.

It is the single source of truth for "which pages require a session" and is
imported by the server-side route gate, the client auth initializer, and the
outbound request layer. Keeping the classification in one pure function
prevents the three consumers from drifting apart.
*/
package routes

import "strings"

// LoginPath is the sign-in page that unauthenticated visitors are sent to.
const LoginPath = "/login"

// Area identifies the section of the portal a path belongs to.
type Area string

const (
	// AreaPublic covers everything that needs no session.
	AreaPublic Area = "public"

	// AreaLogin is the login page itself.
	AreaLogin Area = "login"

	// AreaAdmin is the /admin management portal.
	AreaAdmin Area = "admin"

	// AreaProvider is the /provider dashboard.
	AreaProvider Area = "provider"

	// AreaCustomerOrders is the customer's rental/payment history.
	AreaCustomerOrders Area = "customer-orders"

	// AreaBecomeProvider is the provider enrollment page.
	AreaBecomeProvider Area = "become-provider"
)

// Gated path prefixes, most specific first. /customer/become-provider must be
// tested before /customer/orders would ever shadow it; the two do not overlap
// today but the ordering keeps future /customer/* additions safe.
var gatedPrefixes = []struct {
	prefix string
	area   Area
}{
	{prefix: "/admin", area: AreaAdmin},
	{prefix: "/provider", area: AreaProvider},
	{prefix: "/customer/become-provider", area: AreaBecomeProvider},
	{prefix: "/customer/orders", area: AreaCustomerOrders},
}

// Classify maps a request path to its portal [Area].
//
// Matching is prefix-based but segment-aware: /admin and /admin/dashboard
// classify as AreaAdmin while /administrator does not.
func Classify(path string) Area {
	if matchesPrefix(path, LoginPath) {
		return AreaLogin
	}
	for _, gated := range gatedPrefixes {
		if matchesPrefix(path, gated.prefix) {
			return gated.area
		}
	}
	return AreaPublic
}

// RequiresAuth reports whether a path needs an authenticated session before
// access. The login page itself never requires auth.
func RequiresAuth(path string) bool {
	switch Classify(path) {
	case AreaAdmin, AreaProvider, AreaCustomerOrders, AreaBecomeProvider:
		return true
	}
	return false
}

// matchesPrefix reports whether path equals prefix or sits beneath it.
func matchesPrefix(path, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}
