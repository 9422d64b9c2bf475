// Copyright (c) 2026 Rackline. All rights reserved.

/*
Package gate implements the request-level route gate for page navigation.

It runs before any page handler and decides allow/redirect from cookies
alone. The gate deliberately never decodes or verifies the token — expiry
is enforced only by the session check endpoint and by 401 handling in the
outbound request layer. A visitor whose token has expired can therefore
still open gated pages until their next API call fails; this staleness
window is an accepted property of the design, not an oversight.

# Decision Table

  - Login page + token present        → redirect to the customer home.
  - Gated page + no token             → redirect to /login?from=<path+query>.
  - Gated page + unreadable user      → redirect to /login (fail closed).
  - Public page + unreadable user     → allow (fail open).
  - Role mismatch on admin/provider/
    become-provider areas             → redirect to the customer home.
*/
package gate

import (
	"net/http"
	"net/url"

	"github.com/rackline/rackline/internal/platform/constants"
	"github.com/rackline/rackline/internal/platform/ctxutil"
	requestutil "github.com/rackline/rackline/internal/platform/request"
	"github.com/rackline/rackline/pkg/identity"
	"github.com/rackline/rackline/pkg/routes"
)

// Middleware returns the route gate.
//
// It is stateless across requests: every decision is recomputed from the
// request's own cookies and path.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			path := request.URL.Path
			area := routes.Classify(path)

			token := requestutil.TokenCookie(request)
			userRaw := requestutil.CookieValue(request, constants.UserCookieName)

			// Logged-in visitors have no business on the login page.
			if area == routes.AreaLogin {
				if token != "" {
					redirect(writer, request, constants.CustomerHomePath)
					return
				}
				next.ServeHTTP(writer, request)
				return
			}

			requiresAuth := routes.RequiresAuth(path)

			// Gated page without a token: bounce to login, preserving the
			// originally requested path+query for the post-login return.
			if requiresAuth && token == "" {
				redirect(writer, request, loginRedirectTarget(request))
				return
			}

			// From here on a token exists or the page is public.
			var user *identity.User
			if token != "" {
				parsed, err := identity.DecodeCookieValue(userRaw)
				if err != nil || userRaw == "" {
					// Fail closed for gated pages, open for the rest.
					if requiresAuth {
						redirect(writer, request, loginRedirectTarget(request))
						return
					}
					next.ServeHTTP(writer, request)
					return
				}
				user = parsed
			}

			if user != nil && !allowedInArea(area, user.RoleType) {
				redirect(writer, request, constants.CustomerHomePath)
				return
			}

			// Expose the parsed identity to the structured logger.
			if user != nil {
				request = request.WithContext(ctxutil.WithSessionUser(request.Context(), user))
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// allowedInArea applies the role rules for the gated areas. Areas without a
// role rule always allow.
func allowedInArea(area routes.Area, role identity.RoleType) bool {
	switch area {
	case routes.AreaAdmin:
		return role.CanAccessAdminArea()
	case routes.AreaProvider:
		return role.CanAccessProviderArea()
	case routes.AreaBecomeProvider:
		return role.CanBecomeProvider()
	default:
		return true
	}
}

// loginRedirectTarget builds /login?from=<original path+query>.
func loginRedirectTarget(request *http.Request) string {
	original := request.URL.Path
	if request.URL.RawQuery != "" {
		original += "?" + request.URL.RawQuery
	}
	return constants.LoginPath + "?" + constants.FromQueryParam + "=" + url.QueryEscape(original)
}

// redirect issues a 307 so the browser re-requests the target with the
// original method preserved.
func redirect(writer http.ResponseWriter, request *http.Request, target string) {
	http.Redirect(writer, request, target, http.StatusTemporaryRedirect)
}
