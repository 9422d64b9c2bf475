// Copyright (c) 2026 Rackline. All rights reserved.

package authclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rackline/rackline/pkg/authstate"
	"github.com/rackline/rackline/pkg/identity"
	"github.com/rackline/rackline/pkg/routes"
)

// checkResponse matches the gateway's session verification shape.
type checkResponse struct {
	Authenticated bool           `json:"authenticated"`
	Token         *string        `json:"token"`
	User          *identity.User `json:"user"`
	Error         string         `json:"error,omitempty"`
}

// Navigator performs a full navigation to the given target, discarding
// all in-memory state. The SDK never navigates on its own; the host
// application decides what "navigate" means.
type Navigator func(target string)

/*
Initializer bootstraps the session once per application start.

Description: Construction installs the 401 interceptor synchronously, so
any request issued afterwards — even before [Initializer.Run] completes —
already converges the store on an expired session. Run then verifies the
cookie-backed session against the gateway and settles the store either
way.

# Usage

	initializer := authclient.NewInitializer(client, store, navigate, currentPath)
	defer initializer.Close()
	_ = initializer.Run(ctx)
*/
type Initializer struct {
	client      *Client
	store       *authstate.Store
	navigate    Navigator
	currentPath func() string
	remove      func()
}

// NewInitializer wires the bootstrap and registers the 401 interceptor.
//
// navigate and currentPath may be nil for hosts without a navigation
// concept; the store still converges, only the redirect is skipped.
func NewInitializer(client *Client, store *authstate.Store, navigate Navigator, currentPath func() string) *Initializer {
	initializer := &Initializer{
		client:      client,
		store:       store,
		navigate:    navigate,
		currentPath: currentPath,
	}
	initializer.remove = client.AddInterceptor(initializer.onResponse)
	return initializer
}

// Run calls the session verification endpoint and settles the store.
//
// A verified session dispatches the credential pair; any failure mode —
// unauthenticated, expired, or the gateway being unreachable — dispatches
// logout and, only when the current path is gated, redirects to login.
// The verification error itself is returned for logging; callers may
// ignore it because the store has already converged.
func (initializer *Initializer) Run(ctx context.Context) error {
	initializer.store.SetLoading(true)

	var verified checkResponse
	err := initializer.client.Get(ctx, "/api/auth/check", &verified)

	if err == nil && verified.Authenticated && verified.Token != nil && verified.User != nil {
		return initializer.store.SetCredentials(*verified.Token, verified.User)
	}

	// The 401 interceptor has usually fired already; logout is idempotent
	// so settling again here costs nothing and covers network failures.
	initializer.store.Logout()
	initializer.redirectIfGated()
	return err
}

// Close removes the 401 interceptor. Safe to call more than once.
func (initializer *Initializer) Close() {
	if initializer.remove != nil {
		initializer.remove()
		initializer.remove = nil
	}
}

// onResponse is the global 401 interceptor.
func (initializer *Initializer) onResponse(response *Response) {
	if response.Status != http.StatusUnauthorized {
		return
	}
	initializer.store.Logout()
	initializer.redirectIfGated()
}

// redirectIfGated forces a full navigation to login, preserving the
// return path, when the current path requires a session.
func (initializer *Initializer) redirectIfGated() {
	if initializer.navigate == nil || initializer.currentPath == nil {
		return
	}

	path := initializer.currentPath()
	if !routes.RequiresAuth(path) {
		return
	}
	initializer.navigate(routes.LoginPath + "?from=" + url.QueryEscape(path))
}
