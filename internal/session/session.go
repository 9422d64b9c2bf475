// Copyright (c) 2026 Rackline. All rights reserved.

/*
Package session implements the cookie-based session flow of the Rackline edge.

It owns the credential pair (bearer token + serialized user record), the
endpoints that mint, inspect, and destroy it, and the client used to exchange
credentials with the marketplace backend.

# Architecture

The gateway is not a token authority. Login and OAuth hand credentials off to
the backend and merely persist what comes back into two cookies; the check
endpoint decodes the token payload without verifying its signature, because
the backend re-verifies every proxied call anyway. Sessions end by explicit
logout, by expiry detected at check time, or by any 401 observed downstream.
*/
package session

import "github.com/rackline/rackline/pkg/identity"

// # Domain Entities

// Credential is the token/user pair that constitutes a session.
//
// # Invariant
//
// Token and User are always written and cleared together. No code path may
// persist one without the other; the cookie codec only accepts the pair.
type Credential struct {
	Token string         `json:"token"`
	User  *identity.User `json:"user"`
}

// VerifyResult is the outcome of inspecting the cookie pair.
//
// When Authenticated is false, Error holds one of the machine-checkable
// auth error strings from the constants package.
type VerifyResult struct {
	Authenticated bool
	Token         string
	User          *identity.User
	Error         string
}

// # Field Identifiers

// Global field names for validation in the session domain.
const (
	FieldUsernameOrEmail = "usernameOrEmail"
	FieldPassword        = "password"
	FieldCode            = "code"
	FieldState           = "state"
)
