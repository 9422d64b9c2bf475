// Copyright (c) 2026 Rackline. All rights reserved.

/*
Package identity defines the user record exchanged between the marketplace
backend, the edge gateway, and the client SDK.

It is the single source of truth for the wire shape of a user and for the
role predicates consulted by the route gate. The package has no dependencies
beyond encoding/json so it can be imported from both internal/ and pkg/.
*/
package identity

import (
	"encoding/json"
	"net/url"
)

// # Roles

// RoleType is the primary account classification.
type RoleType string

const (
	// Regular customer account.
	RoleTypeUser RoleType = "user"

	// Operates one or more data-center listings.
	RoleTypeProvider RoleType = "provider"

	// Unrestricted portal access.
	RoleTypeAdmin RoleType = "admin"
)

// Valid reports whether the role type is one of the known classifications.
func (r RoleType) Valid() bool {
	switch r {
	case RoleTypeUser, RoleTypeProvider, RoleTypeAdmin:
		return true
	}
	return false
}

// CanAccessAdminArea reports whether the account may enter /admin pages.
func (r RoleType) CanAccessAdminArea() bool {
	return r == RoleTypeAdmin
}

// CanAccessProviderArea reports whether the account may enter /provider pages.
func (r RoleType) CanAccessProviderArea() bool {
	return r == RoleTypeAdmin || r == RoleTypeProvider
}

// CanBecomeProvider reports whether the account may open the become-provider
// page. Accounts that already operate listings (or administer the portal)
// are bounced back to the customer area.
func (r RoleType) CanBecomeProvider() bool {
	return r == RoleTypeUser
}

// # User Record

// User is the serialized account record carried in the "user" cookie and in
// every auth response. Field names are part of the wire contract with the
// web client and the backend.
type User struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	FullName string   `json:"fullName"`
	Phone    string   `json:"phone,omitempty"`
	RoleType RoleType `json:"roleType"`

	// Role is the secondary staff classification ("staff", "admin", or empty).
	// The route gate never consults it; it is carried for the backend.
	Role string `json:"role,omitempty"`

	// ProviderID links provider accounts to their provider record.
	ProviderID string `json:"providerId,omitempty"`

	// ProfilePicture is an object-storage key, not a URL.
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// ParseUser decodes a JSON-serialized user record.
//
// The route gate and the session endpoints both read the user cookie through
// this function so that "unparsable user" means the same thing everywhere.
func ParseUser(raw string) (*User, error) {
	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Encode serializes the user record for cookie storage. The JSON is
// percent-encoded because raw JSON is not a valid cookie value.
func (u *User) Encode() (string, error) {
	data, err := json.Marshal(u)
	if err != nil {
		return "", err
	}
	return url.QueryEscape(string(data)), nil
}

// DecodeCookieValue reverses [User.Encode]: it percent-decodes a cookie
// value and parses the user record. Values that never went through
// percent-encoding still parse, so hand-set plain-JSON cookies keep working.
func DecodeCookieValue(raw string) (*User, error) {
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		decoded = raw
	}
	return ParseUser(decoded)
}
