// Copyright (c) 2026 Rackline. All rights reserved.

package identity_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rackline/rackline/pkg/identity"
)

/*
TestUser_EncodeDecodeRoundTrip checks cookie serialization survives the
percent-encoding round trip.
*/
func TestUser_EncodeDecodeRoundTrip(t *testing.T) {
	user := &identity.User{
		ID:         "user-1",
		Username:   "dana",
		Email:      "dana@example.com",
		FullName:   "Dana Trần",
		RoleType:   identity.RoleTypeProvider,
		ProviderID: "prov-9",
	}

	encoded, err := user.Encode()
	require.NoError(t, err)

	// Raw JSON is not a valid cookie value; the encoding must not emit
	// any of the characters the cookie sanitizer strips.
	assert.NotContains(t, encoded, `"`)
	assert.NotContains(t, encoded, ",")

	decoded, err := identity.DecodeCookieValue(encoded)
	require.NoError(t, err)
	assert.Equal(t, user, decoded)
}

/*
TestDecodeCookieValue_PlainJSON accepts values that never went through
percent-encoding.
*/
func TestDecodeCookieValue_PlainJSON(t *testing.T) {
	decoded, err := identity.DecodeCookieValue(`{"id":"u1","username":"dana","email":"d@e.com","roleType":"user"}`)
	require.NoError(t, err)
	assert.Equal(t, "dana", decoded.Username)
	assert.Equal(t, identity.RoleTypeUser, decoded.RoleType)
}

/*
TestDecodeCookieValue_Rejects covers unparsable values.
*/
func TestDecodeCookieValue_Rejects(t *testing.T) {
	for _, raw := range []string{"", "not-json", "%7Bhalf", strings.Repeat("x", 64)} {
		_, err := identity.DecodeCookieValue(raw)
		assert.Error(t, err, raw)
	}
}

/*
TestRoleType_AreaRules pins the role matrix the route gate relies on.
*/
func TestRoleType_AreaRules(t *testing.T) {
	assert.True(t, identity.RoleTypeAdmin.CanAccessAdminArea())
	assert.False(t, identity.RoleTypeProvider.CanAccessAdminArea())
	assert.False(t, identity.RoleTypeUser.CanAccessAdminArea())

	assert.True(t, identity.RoleTypeAdmin.CanAccessProviderArea())
	assert.True(t, identity.RoleTypeProvider.CanAccessProviderArea())
	assert.False(t, identity.RoleTypeUser.CanAccessProviderArea())

	assert.True(t, identity.RoleTypeUser.CanBecomeProvider())
	assert.False(t, identity.RoleTypeProvider.CanBecomeProvider())
	assert.False(t, identity.RoleTypeAdmin.CanBecomeProvider())

	assert.True(t, identity.RoleTypeUser.Valid())
	assert.False(t, identity.RoleType("superuser").Valid())
}
