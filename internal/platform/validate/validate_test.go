// Copyright (c) 2026 Rackline. All rights reserved.

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rackline/rackline/internal/platform/apperr"
	"github.com/rackline/rackline/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "usernameOrEmail", "dana", false},
		{"empty_string", "usernameOrEmail", "", true},
		{"whitespace_only", "usernameOrEmail", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Chaining accumulates every failed rule into one error.
*/
func TestValidator_Chaining(t *testing.T) {
	v := &validate.Validator{}
	v.Required("usernameOrEmail", "").
		Required("password", "").
		MinLen("password", "", 8)

	err := v.Err()
	require.NotNil(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Len(t, ae.Details, 3)
	assert.Equal(t, 400, ae.HTTPStatus)
}

/*
TestValidator_OneOf checks membership validation.
*/
func TestValidator_OneOf(t *testing.T) {
	valid := &validate.Validator{}
	valid.OneOf("roleType", "provider", "user", "provider", "admin")
	assert.False(t, valid.HasErrors())

	invalid := &validate.Validator{}
	invalid.OneOf("roleType", "superuser", "user", "provider", "admin")
	assert.True(t, invalid.HasErrors())
}
