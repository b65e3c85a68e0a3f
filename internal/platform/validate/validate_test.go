// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/apperr"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/validate"
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
		{"valid_string", "username", "stockkeeper", false},
		{"empty_string", "username", "", true},
		{"whitespace_only", "username", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				ae := apperr.As(v.Err())
				require.NotNil(t, ae)
				assert.Equal(t, apperr.CodeValidation, ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Email checks the email format validation rule.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isValid bool
	}{
		{"valid_email", "test@example.com", true},
		{"invalid_format", "invalid-email", false},
		{"missing_domain", "test@", false},
		{"display_name_form", "Test <test@example.com>", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Email("email", tt.email)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_AccountRules covers the username, password and phone rules
used by the registration form.
*/
func TestValidator_AccountRules(t *testing.T) {
	tests := []struct {
		name    string
		apply   func(v *validate.Validator)
		isValid bool
	}{
		{"username_ok", func(v *validate.Validator) { v.Username("username", "stock_01") }, true},
		{"username_space", func(v *validate.Validator) { v.Username("username", "stock 01") }, false},
		{"username_dash", func(v *validate.Validator) { v.Username("username", "stock-01") }, false},
		{"password_ok", func(v *validate.Validator) { v.StrongPassword("password", "Admin123") }, true},
		{"password_no_upper", func(v *validate.Validator) { v.StrongPassword("password", "admin123") }, false},
		{"password_no_lower", func(v *validate.Validator) { v.StrongPassword("password", "ADMIN123") }, false},
		{"password_no_digit", func(v *validate.Validator) { v.StrongPassword("password", "AdminAdmin") }, false},
		{"phone_empty", func(v *validate.Validator) { v.Phone("phone", "") }, true},
		{"phone_ten", func(v *validate.Validator) { v.Phone("phone", "0912345678") }, true},
		{"phone_eleven", func(v *validate.Validator) { v.Phone("phone", "09123456789") }, true},
		{"phone_short", func(v *validate.Validator) { v.Phone("phone", "091234") }, false},
		{"phone_letters", func(v *validate.Validator) { v.Phone("phone", "09123abc78") }, false},
		{"confirm_match", func(v *validate.Validator) { v.Equal("confirmPassword", "Abc123", "Abc123", "mismatch") }, true},
		{"confirm_mismatch", func(v *validate.Validator) { v.Equal("confirmPassword", "Abc123", "Abc124", "mismatch") }, false},
		{"bcrypt_limit", func(v *validate.Validator) { v.MaxBytes("password", strings.Repeat("a", 73), 72) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			tt.apply(v)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("username", "").
		MinLen("username", "a", 3).
		Email("email", "not-an-email").
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Len(t, ae.Details, 3)
	assert.Equal(t,
		"username: This field is required, username: Minimum 3 characters, email: Must be a valid email address",
		validate.Summary(ae))
}
