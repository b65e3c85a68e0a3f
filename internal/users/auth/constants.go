// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Authentication Constraints

const (
	// SessionIDLength is the byte length of the random session identifier.
	SessionIDLength = 32

	// Username length bounds.
	UsernameMinLength = 3
	UsernameMaxLength = 30

	// PasswordMinLength is the shortest accepted password.
	PasswordMinLength = 6

	// ResetMailSubject is the subject line of the password reset mail.
	ResetMailSubject = "Reset your Stockroom password"
)

// # Field Identifiers

// Form field names shared by validation, templates and JSON details.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPhone           = "phone"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldIdentifier      = "identifier"
	FieldRememberMe      = "rememberMe"
	FieldToken           = "token"
	FieldUser            = "user"
	FieldRedirect        = "redirect"
	FieldMessage         = "message"
)

// # User-Facing Messages

const (
	MessageRegistered    = "Registration successful! Please log in."
	MessageLoggedIn      = "Login successful"
	MessageLoggedOut     = "Logged out successfully"
	MessageResetSent     = "If that email is registered, a password reset link has been sent."
	MessagePasswordReset = "Password has been reset! Please log in."
)
