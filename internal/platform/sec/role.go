// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// RoleAdmin can manage accounts.
	RoleAdmin UserRole = "admin"

	// RoleUser is the default role for registered accounts.
	RoleUser UserRole = "user"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

func (r UserRole) level() int {
	switch r {
	case RoleAdmin:
		return 20
	case RoleUser:
		return 10
	default:
		return 0
	}
}

// # Request Identity

// Identity is the acting user of a request, derived from a session or a
// remember-me token. Handlers read it from the context; a nil Identity
// means the request is anonymous.
type Identity struct {
	UserID   string
	Username string
	Email    string
	Role     UserRole
}

// IsAdmin reports whether the identity carries the admin role.
func (identity *Identity) IsAdmin() bool {
	return identity != nil && identity.Role.AtLeast(RoleAdmin)
}
