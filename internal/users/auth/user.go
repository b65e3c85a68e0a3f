// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements credential storage and per-request identity resolution.

It defines the core domain entities (User, Session) and the flows that create
and destroy them: register, login, logout, forgot and reset password.

# Architecture

  - Store: Postgres holds users; Redis holds sessions with a fixed TTL.
  - Resolver: Turns cookies into an identity once per request.
  - Service: Orchestrates the auth flows.
  - Handler: Form posts with flash + redirect, or JSON for API callers.
*/
package auth

import (
	"time"

	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/sec"
)

// # Domain Entities

// User is a registered account.
type User struct {
	ID                  string       `json:"id"`
	Username            string       `json:"username"`
	Email               string       `json:"email"`
	PasswordHash        string       `json:"-"` // Never serialised.
	Phone               string       `json:"phone,omitempty"`
	Role                sec.UserRole `json:"role"`
	IsActive            bool         `json:"is_active"`
	LastLogin           *time.Time   `json:"last_login,omitempty"`
	ResetTokenHash      *string      `json:"-"`
	ResetTokenExpiresAt *time.Time   `json:"-"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

// Identity projects the user onto the request identity.
func (user *User) Identity() *sec.Identity {
	return &sec.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
}

// Session is a server-side login, keyed by an opaque random identifier.
// The user snapshot is informational; the resolver always reloads the user.
type Session struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Username  string       `json:"username"`
	Email     string       `json:"email"`
	Role      sec.UserRole `json:"role"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// newSession mints a session for user. The caller persists it.
func newSession(user *User, now time.Time, ttl time.Duration) (*Session, error) {
	id, err := sec.GenerateSecureToken(SessionIDLength)
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:        id,
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}
