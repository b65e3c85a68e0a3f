// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns created by data/migrations.
package schema

import "strings"

// UsersTable represents the 'users' table
type UsersTable struct {
	Table               string
	ID                  string
	Username            string
	Email               string
	PasswordHash        string
	Phone               string
	Role                string
	IsActive            string
	LastLoginAt         string
	ResetTokenHash      string
	ResetTokenExpiresAt string
	CreatedAt           string
	UpdatedAt           string
}

// Users is the schema definition for users
var Users = UsersTable{
	Table:               "users",
	ID:                  "id",
	Username:            "username",
	Email:               "email",
	PasswordHash:        "password_hash",
	Phone:               "phone",
	Role:                "role",
	IsActive:            "is_active",
	LastLoginAt:         "last_login_at",
	ResetTokenHash:      "reset_token_hash",
	ResetTokenExpiresAt: "reset_token_expires_at",
	CreatedAt:           "created_at",
	UpdatedAt:           "updated_at",
}

// Columns returns all column names in scan order.
func (t UsersTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.PasswordHash, t.Phone, t.Role, t.IsActive,
		t.LastLoginAt, t.ResetTokenHash, t.ResetTokenExpiresAt, t.CreatedAt, t.UpdatedAt,
	}
}

// Projection returns the columns as a SELECT list.
func (t UsersTable) Projection() string {
	return strings.Join(t.Columns(), ", ")
}
