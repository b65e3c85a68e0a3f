// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/apperr"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/database/schema"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/dberr"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/postgres"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/sec"
)

// # User Repository

// userSelect is the projection shared by every user lookup. Column order
// must match scanUser.
var userSelect = `SELECT ` + schema.Users.Projection() + ` FROM ` + schema.Users.Table

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	db postgres.DB
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(db postgres.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// scanUser hydrates a User from a row produced with userSelect.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	var role string

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Phone,
		&role,
		&user.IsActive,
		&user.LastLogin,
		&user.ResetTokenHash,
		&user.ResetTokenExpiresAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Role = sec.UserRole(role)
	if user.ResetTokenHash != nil {
		trimmed := strings.TrimSpace(*user.ResetTokenHash)
		user.ResetTokenHash = &trimmed
	}
	return user, nil
}

func (repository *PostgresUserRepository) findOne(context context.Context, op, where string, args ...any) (*User, error) {
	query := userSelect + ` WHERE ` + where

	user, err := scanUser(repository.db.QueryRow(context, query, args...))
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.NotFound("User")
		}
		return nil, apperr.StoreUnavailable(fmt.Errorf("postgres_user_repo_%s_failed: %w", op, err))
	}
	return user, nil
}

/*
FindByID retrieves a user record by their unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or apperr.StoreUnavailable
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.findOne(context, "find_by_id", `id = $1`, id)
}

/*
FindByUsernameOrEmail resolves a login identifier.

Description: Email matches case-insensitively through the LOWER(email)
unique index; username matches exactly.

Parameters:
  - context: context.Context
  - identifier: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or apperr.StoreUnavailable
*/
func (repository *PostgresUserRepository) FindByUsernameOrEmail(context context.Context, identifier string) (*User, error) {
	return repository.findOne(context, "find_by_identifier",
		`LOWER(email) = LOWER($1) OR username = $1 LIMIT 1`, identifier)
}

/*
FindByResetTokenHash retrieves the account that holds a reset token digest.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or apperr.StoreUnavailable
*/
func (repository *PostgresUserRepository) FindByResetTokenHash(context context.Context, tokenHash string) (*User, error) {
	return repository.findOne(context, "find_by_reset_token", `reset_token_hash = $1`, tokenHash)
}

/*
Create persists a new user record.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.DuplicateIdentity on a unique violation, or apperr.StoreUnavailable
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users (
			id, username, email, password_hash, phone, role, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = user.CreatedAt

	_, err := repository.db.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Phone,
		string(user.Role),
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.DuplicateIdentity()
		}
		return apperr.StoreUnavailable(fmt.Errorf("postgres_user_repo_create_failed: %w", err))
	}

	return nil
}

/*
TouchLastLogin stamps last_login_at.

Parameters:
  - context: context.Context
  - userID: string
  - at: time.Time

Returns:
  - error: apperr.StoreUnavailable
*/
func (repository *PostgresUserRepository) TouchLastLogin(context context.Context, userID string, at time.Time) error {
	const query = `UPDATE users SET last_login_at = $2, updated_at = $2 WHERE id = $1`

	if _, err := repository.db.Exec(context, query, userID, at); err != nil {
		return apperr.StoreUnavailable(fmt.Errorf("postgres_user_repo_touch_last_login_failed: %w", err))
	}
	return nil
}

/*
SetResetToken stores a reset token digest and its expiry.

Description: Both columns are written together so the pair constraint holds.
A new request overwrites any outstanding token.

Parameters:
  - context: context.Context
  - userID: string
  - tokenHash: string
  - expiresAt: time.Time

Returns:
  - error: apperr.StoreUnavailable
*/
func (repository *PostgresUserRepository) SetResetToken(context context.Context, userID, tokenHash string, expiresAt time.Time) error {
	const query = `
		UPDATE users
		SET reset_token_hash = $2, reset_token_expires_at = $3, updated_at = NOW()
		WHERE id = $1`

	if _, err := repository.db.Exec(context, query, userID, tokenHash, expiresAt); err != nil {
		return apperr.StoreUnavailable(fmt.Errorf("postgres_user_repo_set_reset_token_failed: %w", err))
	}
	return nil
}

/*
ConsumeResetToken swaps the password and clears the token in one statement.

Description: The WHERE clause re-checks the digest and the expiry so two
concurrent confirmations cannot both succeed.

Parameters:
  - context: context.Context
  - userID: string
  - tokenHash: string
  - passwordHash: string
  - now: time.Time

Returns:
  - bool: Whether the token was consumed
  - error: apperr.StoreUnavailable
*/
func (repository *PostgresUserRepository) ConsumeResetToken(context context.Context, userID, tokenHash, passwordHash string, now time.Time) (bool, error) {
	const query = `
		UPDATE users
		SET password_hash = $3,
		    reset_token_hash = NULL,
		    reset_token_expires_at = NULL,
		    updated_at = $4
		WHERE id = $1
		  AND reset_token_hash = $2
		  AND reset_token_expires_at >= $4`

	tag, err := repository.db.Exec(context, query, userID, tokenHash, passwordHash, now)
	if err != nil {
		return false, apperr.StoreUnavailable(fmt.Errorf("postgres_user_repo_consume_reset_token_failed: %w", err))
	}
	return tag.RowsAffected() == 1, nil
}

/*
SetActive flips the is_active flag.

Parameters:
  - context: context.Context
  - userID: string
  - active: bool

Returns:
  - error: apperr.NotFound or apperr.StoreUnavailable
*/
func (repository *PostgresUserRepository) SetActive(context context.Context, userID string, active bool) error {
	const query = `UPDATE users SET is_active = $2, updated_at = NOW() WHERE id = $1`

	tag, err := repository.db.Exec(context, query, userID, active)
	if err != nil {
		return apperr.StoreUnavailable(fmt.Errorf("postgres_user_repo_set_active_failed: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}
