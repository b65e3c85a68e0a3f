// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// Lookups return apperr.NotFound when no row matches; any other failure is
// apperr.StoreUnavailable.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByUsernameOrEmail matches the identifier against the username
		(exact) or the email (case-insensitive).

		Parameters:
		  - context: context.Context
		  - identifier: string

		Returns:
		  - *User: Hydrated entity
		  - error: NotFound or storage failures
	*/
	FindByUsernameOrEmail(context context.Context, identifier string) (*User, error)

	/*
		FindByResetTokenHash returns the account holding the given reset token digest.

		Parameters:
		  - context: context.Context
		  - tokenHash: string (SHA-256 hex)

		Returns:
		  - *User: Hydrated entity
		  - error: NotFound or storage failures
	*/
	FindByResetTokenHash(context context.Context, tokenHash string) (*User, error)

	/*
		Create persists a brand-new account.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: apperr.DuplicateIdentity on a unique violation, or storage failures
	*/
	Create(context context.Context, user *User) error

	/*
		TouchLastLogin records a successful authentication.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - at: time.Time

		Returns:
		  - error: Storage failures
	*/
	TouchLastLogin(context context.Context, userID string, at time.Time) error

	/*
		SetResetToken stores a reset token digest and its expiry, replacing any
		previous one.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - tokenHash: string
		  - expiresAt: time.Time

		Returns:
		  - error: Storage failures
	*/
	SetResetToken(context context.Context, userID, tokenHash string, expiresAt time.Time) error

	/*
		ConsumeResetToken atomically replaces the password and clears the reset
		token, provided the token still matches and has not expired at now.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - tokenHash: string
		  - passwordHash: string
		  - now: time.Time

		Returns:
		  - bool: false when no row matched (already used, replaced or expired)
		  - error: Storage failures
	*/
	ConsumeResetToken(context context.Context, userID, tokenHash, passwordHash string, now time.Time) (bool, error)

	/*
		SetActive activates or deactivates an account.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - active: bool

		Returns:
		  - error: NotFound or storage failures
	*/
	SetActive(context context.Context, userID string, active bool) error
}

// # Session Data Access

// SessionRepository defines the contract for server-side sessions.
// Sessions expire on their own after the store's fixed TTL.
type SessionRepository interface {

	/*
		Create persists a new session.

		Parameters:
		  - context: context.Context
		  - session: *Session

		Returns:
		  - error: Storage failures
	*/
	Create(context context.Context, session *Session) error

	/*
		Find returns the live session with the given ID.

		Parameters:
		  - context: context.Context
		  - sessionID: string

		Returns:
		  - *Session: Hydrated entity
		  - error: NotFound when absent or expired, or storage failures
	*/
	Find(context context.Context, sessionID string) (*Session, error)

	/*
		Delete destroys a session. Deleting an unknown session is not an error.

		Parameters:
		  - context: context.Context
		  - sessionID: string

		Returns:
		  - error: Storage failures
	*/
	Delete(context context.Context, sessionID string) error

	/*
		RevokeAll destroys every session of a user.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Storage failures
	*/
	RevokeAll(context context.Context, userID string) error
}

// # Remember-Me Revocation

// RevocationRepository records remember-me tokens invalidated by logout, and
// per-user cutoffs set when every device must be signed out.
// Entries only need to outlive the tokens they revoke.
type RevocationRepository interface {

	/*
		Revoke marks a token ID as unusable until expiresAt.

		Parameters:
		  - context: context.Context
		  - tokenID: string (jti claim)
		  - expiresAt: time.Time

		Returns:
		  - error: Storage failures
	*/
	Revoke(context context.Context, tokenID string, expiresAt time.Time) error

	/*
		IsRevoked reports whether a token ID has been revoked.

		Parameters:
		  - context: context.Context
		  - tokenID: string

		Returns:
		  - bool: true when revoked
		  - error: Storage failures
	*/
	IsRevoked(context context.Context, tokenID string) (bool, error)

	/*
		RevokeIssuedBefore invalidates every remember-me token of a user
		issued at or before cutoff. A later cutoff replaces an earlier one.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - cutoff: time.Time

		Returns:
		  - error: Storage failures
	*/
	RevokeIssuedBefore(context context.Context, userID string, cutoff time.Time) error

	/*
		RevokedBefore returns the user's cutoff, or the zero time when none is set.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - time.Time: Cutoff (second precision)
		  - error: Storage failures
	*/
	RevokedBefore(context context.Context, userID string) (time.Time, error)
}
