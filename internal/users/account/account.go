// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles administrative account management.

Administrators can look up an account and switch it between active and
inactive. An inactive account can no longer log in, and its existing
sessions stop resolving immediately.

# Architecture

  - Domain: This package depends on the auth package for the User entity.
  - Security: Deactivation revokes every session and remember-me cookie of the account.
*/
package account

import (
	"context"

	"github.com/HoangTuan-git/Product-Supplier-Management/internal/users/auth"
)

// # Repository Contracts

// AccountRepository is the subset of the credential store this package needs.
// [auth.PostgresUserRepository] satisfies it.
type AccountRepository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		SetActive flips the active flag of an account.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - active: bool

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	SetActive(context context.Context, userID string, active bool) error
}

// SessionRevoker signs a user out of every device, remember-me cookies
// included. [auth.Service] satisfies it.
type SessionRevoker interface {
	SignOutEverywhere(context context.Context, userID string) error
}
