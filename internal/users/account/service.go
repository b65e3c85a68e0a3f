// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/apperr"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/ctxutil"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/logattr"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/sec"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/users/auth"
)

// MessageSelfDeactivation is returned when an admin tries to lock themselves out.
const MessageSelfDeactivation = "You cannot deactivate your own account"

// # Service Layer

// Service orchestrates administrative account changes.
type Service struct {
	accountRepository AccountRepository
	sessionRevoker    SessionRevoker
}

// NewService constructs a new [Service] with its dependencies.
func NewService(accountRepo AccountRepository, revoker SessionRevoker) *Service {
	return &Service{
		accountRepository: accountRepo,
		sessionRevoker:    revoker,
	}
}

/*
GetAccount retrieves an account by ID.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated account
  - error: apperr.NotFound or storage failures
*/
func (service *Service) GetAccount(context context.Context, userID string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_failed: %w", err)
	}
	return user, nil
}

/*
SetActive activates or deactivates an account.

Description: Deactivation also signs the account out everywhere, so a
later reactivation does not revive old sessions or remember-me cookies.
Revocation is best-effort because the resolver refuses inactive users anyway.

Parameters:
  - context: context.Context
  - actor: *sec.Identity (the admin performing the change)
  - userID: string
  - active: bool

Returns:
  - *auth.User: The account after the change
  - error: apperr.Conflict on self-deactivation, apperr.NotFound, or storage failures
*/
func (service *Service) SetActive(context context.Context, actor *sec.Identity, userID string, active bool) (*auth.User, error) {
	logger := ctxutil.GetLogger(context)

	actorID := ""
	if actor != nil {
		actorID = actor.UserID
	}

	if !active && actorID == userID {
		return nil, apperr.Conflict(MessageSelfDeactivation)
	}

	if err := service.accountRepository.SetActive(context, userID, active); err != nil {
		return nil, fmt.Errorf("account_service_set_active_failed: %w", err)
	}

	if !active {
		if err := service.sessionRevoker.SignOutEverywhere(context, userID); err != nil {
			logger.WarnContext(context, "account_sessions_revoke_failed", logattr.UserID(userID), logattr.Err(err))
		}
	}

	logger.WarnContext(context, "account_active_changed",
		logattr.UserID(userID),
		slog.Bool("active", active),
		slog.String("actor_id", actorID),
	)

	return service.GetAccount(context, userID)
}
