// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/apperr"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/clock"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/constants"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/ctxutil"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/logattr"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/metrics"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/sec"
	"github.com/HoangTuan-git/Product-Supplier-Management/pkg/uuid"
)

// # Contracts & Types

// Hasher hashes and verifies passwords. Implemented by [sec.PasswordHasher].
type Hasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, plaintext, digest string) (bool, error)
	VerifyDummy(ctx context.Context, plaintext string)
}

// ResetTokens issues and checks password reset tokens. Implemented by [sec.ResetTokenIssuer].
type ResetTokens interface {
	Issue() (token string, expiresAt time.Time, err error)
	IsValid(storedHash, presented string, expiresAt, now time.Time) bool
}

// Notifier delivers the reset link. Implemented by the mail drivers.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// ServiceConfig wires a [Service].
type ServiceConfig struct {
	Users       UserRepository
	Sessions    SessionRepository
	Revocations RevocationRepository
	Hasher      Hasher
	ResetTokens ResetTokens
	Remember    RememberTokens
	Notifier    Notifier
	Metrics     *metrics.Metrics
	Clock       clock.Clock
	SessionTTL  time.Duration

	// BaseURL prefixes the reset link sent by mail.
	BaseURL string
}

// Service implements the authentication flows.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository       UserRepository
	sessionRepository    SessionRepository
	revocationRepository RevocationRepository
	hasher               Hasher
	resetTokens          ResetTokens
	rememberTokens       RememberTokens
	notifier             Notifier
	metrics              *metrics.Metrics
	clock                clock.Clock
	sessionTTL           time.Duration
	baseURL              string
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(config ServiceConfig) *Service {
	if config.Clock == nil {
		config.Clock = clock.System{}
	}
	return &Service{
		userRepository:       config.Users,
		sessionRepository:    config.Sessions,
		revocationRepository: config.Revocations,
		hasher:               config.Hasher,
		resetTokens:          config.ResetTokens,
		rememberTokens:       config.Remember,
		notifier:             config.Notifier,
		metrics:              config.Metrics,
		clock:                config.Clock,
		sessionTTL:           config.SessionTTL,
		baseURL:              strings.TrimRight(config.BaseURL, "/"),
	}
}

// # Registration Flow

// RegisterInput holds the data required to create an account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Phone    string
}

/*
Register checks identity uniqueness, hashes the password and persists the account.

Description: New accounts get the user role and are active immediately.
The unique indexes remain the source of truth; the pre-checks only give a
friendlier path for the common case.

Parameters:
  - context: context.Context
  - input: RegisterInput (already validated)

Returns:
  - *User: Created entity
  - error: apperr.DuplicateIdentity, or storage/hashing failures
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	// Username and email are checked separately so either collision is caught.
	for _, identifier := range []string{input.Username, email} {
		_, err := service.userRepository.FindByUsernameOrEmail(context, identifier)
		if err == nil {
			return nil, apperr.DuplicateIdentity()
		}
		if !apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, err
		}
	}

	passwordHash, err := service.hashPassword(context, input.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        email,
		PasswordHash: passwordHash,
		Phone:        input.Phone,
		Role:         sec.RoleUser,
		IsActive:     true,
		CreatedAt:    service.clock.Now(),
	}

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	service.metrics.ObserveRegistration()
	ctxutil.GetLogger(context).InfoContext(context, "user_registered", logattr.UserID(user.ID))

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Identifier string // Username or email
	Password   string
	RememberMe bool
}

// LoginResult is a successfully established login.
type LoginResult struct {
	User    *User
	Session *Session

	// RememberToken is set only when RememberMe was requested.
	RememberToken string
}

/*
Login verifies credentials and opens a session.

Description: Unknown identifier, wrong password and inactive account all
return the same [apperr.InvalidCredentials]. A dummy bcrypt comparison runs
for unknown identifiers so response timing does not reveal which accounts exist.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginResult: User, session and optional remember-me token
  - error: apperr.InvalidCredentials, or storage/hashing failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginResult, error) {
	logger := ctxutil.GetLogger(context)

	user, err := service.userRepository.FindByUsernameOrEmail(context, input.Identifier)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			service.hasher.VerifyDummy(context, input.Password)
			return nil, service.rejectLogin(context, "unknown_identifier", "")
		}
		service.metrics.ObserveLogin(metrics.OutcomeError)
		return nil, err
	}

	matches, err := service.hasher.Verify(context, input.Password, user.PasswordHash)
	if err != nil {
		service.metrics.ObserveLogin(metrics.OutcomeError)
		if errors.Is(err, sec.ErrCorruptCredential) {
			logger.ErrorContext(context, "auth_stored_credential_corrupt", logattr.UserID(user.ID), logattr.Err(err))
			return nil, apperr.Internal(err)
		}
		return nil, fmt.Errorf("auth_service_login_failed: %w", err)
	}

	if !matches {
		return nil, service.rejectLogin(context, "password_mismatch", user.ID)
	}

	if !user.IsActive {
		return nil, service.rejectLogin(context, "account_inactive", user.ID)
	}

	now := service.clock.Now()
	if err := service.userRepository.TouchLastLogin(context, user.ID, now); err != nil {
		logger.WarnContext(context, "touch_last_login_failed", logattr.UserID(user.ID), logattr.Err(err))
	}
	user.LastLogin = &now

	session, err := newSession(user, now, service.sessionTTL)
	if err != nil {
		service.metrics.ObserveLogin(metrics.OutcomeError)
		return nil, fmt.Errorf("auth_service_session_id_failed: %w", err)
	}
	if err := service.sessionRepository.Create(context, session); err != nil {
		service.metrics.ObserveLogin(metrics.OutcomeError)
		return nil, err
	}

	result := &LoginResult{User: user, Session: session}

	if input.RememberMe {
		token, err := service.rememberTokens.Sign(*user.Identity())
		if err != nil {
			service.metrics.ObserveLogin(metrics.OutcomeError)
			return nil, fmt.Errorf("auth_service_remember_token_failed: %w", err)
		}
		result.RememberToken = token
	}

	service.metrics.ObserveLogin(metrics.OutcomeSuccess)
	logger.InfoContext(context, "auth_login_succeeded",
		logattr.UserID(user.ID),
		slog.Bool("remember_me", input.RememberMe),
	)

	return result, nil
}

func (service *Service) rejectLogin(context context.Context, reason, userID string) error {
	service.metrics.ObserveLogin(metrics.OutcomeInvalidCredentials)

	attrs := []any{slog.String("reason", reason)}
	if userID != "" {
		attrs = append(attrs, logattr.UserID(userID))
	}
	ctxutil.GetLogger(context).WarnContext(context, "auth_login_failed", attrs...)

	return apperr.InvalidCredentials(errors.New(reason))
}

/*
Logout destroys the session and revokes the remember-me token.

Description: Logout cannot fail. Store failures are logged because the
caller clears both cookies regardless.

Parameters:
  - context: context.Context
  - sessionID: string (may be empty)
  - rememberToken: string (may be empty)
*/
func (service *Service) Logout(context context.Context, sessionID, rememberToken string) {
	logger := ctxutil.GetLogger(context)

	if sessionID != "" {
		if err := service.sessionRepository.Delete(context, sessionID); err != nil {
			logger.ErrorContext(context, "auth_logout_session_destroy_failed", logattr.Err(err))
		}
	}

	if rememberToken != "" {
		claims, err := service.rememberTokens.Verify(rememberToken)
		if err == nil && claims.ExpiresAt != nil {
			if err := service.revocationRepository.Revoke(context, claims.ID, claims.ExpiresAt.Time); err != nil {
				logger.ErrorContext(context, "auth_logout_remember_revoke_failed", logattr.Err(err))
			}
		}
	}

	logger.InfoContext(context, "auth_logout_completed")
}

// # Password Recovery Flow

/*
RequestPasswordReset issues a reset token for an active account and mails the link.

Description: Unknown and inactive emails return nil as well, so the caller
shows the same message either way. Delivery failures are logged only.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - error: Storage failures only
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) error {
	logger := ctxutil.GetLogger(context)
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := service.userRepository.FindByUsernameOrEmail(context, email)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			service.metrics.ObserveReset(metrics.ResetUnknown)
			logger.InfoContext(context, "password_reset_unknown_email")
			return nil
		}
		return err
	}

	if !strings.EqualFold(user.Email, email) || !user.IsActive {
		service.metrics.ObserveReset(metrics.ResetUnknown)
		logger.InfoContext(context, "password_reset_skipped", logattr.UserID(user.ID))
		return nil
	}

	token, expiresAt, err := service.resetTokens.Issue()
	if err != nil {
		return fmt.Errorf("auth_service_reset_token_failed: %w", err)
	}

	if err := service.userRepository.SetResetToken(context, user.ID, sec.HashToken(token), expiresAt); err != nil {
		return err
	}

	link := service.baseURL + constants.PathReset + token
	body := fmt.Sprintf(
		"Hello %s,\n\nSomeone asked to reset the password for your Stockroom account.\n"+
			"Open this link within %s to choose a new password:\n\n%s\n\n"+
			"If you did not ask for this, you can ignore this email.\n",
		user.Username, expiresAt.Sub(service.clock.Now()).Round(time.Minute), link,
	)

	if err := service.notifier.Send(context, user.Email, ResetMailSubject, body); err != nil {
		logger.ErrorContext(context, "password_reset_mail_failed", logattr.UserID(user.ID), logattr.Err(err))
	}

	service.metrics.ObserveReset(metrics.ResetRequested)
	logger.InfoContext(context, "password_reset_requested", logattr.UserID(user.ID))
	return nil
}

/*
ValidateResetToken checks that a reset token is known and not expired.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - *User: The account holding the token
  - error: apperr.InvalidOrExpiredToken, or storage failures
*/
func (service *Service) ValidateResetToken(context context.Context, token string) (*User, error) {
	if token == "" {
		return nil, apperr.InvalidOrExpiredToken()
	}

	user, err := service.userRepository.FindByResetTokenHash(context, sec.HashToken(token))
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.InvalidOrExpiredToken()
		}
		return nil, err
	}

	if user.ResetTokenHash == nil || user.ResetTokenExpiresAt == nil ||
		!service.resetTokens.IsValid(*user.ResetTokenHash, token, *user.ResetTokenExpiresAt, service.clock.Now()) {
		return nil, apperr.InvalidOrExpiredToken()
	}

	return user, nil
}

// ResetPasswordInput carries a reset confirmation.
type ResetPasswordInput struct {
	Token           string
	Password        string
	ConfirmPassword string
}

/*
ResetPassword consumes a reset token and sets the new password.

Description: The token is consumed by a single conditional update, so a
replayed or concurrently used token fails. All sessions of the account are
revoked afterwards. The user is not logged in.

Parameters:
  - context: context.Context
  - input: ResetPasswordInput

Returns:
  - error: apperr.PasswordMismatch, apperr.InvalidOrExpiredToken, or storage failures
*/
func (service *Service) ResetPassword(context context.Context, input ResetPasswordInput) error {
	logger := ctxutil.GetLogger(context)

	if input.Password != input.ConfirmPassword {
		return apperr.PasswordMismatch()
	}

	user, err := service.ValidateResetToken(context, input.Token)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeInvalidOrExpiredToken) {
			service.metrics.ObserveReset(metrics.ResetRejected)
		}
		return err
	}

	passwordHash, err := service.hashPassword(context, input.Password)
	if err != nil {
		return err
	}

	consumed, err := service.userRepository.ConsumeResetToken(context, user.ID, sec.HashToken(input.Token), passwordHash, service.clock.Now())
	if err != nil {
		return err
	}
	if !consumed {
		service.metrics.ObserveReset(metrics.ResetRejected)
		return apperr.InvalidOrExpiredToken()
	}

	if err := service.SignOutEverywhere(context, user.ID); err != nil {
		logger.WarnContext(context, "password_reset_revoke_sessions_failed", logattr.UserID(user.ID), logattr.Err(err))
	}

	service.metrics.ObserveReset(metrics.ResetCompleted)
	logger.InfoContext(context, "password_reset_completed", logattr.UserID(user.ID))
	return nil
}

/*
SignOutEverywhere ends every session of a user and refuses every remember-me
token issued up to now.

Description: The cutoff is written first so a remember-me cookie cannot
restore a fresh session between the two steps. Both steps are attempted even
if one fails.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Joined storage failures
*/
func (service *Service) SignOutEverywhere(context context.Context, userID string) error {
	var errs []error

	if err := service.revocationRepository.RevokeIssuedBefore(context, userID, service.clock.Now()); err != nil {
		errs = append(errs, err)
	}
	if err := service.sessionRepository.RevokeAll(context, userID); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// hashPassword maps bcrypt's length limit to a validation error.
func (service *Service) hashPassword(context context.Context, password string) (string, error) {
	digest, err := service.hasher.Hash(context, password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apperr.ValidationError("Validation failed", apperr.FieldError{
				Field:   FieldPassword,
				Message: "Password must be at most 72 bytes",
			})
		}
		return "", fmt.Errorf("auth_service_hash_failed: %w", err)
	}
	return digest, nil
}
