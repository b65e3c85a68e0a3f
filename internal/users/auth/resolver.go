// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/apperr"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/clock"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/ctxutil"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/logattr"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/sec"
)

// # Resolution

// ResolutionState tags how a request's identity was established.
type ResolutionState string

const (
	StateAnonymous            ResolutionState = "anonymous"
	StateSessionAuthenticated ResolutionState = "session"
	StateCookieRestored       ResolutionState = "cookie_restored"

	// StateRejected means a remember-me cookie was presented but failed
	// verification. The cookie is cleared and the request is anonymous.
	StateRejected ResolutionState = "rejected"
)

// Resolution is the outcome of resolving one request.
type Resolution struct {
	State   ResolutionState
	User    *User
	Session *Session

	// Cookies must be written to the response (new session, cleared credentials).
	Cookies []*http.Cookie
}

// Authenticated reports whether the request has an identity.
func (resolution Resolution) Authenticated() bool {
	return resolution.User != nil
}

// RememberTokens signs and verifies remember-me tokens.
type RememberTokens interface {
	Sign(identity sec.Identity) (string, error)
	Verify(token string) (*sec.RememberClaims, error)
}

// ResolverConfig wires a [Resolver].
type ResolverConfig struct {
	Users       UserRepository
	Sessions    SessionRepository
	Revocations RevocationRepository
	Remember    RememberTokens
	Cookies     *Cookies
	Clock       clock.Clock
	SessionTTL  time.Duration
}

// resolveStep inspects the request and reports whether resolution is final.
// A step that is not final may still queue cookies on the resolution.
type resolveStep func(context context.Context, request *http.Request, resolution *Resolution) bool

// Resolver establishes the identity of a request from its cookies.
//
// # Flow
//  1. Session cookie: load the session, then the user; the user must be active.
//  2. Remember-me cookie: verify the JWT, check it was not revoked by a
//     logout, reload the user, write a new session.
//  3. Otherwise anonymous.
//
// Store failures are logged and degrade to the next step. Resolve never
// returns an error.
type Resolver struct {
	config ResolverConfig
	steps  []resolveStep
}

// NewResolver creates a [Resolver].
func NewResolver(config ResolverConfig) *Resolver {
	if config.Clock == nil {
		config.Clock = clock.System{}
	}
	resolver := &Resolver{config: config}
	resolver.steps = []resolveStep{resolver.fromSession, resolver.fromRememberMe}
	return resolver
}

/*
Resolve runs the resolution chain for one request.

Parameters:
  - context: context.Context
  - request: *http.Request

Returns:
  - Resolution: Always populated; State is Anonymous when nothing matched
*/
func (resolver *Resolver) Resolve(context context.Context, request *http.Request) (resolution Resolution) {
	resolution.State = StateAnonymous

	defer func() {
		if recovered := recover(); recovered != nil {
			ctxutil.GetLogger(context).ErrorContext(context, "session_resolve_panic", slog.Any("panic", recovered))
			resolution = Resolution{State: StateAnonymous, Cookies: resolution.Cookies}
		}
	}()

	for _, step := range resolver.steps {
		if step(context, request, &resolution) {
			return resolution
		}
	}

	return resolution
}

// Identify adapts [Resolver.Resolve] to the identity middleware: it writes the
// queued cookies and returns the identity with the state name.
func (resolver *Resolver) Identify(writer http.ResponseWriter, request *http.Request) (*sec.Identity, string) {
	resolution := resolver.Resolve(request.Context(), request)

	for _, cookie := range resolution.Cookies {
		http.SetCookie(writer, cookie)
	}

	if resolution.User == nil {
		return nil, string(resolution.State)
	}
	return resolution.User.Identity(), string(resolution.State)
}

// # Steps

func (resolver *Resolver) fromSession(context context.Context, request *http.Request, resolution *Resolution) bool {
	sessionID, present, valid := resolver.config.Cookies.SessionID(request)
	if !present {
		return false
	}
	logger := ctxutil.GetLogger(context)

	if !valid {
		logger.WarnContext(context, "session_cookie_tampered")
		resolution.Cookies = append(resolution.Cookies, resolver.config.Cookies.ClearSession())
		return false
	}

	session, err := resolver.config.Sessions.Find(context, sessionID)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			resolution.Cookies = append(resolution.Cookies, resolver.config.Cookies.ClearSession())
		} else {
			logger.ErrorContext(context, "session_lookup_failed", logattr.Err(err))
		}
		return false
	}

	user, err := resolver.config.Users.FindByID(context, session.UserID)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			resolver.dropSession(context, session)
			resolution.Cookies = append(resolution.Cookies, resolver.config.Cookies.ClearSession())
		} else {
			logger.ErrorContext(context, "session_user_lookup_failed", logattr.Err(err))
		}
		return false
	}

	if !user.IsActive {
		logger.WarnContext(context, "session_user_inactive", logattr.UserID(user.ID))
		resolver.dropSession(context, session)
		resolution.Cookies = append(resolution.Cookies, resolver.config.Cookies.ClearSession())
		return false
	}

	resolution.State = StateSessionAuthenticated
	resolution.User = user
	resolution.Session = session
	return true
}

func (resolver *Resolver) fromRememberMe(context context.Context, request *http.Request, resolution *Resolution) bool {
	token, present := resolver.config.Cookies.RememberToken(request)
	if !present {
		return false
	}
	logger := ctxutil.GetLogger(context)

	claims, err := resolver.config.Remember.Verify(token)
	if err != nil {
		logger.InfoContext(context, "remember_me_rejected", logattr.Err(err))
		resolution.State = StateRejected
		resolution.Cookies = append(resolution.Cookies, resolver.config.Cookies.ClearRemember())
		return true
	}

	revoked, err := resolver.config.Revocations.IsRevoked(context, claims.ID)
	if err != nil {
		logger.ErrorContext(context, "remember_me_revocation_check_failed", logattr.Err(err))
		return false
	}
	if revoked {
		logger.InfoContext(context, "remember_me_revoked_token_presented", logattr.UserID(claims.UserID))
		resolution.State = StateRejected
		resolution.Cookies = append(resolution.Cookies, resolver.config.Cookies.ClearRemember())
		return true
	}

	cutoff, err := resolver.config.Revocations.RevokedBefore(context, claims.UserID)
	if err != nil {
		logger.ErrorContext(context, "remember_me_cutoff_check_failed", logattr.Err(err))
		return false
	}
	if issuedBeforeCutoff(claims, cutoff) {
		logger.InfoContext(context, "remember_me_issued_before_cutoff", logattr.UserID(claims.UserID))
		resolution.State = StateRejected
		resolution.Cookies = append(resolution.Cookies, resolver.config.Cookies.ClearRemember())
		return true
	}

	user, err := resolver.config.Users.FindByID(context, claims.UserID)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			resolution.State = StateRejected
			resolution.Cookies = append(resolution.Cookies, resolver.config.Cookies.ClearRemember())
			return true
		}
		logger.ErrorContext(context, "remember_me_user_lookup_failed", logattr.Err(err))
		return false
	}

	if !user.IsActive {
		logger.WarnContext(context, "remember_me_user_inactive", logattr.UserID(user.ID))
		resolution.Cookies = append(resolution.Cookies, resolver.config.Cookies.ClearRemember())
		return false
	}

	now := resolver.config.Clock.Now()
	resolution.State = StateCookieRestored
	resolution.User = user

	session, err := resolver.writeSession(context, user, now)
	if err != nil {
		// The token is still valid; authenticate this request without a session.
		logger.ErrorContext(context, "session_restore_write_failed", logattr.UserID(user.ID), logattr.Err(err))
	} else {
		resolution.Session = session
		resolution.Cookies = append(resolution.Cookies, resolver.config.Cookies.Session(session.ID))
	}

	if err := resolver.config.Users.TouchLastLogin(context, user.ID, now); err != nil {
		logger.WarnContext(context, "touch_last_login_failed", logattr.UserID(user.ID), logattr.Err(err))
	}

	logger.InfoContext(context, "session_restored_from_cookie", logattr.UserID(user.ID))
	return true
}

// issuedBeforeCutoff reports whether a password reset or deactivation has
// signed out the device holding claims. Both sides have second precision, so
// a token from the cutoff second itself is refused.
func issuedBeforeCutoff(claims *sec.RememberClaims, cutoff time.Time) bool {
	if cutoff.IsZero() {
		return false
	}
	if claims.IssuedAt == nil {
		return true
	}
	return !claims.IssuedAt.Time.After(cutoff)
}

func (resolver *Resolver) writeSession(context context.Context, user *User, now time.Time) (*Session, error) {
	session, err := newSession(user, now, resolver.config.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_resolver_session_id_failed: %w", err)
	}
	if err := resolver.config.Sessions.Create(context, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (resolver *Resolver) dropSession(context context.Context, session *Session) {
	if err := resolver.config.Sessions.Delete(context, session.ID); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "session_delete_failed", logattr.Err(err))
	}
}
