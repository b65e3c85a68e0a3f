// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/apperr"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/constants"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/ctxutil"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/flash"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/metrics"
	requestutil "github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/request"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/respond"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/sec"
)

// Flash messages shown when a guard turns a browser away.
const (
	MessageLoginRequired = "Please log in to continue"
	MessageForbidden     = "You do not have permission to access this page"
)

// IdentityResolver establishes who is making a request.
//
// # Why an interface?
//
// The session resolver lives in the auth domain package, which itself
// depends on this package for its routes. Defining the contract here breaks
// that cycle and lets tests inject a stub.
type IdentityResolver interface {
	// Identify returns the acting identity (nil when anonymous) and the name
	// of the resolution state. It may set or clear cookies on writer.
	Identify(writer http.ResponseWriter, request *http.Request) (*sec.Identity, string)
}

// ResolveIdentity runs the resolver once per request and stores the
// identity in the context before any handler runs.
//
// # Flow
//  1. Ask the [IdentityResolver] (session lookup, then remember-me cookie).
//  2. Count the outcome state.
//  3. Inject [*sec.Identity] and a user-scoped logger into the context.
func ResolveIdentity(resolver IdentityResolver, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity, state := resolver.Identify(writer, request)
			m.ObserveResolution(state)

			if identity == nil {
				next.ServeHTTP(writer, request)
				return
			}

			ctx := ctxutil.WithIdentity(request.Context(), identity)
			logger := ctxutil.GetLogger(ctx).With(slog.String("user_id", identity.UserID))
			ctx = ctxutil.WithLogger(ctx, logger)

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks anonymous requests.
//
// Browsers are redirected to the login page with a warning flash; GET
// requests also remember where to come back to. API callers get 401.
func RequireAuth(flashes *flash.Store, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if requestutil.Identity(request) != nil {
				next.ServeHTTP(writer, request)
				return
			}
			denyAnonymous(writer, request, flashes, secure)
		})
	}
}

// RequireAdmin blocks requests whose identity is not an admin.
// It implies [RequireAuth] so you don't need to mount both.
func RequireAdmin(flashes *flash.Store, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := requestutil.Identity(request)

			// ── 1. Authentication Check ───────────────────────────────────────
			if identity == nil {
				denyAnonymous(writer, request, flashes, secure)
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !identity.IsAdmin() {
				ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "admin_access_denied")
				if requestutil.WantsJSON(request) {
					respond.Error(writer, request, apperr.Forbidden(MessageForbidden))
					return
				}
				flashes.Error(writer, MessageForbidden)
				respond.Redirect(writer, request, constants.PathHome)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// RedirectIfAuthenticated keeps signed-in users off the login and register pages.
func RedirectIfAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if requestutil.Identity(request) != nil {
			respond.Redirect(writer, request, constants.PathHome)
			return
		}
		next.ServeHTTP(writer, request)
	})
}

func denyAnonymous(writer http.ResponseWriter, request *http.Request, flashes *flash.Store, secure bool) {
	if requestutil.WantsJSON(request) {
		respond.Error(writer, request, apperr.Unauthorized(MessageLoginRequired))
		return
	}
	if request.Method == http.MethodGet {
		SetReturnTo(writer, request.URL.RequestURI(), secure)
	}
	flashes.Warning(writer, MessageLoginRequired)
	respond.Redirect(writer, request, constants.PathLogin)
}

// # Return-To

// SetReturnTo remembers a local path to continue to after login.
// Anything that is not a same-site path is ignored.
func SetReturnTo(writer http.ResponseWriter, path string, secure bool) {
	if !IsLocalPath(path) {
		return
	}
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.ReturnToCookieName,
		Value:    url.QueryEscape(path),
		Path:     constants.CookiePath,
		MaxAge:   int(constants.ReturnToTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ReturnTo reads the remembered path, or "" when absent or unsafe.
func ReturnTo(request *http.Request) string {
	cookie, err := request.Cookie(constants.ReturnToCookieName)
	if err != nil {
		return ""
	}
	path, err := url.QueryUnescape(cookie.Value)
	if err != nil || !IsLocalPath(path) {
		return ""
	}
	return path
}

// ClearReturnTo expires the return-to cookie.
func ClearReturnTo(writer http.ResponseWriter, secure bool) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.ReturnToCookieName,
		Value:    "",
		Path:     constants.CookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// IsLocalPath rejects absolute and protocol-relative URLs so a return
// location can never become an open redirect.
func IsLocalPath(path string) bool {
	if !strings.HasPrefix(path, "/") {
		return false
	}
	if strings.HasPrefix(path, "//") || strings.HasPrefix(path, "/\\") {
		return false
	}
	return !strings.ContainsAny(path, "\r\n")
}
