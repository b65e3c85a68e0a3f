// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/constants"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/sec"
)

// Cookies builds and reads the two credential cookies.
//
// The session cookie carries the session ID with an HMAC tag so forged IDs
// never reach the store. The remember-me cookie carries a JWT that is
// already signed.
type Cookies struct {
	signer      *sec.CookieSigner
	secure      bool
	sessionTTL  time.Duration
	rememberTTL time.Duration
}

// NewCookies creates the cookie policy. secure is true in production.
func NewCookies(signer *sec.CookieSigner, secure bool, sessionTTL, rememberTTL time.Duration) *Cookies {
	return &Cookies{signer: signer, secure: secure, sessionTTL: sessionTTL, rememberTTL: rememberTTL}
}

// Secure reports whether cookies are flagged Secure.
func (cookies *Cookies) Secure() bool {
	return cookies.secure
}

func (cookies *Cookies) build(name, value string, maxAge time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     constants.CookiePath,
		HttpOnly: true,
		Secure:   cookies.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if maxAge > 0 {
		cookie.MaxAge = int(maxAge.Seconds())
	} else {
		cookie.MaxAge = -1
	}
	return cookie
}

// Session returns the cookie for a freshly created session.
func (cookies *Cookies) Session(sessionID string) *http.Cookie {
	return cookies.build(constants.SessionCookieName, cookies.signer.Sign(sessionID), cookies.sessionTTL)
}

// Remember returns the remember-me cookie.
func (cookies *Cookies) Remember(token string) *http.Cookie {
	return cookies.build(constants.RememberMeCookieName, token, cookies.rememberTTL)
}

// ClearSession expires the session cookie.
func (cookies *Cookies) ClearSession() *http.Cookie {
	return cookies.build(constants.SessionCookieName, "", 0)
}

// ClearRemember expires the remember-me cookie.
func (cookies *Cookies) ClearRemember() *http.Cookie {
	return cookies.build(constants.RememberMeCookieName, "", 0)
}

// SessionID returns the verified session ID.
// present is true when the cookie exists, even if its tag is invalid.
func (cookies *Cookies) SessionID(request *http.Request) (sessionID string, present, valid bool) {
	cookie, err := request.Cookie(constants.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false, false
	}
	sessionID, valid = cookies.signer.Unsign(cookie.Value)
	return sessionID, true, valid
}

// RememberToken returns the raw remember-me token, if any.
func (cookies *Cookies) RememberToken(request *http.Request) (string, bool) {
	cookie, err := request.Cookie(constants.RememberMeCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
