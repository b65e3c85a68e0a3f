// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/constants"
)

// redisFixture swaps the in-memory session stores for Redis-backed ones.
func redisFixture(t *testing.T) (*fixture, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	f := newFixture(t)
	sessions := NewSessionRepository(client, 24*time.Hour)
	revocations := NewRevocationRepository(client, f.clock, 7*24*time.Hour)

	f.service.sessionRepository = sessions
	f.service.revocationRepository = revocations
	return f, server
}

func (f *fixture) redisResolver() *Resolver {
	return NewResolver(ResolverConfig{
		Users:       f.users,
		Sessions:    f.service.sessionRepository,
		Revocations: f.service.revocationRepository,
		Remember:    f.remember,
		Cookies:     f.cookies,
		Clock:       f.clock,
		SessionTTL:  24 * time.Hour,
	})
}

func requestWith(cookies ...*http.Cookie) *http.Request {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}
	return request
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

/*
TestResolver_Anonymous verifies a request without cookies.
*/
func TestResolver_Anonymous(t *testing.T) {
	f, _ := redisFixture(t)

	resolution := f.redisResolver().Resolve(context.Background(), requestWith())
	assert.Equal(t, StateAnonymous, resolution.State)
	assert.False(t, resolution.Authenticated())
	assert.Empty(t, resolution.Cookies)
}

/*
TestResolver_Session resolves a live session and reloads the user.
*/
func TestResolver_Session(t *testing.T) {
	f, _ := redisFixture(t)
	ctx := context.Background()
	user := f.register(t, "alice", "alice@example.com")

	result, err := f.service.Login(ctx, LoginInput{Identifier: "alice", Password: testPassword})
	require.NoError(t, err)

	resolution := f.redisResolver().Resolve(ctx, requestWith(f.cookies.Session(result.Session.ID)))
	assert.Equal(t, StateSessionAuthenticated, resolution.State)
	require.NotNil(t, resolution.User)
	assert.Equal(t, user.ID, resolution.User.ID)
	assert.Equal(t, result.Session.ID, resolution.Session.ID)
}

/*
TestResolver_RememberMeRestoresSession checks that the remember-me cookie
alone yields the same identity and writes a fresh session.
*/
func TestResolver_RememberMeRestoresSession(t *testing.T) {
	f, _ := redisFixture(t)
	ctx := context.Background()
	user := f.register(t, "alice", "alice@example.com")

	result, err := f.service.Login(ctx, LoginInput{Identifier: "alice", Password: testPassword, RememberMe: true})
	require.NoError(t, err)

	f.clock.Advance(3 * 24 * time.Hour)
	resolver := f.redisResolver()

	resolution := resolver.Resolve(ctx, requestWith(f.cookies.Remember(result.RememberToken)))
	assert.Equal(t, StateCookieRestored, resolution.State)
	require.NotNil(t, resolution.User)
	assert.Equal(t, user.ID, resolution.User.ID)
	require.NotNil(t, resolution.Session)
	assert.NotEqual(t, result.Session.ID, resolution.Session.ID)

	stored, err := f.service.sessionRepository.Find(ctx, resolution.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.UserID)

	sessionCookie := findCookie(resolution.Cookies, constants.SessionCookieName)
	require.NotNil(t, sessionCookie)

	lastLogin := f.users.get(user.ID).LastLogin
	require.NotNil(t, lastLogin)
	assert.Equal(t, testEpoch.Add(3*24*time.Hour), *lastLogin)

	// The restored session now resolves on its own.
	next := resolver.Resolve(ctx, requestWith(sessionCookie))
	assert.Equal(t, StateSessionAuthenticated, next.State)
	assert.Equal(t, user.ID, next.User.ID)
}

/*
TestResolver_DeactivatedUser ensures neither credential authenticates an
inactive account.
*/
func TestResolver_DeactivatedUser(t *testing.T) {
	f, _ := redisFixture(t)
	ctx := context.Background()
	user := f.register(t, "alice", "alice@example.com")

	result, err := f.service.Login(ctx, LoginInput{Identifier: "alice", Password: testPassword, RememberMe: true})
	require.NoError(t, err)
	require.NoError(t, f.users.SetActive(ctx, user.ID, false))

	resolver := f.redisResolver()

	tests := []struct {
		name   string
		cookie *http.Cookie
		clears string
	}{
		{"session_cookie", f.cookies.Session(result.Session.ID), constants.SessionCookieName},
		{"remember_cookie", f.cookies.Remember(result.RememberToken), constants.RememberMeCookieName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolution := resolver.Resolve(ctx, requestWith(tt.cookie))
			assert.Equal(t, StateAnonymous, resolution.State)
			assert.Nil(t, resolution.User)

			cleared := findCookie(resolution.Cookies, tt.clears)
			require.NotNil(t, cleared)
			assert.Equal(t, -1, cleared.MaxAge)
		})
	}

	// The inactive user's session was dropped from the store.
	_, err = f.service.sessionRepository.Find(ctx, result.Session.ID)
	assert.Error(t, err)
}

/*
TestResolver_RejectedRememberToken covers tokens that fail verification or
were revoked by a logout.
*/
func TestResolver_RejectedRememberToken(t *testing.T) {
	f, _ := redisFixture(t)
	ctx := context.Background()
	f.register(t, "alice", "alice@example.com")

	result, err := f.service.Login(ctx, LoginInput{Identifier: "alice", Password: testPassword, RememberMe: true})
	require.NoError(t, err)

	expired, err := f.service.Login(ctx, LoginInput{Identifier: "alice", Password: testPassword, RememberMe: true})
	require.NoError(t, err)

	f.service.Logout(ctx, "", result.RememberToken)

	tests := []struct {
		name    string
		token   string
		advance time.Duration
	}{
		{"garbage", "not.a.jwt", 0},
		{"revoked_by_logout", result.RememberToken, 0},
		{"expired", expired.RememberToken, 8 * 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.clock.Advance(tt.advance)

			resolution := f.redisResolver().Resolve(ctx, requestWith(f.cookies.Remember(tt.token)))
			assert.Equal(t, StateRejected, resolution.State)
			assert.False(t, resolution.Authenticated())

			cleared := findCookie(resolution.Cookies, constants.RememberMeCookieName)
			require.NotNil(t, cleared)
			assert.Equal(t, -1, cleared.MaxAge)
		})
	}
}

/*
TestResolver_PasswordResetSignsOutRememberedDevices checks that a remember-me
cookie issued before a password reset no longer restores a session, while
one issued afterwards does.
*/
func TestResolver_PasswordResetSignsOutRememberedDevices(t *testing.T) {
	f, server := redisFixture(t)
	ctx := context.Background()
	user := f.register(t, "alice", "alice@example.com")

	before, err := f.service.Login(ctx, LoginInput{Identifier: "alice", Password: testPassword, RememberMe: true})
	require.NoError(t, err)

	f.clock.Advance(time.Minute)
	token := requestToken(t, f, "alice@example.com")
	require.NoError(t, f.service.ResetPassword(ctx, ResetPasswordInput{
		Token: token, Password: "NewPassw0rd", ConfirmPassword: "NewPassw0rd",
	}))
	assert.Equal(t, 7*24*time.Hour, server.TTL(constants.RedisPrefixRevokedBefore+user.ID))

	f.clock.Advance(time.Minute)
	after, err := f.service.Login(ctx, LoginInput{Identifier: "alice", Password: "NewPassw0rd", RememberMe: true})
	require.NoError(t, err)

	resolver := f.redisResolver()

	stale := resolver.Resolve(ctx, requestWith(f.cookies.Remember(before.RememberToken)))
	assert.Equal(t, StateRejected, stale.State)
	assert.False(t, stale.Authenticated())
	cleared := findCookie(stale.Cookies, constants.RememberMeCookieName)
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)

	fresh := resolver.Resolve(ctx, requestWith(f.cookies.Remember(after.RememberToken)))
	assert.Equal(t, StateCookieRestored, fresh.State)
	require.NotNil(t, fresh.User)
	assert.Equal(t, user.ID, fresh.User.ID)
}

/*
TestResolver_TamperedSessionCookie clears a cookie whose signature does not verify.
*/
func TestResolver_TamperedSessionCookie(t *testing.T) {
	f, _ := redisFixture(t)

	forged := &http.Cookie{Name: constants.SessionCookieName, Value: "forged.signature"}
	resolution := f.redisResolver().Resolve(context.Background(), requestWith(forged))

	assert.Equal(t, StateAnonymous, resolution.State)
	cleared := findCookie(resolution.Cookies, constants.SessionCookieName)
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)
}

/*
TestResolver_StoreDown degrades to anonymous instead of failing the request.
*/
func TestResolver_StoreDown(t *testing.T) {
	f, server := redisFixture(t)
	ctx := context.Background()
	f.register(t, "alice", "alice@example.com")

	result, err := f.service.Login(ctx, LoginInput{Identifier: "alice", Password: testPassword})
	require.NoError(t, err)

	server.Close()

	resolution := f.redisResolver().Resolve(ctx, requestWith(f.cookies.Session(result.Session.ID)))
	assert.Equal(t, StateAnonymous, resolution.State)
	assert.Nil(t, resolution.User)
	assert.Empty(t, resolution.Cookies)
}

/*
TestResolver_Identify writes the queued cookies onto the response.
*/
func TestResolver_Identify(t *testing.T) {
	f, _ := redisFixture(t)
	ctx := context.Background()
	user := f.register(t, "alice", "alice@example.com")

	result, err := f.service.Login(ctx, LoginInput{Identifier: "alice", Password: testPassword, RememberMe: true})
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	identity, state := f.redisResolver().Identify(recorder, requestWith(f.cookies.Remember(result.RememberToken)))

	require.NotNil(t, identity)
	assert.Equal(t, user.ID, identity.UserID)
	assert.Equal(t, string(StateCookieRestored), state)
	assert.NotNil(t, findCookie(recorder.Result().Cookies(), constants.SessionCookieName))
}
