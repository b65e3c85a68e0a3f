// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/apperr"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/clock"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/constants"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/metrics"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/sec"
)

var testEpoch = time.Date(2026, time.January, 15, 9, 0, 0, 0, time.UTC)

const (
	testSessionSecret  = "session-secret-session-secret-0123"
	testRememberSecret = "remember-secret-remember-secret-01"
	testPassword       = "Passw0rd"
)

// # In-memory users

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: make(map[string]*User)}
}

func (m *memoryUsers) get(id string) *User {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil
	}
	clone := *user
	return &clone
}

func (m *memoryUsers) FindByID(_ context.Context, id string) (*User, error) {
	if user := m.get(id); user != nil {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (m *memoryUsers) FindByUsernameOrEmail(_ context.Context, identifier string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if strings.EqualFold(user.Email, identifier) || user.Username == identifier {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (m *memoryUsers) FindByResetTokenHash(_ context.Context, tokenHash string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.ResetTokenHash != nil && *user.ResetTokenHash == tokenHash {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (m *memoryUsers) Create(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == user.Username || strings.EqualFold(existing.Email, user.Email) {
			return apperr.DuplicateIdentity()
		}
	}
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *memoryUsers) TouchLastLogin(_ context.Context, userID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[userID]; ok {
		user.LastLogin = &at
	}
	return nil
}

func (m *memoryUsers) SetResetToken(_ context.Context, userID, tokenHash string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[userID]; ok {
		user.ResetTokenHash = &tokenHash
		user.ResetTokenExpiresAt = &expiresAt
	}
	return nil
}

func (m *memoryUsers) ConsumeResetToken(_ context.Context, userID, tokenHash, passwordHash string, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok || user.ResetTokenHash == nil || *user.ResetTokenHash != tokenHash ||
		user.ResetTokenExpiresAt == nil || now.After(*user.ResetTokenExpiresAt) {
		return false, nil
	}
	user.PasswordHash = passwordHash
	user.ResetTokenHash = nil
	user.ResetTokenExpiresAt = nil
	return true, nil
}

func (m *memoryUsers) SetActive(_ context.Context, userID string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.IsActive = active
	return nil
}

// # In-memory sessions

type memorySessions struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: make(map[string]*Session)}
}

func (m *memorySessions) Create(_ context.Context, session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *session
	m.sessions[session.ID] = &clone
	return nil
}

func (m *memorySessions) Find(_ context.Context, sessionID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, apperr.NotFound("Session")
	}
	clone := *session
	return &clone, nil
}

func (m *memorySessions) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

func (m *memorySessions) RevokeAll(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, session := range m.sessions {
		if session.UserID == userID {
			delete(m.sessions, id)
		}
	}
	return nil
}

func (m *memorySessions) count(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, session := range m.sessions {
		if session.UserID == userID {
			n++
		}
	}
	return n
}

// # In-memory revocations

type memoryRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	cutoffs map[string]time.Time
}

func newMemoryRevocations() *memoryRevocations {
	return &memoryRevocations{
		revoked: make(map[string]time.Time),
		cutoffs: make(map[string]time.Time),
	}
}

func (m *memoryRevocations) RevokeIssuedBefore(_ context.Context, userID string, cutoff time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cutoffs[userID] = cutoff.Truncate(time.Second)
	return nil
}

func (m *memoryRevocations) RevokedBefore(_ context.Context, userID string) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cutoffs[userID], nil
}

func (m *memoryRevocations) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[tokenID] = expiresAt
	return nil
}

func (m *memoryRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[tokenID]
	return ok, nil
}

// # Recording notifier

type sentMail struct {
	To, Subject, Body string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMail
}

func (n *recordingNotifier) Send(_ context.Context, to, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (n *recordingNotifier) messages() []sentMail {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentMail(nil), n.sent...)
}

var resetLinkPattern = regexp.MustCompile(regexp.QuoteMeta(constants.PathReset) + `([0-9a-f]{64})`)

// resetTokenFrom extracts the plaintext token from a reset mail.
func resetTokenFrom(t *testing.T, mail sentMail) string {
	t.Helper()
	match := resetLinkPattern.FindStringSubmatch(mail.Body)
	require.Len(t, match, 2, "reset link not found in %q", mail.Body)
	return match[1]
}

// # Fixture

type fixture struct {
	clock       *clock.Manual
	users       *memoryUsers
	sessions    *memorySessions
	revocations *memoryRevocations
	notifier    *recordingNotifier
	remember    *sec.RememberMeSigner
	cookies     *Cookies
	service     *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clk := clock.NewManual(testEpoch)

	hasher, err := sec.NewPasswordHasher(bcrypt.MinCost, 2)
	require.NoError(t, err)

	remember, err := sec.NewRememberMeSigner(testRememberSecret, constants.AuthIssuer, 7*24*time.Hour, clk)
	require.NoError(t, err)

	f := &fixture{
		clock:       clk,
		users:       newMemoryUsers(),
		sessions:    newMemorySessions(),
		revocations: newMemoryRevocations(),
		notifier:    &recordingNotifier{},
		remember:    remember,
		cookies:     NewCookies(sec.NewCookieSigner(testSessionSecret), false, 24*time.Hour, 7*24*time.Hour),
	}

	f.service = NewService(ServiceConfig{
		Users:       f.users,
		Sessions:    f.sessions,
		Revocations: f.revocations,
		Hasher:      hasher,
		ResetTokens: sec.NewResetTokenIssuer(time.Hour, clk),
		Remember:    remember,
		Notifier:    f.notifier,
		Metrics:     metrics.NewMetrics(prometheus.NewRegistry()),
		Clock:       clk,
		SessionTTL:  24 * time.Hour,
		BaseURL:     "http://stockroom.test/",
	})

	return f
}

func (f *fixture) resolver() *Resolver {
	return NewResolver(ResolverConfig{
		Users:       f.users,
		Sessions:    f.sessions,
		Revocations: f.revocations,
		Remember:    f.remember,
		Cookies:     f.cookies,
		Clock:       f.clock,
		SessionTTL:  24 * time.Hour,
	})
}

// register creates an active user through the service.
func (f *fixture) register(t *testing.T, username, email string) *User {
	t.Helper()
	user, err := f.service.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    email,
		Password: testPassword,
		Phone:    "0901234567",
	})
	require.NoError(t, err)
	return user
}
