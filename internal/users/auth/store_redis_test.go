// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/apperr"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/clock"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/constants"
)

func newRedisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return server, client
}

func testSession(id, userID string) *Session {
	return &Session{
		ID:        id,
		UserID:    userID,
		Username:  "alice",
		Email:     "alice@example.com",
		CreatedAt: testEpoch,
		ExpiresAt: testEpoch.Add(24 * time.Hour),
	}
}

func TestRedisSessionRepository_Lifecycle(t *testing.T) {
	server, client := newRedisClient(t)
	repository := NewSessionRepository(client, 24*time.Hour)
	ctx := context.Background()

	require.NoError(t, repository.Create(ctx, testSession("s1", "user-1")))
	assert.Equal(t, 24*time.Hour, server.TTL(constants.RedisPrefixSession+"s1"))

	found, err := repository.Find(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", found.UserID)
	assert.True(t, found.ExpiresAt.Equal(testEpoch.Add(24*time.Hour)))

	require.NoError(t, repository.Delete(ctx, "s1"))
	_, err = repository.Find(ctx, "s1")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	// Deleting twice is fine.
	assert.NoError(t, repository.Delete(ctx, "s1"))
}

func TestRedisSessionRepository_Expiry(t *testing.T) {
	server, client := newRedisClient(t)
	repository := NewSessionRepository(client, time.Hour)
	ctx := context.Background()

	require.NoError(t, repository.Create(ctx, testSession("s1", "user-1")))
	server.FastForward(time.Hour + time.Second)

	_, err := repository.Find(ctx, "s1")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestRedisSessionRepository_CorruptValue(t *testing.T) {
	server, client := newRedisClient(t)
	repository := NewSessionRepository(client, time.Hour)

	require.NoError(t, server.Set(constants.RedisPrefixSession+"s1", "{not json"))

	_, err := repository.Find(context.Background(), "s1")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestRedisSessionRepository_RevokeAll(t *testing.T) {
	_, client := newRedisClient(t)
	repository := NewSessionRepository(client, 24*time.Hour)
	ctx := context.Background()

	require.NoError(t, repository.Create(ctx, testSession("a1", "alice")))
	require.NoError(t, repository.Create(ctx, testSession("a2", "alice")))
	require.NoError(t, repository.Create(ctx, testSession("b1", "bob")))

	require.NoError(t, repository.RevokeAll(ctx, "alice"))

	for _, id := range []string{"a1", "a2"} {
		_, err := repository.Find(ctx, id)
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound), id)
	}

	_, err := repository.Find(ctx, "b1")
	assert.NoError(t, err)

	// No sessions left is not an error.
	assert.NoError(t, repository.RevokeAll(ctx, "alice"))
}

func TestRedisSessionRepository_StoreDown(t *testing.T) {
	server, client := newRedisClient(t)
	repository := NewSessionRepository(client, time.Hour)
	server.Close()

	_, err := repository.Find(context.Background(), "s1")
	assert.True(t, apperr.HasCode(err, apperr.CodeStoreUnavailable))
}

func TestRedisRevocationRepository(t *testing.T) {
	server, client := newRedisClient(t)
	clk := clock.NewManual(testEpoch)
	repository := NewRevocationRepository(client, clk, 7*24*time.Hour)
	ctx := context.Background()

	require.NoError(t, repository.Revoke(ctx, "jti-1", testEpoch.Add(2*time.Hour)))
	assert.Equal(t, 2*time.Hour, server.TTL(constants.RedisPrefixRevokedToken+"jti-1"))

	revoked, err := repository.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = repository.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	// Already expired tokens need no entry.
	require.NoError(t, repository.Revoke(ctx, "jti-3", testEpoch.Add(-time.Minute)))
	assert.False(t, server.Exists(constants.RedisPrefixRevokedToken+"jti-3"))
}

func TestRedisRevocationRepository_IssuedBefore(t *testing.T) {
	server, client := newRedisClient(t)
	repository := NewRevocationRepository(client, clock.NewManual(testEpoch), 7*24*time.Hour)
	ctx := context.Background()

	cutoff, err := repository.RevokedBefore(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, cutoff.IsZero())

	require.NoError(t, repository.RevokeIssuedBefore(ctx, "alice", testEpoch.Add(1500*time.Millisecond)))
	assert.Equal(t, 7*24*time.Hour, server.TTL(constants.RedisPrefixRevokedBefore+"alice"))

	cutoff, err = repository.RevokedBefore(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, testEpoch.Add(time.Second), cutoff)

	server.Set(constants.RedisPrefixRevokedBefore+"bob", "not-a-number")
	_, err = repository.RevokedBefore(ctx, "bob")
	assert.True(t, apperr.HasCode(err, apperr.CodeStoreUnavailable))
}
