// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/apperr"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/clock"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/constants"
)

// RedisSessionRepository implements SessionRepository using Redis.
//
// Each session is a JSON value under auth:session:<id> with a fixed TTL.
// A set under auth:user_sessions:<userID> indexes a user's sessions so they
// can all be revoked at once.
type RedisSessionRepository struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewSessionRepository creates a new Redis-backed SessionRepository.
func NewSessionRepository(client redis.UniversalClient, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{client: client, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return constants.RedisPrefixSession + sessionID
}

func userSessionsKey(userID string) string {
	return constants.RedisPrefixUserSessions + userID
}

/*
Create stores a session with the repository's TTL.

Parameters:
  - context: context.Context
  - session: *Session

Returns:
  - error: apperr.StoreUnavailable
*/
func (repository *RedisSessionRepository) Create(context context.Context, session *Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis_session_marshal_failed: %w", err)
	}

	// The index set lives as long as the newest session.
	_, err = repository.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.Set(context, sessionKey(session.ID), payload, repository.ttl)
		pipe.SAdd(context, userSessionsKey(session.UserID), session.ID)
		pipe.Expire(context, userSessionsKey(session.UserID), repository.ttl)
		return nil
	})
	if err != nil {
		return apperr.StoreUnavailable(fmt.Errorf("redis_session_create_failed: %w", err))
	}

	return nil
}

/*
Find loads a live session.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - *Session: Hydrated entity
  - error: apperr.NotFound or apperr.StoreUnavailable
*/
func (repository *RedisSessionRepository) Find(context context.Context, sessionID string) (*Session, error) {
	payload, err := repository.client.Get(context, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Session")
		}
		return nil, apperr.StoreUnavailable(fmt.Errorf("redis_session_get_failed: %w", err))
	}

	session := &Session{}
	if err := json.Unmarshal(payload, session); err != nil {
		// A value we cannot read is as good as absent.
		return nil, apperr.NotFound("Session")
	}

	return session, nil
}

/*
Delete removes a session and its index entry.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - error: apperr.StoreUnavailable
*/
func (repository *RedisSessionRepository) Delete(context context.Context, sessionID string) error {
	session, err := repository.Find(context, sessionID)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil
		}
		return err
	}

	_, err = repository.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.Del(context, sessionKey(sessionID))
		pipe.SRem(context, userSessionsKey(session.UserID), sessionID)
		return nil
	})
	if err != nil {
		return apperr.StoreUnavailable(fmt.Errorf("redis_session_delete_failed: %w", err))
	}

	return nil
}

/*
RevokeAll removes every session of a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: apperr.StoreUnavailable
*/
func (repository *RedisSessionRepository) RevokeAll(context context.Context, userID string) error {
	indexKey := userSessionsKey(userID)

	sessionIDs, err := repository.client.SMembers(context, indexKey).Result()
	if err != nil {
		return apperr.StoreUnavailable(fmt.Errorf("redis_session_list_failed: %w", err))
	}

	keys := make([]string, 0, len(sessionIDs)+1)
	for _, sessionID := range sessionIDs {
		keys = append(keys, sessionKey(sessionID))
	}
	keys = append(keys, indexKey)

	if err := repository.client.Del(context, keys...).Err(); err != nil {
		return apperr.StoreUnavailable(fmt.Errorf("redis_session_revoke_all_failed: %w", err))
	}

	return nil
}

// # Remember-Me Revocation

// RedisRevocationRepository implements RevocationRepository with expiring keys.
type RedisRevocationRepository struct {
	client    redis.UniversalClient
	clock     clock.Clock
	retention time.Duration
}

// NewRevocationRepository creates a new Redis-backed RevocationRepository.
// retention is the remember-me lifetime; per-user cutoffs expire after it.
func NewRevocationRepository(client redis.UniversalClient, clk clock.Clock, retention time.Duration) *RedisRevocationRepository {
	return &RedisRevocationRepository{client: client, clock: clk, retention: retention}
}

/*
Revoke stores the token ID until the token itself would have expired.

Parameters:
  - context: context.Context
  - tokenID: string
  - expiresAt: time.Time

Returns:
  - error: apperr.StoreUnavailable
*/
func (repository *RedisRevocationRepository) Revoke(context context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(repository.clock.Now())
	if ttl <= 0 {
		return nil
	}

	if err := repository.client.Set(context, constants.RedisPrefixRevokedToken+tokenID, 1, ttl).Err(); err != nil {
		return apperr.StoreUnavailable(fmt.Errorf("redis_remember_revoke_failed: %w", err))
	}
	return nil
}

/*
IsRevoked checks the revocation list.

Parameters:
  - context: context.Context
  - tokenID: string

Returns:
  - bool: Revoked flag
  - error: apperr.StoreUnavailable
*/
func (repository *RedisRevocationRepository) IsRevoked(context context.Context, tokenID string) (bool, error) {
	count, err := repository.client.Exists(context, constants.RedisPrefixRevokedToken+tokenID).Result()
	if err != nil {
		return false, apperr.StoreUnavailable(fmt.Errorf("redis_remember_revocation_check_failed: %w", err))
	}
	return count > 0, nil
}

/*
RevokeIssuedBefore stores the cutoff as Unix seconds under the user's key.

Description: The key lives for one remember-me lifetime, after which every
token issued before the cutoff has expired on its own.

Parameters:
  - context: context.Context
  - userID: string
  - cutoff: time.Time

Returns:
  - error: apperr.StoreUnavailable
*/
func (repository *RedisRevocationRepository) RevokeIssuedBefore(context context.Context, userID string, cutoff time.Time) error {
	key := constants.RedisPrefixRevokedBefore + userID

	if err := repository.client.Set(context, key, cutoff.Unix(), repository.retention).Err(); err != nil {
		return apperr.StoreUnavailable(fmt.Errorf("redis_remember_revoke_user_failed: %w", err))
	}
	return nil
}

/*
RevokedBefore loads the user's cutoff.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - time.Time: Cutoff, zero when unset
  - error: apperr.StoreUnavailable
*/
func (repository *RedisRevocationRepository) RevokedBefore(context context.Context, userID string) (time.Time, error) {
	seconds, err := repository.client.Get(context, constants.RedisPrefixRevokedBefore+userID).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, nil
		}
		return time.Time{}, apperr.StoreUnavailable(fmt.Errorf("redis_remember_cutoff_check_failed: %w", err))
	}
	return time.Unix(seconds, 0).UTC(), nil
}
