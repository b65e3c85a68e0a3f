// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// ErrCorruptCredential signals a stored digest that bcrypt cannot parse.
// It is never a user error and must be logged.
var ErrCorruptCredential = errors.New("sec: corrupt credential digest")

// dummyPassword is hashed once at startup so unknown-identifier logins
// spend the same bcrypt time as real ones.
const dummyPassword = "stockroom-timing-equalisation"

// PasswordHasher hashes and verifies passwords with bcrypt.
//
// # Worker Pool
//
// bcrypt is CPU-bound. Every call acquires a slot from a weighted semaphore
// sized to the configured worker count, so a burst of logins cannot starve
// the goroutines serving unrelated requests.
type PasswordHasher struct {
	cost  int
	pool  *semaphore.Weighted
	dummy []byte
}

/*
NewPasswordHasher builds a hasher for the given bcrypt cost.

Parameters:
  - cost: bcrypt work factor (bcrypt.MinCost..bcrypt.MaxCost)
  - workers: maximum concurrent hash/verify operations (<= 0 means NumCPU)

Returns:
  - *PasswordHasher
  - error: invalid cost
*/
func NewPasswordHasher(cost, workers int) (*PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("sec: bcrypt cost %d out of range", cost)
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte(dummyPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to prepare dummy digest: %w", err)
	}

	return &PasswordHasher{
		cost:  cost,
		pool:  semaphore.NewWeighted(int64(workers)),
		dummy: dummy,
	}, nil
}

// Cost returns the configured bcrypt work factor.
func (hasher *PasswordHasher) Cost() int {
	return hasher.cost
}

// Hash produces a salted bcrypt digest of plaintext.
//
// Input longer than 72 bytes fails with an error wrapping
// bcrypt.ErrPasswordTooLong.
func (hasher *PasswordHasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if err := hasher.pool.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("sec: hash worker unavailable: %w", err)
	}
	defer hasher.pool.Release(1)

	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), hasher.cost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. The comparison runs in
// constant time. A digest bcrypt cannot parse yields [ErrCorruptCredential].
func (hasher *PasswordHasher) Verify(ctx context.Context, plaintext, digest string) (bool, error) {
	if err := hasher.pool.Acquire(ctx, 1); err != nil {
		return false, fmt.Errorf("sec: hash worker unavailable: %w", err)
	}
	defer hasher.pool.Release(1)

	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword), errors.Is(err, bcrypt.ErrPasswordTooLong):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrCorruptCredential, err)
	}
}

// VerifyDummy burns one comparison against a throwaway digest.
func (hasher *PasswordHasher) VerifyDummy(ctx context.Context, plaintext string) {
	if err := hasher.pool.Acquire(ctx, 1); err != nil {
		return
	}
	defer hasher.pool.Release(1)

	_ = bcrypt.CompareHashAndPassword(hasher.dummy, []byte(plaintext))
}
