// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/ctxutil"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/sec"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	ctx = ctxutil.WithRequestID(ctx, "req-1")
	assert.Equal(t, "req-1", ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies the default fallback and injection.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Same(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_Identity verifies that an anonymous context yields nil and a
resolved identity round-trips.
*/
func TestContext_Identity(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, ctxutil.GetIdentity(ctx))

	ctx = ctxutil.WithIdentity(ctx, &sec.Identity{
		UserID:   "user-123",
		Username: "admin",
		Email:    "admin@example.com",
		Role:     sec.RoleAdmin,
	})

	identity := ctxutil.GetIdentity(ctx)
	require.NotNil(t, identity)
	assert.Equal(t, "user-123", identity.UserID)
	assert.True(t, identity.IsAdmin())
}
