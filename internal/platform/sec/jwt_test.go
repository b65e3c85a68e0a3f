// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/clock"
)

const testRememberSecret = "remember-secret-remember-secret-!"

func testIdentity() Identity {
	return Identity{UserID: "user-1", Username: "alice", Email: "alice@example.com", Role: RoleUser}
}

/*
TestRememberMeSigner_RoundTrip verifies that claims survive signing.
*/
func TestRememberMeSigner_RoundTrip(t *testing.T) {
	clk := clock.NewManual(testEpoch)
	signer, err := NewRememberMeSigner(testRememberSecret, "stockroom.app", 7*24*time.Hour, clk)
	require.NoError(t, err)

	token, err := signer.Sign(testIdentity())
	require.NoError(t, err)

	claims, err := signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.Len(t, claims.ID, 32)
	assert.Equal(t, testEpoch.Add(7*24*time.Hour), claims.ExpiresAt.Time.UTC())
}

/*
TestRememberMeSigner_Expiry uses the injected clock instead of sleeping.
*/
func TestRememberMeSigner_Expiry(t *testing.T) {
	clk := clock.NewManual(testEpoch)
	signer, err := NewRememberMeSigner(testRememberSecret, "stockroom.app", time.Hour, clk)
	require.NoError(t, err)

	token, err := signer.Sign(testIdentity())
	require.NoError(t, err)

	clk.Advance(59 * time.Minute)
	_, err = signer.Verify(token)
	require.NoError(t, err)

	clk.Advance(2 * time.Minute)
	_, err = signer.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidRememberToken)
}

/*
TestRememberMeSigner_Rejects covers forged and malformed tokens.
*/
func TestRememberMeSigner_Rejects(t *testing.T) {
	clk := clock.NewManual(testEpoch)
	signer, err := NewRememberMeSigner(testRememberSecret, "stockroom.app", time.Hour, clk)
	require.NoError(t, err)

	forger, err := NewRememberMeSigner("a-completely-different-secret-value", "stockroom.app", time.Hour, clk)
	require.NoError(t, err)
	forged, err := forger.Sign(testIdentity())
	require.NoError(t, err)

	otherIssuer, err := NewRememberMeSigner(testRememberSecret, "elsewhere", time.Hour, clk)
	require.NoError(t, err)
	foreign, err := otherIssuer.Sign(testIdentity())
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, RememberClaims{UserID: "user-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"wrong_secret": forged,
		"wrong_issuer": foreign,
		"alg_none":     unsigned,
		"garbage":      "not.a.jwt",
		"empty":        "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := signer.Verify(token)
			assert.ErrorIs(t, err, ErrInvalidRememberToken)
		})
	}
}
