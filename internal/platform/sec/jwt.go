// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, token signing,
// cookie signing, reset tokens) from the domain logic. The auth package
// depends on it through small consumer-side interfaces.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/clock"
)

// ErrInvalidRememberToken wraps every remember-me verification failure.
var ErrInvalidRememberToken = errors.New("sec: invalid remember-me token")

// RememberClaims is the payload of the remember-me cookie.
//
// Claim names are abbreviated to keep the cookie small.
type RememberClaims struct {
	jwt.RegisteredClaims

	UserID string `json:"uid"`
	Email  string `json:"eml"`
	Role   string `json:"rol"`
}

// RememberMeSigner issues and verifies HS256 remember-me tokens.
type RememberMeSigner struct {
	secret []byte
	issuer string
	ttl    time.Duration
	clock  clock.Clock
}

// NewRememberMeSigner creates a signer with a server-held secret and a fixed lifetime.
func NewRememberMeSigner(secret, issuer string, ttl time.Duration, clk clock.Clock) (*RememberMeSigner, error) {
	if secret == "" {
		return nil, errors.New("sec: remember-me secret is empty")
	}
	if ttl <= 0 {
		return nil, errors.New("sec: remember-me ttl must be positive")
	}
	return &RememberMeSigner{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		clock:  clk,
	}, nil
}

// TTL returns the token lifetime, which is also the cookie max age.
func (signer *RememberMeSigner) TTL() time.Duration {
	return signer.ttl
}

// rememberTokenIDBytes sizes the jti claim used to revoke a token on logout.
const rememberTokenIDBytes = 16

// Sign creates a token for identity that expires TTL from now.
func (signer *RememberMeSigner) Sign(identity Identity) (string, error) {
	jti, err := GenerateSecureToken(rememberTokenIDBytes)
	if err != nil {
		return "", err
	}

	now := signer.clock.Now()
	claims := RememberClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   identity.UserID,
			Issuer:    signer.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(signer.ttl)),
		},
		UserID: identity.UserID,
		Email:  identity.Email,
		Role:   string(identity.Role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(signer.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign remember-me token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, issuer and expiry against the injected clock.
func (signer *RememberMeSigner) Verify(tokenString string) (*RememberClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &RememberClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return signer.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(signer.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(signer.clock.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRememberToken, err)
	}

	claims, ok := token.Claims.(*RememberClaims)
	if !ok || !token.Valid || claims.UserID == "" || claims.ID == "" {
		return nil, ErrInvalidRememberToken
	}

	return claims, nil
}
