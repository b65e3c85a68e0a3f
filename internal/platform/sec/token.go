// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/clock"
)

// ResetTokenBytes is the entropy of a password reset token (256 bits).
const ResetTokenBytes = 32

// # Random Tokens

// GenerateSecureToken returns length random bytes, hex-encoded.
func GenerateSecureToken(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("sec: failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashToken returns the SHA-256 hex digest of a token. Only digests are
// persisted, so a leaked users table does not leak usable reset links.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// # Reset Tokens

// ResetTokenIssuer issues single-use password reset tokens.
type ResetTokenIssuer struct {
	ttl   time.Duration
	clock clock.Clock
}

// NewResetTokenIssuer creates an issuer whose tokens expire ttl after issue.
func NewResetTokenIssuer(ttl time.Duration, clk clock.Clock) *ResetTokenIssuer {
	return &ResetTokenIssuer{ttl: ttl, clock: clk}
}

// Issue returns a fresh opaque token and its expiry.
func (issuer *ResetTokenIssuer) Issue() (string, time.Time, error) {
	token, err := GenerateSecureToken(ResetTokenBytes)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, issuer.clock.Now().Add(issuer.ttl), nil
}

// IsValid reports whether presented matches the stored digest and now is not
// past expiresAt. The digest comparison is constant time.
func (issuer *ResetTokenIssuer) IsValid(storedHash, presented string, expiresAt, now time.Time) bool {
	if storedHash == "" || presented == "" || expiresAt.IsZero() {
		return false
	}
	match := subtle.ConstantTimeCompare([]byte(storedHash), []byte(HashToken(presented))) == 1
	return match && !now.After(expiresAt)
}

// # Cookie Signing

// CookieSigner appends an HMAC-SHA256 tag to cookie values so a tampered
// session identifier is rejected before any store lookup.
type CookieSigner struct {
	secret []byte
}

// NewCookieSigner creates a signer keyed by the session secret.
func NewCookieSigner(secret string) *CookieSigner {
	return &CookieSigner{secret: []byte(secret)}
}

// Sign returns "value.tag".
func (signer *CookieSigner) Sign(value string) string {
	return value + "." + signer.tag(value)
}

// Unsign verifies the tag and returns the original value.
func (signer *CookieSigner) Unsign(signed string) (string, bool) {
	idx := strings.LastIndexByte(signed, '.')
	if idx <= 0 || idx == len(signed)-1 {
		return "", false
	}

	value, tag := signed[:idx], signed[idx+1:]
	if !hmac.Equal([]byte(tag), []byte(signer.tag(value))) {
		return "", false
	}
	return value, true
}

func (signer *CookieSigner) tag(value string) string {
	mac := hmac.New(sha256.New, signer.secret)
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
