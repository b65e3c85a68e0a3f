// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package clock abstracts the wall clock so expiry logic can be driven
deterministically in tests.

Every component that compares stored timestamps against "now" (reset token
expiry, session creation, remember-me signing) receives a [Clock] through its
constructor instead of calling time.Now directly.
*/
package clock

import (
	"sync"
	"time"
)

// Clock reports the current instant.
type Clock interface {
	Now() time.Time
}

// System is the production [Clock] backed by time.Now in UTC.
type System struct{}

// Now implements [Clock].
func (System) Now() time.Time {
	return time.Now().UTC()
}

// # Test Clock

// Manual is a [Clock] that only moves when told to.
//
// It is safe for concurrent use.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual returns a [Manual] clock frozen at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start.UTC()}
}

// Now implements [Clock].
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// Set jumps the clock to t.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	m.now = t.UTC()
	m.mu.Unlock()
}
