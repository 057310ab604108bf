// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package walletd

import (
	"fmt"
	"sync"
	"time"

	"github.com/lightningnetwork/lnd/clock"
)

// DefaultSessionTTL is the sliding inactivity window of an unlocked
// session.
const DefaultSessionTTL = 15 * time.Minute

// SessionKey is the in-memory-only unlocked state: the wallet's master seed
// plus its expiry bookkeeping. It is never serialized and its key material
// is overwritten the moment the session ends.
type SessionKey struct {
	WalletID   string
	UnlockedAt time.Time
	ExpiresAt  time.Time

	seed []byte
}

// SessionManager owns the single active unlock session. At most one wallet
// is unlocked per manager; unlocking another wallet requires an explicit
// Lock first. Expiry is lazy: there is no background timer, the deadline is
// checked against the injected clock on every access.
//
// Managers are explicitly constructed and injectable, never package
// globals, so tests can run independent instances in parallel.
type SessionManager struct {
	mu  sync.Mutex
	clk clock.Clock
	ttl time.Duration

	active *SessionKey
}

// NewSessionManager returns a manager using the given clock. A ttl of zero
// falls back to DefaultSessionTTL.
func NewSessionManager(clk clock.Clock, ttl time.Duration) *SessionManager {
	if clk == nil {
		clk = clock.NewDefaultClock()
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionManager{clk: clk, ttl: ttl}
}

// Start opens a session for walletID with a copy of the 64-byte master
// seed. If a session for a different wallet is active it fails with
// ErrSessionActive; re-unlocking the same wallet renews the session in
// place. Either a complete session exists afterwards or the previous state
// is untouched.
func (m *SessionManager) Start(walletID string, seed []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.activeLocked() && m.active.WalletID != walletID {
		return fmt.Errorf("wallet %s is unlocked: %w", m.active.WalletID, ErrSessionActive)
	}
	m.clearLocked()

	now := m.clk.Now()
	m.active = &SessionKey{
		WalletID:   walletID,
		UnlockedAt: now,
		ExpiresAt:  now.Add(m.ttl),
		seed:       append([]byte(nil), seed...),
	}
	return nil
}

// IsUnlocked reports whether a live session exists, locking as a side
// effect when the deadline has passed.
func (m *SessionManager) IsUnlocked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeLocked()
}

// WalletID returns the unlocked wallet's id, or false when locked.
func (m *SessionManager) WalletID() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.activeLocked() {
		return "", false
	}
	return m.active.WalletID, true
}

// ExpiresAt returns the current session deadline, or the zero time when
// locked.
func (m *SessionManager) ExpiresAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.activeLocked() {
		return time.Time{}
	}
	return m.active.ExpiresAt
}

// Seed hands out a copy of the master seed while unlocked. The caller must
// zeroize the copy after use.
func (m *SessionManager) Seed() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.activeLocked() {
		return nil, ErrWalletLocked
	}
	return append([]byte(nil), m.active.seed...), nil
}

// Refresh slides the expiry to now + TTL. Every successful signing call
// counts as activity; the window extends from the current time, it is not
// capped at the original deadline.
func (m *SessionManager) Refresh() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.activeLocked() {
		return ErrWalletLocked
	}
	m.active.ExpiresAt = m.clk.Now().Add(m.ttl)
	return nil
}

// Lock ends the session immediately and zeroizes the seed. Locking an
// already locked manager is a no-op.
func (m *SessionManager) Lock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked()
}

// activeLocked reports liveness and expires lazily. Callers hold m.mu.
func (m *SessionManager) activeLocked() bool {
	if m.active == nil {
		return false
	}
	if !m.clk.Now().Before(m.active.ExpiresAt) {
		m.clearLocked()
		return false
	}
	return true
}

// clearLocked zeroizes and drops the session. Callers hold m.mu.
func (m *SessionManager) clearLocked() {
	if m.active == nil {
		return
	}
	zeroBytes(m.active.seed)
	m.active.seed = nil
	m.active = nil
}
