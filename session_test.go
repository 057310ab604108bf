// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package walletd

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/matryer/is"
)

var sessionEpoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func testSeed() []byte {
	seed := make([]byte, 64)
	for i := range seed {
		seed[i] = byte(i)
	}
	return seed
}

// TestSession_StartAndSeed verifies an unlocked session hands out the seed
// it was started with.
func TestSession_StartAndSeed(t *testing.T) {
	is := is.New(t)

	mgr := NewSessionManager(clock.NewTestClock(sessionEpoch), 0)
	is.True(!mgr.IsUnlocked())

	is.NoErr(mgr.Start("aabbccddeeff0011", testSeed()))
	is.True(mgr.IsUnlocked())

	id, ok := mgr.WalletID()
	is.True(ok)
	is.Equal(id, "aabbccddeeff0011")

	seed, err := mgr.Seed()
	is.NoErr(err)
	is.Equal(seed, testSeed())
	is.Equal(mgr.ExpiresAt(), sessionEpoch.Add(DefaultSessionTTL))
}

// TestSession_ExpiresAfterTTL verifies the session locks itself once the
// inactivity window passes.
func TestSession_ExpiresAfterTTL(t *testing.T) {
	is := is.New(t)

	clk := clock.NewTestClock(sessionEpoch)
	mgr := NewSessionManager(clk, 0)
	is.NoErr(mgr.Start("aabbccddeeff0011", testSeed()))

	clk.SetTime(sessionEpoch.Add(14 * time.Minute))
	is.True(mgr.IsUnlocked())

	clk.SetTime(sessionEpoch.Add(15 * time.Minute))
	is.True(!mgr.IsUnlocked())

	_, err := mgr.Seed()
	is.True(errors.Is(err, ErrWalletLocked))
	is.True(errors.Is(mgr.Refresh(), ErrWalletLocked))
}

// TestSession_RefreshSlidesExpiry verifies activity at minute 14 keeps the
// session alive until minute 29.
func TestSession_RefreshSlidesExpiry(t *testing.T) {
	is := is.New(t)

	clk := clock.NewTestClock(sessionEpoch)
	mgr := NewSessionManager(clk, 0)
	is.NoErr(mgr.Start("aabbccddeeff0011", testSeed()))

	clk.SetTime(sessionEpoch.Add(14 * time.Minute))
	is.NoErr(mgr.Refresh())
	is.Equal(mgr.ExpiresAt(), sessionEpoch.Add(29*time.Minute))

	clk.SetTime(sessionEpoch.Add(28 * time.Minute))
	is.True(mgr.IsUnlocked())

	clk.SetTime(sessionEpoch.Add(29 * time.Minute))
	is.True(!mgr.IsUnlocked())
}

// TestSession_SecondWalletBlocked verifies unlocking a different wallet
// while one is active fails, and that an explicit Lock clears the way.
func TestSession_SecondWalletBlocked(t *testing.T) {
	is := is.New(t)

	mgr := NewSessionManager(clock.NewTestClock(sessionEpoch), 0)
	is.NoErr(mgr.Start("aabbccddeeff0011", testSeed()))

	err := mgr.Start("1122334455667788", testSeed())
	is.True(errors.Is(err, ErrSessionActive))

	// The original session is untouched.
	id, ok := mgr.WalletID()
	is.True(ok)
	is.Equal(id, "aabbccddeeff0011")

	mgr.Lock()
	is.NoErr(mgr.Start("1122334455667788", testSeed()))
}

// TestSession_SameWalletRenews verifies re-unlocking the unlocked wallet
// restarts the window instead of failing.
func TestSession_SameWalletRenews(t *testing.T) {
	is := is.New(t)

	clk := clock.NewTestClock(sessionEpoch)
	mgr := NewSessionManager(clk, 0)
	is.NoErr(mgr.Start("aabbccddeeff0011", testSeed()))

	clk.SetTime(sessionEpoch.Add(10 * time.Minute))
	is.NoErr(mgr.Start("aabbccddeeff0011", testSeed()))
	is.Equal(mgr.ExpiresAt(), sessionEpoch.Add(25*time.Minute))
}

// TestSession_ExpiredSessionFreesSlot verifies a stale session does not
// block unlocking another wallet.
func TestSession_ExpiredSessionFreesSlot(t *testing.T) {
	is := is.New(t)

	clk := clock.NewTestClock(sessionEpoch)
	mgr := NewSessionManager(clk, 0)
	is.NoErr(mgr.Start("aabbccddeeff0011", testSeed()))

	clk.SetTime(sessionEpoch.Add(time.Hour))
	is.NoErr(mgr.Start("1122334455667788", testSeed()))
}

// TestSession_LockZeroizesSeed is a whitebox check that Lock overwrites the
// retained key material, not just drops the pointer.
func TestSession_LockZeroizesSeed(t *testing.T) {
	is := is.New(t)

	mgr := NewSessionManager(clock.NewTestClock(sessionEpoch), 0)
	is.NoErr(mgr.Start("aabbccddeeff0011", testSeed()))

	held := mgr.active.seed
	is.True(!bytes.Equal(held, make([]byte, 64)))

	mgr.Lock()
	is.Equal(held, make([]byte, 64))
	is.True(mgr.active == nil)
}

// TestSession_SeedCopyIsolated verifies mutating a handed-out seed copy
// does not corrupt the session's own material.
func TestSession_SeedCopyIsolated(t *testing.T) {
	is := is.New(t)

	mgr := NewSessionManager(clock.NewTestClock(sessionEpoch), 0)
	is.NoErr(mgr.Start("aabbccddeeff0011", testSeed()))

	seed1, err := mgr.Seed()
	is.NoErr(err)
	zeroBytes(seed1)

	seed2, err := mgr.Seed()
	is.NoErr(err)
	is.Equal(seed2, testSeed())
}

// TestSession_CustomTTL verifies a non-zero ttl overrides the default.
func TestSession_CustomTTL(t *testing.T) {
	is := is.New(t)

	clk := clock.NewTestClock(sessionEpoch)
	mgr := NewSessionManager(clk, time.Minute)
	is.NoErr(mgr.Start("aabbccddeeff0011", testSeed()))
	is.Equal(mgr.ExpiresAt(), sessionEpoch.Add(time.Minute))

	clk.SetTime(sessionEpoch.Add(time.Minute))
	is.True(!mgr.IsUnlocked())
}
