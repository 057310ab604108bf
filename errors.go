// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package walletd

import "errors"

// Sentinel errors for programmatic handling with errors.Is.
var (
	// ErrInvalidMnemonic is returned for a phrase that fails the BIP-39
	// wordlist or checksum validation, or has an unsupported word count.
	ErrInvalidMnemonic = errors.New("invalid mnemonic")

	// ErrEncryptionFailed is returned when the vault cannot construct the
	// cipher or seal the mnemonic.
	ErrEncryptionFailed = errors.New("encryption failed")

	// ErrDecryptionFailed covers both a wrong password and a
	// corrupted/tampered vault. The two cases are intentionally
	// indistinguishable so the error cannot be used as an oracle.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrWalletLocked is returned when signing is attempted without a
	// valid unlock session.
	ErrWalletLocked = errors.New("wallet is locked")

	// ErrWalletNotFound is returned when no record exists for a wallet id.
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrUnsupportedChain is returned when a chain identifier is outside
	// the supported set.
	ErrUnsupportedChain = errors.New("unsupported chain")

	// ErrStorageFailure is returned when the durable key-value store
	// cannot be read or written. The core never retries on its own.
	ErrStorageFailure = errors.New("storage failure")

	// ErrSessionActive is returned when an unlock or create would replace
	// the session of a different wallet. The caller must Lock first.
	ErrSessionActive = errors.New("another wallet session is active")
)
