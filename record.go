// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package walletd

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"
)

// WalletRecordVersion is bumped whenever the persisted shape changes.
// Loaders accept records up to this version and reject anything newer.
const WalletRecordVersion = 1

// walletIDLen is the byte width of the truncated digest behind a wallet id
// (16 hex characters).
const walletIDLen = 8

// WalletRecord is the persisted, non-secret-bearing form of a wallet: the
// encrypted vault blob plus the derived public material and metadata.
// Nothing in a WalletRecord needs to be kept confidential; everything
// secret lives inside EncryptedMnemonic.
type WalletRecord struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	EncryptedMnemonic EncryptedMnemonic `json:"encrypted_mnemonic"`
	Addresses         map[Chain]string  `json:"addresses"`
	PublicKeys        map[Chain]string  `json:"public_keys"`
	DerivationPaths   map[Chain]string  `json:"derivation_paths"`
	CreatedAt         time.Time         `json:"created_at"`
	Version           int               `json:"version"`
}

// WalletID derives the deterministic wallet identifier from the per-chain
// addresses: SHA-256 over the sorted chain:address pairs, truncated to a
// fixed-width hex string. The same seed always yields the same id no matter
// the map iteration order. The id is identity, not secret.
func WalletID(addresses map[Chain]string) string {
	lines := make([]string, 0, len(addresses))
	for chain, addr := range addresses {
		lines = append(lines, string(chain)+":"+addr)
	}
	sort.Strings(lines)

	sum := sha256.Sum256([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(sum[:walletIDLen])
}
