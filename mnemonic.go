// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package walletd

import (
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

// mnemonicEntropyBits is the entropy behind a freshly generated phrase:
// 256 bits yields the full 24 words.
const mnemonicEntropyBits = 256

// NewMnemonic generates a cryptographically random 24-word BIP-39 mnemonic
// from the English wordlist. The phrase is the wallet's root secret: the
// caller displays it once for backup and must not retain it afterwards.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(mnemonicEntropyBits)
	if err != nil {
		return "", fmt.Errorf("could not gather entropy: %w", err)
	}
	defer zeroBytes(entropy)

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("could not create a mnemonic set of words: %w", err)
	}
	return mnemonic, nil
}

// ValidateMnemonic checks a user-supplied phrase against the active BIP-39
// wordlist and checksum before anything downstream is allowed to trust it.
// Only 12 and 24 word phrases are accepted.
func ValidateMnemonic(mnemonic string) error {
	mnemonic = strings.TrimSpace(mnemonic)
	if mnemonic == "" {
		return fmt.Errorf("%w: empty phrase", ErrInvalidMnemonic)
	}

	switch len(strings.Fields(mnemonic)) {
	case 12, 24:
	default:
		return fmt.Errorf("%w: phrase must have 12 or 24 words", ErrInvalidMnemonic)
	}

	if !bip39.IsMnemonicValid(mnemonic) {
		return fmt.Errorf("%w: wordlist or checksum mismatch", ErrInvalidMnemonic)
	}
	return nil
}

// SeedFromMnemonic validates the phrase and expands it into the 64-byte
// BIP-39 seed that all per-chain derivation starts from. An empty BIP-39
// passphrase is used throughout; the at-rest password lives in the vault
// layer instead. The caller owns the returned buffer and must zeroize it.
func SeedFromMnemonic(mnemonic string) ([]byte, error) {
	if err := ValidateMnemonic(mnemonic); err != nil {
		return nil, err
	}

	seed, err := bip39.NewSeedWithErrorChecking(strings.TrimSpace(mnemonic), "")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMnemonic, err)
	}
	return seed, nil
}
