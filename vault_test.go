// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package walletd

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/matryer/is"
)

// TestVault_RoundTrip verifies decrypt(encrypt(m, pw), pw) == m.
func TestVault_RoundTrip(t *testing.T) {
	is := is.New(t)
	vault := NewVault(0)

	env, err := vault.Encrypt(testMnemonic, "CorrectHorseBatteryStaple!")
	is.NoErr(err)
	is.Equal(env.Algorithm, "AES-256-GCM")
	is.Equal(env.Iterations, MinPBKDF2Iterations)

	got, err := vault.Decrypt(env, "CorrectHorseBatteryStaple!")
	is.NoErr(err)
	is.Equal(got, testMnemonic)
}

// TestVault_WrongPassword verifies a wrong password always fails, and fails
// with the same error as corruption.
func TestVault_WrongPassword(t *testing.T) {
	is := is.New(t)
	vault := NewVault(0)

	env, err := vault.Encrypt(testMnemonic, "pw1")
	is.NoErr(err)

	_, err = vault.Decrypt(env, "pw2")
	is.True(errors.Is(err, ErrDecryptionFailed))
}

// TestVault_TamperDetection verifies a single flipped bit in any stored
// binary field makes decryption fail rather than return garbage.
func TestVault_TamperDetection(t *testing.T) {
	is := is.New(t)
	vault := NewVault(0)

	env, err := vault.Encrypt(testMnemonic, "pw")
	is.NoErr(err)

	fields := map[string]*string{
		"ciphertext": &env.Ciphertext,
		"salt":       &env.Salt,
		"nonce":      &env.Nonce,
	}
	for name, field := range fields {
		t.Run(name, func(t *testing.T) {
			is := is.New(t)

			tampered := env
			raw, err := base64.StdEncoding.DecodeString(*field)
			is.NoErr(err)
			raw[0] ^= 0x01
			flipped := base64.StdEncoding.EncodeToString(raw)
			switch name {
			case "ciphertext":
				tampered.Ciphertext = flipped
			case "salt":
				tampered.Salt = flipped
			case "nonce":
				tampered.Nonce = flipped
			}

			_, err = vault.Decrypt(tampered, "pw")
			is.True(errors.Is(err, ErrDecryptionFailed))
		})
	}
}

// TestVault_FreshSaltAndNonce verifies salt and nonce are never reused
// across encryptions of the same plaintext.
func TestVault_FreshSaltAndNonce(t *testing.T) {
	is := is.New(t)
	vault := NewVault(0)

	env1, err := vault.Encrypt(testMnemonic, "pw")
	is.NoErr(err)
	env2, err := vault.Encrypt(testMnemonic, "pw")
	is.NoErr(err)

	is.True(env1.Salt != env2.Salt)
	is.True(env1.Nonce != env2.Nonce)
	is.True(env1.Ciphertext != env2.Ciphertext)
}

// TestVault_StoredIterationsHonored verifies old records decrypt with their
// stored iteration count even when the vault default has moved.
func TestVault_StoredIterationsHonored(t *testing.T) {
	is := is.New(t)

	env, err := NewVault(MinPBKDF2Iterations).Encrypt(testMnemonic, "pw")
	is.NoErr(err)

	// A vault configured with a higher default must still use the count
	// stored alongside the ciphertext.
	newer := NewVault(MinPBKDF2Iterations + 100_000)
	got, err := newer.Decrypt(env, "pw")
	is.NoErr(err)
	is.Equal(got, testMnemonic)
}

// TestVault_IterationFloor verifies the iteration count cannot be
// configured below the minimum.
func TestVault_IterationFloor(t *testing.T) {
	is := is.New(t)
	is.Equal(NewVault(1000).Iterations(), MinPBKDF2Iterations)
	is.Equal(NewVault(MinPBKDF2Iterations+1).Iterations(), MinPBKDF2Iterations+1)
}

// TestVault_RejectsForeignAlgorithm verifies records claiming a different
// cipher are refused outright.
func TestVault_RejectsForeignAlgorithm(t *testing.T) {
	is := is.New(t)
	vault := NewVault(0)

	env, err := vault.Encrypt(testMnemonic, "pw")
	is.NoErr(err)
	env.Algorithm = "AES-256-CBC"

	_, err = vault.Decrypt(env, "pw")
	is.True(errors.Is(err, ErrDecryptionFailed))
}
