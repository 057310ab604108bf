// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package walletd

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// MinPBKDF2Iterations is the floor for new encryptions, following the
	// OWASP 2023 recommendation for PBKDF2-HMAC-SHA256. Stored records
	// keep whatever count they were written with.
	MinPBKDF2Iterations = 600_000

	vaultAlgorithm = "AES-256-GCM"
	vaultSaltLen   = 32
	vaultNonceLen  = 12
	vaultKeyLen    = 32
)

// EncryptedMnemonic is the at-rest form of a seed phrase. All binary fields
// are Base64 text so the structure round-trips through JSON unchanged.
// Iterations is persisted next to the ciphertext so records written under an
// older default remain decryptable after the default moves.
type EncryptedMnemonic struct {
	Ciphertext string `json:"ciphertext"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	Algorithm  string `json:"algorithm"`
	Iterations int    `json:"iterations"`
}

// Vault encrypts and decrypts mnemonics with a password-derived key:
// PBKDF2-HMAC-SHA256 into AES-256-GCM. A Vault holds no secrets itself and
// is safe to share.
type Vault struct {
	iterations int
}

// NewVault returns a vault that encrypts with the given PBKDF2 iteration
// count, clamped up to MinPBKDF2Iterations.
func NewVault(iterations int) *Vault {
	if iterations < MinPBKDF2Iterations {
		iterations = MinPBKDF2Iterations
	}
	return &Vault{iterations: iterations}
}

// Iterations returns the count used for new encryptions.
func (v *Vault) Iterations() int {
	return v.iterations
}

// Encrypt seals the mnemonic under the password. Salt and nonce are freshly
// random on every call and never reused across wallets or re-encryptions.
// The derived key is zeroized before returning on every path.
func (v *Vault) Encrypt(mnemonic, password string) (EncryptedMnemonic, error) {
	salt := make([]byte, vaultSaltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return EncryptedMnemonic{}, fmt.Errorf("%w: could not generate salt: %s", ErrEncryptionFailed, err)
	}

	nonce := make([]byte, vaultNonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return EncryptedMnemonic{}, fmt.Errorf("%w: could not generate nonce: %s", ErrEncryptionFailed, err)
	}

	key := pbkdf2.Key([]byte(password), salt, v.iterations, vaultKeyLen, sha256.New)
	defer zeroBytes(key)

	aead, err := newGCM(key)
	if err != nil {
		return EncryptedMnemonic{}, fmt.Errorf("%w: %s", ErrEncryptionFailed, err)
	}

	plaintext := []byte(mnemonic)
	ciphertext := aead.Seal(nil, nonce, plaintext, nil)
	zeroBytes(plaintext)

	return EncryptedMnemonic{
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		Algorithm:  vaultAlgorithm,
		Iterations: v.iterations,
	}, nil
}

// Decrypt opens an encrypted mnemonic with the password, re-deriving the
// key from the stored salt and the stored iteration count. Any failure --
// wrong password, flipped ciphertext bit, mangled salt or nonce -- surfaces
// as the same ErrDecryptionFailed with no further detail.
func (v *Vault) Decrypt(env EncryptedMnemonic, password string) (string, error) {
	if env.Algorithm != vaultAlgorithm || env.Iterations <= 0 {
		return "", ErrDecryptionFailed
	}

	ciphertext, err := base64.StdEncoding.DecodeString(env.Ciphertext)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	salt, err := base64.StdEncoding.DecodeString(env.Salt)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	nonce, err := base64.StdEncoding.DecodeString(env.Nonce)
	if err != nil || len(nonce) != vaultNonceLen {
		return "", ErrDecryptionFailed
	}

	key := pbkdf2.Key([]byte(password), salt, env.Iterations, vaultKeyLen, sha256.New)
	defer zeroBytes(key)

	aead, err := newGCM(key)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	mnemonic := string(plaintext)
	zeroBytes(plaintext)
	return mnemonic, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("could not create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("could not create GCM: %w", err)
	}
	return aead, nil
}
