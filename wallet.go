// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package walletd

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/mr-tron/base58"
	"github.com/rs/zerolog"
)

// Service orchestrates the wallet lifecycle: creation and recovery, the
// unlock session, and signing dispatch. It never logs or returns key
// material beyond the one-time plaintext mnemonic a caller must display
// and discard.
type Service struct {
	store      *WalletStore
	vault      *Vault
	session    *SessionManager
	deriver    KeyDeriver
	dispatcher *SigningDispatcher
	log        zerolog.Logger
}

// NewService wires a wallet service over its collaborators with the default
// key deriver and signer table.
func NewService(store *WalletStore, vault *Vault, session *SessionManager, logger zerolog.Logger) *Service {
	deriver := HDDeriver{}
	return &Service{
		store:      store,
		vault:      vault,
		session:    session,
		deriver:    deriver,
		dispatcher: NewSigningDispatcher(session, deriver, nil),
		log:        logger,
	}
}

// CreateWallet generates a fresh 24-word mnemonic, derives addresses for
// every supported chain, encrypts the mnemonic under password, persists the
// record, and starts an unlock session so the caller can show the phrase
// without a second password prompt. The returned mnemonic exists only in
// this return value; display it once and discard it.
func (s *Service) CreateWallet(name, password string) (string, *WalletRecord, error) {
	mnemonic, err := NewMnemonic()
	if err != nil {
		return "", nil, err
	}

	record, err := s.enroll(mnemonic, name, password)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("wallet_id", record.ID).Str("name", name).Msg("wallet created")
	return mnemonic, record, nil
}

// RecoverWallet rebuilds a wallet from an existing mnemonic. The phrase is
// validated against the wordlist and checksum before any derivation is
// attempted.
func (s *Service) RecoverWallet(mnemonic, name, password string) (*WalletRecord, error) {
	if err := ValidateMnemonic(mnemonic); err != nil {
		return nil, err
	}

	record, err := s.enroll(mnemonic, name, password)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("wallet_id", record.ID).Str("name", name).Msg("wallet recovered")
	return record, nil
}

// enroll is the shared creation/recovery path: derive, encrypt, persist,
// unlock.
func (s *Service) enroll(mnemonic, name, password string) (*WalletRecord, error) {
	seed, err := SeedFromMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}
	defer zeroBytes(seed)

	addresses, publicKeys, paths, err := s.deriveAll(seed)
	if err != nil {
		return nil, err
	}

	id := WalletID(addresses)
	if active, ok := s.session.WalletID(); ok && active != id {
		return nil, fmt.Errorf("wallet %s is unlocked: %w", active, ErrSessionActive)
	}

	encrypted, err := s.vault.Encrypt(mnemonic, password)
	if err != nil {
		return nil, err
	}

	record := &WalletRecord{
		ID:                id,
		Name:              name,
		EncryptedMnemonic: encrypted,
		Addresses:         addresses,
		PublicKeys:        publicKeys,
		DerivationPaths:   paths,
		CreatedAt:         time.Now().UTC(),
		Version:           WalletRecordVersion,
	}
	if err := s.store.Save(record); err != nil {
		return nil, err
	}

	// Creation implies unlock.
	if err := s.session.Start(id, seed); err != nil {
		return nil, err
	}
	return record, nil
}

// Unlock loads the wallet, decrypts its mnemonic with password, re-derives
// the master seed, and starts the session. The operation is atomic: on any
// failure the previous session state is untouched.
func (s *Service) Unlock(walletID, password string) error {
	record, err := s.store.Load(walletID)
	if err != nil {
		return err
	}

	mnemonic, err := s.vault.Decrypt(record.EncryptedMnemonic, password)
	if err != nil {
		return err
	}

	seed, err := SeedFromMnemonic(mnemonic)
	if err != nil {
		return err
	}
	defer zeroBytes(seed)

	if err := s.session.Start(walletID, seed); err != nil {
		return err
	}

	s.log.Info().Str("wallet_id", walletID).Msg("wallet unlocked")
	return nil
}

// Lock ends the active session immediately.
func (s *Service) Lock() {
	if id, ok := s.session.WalletID(); ok {
		s.log.Info().Str("wallet_id", id).Msg("wallet locked")
	}
	s.session.Lock()
}

// IsUnlocked reports whether an unlock session is currently valid.
func (s *Service) IsUnlocked() bool {
	return s.session.IsUnlocked()
}

// SignTransaction signs txParams for the given chain through the dispatch
// table. It fails with ErrWalletLocked when no valid session exists and
// refreshes the sliding expiry on success.
func (s *Service) SignTransaction(chain Chain, txParams []byte) ([]byte, error) {
	signed, err := s.dispatcher.SignTransaction(chain, txParams)
	if err != nil {
		return nil, err
	}

	id, _ := s.session.WalletID()
	s.log.Info().Str("wallet_id", id).Str("chain", string(chain)).Msg("transaction signed")
	return signed, nil
}

// Wallet returns the stored record for a wallet id.
func (s *Service) Wallet(id string) (*WalletRecord, error) {
	return s.store.Load(id)
}

// ListWallets returns every persisted wallet record.
func (s *Service) ListWallets() ([]*WalletRecord, error) {
	return s.store.List()
}

// RemoveWallet deletes a wallet record, locking first when the wallet being
// removed is the one currently unlocked.
func (s *Service) RemoveWallet(id string) error {
	if active, ok := s.session.WalletID(); ok && active == id {
		s.session.Lock()
	}
	if err := s.store.Delete(id); err != nil {
		return err
	}
	s.log.Info().Str("wallet_id", id).Msg("wallet removed")
	return nil
}

// deriveAll derives address, public key, and path maps for every supported
// chain from one seed.
func (s *Service) deriveAll(seed []byte) (addresses, publicKeys, paths map[Chain]string, err error) {
	addresses = make(map[Chain]string, len(SupportedChains))
	publicKeys = make(map[Chain]string, len(SupportedChains))
	paths = make(map[Chain]string, len(SupportedChains))

	for _, chain := range SupportedChains {
		addr, derr := s.deriver.DeriveAddress(seed, chain, 0)
		if derr != nil {
			return nil, nil, nil, derr
		}
		pub, derr := s.deriver.DerivePublicKey(seed, chain, 0)
		if derr != nil {
			return nil, nil, nil, derr
		}

		addresses[chain] = addr
		publicKeys[chain] = encodePublicKey(chain, pub)
		paths[chain] = chain.DerivationPath()
	}
	return addresses, publicKeys, paths, nil
}

// encodePublicKey renders a derived public key the way the chain's tooling
// expects it in text.
func encodePublicKey(chain Chain, pub []byte) string {
	switch {
	case chain == ChainBTC:
		return hex.EncodeToString(pub)
	case chain.Curve() == CurveSecp256k1:
		return "0x" + hex.EncodeToString(pub)
	case chain == ChainSOL:
		return base58.Encode(pub)
	default:
		return hex.EncodeToString(pub)
	}
}
