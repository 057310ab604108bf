// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package walletd

import (
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/gagliardetto/solana-go"
)

// ChainSigner produces a chain's signature encoding over a transaction
// payload. One implementation exists per transaction format; the private
// key is handed in per call and never retained.
type ChainSigner interface {
	Sign(privateKey, txParams []byte) ([]byte, error)
}

// DefaultSigners returns the capability table mapping every supported chain
// to its signer. The EVM chains share one signer the same way they share
// one derived key.
func DefaultSigners() map[Chain]ChainSigner {
	evm := evmSigner{}
	return map[Chain]ChainSigner{
		ChainETH:     evm,
		ChainBSC:     evm,
		ChainPolygon: evm,
		ChainBTC:     bitcoinSigner{},
		ChainSOL:     solanaSigner{},
		ChainTON:     tonSigner{},
	}
}

// SigningDispatcher routes signing requests to the per-chain deriver and
// signer, but only while a session is valid. A successful sign refreshes
// the session's sliding expiry.
type SigningDispatcher struct {
	session *SessionManager
	deriver KeyDeriver
	signers map[Chain]ChainSigner
}

// NewSigningDispatcher wires a dispatcher over a session manager. A nil
// deriver or signer table falls back to the defaults.
func NewSigningDispatcher(session *SessionManager, deriver KeyDeriver, signers map[Chain]ChainSigner) *SigningDispatcher {
	if deriver == nil {
		deriver = HDDeriver{}
	}
	if signers == nil {
		signers = DefaultSigners()
	}
	return &SigningDispatcher{session: session, deriver: deriver, signers: signers}
}

// SignTransaction derives the chain's private key from the session's master
// seed, signs txParams, and returns the signed encoding. The session must
// be unlocked; the derived key lives only for the duration of the call.
func (d *SigningDispatcher) SignTransaction(chain Chain, txParams []byte) ([]byte, error) {
	if !d.session.IsUnlocked() {
		return nil, ErrWalletLocked
	}

	signer, ok := d.signers[chain]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %v)", ErrUnsupportedChain, chain, SupportedChains)
	}

	// A successful signature counts as activity on the session.
	if err := d.session.Refresh(); err != nil {
		return nil, err
	}

	seed, err := d.session.Seed()
	if err != nil {
		return nil, err
	}
	defer zeroBytes(seed)

	priv, err := d.deriver.DerivePrivateKey(seed, chain, 0)
	if err != nil {
		return nil, fmt.Errorf("could not derive %s key: %w", chain, err)
	}
	defer zeroBytes(priv)

	signed, err := signer.Sign(priv, txParams)
	if err != nil {
		return nil, fmt.Errorf("could not sign %s transaction: %w", chain, err)
	}
	return signed, nil
}

// evmSigner signs the Keccak-256 digest of the payload and returns the
// 65-byte [R || S || V] signature shared by all EVM chains.
type evmSigner struct{}

func (evmSigner) Sign(privateKey, txParams []byte) ([]byte, error) {
	key, err := ethcrypto.ToECDSA(privateKey)
	if err != nil {
		return nil, fmt.Errorf("bad secp256k1 key: %w", err)
	}
	return ethcrypto.Sign(ethcrypto.Keccak256(txParams), key)
}

// bitcoinSigner signs the double-SHA256 digest of the payload and returns
// the DER-serialized ECDSA signature.
type bitcoinSigner struct{}

func (bitcoinSigner) Sign(privateKey, txParams []byte) ([]byte, error) {
	priv, _ := btcec.PrivKeyFromBytes(privateKey)
	defer priv.Zero()
	sig := btcecdsa.Sign(priv, chainhash.DoubleHashB(txParams))
	return sig.Serialize(), nil
}

// solanaSigner produces the 64-byte ed25519 signature over the serialized
// message bytes.
type solanaSigner struct{}

func (solanaSigner) Sign(privateKey, txParams []byte) ([]byte, error) {
	sig, err := solana.PrivateKey(privateKey).Sign(txParams)
	if err != nil {
		return nil, err
	}
	return sig[:], nil
}

// tonSigner signs the SHA-256 hash of the serialized cell payload, which is
// what TON wallet contracts verify.
type tonSigner struct{}

func (tonSigner) Sign(privateKey, txParams []byte) ([]byte, error) {
	if len(privateKey) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("bad ed25519 key length %d", len(privateKey))
	}
	digest := sha256.Sum256(txParams)
	return ed25519.Sign(ed25519.PrivateKey(privateKey), digest[:]), nil
}
