// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package walletd

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	hdwallet "github.com/stephenlacy/go-ethereum-hdwallet"
)

// KeyDeriver derives per-chain key material from a BIP-39 seed along the
// fixed paths in chainTable. One implementation covers both curve families.
type KeyDeriver interface {
	// DerivePrivateKey returns the chain's private key: a 32-byte
	// secp256k1 scalar, or a 64-byte ed25519 private key. The caller owns
	// the buffer and must zeroize it.
	DerivePrivateKey(seed []byte, chain Chain, account uint32) ([]byte, error)

	// DerivePublicKey returns the chain's public key: 65-byte uncompressed
	// secp256k1 for EVM chains, 33-byte compressed secp256k1 for Bitcoin,
	// or a 32-byte ed25519 public key.
	DerivePublicKey(seed []byte, chain Chain, account uint32) ([]byte, error)

	// DeriveAddress returns the chain's canonical address encoding.
	DeriveAddress(seed []byte, chain Chain, account uint32) (string, error)
}

// HDDeriver is the default KeyDeriver. It is stateless.
type HDDeriver struct{}

// derivationPath returns the HD path for a chain at the given account
// index. Index 0 reproduces the fixed paths in chainTable exactly.
func derivationPath(chain Chain, account uint32) string {
	switch chain {
	case ChainETH, ChainBSC, ChainPolygon:
		return fmt.Sprintf("m/44'/60'/0'/0/%d", account)
	case ChainBTC:
		return fmt.Sprintf("m/84'/0'/0'/0/%d", account)
	case ChainSOL:
		return fmt.Sprintf("m/44'/501'/%d'/0'", account)
	case ChainTON:
		return fmt.Sprintf("m/44'/607'/%d'/0'/0'/0'", account)
	}
	return ""
}

func (HDDeriver) DerivePrivateKey(seed []byte, chain Chain, account uint32) ([]byte, error) {
	priv, pub, _, err := deriveChainKey(seed, chain, account)
	if err != nil {
		return nil, err
	}
	zeroBytes(pub)
	return priv, nil
}

func (HDDeriver) DerivePublicKey(seed []byte, chain Chain, account uint32) ([]byte, error) {
	priv, pub, _, err := deriveChainKey(seed, chain, account)
	if err != nil {
		return nil, err
	}
	zeroBytes(priv)
	return pub, nil
}

func (HDDeriver) DeriveAddress(seed []byte, chain Chain, account uint32) (string, error) {
	priv, pub, addr, err := deriveChainKey(seed, chain, account)
	if err != nil {
		return "", err
	}
	zeroBytes(priv)
	zeroBytes(pub)
	return addr, nil
}

// deriveChainKey does the actual per-curve work once; the KeyDeriver
// methods discard the parts they do not need.
func deriveChainKey(seed []byte, chain Chain, account uint32) (priv, pub []byte, addr string, err error) {
	if !chain.Supported() {
		return nil, nil, "", fmt.Errorf("%w: %q", ErrUnsupportedChain, chain)
	}

	path := derivationPath(chain, account)
	switch chain.Curve() {
	case CurveSecp256k1:
		if chain == ChainBTC {
			return deriveBitcoinKey(seed, path)
		}
		return deriveEVMKey(seed, path)
	case CurveEd25519:
		return deriveEd25519Key(seed, chain, path)
	}
	return nil, nil, "", fmt.Errorf("%w: %q", ErrUnsupportedChain, chain)
}

// deriveEVMKey derives the shared EVM-family key. The address is the
// EIP-55 checksummed form.
func deriveEVMKey(seed []byte, path string) ([]byte, []byte, string, error) {
	wallet, err := hdwallet.NewFromSeed(seed)
	if err != nil {
		return nil, nil, "", fmt.Errorf("could not build HD wallet from seed: %w", err)
	}

	parsed, err := hdwallet.ParseDerivationPath(path)
	if err != nil {
		return nil, nil, "", fmt.Errorf("could not parse derivation path %q: %w", path, err)
	}

	acct, err := wallet.Derive(parsed, false)
	if err != nil {
		return nil, nil, "", fmt.Errorf("could not derive %q: %w", path, err)
	}

	priv, err := wallet.PrivateKeyBytes(acct)
	if err != nil {
		return nil, nil, "", fmt.Errorf("could not export private key for %q: %w", path, err)
	}

	key, err := ethcrypto.ToECDSA(priv)
	if err != nil {
		zeroBytes(priv)
		return nil, nil, "", fmt.Errorf("could not load derived key: %w", err)
	}

	pub := ethcrypto.FromECDSAPub(&key.PublicKey)
	addr := ethcrypto.PubkeyToAddress(key.PublicKey).Hex()
	return priv, pub, addr, nil
}

// deriveBitcoinKey derives the BIP-84 native segwit key and its bech32
// P2WPKH address.
func deriveBitcoinKey(seed []byte, path string) ([]byte, []byte, string, error) {
	indices, err := parseBIP32Path(path)
	if err != nil {
		return nil, nil, "", err
	}

	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, nil, "", fmt.Errorf("could not derive master key: %w", err)
	}
	defer key.Zero()

	for _, index := range indices {
		child, err := key.Derive(index)
		if err != nil {
			return nil, nil, "", fmt.Errorf("could not derive %q: %w", path, err)
		}
		key.Zero()
		key = child
	}

	ecPriv, err := key.ECPrivKey()
	if err != nil {
		return nil, nil, "", fmt.Errorf("could not export private key for %q: %w", path, err)
	}

	priv := ecPriv.Serialize()
	pub := ecPriv.PubKey().SerializeCompressed()

	witness, err := btcutil.NewAddressWitnessPubKeyHash(btcutil.Hash160(pub), &chaincfg.MainNetParams)
	if err != nil {
		zeroBytes(priv)
		return nil, nil, "", fmt.Errorf("could not build P2WPKH address: %w", err)
	}
	return priv, pub, witness.EncodeAddress(), nil
}

// deriveEd25519Key derives Solana and TON keys over the SLIP-0010 ed25519
// tree. Solana addresses are the base58 public key; TON uses the raw
// workchain-0 form over the public key hash.
func deriveEd25519Key(seed []byte, chain Chain, path string) ([]byte, []byte, string, error) {
	scalar, err := slip10Derive(seed, path)
	if err != nil {
		return nil, nil, "", err
	}

	priv := ed25519.NewKeyFromSeed(scalar)
	zeroBytes(scalar)
	pub := append([]byte(nil), priv.Public().(ed25519.PublicKey)...)

	var addr string
	switch chain {
	case ChainSOL:
		addr = solana.PublicKeyFromBytes(pub).String()
	case ChainTON:
		sum := sha256.Sum256(pub)
		addr = "0:" + hex.EncodeToString(sum[:])
	default:
		addr = base58.Encode(pub)
	}
	return priv, pub, addr, nil
}

// parseBIP32Path parses a mixed hardened/normal HD path such as
// m/84'/0'/0'/0/0 into child indices.
func parseBIP32Path(path string) ([]uint32, error) {
	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[0] != "m" {
		return nil, fmt.Errorf("invalid derivation path %q", path)
	}

	indices := make([]uint32, 0, len(parts)-1)
	for _, part := range parts[1:] {
		raw, hardened := strings.CutSuffix(part, "'")
		index, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || index >= hdkeychain.HardenedKeyStart {
			return nil, fmt.Errorf("invalid derivation path %q: bad component %q", path, part)
		}
		if hardened {
			index += hdkeychain.HardenedKeyStart
		}
		indices = append(indices, uint32(index))
	}
	return indices, nil
}
