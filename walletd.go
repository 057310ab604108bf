// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

// Package walletd implements the key-management core of a non-custodial
// multi-chain wallet: BIP-39 mnemonic generation, password-based at-rest
// encryption of the seed phrase, hierarchical key derivation for the
// supported chains, and a time-boxed unlock session that gates signing.
//
// Private key material only ever exists in memory. The mnemonic is
// persisted exclusively in encrypted form, per-chain private keys are
// derived on demand while a session is unlocked, and every derived buffer
// is zeroized before it goes out of scope.
package walletd

// Chain identifies a supported blockchain. The set is closed: dispatch
// happens over this enum and a capability table, never over free-form
// strings.
type Chain string

const (
	ChainETH     Chain = "eth"
	ChainBSC     Chain = "bsc"
	ChainPolygon Chain = "polygon"
	ChainBTC     Chain = "btc"
	ChainSOL     Chain = "sol"
	ChainTON     Chain = "ton"
)

// CurveFamily is the signature curve a chain's keys live on.
type CurveFamily string

const (
	CurveSecp256k1 CurveFamily = "secp256k1"
	CurveEd25519   CurveFamily = "ed25519"
)

// chainInfo fixes the curve and derivation path of each supported chain.
// These paths must never change: they are what makes a wallet created here
// portable to any other BIP-44/84 compatible implementation.
type chainInfo struct {
	curve CurveFamily
	path  string
}

var chainTable = map[Chain]chainInfo{
	// All EVM chains share one derived key at account index 0.
	ChainETH:     {CurveSecp256k1, "m/44'/60'/0'/0/0"},
	ChainBSC:     {CurveSecp256k1, "m/44'/60'/0'/0/0"},
	ChainPolygon: {CurveSecp256k1, "m/44'/60'/0'/0/0"},
	ChainBTC:     {CurveSecp256k1, "m/84'/0'/0'/0/0"},
	ChainSOL:     {CurveEd25519, "m/44'/501'/0'/0'"},
	ChainTON:     {CurveEd25519, "m/44'/607'/0'/0'/0'/0'"},
}

// SupportedChains lists every chain this core can derive keys and sign for,
// in a stable order.
var SupportedChains = []Chain{
	ChainETH, ChainBSC, ChainPolygon, ChainBTC, ChainSOL, ChainTON,
}

// Supported reports whether c is a member of the closed chain set.
func (c Chain) Supported() bool {
	_, ok := chainTable[c]
	return ok
}

// Curve returns the curve family of c, or the empty string for an unknown
// chain.
func (c Chain) Curve() CurveFamily {
	return chainTable[c].curve
}

// DerivationPath returns the fixed HD path of c, or the empty string for an
// unknown chain.
func (c Chain) DerivationPath() string {
	return chainTable[c].path
}

// zeroBytes overwrites b so key material does not linger on the heap until
// the garbage collector gets around to it.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
