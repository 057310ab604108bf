// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package walletd

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// SLIP-0010 ed25519 derivation. The ed25519 tree only supports hardened
// children, which is all the Solana and TON paths ever use.

const slip10HardenedOffset = 0x80000000

var slip10MasterKey = []byte("ed25519 seed")

// slip10Node is one node of the ed25519 key tree: a 32-byte private scalar
// seed and a 32-byte chain code.
type slip10Node struct {
	key       []byte
	chainCode []byte
}

// slip10MasterFromSeed computes the master node from a BIP-39 seed.
func slip10MasterFromSeed(seed []byte) slip10Node {
	mac := hmac.New(sha512.New, slip10MasterKey)
	mac.Write(seed)
	sum := mac.Sum(nil)
	return slip10Node{key: sum[:32], chainCode: sum[32:]}
}

// childKey derives the hardened child at index. index must already include
// the hardened offset.
func (n slip10Node) childKey(index uint32) slip10Node {
	data := make([]byte, 0, 1+32+4)
	data = append(data, 0x00)
	data = append(data, n.key...)
	data = binary.BigEndian.AppendUint32(data, index)

	mac := hmac.New(sha512.New, n.chainCode)
	mac.Write(data)
	sum := mac.Sum(nil)
	zeroBytes(data)
	return slip10Node{key: sum[:32], chainCode: sum[32:]}
}

// zero wipes the node's key material.
func (n slip10Node) zero() {
	zeroBytes(n.key)
	zeroBytes(n.chainCode)
}

// slip10Derive walks a fully hardened path like m/44'/501'/0'/0' from the
// seed and returns the 32-byte ed25519 private scalar seed at the leaf.
// The caller owns the returned buffer and must zeroize it.
func slip10Derive(seed []byte, path string) ([]byte, error) {
	indices, err := parseHardenedPath(path)
	if err != nil {
		return nil, err
	}

	node := slip10MasterFromSeed(seed)
	for _, index := range indices {
		next := node.childKey(index)
		node.zero()
		node = next
	}

	key := make([]byte, 32)
	copy(key, node.key)
	node.zero()
	return key, nil
}

// parseHardenedPath parses an HD path in which every component is hardened
// and returns the component indices with the hardened offset applied.
func parseHardenedPath(path string) ([]uint32, error) {
	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[0] != "m" {
		return nil, fmt.Errorf("invalid derivation path %q", path)
	}

	indices := make([]uint32, 0, len(parts)-1)
	for _, part := range parts[1:] {
		raw, hardened := strings.CutSuffix(part, "'")
		if !hardened {
			return nil, fmt.Errorf("invalid derivation path %q: ed25519 components must be hardened", path)
		}
		index, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || index >= slip10HardenedOffset {
			return nil, fmt.Errorf("invalid derivation path %q: bad component %q", path, part)
		}
		indices = append(indices, uint32(index)+slip10HardenedOffset)
	}
	return indices, nil
}
