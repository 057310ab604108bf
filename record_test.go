// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package walletd

import (
	"testing"

	"github.com/matryer/is"
)

// TestWalletID_Deterministic verifies the id does not depend on map
// iteration order.
func TestWalletID_Deterministic(t *testing.T) {
	is := is.New(t)

	addrs := map[Chain]string{
		ChainETH: "0x9858EfFD232B4033E47d90003D41EC34EcaEda94",
		ChainBTC: "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu",
		ChainSOL: "9B5XszUGdMaxCZ7uSQhPzdks5ZQSmWxrmzCSvtJ6Ns6g",
		ChainTON: "0:deadbeef",
	}

	id := WalletID(addrs)
	is.Equal(len(id), 16)
	for i := 0; i < 32; i++ {
		is.Equal(WalletID(addrs), id)
	}
}

// TestWalletID_ChangesWithAddresses verifies any address change yields a
// different id.
func TestWalletID_ChangesWithAddresses(t *testing.T) {
	is := is.New(t)

	addrs := map[Chain]string{
		ChainETH: "0x9858EfFD232B4033E47d90003D41EC34EcaEda94",
		ChainBTC: "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu",
	}
	id := WalletID(addrs)

	addrs[ChainBTC] = "bc1qnjg0jd8228aq7egyzacy8cys3knf9xvrerkf9g"
	is.True(WalletID(addrs) != id)
}

// TestWalletID_EmptyAndSingle covers the degenerate shapes.
func TestWalletID_EmptyAndSingle(t *testing.T) {
	is := is.New(t)

	is.Equal(len(WalletID(nil)), 16)
	is.Equal(len(WalletID(map[Chain]string{ChainETH: "0xabc"})), 16)
	is.True(WalletID(nil) != WalletID(map[Chain]string{ChainETH: "0xabc"}))
}
