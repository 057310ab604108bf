// derive_addrs derives the per-chain addresses from a BIP39 mnemonic for testing.
//
// Usage:
//
//	go run ./scripts/derive_addrs "your 24 word seed phrase here"
//
// Or with stdin:
//
//	echo "your 24 word seed phrase" | go run ./scripts/derive_addrs
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/complex-gh/walletd"
)

func main() {
	var mnemonic string

	if len(os.Args) > 1 {
		mnemonic = strings.Join(os.Args[1:], " ")
	} else {
		scanner := bufio.NewScanner(os.Stdin)
		if scanner.Scan() {
			mnemonic = strings.TrimSpace(scanner.Text())
		}
	}

	if mnemonic == "" {
		fmt.Fprintln(os.Stderr, "Usage: derive_addrs \"24 word seed phrase\"")
		fmt.Fprintln(os.Stderr, "   or: echo \"seed phrase\" | derive_addrs")
		os.Exit(1)
	}

	seed, err := walletd.SeedFromMnemonic(mnemonic)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	deriver := walletd.HDDeriver{}
	for _, chain := range walletd.SupportedChains {
		addr, err := deriver.DeriveAddress(seed, chain, 0)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%-8s %s\n", chain, addr)
	}
}
