// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

// Package main provides the walletd CLI for managing encrypted multi-chain
// wallets: create, recover, inspect, and sign.
package main

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-tty"
	mcobra "github.com/muesli/mango-cobra"
	"github.com/muesli/roff"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/tyler-smith/go-bip39"
	"github.com/tyler-smith/go-bip39/wordlists"
	"golang.org/x/term"
	lang "golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/complex-gh/walletd"
)

const maxWidth = 72

var (
	baseStyle  = lipgloss.NewStyle().Margin(0, 0, 1, 2) //nolint:mnd
	red        = lipgloss.Color(completeColor("#FF4444", "196", "9"))
	errorStyle = baseStyle.
			Foreground(red).
			Background(lipgloss.AdaptiveColor{Light: completeColor("#FFEBEB", "255", "7"), Dark: completeColor("#2B1A1A", "235", "8")}).
			Padding(1, 2) //nolint:mnd
	green         = lipgloss.Color(completeColor("#44FF44", "46", "10"))
	mnemonicStyle = baseStyle.
			Foreground(green).
			Background(lipgloss.AdaptiveColor{Light: completeColor("#EBFFEB", "255", "7"), Dark: completeColor("#1A2B1A", "235", "8")}).
			Padding(1, 2) //nolint:mnd

	language string
	verbose  bool

	rootCmd = &cobra.Command{
		Use:   "walletd",
		Short: "Manage encrypted multi-chain wallets",
		Long: `Manage non-custodial multi-chain wallets.

Seed phrases are encrypted at rest with a password-derived key and are
only held in memory while a wallet is unlocked. Supported chains:
eth, bsc, polygon (one shared EVM key), btc, sol, ton.

SECURITY TIP: Add a space before commands that take a mnemonic to keep
them out of your shell history. Most shells (bash, zsh) ignore commands
that start with a space; check your HISTCONTROL or HIST_IGNORE_SPACE
settings.`,
		SilenceUsage: true,
	}

	createCmd = &cobra.Command{
		Use:          "create <name>",
		Short:        "Create a new wallet and print its mnemonic once",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			svc, closeSvc, err := newService()
			if err != nil {
				return formatError(err)
			}
			defer closeSvc()

			password, err := readNewPassword()
			if err != nil {
				return formatError(err)
			}

			mnemonic, record, err := svc.CreateWallet(args[0], password)
			if err != nil {
				return formatError(err)
			}

			printMnemonic(mnemonic)
			fmt.Printf("wallet id: %s\n\n", record.ID)
			printAddresses(record)
			return nil
		},
	}

	recoverCmd = &cobra.Command{
		Use:          "recover <name>",
		Short:        "Recover a wallet from an existing mnemonic",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			if err := setLanguage(language); err != nil {
				return formatError(err)
			}

			svc, closeSvc, err := newService()
			if err != nil {
				return formatError(err)
			}
			defer closeSvc()

			mnemonic, err := readMnemonic()
			if err != nil {
				return formatError(err)
			}

			password, err := readNewPassword()
			if err != nil {
				return formatError(err)
			}

			record, err := svc.RecoverWallet(mnemonic, args[0], password)
			if err != nil {
				return formatError(err)
			}

			fmt.Printf("wallet id: %s\n\n", record.ID)
			printAddresses(record)
			return nil
		},
	}

	listCmd = &cobra.Command{
		Use:          "list",
		Short:        "List stored wallets",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(*cobra.Command, []string) error {
			svc, closeSvc, err := newService()
			if err != nil {
				return formatError(err)
			}
			defer closeSvc()

			records, err := svc.ListWallets()
			if err != nil {
				return formatError(err)
			}
			if len(records) == 0 {
				fmt.Println("no wallets")
				return nil
			}
			for _, record := range records {
				fmt.Printf("%s  %-20s  %s\n", record.ID, record.Name, record.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}

	addressesCmd = &cobra.Command{
		Use:          "addresses <wallet-id>",
		Short:        "Print the per-chain addresses of a stored wallet",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			svc, closeSvc, err := newService()
			if err != nil {
				return formatError(err)
			}
			defer closeSvc()

			record, err := svc.Wallet(args[0])
			if err != nil {
				return formatError(err)
			}
			printAddresses(record)
			return nil
		},
	}

	signCmd = &cobra.Command{
		Use:   "sign <wallet-id> <chain> <hex-payload>",
		Short: "Unlock a wallet and sign a transaction payload",
		Long: `Unlock a wallet with its password and sign a hex-encoded
transaction payload for the given chain. The wallet is locked again
before the command exits.`,
		Args:         cobra.ExactArgs(3),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			payload, err := hex.DecodeString(strings.TrimPrefix(args[2], "0x"))
			if err != nil {
				return formatError(fmt.Errorf("could not decode payload hex: %w", err))
			}

			svc, closeSvc, err := newService()
			if err != nil {
				return formatError(err)
			}
			defer closeSvc()

			password, err := readPassword("Enter wallet password: ")
			if err != nil {
				return formatError(err)
			}

			if err := svc.Unlock(args[0], string(password)); err != nil {
				return formatError(err)
			}
			defer svc.Lock()

			signed, err := svc.SignTransaction(walletd.Chain(args[1]), payload)
			if err != nil {
				return formatError(err)
			}

			fmt.Println(hex.EncodeToString(signed))
			return nil
		},
	}

	removeCmd = &cobra.Command{
		Use:          "remove <wallet-id>",
		Short:        "Delete a stored wallet record",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			svc, closeSvc, err := newService()
			if err != nil {
				return formatError(err)
			}
			defer closeSvc()

			if err := svc.RemoveWallet(args[0]); err != nil {
				return formatError(err)
			}
			fmt.Printf("removed %s\n", args[0])
			return nil
		},
	}

	manCmd = &cobra.Command{
		Use:          "man",
		Args:         cobra.NoArgs,
		Short:        "generate man pages",
		Hidden:       true,
		SilenceUsage: true,
		RunE: func(*cobra.Command, []string) error {
			manPage, err := mcobra.NewManPage(1, rootCmd)
			if err != nil {
				//nolint: wrapcheck
				return err
			}
			fmt.Println(manPage.Build(roff.NewDocument()))
			return nil
		},
	}

	completionCmd = &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 "Generate shell completion script",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		SilenceUsage:          true,
		RunE: func(_ *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletion(os.Stdout)
			case "zsh":
				return rootCmd.GenZshCompletion(os.Stdout)
			case "fish":
				return rootCmd.GenFishCompletion(os.Stdout, true)
			case "powershell":
				return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
			default:
				return fmt.Errorf("unknown shell: %s", args[0])
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log lifecycle events to stderr")
	recoverCmd.Flags().StringVarP(&language, "language", "l", "en", "Mnemonic wordlist language")
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(recoverCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addressesCmd)
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(manCmd)
	rootCmd.AddCommand(completionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newService builds the wallet service from the environment configuration.
// The returned closer releases the store.
func newService() (*walletd.Service, func(), error) {
	cfg, err := walletd.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	store, err := walletd.OpenWalletStore(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}

	logger := zerolog.Nop()
	if verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	vault := walletd.NewVault(cfg.PBKDF2Iterations)
	session := walletd.NewSessionManager(nil, cfg.SessionTTL)
	svc := walletd.NewService(store, vault, session, logger)
	return svc, func() { _ = store.Close() }, nil
}

func printMnemonic(mnemonic string) {
	if isatty.IsTerminal(os.Stdout.Fd()) {
		b := strings.Builder{}
		w := getWidth(maxWidth)
		b.WriteRune('\n')
		renderBlock(&b, mnemonicStyle, w, mnemonic)
		b.WriteRune('\n')
		fmt.Print(b.String())
		fmt.Println("Write these 24 words down and store them offline. They are shown exactly once.")
		fmt.Println()
		return
	}
	fmt.Println(mnemonic)
}

func printAddresses(record *walletd.WalletRecord) {
	for _, chain := range walletd.SupportedChains {
		fmt.Printf("%-8s %s  (%s)\n", chain, record.Addresses[chain], record.DerivationPaths[chain])
	}
}

// readMnemonic reads a seed phrase from the terminal (or piped stdin)
// without echoing it back when connected to a tty.
func readMnemonic() (string, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return "", fmt.Errorf("could not read mnemonic: %w", err)
		}
		return strings.TrimSpace(line), nil
	}

	phrase, err := readPassword("Enter mnemonic (input hidden): ")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(phrase)), nil
}

// readNewPassword prompts twice and requires both entries to match.
func readNewPassword() (string, error) {
	pass, err := readPassword("Enter wallet password: ")
	if err != nil {
		return "", err
	}
	confirm, err := readPassword("Confirm wallet password: ")
	if err != nil {
		return "", err
	}
	if !bytes.Equal(pass, confirm) {
		return "", fmt.Errorf("passwords do not match")
	}
	if len(pass) == 0 {
		return "", fmt.Errorf("password cannot be empty")
	}
	return string(pass), nil
}

func readPassword(msg string) ([]byte, error) {
	defer fmt.Fprintf(os.Stderr, "\n")
	_, _ = fmt.Fprint(os.Stderr, msg)
	t, err := tty.Open()
	if err != nil {
		return nil, fmt.Errorf("could not open tty: %w", err)
	}
	defer t.Close()                                     //nolint: errcheck
	pass, err := term.ReadPassword(int(t.Input().Fd())) //nolint: gosec
	if err != nil {
		return nil, fmt.Errorf("could not read password: %w", err)
	}
	return pass, nil
}

func getWidth(maxw int) int {
	w, _, err := term.GetSize(int(os.Stdout.Fd())) //nolint: gosec
	if err != nil || w > maxw {
		return maxWidth
	}
	return w
}

func renderBlock(w io.Writer, s lipgloss.Style, width int, str string) {
	_, _ = io.WriteString(w, s.Width(width).Render(str))
	_, _ = io.WriteString(w, "\n")
}

// formatError renders the error in a styled block when stdout is a
// terminal, then returns a plain error so the command exits non-zero.
func formatError(err error) error {
	if isatty.IsTerminal(os.Stdout.Fd()) {
		b := strings.Builder{}
		w := getWidth(maxWidth)
		b.WriteRune('\n')
		renderBlock(&b, errorStyle, w, err.Error())
		b.WriteRune('\n')
		fmt.Print(b.String())
	}
	return err
}

func completeColor(truecolor, ansi256, ansi string) string {
	//nolint: exhaustive
	switch lipgloss.ColorProfile() {
	case termenv.TrueColor:
		return truecolor
	case termenv.ANSI256:
		return ansi256
	}
	return ansi
}

// setLanguage sets the wordlist used to validate recovered mnemonics.
func setLanguage(language string) error {
	list := getWordlist(language)
	if list == nil {
		return fmt.Errorf("this language is not supported")
	}
	bip39.SetWordList(list)
	return nil
}

func sanitizeLang(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "-")
}

var wordLists = map[lang.Tag][]string{
	lang.Chinese:              wordlists.ChineseSimplified,
	lang.SimplifiedChinese:    wordlists.ChineseSimplified,
	lang.TraditionalChinese:   wordlists.ChineseTraditional,
	lang.Czech:                wordlists.Czech,
	lang.AmericanEnglish:      wordlists.English,
	lang.BritishEnglish:       wordlists.English,
	lang.English:              wordlists.English,
	lang.French:               wordlists.French,
	lang.Italian:              wordlists.Italian,
	lang.Japanese:             wordlists.Japanese,
	lang.Korean:               wordlists.Korean,
	lang.Spanish:              wordlists.Spanish,
	lang.EuropeanSpanish:      wordlists.Spanish,
	lang.LatinAmericanSpanish: wordlists.Spanish,
}

func getWordlist(language string) []string {
	language = sanitizeLang(language)
	tag := lang.Make(language)
	en := display.English.Languages() // default language name matcher
	for t := range wordLists {
		if sanitizeLang(en.Name(t)) == language {
			tag = t
			break
		}
	}
	if tag == lang.Und { // Unknown language
		return nil
	}
	base, _ := tag.Base()
	btag := lang.MustParse(base.String())
	wl := wordLists[tag]
	if wl == nil {
		return wordLists[btag]
	}
	return wl
}
