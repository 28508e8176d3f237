package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/seedelf-network/seedelf-wallet/pkg/mathutil"
	"github.com/urfave/cli/v2"
)

var walletCmd = cli.Command{
	Name:  "wallet",
	Usage: "manage the local wallets",
	Subcommands: []*cli.Command{
		{
			Name:   "create",
			Usage:  "create a new wallet with a random key",
			Flags:  []cli.Flag{walletFlag, passphraseFlag},
			Action: createWalletAction,
		},
		{
			Name:  "restore",
			Usage: "restore a wallet from its mnemonic",
			Flags: []cli.Flag{
				walletFlag,
				passphraseFlag,
				&cli.StringFlag{
					Name:  "mnemonic",
					Usage: "the space separated list of words",
				},
			},
			Action: restoreWalletAction,
		},
		{
			Name:   "genseed",
			Usage:  "generate a mnemonic to restore a wallet from",
			Action: genSeedAction,
		},
		{
			Name:   "info",
			Usage:  "list the local wallets",
			Action: walletInfoAction,
		},
		{
			Name:  "passwd",
			Usage: "change the passphrase of a wallet",
			Flags: []cli.Flag{
				walletFlag,
				passphraseFlag,
				&cli.StringFlag{
					Name:  "new_passphrase",
					Usage: "the new passphrase",
				},
			},
			Action: changePassphraseAction,
		},
	},
}

var balanceCmd = cli.Command{
	Name:  "balance",
	Usage: "show the spendable funds of a wallet",
	Flags: []cli.Flag{
		walletFlag,
		passphraseFlag,
		&cli.BoolFlag{
			Name:  "utxos",
			Usage: "list the owned utxos too",
		},
	},
	Action: balanceAction,
}

func createWalletAction(ctx *cli.Context) error {
	s, err := getServices()
	if err != nil {
		return err
	}

	name := ctx.String(walletFlag.Name)
	if err := s.wallet.CreateWallet(
		ctx.Context, name, ctx.String(passphraseFlag.Name),
	); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(success(fmt.Sprintf("wallet %s created", name)))
	return nil
}

func restoreWalletAction(ctx *cli.Context) error {
	mnemonic := strings.Fields(ctx.String("mnemonic"))
	if len(mnemonic) == 0 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}

	s, err := getServices()
	if err != nil {
		return err
	}

	name := ctx.String(walletFlag.Name)
	if err := s.wallet.RestoreWallet(
		ctx.Context, name, mnemonic, ctx.String(passphraseFlag.Name),
	); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(success(fmt.Sprintf("wallet %s restored", name)))
	return nil
}

func genSeedAction(ctx *cli.Context) error {
	s, err := getServices()
	if err != nil {
		return err
	}

	mnemonic, err := s.wallet.GenSeed(ctx.Context)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(strings.Join(mnemonic, " "))
	return nil
}

func walletInfoAction(ctx *cli.Context) error {
	s, err := getServices()
	if err != nil {
		return err
	}

	wallets, err := s.wallet.ListWallets(ctx.Context)
	if err != nil {
		return err
	}
	if len(wallets) == 0 {
		fmt.Println(warning("no wallet found, create one with 'seedelf wallet create'"))
		return nil
	}

	rows := make([][]string, 0, len(wallets))
	for _, w := range wallets {
		rows = append(rows, []string{
			w.Name, time.Unix(w.CreatedAt, 0).Format(time.RFC3339),
		})
	}
	return printTable([]string{"name", "created at"}, rows)
}

func changePassphraseAction(ctx *cli.Context) error {
	newPassphrase := ctx.String("new_passphrase")
	if newPassphrase == "" {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}

	s, err := getServices()
	if err != nil {
		return err
	}

	if err := s.wallet.ChangePassphrase(
		ctx.Context,
		ctx.String(walletFlag.Name),
		ctx.String(passphraseFlag.Name),
		newPassphrase,
	); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(success("passphrase changed"))
	return nil
}

func balanceAction(ctx *cli.Context) error {
	s, err := getServices()
	if err != nil {
		return err
	}

	session, err := unlock(ctx, s)
	if err != nil {
		return err
	}
	defer session.Release()

	balance, err := s.wallet.Balance(ctx.Context, session)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("%s %s ADA\n", bold("balance:"), mathutil.FormatAda(balance.Lovelace))
	fmt.Printf("%s %d\n", bold("utxos:"), balance.Utxos)
	if len(balance.Seedelfs) > 0 {
		fmt.Printf("%s %s\n", bold("seedelfs:"), strings.Join(balance.Seedelfs, ", "))
	}
	if err := printAssets(balance.Assets); err != nil {
		return err
	}

	if !ctx.Bool("utxos") {
		return nil
	}
	utxos, err := s.wallet.OwnedUtxos(ctx.Context, session, 0)
	if err != nil {
		return err
	}
	return printTable([]string{"outpoint", "ada", "assets"}, utxoRows(utxos))
}
