package main

import (
	"fmt"

	"github.com/seedelf-network/seedelf-wallet/internal/core/application"
	"github.com/urfave/cli/v2"
)

var (
	seedelfFlag = &cli.StringFlag{
		Name:  "seedelf",
		Usage: "the token name of the receiving seedelf",
	}
	lovelaceFlag = &cli.StringFlag{
		Name:  "amount",
		Usage: "the amount of ADA to send, defaults to the minimum of the output",
	}
	assetsFlag = &cli.StringSliceFlag{
		Name:  "asset",
		Usage: "an asset to send as <policy id><token name>:<amount>, can be repeated",
	}
)

var fundCmd = cli.Command{
	Name:   "fund",
	Usage:  "build the transaction paying a seedelf from a key address",
	Flags:  []cli.Flag{addressFlag, seedelfFlag, lovelaceFlag, assetsFlag},
	Action: fundAction,
}

var transferCmd = cli.Command{
	Name:  "transfer",
	Usage: "send funds of the wallet to a seedelf",
	Flags: []cli.Flag{
		walletFlag,
		passphraseFlag,
		seedelfFlag,
		lovelaceFlag,
		assetsFlag,
		&cli.StringFlag{
			Name:  "message",
			Usage: "a message readable only by the receiver",
		},
	},
	Action: transferAction,
}

var sweepCmd = cli.Command{
	Name:  "sweep",
	Usage: "send funds of the wallet to a key address",
	Flags: []cli.Flag{
		walletFlag,
		passphraseFlag,
		&cli.StringFlag{
			Name:  "address",
			Usage: "the key address receiving the funds",
		},
		lovelaceFlag,
		assetsFlag,
		&cli.BoolFlag{
			Name:  "all",
			Usage: "send everything the wallet owns",
		},
	},
	Action: sweepAction,
}

var submitCmd = cli.Command{
	Name:  "submit",
	Usage: "submit a signed transaction",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "tx",
			Usage: "the hex encoded transaction",
		},
	},
	Action: submitAction,
}

func fundAction(ctx *cli.Context) error {
	addr, tokenName := ctx.String(addressFlag.Name), ctx.String(seedelfFlag.Name)
	if addr == "" || tokenName == "" {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	lovelace, err := parseAda(ctx.String(lovelaceFlag.Name))
	if err != nil {
		return err
	}
	tokens, err := parseAssets(ctx.StringSlice(assetsFlag.Name))
	if err != nil {
		return err
	}

	s, err := getServices()
	if err != nil {
		return err
	}

	plan, err := s.payment.Fund(ctx.Context, application.FundRequest{
		Address:   addr,
		TokenName: tokenName,
		Lovelace:  lovelace,
		Assets:    tokens,
	})
	if err != nil {
		return err
	}
	return printPlan(plan)
}

func transferAction(ctx *cli.Context) error {
	tokenName := ctx.String(seedelfFlag.Name)
	if tokenName == "" {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	lovelace, err := parseAda(ctx.String(lovelaceFlag.Name))
	if err != nil {
		return err
	}
	tokens, err := parseAssets(ctx.StringSlice(assetsFlag.Name))
	if err != nil {
		return err
	}

	return transfer(ctx, application.TransferRequest{
		TokenName: tokenName,
		Lovelace:  lovelace,
		Assets:    tokens,
		Message:   ctx.String("message"),
	})
}

func transfer(ctx *cli.Context, req application.TransferRequest) error {
	s, err := getServices()
	if err != nil {
		return err
	}

	session, err := unlock(ctx, s)
	if err != nil {
		return err
	}
	defer session.Release()

	plan, err := s.payment.Transfer(ctx.Context, session, req)
	if err != nil {
		return err
	}
	return printPlan(plan)
}

func sweepAction(ctx *cli.Context) error {
	addr := ctx.String("address")
	if addr == "" {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	lovelace, err := parseAda(ctx.String(lovelaceFlag.Name))
	if err != nil {
		return err
	}
	tokens, err := parseAssets(ctx.StringSlice(assetsFlag.Name))
	if err != nil {
		return err
	}

	s, err := getServices()
	if err != nil {
		return err
	}

	session, err := unlock(ctx, s)
	if err != nil {
		return err
	}
	defer session.Release()

	plan, err := s.payment.Sweep(ctx.Context, session, application.SweepRequest{
		Address:  addr,
		Lovelace: lovelace,
		Assets:   tokens,
		All:      ctx.Bool("all"),
	})
	if err != nil {
		return err
	}
	return printPlan(plan)
}

func submitAction(ctx *cli.Context) error {
	txHex := ctx.String("tx")
	if txHex == "" {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}

	s, err := getServices()
	if err != nil {
		return err
	}

	txid, err := s.payment.Submit(ctx.Context, txHex)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("%s %s\n", success("transaction submitted:"), txid)
	return nil
}
