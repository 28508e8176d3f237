package main

import (
	"fmt"

	"github.com/seedelf-network/seedelf-wallet/internal/core/domain"
	"github.com/urfave/cli/v2"
)

var addressFlag = &cli.StringFlag{
	Name:  "address",
	Usage: "the key address paying for the transaction",
}

var seedelfCmd = cli.Command{
	Name:  "seedelf",
	Usage: "find, mint and burn seedelf identity tokens",
	Subcommands: []*cli.Command{
		{
			Name:  "find",
			Usage: "find the seedelfs whose name contains a label",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "label",
					Usage: "the label, or part of it, to look for",
				},
			},
			Action: findSeedelfAction,
		},
		{
			Name:  "create",
			Usage: "build the transaction minting a new seedelf to the wallet",
			Flags: []cli.Flag{
				walletFlag,
				passphraseFlag,
				addressFlag,
				&cli.StringFlag{
					Name:  "label",
					Usage: "the personal tag embedded in the token name",
				},
			},
			Action: createSeedelfAction,
		},
		{
			Name:  "remove",
			Usage: "burn a seedelf of the wallet and send its lovelace to an address",
			Flags: []cli.Flag{
				walletFlag,
				passphraseFlag,
				&cli.StringFlag{
					Name:  "address",
					Usage: "the key address receiving the lovelace",
				},
				&cli.StringFlag{
					Name:  "seedelf",
					Usage: "the token name of the seedelf to burn",
				},
			},
			Action: removeSeedelfAction,
		},
		{
			Name:  "list",
			Usage: "list the seedelfs",
			Flags: []cli.Flag{
				walletFlag,
				passphraseFlag,
				&cli.BoolFlag{
					Name:  "cached",
					Usage: "list the cached seedelfs without querying the chain",
				},
			},
			Action: listSeedelfsAction,
		},
	},
}

func findSeedelfAction(ctx *cli.Context) error {
	label := ctx.String("label")
	if label == "" {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}

	s, err := getServices()
	if err != nil {
		return err
	}

	found, err := s.seedelf.Find(ctx.Context, label)
	if err != nil {
		return err
	}
	return printSeedelfs(found)
}

func createSeedelfAction(ctx *cli.Context) error {
	addr := ctx.String(addressFlag.Name)
	if addr == "" {
		return &invalidUsageError{ctx, ctx.Command.Name}
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

	plan, err := s.seedelf.Create(ctx.Context, session, addr, ctx.String("label"))
	if err != nil {
		return err
	}
	return printPlan(plan)
}

func removeSeedelfAction(ctx *cli.Context) error {
	addr, tokenName := ctx.String("address"), ctx.String("seedelf")
	if addr == "" || tokenName == "" {
		return &invalidUsageError{ctx, ctx.Command.Name}
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

	plan, err := s.seedelf.Remove(ctx.Context, session, tokenName, addr)
	if err != nil {
		return err
	}
	return printPlan(plan)
}

func listSeedelfsAction(ctx *cli.Context) error {
	s, err := getServices()
	if err != nil {
		return err
	}

	if ctx.Bool("cached") {
		cached, err := s.seedelf.List(ctx.Context, false)
		if err != nil {
			return err
		}
		return printSeedelfs(cached)
	}

	session, err := unlock(ctx, s)
	if err != nil {
		return err
	}
	defer session.Release()

	owned, err := s.seedelf.Owned(ctx.Context, session)
	if err != nil {
		return err
	}
	return printSeedelfs(owned)
}

func printSeedelfs(seedelfs []domain.Seedelf) error {
	if len(seedelfs) == 0 {
		fmt.Println(warning("no seedelf found"))
		return nil
	}

	rows := make([][]string, 0, len(seedelfs))
	for _, s := range seedelfs {
		owned := ""
		if s.Owned {
			owned = success("yes")
		}
		rows = append(rows, []string{
			s.TokenName, s.Label, s.Outpoint().String(), owned,
		})
	}
	return printTable([]string{"token name", "label", "outpoint", "owned"}, rows)
}
