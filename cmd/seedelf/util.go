package main

import (
	"fmt"

	"github.com/seedelf-network/seedelf-wallet/internal/config"
	"github.com/seedelf-network/seedelf-wallet/pkg/address"
	"github.com/seedelf-network/seedelf-wallet/pkg/mathutil"
	"github.com/seedelf-network/seedelf-wallet/pkg/schnorr"
	"github.com/seedelf-network/seedelf-wallet/pkg/seedelf"
	"github.com/seedelf-network/seedelf-wallet/pkg/utxo"
	"github.com/urfave/cli/v2"
)

var utilCmd = cli.Command{
	Name:  "util",
	Usage: "offline helpers",
	Subcommands: []*cli.Command{
		{
			Name:  "token-name",
			Usage: "derive the token name a mint with the given inputs would produce",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "label",
					Usage: "the personal tag",
				},
				&cli.StringSliceFlag{
					Name:  "input",
					Usage: "an input of the minting transaction as <tx hash>#<index>, can be repeated",
				},
			},
			Action: tokenNameAction,
		},
		{
			Name:  "verify-proof",
			Usage: "verify a proof of knowledge of the secret of a register",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "generator", Usage: "the register generator"},
				&cli.StringFlag{Name: "public_value", Usage: "the register public value"},
				&cli.StringFlag{Name: "z", Usage: "the proof response"},
				&cli.StringFlag{Name: "commitment", Usage: "the proof commitment"},
				&cli.StringFlag{Name: "bound", Usage: "the data the proof is bound to"},
			},
			Action: verifyProofAction,
		},
		{
			Name:  "min-ada",
			Usage: "compute the minimum ADA of an output",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "address",
					Usage: "the receiving address, the wallet contract if empty",
				},
				&cli.BoolFlag{
					Name:  "seedelf",
					Usage: "the output holds a seedelf token",
				},
				assetsFlag,
			},
			Action: minAdaAction,
		},
	},
}

func tokenNameAction(ctx *cli.Context) error {
	inputs, err := utxo.ParseOutpoints(ctx.StringSlice("input"))
	if err != nil {
		return err
	}

	tokenName, err := seedelf.TokenName(ctx.String("label"), inputs)
	if err != nil {
		return err
	}

	fmt.Println(tokenName)
	return nil
}

func verifyProofAction(ctx *cli.Context) error {
	ok, err := schnorr.Verify(
		ctx.String("generator"),
		ctx.String("public_value"),
		ctx.String("z"),
		ctx.String("commitment"),
		ctx.String("bound"),
	)
	if err != nil {
		return err
	}

	if !ok {
		return fmt.Errorf("proof is not valid")
	}
	fmt.Println(success("proof is valid"))
	return nil
}

func minAdaAction(ctx *cli.Context) error {
	tokens, err := parseAssets(ctx.StringSlice(assetsFlag.Name))
	if err != nil {
		return err
	}
	params := config.GetParams()

	var minimum uint64
	switch addr := ctx.String("address"); {
	case ctx.Bool("seedelf"):
		minimum, err = params.SeedelfMinimumLovelace()
	case addr == "":
		minimum, err = params.WalletMinimumLovelace(tokens)
	default:
		var decoded *address.Address
		if decoded, err = address.Decode(addr); err != nil {
			return err
		}
		minimum, err = params.AddressMinimumLovelace(decoded, tokens)
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s ADA\n", mathutil.FormatAda(minimum))
	return nil
}
