package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/seedelf-network/seedelf-wallet/internal/config"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var (
	// Version is set at build time via -ldflags.
	Version = "dev"

	datadirFlag = &cli.StringFlag{
		Name:  "datadir",
		Usage: "the directory where wallets and cached seedelfs are stored",
	}
	networkFlag = &cli.StringFlag{
		Name:  "network",
		Usage: "the cardano network, either mainnet or preprod",
	}
	variantFlag = &cli.Uint64Flag{
		Name:  "variant",
		Usage: "the deployment of the wallet contract",
	}
	walletFlag = &cli.StringFlag{
		Name:    "wallet",
		Usage:   "the name of the wallet to use",
		Value:   "default",
		EnvVars: []string{"SEEDELF_WALLET"},
	}
	passphraseFlag = &cli.StringFlag{
		Name:    "passphrase",
		Usage:   "the passphrase used to encrypt the wallet key",
		EnvVars: []string{"SEEDELF_PASSPHRASE"},
	}

	// flag name -> config key
	configFlags = map[string]string{
		datadirFlag.Name: config.DatadirKey,
		networkFlag.Name: config.NetworkKey,
		variantFlag.Name: config.VariantKey,
	}
)

func main() {
	app := cli.NewApp()

	app.Version = Version
	app.Name = "seedelf"
	app.Usage = "Command line interface for the seedelf stealth wallet"
	app.Flags = []cli.Flag{datadirFlag, networkFlag, variantFlag}
	app.Commands = append(
		app.Commands,
		&walletCmd,
		&balanceCmd,
		&seedelfCmd,
		&fundCmd,
		&transferCmd,
		&sweepCmd,
		&submitCmd,
		&messageCmd,
		&utilCmd,
	)
	app.Before = initApp
	app.After = closeApp

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

func initApp(ctx *cli.Context) error {
	for flag, key := range configFlags {
		if ctx.IsSet(flag) {
			if err := os.Setenv("SEEDELF_"+key, ctx.String(flag)); err != nil {
				return err
			}
		}
	}

	if err := config.InitConfig(); err != nil {
		return err
	}

	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))
	return nil
}

func closeApp(ctx *cli.Context) error {
	if state != nil {
		state.close()
	}
	return nil
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("[seedelf]"), err)
	}
	os.Exit(1)
}
