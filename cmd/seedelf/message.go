package main

import (
	"fmt"

	"github.com/seedelf-network/seedelf-wallet/internal/core/application"
	"github.com/urfave/cli/v2"
)

var messageCmd = cli.Command{
	Name:  "message",
	Usage: "exchange encrypted messages with seedelf owners",
	Subcommands: []*cli.Command{
		{
			Name:  "send",
			Usage: "send a message to a seedelf along with the minimum lovelace",
			Flags: []cli.Flag{
				walletFlag,
				passphraseFlag,
				seedelfFlag,
				lovelaceFlag,
				&cli.StringFlag{
					Name:  "text",
					Usage: "the message to send",
				},
			},
			Action: sendMessageAction,
		},
		{
			Name:  "seal",
			Usage: "encrypt a message to a seedelf without sending it",
			Flags: []cli.Flag{
				seedelfFlag,
				&cli.StringFlag{
					Name:  "text",
					Usage: "the message to encrypt",
				},
			},
			Action: sealMessageAction,
		},
		{
			Name:   "inbox",
			Usage:  "show the messages received by the wallet",
			Flags:  []cli.Flag{walletFlag, passphraseFlag},
			Action: inboxAction,
		},
	},
}

func sendMessageAction(ctx *cli.Context) error {
	tokenName, text := ctx.String(seedelfFlag.Name), ctx.String("text")
	if tokenName == "" || text == "" {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	lovelace, err := parseAda(ctx.String(lovelaceFlag.Name))
	if err != nil {
		return err
	}

	return transfer(ctx, application.TransferRequest{
		TokenName: tokenName,
		Lovelace:  lovelace,
		Message:   text,
	})
}

func sealMessageAction(ctx *cli.Context) error {
	tokenName, text := ctx.String(seedelfFlag.Name), ctx.String("text")
	if tokenName == "" || text == "" {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}

	s, err := getServices()
	if err != nil {
		return err
	}

	ciphertext, err := s.message.Seal(ctx.Context, tokenName, text)
	if err != nil {
		return err
	}
	return printJSON(ciphertext)
}

func inboxAction(ctx *cli.Context) error {
	s, err := getServices()
	if err != nil {
		return err
	}

	session, err := unlock(ctx, s)
	if err != nil {
		return err
	}
	defer session.Release()

	messages, err := s.message.Inbox(ctx.Context, session)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		fmt.Println(warning("no message found"))
		return nil
	}

	rows := make([][]string, 0, len(messages))
	for _, m := range messages {
		rows = append(rows, []string{m.Outpoint.String(), m.Text})
	}
	return printTable([]string{"outpoint", "message"}, rows)
}
