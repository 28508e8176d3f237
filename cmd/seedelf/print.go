package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/seedelf-network/seedelf-wallet/internal/core/application"
	"github.com/seedelf-network/seedelf-wallet/pkg/assets"
	"github.com/seedelf-network/seedelf-wallet/pkg/mathutil"
	"github.com/seedelf-network/seedelf-wallet/pkg/utxo"
)

var (
	bold    = color.New(color.Bold).SprintFunc()
	success = color.New(color.FgGreen).SprintFunc()
	warning = color.New(color.FgYellow).SprintFunc()
)

func printJSON(v interface{}) error {
	buf, err := json.MarshalIndent(v, "", "   ")
	if err != nil {
		return fmt.Errorf("unable to encode response: %w", err)
	}
	fmt.Println(string(buf))
	return nil
}

func printTable(header []string, rows [][]string) error {
	table := tablewriter.NewWriter(os.Stdout)
	cols := make([]any, 0, len(header))
	for _, h := range header {
		cols = append(cols, h)
	}
	table.Header(cols...)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func printAssets(a assets.Assets) error {
	if a.IsEmpty() {
		return nil
	}
	rows := make([][]string, 0, a.Len())
	for _, asset := range a.Items() {
		rows = append(rows, []string{
			asset.PolicyID, asset.TokenName, fmt.Sprint(asset.Amount),
		})
	}
	return printTable([]string{"policy id", "token name", "amount"}, rows)
}

func printPlan(plan *application.Plan) error {
	fmt.Println()
	fmt.Printf("%s %s\n", bold("tx hash:"), plan.TxHash)
	fmt.Printf(
		"%s %s ADA (size %s, compute %s, reference scripts %s)\n",
		bold("fee:"),
		mathutil.FormatAda(plan.Fee.Total),
		mathutil.FormatAda(plan.Fee.SizeFee),
		mathutil.FormatAda(plan.Fee.ComputeFee),
		mathutil.FormatAda(plan.Fee.ReferenceFee),
	)
	if plan.TokenName != "" {
		fmt.Printf("%s %s\n", bold("seedelf:"), plan.TokenName)
	}
	inputs := make([]string, 0, len(plan.Inputs))
	for _, in := range plan.Inputs {
		inputs = append(inputs, in.String())
	}
	fmt.Printf("%s %s\n", bold("inputs:"), strings.Join(inputs, ", "))

	switch {
	case plan.Submitted:
		fmt.Println(success("transaction submitted"))
	case plan.Signed:
		fmt.Println(warning("transaction signed, submit it with 'seedelf submit'"))
		fmt.Println(plan.TxCbor)
	default:
		fmt.Println(warning("transaction must be signed by the funding address"))
		fmt.Println(plan.TxCbor)
	}
	return nil
}

// parseAssets reads a list of "<policy id><token name>:<amount>" entries.
func parseAssets(list []string) (assets.Assets, error) {
	result := assets.Assets{}
	for _, item := range list {
		parts := strings.Split(item, ":")
		if len(parts) != 2 {
			return assets.Assets{}, fmt.Errorf("invalid asset %s, expected <asset id>:<amount>", item)
		}
		var amount uint64
		if _, err := fmt.Sscan(parts[1], &amount); err != nil || amount == 0 {
			return assets.Assets{}, fmt.Errorf("invalid amount for asset %s", parts[0])
		}
		asset, err := assets.AssetIDToAsset(parts[0], amount)
		if err != nil {
			return assets.Assets{}, err
		}
		if result, err = result.Add(asset); err != nil {
			return assets.Assets{}, err
		}
	}
	return result, nil
}

// parseAda returns 0 for an empty amount, the services read it as the
// minimum required.
func parseAda(amount string) (uint64, error) {
	if amount == "" {
		return 0, nil
	}
	return mathutil.AdaToLovelace(amount)
}

func utxoRows(utxos []utxo.Utxo) [][]string {
	rows := make([][]string, 0, len(utxos))
	for _, u := range utxos {
		lovelace, _ := u.Lovelace()
		rows = append(rows, []string{
			u.Outpoint().String(), mathutil.FormatAda(lovelace),
			fmt.Sprint(u.HasAssets()),
		})
	}
	return rows
}
