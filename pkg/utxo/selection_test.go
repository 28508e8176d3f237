package utxo_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/seedelf-network/seedelf-wallet/pkg/assets"
	"github.com/seedelf-network/seedelf-wallet/pkg/fee"
	"github.com/seedelf-network/seedelf-wallet/pkg/utxo"
	"github.com/stretchr/testify/require"
)

func outpointsOf(utxos []utxo.Utxo) []string {
	out := make([]string, 0, len(utxos))
	for _, u := range utxos {
		out = append(out, u.Outpoint().String())
	}
	return out
}

func TestSelect(t *testing.T) {
	pure3 := newUtxo(1, 3_000_000)
	pure10 := newUtxo(2, 10_000_000)
	pure20 := newUtxo(3, 20_000_000)
	withTokens := newUtxo(4, 2_000_000, token(policyA, "01", 5), token(policyB, "02", 1))
	rich := newUtxo(5, 50_000_000, token(policyB, "03", 1))

	requested := newAssets(t, assets.Asset{PolicyID: policyA, TokenName: "01", Amount: 5})

	tests := []struct {
		name       string
		utxos      []utxo.Utxo
		goal       uint64
		tokens     assets.Assets
		wantUtxos  []utxo.Utxo
		wantChange assets.Assets
	}{
		{
			name:       "largest pure lovelace first",
			utxos:      []utxo.Utxo{pure10, pure3, pure20},
			goal:       5_000_000,
			tokens:     assets.Assets{},
			wantUtxos:  []utxo.Utxo{pure20},
			wantChange: assets.Assets{},
		},
		{
			name:       "target raised to cover change",
			utxos:      []utxo.Utxo{pure10, pure3, pure20},
			goal:       19_000_000,
			tokens:     assets.Assets{},
			wantUtxos:  []utxo.Utxo{pure20, pure10},
			wantChange: assets.Assets{},
		},
		{
			name:      "pure lovelace precede token bearing",
			utxos:     []utxo.Utxo{withTokens, pure10},
			goal:      2_000_000,
			tokens:    requested,
			wantUtxos: []utxo.Utxo{pure10, withTokens},
			wantChange: newAssets(t, 
				assets.Asset{PolicyID: policyB, TokenName: "02", Amount: 1},
			),
		},
		{
			name:       "token bearing taken for lovelace once tokens are found",
			utxos:      []utxo.Utxo{rich, pure3},
			goal:       10_000_000,
			tokens:     assets.Assets{},
			wantUtxos:  []utxo.Utxo{pure3, rich},
			wantChange: newAssets(t, assets.Asset{PolicyID: policyB, TokenName: "03", Amount: 1}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selector := utxo.NewSelector(fee.DefaultParams(), 0)
			got, err := selector.Select(tt.utxos, tt.goal, tt.tokens)
			require.NoError(t, err)
			require.Equal(t, outpointsOf(tt.wantUtxos), outpointsOf(got.Utxos))
			require.Equal(t, tt.wantChange, got.Change)

			lovelace, found, err := utxo.AssetsOf(got.Utxos)
			require.NoError(t, err)
			require.Equal(t, lovelace, got.Lovelace)
			require.Equal(t, found, got.Assets)
			require.True(t, found.Contains(tt.tokens))
		})
	}
}

func TestSelectInsufficientFunds(t *testing.T) {
	requested := newAssets(t, assets.Asset{PolicyID: policyA, TokenName: "01", Amount: 5})

	tests := []struct {
		name   string
		utxos  []utxo.Utxo
		goal   uint64
		tokens assets.Assets
	}{
		{
			name:   "no utxos",
			goal:   1_000_000,
			tokens: assets.Assets{},
		},
		{
			name:   "not enough lovelace",
			utxos:  []utxo.Utxo{newUtxo(1, 1_000_000), newUtxo(2, 2_000_000)},
			goal:   5_000_000,
			tokens: assets.Assets{},
		},
		{
			name:   "lovelace covers goal but not change",
			utxos:  []utxo.Utxo{newUtxo(1, 5_500_000)},
			goal:   5_000_000,
			tokens: assets.Assets{},
		},
		{
			name:   "missing token",
			utxos:  []utxo.Utxo{newUtxo(1, 100_000_000, token(policyA, "01", 4))},
			goal:   2_000_000,
			tokens: requested,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selector := utxo.NewSelector(fee.DefaultParams(), 0)
			got, err := selector.Select(tt.utxos, tt.goal, tt.tokens)
			require.ErrorIs(t, err, utxo.ErrInsufficientFunds)
			require.Nil(t, got)
		})
	}
}

func TestSelectNotConverged(t *testing.T) {
	utxos := []utxo.Utxo{newUtxo(1, 20_000_000), newUtxo(2, 10_000_000)}

	selector := utxo.NewSelector(fee.DefaultParams(), 1)
	_, err := selector.Select(utxos, 19_000_000, assets.Assets{})
	require.ErrorIs(t, err, utxo.ErrSelectionNotConverged)

	selector.MaxIterations = 2
	got, err := selector.Select(utxos, 19_000_000, assets.Assets{})
	require.NoError(t, err)
	require.Len(t, got.Utxos, 2)
}

func TestSelectInvalidUtxo(t *testing.T) {
	bad := newUtxo(1, 0)
	bad.Value = "-1"

	selector := utxo.NewSelector(fee.DefaultParams(), 0)
	_, err := selector.Select([]utxo.Utxo{bad}, 1, assets.Assets{})
	require.ErrorIs(t, err, utxo.ErrInvalidUtxo)
}

func TestSelectChangeSpanningOutputs(t *testing.T) {
	const goal = 2_000_000
	requested := newAssets(t, assets.Asset{PolicyID: policyA, TokenName: "01", Amount: 5})

	// 41 leftover tokens need three change outputs.
	list := []utxo.Asset{token(policyA, "01", 5)}
	leftover := make([]assets.Asset, 0, 41)
	for i := 0; i < 41; i++ {
		name := fmt.Sprintf("%02x", i)
		list = append(list, token(policyB, name, 1))
		leftover = append(leftover, assets.Asset{PolicyID: policyB, TokenName: name, Amount: 1})
	}
	change := newAssets(t, leftover...)
	minimum, err := fee.DefaultParams().WalletMinimumLovelace(change)
	require.NoError(t, err)

	tests := []struct {
		name     string
		lovelace uint64
		wantErr  error
	}{
		{
			name:     "covers three change outputs",
			lovelace: goal + 3*minimum,
		},
		{
			name:     "one lovelace short of three change outputs",
			lovelace: goal + 3*minimum - 1,
			wantErr:  utxo.ErrInsufficientFunds,
		},
		{
			name:     "covers only two change outputs",
			lovelace: goal + 2*minimum,
			wantErr:  utxo.ErrInsufficientFunds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selector := utxo.NewSelector(fee.DefaultParams(), 0)
			got, err := selector.Select(
				[]utxo.Utxo{newUtxo(1, tt.lovelace, list...)}, goal, requested,
			)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.lovelace, got.Lovelace)
			require.Equal(t, change, got.Change)
		})
	}
}

func TestSelectOverflow(t *testing.T) {
	tests := []struct {
		name  string
		utxos []utxo.Utxo
		goal  uint64
	}{
		{
			name:  "selected lovelace",
			utxos: []utxo.Utxo{newUtxo(1, math.MaxUint64-1), newUtxo(2, 2)},
			goal:  math.MaxUint64,
		},
		{
			name:  "goal plus change",
			utxos: []utxo.Utxo{newUtxo(1, math.MaxUint64)},
			goal:  math.MaxUint64,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selector := utxo.NewSelector(fee.DefaultParams(), 0)
			_, err := selector.Select(tt.utxos, tt.goal, assets.Assets{})
			require.ErrorIs(t, err, assets.ErrAmountOverflow)
		})
	}
}
