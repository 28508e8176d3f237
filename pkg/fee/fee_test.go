package fee_test

import (
	"strings"
	"testing"

	"github.com/seedelf-network/seedelf-wallet/pkg/address"
	"github.com/seedelf-network/seedelf-wallet/pkg/assets"
	"github.com/seedelf-network/seedelf-wallet/pkg/fee"
	"github.com/stretchr/testify/require"
)

var params = fee.DefaultParams()

func newAssets(t *testing.T, items ...assets.Asset) assets.Assets {
	a, err := assets.New(items...)
	require.NoError(t, err)
	return a
}

func TestWalletMinimumLovelace(t *testing.T) {
	tests := []struct {
		name   string
		assets assets.Assets
		want   uint64
	}{
		{
			name:   "no assets",
			assets: assets.Assets{},
			want:   1_456_780,
		},
		{
			name: "one short token",
			assets: newAssets(t, assets.Asset{
				PolicyID:  strings.Repeat("ab", 28),
				TokenName: "acab0000",
				Amount:    1,
			}),
			want: 1_624_870,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := params.WalletMinimumLovelace(tt.assets)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSeedelfMinimumLovelace(t *testing.T) {
	got, err := params.SeedelfMinimumLovelace()
	require.NoError(t, err)
	require.Equal(t, uint64(1_749_860), got)
}

func TestAddressMinimumLovelace(t *testing.T) {
	tests := []struct {
		name string
		addr string
		want uint64
	}{
		{
			name: "base address",
			addr: "addr_test1qrwejm9pza929cedhwkcsprtgs8l2carehs8z6jkse2qp344c43tmm0md55r4ufmxknr24kq6jkvt6spq60edeuhtf4sn2scds",
			want: 978_370,
		},
		{
			name: "enterprise address",
			addr: "addr_test1wp4rlm30ulytuz4j2jrj35ma9maram24kw43cnewphndzsqgdm9k0",
			want: 857_690,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := address.Decode(tt.addr)
			require.NoError(t, err)

			got, err := params.AddressMinimumLovelace(addr, assets.Assets{})
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestOutputEncoding(t *testing.T) {
	out := fee.Output{
		Address:  []byte{0x60, 0x01},
		Lovelace: 2,
	}
	buf, err := out.MarshalCBOR()
	require.NoError(t, err)
	require.Equal(t, []byte{0xa2, 0x00, 0x42, 0x60, 0x01, 0x01, 0x02}, buf)

	out.Datum = []byte{0x80}
	buf, err = out.MarshalCBOR()
	require.NoError(t, err)
	require.Equal(t, []byte{
		0xa3, 0x00, 0x42, 0x60, 0x01, 0x01, 0x02,
		0x02, 0x82, 0x01, 0xd8, 0x18, 0x41, 0x80,
	}, buf)
}

func TestComputationFee(t *testing.T) {
	require.Equal(t, uint64(57700+36050), params.ComputationFee(1_000_000, 500_000_000))
	// both components floor on their own
	require.Equal(t, uint64(0), params.ComputationFee(17, 13_000))
	require.Equal(t, uint64(2*93750), params.TotalComputationFee([]fee.ExUnits{
		{Mem: 1_000_000, Steps: 500_000_000},
		{Mem: 1_000_000, Steps: 500_000_000},
	}))
	require.Zero(t, params.TotalComputationFee(nil))
}

func TestTotal(t *testing.T) {
	b := params.Total(1200, []fee.ExUnits{{Mem: 1_000_000, Steps: 500_000_000}}, 629)
	require.Equal(t, fee.Breakdown{
		SizeFee:      208181,
		ComputeFee:   93750,
		ReferenceFee: 9435,
		Total:        311366,
	}, b)

	b = params.Total(1201, nil)
	require.Equal(t, uint64(44*1201+155381+1), b.Total)
	require.Zero(t, b.Total%2)
}

func TestRoundUpEven(t *testing.T) {
	require.Equal(t, uint64(0), fee.RoundUpEven(0))
	require.Equal(t, uint64(2), fee.RoundUpEven(1))
	require.Equal(t, uint64(200_000), fee.RoundUpEven(200_000))
	require.Equal(t, uint64(200_002), fee.RoundUpEven(200_001))
}

func TestCollateralReturn(t *testing.T) {
	got, err := fee.CollateralReturn(fee.CollateralLovelace, fee.PlaceholderFee)
	require.NoError(t, err)
	require.Equal(t, uint64(4_700_000), got)

	got, err = fee.CollateralReturn(fee.CollateralLovelace, 311366)
	require.NoError(t, err)
	require.Equal(t, uint64(5_000_000-467049), got)

	_, err = fee.CollateralReturn(fee.CollateralLovelace, 4_000_000)
	require.ErrorIs(t, err, fee.ErrCollateralTooSmall)
}
