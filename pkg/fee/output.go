package fee

import (
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/seedelf-network/seedelf-wallet/pkg/address"
	"github.com/seedelf-network/seedelf-wallet/pkg/assets"
	"github.com/seedelf-network/seedelf-wallet/pkg/register"
)

const (
	// sizingLovelace is the coin every staging output is sized with.
	sizingLovelace = 5_000_000

	inlineDatumKind = 1
	embeddedCBORTag = 24
)

var encMode cbor.EncMode

func init() {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	encMode = em
}

// Output is a post-Alonzo transaction output.
type Output struct {
	Address  []byte
	Lovelace uint64
	Assets   assets.Assets
	// Datum is the CBOR of an inline datum, nil for none.
	Datum []byte
}

type babbageOutput struct {
	Address []byte      `cbor:"0,keyasint"`
	Value   interface{} `cbor:"1,keyasint"`
	Datum   interface{} `cbor:"2,keyasint,omitempty"`
}

// MarshalCBOR encodes the output in its map form: {0: address, 1: value,
// 2: [1, #6.24(datum)]}.
func (o Output) MarshalCBOR() ([]byte, error) {
	out := babbageOutput{Address: o.Address, Value: o.Lovelace}

	if !o.Assets.IsEmpty() {
		multiasset, err := MultiAsset(o.Assets)
		if err != nil {
			return nil, err
		}
		out.Value = []interface{}{o.Lovelace, multiasset}
	}
	if o.Datum != nil {
		out.Datum = []interface{}{
			inlineDatumKind,
			cbor.Tag{Number: embeddedCBORTag, Content: o.Datum},
		}
	}
	return encMode.Marshal(out)
}

// MultiAsset converts assets into the ledger's policy → name → amount map.
func MultiAsset(a assets.Assets) (map[cbor.ByteString]map[cbor.ByteString]uint64, error) {
	out := make(map[cbor.ByteString]map[cbor.ByteString]uint64)
	for policy, names := range a.ByPolicy() {
		pid, err := hex.DecodeString(policy)
		if err != nil {
			return nil, fmt.Errorf("invalid policy id %s: %w", policy, err)
		}
		inner := make(map[cbor.ByteString]uint64, len(names))
		for name, amount := range names {
			n, err := hex.DecodeString(name)
			if err != nil {
				return nil, fmt.Errorf("invalid token name %s: %w", name, err)
			}
			inner[cbor.ByteString(n)] = amount
		}
		out[cbor.ByteString(pid)] = inner
	}
	return out, nil
}

// OutputSize is the serialized byte length of an output.
func OutputSize(o Output) (uint64, error) {
	buf, err := o.MarshalCBOR()
	if err != nil {
		return 0, err
	}
	return uint64(len(buf)), nil
}

// MinOutputLovelace is the least coin an output must hold:
// (overhead + size) * cost per byte.
func (p Params) MinOutputLovelace(o Output) (uint64, error) {
	size, err := OutputSize(o)
	if err != nil {
		return 0, err
	}
	return (p.OverheadCost + size) * p.CostPerByte, nil
}

// WalletMinimumLovelace is the least coin of a wallet contract output holding
// a register datum and the given assets.
func (p Params) WalletMinimumLovelace(a assets.Assets) (uint64, error) {
	datum, err := sizingDatum()
	if err != nil {
		return 0, err
	}
	return p.MinOutputLovelace(Output{
		Address:  walletSizingAddress(),
		Lovelace: sizingLovelace,
		Assets:   a,
		Datum:    datum,
	})
}

// SeedelfMinimumLovelace is the least coin of the output holding an identity
// token: a wallet output with one 32 byte token name.
func (p Params) SeedelfMinimumLovelace() (uint64, error) {
	token := assets.Asset{
		PolicyID:  hex.EncodeToString(make([]byte, assets.PolicyIDSize)),
		TokenName: hex.EncodeToString(make([]byte, assets.MaxTokenNameSize)),
		Amount:    1,
	}
	a, err := assets.New(token)
	if err != nil {
		return 0, err
	}
	return p.WalletMinimumLovelace(a)
}

// AddressMinimumLovelace is the least coin of a datum-less output to addr.
func (p Params) AddressMinimumLovelace(addr *address.Address, a assets.Assets) (uint64, error) {
	return p.MinOutputLovelace(Output{
		Address:  addr.Bytes(),
		Lovelace: sizingLovelace,
		Assets:   a,
	})
}

// walletSizingAddress has the length of any script-and-stake-key address,
// which is all the sizing depends on.
func walletSizingAddress() []byte {
	raw := make([]byte, 1+2*address.HashSize)
	raw[0] = byte(address.ScriptKey) << 4
	return raw
}

// sizingDatum is a register datum; every register encodes to the same
// length.
func sizingDatum() ([]byte, error) {
	return register.New(register.GeneratorHex, register.GeneratorHex).ToPlutusData()
}
