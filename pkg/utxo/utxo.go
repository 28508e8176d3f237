// Package utxo models the unspent outputs returned by chain indexers and
// selects the inputs of a transaction.
package utxo

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/seedelf-network/seedelf-wallet/pkg/assets"
	"github.com/seedelf-network/seedelf-wallet/pkg/register"
)

// CollateralLovelace is the value of a pure lovelace UTxO that is kept aside
// as collateral.
const CollateralLovelace = 5_000_000

var (
	// ErrInvalidUtxo is returned when a UTxO carries a malformed amount.
	ErrInvalidUtxo = errors.New("invalid utxo")
	// ErrNoInlineDatum ...
	ErrNoInlineDatum = errors.New("utxo has no inline datum")
	// ErrInvalidOutpoint is returned when an outpoint is not txhash#index.
	ErrInvalidOutpoint = errors.New("invalid outpoint")
)

// Asset is an entry of a UTxO asset list.
type Asset struct {
	PolicyID    string `json:"policy_id"`
	AssetName   string `json:"asset_name"`
	Quantity    string `json:"quantity"`
	Decimals    uint8  `json:"decimals"`
	Fingerprint string `json:"fingerprint"`
}

// InlineDatum holds both the CBOR and the detailed JSON form of a datum.
type InlineDatum struct {
	Bytes string          `json:"bytes"`
	Value json.RawMessage `json:"value"`
}

// Utxo is an unspent output as returned by the extended Koios endpoints.
type Utxo struct {
	TxHash          string          `json:"tx_hash"`
	TxIndex         uint32          `json:"tx_index"`
	Address         string          `json:"address"`
	Value           string          `json:"value"`
	StakeAddress    *string         `json:"stake_address"`
	PaymentCred     string          `json:"payment_cred"`
	EpochNo         uint64          `json:"epoch_no"`
	BlockHeight     uint64          `json:"block_height"`
	BlockTime       uint64          `json:"block_time"`
	DatumHash       *string         `json:"datum_hash"`
	InlineDatum     *InlineDatum    `json:"inline_datum"`
	ReferenceScript json.RawMessage `json:"reference_script"`
	AssetList       []Asset         `json:"asset_list"`
	IsSpent         bool            `json:"is_spent"`
}

// Outpoint returns the reference to this output.
func (u Utxo) Outpoint() Outpoint {
	return Outpoint{TxHash: strings.ToLower(u.TxHash), Index: u.TxIndex}
}

// Lovelace parses the coin held by the output.
func (u Utxo) Lovelace() (uint64, error) {
	v, err := strconv.ParseUint(u.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: value %q of %s", ErrInvalidUtxo, u.Value, u.Outpoint())
	}
	return v, nil
}

// Assets parses the asset list into a ledger value.
func (u Utxo) Assets() (assets.Assets, error) {
	out := assets.Assets{}
	for _, a := range u.AssetList {
		q, err := strconv.ParseUint(a.Quantity, 10, 64)
		if err != nil {
			return assets.Assets{}, fmt.Errorf(
				"%w: quantity %q of %s", ErrInvalidUtxo, a.Quantity, u.Outpoint(),
			)
		}
		out, err = out.Add(assets.Asset{
			PolicyID:  strings.ToLower(a.PolicyID),
			TokenName: strings.ToLower(a.AssetName),
			Amount:    q,
		})
		if err != nil {
			return assets.Assets{}, fmt.Errorf("%w: %s", err, u.Outpoint())
		}
	}
	return out, nil
}

// HasAssets reports whether the output holds any native token.
func (u Utxo) HasAssets() bool {
	return len(u.AssetList) > 0
}

// ContainsPolicy reports whether the output holds a token of policyID.
func (u Utxo) ContainsPolicy(policyID string) bool {
	for _, a := range u.AssetList {
		if strings.EqualFold(a.PolicyID, policyID) {
			return true
		}
	}
	return false
}

// TokenNameOf returns the name of the first token of policyID.
func (u Utxo) TokenNameOf(policyID string) (string, bool) {
	for _, a := range u.AssetList {
		if strings.EqualFold(a.PolicyID, policyID) {
			return strings.ToLower(a.AssetName), true
		}
	}
	return "", false
}

// Register extracts the stealth register held as inline datum, from the
// detailed JSON form when present, from the CBOR otherwise.
func (u Utxo) Register() (register.Register, error) {
	if u.InlineDatum == nil {
		return register.Register{}, ErrNoInlineDatum
	}
	if len(u.InlineDatum.Value) > 0 && string(u.InlineDatum.Value) != "null" {
		if reg, err := register.FromDatumJSON(u.InlineDatum.Value); err == nil {
			return reg, nil
		}
	}
	raw, err := hex.DecodeString(u.InlineDatum.Bytes)
	if err != nil {
		return register.Register{}, fmt.Errorf("%w: %s", register.ErrInvalidDatum, err)
	}
	return register.FromPlutusData(raw)
}

// IsCollateral reports whether the output looks like a collateral: exactly
// 5 ADA and no tokens.
func IsCollateral(u Utxo) bool {
	v, err := u.Lovelace()
	return err == nil && v == CollateralLovelace && !u.HasAssets()
}

// AssetsOf sums the lovelace and the assets of utxos.
func AssetsOf(utxos []Utxo) (uint64, assets.Assets, error) {
	var lovelace uint64
	found := assets.Assets{}
	for _, u := range utxos {
		v, err := u.Lovelace()
		if err != nil {
			return 0, assets.Assets{}, err
		}
		a, err := u.Assets()
		if err != nil {
			return 0, assets.Assets{}, err
		}
		if lovelace, err = assets.AddAmounts(lovelace, v); err != nil {
			return 0, assets.Assets{}, fmt.Errorf("%w: lovelace", err)
		}
		if found, err = found.Merge(a); err != nil {
			return 0, assets.Assets{}, err
		}
	}
	return lovelace, found, nil
}
