// Package assets implements multiset arithmetic over native multi-asset
// values. Every operation returns a new value and prunes zero amounts.
package assets

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	// PolicyIDSize is the byte length of a minting policy hash.
	PolicyIDSize = 28
	// MaxTokenNameSize is the longest token name accepted by the ledger.
	MaxTokenNameSize = 32
)

var (
	// ErrInvalidPolicyID is returned for policy ids that are not 28 bytes of
	// hex.
	ErrInvalidPolicyID = errors.New("invalid policy id")
	// ErrInvalidTokenName is returned for token names that are not hex or
	// exceed 32 bytes.
	ErrInvalidTokenName = errors.New("invalid token name")
	// ErrInvalidAssetID is returned when an asset id is shorter than a policy
	// id.
	ErrInvalidAssetID = errors.New("invalid asset id")
	// ErrAmountOverflow is returned when a sum of amounts does not fit in 64
	// bits.
	ErrAmountOverflow = errors.New("asset amount overflows uint64")
)

// Asset is a quantity of a native token, identified by its hex encoded
// policy id and token name.
type Asset struct {
	PolicyID  string `json:"policy_id"`
	TokenName string `json:"token_name"`
	Amount    uint64 `json:"amount"`
}

// NewAsset validates and normalizes the hex fields of an asset.
func NewAsset(policyID, tokenName string, amount uint64) (Asset, error) {
	policyID, tokenName = strings.ToLower(policyID), strings.ToLower(tokenName)

	pid, err := hex.DecodeString(policyID)
	if err != nil || len(pid) != PolicyIDSize {
		return Asset{}, fmt.Errorf("%w: %s", ErrInvalidPolicyID, policyID)
	}
	name, err := hex.DecodeString(tokenName)
	if err != nil || len(name) > MaxTokenNameSize {
		return Asset{}, fmt.Errorf("%w: %s", ErrInvalidTokenName, tokenName)
	}

	return Asset{PolicyID: policyID, TokenName: tokenName, Amount: amount}, nil
}

// AssetIDToAsset splits a concatenated policy id ‖ token name into an asset.
func AssetIDToAsset(assetID string, amount uint64) (Asset, error) {
	if len(assetID) < 2*PolicyIDSize {
		return Asset{}, fmt.Errorf("%w: %s", ErrInvalidAssetID, assetID)
	}
	return NewAsset(assetID[:2*PolicyIDSize], assetID[2*PolicyIDSize:], amount)
}

// ID returns policy id ‖ token name.
func (a Asset) ID() string {
	return a.PolicyID + a.TokenName
}

func (a Asset) key() key {
	return key{a.PolicyID, a.TokenName}
}

type key struct {
	policyID  string
	tokenName string
}

// Assets is an ordered multiset of assets without duplicate keys.
type Assets struct {
	items []Asset
}

// New builds an Assets value, combining entries that share a key.
func New(items ...Asset) (Assets, error) {
	out := Assets{}
	for _, a := range items {
		var err error
		if out, err = out.Add(a); err != nil {
			return Assets{}, err
		}
	}
	return out, nil
}

// Items returns a copy of the entries in insertion order.
func (a Assets) Items() []Asset {
	return append([]Asset(nil), a.items...)
}

// Len returns the number of distinct entries.
func (a Assets) Len() int {
	return len(a.items)
}

// IsEmpty ...
func (a Assets) IsEmpty() bool {
	return len(a.items) == 0
}

// Add sums other into the matching entry, inserting it when missing.
func (a Assets) Add(other Asset) (Assets, error) {
	items := a.Items()
	if i, ok := a.index()[other.key()]; ok {
		sum, err := AddAmounts(items[i].Amount, other.Amount)
		if err != nil {
			return Assets{}, fmt.Errorf("%w: %s", err, other.ID())
		}
		items[i].Amount = sum
	} else {
		items = append(items, other)
	}
	return Assets{items}.pruned(), nil
}

// Sub subtracts other from the matching entry, saturating at zero. An
// unmatched key is inserted as is.
func (a Assets) Sub(other Asset) Assets {
	items := a.Items()
	if i, ok := a.index()[other.key()]; ok {
		if items[i].Amount > other.Amount {
			items[i].Amount -= other.Amount
		} else {
			items[i].Amount = 0
		}
	} else {
		items = append(items, other)
	}
	return Assets{items}.pruned()
}

// Contains reports whether every entry of other is present here with at
// least the same amount.
func (a Assets) Contains(other Assets) bool {
	index := a.index()
	for _, o := range other.items {
		i, ok := index[o.key()]
		if !ok || a.items[i].Amount < o.Amount {
			return false
		}
	}
	return true
}

// Any reports whether at least one key of other is present here. An empty
// other is always matched.
func (a Assets) Any(other Assets) bool {
	if other.IsEmpty() {
		return true
	}
	index := a.index()
	for _, o := range other.items {
		if _, ok := index[o.key()]; ok {
			return true
		}
	}
	return false
}

// Merge is the multiset union of a and other.
func (a Assets) Merge(other Assets) (Assets, error) {
	out := a
	for _, o := range other.items {
		var err error
		if out, err = out.Add(o); err != nil {
			return Assets{}, err
		}
	}
	return out, nil
}

// Separate subtracts every entry of other from a.
func (a Assets) Separate(other Assets) Assets {
	out := a
	for _, o := range other.items {
		out = out.Sub(o)
	}
	return out
}

// Split chunks the entries into groups of at most k, preserving order.
func (a Assets) Split(k int) []Assets {
	if k <= 0 {
		k = 1
	}
	chunks := make([]Assets, 0, (len(a.items)+k-1)/k)
	for i := 0; i < len(a.items); i += k {
		end := i + k
		if end > len(a.items) {
			end = len(a.items)
		}
		chunks = append(chunks, Assets{append([]Asset(nil), a.items[i:end]...)})
	}
	return chunks
}

// QuantityOf returns the amount held for the given key, if any.
func (a Assets) QuantityOf(policyID, tokenName string) (uint64, bool) {
	k := key{strings.ToLower(policyID), strings.ToLower(tokenName)}
	if i, ok := a.index()[k]; ok {
		return a.items[i].Amount, true
	}
	return 0, false
}

// PolicyIDs returns the distinct policy ids in first-seen order.
func (a Assets) PolicyIDs() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, item := range a.items {
		if _, ok := seen[item.PolicyID]; ok {
			continue
		}
		seen[item.PolicyID] = struct{}{}
		out = append(out, item.PolicyID)
	}
	return out
}

// ContainsPolicy reports whether any entry is minted by policyID.
func (a Assets) ContainsPolicy(policyID string) bool {
	policyID = strings.ToLower(policyID)
	for _, item := range a.items {
		if item.PolicyID == policyID {
			return true
		}
	}
	return false
}

// ByPolicy groups token name → amount under each policy id.
func (a Assets) ByPolicy() map[string]map[string]uint64 {
	out := make(map[string]map[string]uint64)
	for _, item := range a.items {
		if _, ok := out[item.PolicyID]; !ok {
			out[item.PolicyID] = make(map[string]uint64)
		}
		out[item.PolicyID][item.TokenName] = item.Amount
	}
	return out
}

func (a Assets) index() map[key]int {
	index := make(map[key]int, len(a.items))
	for i, item := range a.items {
		index[item.key()] = i
	}
	return index
}

func (a Assets) pruned() Assets {
	items := make([]Asset, 0, len(a.items))
	for _, item := range a.items {
		if item.Amount > 0 {
			items = append(items, item)
		}
	}
	return Assets{items}
}

// AddAmounts returns x + y, failing instead of wrapping around.
func AddAmounts(x, y uint64) (uint64, error) {
	if x > math.MaxUint64-y {
		return 0, ErrAmountOverflow
	}
	return x + y, nil
}
