// Package seedelf names identity tokens and encodes the redeemers of the
// wallet contract and the identity token policy.
package seedelf

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"

	"github.com/fxamacker/cbor/v2"
	"github.com/seedelf-network/seedelf-wallet/pkg/plutus"
	"github.com/seedelf-network/seedelf-wallet/pkg/utxo"
)

const (
	// TokenPrefix starts every identity token name.
	TokenPrefix = "5eed0e1f"

	maxLabelHex     = 30
	maxTokenNameHex = 64
)

var (
	// ErrNoInputs is returned when naming a token without any input to
	// derive uniqueness from.
	ErrNoInputs = errors.New("no inputs to derive the token name from")
	// ErrInvalidHex ...
	ErrInvalidHex = errors.New("invalid hex")
)

// TokenName derives the identity token name from a label and the inputs of
// the minting transaction. Only the smallest input by (tx hash, index)
// counts, so the name does not depend on input order.
func TokenName(label string, inputs []utxo.Outpoint) (string, error) {
	if len(inputs) == 0 {
		return "", ErrNoInputs
	}

	type keyed struct {
		hash  []byte
		index uint32
	}
	keys := make([]keyed, 0, len(inputs))
	for _, in := range inputs {
		h, err := hex.DecodeString(in.TxHash)
		if err != nil {
			return "", fmt.Errorf("%w: tx hash %s", ErrInvalidHex, in.TxHash)
		}
		keys = append(keys, keyed{h, in.Index})
	}
	sort.Slice(keys, func(i, j int) bool {
		if c := bytes.Compare(keys[i].hash, keys[j].hash); c != 0 {
			return c < 0
		}
		return keys[i].index < keys[j].index
	})
	smallest := keys[0]

	name := fmt.Sprintf(
		"%s%s%02x%x", TokenPrefix, labelHex(label), smallest.index, smallest.hash,
	)
	if len(name) > maxTokenNameHex {
		name = name[:maxTokenNameHex]
	}
	return name, nil
}

// SpendRedeemer is the wallet contract redeemer: Constr 0 [z, g^r, pkh].
func SpendRedeemer(z, gr, pkh string) ([]byte, error) {
	fields := make([]cbor.RawMessage, 0, 3)
	for _, f := range []string{z, gr, pkh} {
		b, err := hex.DecodeString(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidHex, f)
		}
		fields = append(fields, plutus.Bytes(b))
	}
	return plutus.Constr(0, fields...)
}

// MintRedeemer is the identity policy redeemer, the hex label truncated to
// 15 bytes. An empty label burns.
func MintRedeemer(label string) []byte {
	b, _ := hex.DecodeString(labelHex(label))
	return plutus.Bytes(b)
}

// IsSeedelf reports whether u holds an identity token of policyID.
func IsSeedelf(u utxo.Utxo, policyID string) bool {
	return u.ContainsPolicy(policyID)
}

// FindTokenName returns the identity token name held by u.
func FindTokenName(u utxo.Utxo, policyID string) (string, bool) {
	return u.TokenNameOf(policyID)
}

func labelHex(label string) string {
	h := hex.EncodeToString([]byte(label))
	if len(h) > maxLabelHex {
		h = h[:maxLabelHex]
	}
	return h
}
