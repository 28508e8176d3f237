package utxo

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

const txHashSize = 32

// Outpoint references a transaction output.
type Outpoint struct {
	TxHash string `json:"tx_hash"`
	Index  uint32 `json:"tx_index"`
}

// String returns txhash#index.
func (o Outpoint) String() string {
	return fmt.Sprintf("%s#%d", o.TxHash, o.Index)
}

// ParseOutpoint parses txhash#index.
func ParseOutpoint(s string) (Outpoint, error) {
	parts := strings.Split(strings.TrimSpace(s), "#")
	if len(parts) != 2 {
		return Outpoint{}, fmt.Errorf("%w: %s", ErrInvalidOutpoint, s)
	}
	hash, err := hex.DecodeString(parts[0])
	if err != nil || len(hash) != txHashSize {
		return Outpoint{}, fmt.Errorf("%w: bad tx hash in %s", ErrInvalidOutpoint, s)
	}
	index, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return Outpoint{}, fmt.Errorf("%w: bad index in %s", ErrInvalidOutpoint, s)
	}
	return Outpoint{TxHash: strings.ToLower(parts[0]), Index: uint32(index)}, nil
}

// ParseOutpoints parses every element of list, failing on the first
// malformed one.
func ParseOutpoints(list []string) ([]Outpoint, error) {
	out := make([]Outpoint, 0, len(list))
	for _, s := range list {
		o, err := ParseOutpoint(s)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// Filter keeps the utxos referenced by outpoints, in utxos order.
func Filter(utxos []Utxo, outpoints []Outpoint) []Utxo {
	wanted := make(map[Outpoint]struct{}, len(outpoints))
	for _, o := range outpoints {
		wanted[o] = struct{}{}
	}
	out := make([]Utxo, 0, len(outpoints))
	for _, u := range utxos {
		if _, ok := wanted[u.Outpoint()]; ok {
			out = append(out, u)
		}
	}
	return out
}
