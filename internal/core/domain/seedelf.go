package domain

import (
	"strings"

	"github.com/seedelf-network/seedelf-wallet/pkg/register"
	"github.com/seedelf-network/seedelf-wallet/pkg/utxo"
)

// Seedelf is a cached identity token together with the register datum of
// the UTxO holding it.
type Seedelf struct {
	TokenName string
	Label     string
	TxHash    string
	TxIndex   uint32
	Register  register.Register
	Owned     bool
	UpdatedAt int64
}

// Outpoint ...
func (s Seedelf) Outpoint() utxo.Outpoint {
	return utxo.Outpoint{TxHash: s.TxHash, Index: s.TxIndex}
}

// MatchLabel returns whether the label, or the hex encoded label inside the
// token name, contains the given substring, case-insensitive.
func (s Seedelf) MatchLabel(substring string) bool {
	substring = strings.ToLower(substring)
	return strings.Contains(strings.ToLower(s.Label), substring) ||
		strings.Contains(strings.ToLower(s.TokenName), substring)
}
