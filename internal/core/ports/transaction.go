package ports

import (
	"crypto/ed25519"

	"github.com/seedelf-network/seedelf-wallet/pkg/address"
	"github.com/seedelf-network/seedelf-wallet/pkg/fee"
	"github.com/seedelf-network/seedelf-wallet/pkg/utxo"
)

// TxInput is an input of a draft transaction. Inputs locked by the wallet
// contract carry the spend redeemer, key inputs leave it nil.
type TxInput struct {
	Outpoint utxo.Outpoint
	Redeemer []byte
}

// Mint describes the tokens minted (positive amount) or burned (negative
// amount) under a single policy.
type Mint struct {
	PolicyID string
	Assets   map[string]int64
	Redeemer []byte
}

// Draft is everything a TxBuilder needs to serialize a transaction.
// Budgets are given per redeemer, spend redeemers first in canonical input
// order, then the mint redeemer.
type Draft struct {
	Network          address.Network
	Inputs           []TxInput
	ReferenceInputs  []utxo.Outpoint
	Outputs          []fee.Output
	Mint             *Mint
	CollateralInput  *utxo.Outpoint
	CollateralReturn *fee.Output
	RequiredSigners  []string
	Fee              uint64
	Budgets          []fee.ExUnits
	Metadata         []byte
}

// Redeemers returns the number of redeemers of the draft.
func (d *Draft) Redeemers() int {
	n := 0
	for _, in := range d.Inputs {
		if in.Redeemer != nil {
			n++
		}
	}
	if d.Mint != nil && d.Mint.Redeemer != nil {
		n++
	}
	return n
}

// Transaction is a serialized transaction that can be witnessed.
type Transaction interface {
	fee.Transaction
	Hash() string
	AddSignature(pubkey ed25519.PublicKey, signature []byte) (Transaction, error)
}

// TxBuilder serializes a Draft.
type TxBuilder interface {
	Build(draft *Draft) (Transaction, error)
}
