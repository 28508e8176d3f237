package txbuilder

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/seedelf-network/seedelf-wallet/internal/core/ports"
	"github.com/seedelf-network/seedelf-wallet/pkg/fee"
	"github.com/seedelf-network/seedelf-wallet/pkg/hashing"
)

// ErrInvalidSignature ...
var ErrInvalidSignature = errors.New("invalid vkey witness")

type vkeyWitness struct {
	_         struct{} `cbor:",toarray"`
	VKey      []byte
	Signature []byte
}

type witnessSet struct {
	VKeys     []vkeyWitness   `cbor:"0,keyasint,omitempty"`
	Redeemers cbor.RawMessage `cbor:"5,keyasint,omitempty"`
}

type transaction struct {
	body      cbor.RawMessage
	witnesses witnessSet
	auxData   cbor.RawMessage
	raw       []byte
}

func newTransaction(
	body cbor.RawMessage, witnesses witnessSet, auxData cbor.RawMessage,
) (*transaction, error) {
	tx := &transaction{
		body:      body,
		witnesses: witnesses,
		auxData:   auxData,
	}

	var aux interface{}
	if len(auxData) > 0 {
		aux = auxData
	}
	raw, err := encMode.Marshal([]interface{}{body, witnesses, true, aux})
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction: %w", err)
	}
	tx.raw = raw
	return tx, nil
}

// Bytes ...
func (t *transaction) Bytes() []byte {
	return t.raw
}

// Hash returns the hex encoded blake2b-256 hash of the transaction body.
func (t *transaction) Hash() string {
	return hex.EncodeToString(t.bodyHash())
}

// Sign returns a copy of the transaction witnessed by the given keys.
func (t *transaction) Sign(keys ...ed25519.PrivateKey) (fee.Transaction, error) {
	hash := t.bodyHash()
	witnesses := t.copyWitnesses()
	for _, key := range keys {
		if len(key) != ed25519.PrivateKeySize {
			return nil, ErrInvalidSignature
		}
		witnesses.VKeys = append(witnesses.VKeys, vkeyWitness{
			VKey:      key.Public().(ed25519.PublicKey),
			Signature: ed25519.Sign(key, hash),
		})
	}

	tx, err := newTransaction(t.body, witnesses, t.auxData)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// AddSignature returns a copy of the transaction with an external vkey
// witness. The signature must be valid for the transaction body.
func (t *transaction) AddSignature(
	pubkey ed25519.PublicKey, signature []byte,
) (ports.Transaction, error) {
	if len(pubkey) != ed25519.PublicKeySize ||
		len(signature) != ed25519.SignatureSize {
		return nil, ErrInvalidSignature
	}
	if !ed25519.Verify(pubkey, t.bodyHash(), signature) {
		return nil, fmt.Errorf("%w: signature does not match body", ErrInvalidSignature)
	}

	witnesses := t.copyWitnesses()
	witnesses.VKeys = append(witnesses.VKeys, vkeyWitness{
		VKey:      pubkey,
		Signature: signature,
	})

	tx, err := newTransaction(t.body, witnesses, t.auxData)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func (t *transaction) bodyHash() []byte {
	return hashing.Blake2b256Bytes(t.body)
}

func (t *transaction) copyWitnesses() witnessSet {
	vkeys := make([]vkeyWitness, len(t.witnesses.VKeys))
	copy(vkeys, t.witnesses.VKeys)
	return witnessSet{VKeys: vkeys, Redeemers: t.witnesses.Redeemers}
}
