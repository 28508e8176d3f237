package txbuilder

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/seedelf-network/seedelf-wallet/internal/core/ports"
	"github.com/seedelf-network/seedelf-wallet/pkg/fee"
	"github.com/seedelf-network/seedelf-wallet/pkg/hashing"
	"github.com/seedelf-network/seedelf-wallet/pkg/utxo"
)

const (
	spendTag = 0
	mintTag  = 1

	keyHashSize = 28
)

var (
	// ErrNullDraft ...
	ErrNullDraft = errors.New("draft must not be null")
	// ErrMissingInputs ...
	ErrMissingInputs = errors.New("draft must have at least one input")
	// ErrMissingOutputs ...
	ErrMissingOutputs = errors.New("draft must have at least one output")
	// ErrBudgetsMismatch is returned when the number of budgets differs from
	// the number of redeemers.
	ErrBudgetsMismatch = errors.New("number of budgets does not match redeemers")
	// ErrMissingCollateral is returned for a script transaction without a
	// collateral input.
	ErrMissingCollateral = errors.New("script transactions require a collateral input")
	// ErrInvalidKeyHash ...
	ErrInvalidKeyHash = errors.New("invalid required signer key hash")
)

var encMode cbor.EncMode

func init() {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	encMode = em
}

type txInput struct {
	_      struct{} `cbor:",toarray"`
	TxHash []byte
	Index  uint32
}

type txBody struct {
	Inputs           []txInput                                     `cbor:"0,keyasint"`
	Outputs          []fee.Output                                  `cbor:"1,keyasint"`
	Fee              uint64                                        `cbor:"2,keyasint"`
	AuxDataHash      []byte                                        `cbor:"7,keyasint,omitempty"`
	Mint             map[cbor.ByteString]map[cbor.ByteString]int64 `cbor:"9,keyasint,omitempty"`
	ScriptDataHash   []byte                                        `cbor:"11,keyasint,omitempty"`
	Collateral       []txInput                                     `cbor:"13,keyasint,omitempty"`
	RequiredSigners  [][]byte                                      `cbor:"14,keyasint,omitempty"`
	CollateralReturn *fee.Output                                   `cbor:"16,keyasint,omitempty"`
	ReferenceInputs  []txInput                                     `cbor:"18,keyasint,omitempty"`
}

type exUnits struct {
	_     struct{} `cbor:",toarray"`
	Mem   uint64
	Steps uint64
}

type redeemer struct {
	_       struct{} `cbor:",toarray"`
	Tag     uint8
	Index   uint32
	Data    cbor.RawMessage
	ExUnits exUnits
}

type builder struct{}

// NewTxBuilder returns a TxBuilder serializing Conway era transactions.
func NewTxBuilder() ports.TxBuilder {
	return builder{}
}

// Build serializes the draft into an unsigned transaction. Inputs are
// sorted by tx hash and index, spend redeemers point to the sorted position
// of their input.
func (b builder) Build(draft *ports.Draft) (ports.Transaction, error) {
	if draft == nil {
		return nil, ErrNullDraft
	}
	if len(draft.Inputs) <= 0 {
		return nil, ErrMissingInputs
	}
	if len(draft.Outputs) <= 0 {
		return nil, ErrMissingOutputs
	}

	numOfRedeemers := draft.Redeemers()
	if len(draft.Budgets) != numOfRedeemers {
		return nil, fmt.Errorf(
			"%w: got %d budgets for %d redeemers",
			ErrBudgetsMismatch, len(draft.Budgets), numOfRedeemers,
		)
	}
	if numOfRedeemers > 0 && draft.CollateralInput == nil {
		return nil, ErrMissingCollateral
	}

	inputs := sortInputs(draft.Inputs)
	body := txBody{
		Outputs: draft.Outputs,
		Fee:     draft.Fee,
	}

	var err error
	if body.Inputs, err = encodeInputs(outpointsOf(inputs)); err != nil {
		return nil, err
	}
	if body.ReferenceInputs, err = encodeInputs(draft.ReferenceInputs); err != nil {
		return nil, err
	}
	if draft.CollateralInput != nil {
		if body.Collateral, err = encodeInputs(
			[]utxo.Outpoint{*draft.CollateralInput},
		); err != nil {
			return nil, err
		}
	}
	body.CollateralReturn = draft.CollateralReturn

	for _, signer := range draft.RequiredSigners {
		keyHash, err := hex.DecodeString(signer)
		if err != nil || len(keyHash) != keyHashSize {
			return nil, fmt.Errorf("%w: %s", ErrInvalidKeyHash, signer)
		}
		body.RequiredSigners = append(body.RequiredSigners, keyHash)
	}

	if draft.Mint != nil {
		if body.Mint, err = encodeMint(draft.Mint); err != nil {
			return nil, err
		}
	}

	var redeemers cbor.RawMessage
	if numOfRedeemers > 0 {
		if redeemers, err = encodeRedeemers(inputs, draft.Mint, draft.Budgets); err != nil {
			return nil, err
		}
		if body.ScriptDataHash, err = scriptDataHash(redeemers); err != nil {
			return nil, err
		}
	}

	var auxData cbor.RawMessage
	if len(draft.Metadata) > 0 {
		auxData = cbor.RawMessage(draft.Metadata)
		body.AuxDataHash = hashing.Blake2b256Bytes(draft.Metadata)
	}

	rawBody, err := encMode.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction body: %w", err)
	}

	tx, err := newTransaction(rawBody, witnessSet{Redeemers: redeemers}, auxData)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func sortInputs(inputs []ports.TxInput) []ports.TxInput {
	sorted := make([]ports.TxInput, len(inputs))
	copy(sorted, inputs)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Outpoint, sorted[j].Outpoint
		ha, hb := strings.ToLower(a.TxHash), strings.ToLower(b.TxHash)
		if ha != hb {
			return ha < hb
		}
		return a.Index < b.Index
	})
	return sorted
}

func outpointsOf(inputs []ports.TxInput) []utxo.Outpoint {
	outpoints := make([]utxo.Outpoint, 0, len(inputs))
	for _, in := range inputs {
		outpoints = append(outpoints, in.Outpoint)
	}
	return outpoints
}

func encodeInputs(outpoints []utxo.Outpoint) ([]txInput, error) {
	if len(outpoints) <= 0 {
		return nil, nil
	}
	inputs := make([]txInput, 0, len(outpoints))
	for _, o := range outpoints {
		hash, err := hex.DecodeString(o.TxHash)
		if err != nil || len(hash) != 32 {
			return nil, fmt.Errorf("%w: %s", utxo.ErrInvalidOutpoint, o)
		}
		inputs = append(inputs, txInput{TxHash: hash, Index: o.Index})
	}
	return inputs, nil
}

func encodeMint(mint *ports.Mint) (map[cbor.ByteString]map[cbor.ByteString]int64, error) {
	policy, err := hex.DecodeString(mint.PolicyID)
	if err != nil || len(policy) != keyHashSize {
		return nil, fmt.Errorf("invalid mint policy id %s", mint.PolicyID)
	}
	names := make(map[cbor.ByteString]int64, len(mint.Assets))
	for name, amount := range mint.Assets {
		n, err := hex.DecodeString(name)
		if err != nil {
			return nil, fmt.Errorf("invalid mint token name %s", name)
		}
		names[cbor.ByteString(n)] = amount
	}
	return map[cbor.ByteString]map[cbor.ByteString]int64{
		cbor.ByteString(policy): names,
	}, nil
}

// encodeRedeemers returns the redeemers in their list form, spends first
// then the mint, consuming budgets in that same order.
func encodeRedeemers(
	inputs []ports.TxInput, mint *ports.Mint, budgets []fee.ExUnits,
) (cbor.RawMessage, error) {
	list := make([]redeemer, 0, len(budgets))
	for i, in := range inputs {
		if in.Redeemer == nil {
			continue
		}
		budget := budgets[len(list)]
		list = append(list, redeemer{
			Tag:     spendTag,
			Index:   uint32(i),
			Data:    in.Redeemer,
			ExUnits: exUnits{Mem: budget.Mem, Steps: budget.Steps},
		})
	}
	if mint != nil && mint.Redeemer != nil {
		budget := budgets[len(list)]
		list = append(list, redeemer{
			Tag:     mintTag,
			Index:   0,
			Data:    mint.Redeemer,
			ExUnits: exUnits{Mem: budget.Mem, Steps: budget.Steps},
		})
	}
	return encMode.Marshal(list)
}

// scriptDataHash hashes redeemers and the PlutusV3 language view. No datum
// is ever attached to the witness set, so the datums part is omitted.
func scriptDataHash(redeemers []byte) ([]byte, error) {
	views, err := encMode.Marshal(map[uint64][]int64{
		plutusV3Language: plutusV3CostModel,
	})
	if err != nil {
		return nil, err
	}
	preimage := make([]byte, 0, len(redeemers)+len(views))
	preimage = append(preimage, redeemers...)
	preimage = append(preimage, views...)
	return hashing.Blake2b256Bytes(preimage), nil
}
