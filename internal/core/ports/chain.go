package ports

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/seedelf-network/seedelf-wallet/pkg/fee"
	"github.com/seedelf-network/seedelf-wallet/pkg/utxo"
)

// ErrChainQuery is wrapped by every failure of a chain data source.
var ErrChainQuery = errors.New("chain query failure")

// Tip is the latest block known by the chain data source.
type Tip struct {
	Hash      string `json:"hash"`
	EpochNo   uint64 `json:"epoch_no"`
	AbsSlot   uint64 `json:"abs_slot"`
	EpochSlot uint64 `json:"epoch_slot"`
	BlockNo   uint64 `json:"block_no"`
	BlockTime uint64 `json:"block_time"`
}

// TxMetadata is the auxiliary data of a transaction, keyed by label.
type TxMetadata struct {
	TxHash   string                     `json:"tx_hash"`
	Metadata map[string]json.RawMessage `json:"metadata"`
}

// ChainQuery is the read/submit surface of the blockchain used by the
// application services.
type ChainQuery interface {
	Tip(ctx context.Context) (*Tip, error)
	CredentialUtxos(ctx context.Context, paymentCredential string) ([]utxo.Utxo, error)
	AddressUtxos(ctx context.Context, address string) ([]utxo.Utxo, error)
	UtxoInfo(ctx context.Context, outpoints []utxo.Outpoint) ([]utxo.Utxo, error)
	TxMetadata(ctx context.Context, txHashes []string) ([]TxMetadata, error)
	Evaluate(ctx context.Context, tx []byte) ([]fee.ExUnits, error)
	Submit(ctx context.Context, tx []byte) (string, error)
}

// CollateralWitnesser asks the collateral provider to sign a transaction
// spending its collateral UTxO. The returned value is the 64 bytes ed25519
// signature of the transaction body.
type CollateralWitnesser interface {
	Witness(ctx context.Context, tx []byte) ([]byte, error)
}
