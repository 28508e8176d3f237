package application

import (
	"fmt"

	"github.com/seedelf-network/seedelf-wallet/internal/core/ports"
	"github.com/seedelf-network/seedelf-wallet/pkg/address"
	"github.com/seedelf-network/seedelf-wallet/pkg/assets"
	"github.com/seedelf-network/seedelf-wallet/pkg/fee"
	"github.com/seedelf-network/seedelf-wallet/pkg/seedelf"
	"github.com/seedelf-network/seedelf-wallet/pkg/utxo"
)

// Environment gathers the collaborators shared by the services.
type Environment struct {
	Config     *seedelf.Config
	Params     fee.Params
	Chain      ports.ChainQuery
	Collateral ports.CollateralWitnesser
	Builder    ports.TxBuilder
	// MaxSelectionIterations defaults to utxo.DefaultMaxIterations.
	MaxSelectionIterations int
}

func (e Environment) validate() error {
	if e.Config == nil || e.Chain == nil || e.Builder == nil {
		return ErrInvalidEnvironment
	}
	return nil
}

// Plan is a converged transaction, ready to be signed or already submitted.
type Plan struct {
	ID     string
	TxHash string
	TxCbor string
	Fee    fee.Breakdown
	Inputs []utxo.Outpoint
	// Signed is false for transactions that still need the signature of the
	// funding address.
	Signed    bool
	Submitted bool
	// TokenName is set by operations minting or burning a seedelf.
	TokenName string
}

// Balance is the spendable content of a wallet.
type Balance struct {
	Utxos    int
	Lovelace uint64
	Assets   assets.Assets
	Seedelfs []string
}

// FundRequest moves funds from a key address into the wallet contract,
// to the stealth register of a seedelf.
type FundRequest struct {
	Address   string
	TokenName string
	// Lovelace defaults to the minimum required by the output.
	Lovelace uint64
	Assets   assets.Assets
}

// TransferRequest moves funds from the session wallet to a seedelf.
type TransferRequest struct {
	TokenName string
	Lovelace  uint64
	Assets    assets.Assets
	// Message is sent encrypted to the recipient when not empty.
	Message string
}

// SweepRequest moves funds from the session wallet out to a key address.
type SweepRequest struct {
	Address  string
	Lovelace uint64
	Assets   assets.Assets
	// All spends every owned UTxO, ignoring Lovelace and Assets.
	All bool
}

// Message is a decrypted message found in the wallet.
type Message struct {
	Outpoint utxo.Outpoint
	Text     string
}

func decodeKeyAddress(addr string, network address.Network) (*address.Address, error) {
	a, err := address.Decode(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAddress, err)
	}
	if !a.IsOnNetwork(network) {
		return nil, fmt.Errorf("%w: not a %s address", ErrInvalidAddress, network)
	}
	if a.IsScript() {
		return nil, fmt.Errorf("%w: script address", ErrInvalidAddress)
	}
	return a, nil
}
