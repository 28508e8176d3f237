package application_test

import (
	"context"

	"github.com/seedelf-network/seedelf-wallet/internal/core/ports"
	"github.com/seedelf-network/seedelf-wallet/pkg/fee"
	"github.com/seedelf-network/seedelf-wallet/pkg/utxo"
	"github.com/stretchr/testify/mock"
)

// **** Chain ****

type mockChain struct {
	mock.Mock
}

func (m *mockChain) Tip(ctx context.Context) (*ports.Tip, error) {
	args := m.Called(ctx)

	var res *ports.Tip
	if a := args.Get(0); a != nil {
		res = a.(*ports.Tip)
	}
	return res, args.Error(1)
}

func (m *mockChain) CredentialUtxos(
	ctx context.Context, paymentCredential string,
) ([]utxo.Utxo, error) {
	args := m.Called(ctx, paymentCredential)

	var res []utxo.Utxo
	if a := args.Get(0); a != nil {
		res = a.([]utxo.Utxo)
	}
	return res, args.Error(1)
}

func (m *mockChain) AddressUtxos(
	ctx context.Context, address string,
) ([]utxo.Utxo, error) {
	args := m.Called(ctx, address)

	var res []utxo.Utxo
	if a := args.Get(0); a != nil {
		res = a.([]utxo.Utxo)
	}
	return res, args.Error(1)
}

func (m *mockChain) UtxoInfo(
	ctx context.Context, outpoints []utxo.Outpoint,
) ([]utxo.Utxo, error) {
	args := m.Called(ctx, outpoints)

	var res []utxo.Utxo
	if a := args.Get(0); a != nil {
		res = a.([]utxo.Utxo)
	}
	return res, args.Error(1)
}

func (m *mockChain) TxMetadata(
	ctx context.Context, txHashes []string,
) ([]ports.TxMetadata, error) {
	args := m.Called(ctx, txHashes)

	var res []ports.TxMetadata
	if a := args.Get(0); a != nil {
		res = a.([]ports.TxMetadata)
	}
	return res, args.Error(1)
}

func (m *mockChain) Evaluate(
	ctx context.Context, tx []byte,
) ([]fee.ExUnits, error) {
	args := m.Called(ctx, tx)

	var res []fee.ExUnits
	if a := args.Get(0); a != nil {
		res = a.([]fee.ExUnits)
	}
	return res, args.Error(1)
}

func (m *mockChain) Submit(ctx context.Context, tx []byte) (string, error) {
	args := m.Called(ctx, tx)

	var res string
	if a := args.Get(0); a != nil {
		res = a.(string)
	}
	return res, args.Error(1)
}

// **** Collateral provider ****

type mockCollateral struct {
	mock.Mock
}

// Witness accepts either a fixed signature or a function computing it from
// the transaction as return value.
func (m *mockCollateral) Witness(
	ctx context.Context, tx []byte,
) ([]byte, error) {
	args := m.Called(ctx, tx)

	var res []byte
	switch a := args.Get(0).(type) {
	case []byte:
		res = a
	case func([]byte) []byte:
		res = a(tx)
	}
	return res, args.Error(1)
}
