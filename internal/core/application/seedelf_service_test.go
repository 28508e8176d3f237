package application_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/seedelf-network/seedelf-wallet/internal/core/application"
	"github.com/seedelf-network/seedelf-wallet/internal/core/domain"
	"github.com/seedelf-network/seedelf-wallet/internal/core/ports"
	dbbadger "github.com/seedelf-network/seedelf-wallet/internal/infrastructure/storage/db/badger"
	"github.com/seedelf-network/seedelf-wallet/pkg/fee"
	"github.com/seedelf-network/seedelf-wallet/pkg/seedelf"
	"github.com/seedelf-network/seedelf-wallet/pkg/utxo"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSeedelfService(
	t *testing.T, chain *mockChain, collateral *mockCollateral,
) application.SeedelfService {
	repoManager, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)
	t.Cleanup(repoManager.Close)

	svc, err := application.NewSeedelfService(
		repoManager.SeedelfRepository(), newEnvironment(t, chain, collateral),
	)
	require.NoError(t, err)
	return svc
}

func TestFindSeedelfs(t *testing.T) {
	sk, other := newScalar(7), newScalar(11)
	cfg := newConfig(t)
	alice, bob := tokenName("alice", 1), tokenName("bob", 2)

	utxos := []utxo.Utxo{
		walletUtxo(t, 1, ownedRegister(t, sk), 1_800_000, seedelfToken(t, alice)),
		walletUtxo(t, 2, ownedRegister(t, other), 1_800_000, seedelfToken(t, bob)),
		walletUtxo(t, 3, ownedRegister(t, sk), 4_000_000),
	}

	chain := &mockChain{}
	chain.On("CredentialUtxos", mock.Anything, cfg.WalletContractHash).
		Return(utxos, nil).Times(4)
	chain.On("CredentialUtxos", mock.Anything, cfg.WalletContractHash).
		Return(nil, fmt.Errorf("%w: timeout", ports.ErrChainQuery))
	svc := newSeedelfService(t, chain, nil)

	found, err := svc.Find(ctx, fmt.Sprintf("%x", "alice"))
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, alice, found[0].TokenName)

	found, err = svc.Find(ctx, strings.ToUpper("5eed0e1f"))
	require.NoError(t, err)
	require.Len(t, found, 2)

	session := domain.NewSession("main", sk)
	defer session.Release()

	owned, err := svc.Owned(ctx, session)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	require.Equal(t, alice, owned[0].TokenName)

	resolved, err := svc.Resolve(ctx, bob)
	require.NoError(t, err)
	require.Equal(t, txHash(2), resolved.TxHash)
	require.False(t, resolved.Owned)

	// The chain is now unreachable, the cache answers.
	resolved, err = svc.Resolve(ctx, alice)
	require.NoError(t, err)
	require.True(t, resolved.Owned)

	_, err = svc.Resolve(ctx, tokenName("carol", 9))
	require.ErrorIs(t, err, domain.ErrSeedelfNotFound)

	cached, err := svc.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, cached, 1)
}

func TestCreateSeedelf(t *testing.T) {
	sk := newScalar(7)
	addr := keyAddress(t)

	chain := &mockChain{}
	chain.On("AddressUtxos", mock.Anything, addr).Return([]utxo.Utxo{
		keyUtxo(1, utxo.CollateralLovelace),
		keyUtxo(2, 20_000_000),
	}, nil)
	chain.On("Evaluate", mock.Anything, mock.Anything).Return(budgets(1), nil)
	svc := newSeedelfService(t, chain, nil)

	session := domain.NewSession("main", sk)
	defer session.Release()

	plan, err := svc.Create(ctx, session, addr, "alice")
	require.NoError(t, err)
	require.NotNil(t, plan)
	require.False(t, plan.Signed)
	require.False(t, plan.Submitted)
	require.True(t, strings.HasPrefix(
		plan.TokenName, seedelf.TokenPrefix+fmt.Sprintf("%x", "alice"),
	))
	require.Equal(t, []utxo.Outpoint{{TxHash: txHash(2)}}, plan.Inputs)

	tx := decodeTx(t, plan.TxCbor)
	require.Contains(t, tx.body, uint64(9))
	require.Contains(t, tx.body, uint64(13))
	require.Equal(t, 1, tx.numOfRedeemers(t))
	require.Zero(t, tx.numOfVKeys(t))

	outputs := tx.outputs(t)
	require.Len(t, outputs, 2)
	minimum, err := fee.DefaultParams().SeedelfMinimumLovelace()
	require.NoError(t, err)
	require.Equal(t, minimum, outputs[0].lovelace(t))
	require.True(t, isOwnedBy(t, outputs[0].register(t), sk))

	created, err := svc.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, created, 1)
	require.Equal(t, "alice", created[0].Label)
}

func TestFailingCreateSeedelf(t *testing.T) {
	sk := newScalar(7)
	addr := keyAddress(t)
	session := domain.NewSession("main", sk)
	defer session.Release()

	t.Run("missing collateral", func(t *testing.T) {
		chain := &mockChain{}
		chain.On("AddressUtxos", mock.Anything, addr).Return([]utxo.Utxo{
			keyUtxo(2, 20_000_000),
		}, nil)
		svc := newSeedelfService(t, chain, nil)

		_, err := svc.Create(ctx, session, addr, "alice")
		require.ErrorIs(t, err, application.ErrMissingCollateral)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		chain := &mockChain{}
		chain.On("AddressUtxos", mock.Anything, addr).Return([]utxo.Utxo{
			keyUtxo(1, utxo.CollateralLovelace),
			keyUtxo(2, 1_000_000),
		}, nil)
		svc := newSeedelfService(t, chain, nil)

		_, err := svc.Create(ctx, session, addr, "alice")
		require.ErrorIs(t, err, utxo.ErrInsufficientFunds)
	})

	t.Run("script address", func(t *testing.T) {
		walletAddr, err := newConfig(t).WalletAddress()
		require.NoError(t, err)
		svc := newSeedelfService(t, &mockChain{}, nil)

		_, err = svc.Create(ctx, session, walletAddr.String(), "alice")
		require.ErrorIs(t, err, application.ErrInvalidAddress)
	})
}

func TestRemoveSeedelf(t *testing.T) {
	sk, other := newScalar(7), newScalar(11)
	cfg := newConfig(t)
	addr := keyAddress(t)
	alice, bob := tokenName("alice", 1), tokenName("bob", 2)

	utxos := []utxo.Utxo{
		walletUtxo(t, 1, ownedRegister(t, sk), 3_000_000, seedelfToken(t, alice)),
		walletUtxo(t, 2, ownedRegister(t, other), 3_000_000, seedelfToken(t, bob)),
	}

	chain := &mockChain{}
	chain.On("CredentialUtxos", mock.Anything, cfg.WalletContractHash).
		Return(utxos, nil)
	chain.On("Evaluate", mock.Anything, mock.Anything).Return(budgets(2), nil)
	chain.On("Submit", mock.Anything, mock.Anything).Return("txid", nil)
	collateral := &mockCollateral{}
	collateral.On("Witness", mock.Anything, mock.Anything).
		Return(signWithCollateral, nil)
	svc := newSeedelfService(t, chain, collateral)

	session := domain.NewSession("main", sk)
	defer session.Release()

	_, err := svc.Remove(ctx, session, bob, addr)
	require.ErrorIs(t, err, application.ErrNotOwner)

	_, err = svc.Remove(ctx, session, tokenName("carol", 3), addr)
	require.ErrorIs(t, err, domain.ErrSeedelfNotFound)

	plan, err := svc.Remove(ctx, session, alice, addr)
	require.NoError(t, err)
	require.True(t, plan.Signed)
	require.True(t, plan.Submitted)

	tx := decodeTx(t, plan.TxCbor)
	require.Equal(t, 2, tx.numOfVKeys(t))
	require.Equal(t, 2, tx.numOfRedeemers(t))
	require.Contains(t, tx.body, uint64(9))
	require.Contains(t, tx.body, uint64(14))

	outputs := tx.outputs(t)
	require.Len(t, outputs, 1)
	require.Equal(t, 3_000_000-plan.Fee.Total, outputs[0].lovelace(t))

	chain.AssertNumberOfCalls(t, "Submit", 1)
	collateral.AssertNumberOfCalls(t, "Witness", 1)
}
