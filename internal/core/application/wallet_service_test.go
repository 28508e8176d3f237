package application_test

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/seedelf-network/seedelf-wallet/internal/core/application"
	"github.com/seedelf-network/seedelf-wallet/internal/core/domain"
	dbbadger "github.com/seedelf-network/seedelf-wallet/internal/infrastructure/storage/db/badger"
	"github.com/seedelf-network/seedelf-wallet/pkg/utxo"
	"github.com/seedelf-network/seedelf-wallet/pkg/wallet"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newWalletService(
	t *testing.T, chain *mockChain,
) application.WalletService {
	repoManager, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)
	t.Cleanup(repoManager.Close)

	svc, err := application.NewWalletService(
		repoManager.WalletRepository(), newEnvironment(t, chain, nil),
	)
	require.NoError(t, err)
	return svc
}

func TestCreateAndUnlockWallet(t *testing.T) {
	svc := newWalletService(t, &mockChain{})

	err := svc.CreateWallet(ctx, "main", passphrase)
	require.NoError(t, err)

	err = svc.CreateWallet(ctx, "main", passphrase)
	require.ErrorIs(t, err, domain.ErrWalletAlreadyExists)

	session, err := svc.Unlock(ctx, "main", passphrase)
	require.NoError(t, err)
	require.NotNil(t, session)
	require.Equal(t, "main", session.WalletName)
	session.Release()

	_, err = svc.Unlock(ctx, "main", "Wr0ng$Passphrase!")
	require.ErrorIs(t, err, domain.ErrInvalidPassphrase)

	_, err = svc.Unlock(ctx, "other", passphrase)
	require.ErrorIs(t, err, domain.ErrWalletNotFound)

	wallets, err := svc.ListWallets(ctx)
	require.NoError(t, err)
	require.Len(t, wallets, 1)
}

func TestRestoreWallet(t *testing.T) {
	svc := newWalletService(t, &mockChain{})

	mnemonic, err := svc.GenSeed(ctx)
	require.NoError(t, err)
	require.Len(t, mnemonic, 24)

	err = svc.RestoreWallet(ctx, "restored", mnemonic, passphrase)
	require.NoError(t, err)

	expected, err := wallet.ScalarFromMnemonic(mnemonic)
	require.NoError(t, err)

	session, err := svc.Unlock(ctx, "restored", passphrase)
	require.NoError(t, err)
	defer session.Release()

	err = session.WithKey(func(sk fr.Element) error {
		require.True(t, sk.Equal(&expected))
		return nil
	})
	require.NoError(t, err)
}

func TestFailingCreateWallet(t *testing.T) {
	svc := newWalletService(t, &mockChain{})

	tests := []struct {
		name        string
		walletName  string
		passphrase  string
		expectedErr error
	}{
		{
			name:        "weak passphrase",
			walletName:  "main",
			passphrase:  "password",
			expectedErr: wallet.ErrWeakPassword,
		},
		{
			name:        "empty name",
			walletName:  "",
			passphrase:  passphrase,
			expectedErr: domain.ErrNullNameOrPassphrase,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.CreateWallet(ctx, tt.walletName, tt.passphrase)
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestChangePassphrase(t *testing.T) {
	svc := newWalletService(t, &mockChain{})
	require.NoError(t, svc.CreateWallet(ctx, "main", passphrase))

	newPassphrase := "N3w$uperSecretPass"

	err := svc.ChangePassphrase(ctx, "main", "Wr0ng$Passphrase!", newPassphrase)
	require.ErrorIs(t, err, domain.ErrInvalidPassphrase)

	err = svc.ChangePassphrase(ctx, "main", passphrase, newPassphrase)
	require.NoError(t, err)

	_, err = svc.Unlock(ctx, "main", passphrase)
	require.ErrorIs(t, err, domain.ErrInvalidPassphrase)

	session, err := svc.Unlock(ctx, "main", newPassphrase)
	require.NoError(t, err)
	session.Release()
}

func TestBalance(t *testing.T) {
	sk, other := newScalar(7), newScalar(11)
	cfg := newConfig(t)

	token := utxo.Asset{
		PolicyID:  "aa" + cfg.SeedelfPolicyID[2:],
		AssetName: "74657374",
		Quantity:  "10",
	}
	utxos := []utxo.Utxo{
		walletUtxo(t, 1, ownedRegister(t, sk), 2_000_000),
		walletUtxo(t, 2, ownedRegister(t, sk), 3_000_000, token),
		walletUtxo(t, 3, ownedRegister(t, other), 50_000_000),
		walletUtxo(
			t, 4, ownedRegister(t, sk), 1_800_000,
			seedelfToken(t, tokenName("alice", 4)),
		),
		keyUtxo(5, 9_000_000),
	}

	chain := &mockChain{}
	chain.On("CredentialUtxos", mock.Anything, cfg.WalletContractHash).
		Return(utxos, nil)
	svc := newWalletService(t, chain)

	session := domain.NewSession("main", sk)
	balance, err := svc.Balance(ctx, session)
	require.NoError(t, err)
	require.Equal(t, 2, balance.Utxos)
	require.Equal(t, uint64(5_000_000), balance.Lovelace)
	require.Equal(t, 1, balance.Assets.Len())
	require.Equal(t, []string{tokenName("alice", 4)}, balance.Seedelfs)

	owned, err := svc.OwnedUtxos(ctx, session, 1)
	require.NoError(t, err)
	require.Len(t, owned, 1)

	session.Release()
	_, err = svc.Balance(ctx, session)
	require.ErrorIs(t, err, domain.ErrSessionReleased)
}
