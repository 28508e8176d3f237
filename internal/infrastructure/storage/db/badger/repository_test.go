package dbbadger

import (
	"context"
	"testing"

	"github.com/seedelf-network/seedelf-wallet/internal/core/domain"
	"github.com/seedelf-network/seedelf-wallet/pkg/register"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func newRepoManager(t *testing.T) RepoManager {
	repoManager, err := NewRepoManager("", nil)
	require.NoError(t, err)
	t.Cleanup(repoManager.Close)
	return repoManager
}

func TestWalletRepository(t *testing.T) {
	repo := newRepoManager(t).WalletRepository()

	w := &domain.Wallet{
		Name:      "main",
		Sealed:    []byte(`{"salt":"","nonce":"","data":""}`),
		CreatedAt: 1,
	}
	require.NoError(t, repo.AddWallet(ctx, w))
	require.ErrorIs(t, repo.AddWallet(ctx, w), domain.ErrWalletAlreadyExists)
	require.ErrorIs(t, repo.AddWallet(ctx, &domain.Wallet{}), domain.ErrNullNameOrPassphrase)

	other := *w
	other.Name = "alt"
	require.NoError(t, repo.AddWallet(ctx, &other))

	got, err := repo.GetWallet(ctx, "main")
	require.NoError(t, err)
	require.Equal(t, *w, *got)

	_, err = repo.GetWallet(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrWalletNotFound)

	wallets, err := repo.ListWallets(ctx)
	require.NoError(t, err)
	require.Len(t, wallets, 2)
	require.Equal(t, "alt", wallets[0].Name)

	err = repo.UpdateWallet(ctx, "main", func(w *domain.Wallet) (*domain.Wallet, error) {
		w.Sealed = []byte(`{"salt":"00","nonce":"","data":""}`)
		return w, nil
	})
	require.NoError(t, err)
	got, err = repo.GetWallet(ctx, "main")
	require.NoError(t, err)
	require.Equal(t, `{"salt":"00","nonce":"","data":""}`, string(got.Sealed))

	err = repo.UpdateWallet(ctx, "missing", func(w *domain.Wallet) (*domain.Wallet, error) {
		return w, nil
	})
	require.ErrorIs(t, err, domain.ErrWalletNotFound)

	require.NoError(t, repo.DeleteWallet(ctx, "main"))
	require.ErrorIs(t, repo.DeleteWallet(ctx, "main"), domain.ErrWalletNotFound)
}

func TestSeedelfRepository(t *testing.T) {
	repo := newRepoManager(t).SeedelfRepository()

	reg := register.New(register.GeneratorHex, register.GeneratorHex)
	seedelfs := []domain.Seedelf{
		{TokenName: "5eed0e1f616c696365", Label: "alice", TxHash: "aa", Register: reg, Owned: true},
		{TokenName: "5eed0e1f626f62", Label: "bob", TxHash: "bb", Register: reg},
		{TokenName: "5eed0e1f616c", Label: "Al", TxHash: "cc", Register: reg},
	}
	require.NoError(t, repo.UpsertSeedelfs(ctx, seedelfs))

	got, err := repo.GetSeedelf(ctx, "5eed0e1f626f62")
	require.NoError(t, err)
	require.Equal(t, "bob", got.Label)
	require.Equal(t, reg, got.Register)
	require.NotZero(t, got.UpdatedAt)

	_, err = repo.GetSeedelf(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrSeedelfNotFound)

	found, err := repo.FindSeedelfsByLabel(ctx, "al")
	require.NoError(t, err)
	require.Len(t, found, 2)

	all, err := repo.ListSeedelfs(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 3)

	owned, err := repo.ListSeedelfs(ctx, true)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	require.Equal(t, "alice", owned[0].Label)

	seedelfs[1].Owned = true
	require.NoError(t, repo.UpsertSeedelfs(ctx, seedelfs[1:2]))
	owned, err = repo.ListSeedelfs(ctx, true)
	require.NoError(t, err)
	require.Len(t, owned, 2)

	require.NoError(t, repo.DeleteSeedelf(ctx, "5eed0e1f626f62"))
	require.ErrorIs(t, repo.DeleteSeedelf(ctx, "5eed0e1f626f62"), domain.ErrSeedelfNotFound)
}
