package dbbadger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v3"
	"github.com/seedelf-network/seedelf-wallet/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type walletRepositoryImpl struct {
	store *badgerhold.Store
}

// NewWalletRepositoryImpl ...
func NewWalletRepositoryImpl(store *badgerhold.Store) domain.WalletRepository {
	return &walletRepositoryImpl{store}
}

func (r *walletRepositoryImpl) AddWallet(
	_ context.Context, wallet *domain.Wallet,
) error {
	if wallet.IsZero() {
		return domain.ErrNullNameOrPassphrase
	}
	if err := r.store.Insert(wallet.Name, *wallet); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return domain.ErrWalletAlreadyExists
		}
		return err
	}
	return nil
}

func (r *walletRepositoryImpl) GetWallet(
	_ context.Context, name string,
) (*domain.Wallet, error) {
	var wallet domain.Wallet
	if err := r.store.Get(name, &wallet); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}
	return &wallet, nil
}

func (r *walletRepositoryImpl) ListWallets(
	_ context.Context,
) ([]domain.Wallet, error) {
	var wallets []domain.Wallet
	if err := r.store.Find(
		&wallets, (&badgerhold.Query{}).SortBy("Name"),
	); err != nil {
		return nil, err
	}
	return wallets, nil
}

func (r *walletRepositoryImpl) UpdateWallet(
	_ context.Context,
	name string,
	updateFn func(w *domain.Wallet) (*domain.Wallet, error),
) error {
	return r.store.Badger().Update(func(tx *badger.Txn) error {
		var wallet domain.Wallet
		if err := r.store.TxGet(tx, name, &wallet); err != nil {
			if errors.Is(err, badgerhold.ErrNotFound) {
				return domain.ErrWalletNotFound
			}
			return err
		}

		updated, err := updateFn(&wallet)
		if err != nil {
			return err
		}
		return r.store.TxUpdate(tx, name, *updated)
	})
}

func (r *walletRepositoryImpl) DeleteWallet(
	_ context.Context, name string,
) error {
	if err := r.store.Delete(name, domain.Wallet{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return domain.ErrWalletNotFound
		}
		return err
	}
	return nil
}
