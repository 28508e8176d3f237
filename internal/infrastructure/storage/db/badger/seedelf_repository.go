package dbbadger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/seedelf-network/seedelf-wallet/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type seedelfRepositoryImpl struct {
	store *badgerhold.Store
}

// NewSeedelfRepositoryImpl ...
func NewSeedelfRepositoryImpl(store *badgerhold.Store) domain.SeedelfRepository {
	return &seedelfRepositoryImpl{store}
}

func (r *seedelfRepositoryImpl) UpsertSeedelfs(
	_ context.Context, seedelfs []domain.Seedelf,
) error {
	now := time.Now().Unix()
	return r.store.Badger().Update(func(tx *badger.Txn) error {
		for _, s := range seedelfs {
			s.UpdatedAt = now
			if err := r.store.TxUpsert(tx, s.TokenName, s); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *seedelfRepositoryImpl) GetSeedelf(
	_ context.Context, tokenName string,
) (*domain.Seedelf, error) {
	var seedelf domain.Seedelf
	if err := r.store.Get(tokenName, &seedelf); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrSeedelfNotFound
		}
		return nil, err
	}
	return &seedelf, nil
}

func (r *seedelfRepositoryImpl) FindSeedelfsByLabel(
	_ context.Context, label string,
) ([]domain.Seedelf, error) {
	query := badgerhold.Where("TokenName").MatchFunc(
		func(ra *badgerhold.RecordAccess) (bool, error) {
			switch seedelf := ra.Record().(type) {
			case *domain.Seedelf:
				return seedelf.MatchLabel(label), nil
			case domain.Seedelf:
				return seedelf.MatchLabel(label), nil
			default:
				return false, nil
			}
		},
	).SortBy("TokenName")

	var seedelfs []domain.Seedelf
	if err := r.store.Find(&seedelfs, query); err != nil {
		return nil, err
	}
	return seedelfs, nil
}

func (r *seedelfRepositoryImpl) ListSeedelfs(
	_ context.Context, ownedOnly bool,
) ([]domain.Seedelf, error) {
	query := (&badgerhold.Query{}).SortBy("TokenName")
	if ownedOnly {
		query = badgerhold.Where("Owned").Eq(true).SortBy("TokenName")
	}

	var seedelfs []domain.Seedelf
	if err := r.store.Find(&seedelfs, query); err != nil {
		return nil, err
	}
	return seedelfs, nil
}

func (r *seedelfRepositoryImpl) DeleteSeedelf(
	_ context.Context, tokenName string,
) error {
	if err := r.store.Delete(tokenName, domain.Seedelf{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return domain.ErrSeedelfNotFound
		}
		return err
	}
	return nil
}
