package dbbadger

import (
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	"github.com/seedelf-network/seedelf-wallet/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

// RepoManager holds the repositories backed by badgerhold stores.
type RepoManager interface {
	WalletRepository() domain.WalletRepository
	SeedelfRepository() domain.SeedelfRepository
	Close()
}

type repoManager struct {
	walletStore  *badgerhold.Store
	seedelfStore *badgerhold.Store

	walletRepository  domain.WalletRepository
	seedelfRepository domain.SeedelfRepository
}

// NewRepoManager opens (or creates if not exists) the badger stores on disk.
// It expects a base data dir and an optional logger. If the data dir is
// empty the stores are kept in memory.
func NewRepoManager(baseDbDir string, logger badger.Logger) (RepoManager, error) {
	var walletDir, seedelfDir string
	if len(baseDbDir) > 0 {
		walletDir = filepath.Join(baseDbDir, "wallet")
		seedelfDir = filepath.Join(baseDbDir, "seedelf")
	}

	walletStore, err := createDb(walletDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening wallet db: %w", err)
	}

	seedelfStore, err := createDb(seedelfDir, logger)
	if err != nil {
		walletStore.Close()
		return nil, fmt.Errorf("opening seedelf db: %w", err)
	}

	return &repoManager{
		walletStore:       walletStore,
		seedelfStore:      seedelfStore,
		walletRepository:  NewWalletRepositoryImpl(walletStore),
		seedelfRepository: NewSeedelfRepositoryImpl(seedelfStore),
	}, nil
}

func (r *repoManager) WalletRepository() domain.WalletRepository {
	return r.walletRepository
}

func (r *repoManager) SeedelfRepository() domain.SeedelfRepository {
	return r.seedelfRepository
}

func (r *repoManager) Close() {
	r.walletStore.Close()
	r.seedelfStore.Close()
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	return badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}
