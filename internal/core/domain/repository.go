package domain

import "context"

// WalletRepository persists the local encrypted wallets.
type WalletRepository interface {
	AddWallet(ctx context.Context, wallet *Wallet) error
	GetWallet(ctx context.Context, name string) (*Wallet, error)
	ListWallets(ctx context.Context) ([]Wallet, error)
	UpdateWallet(
		ctx context.Context,
		name string,
		updateFn func(w *Wallet) (*Wallet, error),
	) error
	DeleteWallet(ctx context.Context, name string) error
}

// SeedelfRepository caches the seedelf tokens seen on chain.
type SeedelfRepository interface {
	UpsertSeedelfs(ctx context.Context, seedelfs []Seedelf) error
	GetSeedelf(ctx context.Context, tokenName string) (*Seedelf, error)
	FindSeedelfsByLabel(ctx context.Context, label string) ([]Seedelf, error)
	ListSeedelfs(ctx context.Context, ownedOnly bool) ([]Seedelf, error)
	DeleteSeedelf(ctx context.Context, tokenName string) error
}
