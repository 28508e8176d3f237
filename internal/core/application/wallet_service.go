package application

import (
	"context"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/seedelf-network/seedelf-wallet/internal/core/domain"
	"github.com/seedelf-network/seedelf-wallet/pkg/register"
	"github.com/seedelf-network/seedelf-wallet/pkg/utxo"
	"github.com/seedelf-network/seedelf-wallet/pkg/wallet"
	log "github.com/sirupsen/logrus"
)

type WalletService interface {
	GenSeed(ctx context.Context) ([]string, error)
	CreateWallet(ctx context.Context, name, passphrase string) error
	RestoreWallet(
		ctx context.Context,
		name string,
		mnemonic []string,
		passphrase string,
	) error
	Unlock(ctx context.Context, name, passphrase string) (*domain.Session, error)
	ChangePassphrase(
		ctx context.Context,
		name string,
		currentPassphrase string,
		newPassphrase string,
	) error
	ListWallets(ctx context.Context) ([]domain.Wallet, error)
	Balance(ctx context.Context, session *domain.Session) (*Balance, error)
	OwnedUtxos(
		ctx context.Context,
		session *domain.Session,
		limit int,
	) ([]utxo.Utxo, error)
}

type walletService struct {
	walletRepository domain.WalletRepository
	*engine
}

func NewWalletService(
	walletRepository domain.WalletRepository,
	env Environment,
) (WalletService, error) {
	if walletRepository == nil {
		return nil, ErrInvalidEnvironment
	}
	e, err := newEngine(env)
	if err != nil {
		return nil, err
	}
	return &walletService{walletRepository, e}, nil
}

func (w *walletService) GenSeed(ctx context.Context) ([]string, error) {
	return wallet.NewMnemonic(wallet.NewMnemonicOpts{EntropySize: 256})
}

// CreateWallet stores a wallet with a random secret key. The key can not
// be restored from words, the sealed vault is its only copy.
func (w *walletService) CreateWallet(
	ctx context.Context, name, passphrase string,
) error {
	sk, err := register.RandomScalar()
	if err != nil {
		return err
	}
	defer sk.SetZero()

	return w.addWallet(ctx, name, sk, passphrase)
}

func (w *walletService) RestoreWallet(
	ctx context.Context, name string, mnemonic []string, passphrase string,
) error {
	sk, err := wallet.ScalarFromMnemonic(mnemonic)
	if err != nil {
		return err
	}
	defer sk.SetZero()

	return w.addWallet(ctx, name, sk, passphrase)
}

func (w *walletService) Unlock(
	ctx context.Context, name, passphrase string,
) (*domain.Session, error) {
	vault, err := w.walletRepository.GetWallet(ctx, name)
	if err != nil {
		return nil, err
	}
	session, err := vault.Unlock(passphrase)
	if err != nil {
		return nil, err
	}
	log.WithField("wallet", name).Debugf("opened session %s", session.ID)
	return session, nil
}

func (w *walletService) ChangePassphrase(
	ctx context.Context, name, currentPassphrase, newPassphrase string,
) error {
	if err := wallet.ValidatePassword(newPassphrase); err != nil {
		return err
	}
	return w.walletRepository.UpdateWallet(
		ctx, name, func(v *domain.Wallet) (*domain.Wallet, error) {
			if err := v.ChangePassphrase(
				currentPassphrase, newPassphrase,
			); err != nil {
				return nil, err
			}
			return v, nil
		},
	)
}

func (w *walletService) ListWallets(
	ctx context.Context,
) ([]domain.Wallet, error) {
	return w.walletRepository.ListWallets(ctx)
}

func (w *walletService) Balance(
	ctx context.Context, session *domain.Session,
) (*Balance, error) {
	utxos, err := w.walletUtxos(ctx)
	if err != nil {
		return nil, err
	}

	var spendable, holders []utxo.Utxo
	if err := session.WithKey(func(sk fr.Element) error {
		spendable, holders = scanWallet(
			sk, utxos, w.Config.SeedelfPolicyID, 0,
		)
		return nil
	}); err != nil {
		return nil, err
	}

	lovelace, found, err := utxo.AssetsOf(spendable)
	if err != nil {
		return nil, err
	}
	seedelfs := make([]string, 0, len(holders))
	for _, u := range holders {
		if name, ok := u.TokenNameOf(w.Config.SeedelfPolicyID); ok {
			seedelfs = append(seedelfs, name)
		}
	}

	return &Balance{
		Utxos:    len(spendable),
		Lovelace: lovelace,
		Assets:   found,
		Seedelfs: seedelfs,
	}, nil
}

// OwnedUtxos returns at most limit spendable UTxOs of the wallet, all of
// them if limit <= 0.
func (w *walletService) OwnedUtxos(
	ctx context.Context, session *domain.Session, limit int,
) ([]utxo.Utxo, error) {
	utxos, err := w.walletUtxos(ctx)
	if err != nil {
		return nil, err
	}

	var spendable []utxo.Utxo
	if err := session.WithKey(func(sk fr.Element) error {
		spendable, _ = scanWallet(sk, utxos, w.Config.SeedelfPolicyID, limit)
		return nil
	}); err != nil {
		return nil, err
	}
	return spendable, nil
}

func (w *walletService) addWallet(
	ctx context.Context, name string, sk fr.Element, passphrase string,
) error {
	if err := wallet.ValidatePassword(passphrase); err != nil {
		return err
	}
	vault, err := domain.NewWallet(name, sk, passphrase)
	if err != nil {
		return err
	}
	if err := w.walletRepository.AddWallet(ctx, vault); err != nil {
		return err
	}
	log.WithField("wallet", name).Info("wallet created")
	return nil
}
