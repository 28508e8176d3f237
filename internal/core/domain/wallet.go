package domain

import (
	"errors"
	"time"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/seedelf-network/seedelf-wallet/pkg/wallet"
)

// Wallet is the encrypted local vault of a secret scalar. The scalar is
// never held in plain text by the wallet itself, it is only revealed through
// a Session.
type Wallet struct {
	Name      string
	Sealed    []byte
	CreatedAt int64
}

// NewWallet seals the secret key with the passphrase and returns a Wallet
// holding the sealed key.
func NewWallet(name string, sk fr.Element, passphrase string) (*Wallet, error) {
	if len(name) <= 0 || len(passphrase) <= 0 {
		return nil, ErrNullNameOrPassphrase
	}
	if sk.IsZero() {
		return nil, wallet.ErrInvalidSecret
	}

	secret := wallet.ScalarToBytes(sk)
	defer zero(secret)

	sealed, err := wallet.Seal(wallet.SealOpts{
		Secret:     secret,
		Passphrase: passphrase,
	})
	if err != nil {
		return nil, err
	}

	return &Wallet{
		Name:      name,
		Sealed:    sealed,
		CreatedAt: time.Now().Unix(),
	}, nil
}

// IsZero ...
func (w *Wallet) IsZero() bool {
	return w == nil || len(w.Sealed) == 0
}

// Unlock opens the sealed key and returns a Session owning it. A wrong
// passphrase is only detected by the authenticated decryption. The caller
// must Release the session once done.
func (w *Wallet) Unlock(passphrase string) (*Session, error) {
	if w.IsZero() {
		return nil, ErrWalletNotFound
	}

	secret, err := wallet.Open(wallet.OpenOpts{
		CypherText: w.Sealed,
		Passphrase: passphrase,
	})
	if err != nil {
		if errors.Is(err, wallet.ErrInvalidPassphrase) ||
			errors.Is(err, wallet.ErrNullPassphrase) {
			return nil, ErrInvalidPassphrase
		}
		return nil, err
	}
	defer zero(secret)

	sk, err := wallet.ScalarFromBytes(secret)
	if err != nil {
		return nil, err
	}
	return NewSession(w.Name, sk), nil
}

// ChangePassphrase re-seals the wallet key with a new passphrase.
func (w *Wallet) ChangePassphrase(currentPassphrase, newPassphrase string) error {
	if len(newPassphrase) <= 0 {
		return ErrNullNameOrPassphrase
	}

	session, err := w.Unlock(currentPassphrase)
	if err != nil {
		return err
	}
	defer session.Release()

	return session.WithKey(func(sk fr.Element) error {
		secret := wallet.ScalarToBytes(sk)
		defer zero(secret)

		sealed, err := wallet.Seal(wallet.SealOpts{
			Secret:     secret,
			Passphrase: newPassphrase,
		})
		if err != nil {
			return err
		}
		w.Sealed = sealed
		return nil
	})
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
