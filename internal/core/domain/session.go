package domain

import (
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/google/uuid"
)

// Session is a short-lived capability over the secret scalar of an unlocked
// wallet. The key is only reachable through WithKey and is zeroed by
// Release.
type Session struct {
	ID         string
	WalletName string

	lock     sync.Mutex
	key      fr.Element
	released bool
}

// NewSession ...
func NewSession(walletName string, sk fr.Element) *Session {
	return &Session{
		ID:         uuid.New().String(),
		WalletName: walletName,
		key:        sk,
	}
}

// WithKey calls fn with the secret key. It fails with ErrSessionReleased
// once the session has been released.
func (s *Session) WithKey(fn func(sk fr.Element) error) error {
	if s == nil {
		return ErrNullSession
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if s.released {
		return ErrSessionReleased
	}
	return fn(s.key)
}

// Release wipes the secret key. Calling it more than once is a no-op.
func (s *Session) Release() {
	if s == nil {
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	s.key.SetZero()
	s.released = true
}

// IsReleased ...
func (s *Session) IsReleased() bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.released
}

// WithSession unlocks the wallet, runs fn and releases the session whatever
// fn returns.
func WithSession(w *Wallet, passphrase string, fn func(s *Session) error) error {
	session, err := w.Unlock(passphrase)
	if err != nil {
		return err
	}
	defer session.Release()

	return fn(session)
}
