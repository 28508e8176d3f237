package domain_test

import (
	"errors"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/seedelf-network/seedelf-wallet/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestSessionRelease(t *testing.T) {
	session := domain.NewSession("main", newKey(t))
	require.False(t, session.IsReleased())

	session.Release()
	session.Release()
	require.True(t, session.IsReleased())

	called := false
	err := session.WithKey(func(fr.Element) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, domain.ErrSessionReleased)
	require.False(t, called)
}

func TestNullSession(t *testing.T) {
	var session *domain.Session
	session.Release()
	err := session.WithKey(func(fr.Element) error { return nil })
	require.ErrorIs(t, err, domain.ErrNullSession)
}

func TestWithSessionReleasesOnError(t *testing.T) {
	w, err := domain.NewWallet("main", newKey(t), passphrase)
	require.NoError(t, err)

	boom := errors.New("boom")
	var leaked *domain.Session
	err = domain.WithSession(w, passphrase, func(s *domain.Session) error {
		leaked = s
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.NotNil(t, leaked)
	require.True(t, leaked.IsReleased())

	err = domain.WithSession(w, "wrong", func(*domain.Session) error {
		t.Fatal("must not be called")
		return nil
	})
	require.ErrorIs(t, err, domain.ErrInvalidPassphrase)
}
