package domain

import "errors"

var (
	// ErrNullNameOrPassphrase is returned when creating a wallet without a
	// name or a passphrase.
	ErrNullNameOrPassphrase = errors.New("wallet name and/or passphrase must not be null")
	// ErrInvalidPassphrase ...
	ErrInvalidPassphrase = errors.New("passphrase is not valid")
	// ErrWalletNotFound ...
	ErrWalletNotFound = errors.New("wallet not found")
	// ErrWalletAlreadyExists ...
	ErrWalletAlreadyExists = errors.New("wallet already exists")
	// ErrSeedelfNotFound ...
	ErrSeedelfNotFound = errors.New("seedelf not found")
	// ErrSessionReleased is returned when using the secret key of a session
	// that has already been released.
	ErrSessionReleased = errors.New("session has been released")
	// ErrNullSession ...
	ErrNullSession = errors.New("session must not be null")
)
