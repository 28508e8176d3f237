package application

import "errors"

var (
	// ErrInvalidAddress is returned for an address that is malformed, lives
	// on another network or is locked by a script when a key address is
	// expected.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrAmountTooSmall is returned when an output would hold less than its
	// minimum lovelace.
	ErrAmountTooSmall = errors.New("amount below the minimum required lovelace")
	// ErrNothingToSpend is returned when no UTxO can fund the operation.
	ErrNothingToSpend = errors.New("no spendable utxos")
	// ErrMissingCollateral is returned when the funding address has no pure
	// 5 ADA UTxO to use as collateral.
	ErrMissingCollateral = errors.New("no collateral utxo found at address")
	// ErrNotOwner is returned when the session key does not own the seedelf.
	ErrNotOwner = errors.New("seedelf is not owned by this wallet")
	// ErrEmptyMessage ...
	ErrEmptyMessage = errors.New("message must not be empty")
	// ErrNullRequest ...
	ErrNullRequest = errors.New("request must not be null")
	// ErrInvalidEnvironment is returned when a service is created without
	// one of its collaborators.
	ErrInvalidEnvironment = errors.New("missing service collaborator")
)
