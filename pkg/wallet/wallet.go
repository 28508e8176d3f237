// Package wallet seals secret scalars under a passphrase and derives them
// from mnemonics.
package wallet

import (
	"errors"
	"unicode"
)

var (
	// ErrNullPassphrase ...
	ErrNullPassphrase = errors.New("passphrase must not be null")
	// ErrNullSecret ...
	ErrNullSecret = errors.New("secret to seal must not be null")
	// ErrNullCypherText ...
	ErrNullCypherText = errors.New("cypher to open must not be null")
	// ErrInvalidCypherText ...
	ErrInvalidCypherText = errors.New("cypher must be a sealed wallet file")
	// ErrInvalidPassphrase is returned when the passphrase does not open the
	// sealed secret.
	ErrInvalidPassphrase = errors.New("invalid passphrase")
	// ErrInvalidMnemonic ...
	ErrInvalidMnemonic = errors.New("mnemonic is invalid")
	// ErrInvalidEntropySize ...
	ErrInvalidEntropySize = errors.New(
		"entropy size must be a multiple of 32 in the range [128,256]",
	)
	// ErrInvalidSecret is returned for secrets that are not canonical
	// scalars.
	ErrInvalidSecret = errors.New("secret is not a valid scalar")
	// ErrWeakPassword is returned by ValidatePassword.
	ErrWeakPassword = errors.New(
		"password must have at least 14 characters with an uppercase and a " +
			"lowercase letter, a digit and a symbol",
	)
)

// MinPasswordLength is the shortest passphrase ValidatePassword accepts.
const MinPasswordLength = 14

// ValidatePassword checks the strength of a wallet passphrase.
func ValidatePassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return ErrWeakPassword
	}

	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	if !(upper && lower && digit && symbol) {
		return ErrWeakPassword
	}
	return nil
}
