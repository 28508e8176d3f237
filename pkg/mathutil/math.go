package mathutil

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"
)

const (
	// AdaPrecision is the number of decimals of one ADA.
	AdaPrecision = 6
	// LovelacePerAda ...
	LovelacePerAda = uint64(1_000_000)
)

var (
	// LovelacePerAdaDecimal is LovelacePerAda as decimal.Decimal
	LovelacePerAdaDecimal = decimal.NewFromInt(int64(LovelacePerAda))

	// ErrInvalidAmount ...
	ErrInvalidAmount = errors.New("amount must be a positive number")
	// ErrTooManyDecimals ...
	ErrTooManyDecimals = errors.New("ada amounts have at most 6 decimals")
)

//FromUint64 converts an uint64 into a decimal.Decimal without overflowing
func FromUint64(x uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(x), 0)
}

//LovelaceToAda converts an amount of lovelace into ADA
func LovelaceToAda(lovelace uint64) decimal.Decimal {
	return FromUint64(lovelace).Div(LovelacePerAdaDecimal)
}

// FormatAda returns the ADA amount with all 6 decimals, as the CLI prints it.
func FormatAda(lovelace uint64) string {
	return LovelaceToAda(lovelace).StringFixed(AdaPrecision)
}

// AdaToLovelace parses an ADA amount like "1.5" into lovelace.
func AdaToLovelace(ada string) (uint64, error) {
	d, err := decimal.NewFromString(ada)
	if err != nil || d.IsNegative() {
		return 0, ErrInvalidAmount
	}
	lovelace := d.Mul(LovelacePerAdaDecimal)
	if !lovelace.Equal(lovelace.Truncate(0)) {
		return 0, ErrTooManyDecimals
	}
	b := lovelace.BigInt()
	if !b.IsUint64() {
		return 0, ErrInvalidAmount
	}
	return b.Uint64(), nil
}

// Add takes two uint64 numbers and sum them x + y and returns the result as decimal.Decimal
func Add(x, y uint64) decimal.Decimal {
	return FromUint64(x).Add(FromUint64(y))
}

// Sub takes two uint64 numbers and subtract them x - y and returns the result as decimal.Decimal
func Sub(x, y uint64) decimal.Decimal {
	return FromUint64(x).Sub(FromUint64(y))
}
