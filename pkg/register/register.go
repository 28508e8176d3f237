// Package register implements stealth registers: a pair of G1 points
// (g, u = g×sk) that let the holder of sk prove ownership of an output
// without exposing a reusable address.
package register

import (
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

var (
	// ErrMalformedPoint is returned when a hex string does not decompress to
	// a valid G1 point.
	ErrMalformedPoint = errors.New("malformed group element")
	// ErrInvalidHex is returned for strings that are not valid hex.
	ErrInvalidHex = errors.New("invalid hex string")
	// ErrInvalidLength is returned when decoded bytes have the wrong size.
	ErrInvalidLength = errors.New("invalid byte length")
	// ErrInvalidDatum is returned when an inline datum does not hold a
	// register.
	ErrInvalidDatum = errors.New("datum is not a register")
)

// Register is the on-chain identity record (generator, public value), both
// hex encoded compressed G1 points.
type Register struct {
	Generator   string `json:"generator"`
	PublicValue string `json:"public_value"`
}

// New returns a register with normalized hex fields. It does not validate
// the points, use IsValid for that.
func New(generator, publicValue string) Register {
	return Register{
		Generator:   strings.ToLower(generator),
		PublicValue: strings.ToLower(publicValue),
	}
}

// Create returns the base register of sk: (g, g×sk) for the fixed generator.
func Create(sk fr.Element) Register {
	return Register{
		Generator:   GeneratorHex,
		PublicValue: EncodePoint(Mul(generator, sk)),
	}
}

// Rerandomize returns (g×d, u×d) for a fresh random d. The result is
// unlinkable to the receiver yet owned by the same secret.
func (r Register) Rerandomize() (Register, error) {
	d, err := RandomScalar()
	if err != nil {
		return Register{}, err
	}
	return r.rerandomizeWith(d)
}

func (r Register) rerandomizeWith(d fr.Element) (Register, error) {
	g, err := DecodePoint(r.Generator)
	if err != nil {
		return Register{}, err
	}
	u, err := DecodePoint(r.PublicValue)
	if err != nil {
		return Register{}, err
	}

	return Register{
		Generator:   EncodePoint(Mul(g, d)),
		PublicValue: EncodePoint(Mul(u, d)),
	}, nil
}

// IsOwned reports whether g×sk equals the register's public value. A
// register holding the identity point is owned by no one.
func (r Register) IsOwned(sk fr.Element) (bool, error) {
	g, err := DecodePoint(r.Generator)
	if err != nil {
		return false, err
	}
	u, err := DecodePoint(r.PublicValue)
	if err != nil {
		return false, err
	}
	if g.IsInfinity() || u.IsInfinity() {
		return false, nil
	}
	expected := EncodePoint(Mul(g, sk))
	actual := EncodePoint(u)

	return subtle.ConstantTimeCompare([]byte(expected), []byte(actual)) == 1, nil
}

// IsValid reports whether both fields decompress to non identity points of
// the prime order subgroup.
func (r Register) IsValid() bool {
	g, err := DecodePoint(r.Generator)
	if err != nil || g.IsInfinity() {
		return false
	}
	u, err := DecodePoint(r.PublicValue)
	if err != nil || u.IsInfinity() {
		return false
	}
	return true
}

// IsZero returns whether the register is empty.
func (r Register) IsZero() bool {
	return r.Generator == "" && r.PublicValue == ""
}
