package register

import (
	"encoding/hex"
	"fmt"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// PointSize is the byte length of a compressed G1 point.
const PointSize = bls12381.SizeOfG1AffineCompressed

// GeneratorHex is the compressed encoding of the fixed G1 generator every
// base register is created from.
const GeneratorHex = "97f1d3a73197d7942695638c4fa9ac0fc3688c4f9774b905a14e3a3f171bac586c55e83ff97a1aeffb3af00adb22c6bb"

var generator bls12381.G1Affine

func init() {
	_, _, generator, _ = bls12381.Generators()
}

// Generator returns a copy of the fixed G1 generator.
func Generator() bls12381.G1Affine {
	return generator
}

// RandomScalar draws a scalar uniformly from the field using crypto/rand.
func RandomScalar() (fr.Element, error) {
	var s fr.Element
	if _, err := s.SetRandom(); err != nil {
		return fr.Element{}, fmt.Errorf("failed to draw random scalar: %w", err)
	}
	return s, nil
}

// DecodePoint decompresses a hex encoded G1 point, checking that it lies in
// the prime order subgroup.
func DecodePoint(s string) (bls12381.G1Affine, error) {
	var p bls12381.G1Affine

	buf, err := hex.DecodeString(s)
	if err != nil {
		return p, fmt.Errorf("%w: %s", ErrInvalidHex, err)
	}
	if len(buf) != PointSize {
		return p, fmt.Errorf(
			"%w: got %d bytes, expected %d", ErrInvalidLength, len(buf), PointSize,
		)
	}
	if _, err := p.SetBytes(buf); err != nil {
		return p, fmt.Errorf("%w: %s", ErrMalformedPoint, err)
	}
	return p, nil
}

// EncodePoint returns the lowercase hex of the compressed point.
func EncodePoint(p bls12381.G1Affine) string {
	buf := p.Bytes()
	return hex.EncodeToString(buf[:])
}

// Mul returns p×s.
func Mul(p bls12381.G1Affine, s fr.Element) bls12381.G1Affine {
	var out bls12381.G1Affine
	out.ScalarMultiplication(&p, s.BigInt(new(big.Int)))
	return out
}
