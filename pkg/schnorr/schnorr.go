// Package schnorr implements the non-interactive Schnorr proof of knowledge
// of a register's secret scalar, bound to a transaction specific value.
package schnorr

import (
	"encoding/hex"
	"errors"
	"fmt"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/seedelf-network/seedelf-wallet/pkg/hashing"
	"github.com/seedelf-network/seedelf-wallet/pkg/register"
)

var (
	// ErrInvalidResponse is returned when z is not a 32 byte scalar.
	ErrInvalidResponse = errors.New("invalid proof response")
)

// Proof is the pair (z, g×r) sent to the on-chain verifier, both hex encoded.
type Proof struct {
	Z          string `json:"z"`
	Commitment string `json:"g_r"`
}

// FiatShamir derives the challenge for the transcript g ‖ g×r ‖ u ‖ bound.
// The four hex strings are concatenated as they are and hashed with
// blake2b-224, the on-chain verifier does exactly the same.
func FiatShamir(g, gr, u, bound string) string {
	return hashing.Blake2b224(g + gr + u + bound)
}

// Prove creates a proof for reg with a fresh random nonce.
func Prove(reg register.Register, sk fr.Element, bound string) (*Proof, error) {
	r, err := register.RandomScalar()
	if err != nil {
		return nil, err
	}
	return ProveWithNonce(reg, sk, bound, r)
}

// ProveWithNonce creates a proof with the given nonce. A nonce must never be
// used twice with the same secret: two proofs reveal sk.
func ProveWithNonce(
	reg register.Register, sk fr.Element, bound string, r fr.Element,
) (*Proof, error) {
	g, err := register.DecodePoint(reg.Generator)
	if err != nil {
		return nil, err
	}

	gr := register.EncodePoint(register.Mul(g, r))
	c, err := challenge(reg.Generator, gr, reg.PublicValue, bound)
	if err != nil {
		return nil, err
	}

	var z fr.Element
	z.Mul(&c, &sk).Add(&z, &r)
	zBytes := z.Bytes()

	return &Proof{
		Z:          hex.EncodeToString(zBytes[:]),
		Commitment: gr,
	}, nil
}

// Verify checks g×z == g×r + u×c. Structural problems with the inputs are
// returned as errors; a well formed proof that does not verify is false.
func Verify(generator, publicValue, z, commitment, bound string) (bool, error) {
	g, err := register.DecodePoint(generator)
	if err != nil {
		return false, err
	}
	u, err := register.DecodePoint(publicValue)
	if err != nil {
		return false, err
	}
	gr, err := register.DecodePoint(commitment)
	if err != nil {
		return false, err
	}
	zScalar, err := decodeScalar(z)
	if err != nil {
		return false, err
	}
	c, err := challenge(generator, commitment, publicValue, bound)
	if err != nil {
		return false, err
	}

	lhs := register.Mul(g, zScalar)
	uc := register.Mul(u, c)

	var sum, ucJac bls12381.G1Jac
	sum.FromAffine(&gr)
	ucJac.FromAffine(&uc)
	sum.AddAssign(&ucJac)

	var rhs bls12381.G1Affine
	rhs.FromJacobian(&sum)

	return lhs.Equal(&rhs), nil
}

// VerifyProof is a shorthand for Verify over a register and a Proof.
func VerifyProof(reg register.Register, proof Proof, bound string) (bool, error) {
	return Verify(reg.Generator, reg.PublicValue, proof.Z, proof.Commitment, bound)
}

func challenge(g, gr, u, bound string) (fr.Element, error) {
	var c fr.Element
	digest, err := hex.DecodeString(FiatShamir(g, gr, u, bound))
	if err != nil {
		return c, err
	}
	// the 28 byte digest is left padded to 32 bytes and read big endian,
	// always below the field order.
	var buf [fr.Bytes]byte
	copy(buf[fr.Bytes-len(digest):], digest)
	c.SetBytes(buf[:])
	return c, nil
}

func decodeScalar(s string) (fr.Element, error) {
	var out fr.Element
	buf, err := hex.DecodeString(s)
	if err != nil {
		return out, fmt.Errorf("%w: %s", register.ErrInvalidHex, err)
	}
	if len(buf) == 0 || len(buf) > fr.Bytes {
		return out, fmt.Errorf("%w: got %d bytes", ErrInvalidResponse, len(buf))
	}
	var padded [fr.Bytes]byte
	copy(padded[fr.Bytes-len(buf):], buf)
	if err := out.SetBytesCanonical(padded[:]); err != nil {
		return out, fmt.Errorf("%w: %s", ErrInvalidResponse, err)
	}
	return out, nil
}
