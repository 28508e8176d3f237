package wallet

import (
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/tyler-smith/go-bip39"
)

type NewMnemonicOpts struct {
	EntropySize int
}

func (o NewMnemonicOpts) validate() error {
	if o.EntropySize > 0 {
		if o.EntropySize < 128 || o.EntropySize > 256 || o.EntropySize%32 != 0 {
			return ErrInvalidEntropySize
		}
	}
	if o.EntropySize < 0 {
		return ErrInvalidEntropySize
	}
	return nil
}

// NewMnemonic returns a new mnemonic as a list of words
func NewMnemonic(opts NewMnemonicOpts) ([]string, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.EntropySize == 0 {
		opts.EntropySize = 256
	}

	entropy, err := bip39.NewEntropy(opts.EntropySize)
	if err != nil {
		return nil, err
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, err
	}
	return strings.Split(mnemonic, " "), nil
}

// ScalarFromMnemonic derives the wallet secret from a mnemonic: the BIP-39
// seed reduced modulo the group order.
func ScalarFromMnemonic(mnemonic []string) (fr.Element, error) {
	m := strings.Join(mnemonic, " ")
	if !bip39.IsMnemonicValid(m) {
		return fr.Element{}, ErrInvalidMnemonic
	}

	var sk fr.Element
	sk.SetBytes(bip39.NewSeed(m, ""))
	if sk.IsZero() {
		return fr.Element{}, ErrInvalidSecret
	}
	return sk, nil
}

// ScalarToBytes returns the 32 byte big endian form of sk.
func ScalarToBytes(sk fr.Element) []byte {
	b := sk.Bytes()
	return b[:]
}

// ScalarFromBytes parses a canonical 32 byte big endian scalar.
func ScalarFromBytes(b []byte) (fr.Element, error) {
	var sk fr.Element
	if len(b) != fr.Bytes {
		return fr.Element{}, ErrInvalidSecret
	}
	if err := sk.SetBytesCanonical(b); err != nil {
		return fr.Element{}, ErrInvalidSecret
	}
	if sk.IsZero() {
		return fr.Element{}, ErrInvalidSecret
	}
	return sk, nil
}
