// Package ecies implements hybrid encryption of short secrets to a stealth
// register: an ephemeral Diffie-Hellman over G1, HKDF-SHA3-256 and
// AES-256-GCM bound to the exact register instance.
package ecies

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/seedelf-network/seedelf-wallet/pkg/register"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/sha3"
)

const (
	// NonceSize is the AES-GCM nonce length.
	NonceSize = 12
	// Domain is the HKDF info prefix, the ephemeral point is appended to it.
	Domain = "ECIES|BLS12-381|AES-GCM|v1|"

	keySize = 32
)

var (
	// ErrCiphertextTooShort is returned when the blob cannot hold a nonce.
	ErrCiphertextTooShort = errors.New("ciphertext too short")
	// ErrInvalidCiphertext is returned when the blob is not valid base64.
	ErrInvalidCiphertext = errors.New("ciphertext is not valid base64")
	// ErrInvalidPlaintext is returned when an authenticated plaintext is not
	// valid UTF-8.
	ErrInvalidPlaintext = errors.New("plaintext is not valid utf-8")
)

// Ciphertext is the pair (R, nonce ‖ ciphertext) produced by Encrypt.
type Ciphertext struct {
	// Element is the hex encoded ephemeral point R = g×d.
	Element string `json:"element"`
	// Cypher is base64(nonce ‖ AES-GCM ciphertext).
	Cypher string `json:"cypher"`
}

// Encrypt seals message to the owner of reg.
func Encrypt(message string, reg register.Register) (*Ciphertext, error) {
	g, err := register.DecodePoint(reg.Generator)
	if err != nil {
		return nil, err
	}
	u, err := register.DecodePoint(reg.PublicValue)
	if err != nil {
		return nil, err
	}

	d, err := register.RandomScalar()
	if err != nil {
		return nil, err
	}
	r := register.Mul(g, d)
	shared := register.Mul(u, d)

	rBytes := r.Bytes()
	sharedBytes := shared.Bytes()

	aead, err := newAEAD(sharedBytes[:], rBytes[:])
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	aad, err := associatedData(reg, rBytes[:])
	if err != nil {
		return nil, err
	}

	sealed := aead.Seal(nonce, nonce, []byte(message), aad)

	return &Ciphertext{
		Element: hex.EncodeToString(rBytes[:]),
		Cypher:  base64.StdEncoding.EncodeToString(sealed),
	}, nil
}

// Decrypt opens the ciphertext with sk for the register it was sealed to.
// A failing authentication tag is not an error: it only means the message
// belongs to someone else, and ok is false.
func (c Ciphertext) Decrypt(sk fr.Element, reg register.Register) (string, bool, error) {
	if _, err := register.DecodePoint(reg.Generator); err != nil {
		return "", false, err
	}
	if _, err := register.DecodePoint(reg.PublicValue); err != nil {
		return "", false, err
	}
	r, err := register.DecodePoint(c.Element)
	if err != nil {
		return "", false, err
	}

	shared := register.Mul(r, sk)
	rBytes := r.Bytes()
	sharedBytes := shared.Bytes()

	aead, err := newAEAD(sharedBytes[:], rBytes[:])
	if err != nil {
		return "", false, err
	}

	blob, err := base64.StdEncoding.DecodeString(c.Cypher)
	if err != nil {
		return "", false, fmt.Errorf("%w: %s", ErrInvalidCiphertext, err)
	}
	if len(blob) < NonceSize {
		return "", false, ErrCiphertextTooShort
	}
	nonce, sealed := blob[:NonceSize], blob[NonceSize:]

	aad, err := associatedData(reg, rBytes[:])
	if err != nil {
		return "", false, err
	}

	plaintext, err := aead.Open(nil, nonce, sealed, aad)
	if err != nil {
		return "", false, nil
	}
	if !utf8.Valid(plaintext) {
		return "", false, ErrInvalidPlaintext
	}
	return string(plaintext), true, nil
}

func newAEAD(shared, r []byte) (cipher.AEAD, error) {
	zeroSalt := make([]byte, keySize)
	prk := hkdf.Extract(sha3.New256, shared, zeroSalt)

	info := append([]byte(Domain), r...)
	key := make([]byte, keySize)
	if _, err := io.ReadFull(hkdf.Expand(sha3.New256, prk, info), key); err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// associatedData binds the ciphertext to g ‖ u ‖ R.
func associatedData(reg register.Register, r []byte) ([]byte, error) {
	g, err := hex.DecodeString(reg.Generator)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", register.ErrInvalidHex, err)
	}
	u, err := hex.DecodeString(reg.PublicValue)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", register.ErrInvalidHex, err)
	}
	aad := make([]byte, 0, len(g)+len(u)+len(r))
	aad = append(aad, g...)
	aad = append(aad, u...)
	return append(aad, r...), nil
}
