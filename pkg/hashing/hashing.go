// Package hashing exposes the hash functions used across the wallet:
// blake2b-224 for Fiat-Shamir challenges and key hashes, blake2b-256 for
// transaction ids and sha3-256 for key derivation.
package hashing

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

const (
	// KeyHashSize is the byte length of a blake2b-224 digest.
	KeyHashSize = 28
	// HashSize is the byte length of a blake2b-256 digest.
	HashSize = 32
)

// Blake2b224 hashes data and returns the lowercase hex digest. When data is
// a valid hex string its decoded bytes are hashed, otherwise the raw string.
func Blake2b224(data string) string {
	return hex.EncodeToString(Blake2b224Bytes(decode(data)))
}

// Blake2b256 is the 32 byte counterpart of Blake2b224.
func Blake2b256(data string) string {
	return hex.EncodeToString(Blake2b256Bytes(decode(data)))
}

// Sha3256 follows the same input convention as Blake2b224.
func Sha3256(data string) string {
	sum := sha3.Sum256(decode(data))
	return hex.EncodeToString(sum[:])
}

// Blake2b224Bytes returns the 28 byte digest of buf.
func Blake2b224Bytes(buf []byte) []byte {
	// New only fails for sizes above 64 or keys longer than 64 bytes.
	h, _ := blake2b.New(KeyHashSize, nil)
	h.Write(buf)
	return h.Sum(nil)
}

// Blake2b256Bytes returns the 32 byte digest of buf.
func Blake2b256Bytes(buf []byte) []byte {
	sum := blake2b.Sum256(buf)
	return sum[:]
}

// KeyHash returns the hex encoded blake2b-224 of a verification key, the
// ledger's representation of a key credential.
func KeyHash(pubkey []byte) string {
	return hex.EncodeToString(Blake2b224Bytes(pubkey))
}

func decode(data string) []byte {
	if buf, err := hex.DecodeString(data); err == nil {
		return buf
	}
	return []byte(data)
}
