package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"

	"golang.org/x/crypto/scrypt"
)

const saltSize = 32

// ScryptN is the scrypt cost parameter used to stretch passphrases.
// 2^20 = 1048576 recommended length for key-stretching.
var ScryptN = 1048576

// Sealed is the wallet file form of a secret.
type Sealed struct {
	Salt  []byte `json:"salt"`
	Nonce []byte `json:"nonce"`
	Data  []byte `json:"data"`
}

// SealOpts is the struct given to Seal method
type SealOpts struct {
	Secret     []byte
	Passphrase string
}

func (o SealOpts) validate() error {
	if len(o.Secret) <= 0 {
		return ErrNullSecret
	}
	if len(o.Passphrase) <= 0 {
		return ErrNullPassphrase
	}
	return nil
}

// Seal encrypts (with AES-256-GCM) a secret with a key stretched from the
// passphrase and returns the JSON wallet file.
func Seal(opts SealOpts) ([]byte, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	key, salt, err := DeriveKey([]byte(opts.Passphrase), nil)
	if err != nil {
		return nil, err
	}
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err = rand.Read(nonce); err != nil {
		return nil, err
	}

	return json.Marshal(Sealed{
		Salt:  salt,
		Nonce: nonce,
		Data:  gcm.Seal(nil, nonce, opts.Secret, nil),
	})
}

// OpenOpts is the struct given to Open method
type OpenOpts struct {
	CypherText []byte
	Passphrase string
}

func (o OpenOpts) validate() (*Sealed, error) {
	if len(o.CypherText) <= 0 {
		return nil, ErrNullCypherText
	}
	var s Sealed
	if err := json.Unmarshal(o.CypherText, &s); err != nil {
		return nil, ErrInvalidCypherText
	}
	if len(s.Salt) != saltSize || len(s.Nonce) == 0 || len(s.Data) == 0 {
		return nil, ErrInvalidCypherText
	}
	if len(o.Passphrase) <= 0 {
		return nil, ErrNullPassphrase
	}
	return &s, nil
}

// Open decrypts a wallet file with the provided passphrase.
func Open(opts OpenOpts) ([]byte, error) {
	sealed, err := opts.validate()
	if err != nil {
		return nil, err
	}

	key, _, err := DeriveKey([]byte(opts.Passphrase), sealed.Salt)
	if err != nil {
		return nil, err
	}
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(sealed.Nonce) != gcm.NonceSize() {
		return nil, ErrInvalidCypherText
	}
	secret, err := gcm.Open(nil, sealed.Nonce, sealed.Data, nil)
	if err != nil {
		return nil, ErrInvalidPassphrase
	}
	return secret, nil
}

// DeriveKey derives a 32 byte array key from a custom passhprase
func DeriveKey(passphrase, salt []byte) ([]byte, []byte, error) {
	if salt == nil {
		salt = make([]byte, saltSize)
		if _, err := rand.Read(salt); err != nil {
			return nil, nil, err
		}
	}
	key, err := scrypt.Key(passphrase, salt, ScryptN, 8, 1, 32)
	if err != nil {
		return nil, nil, err
	}
	return key, salt, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	blockCipher, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(blockCipher)
}
