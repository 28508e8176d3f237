package wallet

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpen(t *testing.T) {
	secret := []byte("super secret scalar bytes")
	passphrase := "supersecurekey"

	sealed, err := Seal(SealOpts{
		Secret:     secret,
		Passphrase: passphrase,
	})
	require.NoError(t, err)

	var file map[string]string
	require.NoError(t, json.Unmarshal(sealed, &file))
	assert.Contains(t, file, "salt")
	assert.Contains(t, file, "nonce")
	assert.Contains(t, file, "data")

	revealed, err := Open(OpenOpts{
		CypherText: sealed,
		Passphrase: passphrase,
	})
	require.NoError(t, err)
	assert.Equal(t, secret, revealed)

	_, err = Open(OpenOpts{
		CypherText: sealed,
		Passphrase: "wrongpassphrase",
	})
	assert.Equal(t, ErrInvalidPassphrase, err)
}

func TestFailingSeal(t *testing.T) {
	tests := []struct {
		opts SealOpts
		err  error
	}{
		{
			opts: SealOpts{
				Secret:     nil,
				Passphrase: "supersecurekey",
			},
			err: ErrNullSecret,
		},
		{
			opts: SealOpts{
				Secret:     []byte("super secret message"),
				Passphrase: "",
			},
			err: ErrNullPassphrase,
		},
	}
	for _, tt := range tests {
		_, err := Seal(tt.opts)
		assert.Equal(t, tt.err, err)
	}
}

func TestFailingOpen(t *testing.T) {
	tests := []struct {
		opts OpenOpts
		err  error
	}{
		{
			opts: OpenOpts{
				CypherText: nil,
				Passphrase: "supersecurekey",
			},
			err: ErrNullCypherText,
		},
		{
			opts: OpenOpts{
				CypherText: []byte("supersecretmessage"),
				Passphrase: "supersecurekey",
			},
			err: ErrInvalidCypherText,
		},
		{
			opts: OpenOpts{
				CypherText: []byte(`{"salt":"AAAA","nonce":"AAAA","data":"AAAA"}`),
				Passphrase: "supersecurekey",
			},
			err: ErrInvalidCypherText,
		},
		{
			opts: OpenOpts{
				CypherText: []byte(
					`{"salt":"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=","nonce":"AAAAAAAAAAAAAAAA","data":"AAAA"}`,
				),
				Passphrase: "",
			},
			err: ErrNullPassphrase,
		},
	}
	for _, tt := range tests {
		_, err := Open(tt.opts)
		assert.Equal(t, tt.err, err)
	}
}
