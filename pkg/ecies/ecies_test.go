package ecies_test

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/seedelf-network/seedelf-wallet/pkg/ecies"
	"github.com/seedelf-network/seedelf-wallet/pkg/register"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	sk := randomScalar(t)
	rerandomized, err := register.Create(sk).Rerandomize()
	require.NoError(t, err)

	tests := []struct {
		name    string
		message string
		reg     register.Register
	}{
		{"short message", "hello seedelf", register.Create(sk)},
		{"empty message", "", register.Create(sk)},
		{"long message", strings.Repeat("the quick brown fox ", 100), register.Create(sk)},
		{"rerandomized register", "unlinkable", rerandomized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, err := ecies.Encrypt(tt.message, tt.reg)
			require.NoError(t, err)
			require.Len(t, ct.Element, 96)

			plaintext, ok, err := ct.Decrypt(sk, tt.reg)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, tt.message, plaintext)
		})
	}
}

func TestDecryptNotMine(t *testing.T) {
	sk := randomScalar(t)
	reg := register.Create(sk)
	ct, err := ecies.Encrypt("for someone else", reg)
	require.NoError(t, err)

	plaintext, ok, err := ct.Decrypt(randomScalar(t), reg)
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, plaintext)

	// same secret, different register instance: the associated data differs.
	other, err := reg.Rerandomize()
	require.NoError(t, err)
	_, ok, err = ct.Decrypt(sk, other)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDecryptMalformed(t *testing.T) {
	sk := randomScalar(t)
	reg := register.Create(sk)
	ct, err := ecies.Encrypt("message", reg)
	require.NoError(t, err)

	tests := []struct {
		name        string
		ct          ecies.Ciphertext
		expectedErr error
	}{
		{
			name:        "short blob",
			ct:          ecies.Ciphertext{Element: ct.Element, Cypher: base64.StdEncoding.EncodeToString([]byte("short"))},
			expectedErr: ecies.ErrCiphertextTooShort,
		},
		{
			name:        "bad base64",
			ct:          ecies.Ciphertext{Element: ct.Element, Cypher: "***"},
			expectedErr: ecies.ErrInvalidCiphertext,
		},
		{
			name:        "bad element",
			ct:          ecies.Ciphertext{Element: strings.Repeat("00", 48), Cypher: ct.Cypher},
			expectedErr: register.ErrMalformedPoint,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := tt.ct.Decrypt(sk, reg)
			require.ErrorIs(t, err, tt.expectedErr)
			require.False(t, ok)
		})
	}

	_, err = ecies.Encrypt("message", register.New("acab", reg.PublicValue))
	require.ErrorIs(t, err, register.ErrInvalidLength)
}

func TestMetadata(t *testing.T) {
	sk := randomScalar(t)
	reg := register.Create(sk)
	ct, err := ecies.Encrypt("metadata message", reg)
	require.NoError(t, err)

	data, err := ct.Metadata()
	require.NoError(t, err)

	decoded, err := ecies.FromMetadata(data)
	require.NoError(t, err)
	require.Equal(t, ct, decoded)

	plaintext, ok, err := decoded.Decrypt(sk, reg)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "metadata message", plaintext)
}

func TestFromMetadatum(t *testing.T) {
	element := strings.Repeat("ab", 48)
	value, err := json.Marshal(map[string]interface{}{
		"element": []string{element[:64], element[64:]},
		"cypher":  "c2VlZGVsZg==",
	})
	require.NoError(t, err)

	ct, err := ecies.FromMetadatum(value)
	require.NoError(t, err)
	require.Equal(t, element, ct.Element)
	require.Equal(t, "c2VlZGVsZg==", ct.Cypher)

	_, err = ecies.FromMetadatum([]byte(`{"element": 1, "cypher": "x"}`))
	require.ErrorIs(t, err, ecies.ErrInvalidMetadata)
}

func randomScalar(t *testing.T) fr.Element {
	sk, err := register.RandomScalar()
	require.NoError(t, err)
	return sk
}
