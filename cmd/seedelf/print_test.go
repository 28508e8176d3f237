package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAssets(t *testing.T) {
	policyID := strings.Repeat("ab", 28)

	tokens, err := parseAssets([]string{
		policyID + "74657374:10",
		policyID + "74657374:5",
		policyID + ":1",
	})
	require.NoError(t, err)
	require.Equal(t, 2, tokens.Len())
	amount, ok := tokens.QuantityOf(policyID, "74657374")
	require.True(t, ok)
	require.Equal(t, uint64(15), amount)

	tests := []struct {
		name  string
		input string
	}{
		{"missing amount", policyID + "74657374"},
		{"zero amount", policyID + "74657374:0"},
		{"negative amount", policyID + "74657374:-1"},
		{"short policy id", "abcd:1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseAssets([]string{tt.input})
			require.Error(t, err)
		})
	}
}

func TestParseAda(t *testing.T) {
	lovelace, err := parseAda("")
	require.NoError(t, err)
	require.Zero(t, lovelace)

	lovelace, err = parseAda("1.5")
	require.NoError(t, err)
	require.Equal(t, uint64(1_500_000), lovelace)

	_, err = parseAda("0.0000001")
	require.Error(t, err)
}
