package domain_test

import (
	"testing"

	"github.com/seedelf-network/seedelf-wallet/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestSeedelfMatchLabel(t *testing.T) {
	s := domain.Seedelf{
		TokenName: "5eed0e1f68656c6c6f00aa",
		Label:     "Hello",
		TxHash:    "aa",
		TxIndex:   3,
	}

	require.True(t, s.MatchLabel("hell"))
	require.True(t, s.MatchLabel("68656C"))
	require.False(t, s.MatchLabel("world"))
	require.Equal(t, "aa#3", s.Outpoint().String())
}
