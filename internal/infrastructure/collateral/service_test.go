package collateral_test

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/seedelf-network/seedelf-wallet/internal/core/ports"
	"github.com/seedelf-network/seedelf-wallet/internal/infrastructure/collateral"
	"github.com/seedelf-network/seedelf-wallet/pkg/address"
	"github.com/stretchr/testify/require"
)

func TestWitness(t *testing.T) {
	sig := strings.Repeat("ab", 64)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/preprod/collateral/", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "8400", req["tx_body"])

		json.NewEncoder(w).Encode(map[string]string{
			"witness": "a10081825820" + strings.Repeat("00", 32) + "5840" + sig,
		})
	}))
	defer srv.Close()

	svc, err := collateral.NewService(srv.URL, address.Preprod, time.Second)
	require.NoError(t, err)

	got, err := svc.Witness(context.Background(), []byte{0x84, 0x00})
	require.NoError(t, err)
	require.Equal(t, sig, hex.EncodeToString(got))
}

func TestWitnessFailure(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, "boom", ports.ErrChainQuery},
		{"short witness", http.StatusOK, `{"witness":"abcd"}`, collateral.ErrInvalidWitness},
		{"not json", http.StatusOK, `nope`, collateral.ErrInvalidWitness},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			svc, err := collateral.NewService(srv.URL, address.Mainnet, time.Second)
			require.NoError(t, err)

			_, err = svc.Witness(context.Background(), []byte{0x84})
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
