package koios_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/seedelf-network/seedelf-wallet/internal/core/ports"
	"github.com/seedelf-network/seedelf-wallet/internal/infrastructure/koios"
	"github.com/seedelf-network/seedelf-wallet/pkg/address"
	"github.com/seedelf-network/seedelf-wallet/pkg/fee"
	"github.com/seedelf-network/seedelf-wallet/pkg/utxo"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func newService(t *testing.T, handler http.HandlerFunc) ports.ChainQuery {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := koios.NewService(koios.Config{
		URL:               srv.URL + "/",
		Token:             "secret",
		RequestsPerSecond: 1000,
	})
	require.NoError(t, err)
	return svc
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func txHash(i int) string {
	return fmt.Sprintf("%064x", i)
}

func TestNewServiceInvalidConfig(t *testing.T) {
	_, err := koios.NewService(koios.Config{})
	require.Error(t, err)
	_, err = koios.NewService(koios.Config{URL: "http://localhost", RequestsPerSecond: -1})
	require.Error(t, err)
}

func TestDefaultURL(t *testing.T) {
	require.Equal(t, "https://preprod.koios.rest/api/v1", koios.DefaultURL(address.Preprod))
	require.Equal(t, "https://api.koios.rest/api/v1", koios.DefaultURL(address.Mainnet))
}

func TestTip(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/tip", r.URL.Path)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusOK, []map[string]interface{}{
			{"hash": "ab", "epoch_no": 200, "abs_slot": 1000, "block_no": 42, "block_time": 1700000000},
		})
	})

	tip, err := svc.Tip(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(42), tip.BlockNo)
	require.Equal(t, uint64(200), tip.EpochNo)
	require.Equal(t, "ab", tip.Hash)
}

func TestCredentialUtxosPaging(t *testing.T) {
	var requests int32
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/credential_utxos", r.URL.Path)
		atomic.AddInt32(&requests, 1)

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, []interface{}{"cred"}, payload["_payment_credentials"])
		require.Equal(t, true, payload["_extended"])

		n := 5
		if r.URL.Query().Get("offset") == "0" {
			n = 1000
		}
		page := make([]map[string]interface{}, 0, n)
		for i := 0; i < n; i++ {
			page = append(page, map[string]interface{}{
				"tx_hash": txHash(i), "tx_index": 0, "value": "1000000",
			})
		}
		writeJSON(t, w, http.StatusOK, page)
	})

	utxos, err := svc.CredentialUtxos(ctx, "cred")
	require.NoError(t, err)
	require.Len(t, utxos, 1005)
	require.Equal(t, int32(2), atomic.LoadInt32(&requests))
}

func TestAddressAndUtxoInfo(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		switch r.URL.Path {
		case "/address_utxos":
			require.Equal(t, []interface{}{"addr_test1"}, payload["_addresses"])
		case "/utxo_info":
			require.Equal(t, []interface{}{txHash(1) + "#2"}, payload["_utxo_refs"])
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		writeJSON(t, w, http.StatusOK, []map[string]interface{}{
			{"tx_hash": txHash(1), "tx_index": 2, "value": "5000000"},
		})
	})

	utxos, err := svc.AddressUtxos(ctx, "addr_test1")
	require.NoError(t, err)
	require.Len(t, utxos, 1)

	utxos, err = svc.UtxoInfo(ctx, []utxo.Outpoint{{TxHash: txHash(1), Index: 2}})
	require.NoError(t, err)
	require.Len(t, utxos, 1)
	require.True(t, utxo.IsCollateral(utxos[0]))
}

func TestTxMetadata(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/tx_metadata", r.URL.Path)
		writeJSON(t, w, http.StatusOK, []map[string]interface{}{
			{"tx_hash": txHash(1), "metadata": map[string]interface{}{
				"44203": map[string]string{"element": "aa", "cypher": "bb"},
			}},
			{"tx_hash": txHash(2), "metadata": nil},
		})
	})

	metadata, err := svc.TxMetadata(ctx, []string{txHash(1), txHash(2)})
	require.NoError(t, err)
	require.Len(t, metadata, 2)
	require.Contains(t, metadata[0].Metadata, "44203")
	require.Nil(t, metadata[1].Metadata)

	metadata, err = svc.TxMetadata(ctx, nil)
	require.NoError(t, err)
	require.Nil(t, metadata)
}

func TestEvaluate(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ogmios", r.URL.Path)
		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "evaluateTransaction", req["method"])

		writeJSON(t, w, http.StatusOK, map[string]interface{}{
			"jsonrpc": "2.0",
			"result": []map[string]interface{}{
				{"validator": map[string]interface{}{"index": 0, "purpose": "mint"}, "budget": map[string]uint64{"memory": 3, "cpu": 30}},
				{"validator": map[string]interface{}{"index": 1, "purpose": "spend"}, "budget": map[string]uint64{"memory": 2, "cpu": 20}},
				{"validator": map[string]interface{}{"index": 0, "purpose": "spend"}, "budget": map[string]uint64{"memory": 1, "cpu": 10}},
			},
		})
	})

	budgets, err := svc.Evaluate(ctx, []byte{0x84})
	require.NoError(t, err)
	require.Equal(t, []fee.ExUnits{
		{Mem: 1, Steps: 10},
		{Mem: 2, Steps: 20},
		{Mem: 3, Steps: 30},
	}, budgets)
}

func TestEvaluateRejected(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, map[string]interface{}{
			"jsonrpc": "2.0",
			"error":   map[string]interface{}{"code": 3010, "message": "script failure"},
		})
	})

	_, err := svc.Evaluate(ctx, []byte{0x84})
	require.ErrorIs(t, err, fee.ErrEvaluationRejected)
}

func TestSubmit(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/submittx", r.URL.Path)
		require.Equal(t, "application/cbor", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.Equal(t, []byte{0x84, 0x00}, body)
		writeJSON(t, w, http.StatusAccepted, txHash(7))
	})

	hash, err := svc.Submit(ctx, []byte{0x84, 0x00})
	require.NoError(t, err)
	require.Equal(t, txHash(7), hash)
}

func TestChainQueryFailure(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/tip") {
			writeJSON(t, w, http.StatusOK, []interface{}{})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	})

	_, err := svc.Tip(ctx)
	require.ErrorIs(t, err, ports.ErrChainQuery)

	_, err = svc.AddressUtxos(ctx, "addr_test1")
	require.ErrorIs(t, err, ports.ErrChainQuery)

	_, err = svc.Submit(ctx, []byte{0x84})
	require.ErrorIs(t, err, ports.ErrChainQuery)
}
