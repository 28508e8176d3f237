package koios

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/seedelf-network/seedelf-wallet/internal/core/ports"
	"github.com/seedelf-network/seedelf-wallet/pkg/utxo"
)

func (s *service) Tip(ctx context.Context) (*ports.Tip, error) {
	var tips []ports.Tip
	if err := s.get(ctx, "tip", &tips); err != nil {
		return nil, err
	}
	if len(tips) <= 0 {
		return nil, fmt.Errorf("%w: tip: empty response", ports.ErrChainQuery)
	}
	return &tips[0], nil
}

// CredentialUtxos pages through every UTxO locked by the payment
// credential.
func (s *service) CredentialUtxos(
	ctx context.Context, paymentCredential string,
) ([]utxo.Utxo, error) {
	payload := map[string]interface{}{
		"_payment_credentials": []string{paymentCredential},
		"_extended":            true,
	}

	utxos := make([]utxo.Utxo, 0)
	for offset := 0; ; offset += pageSize {
		var page []utxo.Utxo
		endpoint := fmt.Sprintf("credential_utxos?offset=%d", offset)
		if err := s.post(ctx, endpoint, payload, &page); err != nil {
			return nil, err
		}
		utxos = append(utxos, page...)
		if len(page) < pageSize {
			break
		}
	}
	return utxos, nil
}

// AddressUtxos returns the UTxOs of a single address. A single page is
// fetched since an address is not expected to hold more than pageSize
// UTxOs.
func (s *service) AddressUtxos(
	ctx context.Context, address string,
) ([]utxo.Utxo, error) {
	payload := map[string]interface{}{
		"_addresses": []string{address},
		"_extended":  true,
	}

	var utxos []utxo.Utxo
	if err := s.post(ctx, "address_utxos", payload, &utxos); err != nil {
		return nil, err
	}
	return utxos, nil
}

func (s *service) UtxoInfo(
	ctx context.Context, outpoints []utxo.Outpoint,
) ([]utxo.Utxo, error) {
	refs := make([]string, 0, len(outpoints))
	for _, o := range outpoints {
		refs = append(refs, o.String())
	}
	payload := map[string]interface{}{
		"_utxo_refs": refs,
		"_extended":  true,
	}

	var utxos []utxo.Utxo
	if err := s.post(ctx, "utxo_info", payload, &utxos); err != nil {
		return nil, err
	}
	return utxos, nil
}

func (s *service) TxMetadata(
	ctx context.Context, txHashes []string,
) ([]ports.TxMetadata, error) {
	if len(txHashes) <= 0 {
		return nil, nil
	}
	payload := map[string]interface{}{
		"_tx_hashes": txHashes,
	}

	var metadata []ports.TxMetadata
	if err := s.post(ctx, "tx_metadata", payload, &metadata); err != nil {
		return nil, err
	}
	return metadata, nil
}

// Submit posts the raw transaction and returns its hash.
func (s *service) Submit(ctx context.Context, tx []byte) (string, error) {
	url := fmt.Sprintf("%s/submittx", s.apiURL)
	body, err := s.do("submittx", func() (int, []byte, error) {
		return s.client.NewHTTPRequest(
			ctx, http.MethodPost, url, tx,
			map[string]string{"Content-Type": "application/cbor"},
		)
	})
	if err != nil {
		return "", err
	}

	var txHash string
	if err := decode("submittx", body, &txHash); err != nil {
		return "", err
	}
	return strings.TrimSpace(txHash), nil
}
