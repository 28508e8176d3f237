package collateral

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/seedelf-network/seedelf-wallet/internal/core/ports"
	"github.com/seedelf-network/seedelf-wallet/pkg/address"
	"github.com/seedelf-network/seedelf-wallet/pkg/circuitbreaker"
	"github.com/seedelf-network/seedelf-wallet/pkg/stats"
	"github.com/seedelf-network/seedelf-wallet/pkg/util"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

const (
	serviceName = "collateral"

	// DefaultURL is the public collateral provider.
	DefaultURL = "https://www.giveme.my"

	signatureSize = 64
)

var (
	// ErrInvalidWitness is returned when the provider answers without a
	// usable signature.
	ErrInvalidWitness = errors.New("invalid collateral witness")
)

type witnessRequest struct {
	TxBody string `json:"tx_body"`
}

type witnessResponse struct {
	Witness string `json:"witness"`
}

type service struct {
	url    string
	client *util.Client
	cb     *gobreaker.CircuitBreaker
}

// NewService returns a CollateralWitnesser for the given provider url and
// network.
func NewService(
	url string, network address.Network, timeout time.Duration,
) (ports.CollateralWitnesser, error) {
	if url == "" {
		url = DefaultURL
	}
	networkName := "mainnet"
	if network.IsTestnet() {
		networkName = "preprod"
	}

	return &service{
		url:    fmt.Sprintf("%s/%s/collateral/", strings.TrimSuffix(url, "/"), networkName),
		client: util.NewHTTPClient(timeout, nil),
		cb:     circuitbreaker.NewCircuitBreaker(serviceName),
	}, nil
}

// Witness returns the provider signature of tx. The provider answers with a
// witness whose last 64 bytes are the signature.
func (s *service) Witness(ctx context.Context, tx []byte) ([]byte, error) {
	body, err := json.Marshal(witnessRequest{TxBody: hex.EncodeToString(tx)})
	if err != nil {
		return nil, err
	}

	start := time.Now()
	iResp, err := s.cb.Execute(func() (interface{}, error) {
		status, resp, err := s.client.Post(ctx, s.url, util.ContentTypeJSON, body)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf("status %d: %s", status, strings.TrimSpace(string(resp)))
		}
		return resp, nil
	})
	stats.ObserveRequest(serviceName, "collateral", start, err)
	if err != nil {
		log.WithError(err).Debug("collateral: witness request failed")
		return nil, fmt.Errorf("%w: collateral: %s", ports.ErrChainQuery, err)
	}

	var resp witnessResponse
	if err := json.Unmarshal(iResp.([]byte), &resp); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidWitness, err)
	}
	if len(resp.Witness) < 2*signatureSize {
		return nil, ErrInvalidWitness
	}

	sig, err := hex.DecodeString(resp.Witness[len(resp.Witness)-2*signatureSize:])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidWitness, err)
	}
	return sig, nil
}
