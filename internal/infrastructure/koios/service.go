package koios

import (
	"context"
	"encoding/json"
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
	"go.uber.org/ratelimit"
)

const (
	serviceName = "koios"

	// pageSize is the max number of rows returned by a single Koios query.
	pageSize = 1000

	defaultRequestsPerSecond = 10
)

// Config holds the parameters of the Koios service.
type Config struct {
	URL               string
	Token             string
	RequestsPerSecond int
	Timeout           time.Duration
}

func (c Config) validate() error {
	if c.URL == "" {
		return fmt.Errorf("missing koios url")
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests per second must not be negative")
	}
	return nil
}

type service struct {
	apiURL  string
	client  *util.Client
	limiter ratelimit.Limiter
	cb      *gobreaker.CircuitBreaker
}

// DefaultURL returns the public Koios endpoint for the network.
func DefaultURL(network address.Network) string {
	if network.IsTestnet() {
		return "https://preprod.koios.rest/api/v1"
	}
	return "https://api.koios.rest/api/v1"
}

// NewService returns a ChainQuery backed by the Koios REST api. Requests are
// rate limited and go through a circuit breaker.
func NewService(cfg Config) (ports.ChainQuery, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	header := map[string]string{}
	if cfg.Token != "" {
		header["Authorization"] = fmt.Sprintf("Bearer %s", cfg.Token)
	}
	rps := cfg.RequestsPerSecond
	if rps == 0 {
		rps = defaultRequestsPerSecond
	}

	return &service{
		apiURL:  strings.TrimSuffix(cfg.URL, "/"),
		client:  util.NewHTTPClient(cfg.Timeout, header),
		limiter: ratelimit.New(rps),
		cb:      circuitbreaker.NewCircuitBreaker(serviceName),
	}, nil
}

func (s *service) get(ctx context.Context, endpoint string, out interface{}) error {
	url := fmt.Sprintf("%s/%s", s.apiURL, endpoint)
	body, err := s.do(endpoint, func() (int, []byte, error) {
		return s.client.Get(ctx, url)
	})
	if err != nil {
		return err
	}
	return decode(endpoint, body, out)
}

func (s *service) post(
	ctx context.Context, endpoint string, payload interface{}, out interface{},
	accepted ...int,
) error {
	buf, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s", s.apiURL, endpoint)
	body, err := s.do(endpoint, func() (int, []byte, error) {
		return s.client.Post(ctx, url, util.ContentTypeJSON, buf)
	}, accepted...)
	if err != nil {
		return err
	}
	return decode(endpoint, body, out)
}

// do runs the request through the rate limiter and the circuit breaker.
// Responses with status 200, 202 or any of the accepted ones are returned
// as they are. The endpoint is only used to label logs and metrics.
func (s *service) do(
	endpoint string, request func() (int, []byte, error), accepted ...int,
) ([]byte, error) {
	s.limiter.Take()

	start := time.Now()
	iBody, err := s.cb.Execute(func() (interface{}, error) {
		status, body, err := request()
		if err != nil {
			return nil, err
		}
		if !isAccepted(status, accepted) {
			return nil, fmt.Errorf("status %d: %s", status, strings.TrimSpace(string(body)))
		}
		return body, nil
	})
	stats.ObserveRequest(serviceName, metricLabel(endpoint), start, err)

	if err != nil {
		log.WithError(err).Debugf("koios: %s failed", endpoint)
		return nil, fmt.Errorf("%w: %s: %s", ports.ErrChainQuery, endpoint, err)
	}
	log.Debugf("koios: %s took %s", endpoint, time.Since(start))
	return iBody.([]byte), nil
}

func decode(endpoint string, body []byte, out interface{}) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf(
			"%w: %s: failed to parse response: %s", ports.ErrChainQuery, endpoint, err,
		)
	}
	return nil
}

func isAccepted(status int, accepted []int) bool {
	if status == http.StatusOK || status == http.StatusAccepted {
		return true
	}
	for _, a := range accepted {
		if a == status {
			return true
		}
	}
	return false
}

func metricLabel(endpoint string) string {
	if i := strings.Index(endpoint, "?"); i >= 0 {
		return endpoint[:i]
	}
	return endpoint
}
