package util

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeCBOR = "application/cbor"
)

// Client wraps an http.Client with a fixed set of headers added to every
// request.
type Client struct {
	client *http.Client
	header map[string]string
}

// NewHTTPClient returns a Client with the given request timeout. A zero
// timeout defaults to 30 seconds.
func NewHTTPClient(timeout time.Duration, header map[string]string) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	h := make(map[string]string, len(header))
	for k, v := range header {
		h[k] = v
	}
	return &Client{
		client: &http.Client{Timeout: timeout},
		header: h,
	}
}

// NewHTTPRequest builds and performs an http call, returning the status code
// and the response body.
// @param method <string>: http method
// @param url <string>: URL http to call
func (c *Client) NewHTTPRequest(
	ctx context.Context, method, url string, body []byte, header map[string]string,
) (int, []byte, error) {
	switch method {
	case http.MethodGet:
		return c.do(ctx, method, url, nil, header)
	case http.MethodPost:
		return c.do(ctx, method, url, body, header)
	default:
		return 0, nil, fmt.Errorf("verb not supported %s", method)
	}
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) (int, []byte, error) {
	return c.NewHTTPRequest(ctx, http.MethodGet, url, nil, nil)
}

// Post performs a POST request with the given content type.
func (c *Client) Post(
	ctx context.Context, url, contentType string, body []byte,
) (int, []byte, error) {
	return c.NewHTTPRequest(
		ctx, http.MethodPost, url, body, map[string]string{"Content-Type": contentType},
	)
}

func (c *Client) do(
	ctx context.Context, method, url string, body []byte, header map[string]string,
) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, err
	}

	req.Header.Set("Accept", ContentTypeJSON)
	for key, value := range c.header {
		req.Header.Set(key, value)
	}
	for key, value := range header {
		req.Header.Set(key, value)
	}

	rs, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to perform request: %w", err)
	}
	defer rs.Body.Close()

	bodyBytes, err := io.ReadAll(rs.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to parse response body: %w", err)
	}

	return rs.StatusCode, bodyBytes, nil
}
