// Package accel provides the outbound client for the remote accelerator
// service. It is the sole component making calls to the backing API: it
// builds the request, attaches the API key, and normalizes non-2xx
// responses into uniform failures.
package accel

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// maxResponseBodySize caps response reads from the accelerator service.
// Prevents OOM from an unbounded response body.
const maxResponseBodySize = 10 * 1024 * 1024 // 10MB

// APIKeyHeader carries the accelerator API key on every outbound call.
const APIKeyHeader = "X-Api-Key"

// Client calls the remote accelerator service. Its configuration (base URL
// and API key) is fixed for the process lifetime and freely shared across
// concurrent invocations.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option is a functional option for configuring Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger for call diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client for the given accelerator base URL and API key.
// No per-call timeout is imposed; callers control cancellation via context.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// apiError is the conventional error envelope of accelerator responses.
type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Call issues a single best-effort round trip to the accelerator service.
// endpoint is a path under the base URL; method defaults to GET when empty;
// a non-nil body is serialized as JSON. The response body is returned as
// raw JSON for the caller to interpret.
//
// Non-2xx responses fail with the remote's error.message when present,
// otherwise "API error: <status>". No retries, no caching.
func (c *Client) Call(ctx context.Context, endpoint, method string, body interface{}) (json.RawMessage, error) {
	if method == "" {
		method = http.MethodGet
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	url := c.baseURL + endpoint

	var reqBody io.Reader
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set(APIKeyHeader, c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return nil, err
	}

	c.logger.Debug("accelerator call",
		"endpoint", endpoint,
		"method", method,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"fingerprint", requestFingerprint(method, endpoint, payload),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope apiError
		if json.Unmarshal(data, &envelope) == nil && envelope.Error.Message != "" {
			return nil, fmt.Errorf("%s", envelope.Error.Message)
		}
		return nil, fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("invalid JSON in accelerator response")
	}

	return json.RawMessage(data), nil
}

// requestFingerprint derives a cheap non-cryptographic hash of the call for
// debug-log correlation across client and server logs.
func requestFingerprint(method, endpoint string, payload []byte) string {
	h := xxhash.New()
	_, _ = h.WriteString(method)
	_, _ = h.WriteString(endpoint)
	_, _ = h.Write(payload)
	return fmt.Sprintf("%016x", h.Sum64())
}
