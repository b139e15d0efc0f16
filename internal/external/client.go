// Package external holds the HTTP clients for third-party providers. Every
// call goes through BaseClient, which trips a per-provider circuit breaker
// after repeated failures. Calls are never retried.
package external

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/realtyhub/backoffice/internal/domain"
)

const defaultTimeout = 10 * time.Second

type BaseClient struct {
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker[*http.Response]
	userAgent string
}

// NewBaseClient wraps httpClient; a nil client gets a 10s timeout default.
func NewBaseClient(httpClient *http.Client, name, userAgent string) *BaseClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	cb := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &BaseClient{client: httpClient, breaker: cb, userAgent: userAgent}
}

// Do sends req once. Transport errors and 5xx responses count against the
// breaker; 5xx responses are still returned to the caller for mapping.
func (c *BaseClient) Do(req *http.Request) (*http.Response, error) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	var serverErr *http.Response
	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			serverErr = resp
			return nil, fmt.Errorf("server error %d", resp.StatusCode)
		}
		return resp, nil
	})
	if serverErr != nil {
		return serverErr, nil
	}
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%s: %w: circuit open", c.breaker.Name(), domain.ErrProviderUnavailable)
		}
		return nil, fmt.Errorf("%s: %w: %v", c.breaker.Name(), domain.ErrProviderUnavailable, err)
	}
	return resp, nil
}

// State reports the breaker state, for health output.
func (c *BaseClient) State() string {
	return c.breaker.State().String()
}

func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	return string(b)
}
