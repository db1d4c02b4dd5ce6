// Package api is the typed client for the marketplace REST backend. All
// calls carry the caller's session cookie, run under a per-request timeout
// and pass through a circuit breaker; responses are decoded into exhaustive
// per-endpoint envelopes and validated before anything else sees them.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*upstreamResponse]
	timeout time.Duration
	log     *zap.Logger
}

type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
}

func NewClient(cfg Config, log *zap.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker[*upstreamResponse](gobreaker.Settings{
		Name:    "marketplace-backend",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		baseURL: cfg.BaseURL,
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: breaker,
		timeout: cfg.RequestTimeout,
		log:     log,
	}
}

type credentialsKey struct{}

// WithCredentials attaches the caller's raw Cookie header so that every
// upstream call is made with the marketplace session (cookie-based auth).
func WithCredentials(ctx context.Context, cookie string) context.Context {
	return context.WithValue(ctx, credentialsKey{}, cookie)
}

func credentialsFrom(ctx context.Context) string {
	cookie, _ := ctx.Value(credentialsKey{}).(string)
	return cookie
}

// upstreamResponse carries status and body out of the breaker. Only
// transport failures and 5xx responses count against the breaker; 4xx are
// the backend talking to us, not the backend being down.
type upstreamResponse struct {
	status int
	body   []byte
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*upstreamResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if cookie := credentialsFrom(ctx); cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	resp, err := c.breaker.Execute(func() (*upstreamResponse, error) {
		httpResp, reqErr := c.http.Do(req)
		if reqErr != nil {
			return nil, reqErr
		}
		defer httpResp.Body.Close()

		data, readErr := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
		if readErr != nil {
			return nil, readErr
		}
		if httpResp.StatusCode >= http.StatusInternalServerError {
			return nil, fmt.Errorf("upstream returned %d", httpResp.StatusCode)
		}
		return &upstreamResponse{status: httpResp.StatusCode, body: data}, nil
	})
	if err != nil {
		c.log.Warn("upstream call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, err
	}
	return resp, nil
}

func (r *upstreamResponse) ok() bool {
	return r.status >= http.StatusOK && r.status < http.StatusMultipleChoices
}

// serverMessage digs the human-readable reason out of an error body; falls
// back to the HTTP status when the body is not the expected envelope.
func (r *upstreamResponse) serverMessage() string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(r.body, &envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}
	return http.StatusText(r.status)
}

func decode(r *upstreamResponse, out any) error {
	if err := json.Unmarshal(r.body, out); err != nil {
		return fmt.Errorf("decode upstream response: %w", err)
	}
	return nil
}
