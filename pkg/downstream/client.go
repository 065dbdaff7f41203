package downstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mercator-hq/harbor/pkg/config"
	"mercator-hq/harbor/pkg/telemetry/logging"
	"mercator-hq/harbor/pkg/telemetry/tracing"
)

// Response is a completed downstream exchange.
type Response struct {
	// Status is the HTTP status code.
	Status int

	// Header holds the response headers.
	Header http.Header

	// Body is the full response body.
	Body []byte

	// Duration is the time from sending the request to reading the body.
	Duration time.Duration
}

// Client performs GET requests against a base address.
type Client struct {
	base      *url.URL
	client    *http.Client
	transport *http.Transport
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger. slog.Default is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client for baseURL, e.g. "http://127.0.0.1:3000".
func New(baseURL string, cfg config.DownstreamConfig, opts ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid downstream base URL %q: %w", baseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid downstream base URL %q: scheme must be http or https", baseURL)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("invalid downstream base URL %q: missing host", baseURL)
	}

	transport := &http.Transport{
		Proxy:               nil,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConns,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}

	c := &Client{
		base:      base,
		transport: transport,
		// No Timeout: downstream calls are never cut short.
		client: &http.Client{Transport: transport},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the base address.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// URL resolves pathAndQuery against the base address.
func (c *Client) URL(pathAndQuery string) (string, error) {
	if !strings.HasPrefix(pathAndQuery, "/") {
		return "", &BuildError{Path: pathAndQuery, Err: errors.New("path must start with '/'")}
	}
	ref, err := url.ParseRequestURI(pathAndQuery)
	if err != nil {
		return "", &BuildError{Path: pathAndQuery, Err: err}
	}
	return c.base.ResolveReference(ref).String(), nil
}

// Get performs GET base+pathAndQuery and reads the whole body.
func (c *Client) Get(ctx context.Context, pathAndQuery string) (*Response, error) {
	target, err := c.URL(pathAndQuery)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &BuildError{Path: pathAndQuery, Err: err}
	}
	tracing.Inject(ctx, req.Header)
	if id := logging.GetRequestID(ctx); id != "" {
		req.Header.Set(logging.RequestIDHeader, id)
	}

	c.logger.DebugContext(ctx, "sending downstream request", "url", target)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: target, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	out := &Response{
		Status:   resp.StatusCode,
		Header:   resp.Header,
		Body:     body,
		Duration: time.Since(start),
	}

	c.logger.DebugContext(ctx, "downstream request completed",
		"url", target,
		"status", out.Status,
		"bytes", len(body),
		"duration", out.Duration,
	)
	return out, nil
}

// Fetch returns the body of GET base+pathAndQuery regardless of status.
func (c *Client) Fetch(ctx context.Context, pathAndQuery string) ([]byte, error) {
	resp, err := c.Get(ctx, pathAndQuery)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// CloseIdleConnections closes pooled connections that are not in use.
func (c *Client) CloseIdleConnections() {
	c.transport.CloseIdleConnections()
}
