package downstream

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"mercator-hq/harbor/pkg/config"
	"mercator-hq/harbor/pkg/telemetry/logging"
)

func testConfig() config.DownstreamConfig {
	return config.DownstreamConfig{MaxIdleConns: 4}
}

func newClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := New(baseURL, testConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(c.CloseIdleConnections)
	return c
}

func TestNew_InvalidBase(t *testing.T) {
	for _, base := range []string{"", "127.0.0.1:3000", "ftp://host", "http://", "::bad"} {
		if _, err := New(base, testConfig()); err == nil {
			t.Errorf("New(%q) error = nil, want error", base)
		}
	}
}

func TestClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s", r.Method)
		}
		w.Header().Set("X-Path", r.URL.RequestURI())
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))
	defer srv.Close()

	c := newClient(t, srv.URL)
	resp, err := c.Get(context.Background(), "/pause?100")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if resp.Status != http.StatusTeapot {
		t.Errorf("Status = %d, want 418", resp.Status)
	}
	if string(resp.Body) != "short and stout" {
		t.Errorf("Body = %q", resp.Body)
	}
	if got := resp.Header.Get("X-Path"); got != "/pause?100" {
		t.Errorf("server saw %q, want /pause?100", got)
	}
}

func TestClient_FetchIgnoresStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	body, err := newClient(t, srv.URL).Fetch(context.Background(), "/error")
	if err != nil {
		t.Fatalf("Fetch() error = %v, want nil for 500", err)
	}
	if string(body) != "Internal server error\n" {
		t.Errorf("body = %q", body)
	}
}

func TestClient_PropagatesRequestID(t *testing.T) {
	seen := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Header.Get(logging.RequestIDHeader)
	}))
	defer srv.Close()

	ctx := logging.WithRequestID(context.Background(), "req-42")
	if _, err := newClient(t, srv.URL).Get(ctx, "/"); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got := <-seen; got != "req-42" {
		t.Errorf("X-Request-ID = %q, want req-42", got)
	}
}

func TestClient_BuildError(t *testing.T) {
	c := newClient(t, "http://127.0.0.1:1")

	for _, path := range []string{"pause", "", "/%zz"} {
		_, err := c.Get(context.Background(), path)
		var buildErr *BuildError
		if !errors.As(err, &buildErr) {
			t.Errorf("Get(%q) error = %v, want *BuildError", path, err)
			continue
		}
		if buildErr.Path != path {
			t.Errorf("BuildError.Path = %q, want %q", buildErr.Path, path)
		}
	}
}

func TestClient_TransportError(t *testing.T) {
	// Reserve a port, then close it so nothing is listening.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	c := newClient(t, "http://"+addr)
	_, err = c.Get(context.Background(), "/")

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Get() error = %v, want *TransportError", err)
	}
	if transportErr.URL != "http://"+addr+"/" {
		t.Errorf("TransportError.URL = %q", transportErr.URL)
	}
	if transportErr.Unwrap() == nil {
		t.Error("TransportError does not wrap the cause")
	}
}

func TestClient_URL(t *testing.T) {
	c := newClient(t, "http://127.0.0.1:3000")

	got, err := c.URL("/pause?1000")
	if err != nil {
		t.Fatalf("URL() error = %v", err)
	}
	if got != "http://127.0.0.1:3000/pause?1000" {
		t.Errorf("URL() = %q", got)
	}
	if c.BaseURL() != "http://127.0.0.1:3000" {
		t.Errorf("BaseURL() = %q", c.BaseURL())
	}
}
