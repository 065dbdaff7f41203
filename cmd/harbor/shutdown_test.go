package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"mercator-hq/harbor/pkg/cli"
	"mercator-hq/harbor/pkg/downstream"
)

func setShutdownFlags(t *testing.T, addr, output string) {
	t.Helper()
	orig := shutdownFlags
	t.Cleanup(func() { shutdownFlags = orig })
	shutdownFlags.addr = addr
	shutdownFlags.output = output
	shutdownFlags.timeout = 5 * time.Second
}

func TestRunShutdown(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/shutdown" {
			http.NotFound(w, r)
			return
		}
		hits.Add(1)
		_, _ = w.Write([]byte("Initiating graceful shutdown"))
	}))
	defer ts.Close()

	setShutdownFlags(t, strings.TrimPrefix(ts.URL, "http://"), "text")
	buf := &bytes.Buffer{}
	shutdownCmd.SetOut(buf)

	if err := runShutdown(shutdownCmd, nil); err != nil {
		t.Fatalf("runShutdown() error = %v", err)
	}
	if buf.String() != "Initiating graceful shutdown\n" {
		t.Errorf("output = %q", buf.String())
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server saw %d requests, want 1", n)
	}
}

func TestRunShutdown_UnexpectedStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}))
	defer ts.Close()

	setShutdownFlags(t, strings.TrimPrefix(ts.URL, "http://"), "text")

	err := runShutdown(shutdownCmd, nil)
	var cmdErr *cli.CommandError
	if !errors.As(err, &cmdErr) || cmdErr.Command != "shutdown" {
		t.Fatalf("error = %v, want CommandError", err)
	}
}

func TestRunShutdown_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	addr := strings.TrimPrefix(ts.URL, "http://")
	ts.Close()

	setShutdownFlags(t, addr, "text")

	err := runShutdown(shutdownCmd, nil)
	var transportErr *downstream.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("error = %v, want TransportError", err)
	}
}
