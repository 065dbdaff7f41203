package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAdapt(t *testing.T) {
	h := Adapt(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/x-test")
		w.WriteHeader(http.StatusAccepted)
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("captured"))
	}))

	resp, err := h(context.Background(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if err != nil {
		t.Fatalf("Adapt() error = %v", err)
	}
	if resp.Status != http.StatusAccepted {
		t.Errorf("Status = %d, want first written status", resp.Status)
	}
	if resp.Header.Get("Content-Type") != "text/x-test" {
		t.Errorf("Content-Type = %q", resp.Header.Get("Content-Type"))
	}
	if string(resp.Body) != "captured" {
		t.Errorf("Body = %q", resp.Body)
	}
}

func TestAdapt_ImplicitOK(t *testing.T) {
	h := Adapt(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	resp, err := h(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("Adapt() error = %v", err)
	}
	if resp.Status != http.StatusOK || len(resp.Body) != 0 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestJSON(t *testing.T) {
	resp, err := JSON(http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	if resp.Status != http.StatusServiceUnavailable {
		t.Errorf("Status = %d", resp.Status)
	}
	if string(resp.Body) != `{"status":"not_ready"}` {
		t.Errorf("Body = %s", resp.Body)
	}
	if resp.Header.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", resp.Header.Get("Content-Type"))
	}

	if _, err := JSON(http.StatusOK, make(chan int)); err == nil {
		t.Error("JSON(chan) error = nil")
	}
}
