package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"mercator-hq/harbor/pkg/aggregator"
	"mercator-hq/harbor/pkg/apperror"
	"mercator-hq/harbor/pkg/router"
	"mercator-hq/harbor/pkg/shutdown"
	"mercator-hq/harbor/pkg/telemetry/health"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newState(fetch aggregator.FetcherFunc, targets ...string) *State {
	if fetch == nil {
		fetch = func(_ context.Context, target string) ([]byte, error) {
			return []byte("body of " + target), nil
		}
	}
	return &State{
		Port:         3000,
		PauseDefault: 20 * time.Millisecond,
		Coordinator:  shutdown.NewCoordinator(shutdown.WithLogger(discard)),
		Aggregator:   aggregator.New(fetch, targets, aggregator.WithLogger(discard)),
		Health:       health.New(time.Second),
	}
}

func newRouter(s *State) *router.Router {
	rt := router.New()
	Register(rt, s)
	return rt
}

func get(t *testing.T, rt *router.Router, target string) *router.Response {
	t.Helper()
	resp, err := rt.Dispatch(context.Background(), httptest.NewRequest(http.MethodGet, target, nil))
	if err != nil {
		t.Fatalf("GET %s error = %v", target, err)
	}
	return resp
}

func TestSimpleEndpoints(t *testing.T) {
	rt := newRouter(newState(nil))

	tests := []struct {
		target string
		status int
		body   string
	}{
		{"/", http.StatusOK, "Hello from `/`"},
		{"/port", http.StatusOK, "3000"},
		{"/nope", http.StatusNotFound, "Not found"},
		{"/port/", http.StatusNotFound, "Not found"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			resp := get(t, rt, tt.target)
			if resp.Status != tt.status || string(resp.Body) != tt.body {
				t.Errorf("GET %s = %d %q, want %d %q", tt.target, resp.Status, resp.Body, tt.status, tt.body)
			}
		})
	}
}

func TestPause(t *testing.T) {
	rt := newRouter(newState(nil))

	start := time.Now()
	resp := get(t, rt, "/pause?100")
	elapsed := time.Since(start)

	if string(resp.Body) != "Paused for 100 ms." {
		t.Errorf("body = %q", resp.Body)
	}
	if elapsed < 100*time.Millisecond {
		t.Errorf("paused %v, want at least 100ms", elapsed)
	}
}

func TestParsePause(t *testing.T) {
	def := 500 * time.Millisecond
	tests := map[string]int64{
		"":                     500,
		"0":                    0,
		"250":                  250,
		"abc":                  500,
		"-5":                   500,
		"1.5":                  500,
		"100&x=1":              500,
		"99999999999999999999": 500,
	}
	for raw, want := range tests {
		if got := ParsePause(raw, def); got != want {
			t.Errorf("ParsePause(%q) = %d, want %d", raw, got, want)
		}
	}
}

func TestPause_DefaultWhenMissing(t *testing.T) {
	rt := newRouter(newState(nil))
	if body := string(get(t, rt, "/pause").Body); body != "Paused for 20 ms." {
		t.Errorf("body = %q", body)
	}
}

func TestMulti(t *testing.T) {
	rt := newRouter(newState(nil, "/pause?1", "/port"))

	body := string(get(t, rt, "/multi").Body)
	if !strings.HasPrefix(body, "Total duration: ") {
		t.Errorf("body = %q", body)
	}
	if !strings.HasSuffix(body, ", Response 1: body of /pause?1, Response 2: body of /port") {
		t.Errorf("body = %q", body)
	}
}

func TestMulti_BranchFailure(t *testing.T) {
	cause := errors.New("connection refused")
	s := newState(func(_ context.Context, target string) ([]byte, error) {
		if target == "/bad" {
			return nil, cause
		}
		return []byte("ok"), nil
	}, "/good", "/bad")

	_, err := newRouter(s).Dispatch(context.Background(), httptest.NewRequest(http.MethodGet, "/multi", nil))

	var branchErr *aggregator.BranchError
	if !errors.As(err, &branchErr) || branchErr.Index != 1 {
		t.Fatalf("error = %v, want BranchError for branch 1", err)
	}
	if !errors.Is(err, cause) {
		t.Error("error does not wrap the cause")
	}
}

func TestMulti_BranchPanic(t *testing.T) {
	s := newState(func(_ context.Context, target string) ([]byte, error) {
		if target == "/boom" {
			panic("branch boom")
		}
		return []byte("ok"), nil
	}, "/ok", "/boom")

	_, err := newRouter(s).Dispatch(context.Background(), httptest.NewRequest(http.MethodGet, "/multi", nil))

	if _, ok := apperror.AsPanic(err); !ok {
		t.Fatalf("error = %v, want a contained branch panic", err)
	}
}

func TestError(t *testing.T) {
	_, err := newRouter(newState(nil)).Dispatch(context.Background(), httptest.NewRequest(http.MethodGet, "/error", nil))
	if !errors.Is(err, apperror.ErrApplication) {
		t.Errorf("error = %v, want ErrApplication", err)
	}
}

func TestPanic(t *testing.T) {
	rt := newRouter(newState(nil))

	defer func() {
		if v := recover(); v != IntentionalPanicText {
			t.Errorf("recovered %v, want %q", v, IntentionalPanicText)
		}
	}()
	_, _ = rt.Dispatch(context.Background(), httptest.NewRequest(http.MethodGet, "/panic", nil))
	t.Error("/panic returned normally")
}

func TestShutdown_OnlyFirstInitiates(t *testing.T) {
	s := newState(nil)
	rt := newRouter(s)

	const callers = 16
	bodies := make([]string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bodies[i] = string(get(t, rt, "/shutdown").Body)
		}()
	}
	wg.Wait()

	initiated := 0
	for _, b := range bodies {
		switch b {
		case ShutdownInitiated:
			initiated++
		case ShutdownInProgress:
		default:
			t.Errorf("unexpected body %q", b)
		}
	}
	if initiated != 1 {
		t.Errorf("%d callers saw %q, want exactly 1", initiated, ShutdownInitiated)
	}
	if s.Coordinator.State() != shutdown.StateDraining {
		t.Errorf("state = %v, want draining", s.Coordinator.State())
	}
}

func TestShutdown_AfterSignal(t *testing.T) {
	s := newState(nil)
	s.Coordinator.Notify()

	if body := string(get(t, newRouter(s), "/shutdown").Body); body != ShutdownInProgress {
		t.Errorf("body = %q, want %q", body, ShutdownInProgress)
	}
}

func TestHealth(t *testing.T) {
	resp := get(t, newRouter(newState(nil)), "/health")
	if resp.Status != http.StatusOK || string(resp.Body) != `{"status":"ok"}` {
		t.Errorf("GET /health = %d %s", resp.Status, resp.Body)
	}
}

func TestReady(t *testing.T) {
	s := newState(nil)
	rt := newRouter(s)

	var body struct {
		Status   string `json:"status"`
		Shutdown struct {
			State  string `json:"state"`
			Source string `json:"source"`
		} `json:"shutdown"`
	}

	resp := get(t, rt, "/ready")
	if resp.Status != http.StatusOK {
		t.Fatalf("idle /ready status = %d", resp.Status)
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != health.StatusReady || body.Shutdown.State != "idle" {
		t.Errorf("idle body = %+v", body)
	}

	s.Coordinator.RequestShutdown()

	resp = get(t, rt, "/ready")
	if resp.Status != http.StatusServiceUnavailable {
		t.Fatalf("draining /ready status = %d, want 503", resp.Status)
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Shutdown.State != "draining" || body.Shutdown.Source != "admin" {
		t.Errorf("draining body = %+v", body)
	}
}

func TestMetricsRoute(t *testing.T) {
	s := newState(nil)
	s.MetricsPath = "/metrics"
	s.Metrics = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("# HELP up\n"))
	})

	resp := get(t, newRouter(s), "/metrics")
	if resp.Status != http.StatusOK || string(resp.Body) != "# HELP up\n" {
		t.Errorf("GET /metrics = %d %q", resp.Status, resp.Body)
	}
}

func TestMetricsRoute_Disabled(t *testing.T) {
	if resp := get(t, newRouter(newState(nil)), "/metrics"); resp.Status != http.StatusNotFound {
		t.Errorf("GET /metrics status = %d, want 404 when metrics are off", resp.Status)
	}
}
