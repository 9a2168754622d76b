package webclient_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/raysh454/ptrprobe/internal/interfaces"
	"github.com/raysh454/ptrprobe/internal/model"
	"github.com/raysh454/ptrprobe/internal/webclient"
)

// noopLogger is a test-local logger implementation that discards all log messages
type noopLogger struct{}

func (n *noopLogger) Debug(msg string, fields ...interfaces.Field) {}
func (n *noopLogger) Info(msg string, fields ...interfaces.Field)  {}
func (n *noopLogger) Warn(msg string, fields ...interfaces.Field)  {}
func (n *noopLogger) Error(msg string, fields ...interfaces.Field) {}
func (n *noopLogger) With(fields ...interfaces.Field) interfaces.Logger {
	return n
}

// ─── Do: real HTTP round-trip via httptest ──────────────────────────────

func TestNetHTTPClient_Do_GET_ReturnsBody(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Custom", "hello")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "response body")
	}))
	defer ts.Close()

	client, err := webclient.NewNetHTTPClient(webclient.DefaultConfig(), &noopLogger{}, ts.Client())
	if err != nil {
		t.Fatalf("NewNetHTTPClient: %v", err)
	}
	defer client.Close()

	resp, err := client.Do(context.Background(), &model.Request{
		Method: "GET",
		URL:    ts.URL + "/test",
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}

	if resp.StatusCode != 200 || !resp.OK() {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if string(resp.Body) != "response body" {
		t.Errorf("expected 'response body', got %q", resp.Body)
	}
	if resp.Headers.Get("X-Custom") != "hello" {
		t.Errorf("expected X-Custom header 'hello', got %q", resp.Headers.Get("X-Custom"))
	}
}

func TestNetHTTPClient_Do_ForwardsHeaders(t *testing.T) {
	t.Parallel()
	var got http.Header
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	client, err := webclient.NewNetHTTPClient(webclient.DefaultConfig(), &noopLogger{}, ts.Client())
	if err != nil {
		t.Fatalf("NewNetHTTPClient: %v", err)
	}
	defer client.Close()

	hdrs := http.Header{}
	hdrs.Set("User-Agent", "test-agent/1.0")
	hdrs.Set("Referer", "https://www.google.com/")
	hdrs.Set("Accept-Language", "en-US,en;q=0.9")

	if _, err := client.Do(context.Background(), &model.Request{Method: "GET", URL: ts.URL, Headers: hdrs}); err != nil {
		t.Fatalf("Do: %v", err)
	}

	for _, k := range []string{"User-Agent", "Referer", "Accept-Language"} {
		if got.Get(k) != hdrs.Get(k) {
			t.Errorf("header %s = %q, want %q", k, got.Get(k), hdrs.Get(k))
		}
	}
}

func TestNetHTTPClient_Do_PropagatesStatusCode(t *testing.T) {
	t.Parallel()
	codes := []int{200, 301, 404, 500}

	for _, code := range codes {
		t.Run(http.StatusText(code), func(t *testing.T) {
			t.Parallel()
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(code)
			}))
			defer ts.Close()

			httpClient := ts.Client()
			httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			}
			client, err := webclient.NewNetHTTPClient(webclient.DefaultConfig(), &noopLogger{}, httpClient)
			if err != nil {
				t.Fatalf("NewNetHTTPClient: %v", err)
			}
			defer client.Close()

			resp, err := client.Do(context.Background(), &model.Request{Method: "GET", URL: ts.URL})
			if err != nil {
				t.Fatalf("Do: %v", err)
			}
			if resp.StatusCode != code {
				t.Errorf("expected %d, got %d", code, resp.StatusCode)
			}
			if resp.OK() != (code == 200) {
				t.Errorf("OK() = %v for %d", resp.OK(), code)
			}
		})
	}
}

func TestNetHTTPClient_Do_NilRequest_ReturnsError(t *testing.T) {
	t.Parallel()
	client, _ := webclient.NewNetHTTPClient(webclient.DefaultConfig(), &noopLogger{}, nil)
	defer client.Close()

	_, err := client.Do(context.Background(), nil)
	if !errors.Is(err, webclient.ErrNilRequest) {
		t.Fatalf("expected ErrNilRequest, got %v", err)
	}
}

func TestNetHTTPClient_Do_ConnectionRefused_ReturnsError(t *testing.T) {
	t.Parallel()
	client, _ := webclient.NewNetHTTPClient(webclient.DefaultConfig(), &noopLogger{}, &http.Client{Timeout: 1 * time.Second})
	defer client.Close()

	_, err := client.Do(context.Background(), &model.Request{
		Method: "GET",
		URL:    "http://127.0.0.1:1", // port 1 is unlikely to be open
	})
	if err == nil {
		t.Fatal("expected error for connection refused")
	}
}

func TestNetHTTPClient_Do_ContextCanceled_ReturnsError(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		w.WriteHeader(200)
	}))
	defer ts.Close()

	client, _ := webclient.NewNetHTTPClient(webclient.DefaultConfig(), &noopLogger{}, ts.Client())
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	_, err := client.Do(ctx, &model.Request{Method: "GET", URL: ts.URL})
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
}

// ─── Get convenience method ────────────────────────────────────────────

func TestNetHTTPClient_Get_ReturnsBody(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			t.Errorf("expected GET, got %s", r.Method)
		}
		_, _ = io.WriteString(w, "get-response")
	}))
	defer ts.Close()

	client, _ := webclient.NewNetHTTPClient(webclient.DefaultConfig(), &noopLogger{}, ts.Client())
	defer client.Close()

	resp, err := client.Get(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(resp.Body) != "get-response" {
		t.Errorf("expected 'get-response', got %q", resp.Body)
	}
}

// ─── Body cap ─────────────────────────────────────────────────────────

func TestNetHTTPClient_Do_TruncatesLargeBody(t *testing.T) {
	t.Parallel()
	largeBody := strings.Repeat("X", 1<<20)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, largeBody)
	}))
	defer ts.Close()

	cfg := webclient.DefaultConfig()
	cfg.MaxBodyBytes = 4096
	client, _ := webclient.NewNetHTTPClient(cfg, &noopLogger{}, ts.Client())
	defer client.Close()

	resp, err := client.Do(context.Background(), &model.Request{Method: "GET", URL: ts.URL})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if len(resp.Body) != 4096 {
		t.Errorf("expected body capped at 4096 bytes, got %d", len(resp.Body))
	}
}
