package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/boxtower/pkg/cache"
)

type response struct {
	Message string `json:"message"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })

	client := NewClient(c, "test:", time.Hour, map[string]string{"User-Agent": "boxtower-test"})
	client.SetHTTPClient(server.Client())
	return client, server
}

func TestNewClientNilCache(t *testing.T) {
	client := NewClient(nil, "test:", time.Hour, nil)
	if client.cache == nil {
		t.Fatal("nil cache should become a null cache")
	}
	if client.http == nil {
		t.Error("http client is nil")
	}
}

func TestClientGet(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != "boxtower-test" {
			t.Errorf("User-Agent = %q", got)
		}
		json.NewEncoder(w).Encode(response{Message: "hello"})
	})

	var resp response
	if err := client.Get(context.Background(), server.URL, &resp); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if resp.Message != "hello" {
		t.Errorf("Get() message = %q, want %q", resp.Message, "hello")
	}
}

func TestClientGetStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		want      error
		retryable bool
	}{
		{"not found", http.StatusNotFound, ErrNotFound, false},
		{"rate limited", http.StatusTooManyRequests, ErrNetwork, true},
		{"server error", http.StatusBadGateway, ErrNetwork, true},
		{"forbidden", http.StatusForbidden, ErrNetwork, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			var resp response
			err := client.Get(context.Background(), server.URL, &resp)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Get() error = %v, want %v", err, tt.want)
			}
			if got := cache.IsRetryable(err); got != tt.retryable {
				t.Errorf("IsRetryable = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestClientGetBadJSON(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>"))
	})

	var resp response
	err := client.Get(context.Background(), server.URL, &resp)
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("Get() error = %v, want ErrNetwork", err)
	}
}

func TestClientCached(t *testing.T) {
	var calls atomic.Int32
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(response{Message: "hello"})
	})
	ctx := context.Background()

	fetch := func(refresh bool) response {
		t.Helper()
		var resp response
		err := client.Cached(ctx, "greeting", refresh, &resp, func() error {
			return client.Get(ctx, server.URL, &resp)
		})
		if err != nil {
			t.Fatalf("Cached() error: %v", err)
		}
		return resp
	}

	if got := fetch(false); got.Message != "hello" {
		t.Fatalf("first fetch = %+v", got)
	}
	if got := fetch(false); got.Message != "hello" {
		t.Fatalf("cached fetch = %+v", got)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("requests after cache hit = %d, want 1", n)
	}

	fetch(true)
	if n := calls.Load(); n != 2 {
		t.Errorf("requests after refresh = %d, want 2", n)
	}

	if _, ok, _ := client.cache.Get(ctx, "test:greeting"); !ok {
		t.Error("entry not stored under the prefixed key")
	}
}

func TestClientCachedError(t *testing.T) {
	client := NewClient(nil, "test:", time.Hour, nil)
	var resp response
	err := client.Cached(context.Background(), "missing", false, &resp, func() error {
		return ErrNotFound
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Cached() error = %v, want ErrNotFound", err)
	}
}

func TestPathEscape(t *testing.T) {
	tests := map[string]string{
		"express":      "express",
		"@babel/core":  "@babel%2Fcore",
		"lodash.merge": "lodash.merge",
	}
	for in, want := range tests {
		if got := PathEscape(in); got != want {
			t.Errorf("PathEscape(%q) = %q, want %q", in, got, want)
		}
	}
}
