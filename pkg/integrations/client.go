package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/boxtower/pkg/cache"
)

const (
	httpTimeout = 10 * time.Second

	// DefaultTTL is how long a registry answer is reused.
	DefaultTTL = 24 * time.Hour

	// maxResponseSize bounds a single registry document. npm documents of
	// popular packages list every version ever published and run to a few
	// megabytes.
	maxResponseSize = 64 << 20
)

var (
	// ErrNotFound is returned when the registry has no such package.
	ErrNotFound = errors.New("package not found")

	// ErrNetwork is returned for transport failures and unexpected status
	// codes.
	ErrNetwork = errors.New("network error")
)

// Client performs cached JSON requests against one registry.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	prefix  string
	ttl     time.Duration
	headers map[string]string
}

// NewClient returns a client that stores responses in c under keys
// starting with prefix. A nil c disables caching. headers are sent with
// every request.
func NewClient(c cache.Cache, prefix string, ttl time.Duration, headers map[string]string) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		http:    &http.Client{Timeout: httpTimeout},
		cache:   c,
		prefix:  prefix,
		ttl:     ttl,
		headers: headers,
	}
}

// SetHTTPClient replaces the underlying HTTP client.
func (c *Client) SetHTTPClient(h *http.Client) { c.http = h }

// Cached decodes the entry under key into v, or runs fetch, which must fill
// v, and stores the result. refresh skips the lookup but still stores.
// Cache failures only cost a refetch.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	key = c.prefix + key
	if !refresh {
		if data, ok, err := c.cache.Get(ctx, key); err == nil && ok && json.Unmarshal(data, v) == nil {
			return nil
		}
	}
	if err := cache.RetryWithBackoff(ctx, fetch); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		_ = c.cache.Set(ctx, key, data, c.ttl)
	}
	return nil
}

// Get fetches rawURL and JSON-decodes the body into v.
func (c *Client) Get(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	for k, val := range c.headers {
		req.Header.Set(k, val)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return cache.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return err
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrNetwork, rawURL, err)
	}
	return nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests || code >= 500:
		return cache.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

// PathEscape escapes a package name for use as one URL path segment.
func PathEscape(name string) string { return url.PathEscape(name) }
