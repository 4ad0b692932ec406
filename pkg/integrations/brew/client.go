// Package brew reads formula metadata from the Homebrew JSON API.
package brew

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/boxtower/pkg/cache"
	"github.com/matzehuels/boxtower/pkg/integrations"
)

// DefaultBaseURL serves formulae from homebrew/core.
const DefaultBaseURL = "https://formulae.brew.sh/api/formula"

// FormulaInfo is a formula and its runtime dependencies.
type FormulaInfo struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Description  string   `json:"description,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// Client fetches formulae.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient returns a client for homebrew/core that caches answers in c
// for ttl.
func NewClient(c cache.Cache, ttl time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(c, "brew:", ttl, nil),
		baseURL: DefaultBaseURL,
	}
}

// WithBaseURL points the client at another API root.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimRight(u, "/")
	return c
}

// FetchFormula returns name with the dependencies `brew deps` follows by
// default. Build and test dependencies are left out.
func (c *Client) FetchFormula(ctx context.Context, name string, refresh bool) (*FormulaInfo, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	var info FormulaInfo
	err := c.Cached(ctx, name, refresh, &info, func() error {
		var f formula
		if err := c.Get(ctx, c.baseURL+"/"+integrations.PathEscape(name)+".json", &f); err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return fmt.Errorf("%w: formula %s", err, name)
			}
			return err
		}
		info = FormulaInfo{
			Name:         f.Name,
			Version:      f.Versions.Stable,
			Description:  f.Desc,
			Dependencies: f.Dependencies,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

type formula struct {
	Name     string `json:"name"`
	Desc     string `json:"desc"`
	Versions struct {
		Stable string `json:"stable"`
	} `json:"versions"`
	Dependencies []string `json:"dependencies"`
}
