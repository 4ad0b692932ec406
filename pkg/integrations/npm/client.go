// Package npm reads package metadata from the npm registry.
package npm

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/boxtower/pkg/cache"
	"github.com/matzehuels/boxtower/pkg/integrations"
)

// DefaultBaseURL is the public registry.
const DefaultBaseURL = "https://registry.npmjs.org"

// PackageInfo is the latest release of a package.
type PackageInfo struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Description  string   `json:"description,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// Client fetches packages from one registry.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient returns a client for the public registry that caches answers
// in c for ttl.
func NewClient(c cache.Cache, ttl time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(c, "npm:", ttl, nil),
		baseURL: DefaultBaseURL,
	}
}

// WithBaseURL points the client at a mirror or a private registry.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimRight(u, "/")
	return c
}

// FetchPackage returns the runtime dependencies of the release tagged
// latest, sorted by name. devDependencies and peerDependencies are not
// followed.
func (c *Client) FetchPackage(ctx context.Context, name string, refresh bool) (*PackageInfo, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	var info PackageInfo
	err := c.Cached(ctx, name, refresh, &info, func() error {
		return c.fetch(ctx, name, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetch(ctx context.Context, name string, info *PackageInfo) error {
	var doc registryDoc
	if err := c.Get(ctx, c.baseURL+"/"+integrations.PathEscape(name), &doc); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: npm package %s", err, name)
		}
		return err
	}

	latest := doc.DistTags.Latest
	v, ok := doc.Versions[latest]
	if !ok {
		return fmt.Errorf("%w: npm package %s has no release %q", integrations.ErrNotFound, name, latest)
	}
	*info = PackageInfo{
		Name:         doc.Name,
		Version:      latest,
		Description:  v.Description,
		Dependencies: slices.Sorted(maps.Keys(v.Dependencies)),
	}
	return nil
}

type registryDoc struct {
	Name     string `json:"name"`
	DistTags struct {
		Latest string `json:"latest"`
	} `json:"dist-tags"`
	Versions map[string]release `json:"versions"`
}

type release struct {
	Description  string            `json:"description"`
	Dependencies map[string]string `json:"dependencies"`
}
