package deps

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/boxtower/pkg/integrations/brew"
	"github.com/matzehuels/boxtower/pkg/integrations/npm"
)

// Default crawl limits.
const (
	DefaultMaxDepth = 10
	DefaultMaxNodes = 500
	DefaultWorkers  = 8
)

// Package is one registry entry.
type Package struct {
	Name         string
	Version      string
	Dependencies []string
}

// Fetcher looks up a single package.
type Fetcher interface {
	Fetch(ctx context.Context, name string, refresh bool) (*Package, error)
}

// FetcherFunc adapts a function to [Fetcher].
type FetcherFunc func(ctx context.Context, name string, refresh bool) (*Package, error)

func (f FetcherFunc) Fetch(ctx context.Context, name string, refresh bool) (*Package, error) {
	return f(ctx, name, refresh)
}

// Options bounds a crawl.
type Options struct {
	// MaxDepth is the number of dependency hops followed from the root.
	// Packages at the limit are drawn without their dependencies.
	MaxDepth int
	// MaxNodes caps the packages fetched. Dependencies beyond it are drawn
	// as leaves.
	MaxNodes int
	// Workers is the number of concurrent requests.
	Workers int
	// Refresh bypasses cached registry answers.
	Refresh bool
	Logger  *log.Logger
}

// WithDefaults fills zero fields.
func (o Options) WithDefaults() Options {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxNodes <= 0 {
		o.MaxNodes = DefaultMaxNodes
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// NPM adapts an npm registry client.
func NPM(c *npm.Client) Fetcher {
	return FetcherFunc(func(ctx context.Context, name string, refresh bool) (*Package, error) {
		p, err := c.FetchPackage(ctx, name, refresh)
		if err != nil {
			return nil, err
		}
		return &Package{Name: p.Name, Version: p.Version, Dependencies: p.Dependencies}, nil
	})
}

// Brew adapts a Homebrew formula client.
func Brew(c *brew.Client) Fetcher {
	return FetcherFunc(func(ctx context.Context, name string, refresh bool) (*Package, error) {
		f, err := c.FetchFormula(ctx, name, refresh)
		if err != nil {
			return nil, err
		}
		return &Package{Name: f.Name, Version: f.Version, Dependencies: f.Dependencies}, nil
	})
}
