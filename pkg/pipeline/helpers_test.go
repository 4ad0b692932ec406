package pipeline

import (
	"testing"

	"github.com/matzehuels/boxtower/pkg/cache"
	"github.com/matzehuels/boxtower/pkg/render/tower/transform"
)

func newMemoryCache(t *testing.T) *cache.MemoryCache {
	t.Helper()
	c, err := cache.NewMemoryCache(0)
	if err != nil {
		t.Fatalf("NewMemoryCache: %v", err)
	}
	return c
}

func transformOpts(inset, jitter int) transform.Options {
	o := transform.DefaultOptions()
	o.Inset = inset
	o.Jitter = jitter
	return o
}
