package cache

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Open creates a cache from a URL:
//
//	""  or "none"              caching disabled
//	memory[://?size=N]          in-process LRU
//	file:///path or a path      [FileCache] in that directory
//	redis://..., rediss://...   [RedisCache]
//	mongodb://..., mongodb+srv://...  [MongoCache]
func Open(ctx context.Context, raw string) (Cache, error) {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "", "none", "off":
		return NewNullCache(), nil
	case "memory":
		return asCache(NewMemoryCache(0))
	}

	scheme, _, found := strings.Cut(raw, "://")
	if !found {
		return asCache(NewFileCache(raw))
	}

	switch scheme {
	case "memory":
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedURL, err)
		}
		size := 0
		if s := u.Query().Get("size"); s != "" {
			if size, err = strconv.Atoi(s); err != nil {
				return nil, fmt.Errorf("%w: size %q", ErrUnsupportedURL, s)
			}
		}
		return asCache(NewMemoryCache(size))
	case "file":
		u, err := url.Parse(raw)
		if err != nil || u.Path == "" {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedURL, raw)
		}
		return asCache(NewFileCache(u.Path))
	case "redis", "rediss":
		return asCache(NewRedisCache(ctx, raw))
	case "mongodb", "mongodb+srv":
		return asCache(NewMongoCache(ctx, raw))
	default:
		return nil, fmt.Errorf("%w: scheme %q", ErrUnsupportedURL, scheme)
	}
}

// asCache keeps a failed constructor from yielding a non-nil interface
// holding a nil pointer.
func asCache[C Cache](c C, err error) (Cache, error) {
	if err != nil {
		return nil, err
	}
	return c, nil
}
