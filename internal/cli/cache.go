package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirosfoundation/go-netsuite/pkg/cache"
)

// openCache selects a cache backend from a --cache value: "memory", a
// redis:// URL or a mongodb:// URL. An empty value disables caching.
// Shared backends store gzip compressed values.
func openCache(ctx context.Context, spec string) (cache.Cache, error) {
	switch {
	case spec == "":
		return nil, nil
	case spec == "memory":
		return cache.NewMemoryCache(), nil
	case strings.HasPrefix(spec, "redis://"), strings.HasPrefix(spec, "rediss://"):
		c, err := cache.NewRedisCacheFromURL(ctx, spec)
		if err != nil {
			return nil, err
		}
		return cache.NewGzipCache(c), nil
	case strings.HasPrefix(spec, "mongodb://"), strings.HasPrefix(spec, "mongodb+srv://"):
		c, err := cache.NewMongoCache(ctx, &cache.MongoConfig{URI: spec})
		if err != nil {
			return nil, err
		}
		return cache.NewGzipCache(c), nil
	default:
		return nil, fmt.Errorf("unsupported cache %q (use memory, redis://... or mongodb://...)", spec)
	}
}
