package cache

import (
	"context"
	"fmt"
	"time"
)

// Backend names accepted by Open.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Backends lists the accepted backend names.
var Backends = []string{BackendFile, BackendRedis, BackendMongo, BackendNone}

// Options selects and configures a backend for Open.
type Options struct {
	Backend   string
	Dir       string
	RedisAddr string
	MongoURI  string
	// Prefix namespaces Redis keys.
	Prefix string
}

// Open constructs the backend named by opts.Backend.
// An empty backend means file.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case BackendNone:
		return Disabled("backend is " + BackendNone), nil
	case BackendFile, "":
		if opts.Dir == "" {
			return nil, fmt.Errorf("file cache requires a directory")
		}
		return NewFileCache(opts.Dir)
	case BackendRedis:
		return NewRedisCache(ctx, RedisOptions{Addr: opts.RedisAddr, Prefix: opts.Prefix})
	case BackendMongo:
		return NewMongoCache(ctx, MongoOptions{URI: opts.MongoURI})
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}

// DisabledCache stores nothing: every Get misses and writes are dropped.
// Reason records why caching is off so callers can report it.
type DisabledCache struct {
	Reason string
}

// Disabled returns a cache that stores nothing.
func Disabled(reason string) *DisabledCache {
	return &DisabledCache{Reason: reason}
}

func (*DisabledCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (*DisabledCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (*DisabledCache) Delete(context.Context, string) error { return nil }

func (*DisabledCache) Close() error { return nil }

// IsDisabled reports whether c is a DisabledCache and, if so, why.
func IsDisabled(c Cache) (string, bool) {
	d, ok := c.(*DisabledCache)
	if !ok {
		return "", false
	}
	return d.Reason, true
}

var _ Cache = (*DisabledCache)(nil)
