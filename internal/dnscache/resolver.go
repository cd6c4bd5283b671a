// internal/dnscache/resolver.go
package dnscache

import (
	"context"
	"net"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"gocrawler/internal/metrics"
)

// LookupFunc resolves a host to one or more addresses.
type LookupFunc func(ctx context.Context, host string) ([]string, error)

type Options struct {
	Enabled     bool          // false = raw lookups, no cache
	NegativeTTL time.Duration // how long a failed resolution is remembered
	Lookup      LookupFunc    // nil = net.DefaultResolver
}

type entry struct {
	addr    string
	err     error
	expires time.Time // zero = never (positive entries)
}

// Resolver caches host resolutions for the duration of a run. Concurrent
// misses for the same host collapse onto a single in-flight lookup. Failed
// resolutions are cached for NegativeTTL so broken hosts do not hammer DNS.
type Resolver struct {
	opts Options

	mu      sync.RWMutex
	entries map[string]entry
	sf      singleflight.Group
}

func New(opts Options) *Resolver {
	if opts.Lookup == nil {
		opts.Lookup = func(ctx context.Context, host string) ([]string, error) {
			return net.DefaultResolver.LookupHost(ctx, host)
		}
	}
	if opts.NegativeTTL <= 0 {
		opts.NegativeTTL = 30 * time.Second
	}
	return &Resolver{
		opts:    opts,
		entries: make(map[string]entry),
	}
}

// Resolve returns one address for host, from cache when possible.
func (r *Resolver) Resolve(ctx context.Context, host string) (string, error) {
	if !r.opts.Enabled {
		return r.lookupOne(ctx, host)
	}

	r.mu.RLock()
	e, ok := r.entries[host]
	r.mu.RUnlock()
	if ok && (e.expires.IsZero() || time.Now().Before(e.expires)) {
		metrics.DNSCacheHits.Inc()
		return e.addr, e.err
	}

	metrics.DNSCacheMisses.Inc()
	v, err, _ := r.sf.Do(host, func() (any, error) {
		addr, err := r.lookupOne(ctx, host)
		if err != nil && ctx.Err() != nil {
			// cancellation is not a resolution result; skip the negative cache
			return addr, err
		}
		e := entry{addr: addr, err: err}
		if err != nil {
			e.expires = time.Now().Add(r.opts.NegativeTTL)
		}
		r.mu.Lock()
		r.entries[host] = e
		metrics.DNSCacheSize.Set(float64(len(r.entries)))
		r.mu.Unlock()
		return addr, err
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (r *Resolver) lookupOne(ctx context.Context, host string) (string, error) {
	addrs, err := r.opts.Lookup(ctx, host)
	if err != nil {
		return "", err
	}
	if len(addrs) == 0 {
		return "", &net.DNSError{Err: "no addresses", Name: host, IsNotFound: true}
	}
	return addrs[0], nil
}

// Size reports the number of cached entries.
func (r *Resolver) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
