package crawler

import (
	"sync/atomic"

	"gocrawler/internal/fetcher"
)

// counters are the engine's global tallies. Atomic increments; approximate
// reads are fine for the shutdown check.
type counters struct {
	fetchedOK atomic.Int64

	dnsErrors  atomic.Int64
	netErrors  atomic.Int64
	httpErrors atomic.Int64
	cancelled  atomic.Int64

	rejected atomic.Int64 // normalizer drops
}

func (c *counters) addError(kind fetcher.ErrKind) {
	switch kind {
	case fetcher.KindDNS:
		c.dnsErrors.Add(1)
	case fetcher.KindHTTP:
		c.httpErrors.Add(1)
	case fetcher.KindCancelled:
		c.cancelled.Add(1)
	default:
		c.netErrors.Add(1)
	}
}

func (c *counters) errorTotal() int64 {
	return c.dnsErrors.Load() + c.netErrors.Load() + c.httpErrors.Load() + c.cancelled.Load()
}
