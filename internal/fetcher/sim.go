package fetcher

import (
	"bytes"
	"context"
	"math/rand"
	"net/url"
	"time"

	"gocrawler/internal/dnscache"
)

// SimOptions controls the simulated fetcher.
type SimOptions struct {
	Delay     time.Duration
	LinksMin  int
	LinksMax  int
	BodyBytes int // padding so body sizes resemble real pages
}

// Simulated implements Fetcher without network I/O: after Delay it returns a
// small HTML body whose anchors are random draws from a pre-collected URL
// pool, so the full parse/normalize/enqueue pipeline still runs. Hosts are
// still resolved through the DNS cache, keeping resolver benchmarks honest.
type Simulated struct {
	opts     SimOptions
	pool     *URLPool
	resolver *dnscache.Resolver
}

func NewSimulated(opts SimOptions, pool *URLPool, resolver *dnscache.Resolver) *Simulated {
	if opts.LinksMin <= 0 {
		opts.LinksMin = 5
	}
	if opts.LinksMax < opts.LinksMin {
		opts.LinksMax = opts.LinksMin
	}
	return &Simulated{opts: opts, pool: pool, resolver: resolver}
}

func (s *Simulated) Fetch(ctx context.Context, rawurl string) (*Result, error) {
	start := time.Now()

	if s.resolver != nil {
		if u, err := url.Parse(rawurl); err == nil {
			if _, err := s.resolver.Resolve(ctx, u.Hostname()); err != nil {
				return nil, &Error{Kind: KindDNS, URL: rawurl, Err: err}
			}
		}
	}

	if s.opts.Delay > 0 {
		timer := time.NewTimer(s.opts.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, &Error{Kind: KindCancelled, URL: rawurl, Err: ctx.Err()}
		}
	}

	n := s.opts.LinksMin
	if s.opts.LinksMax > s.opts.LinksMin {
		n += rand.Intn(s.opts.LinksMax - s.opts.LinksMin + 1)
	}

	var b bytes.Buffer
	b.WriteString("<html><head><title>synthetic</title></head><body>")
	for _, link := range s.pool.RandomLinks(n) {
		b.WriteString(`<a href="`)
		b.WriteString(link)
		b.WriteString(`">link</a>`)
	}
	for b.Len() < s.opts.BodyBytes {
		b.WriteString("<p>lorem</p>")
	}
	b.WriteString("</body></html>")

	return &Result{
		Body:        b.Bytes(),
		FinalURL:    rawurl,
		ContentType: "text/html",
		Status:      200,
		Duration:    time.Since(start),
	}, nil
}
