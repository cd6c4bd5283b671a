package crawler

import (
	"context"
	"net/url"

	"github.com/sirupsen/logrus"

	"gocrawler/internal/fetcher"
	"gocrawler/internal/frontier"
	"gocrawler/internal/logging"
	"gocrawler/internal/metrics"
	"gocrawler/internal/parser"
	"gocrawler/internal/urlnorm"
)

// runWorker is one agent of the pool: pull a leased URL from the frontier,
// fetch, parse, enqueue discovered links, release. It exits when the
// frontier reports closed-and-drained, the context dies, or the page budget
// trips.
func (e *engine) runWorker(ctx context.Context, id int) {
	for {
		if ctx.Err() != nil {
			return
		}
		if e.budgetReached() {
			e.beginShutdown("page budget reached")
			return
		}

		u, lease, ok := e.frontier.Next()
		if !ok {
			return
		}
		e.crawlOne(ctx, u, lease)
	}
}

// crawlOne runs a single fetch cycle. The lease release is deferred so it
// fires on every exit path.
func (e *engine) crawlOne(ctx context.Context, u string, lease *frontier.Lease) {
	defer lease.Release()

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			e.counters.addError(fetcher.KindCancelled)
			metrics.FetchErrors.WithLabelValues(string(fetcher.KindCancelled)).Inc()
			return
		}
	}

	metrics.ActiveRequests.Inc()
	res, err := e.fetch.Fetch(ctx, u)
	metrics.ActiveRequests.Dec()

	if err != nil {
		kind := fetcher.Classify(err)
		e.counters.addError(kind)
		metrics.FetchErrors.WithLabelValues(string(kind)).Inc()
		e.log.WithFields(logging.Fields{
			"url": u, "host": lease.Host(), "kind": string(kind), "err": err.Error(),
		}).Debug("fetch failed")
		e.emit(&Result{URL: u, Host: lease.Host(), Err: err})
		return
	}

	fetched := e.counters.fetchedOK.Add(1)
	metrics.PagesFetched.Inc()
	metrics.RequestDuration.Observe(res.Duration.Seconds())

	accepted := e.admitLinks(res)

	result := &Result{
		URL:      u,
		Host:     lease.Host(),
		Status:   res.Status,
		Links:    accepted,
		Duration: res.Duration,
	}
	if e.wantSummary() {
		sum := parser.Summarize(res.Body)
		result.Title, result.Words = sum.Title, sum.Words
	}
	e.log.WithFields(logging.Fields{
		"url": u, "status": res.Status, "links": len(accepted),
		"title": result.Title, "words": result.Words,
		"ms": res.Duration.Milliseconds(),
	}).Debug("fetched")
	e.emit(result)

	if fetched >= int64(e.cfg.MaxPages) {
		e.beginShutdown("page budget reached")
	}
}

// admitLinks extracts, normalizes and enqueues a page's outbound links,
// returning the ones the frontier newly accepted.
func (e *engine) admitLinks(res *fetcher.Result) []string {
	raws := parser.ExtractLinks(res.Body, res.ContentType)
	if len(raws) == 0 {
		return nil
	}
	base, err := url.Parse(res.FinalURL)
	if err != nil {
		return nil
	}

	var accepted []string
	for _, raw := range raws {
		norm, ok := urlnorm.Normalize(base, raw, e.cfg.MaxURLLength)
		if !ok {
			e.counters.rejected.Add(1)
			continue
		}
		if e.frontier.Enqueue(norm) {
			accepted = append(accepted, norm)
		}
	}
	return accepted
}

// wantSummary reports whether anything will consume the page digest: a
// registered result hook, or the per-page debug log line.
func (e *engine) wantSummary() bool {
	return e.onResult != nil || e.log.IsLevelEnabled(logrus.DebugLevel)
}

func (e *engine) emit(r *Result) {
	if e.onResult != nil {
		e.onResult(r)
	}
}
