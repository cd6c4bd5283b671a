// internal/crawler/engine.go
package crawler

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"gocrawler/internal/config"
	"gocrawler/internal/dnscache"
	"gocrawler/internal/fetcher"
	"gocrawler/internal/frontier"
	"gocrawler/internal/logging"
	"gocrawler/internal/metrics"
	"gocrawler/internal/urlnorm"
)

// bloomInflation scales the expected-item estimate above the page budget:
// discovered links outnumber fetched pages.
const bloomInflation = 4

type engine struct {
	cfg      config.Config
	log      *logrus.Logger
	frontier *frontier.Frontier
	fetch    fetcher.Fetcher
	limiter  *rate.Limiter
	onResult func(*Result)

	counters counters

	shutdownOnce sync.Once
	shutdownCh   chan struct{}
	doneCh       chan struct{}
}

// -----------------------------------------------------------------------------
// Public entry-point
// -----------------------------------------------------------------------------
func Run(opts Options) error {
	_ = godotenv.Load()

	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := opts.Logger
	if log == nil {
		log = logging.New(cfg.LogLevel)
	}

	// ----- Metrics endpoint --------------------------------------------------
	if cfg.MetricsPort > 0 {
		if err := metrics.Serve(cfg.MetricsPort); err != nil {
			return err
		}
	}

	// ----- Visited set / frontier -------------------------------------------
	var visited frontier.Visited
	if cfg.UseBloom {
		visited = frontier.NewBloomVisited(uint(cfg.MaxPages)*bloomInflation, cfg.BloomFPR)
	} else {
		visited = frontier.NewVisited()
	}
	fr := frontier.New(visited, frontier.Options{
		MaxPerHost:      cfg.MaxPerHost,
		MinInterval:     cfg.MinInterval(),
		MaxQueuePerHost: cfg.MaxQueuePerHost,
	})

	// ----- DNS / fetcher -----------------------------------------------------
	resolver := dnscache.New(dnscache.Options{
		Enabled:     cfg.UseDNSCache,
		NegativeTTL: cfg.DNSNegativeTTL(),
	})

	fetch := opts.Fetcher
	if fetch == nil {
		if cfg.Simulation {
			pool, err := fetcher.LoadURLPool(cfg.URLPoolFile)
			if err != nil {
				return err
			}
			fetch = fetcher.NewSimulated(fetcher.SimOptions{
				Delay:    cfg.SimDelay(),
				LinksMin: cfg.SimLinksMin,
				LinksMax: cfg.SimLinksMax,
			}, pool, resolver)
			log.WithField("delay_ms", cfg.SimDelayMS).Info("simulation mode")
		} else {
			fetch = fetcher.NewHTTP(fetcher.HTTPOptions{
				Timeout:      cfg.RequestTimeout(),
				MaxRedirects: cfg.MaxRedirects,
				MaxBodyBytes: cfg.MaxBodyBytes,
				MaxPerHost:   cfg.MaxPerHost,
				UserAgent:    cfg.UserAgent,
			}, resolver)
		}
	}

	e := &engine{
		cfg:        cfg,
		log:        log,
		frontier:   fr,
		fetch:      fetch,
		onResult:   opts.OnResult,
		shutdownCh: make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
	if cfg.MaxRPS > 0 {
		burst := int(cfg.MaxRPS)
		if burst < 1 {
			burst = 1
		}
		e.limiter = rate.NewLimiter(rate.Limit(cfg.MaxRPS), burst)
	}

	// ----- Seeds -------------------------------------------------------------
	seeded := 0
	for _, s := range cfg.Seeds {
		norm, ok := urlnorm.Normalize(nil, s, cfg.MaxURLLength)
		if !ok {
			log.WithField("seed", s).Warn("invalid seed, skipping")
			continue
		}
		if fr.Enqueue(norm) {
			seeded++
		}
	}
	if seeded == 0 {
		return fmt.Errorf("no valid seed URLs")
	}
	log.WithFields(logging.Fields{
		"seeds": seeded, "workers": cfg.NumWorkers, "max_pages": cfg.MaxPages,
	}).Info("crawl starting")

	// ----- Lifecycle ---------------------------------------------------------
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	crawlCtx, abort := context.WithCancel(context.Background())
	defer abort()

	go func() {
		select {
		case <-sigCtx.Done():
			select {
			case <-e.doneCh: // already finished
			default:
				e.beginShutdown("interrupt")
			}
		case <-e.doneCh:
		}
	}()

	// Grace period: after shutdown begins, in-flight fetches get this long
	// before their context is cancelled.
	go func() {
		select {
		case <-e.shutdownCh:
			t := time.NewTimer(cfg.GracePeriod())
			defer t.Stop()
			select {
			case <-t.C:
				abort()
			case <-e.doneCh:
			}
		case <-e.doneCh:
		}
	}()

	// ----- Workers -----------------------------------------------------------
	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < cfg.NumWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			e.runWorker(crawlCtx, id)
		}(i)
	}

	// ----- Progress ticker ---------------------------------------------------
	go func() {
		t := time.NewTicker(time.Minute)
		defer t.Stop()
		for {
			select {
			case <-e.doneCh:
				return
			case <-t.C:
				log.WithFields(logging.Fields{
					"crawled": e.counters.fetchedOK.Load(),
					"queued":  fr.Size(),
					"errors":  e.counters.errorTotal(),
					"elapsed": time.Since(start).Round(time.Second).String(),
				}).Info("progress")
			}
		}
	}()

	wg.Wait()
	close(e.doneCh)
	fr.Close()
	abort()

	elapsed := time.Since(start)
	fetched := e.counters.fetchedOK.Load()
	pps := 0.0
	if elapsed > 0 {
		pps = float64(fetched) / elapsed.Seconds()
	}
	log.WithFields(logging.Fields{
		"pages":          fetched,
		"dns_errors":     e.counters.dnsErrors.Load(),
		"net_errors":     e.counters.netErrors.Load(),
		"http_errors":    e.counters.httpErrors.Load(),
		"cancelled":      e.counters.cancelled.Load(),
		"rejected_links": e.counters.rejected.Load(),
		"dropped":        fr.Dropped(),
		"elapsed":        elapsed.Round(time.Millisecond).String(),
		"pages_per_sec":  fmt.Sprintf("%.1f", pps),
	}).Info("crawl finished")

	return nil
}

func (e *engine) budgetReached() bool {
	return e.counters.fetchedOK.Load() >= int64(e.cfg.MaxPages)
}

// beginShutdown closes the frontier exactly once. Queued URLs are dropped;
// in-flight fetches keep running until the grace period expires.
func (e *engine) beginShutdown(reason string) {
	e.shutdownOnce.Do(func() {
		e.log.WithField("reason", reason).Info("shutting down")
		e.frontier.Close()
		close(e.shutdownCh)
	})
}
