package metrics

import (
	"fmt"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PagesFetched = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crawler_pages_fetched_total",
		Help: "Total number of pages successfully fetched",
	})
	FetchErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "crawler_fetch_errors_total",
		Help: "Total fetch failures by kind",
	}, []string{"kind"})
	BytesFetched = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crawler_bytes_fetched_total",
		Help: "Total bytes downloaded",
	})
	FrontierSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "crawler_frontier_size",
		Help: "URLs currently queued in the frontier",
	})
	ActiveRequests = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "crawler_active_requests",
		Help: "Fetches currently in flight",
	})
	RequestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "crawler_request_duration_seconds",
		Help:    "Fetch duration",
		Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})
	DNSCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crawler_dns_cache_hits_total",
		Help: "DNS cache hits",
	})
	DNSCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crawler_dns_cache_misses_total",
		Help: "DNS cache misses",
	})
	DNSCacheSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "crawler_dns_cache_size",
		Help: "Number of cached DNS entries",
	})
	URLsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crawler_urls_dropped_total",
		Help: "URLs dropped by the per-host queue depth valve",
	})
)

func init() {
	prometheus.MustRegister(
		PagesFetched, FetchErrors, BytesFetched,
		FrontierSize, ActiveRequests, RequestDuration,
		DNSCacheHits, DNSCacheMisses, DNSCacheSize,
		URLsDropped,
	)
}

// Serve binds the /metrics endpoint. The bind happens synchronously so a
// taken port fails fast; serving continues in the background.
func Serve(port int) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		_ = http.Serve(ln, mux)
	}()
	return nil
}
