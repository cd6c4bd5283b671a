package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"gocrawler/internal/dnscache"
	"gocrawler/internal/metrics"
)

var errTooManyRedirects = errors.New("redirect cap exceeded")

// HTTPOptions controls the real fetcher.
type HTTPOptions struct {
	Timeout      time.Duration
	MaxRedirects int
	MaxBodyBytes int64
	MaxPerHost   int // transport connection cap, kept in step with frontier admission
	UserAgent    string
}

// HTTP fetches over the network with a shared connection pool.
type HTTP struct {
	client       *http.Client
	maxBodyBytes int64
	userAgent    string
	timeout      time.Duration
}

// NewHTTP builds the fetcher. When resolver is non-nil, every dial resolves
// the host through it instead of the OS resolver.
func NewHTTP(opts HTTPOptions, resolver *dnscache.Resolver) *HTTP {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = 5
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 5 << 20
	}

	dialer := &net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}
	transport := &http.Transport{
		MaxIdleConns:          100,
		MaxConnsPerHost:       opts.MaxPerHost,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if resolver != nil {
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, port, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, err
			}
			ip, err := resolver.Resolve(ctx, host)
			if err != nil {
				return nil, &Error{Kind: KindDNS, URL: host, Err: err}
			}
			return dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
		}
	} else {
		transport.DialContext = dialer.DialContext
	}

	client := &http.Client{
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= opts.MaxRedirects {
				return errTooManyRedirects
			}
			return nil
		},
	}

	return &HTTP{
		client:       client,
		maxBodyBytes: opts.MaxBodyBytes,
		userAgent:    opts.UserAgent,
		timeout:      opts.Timeout,
	}
}

// Fetch performs one GET. Non-2xx statuses, oversized bodies and exceeded
// redirect caps all surface as errors; the caller never retries.
func (h *HTTP) Fetch(ctx context.Context, rawurl string) (*Result, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return nil, &Error{Kind: KindHTTP, URL: rawurl, Err: err}
	}
	if h.userAgent != "" {
		req.Header.Set("User-Agent", h.userAgent)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, &Error{Kind: h.kindOf(ctx, err), URL: rawurl, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Kind: KindHTTP,
			URL:  rawurl,
			Err:  fmt.Errorf("status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBodyBytes+1))
	if err != nil {
		return nil, &Error{Kind: h.kindOf(ctx, err), URL: rawurl, Err: err}
	}
	if int64(len(body)) > h.maxBodyBytes {
		return nil, &Error{
			Kind: KindHTTP,
			URL:  rawurl,
			Err:  fmt.Errorf("body exceeds %d bytes", h.maxBodyBytes),
		}
	}

	metrics.BytesFetched.Add(float64(len(body)))

	return &Result{
		Body:        body,
		FinalURL:    resp.Request.URL.String(),
		ContentType: resp.Header.Get("Content-Type"),
		Status:      resp.StatusCode,
		Duration:    time.Since(start),
	}, nil
}

func (h *HTTP) kindOf(ctx context.Context, err error) ErrKind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	if errors.Is(err, errTooManyRedirects) {
		return KindHTTP
	}
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return KindCancelled
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return KindDNS
	}
	return KindNet
}
