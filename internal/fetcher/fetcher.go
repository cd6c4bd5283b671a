// Package fetcher performs single-page GETs for the crawl engine. The HTTP
// implementation routes host resolution through the DNS cache; the simulated
// implementation fabricates pages for benchmarking without network I/O.
package fetcher

import (
	"context"
	"errors"
	"time"
)

// Result is one successfully fetched page.
type Result struct {
	Body        []byte
	FinalURL    string // after redirects
	ContentType string
	Status      int
	Duration    time.Duration
}

// Fetcher retrieves one page.
type Fetcher interface {
	Fetch(ctx context.Context, rawurl string) (*Result, error)
}

// ErrKind is the failure taxonomy surfaced to counters and metrics.
type ErrKind string

const (
	KindDNS       ErrKind = "dns"
	KindNet       ErrKind = "net"
	KindHTTP      ErrKind = "http"
	KindCancelled ErrKind = "cancelled"
)

// Error wraps a fetch failure with its kind.
type Error struct {
	Kind ErrKind
	URL  string
	Err  error
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.URL + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Classify maps any error from a Fetch call onto the taxonomy.
func Classify(err error) ErrKind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	if errors.Is(err, context.Canceled) {
		return KindCancelled
	}
	return KindNet
}
