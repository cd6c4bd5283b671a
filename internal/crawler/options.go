package crawler

import (
	"time"

	"github.com/sirupsen/logrus"

	"gocrawler/internal/config"
	"gocrawler/internal/fetcher"
)

// Options wires the engine together. Only Config is required; the zero value
// of everything else picks the real implementation.
type Options struct {
	Config config.Config

	// Fetcher overrides the HTTP/simulated fetcher chosen from Config.
	Fetcher fetcher.Fetcher

	// OnResult is invoked after every completed fetch cycle, successful or
	// not. It runs on the worker goroutine and must be safe for concurrent
	// use.
	OnResult func(*Result)

	Logger *logrus.Logger
}

// Result describes one completed fetch cycle.
type Result struct {
	URL      string
	Host     string
	Status   int
	Title    string
	Words    int
	Links    []string // normalized links newly admitted to the frontier
	Duration time.Duration
	Err      error
}
