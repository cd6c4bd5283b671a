package fetcher

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
)

// URLPool serves random cross-host links from a pre-collected pool file,
// written by cmd/urlpool. Picking the host first and then a path keeps the
// simulated link graph host-diverse.
type URLPool struct {
	URLsByHost map[string][]string `json:"urls_by_host"`
	Total      int                 `json:"total"`

	hosts []string
}

// LoadURLPool reads a pool file produced by cmd/urlpool.
func LoadURLPool(path string) (*URLPool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("url pool: %w", err)
	}
	var p URLPool
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("url pool %s: %w", path, err)
	}
	for h := range p.URLsByHost {
		p.hosts = append(p.hosts, h)
	}
	if len(p.hosts) == 0 {
		return nil, fmt.Errorf("url pool %s is empty", path)
	}
	return &p, nil
}

// NewURLPool builds a pool in memory; used by tests.
func NewURLPool(urlsByHost map[string][]string) *URLPool {
	p := &URLPool{URLsByHost: urlsByHost}
	for h, paths := range urlsByHost {
		p.hosts = append(p.hosts, h)
		p.Total += len(paths)
	}
	return p
}

// RandomLinks returns up to n absolute URLs drawn across hosts; a draw that
// lands on a host with no paths yields no link.
func (p *URLPool) RandomLinks(n int) []string {
	if len(p.hosts) == 0 {
		return nil
	}
	links := make([]string, 0, n)
	for i := 0; i < n; i++ {
		host := p.hosts[rand.Intn(len(p.hosts))]
		paths := p.URLsByHost[host]
		if len(paths) == 0 {
			continue
		}
		links = append(links, "https://"+host+paths[rand.Intn(len(paths))])
	}
	return links
}
