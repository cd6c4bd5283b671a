// cmd/urlpool runs a short real crawl and saves every discovered URL into a
// pool file that the simulated fetcher draws links from.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/url"
	"os"
	"strings"
	"sync"

	"gocrawler/internal/config"
	"gocrawler/internal/crawler"
)

func main() {
	out := flag.String("out", "url_pool.json", "output pool file")
	max := flag.Int("maxPages", 5000, "pages to crawl while collecting")
	seeds := flag.String("seeds", "", "comma-separated seed URLs (default: built-in list)")
	workers := flag.Int("workers", 0, "number of parallel fetchers")

	flag.Parse()

	cfg := config.Default()
	cfg.MaxPages = *max
	cfg.Simulation = false
	if *seeds != "" {
		cfg.Seeds = strings.Split(*seeds, ",")
	}
	if *workers > 0 {
		cfg.NumWorkers = *workers
	}

	var mu sync.Mutex
	byHost := make(map[string]map[string]struct{})
	total := 0
	pages := 0

	opts := crawler.Options{
		Config: cfg,
		OnResult: func(r *crawler.Result) {
			mu.Lock()
			defer mu.Unlock()
			pages++
			if r.Err != nil {
				log.Printf("[%d] ERROR %s: %v", pages, r.URL, r.Err)
			} else {
				log.Printf("[%d] %d %s %q (%dms, %d words, %d links)",
					pages, r.Status, r.URL, r.Title,
					r.Duration.Milliseconds(), r.Words, len(r.Links))
			}
			for _, link := range r.Links {
				u, err := url.Parse(link)
				if err != nil || u.Host == "" {
					continue
				}
				path := u.Path
				if path == "" {
					path = "/"
				}
				if u.RawQuery != "" {
					path += "?" + u.RawQuery
				}
				paths := byHost[u.Host]
				if paths == nil {
					paths = make(map[string]struct{})
					byHost[u.Host] = paths
				}
				if _, ok := paths[path]; !ok {
					paths[path] = struct{}{}
					total++
				}
			}
		},
	}

	if err := crawler.Run(opts); err != nil {
		log.Fatal(err)
	}

	pool := struct {
		URLsByHost map[string][]string `json:"urls_by_host"`
		Total      int                 `json:"total"`
	}{URLsByHost: make(map[string][]string, len(byHost)), Total: total}
	for host, paths := range byHost {
		list := make([]string, 0, len(paths))
		for p := range paths {
			list = append(list, p)
		}
		pool.URLsByHost[host] = list
	}

	raw, err := json.MarshalIndent(pool, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(*out, raw, 0o644); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %d URLs from %d hosts to %s", total, len(byHost), *out)
}
