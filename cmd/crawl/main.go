package main

import (
	"flag"
	"log"
	"strings"

	"gocrawler/internal/config"
	"gocrawler/internal/crawler"
)

func main() {
	cfgPath := flag.String("config", "", "optional YAML config file")
	seeds := flag.String("seeds", "", "comma-separated seed URLs (default: built-in list)")
	max := flag.Int("maxPages", 0, "stop after N pages")
	workers := flag.Int("workers", 0, "number of parallel fetchers")
	perHost := flag.Int("maxPerHost", 0, "max concurrent fetches to one host")
	interval := flag.Int("intervalMs", -1, "min spacing between fetches to one host (ms)")
	bloom := flag.Bool("bloom", false, "use Bloom filter for the visited set")
	dnsCache := flag.Bool("dnsCache", true, "cache DNS resolutions")
	sim := flag.Bool("simulation", false, "simulated fetches, no network I/O")
	poolFile := flag.String("urlPool", "", "URL pool file for simulation")
	ua := flag.String("userAgent", "", "HTTP User-Agent string")
	logLevel := flag.String("logLevel", "", "trace|debug|info|warn|error")

	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	if *seeds != "" {
		cfg.Seeds = strings.Split(*seeds, ",")
	}
	if *max > 0 {
		cfg.MaxPages = *max
	}
	if *workers > 0 {
		cfg.NumWorkers = *workers
	}
	if *perHost > 0 {
		cfg.MaxPerHost = *perHost
	}
	if *interval >= 0 {
		cfg.MinIntervalPerHostMS = *interval
	}
	if *bloom {
		cfg.UseBloom = true
	}
	cfg.UseDNSCache = *dnsCache
	if *sim {
		cfg.Simulation = true
	}
	if *poolFile != "" {
		cfg.URLPoolFile = *poolFile
	}
	if *ua != "" {
		cfg.UserAgent = *ua
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	if err := crawler.Run(crawler.Options{Config: cfg}); err != nil {
		log.Fatal(err)
	}
}
