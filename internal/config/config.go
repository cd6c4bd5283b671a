// Package config holds every knob the engine recognizes. Values resolve in
// order: defaults, YAML file, environment (CRAWLER_* variables); cmd flags
// override all three.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Seeds []string `yaml:"seeds"`

	NumWorkers           int     `yaml:"num_workers"`
	MaxPerHost           int     `yaml:"max_per_host"`
	MinIntervalPerHostMS int     `yaml:"min_interval_per_host_ms"`
	MaxPages             int     `yaml:"max_pages"`
	RequestTimeoutS      int     `yaml:"request_timeout_s"`
	MaxRedirects         int     `yaml:"max_redirects"`
	MaxBodyBytes         int64   `yaml:"max_body_bytes"`
	MaxURLLength         int     `yaml:"max_url_length"`
	MaxQueuePerHost      int     `yaml:"max_queue_per_host"`
	MaxRPS               float64 `yaml:"max_rps"`

	UseBloom bool    `yaml:"use_bloom"`
	BloomFPR float64 `yaml:"bloom_fpr"`

	UseDNSCache     bool `yaml:"use_dns_cache"`
	DNSNegativeTTLS int  `yaml:"dns_negative_ttl_s"`

	MetricsPort int    `yaml:"metrics_port"`
	UserAgent   string `yaml:"user_agent"`
	LogLevel    string `yaml:"log_level"`

	GracePeriodS int `yaml:"grace_period_s"`

	Simulation  bool   `yaml:"simulation"`
	SimDelayMS  int    `yaml:"sim_delay_ms"`
	SimLinksMin int    `yaml:"sim_links_min"`
	SimLinksMax int    `yaml:"sim_links_max"`
	URLPoolFile string `yaml:"url_pool_file"`
}

func Default() Config {
	return Config{
		Seeds:                defaultSeeds(),
		NumWorkers:           20,
		MaxPerHost:           10,
		MinIntervalPerHostMS: 500,
		MaxPages:             30000,
		RequestTimeoutS:      10,
		MaxRedirects:         5,
		MaxBodyBytes:         5 << 20,
		MaxURLLength:         2048,
		BloomFPR:             0.01,
		UseDNSCache:          true,
		DNSNegativeTTLS:      30,
		MetricsPort:          9090,
		UserAgent:            "gocrawler/0.3",
		LogLevel:             "info",
		GracePeriodS:         30,
		SimDelayMS:           50,
		SimLinksMin:          5,
		SimLinksMax:          20,
		URLPoolFile:          "url_pool.json",
	}
}

// Load resolves the configuration: defaults, then the YAML file at path (if
// any), then CRAWLER_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("config file %s: %w", path, err)
		}
	}
	cfg.fromEnv()
	return cfg, nil
}

func (c *Config) fromEnv() {
	envInt("CRAWLER_NUM_WORKERS", &c.NumWorkers)
	envInt("CRAWLER_MAX_PER_HOST", &c.MaxPerHost)
	envInt("CRAWLER_MIN_INTERVAL_PER_HOST_MS", &c.MinIntervalPerHostMS)
	envInt("CRAWLER_MAX_PAGES", &c.MaxPages)
	envInt("CRAWLER_REQUEST_TIMEOUT_S", &c.RequestTimeoutS)
	envInt("CRAWLER_MAX_REDIRECTS", &c.MaxRedirects)
	envInt64("CRAWLER_MAX_BODY_BYTES", &c.MaxBodyBytes)
	envInt("CRAWLER_MAX_URL_LENGTH", &c.MaxURLLength)
	envInt("CRAWLER_METRICS_PORT", &c.MetricsPort)
	envInt("CRAWLER_DNS_NEGATIVE_TTL_S", &c.DNSNegativeTTLS)
	envFloat("CRAWLER_MAX_RPS", &c.MaxRPS)
	envFloat("CRAWLER_BLOOM_FPR", &c.BloomFPR)
	envBool("CRAWLER_USE_BLOOM", &c.UseBloom)
	envBool("CRAWLER_USE_DNS_CACHE", &c.UseDNSCache)
	envString("CRAWLER_USER_AGENT", &c.UserAgent)
	envString("CRAWLER_LOG_LEVEL", &c.LogLevel)
	envString("CRAWLER_URL_POOL_FILE", &c.URLPoolFile)
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	if c.NumWorkers <= 0 {
		return fmt.Errorf("num_workers must be positive, got %d", c.NumWorkers)
	}
	if c.MaxPerHost <= 0 {
		return fmt.Errorf("max_per_host must be positive, got %d", c.MaxPerHost)
	}
	if c.MaxPages <= 0 {
		return fmt.Errorf("max_pages must be positive, got %d", c.MaxPages)
	}
	if c.BloomFPR <= 0 || c.BloomFPR >= 1 {
		return fmt.Errorf("bloom_fpr must be in (0,1), got %g", c.BloomFPR)
	}
	return nil
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutS) * time.Second
}

func (c *Config) MinInterval() time.Duration {
	return time.Duration(c.MinIntervalPerHostMS) * time.Millisecond
}

func (c *Config) DNSNegativeTTL() time.Duration {
	return time.Duration(c.DNSNegativeTTLS) * time.Second
}

func (c *Config) GracePeriod() time.Duration {
	return time.Duration(c.GracePeriodS) * time.Second
}

func (c *Config) SimDelay() time.Duration {
	return time.Duration(c.SimDelayMS) * time.Millisecond
}

func envInt(key string, dst *int) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envInt64(key string, dst *int64) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func envFloat(key string, dst *float64) {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func envBool(key string, dst *bool) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
