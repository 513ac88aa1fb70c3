package infra

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/RafaelHerrera7/buda/internal/domain"
)

// Config holds every process-start setting. Loaded once by LoadConfig and
// immutable afterwards; environment variables override selected fields.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	API struct {
		Buda struct {
			RestURL    string `yaml:"rest_url"`
			TimeoutSec int    `yaml:"timeout_sec"`
		} `yaml:"buda"`
	} `yaml:"api"`

	Valuation struct {
		CacheTTLSec         int                 `yaml:"cache_ttl_sec"`
		StreamIntervalSec   int                 `yaml:"stream_interval_sec"`
		AllowShortPositions bool                `yaml:"allow_short_positions"`
		Pairs               map[string][]string `yaml:"pairs"`
	} `yaml:"valuation"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// Defaults applied when the file leaves a field unset.
const (
	DefaultBudaRestURL    = "https://www.buda.com/api/v2"
	DefaultServerAddr     = ":8000"
	DefaultTimeoutSec     = 5
	DefaultCacheTTLSec    = 30
	DefaultStreamInterval = 30
)

// LoadConfig reads and parses the configuration file, applies defaults,
// environment overrides and validation.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// DefaultConfig returns a fully usable configuration without a file.
func DefaultConfig() *Config {
	var cfg Config
	cfg.applyDefaults()
	overrideWithEnv(&cfg)
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "buda-portfolio"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.API.Buda.RestURL == "" {
		c.API.Buda.RestURL = DefaultBudaRestURL
	}
	if c.API.Buda.TimeoutSec <= 0 {
		c.API.Buda.TimeoutSec = DefaultTimeoutSec
	}
	if c.Valuation.CacheTTLSec <= 0 {
		c.Valuation.CacheTTLSec = DefaultCacheTTLSec
	}
	if c.Valuation.StreamIntervalSec <= 0 {
		c.Valuation.StreamIntervalSec = DefaultStreamInterval
	}
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.API.Buda.RestURL, "http://") && !strings.HasPrefix(c.API.Buda.RestURL, "https://") {
		return fmt.Errorf("invalid Buda REST URL: %s", c.API.Buda.RestURL)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server address is required")
	}
	for base, fiats := range c.Valuation.Pairs {
		if len(fiats) == 0 {
			return fmt.Errorf("no fiat currencies configured for %s", base)
		}
	}
	return nil
}

// Timeout returns the per-request upstream timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.Buda.TimeoutSec) * time.Second
}

// CacheTTL returns the ticker snapshot time-to-live.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Valuation.CacheTTLSec) * time.Second
}

// StreamInterval returns how often the stream endpoint re-values.
func (c *Config) StreamInterval() time.Duration {
	return time.Duration(c.Valuation.StreamIntervalSec) * time.Second
}

// SupportedPairs returns the configured pair table, upper-cased, falling
// back to the built-in Buda fiat markets when none is configured.
func (c *Config) SupportedPairs() domain.SupportedPairs {
	if len(c.Valuation.Pairs) == 0 {
		return domain.DefaultSupportedPairs
	}
	pairs := make(domain.SupportedPairs, len(c.Valuation.Pairs))
	for base, fiats := range c.Valuation.Pairs {
		upper := make([]string, len(fiats))
		for i, f := range fiats {
			upper[i] = strings.ToUpper(f)
		}
		pairs[strings.ToUpper(base)] = upper
	}
	return pairs
}

// overrideWithEnv overrides settings from environment variables when set.
func overrideWithEnv(cfg *Config) {
	if url := os.Getenv("BUDA_REST_URL"); url != "" {
		cfg.API.Buda.RestURL = url
	}
	if addr := os.Getenv("BUDA_SERVER_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	if level := os.Getenv("BUDA_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
}
