// Package config holds the chartload runtime configuration, loaded through
// Viper from TOML files and CHARTLOAD_* environment variables.
package config

// Config represents the chartload configuration
type Config struct {
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
	Log      LogConfig      `mapstructure:"log"`
}

// PipelineConfig configures the retry/backoff controller
type PipelineConfig struct {
	MaxAttempts   int     `mapstructure:"max_attempts"`    // tries per load (default: 3)
	BackoffBaseMS int     `mapstructure:"backoff_base_ms"` // first retry wait (default: 100)
	BackoffCapMS  int     `mapstructure:"backoff_cap_ms"`  // wait ceiling (default: 1000)
	BackoffJitter float64 `mapstructure:"backoff_jitter"`  // random fraction added to waits, 0..1 (default: 0)
	RetryParsing  bool    `mapstructure:"retry_parsing"`   // retry decode failures too (default: false)
}

// CatalogConfig configures the chart catalog
type CatalogConfig struct {
	Path  string `mapstructure:"path"`  // TOML catalog file
	Watch bool   `mapstructure:"watch"` // hot-reload on file change
}

// FetchConfig configures archive download
type FetchConfig struct {
	CacheDir       string  `mapstructure:"cache_dir"`       // downloaded archives land here
	RatePerSec     float64 `mapstructure:"rate_per_sec"`    // download rate limit, 0 = unlimited
	TimeoutSeconds int     `mapstructure:"timeout_seconds"` // per-download HTTP timeout (default: 60)
}

// LogConfig configures output verbosity
type LogConfig struct {
	Debug bool `mapstructure:"debug"` // pipeline event logger debug mode
	JSON  bool `mapstructure:"json"`  // structured JSON output
}
