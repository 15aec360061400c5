package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/navtool/chartload/errors"
	"github.com/spf13/viper"
)

var globalConfig *Config
var viperInstance *viper.Viper

// Load reads the chartload configuration using Viper
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v := initViper()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	globalConfig = &config
	return globalConfig, nil
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal config from %s", configPath)
	}

	return &config, nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Pipeline defaults
	v.SetDefault("pipeline.max_attempts", 3)
	v.SetDefault("pipeline.backoff_base_ms", 100)
	v.SetDefault("pipeline.backoff_cap_ms", 1000)
	v.SetDefault("pipeline.backoff_jitter", 0.0)
	v.SetDefault("pipeline.retry_parsing", false) // decode failures repeat deterministically

	// Catalog defaults
	v.SetDefault("catalog.path", "catalog.toml")
	v.SetDefault("catalog.watch", false)

	// Fetch defaults
	v.SetDefault("fetch.cache_dir", defaultCacheDir())
	v.SetDefault("fetch.rate_per_sec", 2.0) // polite default toward chart mirrors
	v.SetDefault("fetch.timeout_seconds", 60)

	// Log defaults
	v.SetDefault("log.debug", false)
	v.SetDefault("log.json", false)
}

// initViper initializes Viper with configuration sources and defaults
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()

	// Set up environment variable binding
	v.SetEnvPrefix("CHARTLOAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	// Read chartload.toml from the working directory when present
	v.SetConfigName("chartload")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".chartload"))
	}
	// Missing config files are fine; defaults and env vars apply
	_ = v.ReadInConfig()

	viperInstance = v
	return v
}

func defaultCacheDir() string {
	if cache, err := os.UserCacheDir(); err == nil {
		return filepath.Join(cache, "chartload")
	}
	return filepath.Join(os.TempDir(), "chartload")
}
