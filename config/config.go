// Package config loads the mfc service configuration from a file and the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes every environment variable, e.g. NAVSIM_SERVER_ADDR for server.addr.
const EnvPrefix = "NAVSIM"

type Config struct {
	Server   Server   `mapstructure:"server"`
	Provider Provider `mapstructure:"provider"`
	Cache    Cache    `mapstructure:"cache"`
	Risk     Risk     `mapstructure:"risk"`
	Log      Log      `mapstructure:"log"`
	Metrics  Metrics  `mapstructure:"metrics"`
}

type Server struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type Provider struct {
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheDir string        `mapstructure:"cache_dir"` // on-disk daily cache, empty for the system temp dir
}

type Cache struct {
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max_entries"`
}

type Risk struct {
	RiskFreeRate  float64 `mapstructure:"risk_free_rate"` // percent per year
	BenchmarkCode string  `mapstructure:"benchmark_code"`
}

type Log struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type Metrics struct {
	Enabled bool `mapstructure:"enabled"`
}

var defaults = map[string]any{
	"server.addr":          ":8080",
	"server.read_timeout":  10 * time.Second,
	"server.write_timeout": 30 * time.Second,
	"provider.base_url":    "https://api.mfapi.in/mf",
	"provider.timeout":     15 * time.Second,
	"provider.cache_dir":   "",
	"cache.ttl":            30 * time.Minute,
	"cache.max_entries":    256,
	"risk.risk_free_rate":  6.0,
	"risk.benchmark_code":  "",
	"log.level":            "info",
	"log.development":      false,
	"metrics.enabled":      true,
}

// Default returns the built-in configuration, ignoring the environment.
func Default() *Config {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(err)
	}
	return &cfg
}

// Load reads the configuration file at path (YAML, JSON or TOML), if path is not empty,
// then applies NAVSIM_* environment variables over it.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("cannot read config %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would only fail later, at startup or on first request.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is empty")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return errors.New("server timeouts must be positive")
	}
	u, err := url.Parse(c.Provider.BaseURL)
	if err != nil || !strings.HasPrefix(u.Scheme, "http") || u.Host == "" {
		return fmt.Errorf("invalid provider.base_url %q", c.Provider.BaseURL)
	}
	if c.Provider.Timeout <= 0 {
		return errors.New("provider.timeout must be positive")
	}
	if c.Cache.TTL < 0 {
		return errors.New("invalid cache.ttl")
	}
	if c.Cache.MaxEntries < 0 {
		return errors.New("invalid cache.max_entries")
	}
	if c.Risk.RiskFreeRate < 0 || c.Risk.RiskFreeRate >= 100 {
		return fmt.Errorf("risk.risk_free_rate must be a percent in [0, 100), got %v", c.Risk.RiskFreeRate)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level: %w", err)
	}
	return nil
}

// Logger builds the logger described by c.Log.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
