// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Catalog   CatalogConfig   `yaml:"catalog" mapstructure:"catalog"`
	Feed      FeedConfig      `yaml:"feed" mapstructure:"feed"`
	Scoring   ScoringConfig   `yaml:"scoring" mapstructure:"scoring"`
	Lifecycle LifecycleConfig `yaml:"lifecycle" mapstructure:"lifecycle"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// CatalogConfig configures catalog sources and snapshot caching. Sources
// are merged in the order listed: files first, then URLs, each in list
// order. That order is the dedup priority.
type CatalogConfig struct {
	TTLSecs     int      `yaml:"ttl_secs" mapstructure:"ttl_secs"`
	SourceFiles []string `yaml:"source_files" mapstructure:"source_files"`
	SourceURLs  []string `yaml:"source_urls" mapstructure:"source_urls"`
}

// TTL returns the snapshot TTL as a duration.
func (c CatalogConfig) TTL() time.Duration {
	return time.Duration(c.TTLSecs) * time.Second
}

// FeedConfig configures the feed HTTP client.
type FeedConfig struct {
	UserAgent   string  `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int     `yaml:"max_retries" mapstructure:"max_retries"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// ThresholdTripleConfig is one classification gate.
type ThresholdTripleConfig struct {
	MinTotal  int `yaml:"min_total" mapstructure:"min_total"`
	MinIntent int `yaml:"min_intent" mapstructure:"min_intent"`
	MaxDays   int `yaml:"max_days" mapstructure:"max_days"`
}

// ScoringConfig holds the initial classification thresholds. They can be
// replaced at runtime through the API without a restart.
type ScoringConfig struct {
	Hot  ThresholdTripleConfig `yaml:"hot" mapstructure:"hot"`
	Warm ThresholdTripleConfig `yaml:"warm" mapstructure:"warm"`
}

// LifecycleConfig configures lead decay windows and the sweep interval.
type LifecycleConfig struct {
	HotIdleHours      int `yaml:"hot_idle_hours" mapstructure:"hot_idle_hours"`
	WarmIdleHours     int `yaml:"warm_idle_hours" mapstructure:"warm_idle_hours"`
	ColdTTLMinutes    int `yaml:"cold_ttl_minutes" mapstructure:"cold_ttl_minutes"`
	SweepIntervalSecs int `yaml:"sweep_interval_secs" mapstructure:"sweep_interval_secs"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	RatePerSec     float64  `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	RateBurst      int      `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADRADAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("catalog.ttl_secs", 300)
	v.SetDefault("feed.user_agent", "lead-radar/1.0")
	v.SetDefault("feed.timeout_secs", 30)
	v.SetDefault("feed.max_retries", 3)
	v.SetDefault("feed.rate_per_sec", 10)
	v.SetDefault("scoring.hot.min_total", 72)
	v.SetDefault("scoring.hot.min_intent", 60)
	v.SetDefault("scoring.hot.max_days", 21)
	v.SetDefault("scoring.warm.min_total", 55)
	v.SetDefault("scoring.warm.min_intent", 40)
	v.SetDefault("scoring.warm.max_days", 90)
	v.SetDefault("lifecycle.hot_idle_hours", 168)
	v.SetDefault("lifecycle.warm_idle_hours", 24)
	v.SetDefault("lifecycle.cold_ttl_minutes", 120)
	v.SetDefault("lifecycle.sweep_interval_secs", 90)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.rate_per_sec", 50)
	v.SetDefault("server.rate_burst", 100)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
