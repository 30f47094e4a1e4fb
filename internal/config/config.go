// Package config loads application configuration from file, environment, and
// .env, and initializes the global logger.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	OpenCage OpenCageConfig `yaml:"opencage" mapstructure:"opencage"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// OpenCageConfig holds OpenCage Geocoding API settings.
type OpenCageConfig struct {
	APIKey       string  `yaml:"api_key" mapstructure:"api_key"`
	BaseURL      string  `yaml:"base_url" mapstructure:"base_url"`
	RateLimitRPS float64 `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
}

// BatchConfig configures batch processing defaults.
type BatchConfig struct {
	DelaySecs float64 `yaml:"delay_secs" mapstructure:"delay_secs"`
	Language  string  `yaml:"language" mapstructure:"language"`
}

// CacheConfig configures the optional geocode response cache. An empty path
// disables caching entirely.
type CacheConfig struct {
	Path    string `yaml:"path" mapstructure:"path"`
	TTLDays int    `yaml:"ttl_days" mapstructure:"ttl_days"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from .env, config file, and environment.
func Load() (*Config, error) {
	// Credentials commonly live in .env; absence is fine.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("RGEO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Every key is registered here so AutomaticEnv can resolve it;
	// viper only consults the environment for keys it already knows about.
	v.SetDefault("opencage.api_key", "")
	v.SetDefault("opencage.base_url", "https://api.opencagedata.com/geocode/v1/json")
	v.SetDefault("opencage.rate_limit_rps", 1.0)
	v.SetDefault("batch.delay_secs", 1.0)
	v.SetDefault("batch.language", "es")
	v.SetDefault("cache.path", "")
	v.SetDefault("cache.ttl_days", 30)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// OPENCAGE_API_KEY is the historical name for this credential; honor it
	// as a fallback.
	if key := os.Getenv("OPENCAGE_API_KEY"); key != "" {
		v.SetDefault("opencage.api_key", key)
	}

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
