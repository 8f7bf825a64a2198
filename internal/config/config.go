// Package config loads application configuration and bootstraps logging.
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
	Geocoder GeocoderConfig `yaml:"geocoder" mapstructure:"geocoder"`
	Input    InputConfig    `yaml:"input" mapstructure:"input"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// GeocoderConfig configures the reverse-geocoding client and retry policy.
type GeocoderConfig struct {
	BaseURL        string  `yaml:"base_url" mapstructure:"base_url"`
	UserAgent      string  `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs    int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RetryDelaySecs int     `yaml:"retry_delay_secs" mapstructure:"retry_delay_secs"`
	MaxAttempts    int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	RateLimitRPS   float64 `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
}

// Timeout returns the per-request timeout as a duration.
func (g GeocoderConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSecs) * time.Second
}

// RetryDelay returns the fixed delay before the retry attempt.
func (g GeocoderConfig) RetryDelay() time.Duration {
	return time.Duration(g.RetryDelaySecs) * time.Second
}

// InputConfig configures how the input table is interpreted.
type InputConfig struct {
	SkipRows        int    `yaml:"skip_rows" mapstructure:"skip_rows"`
	LatitudeColumn  string `yaml:"latitude_column" mapstructure:"latitude_column"`
	LongitudeColumn string `yaml:"longitude_column" mapstructure:"longitude_column"`
	CountyColumn    string `yaml:"county_column" mapstructure:"county_column"`
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
	v.SetEnvPrefix("COUNTY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("geocoder.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocoder.user_agent", "county-enrich/1.0 (research@sellsadvisors.com)")
	v.SetDefault("geocoder.timeout_secs", 10)
	v.SetDefault("geocoder.retry_delay_secs", 2)
	v.SetDefault("geocoder.max_attempts", 2)
	v.SetDefault("geocoder.rate_limit_rps", 1)
	v.SetDefault("input.skip_rows", 1)
	v.SetDefault("input.latitude_column", "Latitude")
	v.SetDefault("input.longitude_column", "Longitude")
	v.SetDefault("input.county_column", "County")
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
