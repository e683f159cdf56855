package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"environment"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	// log file rotation, zero values use the logging defaults
	LogMaxSizeMB  int  `toml:"log_max_size_mb"`
	LogMaxBackups int  `toml:"log_max_backups"`
	LogMaxAgeDays int  `toml:"log_max_age_days"`
	LogCompress   bool `toml:"log_compress"`
	// sentry
	SentryEnabled    bool    `toml:"sentry_enabled"`
	SentrySampleRate float64 `toml:"sentry_sample_rate"`
	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	RedisDB   int    `toml:"redis_db"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// collaborators
	GeocodingApiUrl    string `toml:"geocoding_api_url"`
	ForecastApiUrl     string `toml:"forecast_api_url"`
	NutritionApiUrl    string `toml:"nutrition_api_url"`
	HttpTimeoutSeconds int    `toml:"http_timeout_seconds"`
	ChartsDir          string `toml:"charts_dir"`
	// bot
	TelegramPollTimeout        int `toml:"telegram_poll_timeout"`
	RateLimitPerMin            int `toml:"rate_limit_per_min"`
	WizardSessionTTLMinutes    int `toml:"wizard_session_ttl_minutes"`
	SessionScanIntervalMinutes int `toml:"session_scan_interval_minutes"`
}

func (c *Config) WizardSessionTTL() time.Duration {
	return time.Duration(c.WizardSessionTTLMinutes) * time.Minute
}

func (c *Config) SessionScanInterval() time.Duration {
	return time.Duration(c.SessionScanIntervalMinutes) * time.Minute
}

func (c *Config) HttpTimeout() time.Duration {
	return time.Duration(c.HttpTimeoutSeconds) * time.Second
}

func (c *Config) RedisAddr() string {
	return net.JoinHostPort(c.RedisHost, c.RedisPort)
}

func (c *Config) Validate() error {
	var errs []error
	if c.RedisHost == "" || c.RedisPort == "" {
		errs = append(errs, errors.New("redis host and port must be set"))
	}
	if c.PrometheusMetricsPort == "" {
		errs = append(errs, errors.New("prometheus metrics port must be set"))
	}
	if c.ChartsDir == "" {
		errs = append(errs, errors.New("charts dir must be set"))
	}
	if c.TelegramPollTimeout <= 0 {
		errs = append(errs, fmt.Errorf("invalid telegram poll timeout: %d", c.TelegramPollTimeout))
	}
	if c.RateLimitPerMin <= 0 {
		errs = append(errs, fmt.Errorf("invalid rate limit per minute: %d", c.RateLimitPerMin))
	}
	if c.SentrySampleRate < 0 || c.SentrySampleRate > 1 {
		errs = append(errs, fmt.Errorf("invalid sentry sample rate: %g", c.SentrySampleRate))
	}
	if c.SessionScanIntervalMinutes <= 0 {
		errs = append(errs, fmt.Errorf("invalid session scan interval: %d", c.SessionScanIntervalMinutes))
	}
	return errors.Join(errs...)
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config for env: %s", env)
	}
	return cfg, nil
}

// Load reads the TOML file at path and returns the table for env.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", env, err)
	}

	return cfg, nil
}
