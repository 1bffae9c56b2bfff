// Package config handles configuration loading for cryptodeck.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration. It is
// constructed once at startup and passed into the components that need
// it; nothing reads it as ambient state afterwards.
type Config struct {
	Refresh   RefreshConfig             `mapstructure:"refresh"   yaml:"refresh"`
	Exchanges map[string]ExchangeConfig `mapstructure:"exchanges" yaml:"exchanges"`
	API       APIConfig                 `mapstructure:"api"       yaml:"api"`
	News      NewsConfig                `mapstructure:"news"      yaml:"news"`
	Logging   LoggingConfig             `mapstructure:"logging"   yaml:"logging"`
}

// RefreshConfig holds the polling defaults shared by the providers.
type RefreshConfig struct {
	IntervalSec  int  `mapstructure:"interval_sec"  yaml:"interval_sec"`
	Depth        int  `mapstructure:"depth"         yaml:"depth"`
	NotifyAlways bool `mapstructure:"notify_always" yaml:"notify_always"`
}

// Interval returns the refresh interval as a duration.
func (r RefreshConfig) Interval() time.Duration {
	return time.Duration(r.IntervalSec) * time.Second
}

// ExchangeConfig holds one exchange's endpoint and credentials.
type ExchangeConfig struct {
	Enabled    bool      `mapstructure:"enabled"     yaml:"enabled"`
	BaseURL    string    `mapstructure:"base_url"    yaml:"base_url"`
	TimeoutSec int       `mapstructure:"timeout_sec" yaml:"timeout_sec"`
	Info       KeyConfig `mapstructure:"info"        yaml:"info"`
	Trading    KeyConfig `mapstructure:"trading"     yaml:"trading"`
}

// Timeout returns the connection timeout as a duration. Zero means the
// connection default.
func (e ExchangeConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutSec) * time.Second
}

// KeyConfig is one API key pair for one role.
type KeyConfig struct {
	Key    string `mapstructure:"key"    yaml:"key"`
	Secret string `mapstructure:"secret" yaml:"secret"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// Addr returns the listen address.
func (a APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// NewsConfig holds exchange-announcement feed settings.
type NewsConfig struct {
	CacheTTLSec int      `mapstructure:"cache_ttl_sec" yaml:"cache_ttl_sec"`
	Feeds       []string `mapstructure:"feeds"         yaml:"feeds"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.cryptodeck/config.yaml (home directory)
//  3. /etc/cryptodeck/config.yaml (system)
//
// Environment variables override config file values.
// Format: CRYPTODECK_<SECTION>_<KEY>, e.g. CRYPTODECK_API_PORT.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".cryptodeck"))
	v.AddConfigPath("/etc/cryptodeck")

	v.SetEnvPrefix("CRYPTODECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — defaults + env vars apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("CRYPTODECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("refresh.interval_sec", 1)
	v.SetDefault("refresh.depth", 10)
	v.SetDefault("refresh.notify_always", false)

	v.SetDefault("exchanges.bittrex.enabled", true)
	v.SetDefault("exchanges.poloniex.enabled", true)
	v.SetDefault("exchanges.dummy.enabled", false)

	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	v.SetDefault("news.cache_ttl_sec", 600)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// overrideFromEnv explicitly reads sensitive keys from environment
// variables, so secrets never need to live in the config file.
func overrideFromEnv(cfg *Config) {
	if cfg.Exchanges == nil {
		cfg.Exchanges = make(map[string]ExchangeConfig)
	}
	for _, name := range []string{"bittrex", "poloniex"} {
		ex := cfg.Exchanges[name]
		prefix := "CRYPTODECK_EXCHANGES_" + strings.ToUpper(name)
		if key := os.Getenv(prefix + "_INFO_KEY"); key != "" {
			ex.Info.Key = key
		}
		if secret := os.Getenv(prefix + "_INFO_SECRET"); secret != "" {
			ex.Info.Secret = secret
		}
		if key := os.Getenv(prefix + "_TRADING_KEY"); key != "" {
			ex.Trading.Key = key
		}
		if secret := os.Getenv(prefix + "_TRADING_SECRET"); secret != "" {
			ex.Trading.Secret = secret
		}
		cfg.Exchanges[name] = ex
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
