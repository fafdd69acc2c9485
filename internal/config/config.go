package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the service. Values come from an
// optional config.yaml, overridden by environment variables (PORT, DATA_DIR,
// ...), with working defaults for local runs.
type Config struct {
	Port              string        `mapstructure:"port"`
	DataDir           string        `mapstructure:"data_dir"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	MaxRequestsPerMin int           `mapstructure:"max_requests_per_min"`
	MaxGroupLength    int           `mapstructure:"max_group_length"`
	AllowedOrigins    []string      `mapstructure:"allowed_origins"`
	HistoryLimit      int           `mapstructure:"history_limit"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	// A .env next to the binary is a development convenience; absence is
	// not an error.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("data_dir", "./data")
	v.SetDefault("cache_ttl", 15*time.Minute)
	v.SetDefault("request_timeout", 30*time.Second)
	v.SetDefault("max_requests_per_min", 60)
	v.SetDefault("max_group_length", 200)
	v.SetDefault("allowed_origins", []string{"*"})
	v.SetDefault("history_limit", 50)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	if cfg.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if cfg.MaxRequestsPerMin <= 0 {
		return fmt.Errorf("max_requests_per_min must be positive, got %d", cfg.MaxRequestsPerMin)
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", cfg.RequestTimeout)
	}
	return nil
}
