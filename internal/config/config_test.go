package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 60, cfg.MaxRequestsPerMin)
	assert.Equal(t, 50, cfg.HistoryLimit)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_DIR", "/tmp/forecaster")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "/tmp/forecaster", cfg.DataDir)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Port:              "8080",
			DataDir:           "./data",
			RequestTimeout:    time.Second,
			MaxRequestsPerMin: 60,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "empty port",
			mutate:  func(c *Config) { c.Port = "" },
			wantErr: true,
		},
		{
			name:    "empty data dir",
			mutate:  func(c *Config) { c.DataDir = "" },
			wantErr: true,
		},
		{
			name:    "non-positive rate limit",
			mutate:  func(c *Config) { c.MaxRequestsPerMin = 0 },
			wantErr: true,
		},
		{
			name:    "non-positive timeout",
			mutate:  func(c *Config) { c.RequestTimeout = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
