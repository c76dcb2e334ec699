package config

import (
	"strings"
	"testing"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		Environment:   "production",
		ServerPort:    8288,
		SessionSecret: strings.Repeat("s", MIN_SESSION_SECRET_LENGTH),
	}
}

func TestValidateConfig(t *testing.T) {
	log := logger.New("config_test")

	tests := []struct {
		name      string
		mutate    func(c *Config)
		expectErr bool
	}{
		{
			name:      "valid production config",
			mutate:    func(c *Config) {},
			expectErr: false,
		},
		{
			name:      "invalid port",
			mutate:    func(c *Config) { c.ServerPort = 0 },
			expectErr: true,
		},
		{
			name:      "missing session secret",
			mutate:    func(c *Config) { c.SessionSecret = "" },
			expectErr: true,
		},
		{
			name:      "short secret outside development",
			mutate:    func(c *Config) { c.SessionSecret = "short" },
			expectErr: true,
		},
		{
			name: "short secret allowed in development",
			mutate: func(c *Config) {
				c.Environment = "development"
				c.SessionSecret = "short"
			},
			expectErr: false,
		},
		{
			name:      "admin username without password",
			mutate:    func(c *Config) { c.AdminUsername = "admin" },
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := validateConfig(cfg, log)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigDurations(t *testing.T) {
	t.Run("defaults when unset", func(t *testing.T) {
		cfg := Config{}
		assert.Equal(t, 300*time.Second, cfg.AdminIdleTimeout())
		assert.Equal(t, 10*time.Minute, cfg.LoginLockout())
		assert.Equal(t, 5, cfg.MaxLoginAttempts())
		assert.Equal(t, 336*time.Hour, cfg.SessionTTL())
	})

	t.Run("configured values", func(t *testing.T) {
		cfg := Config{
			AdminIdleTimeoutSeconds: 60,
			LoginLockoutMinutes:     1,
			LoginMaxAttempts:        3,
			SessionTTLHours:         2,
		}
		assert.Equal(t, time.Minute, cfg.AdminIdleTimeout())
		assert.Equal(t, time.Minute, cfg.LoginLockout())
		assert.Equal(t, 3, cfg.MaxLoginAttempts())
		assert.Equal(t, 2*time.Hour, cfg.SessionTTL())
	})
}
