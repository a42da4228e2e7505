package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Port:           "8080",
		Env:            "development",
		DatabaseDriver: "sqlite",
		DatabaseURL:    "file::memory:",
		SessionSecret:  defaultSessionSecret,
		PostsPerPage:   10,
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "yatube.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "yatube.db", cfg.DatabaseURL)
	assert.Equal(t, 20*time.Second, cfg.PageCacheTTL)
	assert.Equal(t, 10, cfg.PostsPerPage)
	assert.Equal(t, int64(5), cfg.MaxUploadMB)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, 72*time.Hour, cfg.PasswordResetTTL)
	assert.Equal(t, "./sent_emails", cfg.MailDir)
	assert.False(t, cfg.SMTPEnabled())
}

func TestLoad_SMTPSettings(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("MAIL_FROM", "yatube@example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.SMTPEnabled())
	assert.Equal(t, "2525", cfg.SMTPPort)
	assert.Equal(t, "yatube@example.com", cfg.MailFrom)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("POSTS_PER_PAGE", "25")
	t.Setenv("PAGE_CACHE_TTL", "1m")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 25, cfg.PostsPerPage)
	assert.Equal(t, time.Minute, cfg.PageCacheTTL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"valid development", func(*Config) {}, false},
		{"empty port", func(c *Config) { c.Port = "" }, true},
		{"unknown driver", func(c *Config) { c.DatabaseDriver = "mysql" }, true},
		{"empty database url", func(c *Config) { c.DatabaseURL = "" }, true},
		{"zero page size", func(c *Config) { c.PostsPerPage = 0 }, true},
		{"smtp without sender", func(c *Config) { c.SMTPHost = "smtp.example.com" }, true},
		{"production with default secret", func(c *Config) { c.Env = "production" }, true},
		{"production with real secret", func(c *Config) {
			c.Env = "production"
			c.SessionSecret = "a-much-longer-and-unguessable-session-secret"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
