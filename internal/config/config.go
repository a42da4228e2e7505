// Package config loads application settings from .env, config files and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultSessionSecret = "secret_key_change_me"

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port           string        `mapstructure:"PORT"`
	Env            string        `mapstructure:"APP_ENV"`
	DatabaseDriver string        `mapstructure:"DATABASE_DRIVER"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	SessionSecret  string        `mapstructure:"SESSION_SECRET"`
	RedisURL       string        `mapstructure:"REDIS_URL"`
	PageCacheTTL   time.Duration `mapstructure:"PAGE_CACHE_TTL"`
	PageCacheSize  int           `mapstructure:"PAGE_CACHE_SIZE"`
	PostsPerPage   int           `mapstructure:"POSTS_PER_PAGE"`
	MediaRoot      string        `mapstructure:"MEDIA_ROOT"`
	MaxUploadMB    int64         `mapstructure:"MAX_UPLOAD_MB"`
	RateLimitRPS   float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int           `mapstructure:"RATE_LIMIT_BURST"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	LogFormat      string        `mapstructure:"LOG_FORMAT"`

	SMTPHost         string        `mapstructure:"SMTP_HOST"`
	SMTPPort         string        `mapstructure:"SMTP_PORT"`
	SMTPUser         string        `mapstructure:"SMTP_USER"`
	SMTPPass         string        `mapstructure:"SMTP_PASS"`
	MailFrom         string        `mapstructure:"MAIL_FROM"`
	MailDir          string        `mapstructure:"MAIL_DIR"`
	PasswordResetTTL time.Duration `mapstructure:"PASSWORD_RESET_TTL"`
}

// Load reads .env (if present), an optional config.yml and the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=yatube port=5432 sslmode=disable")
	v.SetDefault("SESSION_SECRET", defaultSessionSecret)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("PAGE_CACHE_TTL", "20s")
	v.SetDefault("PAGE_CACHE_SIZE", 500)
	v.SetDefault("POSTS_PER_PAGE", 10)
	v.SetDefault("MEDIA_ROOT", "./media")
	v.SetDefault("MAX_UPLOAD_MB", 5)
	v.SetDefault("RATE_LIMIT_RPS", 1.0)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", "587")
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASS", "")
	v.SetDefault("MAIL_FROM", "noreply@yatube.local")
	v.SetDefault("MAIL_DIR", "./sent_emails")
	v.SetDefault("PASSWORD_RESET_TTL", "72h")
}

// SMTPEnabled reports whether outgoing mail goes to an SMTP server rather
// than to files under MailDir.
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.SMTPPort != "" && c.MailFrom != ""
}

// IsProduction reports whether APP_ENV names a production profile.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Validate ensures that required configuration values are present and sane.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	switch strings.ToLower(c.DatabaseDriver) {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DATABASE_DRIVER %q is not supported (postgres, sqlite)", c.DatabaseDriver)
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.PostsPerPage < 1 {
		return errors.New("POSTS_PER_PAGE must be positive")
	}
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required")
	}
	if c.SMTPHost != "" && c.MailFrom == "" {
		return errors.New("MAIL_FROM is required when SMTP_HOST is set")
	}
	if c.IsProduction() && c.SessionSecret == defaultSessionSecret {
		return errors.New("SESSION_SECRET must be changed from the default value in production")
	}
	return nil
}
