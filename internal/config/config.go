// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Port      int           `env:"PORT" env-default:"8080"`
	DBPath    string        `env:"DB_PATH" env-default:"./data/tontine.db"`
	JWTSecret string        `env:"JWT_SECRET" env-required:"true"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" env-default:"168h"`
	ClientURL string        `env:"CLIENT_URL" env-default:"*"`

	// OAuthProxySecret enables the proxy login route when set. The
	// identity-aware proxy in front of the server sends it on every login.
	OAuthProxySecret string `env:"OAUTH_PROXY_SECRET"`

	SmtpServer   string `env:"SMTP_SERVER"`
	SmtpPort     int    `env:"SMTP_PORT" env-default:"587"`
	SmtpUser     string `env:"SMTP_USER"`
	SmtpPassword string `env:"SMTP_PASSWORD"`

	PushTimeout time.Duration `env:"PUSH_TIMEOUT" env-default:"5s"`
	// NotifyTimeout bounds one background delivery across every channel.
	NotifyTimeout time.Duration `env:"NOTIFY_TIMEOUT" env-default:"30s"`

	// LoginRate is the sustained login/register attempts per second per peer.
	LoginRate  float64 `env:"LOGIN_RATE" env-default:"0.2"`
	LoginBurst int     `env:"LOGIN_BURST" env-default:"5"`

	// RealtimeBuffer is the per-connection event queue length.
	RealtimeBuffer int `env:"REALTIME_BUFFER" env-default:"64"`
}

// Load reads the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("error parsing configuration from environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	if len(c.JWTSecret) < 16 {
		return errors.New("JWT_SECRET must be at least 16 characters")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.OAuthProxySecret != "" && len(c.OAuthProxySecret) < 16 {
		return errors.New("OAUTH_PROXY_SECRET must be at least 16 characters")
	}
	if c.RealtimeBuffer <= 0 {
		return errors.New("REALTIME_BUFFER must be positive")
	}
	return nil
}

// SMTPEnabled reports whether email notifications are configured.
func (c Config) SMTPEnabled() bool {
	return c.SmtpServer != "" && c.SmtpUser != "" && c.SmtpPassword != ""
}
