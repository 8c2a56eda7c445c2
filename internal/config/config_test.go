package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 168*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 64, cfg.RealtimeBuffer)
	assert.Equal(t, 30*time.Second, cfg.NotifyTimeout)
	assert.Empty(t, cfg.OAuthProxySecret)
	assert.False(t, cfg.SMTPEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("PORT", "9090")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("SMTP_SERVER", "smtp.example.com")
	t.Setenv("SMTP_USER", "bot@example.com")
	t.Setenv("SMTP_PASSWORD", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.SMTPEnabled())
}

func TestLoad_ShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ShortProxySecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("OAUTH_PROXY_SECRET", "tiny")

	_, err := Load()
	assert.ErrorContains(t, err, "OAUTH_PROXY_SECRET")
}
