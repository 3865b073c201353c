package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func setRequired(t *testing.T) {
	t.Setenv("ENCRYPTION_KEY", testKey)
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/community_test")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, ":3000", cfg.HTTP.Addr)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.False(t, cfg.Session.CookieSecure)
	assert.Equal(t, 30*time.Second, cfg.OTP.ResendCooldown)
	assert.Equal(t, time.Duration(0), cfg.OTP.Retention)
	assert.Equal(t, "none", cfg.Registration.RequireVerified)
	assert.False(t, cfg.SMTP.Enabled())
	assert.False(t, cfg.Telegram.Enabled())
	assert.False(t, cfg.Telegram.Moderation)
	assert.Equal(t, "http://localhost:3000", cfg.PublicURL)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("REGISTRATION_REQUIRE_VERIFIED", "BOTH")
	t.Setenv("OTP_RETENTION", "72h")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_ADMIN_CHAT_ID", "-100123")
	t.Setenv("TELEGRAM_MODERATION", "true")
	t.Setenv("PUBLIC_URL", "https://directory.example/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "both", cfg.Registration.RequireVerified)
	assert.Equal(t, 72*time.Hour, cfg.OTP.Retention)
	assert.True(t, cfg.Telegram.Enabled())
	assert.Equal(t, int64(-100123), cfg.Telegram.AdminChatID)
	assert.True(t, cfg.Telegram.Moderation)
	assert.Equal(t, "https://directory.example", cfg.PublicURL)
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{name: "short key", env: map[string]string{"ENCRYPTION_KEY": "abc"}},
		{name: "missing database", env: map[string]string{"DATABASE_URL": ""}},
		{name: "bad verification mode", env: map[string]string{"REGISTRATION_REQUIRE_VERIFIED": "sometimes"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
