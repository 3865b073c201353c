package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv        string
	AppName       string
	PublicURL     string
	LogLevel      string
	EncryptionKey string

	HTTP         HTTPConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Session      SessionConfig
	OTP          OTPConfig
	Registration RegistrationConfig
	SMTP         SMTPConfig
	SMS          SMSConfig
	Telegram     TelegramConfig
	Admin        AdminBootstrapConfig
	RateLimit    RateLimitConfig
}

type HTTPConfig struct {
	Addr           string
	AllowedOrigins []string
}

type PostgresConfig struct {
	URL      string
	MaxConns int32
}

type RedisConfig struct {
	URL string
}

type SessionConfig struct {
	TTL          time.Duration
	CookieSecure bool
}

// OTPConfig tunes issuance throttling and row retention.
// Code lifetime is fixed and not configurable.
type OTPConfig struct {
	ResendCooldown time.Duration
	MaxPerWindow   int
	Window         time.Duration
	Retention      time.Duration // 0 disables the purge loop
}

type RegistrationConfig struct {
	// RequireVerified is one of none, email, phone, both.
	RequireVerified string
}

type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// Enabled reports whether a real SMTP server is configured.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.User != ""
}

type SMSConfig struct {
	ProviderURL string
	AccountSID  string
	AuthToken   string
	From        string
}

func (c SMSConfig) Enabled() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.From != ""
}

type TelegramConfig struct {
	Token       string
	AdminChatID int64
	// Moderation adds approve and reject buttons to registration alerts
	// and polls for their callbacks.
	Moderation bool
}

func (c TelegramConfig) Enabled() bool {
	return c.Token != "" && c.AdminChatID != 0
}

type AdminBootstrapConfig struct {
	Email    string
	Phone    string
	Password string
}

func (c AdminBootstrapConfig) Enabled() bool {
	return c.Email != "" && c.Phone != "" && c.Password != ""
}

type RateLimitConfig struct {
	AuthRPS   float64
	AuthBurst int
}

var bindings = map[string]string{
	"app.env":                       "APP_ENV",
	"app.name":                      "APP_NAME",
	"app.public_url":                "PUBLIC_URL",
	"log.level":                     "LOG_LEVEL",
	"encryption.key":                "ENCRYPTION_KEY",
	"http.addr":                     "HTTP_ADDR",
	"http.allowed_origins":          "ALLOWED_ORIGINS",
	"database.url":                  "DATABASE_URL",
	"database.max_conns":            "DATABASE_MAX_CONNS",
	"redis.url":                     "REDIS_URL",
	"session.ttl":                   "SESSION_TTL",
	"session.cookie_secure":         "SESSION_COOKIE_SECURE",
	"otp.resend_cooldown":           "OTP_RESEND_COOLDOWN",
	"otp.max_per_window":            "OTP_MAX_PER_WINDOW",
	"otp.window":                    "OTP_WINDOW",
	"otp.retention":                 "OTP_RETENTION",
	"registration.require_verified": "REGISTRATION_REQUIRE_VERIFIED",
	"smtp.host":                     "SMTP_HOST",
	"smtp.port":                     "SMTP_PORT",
	"smtp.user":                     "SMTP_USER",
	"smtp.pass":                     "SMTP_PASS",
	"smtp.from":                     "SMTP_FROM",
	"sms.provider_url":              "SMS_PROVIDER_URL",
	"sms.account_sid":               "SMS_ACCOUNT_SID",
	"sms.auth_token":                "SMS_AUTH_TOKEN",
	"sms.from":                      "SMS_FROM",
	"telegram.token":                "TELEGRAM_BOT_TOKEN",
	"telegram.admin_chat_id":        "TELEGRAM_ADMIN_CHAT_ID",
	"telegram.moderation":           "TELEGRAM_MODERATION",
	"admin.bootstrap_email":         "ADMIN_BOOTSTRAP_EMAIL",
	"admin.bootstrap_phone":         "ADMIN_BOOTSTRAP_PHONE",
	"admin.bootstrap_password":      "ADMIN_BOOTSTRAP_PASSWORD",
	"ratelimit.auth_rps":            "RATELIMIT_AUTH_RPS",
	"ratelimit.auth_burst":          "RATELIMIT_AUTH_BURST",
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// A missing .env is fine; we fall back to OS-set env vars.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("could not bind %s: %w", key, err)
		}
	}

	viper.SetDefault("app.env", "dev")
	viper.SetDefault("app.name", "52 ગામ કડવા પટેલ સમાજ")
	viper.SetDefault("app.public_url", "http://localhost:3000")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("http.addr", ":3000")
	viper.SetDefault("http.allowed_origins", "http://localhost:3000")
	viper.SetDefault("database.max_conns", 10)
	viper.SetDefault("redis.url", "redis://localhost:6379/0")
	viper.SetDefault("session.ttl", "24h")
	viper.SetDefault("otp.resend_cooldown", "30s")
	viper.SetDefault("otp.max_per_window", 5)
	viper.SetDefault("otp.window", "15m")
	viper.SetDefault("otp.retention", "0s")
	viper.SetDefault("registration.require_verified", "none")
	viper.SetDefault("smtp.port", 587)
	viper.SetDefault("sms.provider_url", "https://api.twilio.com/2010-04-01")
	viper.SetDefault("ratelimit.auth_rps", 1.0)
	viper.SetDefault("ratelimit.auth_burst", 5)
	viper.SetDefault("telegram.moderation", false)

	appEnv := viper.GetString("app.env")
	viper.SetDefault("session.cookie_secure", appEnv == "production")

	cfg := Config{
		AppEnv:        appEnv,
		AppName:       viper.GetString("app.name"),
		PublicURL:     strings.TrimRight(viper.GetString("app.public_url"), "/"),
		LogLevel:      viper.GetString("log.level"),
		EncryptionKey: viper.GetString("encryption.key"),
		HTTP: HTTPConfig{
			Addr:           viper.GetString("http.addr"),
			AllowedOrigins: splitList(viper.GetString("http.allowed_origins")),
		},
		Postgres: PostgresConfig{
			URL:      viper.GetString("database.url"),
			MaxConns: viper.GetInt32("database.max_conns"),
		},
		Redis: RedisConfig{URL: viper.GetString("redis.url")},
		Session: SessionConfig{
			TTL:          viper.GetDuration("session.ttl"),
			CookieSecure: viper.GetBool("session.cookie_secure"),
		},
		OTP: OTPConfig{
			ResendCooldown: viper.GetDuration("otp.resend_cooldown"),
			MaxPerWindow:   viper.GetInt("otp.max_per_window"),
			Window:         viper.GetDuration("otp.window"),
			Retention:      viper.GetDuration("otp.retention"),
		},
		Registration: RegistrationConfig{
			RequireVerified: strings.ToLower(viper.GetString("registration.require_verified")),
		},
		SMTP: SMTPConfig{
			Host: viper.GetString("smtp.host"),
			Port: viper.GetInt("smtp.port"),
			User: viper.GetString("smtp.user"),
			Pass: viper.GetString("smtp.pass"),
			From: viper.GetString("smtp.from"),
		},
		SMS: SMSConfig{
			ProviderURL: viper.GetString("sms.provider_url"),
			AccountSID:  viper.GetString("sms.account_sid"),
			AuthToken:   viper.GetString("sms.auth_token"),
			From:        viper.GetString("sms.from"),
		},
		Telegram: TelegramConfig{
			Token:       viper.GetString("telegram.token"),
			AdminChatID: viper.GetInt64("telegram.admin_chat_id"),
			Moderation:  viper.GetBool("telegram.moderation"),
		},
		Admin: AdminBootstrapConfig{
			Email:    viper.GetString("admin.bootstrap_email"),
			Phone:    viper.GetString("admin.bootstrap_phone"),
			Password: viper.GetString("admin.bootstrap_password"),
		},
		RateLimit: RateLimitConfig{
			AuthRPS:   viper.GetFloat64("ratelimit.auth_rps"),
			AuthBurst: viper.GetInt("ratelimit.auth_burst"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.EncryptionKey == "" {
		return errors.New("ENCRYPTION_KEY is not set in environment or .env file")
	}
	if len(c.EncryptionKey) != 64 {
		return fmt.Errorf("ENCRYPTION_KEY must be a 64-character hex string (32 bytes), but got %d chars", len(c.EncryptionKey))
	}
	if c.Postgres.URL == "" {
		return errors.New("DATABASE_URL is not set in environment or .env file")
	}
	switch c.Registration.RequireVerified {
	case "none", "email", "phone", "both":
	default:
		return fmt.Errorf("REGISTRATION_REQUIRE_VERIFIED must be one of none, email, phone, both; got %q", c.Registration.RequireVerified)
	}
	if c.Session.TTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.OTP.Retention < 0 {
		return errors.New("OTP_RETENTION must not be negative")
	}
	return nil
}

// IsDev reports whether the app runs in development mode.
func (c *Config) IsDev() bool {
	return c.AppEnv == "dev"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
