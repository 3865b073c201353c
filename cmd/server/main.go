package main

import (
	"CommunityDirectory/internal/adapters/email"
	"CommunityDirectory/internal/adapters/eventbus"
	"CommunityDirectory/internal/adapters/postgres"
	"CommunityDirectory/internal/adapters/redis"
	"CommunityDirectory/internal/adapters/security"
	"CommunityDirectory/internal/adapters/sms"
	"CommunityDirectory/internal/adapters/telegram"
	"CommunityDirectory/internal/bot/moderator"
	"CommunityDirectory/internal/core/domain"
	"CommunityDirectory/internal/core/ports"
	"CommunityDirectory/internal/core/services"
	"CommunityDirectory/internal/notify"
	"CommunityDirectory/internal/shared/config"
	"CommunityDirectory/internal/shared/logger"
	"CommunityDirectory/internal/web"
	"CommunityDirectory/internal/web/live"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

const (
	shutdownTimeout    = 15 * time.Second
	retentionInterval  = time.Hour
	rateLimiterCleanup = 5 * time.Minute
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize Logger
	baseLogger := logger.New(cfg.IsDev(), cfg.LogLevel)
	baseLogger.Info().
		Str("app_env", cfg.AppEnv).
		Str("http_addr", cfg.HTTP.Addr).
		Str("require_verified", cfg.Registration.RequireVerified).
		Msg("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Security Service
	keyBytes, err := hex.DecodeString(cfg.EncryptionKey)
	if err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to decode ENCRYPTION_KEY. It must be hex-encoded.")
	}
	secSvc, err := security.NewAESService(keyBytes, &baseLogger)
	if err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to initialize security service")
	}

	// 4. Database
	db, err := postgres.NewDB(ctx, cfg.Postgres.URL, cfg.Postgres.MaxConns, &baseLogger)
	if err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()
	if err := db.EnsureSchema(ctx); err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to ensure database schema")
	}

	// 5. Redis
	rdb, err := redis.NewClient(ctx, cfg.Redis.URL, &baseLogger)
	if err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// 6. Repositories and stores
	userRepo := postgres.NewUserRepository(db, secSvc, &baseLogger)
	occupationRepo := postgres.NewOccupationRepository(db, &baseLogger)
	otpRepo := postgres.NewOTPRepository(db, &baseLogger)
	approvalRepo := postgres.NewApprovalRepository(db, secSvc, &baseLogger)
	directoryRepo := postgres.NewDirectoryRepository(db, secSvc, &baseLogger)
	referenceRepo := postgres.NewReferenceRepository(db, &baseLogger)

	sessions := redis.NewSessionStore(rdb, cfg.Session.TTL, &baseLogger)
	tickets := redis.NewLoginTicketStore(rdb)
	limiter := redis.NewOTPLimiter(rdb, cfg.OTP.ResendCooldown, cfg.OTP.Window, cfg.OTP.MaxPerWindow, &baseLogger)

	// 7. Event bus and outbound channels
	bus := eventbus.NewInMemoryEventBus(&baseLogger)
	templates := notify.Templates{Site: cfg.AppName, PublicURL: cfg.PublicURL}
	tgAPI := connectTelegram(cfg, &baseLogger)
	moderation := tgAPI != nil && cfg.Telegram.Moderation

	notifier := notify.NewNotificationHandler(
		newEmailSender(cfg, &baseLogger),
		newSMSSender(cfg, &baseLogger),
		newAlerter(tgAPI, cfg.Telegram.AdminChatID, templates.PanelURL(), moderation, &baseLogger),
		templates,
		cfg.IsDev(),
		&baseLogger,
	)
	notifier.Register(bus)

	hub := live.NewHub(cfg.HTTP.AllowedOrigins, &baseLogger)
	hub.Subscribe(bus)
	go hub.Run(ctx)

	// 8. Services
	otpSvc := services.NewOTPService(otpRepo, limiter, bus, &baseLogger)
	authSvc := services.NewAuthService(userRepo, otpSvc, sessions, tickets, secSvc, &baseLogger)
	regSvc := services.NewRegistrationService(userRepo, occupationRepo, bus, domain.VerificationRequirement(cfg.Registration.RequireVerified), &baseLogger)
	adminSvc := services.NewAdminService(approvalRepo, bus, &baseLogger)
	directorySvc := services.NewDirectoryService(directoryRepo, &baseLogger)
	referenceSvc := services.NewReferenceService(referenceRepo, &baseLogger)

	if cfg.Admin.Enabled() {
		if _, err := authSvc.BootstrapAdmin(ctx, cfg.Admin.Email, cfg.Admin.Phone, cfg.Admin.Password); err != nil {
			baseLogger.Fatal().Err(err).Msg("Failed to bootstrap admin account")
		}
	}

	if moderation {
		modRouter := moderator.NewRouter(cfg.Telegram.AdminChatID, bus, &baseLogger)
		modRouter.RegisterCallbackHandler(moderator.NewApprovalHandler(adminSvc, tgAPI, &baseLogger))
		go moderator.NewPoller(tgAPI, bus, &baseLogger).Run(ctx)
		baseLogger.Info().Msg("Telegram moderation enabled")
	}

	if cfg.OTP.Retention > 0 {
		go otpSvc.RunRetention(ctx, cfg.OTP.Retention, retentionInterval)
		baseLogger.Info().Dur("retention", cfg.OTP.Retention).Msg("OTP retention enabled")
	}

	// 9. HTTP
	authLimiter := web.NewIPRateLimiter(cfg.RateLimit.AuthRPS, cfg.RateLimit.AuthBurst)
	go authLimiter.Cleanup(ctx, rateLimiterCleanup)

	handler := web.NewHandler(authSvc, regSvc, directorySvc, adminSvc, referenceSvc, cfg.Session.CookieSecure, cfg.Session.TTL)
	router := web.NewRouter(web.RouterOptions{
		Handler:        handler,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		AuthLimiter:    authLimiter,
		LiveFeed:       hub,
		Logger:         &baseLogger,
		HealthChecks: map[string]web.HealthCheck{
			"postgres": db.Ping,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		baseLogger.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		baseLogger.Info().Msg("Shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			baseLogger.Error().Err(err).Msg("HTTP server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	// Let in-flight notifications finish before the pools close.
	bus.Wait()
	baseLogger.Info().Msg("Server stopped")
}

func newEmailSender(cfg *config.Config, log *zerolog.Logger) ports.EmailSender {
	if !cfg.SMTP.Enabled() {
		log.Warn().Msg("SMTP not configured; emails will only be logged")
		return email.NewLogSender(log)
	}
	return email.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Pass, cfg.SMTP.From, log)
}

func newSMSSender(cfg *config.Config, log *zerolog.Logger) ports.SMSSender {
	if !cfg.SMS.Enabled() {
		log.Warn().Msg("SMS provider not configured; texts will only be logged")
		return sms.NewLogSender(log)
	}
	return sms.NewTwilioSender(cfg.SMS.ProviderURL, cfg.SMS.AccountSID, cfg.SMS.AuthToken, cfg.SMS.From, log)
}

// connectTelegram returns nil when Telegram is off or unreachable; alerts are optional.
func connectTelegram(cfg *config.Config, log *zerolog.Logger) *tgbotapi.BotAPI {
	if !cfg.Telegram.Enabled() {
		return nil
	}
	api, err := telegram.Connect(cfg.Telegram.Token, "", cfg.IsDev(), log)
	if err != nil {
		log.Error().Err(err).Msg("Telegram unavailable; admin alerts disabled")
		return nil
	}
	return api
}

func newAlerter(api *tgbotapi.BotAPI, chatID int64, panelURL string, decisions bool, log *zerolog.Logger) ports.AdminAlerter {
	if api == nil {
		return nil
	}
	return telegram.NewAlerter(api, chatID, panelURL, decisions, log)
}
