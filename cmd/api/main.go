package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"conferencecentral/config"
	_ "conferencecentral/docs"
	authadapter "conferencecentral/internal/adapters/auth"
	"conferencecentral/internal/adapters/cache"
	"conferencecentral/internal/adapters/email"
	"conferencecentral/internal/adapters/tasks"
	delivery "conferencecentral/internal/delivery/http"
	"conferencecentral/internal/delivery/http/controllers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/repository/postgres"
	"conferencecentral/internal/services"
)

const (
	cacheTTL          = time.Hour
	emailQueueSize    = 256
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
)

// @title Conference Central API
// @version 1.0
// @description Conference management backend: conferences, sessions, speakers, registrations, and wishlists.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	store := postgres.NewStore(db)
	profileRepo := postgres.NewProfileRepository(db)
	conferenceRepo := postgres.NewConferenceRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	speakerRepo := postgres.NewSpeakerRepository(db)
	loginCodeRepo := postgres.NewLoginCodeRepository(db)

	derivedCache, err := cache.NewDerivedCache(cfg.CacheProvider, cfg.RedisAddr, cacheTTL, logger)
	if err != nil {
		logger.Error("failed to initialize cache", "error", err)
		os.Exit(1)
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		},
	}, logger)
	if err != nil {
		logger.Error("failed to initialize mailer", "error", err)
		os.Exit(1)
	}
	renderer := email.NewTemplateRenderer()
	emailService := services.NewEmailService(mailer, renderer, logger)

	taskQueue := tasks.NewQueue(emailService, emailQueueSize, logger)
	taskQueue.Start()
	defer taskQueue.Close()

	tokenIssuer := authadapter.NewJWTIssuer(cfg.JWTSecret)
	tokenVerifier := authadapter.NewJWTVerifier(cfg.JWTSecret)

	authService := services.NewAuthService(profileRepo, loginCodeRepo, tokenIssuer, cfg.TokenExpiry, emailService)
	profileService := services.NewProfileService(store, profileRepo)
	conferenceService := services.NewConferenceService(store, profileRepo, conferenceRepo, derivedCache, taskQueue, logger)
	registrationService := services.NewRegistrationService(store, profileRepo, conferenceRepo)
	sessionService := services.NewSessionService(store, conferenceRepo, sessionRepo, speakerRepo, derivedCache, logger)
	speakerService := services.NewSpeakerService(speakerRepo)
	wishlistService := services.NewWishlistService(store, profileRepo, sessionRepo)

	mux := delivery.NewRouter(
		logger,
		tokenVerifier,
		controllers.NewAuthController(logger, authService),
		controllers.NewProfileController(logger, profileService),
		controllers.NewConferenceController(logger, conferenceService, registrationService),
		controllers.NewSessionController(logger, sessionService, speakerService),
		controllers.NewWishlistController(logger, wishlistService),
	)

	handler := middleware.CORS(cfg.CORSAllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
	logger.Info("server stopped")
}
