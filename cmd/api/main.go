package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"eventregistry/config"
	_ "eventregistry/docs"
	"eventregistry/internal/adapters/auth"
	"eventregistry/internal/adapters/email"
	delivery "eventregistry/internal/delivery/http"
	"eventregistry/internal/delivery/http/controllers"
	"eventregistry/internal/delivery/http/middleware"
	"eventregistry/internal/repository/postgres"
	"eventregistry/internal/services"
)

const (
	serviceTimeout  = 10 * time.Second
	tokenExpiry     = 24 * time.Hour
	shutdownTimeout = 15 * time.Second
	bcryptCost      = 12
)

// @title Event Registry API
// @version 1.0
// @description Event registration lifecycle: public submission, operator review, RSVP confirmation, and day-of check-in.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := config.NewLogger(cfg.Environment)

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("ping database", "err", err)
		os.Exit(1)
	}

	loc, err := time.LoadLocation(cfg.EventTimezone)
	if err != nil {
		logger.Error("load event timezone", "tz", cfg.EventTimezone, "err", err)
		os.Exit(1)
	}

	eventRepo := postgres.NewEventRepository(db)
	regRepo := postgres.NewRegistrationRepository(db)
	userRepo := postgres.NewUserRepository(db)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.SESRegion,
			AccessKeyID:        cfg.Email.SESAccessKeyID,
			SecretAccessKey:    cfg.Email.SESSecretAccessKey,
			InsecureSkipVerify: cfg.Email.InsecureSkipVerify,
		},
	})
	if err != nil {
		logger.Error("create mailer", "err", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), cfg.BaseURL, loc)

	dispatcher := services.NewNotificationDispatcher(logger, userRepo, emailService, cfg.NotifyQueue)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go dispatcher.Run(ctx)

	registrationService := services.NewRegistrationService(eventRepo, regRepo, dispatcher, serviceTimeout)
	attendanceService := services.NewAttendanceService(eventRepo, regRepo, serviceTimeout)
	userService := services.NewUserService(
		userRepo,
		auth.NewBcryptHasher(bcryptCost),
		auth.NewJWTIssuer(cfg.JWTSecret),
		tokenExpiry,
		serviceTimeout,
	)

	mux := delivery.NewRouter(
		logger,
		auth.NewJWTVerifier(cfg.JWTSecret),
		controllers.NewRegistrationController(logger, registrationService),
		controllers.NewRSVPController(logger, registrationService),
		controllers.NewAttendanceController(logger, attendanceService),
		controllers.NewUserController(logger, userService),
	)

	handler := middleware.LoggingMiddleware(logger, mux)
	if cfg.AllowedOrigins != "" {
		handler = middleware.CORS(strings.Split(cfg.AllowedOrigins, ","), handler)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", "err", err)
		}
	}()

	logger.Info("starting server", "port", cfg.Port, "env", cfg.Environment)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
