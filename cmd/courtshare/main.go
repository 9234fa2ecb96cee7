// Command courtshare serves the community badminton scheduling API.
//
// @title Courtshare API
// @version 1.0
// @description Community badminton scheduling: groups, events, cost-shared attendance.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/sessions"

	"courtshare/config"
	"courtshare/internal/adapters/auth"
	"courtshare/internal/adapters/email"
	"courtshare/internal/adapters/views"
	httpdelivery "courtshare/internal/delivery/http"
	"courtshare/internal/delivery/http/controllers"
	"courtshare/internal/domain"
	"courtshare/internal/repository/postgres"
	"courtshare/internal/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.Migrate(db); err != nil {
		return err
	}

	// Storage
	eventRepo := postgres.NewEventRepository(db)
	participantRepo := postgres.NewParticipantRepository(db)
	groupRepo := postgres.NewGroupRepository(db)
	membershipRepo := postgres.NewMembershipRepository(db)
	followRepo := postgres.NewFollowRepository(db)
	userRepo := postgres.NewUserRepository(db)
	loginCodeRepo := postgres.NewLoginCodeRepository(db)

	// Adapters
	registry := views.NewRegistry()
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return err
	}
	mailer := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.InsecureSkipVerify,
		},
	}, logger)

	verifiers := map[string]domain.CredentialVerifier{
		domain.LoginMethodPassword:  services.NewPasswordVerifier(userRepo, hasher),
		domain.LoginMethodEmailCode: services.NewEmailCodeVerifier(userRepo, loginCodeRepo),
	}
	providers := make(map[string]domain.IdentityProvider)
	if cfg.Google.Enabled() {
		providers[domain.LoginMethodGoogle] = auth.NewGoogleProvider(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.PublicBaseURL+"/auth/google/callback")
	}
	if cfg.Line.Enabled() {
		providers[domain.LoginMethodLine] = auth.NewLineProvider(cfg.Line.ClientID, cfg.Line.ClientSecret, cfg.PublicBaseURL+"/auth/line/callback")
	}
	for name, provider := range providers {
		verifiers[name] = services.NewOAuthVerifier(provider, userRepo)
	}

	// Services
	authorizer := services.NewGroupAuthorizer(membershipRepo)
	eventSvc := services.NewEventService(services.EventDeps{
		Events:       eventRepo,
		Participants: participantRepo,
		Groups:       groupRepo,
		Authorizer:   authorizer,
		Invalidator:  registry,
		Logger:       logger,
		Location:     cfg.Location,
		Timeout:      cfg.RequestTimeout,
	})
	participationSvc := services.NewParticipationService(participantRepo, registry, logger, cfg.RequestTimeout)
	groupSvc := services.NewGroupService(services.GroupDeps{
		Groups:      groupRepo,
		Memberships: membershipRepo,
		Follows:     followRepo,
		Events:      eventRepo,
		Authorizer:  authorizer,
		Invalidator: registry,
		Logger:      logger,
		Timeout:     cfg.RequestTimeout,
	})
	authSvc := services.NewAuthService(services.AuthDeps{
		Users:       userRepo,
		LoginCodes:  loginCodeRepo,
		Hasher:      hasher,
		Issuer:      auth.NewJWTIssuer(cfg.JWTSecret),
		TokenExpiry: cfg.JWTExpiry,
		Emails:      services.NewEmailService(mailer, renderer, logger),
		Verifiers:   verifiers,
		Logger:      logger,
		Timeout:     cfg.RequestTimeout,
	})

	// HTTP
	store := sessions.NewCookieStore(cfg.SessionKey)
	store.Options.Secure = cfg.IsProduction()
	store.Options.HttpOnly = true
	mux := httpdelivery.NewRouter(httpdelivery.Controllers{
		Auth:         controllers.NewAuthController(logger, authSvc, providers, store),
		Events:       controllers.NewEventController(logger, eventSvc, registry),
		Participants: controllers.NewParticipantController(logger, participationSvc),
		Groups:       controllers.NewGroupController(logger, groupSvc, registry),
	}, auth.NewJWTVerifier(cfg.JWTSecret))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpdelivery.NewHandler(mux, logger, cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
