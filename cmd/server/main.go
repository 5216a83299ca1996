package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jwpark-dev/tripnote/internal/api"
	"github.com/jwpark-dev/tripnote/internal/app"
	iauth "github.com/jwpark-dev/tripnote/internal/auth"
	"github.com/jwpark-dev/tripnote/internal/database"
	"github.com/jwpark-dev/tripnote/internal/handlers"
	"github.com/jwpark-dev/tripnote/internal/services"
	"github.com/jwpark-dev/tripnote/pkg/logger"
	"github.com/jwpark-dev/tripnote/pkg/mail"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tripnote-server", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	var configPath string
	fs.StringVar(&configPath, "config", "", "Path to configuration directory or file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadApplicationConfig(configPath)
	if err != nil {
		return err
	}

	if err := app.ConfigureLogging(cfg.Server.LogLevel); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer logger.Sync() // best effort

	log := logger.WithModule("bootstrap")

	if err := ensureSecretsPresent(cfg); err != nil {
		return err
	}

	db, err := initialiseDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeDatabase(db, log)

	tokenSvc, err := iauth.NewTokenService(cfg.Auth.TokenServiceConfig())
	if err != nil {
		return fmt.Errorf("initialise token service: %w", err)
	}

	mailer, err := mail.NewSMTPMailer(cfg.Email.SMTPSettings())
	if err != nil {
		return fmt.Errorf("initialise mailer: %w", err)
	}
	if !cfg.Email.SMTP.Enabled {
		log.Warn("smtp disabled; verification codes will be logged instead of emailed")
	}

	authSvc, err := services.NewAuthService(db, tokenSvc, mailer, cfg.Auth.CodeTTL(), nil)
	if err != nil {
		return fmt.Errorf("initialise auth service: %w", err)
	}

	chapterSvc, err := services.NewChapterService(db)
	if err != nil {
		return fmt.Errorf("initialise chapter service: %w", err)
	}

	diarySvc, err := services.NewDiaryService(db, chapterSvc)
	if err != nil {
		return fmt.Errorf("initialise diary service: %w", err)
	}

	oauthHandler, err := buildOAuthHandler(ctx, cfg, db, tokenSvc)
	if err != nil {
		return err
	}

	router, err := api.NewRouter(api.Dependencies{
		DB:             db,
		Tokens:         tokenSvc,
		Auth:           authSvc,
		Chapters:       chapterSvc,
		Diary:          diarySvc,
		OAuth:          oauthHandler,
		AllowedOrigins: cfg.Server.CORS.AllowedOrigins,
	})
	if err != nil {
		return fmt.Errorf("build api router: %w", err)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	if err, ok := <-serverErr; ok && err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	log.Info("server stopped gracefully")
	return nil
}

// buildOAuthHandler wires federated Google login when a client id is
// configured. Discovery needs the network, so an unreachable issuer fails
// startup rather than leaving a half-working login flow.
func buildOAuthHandler(ctx context.Context, cfg *app.Config, db *gorm.DB, tokens *iauth.TokenService) (*handlers.OAuthHandler, error) {
	if !cfg.Auth.GoogleEnabled() {
		logger.WithModule("bootstrap").Info("google login disabled; no client id configured")
		return nil, nil
	}

	provider, err := iauth.NewGoogleProvider(ctx, cfg.Auth.GoogleProviderConfig())
	if err != nil {
		return nil, fmt.Errorf("initialise google provider: %w", err)
	}

	states, err := iauth.NewStateCodec(cfg.Auth.JWT.Secret, cfg.Auth.Google.StateTTL, nil)
	if err != nil {
		return nil, fmt.Errorf("initialise state codec: %w", err)
	}

	bridge := iauth.NewBridge(db, tokens, cfg.Frontend.BaseURL)
	return handlers.NewOAuthHandler(provider, bridge, states, cfg.Frontend.BaseURL), nil
}

func loadApplicationConfig(path string) (*app.Config, error) {
	switch {
	case strings.TrimSpace(path) == "":
		return app.LoadConfig()
	default:
		info, err := os.Stat(path)
		if err == nil {
			if info.IsDir() {
				return app.LoadConfig(path)
			}
			return app.LoadConfig(filepath.Dir(path))
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config path %q does not exist", path)
		}
		return nil, fmt.Errorf("stat config path: %w", err)
	}
}

func ensureSecretsPresent(cfg *app.Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Auth.JWT.Secret = strings.TrimSpace(cfg.Auth.JWT.Secret)
	if cfg.Auth.JWT.Secret == "" {
		return errors.New("auth.jwt.secret must be configured")
	}

	return nil
}

func initialiseDatabase(cfg *app.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg.Database.DatabaseConfig())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

func closeDatabase(db *gorm.DB, log *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("fetch underlying database handle", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("close database", zap.Error(err))
	}
}
