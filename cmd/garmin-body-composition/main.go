package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	garminadapter "github.com/underguiz/garmin-body-composition/internal/adapter/driven/garmin"
	sqliteadapter "github.com/underguiz/garmin-body-composition/internal/adapter/driven/sqlite"
	"github.com/underguiz/garmin-body-composition/internal/adapter/driven/tokenfile"
	httphandler "github.com/underguiz/garmin-body-composition/internal/adapter/driving/http"
	webhandler "github.com/underguiz/garmin-body-composition/internal/adapter/driving/web"
	"github.com/underguiz/garmin-body-composition/internal/application"
	"github.com/underguiz/garmin-body-composition/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr(),
		"token_store", cfg.TokenStorePath,
		"db_path", cfg.DBPath,
		"has_credentials", cfg.HasCredentials(),
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open the submission history database and run migrations.
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("database ready", "path", cfg.DBPath)

	// 4. Wire driven adapters.
	submissionStore := sqliteadapter.NewSubmissionRepo(db)
	tokenStore := tokenfile.New(cfg.TokenStorePath, cfg.SecretKey)
	connector := garminadapter.NewConnector()

	// 5. Create services. The session is initialized eagerly so the first
	// request doesn't pay the login cost; a failure here is not fatal, the
	// next request retries it.
	sessions := application.NewSessionService(connector, tokenStore, cfg.Email, cfg.Password, slog.Default())
	if _, err := sessions.Client(ctx); err != nil {
		slog.Warn("could not initialize garmin session on startup, will retry on first request", "error", err)
	} else {
		slog.Info("garmin session initialized")
	}

	submissions := application.NewSubmissionService(sessions, submissionStore, slog.Default())
	health := application.NewHealthService(sessions)

	// 6. Register routes and middleware.
	mux := http.NewServeMux()
	apiHandler := httphandler.NewHandler(submissions, health, slog.Default())
	httphandler.RegisterRoutes(mux, apiHandler)
	webhandler.RegisterRoutes(mux)
	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	// 7. Wait for shutdown signal, then drain.
	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
