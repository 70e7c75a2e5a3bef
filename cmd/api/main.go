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

	"github.com/joho/godotenv"

	"formflow/api"
	"formflow/auth"
	"formflow/config"
	"formflow/db"
	"formflow/formation"
	"formflow/logging"
	"formflow/notes"
	"formflow/tokens"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := godotenv.Load(); err != nil {
		log.Warn(ctx, "no .env file loaded, using system environment only", "err", err)
	}

	cfg := config.Load(log)
	if cfg.DatabaseURL == "" {
		log.Error(ctx, "DATABASE_URL is required")
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		log.Error(ctx, "JWT_SECRET is required")
		os.Exit(1)
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error(ctx, "bootstrap database pool", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	notesClient := notes.NewClient(cfg.Notes.ServiceURL, cfg.Notes.AnonKey)

	authService := auth.NewService(auth.NewRepository(pool), cfg.JWTSecret)
	formationService := formation.NewService(formation.NewRepository(pool), notesClient, log)
	tokenService := tokens.NewService(tokens.NewRepository(pool), log)

	server := api.NewServer(formationService, tokenService, authService, log)

	if err := runServer(ctx, &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}, log); err != nil {
		log.Error(ctx, "server error", "err", err)
		os.Exit(1)
	}
}

func runServer(ctx context.Context, srv *http.Server, log logging.Logger) error {
	log.Info(ctx, "formflow api listening", "addr", srv.Addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
