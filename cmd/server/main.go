// Command psychtool-server starts the psychtool HTTP API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuswell/psychtool/internal/config"
	"github.com/campuswell/psychtool/internal/limiter"
	"github.com/campuswell/psychtool/internal/media"
	"github.com/campuswell/psychtool/internal/migrate"
	"github.com/campuswell/psychtool/internal/provider"
	"github.com/campuswell/psychtool/internal/repository/postgres"
	"github.com/campuswell/psychtool/internal/server/httpapi"
	"github.com/campuswell/psychtool/internal/service"
	"github.com/campuswell/psychtool/internal/session"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration from the environment, runs migrations, and
// serves the HTTP API until interrupted.
func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.ListenAddr),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, cfg.DatabaseDSN); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	// DB pool
	pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("pgxpool.New", zap.Error(err))
	}
	defer pool.Close()

	// Repositories
	db := &postgres.DB{Pool: pool}
	userRepo := postgres.NewUserRepo(db)
	testRepo := postgres.NewTestRepo(db)

	lim := limiter.NewPG(pool, 15*time.Minute, 5, 15*time.Minute)

	// Services
	sessions := session.NewManager([]byte(cfg.SessionSecret), session.DefaultTTL)
	oauth := provider.NewClient(cfg)
	authSvc := service.NewAuthService(oauth, userRepo, sessions, lim)
	testSvc := service.NewTestService(testRepo)

	app := httpapi.New(authSvc, testSvc, sessions, media.NewStore(cfg.MediaDir), logger)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: app.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.ListenAddr))
		errCh <- srv.ListenAndServe()
	}()

	// Wait for stop
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("shutdown complete")
}
