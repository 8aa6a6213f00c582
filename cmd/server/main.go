package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/airfork/uts-dpm-sub000/config"
	"github.com/airfork/uts-dpm-sub000/internal/api/handler"
	"github.com/airfork/uts-dpm-sub000/internal/api/router"
	"github.com/airfork/uts-dpm-sub000/internal/mailer"
	"github.com/airfork/uts-dpm-sub000/internal/repository"
	"github.com/airfork/uts-dpm-sub000/internal/scheduler"
	"github.com/airfork/uts-dpm-sub000/internal/service"
	"github.com/airfork/uts-dpm-sub000/pkg/database"
	"github.com/airfork/uts-dpm-sub000/pkg/jwt"
	"github.com/airfork/uts-dpm-sub000/pkg/logger"
	"github.com/airfork/uts-dpm-sub000/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (default: ./config/config.yaml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zl, err := logger.New(&cfg.Log)
	if err != nil {
		log.Fatalf("building logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	db, err := database.New(&cfg.Database, zl)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("unwrapping database: %w", err)
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, zl); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	rdb, err := redis.NewClient(&cfg.Redis, zl)
	if err != nil {
		zl.Warn("redis unavailable, token revocation and rate limiting disabled", zap.Error(err))
		rdb = nil
	} else {
		defer rdb.Close()
	}

	loc, err := time.LoadLocation(cfg.Autogen.Timezone)
	if err != nil {
		return fmt.Errorf("loading timezone %q: %w", cfg.Autogen.Timezone, err)
	}

	var sender mailer.Sender = mailer.NopSender{}
	if cfg.Mail.Enabled {
		sender = mailer.NewMailgunSender(&cfg.Mail)
	} else {
		zl.Info("mail disabled, notifications will be dropped")
	}
	pool := mailer.NewPool(sender, &cfg.Mail, zl)
	defer pool.Close()

	repo := repository.New(db)

	var provider service.ShiftProvider
	if cfg.Autogen.MockEnabled {
		zl.Warn("----------------------------------------------")
		zl.Warn("MOCK SHIFT PROVIDER ENABLED")
		zl.Warn("autogen will synthesize shifts from the roster")
		zl.Warn("never run this configuration in production")
		zl.Warn("----------------------------------------------")
		provider = service.NewMockShiftProvider(repo, loc, zl)
	} else {
		provider = service.NewW2WShiftProvider(&cfg.Autogen, loc, zl)
	}

	svc := service.NewService(repo, provider, pool, cfg, loc, zl)

	if cfg.DataGen.Enabled {
		if err := svc.DataGen.Seed(context.Background()); err != nil {
			return fmt.Errorf("seeding data: %w", err)
		}
	}

	sched := scheduler.New(zl)
	sched.Register("autogen-submission-cleanup", svc.Autogen.CleanupSubmissions)
	sched.Start()
	defer sched.Stop()

	jwtManager := jwt.NewManager(&cfg.Auth)
	h := handler.New(svc, zl)
	engine := router.New(h, jwtManager, rdb, cfg, zl)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		zl.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	zl.Info("server stopped")
	return nil
}
