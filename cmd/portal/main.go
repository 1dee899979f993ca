package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/noah-isme/school-portal/internal/cli"
	"github.com/noah-isme/school-portal/internal/media"
	"github.com/noah-isme/school-portal/internal/repository"
	"github.com/noah-isme/school-portal/internal/service"
	"github.com/noah-isme/school-portal/pkg/config"
	"github.com/noah-isme/school-portal/pkg/logger"
	"github.com/noah-isme/school-portal/pkg/storage"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("failed to load config: %v", err)
		return cli.ExitFailure
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Printf("failed to init logger: %v", err)
		return cli.ExitFailure
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()
	defer func() {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logr.Sugar().Warnw("metrics textfile not written", "path", cfg.Metrics.Textfile, "error", err)
		}
	}()

	store, err := repository.OpenKVStore(ctx, cfg, metrics.ObserveStoreWrite, logr)
	if err != nil {
		logr.Sugar().Errorw("store unavailable", "driver", cfg.Store.Driver, "error", err)
		return cli.ExitStoreFailure
	}
	repo := repository.NewCollectionRepository(store, cfg.Store.KeyPrefix, logr)
	defer func() {
		if err := repo.Close(); err != nil {
			logr.Sugar().Warnw("store close failed", "error", err)
		}
	}()

	snapshot, err := repo.LoadAll(ctx)
	if err != nil {
		logr.Sugar().Errorw("initial load failed", "error", err)
		return cli.ExitStoreFailure
	}

	capturer, err := media.NewSimulatedCapturer(cfg.Live.Camera, logr)
	if err != nil {
		logr.Sugar().Errorw("invalid camera policy", "error", err)
		return cli.ExitFailure
	}

	exports, err := storage.NewLocalStorage(cfg.Exports.Dir)
	if err != nil {
		logr.Sugar().Errorw("exports directory unavailable", "dir", cfg.Exports.Dir, "error", err)
		return cli.ExitFailure
	}

	portal := service.NewPortal(service.PortalDeps{
		Store:       repo,
		Snapshot:    snapshot,
		Credentials: service.NewCredentialStore(cfg.Credentials),
		IDs:         service.NewIDGenerator(cfg.IDs),
		Capturer:    capturer,
		Exports:     exports,
		Metrics:     metrics,
		Logger:      logr,
		Students:    service.StudentServiceConfig{HashPasswords: cfg.Credentials.PasswordHashing},
	})
	defer portal.Shutdown()

	return cli.Execute(ctx, portal, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}
