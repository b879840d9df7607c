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

	"github.com/plantfloor/tally/internal/capability"
	"github.com/plantfloor/tally/internal/config"
	"github.com/plantfloor/tally/internal/domain/allocation"
	"github.com/plantfloor/tally/internal/domain/audit"
	"github.com/plantfloor/tally/internal/domain/classification"
	"github.com/plantfloor/tally/internal/domain/customer"
	"github.com/plantfloor/tally/internal/domain/entry"
	"github.com/plantfloor/tally/internal/domain/plant"
	"github.com/plantfloor/tally/internal/domain/session"
	"github.com/plantfloor/tally/internal/maintenance"
	"github.com/plantfloor/tally/internal/server/handlers"
	"github.com/plantfloor/tally/internal/server/router"
	"github.com/plantfloor/tally/internal/sqlite"
	"github.com/plantfloor/tally/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		logger.Must(logger.New("")).Fatal("loading config", zap.Error(err))
	}

	log := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	db, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		return err
	}

	plantRepo := sqlite.NewPlantRepository(db)
	customerRepo := sqlite.NewCustomerRepository(db)
	classificationRepo := sqlite.NewClassificationRepository(db)
	sessionRepo := sqlite.NewSessionRepository(db)
	allocationRepo := sqlite.NewAllocationRepository(db)
	entryRepo := sqlite.NewEntryRepository(db)
	auditRepo := sqlite.NewAuditRepository(db)

	plants := plant.NewService(plantRepo, logger.Named(log, "plants"))
	customers := customer.NewService(customerRepo, logger.Named(log, "customers"))
	classifications := classification.NewService(classificationRepo, plantRepo, logger.Named(log, "classifications"))
	allocations := allocation.NewService(allocationRepo, entryRepo, logger.Named(log, "allocations"))
	sessions := session.NewService(sessionRepo, customerRepo, plantRepo, allocationRepo, entryRepo,
		cfg.Reconciliation.Threshold, logger.Named(log, "sessions"))
	audits := audit.NewService(auditRepo, logger.Named(log, "audits"))
	entries := entry.NewService(entryRepo, sessionRepo, classificationRepo, allocations, audits,
		logger.Named(log, "entries"))
	workflow := entry.NewWorkflow(sessionRepo, classificationRepo, allocationRepo, entryRepo,
		allocations, allocations, capability.AllowAll, logger.Named(log, "workflow"))

	engine := router.New(router.Handlers{
		Registry:        handlers.NewRegistryHandler(plants, customers, logger.Named(log, "http")),
		Classifications: handlers.NewClassificationHandler(classifications, logger.Named(log, "http")),
		Sessions:        handlers.NewSessionHandler(sessions, logger.Named(log, "http")),
		Allocations:     handlers.NewAllocationHandler(allocations, logger.Named(log, "http")),
		Entries:         handlers.NewEntryHandler(workflow, entries, audits, logger.Named(log, "http")),
	}, log)

	if cfg.Sweep.Enabled {
		sweeper := maintenance.NewSweeper(sessions, allocations, cfg.Sweep.Schedule, logger.Named(log, "sweeper"))
		if err := sweeper.Start(); err != nil {
			return err
		}
		defer sweeper.Stop()
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
