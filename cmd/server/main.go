package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/bbag/minedash/internal/auth"
	"github.com/bbag/minedash/internal/config"
	"github.com/bbag/minedash/internal/reconcile"
	"github.com/bbag/minedash/internal/repository"
	"github.com/bbag/minedash/internal/repository/memory"
	"github.com/bbag/minedash/internal/repository/mongodb"
	"github.com/bbag/minedash/internal/repository/sheets"
	"github.com/bbag/minedash/internal/repository/supabase"
	"github.com/bbag/minedash/internal/scheduler"
	"github.com/bbag/minedash/internal/server/handlers"
	"github.com/bbag/minedash/internal/server/router"
	analysissvc "github.com/bbag/minedash/internal/service/analysis"
	employeesvc "github.com/bbag/minedash/internal/service/employees"
	operationssvc "github.com/bbag/minedash/internal/service/operations"
	reportingsvc "github.com/bbag/minedash/internal/service/reporting"
	"github.com/bbag/minedash/pkg/clients/gemini"
	"github.com/bbag/minedash/pkg/clients/whatsapp"
	"github.com/bbag/minedash/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, err := openStore(context.Background(), cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init store", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close store", zap.Error(err))
		}
	}()

	// Interfaces stay nil when Google Sheets is not configured.
	var (
		sheetReader operationssvc.TableReader
		sheetWriter reportingsvc.TableWriter
	)
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sheetReader, sheetWriter = sheetsRepo, sheetsRepo
		baseLogger.Info("google sheets integration enabled")
	} else {
		baseLogger.Warn("google sheets not configured, sheet import/export disabled")
	}

	duplicates, err := reconcile.ParseDuplicatePolicy(cfg.Data.DuplicatePolicy)
	if err != nil {
		baseLogger.Fatal("invalid duplicate policy", zap.Error(err))
	}
	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		baseLogger.Fatal("invalid timezone", zap.Error(err))
	}
	reconciler := reconcile.New(reconcile.Options{
		DefaultTargetM3: cfg.Data.DefaultTargetM3,
		Duplicates:      duplicates,
		Location:        loc,
	})

	if !analysissvc.KeyConfigured(cfg.AI.GeminiKey) {
		baseLogger.Warn("gemini api key missing, ai analysis will report a configuration error")
	}
	aiClient := gemini.NewClient(cfg.AI)

	operationsSvc := operationssvc.NewService(store, reconciler, sheetReader, logger.Named(baseLogger, "svc.operations"))
	employeeSvc := employeesvc.NewService(store, reconciler, sheetReader, logger.Named(baseLogger, "svc.employees"))
	reportingSvc := reportingsvc.NewService(store, cfg.Data.DashboardRows, logger.Named(baseLogger, "svc.reporting"))
	analysisSvc := analysissvc.NewService(aiClient, store, cfg.AI.GeminiKey, logger.Named(baseLogger, "svc.analysis"))
	verifier := auth.NewVerifier(cfg.Admin)

	engine := router.New(router.Handlers{
		Operational: handlers.NewOperationalHandler(operationsSvc, logger.Named(baseLogger, "handlers.operational")),
		Employees:   handlers.NewEmployeeHandler(employeeSvc, logger.Named(baseLogger, "handlers.employees")),
		Dashboard:   handlers.NewDashboardHandler(reportingSvc, logger.Named(baseLogger, "handlers.dashboard")),
		Analysis:    handlers.NewAnalysisHandler(analysisSvc, logger.Named(baseLogger, "handlers.analysis")),
		Admin:       handlers.NewAdminHandler(verifier, logger.Named(baseLogger, "handlers.admin")),
		Transfer:    handlers.NewTransferHandler(reportingSvc, sheetWriter, logger.Named(baseLogger, "handlers.transfer")),
		Settings:    handlers.NewSettingsHandler(store, logger.Named(baseLogger, "handlers.settings")),
	}, verifier, logger.Named(baseLogger, "router"))

	if cfg.Reporting.Enabled {
		var notifier scheduler.Notifier
		if cfg.WhatsApp.Enabled() {
			notifier = whatsapp.NewNotifier(cfg.WhatsApp)
			baseLogger.Info("weekly analysis will be delivered over whatsapp")
		}

		sched, err := scheduler.NewScheduler(cfg.Reporting, analysisSvc, notifier, logger.Named(baseLogger, "scheduler"))
		if err != nil {
			baseLogger.Fatal("failed to init scheduler", zap.Error(err))
		}
		if err := sched.Start(); err != nil {
			baseLogger.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("driver", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg *config.Config, baseLogger *zap.Logger) (repository.Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverMongoDB:
		repo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName, cfg.Storage.UpsertByDate, logger.Named(baseLogger, "repo.mongodb"))
		if err != nil {
			return nil, err
		}
		return repo, nil
	case config.DriverSupabase:
		return supabase.NewSupabaseRepository(cfg.Supabase, cfg.Storage.UpsertByDate, logger.Named(baseLogger, "repo.supabase")), nil
	case config.DriverMemory:
		baseLogger.Warn("using in-memory store, data is lost on restart")
		return memory.NewStore(cfg.Storage.UpsertByDate), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}
