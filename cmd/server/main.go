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

	"github.com/mamadbah2/fishfarm/internal/config"
	"github.com/mamadbah2/fishfarm/internal/repository/memory"
	"github.com/mamadbah2/fishfarm/internal/repository/mongodb"
	"github.com/mamadbah2/fishfarm/internal/repository/sheets"
	"github.com/mamadbah2/fishfarm/internal/scheduler"
	"github.com/mamadbah2/fishfarm/internal/server/handlers"
	"github.com/mamadbah2/fishfarm/internal/server/router"
	authsvc "github.com/mamadbah2/fishfarm/internal/service/auth"
	notifysvc "github.com/mamadbah2/fishfarm/internal/service/notify"
	planningsvc "github.com/mamadbah2/fishfarm/internal/service/planning"
	recordssvc "github.com/mamadbah2/fishfarm/internal/service/records"
	whatsappclient "github.com/mamadbah2/fishfarm/pkg/clients/whatsapp"
	"github.com/mamadbah2/fishfarm/pkg/logger"
)

// store is everything the services need from the persistence layer.
type store interface {
	authsvc.UserStore
	recordssvc.Store
	planningsvc.Store
	scheduler.OwnerLister
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Logging.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	st, closeStore := openStore(cfg, baseLogger)
	defer closeStore()

	var exporter *sheets.Exporter
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		exporter = sheets.NewExporter(sheetsRepo, logger.Named(baseLogger, "repo.sheets"))
		baseLogger.Info("google sheets export enabled")
	} else {
		baseLogger.Warn("google sheets not configured, export disabled")
	}

	authService := authsvc.NewService(st, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, logger.Named(baseLogger, "svc.auth"))
	var recordsService *recordssvc.Service
	var planningService *planningsvc.Service
	if exporter != nil {
		recordsService = recordssvc.NewService(st, exporter, logger.Named(baseLogger, "svc.records"))
		planningService = planningsvc.NewService(st, exporter, cfg.Advisory.FeedPricePerKg, logger.Named(baseLogger, "svc.planning"))
	} else {
		recordsService = recordssvc.NewService(st, nil, logger.Named(baseLogger, "svc.records"))
		planningService = planningsvc.NewService(st, nil, cfg.Advisory.FeedPricePerKg, logger.Named(baseLogger, "svc.planning"))
	}

	var notifier notifysvc.Notifier
	if cfg.WhatsApp.Enabled() {
		notifier = notifysvc.NewWhatsAppNotifier(whatsappclient.NewClient(cfg.WhatsApp), logger.Named(baseLogger, "svc.notify"))
		baseLogger.Info("whatsapp digests enabled")
	} else {
		notifier = notifysvc.NewLogNotifier(logger.Named(baseLogger, "svc.notify"))
		baseLogger.Warn("whatsapp not configured, digests will only be logged")
	}

	sched, err := scheduler.NewScheduler(cfg.Reporting, st, planningService, notifier, logger.Named(baseLogger, "scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	loc, _ := time.LoadLocation(cfg.Reporting.Timezone)
	engine := router.New(router.Handlers{
		Auth:     handlers.NewAuthHandler(authService, logger.Named(baseLogger, "handlers.auth")),
		Records:  handlers.NewRecordsHandler(recordsService, logger.Named(baseLogger, "handlers.records")),
		Advisory: handlers.NewAdvisoryHandler(planningService, cfg.Advisory.FeedPricePerKg, loc, logger.Named(baseLogger, "handlers.advisory")),
	}, authService, logger.Named(baseLogger, "router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("storage", cfg.Storage.Driver))
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

func openStore(cfg *config.Config, log *zap.Logger) (store, func()) {
	if cfg.Storage.Driver == config.StorageMemory {
		log.Warn("using in-memory storage, data is lost on restart")
		return memory.New(), func() {}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	repo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName, logger.Named(log, "repo.mongodb"))
	if err != nil {
		log.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatal("failed to create mongodb indexes", zap.Error(err))
	}

	return repo, func() {
		if err := repo.Close(context.Background()); err != nil {
			log.Error("failed to close mongodb connection", zap.Error(err))
		}
	}
}
