package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	"github.com/BruksfildServices01/salon-manager/internal/config"
	dbpkg "github.com/BruksfildServices01/salon-manager/internal/db"
	domain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-manager/internal/export"
	infraRepo "github.com/BruksfildServices01/salon-manager/internal/infra/repository"
	"github.com/BruksfildServices01/salon-manager/internal/logger"
	"github.com/BruksfildServices01/salon-manager/internal/metrics"
	"github.com/BruksfildServices01/salon-manager/internal/routes"
	"github.com/BruksfildServices01/salon-manager/internal/timezone"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	now := timezone.Clock(cfg.App.Timezone)
	collector := metrics.NewCollector("salon")

	// ======================================================
	// STORE
	// ======================================================
	var (
		db   *gorm.DB
		repo domain.Repository
	)
	switch cfg.Database.Store {
	case config.StoreMemory:
		mem := infraRepo.NewAppointmentMemoryRepository(now)
		mem.Seed()
		repo = mem
		zl.Warn("using in-memory store; data is lost on restart")
	default:
		var err error
		if db, err = dbpkg.NewDB(cfg.Database, cfg.App.Environment); err != nil {
			return err
		}
		if err := dbpkg.Migrate(db); err != nil {
			return err
		}
		if err := dbpkg.BootstrapAdmin(ctx, db, cfg.Admin, zl); err != nil {
			return err
		}
		repo = infraRepo.NewAppointmentGormRepository(db)
	}

	// ======================================================
	// AUDIT
	// ======================================================
	var writer audit.Writer = audit.NewLogWriter(zl)
	if db != nil {
		writer = audit.NewGormWriter(db)
	}
	dispatcher := audit.NewDispatcher(writer, zl, 256, audit.Hooks{
		OnWritten: collector.AuditEntriesTotal.Inc,
		OnDropped: collector.AuditBufferDropped.Inc,
	})

	// ======================================================
	// OPTIONAL INTEGRATIONS
	// ======================================================
	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			zl.Warn("redis unreachable at startup", zap.Error(err))
		}
	}

	var uploader export.Uploader
	if cfg.S3.Enabled() {
		uploader = export.NewS3Uploader(cfg.S3)
	}

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	if err := routes.RegisterRoutes(r, routes.Deps{
		Config:   cfg,
		Log:      zl,
		Metrics:  collector,
		Audit:    dispatcher,
		Repo:     repo,
		DB:       db,
		Redis:    rdb,
		Uploader: uploader,
		Now:      now,
	}); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server running",
			zap.String("addr", srv.Addr),
			zap.String("store", cfg.Database.Store),
			zap.String("timezone", cfg.App.Timezone),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("http shutdown", zap.Error(err))
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		zl.Error("audit drain", zap.Error(err))
	}
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return nil
}
