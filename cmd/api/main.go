package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/field-scheduler/internal/audit"
	"github.com/BruksfildServices01/field-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/field-scheduler/internal/db"
	domain "github.com/BruksfildServices01/field-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/field-scheduler/internal/events"
	"github.com/BruksfildServices01/field-scheduler/internal/infra/archive"
	"github.com/BruksfildServices01/field-scheduler/internal/infra/geocode"
	"github.com/BruksfildServices01/field-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/field-scheduler/internal/logger"
	"github.com/BruksfildServices01/field-scheduler/internal/metrics"
	"github.com/BruksfildServices01/field-scheduler/internal/routes"
	"github.com/BruksfildServices01/field-scheduler/internal/usecase/optimization"
)

func main() {
	cfg, err := config.Load(os.Getenv("FSS_CONFIG_FILE"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	zlog.Info("starting field scheduler",
		zap.Int("port", cfg.Server.Port),
		zap.String("timezone", cfg.Scheduling.Timezone),
	)

	db, err := dbpkg.NewDB(cfg, zlog)
	if err != nil {
		zlog.Fatal("database setup failed", zap.Error(err))
	}

	// ======================================================
	// Resource locks and live events: Redis when configured,
	// in-process otherwise
	// ======================================================
	var (
		locker domain.ResourceLocker = lock.NewLocalLocker()
		broker events.Broker         = events.NewMemoryBroker()
		rdb    *redis.Client
	)
	if cfg.Redis.Addr != "" {
		rdb, err = lock.NewRedisClient(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			zlog.Warn("redis unavailable, using in-process resource locks", zap.Error(err))
		} else {
			locker = lock.NewRedisLocker(rdb, cfg.Scheduling.LockTTL, cfg.Scheduling.LockWait, zlog)
			broker = events.NewRedisBroker(rdb, zlog)
		}
	}

	var archiver optimization.Archiver
	if cfg.Archive.Bucket != "" {
		archiver = archive.NewS3Archiver(archive.NewS3Client(cfg.Archive), cfg.Archive.Bucket, cfg.Archive.Prefix)
	}

	dispatcher := audit.NewDispatcher(audit.New(db), zlog, events.NewAuditPublisher(broker))

	// ======================================================
	// HTTP
	// ======================================================
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	if err := routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Log:      zlog,
		Audit:    dispatcher,
		Locker:   locker,
		Lookup:   geocode.NewCachedLookup(geocode.NewPostalCodeLookup(), cfg.Scheduling.GeocodeCacheTTL),
		Archiver: archiver,
		Events:   broker,
	}); err != nil {
		zlog.Fatal("route setup failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zlog.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	zlog.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("http shutdown failed", zap.Error(err))
	}
	if err := dispatcher.Close(ctx); err != nil {
		zlog.Warn("audit queue not drained", zap.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
