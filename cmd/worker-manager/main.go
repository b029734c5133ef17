// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	v1 "jobtrack/internal/api/v1"
	"jobtrack/internal/common/camunda"
	"jobtrack/internal/common/config"
	"jobtrack/internal/common/database"
	"jobtrack/internal/common/logger"
	"jobtrack/internal/common/observability"
	"jobtrack/internal/repository/postgres"
	"jobtrack/internal/services/analytics"
	"jobtrack/internal/services/applications"
	"jobtrack/pkg/registry"

	bds "jobtrack/internal/workers/analytics/build-dashboard-summary"
	car "jobtrack/internal/workers/application/create-application-record"
	uas "jobtrack/internal/workers/application/update-application-status"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	if !cfg.Camunda.Enabled {
		zapLog.Fatal("camunda is disabled; set camunda.enabled to run workers")
	}

	obs := observability.New("jobtrack-worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	reg, err := registry.LoadRegistry(cfg.Camunda.RegistryPath)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err))
	}

	// --- Zeebe ---
	var zeebe *camunda.Client
	err = database.WaitFor(ctx, "Zeebe client initialization", 10, func() error {
		var err error
		zeebe, err = camunda.NewClient(camunda.ConfigFrom(cfg.Camunda))
		return err
	}, zapLog)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()

	topology, err := zeebe.ExecuteWithRetry(ctx, func(ctx context.Context) (interface{}, error) {
		return zeebe.GetClient().NewTopologyCommand().Send(ctx)
	}, "topology")
	if err != nil {
		zapLog.Fatal("zeebe topology failed", zap.Error(err))
	}
	if t, ok := topology.(*pb.TopologyResponse); ok {
		zapLog.Info("Zeebe client connected successfully",
			zap.Int("brokers", len(t.Brokers)),
			zap.Int32("partitions", t.PartitionsCount),
		)
	}

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = database.WaitFor(ctx, "PostgreSQL connection", 15, func() error {
		var err error
		if pg == nil {
			if pg, err = database.NewPostgres(cfg.Database.Postgres); err != nil {
				return err
			}
		}
		return pg.Ping(ctx)
	}, zapLog)
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	db := postgres.NewDB(pg.DB, log)
	applicationService := applications.NewService(db, applications.ConfigFrom(cfg.Tracker), obs, log)
	dashboardService := analytics.NewService(db, &analytics.Config{
		RecentLimit:   cfg.Tracker.RecentLimit,
		ActivityLimit: cfg.Tracker.ActivityLimit,
	}, obs, log)

	// --- Workers ---
	var workers []*camunda.Worker

	if wc := config.GetWorkerConfig(cfg, car.TaskType); wc.Enabled {
		handler := car.NewHandler(car.LoadConfig(reg, wc), applicationService, log)
		workers = append(workers, camunda.StartWorker(zeebe.GetClient(), car.TaskType, wc, handler.Handle, zapLog))
	} else {
		zapLog.Info("worker disabled", zap.String("taskType", car.TaskType))
	}

	if wc := config.GetWorkerConfig(cfg, uas.TaskType); wc.Enabled {
		handler := uas.NewHandler(uas.LoadConfig(reg, wc), applicationService, log)
		workers = append(workers, camunda.StartWorker(zeebe.GetClient(), uas.TaskType, wc, handler.Handle, zapLog))
	} else {
		zapLog.Info("worker disabled", zap.String("taskType", uas.TaskType))
	}

	if wc := config.GetWorkerConfig(cfg, bds.TaskType); wc.Enabled {
		handler := bds.NewHandler(bds.LoadConfig(reg, wc), dashboardService, log)
		workers = append(workers, camunda.StartWorker(zeebe.GetClient(), bds.TaskType, wc, handler.Handle, zapLog))
	} else {
		zapLog.Info("worker disabled", zap.String("taskType", bds.TaskType))
	}

	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	health := v1.NewHealthHandler(map[string]v1.Pinger{
		"postgres": pg,
		"zeebe":    pingFunc(zeebe.HealthCheck),
	})
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/health", health.Health)
	router.GET("/ready", health.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{Addr: cfg.HTTP.Address, Handler: router}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.HTTP.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	for _, w := range workers {
		w.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Health/Metrics server shutdown failed", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped")
}
