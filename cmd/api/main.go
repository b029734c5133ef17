// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jobtrack/internal/api"
	v1 "jobtrack/internal/api/v1"
	"jobtrack/internal/common/auth"
	"jobtrack/internal/common/config"
	"jobtrack/internal/common/database"
	"jobtrack/internal/common/logger"
	"jobtrack/internal/common/observability"
	"jobtrack/internal/repository/postgres"
	"jobtrack/internal/services/analytics"
	"jobtrack/internal/services/applications"
	"jobtrack/internal/services/companies"
	"jobtrack/internal/services/users"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting jobtrack api...", zap.String("environment", cfg.App.Environment))

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	obs := observability.New("jobtrack-api")
	defer obs.Shutdown()

	ctx := context.Background()

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

	if cfg.Database.Postgres.AutoMigrate {
		applied, err := database.Apply(ctx, pg.DB)
		if err != nil {
			zapLog.Fatal("migrations failed", zap.Error(err))
		}
		zapLog.Info("Migrations applied", zap.Strings("versions", applied))
	}

	// --- Redis ---
	var rdb *database.RedisClient
	err = database.WaitFor(ctx, "Redis connection", 10, func() error {
		var err error
		if rdb == nil {
			if rdb, err = database.NewRedis(cfg.Database.Redis); err != nil {
				return err
			}
		}
		return rdb.Ping(ctx)
	}, zapLog)
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Services ---
	db := postgres.NewDB(pg.DB, log)
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL(), cfg.Auth.Issuer)
	revoker := auth.NewRevoker(rdb.Client)

	userService := users.NewService(db, auth.NewHasher(cfg.Auth.BcryptCost), tokens, revoker, log)
	companyService := companies.NewService(db, log)
	applicationService := applications.NewService(db, applications.ConfigFrom(cfg.Tracker), obs, log)
	dashboardService := analytics.NewService(db, &analytics.Config{
		RecentLimit:   cfg.Tracker.RecentLimit,
		ActivityLimit: cfg.Tracker.ActivityLimit,
	}, obs, log)

	router := api.NewRouter(api.Deps{
		Handlers: api.Handlers{
			Health: v1.NewHealthHandler(map[string]v1.Pinger{
				"postgres": pg,
				"redis":    rdb,
			}),
			Users:        v1.NewUserHandler(userService, log),
			Companies:    v1.NewCompanyHandler(companyService, log),
			Applications: v1.NewApplicationHandler(applicationService, log),
			Dashboard:    v1.NewDashboardHandler(dashboardService, log),
		},
		Tokens:  tokens,
		Revoked: revoker,
		RateLimit: api.RateLimit{
			Enabled:  cfg.RateLimit.Enabled,
			Client:   rdb.Client,
			Requests: cfg.RateLimit.Requests,
			Window:   config.GetDuration(cfg.RateLimit.Window),
		},
		Logger: log,
	})

	srv := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.HTTP.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.HTTP.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.HTTP.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.HTTP.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}

	zapLog.Info("API stopped")
}
