// cmd/tools/migrate/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"jobtrack/internal/common/config"
	"jobtrack/internal/common/database"
	"jobtrack/internal/common/logger"
)

func main() {
	configPath := flag.String("config", "", "Config file (defaults to configs/config.yaml)")
	dryRun := flag.Bool("dry-run", false, "Print the embedded migrations instead of applying them")
	flag.Parse()

	if *dryRun {
		migrations, err := database.Migrations()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		for _, m := range migrations {
			fmt.Printf("-- %s\n%s\n", m.Version, m.SQL)
		}
		return
	}

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, "console")
	defer zapLog.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var pg *database.PostgresClient
	err = database.WaitFor(ctx, "PostgreSQL connection", 5, func() error {
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

	applied, err := database.Apply(ctx, pg.DB)
	if err != nil {
		zapLog.Fatal("migration failed", zap.Error(err), zap.Strings("applied", applied))
	}
	if len(applied) == 0 {
		zapLog.Info("Schema is up to date")
		return
	}
	zapLog.Info("Migrations applied", zap.Strings("versions", applied))
}
