// Command migrate applies, inspects and rolls back the Stream-X schema.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/RahulLalwani5726/Stream-X/internal/config"
	"github.com/RahulLalwani5726/Stream-X/internal/database"
	"github.com/RahulLalwani5726/Stream-X/internal/docstore"
	"github.com/RahulLalwani5726/Stream-X/internal/middleware"
)

func main() {
	if err := run(); err != nil {
		middleware.Logger.Error("migrate failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func usage() error {
	return fmt.Errorf("usage: migrate <up|auto|status|down|mongo> [version]")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cmd := strings.ToLower(strings.TrimSpace(flag.Arg(0)))
	if cmd == "mongo" {
		return ensureDocumentIndexes(ctx, cfg)
	}

	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	switch cmd {
	case "up":
		if err := database.RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
		middleware.Logger.Info("sql migrations applied")
	case "auto":
		cfg.DBSchemaMode = string(database.SchemaModeAuto)
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			return fmt.Errorf("auto schema apply failed: %w", err)
		}
		middleware.Logger.Info("automigrations applied")
	case "status":
		status, err := database.GetSchemaStatus(ctx, db, cfg)
		if err != nil {
			return fmt.Errorf("schema status failed: %w", err)
		}
		middleware.Logger.Info("schema status",
			slog.String("mode", string(status.Mode)),
			slog.String("env", status.Environment),
			slog.Bool("run_sql", status.WillRunSQL),
			slog.Bool("run_auto", status.WillRunAutoMigrate),
			slog.Int("applied", len(status.AppliedVersions)),
			slog.Int("pending", len(status.PendingMigrations)),
			slog.Bool("ready", status.Ready()),
		)
		for _, m := range status.PendingMigrations {
			middleware.Logger.Info("pending migration", slog.String("migration", m.String()))
		}
		for _, table := range status.MissingTables() {
			middleware.Logger.Warn("missing table", slog.String("table", table))
		}
	case "down":
		if flag.NArg() < 2 {
			return fmt.Errorf("usage: migrate down <version>")
		}
		version, err := strconv.Atoi(flag.Arg(1))
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", flag.Arg(1), err)
		}
		if err := database.RollbackMigration(ctx, db, version); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		middleware.Logger.Info("rolled back migration", slog.Int("version", version))
	default:
		return usage()
	}

	return nil
}

// ensureDocumentIndexes connects to the comment document store, which builds its indexes on open.
func ensureDocumentIndexes(ctx context.Context, cfg *config.Config) error {
	if cfg.StoreDriver != config.StoreDriverMongo {
		return fmt.Errorf("STORE_DRIVER is %q, not %q", cfg.StoreDriver, config.StoreDriverMongo)
	}
	docs, err := docstore.New(ctx, docstore.Config{URI: cfg.MongoURI, DBName: cfg.MongoDB})
	if err != nil {
		return fmt.Errorf("connect document store: %w", err)
	}
	defer func() { _ = docs.Close(ctx) }()
	middleware.Logger.Info("document store indexes ensured", slog.String("db", cfg.MongoDB))
	return nil
}
