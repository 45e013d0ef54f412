package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/RahulLalwani5726/Stream-X/internal/config"
	"github.com/RahulLalwani5726/Stream-X/internal/middleware"

	"gorm.io/gorm"
)

// SchemaMode selects how the Stream-X tables are brought up to date at startup.
type SchemaMode string

const (
	// SchemaModeHybrid runs the SQL migrations, then AutoMigrate outside production-like environments.
	SchemaModeHybrid SchemaMode = "hybrid"
	SchemaModeSQL    SchemaMode = "sql"
	SchemaModeAuto   SchemaMode = "auto"
)

// TableState reports whether one schema-managed table exists.
type TableState struct {
	Name    string
	Present bool
}

// SchemaStatus is what `migrate status` prints.
type SchemaStatus struct {
	Mode               SchemaMode
	Environment        string
	WillRunSQL         bool
	WillRunAutoMigrate bool
	AppliedVersions    []int
	PendingMigrations  []Migration
	Tables             []TableState
}

// MissingTables lists the model tables that do not exist yet.
func (s *SchemaStatus) MissingTables() []string {
	var missing []string
	for _, t := range s.Tables {
		if !t.Present {
			missing = append(missing, t.Name)
		}
	}
	return missing
}

// Ready is true once every model table exists and, when the SQL
// migrations are in play, none of them is pending.
func (s *SchemaStatus) Ready() bool {
	if len(s.MissingTables()) > 0 {
		return false
	}
	return !s.WillRunSQL || len(s.PendingMigrations) == 0
}

type schemaPlan struct {
	mode SchemaMode
	sql  bool
	auto bool
}

func isProdLikeEnv(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "production", "prod", "staging", "stage":
		return true
	}
	return false
}

// planSchema turns DB_SCHEMA_MODE and APP_ENV into the steps ApplySchema will take.
func planSchema(cfg *config.Config) (schemaPlan, error) {
	mode := SchemaMode(strings.ToLower(strings.TrimSpace(cfg.DBSchemaMode)))
	if mode == "" {
		mode = SchemaModeHybrid
	}

	plan := schemaPlan{mode: mode}
	switch mode {
	case SchemaModeSQL:
		plan.sql = true
	case SchemaModeAuto:
		if isProdLikeEnv(cfg.Env) && !cfg.DBAutoMigrateAllowDestructive {
			return plan, fmt.Errorf("refusing DB_SCHEMA_MODE=auto in %q without DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE=true", cfg.Env)
		}
		plan.auto = true
	case SchemaModeHybrid:
		plan.sql = true
		plan.auto = !isProdLikeEnv(cfg.Env)
	default:
		return plan, fmt.Errorf("unsupported DB_SCHEMA_MODE %q", mode)
	}
	return plan, nil
}

// modelTables resolves the table name of every model in PersistentModels.
func modelTables(db *gorm.DB) ([]string, error) {
	models := PersistentModels()
	names := make([]string, 0, len(models))
	for _, model := range models {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("resolve table for %T: %w", model, err)
		}
		names = append(names, stmt.Schema.Table)
	}
	return names, nil
}

func inspectTables(ctx context.Context, db *gorm.DB) ([]TableState, error) {
	names, err := modelTables(db)
	if err != nil {
		return nil, err
	}
	m := db.WithContext(ctx).Migrator()
	states := make([]TableState, 0, len(names))
	for _, name := range names {
		states = append(states, TableState{Name: name, Present: m.HasTable(name)})
	}
	return states, nil
}

// ApplySchema migrates the database according to the configured mode and
// fails if any model table is still missing afterwards.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	plan, err := planSchema(cfg)
	if err != nil {
		return err
	}

	if plan.sql {
		if err := RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("run sql migrations: %w", err)
		}
	}

	if plan.auto {
		if plan.mode == SchemaModeAuto && cfg.DBAutoMigrateAllowDestructive {
			middleware.Logger.Warn("DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE=true set for DB_SCHEMA_MODE=auto; review schema diffs before production deployment")
		}
		middleware.Logger.Info("Running GORM AutoMigrate",
			slog.String("mode", string(plan.mode)),
			slog.String("env", cfg.Env),
			slog.Int("models", len(PersistentModels())),
		)
		if err := db.WithContext(ctx).AutoMigrate(PersistentModels()...); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
	}

	tables, err := inspectTables(ctx, db)
	if err != nil {
		return err
	}
	status := SchemaStatus{Tables: tables}
	if missing := status.MissingTables(); len(missing) > 0 {
		return fmt.Errorf("schema incomplete after %s apply, missing tables: %s", plan.mode, strings.Join(missing, ", "))
	}
	return nil
}

// GetSchemaStatus reports the plan for cfg along with the migration ledger and table inventory.
func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	plan, err := planSchema(cfg)
	if err != nil {
		return nil, err
	}

	applied, err := newMigrator(db, migrations).applied(ctx)
	if err != nil {
		return nil, err
	}
	tables, err := inspectTables(ctx, db)
	if err != nil {
		return nil, err
	}

	return &SchemaStatus{
		Mode:               plan.mode,
		Environment:        cfg.Env,
		WillRunSQL:         plan.sql,
		WillRunAutoMigrate: plan.auto,
		AppliedVersions:    applied,
		PendingMigrations:  migrations.pending(applied),
		Tables:             tables,
	}, nil
}
