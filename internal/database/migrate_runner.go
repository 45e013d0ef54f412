package database

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/RahulLalwani5726/Stream-X/internal/middleware"

	"gorm.io/gorm"
)

// MigrationLog is the ledger row written for each applied migration.
type MigrationLog struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255;not null"`
	AppliedAt time.Time `gorm:"autoCreateTime;index"`
}

func (MigrationLog) TableName() string {
	return "migration_logs"
}

// migrator applies and reverts a migration set against one database,
// recording progress in migration_logs.
type migrator struct {
	db  *gorm.DB
	set migrationSet
}

func newMigrator(db *gorm.DB, set migrationSet) *migrator {
	return &migrator{db: db, set: set}
}

// applied lists recorded versions; a database that was never migrated has none.
func (m *migrator) applied(ctx context.Context) ([]int, error) {
	tx := m.db.WithContext(ctx)
	if !tx.Migrator().HasTable(&MigrationLog{}) {
		return []int{}, nil
	}
	var versions []int
	if err := tx.Model(&MigrationLog{}).Order("version ASC").Pluck("version", &versions).Error; err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	return versions, nil
}

// up applies every pending migration in its own transaction and returns how many ran.
func (m *migrator) up(ctx context.Context) (int, error) {
	if err := m.db.WithContext(ctx).AutoMigrate(&MigrationLog{}); err != nil {
		return 0, fmt.Errorf("ensure migration_logs: %w", err)
	}

	applied, err := m.applied(ctx)
	if err != nil {
		return 0, err
	}
	if unknown := m.set.unknown(applied); len(unknown) > 0 {
		labels := make([]string, len(unknown))
		for i, v := range unknown {
			labels[i] = fmt.Sprintf("%06d", v)
		}
		return 0, fmt.Errorf("migration_logs contains versions this build does not ship: %s", strings.Join(labels, ", "))
	}

	ran := 0
	for _, mig := range m.set.pending(applied) {
		middleware.Logger.Info("Applying migration", slog.String("migration", mig.String()))
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(mig.Up).Error; err != nil {
				return fmt.Errorf("apply %s: %w", mig, err)
			}
			if err := tx.Create(&MigrationLog{Version: mig.Version, Name: mig.Name}).Error; err != nil {
				return fmt.Errorf("record %s: %w", mig, err)
			}
			return nil
		})
		if err != nil {
			return ran, err
		}
		ran++
	}
	return ran, nil
}

// down reverts one applied migration and drops its ledger row atomically.
func (m *migrator) down(ctx context.Context, version int) error {
	mig, ok := m.set.find(version)
	if !ok {
		return fmt.Errorf("migration version %d not found", version)
	}
	applied, err := m.applied(ctx)
	if err != nil {
		return err
	}
	if !slices.Contains(applied, version) {
		return fmt.Errorf("migration %d has not been applied", version)
	}

	middleware.Logger.Info("Rolling back migration", slog.String("migration", mig.String()))
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(mig.Down).Error; err != nil {
			return fmt.Errorf("revert %s: %w", mig, err)
		}
		if err := tx.Where("version = ?", version).Delete(&MigrationLog{}).Error; err != nil {
			return fmt.Errorf("unrecord %s: %w", mig, err)
		}
		return nil
	})
}

// RunMigrations applies the embedded migrations that have not run yet.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	ran, err := newMigrator(db, migrations).up(ctx)
	if err != nil {
		return err
	}
	middleware.Logger.Info("SQL migrations up to date", slog.Int("applied", ran), slog.Int("known", len(migrations)))
	return nil
}

// RollbackMigration reverts one embedded migration by version.
func RollbackMigration(ctx context.Context, db *gorm.DB, version int) error {
	return newMigrator(db, migrations).down(ctx, version)
}
