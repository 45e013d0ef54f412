package database

import (
	"context"
	"testing"

	"github.com/RahulLalwani5726/Stream-X/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestPlanSchema(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.Config
		wantMode    SchemaMode
		wantSQL     bool
		wantAuto    bool
		expectError bool
	}{
		{name: "hybrid default in development", cfg: config.Config{Env: "development"}, wantMode: SchemaModeHybrid, wantSQL: true, wantAuto: true},
		{name: "hybrid in production skips automigrate", cfg: config.Config{Env: "production", DBSchemaMode: "hybrid"}, wantMode: SchemaModeHybrid, wantSQL: true},
		{name: "sql only", cfg: config.Config{Env: "development", DBSchemaMode: " SQL "}, wantMode: SchemaModeSQL, wantSQL: true},
		{name: "auto in development", cfg: config.Config{Env: "development", DBSchemaMode: "auto"}, wantMode: SchemaModeAuto, wantAuto: true},
		{name: "auto in staging refused", cfg: config.Config{Env: "staging", DBSchemaMode: "auto"}, expectError: true},
		{name: "auto in production with override", cfg: config.Config{Env: "prod", DBSchemaMode: "auto", DBAutoMigrateAllowDestructive: true}, wantMode: SchemaModeAuto, wantAuto: true},
		{name: "unknown mode", cfg: config.Config{DBSchemaMode: "yolo"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := planSchema(&tt.cfg)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMode, plan.mode)
			assert.Equal(t, tt.wantSQL, plan.sql)
			assert.Equal(t, tt.wantAuto, plan.auto)
		})
	}
}

func TestModelTables(t *testing.T) {
	names, err := modelTables(openSQLite(t))
	require.NoError(t, err)
	assert.Len(t, names, len(PersistentModels()))
	assert.Contains(t, names, "comments")
	assert.Contains(t, names, "likes")
	assert.Contains(t, names, "watch_history")
}

func TestSchemaStatus_TracksStreamTables(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	cfg := &config.Config{Env: "development", DBSchemaMode: "auto"}

	before, err := GetSchemaStatus(ctx, db, cfg)
	require.NoError(t, err)
	assert.Equal(t, SchemaModeAuto, before.Mode)
	assert.False(t, before.WillRunSQL)
	assert.True(t, before.WillRunAutoMigrate)
	assert.False(t, before.Ready())
	assert.Len(t, before.MissingTables(), len(PersistentModels()))
	assert.Empty(t, before.AppliedVersions)
	assert.Len(t, before.PendingMigrations, len(GetMigrations()), "nothing recorded in migration_logs yet")

	require.NoError(t, ApplySchema(ctx, db, cfg))

	after, err := GetSchemaStatus(ctx, db, cfg)
	require.NoError(t, err)
	assert.Empty(t, after.MissingTables())
	assert.True(t, after.Ready(), "auto mode does not wait on SQL migrations")
	for _, table := range after.Tables {
		assert.True(t, table.Present, table.Name)
	}
}

func TestSchemaStatus_MissingTables(t *testing.T) {
	status := SchemaStatus{WillRunSQL: true, Tables: []TableState{
		{Name: "users", Present: true},
		{Name: "comments"},
		{Name: "likes"},
	}}
	assert.Equal(t, []string{"comments", "likes"}, status.MissingTables())
	assert.False(t, status.Ready())

	status.Tables[1].Present, status.Tables[2].Present = true, true
	assert.True(t, status.Ready())

	status.PendingMigrations = []Migration{{Version: 3, Name: "later"}}
	assert.False(t, status.Ready())

	status.WillRunSQL = false
	assert.True(t, status.Ready())
}

func TestApplySchema_RejectsUnknownMode(t *testing.T) {
	err := ApplySchema(context.Background(), openSQLite(t), &config.Config{DBSchemaMode: "yolo"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "yolo")
}
