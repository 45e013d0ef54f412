package database

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func channelMigrations() migrationSet {
	return migrationSet{
		{Version: 1, Name: "channels", Up: "CREATE TABLE channels (id INTEGER PRIMARY KEY, handle TEXT)", Down: "DROP TABLE channels"},
		{Version: 2, Name: "channel_handle", Up: "CREATE UNIQUE INDEX idx_channels_handle ON channels (handle)", Down: "DROP INDEX idx_channels_handle"},
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	all := GetMigrations()
	require.GreaterOrEqual(t, len(all), 2)

	for i, m := range all {
		assert.Equal(t, i+1, m.Version, "migrations must be contiguous")
		assert.NotEmpty(t, m.Up)
		assert.NotEmpty(t, m.Down)
	}

	initial, ok := migrations.find(1)
	require.True(t, ok)
	assert.Equal(t, "000001_init_schema", initial.String())
	assert.Contains(t, initial.Up, "idx_likes_user_target")
	_, ok = migrations.find(999)
	assert.False(t, ok)
}

func TestLoadMigrations(t *testing.T) {
	t.Run("orders pairs and skips bad names", func(t *testing.T) {
		fsys := fstest.MapFS{
			"m/000002_likes.up.sql":    {Data: []byte("CREATE TABLE likes (id INTEGER)")},
			"m/000002_likes.down.sql":  {Data: []byte("DROP TABLE likes")},
			"m/000001_users.up.sql":    {Data: []byte("CREATE TABLE users (id INTEGER)")},
			"m/000001_users.down.sql":  {Data: []byte("DROP TABLE users")},
			"m/7_comments.up.sql":      {Data: []byte("CREATE TABLE comments (id INTEGER)")},
			"m/000000_zero.up.sql":     {Data: []byte("SELECT 1")},
			"m/000000_zero.down.sql":   {Data: []byte("SELECT 1")},
			"m/README.md":              {Data: []byte("notes")},
			"m/000003_orphan.down.sql": {Data: []byte("DROP TABLE orphan")},
		}
		set, err := loadMigrations(fsys, "m")
		require.NoError(t, err)
		require.Len(t, set, 2)
		assert.Equal(t, "000001_users", set[0].String())
		assert.Equal(t, "000002_likes", set[1].String())
		assert.Equal(t, "DROP TABLE likes", set[1].Down)
	})

	t.Run("missing down script", func(t *testing.T) {
		fsys := fstest.MapFS{"m/000001_users.up.sql": {Data: []byte("CREATE TABLE users (id INTEGER)")}}
		_, err := loadMigrations(fsys, "m")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no down script")
	})

	t.Run("empty up script", func(t *testing.T) {
		fsys := fstest.MapFS{
			"m/000001_users.up.sql":   {Data: []byte("  \n")},
			"m/000001_users.down.sql": {Data: []byte("DROP TABLE users")},
		}
		_, err := loadMigrations(fsys, "m")
		assert.Error(t, err)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := loadMigrations(fstest.MapFS{}, "m")
		assert.Error(t, err)
	})
}

func TestMigrationSet_PendingAndUnknown(t *testing.T) {
	set := channelMigrations()

	assert.Len(t, set.pending(nil), 2)
	pending := set.pending([]int{1})
	require.Len(t, pending, 1)
	assert.Equal(t, 2, pending[0].Version)
	assert.Empty(t, set.pending([]int{1, 2}))

	assert.Empty(t, set.unknown([]int{1, 2}))
	assert.Equal(t, []int{3, 7}, set.unknown([]int{7, 1, 3}))
}

func TestMigrator_UpAndDown(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	m := newMigrator(db, channelMigrations())

	applied, err := m.applied(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied, "no ledger table yet")

	ran, err := m.up(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, ran)
	assert.True(t, db.Migrator().HasTable("channels"))
	assert.True(t, db.Migrator().HasIndex("channels", "idx_channels_handle"))

	ran, err = m.up(ctx)
	require.NoError(t, err)
	assert.Zero(t, ran, "second run is a no-op")

	applied, err = m.applied(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, applied)

	require.NoError(t, m.down(ctx, 2))
	assert.False(t, db.Migrator().HasIndex("channels", "idx_channels_handle"))
	applied, err = m.applied(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, applied)

	err = m.down(ctx, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has not been applied")

	err = m.down(ctx, 9)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMigrator_FailedMigrationIsNotRecorded(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	set := append(channelMigrations(), Migration{Version: 3, Name: "broken", Up: "CREATE TABLE", Down: "SELECT 1"})
	m := newMigrator(db, set)

	ran, err := m.up(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000003_broken")
	assert.Equal(t, 2, ran)

	applied, err := m.applied(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, applied)
}

func TestMigrator_RefusesUnknownLedgerVersions(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	require.NoError(t, db.AutoMigrate(&MigrationLog{}))
	require.NoError(t, db.Create(&MigrationLog{Version: 7, Name: "from_a_newer_build"}).Error)

	_, err := newMigrator(db, channelMigrations()).up(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000007")
	assert.False(t, db.Migrator().HasTable("channels"))
}
