package database

import (
	"testing"

	"github.com/RahulLalwani5726/Stream-X/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestPersistentModels_IncludesThreadTables(t *testing.T) {
	var hasComment, hasLike bool
	for _, model := range PersistentModels() {
		switch model.(type) {
		case *models.Comment:
			hasComment = true
		case *models.Like:
			hasLike = true
		}
	}
	assert.True(t, hasComment, "PersistentModels should include Comment")
	assert.True(t, hasLike, "PersistentModels should include Like")
}

func TestPersistentModels_AutoMigrateCreatesLikeUniqueIndex(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(PersistentModels()...))

	assert.True(t, db.Migrator().HasIndex(&models.Like{}, "idx_likes_user_target"))
	assert.True(t, db.Migrator().HasIndex(&models.Comment{}, "idx_comments_target"))
	assert.False(t, db.Migrator().HasColumn(&models.Video{}, "views"), "computed columns must not be migrated")

	like := models.Like{UserID: 1, TargetKind: models.TargetComment, TargetID: 9}
	require.NoError(t, db.Create(&like).Error)
	dup := models.Like{UserID: 1, TargetKind: models.TargetComment, TargetID: 9}
	assert.Error(t, db.Create(&dup).Error)
}
