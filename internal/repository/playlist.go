package repository

import (
	"context"
	"strings"

	"github.com/RahulLalwani5726/Stream-X/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlaylistRepository stores playlists and their ordered membership.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist *models.Playlist) error
	GetByID(ctx context.Context, id uint) (*models.Playlist, error)
	Update(ctx context.Context, playlist *models.Playlist) error
	Delete(ctx context.Context, id uint) error
	// ListVisible returns public playlists plus the viewer's own private ones.
	ListVisible(ctx context.Context, viewerID uint, limit, offset int) ([]models.Playlist, error)
	ListByOwner(ctx context.Context, ownerID uint, includePrivate bool) ([]models.Playlist, error)
	Search(ctx context.Context, query string, viewerID uint, limit int) ([]models.Playlist, error)
	// AddVideo appends the video at the end; it reports false when it was already present.
	AddVideo(ctx context.Context, playlistID, videoID uint) (bool, error)
	RemoveVideo(ctx context.Context, playlistID, videoID uint) (bool, error)
	VideoIDs(ctx context.Context, playlistID uint) ([]uint, error)
	DeleteForOwner(ctx context.Context, ownerID uint) error
}

type playlistRepository struct {
	db *gorm.DB
}

func NewPlaylistRepository(db *gorm.DB) PlaylistRepository {
	return &playlistRepository{db: db}
}

func (r *playlistRepository) Create(ctx context.Context, playlist *models.Playlist) error {
	return r.db.WithContext(ctx).Create(playlist).Error
}

func (r *playlistRepository) GetByID(ctx context.Context, id uint) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := r.db.WithContext(ctx).First(&playlist, id).Error; err != nil {
		return nil, notFound(err, "Playlist", id)
	}
	return &playlist, nil
}

func (r *playlistRepository) Update(ctx context.Context, playlist *models.Playlist) error {
	return r.db.WithContext(ctx).
		Model(&models.Playlist{ID: playlist.ID}).
		Select("name", "description", "is_private").
		Updates(playlist).Error
}

func (r *playlistRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", id).Delete(&models.PlaylistVideo{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Playlist{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Playlist", id)
		}
		return nil
	})
}

func (r *playlistRepository) ListVisible(ctx context.Context, viewerID uint, limit, offset int) ([]models.Playlist, error) {
	var playlists []models.Playlist
	err := readDB(r.db).WithContext(ctx).
		Where("is_private = ? OR owner_id = ?", false, viewerID).
		Order("updated_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&playlists).Error
	return playlists, err
}

func (r *playlistRepository) ListByOwner(ctx context.Context, ownerID uint, includePrivate bool) ([]models.Playlist, error) {
	var playlists []models.Playlist
	q := readDB(r.db).WithContext(ctx).Where("owner_id = ?", ownerID)
	if !includePrivate {
		q = q.Where("is_private = ?", false)
	}
	err := q.Order("updated_at DESC, id DESC").Find(&playlists).Error
	return playlists, err
}

func (r *playlistRepository) Search(ctx context.Context, query string, viewerID uint, limit int) ([]models.Playlist, error) {
	var playlists []models.Playlist
	pattern := "%" + strings.ToLower(query) + "%"
	err := readDB(r.db).WithContext(ctx).
		Where("is_private = ? OR owner_id = ?", false, viewerID).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
		Order("updated_at DESC").
		Limit(limit).
		Find(&playlists).Error
	return playlists, err
}

func (r *playlistRepository) AddVideo(ctx context.Context, playlistID, videoID uint) (bool, error) {
	var added bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var next int
		if err := tx.Model(&models.PlaylistVideo{}).
			Select("COALESCE(MAX(position), 0) + 1").
			Where("playlist_id = ?", playlistID).
			Scan(&next).Error; err != nil {
			return err
		}
		entry := models.PlaylistVideo{PlaylistID: playlistID, VideoID: videoID, Position: next}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry)
		if res.Error != nil {
			return res.Error
		}
		added = res.RowsAffected > 0
		if added {
			return tx.Model(&models.Playlist{ID: playlistID}).Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
		}
		return nil
	})
	return added, err
}

func (r *playlistRepository) RemoveVideo(ctx context.Context, playlistID, videoID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Delete(&models.PlaylistVideo{})
	return res.RowsAffected > 0, res.Error
}

func (r *playlistRepository) VideoIDs(ctx context.Context, playlistID uint) ([]uint, error) {
	var ids []uint
	err := readDB(r.db).WithContext(ctx).
		Model(&models.PlaylistVideo{}).
		Where("playlist_id = ?", playlistID).
		Order("position ASC").
		Pluck("video_id", &ids).Error
	return ids, err
}

func (r *playlistRepository) DeleteForOwner(ctx context.Context, ownerID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sub := tx.Model(&models.Playlist{}).Select("id").Where("owner_id = ?", ownerID)
		if err := tx.Where("playlist_id IN (?)", sub).Delete(&models.PlaylistVideo{}).Error; err != nil {
			return err
		}
		return tx.Where("owner_id = ?", ownerID).Delete(&models.Playlist{}).Error
	})
}
