package service

import (
	"context"
	"strings"

	"github.com/RahulLalwani5726/Stream-X/internal/models"
	"github.com/RahulLalwani5726/Stream-X/internal/repository"
)

type PlaylistService struct {
	playlistRepo repository.PlaylistRepository
	videoRepo    repository.VideoRepository
	userRepo     repository.UserRepository
}

type CreatePlaylistInput struct {
	OwnerID     uint
	Name        string
	Description string
	IsPrivate   bool
}

type EditPlaylistInput struct {
	UserID      uint
	PlaylistID  uint
	Name        *string
	Description *string
	IsPrivate   *bool
}

type PlaylistVideoInput struct {
	UserID     uint
	PlaylistID uint
	VideoID    uint
}

func NewPlaylistService(
	playlistRepo repository.PlaylistRepository,
	videoRepo repository.VideoRepository,
	userRepo repository.UserRepository,
) *PlaylistService {
	return &PlaylistService{playlistRepo: playlistRepo, videoRepo: videoRepo, userRepo: userRepo}
}

func (s *PlaylistService) Create(ctx context.Context, in CreatePlaylistInput) (*models.Playlist, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, models.NewValidationError("Playlist name is required")
	}
	if len(name) > 255 {
		return nil, models.NewValidationError("Playlist name too long (max 255 characters)")
	}
	playlist := &models.Playlist{
		OwnerID:     in.OwnerID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		IsPrivate:   in.IsPrivate,
		Videos:      []models.Video{},
	}
	if err := s.playlistRepo.Create(ctx, playlist); err != nil {
		return nil, err
	}
	return playlist, nil
}

// ListVisible returns public playlists and the viewer's own.
func (s *PlaylistService) ListVisible(ctx context.Context, viewerID uint, limit, offset int) ([]models.Playlist, error) {
	limit, offset = clampPage(limit, offset)
	return s.playlistRepo.ListVisible(ctx, viewerID, limit, offset)
}

// ListByOwner hides private playlists from everyone but their owner.
func (s *PlaylistService) ListByOwner(ctx context.Context, ownerID, viewerID uint) ([]models.Playlist, error) {
	return s.playlistRepo.ListByOwner(ctx, ownerID, ownerID == viewerID)
}

// View returns the playlist with its videos in position order.
func (s *PlaylistService) View(ctx context.Context, playlistID, viewerID uint) (*models.Playlist, error) {
	playlist, err := s.playlistRepo.GetByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if playlist.IsPrivate && playlist.OwnerID != viewerID {
		return nil, models.NewNotFoundError("Playlist", playlistID)
	}

	ids, err := s.playlistRepo.VideoIDs(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	playlist.Videos = []models.Video{}
	if len(ids) == 0 {
		return playlist, nil
	}
	videos, err := s.videoRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Video, len(videos))
	for _, v := range videos {
		byID[v.ID] = v
	}
	owners := ownersOf(ctx, s.userRepo, ownerIDs(videos, func(v *models.Video) uint { return v.OwnerID }))
	for _, id := range ids {
		v, ok := byID[id]
		if !ok || (!v.IsPublished && v.OwnerID != viewerID) {
			continue
		}
		v.Owner = ownerOrUnknown(owners, v.OwnerID)
		playlist.Videos = append(playlist.Videos, v)
	}
	return playlist, nil
}

func (s *PlaylistService) Edit(ctx context.Context, in EditPlaylistInput) (*models.Playlist, error) {
	playlist, err := s.owned(ctx, in.PlaylistID, in.UserID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, models.NewValidationError("Playlist name is required")
		}
		playlist.Name = name
	}
	if in.Description != nil {
		playlist.Description = strings.TrimSpace(*in.Description)
	}
	if in.IsPrivate != nil {
		playlist.IsPrivate = *in.IsPrivate
	}
	if err := s.playlistRepo.Update(ctx, playlist); err != nil {
		return nil, err
	}
	return playlist, nil
}

func (s *PlaylistService) Delete(ctx context.Context, playlistID, userID uint) error {
	if _, err := s.owned(ctx, playlistID, userID); err != nil {
		return err
	}
	return s.playlistRepo.Delete(ctx, playlistID)
}

// AddVideo appends a published (or own) video. Adding it twice is a no-op.
func (s *PlaylistService) AddVideo(ctx context.Context, in PlaylistVideoInput) (bool, error) {
	if _, err := s.owned(ctx, in.PlaylistID, in.UserID); err != nil {
		return false, err
	}
	video, err := s.videoRepo.GetByID(ctx, in.VideoID)
	if err != nil {
		return false, err
	}
	if !video.IsPublished && video.OwnerID != in.UserID {
		return false, models.NewNotFoundError("Video", in.VideoID)
	}
	return s.playlistRepo.AddVideo(ctx, in.PlaylistID, in.VideoID)
}

func (s *PlaylistService) RemoveVideo(ctx context.Context, in PlaylistVideoInput) error {
	if _, err := s.owned(ctx, in.PlaylistID, in.UserID); err != nil {
		return err
	}
	removed, err := s.playlistRepo.RemoveVideo(ctx, in.PlaylistID, in.VideoID)
	if err != nil {
		return err
	}
	if !removed {
		return models.NewNotFoundMessage("Video is not in this playlist")
	}
	return nil
}

func (s *PlaylistService) owned(ctx context.Context, playlistID, userID uint) (*models.Playlist, error) {
	playlist, err := s.playlistRepo.GetByID(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if playlist.OwnerID != userID {
		if playlist.IsPrivate {
			return nil, models.NewNotFoundError("Playlist", playlistID)
		}
		return nil, models.NewAuthorizationError("You can only modify your own playlists")
	}
	return playlist, nil
}
