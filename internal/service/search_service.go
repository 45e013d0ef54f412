package service

import (
	"context"
	"strings"

	"github.com/RahulLalwani5726/Stream-X/internal/models"
	"github.com/RahulLalwani5726/Stream-X/internal/repository"
)

const searchLimit = 20

type SearchService struct {
	userRepo     repository.UserRepository
	videoRepo    repository.VideoRepository
	tweetRepo    repository.TweetRepository
	playlistRepo repository.PlaylistRepository
}

func NewSearchService(
	userRepo repository.UserRepository,
	videoRepo repository.VideoRepository,
	tweetRepo repository.TweetRepository,
	playlistRepo repository.PlaylistRepository,
) *SearchService {
	return &SearchService{userRepo: userRepo, videoRepo: videoRepo, tweetRepo: tweetRepo, playlistRepo: playlistRepo}
}

// Search runs a case-insensitive substring match over every searchable entity.
func (s *SearchService) Search(ctx context.Context, query string, viewerID uint) (*models.SearchResults, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	if len(q) > 100 {
		return nil, models.NewValidationError("Search query too long (max 100 characters)")
	}

	users, err := s.userRepo.Search(ctx, q, searchLimit)
	if err != nil {
		return nil, err
	}
	videos, err := s.videoRepo.Search(ctx, q, searchLimit)
	if err != nil {
		return nil, err
	}
	tweets, err := s.tweetRepo.Search(ctx, q, viewerID, searchLimit)
	if err != nil {
		return nil, err
	}
	playlists, err := s.playlistRepo.Search(ctx, q, viewerID, searchLimit)
	if err != nil {
		return nil, err
	}

	ids := append(ownerIDs(videos, func(v *models.Video) uint { return v.OwnerID }),
		ownerIDs(tweets, func(t *models.Tweet) uint { return t.OwnerID })...)
	owners := ownersOf(ctx, s.userRepo, ids)
	for i := range videos {
		videos[i].Owner = ownerOrUnknown(owners, videos[i].OwnerID)
	}
	for i := range tweets {
		tweets[i].Owner = ownerOrUnknown(owners, tweets[i].OwnerID)
	}

	return &models.SearchResults{
		Users:     nonNil(users),
		Videos:    nonNil(videos),
		Tweets:    nonNil(tweets),
		Playlists: nonNil(playlists),
	}, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
