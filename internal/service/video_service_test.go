package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/RahulLalwani5726/Stream-X/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoService_Upload(t *testing.T) {
	t.Parallel()

	s := newTestStack(t, stackOptions{})
	ctx := context.Background()
	alice := s.seedUser(t, "alice")

	t.Run("validation", func(t *testing.T) {
		_, err := s.videoSvc.Upload(ctx, UploadVideoInput{OwnerID: alice.ID, Title: " "})
		assertAppCode(t, err, models.CodeValidation)

		_, err = s.videoSvc.Upload(ctx, UploadVideoInput{OwnerID: alice.ID, Title: "t", Thumbnail: []byte("x")})
		assertAppCode(t, err, models.CodeValidation)

		_, err = s.videoSvc.Upload(ctx, UploadVideoInput{OwnerID: alice.ID, Title: "t", Video: strings.NewReader("v")})
		assertAppCode(t, err, models.CodeValidation)
	})

	t.Run("stores both assets", func(t *testing.T) {
		v, err := s.videoSvc.Upload(ctx, UploadVideoInput{
			OwnerID:     alice.ID,
			Title:       "  Go tour ",
			Description: "basics",
			IsPublished: true,
			Video:       strings.NewReader("frames"),
			VideoName:   "tour.mp4",
			VideoType:   "video/mp4",
			Thumbnail:   []byte("png"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Go tour", v.Title)
		assert.Equal(t, 42.0, v.Duration)
		assert.Contains(t, v.SourceURL, "/videos/")
		assert.Contains(t, v.ThumbnailURL, "/images/thumbnail/")
	})
}

func TestVideoService_UploadCleansUpThumbnail(t *testing.T) {
	t.Parallel()

	s := newTestStack(t, stackOptions{})
	alice := s.seedUser(t, "alice")

	_, err := s.videoSvc.Upload(context.Background(), UploadVideoInput{
		OwnerID:   alice.ID,
		Title:     "broken",
		Video:     failingReader{},
		Thumbnail: []byte("png"),
	})
	require.Error(t, err)
	require.Len(t, s.media.deleted, 1)
	assert.Contains(t, s.media.deleted[0], "/images/thumbnail/")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestVideoService_WatchVisibility(t *testing.T) {
	t.Parallel()

	s := newTestStack(t, stackOptions{})
	ctx := context.Background()
	alice := s.seedUser(t, "alice")
	bob := s.seedUser(t, "bob")
	draft := s.seedVideo(t, alice.ID, "draft", false)
	public := s.seedVideo(t, alice.ID, "public", true)

	_, err := s.videoSvc.Watch(ctx, draft.ID, bob.ID)
	assertAppCode(t, err, models.CodeNotFound)

	view, err := s.videoSvc.Watch(ctx, draft.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "draft", view.Title)

	_, err = s.subSvc.Toggle(ctx, bob.ID, "alice")
	require.NoError(t, err)
	_, err = s.likeSvc.Toggle(ctx, ToggleLikeInput{UserID: bob.ID, TargetID: public.ID, Kind: "video"})
	require.NoError(t, err)

	view, err = s.videoSvc.Watch(ctx, public.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", view.Owner.Username)
	assert.Equal(t, int64(1), view.Owner.SubscribersCount)
	assert.True(t, view.Owner.IsSubscribed)
	assert.True(t, view.IsLiked)
	assert.Equal(t, int64(1), view.Likes)

	feed, err := s.videoSvc.Feed(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, public.ID, feed[0].ID)
	require.NotNil(t, feed[0].Owner)
	assert.Equal(t, "alice", feed[0].Owner.Username)

	mine, err := s.videoSvc.ListByOwner(ctx, alice.ID, alice.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	theirs, err := s.videoSvc.ListByOwner(ctx, alice.ID, bob.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}

func TestVideoService_Update(t *testing.T) {
	t.Parallel()

	s := newTestStack(t, stackOptions{})
	ctx := context.Background()
	alice := s.seedUser(t, "alice")
	bob := s.seedUser(t, "bob")
	video := s.seedVideo(t, alice.ID, "intro", false)
	oldThumb := video.ThumbnailURL

	title := "Renamed"
	_, err := s.videoSvc.Update(ctx, UpdateVideoInput{UserID: bob.ID, VideoID: video.ID, Title: &title})
	assertAppCode(t, err, models.CodeForbidden)

	blank := " "
	_, err = s.videoSvc.Update(ctx, UpdateVideoInput{UserID: alice.ID, VideoID: video.ID, Title: &blank})
	assertAppCode(t, err, models.CodeValidation)

	published := true
	updated, err := s.videoSvc.Update(ctx, UpdateVideoInput{
		UserID:      alice.ID,
		VideoID:     video.ID,
		Title:       &title,
		IsPublished: &published,
		Thumbnail:   []byte("png"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.True(t, updated.IsPublished)
	assert.NotEqual(t, oldThumb, updated.ThumbnailURL)
	assert.Contains(t, s.media.deleted, oldThumb)

	stored, err := s.videos.GetByID(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.Title)
	assert.True(t, stored.IsPublished)
}

func TestVideoService_DeleteRemovesThreads(t *testing.T) {
	t.Parallel()

	s := newTestStack(t, stackOptions{cascade: true})
	ctx := context.Background()
	alice := s.seedUser(t, "alice")
	bob := s.seedUser(t, "bob")
	video := s.seedVideo(t, alice.ID, "intro", true)
	other := s.seedVideo(t, alice.ID, "other", true)

	c1, err := s.commentSvc.CreateComment(ctx, CreateCommentInput{UserID: bob.ID, EntityID: video.ID, Kind: "video", Content: "C1"})
	require.NoError(t, err)
	_, err = s.commentSvc.CreateComment(ctx, CreateCommentInput{UserID: alice.ID, EntityID: c1.ID, Kind: "comment", Content: "R1"})
	require.NoError(t, err)
	_, err = s.commentSvc.CreateComment(ctx, CreateCommentInput{UserID: bob.ID, EntityID: other.ID, Kind: "video", Content: "keep"})
	require.NoError(t, err)
	_, err = s.likeSvc.Toggle(ctx, ToggleLikeInput{UserID: bob.ID, TargetID: video.ID, Kind: "video"})
	require.NoError(t, err)
	require.NoError(t, s.historySvc.Record(ctx, bob.ID, video.ID))

	err = s.videoSvc.Delete(ctx, video.ID, bob.ID)
	assertAppCode(t, err, models.CodeForbidden)

	require.NoError(t, s.videoSvc.Delete(ctx, video.ID, alice.ID))

	_, err = s.videos.GetByID(ctx, video.ID)
	assertAppCode(t, err, models.CodeNotFound)
	assert.Equal(t, int64(1), s.count(t, &models.Comment{}, "1 = 1"))
	assert.Zero(t, s.count(t, &models.Like{}, "target_kind = ?", models.TargetVideo))
	assert.Zero(t, s.count(t, &models.WatchHistoryEntry{}, "video_id = ?", video.ID))
	assert.Contains(t, s.media.deleted, video.SourceURL)
	assert.Contains(t, s.media.deleted, video.ThumbnailURL)
}
