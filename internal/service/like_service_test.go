package service

import (
	"context"
	"testing"

	"github.com/RahulLalwani5726/Stream-X/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeService_ToggleIsSymmetric(t *testing.T) {
	t.Parallel()

	s := newTestStack(t, stackOptions{})
	ctx := context.Background()
	alice := s.seedUser(t, "alice")
	bob := s.seedUser(t, "bob")
	video := s.seedVideo(t, alice.ID, "intro", true)
	tweet := s.seedTweet(t, alice.ID, "hello")
	comment := s.seedComment(t, alice.ID, models.Ref{Kind: models.TargetVideo, ID: video.ID}, "nice", video.CreatedAt)

	cases := []struct {
		kind string
		id   uint
	}{
		{"video", video.ID},
		{"tweet", tweet.ID},
		{"Comment", comment.ID},
	}
	for _, tc := range cases {
		t.Run(tc.kind, func(t *testing.T) {
			kind, ok := models.ParseTargetKind(tc.kind)
			require.True(t, ok)
			target := models.Ref{Kind: kind, ID: tc.id}

			state, err := s.likeSvc.Toggle(ctx, ToggleLikeInput{UserID: bob.ID, TargetID: tc.id, Kind: tc.kind})
			require.NoError(t, err)
			assert.True(t, state.IsLiked)

			n, err := s.likeSvc.Count(ctx, target)
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)
			liked, err := s.likeSvc.HasLiked(ctx, bob.ID, target)
			require.NoError(t, err)
			assert.True(t, liked)

			state, err = s.likeSvc.Toggle(ctx, ToggleLikeInput{UserID: bob.ID, TargetID: tc.id, Kind: tc.kind})
			require.NoError(t, err)
			assert.False(t, state.IsLiked)

			n, err = s.likeSvc.Count(ctx, target)
			require.NoError(t, err)
			assert.Zero(t, n)
		})
	}
}

func TestLikeService_Toggle_Validation(t *testing.T) {
	t.Parallel()

	s := newTestStack(t, stackOptions{})
	ctx := context.Background()
	alice := s.seedUser(t, "alice")

	_, err := s.likeSvc.Toggle(ctx, ToggleLikeInput{TargetID: 1, Kind: "video"})
	assertAppCode(t, err, models.CodeAuthentication)

	_, err = s.likeSvc.Toggle(ctx, ToggleLikeInput{UserID: alice.ID, TargetID: 1, Kind: "playlist"})
	assertAppCode(t, err, models.CodeValidation)

	_, err = s.likeSvc.Toggle(ctx, ToggleLikeInput{UserID: alice.ID, Kind: "video"})
	assertAppCode(t, err, models.CodeValidation)

	_, err = s.likeSvc.Toggle(ctx, ToggleLikeInput{UserID: alice.ID, TargetID: 404, Kind: "video"})
	assertAppCode(t, err, models.CodeNotFound)

	_, err = s.likeSvc.Toggle(ctx, ToggleLikeInput{UserID: alice.ID, TargetID: 404, Kind: "comment"})
	assertAppCode(t, err, models.CodeNotFound)
}

func TestLikeService_HasLikedAnonymous(t *testing.T) {
	t.Parallel()

	s := newTestStack(t, stackOptions{})
	liked, err := s.likeSvc.HasLiked(context.Background(), 0, models.Ref{Kind: models.TargetVideo, ID: 1})
	require.NoError(t, err)
	assert.False(t, liked)
}
