package repository

import (
	"context"
	"testing"
	"time"

	"github.com/RahulLalwani5726/Stream-X/internal/cache"
	"github.com/RahulLalwani5726/Stream-X/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoRepository_DetailsCountViewsAndLikes(t *testing.T) {
	cache.SetClient(nil)
	db := setupSQLiteDB(t)
	repo := NewVideoRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")
	viewer := seedUser(t, db, "viewer")

	v := &models.Video{OwnerID: owner.ID, Title: "Go tour", SourceURL: "s3://v", ThumbnailURL: "s3://t", Duration: 61.5, IsPublished: true}
	require.NoError(t, repo.Create(ctx, v))
	hidden := &models.Video{OwnerID: owner.ID, Title: "Draft", SourceURL: "s3://d", ThumbnailURL: "s3://dt"}
	require.NoError(t, repo.Create(ctx, hidden))
	require.NoError(t, db.Model(hidden).Update("is_published", false).Error)

	history := NewHistoryRepository(db)
	require.NoError(t, history.Record(ctx, viewer.ID, v.ID))
	require.NoError(t, history.Record(ctx, owner.ID, v.ID))
	require.NoError(t, db.Create(&models.Like{UserID: viewer.ID, TargetKind: models.TargetVideo, TargetID: v.ID}).Error)

	got, err := repo.GetDetails(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Views)
	assert.Equal(t, int64(1), got.Likes)

	published, err := repo.ListPublished(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, v.ID, published[0].ID)

	own, err := repo.ListByOwner(ctx, owner.ID, true, 10, 0)
	require.NoError(t, err)
	assert.Len(t, own, 2)

	hits, err := repo.Search(ctx, "tour", 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	_, err = repo.GetDetails(ctx, 999)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestVideoRepository_DeleteClearsDependents(t *testing.T) {
	cache.SetClient(nil)
	db := setupSQLiteDB(t)
	repo := NewVideoRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")

	v := &models.Video{OwnerID: owner.ID, Title: "Bye", SourceURL: "s", ThumbnailURL: "t", IsPublished: true}
	require.NoError(t, repo.Create(ctx, v))
	require.NoError(t, db.Create(&models.Like{UserID: owner.ID, TargetKind: models.TargetVideo, TargetID: v.ID}).Error)
	require.NoError(t, NewHistoryRepository(db).Record(ctx, owner.ID, v.ID))

	require.NoError(t, repo.Delete(ctx, v.ID))

	var likes, history int64
	db.Model(&models.Like{}).Count(&likes)
	db.Model(&models.WatchHistoryEntry{}).Count(&history)
	assert.Zero(t, likes)
	assert.Zero(t, history)

	assert.True(t, models.IsCode(repo.Delete(ctx, v.ID), models.CodeNotFound))
}

func TestTweetRepository_SortAndViewerState(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewTweetRepository(db)
	ctx := context.Background()
	author := seedUser(t, db, "author")
	fan := seedUser(t, db, "fan")

	old := &models.Tweet{OwnerID: author.ID, Content: "old but loved", CreatedAt: time.Now().Add(-time.Hour)}
	fresh := &models.Tweet{OwnerID: author.ID, Content: "fresh"}
	require.NoError(t, repo.Create(ctx, old))
	require.NoError(t, repo.Create(ctx, fresh))
	require.NoError(t, db.Create(&models.Like{UserID: fan.ID, TargetKind: models.TargetTweet, TargetID: old.ID}).Error)

	popular, err := repo.List(ctx, fan.ID, TweetSortPopular, 10, 0)
	require.NoError(t, err)
	require.Len(t, popular, 2)
	assert.Equal(t, old.ID, popular[0].ID)
	assert.Equal(t, int64(1), popular[0].LikesCount)
	assert.True(t, popular[0].IsLiked)
	assert.False(t, popular[1].IsLiked)

	recent, err := repo.List(ctx, 0, TweetSortRecent, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, fresh.ID, recent[0].ID)
	assert.False(t, recent[1].IsLiked)

	require.NoError(t, repo.UpdateContent(ctx, fresh.ID, "edited"))
	got, err := repo.GetDetails(ctx, fresh.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Content)

	require.NoError(t, repo.Delete(ctx, old.ID))
	var likes int64
	db.Model(&models.Like{}).Count(&likes)
	assert.Zero(t, likes)

	_, err = repo.GetByID(ctx, old.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestSubscriptionRepository_Toggle(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	on, err := repo.Toggle(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, on)
	_, err = repo.Toggle(ctx, 3, 2)
	require.NoError(t, err)

	count, err := repo.CountSubscribers(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	counts, err := repo.SubscriberCounts(ctx, []uint{2, 5})
	require.NoError(t, err)
	assert.Equal(t, map[uint]int64{2: 2}, counts)

	set, err := repo.SubscribedSet(ctx, 1, []uint{2, 5})
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{2: true}, set)

	off, err := repo.Toggle(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, off)
	is, err := repo.IsSubscribed(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, is)

	require.NoError(t, repo.DeleteForUser(ctx, 2))
	ids, err := repo.SubscriberIDs(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestPlaylistRepository_MembershipOrder(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewPlaylistRepository(db)
	ctx := context.Background()

	p := &models.Playlist{OwnerID: 1, Name: "Mix", IsPrivate: true}
	require.NoError(t, repo.Create(ctx, p))
	public := &models.Playlist{OwnerID: 2, Name: "Public mix"}
	require.NoError(t, repo.Create(ctx, public))

	for _, vid := range []uint{30, 10, 20} {
		added, err := repo.AddVideo(ctx, p.ID, vid)
		require.NoError(t, err)
		assert.True(t, added)
	}
	added, err := repo.AddVideo(ctx, p.ID, 10)
	require.NoError(t, err)
	assert.False(t, added, "duplicates are ignored")

	ids, err := repo.VideoIDs(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{30, 10, 20}, ids)

	removed, err := repo.RemoveVideo(ctx, p.ID, 10)
	require.NoError(t, err)
	assert.True(t, removed)

	visibleToStranger, err := repo.ListVisible(ctx, 9, 10, 0)
	require.NoError(t, err)
	require.Len(t, visibleToStranger, 1)
	assert.Equal(t, public.ID, visibleToStranger[0].ID)

	visibleToOwner, err := repo.ListVisible(ctx, 1, 10, 0)
	require.NoError(t, err)
	assert.Len(t, visibleToOwner, 2)

	hits, err := repo.Search(ctx, "mix", 9, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	require.NoError(t, repo.Delete(ctx, p.ID))
	var members int64
	db.Model(&models.PlaylistVideo{}).Count(&members)
	assert.Zero(t, members)
}

func TestHistoryRepository_RewatchMovesToFront(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewHistoryRepository(db).(*historyRepository)
	ctx := context.Background()

	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	require.NoError(t, repo.Record(ctx, 1, 100))
	require.NoError(t, repo.Record(ctx, 1, 200))
	require.NoError(t, repo.Record(ctx, 1, 100))

	entries, err := repo.List(ctx, 1, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, uint(100), entries[0].VideoID)
	assert.Equal(t, uint(200), entries[1].VideoID)
}
