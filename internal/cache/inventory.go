package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix         = "user:%d"
	OwnerSummaryKeyPrefix = "owner:%d"
	VideoKeyPrefix        = "video:%d"
	ChannelKeyPrefix      = "channel:%s"
	RefreshTokenKeyPrefix = "refresh:%s"
)

const (
	UserTTL         = 5 * time.Minute
	OwnerSummaryTTL = 5 * time.Minute
	VideoTTL        = 2 * time.Minute
	ChannelTTL      = time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

// OwnerSummaryKey caches the public identity shown next to comments.
func OwnerSummaryKey(userID uint) string {
	return fmt.Sprintf(OwnerSummaryKeyPrefix, userID)
}

func VideoKey(videoID uint) string {
	return fmt.Sprintf(VideoKeyPrefix, videoID)
}

func ChannelKey(username string) string {
	return fmt.Sprintf(ChannelKeyPrefix, username)
}

// RefreshTokenKey indexes an issued refresh token by its jti.
func RefreshTokenKey(jti string) string {
	return fmt.Sprintf(RefreshTokenKeyPrefix, jti)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateUser drops every cached projection of a user's profile.
func InvalidateUser(ctx context.Context, userID uint, username string) {
	keys := []string{UserKey(userID), OwnerSummaryKey(userID)}
	if username != "" {
		keys = append(keys, ChannelKey(username))
	}
	Invalidate(ctx, keys...)
}

func InvalidateVideo(ctx context.Context, videoID uint) {
	Invalidate(ctx, VideoKey(videoID))
}
