package models

import "time"

// Subscription links a subscriber to a channel (another user).
type Subscription struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SubscriberID uint      `gorm:"not null;uniqueIndex:idx_subscriptions_pair,priority:1" json:"subscriberId"`
	ChannelID    uint      `gorm:"not null;uniqueIndex:idx_subscriptions_pair,priority:2;index" json:"channelId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// SubscriberEntry is one row of a subscriber or subscription listing.
type SubscriberEntry struct {
	OwnerSummary
	SubscribersCount int64 `json:"subscriberCount"`
	IsSubscribed     bool  `json:"isSubscribed"`
}

// Playlist is an ordered, optionally private list of videos.
type Playlist struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OwnerID     uint      `gorm:"not null;index" json:"owner"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	IsPrivate   bool      `gorm:"not null;default:false" json:"isPrivate"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Videos []Video `gorm:"-" json:"videos"`
}

// PlaylistVideo is the ordered membership of a video in a playlist.
type PlaylistVideo struct {
	PlaylistID uint      `gorm:"primaryKey;autoIncrement:false" json:"playlistId"`
	VideoID    uint      `gorm:"primaryKey;autoIncrement:false;index" json:"videoId"`
	Position   int       `gorm:"not null" json:"position"`
	AddedAt    time.Time `gorm:"autoCreateTime" json:"addedAt"`
}

// WatchHistoryEntry records the last time a user watched a video.
type WatchHistoryEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_watch_history_pair,priority:1" json:"userId"`
	VideoID   uint      `gorm:"not null;uniqueIndex:idx_watch_history_pair,priority:2;index" json:"videoId"`
	WatchedAt time.Time `gorm:"not null;index" json:"watchedAt"`
}

// TableName keeps the table name stable.
func (WatchHistoryEntry) TableName() string {
	return "watch_history"
}

// SearchResults groups the hits of a global search.
type SearchResults struct {
	Users     []OwnerSummary `json:"users"`
	Videos    []Video        `json:"videos"`
	Tweets    []Tweet        `json:"tweets"`
	Playlists []Playlist     `json:"playlists"`
}
