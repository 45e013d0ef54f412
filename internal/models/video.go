package models

import "time"

// Video is an uploaded video and its playback metadata.
type Video struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OwnerID      uint      `gorm:"not null;index" json:"ownerId"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	SourceURL    string    `gorm:"not null" json:"videoFile"`
	ThumbnailURL string    `gorm:"not null" json:"thumbnail"`
	Duration     float64   `gorm:"not null;default:0" json:"duration"`
	IsPublished  bool      `gorm:"not null;index" json:"isPublish"`
	CreatedAt    time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Views counts distinct viewers; computed at query time
	Views int64 `gorm:"->;-:migration" json:"views"`
	// Likes is computed at query time
	Likes   int64         `gorm:"->;-:migration" json:"likes"`
	IsLiked bool          `gorm:"-" json:"isLiked"`
	Owner   *OwnerSummary `gorm:"-" json:"owner,omitempty"`
}

// VideoOwner is the owner block on the watch page.
type VideoOwner struct {
	OwnerSummary
	SubscribersCount int64 `json:"subscribersCount"`
	IsSubscribed     bool  `json:"isSubscribe"`
}

// WatchView is the video as returned by the watch endpoint.
type WatchView struct {
	Video
	Owner VideoOwner `json:"owner"`
}
