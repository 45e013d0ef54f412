package models

import "time"

// Tweet is a short text post, optionally carrying an image.
type Tweet struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OwnerID   uint      `gorm:"not null;index" json:"ownerId"`
	Content   string    `gorm:"type:text" json:"content"`
	ImageURL  string    `json:"image,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// LikesCount is not persisted; computed at query time
	LikesCount int64 `gorm:"->;-:migration" json:"likesCount"`
	// CommentCount comes from the comment store, which may not be relational
	CommentCount int64         `gorm:"-" json:"commentCount"`
	IsLiked      bool          `gorm:"->;-:migration" json:"isLiked"`
	Owner        *OwnerSummary `gorm:"-" json:"owner,omitempty"`
}
