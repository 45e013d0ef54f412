package models

import "time"

// Like records that a user likes a target. A row existing means "liked".
// The (UserID, TargetKind, TargetID) triple is unique.
type Like struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;uniqueIndex:idx_likes_user_target,priority:1" json:"userId"`
	TargetKind TargetKind `gorm:"size:16;not null;uniqueIndex:idx_likes_user_target,priority:2;index:idx_likes_target,priority:1" json:"targetKind"`
	TargetID   uint       `gorm:"not null;uniqueIndex:idx_likes_user_target,priority:3;index:idx_likes_target,priority:2" json:"targetId"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// LikeState is returned by a toggle.
type LikeState struct {
	IsLiked bool `json:"isLiked"`
}
