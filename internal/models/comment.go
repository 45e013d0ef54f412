package models

import "time"

// Comment is either a top-level comment on a video or tweet, or a reply to another comment.
// The (TargetKind, TargetID) pair is the single parent reference.
type Comment struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	OwnerID    uint       `gorm:"not null;index" json:"owner"`
	TargetKind TargetKind `gorm:"size:16;not null;index:idx_comments_target,priority:1" json:"targetKind"`
	TargetID   uint       `gorm:"not null;index:idx_comments_target,priority:2" json:"targetId"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Target returns the parent reference.
func (c *Comment) Target() Ref {
	return Ref{Kind: c.TargetKind, ID: c.TargetID}
}

// IsReply reports whether the comment hangs off another comment.
func (c *Comment) IsReply() bool {
	return c.TargetKind == TargetComment
}

// CommentNode is the enriched, nested view of a comment. It is never stored.
type CommentNode struct {
	ID           uint           `json:"id"`
	Content      string         `json:"content"`
	Owner        OwnerSummary   `json:"owner"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	Likes        int64          `json:"likes"`
	IsLiked      bool           `json:"isLiked"`
	Replies      []*CommentNode `json:"replies"`
	RepliesCount int            `json:"repliesCount"`
}
