package models

import (
	"fmt"
	"strings"
)

// TargetKind names the entity a comment or like is attached to.
type TargetKind string

const (
	TargetVideo   TargetKind = "video"
	TargetTweet   TargetKind = "tweet"
	TargetComment TargetKind = "comment"
)

// ParseTargetKind accepts the wire names case-insensitively.
func ParseTargetKind(raw string) (TargetKind, bool) {
	switch TargetKind(strings.ToLower(strings.TrimSpace(raw))) {
	case TargetVideo:
		return TargetVideo, true
	case TargetTweet:
		return TargetTweet, true
	case TargetComment:
		return TargetComment, true
	}
	return "", false
}

// IsTopLevel reports whether comments on this kind start a new thread.
func (k TargetKind) IsTopLevel() bool {
	return k == TargetVideo || k == TargetTweet
}

// Ref points at exactly one parent entity.
type Ref struct {
	Kind TargetKind `json:"kind"`
	ID   uint       `json:"id"`
}

func (r Ref) String() string {
	return fmt.Sprintf("%s:%d", r.Kind, r.ID)
}
