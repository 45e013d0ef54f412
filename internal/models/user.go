package models

import "time"

// User represents an account and the channel it owns.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Username   string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email      string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	FullName   string    `gorm:"size:255;not null" json:"fullname"`
	Password   string    `gorm:"not null" json:"-"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"coverImage"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Summary projects the public identity of the user.
func (u *User) Summary() OwnerSummary {
	return OwnerSummary{ID: u.ID, Username: u.Username, FullName: u.FullName, Avatar: u.Avatar}
}

// OwnerSummary is the public identity attached to content.
type OwnerSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullname,omitempty"`
	Avatar   string `json:"avatar"`
}

// UnknownOwner is used when an owner cannot be resolved.
func UnknownOwner(id uint) OwnerSummary {
	return OwnerSummary{ID: id, Username: "unknown"}
}

// ChannelProfile is a user page as seen by a viewer.
type ChannelProfile struct {
	ID                        uint      `json:"id"`
	Username                  string    `json:"username"`
	FullName                  string    `json:"fullname"`
	Email                     string    `json:"email"`
	Avatar                    string    `json:"avatar"`
	CoverImage                string    `json:"coverImage"`
	SubscribersCount          int64     `json:"subscribersCount"`
	ChannelsSubscribedToCount int64     `json:"channelsSubscribedToCount"`
	IsSubscribed              bool      `json:"isSubscribed"`
	CreatedAt                 time.Time `json:"createdAt"`
}
