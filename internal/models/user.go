package models

import "time"

type User struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	GithubID  int64     `gorm:"uniqueIndex;not null" json:"-"`
	Username  string    `gorm:"not null" json:"username"`
	AvatarURL string    `gorm:"not null" json:"avatar_url"`
	CreatedAt time.Time `json:"-"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
