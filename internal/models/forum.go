package models

import "time"

type Category struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `gorm:"not null;default:''" json:"description"`
}

type Thread struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	CategoryID int64     `gorm:"index;not null" json:"category_id"`
	UserID     int64     `gorm:"not null" json:"-"`
	User       User      `gorm:"foreignKey:UserID" json:"user"`
	Title      string    `gorm:"not null" json:"title"`
	Body       string    `gorm:"not null" json:"body"`
	CreatedAt  time.Time `json:"created_at"`

	ReplyCount int64 `gorm:"-" json:"reply_count"`
}

type Reply struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	ThreadID  int64     `gorm:"index;not null" json:"thread_id"`
	UserID    int64     `gorm:"not null" json:"-"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	Body      string    `gorm:"not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`

	VoteCount int64 `gorm:"-" json:"vote_count"`
}

type CreateThreadRequest struct {
	CategorySlug string `json:"category_slug" binding:"required"`
	Title        string `json:"title"`
	Body         string `json:"body"`
}

type CreateReplyRequest struct {
	Body string `json:"body"`
}

type ThreadDetail struct {
	Thread  Thread  `json:"thread"`
	Replies []Reply `json:"replies"`
}
