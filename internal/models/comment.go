package models

import "time"

type Comment struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	PostSlug  string    `gorm:"index;not null" json:"post_slug"`
	UserID    int64     `gorm:"not null" json:"-"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	Body      string    `gorm:"not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`

	// Sum of live votes on this comment, filled in by the handlers.
	VoteCount int64 `gorm:"-" json:"vote_count"`
}

type CreateCommentRequest struct {
	PostSlug string `json:"post_slug" binding:"required"`
	Body     string `json:"body"`
}
