package models

import "time"

// Vote — one row per (user, target); value is +1 or -1.
type Vote struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	UserID     int64     `gorm:"not null;uniqueIndex:idx_votes_user_target" json:"user_id"`
	TargetType string    `gorm:"not null;uniqueIndex:idx_votes_user_target;index:idx_votes_target" json:"target_type"`
	TargetID   int64     `gorm:"not null;uniqueIndex:idx_votes_user_target;index:idx_votes_target" json:"target_id"`
	Value      int       `gorm:"not null" json:"value"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateVoteRequest struct {
	TargetType string `json:"target_type" binding:"required"`
	TargetID   int64  `json:"target_id" binding:"required"`
	Value      int    `json:"value" binding:"required"`
}

// VoteResponse is the shape of every vote read and cast reply. UserVote is
// nil when the acting user has no live vote on the target (or is anonymous).
type VoteResponse struct {
	VoteCount int64 `json:"vote_count"`
	UserVote  *int  `json:"user_vote,omitempty"`
}
