package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"github.com/hollyvane/blog-backend/internal/models"
)

// Handler combines all handler types
type Handler struct {
	Auth    *AuthHandler
	Comment *CommentHandler
	Vote    *VoteHandler
	Forum   *ForumHandler
	Stats   *StatsHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(db),
		Comment: NewCommentHandler(db),
		Vote:    NewVoteHandler(db),
		Forum:   NewForumHandler(db),
		Stats:   NewStatsHandler(NewGitHubFetcher()),
	}
}

// sanitizer strips unsafe markup from user-supplied text before it is
// validated or stored.
var sanitizer = bluemonday.UGCPolicy()

func extractUserID(c *gin.Context) (int64, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	switch v := raw.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// voteSum returns the aggregate vote value for a target, zero when nobody
// has voted.
func voteSum(db *gorm.DB, targetType string, targetID int64) (int64, error) {
	var total int64
	err := db.Model(&models.Vote{}).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Select("COALESCE(SUM(value), 0)").
		Scan(&total).Error
	return total, err
}
