package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hollyvane/blog-backend/internal/models"
)

type VoteHandler struct {
	db *gorm.DB
}

func NewVoteHandler(db *gorm.DB) *VoteHandler {
	return &VoteHandler{db: db}
}

// voteOutcome describes what a cast did to the caller's existing vote.
type voteOutcome int

const (
	voteInserted voteOutcome = iota
	voteSwitched
	voteRemoved
)

// GetVotes returns the aggregate for a target plus the caller's own vote
// when they are authenticated. No authentication is required to read.
func (h *VoteHandler) GetVotes(c *gin.Context) {
	targetType := c.Query("type")
	targetID, err := strconv.ParseInt(c.Query("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target id"})
		return
	}

	total, err := voteSum(h.db, targetType, targetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch votes"})
		return
	}

	resp := models.VoteResponse{VoteCount: total}
	if userID, ok := extractUserID(c); ok {
		var existing models.Vote
		err := h.db.Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
			First(&existing).Error
		if err == nil {
			resp.UserVote = &existing.Value
		}
	}

	c.JSON(http.StatusOK, resp)
}

// CastVote upserts the caller's vote: a new vote is inserted, re-voting the
// same direction removes it, voting the opposite direction switches it. The
// whole read-branch-write runs in one transaction so concurrent double
// submission from the same user cannot lose an update.
func (h *VoteHandler) CastVote(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CreateVoteRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Value != 1 && input.Value != -1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vote value must be 1 or -1"})
		return
	}

	var resp models.VoteResponse
	err := h.db.Transaction(func(tx *gorm.DB) error {
		outcome, err := applyVote(tx, userID, input.TargetType, input.TargetID, input.Value)
		if err != nil {
			return err
		}

		if outcome != voteRemoved {
			v := input.Value
			resp.UserVote = &v
		}

		total, err := voteSum(tx, input.TargetType, input.TargetID)
		if err != nil {
			return err
		}
		resp.VoteCount = total
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record vote"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// applyVote performs the three-way toggle against the caller's existing vote
// on the target. The ledger never checks that the target itself exists;
// voting is deliberately decoupled from the content lifecycle.
func applyVote(tx *gorm.DB, userID int64, targetType string, targetID int64, value int) (voteOutcome, error) {
	var existing models.Vote
	err := tx.Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		First(&existing).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		vote := models.Vote{
			UserID:     userID,
			TargetType: targetType,
			TargetID:   targetID,
			Value:      value,
		}
		return voteInserted, tx.Create(&vote).Error

	case err != nil:
		return voteInserted, err

	case existing.Value == value:
		// Same direction again — toggle off.
		return voteRemoved, tx.Delete(&existing).Error

	default:
		existing.Value = value
		return voteSwitched, tx.Save(&existing).Error
	}
}
