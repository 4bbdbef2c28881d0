package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hollyvane/blog-backend/internal/models"
)

type ForumHandler struct {
	db *gorm.DB
}

func NewForumHandler(db *gorm.DB) *ForumHandler {
	return &ForumHandler{db: db}
}

func (h *ForumHandler) replyCount(threadID int64) (int64, error) {
	var count int64
	err := h.db.Model(&models.Reply{}).Where("thread_id = ?", threadID).Count(&count).Error
	return count, err
}

// GetCategories lists all forum categories ordered by id.
func (h *ForumHandler) GetCategories(c *gin.Context) {
	var categories []models.Category
	if err := h.db.Order("id").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	if categories == nil {
		categories = []models.Category{}
	}

	c.JSON(http.StatusOK, categories)
}

// GetThreads returns one page of threads for a category, newest first, with
// the category's full thread count.
func (h *ForumHandler) GetThreads(c *gin.Context) {
	var category models.Category
	if err := h.db.Where("slug = ?", c.Query("category")).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	page = models.ClampPage(page)

	var total int64
	if err := h.db.Model(&models.Thread{}).Where("category_id = ?", category.ID).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch threads"})
		return
	}

	var threads []models.Thread
	err := h.db.Where("category_id = ?", category.ID).
		Preload("User").
		Order("created_at desc").
		Limit(models.PerPage).
		Offset(models.PageOffset(page)).
		Find(&threads).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch threads"})
		return
	}

	for i := range threads {
		count, err := h.replyCount(threads[i].ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch threads"})
			return
		}
		threads[i].ReplyCount = count
	}

	if threads == nil {
		threads = []models.Thread{}
	}

	c.JSON(http.StatusOK, models.Paginated[models.Thread]{
		Items:   threads,
		Total:   total,
		Page:    page,
		PerPage: models.PerPage,
	})
}

// CreateThread creates a thread under an existing category.
func (h *ForumHandler) CreateThread(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CreateThreadRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	title := sanitizer.Sanitize(input.Title)
	body := sanitizer.Sanitize(input.Body)
	if strings.TrimSpace(title) == "" || strings.TrimSpace(body) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and body are required"})
		return
	}

	var category models.Category
	if err := h.db.Where("slug = ?", input.CategorySlug).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	thread := models.Thread{
		CategoryID: category.ID,
		UserID:     userID,
		Title:      title,
		Body:       body,
	}
	if err := h.db.Create(&thread).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create thread"})
		return
	}

	h.db.Preload("User").First(&thread, thread.ID)
	c.JSON(http.StatusCreated, thread)
}

// GetThread returns a thread with its replies, oldest reply first, each
// reply carrying its author and vote aggregate.
func (h *ForumHandler) GetThread(c *gin.Context) {
	var thread models.Thread
	if err := h.db.Preload("User").First(&thread, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Thread not found"})
		return
	}

	count, err := h.replyCount(thread.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch thread"})
		return
	}
	thread.ReplyCount = count

	var replies []models.Reply
	err = h.db.Where("thread_id = ?", thread.ID).
		Preload("User").
		Order("created_at asc").
		Find(&replies).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch thread"})
		return
	}

	for i := range replies {
		total, err := voteSum(h.db, "reply", replies[i].ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch thread"})
			return
		}
		replies[i].VoteCount = total
	}

	if replies == nil {
		replies = []models.Reply{}
	}

	c.JSON(http.StatusOK, models.ThreadDetail{Thread: thread, Replies: replies})
}

// CreateReply adds a reply to an existing thread.
func (h *ForumHandler) CreateReply(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var thread models.Thread
	if err := h.db.First(&thread, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Thread not found"})
		return
	}

	var input models.CreateReplyRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	body := sanitizer.Sanitize(input.Body)
	if strings.TrimSpace(body) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Reply body is empty"})
		return
	}

	reply := models.Reply{
		ThreadID: thread.ID,
		UserID:   userID,
		Body:     body,
	}
	if err := h.db.Create(&reply).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reply"})
		return
	}

	h.db.Preload("User").First(&reply, reply.ID)
	c.JSON(http.StatusCreated, reply)
}
