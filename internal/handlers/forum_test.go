package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"gorm.io/gorm"

	"github.com/hollyvane/blog-backend/internal/models"
)

func TestCategoriesSeeded(t *testing.T) {
	db := newTestDB(t)
	router := newTestRouter(t, db)

	rr := doJSON(t, router, http.MethodGet, "/api/forum/categories", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var categories []models.Category
	decodeBody(t, rr, &categories)
	if len(categories) != 3 {
		t.Fatalf("expected 3 seeded categories, got %d", len(categories))
	}
	for _, want := range []string{"general", "projects", "help"} {
		found := false
		for _, cat := range categories {
			if cat.Slug == want {
				found = true
			}
		}
		if !found {
			t.Fatalf("missing seeded category %q", want)
		}
	}
	for i := 1; i < len(categories); i++ {
		if categories[i].ID < categories[i-1].ID {
			t.Fatalf("categories not ordered by id: %+v", categories)
		}
	}
}

func seedThreads(t *testing.T, db *gorm.DB, user models.User, n int) {
	t.Helper()

	var category models.Category
	if err := db.Where("slug = ?", "general").First(&category).Error; err != nil {
		t.Fatalf("load category: %v", err)
	}
	for i := 1; i <= n; i++ {
		thread := models.Thread{
			CategoryID: category.ID,
			UserID:     user.ID,
			Title:      fmt.Sprintf("thread %d", i),
			Body:       "body",
		}
		if err := db.Create(&thread).Error; err != nil {
			t.Fatalf("seed thread %d: %v", i, err)
		}
	}
}

func TestListThreadsPagination(t *testing.T) {
	db := newTestDB(t)
	router := newTestRouter(t, db)
	user := createTestUser(t, db, 300, "poster")
	seedThreads(t, db, user, 25)

	// page=0 behaves exactly like page=1.
	for _, page := range []string{"0", "1"} {
		rr := doJSON(t, router, http.MethodGet, "/api/forum/threads?category=general&page="+page, nil, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("page %s: expected 200, got %d", page, rr.Code)
		}

		var resp models.Paginated[models.Thread]
		decodeBody(t, rr, &resp)
		if resp.Page != 1 {
			t.Fatalf("page %s: expected clamped page 1, got %d", page, resp.Page)
		}
		if resp.PerPage != 20 {
			t.Fatalf("expected per_page 20, got %d", resp.PerPage)
		}
		if resp.Total != 25 {
			t.Fatalf("expected total 25, got %d", resp.Total)
		}
		if len(resp.Items) != 20 {
			t.Fatalf("expected 20 items on page 1, got %d", len(resp.Items))
		}
	}

	rr := doJSON(t, router, http.MethodGet, "/api/forum/threads?category=general&page=2", nil, "")
	var second models.Paginated[models.Thread]
	decodeBody(t, rr, &second)
	if len(second.Items) != 5 || second.Total != 25 {
		t.Fatalf("page 2: expected 5 items / total 25, got %d / %d", len(second.Items), second.Total)
	}

	// A page past the end is empty, not an error, and keeps the total.
	rr = doJSON(t, router, http.MethodGet, "/api/forum/threads?category=general&page=9", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("past-end page: expected 200, got %d", rr.Code)
	}
	var past models.Paginated[models.Thread]
	decodeBody(t, rr, &past)
	if len(past.Items) != 0 || past.Total != 25 || past.Page != 9 {
		t.Fatalf("past-end page: expected empty items / total 25 / page 9, got %+v", past)
	}
}

func TestListThreadsUnknownCategory(t *testing.T) {
	db := newTestDB(t)
	router := newTestRouter(t, db)

	rr := doJSON(t, router, http.MethodGet, "/api/forum/threads?category=nope", nil, "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestCreateThreadValidation(t *testing.T) {
	db := newTestDB(t)
	router := newTestRouter(t, db)
	user := createTestUser(t, db, 301, "poster")
	header := authHeader(t, user.ID)

	// Empty after sanitization.
	payload := models.CreateThreadRequest{CategorySlug: "general", Title: "<script>t</script>", Body: "hello"}
	rr := doJSON(t, router, http.MethodPost, "/api/forum/threads", payload, header)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty sanitized title, got %d", rr.Code)
	}

	payload = models.CreateThreadRequest{CategorySlug: "missing", Title: "hi", Body: "hello"}
	rr = doJSON(t, router, http.MethodPost, "/api/forum/threads", payload, header)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown category, got %d", rr.Code)
	}

	payload = models.CreateThreadRequest{CategorySlug: "general", Title: "hi", Body: "hello"}
	rr = doJSON(t, router, http.MethodPost, "/api/forum/threads", payload, header)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	var thread models.Thread
	decodeBody(t, rr, &thread)
	if thread.ReplyCount != 0 {
		t.Fatalf("new thread must report reply_count 0, got %d", thread.ReplyCount)
	}
	if thread.User.Username != "poster" {
		t.Fatalf("expected embedded author, got %+v", thread.User)
	}
}

func TestGetThreadWithReplies(t *testing.T) {
	db := newTestDB(t)
	router := newTestRouter(t, db)
	user := createTestUser(t, db, 302, "poster")
	header := authHeader(t, user.ID)

	rr := doJSON(t, router, http.MethodPost, "/api/forum/threads",
		models.CreateThreadRequest{CategorySlug: "general", Title: "t", Body: "b"}, header)
	var thread models.Thread
	decodeBody(t, rr, &thread)

	var replyIDs []int64
	for i := 1; i <= 2; i++ {
		rr = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/forum/threads/%d/replies", thread.ID),
			models.CreateReplyRequest{Body: fmt.Sprintf("reply %d", i)}, header)
		if rr.Code != http.StatusCreated {
			t.Fatalf("create reply %d: got %d", i, rr.Code)
		}
		var reply models.Reply
		decodeBody(t, rr, &reply)
		replyIDs = append(replyIDs, reply.ID)
	}

	doJSON(t, router, http.MethodPost, "/api/votes",
		models.CreateVoteRequest{TargetType: "reply", TargetID: replyIDs[0], Value: 1}, header)

	rr = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/forum/threads/%d", thread.ID), nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var detail models.ThreadDetail
	decodeBody(t, rr, &detail)
	if detail.Thread.ReplyCount != 2 {
		t.Fatalf("expected reply_count 2, got %d", detail.Thread.ReplyCount)
	}
	if len(detail.Replies) != 2 {
		t.Fatalf("expected 2 replies, got %d", len(detail.Replies))
	}
	if detail.Replies[0].Body != "reply 1" || detail.Replies[1].Body != "reply 2" {
		t.Fatalf("expected replies oldest first, got %+v", detail.Replies)
	}
	if detail.Replies[0].VoteCount != 1 || detail.Replies[1].VoteCount != 0 {
		t.Fatalf("expected vote counts 1/0, got %d/%d", detail.Replies[0].VoteCount, detail.Replies[1].VoteCount)
	}
}

func TestGetThreadNotFound(t *testing.T) {
	db := newTestDB(t)
	router := newTestRouter(t, db)

	rr := doJSON(t, router, http.MethodGet, "/api/forum/threads/999999", nil, "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestCreateReplyOnMissingThread(t *testing.T) {
	db := newTestDB(t)
	router := newTestRouter(t, db)
	user := createTestUser(t, db, 303, "poster")

	rr := doJSON(t, router, http.MethodPost, "/api/forum/threads/999999/replies",
		models.CreateReplyRequest{Body: "hello"}, authHeader(t, user.ID))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}

	var rows int64
	db.Model(&models.Reply{}).Count(&rows)
	if rows != 0 {
		t.Fatalf("no reply row may be persisted, got %d", rows)
	}
}

func TestCreateReplyEmptyBody(t *testing.T) {
	db := newTestDB(t)
	router := newTestRouter(t, db)
	user := createTestUser(t, db, 304, "poster")
	header := authHeader(t, user.ID)

	rr := doJSON(t, router, http.MethodPost, "/api/forum/threads",
		models.CreateThreadRequest{CategorySlug: "general", Title: "t", Body: "b"}, header)
	var thread models.Thread
	decodeBody(t, rr, &thread)

	rr = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/forum/threads/%d/replies", thread.ID),
		models.CreateReplyRequest{Body: "   "}, header)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for whitespace reply, got %d", rr.Code)
	}
}
