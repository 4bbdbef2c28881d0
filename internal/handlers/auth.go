package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hollyvane/blog-backend/internal/auth"
	"github.com/hollyvane/blog-backend/internal/models"
)

const userAgent = "blog-backend"

// httpClient bounds every outbound call so a hung upstream fails the request
// instead of pinning a worker.
var httpClient = &http.Client{Timeout: 10 * time.Second}

type AuthHandler struct {
	db *gorm.DB

	// GitHub endpoints, overridable in tests.
	authorizeURL string
	tokenURL     string
	userURL      string
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{
		db:           db,
		authorizeURL: "https://github.com/login/oauth/authorize",
		tokenURL:     "https://github.com/login/oauth/access_token",
		userURL:      "https://api.github.com/user",
	}
}

type githubTokenResponse struct {
	AccessToken string `json:"access_token"`
}

type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

func corsOrigin() string {
	if origin := os.Getenv("CORS_ORIGIN"); origin != "" {
		return origin
	}
	return "http://localhost:1313"
}

// Login redirects the browser to GitHub's OAuth authorize page. The address
// to return to afterwards rides along in the OAuth state parameter.
func (h *AuthHandler) Login(c *gin.Context) {
	redirectAfter := c.Query("redirect")
	if redirectAfter == "" {
		redirectAfter = corsOrigin()
	}

	target := fmt.Sprintf(
		"%s?client_id=%s&redirect_uri=%s/api/auth/callback&state=%s",
		h.authorizeURL,
		os.Getenv("GITHUB_CLIENT_ID"),
		os.Getenv("API_URL"),
		url.QueryEscape(redirectAfter),
	)

	c.Redirect(http.StatusTemporaryRedirect, target)
}

// Callback exchanges the OAuth code, upserts the user by GitHub id, issues a
// signed token and sends the browser back where it came from with the token
// appended as a query parameter.
func (h *AuthHandler) Callback(c *gin.Context) {
	code := c.Query("code")

	ghUser, err := h.exchangeCode(code)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "GitHub login failed"})
		return
	}

	user := models.User{
		GithubID:  ghUser.ID,
		Username:  ghUser.Login,
		AvatarURL: ghUser.AvatarURL,
	}
	err = h.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "github_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "avatar_url"}),
	}).Create(&user).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save user"})
		return
	}

	// The upserted row id is not reported on conflict, read it back.
	if err := h.db.Where("github_id = ?", ghUser.ID).First(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}

	token, err := auth.SignToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	redirectTo := c.Query("state")
	if redirectTo == "" {
		redirectTo = corsOrigin()
	}

	separator := "?"
	if strings.Contains(redirectTo, "?") {
		separator = "&"
	}
	c.Redirect(http.StatusTemporaryRedirect, redirectTo+separator+"token="+token)
}

// exchangeCode trades the OAuth code for an access token and fetches the
// GitHub profile behind it.
func (h *AuthHandler) exchangeCode(code string) (*githubUser, error) {
	payload, err := json.Marshal(map[string]string{
		"client_id":     os.Getenv("GITHUB_CLIENT_ID"),
		"client_secret": os.Getenv("GITHUB_CLIENT_SECRET"),
		"code":          code,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, h.tokenURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}
	defer resp.Body.Close()

	var tokenResp githubTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("no access token in response")
	}

	userReq, err := http.NewRequest(http.MethodGet, h.userURL, nil)
	if err != nil {
		return nil, err
	}
	userReq.Header.Set("Authorization", "Bearer "+tokenResp.AccessToken)
	userReq.Header.Set("User-Agent", userAgent)

	userResp, err := httpClient.Do(userReq)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	defer userResp.Body.Close()

	if userResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile fetch returned %d", userResp.StatusCode)
	}

	var ghUser githubUser
	if err := json.NewDecoder(userResp.Body).Decode(&ghUser); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &ghUser, nil
}

// Me returns the current authenticated user
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}
