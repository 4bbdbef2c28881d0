package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hollyvane/blog-backend/internal/models"
)

const statsTTL = time.Hour

// Rough bytes-per-line ratio used to turn the languages byte map into an
// approximate line count.
const bytesPerLine = 53

// StatsFetcher performs the multi-call GitHub read behind the stats cache.
type StatsFetcher interface {
	Fetch(repo string) (models.GitHubStats, error)
}

// StatsHandler serves repository statistics through a single cached slot.
// The slot holds the last successful fetch for one hour; a failed refresh
// surfaces as 502 and leaves the slot alone. A duplicate fetch under
// concurrent misses is tolerated, torn reads are not: the slot is only ever
// replaced whole under the write lock.
type StatsHandler struct {
	fetcher StatsFetcher

	mu        sync.RWMutex
	cached    *models.GitHubStats
	fetchedAt time.Time
}

func NewStatsHandler(fetcher StatsFetcher) *StatsHandler {
	return &StatsHandler{fetcher: fetcher}
}

func (h *StatsHandler) GetStats(c *gin.Context) {
	repo := c.Query("repo")
	if repo == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing repo parameter"})
		return
	}

	h.mu.RLock()
	if h.cached != nil && time.Since(h.fetchedAt) < statsTTL {
		stats := *h.cached
		h.mu.RUnlock()
		c.JSON(http.StatusOK, stats)
		return
	}
	h.mu.RUnlock()

	stats, err := h.fetcher.Fetch(repo)
	if err != nil {
		log.Printf("GitHub stats fetch failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "GitHub unavailable"})
		return
	}

	h.mu.Lock()
	h.cached = &stats
	h.fetchedAt = time.Now()
	h.mu.Unlock()

	c.JSON(http.StatusOK, stats)
}

// GitHubFetcher reads repository statistics from the GitHub REST API.
type GitHubFetcher struct {
	client  *http.Client
	baseURL string
}

func NewGitHubFetcher() *GitHubFetcher {
	return &GitHubFetcher{
		client:  httpClient,
		baseURL: "https://api.github.com/repos",
	}
}

type repoInfo struct {
	StargazersCount int64  `json:"stargazers_count"`
	ForksCount      int64  `json:"forks_count"`
	OpenIssuesCount int64  `json:"open_issues_count"`
	PushedAt        string `json:"pushed_at"`
}

func (f *GitHubFetcher) get(url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s returned %d", url, resp.StatusCode)
	}
	return resp, nil
}

func (f *GitHubFetcher) getJSON(url string, out any) error {
	resp, err := f.get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(out)
}

func (f *GitHubFetcher) Fetch(repo string) (models.GitHubStats, error) {
	base := f.baseURL + "/" + repo

	var info repoInfo
	if err := f.getJSON(base, &info); err != nil {
		return models.GitHubStats{}, err
	}

	var languages map[string]int64
	if err := f.getJSON(base+"/languages", &languages); err != nil {
		return models.GitHubStats{}, err
	}
	var totalBytes int64
	for _, b := range languages {
		totalBytes += b
	}

	commits, err := f.commitCount(base)
	if err != nil {
		return models.GitHubStats{}, err
	}

	packages, err := f.packageCount(base)
	if err != nil {
		return models.GitHubStats{}, err
	}

	return models.GitHubStats{
		Commits:      commits,
		LinesOfCode:  totalBytes / bytesPerLine,
		PackageCount: packages,
		Stars:        info.StargazersCount,
		Forks:        info.ForksCount,
		OpenIssues:   info.OpenIssuesCount,
		LastPush:     info.PushedAt,
	}, nil
}

// commitCount reads the total commit count from the rel="last" page number
// of the single-item commit listing.
func (f *GitHubFetcher) commitCount(base string) (int64, error) {
	resp, err := f.get(base + "/commits?per_page=1")
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	link := resp.Header.Get("Link")
	if link == "" {
		return 0, nil
	}
	return parseLastPage(link), nil
}

// packageCount counts the directory entries of the repository root.
func (f *GitHubFetcher) packageCount(base string) (int64, error) {
	var entries []struct {
		Type string `json:"type"`
	}
	if err := f.getJSON(base+"/contents", &entries); err != nil {
		return 0, err
	}

	var dirs int64
	for _, e := range entries {
		if e.Type == "dir" {
			dirs++
		}
	}
	return dirs, nil
}

func parseLastPage(linkHeader string) int64 {
	for _, part := range strings.Split(linkHeader, ",") {
		if !strings.Contains(part, `rel="last"`) {
			continue
		}
		start := strings.LastIndex(part, "page=")
		if start == -1 {
			continue
		}
		rest := part[start+len("page="):]
		end := strings.Index(rest, ">")
		if end == -1 {
			continue
		}
		var n int64
		if _, err := fmt.Sscanf(rest[:end], "%d", &n); err == nil {
			return n
		}
	}
	return 0
}
