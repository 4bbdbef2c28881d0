package models

// GitHubStats is the payload served by the repository-statistics endpoint.
type GitHubStats struct {
	Commits      int64  `json:"commits"`
	LinesOfCode  int64  `json:"lines_of_code"`
	PackageCount int64  `json:"package_count"`
	Stars        int64  `json:"stars"`
	Forks        int64  `json:"forks"`
	OpenIssues   int64  `json:"open_issues"`
	LastPush     string `json:"last_push"`
}
