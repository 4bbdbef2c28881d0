package models

// PerPage is the fixed window size for all paginated listings.
const PerPage = 20

// Paginated wraps one page of items together with the full count.
type Paginated[T any] struct {
	Items   []T   `json:"items"`
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
}

// ClampPage maps any page number below 1 onto the first page.
func ClampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// PageOffset returns the row offset for a (clamped) 1-based page number.
func PageOffset(page int) int {
	return (ClampPage(page) - 1) * PerPage
}
