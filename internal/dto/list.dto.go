package dto

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// ListQuery is the generic search + paging input of the CRUD lists.
type ListQuery struct {
	Search string
	Active *bool
	Page   int
	Limit  int
}

func (q *ListQuery) Normalize() {
	q.Page, q.Limit = normalizePage(q.Page, q.Limit)
}

func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

func normalizePage(page, limit int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}
