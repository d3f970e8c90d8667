package models

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Pagination is a validated skip/limit window.
type Pagination struct {
	Skip  int
	Limit int
}

// NewPagination clamps limit into [1, MaxPageLimit]; zero means the default.
// Negative values are rejected by the caller before this point.
func NewPagination(skip, limit int) Pagination {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if skip < 0 {
		skip = 0
	}
	return Pagination{Skip: skip, Limit: limit}
}
