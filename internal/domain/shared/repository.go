package shared

import (
	"github.com/google/uuid"
)

// Filter represents query filter options
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]any
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]any),
	}
}

// MaxPage bounds page numbers so offsets cannot overflow
const MaxPage = 100_000

// ClampPage keeps page within [1, MaxPage]
func ClampPage(page int) int {
	return min(max(page, 1), MaxPage)
}

// Offset returns the row offset for the filter's page
func (f Filter) Offset() int {
	if f.PageSize < 1 {
		return 0
	}
	return (ClampPage(f.Page) - 1) * f.PageSize
}

// Scope restricts a query to a branch. A nil BranchID means every branch.
type Scope struct {
	BranchID *uuid.UUID
}

// AllBranches is the unrestricted scope used by administrators and background jobs
func AllBranches() Scope {
	return Scope{}
}

// BranchScope restricts to a single branch
func BranchScope(branchID uuid.UUID) Scope {
	return Scope{BranchID: &branchID}
}

// IsAll reports whether the scope spans every branch
func (s Scope) IsAll() bool {
	return s.BranchID == nil
}

// Allows reports whether a record owned by branchID is visible in this scope
func (s Scope) Allows(branchID uuid.UUID) bool {
	return s.BranchID == nil || *s.BranchID == branchID
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize > 0 {
			totalPages++
		}
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
