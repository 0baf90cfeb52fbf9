// Package domain holds the list query shared by every repository.
package domain

import (
	"backoffice/internal/core/id"
	"backoffice/internal/domain/filter"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// ListFilter selects one page of rows. Search and Filters are resolved
// against the entity's column allowlist by the repository.
type ListFilter struct {
	Search         string
	IDs            []id.ID
	IncludeDeleted bool
	Filters        []filter.Item

	// OrderBy is a comma separated column list; a leading "-" sorts descending
	OrderBy string

	Limit  int
	Offset int
}

// DefaultListFilter returns the first page, newest rows first.
func DefaultListFilter() ListFilter {
	return ListFilter{Limit: DefaultListLimit, OrderBy: "-created_at"}
}

// Clamp replaces an out-of-range limit with the default and a negative offset with 0.
func (f *ListFilter) Clamp() {
	if f.Limit <= 0 || f.Limit > MaxListLimit {
		f.Limit = DefaultListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// ListResult is one page plus the total number of matching rows.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// MapList converts the items of a page, keeping the paging fields.
func MapList[T, U any](res ListResult[T], fn func(*T) U) ListResult[U] {
	out := ListResult[U]{
		Items:      make([]U, 0, len(res.Items)),
		TotalCount: res.TotalCount,
		Limit:      res.Limit,
		Offset:     res.Offset,
	}
	for i := range res.Items {
		out.Items = append(out.Items, fn(&res.Items[i]))
	}
	return out
}
