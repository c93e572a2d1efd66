// Package pagination implements the shared page-window and search semantics
// used by every listing operation: leaderboards, quiz/user listings and
// attempted results all paginate the same way.
package pagination

import (
	"errors"
	"strings"
)

// ErrInvalidPageSize is returned when a caller asks for a non-positive page size.
var ErrInvalidPageSize = errors.New("page size must be positive")

// Window is one page cut from a full sequence, together with the totals
// derived from that sequence.
type Window[T any] struct {
	Items       []T `json:"items"`
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
	Total       int `json:"total"`
}

// Paginate returns the 1-based page of size pageSize from items. A page below
// 1 is treated as page 1; a page past the end yields an empty item slice with
// the totals intact, so callers can still render the page picker.
func Paginate[T any](items []T, page, pageSize int) (Window[T], error) {
	if pageSize <= 0 {
		return Window[T]{}, ErrInvalidPageSize
	}
	if page < 1 {
		page = 1
	}

	total := len(items)
	window := Window[T]{
		Items:       []T{},
		CurrentPage: page,
		TotalPages:  TotalPages(total, pageSize),
		Total:       total,
	}

	start := (page - 1) * pageSize
	if start >= total {
		return window, nil
	}

	end := start + pageSize
	if end > total {
		end = total
	}
	window.Items = items[start:end]

	return window, nil
}

// TotalPages computes ceil(total/pageSize) for a positive page size.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Filter keeps the items whose designated text field contains term,
// case-insensitively. It is applied before pagination so reported totals
// always reflect the filtered set. An empty term keeps everything.
func Filter[T any](items []T, term string, field func(T) string) []T {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return items
	}

	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(field(item)), term) {
			filtered = append(filtered, item)
		}
	}

	return filtered
}
