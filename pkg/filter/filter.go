// Package filter implements the list search used by the dashboard tables and the
// /search endpoints: one free-text search field plus OR-within/AND-across category
// filters, followed by fixed-size pagination.
package filter

import (
	"strings"

	"github.com/samber/lo"
)

// DefaultPerPage is the page size of every dashboard table.
const DefaultPerPage = 10

// Record is anything the filter can search and categorise.
type Record interface {
	// SearchValue returns the stringified value of field and whether the field exists.
	SearchValue(field string) (string, bool)
	// MatchesFilter reports whether the record's attribute for category equals value.
	MatchesFilter(category, value string) bool
}

type Query struct {
	SearchField string
	SearchValue string
	Filters     map[string][]string
}

// Matches applies the search predicate and every non-empty filter category to r.
func (q Query) Matches(r Record) bool {
	return q.matchesSearch(r) && q.matchesFilters(r)
}

func (q Query) matchesSearch(r Record) bool {
	needle := strings.TrimSpace(q.SearchValue)
	if needle == "" {
		return true
	}
	value, ok := r.SearchValue(q.SearchField)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(needle))
}

func (q Query) matchesFilters(r Record) bool {
	for category, selected := range q.Filters {
		selected = lo.Compact(selected)
		if len(selected) == 0 {
			continue
		}
		if !lo.ContainsBy(selected, func(v string) bool { return r.MatchesFilter(category, v) }) {
			return false
		}
	}
	return true
}

// Apply returns the records of items matching q, in their original order.
func Apply[T Record](items []T, q Query) []T {
	return lo.Filter(items, func(item T, _ int) bool {
		return q.Matches(item)
	})
}

// Page is one slice of a filtered collection.
type Page[T any] struct {
	Items      []T
	Page       int
	PerPage    int
	TotalPages int
	TotalItems int
}

// Paginate cuts items into pages of perPage (DefaultPerPage when <= 0). page is 1-based
// and clamped into [1, TotalPages]; an empty collection yields page 1 of 1.
func Paginate[T any](items []T, page, perPage int) Page[T] {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	total := len(items)
	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}
	page = lo.Clamp(page, 1, totalPages)

	start := (page - 1) * perPage
	end := lo.Min([]int{start + perPage, total})
	if start > total {
		start = total
	}
	return Page[T]{
		Items:      items[start:end],
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		TotalItems: total,
	}
}
