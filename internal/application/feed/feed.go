// Package feed orders posts newest first and cuts them into fixed-size pages.
//
// Out-of-range page numbers never fail: they are clamped to the first or
// last page. An empty feed still has one (empty) page.
package feed

import (
	"slices"
	"strconv"
	"strings"

	model "yatube/internal/domain/models"
)

// PageSize is the number of posts on every feed page.
const PageSize = 10

// Window is a clamped page position over a collection of Total items.
type Window struct {
	Number     int
	TotalPages int
	Total      int
	Offset     int
	Limit      int
}

// ParsePage reads the "page" query value. Absent or non-numeric values yield 1.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return n
}

// Locate clamps number into [1, TotalPages] for total items split into pages of size.
func Locate(number, total, size int) Window {
	if size < 1 {
		size = PageSize
	}
	if total < 0 {
		total = 0
	}

	pages := (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}

	switch {
	case number < 1:
		number = 1
	case number > pages:
		number = pages
	}

	offset := (number - 1) * size
	limit := size
	if rest := total - offset; rest < limit {
		limit = max(rest, 0)
	}

	return Window{
		Number:     number,
		TotalPages: pages,
		Total:      total,
		Offset:     offset,
		Limit:      limit,
	}
}

// Paginate orders a copy of posts and returns the requested (clamped) page.
// The input slice is not modified. Repositories paging with Locate over
// Count and List must yield the same items.
func Paginate(posts []*model.Post, number, size int) *model.Page[*model.Post] {
	ordered := slices.Clone(posts)
	slices.SortStableFunc(ordered, model.ComparePosts)

	w := Locate(number, len(ordered), size)
	return NewPage(ordered[w.Offset:w.Offset+w.Limit], w)
}

// NewPage wraps items already cut to w.
func NewPage[T any](items []T, w Window) *model.Page[T] {
	if items == nil {
		items = []T{}
	}
	return &model.Page[T]{
		Items:      items,
		Number:     w.Number,
		TotalPages: w.TotalPages,
		TotalItems: w.Total,
	}
}
