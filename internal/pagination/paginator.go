// Package pagination splits ordered listings into fixed-size, numbered pages.
package pagination

import (
	"strconv"
	"strings"
)

// DefaultPageSize is the number of posts shown per page.
const DefaultPageSize = 10

// Window describes which slice of a listing a page covers.
type Window struct {
	Number   int
	NumPages int
	Count    int
	Offset   int
	Limit    int
}

// Page is one page of a listing plus the navigation metadata clients render.
type Page[T any] struct {
	Items       []T  `json:"items"`
	Number      int  `json:"number"`
	NumPages    int  `json:"num_pages"`
	Count       int  `json:"count"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// ParsePageNumber reads a raw "page" query value. Absent or malformed input yields 1.
func ParsePageNumber(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Resolve computes the window for the requested page of a listing holding count items.
// Requests past the last page are clamped to it; an empty listing still has one (empty) page.
func Resolve(count, pageSize, requested int) Window {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if count < 0 {
		count = 0
	}

	numPages := (count + pageSize - 1) / pageSize
	if numPages == 0 {
		numPages = 1
	}

	number := requested
	if number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}

	offset := (number - 1) * pageSize
	limit := pageSize
	if remaining := count - offset; remaining < limit {
		limit = max(remaining, 0)
	}

	return Window{
		Number:   number,
		NumPages: numPages,
		Count:    count,
		Offset:   offset,
		Limit:    limit,
	}
}

// NewPage wraps items already fetched for w.
func NewPage[T any](items []T, w Window) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:       items,
		Number:      w.Number,
		NumPages:    w.NumPages,
		Count:       w.Count,
		HasNext:     w.Number < w.NumPages,
		HasPrevious: w.Number > 1,
	}
}

// Paginate slices an in-memory ordered sequence.
func Paginate[T any](items []T, pageSize, requested int) Page[T] {
	w := Resolve(len(items), pageSize, requested)
	return NewPage(items[w.Offset:w.Offset+w.Limit], w)
}
