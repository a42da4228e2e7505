package utils

import (
	"errors"
	"strconv"
	"strings"
)

// PostsPerPage is the default feed page size.
const PostsPerPage = 10

// Page describes one page of an ordered result set. Numbers are 1-based.
type Page struct {
	Number     int
	PerPage    int
	Total      int64
	TotalPages int
}

// NewPage resolves the raw ?page value against a result set of total items.
// Non-numeric values and numbers below 1 give page 1; numbers past the end
// give the last page. An empty result set still has one (empty) page.
func NewPage(total int64, raw string, perPage int) Page {
	if perPage < 1 {
		perPage = PostsPerPage
	}
	if total < 0 {
		total = 0
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	if totalPages == 0 {
		totalPages = 1
	}

	number := pageNumber(raw, totalPages)
	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	return Page{
		Number:     number,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// pageNumber parses raw. A run of digits too large for int is past any
// last page, so it resolves to last.
func pageNumber(raw string, last int) int {
	raw = strings.TrimSpace(raw)
	n, err := strconv.Atoi(raw)
	if err == nil {
		return n
	}
	if errors.Is(err, strconv.ErrRange) && isUnsignedDigits(strings.TrimPrefix(raw, "+")) {
		return last
	}
	return 0
}

func isUnsignedDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Offset is the index of the first item on the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

// Limit is the page size.
func (p Page) Limit() int {
	return p.PerPage
}

func (p Page) HasNext() bool {
	return p.Number < p.TotalPages
}

func (p Page) HasPrevious() bool {
	return p.Number > 1
}

func (p Page) NextNumber() int {
	if p.HasNext() {
		return p.Number + 1
	}
	return p.Number
}

func (p Page) PreviousNumber() int {
	if p.HasPrevious() {
		return p.Number - 1
	}
	return p.Number
}

// Numbers lists every page number, for paginator links.
func (p Page) Numbers() []int {
	nums := make([]int, p.TotalPages)
	for i := range nums {
		nums[i] = i + 1
	}
	return nums
}
