// Package pagination computes 1-indexed page windows over a filtered result set.
package pagination

// DefaultPageSize is the number of rows shown per page when none is requested.
const DefaultPageSize = 5

// MaxPageSize caps client-requested page sizes.
const MaxPageSize = 100

// Page describes one window of a result set. Number is always within
// [1, max(TotalPages, 1)].
type Page struct {
	Number     int `json:"page"`
	Size       int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// New clamps the requested page into range for totalItems rows split into
// pages of size. Non-positive sizes fall back to DefaultPageSize.
func New(requested, size, totalItems int) Page {
	size = NormalizeSize(size)
	if totalItems < 0 {
		totalItems = 0
	}

	p := Page{
		Size:       size,
		TotalItems: totalItems,
		TotalPages: TotalPages(totalItems, size),
	}
	p.Number = p.clamp(requested)
	return p
}

// NormalizeSize applies the default and maximum page size.
func NormalizeSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// TotalPages returns ceil(totalItems / size).
func TotalPages(totalItems, size int) int {
	if totalItems <= 0 || size <= 0 {
		return 0
	}
	return (totalItems + size - 1) / size
}

// Offset is the number of rows before the first row of the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Limit is the maximum number of rows on the page.
func (p Page) Limit() int {
	return p.Size
}

// HasNext reports whether a later page exists.
func (p Page) HasNext() bool {
	return p.Number < p.TotalPages
}

// HasPrev reports whether an earlier page exists.
func (p Page) HasPrev() bool {
	return p.Number > 1
}

// Next returns the following page, or p unchanged on the last page.
func (p Page) Next() Page {
	if !p.HasNext() {
		return p
	}
	p.Number++
	return p
}

// Prev returns the preceding page, or p unchanged on the first page.
func (p Page) Prev() Page {
	if !p.HasPrev() {
		return p
	}
	p.Number--
	return p
}

// Window returns the [start, end) bounds of the page within a slice of
// TotalItems elements.
func (p Page) Window() (start, end int) {
	start = p.Offset()
	if start > p.TotalItems {
		start = p.TotalItems
	}
	end = start + p.Size
	if end > p.TotalItems {
		end = p.TotalItems
	}
	return start, end
}

func (p Page) clamp(n int) int {
	last := p.TotalPages
	if last < 1 {
		last = 1
	}
	if n < 1 {
		return 1
	}
	if n > last {
		return last
	}
	return n
}
