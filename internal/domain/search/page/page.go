// Package page holds 1-based pagination over an in-memory result list.
package page

// DefaultSize is the number of results shown per page.
const DefaultSize = 20

// TotalPages returns ceil(n/size), or 0 when there is nothing to show.
func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Slice returns items[(page-1)*size : page*size]. Out-of-range pages yield
// an empty slice; callers clamp the page first.
func Slice[T any](items []T, page, size int) []T {
	if page < 1 || size <= 0 {
		return []T{}
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// State is the current page over the filtered view.
// It stays within [1, TotalPages] or at 1 when the view is empty.
type State struct {
	current int
}

// NewState returns a state on page 1.
func NewState() State { return State{current: 1} }

// Current returns the 1-based page number.
func (s State) Current() int {
	if s.current < 1 {
		return 1
	}
	return s.current
}

// Reset moves back to page 1.
func (s *State) Reset() { s.current = 1 }

// Next advances one page if another page exists and reports whether it moved.
func (s *State) Next(totalPages int) bool {
	if s.Current() >= totalPages {
		return false
	}
	s.current = s.Current() + 1
	return true
}

// Prev goes back one page if possible and reports whether it moved.
func (s *State) Prev() bool {
	if s.Current() <= 1 {
		return false
	}
	s.current = s.Current() - 1
	return true
}

// Go jumps to page p, clamped to [1, totalPages].
func (s *State) Go(p, totalPages int) {
	s.current = p
	s.Clamp(totalPages)
}

// Clamp pulls the page back into [1, totalPages].
func (s *State) Clamp(totalPages int) {
	if totalPages < 1 {
		s.current = 1
		return
	}
	switch {
	case s.current < 1:
		s.current = 1
	case s.current > totalPages:
		s.current = totalPages
	}
}
