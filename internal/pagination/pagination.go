// Package pagination computes condensed pagination bars for list pages.
//
// The bar is built from three slices of the full page range: a head window,
// a window centered on the current page, and a tail window. Gaps between
// slices collapse into a single ellipsis entry, so a long archive renders
// as e.g. "1 2 … 4 5 6 … 9 10" instead of every page number.
package pagination

import "strconv"

// Entry is one element of a pagination bar: either a page number or an
// ellipsis standing in for a collapsed range.
type Entry struct {
	Page     int  // 1-based page number; 0 when Ellipsis is set
	Ellipsis bool // true for a collapsed gap
}

// String renders the entry the way templates display it.
func (e Entry) String() string {
	if e.Ellipsis {
		return "..."
	}
	return strconv.Itoa(e.Page)
}

// Planner computes pagination bars. EdgeWindow is the number of page links
// always shown at each end of the bar; it must be at least 1 and values
// below that are treated as 1.
//
// Planner is a pure value: Links never touches shared state, never blocks,
// and produces identical output for identical inputs.
type Planner struct {
	EdgeWindow int
}

// Links returns the condensed bar for a listing of totalItems items split
// into pages of pageSize, viewed at currentPage.
//
// Callers are expected to clamp currentPage to at least 1 and to reject
// pages beyond the last one before rendering; a currentPage past the end
// degenerates to the head and tail windows rather than failing.
//
// The result contains page numbers in strictly increasing order, all within
// [1, maxPage], with at most two ellipsis entries. totalItems <= 0 yields an
// empty bar.
func (p Planner) Links(totalItems, currentPage, pageSize int) []Entry {
	if totalItems <= 0 || pageSize < 1 {
		return nil
	}
	maxPage := (totalItems + pageSize - 1) / pageSize

	window := p.EdgeWindow
	if window < 1 {
		window = 1
	}

	pages := make([]int, maxPage)
	for i := range pages {
		pages[i] = i + 1
	}

	// slice indexes pages with clamped bounds, so windows near the ends of
	// the range shrink instead of running out of bounds.
	slice := func(lo, hi int) []int {
		if lo < 0 {
			lo = 0
		}
		if hi > len(pages) {
			hi = len(pages)
		}
		if lo >= hi {
			return nil
		}
		return pages[lo:hi]
	}

	head := slice(0, window)
	tail := slice(maxPage-window, maxPage)

	var middle []int
	if currentPage > 1 {
		if currentPage+1 <= head[len(head)-1] {
			// The current page's neighborhood is already covered by the head.
			middle = head
		} else {
			middle = slice(currentPage-2, currentPage+1)
		}
	} else {
		// On page 1 the middle degenerates to the head, widened by one when
		// the configured window is too small to show a neighbor.
		length := len(head)
		if length < 2 {
			length++
		}
		middle = slice(0, length)
	}

	// Merge the three slices left to right. Each slice is a consecutive run,
	// so duplicates can only appear where slices overlap; the cursor skips
	// them, and a jump past cursor+1 collapses into a single ellipsis. When
	// the slices fully overlap the bar degenerates to [1..maxPage] with no
	// ellipsis at all.
	entries := make([]Entry, 0, 2*window+5)
	last := 0
	emit := func(run []int) {
		for _, n := range run {
			if n <= last {
				continue
			}
			if last > 0 && n > last+1 {
				entries = append(entries, Entry{Ellipsis: true})
			}
			entries = append(entries, Entry{Page: n})
			last = n
		}
	}
	emit(head)
	emit(middle)
	emit(tail)

	return entries
}

// MaxPage returns the number of pages needed for totalItems items at
// pageSize per page. Zero items means zero pages.
func MaxPage(totalItems, pageSize int) int {
	if totalItems <= 0 || pageSize < 1 {
		return 0
	}
	return (totalItems + pageSize - 1) / pageSize
}

// Data carries pagination display state for templates alongside the bar.
type Data struct {
	CurrentPage int
	TotalPages  int
	PerPage     int
	Total       int
	HasPrevious bool
	HasNext     bool
	PrevPage    int
	NextPage    int
	Links       []Entry
}

// NewData assembles Data for a listing. currentPage is clamped to
// [1, max(totalPages, 1)].
func (p Planner) NewData(totalItems, currentPage, pageSize int) Data {
	totalPages := MaxPage(totalItems, pageSize)
	if currentPage < 1 {
		currentPage = 1
	}
	if totalPages > 0 && currentPage > totalPages {
		currentPage = totalPages
	}

	return Data{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		PerPage:     pageSize,
		Total:       totalItems,
		HasPrevious: currentPage > 1,
		HasNext:     currentPage < totalPages,
		PrevPage:    currentPage - 1,
		NextPage:    currentPage + 1,
		Links:       p.Links(totalItems, currentPage, pageSize),
	}
}
