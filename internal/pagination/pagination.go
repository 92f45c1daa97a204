// Package pagination computes the window of page links shown around the current page.
package pagination

// VisiblePages returns the zero-based page indices to render. The window keeps
// min(maxVisible, total) entries, sliding instead of shrinking near either edge.
func VisiblePages(current, total, maxVisible int) []int {
	start, end, ok := bounds(current, total, maxVisible)
	if !ok {
		return []int{}
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}

func bounds(current, total, maxVisible int) (start, end int, ok bool) {
	if total <= 0 {
		return 0, -1, false
	}
	if maxVisible < 1 {
		maxVisible = 1
	}

	half := maxVisible / 2
	start = max(0, current-half)
	end = min(total-1, start+maxVisible-1)
	if end-start+1 < maxVisible {
		start = max(0, end-maxVisible+1)
	}
	return start, end, true
}

// Window is a pagination control ready for rendering.
type Window struct {
	Current     int   `json:"current"`
	Total       int   `json:"total"`
	Pages       []int `json:"pages"`
	ShowFirst   bool  `json:"showFirst"`
	LeadingGap  bool  `json:"leadingGap"`
	ShowLast    bool  `json:"showLast"`
	TrailingGap bool  `json:"trailingGap"`
	HasPrev     bool  `json:"hasPrev"`
	HasNext     bool  `json:"hasNext"`
	Visible     bool  `json:"visible"`
}

// NewWindow computes the visible pages and the first/last/gap/step flags.
// Visible is false when there is at most one page.
func NewWindow(current, total, maxVisible int) Window {
	w := Window{
		Current: current,
		Total:   total,
		Pages:   VisiblePages(current, total, maxVisible),
		HasPrev: current > 0,
		HasNext: current < total-1,
		Visible: total > 1,
	}

	if start, end, ok := bounds(current, total, maxVisible); ok {
		w.ShowFirst = start > 0
		w.LeadingGap = start > 1
		w.ShowLast = end < total-1
		w.TrailingGap = end < total-2
	}
	return w
}
