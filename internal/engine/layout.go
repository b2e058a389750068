package engine

// ScrollMethod selects how the visible window follows the selection.
type ScrollMethod int

const (
	// ScrollPaged jumps the window a whole page at a time.
	ScrollPaged ScrollMethod = iota
	// ScrollContinuous keeps the selection vertically centered.
	ScrollContinuous
)

// Layout derives the visible grid geometry from the filtered count. Elements
// run down each column first, so column c row r holds filtered index
// c*rows + r.
type Layout struct {
	lines   int // configured visible rows
	columns int // configured columns
	fixed   bool

	rows        int
	cols        int
	maxElements int

	// paged-scroll memory
	lastOffset int
	curPage    int
}

// NewLayout sanitizes the configured geometry. Fixed mode keeps the row
// count constant and refits columns to the filtered count instead.
func NewLayout(lines, columns int, fixed bool) *Layout {
	if lines < 1 {
		lines = 1
	}
	if columns < 1 {
		columns = 1
	}
	l := &Layout{lines: lines, columns: columns, fixed: fixed}
	l.Reflow(0)
	return l
}

// Rows returns the row count of the current grid.
func (l *Layout) Rows() int { return l.rows }

// Cols returns the column count of the current grid.
func (l *Layout) Cols() int { return l.cols }

// MaxElements returns the visible window capacity.
func (l *Layout) MaxElements() int { return l.maxElements }

// SetLines adjusts the configured row count, e.g. after a terminal resize.
func (l *Layout) SetLines(lines int) {
	if lines < 1 {
		lines = 1
	}
	l.lines = lines
}

// Reflow recomputes the grid for a new filtered count. In the normal mode
// the column count is fixed and rows shrink to fit; in fixed-line mode rows
// stay put and columns shrink when everything fits in fewer of them.
func (l *Layout) Reflow(filteredCount int) {
	if l.fixed {
		l.rows = l.lines
		l.cols = l.columns
		capacity := l.rows * l.columns
		if filteredCount < capacity {
			cols := ceilDiv(filteredCount, l.rows)
			if cols < 1 {
				cols = 1
			}
			l.cols = cols
		}
	} else {
		l.cols = l.columns
		rows := ceilDiv(filteredCount, l.cols)
		if rows < 1 {
			rows = 1
		}
		if rows > l.lines {
			rows = l.lines
		}
		l.rows = rows
	}
	l.maxElements = l.rows * l.cols
}

// OffsetPaged returns the window offset under the paged policy. The previous
// offset is reused while the selection stays inside the window; otherwise
// the window jumps to the selection's page. pageChanged reports that every
// visible slot changed and the caller must redraw them all.
func (l *Layout) OffsetPaged(selected int) (offset int, pageChanged bool) {
	if selected >= l.lastOffset && selected-l.lastOffset < l.maxElements {
		offset = l.lastOffset
	} else {
		page := 0
		if l.maxElements > 0 {
			page = selected / l.maxElements
		}
		offset = page * l.maxElements
		if page != l.curPage {
			l.curPage = page
			pageChanged = true
		}
	}
	l.lastOffset = offset
	return offset, pageChanged
}

// OffsetContinuous returns the window offset that keeps the selection on the
// middle row, clamped so the window never runs past either end of the
// filtered list.
func (l *Layout) OffsetContinuous(selected, filteredCount int) int {
	even := 0
	if l.rows%2 == 0 {
		even = 1
	}
	middle := (l.rows - even) / 2
	offset := 0
	if selected > middle {
		if selected < filteredCount-(l.rows-middle) {
			offset = selected - middle
		} else if filteredCount > l.rows {
			offset = filteredCount - l.rows
		}
	}
	return offset
}

// ResetScroll clears the paged-scroll memory, forcing the next offset
// computation to start from the first page.
func (l *Layout) ResetScroll() {
	l.lastOffset = 0
	l.curPage = 0
}

func ceilDiv(n, d int) int {
	if d <= 0 {
		return n
	}
	return (n + d - 1) / d
}
