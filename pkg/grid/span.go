package grid

// Breakpoint selects the column grid for the current viewport width.
type Breakpoint int

// Viewport breakpoints, narrowest first.
const (
	Mobile  Breakpoint = iota // 2-column grid
	Tablet                    // 6-column grid
	Desktop                   // 12-column grid
)

// Columns returns the number of grid columns at this breakpoint.
func (b Breakpoint) Columns() int {
	switch b {
	case Mobile:
		return 2
	case Tablet:
		return 6
	default:
		return 12
	}
}

// ColSpan maps a tile's column span w (1–4) onto the concrete column count
// for the breakpoint. The mapping is a pure function of w and the
// breakpoint; no per-breakpoint state is stored on tiles.
//
//	w    desktop  tablet  mobile
//	1    3        2       1
//	2    6        3       2
//	3    9        4       2
//	4+   12       6       2
func ColSpan(w int, b Breakpoint) int {
	switch b {
	case Mobile:
		if w <= 1 {
			return 1
		}
		return 2
	case Tablet:
		switch {
		case w <= 1:
			return 2
		case w == 2:
			return 3
		case w == 3:
			return 4
		default:
			return 6
		}
	default: // Desktop
		switch {
		case w <= 1:
			return 3
		case w == 2:
			return 6
		case w == 3:
			return 9
		default:
			return 12
		}
	}
}

// RowSpan maps a tile's row span onto the rendered row count: one row for
// h = 1, two rows for anything taller.
func RowSpan(h int) int {
	if h >= 2 {
		return 2
	}
	return 1
}
