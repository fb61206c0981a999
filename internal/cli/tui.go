package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/maajidpp/linkza/pkg/grid"
	"github.com/maajidpp/linkza/pkg/layout"
	"github.com/maajidpp/linkza/pkg/tile"
)

// Grid styles
var (
	colorCyan  = lipgloss.Color("14")
	colorWhite = lipgloss.Color("15")
	colorDim   = lipgloss.Color("8")
	colorGold  = lipgloss.Color("11")

	tileStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
	tileSelectedStyle = tileStyle.
				BorderForeground(colorCyan).
				Bold(true)
	tileDraggedStyle = tileStyle.
				BorderForeground(colorGold).
				Faint(true)
	railStyle = tileStyle.
			BorderForeground(colorWhite)
	helpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	statusStyle = lipgloss.NewStyle().Foreground(colorCyan)
)

// cellWidth is how many terminal columns one span unit occupies.
const cellWidth = 10

// =============================================================================
// previewModel - Interactive layout editing
// =============================================================================

// previewModel drives the grid engine from the keyboard. Tile bounding
// boxes are synthesized on the engine's cell scale, and key presses are
// translated into the pointer gestures a browser client would produce, so
// the same activation, targeting, and clamping rules apply.
type previewModel struct {
	store  *layout.Store
	engine *grid.Engine

	tiles  []*tile.Tile
	cursor int // index into the sortable remainder
	target int // hovered drop position while dragging
	status string
	err    error
}

func newPreviewModel(store *layout.Store) *previewModel {
	engine := grid.NewEngine()
	engine.SetEditMode(store.EditMode())
	m := &previewModel{store: store, engine: engine}
	m.refresh()
	return m
}

// refresh re-snapshots the store.
func (m *previewModel) refresh() {
	m.tiles = m.store.Tiles()
	if rest := m.sortable(); m.cursor >= len(rest) {
		m.cursor = max(len(rest)-1, 0)
	}
}

func (m *previewModel) sortable() []*tile.Tile {
	_, rest := grid.Partition(m.tiles)
	return rest
}

// rects synthesizes bounding boxes for the sortable tiles on the engine's
// cell scale: a 12-column row-major flow matching the desktop rendering.
func rects(rest []*tile.Tile) []grid.ItemRect {
	out := make([]grid.ItemRect, 0, len(rest))
	col, row := 0, 0
	for _, t := range rest {
		span := grid.ColSpan(t.W, grid.Desktop)
		if col+span > grid.Desktop.Columns() {
			col = 0
			row++
		}
		out = append(out, grid.ItemRect{
			ID: t.ID,
			Rect: grid.Rect{
				X: float64(col) * grid.CellSize,
				Y: float64(row) * grid.CellSize,
				W: float64(span) * grid.CellSize,
				H: float64(grid.RowSpan(t.H)) * grid.CellSize,
			},
		})
		col += span
	}
	return out
}

func centerOf(items []grid.ItemRect, id string) grid.Point {
	for _, it := range items {
		if it.ID == id {
			return it.Rect.Center()
		}
	}
	return grid.Point{}
}

func (m *previewModel) Init() tea.Cmd {
	return nil
}

func (m *previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	rest := m.sortable()
	dragging := m.engine.State() != grid.Idle

	switch key.String() {
	case "q", "ctrl+c":
		m.engine.Cancel()
		return m, tea.Quit

	case "esc":
		if dragging {
			m.engine.Cancel()
			m.status = "drag cancelled"
		}

	case "left", "h":
		m.step(rest, -1, dragging)
	case "right", "l":
		m.step(rest, +1, dragging)

	case "enter", " ":
		if len(rest) == 0 {
			break
		}
		if !dragging {
			items := rects(rest)
			t := rest[m.cursor]
			if m.engine.PointerDown(t, centerOf(items, t.ID), items) {
				m.target = m.cursor
				m.status = "moving " + string(t.Type)
			} else {
				m.status = "tile is pinned"
			}
			break
		}
		m.drop(rest)

	case "+", "=":
		m.resizeBy(rest, +1, 0)
	case "-", "_":
		m.resizeBy(rest, -1, 0)
	case ">", ".":
		m.resizeBy(rest, 0, +1)
	case "<", ",":
		m.resizeBy(rest, 0, -1)

	case "x":
		if !dragging && len(rest) > 0 {
			t := rest[m.cursor]
			if m.err = m.store.Remove(t.ID); m.err == nil {
				m.status = "removed " + string(t.Type)
				m.refresh()
			}
		}
	}

	return m, nil
}

// step moves the cursor, or the drop target while a drag is active. Drop
// target movement is fed to the engine as pointer motion so the activation
// distance and targeting rules stay in force.
func (m *previewModel) step(rest []*tile.Tile, delta int, dragging bool) {
	if len(rest) == 0 {
		return
	}
	if !dragging {
		m.cursor = clampIndex(m.cursor+delta, len(rest))
		return
	}
	m.target = clampIndex(m.target+delta, len(rest))
	items := rects(rest)
	m.engine.PointerMove(centerOf(items, rest[m.target].ID))
}

// drop releases the active drag at the hovered position and applies the
// resulting reorder through the store.
func (m *previewModel) drop(rest []*tile.Tile) {
	items := rects(rest)
	result := m.engine.PointerUp(centerOf(items, rest[m.target].ID))
	if !result.Valid {
		m.status = "no move"
		return
	}

	next, ok := grid.Reorder(m.tiles, result.ActiveID, result.OverID)
	if !ok {
		m.status = "no move"
		return
	}
	if m.err = m.store.Reorder(next); m.err != nil {
		return
	}
	m.cursor = m.target
	m.status = "moved"
	m.refresh()
}

// resizeBy performs one complete resize gesture of dw x dh cells on the
// selected tile.
func (m *previewModel) resizeBy(rest []*tile.Tile, dw, dh int) {
	if len(rest) == 0 || m.engine.State() != grid.Idle {
		return
	}
	t := rest[m.cursor]

	origin := grid.Point{X: 0, Y: 0}
	r := m.engine.BeginResize(t, origin)
	if r == nil {
		m.status = "tile is pinned"
		return
	}
	defer r.End()

	w, h, changed := r.Move(grid.Point{
		X: origin.X + float64(dw)*grid.CellSize,
		Y: origin.Y + float64(dh)*grid.CellSize,
	})
	if !changed {
		m.status = "at size limit"
		return
	}
	if m.err = m.store.Update(t.ID, layout.Patch{W: &w, H: &h}); m.err != nil {
		return
	}
	m.status = fmt.Sprintf("resized to %dx%d", w, h)
	m.refresh()
}

func (m *previewModel) View() string {
	var b strings.Builder

	selected := ""
	if rest := m.sortable(); len(rest) > 0 {
		selected = rest[m.cursor].ID
	}
	b.WriteString(renderGrid(m.tiles, m.targetIndex(), selected))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(statusStyle.Render("error: " + m.err.Error()))
	} else if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("←/→ select  ⏎ grab/drop  +/- width  </> height  x remove  esc cancel  q quit"))
	return b.String()
}

func (m *previewModel) targetIndex() int {
	if m.engine.State() == grid.Idle {
		return -1
	}
	return m.target
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// =============================================================================
// Rendering
// =============================================================================

// renderGrid draws the profile rail and the sortable tiles as a wrapped
// 12-column row of boxes. target >= 0 highlights a drop position during a
// drag; selected highlights the cursor tile.
func renderGrid(tiles []*tile.Tile, target int, selected string) string {
	rail, rest := grid.Partition(tiles)

	var sections []string
	for _, t := range rail {
		sections = append(sections, railStyle.Width(4*cellWidth).Render(tileLabel(t)))
	}

	var row []string
	cols := 0
	var rows []string
	flushRow := func() {
		if len(row) > 0 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, cols = nil, 0
		}
	}
	for i, t := range rest {
		span := grid.ColSpan(t.W, grid.Desktop)
		if cols+span > grid.Desktop.Columns() {
			flushRow()
		}

		style := tileStyle
		switch {
		case i == target:
			style = tileDraggedStyle
		case t.ID == selected:
			style = tileSelectedStyle
		}
		box := style.Width(span * cellWidth / 3).Height(grid.RowSpan(t.H)).Render(tileLabel(t))
		row = append(row, box)
		cols += span
	}
	flushRow()

	if len(rows) > 0 {
		sections = append(sections, rows...)
	}
	if len(sections) == 0 {
		return helpStyle.Render("(empty layout)")
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// tileLabel summarizes a tile for its box.
func tileLabel(t *tile.Tile) string {
	head := fmt.Sprintf("%s %dx%d", t.Type, t.W, t.H)
	switch c := t.Content.(type) {
	case *tile.ProfileContent:
		return head + "\n" + c.Name
	case *tile.HeadingContent:
		return head + "\n" + c.Text
	case *tile.TextContent:
		return head + "\n" + c.Title
	case *tile.LinkContent:
		return head + "\n" + c.URL
	case *tile.SocialContent:
		return head + "\n@" + c.Handle
	case *tile.TwitterContent:
		return head + "\n@" + c.Username
	case *tile.MapContent:
		return head + "\n" + c.Location
	default:
		return head
	}
}
