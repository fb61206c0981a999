package grid

import (
	"math"

	"github.com/maajidpp/linkza/pkg/tile"
)

// DefaultActivationDistance is how far the pointer must travel from
// pointer-down before a drag starts. Keeps simple clicks from turning
// into accidental reorders.
const DefaultActivationDistance = 5.0

// CellSize is the approximate pixel size of one grid cell, used to convert
// resize pointer deltas into span deltas. It is a feel constant, not a
// measurement of the real rendered grid.
const CellSize = 100.0

// State is the drag gesture state.
type State int

// Gesture states: a drag is entered only from Idle once the pointer moves
// past the activation distance, and every gesture ends back in Idle.
const (
	Idle State = iota
	Pressed
	Dragging
)

// DropResult describes how a drag gesture ended.
type DropResult struct {
	// Valid is true when the drop landed on a different sortable tile and
	// a reorder should be applied.
	Valid bool

	ActiveID string // dragged tile
	OverID   string // drop target (closest center at release)
}

// Engine owns gesture state for one grid surface. It holds at most one
// gesture at a time; beginning a new gesture while another is active is
// rejected, and ending a gesture always releases it, mirroring the
// attach-on-start / unconditionally-detach-on-end listener discipline of
// the browser client.
//
// An Engine is driven by a single UI goroutine and is not safe for
// concurrent use.
type Engine struct {
	editMode   bool
	activation float64

	state    State
	activeID string
	origin   Point
	items    []ItemRect
	overlay  Rect

	resize *Resize
}

// NewEngine creates an engine with the default activation distance.
// Engines start in read-only mode; call SetEditMode(true) for owners.
func NewEngine() *Engine {
	return &Engine{activation: DefaultActivationDistance}
}

// SetEditMode toggles whether gestures are accepted. Disabling edit mode
// cancels any gesture in progress, so a mode flip mid-drag can never
// produce a mutation.
func (e *Engine) SetEditMode(on bool) {
	e.editMode = on
	if !on {
		e.Cancel()
	}
}

// EditMode reports whether mutation gestures are active.
func (e *Engine) EditMode() bool { return e.editMode }

// State returns the current drag gesture state.
func (e *Engine) State() State { return e.state }

// ActiveID returns the tile being dragged, or "" outside a gesture.
func (e *Engine) ActiveID() string { return e.activeID }

// Overlay returns the dragged tile's bounding box captured at gesture
// start, for sizing a drag ghost. Zero outside a gesture.
func (e *Engine) Overlay() Rect { return e.overlay }

// PointerDown arms a drag gesture for t. items is the snapshot of rendered
// sortable tiles (including t) used for drop targeting. The gesture is
// rejected when edit mode is off, the tile is static, or another gesture
// is already active.
func (e *Engine) PointerDown(t *tile.Tile, p Point, items []ItemRect) bool {
	if !e.editMode || t == nil || t.Static || e.state != Idle || e.resize != nil {
		return false
	}

	e.state = Pressed
	e.activeID = t.ID
	e.origin = p
	e.items = items
	for _, it := range items {
		if it.ID == t.ID {
			e.overlay = it.Rect
			break
		}
	}
	return true
}

// PointerMove advances the gesture. From Pressed, the gesture becomes a
// drag once the pointer travels past the activation distance.
func (e *Engine) PointerMove(p Point) State {
	switch e.state {
	case Pressed:
		if distance(e.origin, p) >= e.activation {
			e.state = Dragging
		}
	case Dragging:
		// Drop targeting is resolved at release; nothing to track here.
	}
	return e.state
}

// PointerUp ends the gesture. A press that never crossed the activation
// distance is a click, not a drop. A drag resolves its target by closest
// center at the release point; dropping on self or outside any target is
// invalid and produces no mutation. The gesture is released in all cases.
func (e *Engine) PointerUp(p Point) DropResult {
	defer e.reset()

	if e.state != Dragging {
		return DropResult{}
	}

	over := ClosestCenter(e.items, p)
	if over == "" || over == e.activeID {
		return DropResult{ActiveID: e.activeID, OverID: over}
	}
	return DropResult{Valid: true, ActiveID: e.activeID, OverID: over}
}

// Cancel aborts any gesture without producing a result.
func (e *Engine) Cancel() {
	e.reset()
	e.resize = nil
}

func (e *Engine) reset() {
	e.state = Idle
	e.activeID = ""
	e.items = nil
	e.overlay = Rect{}
}

func distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// =============================================================================
// Resize
// =============================================================================

// Resize tracks one resize gesture: pointer movement from the grab point
// is converted into a span delta using the approximate cell size, clamped
// to the 1–4 drag range and then to the tile's own constraints.
type Resize struct {
	engine *Engine
	tile   *tile.Tile
	origin Point
	startW int
	startH int
}

// BeginResize arms a resize gesture for t. Like drags, resizes are
// rejected outside edit mode, on static tiles, and while any other
// gesture is active.
func (e *Engine) BeginResize(t *tile.Tile, p Point) *Resize {
	if !e.editMode || t == nil || t.Static || e.state != Idle || e.resize != nil {
		return nil
	}
	r := &Resize{
		engine: e,
		tile:   t,
		origin: p,
		startW: t.W,
		startH: t.H,
	}
	e.resize = r
	return r
}

// Move converts the pointer position into a clamped span and reports
// whether it differs from the tile's current geometry. Callers issue a
// store update only when changed is true; re-deriving the same span is a
// no-op, which keeps the high-frequency gesture idempotent at the data
// level.
func (r *Resize) Move(p Point) (w, h int, changed bool) {
	spanX := int(math.Round((p.X - r.origin.X) / CellSize))
	spanY := int(math.Round((p.Y - r.origin.Y) / CellSize))

	w = clampSpan(r.startW + spanX)
	h = clampSpan(r.startH + spanY)
	w, h = r.tile.Clamp(w, h)

	return w, h, w != r.tile.W || h != r.tile.H
}

// End releases the gesture. Safe to call multiple times.
func (r *Resize) End() {
	if r.engine != nil && r.engine.resize == r {
		r.engine.resize = nil
	}
	r.engine = nil
}

func clampSpan(v int) int {
	if v < tile.MinSpan {
		return tile.MinSpan
	}
	if v > tile.MaxSpan {
		return tile.MaxSpan
	}
	return v
}
