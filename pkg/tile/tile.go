// Package tile defines the atomic unit of a profile layout: a positioned,
// typed, content-bearing grid cell.
//
// A Tile carries an opaque stable ID (the drag/reorder key), a closed type
// enumeration, a typed content payload, advisory grid coordinates, a column/
// row span, and optional sizing constraints. The layout store and the grid
// engine treat the content payload as opaque; only renderers interpret it.
//
// # Spans
//
// Column spans run 1–4 and map onto a responsive 2/6/12-column grid at
// render time (see the grid package). Row spans are typically 1–2. Resize
// operations must go through Clamp so the stored span always satisfies the
// tile's min/max bounds.
package tile

import (
	"github.com/google/uuid"

	"github.com/maajidpp/linkza/pkg/errors"
)

// Type identifies the kind of content a tile renders.
type Type string

// The closed set of tile types. Exactly one profile tile may exist per
// layout; this is enforced at the add-tile boundary, not here.
const (
	TypeProfile    Type = "profile"
	TypeSocial     Type = "social"
	TypeText       Type = "text"
	TypeMedia      Type = "media"
	TypeLink       Type = "link"
	TypeHero       Type = "hero"
	TypeHeading    Type = "heading"
	TypeTwitter    Type = "twitter"
	TypeNewsletter Type = "newsletter"
	TypeMap        Type = "map"
)

// Types lists every valid tile type in a stable order.
var Types = []Type{
	TypeProfile,
	TypeSocial,
	TypeText,
	TypeMedia,
	TypeLink,
	TypeHero,
	TypeHeading,
	TypeTwitter,
	TypeNewsletter,
	TypeMap,
}

// Valid reports whether t is a member of the closed type enumeration.
func (t Type) Valid() bool {
	switch t {
	case TypeProfile, TypeSocial, TypeText, TypeMedia, TypeLink,
		TypeHero, TypeHeading, TypeTwitter, TypeNewsletter, TypeMap:
		return true
	}
	return false
}

// Span limits for the sortable grid.
const (
	MinSpan = 1  // smallest column/row span
	MaxSpan = 4  // largest drag-resizable span
	MaxCols = 12 // desktop grid columns; also the default MaxW
	MaxRows = 6  // default MaxH
)

// Tile is one cell in a user's grid.
//
// X and Y are advisory coordinates persisted for round-trip fidelity with
// the stored document; rendering order is driven by array position, never
// by X/Y.
type Tile struct {
	ID      string  `json:"id" bson:"id"`
	Type    Type    `json:"type" bson:"type"`
	Content Content `json:"content" bson:"content"`

	X int `json:"x" bson:"x"`
	Y int `json:"y" bson:"y"`
	W int `json:"w" bson:"w"` // column span
	H int `json:"h" bson:"h"` // row span

	// Optional sizing constraints. Zero means unconstrained (beyond the
	// global floor of 1 and ceiling of MaxCols/MaxRows).
	MinW int `json:"minW,omitempty" bson:"minW,omitempty"`
	MaxW int `json:"maxW,omitempty" bson:"maxW,omitempty"`
	MinH int `json:"minH,omitempty" bson:"minH,omitempty"`
	MaxH int `json:"maxH,omitempty" bson:"maxH,omitempty"`

	// Static tiles are exempt from drag and resize (the pinned profile).
	Static bool `json:"static,omitempty" bson:"static,omitempty"`
}

// New creates a tile of the given type with a fresh ID, type-appropriate
// default spans and constraints, and the given content payload.
//
// Defaults:
//   - heading: 4×1, fixed width (minW = maxW = 4)
//   - profile, hero, twitter: 4×4
//   - everything else: 2×2
//   - twitter additionally keeps minW = minH = 2
//   - profile tiles are static
//
// Returns an error if the type is not in the closed enumeration or the
// content payload belongs to a different type.
func New(t Type, c Content) (*Tile, error) {
	if !t.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidTile, "unknown tile type: %q", t)
	}
	if c == nil {
		c = ContentFor(t)
	}
	if c.TileType() != t {
		return nil, errors.New(errors.ErrCodeInvalidTile,
			"content payload is for type %q, not %q", c.TileType(), t)
	}

	tl := &Tile{
		ID:      uuid.NewString(),
		Type:    t,
		Content: c,
		W:       2,
		H:       2,
		MinW:    1,
		MaxW:    MaxCols,
		MinH:    1,
		MaxH:    MaxRows,
	}

	switch t {
	case TypeProfile, TypeHero, TypeTwitter:
		tl.W, tl.H = 4, 4
	case TypeHeading:
		tl.W, tl.H = 4, 1
		tl.MinW, tl.MaxW = 4, 4
	}
	if t == TypeTwitter {
		tl.MinW, tl.MinH = 2, 2
	}
	if t == TypeProfile {
		tl.Static = true
	}

	return tl, nil
}

// Clamp returns w and h adjusted to satisfy the tile's sizing constraints.
// Zero-valued constraints fall back to the global bounds, with a floor of 1.
func (t *Tile) Clamp(w, h int) (int, int) {
	minW, maxW := t.MinW, t.MaxW
	minH, maxH := t.MinH, t.MaxH
	if minW < MinSpan {
		minW = MinSpan
	}
	if maxW <= 0 {
		maxW = MaxCols
	}
	if minH < MinSpan {
		minH = MinSpan
	}
	if maxH <= 0 {
		maxH = MaxRows
	}

	w = clamp(w, minW, maxW)
	h = clamp(h, minH, maxH)
	return w, h
}

// Resize sets the tile's spans to the clamped values of w and h.
// It reports whether the stored geometry actually changed, so callers can
// skip redundant writes.
func (t *Tile) Resize(w, h int) bool {
	w, h = t.Clamp(w, h)
	if w == t.W && h == t.H {
		return false
	}
	t.W, t.H = w, h
	return true
}

// Validate checks the structural invariants of a tile: non-empty ID, a
// valid type, positive spans, and a content payload matching the type.
func (t *Tile) Validate() error {
	if t.ID == "" {
		return errors.New(errors.ErrCodeInvalidTile, "tile ID cannot be empty")
	}
	if !t.Type.Valid() {
		return errors.New(errors.ErrCodeInvalidTile, "unknown tile type: %q", t.Type)
	}
	if t.W < MinSpan || t.H < MinSpan {
		return errors.New(errors.ErrCodeInvalidTile, "tile %s has non-positive span %dx%d", t.ID, t.W, t.H)
	}
	if t.Content != nil && t.Content.TileType() != t.Type {
		return errors.New(errors.ErrCodeInvalidTile,
			"tile %s carries %q content but has type %q", t.ID, t.Content.TileType(), t.Type)
	}
	return nil
}

// Clone returns a deep-enough copy: constraints and geometry are value
// copies, and the content payload is duplicated so mutations on the clone
// never leak into the original.
func (t *Tile) Clone() *Tile {
	cp := *t
	if t.Content != nil {
		cp.Content = t.Content.clone()
	}
	return &cp
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
