// Package grid lays a tile sequence onto a responsive column grid and
// translates pointer gestures into layout mutations.
//
// The package is deliberately headless: it owns no rendering surface and
// captures no events itself. The caller (a web client bridge, or the
// terminal preview) feeds it the rendered bounding boxes of tiles and raw
// pointer coordinates; the engine answers with reorder and resize
// decisions that are applied through the layout store.
//
// # Partitioning
//
// Before any layout or gesture work, the tile sequence is split into the
// pinned profile rail and the sortable remainder (see Partition). Drag and
// resize only ever operate on the remainder; the profile tile cannot enter
// the sortable sequence.
//
// # Ordering
//
// Rendering order is array order. Tiles carry advisory x/y coordinates for
// round-trip fidelity with stored documents, but nothing in this package
// reads them.
package grid

import (
	"math"

	"github.com/maajidpp/linkza/pkg/tile"
)

// Point is a pointer position in pixels.
type Point struct {
	X float64
	Y float64
}

// Rect is a rendered bounding box in pixels.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Center returns the midpoint of the rect.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// ItemRect pairs a tile ID with its rendered bounding box.
type ItemRect struct {
	ID   string
	Rect Rect
}

// Partition splits tiles into the pinned profile rail and the sortable
// remainder, preserving relative order within each part. All profile-type
// tiles land in the rail; everything else is sortable.
func Partition(tiles []*tile.Tile) (rail, rest []*tile.Tile) {
	for _, t := range tiles {
		if t.Type == tile.TypeProfile {
			rail = append(rail, t)
		} else {
			rest = append(rest, t)
		}
	}
	return rail, rest
}

// Move returns a copy of s with the element at index from spliced out and
// reinserted at index to. Out-of-range indices return s unchanged. All
// other elements keep their relative order; this is an array move, not a
// swap.
func Move[T any](s []T, from, to int) []T {
	if from < 0 || from >= len(s) || to < 0 || to >= len(s) {
		return s
	}
	out := make([]T, 0, len(s))
	out = append(out, s[:from]...)
	out = append(out, s[from+1:]...)

	out = append(out[:to], append([]T{s[from]}, out[to:]...)...)
	return out
}

// ClosestCenter returns the ID of the item whose rendered center is
// nearest to p, the drop-target heuristic for drag gestures. Returns the
// empty string when items is empty. Ties keep the earliest item.
func ClosestCenter(items []ItemRect, p Point) string {
	best := ""
	bestDist := math.Inf(1)
	for _, it := range items {
		c := it.Rect.Center()
		dx, dy := c.X-p.X, c.Y-p.Y
		if d := dx*dx + dy*dy; d < bestDist {
			bestDist = d
			best = it.ID
		}
	}
	return best
}

// Reorder applies a completed drag to the full tile sequence: the sortable
// remainder is spliced so that the active tile occupies the position of
// the over tile, then the profile rail is prepended back. It reports false
// (and returns tiles unchanged) when the drag resolves to no mutation:
// active and over are the same tile, or either is missing from the
// sortable sequence.
func Reorder(tiles []*tile.Tile, activeID, overID string) ([]*tile.Tile, bool) {
	if activeID == "" || overID == "" || activeID == overID {
		return tiles, false
	}

	rail, rest := Partition(tiles)

	from, to := -1, -1
	for i, t := range rest {
		switch t.ID {
		case activeID:
			from = i
		case overID:
			to = i
		}
	}
	if from == -1 || to == -1 {
		return tiles, false
	}

	rest = Move(rest, from, to)
	return append(rail, rest...), true
}
