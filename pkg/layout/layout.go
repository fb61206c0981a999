// Package layout holds the persisted layout aggregate and the Store, the
// single source of truth for the tile sequence of the currently viewed
// profile.
//
// A Store is an explicit, constructed object — never an ambient singleton —
// so independent views (the dashboard, a public profile, a server-rendered
// preview) each get their own instance. All tile mutations flow through
// Store operations; nothing else may touch the tile slice, which is what
// keeps the optimistic-update-plus-background-save behavior uniform.
//
// # Save policy
//
// Every mutating operation updates in-memory state synchronously and
// schedules a background save. Saves are coalesced: at most one request is
// in flight, with at most the latest snapshot queued behind it, so a burst
// of resize updates collapses to two writes and the last state always wins.
// Save failures are logged, never rolled back; the in-memory state remains
// the visible truth until the next successful save.
package layout

import (
	"context"
	"time"

	"github.com/maajidpp/linkza/pkg/tile"
)

// Layout is the persisted aggregate: one document per user holding the
// ordered tile sequence and its metadata.
type Layout struct {
	Name     string       `json:"name,omitempty" bson:"name,omitempty"`
	UserID   string       `json:"userId,omitempty" bson:"userId,omitempty"`
	IsPublic bool         `json:"isPublic" bson:"isPublic"`
	Tiles    []*tile.Tile `json:"tiles" bson:"tiles"`

	// Revision increases monotonically with every accepted save; the
	// server rejects writes carrying a stale revision so an out-of-order
	// network completion can never overwrite newer state.
	Revision int64 `json:"revision,omitempty" bson:"revision"`

	CreatedAt time.Time `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// DefaultName is the layout name used by the single-layout-per-user model.
const DefaultName = "default"

// Gateway is the persistence boundary the Store talks to. The HTTP client
// in pkg/gateway implements it; tests substitute fakes.
type Gateway interface {
	// Fetch loads a layout by username, or by the authenticated owner when
	// username is empty. A user without a saved layout yields a layout
	// with empty tiles, not an error; an unknown username yields an error
	// with code USER_NOT_FOUND.
	Fetch(ctx context.Context, username string) (*Layout, error)

	// Save upserts the owner's layout with the given tile sequence and
	// the revision it was derived from. Returns the stored layout,
	// including the new revision.
	Save(ctx context.Context, tiles []*tile.Tile, revision int64) (*Layout, error)
}

func cloneTiles(tiles []*tile.Tile) []*tile.Tile {
	out := make([]*tile.Tile, len(tiles))
	for i, t := range tiles {
		out[i] = t.Clone()
	}
	return out
}
