package layout

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/maajidpp/linkza/pkg/errors"
	"github.com/maajidpp/linkza/pkg/tile"
)

// Store mediates all reads and writes of the current tile sequence and the
// edit-mode flag. It holds tiles for exactly one viewed profile at a time;
// Fetch fully replaces the in-memory sequence when the view changes.
//
// Store is safe for concurrent use.
type Store struct {
	gw     Gateway
	logger *log.Logger

	mu       sync.RWMutex
	tiles    []*tile.Tile
	editMode bool
	readOnly bool  // viewing someone else's profile
	revision int64 // last revision seen from the server
	fetchGen uint64

	saveMu   sync.Mutex
	saveCond *sync.Cond
	saving   bool
	pending  []*tile.Tile
}

// NewStore creates a store backed by gw. A nil logger falls back to the
// default charm logger.
func NewStore(gw Gateway, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	s := &Store{gw: gw, logger: logger}
	s.saveCond = sync.NewCond(&s.saveMu)
	return s
}

// Fetch loads the layout for username, or for the authenticated owner when
// username is empty, and replaces the in-memory tile sequence with the
// result. An unknown user or absent layout yields an empty sequence — a
// valid state, distinct from failure. On network or server failure the
// current state is left untouched and the error is returned for the UI to
// surface; there is no automatic retry.
//
// Each call supersedes any in-flight fetch: a response arriving for an
// older call is discarded, so navigating between profiles can never
// install stale tiles.
func (s *Store) Fetch(ctx context.Context, username string) error {
	s.mu.Lock()
	s.fetchGen++
	gen := s.fetchGen
	s.mu.Unlock()

	lay, err := s.gw.Fetch(ctx, username)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.fetchGen {
		// A newer fetch owns the store now.
		return nil
	}

	switch {
	case err == nil:
		s.tiles = lay.Tiles
		s.revision = lay.Revision
	case errors.Is(err, errors.ErrCodeUserNotFound) || errors.Is(err, errors.ErrCodeLayoutNotFound):
		s.tiles = nil
		s.revision = 0
	default:
		return errors.Wrap(errors.ErrCodeNetwork, err, "fetch layout")
	}

	s.readOnly = username != ""
	if s.readOnly {
		s.editMode = false
	}
	return nil
}

// SetEditMode toggles mutation affordances. Read-only contexts (a public
// profile loaded by username) force edit mode off regardless of the caller.
func (s *Store) SetEditMode(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readOnly {
		s.editMode = false
		return
	}
	s.editMode = on
}

// EditMode reports whether mutation affordances are active.
func (s *Store) EditMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.editMode
}

// ReadOnly reports whether the store is viewing a profile it does not own.
func (s *Store) ReadOnly() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readOnly
}

// Tiles returns a snapshot copy of the current tile sequence. Mutating the
// returned tiles does not affect the store.
func (s *Store) Tiles() []*tile.Tile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTiles(s.tiles)
}

// Revision returns the last server revision the store has seen.
func (s *Store) Revision() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Add appends a fully-formed tile to the end of the sequence and schedules
// a save. It rejects invalid tiles and a second profile tile; the layout
// holds at most one.
func (s *Store) Add(t *tile.Tile) error {
	if t == nil {
		return errors.New(errors.ErrCodeInvalidTile, "tile cannot be nil")
	}
	if err := t.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.readOnly {
		s.mu.Unlock()
		return errors.New(errors.ErrCodeForbidden, "cannot modify a layout you do not own")
	}
	if t.Type == tile.TypeProfile {
		for _, existing := range s.tiles {
			if existing.Type == tile.TypeProfile {
				s.mu.Unlock()
				return errors.New(errors.ErrCodeInvalidTile, "layout already has a profile tile")
			}
		}
	}
	for _, existing := range s.tiles {
		if existing.ID == t.ID {
			s.mu.Unlock()
			return errors.New(errors.ErrCodeInvalidTile, "duplicate tile ID %s", t.ID)
		}
	}
	s.tiles = append(s.tiles, t.Clone())
	s.mu.Unlock()

	s.scheduleSave()
	return nil
}

// Patch is a partial tile update. Nil fields are left unchanged. Geometry
// changes are clamped to the tile's constraints before being applied.
type Patch struct {
	Content tile.Content
	X, Y    *int
	W, H    *int
}

// Update merges patch into the tile matching id and schedules a save.
// Updating an unknown id is a no-op, and a patch that changes nothing
// (re-issuing the same geometry during a resize drag) schedules no save,
// which keeps high-frequency gesture writes idempotent.
func (s *Store) Update(id string, patch Patch) error {
	s.mu.Lock()
	if s.readOnly {
		s.mu.Unlock()
		return errors.New(errors.ErrCodeForbidden, "cannot modify a layout you do not own")
	}

	changed := false
	for _, t := range s.tiles {
		if t.ID != id {
			continue
		}
		if patch.Content != nil {
			if patch.Content.TileType() != t.Type {
				s.mu.Unlock()
				return errors.New(errors.ErrCodeInvalidTile,
					"content payload is for type %q, not %q", patch.Content.TileType(), t.Type)
			}
			t.Content = patch.Content
			changed = true
		}
		if patch.X != nil && *patch.X != t.X {
			t.X = *patch.X
			changed = true
		}
		if patch.Y != nil && *patch.Y != t.Y {
			t.Y = *patch.Y
			changed = true
		}
		if patch.W != nil || patch.H != nil {
			w, h := t.W, t.H
			if patch.W != nil {
				w = *patch.W
			}
			if patch.H != nil {
				h = *patch.H
			}
			if t.Resize(w, h) {
				changed = true
			}
		}
		break
	}
	s.mu.Unlock()

	if changed {
		s.scheduleSave()
	}
	return nil
}

// Remove deletes the tile matching id and schedules a save. Removing an
// unknown id is a no-op.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	if s.readOnly {
		s.mu.Unlock()
		return errors.New(errors.ErrCodeForbidden, "cannot modify a layout you do not own")
	}

	changed := false
	for i, t := range s.tiles {
		if t.ID == id {
			s.tiles = append(s.tiles[:i], s.tiles[i+1:]...)
			changed = true
			break
		}
	}
	s.mu.Unlock()

	if changed {
		s.scheduleSave()
	}
	return nil
}

// Reorder replaces the full sequence with a caller-supplied reordering
// (the grid engine calls this after a completed drag) and schedules a
// save. The new sequence must be a permutation of the current one; a
// reorder cannot add or drop tiles.
func (s *Store) Reorder(newTiles []*tile.Tile) error {
	s.mu.Lock()
	if s.readOnly {
		s.mu.Unlock()
		return errors.New(errors.ErrCodeForbidden, "cannot modify a layout you do not own")
	}

	if len(newTiles) != len(s.tiles) {
		s.mu.Unlock()
		return errors.New(errors.ErrCodeInvalidLayout,
			"reorder changed tile count: %d -> %d", len(s.tiles), len(newTiles))
	}
	current := make(map[string]bool, len(s.tiles))
	for _, t := range s.tiles {
		current[t.ID] = true
	}
	for _, t := range newTiles {
		if !current[t.ID] {
			s.mu.Unlock()
			return errors.New(errors.ErrCodeInvalidLayout, "reorder introduced unknown tile %s", t.ID)
		}
	}

	s.tiles = cloneTiles(newTiles)
	s.mu.Unlock()

	s.scheduleSave()
	return nil
}

// =============================================================================
// Background saving
// =============================================================================

// scheduleSave snapshots the current state and hands it to the save loop.
// If a save is already in flight the snapshot parks in the single pending
// slot, replacing any older parked snapshot; intermediate states are
// never sent.
func (s *Store) scheduleSave() {
	s.mu.RLock()
	snap := cloneTiles(s.tiles)
	s.mu.RUnlock()

	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if s.saving {
		s.pending = snap
		return
	}
	s.saving = true
	go s.saveLoop(snap)
}

func (s *Store) saveLoop(snap []*tile.Tile) {
	for {
		// The revision is read at send time, not snapshot time, so a
		// coalesced snapshot always carries the newest base the store
		// has seen and cannot be rejected by its own earlier save.
		s.mu.RLock()
		rev := s.revision
		s.mu.RUnlock()

		saved, err := s.gw.Save(context.Background(), snap, rev)
		if err != nil {
			// Optimistic state stays visible; divergence heals on the
			// next successful save.
			s.logger.Error("save layout failed", "err", err)
		} else {
			s.mu.Lock()
			s.revision = saved.Revision
			s.mu.Unlock()
		}

		s.saveMu.Lock()
		if s.pending != nil {
			snap = s.pending
			s.pending = nil
			s.saveMu.Unlock()
			continue
		}
		s.saving = false
		s.saveCond.Broadcast()
		s.saveMu.Unlock()
		return
	}
}

// Flush blocks until no save is in flight or parked. Mutators never need
// it; it exists so shutdown paths (and tests) can wait for persistence to
// settle.
func (s *Store) Flush() {
	s.saveMu.Lock()
	for s.saving {
		s.saveCond.Wait()
	}
	s.saveMu.Unlock()
}
