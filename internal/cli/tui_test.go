package cli

import (
	"context"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/maajidpp/linkza/pkg/layout"
	"github.com/maajidpp/linkza/pkg/tile"
)

type stubGateway struct {
	tiles    []*tile.Tile
	revision int64
}

func (g *stubGateway) Fetch(ctx context.Context, username string) (*layout.Layout, error) {
	return &layout.Layout{Tiles: g.tiles, Revision: g.revision}, nil
}

func (g *stubGateway) Save(ctx context.Context, tiles []*tile.Tile, revision int64) (*layout.Layout, error) {
	g.tiles = tiles
	g.revision = revision + 1
	return &layout.Layout{Tiles: tiles, Revision: g.revision}, nil
}

func editableModel(t *testing.T, types ...tile.Type) *previewModel {
	t.Helper()
	gw := &stubGateway{}
	for _, typ := range types {
		tl, err := tile.New(typ, tile.ContentFor(typ))
		if err != nil {
			t.Fatal(err)
		}
		gw.tiles = append(gw.tiles, tl)
	}

	store := layout.NewStore(gw, log.New(io.Discard))
	if err := store.Fetch(context.Background(), ""); err != nil {
		t.Fatal(err)
	}
	store.SetEditMode(true)
	return newPreviewModel(store)
}

func press(m *previewModel, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEscape}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m.Update(msg)
	}
}

func types(tiles []*tile.Tile) []tile.Type {
	out := make([]tile.Type, len(tiles))
	for i, t := range tiles {
		out[i] = t.Type
	}
	return out
}

func TestGrabMoveDropReorders(t *testing.T) {
	m := editableModel(t, tile.TypeHeading, tile.TypeText, tile.TypeLink)

	// Grab the heading, move it two positions right, drop it.
	press(m, "enter", "right", "right", "enter")

	got := types(m.store.Tiles())
	want := []tile.Type{tile.TypeText, tile.TypeLink, tile.TypeHeading}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	m.store.Flush()
}

func TestDropOnSelfIsNoop(t *testing.T) {
	m := editableModel(t, tile.TypeHeading, tile.TypeText)

	press(m, "enter", "enter") // grab and drop in place

	got := types(m.store.Tiles())
	if got[0] != tile.TypeHeading || got[1] != tile.TypeText {
		t.Fatalf("order changed on self-drop: %v", got)
	}
}

func TestEscCancelsDrag(t *testing.T) {
	m := editableModel(t, tile.TypeHeading, tile.TypeText)

	press(m, "enter", "right", "esc")

	got := types(m.store.Tiles())
	if got[0] != tile.TypeHeading {
		t.Fatalf("order changed on cancel: %v", got)
	}
	if m.engine.ActiveID() != "" {
		t.Error("gesture still active after esc")
	}
}

func TestResizeKeysUpdateStore(t *testing.T) {
	m := editableModel(t, tile.TypeText)

	press(m, "+") // text tiles start at 2x2
	tiles := m.store.Tiles()
	if tiles[0].W != 3 {
		t.Fatalf("W = %d after widen, want 3", tiles[0].W)
	}

	press(m, "<")
	tiles = m.store.Tiles()
	if tiles[0].H != 1 {
		t.Fatalf("H = %d after shrink, want 1", tiles[0].H)
	}
	m.store.Flush()
}

func TestResizeRespectsFixedWidth(t *testing.T) {
	m := editableModel(t, tile.TypeHeading) // headings are fixed at w=4

	press(m, "-")
	tiles := m.store.Tiles()
	if tiles[0].W != 4 {
		t.Fatalf("W = %d, want heading to stay at 4", tiles[0].W)
	}
}

func TestProfileStaysInRail(t *testing.T) {
	m := editableModel(t, tile.TypeProfile, tile.TypeHeading, tile.TypeText)

	// The cursor walks the sortable remainder only; grab the first
	// sortable tile and move it right.
	press(m, "enter", "right", "enter")

	got := types(m.store.Tiles())
	if got[0] != tile.TypeProfile {
		t.Fatalf("profile left the rail: %v", got)
	}
	if got[1] != tile.TypeText || got[2] != tile.TypeHeading {
		t.Fatalf("sortable order = %v", got[1:])
	}
}

func TestRemoveKey(t *testing.T) {
	m := editableModel(t, tile.TypeHeading, tile.TypeText)

	press(m, "x")
	tiles := m.store.Tiles()
	if len(tiles) != 1 || tiles[0].Type != tile.TypeText {
		t.Fatalf("tiles after remove = %v", types(tiles))
	}
	m.store.Flush()
}

func TestRenderGridShowsTiles(t *testing.T) {
	m := editableModel(t, tile.TypeProfile, tile.TypeHeading)
	out := m.View()
	if !strings.Contains(out, "profile") || !strings.Contains(out, "heading") {
		t.Errorf("view missing tiles:\n%s", out)
	}
}

func TestRenderGridEmpty(t *testing.T) {
	out := renderGrid(nil, -1, "")
	if !strings.Contains(out, "empty layout") {
		t.Errorf("empty render = %q", out)
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := []string{"serve", "preview", "seed-admin", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}
