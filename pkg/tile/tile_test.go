package tile

import (
	"encoding/json"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	tests := []struct {
		typ                    Type
		w, h                   int
		minW, maxW, minH, maxH int
		static                 bool
	}{
		{TypeHeading, 4, 1, 4, 4, 1, MaxRows, false},
		{TypeProfile, 4, 4, 1, MaxCols, 1, MaxRows, true},
		{TypeHero, 4, 4, 1, MaxCols, 1, MaxRows, false},
		{TypeTwitter, 4, 4, 2, MaxCols, 2, MaxRows, false},
		{TypeText, 2, 2, 1, MaxCols, 1, MaxRows, false},
		{TypeLink, 2, 2, 1, MaxCols, 1, MaxRows, false},
		{TypeSocial, 2, 2, 1, MaxCols, 1, MaxRows, false},
		{TypeMap, 2, 2, 1, MaxCols, 1, MaxRows, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			tl, err := New(tt.typ, nil)
			if err != nil {
				t.Fatalf("New(%q) error: %v", tt.typ, err)
			}
			if tl.ID == "" {
				t.Error("New() assigned empty ID")
			}
			if tl.W != tt.w || tl.H != tt.h {
				t.Errorf("span = %dx%d, want %dx%d", tl.W, tl.H, tt.w, tt.h)
			}
			if tl.MinW != tt.minW || tl.MaxW != tt.maxW {
				t.Errorf("width bounds = [%d,%d], want [%d,%d]", tl.MinW, tl.MaxW, tt.minW, tt.maxW)
			}
			if tl.MinH != tt.minH || tl.MaxH != tt.maxH {
				t.Errorf("height bounds = [%d,%d], want [%d,%d]", tl.MinH, tl.MaxH, tt.minH, tt.maxH)
			}
			if tl.Static != tt.static {
				t.Errorf("Static = %v, want %v", tl.Static, tt.static)
			}
			if tl.Content == nil || tl.Content.TileType() != tt.typ {
				t.Errorf("Content variant mismatch for %q", tt.typ)
			}
		})
	}
}

// Twitter embeds collapse below two columns, so both span floors are 2
// and a resize can never squeeze one to a single cell.
func TestTwitterSpanFloors(t *testing.T) {
	tl, err := New(TypeTwitter, nil)
	if err != nil {
		t.Fatal(err)
	}
	if tl.MinW != 2 || tl.MinH != 2 {
		t.Fatalf("twitter floors = [%d,%d], want [2,2]", tl.MinW, tl.MinH)
	}
	if w, h := tl.Clamp(1, 1); w != 2 || h != 2 {
		t.Errorf("Clamp(1,1) = %dx%d, want 2x2", w, h)
	}
	if !tl.Resize(1, 1) {
		t.Error("Resize(1,1) reported no change")
	}
	if tl.W != 2 || tl.H != 2 {
		t.Errorf("span after floored resize = %dx%d, want 2x2", tl.W, tl.H)
	}
}

func TestNewUniqueIDs(t *testing.T) {
	a, _ := New(TypeText, nil)
	b, _ := New(TypeText, nil)
	if a.ID == b.ID {
		t.Errorf("two tiles share ID %q", a.ID)
	}
}

func TestNewRejectsUnknownType(t *testing.T) {
	if _, err := New(Type("carousel"), nil); err == nil {
		t.Error("New() accepted unknown tile type")
	}
}

func TestNewRejectsMismatchedContent(t *testing.T) {
	if _, err := New(TypeText, &MapContent{Location: "Berlin"}); err == nil {
		t.Error("New() accepted map content on a text tile")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name         string
		tile         Tile
		w, h         int
		wantW, wantH int
	}{
		{"within bounds", Tile{MinW: 1, MaxW: 4, MinH: 1, MaxH: 4}, 2, 2, 2, 2},
		{"above maxW", Tile{MinW: 1, MaxW: 4, MinH: 1, MaxH: 4}, 10, 2, 4, 2},
		{"below minW", Tile{MinW: 2, MaxW: 4, MinH: 1, MaxH: 4}, 1, 1, 2, 1},
		{"above maxH", Tile{MinW: 1, MaxW: 4, MinH: 1, MaxH: 2}, 2, 9, 2, 2},
		{"zero constraints fall back", Tile{}, 20, 20, MaxCols, MaxRows},
		{"zero constraints floor", Tile{}, -3, 0, 1, 1},
		{"heading fixed width", Tile{MinW: 4, MaxW: 4, MinH: 1, MaxH: 6}, 1, 1, 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := tt.tile.Clamp(tt.w, tt.h)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Clamp(%d,%d) = %d,%d, want %d,%d", tt.w, tt.h, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestResizeReportsChange(t *testing.T) {
	tl, _ := New(TypeText, nil)

	if !tl.Resize(3, 2) {
		t.Error("Resize to new geometry reported no change")
	}
	if tl.W != 3 || tl.H != 2 {
		t.Fatalf("span = %dx%d, want 3x2", tl.W, tl.H)
	}

	// Idempotent: same geometry again is a no-op.
	if tl.Resize(3, 2) {
		t.Error("Resize to identical geometry reported a change")
	}

	// Shrink then grow back leaves no drift.
	tl.Resize(1, 1)
	tl.Resize(3, 2)
	if tl.W != 3 || tl.H != 2 {
		t.Errorf("after shrink+grow span = %dx%d, want 3x2", tl.W, tl.H)
	}
}

func TestValidate(t *testing.T) {
	valid, _ := New(TypeLink, &LinkContent{URL: "https://example.com"})

	tests := []struct {
		name    string
		mutate  func(*Tile)
		wantErr bool
	}{
		{"valid", func(*Tile) {}, false},
		{"empty id", func(tl *Tile) { tl.ID = "" }, true},
		{"unknown type", func(tl *Tile) { tl.Type = "carousel" }, true},
		{"zero width", func(tl *Tile) { tl.W = 0 }, true},
		{"negative height", func(tl *Tile) { tl.H = -1 }, true},
		{"mismatched content", func(tl *Tile) { tl.Content = &MapContent{} }, true},
		{"nil content ok", func(tl *Tile) { tl.Content = nil }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := valid.Clone()
			tt.mutate(tl)
			err := tl.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestJSONRoundTrip(t *testing.T) {
	orig, err := New(TypeLink, &LinkContent{
		URL:         "https://example.com",
		Label:       "Example",
		Description: "A site",
	})
	if err != nil {
		t.Fatal(err)
	}
	orig.X, orig.Y = 3, 1

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatal(err)
	}

	var got Tile
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}

	if got.ID != orig.ID || got.Type != orig.Type {
		t.Errorf("identity changed in round trip: %+v", got)
	}
	if got.X != 3 || got.Y != 1 || got.W != orig.W || got.H != orig.H {
		t.Errorf("geometry changed in round trip: %+v", got)
	}

	lc, ok := got.Content.(*LinkContent)
	if !ok {
		t.Fatalf("Content decoded as %T, want *LinkContent", got.Content)
	}
	if lc.URL != "https://example.com" || lc.Label != "Example" {
		t.Errorf("content lost in round trip: %+v", lc)
	}
}

func TestJSONUnknownTypeRejected(t *testing.T) {
	var tl Tile
	err := json.Unmarshal([]byte(`{"id":"a","type":"carousel","content":{},"x":0,"y":0,"w":2,"h":2}`), &tl)
	if err == nil {
		t.Error("Unmarshal accepted unknown tile type")
	}
}

func TestJSONMissingContent(t *testing.T) {
	var tl Tile
	if err := json.Unmarshal([]byte(`{"id":"a","type":"text","x":0,"y":0,"w":2,"h":2}`), &tl); err != nil {
		t.Fatal(err)
	}
	if _, ok := tl.Content.(*TextContent); !ok {
		t.Errorf("missing content decoded as %T, want zero *TextContent", tl.Content)
	}
}

func TestContentForCoversAllTypes(t *testing.T) {
	for _, typ := range Types {
		c := ContentFor(typ)
		if c == nil {
			t.Errorf("ContentFor(%q) = nil", typ)
			continue
		}
		if c.TileType() != typ {
			t.Errorf("ContentFor(%q).TileType() = %q", typ, c.TileType())
		}
	}
	if ContentFor(Type("carousel")) != nil {
		t.Error("ContentFor accepted unknown type")
	}
}

func TestCloneIsolation(t *testing.T) {
	orig, _ := New(TypeText, &TextContent{Title: "Note", Text: "hello"})
	cp := orig.Clone()

	cp.W = 4
	cp.Content.(*TextContent).Text = "changed"

	if orig.W == 4 {
		t.Error("geometry mutation leaked into original")
	}
	if orig.Content.(*TextContent).Text != "hello" {
		t.Error("content mutation leaked into original")
	}
}
