package grid

import (
	"testing"

	"github.com/maajidpp/linkza/pkg/tile"
)

func mustTile(t *testing.T, typ tile.Type) *tile.Tile {
	t.Helper()
	tl, err := tile.New(typ, nil)
	if err != nil {
		t.Fatal(err)
	}
	return tl
}

func ids(tiles []*tile.Tile) []string {
	out := make([]string, len(tiles))
	for i, t := range tiles {
		out[i] = t.ID
	}
	return out
}

func TestPartition(t *testing.T) {
	profile := mustTile(t, tile.TypeProfile)
	a := mustTile(t, tile.TypeText)
	b := mustTile(t, tile.TypeLink)

	rail, rest := Partition([]*tile.Tile{a, profile, b})

	if len(rail) != 1 || rail[0] != profile {
		t.Errorf("rail = %v, want [profile]", ids(rail))
	}
	if len(rest) != 2 || rest[0] != a || rest[1] != b {
		t.Errorf("rest = %v, want [a b]", ids(rest))
	}
}

func TestPartitionNoProfile(t *testing.T) {
	a := mustTile(t, tile.TypeText)
	rail, rest := Partition([]*tile.Tile{a})
	if len(rail) != 0 || len(rest) != 1 {
		t.Errorf("Partition without profile: rail=%d rest=%d", len(rail), len(rest))
	}
}

func TestMove(t *testing.T) {
	tests := []struct {
		name     string
		in       []string
		from, to int
		want     []string
	}{
		{"forward", []string{"a", "b", "c", "d"}, 0, 2, []string{"b", "c", "a", "d"}},
		{"backward", []string{"a", "b", "c", "d"}, 3, 1, []string{"a", "d", "b", "c"}},
		{"to end", []string{"a", "b", "c"}, 0, 2, []string{"b", "c", "a"}},
		{"same index", []string{"a", "b"}, 1, 1, []string{"a", "b"}},
		{"from out of range", []string{"a", "b"}, 5, 0, []string{"a", "b"}},
		{"to out of range", []string{"a", "b"}, 0, 5, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Move(tt.in, tt.from, tt.to)
			if len(got) != len(tt.want) {
				t.Fatalf("Move() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Move() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

// Moving i to j must keep the relative order of all other elements.
func TestMovePreservesRelativeOrder(t *testing.T) {
	in := []string{"a", "b", "c", "d", "e"}
	for from := range in {
		for to := range in {
			got := Move(in, from, to)

			var rest []string
			for _, v := range got {
				if v != in[from] {
					rest = append(rest, v)
				}
			}
			var want []string
			for i, v := range in {
				if i != from {
					want = append(want, v)
				}
			}
			for i := range want {
				if rest[i] != want[i] {
					t.Fatalf("Move(%d,%d) disturbed order of other elements: %v", from, to, got)
				}
			}
		}
	}
}

func TestClosestCenter(t *testing.T) {
	// Centers: a (50,50), b (250,50), c (50,250).
	items := []ItemRect{
		{ID: "a", Rect: Rect{X: 0, Y: 0, W: 100, H: 100}},
		{ID: "b", Rect: Rect{X: 200, Y: 0, W: 100, H: 100}},
		{ID: "c", Rect: Rect{X: 0, Y: 200, W: 100, H: 100}},
	}

	tests := []struct {
		name string
		p    Point
		want string
	}{
		{"near a", Point{X: 40, Y: 60}, "a"},
		{"near b", Point{X: 260, Y: 40}, "b"},
		{"near c", Point{X: 60, Y: 240}, "c"},
		{"between a and b leans b", Point{X: 180, Y: 50}, "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClosestCenter(items, tt.p); got != tt.want {
				t.Errorf("ClosestCenter(%v) = %q, want %q", tt.p, got, tt.want)
			}
		})
	}

	if got := ClosestCenter(nil, Point{}); got != "" {
		t.Errorf("ClosestCenter(empty) = %q, want empty", got)
	}
}

func TestReorder(t *testing.T) {
	profile := mustTile(t, tile.TypeProfile)
	b := mustTile(t, tile.TypeText)
	c := mustTile(t, tile.TypeLink)
	d := mustTile(t, tile.TypeMap)
	seq := []*tile.Tile{profile, b, c, d}

	// Dragging B onto D: sortable [B C D] -> [C D B], profile stays first.
	got, ok := Reorder(seq, b.ID, d.ID)
	if !ok {
		t.Fatal("Reorder() reported no mutation")
	}
	want := []string{profile.ID, c.ID, d.ID, b.ID}
	for i, id := range ids(got) {
		if id != want[i] {
			t.Fatalf("Reorder() = %v, want %v", ids(got), want)
		}
	}
}

func TestReorderNoMutation(t *testing.T) {
	profile := mustTile(t, tile.TypeProfile)
	b := mustTile(t, tile.TypeText)
	c := mustTile(t, tile.TypeLink)
	seq := []*tile.Tile{profile, b, c}

	tests := []struct {
		name             string
		activeID, overID string
	}{
		{"self drop", b.ID, b.ID},
		{"unknown active", "ghost", c.ID},
		{"unknown target", b.ID, "ghost"},
		{"empty target", b.ID, ""},
		{"profile as active", profile.ID, c.ID},
		{"profile as target", b.ID, profile.ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Reorder(seq, tt.activeID, tt.overID)
			if ok {
				t.Errorf("Reorder() mutated: %v", ids(got))
			}
		})
	}
}

func TestColSpan(t *testing.T) {
	tests := []struct {
		w    int
		bp   Breakpoint
		want int
	}{
		{1, Desktop, 3}, {2, Desktop, 6}, {3, Desktop, 9}, {4, Desktop, 12}, {6, Desktop, 12},
		{1, Tablet, 2}, {2, Tablet, 3}, {3, Tablet, 4}, {4, Tablet, 6},
		{1, Mobile, 1}, {2, Mobile, 2}, {3, Mobile, 2}, {4, Mobile, 2},
	}
	for _, tt := range tests {
		if got := ColSpan(tt.w, tt.bp); got != tt.want {
			t.Errorf("ColSpan(%d, %v) = %d, want %d", tt.w, tt.bp, got, tt.want)
		}
	}
}

func TestRowSpan(t *testing.T) {
	if RowSpan(1) != 1 || RowSpan(2) != 2 || RowSpan(4) != 2 {
		t.Error("RowSpan mapping broken")
	}
}

func TestBreakpointColumns(t *testing.T) {
	if Mobile.Columns() != 2 || Tablet.Columns() != 6 || Desktop.Columns() != 12 {
		t.Error("Breakpoint.Columns mapping broken")
	}
}
