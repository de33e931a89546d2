package paint

import (
	"image"
	"math"
	"testing"

	"github.com/gogpu/texpaint/internal/blend"
	"github.com/gogpu/texpaint/internal/pixel"
)

func newTile(t *testing.T, w, h int) *Tile {
	t.Helper()
	tile := &Tile{}
	tile.Working, _ = pixel.NewBuffer(w, h)
	tile.Original, _ = pixel.NewBuffer(w, h)
	tile.ColorLayer, _ = pixel.NewBuffer(w, h)
	tile.Mask, _ = pixel.NewMask(w, h)
	tile.Original.Fill(pixel.RGBA{R: 0.2, G: 0.3, B: 0.4, A: 1})
	tile.Working.CopyFrom(tile.Original)
	return tile
}

var red = pixel.RGBA{R: 1, A: 1}

func TestCenter(t *testing.T) {
	tests := []struct {
		uv   UV
		w, h int
		want image.Point
	}{
		{UV{0, 0}, 10, 10, image.Pt(0, 0)},
		{UV{1, 1}, 10, 10, image.Pt(9, 9)},
		{UV{0.5, 0.5}, 11, 11, image.Pt(5, 5)},
		{UV{0.8, 0.2}, 11, 6, image.Pt(8, 1)},
		{UV{1e30, 0.5}, 11, 11, image.Pt(coordLimit, 5)},
		{UV{-1e30, -1e30}, 11, 11, image.Pt(-coordLimit, -coordLimit)},
	}
	for _, tt := range tests {
		if got := Center(tt.uv, tt.w, tt.h); got != tt.want {
			t.Errorf("Center(%v, %d, %d) = %v, want %v", tt.uv, tt.w, tt.h, got, tt.want)
		}
	}
}

func TestUV_Finite(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(-1))
	tests := []struct {
		uv   UV
		want bool
	}{
		{UV{0.5, 0.5}, true},
		{UV{1e30, -1e30}, true},
		{UV{nan, 0}, false},
		{UV{0, inf}, false},
	}
	for _, tt := range tests {
		if got := tt.uv.Finite(); got != tt.want {
			t.Errorf("%v.Finite() = %v, want %v", tt.uv, got, tt.want)
		}
	}
}

func TestBox(t *testing.T) {
	if got, want := Box(image.Pt(0, 0), 2, 10, 10), image.Rect(0, 0, 3, 3); got != want {
		t.Errorf("Box = %v, want %v", got, want)
	}
	if got, want := Box(image.Pt(5, 5), 1, 10, 10), image.Rect(4, 4, 7, 7); got != want {
		t.Errorf("Box = %v, want %v", got, want)
	}
	if got := Box(image.Pt(coordLimit, 5), 2, 10, 10); !got.Empty() {
		t.Errorf("Box far off canvas = %v, want empty", got)
	}
	if got, want := Box(image.Pt(5, 5), math.MaxInt, 10, 10), image.Rect(0, 0, 10, 10); got != want {
		t.Errorf("Box with huge radius = %v, want %v", got, want)
	}
}

func TestDab_Paint(t *testing.T) {
	tile := newTile(t, 5, 5)
	p := Params{Center: image.Pt(2, 2), Radius: 1, Color: red, Raw: red, Strength: 0.5}
	if n := Dab(tile, p); n != 5 {
		t.Fatalf("Dab wrote %d pixels, want 5", n)
	}
	want := blend.StrengthBlend(red, 0.5, tile.Original.At(2, 2))
	if got := tile.Working.At(2, 1); got != want {
		t.Errorf("working = %v, want %v", got, want)
	}
	if tile.Mask.At(2, 1) != 0.5 || tile.ColorLayer.At(2, 1) != red {
		t.Error("mask or color layer not written")
	}
	if tile.Mask.At(1, 1) != 0 {
		t.Error("corner outside radius painted")
	}
}

func TestDab_AdjustedVsRaw(t *testing.T) {
	tile := newTile(t, 3, 3)
	adjusted := pixel.RGBA{R: 0.5, A: 1}
	Dab(tile, Params{Center: image.Pt(1, 1), Radius: 0, Color: adjusted, Raw: red, Strength: 1})
	if tile.Working.At(1, 1) != adjusted {
		t.Errorf("working = %v, want adjusted color", tile.Working.At(1, 1))
	}
	if tile.ColorLayer.At(1, 1) != red {
		t.Errorf("color layer = %v, want raw color", tile.ColorLayer.At(1, 1))
	}
}

func TestDab_StrokeDedup(t *testing.T) {
	tile := newTile(t, 5, 5)
	tile.Visited = pixel.NewBitset(25)
	p := Params{Center: image.Pt(2, 2), Radius: 1, Color: red, Raw: red, Strength: 0.5}
	Dab(tile, p)
	first := tile.Working.Clone()

	p.Strength = 1
	if n := Dab(tile, p); n != 0 {
		t.Errorf("second dab in stroke wrote %d pixels, want 0", n)
	}
	if !tile.Working.Equal(first) || tile.Mask.At(2, 2) != 0.5 {
		t.Error("second dab changed a visited pixel")
	}

	// Outside a stroke the same dab overwrites.
	tile.Visited = nil
	if n := Dab(tile, p); n != 5 {
		t.Errorf("dab outside stroke wrote %d pixels, want 5", n)
	}
	if tile.Mask.At(2, 2) != 1 {
		t.Error("dab outside stroke did not overwrite")
	}
}

func TestDab_EraseRestoresOriginal(t *testing.T) {
	tile := newTile(t, 5, 5)
	tile.Visited = pixel.NewBitset(25)
	Dab(tile, Params{Center: image.Pt(2, 2), Radius: 2, Color: red, Raw: red, Strength: 1})
	// Simulate a global adjustment having changed working elsewhere.
	tile.Working.Set(2, 2, pixel.RGBA{G: 1, A: 1})

	Dab(tile, Params{Center: image.Pt(2, 2), Radius: 0, Erase: true})
	if tile.Working.At(2, 2) != tile.Original.At(2, 2) {
		t.Errorf("erase working = %v, want raw original", tile.Working.At(2, 2))
	}
	if tile.Mask.At(2, 2) != 0 || tile.ColorLayer.At(2, 2) != pixel.Transparent {
		t.Error("erase left mask or color")
	}
	if tile.Visited.Has(2*5 + 2) {
		t.Error("erase left pixel visited")
	}
	// Erased pixel can be repainted in the same stroke.
	if n := Dab(tile, Params{Center: image.Pt(2, 2), Radius: 0, Color: red, Raw: red, Strength: 1}); n != 1 {
		t.Errorf("repaint after erase wrote %d, want 1", n)
	}
}

func TestSelectionDab(t *testing.T) {
	sel, _ := pixel.NewMask(4, 4)
	tile := &Tile{Mask: sel, Visited: pixel.NewBitset(16)}
	if n := SelectionDab(tile, Params{Center: image.Pt(1, 1), Radius: 1, Strength: 0.7}); n != 5 {
		t.Fatalf("SelectionDab wrote %d, want 5", n)
	}
	if sel.At(1, 0) != 0.7 {
		t.Errorf("selection = %v, want 0.7", sel.At(1, 0))
	}
	if n := SelectionDab(tile, Params{Center: image.Pt(1, 1), Radius: 1, Strength: 1}); n != 0 {
		t.Errorf("dedup failed: wrote %d", n)
	}
	SelectionDab(tile, Params{Center: image.Pt(1, 1), Radius: 0, Erase: true})
	if sel.At(1, 1) != 0 {
		t.Error("selection erase did not clear")
	}
}

func TestSymmetry_Mirror(t *testing.T) {
	sym := Symmetry{Enabled: true, AxisLocked: true, Axis: 0.5}
	w := 11
	c := Center(UV{0.8, 0.5}, w, w)
	m, ok := sym.Mirror(c, w)
	if !ok {
		t.Fatal("no mirror for uv 0.8")
	}
	if want := Center(UV{0.2, 0.5}, w, w); m != want {
		t.Errorf("mirror = %v, want %v", m, want)
	}

	tests := []struct {
		name string
		sym  Symmetry
		c    image.Point
	}{
		{"disabled", Symmetry{AxisLocked: true, Axis: 0.5}, image.Pt(8, 0)},
		{"unlocked", Symmetry{Enabled: true, Axis: 0.5}, image.Pt(8, 0)},
		{"on axis", sym, image.Pt(5, 0)},
		{"out of range", Symmetry{Enabled: true, AxisLocked: true, Axis: 0.9}, image.Pt(1, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := tt.sym.Mirror(tt.c, w); ok {
				t.Error("unexpected mirror")
			}
			if got := len(tt.sym.Centers(tt.c, w)); got != 1 {
				t.Errorf("Centers len = %d, want 1", got)
			}
		})
	}
}

func TestStageCommit_MatchesInPlace(t *testing.T) {
	inPlace := newTile(t, 8, 8)
	staged := newTile(t, 8, 8)
	p := Params{Center: image.Pt(6, 1), Radius: 3, Color: red, Raw: red, Strength: 0.8}

	Dab(inPlace, p)

	local, err := Stage(staged, Box(p.Center, p.Radius, 8, 8))
	if err != nil {
		t.Fatal(err)
	}
	Dab(local, p)
	Commit(staged, local)

	if !inPlace.Working.Equal(staged.Working) || !inPlace.Mask.Equal(staged.Mask) ||
		!inPlace.ColorLayer.Equal(staged.ColorLayer) {
		t.Error("staged dab differs from in-place dab")
	}
}

func TestStroke(t *testing.T) {
	var s Stroke
	if s.Visited() != nil || s.Local(image.Rect(0, 0, 2, 2)) != nil {
		t.Error("visited set outside stroke")
	}
	s.Begin(4, 4)
	s.Visited().Add(1*4 + 2)
	r := image.Rect(1, 1, 3, 3)
	local := s.Local(r)
	if !local.Has(0*2+1) || local.Count() != 1 {
		t.Error("Local did not translate indices")
	}
	local.Add(1*2 + 0)
	local.Remove(0*2 + 1)
	s.Merge(r, local)
	if s.Visited().Has(1*4+2) || !s.Visited().Has(2*4+1) {
		t.Error("Merge did not write back")
	}
	s.End()
	if s.Active() {
		t.Error("stroke still active")
	}
	s.Begin(4, 4)
	if s.Visited().Count() != 0 {
		t.Error("Begin did not clear visited")
	}
}
