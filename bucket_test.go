package texpaint

import "testing"

func TestBucketFill_Uniform(t *testing.T) {
	e, _ := newTestEngine(t, 4, 4, white, WithBrush(brush(1, 1, red)))
	if err := e.BucketFill(UV{}, FillState{Mode: FillColorSimilarity, Threshold: 0.1}); err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got := e.PaintMask().At(x, y); got != 1 {
				t.Errorf("mask(%d,%d) = %v, want 1", x, y, got)
			}
			if got := e.Working().At(x, y); got != red {
				t.Errorf("Working(%d,%d) = %v, want %v", x, y, got, red)
			}
		}
	}
	if e.UndoDepth() != 1 || e.UndoLabel() != "color fill" {
		t.Errorf("history = %d %q, want 1 \"color fill\"", e.UndoDepth(), e.UndoLabel())
	}
}

func TestBucketFill_NoOpRecordsNothing(t *testing.T) {
	e, b := newTestEngine(t, 4, 4, red, WithBrush(brush(1, 1, red)))
	pushes := b.pushes
	if err := e.BucketFill(UV{U: 0.5, V: 0.5}, FillState{Threshold: 0.1}); err != nil {
		t.Fatal(err)
	}
	if e.CanUndo() {
		t.Error("no-op fill recorded a snapshot")
	}
	if b.pushes != pushes {
		t.Error("no-op fill pushed a preview")
	}
}

func TestBucketFill_SeedOutsideIsNoOp(t *testing.T) {
	e, _ := newTestEngine(t, 4, 4, white)
	if err := e.BucketFill(UV{U: 2, V: 2}, FillState{}); err != nil {
		t.Fatal(err)
	}
	if e.CanUndo() {
		t.Error("outside seed recorded a snapshot")
	}
}

func TestBucketFill_BoundaryRegion(t *testing.T) {
	e, _ := newTestEngine(t, 5, 5, white)
	// Paint a full row that splits the canvas.
	for x := 0; x < 5; x++ {
		if err := e.ApplyBrush(uvOf(x, 2, 5, 5), brush(0, 1, blue)); err != nil {
			t.Fatal(err)
		}
	}
	e.SetBrush(brush(1, 1, red))
	if err := e.BucketFill(uvOf(0, 0, 5, 5), FillState{Mode: FillBoundaryRegion}); err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			want := white
			switch {
			case y < 2:
				want = red
			case y == 2:
				want = blue
			}
			if got := e.Working().At(x, y); got != want {
				t.Errorf("Working(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
	if e.FillSettings().Mode != FillBoundaryRegion {
		t.Error("BucketFill did not store the fill settings")
	}
}

func TestBucketFill_UndoRestores(t *testing.T) {
	e, _ := newTestEngine(t, 4, 4, white, WithBrush(brush(1, 1, red)))
	if err := e.BucketFill(UV{}, FillState{Threshold: 0.1}); err != nil {
		t.Fatal(err)
	}
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if !e.Working().Equal(e.Original()) || e.PaintMask().Any() {
		t.Error("Undo did not restore the unfilled state")
	}
}
