package texpaint

import (
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.undoCapacity != 50 {
		t.Errorf("undoCapacity = %d, want 50", o.undoCapacity)
	}
	if !o.gpu {
		t.Error("gpu disabled by default")
	}
	if o.brush.Radius != 8 || o.brush.Strength != 1 || o.brush.Color != red {
		t.Errorf("brush = %+v", o.brush)
	}
	if o.fill.Mode != FillColorSimilarity || o.opacity != 1 || o.symmetry.Axis != 0.5 {
		t.Errorf("options = %+v", o)
	}
}

func TestOptions(t *testing.T) {
	tests := []struct {
		name  string
		opt   Option
		check func(t *testing.T, o options)
	}{
		{"undo capacity", WithUndoCapacity(10), func(t *testing.T, o options) {
			if o.undoCapacity != 10 {
				t.Errorf("undoCapacity = %d", o.undoCapacity)
			}
		}},
		{"undo capacity ignored", WithUndoCapacity(0), func(t *testing.T, o options) {
			if o.undoCapacity != 50 {
				t.Errorf("undoCapacity = %d, want default", o.undoCapacity)
			}
		}},
		{"max pixels", WithMaxPixels(100), func(t *testing.T, o options) {
			if o.maxPixels != 100 {
				t.Errorf("maxPixels = %d", o.maxPixels)
			}
		}},
		{"workers", WithWorkers(3), func(t *testing.T, o options) {
			if o.workers != 3 {
				t.Errorf("workers = %d", o.workers)
			}
		}},
		{"negative workers", WithWorkers(-2), func(t *testing.T, o options) {
			if o.workers != 0 {
				t.Errorf("workers = %d, want 0", o.workers)
			}
		}},
		{"display", WithDisplay(&mockDisplay{}), func(t *testing.T, o options) {
			if o.display == nil {
				t.Error("display not set")
			}
		}},
		{"accelerator", WithAccelerator(CPUDispatch{}), func(t *testing.T, o options) {
			if o.accelerator == nil {
				t.Error("accelerator not set")
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := defaultOptions()
			tt.opt(&o)
			tt.check(t, o)
		})
	}
}

func TestNew_OpacityClamped(t *testing.T) {
	e, err := New(newMockBinding(), WithGPU(false), WithPaintOpacity(3))
	if err != nil {
		t.Fatal(err)
	}
	if e.PaintOpacity() != 1 {
		t.Errorf("PaintOpacity() = %v, want 1", e.PaintOpacity())
	}
}

// TestWorkers_LargeCanvas checks that banded CPU compositing gives the same
// image as a single-goroutine engine.
func TestWorkers_LargeCanvas(t *testing.T) {
	const w, h = 256, 160
	banded, _ := newTestEngine(t, w, h, grey, WithWorkers(4))
	defer banded.Close()
	serial, _ := newTestEngine(t, w, h, grey, WithWorkers(1))
	defer serial.Close()

	for _, e := range []*Engine{banded, serial} {
		if err := e.ApplyBrush(uvOf(100, 80, w, h), brush(20, 0.7, blue)); err != nil {
			t.Fatal(err)
		}
		if err := e.SetColorAdjustment(AdjustGlobal, Hue, 0.25); err != nil {
			t.Fatal(err)
		}
		if err := e.SetColorAdjustment(AdjustPainted, Saturation, 0.5); err != nil {
			t.Fatal(err)
		}
	}
	if banded.workers == nil {
		t.Fatal("worker pool not started for a large canvas")
	}
	if serial.workers != nil {
		t.Error("worker pool started with WithWorkers(1)")
	}
	if !banded.Working().Equal(serial.Working()) {
		t.Error("banded engine differs from serial engine")
	}

	banded.Close()
	if banded.workers != nil {
		t.Error("Close left the worker pool running")
	}
}
