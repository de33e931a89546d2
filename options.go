package texpaint

import "github.com/gogpu/texpaint/internal/history"

// Option configures an Engine during creation.
//
// Example:
//
//	eng, err := texpaint.New(binding,
//	    texpaint.WithDisplay(view),
//	    texpaint.WithUndoCapacity(100),
//	)
type Option func(*options)

// options holds optional configuration for Engine creation.
type options struct {
	display      Display
	undoCapacity int
	maxPixels    int
	gpu          bool
	accelerator  ComputeDispatch
	brush        BrushState
	fill         FillState
	symmetry     Symmetry
	opacity      float32
	workers      int
}

// defaultOptions returns the default engine options.
func defaultOptions() options {
	return options{
		undoCapacity: history.DefaultCapacity,
		gpu:          true,
		brush: BrushState{
			Radius:   8,
			Strength: 1,
			Color:    RGBA{R: 1, A: 1},
		},
		fill:     FillState{Mode: FillColorSimilarity, Threshold: 0.1},
		symmetry: Symmetry{Axis: 0.5},
		opacity:  1,
	}
}

// WithDisplay sets the display notified after every visible change.
func WithDisplay(d Display) Option {
	return func(o *options) {
		o.display = d
	}
}

// WithUndoCapacity sets the number of entries kept on each history stack.
// Non-positive values keep the default of 50.
func WithUndoCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.undoCapacity = n
		}
	}
}

// WithMaxPixels limits the size of any buffer the engine allocates.
// Zero means no limit.
func WithMaxPixels(n int) Option {
	return func(o *options) {
		o.maxPixels = n
	}
}

// WithGPU enables or disables use of the registered accelerator.
func WithGPU(enabled bool) Option {
	return func(o *options) {
		o.gpu = enabled
	}
}

// WithAccelerator injects an accelerator instead of the registered one.
// Its Init is not called.
func WithAccelerator(a ComputeDispatch) Option {
	return func(o *options) {
		o.accelerator = a
	}
}

// WithBrush sets the initial brush.
func WithBrush(b BrushState) Option {
	return func(o *options) {
		o.brush = b
	}
}

// WithFill sets the initial bucket fill settings.
func WithFill(f FillState) Option {
	return func(o *options) {
		o.fill = f
	}
}

// WithSymmetry sets the initial symmetry settings.
func WithSymmetry(s Symmetry) Option {
	return func(o *options) {
		o.symmetry = s
	}
}

// WithPaintOpacity sets the initial paint opacity.
func WithPaintOpacity(v float32) Option {
	return func(o *options) {
		o.opacity = v
	}
}

// WithWorkers sets the number of goroutines used by CPU compositing on
// large canvases. Zero uses GOMAXPROCS; one keeps all work on the caller.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = max(n, 0)
	}
}
