package texpaint

import (
	"errors"
	"fmt"

	"github.com/gogpu/texpaint/internal/color"
	"github.com/gogpu/texpaint/internal/history"
	"github.com/gogpu/texpaint/internal/paint"
	"github.com/gogpu/texpaint/internal/parallel"
	"github.com/gogpu/texpaint/internal/pixel"
)

// Engine owns the image buffers of one bound target and every edit made
// to them.
//
// The working image is always derived from the original image, the paint
// mask and the paint color layer by the compositing law, except right
// after InvertColors. Every mutating operation records an undo snapshot
// before it commits.
//
// Engine is not safe for concurrent use.
type Engine struct {
	binding TargetBinding
	display Display
	opts    options

	target TargetDescriptor
	bound  bool
	closed bool

	original   *pixel.Buffer
	working    *pixel.Buffer
	colorLayer *pixel.Buffer
	mask       *pixel.Mask
	selection  *pixel.Mask   // nil outside selection mode
	preview    *pixel.Buffer // selection preview scratch

	brush         BrushState
	fill          FillState
	symmetry      Symmetry
	opacity       float32
	adj           [3]color.Adjustment
	selectionMode bool
	detached      bool

	stroke         paint.Stroke
	strokeRecorded bool
	adjusting      bool
	adjustRecorded bool

	history *history.Manager[*snapshot]
	pool    *pixel.Pool
	workers *parallel.WorkerPool // started on the first large recompute

	cpu     CPUDispatch
	gpu     ComputeDispatch
	kernels Kernel
}

// New creates an engine for binding. Call Bind to load a target.
//
// The accelerator and its kernel set are resolved once here: kernels the
// accelerator does not report always run on the CPU.
func New(binding TargetBinding, opts ...Option) (*Engine, error) {
	if binding == nil {
		return nil, fmt.Errorf("%w: nil binding", ErrInvalidArgument)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine{
		binding:  binding,
		display:  o.display,
		opts:     o,
		brush:    o.brush,
		fill:     o.fill,
		symmetry: o.symmetry,
		opacity:  pixel.Clamp01(o.opacity),
		adj:      [3]color.Adjustment{color.Identity(), color.Identity(), color.Identity()},
		history:  history.New[*snapshot](o.undoCapacity),
		pool:     pixel.NewPool(4),
	}

	if o.gpu {
		e.gpu = o.accelerator
		if e.gpu == nil {
			e.gpu = Accelerator()
		}
	}
	if e.gpu != nil {
		e.kernels = e.gpu.Capabilities()
		Logger().Info("engine using accelerator", "name", e.gpu.Name(), "kernels", uint32(e.kernels))
	}
	return e, nil
}

// Bind loads target d. Binding another target while bound is recorded
// as an undoable target change; binding the current target is a no-op.
func (e *Engine) Bind(d TargetDescriptor) error {
	if e.closed {
		return ErrClosed
	}
	if e.bound && d == e.target {
		return nil
	}

	var prev *snapshot
	if e.bound {
		var err error
		if prev, err = e.capture(); err != nil {
			return err
		}
		e.endInput()
		e.releasePreview()
	}

	if err := e.load(d); err != nil {
		if prev != nil {
			prev.Release()
			if rerr := e.binding.Rebind(e.target); rerr != nil {
				Logger().Warn("restore previous target failed", "target", e.target.Target, "err", rerr)
			}
			e.present()
		}
		return err
	}

	if prev != nil {
		e.history.Record("change target", prev)
	}
	Logger().Info("target bound", "target", d.Target, "slot", d.Slot,
		"width", e.original.Width(), "height", e.original.Height())
	e.recompute()
	e.present()
	return nil
}

// load rebinds to d and replaces the buffers with its base image. Engine
// state is untouched on error.
func (e *Engine) load(d TargetDescriptor) error {
	if err := e.binding.Rebind(d); err != nil {
		return fmt.Errorf("texpaint: rebind %q: %w", d.Target, err)
	}
	w, h := e.binding.Dimensions()
	if err := e.checkBudget(w, h); err != nil {
		return err
	}
	base, err := e.binding.BaseImage()
	if err != nil {
		return fmt.Errorf("texpaint: base image of %q: %w", d.Target, err)
	}
	if base == nil || base.Width() != w || base.Height() != h {
		return fmt.Errorf("%w: base image does not match target dimensions %dx%d", ErrInvalidArgument, w, h)
	}

	if err := e.resize(w, h); err != nil {
		return err
	}
	if err := e.original.CopyFrom(base); err != nil {
		return err
	}
	e.working.CopyFrom(e.original)
	e.colorLayer.Clear()
	e.mask.Clear()
	if e.selection != nil {
		e.selection.Clear()
	}
	e.target = d
	e.bound = true
	e.detached = false
	return nil
}

// resize allocates the buffers on first use and resizes them in place
// afterwards so that references held by callers stay valid.
func (e *Engine) resize(w, h int) error {
	if err := e.checkBudget(w, h); err != nil {
		return err
	}
	if e.original == nil {
		var err error
		if e.original, err = pixel.NewBuffer(w, h); err != nil {
			return fmt.Errorf("%w: %w", ErrBufferAllocation, err)
		}
		e.working, _ = pixel.NewBuffer(w, h)
		e.colorLayer, _ = pixel.NewBuffer(w, h)
		e.mask, _ = pixel.NewMask(w, h)
	} else if e.original.Width() != w || e.original.Height() != h {
		for _, b := range []*pixel.Buffer{e.original, e.working, e.colorLayer} {
			if err := b.Resize(w, h); err != nil {
				return fmt.Errorf("%w: %w", ErrBufferAllocation, err)
			}
		}
		if err := e.mask.Resize(w, h); err != nil {
			return fmt.Errorf("%w: %w", ErrBufferAllocation, err)
		}
		e.preview = nil
	}
	if e.selection != nil && (e.selection.Width() != w || e.selection.Height() != h) {
		if err := e.selection.Resize(w, h); err != nil {
			return fmt.Errorf("%w: %w", ErrBufferAllocation, err)
		}
	}
	return nil
}

func (e *Engine) checkBudget(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: invalid size %dx%d", ErrBufferAllocation, w, h)
	}
	if e.opts.maxPixels > 0 && w*h > e.opts.maxPixels {
		return fmt.Errorf("%w: %dx%d exceeds budget of %d pixels", ErrBufferAllocation, w, h, e.opts.maxPixels)
	}
	return nil
}

// Unbind ends the editing session: the preview is released, history is
// cleared and the buffers are dropped.
func (e *Engine) Unbind() error {
	if e.closed {
		return ErrClosed
	}
	if !e.bound {
		return nil
	}
	e.endInput()
	err := e.releasePreview()
	e.history.Clear()
	e.original, e.working, e.colorLayer, e.mask = nil, nil, nil, nil
	e.selection, e.preview = nil, nil
	e.selectionMode = false
	e.detached = false
	e.bound = false
	Logger().Info("target unbound", "target", e.target.Target)
	e.target = TargetDescriptor{}
	return err
}

// Close unbinds and releases all resources. The registered accelerator is
// shared and stays open.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	err := e.Unbind()
	if e.workers != nil {
		e.workers.Close()
		e.workers = nil
	}
	e.closed = true
	return err
}

func (e *Engine) ready() error {
	if e.closed {
		return ErrClosed
	}
	if !e.bound {
		return ErrNotBound
	}
	return nil
}

// record saves the live state under label. Nothing is recorded while a
// snapshot is being applied.
func (e *Engine) record(label string) error {
	if e.history.Replaying() {
		return nil
	}
	s, err := e.capture()
	if err != nil {
		return err
	}
	e.history.Record(label, s)
	Logger().Debug("history recorded", "label", label, "depth", e.history.UndoLen())
	return nil
}

// present pushes the visible image to the target and asks the display to
// repaint. Direct-buffer targets are edited in place and get no push.
func (e *Engine) present() {
	if !e.bound {
		return
	}
	if !e.target.DirectBuffer {
		img := e.working
		if e.selectionMode {
			if err := e.renderSelectionPreview(); err != nil {
				Logger().Warn("selection preview failed", "err", err)
			} else {
				img = e.preview
			}
		}
		if err := e.binding.PushPreview(img); err != nil {
			Logger().Warn("push preview failed", "target", e.target.Target, "err", err)
		}
	}
	if e.display != nil {
		e.display.RequestRepaint()
	}
}

func (e *Engine) releasePreview() error {
	if !e.bound || e.target.DirectBuffer {
		return nil
	}
	if err := e.binding.ReleasePreview(); err != nil {
		Logger().Warn("release preview failed", "target", e.target.Target, "err", err)
		return fmt.Errorf("texpaint: release preview: %w", err)
	}
	return nil
}

// endInput finishes any stroke or adjustment drag in progress.
func (e *Engine) endInput() {
	e.stroke.End()
	e.strokeRecorded = false
	e.adjusting = false
	e.adjustRecorded = false
}

// Working returns the displayed image. The pointer stays valid across
// undo, redo and target changes until Unbind.
func (e *Engine) Working() *ImageBuffer { return e.working }

// Original returns the baseline image of the bound target.
func (e *Engine) Original() *ImageBuffer { return e.original }

// PaintMask returns the paint coverage mask.
func (e *Engine) PaintMask() *AlphaMask { return e.mask }

// PaintColorLayer returns the raw paint colors.
func (e *Engine) PaintColorLayer() *ImageBuffer { return e.colorLayer }

// SelectionMask returns the selection mask, or nil outside selection mode.
func (e *Engine) SelectionMask() *AlphaMask { return e.selection }

// Target returns the bound target descriptor.
func (e *Engine) Target() TargetDescriptor { return e.target }

// Bound reports whether a target is bound.
func (e *Engine) Bound() bool { return e.bound }

// Detached reports whether the working image differs from the compositing
// law since the last recompute, after InvertColors or a dab or fill whose
// result the law does not reproduce.
func (e *Engine) Detached() bool { return e.detached }

// Kernels returns the kernels that run on the accelerator.
func (e *Engine) Kernels() Kernel { return e.kernels }

// AcceleratorName returns the accelerator name, or "cpu".
func (e *Engine) AcceleratorName() string {
	if e.gpu == nil || e.kernels == 0 {
		return e.cpu.Name()
	}
	return e.gpu.Name()
}

// dispatch runs gpuFn when the accelerator supports every kernel in k and
// cpuFn otherwise or when gpuFn fails. gpuFn must not touch live state
// unless it succeeds.
func (e *Engine) dispatch(k Kernel, gpuFn func(ComputeDispatch) error, cpuFn func() error) error {
	if e.gpu != nil && e.kernels.Has(k) {
		err := gpuFn(e.gpu)
		if err == nil {
			Logger().Debug("kernel dispatched", "kernel", k.String(), "accelerator", e.gpu.Name())
			return nil
		}
		if errors.Is(err, ErrUnavailable) {
			Logger().Warn("accelerator unavailable, using CPU from now on", "accelerator", e.gpu.Name(), "err", err)
			e.kernels = 0
		} else {
			Logger().Warn("kernel falling back to CPU", "kernel", k.String(), "err", err)
		}
	}
	return cpuFn()
}
