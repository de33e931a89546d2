package texpaint

import (
	"image"

	"github.com/gogpu/texpaint/internal/composite"
	"github.com/gogpu/texpaint/internal/paint"
	"github.com/gogpu/texpaint/internal/parallel"
	"github.com/gogpu/texpaint/internal/pixel"
)

// CPUDispatch runs every kernel on the CPU. It is the reference the GPU
// kernels are checked against and the fallback for any failed dispatch.
type CPUDispatch struct{}

var _ ComputeDispatch = CPUDispatch{}

// Name returns "cpu".
func (CPUDispatch) Name() string { return "cpu" }

// Init does nothing.
func (CPUDispatch) Init() error { return nil }

// Close does nothing.
func (CPUDispatch) Close() {}

// Capabilities reports every kernel.
func (CPUDispatch) Capabilities() Kernel { return AllKernels }

// PaintBrush paints or erases d on t.
func (CPUDispatch) PaintBrush(t *BrushTile, d BrushDab) error {
	paint.Dab(t, d)
	return nil
}

// SelectionPaint writes d into the selection tile.
func (CPUDispatch) SelectionPaint(t *BrushTile, d BrushDab) error {
	d.Erase = false
	paint.SelectionDab(t, d)
	return nil
}

// SelectionErase clears d from the selection tile.
func (CPUDispatch) SelectionErase(t *BrushTile, d BrushDab) error {
	d.Erase = true
	paint.SelectionDab(t, d)
	return nil
}

// ApplyColorAdjustment writes src transformed by adj into dst.
func (CPUDispatch) ApplyColorAdjustment(dst, src *ImageBuffer, adj ColorAdjustment) error {
	return composite.ApplyColorAdjustment(dst, src, adj)
}

// ApplyPaintOpacity composites covered pixels.
func (CPUDispatch) ApplyPaintOpacity(dst, original, adjustedLayer *ImageBuffer, mask *AlphaMask, opacity float32) error {
	return composite.ApplyPaintOpacity(dst, original, adjustedLayer, mask, opacity)
}

// ClearWithMask restores original under the mask.
func (CPUDispatch) ClearWithMask(dst, original *ImageBuffer, mask *AlphaMask) error {
	return composite.ClearWithMask(dst, original, mask)
}

// ApplyColorAdjustmentToNonPaintedAreas copies adjusted into uncovered pixels.
func (CPUDispatch) ApplyColorAdjustmentToNonPaintedAreas(dst, adjusted *ImageBuffer, mask *AlphaMask) error {
	return composite.ApplyToNonPainted(dst, adjusted, mask)
}

// recomputeKernels is the kernel set of the GPU compositing pipeline.
const recomputeKernels = KernelColorAdjustment | KernelPaintOpacity | KernelNonPainted

// recompute rebuilds the working image from the compositing law and
// reattaches it.
func (e *Engine) recompute() {
	if !e.bound {
		return
	}
	p := e.compositeParams()
	if w, h := e.original.Width(), e.original.Height(); w*h >= 2*parallel.MinBandPixels {
		p.Workers = e.workerPool()
	}
	err := e.dispatch(recomputeKernels, e.gpuRecompute, func() error {
		return composite.Recompute(e.layers(), p, image.Rectangle{})
	})
	if err != nil {
		// Buffers always match in size while bound.
		Logger().Warn("recompute failed", "err", err)
		return
	}
	e.detached = false
}

// gpuRecompute runs the compositing law as separate kernels on staged
// buffers and commits the result only when every kernel succeeded.
func (e *Engine) gpuRecompute(a ComputeDispatch) error {
	w, h := e.original.Width(), e.original.Height()
	adjusted, err := e.pool.Buffer(w, h)
	if err != nil {
		return err
	}
	defer e.pool.PutBuffer(adjusted)
	adjustedLayer, err := e.pool.Buffer(w, h)
	if err != nil {
		return err
	}
	defer e.pool.PutBuffer(adjustedLayer)
	staged, err := e.pool.Buffer(w, h)
	if err != nil {
		return err
	}
	defer e.pool.PutBuffer(staged)

	if err := a.ApplyColorAdjustment(adjusted, e.original, e.adj[AdjustGlobal]); err != nil {
		return err
	}
	if err := a.ApplyColorAdjustment(adjustedLayer, e.colorLayer, e.adj[AdjustPainted]); err != nil {
		return err
	}
	if err := a.ApplyPaintOpacity(staged, e.original, adjustedLayer, e.mask, e.opacity); err != nil {
		return err
	}
	if err := a.ApplyColorAdjustmentToNonPaintedAreas(staged, adjusted, e.mask); err != nil {
		return err
	}
	return e.working.CopyFrom(staged)
}

// lawTolerance is the largest per-component difference from the
// compositing law that still counts as attached.
const lawTolerance = 1e-6

// detachIfOffLaw marks the working image detached when a dab or fill left
// pixels inside region that the compositing law would not produce, as
// happens with paint opacity below one or an erase under a global
// adjustment. Undo then restores those pixels as they were instead of
// recomputing them.
func (e *Engine) detachIfOffLaw(region image.Rectangle) {
	if e.detached || !e.bound {
		return
	}
	off, err := composite.Deviates(e.layers(), e.compositeParams(), region, lawTolerance)
	if err != nil {
		Logger().Warn("compositing check failed", "err", err)
		return
	}
	if off {
		e.detached = true
		Logger().Debug("working image detached from compositing law", "region", region.String())
	}
}

// workerPool starts the CPU worker pool on first use.
func (e *Engine) workerPool() *parallel.WorkerPool {
	if e.opts.workers == 1 {
		return nil
	}
	if e.workers == nil {
		e.workers = parallel.NewWorkerPool(e.opts.workers)
		Logger().Debug("cpu worker pool started", "workers", e.workers.Workers())
	}
	return e.workers
}

func (e *Engine) compositeParams() composite.Params {
	return composite.Params{
		Opacity: e.opacity,
		Global:  e.adj[AdjustGlobal],
		Painted: e.adj[AdjustPainted],
	}
}

func (e *Engine) layers() composite.Layers {
	return composite.Layers{
		Working:    e.working,
		Original:   e.original,
		ColorLayer: e.colorLayer,
		Mask:       e.mask,
	}
}

// paintTile returns a tile spanning the whole canvas over the live layers.
func (e *Engine) paintTile() *paint.Tile {
	if e.selectionMode {
		return &paint.Tile{Mask: e.selection}
	}
	return &paint.Tile{
		Working:    e.working,
		Original:   e.original,
		ColorLayer: e.colorLayer,
		Mask:       e.mask,
	}
}

// brushKernel runs one dab. The GPU path works on box-local staged copies
// that are committed only on success; the CPU path writes in place.
func (e *Engine) brushKernel(k Kernel, d paint.Params, run func(ComputeDispatch, *BrushTile, BrushDab) error) error {
	full := e.paintTile()
	box := paint.Box(d.Center, d.Radius, full.Mask.Width(), full.Mask.Height())
	if box.Empty() {
		return nil
	}
	return e.dispatch(k, func(a ComputeDispatch) error {
		t, err := paint.Stage(full, box)
		if err != nil {
			return err
		}
		t.Visited = e.stroke.Local(box)
		if err := run(a, t, d); err != nil {
			return err
		}
		paint.Commit(full, t)
		e.stroke.Merge(box, t.Visited)
		return nil
	}, func() error {
		full.Visited = e.stroke.Visited()
		return run(e.cpu, full, d)
	})
}

func runPaintBrush(a ComputeDispatch, t *BrushTile, d BrushDab) error {
	return a.PaintBrush(t, d)
}

func runSelectionPaint(a ComputeDispatch, t *BrushTile, d BrushDab) error {
	return a.SelectionPaint(t, d)
}

func runSelectionErase(a ComputeDispatch, t *BrushTile, d BrushDab) error {
	return a.SelectionErase(t, d)
}

// clearWithMask restores the original under the paint mask.
func (e *Engine) clearWithMask() error {
	return e.dispatch(KernelClearWithMask, func(a ComputeDispatch) error {
		staged, err := e.pool.CloneBuffer(e.working)
		if err != nil {
			return err
		}
		defer e.pool.PutBuffer(staged)
		if err := a.ClearWithMask(staged, e.original, e.mask); err != nil {
			return err
		}
		return e.working.CopyFrom(staged)
	}, func() error {
		return e.cpu.ClearWithMask(e.working, e.original, e.mask)
	})
}

// renderSelectionPreview fills e.preview from the working image and the
// selection.
func (e *Engine) renderSelectionPreview() error {
	w, h := e.working.Width(), e.working.Height()
	if e.preview == nil || e.preview.Width() != w || e.preview.Height() != h {
		var err error
		if e.preview, err = pixel.NewBuffer(w, h); err != nil {
			return err
		}
	}
	adj := e.adj[AdjustSelection]
	if !adj.IsIdentity() && e.gpu != nil && e.kernels.Has(KernelColorAdjustment) {
		// Full-buffer adjustment on the GPU, then copy only the selected
		// pixels over the working image.
		err := e.dispatch(KernelColorAdjustment, func(a ComputeDispatch) error {
			adjusted, err := e.pool.Buffer(w, h)
			if err != nil {
				return err
			}
			defer e.pool.PutBuffer(adjusted)
			if err := a.ApplyColorAdjustment(adjusted, e.working, adj); err != nil {
				return err
			}
			e.preview.CopyFrom(e.working)
			for i, m := range e.selection.Alpha() {
				if m > pixel.CoverageThreshold {
					e.preview.SetIndex(i, adjusted.AtIndex(i))
				}
			}
			return nil
		}, func() error {
			return composite.SelectionPreview(e.preview, e.working, e.selection, adj)
		})
		return err
	}
	return composite.SelectionPreview(e.preview, e.working, e.selection, adj)
}
