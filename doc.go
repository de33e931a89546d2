// Package texpaint is a texture painting engine.
//
// # Overview
//
// An Engine edits the image of one bound visual target. It keeps four
// buffers of the target's size:
//   - Original: the pristine base image
//   - Working: the displayed result
//   - PaintMask: per-pixel paint coverage
//   - PaintColorLayer: the raw paint colors
//
// Working is derived from the other three by the compositing law: covered
// pixels blend the painted-area adjusted paint color over the original with
// mask×opacity, uncovered pixels show the globally adjusted original.
//
// # Quick Start
//
//	e, err := texpaint.New(binding, texpaint.WithUndoCapacity(100))
//	if err != nil {
//	    return err
//	}
//	defer e.Close()
//
//	if err := e.Bind(texpaint.TargetDescriptor{Target: "albedo"}); err != nil {
//	    return err
//	}
//
//	e.StrokeBegin()
//	e.ApplyBrush(texpaint.UV{U: 0.5, V: 0.5}, e.Brush())
//	e.StrokeEnd()
//
//	e.Undo()
//
// # Operations
//
// Brush dabs, bucket fills, color adjustments, clearing and inverting are
// recorded as snapshots of the whole engine state. Undo and Redo restore
// them, including the bound target. Inside StrokeBegin/StrokeEnd every
// pixel is painted once and the stroke is a single undo step; the same
// holds for adjustment drags between BeginAdjustment and EndAdjustment.
//
// Selection mode redirects brush and fill to a selection mask that is
// previewed over the working image.
//
// # GPU Acceleration
//
// Kernels run on the CPU by default. Importing the gpu package registers a
// Vulkan compute accelerator:
//
//	import _ "github.com/gogpu/texpaint/gpu"
//
// Any GPU failure falls back to the CPU kernel for that call.
//
// # Coordinate System
//
// UV (0,0) maps to the top-left pixel and (1,1) to the bottom-right one.
package texpaint
