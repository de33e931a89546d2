//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/texpaint"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// Accelerator runs the texpaint kernels as wgpu/hal compute shaders. It
// implements texpaint.ComputeDispatch.
//
// Every call uploads its inputs, dispatches one compute pass, waits on a
// fence and reads the result back. Init never fails: without a usable
// device Capabilities reports no kernels and the engine stays on the CPU.
type Accelerator struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	shaders    [pipelineCount]hal.ShaderModule
	pipelines  [pipelineCount]hal.ComputePipeline

	gpuReady       bool
	externalDevice bool // true when using shared device (don't destroy on Close)

	logger atomic.Pointer[slog.Logger]
}

var _ texpaint.ComputeDispatch = (*Accelerator)(nil)

// Name returns "wgpu".
func (a *Accelerator) Name() string { return "wgpu" }

// Init opens a Vulkan device and builds the pipelines. A missing device
// is logged and leaves the accelerator without capabilities.
func (a *Accelerator) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.initGPU(); err != nil {
		a.log().Warn("gpu: init failed, using CPU kernels", "err", err)
	}
	return nil
}

// Capabilities reports every kernel once the device is ready.
func (a *Accelerator) Capabilities() texpaint.Kernel {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.gpuReady {
		return 0
	}
	return texpaint.AllKernels
}

// Close releases the pipelines and, unless shared, the device.
func (a *Accelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.destroyPipelines()
	if !a.externalDevice {
		if a.device != nil {
			a.device.Destroy()
		}
		if a.instance != nil {
			a.instance.Destroy()
		}
	}
	a.device = nil
	a.instance = nil
	a.queue = nil
	a.gpuReady = false
	a.externalDevice = false
}

// SetDeviceProvider switches the accelerator to a shared GPU device. The
// provider must implement HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue.
func (a *Accelerator) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return errors.New("gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return errors.New("gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return errors.New("gpu: provider HalQueue is not hal.Queue")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.destroyPipelines()
	if !a.externalDevice && a.device != nil {
		a.device.Destroy()
	}
	if a.instance != nil {
		a.instance.Destroy()
		a.instance = nil
	}

	a.device = device
	a.queue = queue
	a.externalDevice = true

	if err := a.createPipelines(); err != nil {
		a.gpuReady = false
		return fmt.Errorf("gpu: create pipelines with shared device: %w", err)
	}
	a.gpuReady = true
	a.log().Info("gpu: switched to shared GPU device")
	return nil
}

// PaintBrush paints or erases d on the tile.
func (a *Accelerator) PaintBrush(t *texpaint.BrushTile, d texpaint.BrushDab) error {
	p := brushParams(t, d)
	rec := packBrushTile(t)
	if err := a.run(pipelineBrush, &p, t.Original.Pix(), nil, nil, rec); err != nil {
		return err
	}
	unpackBrushTile(rec, t)
	return nil
}

// SelectionPaint writes d into the selection tile.
func (a *Accelerator) SelectionPaint(t *texpaint.BrushTile, d texpaint.BrushDab) error {
	d.Erase = false
	return a.selection(t, d)
}

// SelectionErase clears d from the selection tile.
func (a *Accelerator) SelectionErase(t *texpaint.BrushTile, d texpaint.BrushDab) error {
	d.Erase = true
	return a.selection(t, d)
}

func (a *Accelerator) selection(t *texpaint.BrushTile, d texpaint.BrushDab) error {
	p := brushParams(t, d)
	rec := packSelectionTile(t)
	if err := a.run(pipelineSelection, &p, nil, nil, nil, rec); err != nil {
		return err
	}
	unpackSelectionTile(rec, t)
	return nil
}

// ApplyColorAdjustment writes src transformed by adj into dst. The
// identity adjustment is an exact copy and needs no dispatch.
func (a *Accelerator) ApplyColorAdjustment(dst, src *texpaint.ImageBuffer, adj texpaint.ColorAdjustment) error {
	if !dst.SameSize(src) {
		return errSizeMismatch
	}
	if adj.IsIdentity() {
		return dst.CopyFrom(src)
	}
	p := adjustParams(src.Len(), adj)
	return a.run(pipelineAdjust, &p, src.Pix(), nil, nil, dst.Pix())
}

// ApplyPaintOpacity composites covered pixels of dst.
func (a *Accelerator) ApplyPaintOpacity(dst, original, adjustedLayer *texpaint.ImageBuffer, mask *texpaint.AlphaMask, opacity float32) error {
	if !dst.SameSize(original) || !dst.SameSize(adjustedLayer) || !maskFits(mask, dst) {
		return errSizeMismatch
	}
	p := kernelParams{Count: uint32(dst.Len()), Mode: modePaintOpacity, Opacity: opacity} //nolint:gosec // pixel counts fit uint32
	return a.run(pipelineComposite, &p, original.Pix(), adjustedLayer.Pix(), mask.Alpha(), dst.Pix())
}

// ClearWithMask restores original into covered pixels of dst.
func (a *Accelerator) ClearWithMask(dst, original *texpaint.ImageBuffer, mask *texpaint.AlphaMask) error {
	if !dst.SameSize(original) || !maskFits(mask, dst) {
		return errSizeMismatch
	}
	p := kernelParams{Count: uint32(dst.Len()), Mode: modeClearWithMask} //nolint:gosec // pixel counts fit uint32
	return a.run(pipelineComposite, &p, original.Pix(), nil, mask.Alpha(), dst.Pix())
}

// ApplyColorAdjustmentToNonPaintedAreas copies adjusted into uncovered
// pixels of dst.
func (a *Accelerator) ApplyColorAdjustmentToNonPaintedAreas(dst, adjusted *texpaint.ImageBuffer, mask *texpaint.AlphaMask) error {
	if !dst.SameSize(adjusted) || !maskFits(mask, dst) {
		return errSizeMismatch
	}
	p := kernelParams{Count: uint32(dst.Len()), Mode: modeNonPainted} //nolint:gosec // pixel counts fit uint32
	return a.run(pipelineComposite, &p, adjusted.Pix(), nil, mask.Alpha(), dst.Pix())
}

var errSizeMismatch = fmt.Errorf("%w: buffer size mismatch", texpaint.ErrFallbackToCPU)

func maskFits(m *texpaint.AlphaMask, b *texpaint.ImageBuffer) bool {
	return m != nil && m.Width() == b.Width() && m.Height() == b.Height()
}

func (a *Accelerator) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return errors.New("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	a.instance = instance
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return errors.New("no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	a.device = openDev.Device
	a.queue = openDev.Queue
	if err := a.createPipelines(); err != nil {
		a.device.Destroy()
		a.device = nil
		a.queue = nil
		return fmt.Errorf("create pipelines: %w", err)
	}
	a.gpuReady = true
	a.log().Info("gpu: accelerator initialized", "adapter", selected.Info.Name)
	return nil
}

func (a *Accelerator) createPipelines() error {
	storage := func(binding uint32, t gputypes.BufferBindingType) gputypes.BindGroupLayoutEntry {
		return gputypes.BindGroupLayoutEntry{
			Binding: binding, Visibility: gputypes.ShaderStageCompute,
			Buffer: &gputypes.BufferBindingLayout{Type: t},
		}
	}
	bindLayout, err := a.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "texpaint_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			storage(0, gputypes.BufferBindingTypeUniform),
			storage(1, gputypes.BufferBindingTypeReadOnlyStorage),
			storage(2, gputypes.BufferBindingTypeReadOnlyStorage),
			storage(3, gputypes.BufferBindingTypeReadOnlyStorage),
			storage(4, gputypes.BufferBindingTypeStorage),
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	a.bindLayout = bindLayout

	pipeLayout, err := a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "texpaint_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{a.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	a.pipeLayout = pipeLayout

	for id := pipelineID(0); id < pipelineCount; id++ {
		module, err := createShaderModule(a.device, id)
		if err != nil {
			return fmt.Errorf("compile %s shader: %w", id, err)
		}
		a.shaders[id] = module
		pipeline, err := a.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
			Label: "texpaint_" + id.String(), Layout: a.pipeLayout,
			Compute: hal.ComputeState{Module: module, EntryPoint: "main"},
		})
		if err != nil {
			return fmt.Errorf("create %s pipeline: %w", id, err)
		}
		a.pipelines[id] = pipeline
	}
	return nil
}

func (a *Accelerator) destroyPipelines() {
	if a.device == nil {
		return
	}
	for id := range a.pipelines {
		if a.pipelines[id] != nil {
			a.device.DestroyComputePipeline(a.pipelines[id])
			a.pipelines[id] = nil
		}
		if a.shaders[id] != nil {
			a.device.DestroyShaderModule(a.shaders[id])
			a.shaders[id] = nil
		}
	}
	if a.pipeLayout != nil {
		a.device.DestroyPipelineLayout(a.pipeLayout)
		a.pipeLayout = nil
	}
	if a.bindLayout != nil {
		a.device.DestroyBindGroupLayout(a.bindLayout)
		a.bindLayout = nil
	}
}
