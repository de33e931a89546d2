//go:build !nogpu

package gpu

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/texpaint"
	"github.com/gogpu/wgpu/hal"
)

// workgroupSize matches @workgroup_size in every kernel.
const workgroupSize = 64

// fenceTimeout bounds the wait for one dispatch.
const fenceTimeout = 5 * time.Second

// minBufferSize is the size of placeholder buffers bound to unused slots.
const minBufferSize = 16

// run uploads the inputs and out, dispatches pipeline id over p.Count
// invocations and reads out back. out is left untouched on error.
//
// Errors wrap texpaint.ErrFallbackToCPU; a failed fence wait wraps
// texpaint.ErrUnavailable and disables the accelerator.
func (a *Accelerator) run(id pipelineID, p *kernelParams, in0, in1, mask, out []float32) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.gpuReady {
		return texpaint.ErrUnavailable
	}
	if err := a.dispatch(id, p, in0, in1, mask, out); err != nil {
		return err
	}
	a.log().Debug("gpu: kernel done", "pipeline", id.String(), "invocations", p.Count)
	return nil
}

func (a *Accelerator) dispatch(id pipelineID, p *kernelParams, in0, in1, mask, out []float32) error {
	var bufs []hal.Buffer
	defer func() {
		for _, b := range bufs {
			a.device.DestroyBuffer(b)
		}
	}()
	create := func(label string, size uint64, usage gputypes.BufferUsage) (hal.Buffer, error) {
		size = max(size, minBufferSize)
		b, err := a.device.CreateBuffer(&hal.BufferDescriptor{Label: label, Size: size, Usage: usage})
		if err != nil {
			return nil, fallback("create "+label+" buffer", err)
		}
		bufs = append(bufs, b)
		return b, nil
	}
	upload := func(label string, data []float32) (hal.Buffer, uint64, error) {
		size := max(uint64(len(data))*4, minBufferSize)
		b, err := create(label, size, gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst)
		if err != nil {
			return nil, 0, err
		}
		if len(data) > 0 {
			a.queue.WriteBuffer(b, 0, packFloats(data))
		}
		return b, size, nil
	}

	paramBytes := p.bytes()
	uniform, err := create("texpaint_params", uint64(len(paramBytes)), gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	a.queue.WriteBuffer(uniform, 0, paramBytes)

	src0, src0Size, err := upload("texpaint_src0", in0)
	if err != nil {
		return err
	}
	src1, src1Size, err := upload("texpaint_src1", in1)
	if err != nil {
		return err
	}
	maskBuf, maskSize, err := upload("texpaint_mask", mask)
	if err != nil {
		return err
	}
	outSize := uint64(len(out)) * 4
	dst, err := create("texpaint_dst", outSize, gputypes.BufferUsageStorage|gputypes.BufferUsageCopySrc|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	a.queue.WriteBuffer(dst, 0, packFloats(out))
	staging, err := create("texpaint_staging", outSize, gputypes.BufferUsageMapRead|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}

	bg, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "texpaint_bind", Layout: a.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: uniform.NativeHandle(), Offset: 0, Size: uint64(len(paramBytes))}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: src0.NativeHandle(), Offset: 0, Size: src0Size}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: src1.NativeHandle(), Offset: 0, Size: src1Size}},
			{Binding: 3, Resource: gputypes.BufferBinding{Buffer: maskBuf.NativeHandle(), Offset: 0, Size: maskSize}},
			{Binding: 4, Resource: gputypes.BufferBinding{Buffer: dst.NativeHandle(), Offset: 0, Size: outSize}},
		},
	})
	if err != nil {
		return fallback("create bind group", err)
	}
	defer a.device.DestroyBindGroup(bg)

	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "texpaint_encoder"})
	if err != nil {
		return fallback("create command encoder", err)
	}
	if err := encoder.BeginEncoding("texpaint_" + id.String()); err != nil {
		return fallback("begin encoding", err)
	}
	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "texpaint_" + id.String()})
	pass.SetPipeline(a.pipelines[id])
	pass.SetBindGroup(0, bg, nil)
	pass.Dispatch((p.Count+workgroupSize-1)/workgroupSize, 1, 1)
	pass.End()
	encoder.CopyBufferToBuffer(dst, staging, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: outSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fallback("end encoding", err)
	}
	defer a.device.FreeCommandBuffer(cmdBuf)

	fence, err := a.device.CreateFence()
	if err != nil {
		return fallback("create fence", err)
	}
	defer a.device.DestroyFence(fence)
	if err := a.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fallback("submit", err)
	}
	fenceOK, err := a.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !fenceOK {
		a.gpuReady = false
		a.log().Warn("gpu: device stopped responding", "pipeline", id.String(), "err", err)
		return fmt.Errorf("%w: wait for GPU: ok=%v err=%v", texpaint.ErrUnavailable, fenceOK, err)
	}

	readback := make([]byte, outSize)
	if err := a.queue.ReadBuffer(staging, 0, readback); err != nil {
		return fallback("readback", err)
	}
	unpackFloats(readback, out)
	return nil
}

// fallback wraps a dispatch error the engine retries on the CPU.
func fallback(what string, err error) error {
	return fmt.Errorf("%w: %s: %w", texpaint.ErrFallbackToCPU, what, err)
}
