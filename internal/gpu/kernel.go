//go:build !nogpu

package gpu

import (
	"fmt"
	"time"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// waitTimeout bounds the wait for a single stage dispatch.
const waitTimeout = 5 * time.Second

// kernel is a compiled compute stage with the common binding layout:
//
//	0: uniform params, 1: uniform extent,
//	2: read-only storage src, 3: storage dst
type kernel struct {
	name       string
	workgroup  uint32
	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline
}

// dispatch describes one kernel invocation over a width x height grid.
type dispatch struct {
	params []byte
	extent []byte
	src    []float32
	dst    []float32
	width  int
	height int
}

func newKernel(device hal.Device, name, source string, workgroup uint32) (*kernel, error) {
	spirv, err := CompileSPIRV(source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	k := &kernel{name: name, workgroup: workgroup}

	k.shader, err = device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  name,
		Source: hal.ShaderSource{SPIRV: SPIRVWords(spirv)},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s shader module: %w", name, err)
	}

	k.bindLayout, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: name + "_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 3, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		k.destroy(device)
		return nil, fmt.Errorf("create %s bind group layout: %w", name, err)
	}

	k.pipeLayout, err = device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: name + "_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{k.bindLayout},
	})
	if err != nil {
		k.destroy(device)
		return nil, fmt.Errorf("create %s pipeline layout: %w", name, err)
	}

	k.pipeline, err = device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: name + "_pipeline", Layout: k.pipeLayout,
		Compute: hal.ComputeState{Module: k.shader, EntryPoint: "cs_main"},
	})
	if err != nil {
		k.destroy(device)
		return nil, fmt.Errorf("create %s compute pipeline: %w", name, err)
	}
	return k, nil
}

func (k *kernel) destroy(device hal.Device) {
	if k.pipeline != nil {
		device.DestroyComputePipeline(k.pipeline)
	}
	if k.pipeLayout != nil {
		device.DestroyPipelineLayout(k.pipeLayout)
	}
	if k.bindLayout != nil {
		device.DestroyBindGroupLayout(k.bindLayout)
	}
	if k.shader != nil {
		device.DestroyShaderModule(k.shader)
	}
	*k = kernel{name: k.name}
}

// run uploads the inputs, dispatches the kernel and reads dst back.
// d.dst may alias d.src.
func (k *kernel) run(device hal.Device, queue hal.Queue, d dispatch) error {
	srcSize := uint64(len(d.src) * 4)
	dstSize := uint64(len(d.dst) * 4)

	var buffers []hal.Buffer
	defer func() {
		for _, b := range buffers {
			device.DestroyBuffer(b)
		}
	}()
	create := func(label string, size uint64, usage gputypes.BufferUsage) (hal.Buffer, error) {
		b, err := device.CreateBuffer(&hal.BufferDescriptor{Label: k.name + "_" + label, Size: size, Usage: usage})
		if err != nil {
			return nil, fmt.Errorf("create %s buffer: %w", label, err)
		}
		buffers = append(buffers, b)
		return b, nil
	}

	paramsBuf, err := create("params", uniformSize, gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	extentBuf, err := create("extent", uniformSize, gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	srcBuf, err := create("src", srcSize, gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	dstBuf, err := create("dst", dstSize, gputypes.BufferUsageStorage|gputypes.BufferUsageCopySrc)
	if err != nil {
		return err
	}
	stagingBuf, err := create("staging", dstSize, gputypes.BufferUsageMapRead|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}

	for _, w := range []struct {
		buf  hal.Buffer
		data []byte
	}{
		{paramsBuf, d.params},
		{extentBuf, d.extent},
		{srcBuf, packPixels(d.src)},
	} {
		if err := queue.WriteBuffer(w.buf, 0, w.data); err != nil {
			return fmt.Errorf("upload: %w", err)
		}
	}

	bg, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: k.name + "_bind", Layout: k.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: paramsBuf.NativeHandle(), Offset: 0, Size: uniformSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: extentBuf.NativeHandle(), Offset: 0, Size: uniformSize}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: srcBuf.NativeHandle(), Offset: 0, Size: srcSize}},
			{Binding: 3, Resource: gputypes.BufferBinding{Buffer: dstBuf.NativeHandle(), Offset: 0, Size: dstSize}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	defer device.DestroyBindGroup(bg)

	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: k.name + "_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(k.name); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	w, h := uint32(d.width), uint32(d.height) //nolint:gosec // checked by fitsDispatch
	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: k.name + "_pass"})
	pass.SetPipeline(k.pipeline)
	pass.SetBindGroup(0, bg, nil)
	pass.Dispatch((w+k.workgroup-1)/k.workgroup, (h+k.workgroup-1)/k.workgroup, 1)
	pass.End()

	encoder.CopyBufferToBuffer(dstBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: dstSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer device.FreeCommandBuffer(cmdBuf)

	idx, err := queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if err := waitSubmission(queue, idx, waitTimeout); err != nil {
		return err
	}

	readback, err := readMapped(device, stagingBuf, dstSize)
	if err != nil {
		return fmt.Errorf("readback: %w", err)
	}
	unpackPixels(readback, d.dst)
	slogger().Debug("gpu: dispatched", "kernel", k.name, "width", d.width, "height", d.height)
	return nil
}

// completionPoller is the part of hal.Queue that reports finished
// submissions.
type completionPoller interface {
	PollCompleted() uint64
}

// pollInterval is the sleep between completion polls.
const pollInterval = 50 * time.Microsecond

// waitSubmission blocks until submission idx has completed or timeout
// elapses.
func waitSubmission(q completionPoller, idx uint64, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for q.PollCompleted() < idx {
		if time.Now().After(deadline) {
			return fmt.Errorf("wait for GPU: submission %d not complete after %v", idx, timeout)
		}
		time.Sleep(pollInterval)
	}
	return nil
}

// readMapped copies size bytes out of a host-visible buffer.
func readMapped(device hal.Device, buf hal.Buffer, size uint64) ([]byte, error) {
	mapping, err := device.MapBuffer(buf, 0, size)
	if err != nil {
		return nil, err
	}
	out := make([]byte, size)
	copy(out, unsafe.Slice((*byte)(mapping.Ptr), size))
	if err := device.UnmapBuffer(buf); err != nil {
		return nil, err
	}
	return out, nil
}
