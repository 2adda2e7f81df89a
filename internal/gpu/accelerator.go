//go:build !nogpu

package gpu

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/postfx"
)

// Accelerator runs the postfx stages as wgpu/hal compute passes.
// It implements postfx.GPUAccelerator.
//
// Every stage call is one synchronous dispatch: upload, compute, readback.
// Calls are serialized by a mutex. Without a usable device every stage
// returns postfx.ErrFallbackToCPU.
type Accelerator struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	gamma   *kernel
	blit    *kernel
	tonemap *kernel

	gpuReady       bool
	externalDevice bool // true when using shared device (don't destroy on Close)

	// openDevice is replaced in tests.
	openDevice func() (*openedDevice, error)
}

var _ postfx.GPUAccelerator = (*Accelerator)(nil)

// NewAccelerator returns an accelerator that opens its own device on Init.
func NewAccelerator() *Accelerator {
	return &Accelerator{openDevice: openDevice}
}

// Name returns "wgpu".
func (a *Accelerator) Name() string { return "wgpu" }

// CanAccelerate reports support for all three stages.
func (a *Accelerator) CanAccelerate(op postfx.AcceleratedOp) bool {
	return op&(postfx.AccelGamma|postfx.AccelBlit|postfx.AccelTonemap) != 0
}

// SetLogger routes the package logger to l.
func (a *Accelerator) SetLogger(l *slog.Logger) { setLogger(l) }

// Ready reports whether a device and compiled pipelines are available.
func (a *Accelerator) Ready() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gpuReady
}

// Init opens a device. A missing GPU is not an error: the accelerator
// stays registered and declines every stage.
func (a *Accelerator) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.gpuReady {
		return nil
	}
	if err := a.initGPU(); err != nil {
		slogger().Warn("gpu: init failed, using CPU fallback", "err", err)
	}
	return nil
}

func (a *Accelerator) initGPU() error {
	if a.openDevice == nil {
		a.openDevice = openDevice
	}
	dev, err := a.openDevice()
	if err != nil {
		return err
	}
	a.instance = dev.instance
	a.device = dev.device
	a.queue = dev.queue
	if err := a.createKernels(); err != nil {
		a.device.Destroy()
		a.instance.Destroy()
		a.device, a.queue, a.instance = nil, nil, nil
		return fmt.Errorf("create pipelines: %w", err)
	}
	a.gpuReady = true
	slogger().Info("gpu: accelerator initialized", "adapter", dev.name)
	return nil
}

// Close releases pipelines and, unless shared, the device.
func (a *Accelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.destroyKernels()
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

// SetDeviceProvider switches the accelerator to use a shared GPU device
// from an external provider (e.g., gogpu). The provider must implement
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
func (a *Accelerator) SetDeviceProvider(provider any) error {
	device, queue, err := providerDevice(provider)
	if err != nil {
		return fmt.Errorf("gpu: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.destroyKernels()
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

	if err := a.createKernels(); err != nil {
		a.gpuReady = false
		return fmt.Errorf("gpu: create pipelines with shared device: %w", err)
	}
	a.gpuReady = true
	slogger().Info("gpu: switched to shared GPU device")
	return nil
}

func (a *Accelerator) createKernels() error {
	var err error
	if a.gamma, err = newKernel(a.device, "gamma", gammaShaderSource, 1); err != nil {
		return err
	}
	if a.blit, err = newKernel(a.device, "blit", blitComputeShaderSource, 8); err != nil {
		a.destroyKernels()
		return err
	}
	if a.tonemap, err = newKernel(a.device, "tonemap", tonemapComputeShaderSource, 8); err != nil {
		a.destroyKernels()
		return err
	}
	return nil
}

func (a *Accelerator) destroyKernels() {
	if a.device == nil {
		return
	}
	for _, k := range []*kernel{a.gamma, a.blit, a.tonemap} {
		if k != nil {
			k.destroy(a.device)
		}
	}
	a.gamma, a.blit, a.tonemap = nil, nil, nil
}

// Gamma encodes src into dst with gamma.wgsl.
func (a *Accelerator) Gamma(dst, src *postfx.Pixmap, params postfx.GammaParams) error {
	if !fitsDispatch(src.Width(), src.Height(), 1) {
		return postfx.ErrFallbackToCPU
	}
	uniform, err := params.MarshalBinary()
	if err != nil {
		return err
	}
	return a.run(func() *kernel { return a.gamma }, dispatch{
		params: uniform,
		extent: extentUniform(src.Width(), src.Height(), 0),
		src:    src.Pix(),
		dst:    dst.Pix(),
		width:  src.Width(),
		height: src.Height(),
	})
}

// Blit samples src over dst with blit_cs.wgsl.
func (a *Accelerator) Blit(dst, src *postfx.Pixmap, s postfx.Sampler) error {
	if !fitsDispatch(dst.Width(), dst.Height(), 8) {
		return postfx.ErrFallbackToCPU
	}
	return a.run(func() *kernel { return a.blit }, dispatch{
		params: samplerUniform(s),
		extent: blitExtentUniform(src.Width(), src.Height(), dst.Width(), dst.Height()),
		src:    src.Pix(),
		dst:    dst.Pix(),
		width:  dst.Width(),
		height: dst.Height(),
	})
}

// Tonemap resolves src into dst with tonemap_cs.wgsl.
func (a *Accelerator) Tonemap(dst, src *postfx.Pixmap, params postfx.TransferParams, mode postfx.UnpremultiplyMode) error {
	if !fitsDispatch(src.Width(), src.Height(), 8) {
		return postfx.ErrFallbackToCPU
	}
	uniform, err := params.MarshalBinary()
	if err != nil {
		return err
	}
	return a.run(func() *kernel { return a.tonemap }, dispatch{
		params: uniform,
		extent: extentUniform(src.Width(), src.Height(), mode),
		src:    src.Pix(),
		dst:    dst.Pix(),
		width:  src.Width(),
		height: src.Height(),
	})
}

// run dispatches the kernel selected under the lock.
func (a *Accelerator) run(pick func() *kernel, d dispatch) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.gpuReady {
		return postfx.ErrFallbackToCPU
	}
	k := pick()
	if k == nil {
		return postfx.ErrFallbackToCPU
	}
	if err := k.run(a.device, a.queue, d); err != nil {
		return fmt.Errorf("gpu: %s: %w", k.name, err)
	}
	return nil
}
