package postfx

import (
	"errors"
	"sync"
)

// ErrFallbackToCPU indicates the GPU accelerator cannot handle this operation.
// The caller should transparently fall back to the CPU path.
var ErrFallbackToCPU = errors.New("postfx: falling back to CPU")

// AcceleratedOp describes stage types for GPU capability checking.
type AcceleratedOp uint32

const (
	// AccelGamma represents the gamma encode stage.
	AccelGamma AcceleratedOp = 1 << iota

	// AccelBlit represents the textured blit stage.
	AccelBlit

	// AccelTonemap represents the tonemap stage.
	AccelTonemap
)

// String returns the stage name of a single op.
func (op AcceleratedOp) String() string {
	switch op {
	case AccelGamma:
		return "gamma"
	case AccelBlit:
		return "blit"
	case AccelTonemap:
		return "tonemap"
	default:
		return "mixed"
	}
}

// GPUAccelerator is an optional GPU provider for the stages.
//
// When registered via RegisterAccelerator, stage calls try the accelerator
// first. If it returns ErrFallbackToCPU or any other error, the stage
// transparently runs on the CPU.
//
// Parameters and pixmaps are validated before an accelerator is called.
//
// Users opt in via blank import:
//
//	import _ "github.com/gogpu/postfx/gpu" // enables GPU acceleration
type GPUAccelerator interface {
	// Name returns the accelerator name (e.g., "wgpu", "vulkan").
	Name() string

	// Init initializes GPU resources. Called once during registration.
	Init() error

	// Close releases GPU resources.
	Close()

	// CanAccelerate reports whether the accelerator supports the given stage.
	CanAccelerate(op AcceleratedOp) bool

	// Gamma encodes src into dst. Both have the same size.
	Gamma(dst, src *Pixmap, params GammaParams) error

	// Blit samples src over the whole of dst.
	Blit(dst, src *Pixmap, sampler Sampler) error

	// Tonemap resolves src into dst. Both have the same size.
	Tonemap(dst, src *Pixmap, params TransferParams, mode UnpremultiplyMode) error
}

// DeviceProviderAware is an optional interface for accelerators that can share
// GPU resources with an external provider (e.g., a gogpu window).
// When SetDeviceProvider is called, the accelerator reuses the provided GPU
// device instead of creating its own.
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

var (
	accelMu sync.RWMutex
	accel   GPUAccelerator
)

// RegisterAccelerator registers a GPU accelerator.
//
// Only one accelerator can be registered. Subsequent calls replace the previous one.
// The accelerator's Init() method is called during registration.
// If Init() fails, the accelerator is not registered and the error is returned.
//
// Typical usage via blank import in GPU backend packages:
//
//	func init() {
//	    postfx.RegisterAccelerator(NewAccelerator())
//	}
func RegisterAccelerator(a GPUAccelerator) error {
	if a == nil {
		return errors.New("postfx: accelerator must not be nil")
	}
	if err := a.Init(); err != nil {
		return err
	}
	propagateLogger(a, Logger())

	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
	Logger().Info("postfx: accelerator registered", "name", a.Name())
	return nil
}

// UnregisterAccelerator closes and removes the registered accelerator.
func UnregisterAccelerator() {
	accelMu.Lock()
	old := accel
	accel = nil
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
}

// Accelerator returns the currently registered GPU accelerator, or nil if none.
func Accelerator() GPUAccelerator {
	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	return a
}

// SetAcceleratorDeviceProvider passes a device provider to the registered
// accelerator, enabling GPU device sharing. If no accelerator is registered
// or it doesn't support device sharing, this is a no-op.
//
// The provider should implement HalDevice() any and HalQueue() any methods
// that return wgpu/hal types.
func SetAcceleratorDeviceProvider(provider any) error {
	a := Accelerator()
	if a == nil {
		return nil
	}
	if dpa, ok := a.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}

// tryAccelerate runs fn on the registered accelerator when the options
// allow it and the accelerator supports op. It reports whether the GPU
// produced the result; on false the caller runs the CPU path.
func tryAccelerate(o *options, op AcceleratedOp, fn func(GPUAccelerator) error) bool {
	if !o.accelerate {
		return false
	}
	a := Accelerator()
	if a == nil || !a.CanAccelerate(op) {
		return false
	}
	err := fn(a)
	switch {
	case err == nil:
		Logger().Debug("postfx: stage accelerated", "stage", op, "accelerator", a.Name())
		return true
	case errors.Is(err, ErrFallbackToCPU):
		Logger().Debug("postfx: accelerator declined", "stage", op)
	default:
		Logger().Warn("postfx: accelerator failed, using CPU", "stage", op, "err", err)
	}
	return false
}
