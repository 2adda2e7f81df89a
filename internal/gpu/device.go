//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// errNoAdapter is returned when the backend enumerates no adapters.
var errNoAdapter = errors.New("no GPU adapters found")

// openedDevice is a device owned by the accelerator.
type openedDevice struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	name     string
}

// selectAdapter prefers a discrete or integrated GPU over software and
// CPU adapters.
func selectAdapter(adapters []hal.ExposedAdapter) *hal.ExposedAdapter {
	if len(adapters) == 0 {
		return nil
	}
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			return &adapters[i]
		}
	}
	return &adapters[0]
}

// openDevice creates a Vulkan instance and opens the preferred adapter.
func openDevice() (*openedDevice, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, errors.New("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	selected := selectAdapter(instance.EnumerateAdapters(nil))
	if selected == nil {
		instance.Destroy()
		return nil, errNoAdapter
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}
	return &openedDevice{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
		name:     selected.Info.Name,
	}, nil
}

// halProvider is implemented by hosts that expose their wgpu HAL objects.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// providerDevice extracts the HAL device and queue from a host provider.
func providerDevice(provider any) (hal.Device, hal.Queue, error) {
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, nil, errors.New("provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, nil, errors.New("provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, errors.New("provider HalQueue is not hal.Queue")
	}
	return device, queue, nil
}
