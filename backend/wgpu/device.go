// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

//go:embed shaders/blit.wgsl
var blitShaderWGSL string

// GPUInfo describes the adapter a backend draws with.
type GPUInfo struct {
	// Name is the adapter name, e.g. "NVIDIA GeForce RTX 3080".
	Name string
	// DeviceType is the type of GPU (discrete, integrated, ...).
	DeviceType gputypes.DeviceType
	// Shared is true when the device came from a host provider.
	Shared bool
}

// String returns a human-readable description of the GPU.
func (g GPUInfo) String() string {
	if g.Shared {
		return g.Name + " (shared)"
	}
	return fmt.Sprintf("%s (%v)", g.Name, g.DeviceType)
}

// gpu is an open device and queue. instance is nil when the device is
// borrowed from a host and must not be destroyed here.
type gpu struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	info     GPUInfo
}

// halProvider is implemented by device providers that expose the HAL
// device behind the gpucontext interfaces.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

var errNoHAL = errors.New("wgpu: device provider does not expose HAL types")

// shareDevice takes the device and queue of a host provider.
func shareDevice(p gpucontext.DeviceProvider) (*gpu, error) {
	hp, ok := p.(halProvider)
	if !ok {
		return nil, errNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", errNoHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", errNoHAL)
	}
	return &gpu{device: device, queue: queue, info: GPUInfo{Name: "host device", Shared: true}}, nil
}

// instanceCreator is the part of a HAL backend used to open devices.
type instanceCreator interface {
	CreateInstance(desc *hal.InstanceDescriptor) (hal.Instance, error)
}

// halBackend returns the Vulkan HAL when one is linked in, else the
// no-op HAL, which accepts every call and keeps no pixels.
func halBackend() instanceCreator {
	if b, ok := hal.GetBackend(gputypes.BackendVulkan); ok {
		return b
	}
	return &noop.API{}
}

// openDevice creates a standalone device, preferring a real GPU adapter.
func openDevice(api instanceCreator) (*gpu, error) {
	instance, err := api.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("wgpu: no GPU adapters found")
	}

	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("wgpu: open device: %w", err)
	}
	return &gpu{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
		info:     GPUInfo{Name: selected.Info.Name, DeviceType: selected.Info.DeviceType},
	}, nil
}

// destroy releases a standalone device. Shared devices stay with their
// host.
func (g *gpu) destroy() {
	if g.instance == nil {
		return
	}
	g.device.Destroy()
	g.instance.Destroy()
	g.instance = nil
}

// compileShader compiles WGSL to SPIR-V and creates a shader module.
func compileShader(device hal.Device, label, wgsl string) (hal.ShaderModule, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("wgpu: compile %s: %w", label, err)
	}

	// SPIR-V is little-endian 32-bit words.
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}

	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{SPIRV: code},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: shader module %s: %w", label, err)
	}
	return module, nil
}

// available reports whether a device can be opened on this system.
func available() bool {
	g, err := openDevice(halBackend())
	if err != nil {
		return false
	}
	g.destroy()
	return true
}
