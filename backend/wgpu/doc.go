// Package wgpu provides the real-valued display backend on a gogpu/wgpu
// HAL device.
//
// The backend answers to the display types "wgpu", "gpu", "vector",
// "ogl" and "opengl". Coordinates are real-valued (PixelCorrect 0): a
// rectangle covers the pixels from its bottom-left corner up to, but not
// including, its top and right edges, and polygon vertices lie on pixel
// corners.
//
// # Architecture Overview
//
//	draw calls -> color-index mirror (CPU) -> Flush -> WriteTexture -> frame texture
//	frame texture -> blit pipeline -> surface view (or the backend's own target)
//
// Key components:
//
//   - Device: a Vulkan adapter when the Vulkan HAL is linked in, the no-op
//     HAL otherwise, or the host's device through WithDeviceProvider
//   - Present pipeline: a WGSL full-screen blit compiled with naga at Init,
//     drawn on every Flush into the host's surface view (SetSurfaceTarget)
//   - Frame texture: the screen in RGBA8 (BGRA8 when the host surface is)
//   - Backing stores: one texture per window, with a CPU copy for reads
//
// Drawing never reads back from the GPU. ReadPixel and GetBackingStore
// are answered from the CPU copies, so the backend works unchanged on the
// no-op HAL in tests and on headless machines.
//
// # Sharing a Device
//
// A host that already owns a device re-registers the backend with its
// provider before selecting:
//
//	gr.Register(wgpu.Descriptor(wgpu.WithDeviceProvider(app)))
//	s, err := gr.Select(gr.Hints{Display: "wgpu"})
//
// The provider must implement HalDevice() any and HalQueue() any
// returning the hal.Device and hal.Queue behind it.
package wgpu
