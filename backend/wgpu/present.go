// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// presenter draws the frame texture onto a render target with the blit
// shader: one full-screen triangle sampling the frame.
//
// Without a host surface the target is a texture of its own, so every
// flush runs the same pass on the no-op HAL as on a real device.
type presenter struct {
	module     hal.ShaderModule
	layout     hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	sampler    hal.Sampler
	frameView  hal.TextureView
	group      hal.BindGroup

	target     hal.Texture
	targetView hal.TextureView
}

// newPresenter compiles the blit shader and builds the pipeline that
// samples frame into a width x height target of the given format.
func newPresenter(device hal.Device, format gputypes.TextureFormat, frame hal.Texture, width, height int) (*presenter, error) {
	p := &presenter{}
	if err := p.build(device, format, frame, width, height); err != nil {
		p.destroy(device)
		return nil, err
	}
	return p, nil
}

func (p *presenter) build(device hal.Device, format gputypes.TextureFormat, frame hal.Texture, width, height int) error {
	var err error
	p.module, err = compileShader(device, "gr_blit", blitShaderWGSL)
	if err != nil {
		return err
	}

	// Binding 0: frame texture, binding 1: sampler. Both fragment only.
	p.layout, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "gr_blit_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: blit bind group layout: %w", err)
	}

	p.pipeLayout, err = device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "gr_blit_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.layout},
	})
	if err != nil {
		return fmt.Errorf("wgpu: blit pipeline layout: %w", err)
	}

	p.pipeline, err = device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "gr_blit_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.module,
			EntryPoint: "vs_main",
		},
		Fragment: &hal.FragmentState{
			Module:     p.module,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{Format: format, WriteMask: gputypes.ColorWriteMaskAll},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
	})
	if err != nil {
		return fmt.Errorf("wgpu: blit pipeline: %w", err)
	}

	// Nearest filtering: the frame and the target have the same size and
	// color indices must not blend.
	p.sampler, err = device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "gr_blit_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeNearest,
		MinFilter:    gputypes.FilterModeNearest,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return fmt.Errorf("wgpu: blit sampler: %w", err)
	}

	p.frameView, err = device.CreateTextureView(frame, &hal.TextureViewDescriptor{
		Label:         "gr_frame_view",
		Format:        format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		return fmt.Errorf("wgpu: frame view: %w", err)
	}

	p.group, err = device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "gr_blit_group",
		Layout: p.layout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{TextureView: p.frameView.NativeHandle()}},
			{Binding: 1, Resource: gputypes.SamplerBinding{Sampler: p.sampler.NativeHandle()}},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: blit bind group: %w", err)
	}

	p.target, err = device.CreateTexture(&hal.TextureDescriptor{
		Label:         "gr_present_target",
		Size:          hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("wgpu: present target: %w", err)
	}
	p.targetView, err = device.CreateTextureView(p.target, &hal.TextureViewDescriptor{
		Label:         "gr_present_target_view",
		Format:        format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		return fmt.Errorf("wgpu: present target view: %w", err)
	}
	return nil
}

// draw records and submits the blit pass into view, or into the
// presenter's own target when view is nil.
func (p *presenter) draw(g *gpu, view hal.TextureView) error {
	if view == nil {
		view = p.targetView
	}
	encoder, err := g.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "gr_present_encoder"})
	if err != nil {
		return fmt.Errorf("wgpu: present encoder: %w", err)
	}
	if err := encoder.BeginEncoding("gr_present"); err != nil {
		return fmt.Errorf("wgpu: begin present: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "gr_present_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})
	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, p.group, nil)
	rp.Draw(3, 1, 0, 0)
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end present: %w", err)
	}
	defer g.device.FreeCommandBuffer(cmdBuf)

	if _, err := g.queue.Submit([]hal.CommandBuffer{cmdBuf}); err != nil {
		return fmt.Errorf("wgpu: submit present: %w", err)
	}
	return nil
}

// destroy releases everything build created, in reverse order.
func (p *presenter) destroy(device hal.Device) {
	if p.targetView != nil {
		device.DestroyTextureView(p.targetView)
	}
	if p.target != nil {
		device.DestroyTexture(p.target)
	}
	if p.group != nil {
		device.DestroyBindGroup(p.group)
	}
	if p.frameView != nil {
		device.DestroyTextureView(p.frameView)
	}
	if p.sampler != nil {
		device.DestroySampler(p.sampler)
	}
	if p.pipeline != nil {
		device.DestroyRenderPipeline(p.pipeline)
	}
	if p.pipeLayout != nil {
		device.DestroyPipelineLayout(p.pipeLayout)
	}
	if p.layout != nil {
		device.DestroyBindGroupLayout(p.layout)
	}
	if p.module != nil {
		device.DestroyShaderModule(p.module)
	}
	*p = presenter{}
}
