// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/gr"
	"github.com/gogpu/gr/cmap"
	"github.com/gogpu/gr/geom"
	"github.com/gogpu/gr/pixmap"
	"github.com/gogpu/wgpu/hal"
)

// textureUsage lets a texture be written by the queue, sampled by the
// present shader and copied out.
const textureUsage = gputypes.TextureUsageCopySrc | gputypes.TextureUsageCopyDst | gputypes.TextureUsageTextureBinding

// store is a backing store: saved pixels live in tex, with a CPU copy in
// pix answering reads. valid is 1 where pix holds saved pixels.
type store struct {
	tex   hal.Texture
	pix   *pixmap.Pixmap
	valid *pixmap.Pixmap
}

func (b *Backend) createTexture(label string, width, height int) (hal.Texture, error) {
	tex, err := b.gpu.device.CreateTexture(&hal.TextureDescriptor{
		Label: label,
		Size: hal.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        b.format,
		Usage:         textureUsage,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture %s %dx%d: %w", label, width, height, err)
	}
	return tex, nil
}

// upload writes the pixels of r in src to tex, whose texel (0,0) is the
// top-left pixel of src.
func (b *Backend) upload(tex hal.Texture, src *pixmap.Pixmap, r geom.Rect) error {
	r = r.Intersect(src.Rect())
	if r.Empty() {
		return nil
	}
	img := src.Sub(r).ToImage(b.colors)
	data := img.Pix
	if b.format == gputypes.TextureFormatBGRA8Unorm {
		for i := 0; i+3 < len(data); i += 4 {
			data[i], data[i+2] = data[i+2], data[i]
		}
	}

	w, h := r.Width()+1, r.Height()+1
	err := b.gpu.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin: hal.Origin3D{
				X: uint32(r.XBot - src.Rect().XBot),
				Y: uint32(src.Rect().YTop - r.YTop),
				Z: 0,
			},
			Aspect: gputypes.TextureAspectAll,
		},
		data,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(w * 4),
			RowsPerImage: uint32(h),
		},
		&hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("wgpu: upload %s: %w", r, err)
	}
	b.uploads++
	return nil
}

// CreateBackingStore allocates a texture covering r.
func (b *Backend) CreateBackingStore(w gr.WindowID, r geom.Rect) error {
	if b.gpu == nil {
		return errNotOpen
	}
	if r.Empty() {
		return fmt.Errorf("wgpu: backing store for window %d: empty rect", w)
	}
	if old, ok := b.stores[w]; ok {
		b.gpu.device.DestroyTexture(old.tex)
	}
	tex, err := b.createTexture(fmt.Sprintf("gr_store_%d", w), r.Width()+1, r.Height()+1)
	if err != nil {
		return err
	}
	b.stores[w] = &store{tex: tex, pix: pixmap.New(r), valid: pixmap.New(r)}
	return nil
}

func (b *Backend) store(w gr.WindowID) (*store, error) {
	st, ok := b.stores[w]
	if !ok {
		return nil, fmt.Errorf("wgpu: window %d has no backing store", w)
	}
	return st, nil
}

// GetBackingStore returns the saved pixels of r when all are saved.
func (b *Backend) GetBackingStore(w gr.WindowID, r geom.Rect) (*pixmap.Pixmap, bool, error) {
	st, err := b.store(w)
	if err != nil {
		return nil, false, err
	}
	if !st.pix.Rect().Contains(r) {
		return nil, false, nil
	}
	for y := r.YBot; y <= r.YTop; y++ {
		for x := r.XBot; x <= r.XTop; x++ {
			if v, _ := st.valid.At(x, y); v != 1 {
				return nil, false, nil
			}
		}
	}
	return st.pix.Sub(r), true, nil
}

// PutBackingStore saves pix and uploads it to the store texture.
func (b *Backend) PutBackingStore(w gr.WindowID, pix *pixmap.Pixmap) error {
	st, err := b.store(w)
	if err != nil {
		return err
	}
	st.pix.Draw(pix)
	st.valid.FillRect(pix.Rect(), 1, -1)
	return b.upload(st.tex, st.pix, pix.Rect())
}

// ScrollBackingStore moves the saved pixels by delta and re-uploads
// the store.
func (b *Backend) ScrollBackingStore(w gr.WindowID, delta geom.Point) error {
	st, err := b.store(w)
	if err != nil {
		return err
	}
	st.pix.Shift(delta, cmap.Background)
	st.valid.Shift(delta, 0)
	return b.upload(st.tex, st.pix, st.pix.Rect())
}

// FreeBackingStore destroys the store texture of w.
func (b *Backend) FreeBackingStore(w gr.WindowID) error {
	st, err := b.store(w)
	if err != nil {
		return err
	}
	b.gpu.device.DestroyTexture(st.tex)
	delete(b.stores, w)
	return nil
}
