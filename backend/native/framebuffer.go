// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"fmt"
	"slices"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/shaderkit"
	"github.com/gogpu/shaderkit/gpucore"
)

type textureObj struct {
	desc gpucore.TextureDesc
	hal  hal.Texture

	// views per mip level, created on first bind.
	views map[uint32]hal.TextureView
}

func (t *textureObj) release(device hal.Device) {
	if device == nil {
		return
	}
	for level, v := range t.views {
		device.DestroyTextureView(v)
		delete(t.views, level)
	}
	if t.hal != nil {
		device.DestroyTexture(t.hal)
		t.hal = nil
	}
}

// view returns the single-level view of the texture at level.
func (t *textureObj) view(device hal.Device, level uint32) (hal.TextureView, error) {
	if v, ok := t.views[level]; ok {
		return v, nil
	}
	aspect := gputypes.TextureAspectAll
	if t.desc.Format.HasDepth() {
		aspect = gputypes.TextureAspectDepthOnly
	}
	v, err := device.CreateTextureView(t.hal, &hal.TextureViewDescriptor{
		Label:         fmt.Sprintf("%s (level %d)", t.desc.Label, level),
		Format:        t.desc.Format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        aspect,
		BaseMipLevel:  level,
		MipLevelCount: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("create texture view: %w", err)
	}
	t.views[level] = v
	return v, nil
}

type fbBinding struct {
	tex   gpucore.TextureID
	level uint32
}

type framebufferObj struct {
	attachments map[gpucore.AttachmentPoint]fbBinding
	drawBuffers []gpucore.AttachmentPoint
}

// CreateTexture implements gpucore.TextureDevice.
func (d *Device) CreateTexture(desc gpucore.TextureDesc) (gpucore.TextureID, error) {
	if err := desc.Validate(); err != nil {
		return gpucore.InvalidID, err
	}
	desc = desc.Normalized()

	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label: desc.Label,
		Size: hal.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: desc.MipLevels,
		SampleCount:   desc.Samples,
		Dimension:     gputypes.TextureDimension2D,
		Format:        desc.Format,
		Usage:         desc.Usage,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("native: create texture %q: %w", desc.Label, err)
	}

	id := gpucore.TextureID(d.newID())
	d.mu.Lock()
	d.textures[id] = &textureObj{desc: desc, hal: tex, views: make(map[uint32]hal.TextureView)}
	d.mu.Unlock()
	return id, nil
}

// DeleteTexture implements gpucore.TextureDevice.
func (d *Device) DeleteTexture(id gpucore.TextureID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.textures[id]; ok {
		t.release(d.device)
		delete(d.textures, id)
	}
}

// CreateFramebuffer implements gpucore.FramebufferDevice. Framebuffers are
// bookkeeping only; RenderPassDescriptor turns one into a render pass.
func (d *Device) CreateFramebuffer() (gpucore.FramebufferID, error) {
	id := gpucore.FramebufferID(d.newID())
	d.mu.Lock()
	d.framebuffers[id] = &framebufferObj{attachments: make(map[gpucore.AttachmentPoint]fbBinding)}
	d.mu.Unlock()
	return id, nil
}

// FramebufferTexture implements gpucore.FramebufferDevice.
func (d *Device) FramebufferTexture(fb gpucore.FramebufferID, point gpucore.AttachmentPoint, tex gpucore.TextureID, level uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	f, ok := d.framebuffers[fb]
	if !ok {
		return fmt.Errorf("%w: framebuffer %d", ErrUnknownObject, fb)
	}
	t, ok := d.textures[tex]
	if !ok {
		return fmt.Errorf("%w: texture %d", ErrUnknownObject, tex)
	}
	if !point.Valid() {
		return fmt.Errorf("native: invalid attachment point %v", point)
	}
	if level >= t.desc.MipLevels {
		return fmt.Errorf("native: level %d out of range for %q (%d levels)", level, t.desc.Label, t.desc.MipLevels)
	}
	if _, err := t.view(d.device, level); err != nil {
		return err
	}
	f.attachments[point] = fbBinding{tex: tex, level: level}
	return nil
}

// FramebufferDrawBuffers implements gpucore.FramebufferDevice.
func (d *Device) FramebufferDrawBuffers(fb gpucore.FramebufferID, buffers []gpucore.AttachmentPoint) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	f, ok := d.framebuffers[fb]
	if !ok {
		return fmt.Errorf("%w: framebuffer %d", ErrUnknownObject, fb)
	}
	if len(buffers) > gpucore.MaxColorAttachments {
		return fmt.Errorf("native: %d draw buffers exceed %d", len(buffers), gpucore.MaxColorAttachments)
	}
	for _, p := range buffers {
		if p != gpucore.NoAttachment && !p.IsColor() {
			return fmt.Errorf("native: draw buffer %v is not a color attachment", p)
		}
	}
	f.drawBuffers = slices.Clone(buffers)
	return nil
}

// CheckFramebufferStatus implements gpucore.FramebufferDevice.
//
// Color attachments must share one sample count and the depth attachment
// must have at least as many samples, which admits the sample-depth and
// sample-coverage modes. All attachments must have the same size at their
// bound level.
func (d *Device) CheckFramebufferStatus(fb gpucore.FramebufferID) gpucore.FramebufferStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	f, ok := d.framebuffers[fb]
	if !ok {
		return gpucore.FramebufferUnsupported
	}
	if len(f.attachments) == 0 {
		return gpucore.FramebufferMissingAttachment
	}

	var (
		sized                      bool
		width, height              uint32
		colorSamples, depthSamples uint32
	)
	for p, b := range f.attachments {
		t, ok := d.textures[b.tex]
		if !ok {
			return gpucore.FramebufferIncompleteAttachment
		}
		if p.IsDepth() != t.desc.Format.HasDepth() {
			return gpucore.FramebufferIncompleteAttachment
		}
		if p.IsDepth() {
			depthSamples = t.desc.Samples
		} else {
			if colorSamples != 0 && colorSamples != t.desc.Samples {
				return gpucore.FramebufferIncompleteMultisample
			}
			colorSamples = t.desc.Samples
		}
		w, h := mipSize(t.desc.Width, b.level), mipSize(t.desc.Height, b.level)
		if !sized {
			width, height, sized = w, h, true
		} else if w != width || h != height {
			return gpucore.FramebufferIncompleteDimensions
		}
	}
	if depthSamples != 0 && colorSamples != 0 && depthSamples < colorSamples {
		return gpucore.FramebufferIncompleteMultisample
	}
	for _, p := range f.drawBuffers {
		if p == gpucore.NoAttachment {
			continue
		}
		if _, ok := f.attachments[p]; !ok {
			return gpucore.FramebufferIncompleteDrawBuffer
		}
	}
	return gpucore.FramebufferComplete
}

func mipSize(size, level uint32) uint32 {
	return max(size>>level, 1)
}

// DeleteFramebuffer implements gpucore.FramebufferDevice.
func (d *Device) DeleteFramebuffer(fb gpucore.FramebufferID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.framebuffers, fb)
}

// PassOptions configures RenderPassDescriptor.
type PassOptions struct {
	// Label is the debug name of the pass.
	Label string

	// Clear clears every color attachment to this color. Nil loads the
	// previous contents.
	Clear *gputypes.Color

	// ClearDepth clears the depth attachment to DepthClearValue.
	ClearDepth      bool
	DepthClearValue float32
}

// RenderPassDescriptor builds a HAL render pass for a complete framebuffer.
// Color attachments follow the draw-buffer table, so fragment output i
// writes to entry i; NoAttachment entries have a nil View.
func (d *Device) RenderPassDescriptor(fb gpucore.FramebufferID, opts PassOptions) (*hal.RenderPassDescriptor, error) {
	if status := d.CheckFramebufferStatus(fb); status != gpucore.FramebufferComplete {
		return nil, fmt.Errorf("%w: %s", ErrIncomplete, status)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	f := d.framebuffers[fb]

	desc := &hal.RenderPassDescriptor{Label: opts.Label}
	for _, p := range f.drawBuffers {
		att := hal.RenderPassColorAttachment{
			LoadOp:  gputypes.LoadOpLoad,
			StoreOp: gputypes.StoreOpStore,
		}
		if opts.Clear != nil {
			att.LoadOp, att.ClearValue = gputypes.LoadOpClear, *opts.Clear
		}
		if p != gpucore.NoAttachment {
			b := f.attachments[p]
			view, err := d.textures[b.tex].view(d.device, b.level)
			if err != nil {
				return nil, err
			}
			att.View = view
		}
		desc.ColorAttachments = append(desc.ColorAttachments, att)
	}

	if b, ok := f.attachments[gpucore.DepthAttachment]; ok {
		view, err := d.textures[b.tex].view(d.device, b.level)
		if err != nil {
			return nil, err
		}
		ds := &hal.RenderPassDepthStencilAttachment{
			View:         view,
			DepthLoadOp:  gputypes.LoadOpLoad,
			DepthStoreOp: gputypes.StoreOpStore,
		}
		if opts.ClearDepth {
			ds.DepthLoadOp, ds.DepthClearValue = gputypes.LoadOpClear, opts.DepthClearValue
		}
		desc.DepthStencilAttachment = ds
	}

	shaderkit.Logger().Debug("render pass built",
		"framebuffer", uint64(fb), "colors", len(desc.ColorAttachments), "depth", desc.DepthStencilAttachment != nil)
	return desc, nil
}
