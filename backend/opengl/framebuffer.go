// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build opengl

package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/shaderkit/gpucore"
)

// pixelFormat is the GL triple used to allocate a texture.
type pixelFormat struct {
	internal int32
	format   uint32
	xtype    uint32
}

var pixelFormats = map[gputypes.TextureFormat]pixelFormat{
	gputypes.TextureFormatR8Unorm:              {gl.R8, gl.RED, gl.UNSIGNED_BYTE},
	gputypes.TextureFormatRG8Unorm:             {gl.RG8, gl.RG, gl.UNSIGNED_BYTE},
	gputypes.TextureFormatRGBA8Unorm:           {gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE},
	gputypes.TextureFormatRGBA8UnormSrgb:       {gl.SRGB8_ALPHA8, gl.RGBA, gl.UNSIGNED_BYTE},
	gputypes.TextureFormatBGRA8Unorm:           {gl.RGBA8, gl.BGRA, gl.UNSIGNED_BYTE},
	gputypes.TextureFormatR16Float:             {gl.R16F, gl.RED, gl.HALF_FLOAT},
	gputypes.TextureFormatRG16Float:            {gl.RG16F, gl.RG, gl.HALF_FLOAT},
	gputypes.TextureFormatRGBA16Float:          {gl.RGBA16F, gl.RGBA, gl.HALF_FLOAT},
	gputypes.TextureFormatR32Float:             {gl.R32F, gl.RED, gl.FLOAT},
	gputypes.TextureFormatRG32Float:            {gl.RG32F, gl.RG, gl.FLOAT},
	gputypes.TextureFormatRGBA32Float:          {gl.RGBA32F, gl.RGBA, gl.FLOAT},
	gputypes.TextureFormatRG11B10Ufloat:        {gl.R11F_G11F_B10F, gl.RGB, gl.UNSIGNED_INT_10F_11F_11F_REV},
	gputypes.TextureFormatRGB10A2Unorm:         {gl.RGB10_A2, gl.RGBA, gl.UNSIGNED_INT_2_10_10_10_REV},
	gputypes.TextureFormatDepth16Unorm:         {gl.DEPTH_COMPONENT16, gl.DEPTH_COMPONENT, gl.UNSIGNED_SHORT},
	gputypes.TextureFormatDepth24Plus:          {gl.DEPTH_COMPONENT24, gl.DEPTH_COMPONENT, gl.UNSIGNED_INT},
	gputypes.TextureFormatDepth24PlusStencil8:  {gl.DEPTH24_STENCIL8, gl.DEPTH_STENCIL, gl.UNSIGNED_INT_24_8},
	gputypes.TextureFormatDepth32Float:         {gl.DEPTH_COMPONENT32F, gl.DEPTH_COMPONENT, gl.FLOAT},
	gputypes.TextureFormatDepth32FloatStencil8: {gl.DEPTH32F_STENCIL8, gl.DEPTH_STENCIL, gl.FLOAT_32_UNSIGNED_INT_24_8_REV},
}

type textureObj struct {
	handle uint32
	target uint32
	desc   gpucore.TextureDesc
}

// CreateTexture implements gpucore.TextureDevice. Multisampled textures
// use GL_TEXTURE_2D_MULTISAMPLE and have a single level.
func (d *Device) CreateTexture(desc gpucore.TextureDesc) (gpucore.TextureID, error) {
	if err := desc.Validate(); err != nil {
		return gpucore.InvalidID, err
	}
	desc = desc.Normalized()
	pf, ok := pixelFormats[desc.Format]
	if !ok {
		return gpucore.InvalidID, fmt.Errorf("opengl: unsupported texture format %s", desc.Format)
	}

	t := &textureObj{target: gl.TEXTURE_2D, desc: desc}
	gl.GenTextures(1, &t.handle)
	w, h := int32(desc.Width), int32(desc.Height)
	if desc.Multisampled() {
		t.target = gl.TEXTURE_2D_MULTISAMPLE
		gl.BindTexture(t.target, t.handle)
		gl.TexImage2DMultisample(t.target, int32(desc.Samples), uint32(pf.internal), w, h, true)
	} else {
		gl.BindTexture(t.target, t.handle)
		for level := int32(0); level < int32(desc.MipLevels); level++ {
			gl.TexImage2D(t.target, level, pf.internal, max(w>>level, 1), max(h>>level, 1), 0, pf.format, pf.xtype, nil)
		}
		gl.TexParameteri(t.target, gl.TEXTURE_MAX_LEVEL, int32(desc.MipLevels)-1)
		gl.TexParameteri(t.target, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.TexParameteri(t.target, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	}
	gl.BindTexture(t.target, 0)
	if e := gl.GetError(); e != gl.NO_ERROR {
		gl.DeleteTextures(1, &t.handle)
		return gpucore.InvalidID, fmt.Errorf("opengl: create texture %q: GL error 0x%x", desc.Label, e)
	}

	id := gpucore.TextureID(d.newID())
	d.textures[id] = t
	return id, nil
}

// DeleteTexture implements gpucore.TextureDevice.
func (d *Device) DeleteTexture(id gpucore.TextureID) {
	if t, ok := d.textures[id]; ok {
		gl.DeleteTextures(1, &t.handle)
		delete(d.textures, id)
	}
}

// CreateFramebuffer implements gpucore.FramebufferDevice.
func (d *Device) CreateFramebuffer() (gpucore.FramebufferID, error) {
	var handle uint32
	gl.GenFramebuffers(1, &handle)
	if handle == 0 {
		return gpucore.InvalidID, fmt.Errorf("opengl: glGenFramebuffers failed")
	}
	id := gpucore.FramebufferID(d.newID())
	d.framebuffers[id] = handle
	return id, nil
}

// glAttachment maps an attachment point to its GL enum. The depth slot
// becomes the combined depth-stencil attachment for formats with stencil.
func glAttachment(p gpucore.AttachmentPoint, format gputypes.TextureFormat) uint32 {
	switch {
	case p.IsDepth() && format.HasStencil():
		return gl.DEPTH_STENCIL_ATTACHMENT
	case p.IsDepth():
		return gl.DEPTH_ATTACHMENT
	default:
		return gl.COLOR_ATTACHMENT0 + uint32(p.ColorIndex())
	}
}

// FramebufferTexture implements gpucore.FramebufferDevice.
func (d *Device) FramebufferTexture(fb gpucore.FramebufferID, point gpucore.AttachmentPoint, tex gpucore.TextureID, level uint32) error {
	handle, ok := d.framebuffers[fb]
	if !ok {
		return fmt.Errorf("opengl: unknown framebuffer %d", fb)
	}
	t, ok := d.textures[tex]
	if !ok {
		return fmt.Errorf("opengl: unknown texture %d", tex)
	}
	if !point.Valid() {
		return fmt.Errorf("opengl: invalid attachment point %v", point)
	}
	if level >= t.desc.MipLevels {
		return fmt.Errorf("opengl: level %d out of range for %q (%d levels)", level, t.desc.Label, t.desc.MipLevels)
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, handle)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, glAttachment(point, t.desc.Format), t.target, t.handle, int32(level))
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return nil
}

// FramebufferDrawBuffers implements gpucore.FramebufferDevice.
func (d *Device) FramebufferDrawBuffers(fb gpucore.FramebufferID, buffers []gpucore.AttachmentPoint) error {
	handle, ok := d.framebuffers[fb]
	if !ok {
		return fmt.Errorf("opengl: unknown framebuffer %d", fb)
	}
	if len(buffers) > gpucore.MaxColorAttachments {
		return fmt.Errorf("opengl: %d draw buffers exceed %d", len(buffers), gpucore.MaxColorAttachments)
	}
	bufs := make([]uint32, len(buffers))
	for i, p := range buffers {
		switch {
		case p == gpucore.NoAttachment:
			bufs[i] = gl.NONE
		case p.IsColor():
			bufs[i] = gl.COLOR_ATTACHMENT0 + uint32(p.ColorIndex())
		default:
			return fmt.Errorf("opengl: draw buffer %v is not a color attachment", p)
		}
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, handle)
	if len(bufs) == 0 {
		gl.DrawBuffer(gl.NONE)
	} else {
		gl.DrawBuffers(int32(len(bufs)), &bufs[0])
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return nil
}

// CheckFramebufferStatus implements gpucore.FramebufferDevice.
func (d *Device) CheckFramebufferStatus(fb gpucore.FramebufferID) gpucore.FramebufferStatus {
	handle, ok := d.framebuffers[fb]
	if !ok {
		return gpucore.FramebufferUnsupported
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, handle)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return framebufferStatus(status)
}

func framebufferStatus(status uint32) gpucore.FramebufferStatus {
	switch status {
	case gl.FRAMEBUFFER_COMPLETE:
		return gpucore.FramebufferComplete
	case gl.FRAMEBUFFER_INCOMPLETE_ATTACHMENT:
		return gpucore.FramebufferIncompleteAttachment
	case gl.FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT:
		return gpucore.FramebufferMissingAttachment
	case gl.FRAMEBUFFER_INCOMPLETE_MULTISAMPLE:
		return gpucore.FramebufferIncompleteMultisample
	case gl.FRAMEBUFFER_INCOMPLETE_DRAW_BUFFER, gl.FRAMEBUFFER_INCOMPLETE_READ_BUFFER:
		return gpucore.FramebufferIncompleteDrawBuffer
	default:
		return gpucore.FramebufferUnsupported
	}
}

// DeleteFramebuffer implements gpucore.FramebufferDevice.
func (d *Device) DeleteFramebuffer(fb gpucore.FramebufferID) {
	if handle, ok := d.framebuffers[fb]; ok {
		gl.DeleteFramebuffers(1, &handle)
		delete(d.framebuffers, fb)
	}
}
