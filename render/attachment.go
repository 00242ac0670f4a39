// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/shaderkit/gpucore"
)

// AttachmentPoint is a framebuffer slot: depth or one of the color slots.
type AttachmentPoint = gpucore.AttachmentPoint

// MaxColorAttachments is the number of color slots of a Framebuffer.
const MaxColorAttachments = gpucore.MaxColorAttachments

// DepthPoint returns the depth slot.
func DepthPoint() AttachmentPoint { return gpucore.DepthAttachment }

// ColorPoint returns color slot i. Out-of-range indices yield a point whose
// Valid method reports false.
func ColorPoint(i int) AttachmentPoint { return gpucore.ColorAttachment(i) }

// Attachment binds a texture mip level to a framebuffer slot.
type Attachment struct {
	Point   AttachmentPoint
	Texture TextureHandle
	Level   uint32

	// shared is set for attachments that borrow a texture owned elsewhere.
	shared bool
}

// NewAttachment registers a new texture of format in textures and returns
// an attachment for it at level 0. samples <= 1 means single-sample.
func NewAttachment(textures *Textures, point AttachmentPoint, format gputypes.TextureFormat, samples uint32) Attachment {
	if samples == 0 {
		samples = 1
	}
	h := textures.New(gpucore.TextureDesc{
		Label:   point.String(),
		Format:  format,
		Samples: samples,
	})
	return Attachment{Point: point, Texture: h}
}

// AttachmentFromTexture returns an attachment sharing an existing texture.
func AttachmentFromTexture(point AttachmentPoint, texture TextureHandle, level uint32) Attachment {
	return Attachment{Point: point, Texture: texture, Level: level, shared: true}
}

func (a Attachment) allocate(textures *Textures, width, height uint32) error {
	return textures.Allocate(a.Texture, width, height)
}

// resize recreates an owned texture. A shared texture is only brought to the
// new size; its owner issues the new texture and Sync rebinds it.
func (a Attachment) resize(textures *Textures, width, height uint32) error {
	if a.shared {
		return textures.Allocate(a.Texture, width, height)
	}
	return textures.Reallocate(a.Texture, width, height)
}
