// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/gogpu/shaderkit"
	"github.com/gogpu/shaderkit/gpucore"
)

// Framebuffer is a set of attachments bound to one framebuffer object.
//
// Attachments are added first; Allocate then creates the framebuffer object
// and the textures at the framebuffer size. Resize reallocates the textures
// and rebinds them, so every resize yields new texture IDs.
//
// Allocate may be called from several goroutines; only one call does the
// work. Everything else is render-thread only.
type Framebuffer struct {
	dev      gpucore.FramebufferDevice
	textures *Textures

	width, height uint32

	depth  *Attachment
	colors [MaxColorAttachments]*Attachment

	handle    gpucore.FramebufferID
	allocated atomic.Bool

	// bound records the texture ID bound per slot; index 0 is depth and
	// index i+1 is color slot i.
	bound [MaxColorAttachments + 1]gpucore.TextureID

	drawBuffers []AttachmentPoint
	status      gpucore.FramebufferStatus
	err         error
}

// NewFramebuffer returns an unallocated framebuffer of the given size.
func NewFramebuffer(dev gpucore.FramebufferDevice, textures *Textures, width, height uint32) *Framebuffer {
	return &Framebuffer{dev: dev, textures: textures, width: width, height: height}
}

func (f *Framebuffer) slot(p AttachmentPoint) **Attachment {
	switch {
	case p.IsDepth():
		return &f.depth
	case p.Valid():
		return &f.colors[p.ColorIndex()]
	default:
		return nil
	}
}

func boundIndex(p AttachmentPoint) int {
	if p.IsDepth() {
		return 0
	}
	return p.ColorIndex() + 1
}

// AddAttachment stores a in its slot. It returns false, changing nothing,
// when the point is out of range, the slot is occupied or the framebuffer
// is already allocated. The attachment set of an allocated framebuffer is
// fixed; only its size changes.
func (f *Framebuffer) AddAttachment(a Attachment) bool {
	if f.allocated.Load() {
		return false
	}
	slot := f.slot(a.Point)
	if slot == nil || *slot != nil {
		return false
	}
	*slot = &a
	return true
}

// Attachment returns the attachment at p.
func (f *Framebuffer) Attachment(p AttachmentPoint) (Attachment, bool) {
	slot := f.slot(p)
	if slot == nil || *slot == nil {
		return Attachment{}, false
	}
	return **slot, true
}

// attachments returns depth first, then colors in slot order.
func (f *Framebuffer) attachments() []*Attachment {
	out := make([]*Attachment, 0, 1+MaxColorAttachments)
	if f.depth != nil {
		out = append(out, f.depth)
	}
	for _, c := range f.colors {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Allocate creates the framebuffer object, allocates the depth and color
// textures at the framebuffer size, binds them and sets the draw-buffer
// table. Only the first successful call does anything; it returns true and
// later calls return false. When the framebuffer object cannot be created
// Allocate returns false and may be retried. Attachment errors are logged
// and available from Err; an incomplete framebuffer is logged as a warning.
func (f *Framebuffer) Allocate() bool {
	if !f.allocated.CompareAndSwap(false, true) {
		return false
	}
	f.err = nil

	id, err := f.dev.CreateFramebuffer()
	if err != nil {
		f.setErr(fmt.Errorf("render: create framebuffer: %w", err))
		f.allocated.Store(false)
		return false
	}
	f.handle = id

	for _, a := range f.attachments() {
		if err := a.allocate(f.textures, f.width, f.height); err != nil {
			f.setErr(fmt.Errorf("render: %s: %w", a.Point, err))
			continue
		}
		f.setErr(f.bindAttachment(a))
	}
	f.setErr(f.updateDrawBuffers())
	f.checkStatus()
	return true
}

func (f *Framebuffer) bindAttachment(a *Attachment) error {
	tex := f.textures.ID(a.Texture)
	if tex == gpucore.InvalidID {
		if err := a.allocate(f.textures, f.width, f.height); err != nil {
			return fmt.Errorf("render: %s: %w", a.Point, err)
		}
		tex = f.textures.ID(a.Texture)
	}
	if err := f.dev.FramebufferTexture(f.handle, a.Point, tex, a.Level); err != nil {
		return fmt.Errorf("render: bind %s: %w", a.Point, err)
	}
	f.bound[boundIndex(a.Point)] = tex
	return nil
}

// updateDrawBuffers maps fragment output i to color slot i, up to the
// highest populated slot.
func (f *Framebuffer) updateDrawBuffers() error {
	last := -1
	for i, c := range f.colors {
		if c != nil {
			last = i
		}
	}
	table := make([]AttachmentPoint, last+1)
	for i := range table {
		if f.colors[i] != nil {
			table[i] = ColorPoint(i)
		} else {
			table[i] = gpucore.NoAttachment
		}
	}
	f.drawBuffers = table
	if err := f.dev.FramebufferDrawBuffers(f.handle, table); err != nil {
		return fmt.Errorf("render: draw buffers: %w", err)
	}
	return nil
}

func (f *Framebuffer) checkStatus() {
	f.status = f.dev.CheckFramebufferStatus(f.handle)
	if f.status != gpucore.FramebufferComplete {
		shaderkit.Logger().Warn("framebuffer is incomplete",
			"handle", uint64(f.handle), "status", f.status.String(), "width", f.width, "height", f.height)
	}
}

func (f *Framebuffer) setErr(err error) {
	if err == nil {
		return
	}
	shaderkit.Logger().Error("framebuffer setup failed", "err", err)
	f.err = errors.Join(f.err, err)
}

// Resize changes the framebuffer size and reallocates every attachment at
// the new size. An allocated framebuffer gets the new textures bound. It
// returns false for a zero dimension.
func (f *Framebuffer) Resize(width, height uint32) bool {
	if width == 0 || height == 0 {
		return false
	}
	f.width, f.height = width, height
	f.err = nil
	for _, a := range f.attachments() {
		if err := a.resize(f.textures, width, height); err != nil {
			f.setErr(fmt.Errorf("render: %s: %w", a.Point, err))
		}
	}
	if f.allocated.Load() && f.handle != gpucore.InvalidID {
		f.Sync()
	}
	return true
}

// Sync rebinds attachments whose texture changed since it was bound, e.g.
// a shared texture resized through another framebuffer.
func (f *Framebuffer) Sync() {
	if f.handle == gpucore.InvalidID {
		return
	}
	changed := false
	for _, a := range f.attachments() {
		tex := f.textures.ID(a.Texture)
		if tex == gpucore.InvalidID || tex == f.bound[boundIndex(a.Point)] {
			continue
		}
		f.setErr(f.bindAttachment(a))
		changed = true
	}
	if changed {
		f.checkStatus()
	}
}

// Handle returns the framebuffer object, or gpucore.InvalidID before
// Allocate.
func (f *Framebuffer) Handle() gpucore.FramebufferID { return f.handle }

// Size returns the framebuffer size.
func (f *Framebuffer) Size() (width, height uint32) { return f.width, f.height }

// Allocated reports whether Allocate has run.
func (f *Framebuffer) Allocated() bool { return f.allocated.Load() }

// DrawBuffers returns the draw-buffer table set by Allocate.
func (f *Framebuffer) DrawBuffers() []AttachmentPoint {
	out := make([]AttachmentPoint, len(f.drawBuffers))
	copy(out, f.drawBuffers)
	return out
}

// Status returns the completeness reported by the last check.
func (f *Framebuffer) Status() gpucore.FramebufferStatus { return f.status }

// Err returns the errors of the last Allocate or Resize, or nil.
func (f *Framebuffer) Err() error { return f.err }

// Texture returns the GPU texture bound at p.
func (f *Framebuffer) Texture(p AttachmentPoint) gpucore.TextureID {
	a, ok := f.Attachment(p)
	if !ok {
		return gpucore.InvalidID
	}
	return f.textures.ID(a.Texture)
}

// Release deletes the framebuffer object and the textures of its
// attachments, shared ones included. Other holders of a released handle see
// it as invalid. The framebuffer is left empty and unallocated.
func (f *Framebuffer) Release() {
	if f.handle != gpucore.InvalidID {
		f.dev.DeleteFramebuffer(f.handle)
		f.handle = gpucore.InvalidID
	}
	for _, a := range f.attachments() {
		f.textures.Release(a.Texture)
	}
	f.depth = nil
	f.colors = [MaxColorAttachments]*Attachment{}
	f.bound = [MaxColorAttachments + 1]gpucore.TextureID{}
	f.drawBuffers = nil
	f.allocated.Store(false)
}
