// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"fmt"

	"github.com/gogpu/shaderkit"
	"github.com/gogpu/shaderkit/gpucore"
)

// ErrInvalidHandle is returned for a TextureHandle whose slot was released.
var ErrInvalidHandle = errors.New("render: invalid texture handle")

// TextureHandle addresses a texture slot in a Textures arena. Handles are
// plain values: copies refer to the same texture, so a texture shared by
// several attachments is resized once for all of them. The zero value is
// never valid.
type TextureHandle struct {
	index      uint32
	generation uint32
}

// IsZero reports whether h is the zero handle.
func (h TextureHandle) IsZero() bool { return h.generation == 0 }

type textureSlot struct {
	desc       gpucore.TextureDesc
	id         gpucore.TextureID
	generation uint32
	live       bool
}

// Textures owns render-target textures and their GPU objects. A slot keeps
// its descriptor; the GPU texture is (re)created by Allocate with the size
// it is given.
//
// Textures is not safe for concurrent use.
type Textures struct {
	dev   gpucore.TextureDevice
	slots []textureSlot
	free  []uint32
}

// NewTextures returns an empty arena creating textures on dev.
func NewTextures(dev gpucore.TextureDevice) *Textures {
	return &Textures{dev: dev}
}

// New registers a texture. Width and height of desc are ignored; the GPU
// texture is created by Allocate.
func (t *Textures) New(desc gpucore.TextureDesc) TextureHandle {
	desc.Width, desc.Height = 0, 0
	var index uint32
	if n := len(t.free); n > 0 {
		index = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		index = uint32(len(t.slots))
		t.slots = append(t.slots, textureSlot{})
	}
	s := &t.slots[index]
	s.generation++
	s.desc, s.id, s.live = desc, gpucore.InvalidID, true
	return TextureHandle{index: index, generation: s.generation}
}

func (t *Textures) slot(h TextureHandle) *textureSlot {
	if h.IsZero() || int(h.index) >= len(t.slots) {
		return nil
	}
	s := &t.slots[h.index]
	if !s.live || s.generation != h.generation {
		return nil
	}
	return s
}

// Valid reports whether h refers to a live slot.
func (t *Textures) Valid(h TextureHandle) bool { return t.slot(h) != nil }

// Desc returns the descriptor of h including its allocated size.
func (t *Textures) Desc(h TextureHandle) (gpucore.TextureDesc, bool) {
	s := t.slot(h)
	if s == nil {
		return gpucore.TextureDesc{}, false
	}
	return s.desc, true
}

// ID returns the GPU texture of h, or gpucore.InvalidID when h is invalid
// or not allocated.
func (t *Textures) ID(h TextureHandle) gpucore.TextureID {
	if s := t.slot(h); s != nil {
		return s.id
	}
	return gpucore.InvalidID
}

// Size returns the allocated size of h.
func (t *Textures) Size(h TextureHandle) (width, height uint32) {
	if s := t.slot(h); s != nil {
		return s.desc.Width, s.desc.Height
	}
	return 0, 0
}

// Allocate creates the GPU texture of h at width x height. An allocated
// texture of the same size is kept; otherwise the old texture is deleted
// and a new one with a new ID is created.
func (t *Textures) Allocate(h TextureHandle, width, height uint32) error {
	s := t.slot(h)
	if s == nil {
		return ErrInvalidHandle
	}
	if s.id != gpucore.InvalidID && s.desc.Width == width && s.desc.Height == height {
		return nil
	}
	return t.create(s, width, height)
}

// Reallocate deletes the GPU texture of h, if any, and creates a new one at
// width x height, even when the size is unchanged.
func (t *Textures) Reallocate(h TextureHandle, width, height uint32) error {
	s := t.slot(h)
	if s == nil {
		return ErrInvalidHandle
	}
	return t.create(s, width, height)
}

func (t *Textures) create(s *textureSlot, width, height uint32) error {
	desc := s.desc
	desc.Width, desc.Height = width, height
	if err := desc.Validate(); err != nil {
		return fmt.Errorf("render: allocate %q: %w", desc.Label, err)
	}
	if s.id != gpucore.InvalidID {
		t.dev.DeleteTexture(s.id)
		s.id = gpucore.InvalidID
	}
	id, err := t.dev.CreateTexture(desc)
	if err != nil {
		return fmt.Errorf("render: allocate %q: %w", desc.Label, err)
	}
	s.desc, s.id = desc, id
	shaderkit.Logger().Debug("texture allocated",
		"label", desc.Label, "id", uint64(id), "width", width, "height", height, "samples", desc.Samples)
	return nil
}

// Release deletes the GPU texture and frees the slot. Handles to it become
// invalid.
func (t *Textures) Release(h TextureHandle) {
	s := t.slot(h)
	if s == nil {
		return
	}
	if s.id != gpucore.InvalidID {
		t.dev.DeleteTexture(s.id)
	}
	s.id, s.live = gpucore.InvalidID, false
	t.free = append(t.free, h.index)
}

// Len returns the number of live slots.
func (t *Textures) Len() int {
	return len(t.slots) - len(t.free)
}
