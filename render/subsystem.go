// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"github.com/gogpu/shaderkit/shader/managed"
)

// ReconfigureEvent describes a change of the output configuration.
type ReconfigureEvent struct {
	Width, Height uint32
	Antialiasing  AntialiasingMode

	// OnlyResize is set when only the resolution changed and shaders need
	// not be reloaded.
	OnlyResize bool
}

// Subsystem is a render feature that owns framebuffers and programs and
// follows the RenderGlobal configuration.
type Subsystem interface {
	// Initialize creates the subsystem's resources. Framebuffers are
	// allocated on the first Reconfigure.
	Initialize() error

	// Reconfigure adapts the subsystem to a new resolution or
	// antialiasing mode.
	Reconfigure(e ReconfigureEvent) error

	// Programs returns the managed programs the RenderGlobal reloads and
	// recompiles on the subsystem's behalf.
	Programs() []*managed.ManagedProgram

	// Release frees every resource.
	Release()
}
