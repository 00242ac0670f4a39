// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package render manages render targets and the configuration that drives
// them.
//
// # Textures
//
// Render-target textures live in a [Textures] arena and are addressed by
// [TextureHandle] values. Attachments in different framebuffers may share a
// handle; resizing the texture through one of them is seen by all. Every
// (re)allocation issues a new GPU texture ID.
//
// # Framebuffers
//
// A [Framebuffer] holds a depth attachment and up to [MaxColorAttachments]
// color attachments. [Framebuffer.Allocate] creates the framebuffer object
// once, allocates and binds the textures and sets the draw-buffer table
// (fragment output i writes color slot i). [Framebuffer.Resize] reallocates
// the textures and rebinds them.
//
// # Antialiasing
//
// [AntialiasingMode] selects color and depth sample counts:
//
//	none         1 / 1
//	msaa<n>      n / n
//	sdaa<c>      1 / c
//	scaa<c>x<k>  c / k
//
// # Configuration
//
// [RenderGlobal] owns the HDR scene framebuffer (Depth32Float depth,
// RG11B10Ufloat and RGBA8Unorm colors), forwards [ReconfigureEvent]s to
// [Subsystem]s such as [SSSResolve] and reloads their shader programs at the
// start of the next frame.
package render
