// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package opengl provides a gpucore.Device backed by OpenGL 4.1 core
// through github.com/go-gl/gl.
//
// The backend needs cgo and a current OpenGL context, so it is only built
// with the "opengl" build tag:
//
//	go build -tags opengl ./...
//
// GLSL sources are handed to the driver unchanged. WGSL sources are
// translated to GLSL 4.50 with the native backend's naga pipeline first,
// so the same shader files run on both backends.
//
// All methods must be called on the thread that owns the context.
// Importing the package registers the backend under the name "opengl"; the
// registered factory fails if no context is current.
package opengl
