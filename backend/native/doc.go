// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package native provides a Pure Go GPU backend using gogpu/wgpu HAL and
// the gogpu/naga shader compiler.
//
// Shaders must be WGSL. CompileShader runs the naga pipeline (parse, lower,
// validate, SPIR-V) and creates a HAL shader module; the shader's stage must
// have a matching entry point. WebGPU has no tessellation or geometry
// stages, so those shaders fail to compile.
//
// Uniform locations are derived from resource bindings: a global declared
// with @group(g) @binding(b) has location BindingLocation(g, b).
//
// Framebuffers are tracked by the device and turned into HAL render passes
// by [Device.RenderPassDescriptor].
//
// Importing the package registers the backend under the name "native"; the
// registered factory opens a device on the HAL noop backend. Use
// [NewFromProvider] to share the device of a gogpu application.
package native
