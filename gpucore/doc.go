// Package gpucore provides the shared GPU abstractions of shaderkit.
//
// This package defines the [Device] interface, which abstracts over the
// backends that own shader, program, texture and framebuffer objects:
//   - backend/native: gogpu/wgpu HAL with gogpu/naga shader compilation
//   - backend/opengl: OpenGL 4.5 core through go-gl
//
// # Architecture
//
// The state machines (shader compile/link, framebuffer allocation) are
// implemented once in the shader and render packages. Thin backends
// translate [Device] calls to their APIs.
//
//	      +-----------+     +-----------+
//	      |  shader   |     |  render   |
//	      +-----+-----+     +-----+-----+
//	            |                 |
//	            +--------+--------+
//	                     |
//	              +------v------+
//	              |   gpucore   |
//	              |  (Device)   |
//	              +------+------+
//	                     |
//	         +-----------+-----------+
//	         |                       |
//	+--------v--------+     +--------v--------+
//	| backend/native  |     | backend/opengl  |
//	|  (hal + naga)   |     |    (go-gl)      |
//	+-----------------+     +-----------------+
//
// # Resource Management
//
// GPU objects are managed via opaque IDs ([ShaderID], [ProgramID],
// [TextureID], [FramebufferID]). [InvalidID] is never issued, so the zero
// value of every ID means "not allocated". A Device never reuses an ID,
// which makes a reallocated texture observable as a changed ID.
//
// # Stages
//
// [ShaderStage] covers the six programmable stages in canonical order:
// Vertex, Fragment, TessControl, TessEvaluation, Geometry and Compute.
package gpucore
