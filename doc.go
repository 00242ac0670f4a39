// Package shaderkit is a shader composition and render-target toolkit for
// the GoGPU ecosystem.
//
// # Overview
//
// shaderkit takes shader sources written in SSL, a small line-oriented
// preprocessing language, and turns them into compiled and linked GPU
// programs that can be reloaded from disk while an application runs. It also
// manages the framebuffers those programs render into.
//
// The work is split across sub-packages:
//
//   - ssl: parser and transpiler for SSL sources (@namespace, @import,
//     @exportfunc, @hide)
//   - gpucore: opaque GPU object IDs and the Device interface backends implement
//   - shader: Shader and Program with explicit compile and link results
//   - shader/managed: descriptor-driven programs with hot reload
//   - asset: asset paths and resolvers
//   - render: texture arena, framebuffers, antialiasing modes and the
//     reconfiguration driver
//   - backend/native: Device implementation on gogpu/wgpu HAL and gogpu/naga
//   - backend/opengl: Device implementation on OpenGL 4.1 core (build tag opengl)
//
// # Quick Start
//
//	dev, _ := native.NewNoop()
//	res := asset.NewFolder("assets")
//	prog := managed.New(asset.NewPath("/shaders/scene.program"), res, dev)
//
//	if err := prog.ReloadFromAsset(); err != nil {
//	    log.Fatal(err)
//	}
//	// Once per frame:
//	if prog.NeedsRecompile() {
//	    prog.DoRecompile()
//	}
//
// # Logging
//
// shaderkit is silent by default. Call [SetLogger] to route diagnostics to a
// [log/slog] logger.
package shaderkit
