// Package shader implements the shader and program state machines.
//
// A [Shader] holds source for one pipeline stage and compiles it into a
// device handle. A [Program] owns at most one shader per stage and links the
// compiled stages into a program handle. Both report outcomes as explicit
// results ([CompileResult], [LinkResult]) rather than panicking, and both
// keep the invariant that a handle is either valid or [gpucore.InvalidID]:
// failed compilations and links delete their objects immediately.
//
// Lifecycle:
//
//	prog := shader.NewProgram(dev)
//	vs := shader.NewShader(dev, gpucore.StageVertex)
//	vs.SetSource(shader.GLSL(src))
//	prog.AttachShader(vs)
//	prog.CompileAll(shader.DefaultCompileOptions())
//	res := prog.Link(shader.DefaultLinkOptions())
//	if !res.OK() { ... }
//	defer prog.Dispose()
package shader
