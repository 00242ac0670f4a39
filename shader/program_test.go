package shader

import (
	"errors"
	"testing"

	"github.com/gogpu/shaderkit/gpucore"
	"github.com/gogpu/shaderkit/internal/gputest"
)

const fragmentSrc = "#version 450\nuniform vec4 u_color;\nuniform sampler2D u_tex;\nout vec4 o;\nvoid main() { o = u_color; }\n"

func newTestProgram(t *testing.T, dev *gputest.Device, sources map[gpucore.ShaderStage]string) *Program {
	t.Helper()
	p := NewProgram(dev)
	for _, stage := range gpucore.Stages() {
		src, ok := sources[stage]
		if !ok {
			continue
		}
		s := NewShader(dev, stage)
		s.SetSource(GLSL(src))
		if !p.AttachShader(s) {
			t.Fatalf("AttachShader(%v) = false", stage)
		}
	}
	return p
}

func TestProgramAttachShaderOccupied(t *testing.T) {
	dev := gputest.New()
	p := NewProgram(dev)
	a := NewShader(dev, gpucore.StageVertex)
	b := NewShader(dev, gpucore.StageVertex)

	if !p.AttachShader(a) {
		t.Fatal("first attach should succeed")
	}
	if p.AttachShader(b) {
		t.Error("second attach to the same stage should fail")
	}
	if p.Shader(gpucore.StageVertex) != a {
		t.Error("occupied slot must keep the original shader")
	}
	if p.AttachShader(nil) {
		t.Error("attaching nil should fail")
	}
}

func TestProgramShadersCanonicalOrder(t *testing.T) {
	dev := gputest.New()
	p := NewProgram(dev)
	for _, stage := range []gpucore.ShaderStage{gpucore.StageGeometry, gpucore.StageFragment, gpucore.StageVertex} {
		p.AttachShader(NewShader(dev, stage))
	}

	got := p.Shaders()
	want := []gpucore.ShaderStage{gpucore.StageVertex, gpucore.StageFragment, gpucore.StageGeometry}
	if len(got) != len(want) {
		t.Fatalf("Shaders() len = %d, want %d", len(got), len(want))
	}
	for i, s := range got {
		if s.Stage() != want[i] {
			t.Errorf("Shaders()[%d] = %v, want %v", i, s.Stage(), want[i])
		}
	}
}

func TestProgramDetachShader(t *testing.T) {
	dev := gputest.New()
	p := NewProgram(dev)
	s := NewShader(dev, gpucore.StageFragment)
	p.AttachShader(s)

	if got := p.DetachShader(gpucore.StageFragment); got != s {
		t.Errorf("DetachShader() = %v, want attached shader", got)
	}
	if p.HasStage(gpucore.StageFragment) {
		t.Error("stage should be free after detach")
	}
	if p.DetachShader(gpucore.StageFragment) != nil {
		t.Error("detaching an empty slot should return nil")
	}
	if !p.AttachShader(s) {
		t.Error("slot should accept a shader again")
	}
}

func TestProgramLinkSuccess(t *testing.T) {
	dev := gputest.New()
	p := newTestProgram(t, dev, map[gpucore.ShaderStage]string{
		gpucore.StageVertex:   vertexSrc,
		gpucore.StageFragment: fragmentSrc,
	})

	results := p.CompileAll(DefaultCompileOptions())
	for stage, res := range results {
		if !res.OK() {
			t.Fatalf("compile %v: %+v", stage, res)
		}
	}

	res := p.Link(DefaultLinkOptions())
	if !res.OK() {
		t.Fatalf("Link() = %+v", res)
	}
	if !p.Linked() {
		t.Fatal("program should be linked")
	}
	if got := dev.AttachedShaders(p.Handle()); len(got) != 0 {
		t.Errorf("shaders still attached after link: %v", got)
	}
	if n := dev.Count("AttachShader"); n != 2 {
		t.Errorf("AttachShader calls = %d, want 2", n)
	}
}

func TestProgramLinkUncompiledShader(t *testing.T) {
	dev := gputest.New()
	p := newTestProgram(t, dev, map[gpucore.ShaderStage]string{
		gpucore.StageVertex:   vertexSrc,
		gpucore.StageFragment: fragmentSrc,
	})
	p.Shader(gpucore.StageVertex).Compile(DefaultCompileOptions())

	res := p.Link(DefaultLinkOptions())
	if res.Status != LinkUncompiledShader || res.Stage != gpucore.StageFragment {
		t.Fatalf("Link() = %+v, want UncompiledShader for Fragment", res)
	}
	if dev.Count("CreateProgram") != 0 {
		t.Error("no program object should be created")
	}
	if !errors.Is(res.Err(), ErrUncompiledShader) {
		t.Errorf("Err() = %v", res.Err())
	}
}

func TestProgramLinkUncompiledKeepsPrevious(t *testing.T) {
	dev := gputest.New()
	p := newTestProgram(t, dev, map[gpucore.ShaderStage]string{gpucore.StageVertex: vertexSrc})
	p.CompileAll(DefaultCompileOptions())
	p.Link(DefaultLinkOptions())
	linked := p.Handle()

	p.Shader(gpucore.StageVertex).Dispose()
	p.Link(DefaultLinkOptions())
	if p.Handle() != linked {
		t.Error("failed pre-check must not release the linked program")
	}
}

func TestProgramLinkFailure(t *testing.T) {
	dev := gputest.New()
	p := newTestProgram(t, dev, map[gpucore.ShaderStage]string{
		gpucore.StageVertex:   vertexSrc,
		gpucore.StageFragment: fragmentSrc + gputest.LinkFailMarker + "\n",
	})
	p.CompileAll(DefaultCompileOptions())

	res := p.Link(DefaultLinkOptions())
	if res.Status != LinkFailed {
		t.Fatalf("Link() status = %v, want LinkError", res.Status)
	}
	if res.Log == "" {
		t.Error("failure log should be captured by default")
	}
	if p.Linked() {
		t.Error("failed link must leave the handle invalid")
	}
	if dev.LivePrograms() != 0 {
		t.Errorf("LivePrograms() = %d, failed program must be deleted", dev.LivePrograms())
	}
	var le *LinkError
	if !errors.As(res.Err(), &le) || !errors.Is(res.Err(), ErrLink) {
		t.Errorf("Err() = %v, want *LinkError", res.Err())
	}
}

func TestProgramRelinkReleasesPrevious(t *testing.T) {
	dev := gputest.New()
	p := newTestProgram(t, dev, map[gpucore.ShaderStage]string{gpucore.StageCompute: "void main() {}"})
	p.CompileAll(DefaultCompileOptions())
	p.Link(DefaultLinkOptions())
	first := p.Handle()

	p.Link(DefaultLinkOptions())
	if p.Handle() == first {
		t.Error("relink should create a new program object")
	}
	if dev.LivePrograms() != 1 {
		t.Errorf("LivePrograms() = %d, want 1", dev.LivePrograms())
	}
}

func TestProgramCompileAllContinuesAfterFailure(t *testing.T) {
	dev := gputest.New()
	p := newTestProgram(t, dev, map[gpucore.ShaderStage]string{
		gpucore.StageVertex:   gputest.FailMarker,
		gpucore.StageFragment: fragmentSrc,
	})

	results := p.CompileAll(DefaultCompileOptions())
	if results[gpucore.StageVertex].OK() {
		t.Error("vertex stage should fail")
	}
	if !results[gpucore.StageFragment].OK() {
		t.Error("fragment stage should still compile")
	}
}

func TestProgramUniformLocation(t *testing.T) {
	dev := gputest.New()
	p := newTestProgram(t, dev, map[gpucore.ShaderStage]string{
		gpucore.StageVertex:   vertexSrc,
		gpucore.StageFragment: fragmentSrc,
	})

	if _, ok := p.UniformLocation("u_mvp"); ok {
		t.Error("unlinked program should have no uniforms")
	}

	p.CompileAll(DefaultCompileOptions())
	p.Link(DefaultLinkOptions())

	loc, ok := p.UniformLocation("u_color")
	if !ok || loc < 0 {
		t.Fatalf("UniformLocation(u_color) = %d, %v", loc, ok)
	}
	if _, ok := p.UniformLocation("u_missing"); ok {
		t.Error("unknown uniform should not be found")
	}

	before := dev.Count("UniformLocation")
	p.UniformLocation("u_color")
	p.UniformLocation("u_missing")
	if dev.Count("UniformLocation") != before {
		t.Error("repeated lookups should be served from the cache")
	}
}

func TestProgramDispose(t *testing.T) {
	dev := gputest.New()
	p := newTestProgram(t, dev, map[gpucore.ShaderStage]string{
		gpucore.StageVertex:   vertexSrc,
		gpucore.StageFragment: fragmentSrc,
	})
	p.CompileAll(DefaultCompileOptions())
	p.Link(DefaultLinkOptions())

	p.Dispose()
	p.Dispose()
	if p.Linked() {
		t.Error("program should be unlinked after Dispose")
	}
	if dev.LivePrograms() != 0 || dev.LiveShaders() != 0 {
		t.Errorf("leaked objects: %d programs, %d shaders", dev.LivePrograms(), dev.LiveShaders())
	}
	if n := dev.Count("DeleteProgram"); n != 1 {
		t.Errorf("DeleteProgram calls = %d, want 1", n)
	}
}

func TestUniformCacheInvalidatesOnHandleChange(t *testing.T) {
	dev := gputest.New()
	p := newTestProgram(t, dev, map[gpucore.ShaderStage]string{gpucore.StageVertex: vertexSrc})
	p.CompileAll(DefaultCompileOptions())
	p.Link(DefaultLinkOptions())

	c := NewUniformCache(dev)
	if _, ok := c.Location(p.Handle(), "u_mvp"); !ok {
		t.Fatal("u_mvp should resolve")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}

	p.Link(DefaultLinkOptions())
	if _, ok := c.Location(p.Handle(), "u_mvp"); !ok {
		t.Fatal("u_mvp should resolve on the new handle")
	}
	if c.Len() != 1 {
		t.Errorf("cache should reset on handle change, Len() = %d", c.Len())
	}

	c.Invalidate()
	if c.Len() != 0 {
		t.Error("Invalidate should clear the cache")
	}
}
