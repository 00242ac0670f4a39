package shader

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/shaderkit/gpucore"
	"github.com/gogpu/shaderkit/internal/gputest"
)

const vertexSrc = "#version 450\nuniform mat4 u_mvp;\nvoid main() { gl_Position = vec4(0.0); }\n"

func TestShaderCompileMissingSource(t *testing.T) {
	dev := gputest.New()
	s := NewShader(dev, gpucore.StageVertex)

	res := s.Compile(DefaultCompileOptions())
	if res.Status != CompileMissingSource {
		t.Fatalf("Compile() status = %v, want MissingSource", res.Status)
	}
	if !errors.Is(res.Err(), ErrMissingSource) {
		t.Errorf("Err() = %v, want ErrMissingSource", res.Err())
	}
	if dev.Count("CreateShader") != 0 {
		t.Error("missing source must not touch the device")
	}
	if s.Compiled() {
		t.Error("shader should not be compiled")
	}
}

func TestShaderCompileSuccess(t *testing.T) {
	dev := gputest.New()
	s := NewShader(dev, gpucore.StageVertex)
	s.SetSource(GLSL(vertexSrc))

	res := s.Compile(DefaultCompileOptions())
	if !res.OK() {
		t.Fatalf("Compile() = %+v, want success", res)
	}
	if res.Log != "" {
		t.Errorf("success log captured by default: %q", res.Log)
	}
	if !s.Compiled() || s.Handle() == gpucore.InvalidID {
		t.Fatal("shader should hold a compiled handle")
	}
	if res.Err() != nil {
		t.Errorf("Err() = %v, want nil", res.Err())
	}

	src, ok := dev.ShaderSourceOf(s.Handle())
	if !ok || src != vertexSrc {
		t.Errorf("device source = %q, %v", src, ok)
	}
}

func TestShaderCompileSuccessLogCaptured(t *testing.T) {
	dev := gputest.New()
	s := NewShader(dev, gpucore.StageFragment)
	s.SetSource(GLSL("void main() {}"))

	res := s.Compile(CompileOptions{CaptureSuccessLog: true})
	if !res.OK() || res.Log == "" {
		t.Errorf("Compile() = %+v, want success with log", res)
	}
}

func TestShaderCompileFailure(t *testing.T) {
	dev := gputest.New()
	s := NewShader(dev, gpucore.StageFragment)
	s.SetSource(GLSL("void main() {}\n" + gputest.FailMarker + "\n"))

	res := s.Compile(DefaultCompileOptions())
	if res.Status != CompileFailed {
		t.Fatalf("Compile() status = %v, want CompileError", res.Status)
	}
	if !strings.Contains(res.Log, "0:2") {
		t.Errorf("failure log = %q, want line 2", res.Log)
	}
	if s.Compiled() {
		t.Error("failed shader must not keep a handle")
	}
	if dev.LiveShaders() != 0 {
		t.Errorf("LiveShaders() = %d, failed object must be deleted", dev.LiveShaders())
	}

	var ce *CompileError
	if err := res.Err(); !errors.As(err, &ce) || ce.Stage != gpucore.StageFragment {
		t.Errorf("Err() = %v, want *CompileError for Fragment", err)
	}
	if !errors.Is(res.Err(), ErrCompile) {
		t.Error("CompileError should match ErrCompile")
	}
}

func TestShaderCompileFailureLogSuppressed(t *testing.T) {
	dev := gputest.New()
	s := NewShader(dev, gpucore.StageFragment)
	s.SetSource(GLSL(gputest.FailMarker))

	res := s.Compile(CompileOptions{})
	if res.OK() || res.Log != "" {
		t.Errorf("Compile() = %+v, want failure without log", res)
	}
}

func TestShaderRecompileReleasesPrevious(t *testing.T) {
	dev := gputest.New()
	s := NewShader(dev, gpucore.StageVertex)
	s.SetSource(GLSL(vertexSrc))
	s.Compile(DefaultCompileOptions())
	first := s.Handle()

	s.Compile(DefaultCompileOptions())
	if s.Handle() == first {
		t.Error("recompile should produce a new handle")
	}
	if dev.LiveShaders() != 1 {
		t.Errorf("LiveShaders() = %d, want 1", dev.LiveShaders())
	}
}

func TestShaderDisposeIdempotent(t *testing.T) {
	dev := gputest.New()
	s := NewShader(dev, gpucore.StageVertex)
	s.SetSource(GLSL(vertexSrc))
	s.Compile(DefaultCompileOptions())

	s.Dispose()
	s.Dispose()
	if s.Compiled() || s.Handle() != gpucore.InvalidID {
		t.Error("Dispose should reset the handle")
	}
	if n := dev.Count("DeleteShader"); n != 1 {
		t.Errorf("DeleteShader calls = %d, want 1", n)
	}
}

func TestShaderSourceRoundTrip(t *testing.T) {
	s := NewShader(gputest.New(), gpucore.StageCompute)
	if _, ok := s.Source(); ok {
		t.Fatal("new shader should have no source")
	}
	s.SetSource(WGSL("@compute @workgroup_size(1) fn main() {}"))
	code, ok := s.Source()
	if !ok || code.Language != gpucore.LanguageWGSL {
		t.Fatalf("Source() = %+v, %v", code, ok)
	}
	if dropped, ok := s.DropSource(); !ok || dropped != code {
		t.Errorf("DropSource() = %+v, %v", dropped, ok)
	}
	if _, ok := s.Source(); ok {
		t.Error("source should be gone after DropSource")
	}
}

func TestShaderCreateFailure(t *testing.T) {
	dev := gputest.New()
	dev.FailCreate = true
	s := NewShader(dev, gpucore.StageVertex)
	s.SetSource(GLSL(vertexSrc))

	res := s.Compile(DefaultCompileOptions())
	if res.Status != CompileFailed || !strings.Contains(res.Log, "injected") {
		t.Errorf("Compile() = %+v, want failure carrying the device error", res)
	}
}

func TestCompileStatusString(t *testing.T) {
	tests := map[CompileStatus]string{
		CompileSuccess:       "Success",
		CompileMissingSource: "MissingSource",
		CompileFailed:        "CompileError",
		CompileStatus(99):    "Unknown",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", s, got, want)
		}
	}
}
