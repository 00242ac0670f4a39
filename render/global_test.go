// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/shaderkit/asset"
	"github.com/gogpu/shaderkit/gpucore"
	"github.com/gogpu/shaderkit/internal/gputest"
)

const (
	fullscreenVert = `@glslversion 450 core
out vec2 vUV;
void main() {
	vUV = vec2(0.0);
	gl_Position = vec4(0.0);
}
`
	sssResolveFrag = `@glslversion 450 core
uniform float uGlobalSSSWidth;
uniform vec2 uSeparablePassDir;
uniform float uDistanceToProjectionWindow;
uniform vec2 uCameraDepthPlanes;
uniform sampler2D uColor;
in vec2 vUV;
out vec4 o;
void main() { o = texture(uColor, vUV); }
`
	sceneFrag = `@glslversion 450 core
uniform vec4 u_tint;
out vec4 o;
void main() { o = u_tint; }
`
)

func renderFS() fstest.MapFS {
	return fstest.MapFS{
		"shaders/fullscreen.vert":            {Data: []byte(fullscreenVert)},
		"shaders/separable_sss_resolve.frag": {Data: []byte(sssResolveFrag)},
		"shaders/separable_sss_resolve.program": {Data: []byte(`id: separable_sss_resolve
shaders:
  - {stage: Vertex, source: fullscreen.vert}
  - {stage: Fragment, source: separable_sss_resolve.frag}
`)},
		"shaders/scene.frag": {Data: []byte(sceneFrag)},
		"shaders/scene.program": {Data: []byte(`id: scene
shaders:
  - {stage: Vertex, source: fullscreen.vert}
  - {stage: Fragment, source: scene.frag}
`)},
	}
}

func newTestGlobal(t *testing.T) (*RenderGlobal, *gputest.Device, *SSSResolve, fstest.MapFS) {
	t.Helper()
	dev := gputest.New()
	fsys := renderFS()
	res := asset.NewFS(fsys)
	tex := NewTextures(dev)
	g := NewRenderGlobal(dev, tex, res)
	sss := NewSSSResolve(dev, tex, res)
	if err := g.AddSubsystem(sss); err != nil {
		t.Fatalf("AddSubsystem: %v", err)
	}
	return g, dev, sss, fsys
}

func TestRenderGlobalInitializeZero(t *testing.T) {
	g, dev, _, _ := newTestGlobal(t)
	if err := g.Initialize(0, 720, NoAA{}); !errors.Is(err, ErrZeroResolution) {
		t.Errorf("Initialize(0, 720) = %v, want ErrZeroResolution", err)
	}
	if dev.Count("CreateFramebuffer") != 0 {
		t.Error("nothing should be created")
	}
}

func TestRenderGlobalInitialize(t *testing.T) {
	g, dev, sss, _ := newTestGlobal(t)
	scene := g.AddProgram(asset.NewPath("/shaders/scene.program"))

	if err := g.Initialize(1280, 720, MSAA{Samples: 4}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	fb := g.SceneFramebuffer()
	if fb == nil || !fb.Allocated() || fb.Status() != gpucore.FramebufferComplete {
		t.Fatalf("scene framebuffer not ready: %+v", fb)
	}
	for p, format := range map[AttachmentPoint]gputypes.TextureFormat{
		DepthPoint():  SceneDepthFormat,
		ColorPoint(0): SceneHDRFormat,
		ColorPoint(1): SceneDetailFormat,
	} {
		desc, ok := dev.TextureDesc(fb.Texture(p))
		if !ok || desc.Format != format || desc.Samples != 4 || desc.Width != 1280 || desc.Height != 720 {
			t.Errorf("%v: desc = %+v", p, desc)
		}
	}
	for _, target := range []*Framebuffer{sss.Intermediate(), sss.Final()} {
		if w, h := target.Size(); w != 1280 || h != 720 || target.Status() != gpucore.FramebufferComplete {
			t.Errorf("sss target %dx%d status %v", w, h, target.Status())
		}
	}

	if !g.ReloadQueued() {
		t.Fatal("Initialize must queue a shader reload")
	}
	if len(g.Programs()) != 2 {
		t.Fatalf("Programs = %d, want 2", len(g.Programs()))
	}
	if dev.Count("CompileShader") != 0 {
		t.Error("shaders must not compile before BeginFrame")
	}

	if err := g.BeginFrame(); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	if g.ReloadQueued() {
		t.Error("BeginFrame must consume the queued reload")
	}
	for _, mp := range g.Programs() {
		if mp.NeedsRecompile() || !mp.Program().Linked() {
			t.Errorf("%s not linked", mp.Path())
		}
	}
	if _, ok := scene.Program().UniformLocation("u_tint"); !ok {
		t.Error("u_tint should be active")
	}
	for _, name := range []string{UniformSSSWidth, UniformSeparablePassDir, UniformDistanceToProjectionWindow, UniformCameraDepthPlanes} {
		if _, ok := sss.UniformLocation(name); !ok {
			t.Errorf("%s should be active", name)
		}
	}

	// Nothing queued: a second frame does no work.
	compiles := dev.Count("CompileShader")
	if err := g.BeginFrame(); err != nil {
		t.Fatal(err)
	}
	if dev.Count("CompileShader") != compiles {
		t.Error("idle frame must not recompile")
	}
}

func TestRenderGlobalReconfigureOnlyResize(t *testing.T) {
	g, dev, sss, _ := newTestGlobal(t)
	if err := g.Initialize(800, 600, NoAA{}); err != nil {
		t.Fatal(err)
	}
	if err := g.BeginFrame(); err != nil {
		t.Fatal(err)
	}
	fb := g.SceneFramebuffer()
	handle := fb.Handle()
	color := fb.Texture(ColorPoint(0))
	compiles := dev.Count("CompileShader")

	if err := g.Reconfigure(1920, 1080, NoAA{}, true); err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}
	if g.ReloadQueued() {
		t.Error("a pure resize must not queue a reload")
	}
	if g.SceneFramebuffer() != fb || fb.Handle() != handle {
		t.Error("a resize must keep the framebuffer object")
	}
	if fb.Texture(ColorPoint(0)) == color {
		t.Error("a resize must produce new textures")
	}
	if w, h := sss.Final().Size(); w != 1920 || h != 1080 {
		t.Errorf("sss target = %dx%d", w, h)
	}
	if err := g.BeginFrame(); err != nil {
		t.Fatal(err)
	}
	if dev.Count("CompileShader") != compiles {
		t.Error("a pure resize must not recompile shaders")
	}
}

func TestRenderGlobalReconfigureAntialiasing(t *testing.T) {
	g, dev, _, _ := newTestGlobal(t)
	if err := g.Initialize(640, 480, NoAA{}); err != nil {
		t.Fatal(err)
	}
	old := g.SceneFramebuffer().Handle()

	if err := g.Reconfigure(640, 480, SCAA{ColorSamples: 2, CoverageSamples: 8}, false); err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}
	fb := g.SceneFramebuffer()
	if fb.Handle() == old {
		t.Error("an antialiasing change must rebuild the framebuffer")
	}
	if fb.Status() != gpucore.FramebufferComplete {
		t.Errorf("Status = %v", fb.Status())
	}
	cd, _ := dev.TextureDesc(fb.Texture(ColorPoint(0)))
	dd, _ := dev.TextureDesc(fb.Texture(DepthPoint()))
	if cd.Samples != 2 || dd.Samples != 8 {
		t.Errorf("samples = %d/%d, want 2/8", cd.Samples, dd.Samples)
	}
	if !g.ReloadQueued() {
		t.Error("a full reconfigure must queue a reload")
	}
	// Scene: 1 fb + 3 textures, SSS: 2 fbs + 4 textures.
	if dev.LiveFramebuffers() != 3 || dev.LiveTextures() != 7 {
		t.Errorf("live fbs = %d, textures = %d", dev.LiveFramebuffers(), dev.LiveTextures())
	}
}

func TestRenderGlobalReloadFailureKeepsProgram(t *testing.T) {
	g, _, _, fsys := newTestGlobal(t)
	scene := g.AddProgram(asset.NewPath("/shaders/scene.program"))
	if err := g.Initialize(64, 64, NoAA{}); err != nil {
		t.Fatal(err)
	}
	if err := g.BeginFrame(); err != nil {
		t.Fatal(err)
	}
	prog := scene.Program()
	handle := prog.Handle()

	delete(fsys, "shaders/scene.frag")
	g.QueueShaderReload()
	err := g.BeginFrame()
	if err == nil {
		t.Fatal("BeginFrame should report the failed reload")
	}
	if scene.Program() != prog || prog.Handle() != handle || !prog.Linked() {
		t.Error("a failed reload must keep the previous program")
	}
}

func TestRenderGlobalRelease(t *testing.T) {
	g, dev, _, _ := newTestGlobal(t)
	g.AddProgram(asset.NewPath("/shaders/scene.program"))
	if err := g.Initialize(32, 32, MSAA{Samples: 2}); err != nil {
		t.Fatal(err)
	}
	if err := g.BeginFrame(); err != nil {
		t.Fatal(err)
	}

	g.Release()
	if n := dev.LiveFramebuffers() + dev.LiveTextures() + dev.LivePrograms() + dev.LiveShaders(); n != 0 {
		t.Errorf("%d GPU objects leaked", n)
	}
	if g.SceneFramebuffer() != nil {
		t.Error("scene framebuffer should be gone")
	}
}

func TestRenderGlobalAddSubsystemAfterInitialize(t *testing.T) {
	dev := gputest.New()
	res := asset.NewFS(renderFS())
	tex := NewTextures(dev)
	g := NewRenderGlobal(dev, tex, res)
	if err := g.Initialize(100, 50, NoAA{}); err != nil {
		t.Fatal(err)
	}
	if err := g.BeginFrame(); err != nil {
		t.Fatal(err)
	}

	sss := NewSSSResolve(dev, tex, res)
	if err := g.AddSubsystem(sss); err != nil {
		t.Fatalf("AddSubsystem: %v", err)
	}
	if w, h := sss.Intermediate().Size(); w != 100 || h != 50 {
		t.Errorf("late subsystem size = %dx%d", w, h)
	}
	if !g.ReloadQueued() {
		t.Error("a late subsystem needs its programs loaded")
	}
}
