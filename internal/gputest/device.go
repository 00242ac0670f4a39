// Package gputest provides an in-memory gpucore.Device that records every
// call, for tests of the shader and render packages.
package gputest

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/gogpu/shaderkit/gpucore"
)

// FailMarker makes CompileShader fail when it appears in a shader source.
const FailMarker = "#error"

// LinkFailMarker makes LinkProgram fail when it appears in any attached
// shader source.
const LinkFailMarker = "// link-error"

// ErrInjected is returned by create calls when failure injection is on.
var ErrInjected = errors.New("gputest: injected failure")

type shaderObj struct {
	stage    gpucore.ShaderStage
	lang     gpucore.SourceLanguage
	source   string
	compiled bool
	log      string
}

type programObj struct {
	shaders  []gpucore.ShaderID
	linked   bool
	log      string
	uniforms map[string]int32
}

type attachment struct {
	tex   gpucore.TextureID
	level uint32
}

type framebufferObj struct {
	attachments map[gpucore.AttachmentPoint]attachment
	drawBuffers []gpucore.AttachmentPoint
}

// Device is a recording gpucore.Device. The zero value is not usable; call
// New.
type Device struct {
	mu     sync.Mutex
	nextID uint64

	shaders      map[gpucore.ShaderID]*shaderObj
	programs     map[gpucore.ProgramID]*programObj
	textures     map[gpucore.TextureID]gpucore.TextureDesc
	framebuffers map[gpucore.FramebufferID]*framebufferObj

	// Calls counts invocations per method name.
	Calls map[string]int

	// FailCreate makes every Create* call fail with ErrInjected.
	FailCreate bool
}

// New returns an empty Device.
func New() *Device {
	return &Device{
		nextID:       1,
		shaders:      make(map[gpucore.ShaderID]*shaderObj),
		programs:     make(map[gpucore.ProgramID]*programObj),
		textures:     make(map[gpucore.TextureID]gpucore.TextureDesc),
		framebuffers: make(map[gpucore.FramebufferID]*framebufferObj),
		Calls:        make(map[string]int),
	}
}

func (d *Device) newID(call string) (uint64, error) {
	d.Calls[call]++
	if d.FailCreate {
		return gpucore.InvalidID, ErrInjected
	}
	id := d.nextID
	d.nextID++
	return id, nil
}

// Name implements gpucore.Device.
func (d *Device) Name() string { return "gputest" }

// Destroy implements gpucore.Device.
func (d *Device) Destroy() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls["Destroy"]++
	clear(d.shaders)
	clear(d.programs)
	clear(d.textures)
	clear(d.framebuffers)
}

// CreateShader implements gpucore.ShaderDevice.
func (d *Device) CreateShader(stage gpucore.ShaderStage) (gpucore.ShaderID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id, err := d.newID("CreateShader")
	if err != nil {
		return gpucore.InvalidID, err
	}
	d.shaders[gpucore.ShaderID(id)] = &shaderObj{stage: stage}
	return gpucore.ShaderID(id), nil
}

// ShaderSource implements gpucore.ShaderDevice.
func (d *Device) ShaderSource(id gpucore.ShaderID, lang gpucore.SourceLanguage, source string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls["ShaderSource"]++
	s, ok := d.shaders[id]
	if !ok {
		return fmt.Errorf("gputest: unknown shader %d", id)
	}
	s.lang, s.source = lang, source
	return nil
}

// CompileShader implements gpucore.ShaderDevice. Compilation fails for
// empty sources and sources containing FailMarker.
func (d *Device) CompileShader(id gpucore.ShaderID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls["CompileShader"]++
	s, ok := d.shaders[id]
	if !ok {
		return false
	}
	switch {
	case strings.TrimSpace(s.source) == "":
		s.compiled, s.log = false, "ERROR: 0:0: empty source"
	case strings.Contains(s.source, FailMarker):
		s.compiled, s.log = false, fmt.Sprintf("ERROR: 0:%d: %s directive", lineOf(s.source, FailMarker), FailMarker)
	default:
		s.compiled, s.log = true, fmt.Sprintf("%s shader compiled", s.stage)
	}
	return s.compiled
}

// ShaderInfoLog implements gpucore.ShaderDevice.
func (d *Device) ShaderInfoLog(id gpucore.ShaderID) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls["ShaderInfoLog"]++
	if s, ok := d.shaders[id]; ok {
		return s.log
	}
	return ""
}

// DeleteShader implements gpucore.ShaderDevice.
func (d *Device) DeleteShader(id gpucore.ShaderID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls["DeleteShader"]++
	delete(d.shaders, id)
}

// CreateProgram implements gpucore.ProgramDevice.
func (d *Device) CreateProgram() (gpucore.ProgramID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id, err := d.newID("CreateProgram")
	if err != nil {
		return gpucore.InvalidID, err
	}
	d.programs[gpucore.ProgramID(id)] = &programObj{}
	return gpucore.ProgramID(id), nil
}

// AttachShader implements gpucore.ProgramDevice.
func (d *Device) AttachShader(program gpucore.ProgramID, shader gpucore.ShaderID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls["AttachShader"]++
	p, ok := d.programs[program]
	if !ok {
		return fmt.Errorf("gputest: unknown program %d", program)
	}
	if _, ok := d.shaders[shader]; !ok {
		return fmt.Errorf("gputest: unknown shader %d", shader)
	}
	p.shaders = append(p.shaders, shader)
	return nil
}

// DetachShader implements gpucore.ProgramDevice.
func (d *Device) DetachShader(program gpucore.ProgramID, shader gpucore.ShaderID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls["DetachShader"]++
	if p, ok := d.programs[program]; ok {
		p.shaders = slices.DeleteFunc(p.shaders, func(id gpucore.ShaderID) bool { return id == shader })
	}
}

// LinkProgram implements gpucore.ProgramDevice. Linking fails without
// attached shaders, with an uncompiled shader, or when a shader source
// contains LinkFailMarker. Uniforms are collected from "uniform" lines.
func (d *Device) LinkProgram(program gpucore.ProgramID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls["LinkProgram"]++
	p, ok := d.programs[program]
	if !ok {
		return false
	}
	p.linked, p.uniforms = false, nil
	if len(p.shaders) == 0 {
		p.log = "error: no shaders attached"
		return false
	}
	uniforms := make(map[string]int32)
	for _, id := range p.shaders {
		s := d.shaders[id]
		if s == nil || !s.compiled {
			p.log = fmt.Sprintf("error: shader %d is not compiled", id)
			return false
		}
		if strings.Contains(s.source, LinkFailMarker) {
			p.log = fmt.Sprintf("error: %s stage failed to link", s.stage)
			return false
		}
		for _, name := range uniformNames(s.source) {
			if _, seen := uniforms[name]; !seen {
				uniforms[name] = int32(len(uniforms))
			}
		}
	}
	p.linked, p.uniforms, p.log = true, uniforms, "link ok"
	return true
}

// ProgramInfoLog implements gpucore.ProgramDevice.
func (d *Device) ProgramInfoLog(program gpucore.ProgramID) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls["ProgramInfoLog"]++
	if p, ok := d.programs[program]; ok {
		return p.log
	}
	return ""
}

// UniformLocation implements gpucore.ProgramDevice.
func (d *Device) UniformLocation(program gpucore.ProgramID, name string) int32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls["UniformLocation"]++
	p, ok := d.programs[program]
	if !ok || !p.linked {
		return -1
	}
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	return -1
}

// DeleteProgram implements gpucore.ProgramDevice.
func (d *Device) DeleteProgram(program gpucore.ProgramID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls["DeleteProgram"]++
	delete(d.programs, program)
}

// CreateTexture implements gpucore.TextureDevice.
func (d *Device) CreateTexture(desc gpucore.TextureDesc) (gpucore.TextureID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := desc.Validate(); err != nil {
		d.Calls["CreateTexture"]++
		return gpucore.InvalidID, err
	}
	id, err := d.newID("CreateTexture")
	if err != nil {
		return gpucore.InvalidID, err
	}
	d.textures[gpucore.TextureID(id)] = desc.Normalized()
	return gpucore.TextureID(id), nil
}

// DeleteTexture implements gpucore.TextureDevice.
func (d *Device) DeleteTexture(id gpucore.TextureID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls["DeleteTexture"]++
	delete(d.textures, id)
}

// CreateFramebuffer implements gpucore.FramebufferDevice.
func (d *Device) CreateFramebuffer() (gpucore.FramebufferID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id, err := d.newID("CreateFramebuffer")
	if err != nil {
		return gpucore.InvalidID, err
	}
	d.framebuffers[gpucore.FramebufferID(id)] = &framebufferObj{
		attachments: make(map[gpucore.AttachmentPoint]attachment),
	}
	return gpucore.FramebufferID(id), nil
}

// FramebufferTexture implements gpucore.FramebufferDevice.
func (d *Device) FramebufferTexture(fb gpucore.FramebufferID, point gpucore.AttachmentPoint, tex gpucore.TextureID, level uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls["FramebufferTexture"]++
	f, ok := d.framebuffers[fb]
	if !ok {
		return fmt.Errorf("gputest: unknown framebuffer %d", fb)
	}
	if _, ok := d.textures[tex]; !ok {
		return fmt.Errorf("gputest: unknown texture %d", tex)
	}
	if !point.Valid() {
		return fmt.Errorf("gputest: invalid attachment point %v", point)
	}
	f.attachments[point] = attachment{tex: tex, level: level}
	return nil
}

// FramebufferDrawBuffers implements gpucore.FramebufferDevice.
func (d *Device) FramebufferDrawBuffers(fb gpucore.FramebufferID, buffers []gpucore.AttachmentPoint) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls["FramebufferDrawBuffers"]++
	f, ok := d.framebuffers[fb]
	if !ok {
		return fmt.Errorf("gputest: unknown framebuffer %d", fb)
	}
	f.drawBuffers = slices.Clone(buffers)
	return nil
}

// CheckFramebufferStatus implements gpucore.FramebufferDevice.
func (d *Device) CheckFramebufferStatus(fb gpucore.FramebufferID) gpucore.FramebufferStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls["CheckFramebufferStatus"]++
	f, ok := d.framebuffers[fb]
	if !ok {
		return gpucore.FramebufferUnsupported
	}
	if len(f.attachments) == 0 {
		return gpucore.FramebufferMissingAttachment
	}
	// Mixed-sample rules: color attachments share one sample count and the
	// depth attachment has at least as many samples.
	var first *gpucore.TextureDesc
	var colorSamples, depthSamples uint32
	for p, a := range f.attachments {
		desc, ok := d.textures[a.tex]
		if !ok {
			return gpucore.FramebufferIncompleteAttachment
		}
		if p.IsDepth() {
			depthSamples = desc.Samples
		} else {
			if colorSamples != 0 && colorSamples != desc.Samples {
				return gpucore.FramebufferIncompleteMultisample
			}
			colorSamples = desc.Samples
		}
		if first == nil {
			first = &desc
			continue
		}
		if desc.Width != first.Width || desc.Height != first.Height {
			return gpucore.FramebufferIncompleteDimensions
		}
	}
	if depthSamples != 0 && colorSamples != 0 && depthSamples < colorSamples {
		return gpucore.FramebufferIncompleteMultisample
	}
	for _, p := range f.drawBuffers {
		if p == gpucore.NoAttachment {
			continue
		}
		if _, ok := f.attachments[p]; !ok {
			return gpucore.FramebufferIncompleteDrawBuffer
		}
	}
	return gpucore.FramebufferComplete
}

// DeleteFramebuffer implements gpucore.FramebufferDevice.
func (d *Device) DeleteFramebuffer(fb gpucore.FramebufferID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls["DeleteFramebuffer"]++
	delete(d.framebuffers, fb)
}

// Inspection helpers.

// Count returns how many times method was called.
func (d *Device) Count(method string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Calls[method]
}

// LiveShaders returns the number of shader objects not yet deleted.
func (d *Device) LiveShaders() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.shaders)
}

// LivePrograms returns the number of program objects not yet deleted.
func (d *Device) LivePrograms() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.programs)
}

// LiveTextures returns the number of textures not yet deleted.
func (d *Device) LiveTextures() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.textures)
}

// LiveFramebuffers returns the number of framebuffers not yet deleted.
func (d *Device) LiveFramebuffers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.framebuffers)
}

// TextureDesc returns the descriptor a live texture was created with.
func (d *Device) TextureDesc(id gpucore.TextureID) (gpucore.TextureDesc, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	desc, ok := d.textures[id]
	return desc, ok
}

// ShaderSourceOf returns the source last set on a live shader.
func (d *Device) ShaderSourceOf(id gpucore.ShaderID) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.shaders[id]
	if !ok {
		return "", false
	}
	return s.source, true
}

// AttachedShaders returns the shaders currently attached to a program.
func (d *Device) AttachedShaders(program gpucore.ProgramID) []gpucore.ShaderID {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.programs[program]; ok {
		return slices.Clone(p.shaders)
	}
	return nil
}

// FramebufferAttachment returns the texture bound at point.
func (d *Device) FramebufferAttachment(fb gpucore.FramebufferID, point gpucore.AttachmentPoint) (gpucore.TextureID, uint32, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	f, ok := d.framebuffers[fb]
	if !ok {
		return gpucore.InvalidID, 0, false
	}
	a, ok := f.attachments[point]
	return a.tex, a.level, ok
}

// DrawBuffers returns the draw-buffer table of a framebuffer.
func (d *Device) DrawBuffers(fb gpucore.FramebufferID) []gpucore.AttachmentPoint {
	d.mu.Lock()
	defer d.mu.Unlock()
	if f, ok := d.framebuffers[fb]; ok {
		return slices.Clone(f.drawBuffers)
	}
	return nil
}

func lineOf(source, needle string) int {
	i := strings.Index(source, needle)
	if i < 0 {
		return 0
	}
	return strings.Count(source[:i], "\n") + 1
}

// uniformNames extracts names from lines of the form "uniform <type> <name>;".
func uniformNames(source string) []string {
	var names []string
	for _, line := range strings.Split(source, "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) < 3 || fields[0] != "uniform" {
			continue
		}
		name := strings.TrimSuffix(fields[len(fields)-1], ";")
		if i := strings.IndexByte(name, '['); i >= 0 {
			name = name[:i]
		}
		names = append(names, name)
	}
	return names
}

var _ gpucore.Device = (*Device)(nil)
