// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/spirv"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/shaderkit"
	"github.com/gogpu/shaderkit/gpucore"
)

type shaderObj struct {
	stage  gpucore.ShaderStage
	lang   gpucore.SourceLanguage
	source string

	compiled bool
	log      string
	module   *ir.Module
	entry    string
	hal      hal.ShaderModule
}

func (s *shaderObj) release(device hal.Device) {
	if s.hal != nil && device != nil {
		device.DestroyShaderModule(s.hal)
	}
	s.hal = nil
	s.module = nil
	s.compiled = false
}

type programObj struct {
	attached []gpucore.ShaderID
	linked   bool
	log      string
	uniforms map[string]int32
}

// CreateShader implements gpucore.ShaderDevice.
func (d *Device) CreateShader(stage gpucore.ShaderStage) (gpucore.ShaderID, error) {
	if !stage.Valid() {
		return gpucore.InvalidID, fmt.Errorf("native: invalid shader stage %d", uint8(stage))
	}
	id := gpucore.ShaderID(d.newID())
	d.mu.Lock()
	d.shaders[id] = &shaderObj{stage: stage}
	d.mu.Unlock()
	return id, nil
}

// ShaderSource implements gpucore.ShaderDevice.
func (d *Device) ShaderSource(id gpucore.ShaderID, lang gpucore.SourceLanguage, source string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.shaders[id]
	if !ok {
		return fmt.Errorf("%w: shader %d", ErrUnknownObject, id)
	}
	s.lang, s.source = lang, source
	return nil
}

// CompileShader implements gpucore.ShaderDevice. WGSL sources are parsed,
// lowered and validated by naga and turned into a SPIR-V shader module. The
// source must declare an entry point for the shader's stage.
func (d *Device) CompileShader(id gpucore.ShaderID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.shaders[id]
	if !ok {
		return false
	}
	s.release(d.device)

	module, entry, err := compileWGSL(s.stage, s.lang, s.source)
	if err != nil {
		s.log = "ERROR: " + err.Error()
		shaderkit.Logger().Debug("native shader compile failed", "id", uint64(id), "stage", s.stage.String(), "err", err)
		return false
	}

	words, err := generateSPIRV(module)
	if err != nil {
		s.log = "ERROR: " + err.Error()
		return false
	}
	halModule, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  fmt.Sprintf("%s shader %d", s.stage, id),
		Source: hal.ShaderSource{SPIRV: words},
	})
	if err != nil {
		s.log = "ERROR: " + err.Error()
		return false
	}

	s.module, s.entry, s.hal = module, entry, halModule
	s.compiled = true
	s.log = ""
	shaderkit.Logger().Debug("native shader compiled",
		"id", uint64(id), "stage", s.stage.String(), "entry", entry, "spirv_words", len(words))
	return true
}

// compileWGSL runs the naga front end and returns the IR module and the
// name of the entry point for stage.
func compileWGSL(stage gpucore.ShaderStage, lang gpucore.SourceLanguage, source string) (*ir.Module, string, error) {
	if lang != gpucore.LanguageWGSL {
		return nil, "", fmt.Errorf("%w (got %s); translate for the opengl backend or write the shader in WGSL", ErrUnsupportedLanguage, lang)
	}
	if stage.GPUStage() == gputypes.ShaderStageNone {
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedStage, stage)
	}
	if strings.TrimSpace(source) == "" {
		return nil, "", fmt.Errorf("empty source")
	}

	ast, err := naga.Parse(source)
	if err != nil {
		return nil, "", err
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, "", err
	}
	verrs, err := naga.Validate(module)
	if err != nil {
		return nil, "", fmt.Errorf("validation error: %w", err)
	}
	if len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, v := range verrs {
			msgs[i] = v.Error()
		}
		return nil, "", fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
	}

	entry, ok := entryPointFor(module, stage)
	if !ok {
		return nil, "", fmt.Errorf("no @%s entry point", strings.ToLower(stage.String()))
	}
	return module, entry, nil
}

// entryPointFor returns the first entry point of module for stage.
func entryPointFor(module *ir.Module, stage gpucore.ShaderStage) (string, bool) {
	want, ok := irStage(stage)
	if !ok {
		return "", false
	}
	for _, ep := range module.EntryPoints {
		if ep.Stage == want {
			return ep.Name, true
		}
	}
	return "", false
}

func irStage(stage gpucore.ShaderStage) (ir.ShaderStage, bool) {
	switch stage {
	case gpucore.StageVertex:
		return ir.StageVertex, true
	case gpucore.StageFragment:
		return ir.StageFragment, true
	case gpucore.StageCompute:
		return ir.StageCompute, true
	default:
		return 0, false
	}
}

// generateSPIRV emits SPIR-V 1.3 as the little-endian words hal expects.
func generateSPIRV(module *ir.Module) ([]uint32, error) {
	code, err := naga.GenerateSPIRV(module, spirv.Options{Version: spirv.Version1_3})
	if err != nil {
		return nil, err
	}
	if len(code)%4 != 0 {
		return nil, fmt.Errorf("SPIR-V size %d is not a multiple of 4", len(code))
	}
	words := make([]uint32, len(code)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(code[i*4:])
	}
	return words, nil
}

// ShaderInfoLog implements gpucore.ShaderDevice.
func (d *Device) ShaderInfoLog(id gpucore.ShaderID) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if s, ok := d.shaders[id]; ok {
		return s.log
	}
	return ""
}

// DeleteShader implements gpucore.ShaderDevice.
func (d *Device) DeleteShader(id gpucore.ShaderID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if s, ok := d.shaders[id]; ok {
		s.release(d.device)
		delete(d.shaders, id)
	}
}

// CreateProgram implements gpucore.ProgramDevice.
func (d *Device) CreateProgram() (gpucore.ProgramID, error) {
	id := gpucore.ProgramID(d.newID())
	d.mu.Lock()
	d.programs[id] = &programObj{}
	d.mu.Unlock()
	return id, nil
}

// AttachShader implements gpucore.ProgramDevice.
func (d *Device) AttachShader(program gpucore.ProgramID, shader gpucore.ShaderID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.programs[program]
	if !ok {
		return fmt.Errorf("%w: program %d", ErrUnknownObject, program)
	}
	if _, ok := d.shaders[shader]; !ok {
		return fmt.Errorf("%w: shader %d", ErrUnknownObject, shader)
	}
	for _, a := range p.attached {
		if a == shader {
			return nil
		}
	}
	p.attached = append(p.attached, shader)
	return nil
}

// DetachShader implements gpucore.ProgramDevice.
func (d *Device) DetachShader(program gpucore.ProgramID, shader gpucore.ShaderID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.programs[program]
	if !ok {
		return
	}
	for i, a := range p.attached {
		if a == shader {
			p.attached = append(p.attached[:i], p.attached[i+1:]...)
			return
		}
	}
}

// LinkProgram implements gpucore.ProgramDevice. Linking checks that the
// attached stages form a valid pipeline and collects the bound resources of
// every stage as uniforms.
func (d *Device) LinkProgram(program gpucore.ProgramID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.programs[program]
	if !ok {
		return false
	}
	p.linked, p.uniforms = false, nil

	shaders := make([]*shaderObj, 0, len(p.attached))
	for _, id := range p.attached {
		s, ok := d.shaders[id]
		if !ok {
			p.log = fmt.Sprintf("error: shader %d was deleted", id)
			return false
		}
		if !s.compiled {
			p.log = fmt.Sprintf("error: %s shader %d is not compiled", s.stage, id)
			return false
		}
		shaders = append(shaders, s)
	}

	if err := checkStages(shaders); err != nil {
		p.log = "error: " + err.Error()
		return false
	}
	uniforms, err := reflectUniforms(shaders)
	if err != nil {
		p.log = "error: " + err.Error()
		return false
	}

	p.linked, p.uniforms, p.log = true, uniforms, ""
	return true
}

// checkStages validates the stage combination of a program.
func checkStages(shaders []*shaderObj) error {
	if len(shaders) == 0 {
		return fmt.Errorf("no shaders attached")
	}
	var has [gpucore.NumStages]bool
	for _, s := range shaders {
		if has[s.stage] {
			return fmt.Errorf("more than one %s shader attached", s.stage)
		}
		has[s.stage] = true
	}
	if has[gpucore.StageCompute] {
		if len(shaders) > 1 {
			return fmt.Errorf("compute shader cannot be linked with graphics stages")
		}
		return nil
	}
	if !has[gpucore.StageVertex] {
		return fmt.Errorf("graphics program has no vertex shader")
	}
	if has[gpucore.StageTessControl] != has[gpucore.StageTessEvaluation] {
		return fmt.Errorf("tessellation control and evaluation shaders must be linked together")
	}
	return nil
}

// reflectUniforms maps every bound global variable to a location encoding
// its group and binding. A name bound differently by two stages is an
// error.
func reflectUniforms(shaders []*shaderObj) (map[string]int32, error) {
	out := make(map[string]int32)
	for _, s := range shaders {
		for _, g := range s.module.GlobalVariables {
			if g.Binding == nil || g.Name == "" {
				continue
			}
			loc := BindingLocation(g.Binding.Group, g.Binding.Binding)
			if prev, ok := out[g.Name]; ok && prev != loc {
				return nil, fmt.Errorf("uniform %q bound to different slots across stages", g.Name)
			}
			out[g.Name] = loc
		}
	}
	return out, nil
}

// BindingLocation encodes a bind group and binding as a uniform location.
func BindingLocation(group, binding uint32) int32 {
	return int32(group<<16 | binding&0xffff)
}

// ProgramInfoLog implements gpucore.ProgramDevice.
func (d *Device) ProgramInfoLog(program gpucore.ProgramID) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.programs[program]; ok {
		return p.log
	}
	return ""
}

// UniformLocation implements gpucore.ProgramDevice. Locations come from
// BindingLocation.
func (d *Device) UniformLocation(program gpucore.ProgramID, name string) int32 {
	d.mu.Lock()
	defer d.mu.Unlock()
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
	delete(d.programs, program)
}
