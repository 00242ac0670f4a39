// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build opengl

package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gogpu/shaderkit"
	"github.com/gogpu/shaderkit/backend/native"
	"github.com/gogpu/shaderkit/gpucore"
)

var glStages = map[gpucore.ShaderStage]uint32{
	gpucore.StageVertex:         gl.VERTEX_SHADER,
	gpucore.StageFragment:       gl.FRAGMENT_SHADER,
	gpucore.StageTessControl:    gl.TESS_CONTROL_SHADER,
	gpucore.StageTessEvaluation: gl.TESS_EVALUATION_SHADER,
	gpucore.StageGeometry:       gl.GEOMETRY_SHADER,
	gpucore.StageCompute:        gl.COMPUTE_SHADER,
}

type shaderObj struct {
	handle uint32
	stage  gpucore.ShaderStage
	lang   gpucore.SourceLanguage
	source string

	// log overrides the driver log when WGSL translation fails.
	log string
}

type programObj struct {
	handle uint32
}

// CreateShader implements gpucore.ShaderDevice.
func (d *Device) CreateShader(stage gpucore.ShaderStage) (gpucore.ShaderID, error) {
	typ, ok := glStages[stage]
	if !ok {
		return gpucore.InvalidID, fmt.Errorf("opengl: invalid shader stage %d", uint8(stage))
	}
	handle := gl.CreateShader(typ)
	if handle == 0 {
		return gpucore.InvalidID, fmt.Errorf("opengl: glCreateShader(%s) failed", stage)
	}
	id := gpucore.ShaderID(d.newID())
	d.shaders[id] = &shaderObj{handle: handle, stage: stage}
	return id, nil
}

// ShaderSource implements gpucore.ShaderDevice.
func (d *Device) ShaderSource(id gpucore.ShaderID, lang gpucore.SourceLanguage, source string) error {
	s, ok := d.shaders[id]
	if !ok {
		return fmt.Errorf("opengl: unknown shader %d", id)
	}
	s.lang, s.source = lang, source
	return nil
}

// CompileShader implements gpucore.ShaderDevice.
func (d *Device) CompileShader(id gpucore.ShaderID) bool {
	s, ok := d.shaders[id]
	if !ok {
		return false
	}
	s.log = ""

	src := s.source
	if s.lang == gpucore.LanguageWGSL {
		code, err := native.TranslateGLSL(s.source, s.stage, "")
		if err != nil {
			s.log = "ERROR: " + err.Error()
			return false
		}
		src = code
	}

	csources, free := gl.Strs(src + "\x00")
	gl.ShaderSource(s.handle, 1, csources, nil)
	free()
	gl.CompileShader(s.handle)

	var status int32
	gl.GetShaderiv(s.handle, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		shaderkit.Logger().Debug("opengl shader compile failed", "id", uint64(id), "stage", s.stage.String())
		return false
	}
	return true
}

// ShaderInfoLog implements gpucore.ShaderDevice.
func (d *Device) ShaderInfoLog(id gpucore.ShaderID) string {
	s, ok := d.shaders[id]
	if !ok {
		return ""
	}
	if s.log != "" {
		return s.log
	}
	var n int32
	gl.GetShaderiv(s.handle, gl.INFO_LOG_LENGTH, &n)
	return infoLog(n, func(n int32, buf *uint8) {
		gl.GetShaderInfoLog(s.handle, n, nil, buf)
	})
}

// DeleteShader implements gpucore.ShaderDevice.
func (d *Device) DeleteShader(id gpucore.ShaderID) {
	if s, ok := d.shaders[id]; ok {
		gl.DeleteShader(s.handle)
		delete(d.shaders, id)
	}
}

// CreateProgram implements gpucore.ProgramDevice.
func (d *Device) CreateProgram() (gpucore.ProgramID, error) {
	handle := gl.CreateProgram()
	if handle == 0 {
		return gpucore.InvalidID, fmt.Errorf("opengl: glCreateProgram failed")
	}
	id := gpucore.ProgramID(d.newID())
	d.programs[id] = &programObj{handle: handle}
	return id, nil
}

// AttachShader implements gpucore.ProgramDevice.
func (d *Device) AttachShader(program gpucore.ProgramID, shader gpucore.ShaderID) error {
	p, ok := d.programs[program]
	if !ok {
		return fmt.Errorf("opengl: unknown program %d", program)
	}
	s, ok := d.shaders[shader]
	if !ok {
		return fmt.Errorf("opengl: unknown shader %d", shader)
	}
	gl.AttachShader(p.handle, s.handle)
	return nil
}

// DetachShader implements gpucore.ProgramDevice.
func (d *Device) DetachShader(program gpucore.ProgramID, shader gpucore.ShaderID) {
	p, ok := d.programs[program]
	if !ok {
		return
	}
	if s, ok := d.shaders[shader]; ok {
		gl.DetachShader(p.handle, s.handle)
	}
}

// LinkProgram implements gpucore.ProgramDevice.
func (d *Device) LinkProgram(program gpucore.ProgramID) bool {
	p, ok := d.programs[program]
	if !ok {
		return false
	}
	gl.LinkProgram(p.handle)
	return p.linked()
}

func (p *programObj) linked() bool {
	var status int32
	gl.GetProgramiv(p.handle, gl.LINK_STATUS, &status)
	return status != gl.FALSE
}

// ProgramInfoLog implements gpucore.ProgramDevice.
func (d *Device) ProgramInfoLog(program gpucore.ProgramID) string {
	p, ok := d.programs[program]
	if !ok {
		return ""
	}
	var n int32
	gl.GetProgramiv(p.handle, gl.INFO_LOG_LENGTH, &n)
	return infoLog(n, func(n int32, buf *uint8) {
		gl.GetProgramInfoLog(p.handle, n, nil, buf)
	})
}

// UniformLocation implements gpucore.ProgramDevice.
func (d *Device) UniformLocation(program gpucore.ProgramID, name string) int32 {
	p, ok := d.programs[program]
	if !ok || !p.linked() {
		return -1
	}
	return gl.GetUniformLocation(p.handle, gl.Str(name+"\x00"))
}

// DeleteProgram implements gpucore.ProgramDevice.
func (d *Device) DeleteProgram(program gpucore.ProgramID) {
	if p, ok := d.programs[program]; ok {
		gl.DeleteProgram(p.handle)
		delete(d.programs, program)
	}
}
