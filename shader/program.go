package shader

import (
	"github.com/gogpu/shaderkit"
	"github.com/gogpu/shaderkit/gpucore"
)

// LinkOptions controls which info logs are captured.
type LinkOptions struct {
	CaptureSuccessLog bool
	CaptureFailureLog bool
}

// DefaultLinkOptions captures the log of failed links only.
func DefaultLinkOptions() LinkOptions {
	return LinkOptions{CaptureSuccessLog: false, CaptureFailureLog: true}
}

// LinkStatus is the outcome of Program.Link.
type LinkStatus uint8

// Link outcomes.
const (
	LinkSuccess LinkStatus = iota
	LinkFailed
	LinkUncompiledShader
)

// String returns the status name.
func (s LinkStatus) String() string {
	switch s {
	case LinkSuccess:
		return "Success"
	case LinkFailed:
		return "LinkError"
	case LinkUncompiledShader:
		return "UncompiledShader"
	default:
		return "Unknown"
	}
}

// LinkResult reports a link.
type LinkResult struct {
	Status LinkStatus
	Log    string
	// Stage is the offending stage for LinkUncompiledShader.
	Stage gpucore.ShaderStage
}

// OK reports whether linking succeeded.
func (r LinkResult) OK() bool { return r.Status == LinkSuccess }

// Err converts the result into an error, nil on success.
func (r LinkResult) Err() error {
	switch r.Status {
	case LinkSuccess:
		return nil
	case LinkUncompiledShader:
		return ErrUncompiledShader
	default:
		return &LinkError{Log: r.Log}
	}
}

// Program owns up to one Shader per stage and the linked program handle.
//
// Program is not safe for concurrent use.
type Program struct {
	dev      gpucore.ProgramDevice
	shaders  [gpucore.NumStages]*Shader
	handle   gpucore.ProgramID
	uniforms UniformCache
}

// NewProgram returns an empty, unlinked program.
func NewProgram(dev gpucore.ProgramDevice) *Program {
	return &Program{dev: dev, uniforms: UniformCache{dev: dev}}
}

// AttachShader puts s into its stage slot. It returns false, changing
// nothing, when the slot is already occupied.
func (p *Program) AttachShader(s *Shader) bool {
	if s == nil || !s.Stage().Valid() {
		return false
	}
	slot := &p.shaders[s.Stage()]
	if *slot != nil {
		return false
	}
	*slot = s
	return true
}

// DetachShader removes and returns the shader of stage, or nil. The shader
// is not disposed and the linked handle is kept.
func (p *Program) DetachShader(stage gpucore.ShaderStage) *Shader {
	if !stage.Valid() {
		return nil
	}
	s := p.shaders[stage]
	p.shaders[stage] = nil
	return s
}

// Shader returns the shader of stage, or nil.
func (p *Program) Shader(stage gpucore.ShaderStage) *Shader {
	if !stage.Valid() {
		return nil
	}
	return p.shaders[stage]
}

// HasStage reports whether a shader is attached for stage.
func (p *Program) HasStage(stage gpucore.ShaderStage) bool {
	return p.Shader(stage) != nil
}

// Shaders returns the attached shaders in canonical stage order.
func (p *Program) Shaders() []*Shader {
	out := make([]*Shader, 0, gpucore.NumStages)
	for _, s := range p.shaders {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// CompileAll compiles every attached shader. Failures are logged and do not
// stop the remaining stages.
func (p *Program) CompileAll(opts CompileOptions) map[gpucore.ShaderStage]CompileResult {
	results := make(map[gpucore.ShaderStage]CompileResult, gpucore.NumStages)
	for _, s := range p.Shaders() {
		res := s.Compile(opts)
		results[s.Stage()] = res
		if !res.OK() {
			shaderkit.Logger().Warn("shader compile failed",
				"stage", s.Stage(), "status", res.Status, "log", res.Log)
		}
	}
	return results
}

// Link links the compiled shaders into a new program object.
//
// If any attached shader is uncompiled, Link returns LinkUncompiledShader
// and leaves the current handle alone. Otherwise the previous program is
// released, the shaders are attached in stage order, linked and detached
// again. A failed link deletes the new program object.
func (p *Program) Link(opts LinkOptions) LinkResult {
	attached := p.Shaders()
	for _, s := range attached {
		if !s.Compiled() {
			return LinkResult{Status: LinkUncompiledShader, Stage: s.Stage()}
		}
	}

	p.releaseHandle()

	id, err := p.dev.CreateProgram()
	if err != nil {
		return LinkResult{Status: LinkFailed, Log: captureErr(opts.CaptureFailureLog, err)}
	}
	for _, s := range attached {
		if err := p.dev.AttachShader(id, s.Handle()); err != nil {
			p.detachAll(id, attached)
			p.dev.DeleteProgram(id)
			return LinkResult{Status: LinkFailed, Log: captureErr(opts.CaptureFailureLog, err), Stage: s.Stage()}
		}
	}

	ok := p.dev.LinkProgram(id)
	res := LinkResult{Status: LinkSuccess}
	if !ok {
		res.Status = LinkFailed
	}
	if (ok && opts.CaptureSuccessLog) || (!ok && opts.CaptureFailureLog) {
		res.Log = p.dev.ProgramInfoLog(id)
	}
	p.detachAll(id, attached)

	if !ok {
		p.dev.DeleteProgram(id)
		return res
	}
	p.handle = id
	shaderkit.Logger().Debug("program linked", "id", uint64(id), "stages", len(attached))
	return res
}

func (p *Program) detachAll(id gpucore.ProgramID, attached []*Shader) {
	for _, s := range attached {
		p.dev.DetachShader(id, s.Handle())
	}
}

// Handle returns the linked program handle, or gpucore.InvalidID.
func (p *Program) Handle() gpucore.ProgramID { return p.handle }

// Linked reports whether the program holds a linked handle.
func (p *Program) Linked() bool { return p.handle != gpucore.InvalidID }

// UniformLocation returns the location of a uniform of the linked program.
// Lookups are cached until the handle changes.
func (p *Program) UniformLocation(name string) (int32, bool) {
	if !p.Linked() {
		return -1, false
	}
	return p.uniforms.Location(p.handle, name)
}

// Dispose releases the program handle and disposes every attached shader.
// It is safe to call repeatedly.
func (p *Program) Dispose() {
	p.releaseHandle()
	for _, s := range p.shaders {
		if s != nil {
			s.Dispose()
		}
	}
}

func (p *Program) releaseHandle() {
	if p.handle == gpucore.InvalidID {
		return
	}
	id := p.handle
	p.handle = gpucore.InvalidID
	p.uniforms.Invalidate()
	p.dev.DeleteProgram(id)
}
