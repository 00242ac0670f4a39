package shader

import (
	"github.com/gogpu/shaderkit"
	"github.com/gogpu/shaderkit/gpucore"
)

// Code is shader source text together with its language.
type Code struct {
	Text     string
	Language gpucore.SourceLanguage
}

// GLSL returns GLSL source code.
func GLSL(text string) Code { return Code{Text: text, Language: gpucore.LanguageGLSL} }

// WGSL returns WGSL source code.
func WGSL(text string) Code { return Code{Text: text, Language: gpucore.LanguageWGSL} }

// CompileOptions controls which info logs are captured.
type CompileOptions struct {
	CaptureSuccessLog bool
	CaptureFailureLog bool
}

// DefaultCompileOptions captures the log of failed compilations only.
func DefaultCompileOptions() CompileOptions {
	return CompileOptions{CaptureSuccessLog: false, CaptureFailureLog: true}
}

// CompileStatus is the outcome of Shader.Compile.
type CompileStatus uint8

// Compile outcomes.
const (
	CompileSuccess CompileStatus = iota
	CompileMissingSource
	CompileFailed
)

// String returns the status name.
func (s CompileStatus) String() string {
	switch s {
	case CompileSuccess:
		return "Success"
	case CompileMissingSource:
		return "MissingSource"
	case CompileFailed:
		return "CompileError"
	default:
		return "Unknown"
	}
}

// CompileResult reports a compilation.
type CompileResult struct {
	Stage  gpucore.ShaderStage
	Status CompileStatus
	// Log is the captured info log, empty when not captured.
	Log string
}

// OK reports whether compilation succeeded.
func (r CompileResult) OK() bool { return r.Status == CompileSuccess }

// Err converts the result into an error, nil on success.
func (r CompileResult) Err() error {
	switch r.Status {
	case CompileSuccess:
		return nil
	case CompileMissingSource:
		return ErrMissingSource
	default:
		return &CompileError{Stage: r.Stage, Log: r.Log}
	}
}

// Shader is a single pipeline stage. It holds its source and, after a
// successful Compile, a device shader handle.
//
// Shader is not safe for concurrent use.
type Shader struct {
	dev    gpucore.ShaderDevice
	stage  gpucore.ShaderStage
	source *Code
	handle gpucore.ShaderID
}

// NewShader returns an uncompiled shader for stage.
func NewShader(dev gpucore.ShaderDevice, stage gpucore.ShaderStage) *Shader {
	return &Shader{dev: dev, stage: stage}
}

// Stage returns the pipeline stage.
func (s *Shader) Stage() gpucore.ShaderStage { return s.stage }

// SetSource replaces the source. The compiled handle is kept until the next
// Compile.
func (s *Shader) SetSource(code Code) {
	s.source = &code
}

// DropSource removes and returns the source.
func (s *Shader) DropSource() (Code, bool) {
	if s.source == nil {
		return Code{}, false
	}
	code := *s.source
	s.source = nil
	return code, true
}

// Source returns the attached source.
func (s *Shader) Source() (Code, bool) {
	if s.source == nil {
		return Code{}, false
	}
	return *s.source, true
}

// Handle returns the compiled shader handle, or gpucore.InvalidID.
func (s *Shader) Handle() gpucore.ShaderID { return s.handle }

// Compiled reports whether the shader holds a compiled handle.
func (s *Shader) Compiled() bool { return s.handle != gpucore.InvalidID }

// Compile compiles the attached source. Any previous handle is released
// first. On failure the new object is deleted and the shader stays
// uncompiled.
func (s *Shader) Compile(opts CompileOptions) CompileResult {
	if s.source == nil {
		return CompileResult{Stage: s.stage, Status: CompileMissingSource}
	}
	s.Dispose()

	id, err := s.dev.CreateShader(s.stage)
	if err != nil {
		return CompileResult{Stage: s.stage, Status: CompileFailed, Log: captureErr(opts.CaptureFailureLog, err)}
	}
	if err := s.dev.ShaderSource(id, s.source.Language, s.source.Text); err != nil {
		s.dev.DeleteShader(id)
		return CompileResult{Stage: s.stage, Status: CompileFailed, Log: captureErr(opts.CaptureFailureLog, err)}
	}

	ok := s.dev.CompileShader(id)
	res := CompileResult{Stage: s.stage, Status: CompileSuccess}
	if !ok {
		res.Status = CompileFailed
	}
	if (ok && opts.CaptureSuccessLog) || (!ok && opts.CaptureFailureLog) {
		res.Log = s.dev.ShaderInfoLog(id)
	}

	if !ok {
		s.dev.DeleteShader(id)
		return res
	}
	s.handle = id
	shaderkit.Logger().Debug("shader compiled", "stage", s.stage, "id", uint64(id), "bytes", len(s.source.Text))
	return res
}

// Dispose deletes the compiled handle. It is safe to call repeatedly.
func (s *Shader) Dispose() {
	if s.handle == gpucore.InvalidID {
		return
	}
	id := s.handle
	s.handle = gpucore.InvalidID
	s.dev.DeleteShader(id)
}

func captureErr(capture bool, err error) string {
	if !capture {
		return ""
	}
	return err.Error()
}
