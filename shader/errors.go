package shader

import (
	"errors"
	"fmt"

	"github.com/gogpu/shaderkit/gpucore"
)

// Sentinel errors.
var (
	// ErrMissingSource is returned when compiling a shader without source.
	ErrMissingSource = errors.New("shader: no source attached")

	// ErrCompile matches every *CompileError.
	ErrCompile = errors.New("shader: compilation failed")

	// ErrLink is returned for a program that failed to link.
	ErrLink = errors.New("shader: link failed")

	// ErrUncompiledShader is returned when linking a program with an
	// attached shader that has no compiled handle.
	ErrUncompiledShader = errors.New("shader: attached shader is not compiled")
)

// CompileError describes a failed compilation.
type CompileError struct {
	Stage gpucore.ShaderStage
	// Log is the compiler output. It is empty unless failure logs are captured.
	Log string
}

func (e *CompileError) Error() string {
	if e.Log == "" {
		return fmt.Sprintf("shader: %s stage failed to compile", e.Stage)
	}
	return fmt.Sprintf("shader: %s stage failed to compile: %s", e.Stage, e.Log)
}

// Unwrap returns ErrCompile.
func (e *CompileError) Unwrap() error { return ErrCompile }

// LinkError describes a failed link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	if e.Log == "" {
		return ErrLink.Error()
	}
	return ErrLink.Error() + ": " + e.Log
}

// Unwrap returns ErrLink.
func (e *LinkError) Unwrap() error { return ErrLink }
