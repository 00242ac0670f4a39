package gpucore

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
)

// Resource IDs
//
// These opaque IDs represent GPU objects. Each Device implementation
// maintains a mapping between IDs and actual backend resources.
// IDs are uint64 to accommodate various backend handle sizes.

// ShaderID is an opaque handle to a shader object (one compilation unit).
type ShaderID uint64

// ProgramID is an opaque handle to a linked program.
type ProgramID uint64

// TextureID is an opaque handle to a GPU texture.
type TextureID uint64

// FramebufferID is an opaque handle to a framebuffer object.
type FramebufferID uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0

// ShaderStage identifies a programmable pipeline stage.
type ShaderStage uint8

// Shader stages in canonical order.
const (
	StageVertex ShaderStage = iota
	StageFragment
	StageTessControl
	StageTessEvaluation
	StageGeometry
	StageCompute
)

// NumStages is the number of shader stages a program can hold.
const NumStages = 6

// Stages returns all stages in canonical order.
func Stages() [NumStages]ShaderStage {
	return [NumStages]ShaderStage{
		StageVertex,
		StageFragment,
		StageTessControl,
		StageTessEvaluation,
		StageGeometry,
		StageCompute,
	}
}

var stageNames = [NumStages]string{
	"Vertex",
	"Fragment",
	"TessControl",
	"TessEvaluation",
	"Geometry",
	"Compute",
}

// String returns the stage name as used in program descriptors.
func (s ShaderStage) String() string {
	if s.Valid() {
		return stageNames[s]
	}
	return fmt.Sprintf("ShaderStage(%d)", uint8(s))
}

// Valid reports whether s is one of the six known stages.
func (s ShaderStage) Valid() bool {
	return s < NumStages
}

// ParseShaderStage parses a stage name. Matching is case-insensitive and
// also accepts the short form "TessEval".
func ParseShaderStage(name string) (ShaderStage, error) {
	n := strings.TrimSpace(name)
	for i, s := range stageNames {
		if strings.EqualFold(n, s) {
			return ShaderStage(i), nil
		}
	}
	if strings.EqualFold(n, "TessEval") {
		return StageTessEvaluation, nil
	}
	return 0, fmt.Errorf("gpucore: unknown shader stage %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s ShaderStage) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("gpucore: invalid shader stage %d", uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ShaderStage) UnmarshalText(text []byte) error {
	v, err := ParseShaderStage(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// GPUStage maps s to the WebGPU stage flag. Stages WebGPU does not have
// (tessellation, geometry) map to gputypes.ShaderStageNone.
func (s ShaderStage) GPUStage() gputypes.ShaderStage {
	switch s {
	case StageVertex:
		return gputypes.ShaderStageVertex
	case StageFragment:
		return gputypes.ShaderStageFragment
	case StageCompute:
		return gputypes.ShaderStageCompute
	default:
		return gputypes.ShaderStageNone
	}
}

// SourceLanguage is the language of a shader source handed to a Device.
type SourceLanguage uint8

// Source languages.
const (
	LanguageGLSL SourceLanguage = iota
	LanguageWGSL
)

// String returns the language name.
func (l SourceLanguage) String() string {
	switch l {
	case LanguageGLSL:
		return "GLSL"
	case LanguageWGSL:
		return "WGSL"
	default:
		return fmt.Sprintf("SourceLanguage(%d)", uint8(l))
	}
}
