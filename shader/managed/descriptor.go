package managed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/shaderkit/gpucore"
)

// ShaderDef names the source file of one stage.
type ShaderDef struct {
	Stage  string `json:"stage" yaml:"stage" toml:"stage"`
	Source string `json:"source" yaml:"source" toml:"source"`
}

// ProgramDescriptor is the program asset document.
//
//	id: scene
//	includes: [common.glsl]
//	shaders:
//	  - {stage: Vertex, source: scene.vert}
//	  - {stage: Fragment, source: scene.frag}
type ProgramDescriptor struct {
	ID       string      `json:"id" yaml:"id" toml:"id"`
	Includes []string    `json:"includes" yaml:"includes" toml:"includes"`
	Shaders  []ShaderDef `json:"shaders" yaml:"shaders" toml:"shaders"`
}

// Decoder is implemented by the json, toml and yaml decoders.
type Decoder interface {
	Decode(v any) error
}

// DecoderFunc creates a Decoder for r.
type DecoderFunc func(r io.Reader) Decoder

// NewDecoderFunc adapts a typed decoder constructor.
func NewDecoderFunc[T Decoder](f func(r io.Reader) T) DecoderFunc {
	return func(r io.Reader) Decoder { return f(r) }
}

// DecoderFor picks the decoder from the extension of name: ".json" uses
// encoding/json, ".toml" uses TOML and everything else, ".program"
// included, uses YAML. YAML accepts JSON documents as well.
func DecoderFor(name string) DecoderFunc {
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		return NewDecoderFunc(json.NewDecoder)
	case ".toml":
		return NewDecoderFunc(toml.NewDecoder)
	default:
		return NewDecoderFunc(yaml.NewDecoder)
	}
}

// DecodeDescriptor decodes and validates a descriptor. name selects the
// format through DecoderFor.
func DecodeDescriptor(name string, data []byte) (*ProgramDescriptor, error) {
	var d ProgramDescriptor
	err := DecoderFor(name)(bytes.NewReader(data)).Decode(&d)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, &DescriptorError{Name: name, Err: err}
	}
	if err := d.Validate(); err != nil {
		return nil, &DescriptorError{Name: name, Err: err}
	}
	return &d, nil
}

// Validate checks the shader list: it must be non-empty, every stage must
// be known and unique and every source must be set.
func (d *ProgramDescriptor) Validate() error {
	if len(d.Shaders) == 0 {
		return ErrNoShaders
	}
	var seen [gpucore.NumStages]bool
	for i, def := range d.Shaders {
		stage, err := def.ParsedStage()
		if err != nil {
			return fmt.Errorf("shaders[%d]: %w", i, err)
		}
		if seen[stage] {
			return fmt.Errorf("shaders[%d]: %w: %s", i, ErrDuplicateStage, stage)
		}
		seen[stage] = true
		if strings.TrimSpace(def.Source) == "" {
			return fmt.Errorf("shaders[%d] (%s): %w", i, stage, ErrEmptySource)
		}
	}
	return nil
}

// ParsedStage maps the stage name to a gpucore.ShaderStage.
func (s ShaderDef) ParsedStage() (gpucore.ShaderStage, error) {
	stage, err := gpucore.ParseShaderStage(s.Stage)
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrUnknownStage, s.Stage)
	}
	return stage, nil
}
