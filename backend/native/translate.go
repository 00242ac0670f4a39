// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"fmt"

	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/ir"

	"github.com/gogpu/shaderkit/gpucore"
)

// TranslateGLSL compiles the entry point of a WGSL source for stage to
// GLSL 4.50, for running WGSL shaders on the OpenGL backend. An empty entry
// selects the first entry point of that stage.
func TranslateGLSL(source string, stage gpucore.ShaderStage, entry string) (string, error) {
	module, found, err := compileWGSL(stage, gpucore.LanguageWGSL, source)
	if err != nil {
		return "", err
	}
	if entry == "" {
		entry = found
	} else if !hasEntryPoint(module, entry) {
		return "", fmt.Errorf("native: no entry point %q", entry)
	}

	code, _, err := glsl.Compile(module, glsl.Options{
		LangVersion: glsl.Version450,
		EntryPoint:  entry,
	})
	if err != nil {
		return "", fmt.Errorf("native: translate %s to GLSL: %w", entry, err)
	}
	return code, nil
}

func hasEntryPoint(module *ir.Module, name string) bool {
	for _, ep := range module.EntryPoints {
		if ep.Name == name {
			return true
		}
	}
	return false
}
