// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build opengl

package opengl

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/gogpu/shaderkit"
	"github.com/gogpu/shaderkit/backend"
	"github.com/gogpu/shaderkit/gpucore"
)

// ErrNoContext is returned by New when no OpenGL context is current.
var ErrNoContext = errors.New("opengl: no current context")

func init() {
	backend.Register(backend.BackendOpenGL, func() (gpucore.Device, error) {
		return New()
	})
}

// Device implements gpucore.Device on the current OpenGL context.
//
// Device is not safe for concurrent use: OpenGL calls are bound to the
// context's thread.
type Device struct {
	version string
	nextID  atomic.Uint64

	shaders      map[gpucore.ShaderID]*shaderObj
	programs     map[gpucore.ProgramID]*programObj
	textures     map[gpucore.TextureID]*textureObj
	framebuffers map[gpucore.FramebufferID]uint32
}

// New loads the OpenGL entry points and wraps the current context.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("opengl: init: %w", err)
	}
	v := gl.GetString(gl.VERSION)
	if v == nil {
		return nil, ErrNoContext
	}
	d := &Device{
		version:      gl.GoStr(v),
		shaders:      make(map[gpucore.ShaderID]*shaderObj),
		programs:     make(map[gpucore.ProgramID]*programObj),
		textures:     make(map[gpucore.TextureID]*textureObj),
		framebuffers: make(map[gpucore.FramebufferID]uint32),
	}
	d.nextID.Store(1)
	shaderkit.Logger().Info("opengl device created", "version", d.version)
	return d, nil
}

func (d *Device) newID() uint64 {
	return d.nextID.Add(1) - 1
}

// Name implements gpucore.Device.
func (d *Device) Name() string { return backend.BackendOpenGL }

// Version returns the GL_VERSION string of the context.
func (d *Device) Version() string { return d.version }

// Destroy implements gpucore.Device.
func (d *Device) Destroy() {
	for id := range d.framebuffers {
		d.DeleteFramebuffer(id)
	}
	for id := range d.programs {
		d.DeleteProgram(id)
	}
	for id := range d.shaders {
		d.DeleteShader(id)
	}
	for id := range d.textures {
		d.DeleteTexture(id)
	}
}

// infoLog reads a shader or program info log of length n.
func infoLog(n int32, read func(n int32, buf *uint8)) string {
	if n <= 0 {
		return ""
	}
	buf := make([]byte, n+1)
	read(n, &buf[0])
	return gl.GoStr(&buf[0])
}
