// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/shaderkit/asset"
	"github.com/gogpu/shaderkit/gpucore"
	"github.com/gogpu/shaderkit/shader/managed"
)

// SSSResolveProgram is the descriptor path of the separable SSS resolve
// program.
const SSSResolveProgram = "/shaders/separable_sss_resolve.program"

// Uniforms of the SSS resolve program.
const (
	UniformSSSWidth                   = "uGlobalSSSWidth"
	UniformSeparablePassDir           = "uSeparablePassDir"
	UniformDistanceToProjectionWindow = "uDistanceToProjectionWindow"
	UniformCameraDepthPlanes          = "uCameraDepthPlanes"
)

// ResolvePass describes one direction of the separable blur: read Source,
// write Target, blur along Direction.
type ResolvePass struct {
	Target    *Framebuffer
	Source    TextureHandle
	Direction [2]float32
}

// SSSResolve is the separable subsurface-scattering resolve subsystem. It
// blurs the scene color horizontally into an intermediate target and then
// vertically into the final target.
type SSSResolve struct {
	dev      gpucore.Device
	textures *Textures

	intermediate *Framebuffer
	final        *Framebuffer
	program      *managed.ManagedProgram
}

// NewSSSResolve returns an uninitialized subsystem.
func NewSSSResolve(dev gpucore.Device, textures *Textures, res asset.Resolver, opts ...managed.Option) *SSSResolve {
	return &SSSResolve{
		dev:      dev,
		textures: textures,
		program:  managed.New(asset.NewPath(SSSResolveProgram), res, dev, opts...),
	}
}

func (s *SSSResolve) newTarget() *Framebuffer {
	fb := NewFramebuffer(s.dev, s.textures, 0, 0)
	fb.AddAttachment(NewAttachment(s.textures, DepthPoint(), gputypes.TextureFormatDepth32Float, 1))
	fb.AddAttachment(NewAttachment(s.textures, ColorPoint(0), gputypes.TextureFormatRG11B10Ufloat, 1))
	return fb
}

// Initialize implements Subsystem.
func (s *SSSResolve) Initialize() error {
	if s.intermediate == nil {
		s.intermediate = s.newTarget()
	}
	if s.final == nil {
		s.final = s.newTarget()
	}
	return nil
}

// Reconfigure implements Subsystem. Both targets are resized and then
// allocated.
func (s *SSSResolve) Reconfigure(e ReconfigureEvent) error {
	if s.intermediate == nil {
		if err := s.Initialize(); err != nil {
			return err
		}
	}
	var errs []error
	for _, fb := range []*Framebuffer{s.intermediate, s.final} {
		fb.Resize(e.Width, e.Height)
		fb.Allocate()
		errs = append(errs, fb.Err())
	}
	return errors.Join(errs...)
}

// Programs implements Subsystem.
func (s *SSSResolve) Programs() []*managed.ManagedProgram {
	return []*managed.ManagedProgram{s.program}
}

// Release implements Subsystem.
func (s *SSSResolve) Release() {
	for _, fb := range []*Framebuffer{s.intermediate, s.final} {
		if fb != nil {
			fb.Release()
		}
	}
	s.intermediate, s.final = nil, nil
	s.program.Dispose()
}

// Intermediate returns the target of the horizontal pass.
func (s *SSSResolve) Intermediate() *Framebuffer { return s.intermediate }

// Final returns the target of the vertical pass.
func (s *SSSResolve) Final() *Framebuffer { return s.final }

// Program returns the resolve program.
func (s *SSSResolve) Program() *managed.ManagedProgram { return s.program }

// Targets returns the intermediate color texture, the input of the second
// pass.
func (s *SSSResolve) Targets() TextureHandle {
	if s.intermediate == nil {
		return TextureHandle{}
	}
	a, _ := s.intermediate.Attachment(ColorPoint(0))
	return a.Texture
}

// Passes returns the two blur passes for the given scene color texture.
func (s *SSSResolve) Passes(sceneColor TextureHandle) [2]ResolvePass {
	return [2]ResolvePass{
		{Target: s.intermediate, Source: sceneColor, Direction: [2]float32{1, 0}},
		{Target: s.final, Source: s.Targets(), Direction: [2]float32{0, 1}},
	}
}

// UniformLocation returns a uniform location of the linked resolve program.
func (s *SSSResolve) UniformLocation(name string) (int32, bool) {
	p := s.program.Program()
	if p == nil {
		return -1, false
	}
	return p.UniformLocation(name)
}
