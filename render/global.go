// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/shaderkit"
	"github.com/gogpu/shaderkit/asset"
	"github.com/gogpu/shaderkit/gpucore"
	"github.com/gogpu/shaderkit/shader/managed"
)

// ErrZeroResolution is returned by Initialize and Reconfigure for a zero
// width or height.
var ErrZeroResolution = errors.New("render: resolution must be non-zero")

// Scene framebuffer formats.
const (
	SceneDepthFormat  = gputypes.TextureFormatDepth32Float
	SceneHDRFormat    = gputypes.TextureFormatRG11B10Ufloat
	SceneDetailFormat = gputypes.TextureFormatRGBA8Unorm
)

// sourceCacheLimit bounds the parsed sources shared by the programs of a
// RenderGlobal.
const sourceCacheLimit = 256

// RenderGlobal drives the output configuration: it owns the HDR scene
// framebuffer, forwards reconfigurations to subsystems and reloads shader
// programs at the start of a frame.
type RenderGlobal struct {
	dev      gpucore.Device
	textures *Textures
	res      asset.Resolver

	width, height uint32
	aa            AntialiasingMode

	scene      *Framebuffer
	subsystems []Subsystem
	programs   []*managed.ManagedProgram
	sources    *managed.ParseCache

	initialized  bool
	reloadQueued bool
}

// NewRenderGlobal returns an uninitialized RenderGlobal.
func NewRenderGlobal(dev gpucore.Device, textures *Textures, res asset.Resolver) *RenderGlobal {
	return &RenderGlobal{
		dev:      dev,
		textures: textures,
		res:      res,
		aa:       NoAA{},
		sources:  managed.NewParseCache(sourceCacheLimit),
	}
}

// AddSubsystem registers s. A subsystem added after Initialize is
// initialized and configured right away.
func (g *RenderGlobal) AddSubsystem(s Subsystem) error {
	g.subsystems = append(g.subsystems, s)
	if !g.initialized {
		return nil
	}
	if err := s.Initialize(); err != nil {
		return err
	}
	if err := s.Reconfigure(g.event(false)); err != nil {
		return err
	}
	g.reloadQueued = true
	return nil
}

// AddProgram registers a managed program owned by the RenderGlobal itself.
func (g *RenderGlobal) AddProgram(path asset.Path, opts ...managed.Option) *managed.ManagedProgram {
	opts = append([]managed.Option{managed.WithParseCache(g.sources)}, opts...)
	mp := managed.New(path, g.res, g.dev, opts...)
	g.programs = append(g.programs, mp)
	g.reloadQueued = true
	return mp
}

// Initialize initializes every subsystem and performs the first
// reconfiguration.
func (g *RenderGlobal) Initialize(width, height uint32, aa AntialiasingMode) error {
	if width == 0 || height == 0 {
		return ErrZeroResolution
	}
	for _, s := range g.subsystems {
		if err := s.Initialize(); err != nil {
			return fmt.Errorf("render: initialize subsystem: %w", err)
		}
	}
	g.initialized = true
	return g.Reconfigure(width, height, aa, false)
}

// Reconfigure applies a new resolution and antialiasing mode. The scene
// framebuffer is built on the first call, resized on later calls and
// rebuilt when the antialiasing mode changes. Subsystems receive a
// ReconfigureEvent. Unless onlyResize is set a shader reload is queued for
// the next BeginFrame.
func (g *RenderGlobal) Reconfigure(width, height uint32, aa AntialiasingMode, onlyResize bool) error {
	if width == 0 || height == 0 {
		return ErrZeroResolution
	}
	if aa == nil {
		aa = NoAA{}
	}
	aaChanged := aa != g.aa
	g.width, g.height, g.aa = width, height, aa

	var errs []error
	switch {
	case g.scene == nil || aaChanged:
		if g.scene != nil {
			g.scene.Release()
		}
		g.scene = g.buildScene()
		g.scene.Allocate()
		errs = append(errs, g.scene.Err())
	default:
		g.scene.Resize(width, height)
		errs = append(errs, g.scene.Err())
	}

	e := g.event(onlyResize)
	for _, s := range g.subsystems {
		if err := s.Reconfigure(e); err != nil {
			errs = append(errs, fmt.Errorf("render: reconfigure subsystem: %w", err))
		}
	}

	if !onlyResize {
		g.QueueShaderReload()
	}
	shaderkit.Logger().Info("render pipeline reconfigured",
		"width", width, "height", height, "aa", aa.String(), "only_resize", onlyResize)
	return errors.Join(errs...)
}

func (g *RenderGlobal) event(onlyResize bool) ReconfigureEvent {
	return ReconfigureEvent{Width: g.width, Height: g.height, Antialiasing: g.aa, OnlyResize: onlyResize}
}

func (g *RenderGlobal) buildScene() *Framebuffer {
	color, depth := SampleCounts(g.aa)
	fb := NewFramebuffer(g.dev, g.textures, g.width, g.height)
	fb.AddAttachment(NewAttachment(g.textures, DepthPoint(), SceneDepthFormat, depth))
	fb.AddAttachment(NewAttachment(g.textures, ColorPoint(0), SceneHDRFormat, color))
	fb.AddAttachment(NewAttachment(g.textures, ColorPoint(1), SceneDetailFormat, color))
	return fb
}

// QueueShaderReload makes the next BeginFrame reload every program from its
// assets.
func (g *RenderGlobal) QueueShaderReload() { g.reloadQueued = true }

// ReloadQueued reports whether a shader reload is pending.
func (g *RenderGlobal) ReloadQueued() bool { return g.reloadQueued }

// BeginFrame performs a queued reload and recompiles every program that
// needs it. A program that fails to reload keeps its previous version; the
// reload errors are returned joined.
func (g *RenderGlobal) BeginFrame() error {
	log := shaderkit.Logger()
	programs := g.Programs()

	var errs []error
	if g.reloadQueued {
		g.reloadQueued = false
		log.Info("reloading shaders", "programs", len(programs))
		for _, mp := range programs {
			if err := mp.ReloadFromAsset(); err != nil {
				log.Error("shader reload failed, keeping previous program",
					"path", mp.Path().String(), "err", err)
				errs = append(errs, err)
			}
		}
	}

	for _, mp := range programs {
		if mp.NeedsRecompile() {
			mp.DoRecompile()
		}
	}
	return errors.Join(errs...)
}

// SceneFramebuffer returns the HDR scene framebuffer, nil before Initialize.
func (g *RenderGlobal) SceneFramebuffer() *Framebuffer { return g.scene }

// Resolution returns the current output size.
func (g *RenderGlobal) Resolution() (width, height uint32) { return g.width, g.height }

// Antialiasing returns the current antialiasing mode.
func (g *RenderGlobal) Antialiasing() AntialiasingMode { return g.aa }

// Programs returns the RenderGlobal's own programs followed by those of
// every subsystem.
func (g *RenderGlobal) Programs() []*managed.ManagedProgram {
	out := make([]*managed.ManagedProgram, 0, len(g.programs))
	out = append(out, g.programs...)
	for _, s := range g.subsystems {
		out = append(out, s.Programs()...)
	}
	return out
}

// SourceCache returns the parse cache shared by programs added with
// AddProgram.
func (g *RenderGlobal) SourceCache() *managed.ParseCache { return g.sources }

// Release frees the scene framebuffer, all subsystems and all programs.
func (g *RenderGlobal) Release() {
	if g.scene != nil {
		g.scene.Release()
		g.scene = nil
	}
	for _, s := range g.subsystems {
		s.Release()
	}
	for _, mp := range g.programs {
		mp.Dispose()
	}
	g.initialized = false
}
