// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/shaderkit"
	"github.com/gogpu/shaderkit/backend"
	"github.com/gogpu/shaderkit/gpucore"
)

func init() {
	backend.Register(backend.BackendNative, func() (gpucore.Device, error) {
		return NewNoop()
	})
	shaderkit.RegisterLoggerSink(func(l *slog.Logger) { hal.SetLogger(l) })
}

// Device implements gpucore.Device using gogpu/wgpu/hal directly. WGSL
// shaders are compiled with gogpu/naga; programs are validated and
// reflected on the naga IR.
//
// Thread Safety: Device is safe for concurrent use from multiple goroutines.
// All object maps are protected by a mutex.
type Device struct {
	mu     sync.Mutex
	name   string
	device hal.Device
	queue  hal.Queue

	// owned devices are destroyed by Destroy.
	owned bool

	// ID generation
	nextID atomic.Uint64

	shaders      map[gpucore.ShaderID]*shaderObj
	programs     map[gpucore.ProgramID]*programObj
	textures     map[gpucore.TextureID]*textureObj
	framebuffers map[gpucore.FramebufferID]*framebufferObj
}

// NewDevice wraps an opened HAL device and queue. The caller keeps
// ownership of the HAL device.
func NewDevice(device hal.Device, queue hal.Queue) (*Device, error) {
	if device == nil {
		return nil, ErrNilHALDevice
	}
	d := &Device{
		name:         backend.BackendNative,
		device:       device,
		queue:        queue,
		shaders:      make(map[gpucore.ShaderID]*shaderObj),
		programs:     make(map[gpucore.ProgramID]*programObj),
		textures:     make(map[gpucore.TextureID]*textureObj),
		framebuffers: make(map[gpucore.FramebufferID]*framebufferObj),
	}
	// Start ID generation at 1 (0 is invalid)
	d.nextID.Store(1)
	return d, nil
}

// NewNoop opens a device on the HAL noop backend. Shaders still go through
// the full naga pipeline, so it serves for validation and tests without a
// GPU.
func NewNoop() (*Device, error) {
	instance, err := noop.API{}.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("native: noop instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return nil, ErrNoGPU
	}
	open, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		return nil, fmt.Errorf("native: open noop adapter: %w", err)
	}
	d, err := NewDevice(open.Device, open.Queue)
	if err != nil {
		return nil, err
	}
	d.owned = true
	shaderkit.Logger().Debug("native device opened", "adapter", adapters[0].Info.Name)
	return d, nil
}

// NewFromProvider shares the GPU device of an external provider (e.g.
// gogpu). The provider must implement HalDevice() any and HalQueue() any
// returning hal.Device and hal.Queue. A gpucontext.DeviceProvider also
// contributes its adapter name.
func NewFromProvider(provider any) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrProviderNotHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrProviderNotHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrProviderNotHAL)
	}

	d, err := NewDevice(device, queue)
	if err != nil {
		return nil, err
	}
	if dp, ok := provider.(gpucontext.DeviceProvider); ok {
		info := dp.AdapterInfo()
		if info.Name != "" {
			d.name = backend.BackendNative + " (" + info.Name + ")"
		}
		shaderkit.Logger().Info("native device shared from provider",
			"adapter", info.Name, "software", info.Type == gpucontext.AdapterTypeSoftware)
	}
	return d, nil
}

// newID generates a unique object ID.
func (d *Device) newID() uint64 {
	return d.nextID.Add(1) - 1
}

// Name implements gpucore.Device.
func (d *Device) Name() string { return d.name }

// HALDevice returns the wrapped HAL device.
func (d *Device) HALDevice() hal.Device { return d.device }

// HALQueue returns the wrapped HAL queue.
func (d *Device) HALQueue() hal.Queue { return d.queue }

// Destroy implements gpucore.Device. It releases every HAL object still
// owned by the device and, for devices opened by NewNoop, the HAL device
// itself.
func (d *Device) Destroy() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for id, s := range d.shaders {
		s.release(d.device)
		delete(d.shaders, id)
	}
	clear(d.programs)
	for id, t := range d.textures {
		t.release(d.device)
		delete(d.textures, id)
	}
	clear(d.framebuffers)

	if d.owned && d.device != nil {
		d.device.Destroy()
		d.device = nil
	}
}
