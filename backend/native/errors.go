// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import "errors"

// Package errors for the native backend.
var (
	// ErrNilHALDevice is returned when a device is created without a HAL device.
	ErrNilHALDevice = errors.New("native: HAL device is nil")

	// ErrNoGPU is returned when no GPU adapter is available.
	ErrNoGPU = errors.New("native: no GPU adapter available")

	// ErrProviderNotHAL is returned when a device provider does not expose
	// HAL types.
	ErrProviderNotHAL = errors.New("native: provider does not expose HAL types")

	// ErrUnknownObject is returned for IDs the device did not issue.
	ErrUnknownObject = errors.New("native: unknown object")

	// ErrUnsupportedLanguage is logged when a shader is not WGSL.
	ErrUnsupportedLanguage = errors.New("native: only WGSL sources are supported")

	// ErrUnsupportedStage is logged for stages WebGPU does not have.
	ErrUnsupportedStage = errors.New("native: stage is not supported by WebGPU")

	// ErrIncomplete is returned when a render pass is requested for an
	// incomplete framebuffer.
	ErrIncomplete = errors.New("native: framebuffer is incomplete")
)
