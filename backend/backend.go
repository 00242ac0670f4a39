package backend

import (
	"errors"
)

// Backend names.
const (
	// BackendOpenGL is the OpenGL 4.5 backend (build tag opengl).
	BackendOpenGL = "opengl"

	// BackendNative is the Pure Go backend on gogpu/wgpu HAL.
	BackendNative = "native"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")
)
