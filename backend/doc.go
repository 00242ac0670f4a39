// Package backend provides a pluggable GPU backend registry.
//
// Backends implement [gpucore.Device] and register a [Factory] from their
// init() functions:
//
//	import _ "github.com/gogpu/shaderkit/backend/native"
//
// The OpenGL backend is only compiled with the opengl build tag:
//
//	go build -tags opengl ./...
//
// # Backend Selection
//
// Use Default() to get the best available backend, or Get() to request
// a specific backend by name:
//
//	// Best available backend (opengl, then native)
//	dev, err := backend.Default()
//
//	// Or request a specific backend
//	dev, err := backend.Get(backend.BackendNative)
package backend
