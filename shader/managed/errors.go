package managed

import (
	"errors"
	"fmt"
)

// Reload error classes. Every error returned by ReloadFromAsset matches
// exactly one of them through errors.Is.
var (
	// ErrDescriptor covers reading, decoding and validating the descriptor.
	ErrDescriptor = errors.New("managed: invalid program descriptor")

	// ErrSource covers reading, parsing and transpiling include and stage
	// sources.
	ErrSource = errors.New("managed: invalid shader source")
)

// Descriptor validation errors, wrapped in a *DescriptorError.
var (
	ErrNoShaders      = errors.New("no shaders defined")
	ErrUnknownStage   = errors.New("unknown shader stage")
	ErrDuplicateStage = errors.New("duplicate shader stage")
	ErrEmptySource    = errors.New("empty source path")
)

// ErrWatcherClosed is returned by Watcher.Watch after Close.
var ErrWatcherClosed = errors.New("managed: watcher closed")

// DescriptorError reports a descriptor that could not be used.
type DescriptorError struct {
	Name string
	Err  error
}

func (e *DescriptorError) Error() string {
	return fmt.Sprintf("managed: descriptor %s: %v", e.Name, e.Err)
}

func (e *DescriptorError) Unwrap() error { return e.Err }

// Is matches ErrDescriptor.
func (e *DescriptorError) Is(target error) bool { return target == ErrDescriptor }

// SourceError reports an include or stage source that could not be used.
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("managed: source %s: %v", e.Path, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Is matches ErrSource.
func (e *SourceError) Is(target error) bool { return target == ErrSource }
