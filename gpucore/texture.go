package gpucore

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
)

// TextureDesc describes a 2D texture used as a render target.
type TextureDesc struct {
	// Label is a debug name passed through to the backend.
	Label string

	Format gputypes.TextureFormat

	Width  uint32
	Height uint32

	// MipLevels is the number of mip levels. Zero is treated as one.
	MipLevels uint32

	// Samples is the sample count. Values <= 1 mean a single-sample texture.
	Samples uint32

	// Usage defaults to RenderAttachment | TextureBinding when zero.
	Usage gputypes.TextureUsage
}

// Errors returned by TextureDesc.Validate.
var (
	ErrZeroExtent      = errors.New("gpucore: texture width and height must be non-zero")
	ErrUndefinedFormat = errors.New("gpucore: texture format is undefined")
)

// Normalized returns a copy with defaults filled in.
func (d TextureDesc) Normalized() TextureDesc {
	if d.MipLevels == 0 {
		d.MipLevels = 1
	}
	if d.Samples == 0 {
		d.Samples = 1
	}
	if d.Usage == gputypes.TextureUsageNone {
		d.Usage = gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding
	}
	return d
}

// Multisampled reports whether the texture has more than one sample.
func (d TextureDesc) Multisampled() bool {
	return d.Samples > 1
}

// Validate checks that the descriptor can be allocated.
func (d TextureDesc) Validate() error {
	if d.Width == 0 || d.Height == 0 {
		return fmt.Errorf("%w (got %dx%d)", ErrZeroExtent, d.Width, d.Height)
	}
	if d.Format == gputypes.TextureFormatUndefined {
		return ErrUndefinedFormat
	}
	return nil
}

// MaxColorAttachments is the number of color slots of a framebuffer.
const MaxColorAttachments = 16

// AttachmentPoint is a logical render-target slot of a framebuffer:
// the depth slot or one of the color slots.
type AttachmentPoint int32

const (
	// DepthAttachment is the depth slot.
	DepthAttachment AttachmentPoint = -1

	// NoAttachment marks an unused entry in a draw-buffer table.
	NoAttachment AttachmentPoint = -2
)

// ColorAttachment returns the color slot with the given index. The result
// is only usable if Valid reports true.
func ColorAttachment(index int) AttachmentPoint {
	if index < 0 {
		return NoAttachment
	}
	return AttachmentPoint(index)
}

// IsDepth reports whether p is the depth slot.
func (p AttachmentPoint) IsDepth() bool { return p == DepthAttachment }

// IsColor reports whether p is a color slot (in range or not).
func (p AttachmentPoint) IsColor() bool { return p >= 0 }

// ColorIndex returns the color slot index, or -1 for non-color points.
func (p AttachmentPoint) ColorIndex() int {
	if p < 0 {
		return -1
	}
	return int(p)
}

// Valid reports whether p is the depth slot or a color slot below
// MaxColorAttachments.
func (p AttachmentPoint) Valid() bool {
	return p == DepthAttachment || (p >= 0 && p < MaxColorAttachments)
}

// String returns "Depth", "Color(n)" or "None".
func (p AttachmentPoint) String() string {
	switch {
	case p == DepthAttachment:
		return "Depth"
	case p >= 0:
		return fmt.Sprintf("Color(%d)", int(p))
	default:
		return "None"
	}
}

// FramebufferStatus is the completeness state of a framebuffer.
type FramebufferStatus uint8

// Framebuffer completeness states.
const (
	FramebufferComplete FramebufferStatus = iota
	FramebufferIncompleteAttachment
	FramebufferMissingAttachment
	FramebufferIncompleteDimensions
	FramebufferIncompleteMultisample
	FramebufferIncompleteDrawBuffer
	FramebufferUnsupported
)

var framebufferStatusNames = [...]string{
	FramebufferComplete:              "Complete",
	FramebufferIncompleteAttachment:  "IncompleteAttachment",
	FramebufferMissingAttachment:     "MissingAttachment",
	FramebufferIncompleteDimensions:  "IncompleteDimensions",
	FramebufferIncompleteMultisample: "IncompleteMultisample",
	FramebufferIncompleteDrawBuffer:  "IncompleteDrawBuffer",
	FramebufferUnsupported:           "Unsupported",
}

// String returns the status name.
func (s FramebufferStatus) String() string {
	if int(s) < len(framebufferStatusNames) {
		return framebufferStatusNames[s]
	}
	return fmt.Sprintf("FramebufferStatus(%d)", uint8(s))
}
