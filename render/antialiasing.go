// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidAntialiasing is returned by ParseAntialiasing.
var ErrInvalidAntialiasing = errors.New("render: invalid antialiasing mode")

// AntialiasingMode selects the sample counts of the scene framebuffer. The
// set of modes is closed: NoAA, MSAA, SDAA and SCAA.
type AntialiasingMode interface {
	// SampleCounts returns the color and depth sample counts.
	SampleCounts() (color, depth uint32)
	String() string
	antialiasingMode()
}

// NoAA renders single-sampled.
type NoAA struct{}

// MSAA uses Samples for both color and depth.
type MSAA struct{ Samples uint32 }

// SDAA (sample-depth antialiasing) keeps single-sample color with a
// multisampled depth buffer.
type SDAA struct{ CoverageSamples uint32 }

// SCAA (sample-coverage antialiasing) uses ColorSamples for color and
// CoverageSamples for depth.
type SCAA struct{ ColorSamples, CoverageSamples uint32 }

func (NoAA) SampleCounts() (uint32, uint32) { return 1, 1 }
func (m MSAA) SampleCounts() (uint32, uint32) {
	return m.Samples, m.Samples
}
func (m SDAA) SampleCounts() (uint32, uint32) { return 1, m.CoverageSamples }
func (m SCAA) SampleCounts() (uint32, uint32) {
	return m.ColorSamples, m.CoverageSamples
}

func (NoAA) String() string   { return "none" }
func (m MSAA) String() string { return fmt.Sprintf("msaa%d", m.Samples) }
func (m SDAA) String() string { return fmt.Sprintf("sdaa%d", m.CoverageSamples) }
func (m SCAA) String() string {
	return fmt.Sprintf("scaa%dx%d", m.ColorSamples, m.CoverageSamples)
}

func (NoAA) antialiasingMode() {}
func (MSAA) antialiasingMode() {}
func (SDAA) antialiasingMode() {}
func (SCAA) antialiasingMode() {}

// SampleCounts returns the color and depth sample counts of mode. A nil
// mode is NoAA.
func SampleCounts(mode AntialiasingMode) (color, depth uint32) {
	if mode == nil {
		return 1, 1
	}
	return mode.SampleCounts()
}

// ParseAntialiasing parses "none", "msaa<n>", "sdaa<n>" or "scaa<c>x<k>".
// Sample counts must be powers of two between 2 and 32, and an SCAA color
// count may not exceed its coverage count.
func ParseAntialiasing(s string) (AntialiasingMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch {
	case name == "" || name == "none" || name == "off":
		return NoAA{}, nil
	case strings.HasPrefix(name, "msaa"):
		n, err := parseSamples(name[4:])
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidAntialiasing, s, err)
		}
		return MSAA{Samples: n}, nil
	case strings.HasPrefix(name, "sdaa"):
		n, err := parseSamples(name[4:])
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidAntialiasing, s, err)
		}
		return SDAA{CoverageSamples: n}, nil
	case strings.HasPrefix(name, "scaa"):
		cs, ks, ok := strings.Cut(name[4:], "x")
		if !ok {
			return nil, fmt.Errorf("%w %q: want scaa<color>x<coverage>", ErrInvalidAntialiasing, s)
		}
		c, err := parseSamples(cs)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidAntialiasing, s, err)
		}
		k, err := parseSamples(ks)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidAntialiasing, s, err)
		}
		if c > k {
			return nil, fmt.Errorf("%w %q: color samples exceed coverage samples", ErrInvalidAntialiasing, s)
		}
		return SCAA{ColorSamples: c, CoverageSamples: k}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrInvalidAntialiasing, s)
	}
}

func parseSamples(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("sample count %q is not a number", s)
	}
	if n < 2 || n > 32 || n&(n-1) != 0 {
		return 0, fmt.Errorf("sample count %d is not a power of two in [2, 32]", n)
	}
	return uint32(n), nil
}
