package asset

import (
	"errors"
	"testing"
)

func TestPathIsAbsolute(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"/", true},
		{"/shaders/a.glsl", true},
		{"  /trimmed", true},
		{"shaders/a.glsl", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := NewPath(tt.in).IsAbsolute(); got != tt.want {
			t.Errorf("NewPath(%q).IsAbsolute() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPathParent(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"/", "", false},
		{"", "", false},
		{"/a", "/", true},
		{"/a/b", "/a", true},
		{"/shaders/post/tonemap.program", "/shaders/post", true},
		{"a/b", "a", true},
		{"a", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NewPath(tt.in).Parent()
			if ok != tt.wantOK {
				t.Fatalf("Parent() ok = %v, want %v", ok, tt.wantOK)
			}
			if got.String() != tt.want {
				t.Errorf("Parent() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPathJoin(t *testing.T) {
	tests := []struct {
		lhs, rhs string
		want     string
	}{
		{"/shaders", "common.glsl", "/shaders/common.glsl"},
		{"/shaders/", "common.glsl", "/shaders/common.glsl"},
		{"/", "a", "/a"},
		{"shaders", "lib/noise.glsl", "shaders/lib/noise.glsl"},
		{"", "a", "/a"},
	}
	for _, tt := range tests {
		got, err := NewPath(tt.lhs).Join(NewPath(tt.rhs))
		if err != nil {
			t.Fatalf("Join(%q, %q) error = %v", tt.lhs, tt.rhs, err)
		}
		if got.String() != tt.want {
			t.Errorf("Join(%q, %q) = %q, want %q", tt.lhs, tt.rhs, got, tt.want)
		}
	}
}

func TestPathJoinAbsolute(t *testing.T) {
	_, err := NewPath("/shaders").Join(NewPath("/abs.glsl"))
	if !errors.Is(err, ErrAbsoluteJoin) {
		t.Errorf("Join(absolute) error = %v, want ErrAbsoluteJoin", err)
	}
}

func TestPathResolve(t *testing.T) {
	base := NewPath("/shaders/scene.program")
	tests := []struct {
		ref, want string
	}{
		{"scene.vert", "/shaders/scene.vert"},
		{"lib/common.glsl", "/shaders/lib/common.glsl"},
		{"/shared/common.glsl", "/shared/common.glsl"},
	}
	for _, tt := range tests {
		if got := base.Resolve(NewPath(tt.ref)); got.String() != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}

	if got := NewPath("scene.program").Resolve(NewPath("a.glsl")); got.String() != "a.glsl" {
		t.Errorf("Resolve from top-level relative path = %q, want %q", got, "a.glsl")
	}
}

func TestPathBaseExt(t *testing.T) {
	p := NewPath("/shaders/sss/resolve.frag.wgsl")
	if p.Base() != "resolve.frag.wgsl" {
		t.Errorf("Base() = %q", p.Base())
	}
	if p.Ext() != ".wgsl" {
		t.Errorf("Ext() = %q", p.Ext())
	}
	if NewPath("/shaders/noext").Ext() != "" {
		t.Error("Ext() of a name without a dot should be empty")
	}
}
