package gpucore

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestParseShaderStage(t *testing.T) {
	tests := []struct {
		in      string
		want    ShaderStage
		wantErr bool
	}{
		{"Vertex", StageVertex, false},
		{"fragment", StageFragment, false},
		{"TessControl", StageTessControl, false},
		{"TessEvaluation", StageTessEvaluation, false},
		{"tesseval", StageTessEvaluation, false},
		{" Geometry ", StageGeometry, false},
		{"COMPUTE", StageCompute, false},
		{"Pixel", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseShaderStage(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseShaderStage(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseShaderStage(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestShaderStageTextRoundTrip(t *testing.T) {
	for _, s := range Stages() {
		text, err := s.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) error = %v", s, err)
		}
		var back ShaderStage
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q) error = %v", text, err)
		}
		if back != s {
			t.Errorf("round trip %v -> %q -> %v", s, text, back)
		}
	}

	if _, err := ShaderStage(42).MarshalText(); err == nil {
		t.Error("MarshalText of invalid stage should fail")
	}
}

func TestShaderStageGPUStage(t *testing.T) {
	tests := map[ShaderStage]gputypes.ShaderStage{
		StageVertex:         gputypes.ShaderStageVertex,
		StageFragment:       gputypes.ShaderStageFragment,
		StageCompute:        gputypes.ShaderStageCompute,
		StageTessControl:    gputypes.ShaderStageNone,
		StageTessEvaluation: gputypes.ShaderStageNone,
		StageGeometry:       gputypes.ShaderStageNone,
	}
	for s, want := range tests {
		if got := s.GPUStage(); got != want {
			t.Errorf("%v.GPUStage() = %v, want %v", s, got, want)
		}
	}
}

func TestAttachmentPoint(t *testing.T) {
	if !DepthAttachment.IsDepth() || DepthAttachment.IsColor() {
		t.Error("DepthAttachment should be depth only")
	}
	if DepthAttachment.ColorIndex() != -1 {
		t.Error("DepthAttachment.ColorIndex() should be -1")
	}
	c := ColorAttachment(3)
	if !c.IsColor() || c.ColorIndex() != 3 || c.String() != "Color(3)" {
		t.Errorf("ColorAttachment(3) = %v (index %d)", c, c.ColorIndex())
	}
	if !ColorAttachment(MaxColorAttachments - 1).Valid() {
		t.Error("last color slot should be valid")
	}
	if ColorAttachment(MaxColorAttachments).Valid() {
		t.Error("color slot MaxColorAttachments should be out of range")
	}
	if ColorAttachment(-5) != NoAttachment || NoAttachment.Valid() {
		t.Error("negative color index should map to invalid NoAttachment")
	}
}

func TestTextureDescNormalized(t *testing.T) {
	d := TextureDesc{Format: gputypes.TextureFormatRGBA8Unorm, Width: 4, Height: 4}.Normalized()
	if d.MipLevels != 1 || d.Samples != 1 {
		t.Errorf("Normalized() = %+v, want 1 mip and 1 sample", d)
	}
	if !d.Usage.Contains(gputypes.TextureUsageRenderAttachment) {
		t.Error("default usage should include RenderAttachment")
	}
	if d.Multisampled() {
		t.Error("single-sample texture reported as multisampled")
	}
}

func TestTextureDescValidate(t *testing.T) {
	ok := TextureDesc{Format: gputypes.TextureFormatDepth32Float, Width: 1, Height: 1}
	if err := ok.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	if err := (TextureDesc{Format: gputypes.TextureFormatDepth32Float}).Validate(); err == nil {
		t.Error("zero extent should fail validation")
	}
	if err := (TextureDesc{Width: 1, Height: 1}).Validate(); err == nil {
		t.Error("undefined format should fail validation")
	}
}
