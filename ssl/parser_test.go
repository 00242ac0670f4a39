package ssl

import (
	"errors"
	"reflect"
	"testing"
)

func mustParse(t *testing.T, text string, opts ...ParseOption) *ParsedSource {
	t.Helper()
	src, err := Parse(text, opts...)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return src
}

func TestParseDirectives(t *testing.T) {
	src := mustParse(t, `@shadertype fragment
@glslversion 450 core
@namespace lighting
@import common
@import noise
@import common
void main() {}
`)

	if src.ShaderType != "fragment" {
		t.Errorf("ShaderType = %q, want fragment", src.ShaderType)
	}
	if src.GLSLVersion != "450 core" {
		t.Errorf("GLSLVersion = %q, want %q", src.GLSLVersion, "450 core")
	}
	if src.Namespace != "lighting" {
		t.Errorf("Namespace = %q, want lighting", src.Namespace)
	}
	wantImports := []string{"common", "noise", "common"}
	if !reflect.DeepEqual(src.Imports, wantImports) {
		t.Errorf("Imports = %v, want %v", src.Imports, wantImports)
	}
	if got := src.Body(true); got != "void main() {}\n" {
		t.Errorf("Body = %q", got)
	}
}

func TestParseVersionWithoutProfile(t *testing.T) {
	src := mustParse(t, "@glslversion 330\n")
	if src.GLSLVersion != "330" {
		t.Errorf("GLSLVersion = %q, want 330", src.GLSLVersion)
	}
}

func TestParseUnknownDirectiveDropped(t *testing.T) {
	src := mustParse(t, "a\n@pragma_thing foo\nb\n")
	if got := src.Body(true); got != "a\nb\n" {
		t.Errorf("Body = %q, want %q", got, "a\nb\n")
	}
}

func TestParseIndentedDirective(t *testing.T) {
	src := mustParse(t, "   \t@namespace ns\nx\n")
	if src.Namespace != "ns" {
		t.Errorf("Namespace = %q, want ns", src.Namespace)
	}
}

func TestParseHideBlock(t *testing.T) {
	src := mustParse(t, `before
@hide
secret
@end
after
`)
	want := []SourceToken{
		{Kind: TextSource, Body: "before\n"},
		{Kind: HiddenSource, Body: "secret\n"},
		{Kind: TextSource, Body: "after\n"},
	}
	if !reflect.DeepEqual(src.Tokens, want) {
		t.Errorf("Tokens = %#v, want %#v", src.Tokens, want)
	}
	if got := src.Body(false); got != "before\nafter\n" {
		t.Errorf("Body(false) = %q", got)
	}
	if got := src.Body(true); got != "before\nsecret\nafter\n" {
		t.Errorf("Body(true) = %q", got)
	}
}

func TestParseExportFunc(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"brace on line", "@exportfunc\nvec3 getColor(vec2 uv) {\n return vec3(uv, 0.0);\n}\n@end\n", "vec3 getColor(vec2 uv)"},
		{"leading blank lines", "@exportfunc\n\n   \n  float f(float x){ return x; }\n@end\n", "float f(float x)"},
		{"brace on next line", "@exportfunc\nfloat g(float x)\n{\n return x;\n}\n@end\n", "float g(float x)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := mustParse(t, tt.text)
			if len(src.Exported) != 1 {
				t.Fatalf("len(Exported) = %d, want 1", len(src.Exported))
			}
			if src.Exported[0].Signature != tt.want {
				t.Errorf("Signature = %q, want %q", src.Exported[0].Signature, tt.want)
			}
			for _, tok := range src.Tokens {
				if tok.Kind != TextSource {
					t.Errorf("export block produced %v token", tok.Kind)
				}
			}
		})
	}
}

func TestParseBodyReconstruction(t *testing.T) {
	text := "uniform float t;\n\nvoid main() {\n  gl_FragColor = vec4(t);\n}\n"
	src := mustParse(t, text)
	if got := src.Body(true); got != text {
		t.Errorf("Body = %q, want %q", got, text)
	}
}

func TestParseCRLF(t *testing.T) {
	src := mustParse(t, "@namespace n\r\nline\r\n")
	if src.Namespace != "n" {
		t.Errorf("Namespace = %q", src.Namespace)
	}
	if got := src.Body(true); got != "line\n" {
		t.Errorf("Body = %q", got)
	}
}

func TestParseLenient(t *testing.T) {
	t.Run("unterminated hide", func(t *testing.T) {
		src := mustParse(t, "a\n@hide\nb\n")
		if len(src.Tokens) != 2 || src.Tokens[1].Kind != HiddenSource {
			t.Fatalf("Tokens = %#v", src.Tokens)
		}
	})
	t.Run("unterminated export", func(t *testing.T) {
		src := mustParse(t, "@exportfunc\nint f() {\n")
		if len(src.Exported) != 1 || src.Tokens[0].Kind != TextSource {
			t.Fatalf("Exported = %#v Tokens = %#v", src.Exported, src.Tokens)
		}
	})
	t.Run("missing argument", func(t *testing.T) {
		src := mustParse(t, "@namespace\n@import\nx\n")
		if src.Namespace != "" || len(src.Imports) != 0 {
			t.Errorf("Namespace = %q Imports = %v", src.Namespace, src.Imports)
		}
	})
	t.Run("stray end", func(t *testing.T) {
		src := mustParse(t, "@end\nx\n")
		if got := src.Body(true); got != "x\n" {
			t.Errorf("Body = %q", got)
		}
	})
}

func TestParseStrict(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
		line int
	}{
		{"unterminated hide", "a\n@hide\nb\n", ErrUnterminatedBlock, 2},
		{"unterminated export", "@exportfunc\nint f() {}\n", ErrUnterminatedBlock, 1},
		{"missing namespace", "x\n@namespace\n", ErrMissingArgument, 2},
		{"missing version", "@glslversion\n", ErrMissingArgument, 1},
		{"stray end", "@end\n", ErrUnexpectedEnd, 1},
		{"nested", "@hide\n@exportfunc\n@end\n", ErrNestedBlock, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text, WithStrict())
			if !errors.Is(err, tt.want) {
				t.Fatalf("Parse() error = %v, want %v", err, tt.want)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %T is not *ParseError", err)
			}
			if pe.Line != tt.line {
				t.Errorf("Line = %d, want %d", pe.Line, tt.line)
			}
		})
	}
}

func TestParseWGSLKeepsAttributes(t *testing.T) {
	text := "@group(0) @binding(0) var<uniform> u: vec4<f32>;\n@fragment\nfn main() -> @location(0) vec4<f32> { return u; }\n"
	src := mustParse(t, "@namespace post\n"+text, WithDialect(WGSL))
	if src.Dialect != WGSL {
		t.Errorf("Dialect = %v, want wgsl", src.Dialect)
	}
	if got := src.Body(true); got != text {
		t.Errorf("Body = %q, want %q", got, text)
	}
	if src.Namespace != "post" {
		t.Errorf("Namespace = %q", src.Namespace)
	}
}

func TestDialectForPath(t *testing.T) {
	tests := map[string]Dialect{
		"shaders/a.wgsl":      WGSL,
		"shaders/A.WGSL":      WGSL,
		"shaders/a.frag.glsl": GLSL,
		"lib.ssl":             GLSL,
		"noext":               GLSL,
	}
	for p, want := range tests {
		if got := DialectForPath(p); got != want {
			t.Errorf("DialectForPath(%q) = %v, want %v", p, got, want)
		}
	}
}
