package ssl

import (
	"path"
	"strings"
)

// Dialect selects the shading language a source is written in.
type Dialect uint8

const (
	// GLSL sources drop unknown directives and need forward declarations.
	GLSL Dialect = iota
	// WGSL sources keep '@' attribute lines and are order independent.
	WGSL
)

// String returns the dialect name.
func (d Dialect) String() string {
	switch d {
	case GLSL:
		return "glsl"
	case WGSL:
		return "wgsl"
	default:
		return "unknown"
	}
}

// DialectForPath picks the dialect from a file extension. Files ending in
// .wgsl are WGSL, everything else is GLSL.
func DialectForPath(p string) Dialect {
	if strings.EqualFold(path.Ext(p), ".wgsl") {
		return WGSL
	}
	return GLSL
}

// TokenKind tells whether a SourceToken is emitted for importers.
type TokenKind uint8

const (
	// TextSource is always emitted.
	TextSource TokenKind = iota
	// HiddenSource is only emitted when the source is the compilation unit.
	HiddenSource
)

// String returns the token kind name.
func (k TokenKind) String() string {
	if k == HiddenSource {
		return "hidden"
	}
	return "text"
}

// SourceToken is one contiguous run of body text.
type SourceToken struct {
	Kind TokenKind
	Body string
}

// ExportedFunction is a function made visible to importers through a
// forward declaration.
type ExportedFunction struct {
	Signature string
}

// Declaration returns the forward declaration for the function.
func (f ExportedFunction) Declaration() string {
	return f.Signature + ";"
}

// ParsedSource is the result of parsing one SSL source.
type ParsedSource struct {
	// ShaderType is the @shadertype tag, empty if absent.
	ShaderType string

	// Namespace is the key importers use to find this source.
	Namespace string

	// GLSLVersion is the @glslversion value, e.g. "450 core".
	GLSLVersion string

	// Imports lists @import namespaces in order of appearance.
	Imports []string

	Tokens []SourceToken

	Exported []ExportedFunction

	Dialect Dialect
}

// HasNamespace reports whether the source declared a namespace.
func (s *ParsedSource) HasNamespace() bool {
	return s.Namespace != ""
}

// Body concatenates the token bodies in order. Hidden tokens are included
// only when emitHidden is true.
func (s *ParsedSource) Body(emitHidden bool) string {
	var b strings.Builder
	s.writeBody(&b, emitHidden)
	return b.String()
}

func (s *ParsedSource) writeBody(b *strings.Builder, emitHidden bool) {
	for _, tok := range s.Tokens {
		if tok.Kind == HiddenSource && !emitHidden {
			continue
		}
		b.WriteString(tok.Body)
	}
}
