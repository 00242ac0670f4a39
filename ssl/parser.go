package ssl

import (
	"bufio"
	"strings"
	"unicode"
)

// Directive keywords.
const (
	directiveShaderType  = "@shadertype"
	directiveGLSLVersion = "@glslversion"
	directiveNamespace   = "@namespace"
	directiveImport      = "@import"
	directiveExportFunc  = "@exportfunc"
	directiveHide        = "@hide"
	directiveEnd         = "@end"
)

// ParseOption configures Parse.
type ParseOption func(*parseConfig)

type parseConfig struct {
	dialect Dialect
	strict  bool
}

// WithDialect sets the source dialect. The default is GLSL.
func WithDialect(d Dialect) ParseOption {
	return func(c *parseConfig) { c.dialect = d }
}

// WithStrict makes Parse reject malformed directives and unterminated
// blocks instead of accepting them silently.
func WithStrict() ParseOption {
	return func(c *parseConfig) { c.strict = true }
}

type blockMode uint8

const (
	modeText blockMode = iota
	modeExport
	modeHide
)

// parser holds the state of a single Parse call.
type parser struct {
	cfg parseConfig
	out *ParsedSource

	buf  strings.Builder
	mode blockMode

	// Line number where the current block was opened.
	blockLine int

	// Set on @exportfunc, cleared once the first non-blank line is seen.
	wantSignature bool
}

// Parse turns SSL source text into a ParsedSource.
//
// In the default lenient mode Parse never fails. Unknown directives are
// dropped, directives missing an argument are ignored, and an unterminated
// block is closed at end of input. With WithStrict those conditions are
// reported as *ParseError.
func Parse(text string, opts ...ParseOption) (*ParsedSource, error) {
	p := &parser{out: &ParsedSource{}}
	for _, opt := range opts {
		opt(&p.cfg)
	}
	p.out.Dialect = p.cfg.dialect

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), len(text)+1)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if err := p.line(lineNo, strings.TrimSuffix(sc.Text(), "\r")); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if p.mode != modeText && p.cfg.strict {
		return nil, &ParseError{Line: p.blockLine, Directive: p.openDirective(), Err: ErrUnterminatedBlock}
	}
	p.flush()
	return p.out, nil
}

func (p *parser) line(n int, line string) error {
	trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
	if !strings.HasPrefix(trimmed, "@") {
		p.body(line)
		return nil
	}

	fields := strings.Fields(trimmed)
	directive, args := fields[0], fields[1:]

	switch directive {
	case directiveShaderType:
		if len(args) == 0 {
			return p.missing(n, directive)
		}
		p.out.ShaderType = args[0]

	case directiveGLSLVersion:
		if len(args) == 0 {
			return p.missing(n, directive)
		}
		version := args[0]
		if len(args) > 1 {
			version += " " + args[1]
		}
		p.out.GLSLVersion = version

	case directiveNamespace:
		if len(args) == 0 {
			return p.missing(n, directive)
		}
		p.out.Namespace = args[0]

	case directiveImport:
		if len(args) == 0 {
			return p.missing(n, directive)
		}
		p.out.Imports = append(p.out.Imports, args[0])

	case directiveExportFunc, directiveHide:
		if p.mode != modeText && p.cfg.strict {
			return &ParseError{Line: n, Directive: directive, Err: ErrNestedBlock}
		}
		p.flush()
		p.blockLine = n
		if directive == directiveHide {
			p.mode = modeHide
		} else {
			p.mode = modeExport
			p.wantSignature = true
		}

	case directiveEnd:
		if p.mode == modeText {
			if p.cfg.strict {
				return &ParseError{Line: n, Directive: directive, Err: ErrUnexpectedEnd}
			}
			return nil
		}
		p.flush()
		p.mode = modeText
		p.wantSignature = false

	default:
		// WGSL attributes share the directive prefix.
		if p.cfg.dialect == WGSL {
			p.body(line)
		}
	}
	return nil
}

func (p *parser) body(line string) {
	if p.wantSignature && strings.TrimSpace(line) != "" {
		p.wantSignature = false
		p.out.Exported = append(p.out.Exported, ExportedFunction{Signature: signatureOf(line)})
	}
	p.buf.WriteString(line)
	p.buf.WriteByte('\n')
}

// flush emits the buffered body as a token of the current mode.
func (p *parser) flush() {
	if p.buf.Len() == 0 {
		return
	}
	kind := TextSource
	if p.mode == modeHide {
		kind = HiddenSource
	}
	p.out.Tokens = append(p.out.Tokens, SourceToken{Kind: kind, Body: p.buf.String()})
	p.buf.Reset()
}

func (p *parser) missing(n int, directive string) error {
	if p.cfg.strict {
		return &ParseError{Line: n, Directive: directive, Err: ErrMissingArgument}
	}
	return nil
}

func (p *parser) openDirective() string {
	if p.mode == modeHide {
		return directiveHide
	}
	return directiveExportFunc
}

// signatureOf extracts the text before the first '{', trimmed.
func signatureOf(line string) string {
	if i := strings.IndexByte(line, '{'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}
