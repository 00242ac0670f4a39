package ssl

import (
	"fmt"
	"strings"
)

// Section markers written into the transpiled output.
const (
	markerForwardDecls = "\n// [[ import forward declarations ]] //\n\n"
	markerOwnSource    = "\n// [[ own source ]] //\n\n"
	markerImportSource = "\n// [[ import source for \"%s\" ]] //\n\n"
	markerEnd          = "\n// [[ end of transpiled source ]] //\n"
)

// TranspileOption configures a Transpiler.
type TranspileOption func(*Transpiler)

// WithStrictImports makes Transpile fail with *UnresolvedImportError when
// an import matches no include. By default such imports are skipped.
func WithStrictImports() TranspileOption {
	return func(t *Transpiler) { t.strictImports = true }
}

// Transpiler combines a compilation unit with a scope of includes.
type Transpiler struct {
	unit          *ParsedSource
	scope         []*ParsedSource
	strictImports bool
}

// NewTranspiler creates a Transpiler for unit with an empty include scope.
func NewTranspiler(unit *ParsedSource, opts ...TranspileOption) *Transpiler {
	t := &Transpiler{unit: unit}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// AddInclude appends src to the include scope. When several includes share
// a namespace the one added first is used.
func (t *Transpiler) AddInclude(src *ParsedSource) {
	if src == nil {
		return
	}
	t.scope = append(t.scope, src)
}

// Includes returns the include scope in insertion order.
func (t *Transpiler) Includes() []*ParsedSource {
	return t.scope
}

// lookup returns the first include exporting namespace ns.
func (t *Transpiler) lookup(ns string) *ParsedSource {
	for _, inc := range t.scope {
		if inc.HasNamespace() && inc.Namespace == ns {
			return inc
		}
	}
	return nil
}

// Transpile produces the final shader text. The output is laid out as the
// #version line, forward declarations for imported functions, the unit's
// own body including hidden blocks, and the body of every import without
// its hidden blocks.
func (t *Transpiler) Transpile() (string, error) {
	unit := t.unit
	if unit == nil {
		unit = &ParsedSource{}
	}

	resolved := make([]*ParsedSource, len(unit.Imports))
	for i, ns := range unit.Imports {
		resolved[i] = t.lookup(ns)
		if resolved[i] == nil && t.strictImports {
			return "", &UnresolvedImportError{Namespace: ns}
		}
	}

	var b strings.Builder
	if unit.GLSLVersion != "" && unit.Dialect != WGSL {
		fmt.Fprintf(&b, "#version %s\n", unit.GLSLVersion)
	}

	b.WriteString(markerForwardDecls)
	if unit.Dialect != WGSL {
		for _, inc := range resolved {
			if inc == nil {
				continue
			}
			for _, fn := range inc.Exported {
				b.WriteString(fn.Declaration())
				b.WriteByte('\n')
			}
		}
	}

	b.WriteString(markerOwnSource)
	unit.writeBody(&b, true)

	for _, inc := range resolved {
		if inc == nil {
			continue
		}
		fmt.Fprintf(&b, markerImportSource, inc.Namespace)
		inc.writeBody(&b, false)
	}

	b.WriteString(markerEnd)
	return b.String(), nil
}

// Transpile is a shorthand for a lenient Transpiler over unit and includes.
func Transpile(unit *ParsedSource, includes ...*ParsedSource) (string, error) {
	t := NewTranspiler(unit)
	for _, inc := range includes {
		t.AddInclude(inc)
	}
	return t.Transpile()
}
