package ssl

import (
	"errors"
	"fmt"
)

// Errors reported in strict mode.
var (
	// ErrUnterminatedBlock is returned when input ends inside @hide or @exportfunc.
	ErrUnterminatedBlock = errors.New("ssl: unterminated block")

	// ErrMissingArgument is returned when a directive lacks its required argument.
	ErrMissingArgument = errors.New("ssl: missing directive argument")

	// ErrUnexpectedEnd is returned for an @end outside of any block.
	ErrUnexpectedEnd = errors.New("ssl: @end without open block")

	// ErrNestedBlock is returned when a block opens inside another block.
	ErrNestedBlock = errors.New("ssl: nested block")

	// ErrUnresolvedImport is returned when an import has no matching include.
	ErrUnresolvedImport = errors.New("ssl: unresolved import")
)

// ParseError describes a strict-mode parse failure.
type ParseError struct {
	Line      int
	Directive string
	Err       error
}

func (e *ParseError) Error() string {
	if e.Directive == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Directive, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UnresolvedImportError names an import that matched no include.
type UnresolvedImportError struct {
	Namespace string
}

func (e *UnresolvedImportError) Error() string {
	return fmt.Sprintf("ssl: unresolved import %q", e.Namespace)
}

func (e *UnresolvedImportError) Is(target error) bool {
	return target == ErrUnresolvedImport
}
