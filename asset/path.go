package asset

import (
	"errors"
	"strings"
)

// Separator is the asset path separator. Asset paths always use a forward
// slash, independent of the host OS.
const Separator = "/"

// ErrAbsoluteJoin is returned by Path.Join when the right-hand side is
// absolute.
var ErrAbsoluteJoin = errors.New("asset: cannot join an absolute path")

// Path is a slash-separated path inside the asset tree. An absolute path
// starts with "/" and is anchored at the asset root; a relative path is
// interpreted against another path with Join.
//
// Path is a value type. Surrounding whitespace is removed on construction.
type Path struct {
	p string
}

// NewPath returns the asset path for s.
func NewPath(s string) Path {
	return Path{p: strings.TrimSpace(s)}
}

// String returns the path text.
func (p Path) String() string { return p.p }

// IsAbsolute reports whether the path starts at the asset root.
func (p Path) IsAbsolute() bool { return strings.HasPrefix(p.p, Separator) }

// IsEmpty reports whether the path is "".
func (p Path) IsEmpty() bool { return p.p == "" }

// Base returns the last element of the path.
func (p Path) Base() string {
	s := strings.TrimSuffix(p.p, Separator)
	if i := strings.LastIndex(s, Separator); i >= 0 {
		return s[i+1:]
	}
	return s
}

// Ext returns the extension of the last element, including the dot.
func (p Path) Ext() string {
	b := p.Base()
	if i := strings.LastIndexByte(b, '.'); i >= 0 {
		return b[i:]
	}
	return ""
}

// Join appends a relative path. A trailing separator on p and a leading one
// on rel are collapsed, so "/a/" joined with "b" is "/a/b". Joining an
// absolute rel returns ErrAbsoluteJoin.
func (p Path) Join(rel Path) (Path, error) {
	if rel.IsAbsolute() {
		return Path{}, ErrAbsoluteJoin
	}
	lhs := strings.TrimSuffix(p.p, Separator)
	rhs := strings.TrimPrefix(rel.p, Separator)
	return Path{p: lhs + Separator + rhs}, nil
}

// Parent returns the path with its last element removed.
//
//	"/"      -> none
//	"/a"     -> "/"
//	"/a/b"   -> "/a"
//	"a/b"    -> "a"
//	"a"      -> ""
//	""       -> none
func (p Path) Parent() (Path, bool) {
	switch {
	case p.p == Separator, p.p == "":
		return Path{}, false
	case p.IsAbsolute():
		rest := strings.TrimPrefix(p.p, Separator)
		i := strings.LastIndex(rest, Separator)
		if i < 0 {
			return Path{p: Separator}, true
		}
		return Path{p: Separator + rest[:i]}, true
	default:
		i := strings.LastIndex(p.p, Separator)
		if i < 0 {
			return Path{}, true
		}
		return Path{p: p.p[:i]}, true
	}
}

// Resolve interprets ref relative to the directory containing p. Absolute
// refs are returned unchanged.
func (p Path) Resolve(ref Path) Path {
	if ref.IsAbsolute() {
		return ref
	}
	dir, ok := p.Parent()
	if !ok || dir.IsEmpty() {
		return ref
	}
	joined, _ := dir.Join(ref)
	return joined
}

// relative returns the path with any leading separator removed.
func (p Path) relative() string {
	return strings.TrimLeft(p.p, Separator)
}
