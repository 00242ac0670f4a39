package asset

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Resolver maps asset paths to storage and reads them.
type Resolver interface {
	// Resolve returns the storage location of p (a file system path for
	// Folder, an fs.FS name for FS).
	Resolve(p Path) string

	// ReadToString reads the asset at p as text.
	ReadToString(p Path) (string, error)
}

// Folder resolves asset paths against a directory on disk.
type Folder struct {
	root string
}

// NewFolder returns a resolver rooted at dir.
func NewFolder(dir string) *Folder {
	return &Folder{root: filepath.Clean(dir)}
}

// Root returns the asset root directory.
func (f *Folder) Root() string { return f.root }

// Resolve strips the leading separator from p and joins it onto the root,
// so "/shaders/a.glsl" resolves to "<root>/shaders/a.glsl".
func (f *Folder) Resolve(p Path) string {
	return filepath.Join(f.root, filepath.FromSlash(p.relative()))
}

// ReadToString reads and decodes the file at p.
func (f *Folder) ReadToString(p Path) (string, error) {
	data, err := os.ReadFile(f.Resolve(p))
	if err != nil {
		return "", fmt.Errorf("asset: read %s: %w", p, err)
	}
	return decodeText(p, data)
}

// FS resolves asset paths inside an fs.FS, e.g. an embed.FS.
type FS struct {
	fsys fs.FS
}

// NewFS returns a resolver reading from fsys.
func NewFS(fsys fs.FS) *FS {
	return &FS{fsys: fsys}
}

// Resolve returns the fs.FS name for p. The asset root maps to ".".
func (r *FS) Resolve(p Path) string {
	name := p.relative()
	if name == "" {
		return "."
	}
	return name
}

// ReadToString reads and decodes the file at p.
func (r *FS) ReadToString(p Path) (string, error) {
	data, err := fs.ReadFile(r.fsys, r.Resolve(p))
	if err != nil {
		return "", fmt.Errorf("asset: read %s: %w", p, err)
	}
	return decodeText(p, data)
}

// decodeText strips a UTF-8 byte order mark and converts UTF-16 sources
// (detected by their BOM) to UTF-8.
func decodeText(p Path, data []byte) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", fmt.Errorf("asset: decode %s: %w", p, err)
	}
	return string(out), nil
}

var (
	_ Resolver = (*Folder)(nil)
	_ Resolver = (*FS)(nil)
)
