// Package asset addresses files in an asset tree.
//
// Asset paths are slash separated and independent of the host OS. An
// absolute path ("/shaders/scene.program") is anchored at the asset root; a
// relative path is resolved against the file that references it. A
// [Resolver] maps paths to storage: [Folder] reads from a directory on disk
// and [FS] reads from any [io/fs.FS].
//
// Text assets are decoded on read: a UTF-8 byte order mark is dropped and
// UTF-16 files with a BOM are converted to UTF-8.
package asset
