// Package pipeline holds the file-object model shared by sources,
// transforms and sinks, plus the driver wiring them together.
package pipeline

import (
	"io"
	"path/filepath"
	"strings"
	"time"
)

// ContentKind tells how an asset carries its payload. It is decided once
// when the asset enters the pipeline and never re-probed afterwards.
type ContentKind int

const (
	// Empty marks a placeholder asset with no payload at all (a directory
	// entry, a symlink target that resolved to nothing). Distinct from a
	// buffered asset whose contents happen to be zero bytes.
	Empty ContentKind = iota
	// Buffered marks an asset whose whole payload is held in Contents.
	Buffered
	// Streamed marks an asset backed by a live reader instead of an
	// in-memory buffer.
	Streamed
)

func (k ContentKind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Buffered:
		return "buffered"
	case Streamed:
		return "streamed"
	default:
		return "unknown"
	}
}

// FileStat carries the subset of file metadata the pipeline preserves.
type FileStat struct {
	ModTime    time.Time
	AccessTime time.Time
	ChangeTime time.Time
	Size       int64
}

// Asset is one unit of work flowing through the pipeline: a path, a
// payload and its metadata. Transforms mutate assets in place.
type Asset struct {
	// Path is the asset identifier, usually absolute. Transforms may
	// rewrite it (typically just the extension).
	Path string

	// Contents holds the payload when Kind is Buffered.
	Contents []byte

	// Kind is the payload representation, fixed at ingress.
	Kind ContentKind

	// Reader is set only when Kind is Streamed.
	Reader io.Reader

	// SourceMapRequested signals that provenance tracking is active for
	// this run.
	SourceMapRequested bool

	// Stat is optional modification-time metadata, updated by transforms
	// that rewrite contents.
	Stat *FileStat

	// SourceMap is populated by transforms when provenance tracking is
	// active. Kept as an opaque slot so the pipeline does not depend on
	// any particular map representation.
	SourceMap any
}

// Ext returns the path extension including the dot, or "" when absent.
func (a *Asset) Ext() string {
	return filepath.Ext(a.Path)
}

// Dir returns the directory component of the asset path.
func (a *Asset) Dir() string {
	return filepath.Dir(a.Path)
}

// Base returns the file name component of the asset path.
func (a *Asset) Base() string {
	return filepath.Base(a.Path)
}

// RenameExt rewrites the path extension to ext (which must include the
// dot). A path without an extension gets ext appended.
func (a *Asset) RenameExt(ext string) {
	a.Path = strings.TrimSuffix(a.Path, filepath.Ext(a.Path)) + ext
}

// StampNow sets all stat times to the current instant. No-op when the
// asset carries no stat metadata.
func (a *Asset) StampNow() {
	if a.Stat == nil {
		return
	}
	now := time.Now()
	a.Stat.ModTime = now
	a.Stat.AccessTime = now
	a.Stat.ChangeTime = now
}
