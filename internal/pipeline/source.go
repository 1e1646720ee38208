package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DirSource collects stylesheet assets from a directory tree. The walk is
// lexical, so the asset order is deterministic for a given tree.
type DirSource struct {
	// Root is the directory to walk.
	Root string

	// Extensions limits which files become assets. Defaults to
	// .scss, .sass and .css when empty.
	Extensions []string

	// SourceMaps marks every produced asset as wanting provenance
	// tracking.
	SourceMaps bool
}

var defaultExtensions = []string{".scss", ".sass", ".css"}

// Assets walks the root and returns one buffered asset per matching file.
// The payload kind is decided here, at ingress: regular files are read
// into memory and tagged Buffered.
func (s *DirSource) Assets() ([]*Asset, error) {
	exts := s.Extensions
	if len(exts) == 0 {
		exts = defaultExtensions
	}

	root, err := filepath.Abs(s.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving source root: %w", err)
	}

	var assets []*Asset
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !matchesExt(path, exts) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}

		assets = append(assets, &Asset{
			Path:               path,
			Contents:           data,
			Kind:               Buffered,
			SourceMapRequested: s.SourceMaps,
			Stat: &FileStat{
				ModTime: info.ModTime(),
				Size:    info.Size(),
			},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return assets, nil
}

func matchesExt(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
