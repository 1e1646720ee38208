package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileSink writes compiled assets under an output directory, mirroring
// their layout relative to the source root.
type FileSink struct {
	// Root is the source root asset paths are made relative to.
	Root string

	// OutDir is the destination directory.
	OutDir string
}

// Write persists one asset. Assets with an attached sourcemap also get a
// <name>.map sidecar next to the output file.
func (s *FileSink) Write(a *Asset) error {
	root, err := filepath.Abs(s.Root)
	if err != nil {
		return fmt.Errorf("resolving sink root: %w", err)
	}
	rel, err := filepath.Rel(root, a.Path)
	if err != nil {
		return fmt.Errorf("relativizing %s: %w", a.Path, err)
	}

	dest := filepath.Join(s.OutDir, rel)
	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(dest, a.Contents, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}

	if a.SourceMap != nil {
		data, err := json.Marshal(a.SourceMap)
		if err != nil {
			return fmt.Errorf("encoding sourcemap for %s: %w", dest, err)
		}
		if err := os.WriteFile(dest+".map", data, 0644); err != nil {
			return fmt.Errorf("writing %s.map: %w", dest, err)
		}
	}
	return nil
}
