// Package sourcemaps holds the provenance map representation and the
// applier that merges a compiler-produced map into a pipeline asset.
package sourcemaps

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/btouchard/sasspipe/internal/pipeline"
)

// Map is a standard v3 sourcemap.
type Map struct {
	Version        int      `json:"version"`
	File           string   `json:"file,omitempty"`
	SourceRoot     string   `json:"sourceRoot,omitempty"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// Parse decodes a raw JSON sourcemap as emitted by a compiler.
func Parse(data []byte) (*Map, error) {
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding sourcemap: %w", err)
	}
	return &m, nil
}

// Apply merges a compiler-produced map into the asset, mutating both in
// place. The map's File field is defaulted from the asset's current
// (post-rename) path, deliberately reduced to its base name: the sidecar
// is written next to the output file, and an absolute path would break
// as soon as the tree moves. Source entries are likewise made relative
// to the asset's directory.
func Apply(a *pipeline.Asset, m *Map) error {
	if a == nil || m == nil {
		return nil
	}
	if m.Version == 0 {
		m.Version = 3
	}
	if m.File == "" {
		m.File = filepath.Base(a.Path)
	}
	for i, src := range m.Sources {
		if !filepath.IsAbs(src) {
			continue
		}
		rel, err := filepath.Rel(a.Dir(), src)
		if err != nil {
			return fmt.Errorf("relativizing source %q: %w", src, err)
		}
		m.Sources[i] = filepath.ToSlash(rel)
	}
	a.SourceMap = m
	return nil
}
