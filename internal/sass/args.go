package sass

import "github.com/btouchard/sasspipe/internal/pipeline"

const (
	extIndented = ".sass"
	extCSS      = ".css"

	// OutputExt is the extension every compiled asset ends up with,
	// regardless of input dialect.
	OutputExt = ".css"

	// partialPrefix marks include-only files that are never compiled
	// standalone.
	partialPrefix = "_"
)

// IsPartial reports whether the asset follows the include-only naming
// convention (base name prefixed with an underscore).
func IsPartial(a *pipeline.Asset) bool {
	return a != nil && len(a.Base()) > 0 && a.Base()[:1] == partialPrefix
}

// BuildArgs derives the exact compiler call for one asset: the source
// text and the fully resolved option set. It is a pure function; neither
// the asset nor the caller options are mutated.
//
// A nil asset yields empty source text and an empty include list.
func BuildArgs(a *pipeline.Asset, opts Options) (string, ResolvedOptions) {
	res := ResolvedOptions{
		Importers:   opts.Importers,
		Functions:   opts.Functions,
		OutputStyle: opts.OutputStyle,
		Raw:         opts.Raw,
	}
	if a == nil {
		return "", res
	}

	res.File = a.Path
	res.Syntax = syntaxForExt(a.Ext())
	res.SourceMap = a.SourceMapRequested
	res.SourceMapContents = a.SourceMapRequested
	res.IncludePaths = dedupePaths(a.Dir(), opts.IncludePaths)

	return string(a.Contents), res
}

// syntaxForExt maps a file extension to a dialect. Unknown and missing
// extensions compile as SCSS.
func syntaxForExt(ext string) Syntax {
	switch ext {
	case extIndented:
		return SyntaxIndented
	case extCSS:
		return SyntaxCSS
	default:
		return SyntaxSCSS
	}
}

// dedupePaths builds the search list: the asset directory first, then the
// caller paths, first occurrence winning, empty entries dropped.
func dedupePaths(assetDir string, paths []string) []string {
	seen := make(map[string]bool, len(paths)+1)
	out := make([]string, 0, len(paths)+1)
	for _, p := range append([]string{assetDir}, paths...) {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
