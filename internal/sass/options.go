package sass

// Mode selects which of the two compiler entry points a run uses. It is
// fixed for the lifetime of one engine instance.
type Mode int

const (
	// ModeAsync uses the non-blocking entry point. This is the default.
	ModeAsync Mode = iota
	// ModeSync uses the blocking entry point.
	ModeSync
)

func (m Mode) String() string {
	switch m {
	case ModeAsync:
		return "async"
	case ModeSync:
		return "sync"
	default:
		return "unknown"
	}
}

// Syntax is the stylesheet dialect handed to the compiler.
type Syntax int

const (
	// SyntaxSCSS is the nested default dialect.
	SyntaxSCSS Syntax = iota
	// SyntaxIndented is the whitespace-sensitive dialect (.sass files).
	SyntaxIndented
	// SyntaxCSS is plain CSS passthrough (.css files).
	SyntaxCSS
)

func (s Syntax) String() string {
	switch s {
	case SyntaxIndented:
		return "indented"
	case SyntaxCSS:
		return "css"
	default:
		return "scss"
	}
}

// Importer is a custom resolution hook, passed through to the compiler
// untouched. Its concrete type is defined by the compiler in use.
type Importer any

// Function is a named callable extension, passed through to the compiler
// untouched like Importer.
type Function any

// Options is the user-supplied configuration for one run. Everything but
// Mode and IncludePaths is forwarded to the compiler verbatim.
type Options struct {
	// Mode picks the compiler entry point for the whole run.
	Mode Mode

	// IncludePaths are directories searched for imports. Each asset's own
	// directory is always searched first.
	IncludePaths []string

	// Importers are opaque custom resolution hooks.
	Importers []Importer

	// Functions are opaque named extensions, keyed by signature.
	Functions map[string]Function

	// OutputStyle names the compiler output style (expanded, compressed,
	// ...). Empty means the compiler default.
	OutputStyle string

	// Raw holds any further compiler-native options, forwarded unchanged.
	Raw map[string]any
}

// ResolvedOptions is the per-asset option set actually handed to the
// compiler, produced by BuildArgs.
type ResolvedOptions struct {
	// File is the synthetic source identifier, derived from the asset
	// path.
	File string

	// Syntax is the dialect resolved from the asset extension.
	Syntax Syntax

	// SourceMap and SourceMapContents mirror the asset's provenance flag:
	// either both set or both clear.
	SourceMap         bool
	SourceMapContents bool

	// IncludePaths is the de-duplicated search list, asset directory
	// first.
	IncludePaths []string

	Importers   []Importer
	Functions   map[string]Function
	OutputStyle string
	Raw         map[string]any
}
