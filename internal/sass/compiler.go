// Package sass is the streaming compile core: it routes pipeline assets
// through a long-lived external compiler handle, rewriting each asset in
// place while preserving arrival order.
package sass

import "github.com/btouchard/sasspipe/internal/sourcemaps"

// Result is one successful compilation. Map is present only when the
// resolved options asked for provenance.
type Result struct {
	CSS []byte
	Map *sourcemaps.Map
}

// CompileOutcome is the settled value of a non-blocking compile call.
type CompileOutcome struct {
	Result *Result
	Err    error
}

// FactoryResult is the settled value of a non-blocking factory call.
type FactoryResult struct {
	Compiler Compiler
	Err      error
}

// Compiler is one live compiler handle. A handle is expensive to build
// and cheap to reuse, so the engine holds exactly one for a whole run.
// The blocking and non-blocking entry points are symmetric: same inputs,
// same outputs, one settles on the calling goroutine, one on a channel.
//
// A handle is owned by a single engine and is never called concurrently.
type Compiler interface {
	Compile(source string, opts ResolvedOptions) (*Result, error)
	CompileAsync(source string, opts ResolvedOptions) <-chan CompileOutcome
	Dispose() error
	DisposeAsync() <-chan error
}

// Factory constructs compiler handles, one per run, in either mode.
type Factory interface {
	NewSync() (Compiler, error)
	NewAsync() <-chan FactoryResult
}
