// Package libsass adapts the wellington/go-libsass binding to the
// engine's two-mode compiler surface. One handle serves a whole run; the
// underlying binding builds its context per compile call, so the handle
// itself holds no C state and disposal is cheap.
package libsass

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	libsass "github.com/wellington/go-libsass"

	"github.com/btouchard/sasspipe/internal/sass"
	"github.com/btouchard/sasspipe/internal/sourcemaps"
)

var styles = map[string]int{
	"nested":     libsass.NESTED_STYLE,
	"expanded":   libsass.EXPANDED_STYLE,
	"compact":    libsass.COMPACT_STYLE,
	"compressed": libsass.COMPRESSED_STYLE,
}

// options builds an option slice for libsass.New. The binding's option
// type is unexported, so the element type is inferred here rather than
// named.
func options[T any](opts ...T) []T { return opts }

// Compiler implements sass.Compiler on top of libsass.
type Compiler struct {
	disposed bool
}

// Factory implements sass.Factory. Both entry points hand out the same
// handle type; only the delivery differs.
type Factory struct{}

func (Factory) NewSync() (sass.Compiler, error) {
	return &Compiler{}, nil
}

func (Factory) NewAsync() <-chan sass.FactoryResult {
	ch := make(chan sass.FactoryResult, 1)
	go func() {
		c, err := Factory{}.NewSync()
		ch <- sass.FactoryResult{Compiler: c, Err: err}
	}()
	return ch
}

// Compile runs one blocking libsass compilation.
func (c *Compiler) Compile(source string, opts sass.ResolvedOptions) (*sass.Result, error) {
	if c.disposed {
		return nil, fmt.Errorf("compiler already disposed")
	}

	args := options(libsass.IncludePaths(opts.IncludePaths))
	if opts.Syntax == sass.SyntaxIndented {
		args = append(args, libsass.WithSyntax(libsass.SassSyntax))
	}
	if style, ok := styles[opts.OutputStyle]; ok {
		args = append(args, libsass.OutputStyle(style))
	}

	// libsass writes the sourcemap to a file; capture it in a temp path
	// and read it back after the run.
	var mapPath string
	if opts.SourceMap {
		tmp, err := os.CreateTemp("", "sasspipe-*.css.map")
		if err != nil {
			return nil, &sass.CompileError{Message: fmt.Sprintf("creating sourcemap file: %v", err), File: opts.File}
		}
		mapPath = tmp.Name()
		_ = tmp.Close()
		defer func() { _ = os.Remove(mapPath) }()
		args = append(args, libsass.SourceMap(true, mapPath, ""))
	}

	var buf bytes.Buffer
	comp, err := libsass.New(&buf, strings.NewReader(source), args...)
	if err != nil {
		return nil, &sass.CompileError{Message: err.Error(), File: opts.File}
	}
	if err := comp.Run(); err != nil {
		return nil, &sass.CompileError{Message: err.Error(), File: opts.File}
	}

	var m *sourcemaps.Map
	if opts.SourceMap {
		data, err := os.ReadFile(mapPath)
		if err != nil {
			return nil, &sass.CompileError{Message: fmt.Sprintf("reading sourcemap: %v", err), File: opts.File}
		}
		m, err = sourcemaps.Parse(data)
		if err != nil {
			return nil, &sass.CompileError{Message: err.Error(), File: opts.File}
		}
	}
	return &sass.Result{CSS: buf.Bytes(), Map: m}, nil
}

// CompileAsync wraps Compile in a goroutine delivering on a channel.
func (c *Compiler) CompileAsync(source string, opts sass.ResolvedOptions) <-chan sass.CompileOutcome {
	ch := make(chan sass.CompileOutcome, 1)
	go func() {
		res, err := c.Compile(source, opts)
		ch <- sass.CompileOutcome{Result: res, Err: err}
	}()
	return ch
}

// Dispose releases the handle.
func (c *Compiler) Dispose() error {
	c.disposed = true
	return nil
}

// DisposeAsync mirrors Dispose on a channel.
func (c *Compiler) DisposeAsync() <-chan error {
	ch := make(chan error, 1)
	ch <- c.Dispose()
	return ch
}
