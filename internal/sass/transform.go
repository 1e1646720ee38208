package sass

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/btouchard/sasspipe/internal/pipeline"
	"github.com/btouchard/sasspipe/internal/sourcemaps"
)

// RunState is the engine state over one run.
type RunState string

const (
	RunIdle      RunState = "IDLE"
	RunOpening   RunState = "OPENING"
	RunStreaming RunState = "STREAMING"
	RunClosing   RunState = "CLOSING"
	RunClosed    RunState = "CLOSED"
	RunAborted   RunState = "ABORTED"
)

// ErrStreamingNotSupported is the cause carried by the plugin error for
// assets backed by a live byte stream.
var ErrStreamingNotSupported = errors.New("streaming not supported")

// ApplyFunc merges a provenance map into an asset in place.
type ApplyFunc func(a *pipeline.Asset, m *sourcemaps.Map) error

// Engine is the streaming transform: it consumes assets strictly in
// arrival order, one in flight at a time, compiles them through a single
// long-lived compiler handle, and rewrites each asset in place. The
// handle is activated once at stream open and disposed exactly once at
// teardown, whatever the run's outcome.
//
// An Engine runs once; build a fresh one per run.
type Engine struct {
	// Name tags every error the engine raises.
	Name string

	// Apply merges compiler-produced sourcemaps into assets. Defaults to
	// sourcemaps.Apply.
	Apply ApplyFunc

	// Log receives dispose-failure reports and per-file debug output.
	Log *log.Logger

	opts    Options
	factory Factory
	lc      *Lifecycle
	state   RunState
}

// New returns an engine for one run with the given options and compiler
// factory.
func New(opts Options, factory Factory) *Engine {
	return &Engine{
		Name:    PluginName,
		Apply:   sourcemaps.Apply,
		Log:     log.Default(),
		opts:    opts,
		factory: factory,
		lc:      NewLifecycle(opts.Mode),
		state:   RunIdle,
	}
}

// Lifecycle exposes the compiler resource state for observability.
func (e *Engine) Lifecycle() *Lifecycle { return e.lc }

// State returns the engine's run state.
func (e *Engine) State() RunState { return e.state }

func (e *Engine) transition(to RunState) error {
	if !allowedRunTransition(e.state, to) {
		return fmt.Errorf("disallowed run transition: %s -> %s", e.state, to)
	}
	e.state = to
	return nil
}

func allowedRunTransition(from, to RunState) bool {
	switch from {
	case RunIdle:
		return to == RunOpening
	case RunOpening:
		return to == RunStreaming || to == RunAborted
	case RunStreaming:
		return to == RunClosing || to == RunAborted
	case RunClosing:
		return to == RunClosed || to == RunAborted
	default:
		return false
	}
}

// Run drives one run: activate the compiler, stream assets from in to
// out, dispose the compiler. out is closed before Run returns. The first
// failure aborts the run; disposal still happens exactly once.
//
// A dispose failure after an otherwise clean run is returned as the run
// error; after an aborted run it is logged, since the abort cause takes
// precedence.
func (e *Engine) Run(ctx context.Context, in <-chan *pipeline.Asset, out chan<- *pipeline.Asset) error {
	defer close(out)

	if err := e.transition(RunOpening); err != nil {
		return err
	}
	runErr := e.activate()

	if runErr == nil {
		_ = e.transition(RunStreaming)
		runErr = e.stream(ctx, in, out)
	}

	if runErr != nil {
		_ = e.transition(RunAborted)
	} else {
		_ = e.transition(RunClosing)
	}

	if derr := e.lc.Dispose(); derr != nil {
		perr := NewPluginError(e.Name, derr)
		if runErr == nil {
			runErr = perr
		} else {
			e.Log.Error("compiler dispose failed", "err", perr)
		}
	}

	if runErr == nil {
		_ = e.transition(RunClosed)
	} else if e.state == RunClosing {
		_ = e.transition(RunAborted)
	}
	return runErr
}

func (e *Engine) activate() error {
	if err := e.lc.Activate(e.factory); err != nil {
		return NewPluginError(e.Name, err)
	}
	return nil
}

func (e *Engine) stream(ctx context.Context, in <-chan *pipeline.Asset, out chan<- *pipeline.Asset) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case a, ok := <-in:
			if !ok {
				return nil
			}
			forward, err := e.process(a)
			if err != nil {
				return err
			}
			if !forward {
				continue
			}
			select {
			case out <- a:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// process handles one asset in place and reports whether it is forwarded
// downstream.
func (e *Engine) process(a *pipeline.Asset) (bool, error) {
	if a == nil {
		return false, nil
	}

	switch a.Kind {
	case pipeline.Empty:
		// Placeholder, nothing to compile.
		return true, nil
	case pipeline.Streamed:
		return false, NewPluginError(e.Name, ErrStreamingNotSupported)
	}

	if IsPartial(a) {
		// Include-only file, never compiled standalone, never emitted.
		return false, nil
	}

	if len(a.Contents) == 0 {
		a.RenameExt(OutputExt)
		return true, nil
	}

	source, opts := BuildArgs(a, e.opts)
	res, err := e.lc.Compile(source, opts)
	if err != nil {
		return false, e.compileError(err)
	}

	a.Contents = res.CSS
	a.RenameExt(OutputExt)
	a.StampNow()

	if res.Map != nil {
		if err := e.Apply(a, res.Map); err != nil {
			return false, NewPluginError(e.Name, fmt.Errorf("applying sourcemap: %w", err))
		}
	}

	e.Log.Debug("compiled", "file", a.Path, "bytes", len(a.Contents))
	return true, nil
}

func (e *Engine) compileError(err error) error {
	var ce *CompileError
	if !errors.As(err, &ce) {
		ce = &CompileError{Message: err.Error()}
	}
	Normalize(ce)

	perr := NewPluginError(e.Name, ce)
	perr.ShowProperties = false
	return perr
}
