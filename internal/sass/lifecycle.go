package sass

import "fmt"

// LifecycleState is the compiler resource state within one run.
type LifecycleState string

const (
	StateUninitialized LifecycleState = "UNINITIALIZED"
	StateInitializing  LifecycleState = "INITIALIZING"
	StateReady         LifecycleState = "READY"
	StateDisposing     LifecycleState = "DISPOSING"
	StateDisposed      LifecycleState = "DISPOSED"
	StateFailed        LifecycleState = "FAILED"
)

// Lifecycle owns the single compiler handle for one run: it activates the
// handle once at stream open, routes compile calls through the entry
// point matching the configured mode, and disposes the handle exactly
// once at teardown.
//
// Access is serialized by the engine's one-asset-at-a-time contract, so
// no locking is needed.
type Lifecycle struct {
	mode   Mode
	state  LifecycleState
	handle Compiler
}

// NewLifecycle returns an unactivated lifecycle. The mode is fixed for
// the lifetime of the value.
func NewLifecycle(mode Mode) *Lifecycle {
	return &Lifecycle{mode: mode, state: StateUninitialized}
}

// State returns the current lifecycle state. Read-only introspection;
// control flow must not branch on it.
func (l *Lifecycle) State() LifecycleState { return l.state }

// Mode returns the configured compile mode.
func (l *Lifecycle) Mode() Mode { return l.mode }

// Allocated reports whether a handle is presently held and ready. Used
// for observability and tests.
func (l *Lifecycle) Allocated() bool {
	return l.state == StateReady && l.handle != nil
}

func (l *Lifecycle) transition(to LifecycleState) error {
	if !allowedTransition(l.state, to) {
		return fmt.Errorf("disallowed lifecycle transition: %s -> %s", l.state, to)
	}
	l.state = to
	return nil
}

func allowedTransition(from, to LifecycleState) bool {
	switch from {
	case StateUninitialized:
		return to == StateInitializing
	case StateInitializing:
		return to == StateReady || to == StateFailed
	case StateReady:
		return to == StateDisposing
	case StateDisposing:
		return to == StateDisposed || to == StateFailed
	default:
		return false
	}
}

// Activate constructs the compiler handle through the factory entry point
// matching the mode. It may be called exactly once, during stream open,
// never per asset. In async mode the call suspends until the factory
// settles.
func (l *Lifecycle) Activate(f Factory) error {
	if err := l.transition(StateInitializing); err != nil {
		return err
	}

	var handle Compiler
	var err error
	switch l.mode {
	case ModeSync:
		handle, err = f.NewSync()
	default:
		res := <-f.NewAsync()
		handle, err = res.Compiler, res.Err
	}
	if err != nil {
		l.state = StateFailed
		return fmt.Errorf("initializing compiler: %w", err)
	}

	l.handle = handle
	return l.transition(StateReady)
}

// Compile routes one compile call through the entry point matching the
// mode. In async mode the call suspends until the compiler settles; no
// other compile is started meanwhile.
func (l *Lifecycle) Compile(source string, opts ResolvedOptions) (*Result, error) {
	if l.state != StateReady {
		return nil, fmt.Errorf("compiler not ready (state %s)", l.state)
	}
	switch l.mode {
	case ModeSync:
		return l.handle.Compile(source, opts)
	default:
		out := <-l.handle.CompileAsync(source, opts)
		return out.Result, out.Err
	}
}

// Dispose releases the handle. A lifecycle that never reached Ready has
// nothing to release and returns nil, so teardown can call Dispose
// unconditionally. A dispose failure moves the lifecycle to Failed but
// still completes teardown; the error is returned for reporting.
func (l *Lifecycle) Dispose() error {
	if l.state != StateReady {
		return nil
	}
	if err := l.transition(StateDisposing); err != nil {
		return err
	}

	var err error
	switch l.mode {
	case ModeSync:
		err = l.handle.Dispose()
	default:
		err = <-l.handle.DisposeAsync()
	}
	l.handle = nil
	if err != nil {
		l.state = StateFailed
		return fmt.Errorf("disposing compiler: %w", err)
	}
	return l.transition(StateDisposed)
}
