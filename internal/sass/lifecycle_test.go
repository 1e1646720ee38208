package sass

import (
	"errors"
	"testing"
)

func TestLifecycleActivate(t *testing.T) {
	for _, mode := range []Mode{ModeSync, ModeAsync} {
		t.Run(mode.String(), func(t *testing.T) {
			f := &fakeFactory{compiler: &fakeCompiler{}}
			lc := NewLifecycle(mode)

			if lc.State() != StateUninitialized {
				t.Fatalf("initial state = %s, want %s", lc.State(), StateUninitialized)
			}
			if lc.Allocated() {
				t.Fatal("Allocated() = true before activation")
			}

			if err := lc.Activate(f); err != nil {
				t.Fatalf("Activate() error: %v", err)
			}
			if lc.State() != StateReady {
				t.Errorf("state = %s, want %s", lc.State(), StateReady)
			}
			if !lc.Allocated() {
				t.Error("Allocated() = false after activation")
			}
			if f.news != 1 {
				t.Errorf("factory invoked %d times, want 1", f.news)
			}
		})
	}
}

func TestLifecycleActivateTwice(t *testing.T) {
	f := &fakeFactory{compiler: &fakeCompiler{}}
	lc := NewLifecycle(ModeSync)

	if err := lc.Activate(f); err != nil {
		t.Fatalf("first Activate() error: %v", err)
	}
	if err := lc.Activate(f); err == nil {
		t.Error("second Activate() succeeded, want transition error")
	}
	if f.news != 1 {
		t.Errorf("factory invoked %d times, want 1", f.news)
	}
}

func TestLifecycleFactoryFailure(t *testing.T) {
	boom := errors.New("no binary")
	for _, mode := range []Mode{ModeSync, ModeAsync} {
		t.Run(mode.String(), func(t *testing.T) {
			f := &fakeFactory{err: boom}
			lc := NewLifecycle(mode)

			err := lc.Activate(f)
			if !errors.Is(err, boom) {
				t.Fatalf("Activate() error = %v, want wrapped %v", err, boom)
			}
			if lc.State() != StateFailed {
				t.Errorf("state = %s, want %s", lc.State(), StateFailed)
			}
			if lc.Allocated() {
				t.Error("Allocated() = true after failed activation")
			}
		})
	}
}

func TestLifecycleDispose(t *testing.T) {
	for _, mode := range []Mode{ModeSync, ModeAsync} {
		t.Run(mode.String(), func(t *testing.T) {
			c := &fakeCompiler{}
			lc := NewLifecycle(mode)
			if err := lc.Activate(&fakeFactory{compiler: c}); err != nil {
				t.Fatalf("Activate() error: %v", err)
			}

			if err := lc.Dispose(); err != nil {
				t.Fatalf("Dispose() error: %v", err)
			}
			if lc.State() != StateDisposed {
				t.Errorf("state = %s, want %s", lc.State(), StateDisposed)
			}
			if c.disposed != 1 {
				t.Errorf("handle disposed %d times, want 1", c.disposed)
			}

			// A second dispose has nothing to release.
			if err := lc.Dispose(); err != nil {
				t.Errorf("second Dispose() error: %v", err)
			}
			if c.disposed != 1 {
				t.Errorf("handle disposed %d times after second call, want 1", c.disposed)
			}
		})
	}
}

func TestLifecycleDisposeBeforeActivate(t *testing.T) {
	lc := NewLifecycle(ModeSync)
	if err := lc.Dispose(); err != nil {
		t.Errorf("Dispose() before activation error: %v", err)
	}
	if lc.State() != StateUninitialized {
		t.Errorf("state = %s, want %s", lc.State(), StateUninitialized)
	}
}

func TestLifecycleDisposeFailure(t *testing.T) {
	boom := errors.New("release failed")
	c := &fakeCompiler{disposeErr: boom}
	lc := NewLifecycle(ModeSync)
	if err := lc.Activate(&fakeFactory{compiler: c}); err != nil {
		t.Fatalf("Activate() error: %v", err)
	}

	err := lc.Dispose()
	if !errors.Is(err, boom) {
		t.Fatalf("Dispose() error = %v, want wrapped %v", err, boom)
	}
	if lc.State() != StateFailed {
		t.Errorf("state = %s, want %s", lc.State(), StateFailed)
	}
}

func TestLifecycleCompileNotReady(t *testing.T) {
	lc := NewLifecycle(ModeSync)
	if _, err := lc.Compile("a{}", ResolvedOptions{}); err == nil {
		t.Error("Compile() before activation succeeded, want error")
	}
}
