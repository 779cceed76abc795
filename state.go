package platformloop

import (
	"sync/atomic"
)

// RunState is the state of a driver's running flag.
//
// State Machine:
//
//	StateStopped (0) → StateRunning (1)    [Start, via CAS]
//	StateRunning (1) → StateStopping (2)   [RequestStop, via CAS]
//	StateRunning (1) → StateStopped (0)    [loop exit]
//	StateStopping (2) → StateStopped (0)   [loop exit]
//
// Start is idempotent: a failed CAS from StateStopped means a chain is still
// active (possibly winding down), and the caller must not start a second one.
// RequestStop is level-triggered and may be repeated. Only the owning thread
// stores StateStopped, once its loop has actually returned.
type RunState uint32

const (
	// StateStopped indicates no polling chain is active.
	StateStopped RunState = 0
	// StateRunning indicates a polling chain is active.
	StateRunning RunState = 1
	// StateStopping indicates a stop was requested but the chain has not yet observed it.
	StateStopping RunState = 2
)

// String returns a human-readable representation of the state.
func (s RunState) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	default:
		return "Unknown"
	}
}

// runFlag is the running flag every driver carries.
//
// Transitions other than RequestStop happen on the owning thread, but
// RequestStop may arrive from a signal handler or a context watcher, so the
// value is atomic.
type runFlag struct {
	v atomic.Uint32
}

// Load returns the current state.
func (f *runFlag) Load() RunState {
	return RunState(f.v.Load())
}

// TryStart transitions Stopped → Running, reporting whether it did.
func (f *runFlag) TryStart() bool {
	return f.v.CompareAndSwap(uint32(StateStopped), uint32(StateRunning))
}

// RequestStop transitions Running → Stopping, reporting whether it did.
func (f *runFlag) RequestStop() bool {
	return f.v.CompareAndSwap(uint32(StateRunning), uint32(StateStopping))
}

// Done marks the chain as exited.
func (f *runFlag) Done() {
	f.v.Store(uint32(StateStopped))
}

// Running reports whether the chain should keep going.
func (f *runFlag) Running() bool {
	return f.Load() == StateRunning
}
