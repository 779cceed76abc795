package platformloop

import "sync"

// active tracks the one loop a process may run at a time.
var active struct {
	stop func()
	mu   sync.Mutex
	busy bool
}

// claimActive marks a loop as running, registering its stop function. It
// reports false if another loop already runs.
func claimActive(stop func()) bool {
	active.mu.Lock()
	defer active.mu.Unlock()
	if active.busy {
		return false
	}
	active.busy = true
	active.stop = stop
	return true
}

// setActiveStop registers the stop function of a loop claimed with a nil one,
// once it is ready to be stopped.
func setActiveStop(stop func()) {
	active.mu.Lock()
	defer active.mu.Unlock()
	if active.busy {
		active.stop = stop
	}
}

func releaseActive() {
	active.mu.Lock()
	defer active.mu.Unlock()
	active.busy = false
	active.stop = nil
}

// Running reports whether a loop started by Run is active in this process.
func Running() bool {
	active.mu.Lock()
	defer active.mu.Unlock()
	return active.busy
}

// Stop requests the active loop, if any, to stop. Like the drivers' stop
// requests it is level-triggered: safe from any goroutine, any number of
// times. On Android, a loop still being set up by Run ignores it.
//
// Stop does not wait for the loop's thread: a poll already in flight may
// finish after Stop returns. On Android the runtime is closed by Stop itself,
// so that last poll runs against a closed runtime.
func Stop() {
	active.mu.Lock()
	stop := active.stop
	active.mu.Unlock()
	if stop != nil {
		stop()
	}
}
