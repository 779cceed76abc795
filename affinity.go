package platformloop

import (
	"runtime"
	"sync/atomic"
)

// threadGuard records which thread owns a runtime.
//
// The token comes from currentThread, which is an OS thread id where the
// platform exposes one cheaply, and a goroutine id otherwise. Drivers lock
// their goroutine to its OS thread, so either identifies the owner.
type threadGuard struct {
	owner atomic.Uint64
}

// Bind makes the calling thread the owner.
func (g *threadGuard) Bind() {
	g.owner.Store(currentThread())
}

// Claim makes the calling thread the owner if there is none yet, reporting
// whether the caller is (now) the owner.
func (g *threadGuard) Claim() bool {
	id := currentThread()
	if g.owner.CompareAndSwap(0, id) {
		return true
	}
	return g.owner.Load() == id
}

// Release clears the owner.
func (g *threadGuard) Release() {
	g.owner.Store(0)
}

// Check returns ErrWrongThread unless the calling thread is the owner, or
// there is no owner.
func (g *threadGuard) Check() error {
	owner := g.owner.Load()
	if owner == 0 || owner == currentThread() {
		return nil
	}
	return ErrWrongThread
}

// getGoroutineID returns the current goroutine's ID.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] >= '0' && buf[i] <= '9' {
			id = id*10 + uint64(buf[i]-'0')
		} else {
			break
		}
	}
	return id
}
