//go:build !windows && !linux

package platformloop

// currentThread falls back to the goroutine id. Cocoa timer callbacks run on
// the goroutine that entered the run loop, so the id is stable there.
func currentThread() uint64 {
	return getGoroutineID()
}
