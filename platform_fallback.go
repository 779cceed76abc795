//go:build !windows && !(darwin && cgo) && !(android && cgo)

package platformloop

import "context"

// newPlatformDriver drives the runtime from a portable timer loop on the
// calling goroutine, with the same cadence and stop semantics as Cocoa.
func newPlatformDriver(ctx context.Context, cfg *loopOptions) (Driver, error) {
	return newRunLoopTimerDriver(newTickerRunLoop(), cfg).withContext(ctx), nil
}
