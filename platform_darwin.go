//go:build darwin && cgo

package platformloop

import "context"

func newPlatformDriver(ctx context.Context, cfg *loopOptions) (Driver, error) {
	return newRunLoopTimerDriver(newCocoaRunLoop(cfg.application), cfg).withContext(ctx), nil
}
