//go:build !(android && cgo)

package platformloop

import (
	"context"
)

// Run binds entry to a new root component and drives it from the
// platform's native event loop, blocking until the loop terminates:
//   - Windows: until WM_QUIT is received
//   - macOS, iOS: until the run loop (or NSApplication) is stopped
//   - elsewhere: until stopped, via a portable timer loop
//
// The loop also stops on ctx cancellation, on [Stop], on a poll failure
// (returned), and, with [WithStopOnCompletion], once the root task ends.
// On macOS and iOS, Run must be called from the main goroutine.
//
// The root component is new(C); if *C implements [Mounter], it is mounted
// before entry runs. Only one loop may run per process: a concurrent call
// returns ErrAlreadyRunning.
func Run[C any](ctx context.Context, entry Entry[C], opts ...Option) error {
	if entry == nil {
		return ErrNilEntry
	}
	cfg, err := resolveOptions(opts)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if !claimActive(cancel) {
		return ErrAlreadyRunning
	}
	defer releaseActive()

	driver, err := newPlatformDriver(ctx, cfg)
	if err != nil {
		cfg.logger.Err().
			Err(err).
			Log("platform driver unavailable")
		return err
	}

	rt := bind(entry, new(C), cfg)
	defer rt.Close()

	cfg.logger.Debug().
		Str("runtime_id", rt.ID().String()).
		Log("runtime bound")

	return driver.Start(rt)
}
