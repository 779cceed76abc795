package platformloop

import (
	"context"
	"runtime"
	"time"

	"github.com/joeycumines/logiface"
)

// RunLoop is a native run loop that owns the calling (main) thread.
type RunLoop interface {
	// Schedule adds a repeating timer, calling fire on the loop thread every
	// interval. The first fire happens one interval after scheduling.
	Schedule(interval time.Duration, fire func()) (Timer, error)
	// Run blocks, processing native events and timers, until Stop is called
	// or the OS tears the loop down.
	Run() error
	// Stop makes Run return. It is called on the loop thread.
	Stop()
}

// Timer is a timer registered on a [RunLoop].
type Timer interface {
	// Invalidate removes the timer from its run loop. Idempotent.
	Invalidate()
	// Valid reports whether the timer is still scheduled.
	Valid() bool
}

// RunLoopTimerDriver polls a runtime from a repeating run loop timer, the
// Cocoa idiom: every fire performs exactly one poll, and the run loop keeps
// dispatching native events in between.
//
// Stop requests take effect at the next fire, which invalidates the timer
// and stops the run loop from the loop thread itself. The same happens,
// timer first, when a poll fails, so no callback can fire into a runtime
// that is being torn down.
type RunLoopTimerDriver struct {
	loop     RunLoop
	ctx      context.Context
	logger   *logiface.Logger[logiface.Event]
	timer    Timer
	err      error
	step     pollStep
	guard    threadGuard
	state    runFlag
	interval time.Duration
	opts     *loopOptions
}

// NewRunLoopTimerDriver returns a driver scheduling its timer on loop.
func NewRunLoopTimerDriver(loop RunLoop, opts ...Option) (*RunLoopTimerDriver, error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	return newRunLoopTimerDriver(loop, cfg), nil
}

func newRunLoopTimerDriver(loop RunLoop, cfg *loopOptions) *RunLoopTimerDriver {
	return &RunLoopTimerDriver{
		loop:     loop,
		ctx:      context.Background(),
		logger:   cfg.logger,
		interval: cfg.interval(DefaultRunLoopInterval),
		opts:     cfg,
	}
}

// withContext makes the driver treat ctx cancellation as a stop request.
func (d *RunLoopTimerDriver) withContext(ctx context.Context) *RunLoopTimerDriver {
	d.ctx = ctx
	return d
}

// Interval returns the timer period.
func (d *RunLoopTimerDriver) Interval() time.Duration {
	return d.interval
}

// State returns the driver's running state.
func (d *RunLoopTimerDriver) State() RunState {
	return d.state.Load()
}

// Start schedules the poll timer and runs the run loop, blocking until it
// is stopped.
func (d *RunLoopTimerDriver) Start(rt RuntimeHandle) error {
	if !d.state.TryStart() {
		d.logger.Debug().
			Str("driver", "run-loop").
			Log("already running")
		return nil
	}
	defer d.state.Done()

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	d.guard.Bind()
	defer d.guard.Release()

	d.err = nil
	d.step = pollStep{
		rt:               rt,
		guard:            &d.guard,
		logger:           d.logger,
		driver:           "run-loop",
		stopOnCompletion: d.opts.stopOnCompletion,
		threadCheck:      d.opts.threadCheck,
	}

	timer, err := d.loop.Schedule(d.interval, d.fire)
	if err != nil {
		err = platformError("create timer", err)
		d.logger.Err().
			Str("driver", "run-loop").
			Err(err).
			Log("timer creation failed")
		return err
	}
	d.timer = timer

	d.logger.Info().
		Str("driver", "run-loop").
		Dur("interval", d.interval).
		Log("loop started")

	runErr := d.loop.Run()

	// the OS may end the run loop without a fire having torn it down
	d.timer.Invalidate()

	d.logger.Info().
		Str("driver", "run-loop").
		Log("loop stopped")

	if d.err != nil {
		return d.err
	}
	return runErr
}

// fire is the timer callback, running on the loop thread.
func (d *RunLoopTimerDriver) fire() {
	if !d.timer.Valid() {
		return
	}
	if !d.state.Running() || d.ctx.Err() != nil {
		d.teardown()
		return
	}

	stop, err := d.step.run()
	if err != nil {
		d.err = err
	}
	if stop || !d.state.Running() {
		d.teardown()
	}
}

// teardown invalidates the timer before stopping the loop.
func (d *RunLoopTimerDriver) teardown() {
	d.timer.Invalidate()
	d.loop.Stop()
}

// RequestStop ends the loop at the next timer fire.
func (d *RunLoopTimerDriver) RequestStop() {
	if d.state.RequestStop() {
		d.logger.Debug().
			Str("driver", "run-loop").
			Log("stop requested")
	}
}
