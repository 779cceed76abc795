package platformloop

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/joeycumines/logiface"
)

// Message is one entry retrieved from a [MessageQueue].
type Message struct {
	// Native is the platform message, passed back to Dispatch untouched.
	Native any
	// Param is the message parameter; for the quit message, the exit code.
	Param uintptr
	// ID is the platform message identifier.
	ID uint32
	// Quit marks the queue's termination signal (WM_QUIT on Windows).
	Quit bool
}

// MessageQueue is the calling thread's native message queue.
type MessageQueue interface {
	// Peek removes and returns the next queued message, without blocking.
	// ok is false when the queue is empty.
	Peek() (msg Message, ok bool)
	// Dispatch translates and delivers msg to its destination.
	Dispatch(msg Message)
}

// MessagePumpDriver polls a runtime from a non-blocking message pump, the
// Win32 idiom. Message pump and runtime share the calling thread, so the
// runtime must not block, or it starves message dispatch.
//
// Each iteration:
//  1. returns if a stop was requested, or ctx is done
//  2. retrieves at most one message, without blocking
//  3. on the quit message, returns immediately, with no further poll
//  4. dispatches the message, then polls the runtime once
//  5. sleeps the yield interval if no message was retrieved
type MessagePumpDriver struct {
	queue    MessageQueue
	ctx      context.Context
	logger   *logiface.Logger[logiface.Event]
	guard    threadGuard
	state    runFlag
	exitCode atomic.Uintptr
	yield    time.Duration
	opts     *loopOptions
}

// NewMessagePumpDriver returns a driver pumping queue.
func NewMessagePumpDriver(queue MessageQueue, opts ...Option) (*MessagePumpDriver, error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	return newMessagePumpDriver(queue, cfg), nil
}

func newMessagePumpDriver(queue MessageQueue, cfg *loopOptions) *MessagePumpDriver {
	return &MessagePumpDriver{
		queue:  queue,
		ctx:    context.Background(),
		logger: cfg.logger,
		yield:  cfg.yieldInterval,
		opts:   cfg,
	}
}

// withContext makes the pump treat ctx cancellation as a stop request.
func (d *MessagePumpDriver) withContext(ctx context.Context) *MessagePumpDriver {
	d.ctx = ctx
	return d
}

// ExitCode returns the parameter of the last quit message.
func (d *MessagePumpDriver) ExitCode() int {
	return int(d.exitCode.Load())
}

// State returns the driver's running state.
func (d *MessagePumpDriver) State() RunState {
	return d.state.Load()
}

// Start pumps messages and polls rt on the calling thread, until the quit
// message arrives or a stop is requested.
func (d *MessagePumpDriver) Start(rt RuntimeHandle) error {
	if !d.state.TryStart() {
		d.logger.Debug().
			Str("driver", "message-pump").
			Log("already running")
		return nil
	}
	defer d.state.Done()

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	d.guard.Bind()
	defer d.guard.Release()

	step := pollStep{
		rt:               rt,
		guard:            &d.guard,
		logger:           d.logger,
		driver:           "message-pump",
		stopOnCompletion: d.opts.stopOnCompletion,
		threadCheck:      d.opts.threadCheck,
	}

	d.logger.Info().
		Str("driver", "message-pump").
		Dur("yield", d.yield).
		Log("loop started")
	defer d.logger.Info().
		Str("driver", "message-pump").
		Log("loop stopped")

	for {
		if !d.state.Running() {
			return nil
		}
		if err := d.ctx.Err(); err != nil {
			return nil
		}

		msg, ok := d.queue.Peek()
		if ok {
			if msg.Quit {
				d.exitCode.Store(msg.Param)
				d.logger.Info().
					Str("driver", "message-pump").
					Int("exit_code", int(msg.Param)).
					Log("quit message received")
				return nil
			}
			d.queue.Dispatch(msg)
		}

		stop, err := step.run()
		if err != nil {
			return err
		}
		if stop {
			return nil
		}

		if !ok {
			if d.yield > 0 {
				time.Sleep(d.yield)
			} else {
				runtime.Gosched()
			}
		}
	}
}

// RequestStop makes the pump return at its next iteration.
func (d *MessagePumpDriver) RequestStop() {
	if d.state.RequestStop() {
		d.logger.Debug().
			Str("driver", "message-pump").
			Log("stop requested")
	}
}
