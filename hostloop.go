package platformloop

import (
	"errors"
	"time"

	"github.com/joeycumines/logiface"
)

// Handler posts callbacks onto a host UI thread's message queue, like
// android.os.Handler bound to the main Looper. Callbacks run serially on
// that one thread.
type Handler interface {
	Post(fn func())
	PostDelayed(fn func(), delay time.Duration)
}

// HostLoop is the host-side scheduling object of the bridge protocol, the
// Go counterpart of the Java MainLoop class shipped with this module.
//
// Start posts a self-rescheduling callback: each fire, while running, calls
// poll and re-posts itself after the interval. The host's own main loop stays
// free to process UI and lifecycle events between fires. Stop clears the
// running flag, and the chain ends at its next fire, so shutdown latency is
// bounded by one interval.
//
// All methods must be called on the handler's thread. That single-thread
// rule is what makes the unsynchronized running flag correct; see
// [LocalHost] for calls from elsewhere.
type HostLoop struct {
	handler  Handler
	poll     func()
	logger   *logiface.Logger[logiface.Event]
	interval time.Duration
	// generation retires the pending callback of a previous chain, so a
	// Stop then Start within one interval never leaves two chains.
	generation uint64
	running    bool
}

// NewHostLoop returns a stopped HostLoop calling poll on handler's thread.
func NewHostLoop(handler Handler, poll func(), opts ...Option) (*HostLoop, error) {
	if handler == nil || poll == nil {
		return nil, errors.New("platformloop: nil handler or poll function")
	}
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	return &HostLoop{
		handler:  handler,
		poll:     poll,
		logger:   cfg.logger,
		interval: cfg.interval(DefaultHostInterval),
	}, nil
}

// Start begins the polling chain. It does nothing if already running.
func (h *HostLoop) Start() {
	if h.running {
		return
	}
	h.logger.Info().
		Str("driver", "host-loop").
		Dur("interval", h.interval).
		Log("starting main loop")
	h.running = true
	h.generation++
	gen := h.generation

	var step func()
	step = func() {
		if !h.running || h.generation != gen {
			return
		}
		h.poll()
		h.handler.PostDelayed(step, h.interval)
	}
	h.handler.Post(step)
}

// Stop ends the polling chain at its next fire.
func (h *HostLoop) Stop() {
	if !h.running {
		return
	}
	h.logger.Info().
		Str("driver", "host-loop").
		Log("stopping main loop")
	h.running = false
}

// Running reports whether the chain is active.
func (h *HostLoop) Running() bool {
	return h.running
}

// Interval returns the re-post delay.
func (h *HostLoop) Interval() time.Duration {
	return h.interval
}

// LocalHost adapts a [HostLoop] to the [Host] interface, for running the
// bridge without a JVM. Start and Stop are marshalled onto the handler's
// thread, so they are safe to call from any goroutine.
type LocalHost struct {
	handler Handler
	loop    *HostLoop
}

// NewLocalHost returns a Host whose poll entry point is [PollAll].
func NewLocalHost(handler Handler, opts ...Option) (*LocalHost, error) {
	loop, err := NewHostLoop(handler, PollAll, opts...)
	if err != nil {
		return nil, err
	}
	return &LocalHost{handler: handler, loop: loop}, nil
}

// Loop returns the underlying HostLoop.
func (h *LocalHost) Loop() *HostLoop {
	return h.loop
}

// Register implements Host. The poll entry point is bound at construction.
func (h *LocalHost) Register(string) error {
	return nil
}

// Start implements Host.
func (h *LocalHost) Start() error {
	h.handler.Post(h.loop.Start)
	return nil
}

// Stop implements Host.
func (h *LocalHost) Stop() error {
	h.handler.Post(h.loop.Stop)
	return nil
}
