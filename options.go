package platformloop

import (
	"errors"
	"time"

	"github.com/joeycumines/logiface"
)

// Default cadences, matching the native hosts this package integrates with.
const (
	// DefaultRunLoopInterval is the period of the Cocoa run loop timer.
	DefaultRunLoopInterval = 10 * time.Millisecond
	// DefaultHostInterval is the Android MainLoop re-post delay (~60Hz).
	DefaultHostInterval = 16 * time.Millisecond
	// DefaultYieldInterval is how long the message pump sleeps on an empty queue.
	DefaultYieldInterval = time.Millisecond
	// DefaultHostClass is the JNI name of the Java scheduling object.
	DefaultHostClass = "io/github/joeycumines/platformloop/MainLoop"
	// DefaultNativeMethod is the name the poll entry point is registered under.
	DefaultNativeMethod = "poll_all"
)

// loopOptions holds configuration shared by Run, Bind and the drivers.
type loopOptions struct {
	logger           *logiface.Logger[logiface.Event]
	hostClass        string
	nativeMethod     string
	pollInterval     time.Duration // 0 selects the driver's default
	yieldInterval    time.Duration
	stopOnCompletion bool
	threadCheck      bool
	application      bool
}

// Option configures Run, Bind, or a driver.
type Option interface {
	apply(*loopOptions) error
}

// optionImpl implements Option.
type optionImpl struct {
	applyFunc func(*loopOptions) error
}

func (o *optionImpl) apply(opts *loopOptions) error {
	return o.applyFunc(opts)
}

// WithLogger sets the structured logger. A nil logger disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(opts *loopOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithPollInterval sets the polling cadence of timer-driven loops: the run
// loop timer period, or the Android re-post delay. Zero selects the default
// for the driver.
func WithPollInterval(d time.Duration) Option {
	return &optionImpl{func(opts *loopOptions) error {
		if d < 0 {
			return errors.New("platformloop: negative poll interval")
		}
		opts.pollInterval = d
		return nil
	}}
}

// WithYieldInterval sets how long the message pump sleeps after an iteration
// that retrieved no message. Zero yields the processor without sleeping.
func WithYieldInterval(d time.Duration) Option {
	return &optionImpl{func(opts *loopOptions) error {
		if d < 0 {
			return errors.New("platformloop: negative yield interval")
		}
		opts.yieldInterval = d
		return nil
	}}
}

// WithStopOnCompletion sets whether the loop stops once the root task ends.
// By default (false) the loop keeps polling until explicitly stopped, since
// desktop and mobile apps keep reacting to host events after the entry
// function returns.
func WithStopOnCompletion(enabled bool) Option {
	return &optionImpl{func(opts *loopOptions) error {
		opts.stopOnCompletion = enabled
		return nil
	}}
}

// WithThreadCheck sets whether drivers verify, before each poll, that they
// run on the thread that owns the runtime. Enabled by default.
func WithThreadCheck(enabled bool) Option {
	return &optionImpl{func(opts *loopOptions) error {
		opts.threadCheck = enabled
		return nil
	}}
}

// WithApplication sets whether the macOS driver enters the NSApplication
// event cycle (true, the default) or only runs the main CFRunLoop.
// Ignored on other platforms.
func WithApplication(enabled bool) Option {
	return &optionImpl{func(opts *loopOptions) error {
		opts.application = enabled
		return nil
	}}
}

// WithHostClass sets the JNI class name (slash separated) of the Java
// scheduling object. Android only.
func WithHostClass(name string) Option {
	return &optionImpl{func(opts *loopOptions) error {
		if name == "" {
			return errors.New("platformloop: empty host class")
		}
		opts.hostClass = name
		return nil
	}}
}

// WithNativeMethod sets the name the poll entry point is registered under on
// the host class. Android only.
func WithNativeMethod(name string) Option {
	return &optionImpl{func(opts *loopOptions) error {
		if name == "" {
			return errors.New("platformloop: empty native method")
		}
		opts.nativeMethod = name
		return nil
	}}
}

// resolveOptions applies Option instances over the defaults.
func resolveOptions(opts []Option) (*loopOptions, error) {
	cfg := &loopOptions{
		hostClass:     DefaultHostClass,
		nativeMethod:  DefaultNativeMethod,
		yieldInterval: DefaultYieldInterval,
		threadCheck:   true,
		application:   true,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// interval returns the configured poll interval, or def.
func (o *loopOptions) interval(def time.Duration) time.Duration {
	if o.pollInterval > 0 {
		return o.pollInterval
	}
	return def
}
