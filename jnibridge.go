package platformloop

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/joeycumines/go-catrate"
	"github.com/joeycumines/logiface"
)

// Host is the host-language side of the bridge: a per-process scheduling
// object that, once started, repeatedly calls the registered native poll
// entry point from its UI thread. The JNI implementation calls the static
// methods of the Java MainLoop class.
type Host interface {
	// Register binds the native poll entry point ([PollAll]) to method.
	Register(method string) error
	// Start tells the host to begin its polling chain. Idempotent.
	Start() error
	// Stop tells the host to end its polling chain. Idempotent.
	Stop() error
}

// bridgeSlot is the runtime the host polls. There is at most one per
// process, because the host scheduling object is a process singleton.
type bridgeSlot struct {
	host   Host
	id     uint64
	logger *logiface.Logger[logiface.Event]
	step   pollStep
	guard  threadGuard
	check  bool
}

var (
	bridge  atomic.Pointer[bridgeSlot]
	slotIDs atomic.Uint64
)

// offThreadLogs limits the crit log of skipped off-thread polls, per
// installed runtime, keyed by slot id. A misbehaving host may hit it every
// frame.
var offThreadLogs = catrate.NewLimiter(map[time.Duration]int{
	time.Second: 1,
	time.Minute: 10,
})

// JniBridgeDriver polls a runtime from a host-side scheduling chain, the
// Android idiom. Start returns immediately: the host's main loop drives
// polling afterwards, by calling [PollAll] on its UI thread.
type JniBridgeDriver struct {
	host   Host
	logger *logiface.Logger[logiface.Event]
	opts   *loopOptions
}

// NewJniBridgeDriver returns a driver for host.
func NewJniBridgeDriver(host Host, opts ...Option) (*JniBridgeDriver, error) {
	if host == nil {
		return nil, errors.New("platformloop: nil host")
	}
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	return newJniBridgeDriver(host, cfg), nil
}

func newJniBridgeDriver(host Host, cfg *loopOptions) *JniBridgeDriver {
	return &JniBridgeDriver{
		host:   host,
		logger: cfg.logger,
		opts:   cfg,
	}
}

// Start installs rt as the process-wide runtime, registers the native poll
// entry point, and starts the host chain. Registration or start failures
// uninstall rt and are returned as *PlatformError, before any poll.
//
// If rt is already installed, Start only restarts the host chain. If another
// runtime is installed, Start does nothing.
func (d *JniBridgeDriver) Start(rt RuntimeHandle) error {
	slot := &bridgeSlot{
		host:   d.host,
		id:     slotIDs.Add(1),
		logger: d.logger,
		check:  d.opts.threadCheck,
	}
	slot.step = pollStep{
		rt:               rt,
		guard:            &slot.guard,
		logger:           d.logger,
		driver:           "jni-bridge",
		stopOnCompletion: d.opts.stopOnCompletion,
		// PollAll claims the guard itself
		threadCheck: false,
	}

	if !bridge.CompareAndSwap(nil, slot) {
		if current := bridge.Load(); current != nil && current.step.rt == rt {
			return d.startHost(current)
		}
		d.logger.Debug().
			Str("driver", "jni-bridge").
			Log("already running")
		return nil
	}

	if err := d.host.Register(d.opts.nativeMethod); err != nil {
		bridge.CompareAndSwap(slot, nil)
		err = platformError("register native methods", err)
		d.logger.Err().
			Str("driver", "jni-bridge").
			Str("method", d.opts.nativeMethod).
			Err(err).
			Log("registration failed")
		return err
	}

	return d.startHost(slot)
}

func (d *JniBridgeDriver) startHost(slot *bridgeSlot) error {
	if err := d.host.Start(); err != nil {
		bridge.CompareAndSwap(slot, nil)
		err = platformError("start host loop", err)
		d.logger.Err().
			Str("driver", "jni-bridge").
			Err(err).
			Log("host start failed")
		return err
	}
	d.logger.Info().
		Str("driver", "jni-bridge").
		Log("host loop started")
	return nil
}

// RequestStop tells the host to end its chain. The runtime stays installed,
// so a later Start resumes polling it.
func (d *JniBridgeDriver) RequestStop() {
	if err := d.host.Stop(); err != nil {
		d.logger.Err().
			Str("driver", "jni-bridge").
			Err(err).
			Log("host stop failed")
		return
	}
	d.logger.Debug().
		Str("driver", "jni-bridge").
		Log("stop requested")
}

// Uninstall removes the process-wide runtime installed by this driver's
// host, after which [PollAll] does nothing.
func (d *JniBridgeDriver) Uninstall() {
	if slot := bridge.Load(); slot != nil && slot.host == d.host {
		bridge.CompareAndSwap(slot, nil)
	}
}

// PollAll is the native poll entry point of the bridge: it polls the
// process-wide runtime exactly once.
//
// It must only be called serially from the host UI thread; the host chain
// guarantees that by construction. Without an installed runtime (e.g. before
// Start) it does nothing. With thread checking enabled, the first calling
// thread becomes the owner, and calls from other threads are skipped, with a
// rate limited log. A poll failure uninstalls the runtime and stops the host.
func PollAll() {
	slot := bridge.Load()
	if slot == nil {
		return
	}

	if slot.check && !slot.guard.Claim() {
		if _, ok := offThreadLogs.Allow(slot.id); ok {
			slot.logger.Crit().
				Str("driver", "jni-bridge").
				Err(ErrWrongThread).
				Log("poll_all called off the UI thread, skipped")
		}
		return
	}

	stop, err := slot.step.run()
	if err != nil {
		bridge.CompareAndSwap(slot, nil)
	}
	if stop {
		if err := slot.host.Stop(); err != nil {
			slot.logger.Err().
				Str("driver", "jni-bridge").
				Err(err).
				Log("host stop failed")
		}
	}
}
