package platformloop

import (
	"runtime/debug"
	"sync/atomic"
	"weak"

	"github.com/b97tsk/async"
	"github.com/google/uuid"
	"github.com/joeycumines/logiface"
)

// RuntimeHandle is the poll entry point a [Driver] advances.
//
// Implementations must not block indefinitely in PollOnce, and are only
// ever called from one thread.
type RuntimeHandle interface {
	// PollOnce runs all ready work until each piece of it either completes
	// or suspends. A non-nil error is fatal to the runtime.
	PollOnce() error
	// Done reports whether the root task has completed.
	Done() bool
}

// Entry is the asynchronous entry function of an application. It receives
// a weak reference to the root component, which it must not upgrade for
// longer than it needs: the [Runtime] owns the component.
type Entry[C any] func(root weak.Pointer[C]) async.Task

// Mounter is implemented by root components that need the runtime, e.g. to
// spawn more coroutines or to await [Runtime.Tick]. Mount is called once,
// before the entry task is spawned.
type Mounter interface {
	Mount(rt *Runtime)
}

// Runtime binds an entry function and its root component to a fresh
// single-threaded executor. It implements [RuntimeHandle].
//
// A Runtime lives for exactly one [Run] call.
type Runtime struct {
	// Prevent copying
	_ [0]func()

	executor async.Executor
	tick     async.Signal
	root     any // strong reference, keeps the weak pointer valid
	logger   *logiface.Logger[logiface.Event]
	id       uuid.UUID
	polls    atomic.Uint64
	done     atomic.Bool
	closed   atomic.Bool
}

// Bind creates a Runtime owning root, and spawns entry(weak root) as its
// first coroutine. Nothing runs until the first PollOnce.
//
// A nil task returned by entry counts as an already completed root task.
func Bind[C any](entry Entry[C], root *C, opts ...Option) (*Runtime, error) {
	if entry == nil {
		return nil, ErrNilEntry
	}
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	return bind(entry, root, cfg), nil
}

func bind[C any](entry Entry[C], root *C, cfg *loopOptions) *Runtime {
	rt := &Runtime{
		root:   root,
		logger: cfg.logger,
		id:     uuid.New(),
	}

	if m, ok := any(root).(Mounter); ok {
		m.Mount(rt)
	}

	task := entry(weak.Make(root))
	if task == nil {
		rt.complete()
		return rt
	}

	rt.executor.Spawn(async.Func(func(co *async.Coroutine) async.Result {
		co.Defer(async.Do(rt.complete))
		return co.Transition(task)
	}))

	return rt
}

// ID identifies the runtime in log output.
func (rt *Runtime) ID() uuid.UUID {
	return rt.id
}

// Executor returns the executor the entry task runs on. Coroutines may be
// spawned from any goroutine; they run during the next poll.
func (rt *Runtime) Executor() *async.Executor {
	return &rt.executor
}

// Tick returns an event notified at the start of every poll after the first.
// Awaiting it resumes a coroutine exactly once per poll.
func (rt *Runtime) Tick() async.Event {
	return &rt.tick
}

// Polls returns the number of completed polls.
func (rt *Runtime) Polls() uint64 {
	return rt.polls.Load()
}

// Done reports whether the root task has completed.
func (rt *Runtime) Done() bool {
	return rt != nil && rt.done.Load()
}

// PollOnce runs every ready coroutine until it ends or suspends.
//
// PollOnce on a nil or closed Runtime is a no-op. A panic escaping a root
// coroutine closes the Runtime and is returned as a *PanicError.
func (rt *Runtime) PollOnce() (err error) {
	if rt == nil || rt.closed.Load() {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
			rt.Close()
			rt.logger.Err().
				Str("runtime_id", rt.id.String()).
				Err(err).
				Log("runtime panicked")
		}
	}()

	if rt.polls.Load() > 0 {
		rt.executor.Spawn(async.Do(rt.tick.Notify))
	}
	rt.executor.Run()
	rt.polls.Add(1)

	return nil
}

// Close tears the runtime down: later polls do nothing, and the root
// component is released.
func (rt *Runtime) Close() {
	if rt == nil || !rt.closed.CompareAndSwap(false, true) {
		return
	}
	rt.root = nil
}

func (rt *Runtime) complete() {
	if rt.done.CompareAndSwap(false, true) {
		rt.logger.Debug().
			Str("runtime_id", rt.id.String()).
			Uint64("polls", rt.polls.Load()).
			Log("root task completed")
	}
}
