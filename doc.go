// Package platformloop drives a single-threaded cooperative async runtime
// from the native event loop of the host operating system.
//
// # Architecture
//
// A [Runtime] wraps an [async.Executor] (github.com/b97tsk/async) and the
// root component of an application. Its single operation, [Runtime.PollOnce],
// runs every ready coroutine until each one ends or suspends, then returns.
//
// A [Driver] decides when to poll, by integrating with the platform's own
// event delivery:
//   - Windows: [MessagePumpDriver], a non-blocking PeekMessage pump that
//     dispatches window messages and polls once per iteration
//   - macOS and iOS: [RunLoopTimerDriver], a repeating timer on the main run
//     loop (macOS additionally enters the NSApplication event cycle)
//   - Android: [JniBridgeDriver], a JNI bridge, where the Java MainLoop class
//     calls the native poll_all method from the UI thread every 16ms
//
// The driver is chosen at build time. [Run] is the composition root.
//
// # Thread Affinity
//
// The runtime is not safe for concurrent use. Exactly one OS thread polls it:
// the thread that called [Run] (Windows, macOS, iOS, and the portable
// fallback), or the Android UI thread. Drivers record the owning thread and,
// unless disabled with [WithThreadCheck], refuse to poll from any other
// thread. Breaking this invariant means unsynchronized access to every task
// running on the executor.
//
// Stop requests ([Driver.RequestStop], [Stop]) only set a flag, so they may
// be called from any goroutine, any number of times. The owning thread
// observes the flag at its next iteration or tick.
//
// # Usage
//
//	type app struct{ rt *platformloop.Runtime }
//
//	func (a *app) Mount(rt *platformloop.Runtime) { a.rt = rt }
//
//	func hello(root weak.Pointer[app]) async.Task {
//	    return async.Do(func() { fmt.Println("Hello, world!") })
//	}
//
//	func main() {
//	    if err := platformloop.Run(context.Background(), hello); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Java Interop
//
// On Android, Run records the process JavaVM. Components make their own JNI
// calls through VMExec, which attaches the calling thread for the duration
// of the call and passes it the thread's JNIEnv. VMExec called before Run
// fails with ErrNoJavaVM.
//
// # Error Types
//
//   - [PlatformError]: a native facility could not be set up, nothing polled
//   - [PanicError]: a coroutine panicked, the runtime is torn down
package platformloop
