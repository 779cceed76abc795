//go:build android && cgo

package platformloop

import (
	"errors"
	"sync"
	"unsafe"
)

// Run binds entry to a new root component and hands polling to the Java
// MainLoop class, through the JavaVM vm (a *JavaVM, e.g. from JNI_OnLoad).
//
// It registers the native poll_all method, calls MainLoop.start(), and
// returns: the Android main looper then polls the runtime every 16ms on the
// UI thread. Failures to register or start are returned as *PlatformError,
// before any poll. The loop runs until [Stop], a poll failure, or, with
// [WithStopOnCompletion], the end of the root task.
//
// The root component is new(C); if *C implements [Mounter], it is mounted
// before entry runs. Only one loop may run per process; the slot is held
// until Stop, even after a poll failure ended the host chain. The JavaVM is
// recorded for [VMExec], and stays recorded after Stop.
func Run[C any](vm unsafe.Pointer, entry Entry[C], opts ...Option) error {
	if entry == nil {
		return ErrNilEntry
	}
	cfg, err := resolveOptions(opts)
	if err != nil {
		return err
	}

	host, err := newJNIHost(vm, cfg.hostClass)
	if err != nil {
		return err
	}
	if !claimActive(nil) {
		return ErrAlreadyRunning
	}
	javaVM.Store(host)

	driver := newJniBridgeDriver(host, cfg)
	rt := bind(entry, new(C), cfg)

	if err := driver.Start(rt); err != nil {
		rt.Close()
		releaseActive()
		return err
	}

	setActiveStop(sync.OnceFunc(func() {
		driver.RequestStop()
		driver.Uninstall()
		rt.Close()
		releaseActive()
	}))

	cfg.logger.Debug().
		Str("runtime_id", rt.ID().String()).
		Str("host_class", cfg.hostClass).
		Log("runtime handed to host loop")

	return nil
}

// VMExec runs fn with the JNIEnv (a *JNIEnv) of the calling thread, attaching
// the thread to the JavaVM recorded by [Run] for the duration of the call if
// it is not attached already. fn must not retain env.
//
// Before Run it returns a *PlatformError wrapping [ErrNoJavaVM]. Errors
// returned by fn are passed through.
func VMExec(fn func(env unsafe.Pointer) error) error {
	if fn == nil {
		return errors.New("platformloop: nil function")
	}
	host := javaVM.Load()
	if host == nil {
		return platformError("attach java vm", ErrNoJavaVM)
	}
	return host.exec(fn)
}
