//go:build darwin && cgo

package platformloop

/*
#cgo LDFLAGS: -framework CoreFoundation
#include <CoreFoundation/CoreFoundation.h>
#include <pthread.h>
#include <stdint.h>

extern void platformloopTimerFired(uintptr_t handle);

static void platformloop_timer_callback(CFRunLoopTimerRef timer, void *info) {
	platformloopTimerFired((uintptr_t)info);
}

// CF refs cross into Go as uintptr_t, cgo maps CFTypeRef types to uintptr anyway.
static uintptr_t platformloop_timer_create(double interval, uintptr_t handle) {
	CFRunLoopTimerContext ctx = {0, (void *)handle, NULL, NULL, NULL};
	CFRunLoopTimerRef timer = CFRunLoopTimerCreate(kCFAllocatorDefault,
		CFAbsoluteTimeGetCurrent() + interval, interval, 0, 0,
		platformloop_timer_callback, &ctx);
	if (timer == NULL) {
		return 0;
	}
	CFRunLoopAddTimer(CFRunLoopGetMain(), timer, kCFRunLoopCommonModes);
	return (uintptr_t)timer;
}

static void platformloop_timer_invalidate(uintptr_t timer) {
	CFRunLoopTimerInvalidate((CFRunLoopTimerRef)timer);
	CFRelease((CFRunLoopTimerRef)timer);
}

static int platformloop_is_main_thread(void) {
	return pthread_main_np();
}

static void platformloop_runloop_run(void) {
	CFRunLoopRun();
}

static void platformloop_runloop_stop(void) {
	CFRunLoopStop(CFRunLoopGetMain());
}
*/
import "C"

import (
	"errors"
	"runtime"
	"runtime/cgo"
	"time"
)

// Cocoa only delivers main run loop events to the process main thread, and
// the main goroutine starts there. Keep it there.
func init() {
	runtime.LockOSThread()
}

// cocoaRunLoop is the main CFRunLoop, optionally entered through
// NSApplication (macOS only, see app_macos.go).
type cocoaRunLoop struct {
	application bool
}

type cocoaTimer struct {
	fire   func()
	ref    C.uintptr_t
	handle cgo.Handle
}

func newCocoaRunLoop(application bool) *cocoaRunLoop {
	return &cocoaRunLoop{application: application && haveApplication}
}

// Schedule implements RunLoop.
func (l *cocoaRunLoop) Schedule(interval time.Duration, fire func()) (Timer, error) {
	if C.platformloop_is_main_thread() == 0 {
		return nil, ErrNotMainThread
	}
	t := &cocoaTimer{fire: fire}
	t.handle = cgo.NewHandle(t)
	t.ref = C.platformloop_timer_create(C.double(interval.Seconds()), C.uintptr_t(t.handle))
	if t.ref == 0 {
		t.handle.Delete()
		return nil, errors.New("CFRunLoopTimerCreate returned NULL")
	}
	return t, nil
}

// Run implements RunLoop.
func (l *cocoaRunLoop) Run() error {
	if C.platformloop_is_main_thread() == 0 {
		return ErrNotMainThread
	}
	if l.application {
		appRun()
	} else {
		C.platformloop_runloop_run()
	}
	return nil
}

// Stop implements RunLoop.
func (l *cocoaRunLoop) Stop() {
	if l.application {
		appStop()
	} else {
		C.platformloop_runloop_stop()
	}
}

// Invalidate implements Timer.
func (t *cocoaTimer) Invalidate() {
	if t.ref == 0 {
		return
	}
	C.platformloop_timer_invalidate(t.ref)
	t.ref = 0
	t.handle.Delete()
}

// Valid implements Timer.
func (t *cocoaTimer) Valid() bool {
	return t.ref != 0
}

//export platformloopTimerFired
func platformloopTimerFired(handle C.uintptr_t) {
	t := cgo.Handle(handle).Value().(*cocoaTimer)
	if t.Valid() {
		t.fire()
	}
}
