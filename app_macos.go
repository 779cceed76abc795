//go:build darwin && !ios && cgo

package platformloop

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa
#import <Cocoa/Cocoa.h>

static void platformloop_app_run(void) {
	@autoreleasepool {
		[NSApplication sharedApplication];
		[NSApp setActivationPolicy:NSApplicationActivationPolicyRegular];
		[NSApp activateIgnoringOtherApps:YES];
		[NSApp run];
	}
}

static void platformloop_app_stop(void) {
	[NSApp stop:nil];
	// stop: only takes effect after the next event, so post one
	NSEvent *event = [NSEvent otherEventWithType:NSEventTypeApplicationDefined
		location:NSMakePoint(0, 0)
		modifierFlags:0
		timestamp:0
		windowNumber:0
		context:nil
		subtype:0
		data1:0
		data2:0];
	[NSApp postEvent:event atStart:YES];
}
*/
import "C"

const haveApplication = true

func appRun() {
	C.platformloop_app_run()
}

func appStop() {
	C.platformloop_app_stop()
}
