//go:build ios && cgo

package platformloop

// iOS has no NSApplication layer, the run loop itself is the entry point.
const haveApplication = false

func appRun() {}

func appStop() {}
