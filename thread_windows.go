//go:build windows

package platformloop

import "golang.org/x/sys/windows"

// currentThread returns the Win32 thread id. Message queues are per thread,
// so this is the identity that matters to the message pump.
func currentThread() uint64 {
	return uint64(windows.GetCurrentThreadId())
}
