//go:build linux

package platformloop

import "golang.org/x/sys/unix"

// currentThread returns the kernel thread id. On android, JNI callbacks from
// the UI thread arrive on fresh goroutines, so only the tid is stable.
func currentThread() uint64 {
	return uint64(unix.Gettid())
}
