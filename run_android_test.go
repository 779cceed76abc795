//go:build android && cgo

package platformloop

import (
	"errors"
	"testing"
	"unsafe"
	"weak"

	"github.com/b97tsk/async"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tests run without a JavaVM, so only the paths that never reach JNI are
// exercised here.

func resetJavaVM(t *testing.T) {
	t.Helper()
	prev := javaVM.Swap(nil)
	t.Cleanup(func() { javaVM.Store(prev) })
}

type mountRecorder struct {
	mounted bool
}

func (m *mountRecorder) Mount(*Runtime) {
	m.mounted = true
}

func TestVMExec_NoJavaVM(t *testing.T) {
	resetJavaVM(t)

	var called bool
	err := VMExec(func(unsafe.Pointer) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrNoJavaVM)
	var pe *PlatformError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "attach java vm", pe.Op)
	assert.False(t, called)
}

func TestVMExec_NilFunction(t *testing.T) {
	resetJavaVM(t)
	assert.Error(t, VMExec(nil))
}

func TestRun_AlreadyRunningBindsNothing(t *testing.T) {
	resetJavaVM(t)
	require.True(t, claimActive(func() {}))
	t.Cleanup(releaseActive)

	var (
		calls int
		seen  *mountRecorder
	)
	entry := func(root weak.Pointer[mountRecorder]) async.Task {
		calls++
		seen = root.Value()
		return nil
	}

	vm := unsafe.Pointer(new(uintptr))
	err := Run(vm, entry)
	assert.ErrorIs(t, err, ErrAlreadyRunning)
	assert.Zero(t, calls, "entry must not run for a rejected loop")
	assert.Nil(t, seen)
	assert.Nil(t, javaVM.Load(), "a rejected loop records no vm")
	assert.True(t, Running())
}

func TestRun_NilJavaVM(t *testing.T) {
	resetJavaVM(t)

	err := Run(nil, func(weak.Pointer[mountRecorder]) async.Task { return nil })
	var pe *PlatformError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "attach java vm", pe.Op)
	assert.False(t, Running())
}
