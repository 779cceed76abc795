package platformloop

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// onOtherThread runs fn on a goroutine locked to a thread other than the
// caller's, which must itself be locked.
func onOtherThread(fn func()) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		fn()
	}()
	<-done
}

func TestThreadGuard_NoOwner(t *testing.T) {
	var g threadGuard
	assert.NoError(t, g.Check())
	onOtherThread(func() {
		assert.NoError(t, g.Check())
	})
}

func TestThreadGuard_ForeignThread(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var g threadGuard
	g.Bind()
	require.NoError(t, g.Check())

	var err error
	onOtherThread(func() {
		err = g.Check()
	})
	assert.ErrorIs(t, err, ErrWrongThread)

	g.Release()
	onOtherThread(func() {
		err = g.Check()
	})
	assert.NoError(t, err)
}

func TestThreadGuard_Claim(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var g threadGuard
	assert.True(t, g.Claim(), "first caller becomes the owner")
	assert.True(t, g.Claim(), "owner claims again")

	var claimed bool
	onOtherThread(func() {
		claimed = g.Claim()
	})
	assert.False(t, claimed)

	g.Release()
	onOtherThread(func() {
		claimed = g.Claim()
	})
	assert.True(t, claimed)
	assert.False(t, g.Claim(), "ownership moved")
}

func TestGetGoroutineID(t *testing.T) {
	id := getGoroutineID()
	assert.NotZero(t, id)
	assert.Equal(t, id, getGoroutineID())

	other := make(chan uint64)
	go func() { other <- getGoroutineID() }()
	assert.NotEqual(t, id, <-other)
}
