package platformloop

import (
	"runtime"
	"testing"

	"github.com/joeycumines/logiface"
	"github.com/stretchr/testify/assert"
)

func TestPollStep_ForeignThread(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	logger, sink := newTestLogger()
	var guard threadGuard
	guard.Bind()

	rt := &fakeRuntime{}
	step := pollStep{
		rt:          rt,
		guard:       &guard,
		logger:      logger,
		driver:      "test",
		threadCheck: true,
	}

	stop, err := step.run()
	assert.False(t, stop)
	assert.NoError(t, err)

	onOtherThread(func() {
		stop, err = step.run()
	})
	assert.True(t, stop)
	assert.ErrorIs(t, err, ErrWrongThread)
	assert.Equal(t, 1, rt.Polls(), "the foreign poll never reached the runtime")
	assert.True(t, sink.has(logiface.LevelCritical, "poll from foreign thread"))

	step.threadCheck = false
	onOtherThread(func() {
		stop, err = step.run()
	})
	assert.False(t, stop)
	assert.NoError(t, err)
	assert.Equal(t, 2, rt.Polls())
}

func TestPollStep_Completion(t *testing.T) {
	rt := &fakeRuntime{doneAt: 1}
	step := pollStep{rt: rt, guard: &threadGuard{}, driver: "test"}

	stop, err := step.run()
	assert.False(t, stop)
	assert.NoError(t, err)

	step.stopOnCompletion = true
	stop, err = step.run()
	assert.True(t, stop)
	assert.NoError(t, err)
}

func TestPollStep_Error(t *testing.T) {
	rt := &fakeRuntime{failAt: 1}
	step := pollStep{rt: rt, guard: &threadGuard{}, driver: "test", stopOnCompletion: true}

	stop, err := step.run()
	assert.True(t, stop)
	assert.ErrorIs(t, err, errTestPoll)
}
