package platformloop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOptions_Defaults(t *testing.T) {
	cfg, err := resolveOptions(nil)
	require.NoError(t, err)

	assert.Nil(t, cfg.logger)
	assert.Equal(t, DefaultHostClass, cfg.hostClass)
	assert.Equal(t, DefaultNativeMethod, cfg.nativeMethod)
	assert.Equal(t, DefaultYieldInterval, cfg.yieldInterval)
	assert.Zero(t, cfg.pollInterval)
	assert.False(t, cfg.stopOnCompletion, "default keeps polling after the root task ends")
	assert.True(t, cfg.threadCheck)
	assert.True(t, cfg.application)

	assert.Equal(t, DefaultRunLoopInterval, cfg.interval(DefaultRunLoopInterval))
	assert.Equal(t, DefaultHostInterval, cfg.interval(DefaultHostInterval))
}

func TestResolveOptions_Custom(t *testing.T) {
	logger, _ := newTestLogger()

	cfg, err := resolveOptions([]Option{
		WithLogger(logger),
		nil,
		WithPollInterval(5 * time.Millisecond),
		WithYieldInterval(0),
		WithStopOnCompletion(true),
		WithThreadCheck(false),
		WithApplication(false),
		WithHostClass("com/example/Loop"),
		WithNativeMethod("tick"),
	})
	require.NoError(t, err)

	assert.Same(t, logger, cfg.logger)
	assert.Equal(t, 5*time.Millisecond, cfg.interval(DefaultRunLoopInterval))
	assert.Zero(t, cfg.yieldInterval)
	assert.True(t, cfg.stopOnCompletion)
	assert.False(t, cfg.threadCheck)
	assert.False(t, cfg.application)
	assert.Equal(t, "com/example/Loop", cfg.hostClass)
	assert.Equal(t, "tick", cfg.nativeMethod)
}

func TestResolveOptions_Invalid(t *testing.T) {
	for name, opt := range map[string]Option{
		"negative poll interval":  WithPollInterval(-time.Millisecond),
		"negative yield interval": WithYieldInterval(-time.Millisecond),
		"empty host class":        WithHostClass(""),
		"empty native method":     WithNativeMethod(""),
	} {
		t.Run(name, func(t *testing.T) {
			cfg, err := resolveOptions([]Option{opt})
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestResolveOptions_LastWins(t *testing.T) {
	cfg, err := resolveOptions([]Option{
		WithStopOnCompletion(true),
		WithStopOnCompletion(false),
	})
	require.NoError(t, err)
	assert.False(t, cfg.stopOnCompletion)
}
