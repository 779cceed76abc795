package platformloop

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlatformError(t *testing.T) {
	cause := errors.New("class not found")
	err := platformError("register native methods", cause)

	var pe *PlatformError
	assert.ErrorAs(t, err, &pe)
	assert.Equal(t, "register native methods", pe.Op)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "platformloop: register native methods: class not found", err.Error())

	assert.Equal(t, "platformloop: create timer", (&PlatformError{Op: "create timer"}).Error())
}

func TestPanicError(t *testing.T) {
	cause := errors.New("boom")
	err := &PanicError{Value: cause}
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "platformloop: runtime panic: boom", err.Error())

	err = &PanicError{Value: 42}
	assert.Nil(t, err.Unwrap())
	assert.Equal(t, "platformloop: runtime panic: 42", err.Error())
}
