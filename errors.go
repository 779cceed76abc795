package platformloop

import (
	"errors"
	"fmt"
)

// Standard errors.
var (
	// ErrAlreadyRunning is returned by Run when another loop is active in this process.
	ErrAlreadyRunning = errors.New("platformloop: a loop is already running")

	// ErrWrongThread is returned when a poll is attempted from a thread other than the loop's owner.
	ErrWrongThread = errors.New("platformloop: runtime polled from a foreign thread")

	// ErrNotMainThread is returned by Cocoa drivers started off the process main thread.
	ErrNotMainThread = errors.New("platformloop: must run on the main thread")

	// ErrNilEntry is returned by Run when the entry function is nil.
	ErrNilEntry = errors.New("platformloop: nil entry function")

	// ErrNoJavaVM is returned by VMExec before Run has recorded the JavaVM (Android only).
	ErrNoJavaVM = errors.New("platformloop: no java vm recorded")
)

// PlatformError reports a native facility that could not be set up, e.g. the
// run loop timer, the Win32 message procedures, or the JNI native method
// registration. It is always fatal: no poll happened, and none will.
type PlatformError struct {
	Err error
	Op  string
}

// Error implements the error interface.
func (e *PlatformError) Error() string {
	if e.Err == nil {
		return "platformloop: " + e.Op
	}
	return fmt.Sprintf("platformloop: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause for use with [errors.Is] and [errors.As].
func (e *PlatformError) Unwrap() error {
	return e.Err
}

// PanicError wraps a panic that escaped the executor during a poll.
type PanicError struct {
	Value any
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("platformloop: runtime panic: %v", e.Value)
}

// Unwrap returns the panic value if it is an error, otherwise nil.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func platformError(op string, err error) error {
	return &PlatformError{Op: op, Err: err}
}
