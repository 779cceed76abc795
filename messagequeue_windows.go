//go:build windows

package platformloop

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	pmRemove = 0x0001
	wmQuit   = 0x0012
)

var (
	modUser32            = windows.NewLazySystemDLL("user32.dll")
	procPeekMessageW     = modUser32.NewProc("PeekMessageW")
	procTranslateMessage = modUser32.NewProc("TranslateMessage")
	procDispatchMessageW = modUser32.NewProc("DispatchMessageW")
)

// win32Msg mirrors the Win32 MSG structure.
type win32Msg struct {
	Hwnd     windows.HWND
	Message  uint32
	WParam   uintptr
	LParam   uintptr
	Time     uint32
	Pt       struct{ X, Y int32 }
	LPrivate uint32
}

// win32Queue is the calling thread's Win32 message queue.
//
// PeekMessageW is used instead of GetMessageW, because the latter blocks
// until a message arrives, which would stall the runtime.
type win32Queue struct{}

// newWin32Queue resolves the user32 procedures the pump needs.
func newWin32Queue() (*win32Queue, error) {
	for _, proc := range [...]*windows.LazyProc{
		procPeekMessageW,
		procTranslateMessage,
		procDispatchMessageW,
	} {
		if err := proc.Find(); err != nil {
			return nil, platformError("load "+proc.Name, err)
		}
	}
	return &win32Queue{}, nil
}

// Peek implements MessageQueue.
func (win32Queue) Peek() (Message, bool) {
	m := new(win32Msg)
	r, _, _ := procPeekMessageW.Call(uintptr(unsafe.Pointer(m)), 0, 0, 0, pmRemove)
	if r == 0 {
		return Message{}, false
	}
	return Message{
		Native: m,
		Param:  m.WParam,
		ID:     m.Message,
		Quit:   m.Message == wmQuit,
	}, true
}

// Dispatch implements MessageQueue.
func (win32Queue) Dispatch(msg Message) {
	m, ok := msg.Native.(*win32Msg)
	if !ok {
		return
	}
	_, _, _ = procTranslateMessage.Call(uintptr(unsafe.Pointer(m)))
	_, _, _ = procDispatchMessageW.Call(uintptr(unsafe.Pointer(m)))
}
