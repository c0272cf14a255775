//go:build windows
// +build windows

package input

import (
	"fmt"
	"syscall"
)

var (
	user32           = syscall.NewLazyDLL("user32.dll")
	procSetCursorPos = user32.NewProc("SetCursorPos")
	procMouseEvent   = user32.NewProc("mouse_event")
)

const (
	mouseEventLeftDown   = 0x0002
	mouseEventLeftUp     = 0x0004
	mouseEventRightDown  = 0x0008
	mouseEventRightUp    = 0x0010
	mouseEventMiddleDown = 0x0020
	mouseEventMiddleUp   = 0x0040
)

// SystemPointer injects pointer events through the user32 API
type SystemPointer struct{}

// NewSystemPointer returns the native pointer injector
func NewSystemPointer() (Pointer, error) {
	return &SystemPointer{}, nil
}

// MoveAbsolute moves the cursor to absolute screen coordinates
func (p *SystemPointer) MoveAbsolute(x, y int) error {
	ret, _, err := procSetCursorPos.Call(uintptr(x), uintptr(y))
	if ret == 0 {
		return fmt.Errorf("SetCursorPos(%d, %d) failed: %v", x, y, err)
	}
	return nil
}

// ButtonPress presses a pointer button at the current cursor position
func (p *SystemPointer) ButtonPress(b Button) error {
	return p.sendButton(b, true)
}

// ButtonRelease releases a pointer button at the current cursor position
func (p *SystemPointer) ButtonRelease(b Button) error {
	return p.sendButton(b, false)
}

func (p *SystemPointer) sendButton(b Button, down bool) error {
	var flag uintptr
	switch b {
	case ButtonLeft:
		if down {
			flag = mouseEventLeftDown
		} else {
			flag = mouseEventLeftUp
		}
	case ButtonRight:
		if down {
			flag = mouseEventRightDown
		} else {
			flag = mouseEventRightUp
		}
	case ButtonMiddle:
		if down {
			flag = mouseEventMiddleDown
		} else {
			flag = mouseEventMiddleUp
		}
	default:
		return fmt.Errorf("unknown button %d", b)
	}

	_, _, err := procMouseEvent.Call(flag, 0, 0, 0, 0)
	if err != nil && err != syscall.Errno(0) {
		return fmt.Errorf("mouse_event(0x%x) failed: %v", flag, err)
	}
	return nil
}
