package input

import "errors"

// Button identifies a pointer button
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// ErrUnsupported is returned by NewSystemPointer on hosts without a pointer
// injection mechanism.
var ErrUnsupported = errors.New("pointer injection not supported on this platform")

// Pointer drives synthetic pointer actions. Exactly three primitives; the
// dispatcher composes everything else (wiggle, hover, click) from them.
type Pointer interface {
	MoveAbsolute(x, y int) error
	ButtonPress(b Button) error
	ButtonRelease(b Button) error
}

// NoopPointer satisfies Pointer without touching the host. Selected when
// injection is unavailable or action is not allowed.
type NoopPointer struct{}

func (NoopPointer) MoveAbsolute(x, y int) error { return nil }

func (NoopPointer) ButtonPress(b Button) error { return nil }

func (NoopPointer) ButtonRelease(b Button) error { return nil }
