//go:build !windows
// +build !windows

package input

// NewSystemPointer reports that this host has no pointer injection support.
// Callers downgrade to a NoopPointer and log-only dispatch.
func NewSystemPointer() (Pointer, error) {
	return nil, ErrUnsupported
}
