package engine

import "errors"

// Error taxonomy. Only ErrConfiguration blocks starting a run; every other
// condition degrades to "no action this cycle" and surfaces as a log line.
var (
	// ErrConfiguration marks an out-of-range config value. Fatal at Start.
	ErrConfiguration = errors.New("invalid engine configuration")

	// ErrAlreadyRunning is returned by Start while a run is in flight
	ErrAlreadyRunning = errors.New("engine is already running")

	// ErrCapture marks a transient frame capture failure
	ErrCapture = errors.New("frame capture failed")

	// ErrActionDispatch marks a rejected or failed pointer primitive
	ErrActionDispatch = errors.New("pointer action failed")

	// ErrUnsupportedCapability marks an action request on a host without
	// pointer injection; the dispatch downgrades to log-only.
	ErrUnsupportedCapability = errors.New("pointer injection unavailable on this host")
)
