package engine

import (
	"github.com/overlayassistant/overlay-go/internal/logging"
)

// Status is the engine run state reported to the hosting collaborator
type Status string

const (
	StatusStopped Status = "Stopped"
	StatusRunning Status = "Running"
)

// Sink receives log lines and status changes from the engine. It is the only
// channel from the core to the host; implementations must not block the
// worker.
type Sink interface {
	Log(line string)
	StatusChanged(status Status)
}

// NopSink discards everything
type NopSink struct{}

func (NopSink) Log(line string) {}

func (NopSink) StatusChanged(status Status) {}

// LoggerSink writes engine output to a component logger
type LoggerSink struct {
	log *logging.Logger
}

// NewLoggerSink wraps a logger as a sink
func NewLoggerSink(log *logging.Logger) *LoggerSink {
	return &LoggerSink{log: log}
}

func (s *LoggerSink) Log(line string) {
	s.log.Info(line)
}

func (s *LoggerSink) StatusChanged(status Status) {
	s.log.InfoWithContext("status changed", map[string]interface{}{"status": status})
}
