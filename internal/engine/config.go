package engine

import (
	"fmt"
	"time"

	"github.com/overlayassistant/overlay-go/internal/cv"
)

// Config is the immutable per-run engine configuration. It is snapshotted at
// Start; changes made by the host afterward do not affect the in-flight run.
type Config struct {
	// TemplateFolder is the directory of pattern images; empty or missing
	// yields an empty library and an idle run.
	TemplateFolder string

	// Region is the fixed screen region sampled each cycle
	Region cv.Region

	// ScaleFactor in (0, 1] reduces frame and template resolution before
	// correlation.
	ScaleFactor float64

	// ConfidenceThreshold in [0, 1] is the minimum correlation score that
	// counts as a match.
	ConfidenceThreshold float64

	// TargetFrequencyHz paces the detection cycle
	TargetFrequencyHz float64

	// TemplatesPerCycle bounds how many templates are correlated per cycle
	TemplatesPerCycle int

	// Cooldown is the minimum wait after a template fires before it may
	// fire again.
	Cooldown time.Duration

	// WigglePixels is the magnitude of the hover-wake pointer move
	WigglePixels int

	// HoverDelay is the pause between hover and click
	HoverDelay time.Duration

	// SimulateOnly logs matches without ever invoking pointer primitives,
	// regardless of any other flag.
	SimulateOnly bool

	// AllowAction must also be set before any real pointer action happens
	AllowAction bool
}

// Validate checks every value range. Any violation wraps ErrConfiguration
// and prevents the run from starting.
func (c Config) Validate() error {
	if c.ScaleFactor <= 0 || c.ScaleFactor > 1 {
		return fmt.Errorf("%w: scale factor %v outside (0, 1]", ErrConfiguration, c.ScaleFactor)
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("%w: confidence threshold %v outside [0, 1]", ErrConfiguration, c.ConfidenceThreshold)
	}
	if c.TargetFrequencyHz <= 0 {
		return fmt.Errorf("%w: target frequency %v must be positive", ErrConfiguration, c.TargetFrequencyHz)
	}
	if c.TemplatesPerCycle < 1 {
		return fmt.Errorf("%w: templates per cycle %d must be at least 1", ErrConfiguration, c.TemplatesPerCycle)
	}
	if c.Cooldown < 0 {
		return fmt.Errorf("%w: cooldown %v must not be negative", ErrConfiguration, c.Cooldown)
	}
	if c.WigglePixels < 0 {
		return fmt.Errorf("%w: wiggle %d must not be negative", ErrConfiguration, c.WigglePixels)
	}
	if c.HoverDelay < 0 {
		return fmt.Errorf("%w: hover delay %v must not be negative", ErrConfiguration, c.HoverDelay)
	}
	if c.Region.Empty() {
		return fmt.Errorf("%w: scan region %s has no area", ErrConfiguration, c.Region)
	}
	return nil
}

// CyclePeriod returns the pacing budget for one cycle
func (c Config) CyclePeriod() time.Duration {
	return time.Duration(float64(time.Second) / c.TargetFrequencyHz)
}
