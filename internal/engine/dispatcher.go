package engine

import (
	"fmt"
	"time"

	"github.com/overlayassistant/overlay-go/internal/input"
	"github.com/overlayassistant/overlay-go/internal/logging"
	"github.com/overlayassistant/overlay-go/internal/templates"
)

// DispatchState tracks the dispatcher's position in its Idle -> Hovering ->
// Clicking -> Idle cycle.
type DispatchState int

const (
	DispatchIdle DispatchState = iota
	DispatchHovering
	DispatchClicking
)

// minButtonHold keeps press and release far enough apart that targets
// register the click.
const minButtonHold = 8 * time.Millisecond

// Dispatcher drives pointer move/press/release primitives at a mapped match
// coordinate, under the safety gate. A nil pointer capability downgrades
// every action request to log-only.
type Dispatcher struct {
	pointer input.Pointer
	log     *logging.Logger
	state   DispatchState

	// Injectable for tests
	sleep func(time.Duration)
}

// NewDispatcher creates a dispatcher. pointer may be nil on hosts without
// injection support.
func NewDispatcher(pointer input.Pointer, log *logging.Logger) *Dispatcher {
	return &Dispatcher{
		pointer: pointer,
		log:     log,
		state:   DispatchIdle,
		sleep:   time.Sleep,
	}
}

// State returns the current dispatch state
func (d *Dispatcher) State() DispatchState {
	return d.state
}

// Dispatch performs the action for a matched template at absolute screen
// coordinates (x, y) and advances the template's cooldown clock. The
// template's fire timestamp is written here and nowhere else.
//
// With SimulateOnly set no pointer primitive is ever invoked, regardless of
// any other flag. A failed primitive or missing capability is reported via
// the returned error but never fails the cycle; callers log and continue.
func (d *Dispatcher) Dispatch(t *templates.Template, x, y int, cfg Config) error {
	defer t.MarkFired(time.Now())

	if cfg.SimulateOnly {
		d.log.InfoWithContext("simulated click", map[string]interface{}{
			"template": t.Name, "x": x, "y": y,
		})
		return nil
	}

	if !cfg.AllowAction {
		d.log.DebugWithContext("real clicks disabled; match logged only", map[string]interface{}{
			"template": t.Name,
		})
		return nil
	}

	if d.pointer == nil {
		d.log.WarnWithContext("action requested but host cannot inject pointer events", map[string]interface{}{
			"template": t.Name,
		})
		return ErrUnsupportedCapability
	}

	if err := d.hoverClick(x, y, cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrActionDispatch, err)
	}

	d.log.InfoWithContext("clicked", map[string]interface{}{
		"template": t.Name, "x": x, "y": y,
	})
	return nil
}

// hoverClick moves to the target, wiggles to wake hover handlers, waits the
// hover delay, then presses and releases the primary button.
func (d *Dispatcher) hoverClick(x, y int, cfg Config) error {
	defer func() { d.state = DispatchIdle }()

	d.state = DispatchHovering
	if err := d.pointer.MoveAbsolute(x, y); err != nil {
		return err
	}

	if cfg.WigglePixels > 0 {
		if err := d.pointer.MoveAbsolute(x+cfg.WigglePixels, y); err != nil {
			return err
		}
		if err := d.pointer.MoveAbsolute(x, y); err != nil {
			return err
		}
	}

	if cfg.HoverDelay > 0 {
		d.sleep(cfg.HoverDelay)
	}

	d.state = DispatchClicking
	if err := d.pointer.ButtonPress(input.ButtonLeft); err != nil {
		return err
	}
	d.sleep(minButtonHold)
	if err := d.pointer.ButtonRelease(input.ButtonLeft); err != nil {
		return err
	}

	return nil
}
