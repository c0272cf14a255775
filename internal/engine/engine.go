package engine

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/overlayassistant/overlay-go/internal/cv"
	"github.com/overlayassistant/overlay-go/internal/events"
	"github.com/overlayassistant/overlay-go/internal/history"
	"github.com/overlayassistant/overlay-go/internal/input"
	"github.com/overlayassistant/overlay-go/internal/logging"
	"github.com/overlayassistant/overlay-go/internal/templates"
)

// emptyLibraryBackoff replaces the normal cycle budget when no templates are
// loaded, so an idle engine does not busy-spin.
const emptyLibraryBackoff = 300 * time.Millisecond

// LibraryLoader builds the template library at run start
type LibraryLoader func(dir string, scale float64, log *logging.Logger) (*templates.Library, error)

// Options wires the engine's collaborators. Capturer is required; everything
// else has a working default.
type Options struct {
	Capturer cv.Capturer

	// Pointer is the injection capability; nil means the host cannot click
	// and every action request downgrades to log-only.
	Pointer input.Pointer

	// Sink receives log lines and status transitions
	Sink Sink

	Logger *logging.Logger

	// Bus, when set, receives structured events (matches, actions, faults)
	// in addition to the Sink's text lines. Publishes never block the
	// worker.
	Bus events.EventBus

	// History, when set, records every match for later inspection
	History *history.Store

	// LoadLibrary overrides how templates are loaded; defaults to
	// templates.Load.
	LoadLibrary LibraryLoader
}

// Engine runs the capture -> preprocess -> schedule -> correlate -> map ->
// dispatch -> pace cycle on a single dedicated worker goroutine.
type Engine struct {
	capturer    cv.Capturer
	sink        Sink
	log         *logging.Logger
	bus         events.EventBus
	store       *history.Store
	loadLibrary LibraryLoader

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	// Per-run state, owned by the worker while running
	cfg        Config
	lib        *templates.Library
	sched      Scheduler
	dispatcher *Dispatcher
}

// New creates an engine from options
func New(opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = logging.NewLogger("engine")
	}

	sink := opts.Sink
	if sink == nil {
		sink = NopSink{}
	}

	loader := opts.LoadLibrary
	if loader == nil {
		loader = templates.Load
	}

	return &Engine{
		capturer:    opts.Capturer,
		sink:        sink,
		log:         log,
		bus:         opts.Bus,
		store:       opts.History,
		loadLibrary: loader,
		dispatcher:  NewDispatcher(opts.Pointer, log),
	}
}

// Running reports whether a run is in flight
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Start validates the config, builds the run's template library, resets the
// scheduler and launches the worker. The config is snapshotted: later
// changes by the host require a stop and restart to apply. A configuration
// error is the only failure that blocks starting.
func (e *Engine) Start(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return ErrAlreadyRunning
	}

	lib, err := e.loadLibrary(cfg.TemplateFolder, cfg.ScaleFactor, e.log)
	if err != nil {
		return fmt.Errorf("failed to load template library: %w", err)
	}

	if lib.Len() == 0 {
		e.sink.Log("no templates loaded; scanning idles until templates are added and the engine is restarted")
	}

	e.cfg = cfg
	e.lib = lib
	e.sched.Reset()
	e.stopCh = make(chan struct{})
	e.running = true

	e.sink.StatusChanged(StatusRunning)
	e.publish(events.NewStatusEvent(string(StatusRunning)))
	e.log.InfoWithContext("scanning started", map[string]interface{}{
		"region":    cfg.Region.String(),
		"templates": lib.Len(),
		"simulate":  cfg.SimulateOnly,
	})

	e.wg.Add(1)
	go e.run()

	return nil
}

// Stop requests cancellation and waits for the worker to exit. Shutdown
// latency is bounded by one cycle period because the worker checks the flag
// at the head of every cycle and before every sleep.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	close(e.stopCh)
	e.mu.Unlock()

	e.wg.Wait()
}

// run is the worker loop. Any panic inside a cycle is caught here, logged
// with context, and stops the engine instead of the host process.
func (e *Engine) run() {
	defer e.wg.Done()
	defer e.finish()

	period := e.cfg.CyclePeriod()

	for {
		select {
		case <-e.stopCh:
			return
		default:
		}

		start := time.Now()

		if fault := e.safeCycle(); fault {
			return
		}

		var sleepFor time.Duration
		if e.lib.Len() == 0 {
			sleepFor = emptyLibraryBackoff
		} else {
			// A slow cycle is simply not compensated
			sleepFor = period - time.Since(start)
		}

		if !e.pause(sleepFor) {
			return
		}
	}
}

// finish releases the frame source and reports the Stopped state
func (e *Engine) finish() {
	if err := e.capturer.Close(); err != nil {
		e.log.Error("failed to release frame source", err)
	}

	e.mu.Lock()
	e.running = false
	e.mu.Unlock()

	e.sink.StatusChanged(StatusStopped)
	e.publish(events.NewStatusEvent(string(StatusStopped)))
	e.log.Info("scanning stopped")
}

// pause sleeps for d, returning false if cancellation arrived first or d is
// consumed by an over-budget cycle while a stop is pending.
func (e *Engine) pause(d time.Duration) bool {
	if d <= 0 {
		select {
		case <-e.stopCh:
			return false
		default:
			return true
		}
	}

	select {
	case <-e.stopCh:
		return false
	case <-time.After(d):
		return true
	}
}

// safeCycle runs one cycle under a panic guard. Returns true on a fault
// that must stop the run.
func (e *Engine) safeCycle() (fault bool) {
	defer func() {
		if r := recover(); r != nil {
			fault = true
			err := fmt.Errorf("worker fault: %v", r)
			e.log.ErrorWithContext("cycle panicked; stopping", err, map[string]interface{}{
				"stack": string(debug.Stack()),
			})
			e.sink.Log(fmt.Sprintf("worker fault: %v", r))
			e.publish(events.Event{
				Type:    events.EventTypeWorkerFault,
				Message: fmt.Sprint(r),
			})
		}
	}()

	e.cycle()
	return false
}

// cycle performs one capture/match/dispatch pass
func (e *Engine) cycle() {
	if e.lib.Len() == 0 {
		return
	}

	frame, err := e.capturer.Capture(e.cfg.Region)
	if err != nil {
		// Transient: no match this cycle
		captureErr := fmt.Errorf("%w: %v", ErrCapture, err)
		e.log.Error("capture failed", captureErr)
		e.publish(events.Event{Type: events.EventTypeCycleError, Message: captureErr.Error()})
		return
	}

	scaled := cv.ToMatchSpace(frame, e.cfg.ScaleFactor)

	indices := e.sched.Select(e.lib.Len(), e.cfg.TemplatesPerCycle)
	now := time.Now()

	for _, idx := range indices {
		tmpl := e.lib.At(idx)

		if tmpl.CoolingDown(now, e.cfg.Cooldown) {
			continue
		}

		threshold := e.cfg.ConfidenceThreshold
		if tmpl.Threshold > 0 {
			threshold = tmpl.Threshold
		}

		matches := cv.MatchAll(scaled, tmpl.Scaled, threshold)
		if len(matches) == 0 {
			continue
		}

		// First qualifying match wins; remaining selected templates are
		// skipped for this cycle.
		m := matches[0]
		x, y := MapToScreen(m.X, m.Y, tmpl.ScaledW, tmpl.ScaledH, e.cfg.ScaleFactor, e.cfg.Region, tmpl.OffsetX, tmpl.OffsetY)

		e.sink.Log(fmt.Sprintf("[%s] match at (%d,%d) confidence=%.3f", tmpl.Name, x, y, m.Confidence))
		e.publish(events.NewMatchFoundEvent(tmpl.Name, x, y, m.Confidence))

		dispatchErr := e.dispatcher.Dispatch(tmpl, x, y, e.cfg)
		e.recordDetection(tmpl.Name, x, y, m.Confidence, dispatchErr == nil && !e.cfg.SimulateOnly && e.cfg.AllowAction)

		switch {
		case dispatchErr == nil:
			if e.cfg.SimulateOnly {
				e.publish(events.Event{Type: events.EventTypeActionSimulated, Message: tmpl.Name})
			} else if e.cfg.AllowAction {
				e.publish(events.Event{Type: events.EventTypeActionDispatched, Message: tmpl.Name})
			}
		case errors.Is(dispatchErr, ErrUnsupportedCapability):
			e.sink.Log("real clicking not supported on this host")
			e.publish(events.Event{Type: events.EventTypeActionDenied, Message: tmpl.Name})
		default:
			e.log.Error("dispatch failed", dispatchErr)
			e.publish(events.Event{Type: events.EventTypeCycleError, Message: dispatchErr.Error()})
		}

		break
	}
}

// recordDetection writes a match to the history store when one is attached
func (e *Engine) recordDetection(template string, x, y int, confidence float64, dispatched bool) {
	if e.store == nil {
		return
	}
	if _, err := e.store.RecordDetection(template, x, y, confidence, dispatched); err != nil {
		e.log.Error("failed to record detection", err)
	}
}

// publish sends a structured event without blocking the worker
func (e *Engine) publish(ev events.Event) {
	if e.bus == nil {
		return
	}
	e.bus.PublishAsync(ev)
}
