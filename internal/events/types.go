package events

import "time"

// EventType identifies the kind of event published on the bus
type EventType string

const (
	// Engine lifecycle events
	EventTypeStatusChanged EventType = "engine.status_changed"
	EventTypeCycleError    EventType = "engine.cycle_error"
	EventTypeWorkerFault   EventType = "engine.worker_fault"

	// Detection events
	EventTypeMatchFound EventType = "match.found"

	// Action events
	EventTypeActionDispatched EventType = "action.dispatched"
	EventTypeActionSimulated  EventType = "action.simulated"
	EventTypeActionDenied     EventType = "action.denied"

	// Template library events
	EventTypeTemplateLoaded  EventType = "template.loaded"
	EventTypeTemplateSkipped EventType = "template.skipped"

	// Free-form log line for the hosting collaborator's log view
	EventTypeLog EventType = "log"
)

// Event is a single published event with optional payload data
type Event struct {
	Type      EventType
	Timestamp time.Time
	Message   string
	Data      map[string]interface{}
}

// EventHandler processes a single event
type EventHandler func(Event)

// SubscriptionID identifies a registered handler
type SubscriptionID int64

// EventBus is the publish/subscribe contract between the engine and its host.
// Publish paths used by the engine worker must never block it.
type EventBus interface {
	Subscribe(eventType EventType, handler EventHandler) SubscriptionID
	Unsubscribe(id SubscriptionID)
	Publish(event Event)
	PublishAsync(event Event)
	Stop()
}

// NewMatchFoundEvent builds a match.found event
func NewMatchFoundEvent(template string, x, y int, confidence float64) Event {
	return Event{
		Type:      EventTypeMatchFound,
		Timestamp: time.Now(),
		Message:   "template matched",
		Data: map[string]interface{}{
			"template":   template,
			"x":          x,
			"y":          y,
			"confidence": confidence,
		},
	}
}

// NewStatusEvent builds an engine.status_changed event
func NewStatusEvent(status string) Event {
	return Event{
		Type:      EventTypeStatusChanged,
		Timestamp: time.Now(),
		Message:   status,
	}
}

// NewLogEvent builds a free-form log event
func NewLogEvent(line string) Event {
	return Event{
		Type:      EventTypeLog,
		Timestamp: time.Now(),
		Message:   line,
	}
}
