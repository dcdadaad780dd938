package ecs

// Event is a named occurrence dispatched over the world's bus.
type Event interface {
	EventType() string
}

// Listener is a callback invoked synchronously during dispatch. A panicking
// listener aborts the step; the bus does not recover.
type Listener func(Event)

// EventManager is the synchronous pub/sub bus connecting the runtime to its
// listeners. Dispatch is never queued or deferred, so listener side effects
// are visible to the remainder of the current step.
type EventManager struct {
	listeners map[string][]Listener
	anyAll    []Listener
}

// NewEventManager creates an empty bus.
func NewEventManager() *EventManager {
	return &EventManager{listeners: make(map[string][]Listener)}
}

// On registers a listener invoked, in registration order, for events of
// exactly the given type.
func (em *EventManager) On(eventType string, fn Listener) {
	em.listeners[eventType] = append(em.listeners[eventType], fn)
}

// OnAny registers a listener invoked for every dispatched event regardless of
// type. Used for cross-cutting concerns such as history logging.
func (em *EventManager) OnAny(fn Listener) {
	em.anyAll = append(em.anyAll, fn)
}

// OnEvent registers a listener invoked for every dispatched event whose
// concrete type is E. Useful when one Go type covers many named event types,
// such as life events.
func OnEvent[E Event](em *EventManager, fn func(E)) {
	em.OnAny(func(e Event) {
		if typed, ok := e.(E); ok {
			fn(typed)
		}
	})
}

// Dispatch calls every matching listener before returning: type-specific
// listeners first, then any-event listeners, each in registration order.
func (em *EventManager) Dispatch(e Event) {
	for _, fn := range em.listeners[e.EventType()] {
		fn(e)
	}
	for _, fn := range em.anyAll {
		fn(e)
	}
}
