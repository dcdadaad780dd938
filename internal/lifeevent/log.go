package lifeevent

import "github.com/talgya/storyworld/internal/ecs"

// EventLog is the global, append-only record of executed life events, keyed
// by a monotonically increasing id that is never reused.
type EventLog struct {
	nextID  uint64
	history []*LifeEvent
	byID    map[uint64]*LifeEvent
}

// NewEventLog creates an empty log.
func NewEventLog() *EventLog {
	return &EventLog{nextID: 1, byID: make(map[uint64]*LifeEvent)}
}

// Record assigns the next id and appends the event.
func (l *EventLog) Record(event *LifeEvent) {
	event.id = l.nextID
	l.nextID++
	l.history = append(l.history, event)
	l.byID[event.id] = event
}

// Get returns the recorded event with the given id.
func (l *EventLog) Get(id uint64) (*LifeEvent, bool) {
	e, ok := l.byID[id]
	return e, ok
}

// History returns every recorded event in execution order.
func (l *EventLog) History() []*LifeEvent {
	return append([]*LifeEvent(nil), l.history...)
}

// Len returns the number of recorded events.
func (l *EventLog) Len() int { return len(l.history) }

// EventHistory tracks the life events a gameobject took part in. It survives
// archiving so biographies outlive active participation.
type EventHistory struct {
	ecs.BaseComponent

	events []uint64
}

// NewEventHistory creates an empty personal history.
func NewEventHistory() *EventHistory {
	return &EventHistory{}
}

// Append records a life-event id.
func (h *EventHistory) Append(id uint64) {
	h.events = append(h.events, id)
}

// Events returns the recorded event ids in order.
func (h *EventHistory) Events() []uint64 {
	return append([]uint64(nil), h.events...)
}

// Persistent marks the history as surviving Archive.
func (h *EventHistory) Persistent() bool { return true }

// Snapshot implements ecs.Snapshotter.
func (h *EventHistory) Snapshot() map[string]any {
	return map[string]any{"events": append([]uint64(nil), h.events...)}
}
