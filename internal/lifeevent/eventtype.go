package lifeevent

import (
	"fmt"

	"github.com/talgya/storyworld/internal/ecs"
	"github.com/talgya/storyworld/internal/simtime"
)

// ProbabilityFn computes the chance an instantiated event executes, as a
// function of the bound gameobjects' state. Results are used as a threshold
// against a uniform [0, 1) draw from the shared RNG.
type ProbabilityFn func(w *ecs.World, event *LifeEvent) float64

// EffectFn executes an event's changes to the world. Effects mutate state
// through the standard component and relationship APIs only, so listeners
// observe every induced change.
type EffectFn func(w *ecs.World, event *LifeEvent)

// EventType defines a kind of life event: its roles in binding order, its
// probability function, and its effect.
type EventType struct {
	Name        string
	Roles       []*RoleType
	Probability ProbabilityFn // nil means always execute once bound
	Effect      EffectFn
}

// Instantiate attempts to bind every role, left to right as declared.
// Caller-supplied bindings are validated against the role's requirements and
// rejected outright when they fail. The result is either a fully and validly
// bound event or nil — never a partially bound event.
func (et *EventType) Instantiate(w *ecs.World, bindings map[string]*ecs.GameObject) *LifeEvent {
	event := &LifeEvent{name: et.Name}
	if date := ecs.TryResource[simtime.SimDateTime](w); date != nil {
		event.timestamp = date.String()
	}

	for _, roleType := range et.Roles {
		var role Role
		var ok bool
		if candidate := bindings[roleType.Name]; candidate != nil {
			role, ok = roleType.fillWith(w, event, candidate)
		} else {
			role, ok = roleType.fill(w, event)
		}
		if !ok {
			return nil
		}
		event.roles = append(event.roles, role)
	}
	return event
}

func (et *EventType) probability(w *ecs.World, event *LifeEvent) float64 {
	if et.Probability == nil {
		return 1.0
	}
	return et.Probability(w, event)
}

// Library is the registry of random life-event types, owned by the world's
// resource registry. Per-step attempts follow registration order; callers
// wanting a weighted mix should register multiple variants or bias via the
// probability function.
type Library struct {
	types  []*EventType
	byName map[string]*EventType
}

// NewLibrary creates an empty event-type library.
func NewLibrary() *Library {
	return &Library{byName: make(map[string]*EventType)}
}

// Add registers an event type. Duplicate names are rejected.
func (l *Library) Add(et *EventType) error {
	if _, ok := l.byName[et.Name]; ok {
		return fmt.Errorf("life event type %q already registered", et.Name)
	}
	l.types = append(l.types, et)
	l.byName[et.Name] = et
	return nil
}

// Get returns the event type registered under the given name.
func (l *Library) Get(name string) (*EventType, bool) {
	et, ok := l.byName[name]
	return et, ok
}

// Types returns the registered event types in registration order.
func (l *Library) Types() []*EventType {
	return append([]*EventType(nil), l.types...)
}
