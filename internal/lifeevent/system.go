package lifeevent

import (
	"math/rand"

	"github.com/talgya/storyworld/internal/ecs"
)

// Try instantiates the event type and, when binding succeeds, gates it on a
// probability draw from the shared RNG. On a passing draw the effect runs,
// the event is recorded in the log, and it is dispatched over the bus so
// listeners observe it within the current step. Binding failure is not an
// error: it is the designed "no match this tick" outcome and returns nil.
func Try(w *ecs.World, et *EventType, bindings map[string]*ecs.GameObject) *LifeEvent {
	event := et.Instantiate(w, bindings)
	if event == nil {
		return nil
	}

	rng := ecs.MustResource[rand.Rand](w)
	if rng.Float64() >= et.probability(w, event) {
		return nil
	}

	if et.Effect != nil {
		et.Effect(w, event)
	}
	ecs.MustResource[EventLog](w).Record(event)
	w.Events().Dispatch(event)
	return event
}

// RandomLifeEventSystem attempts each registered random event type once per
// early-update tick, in registration order, under the bind-then-gate policy.
type RandomLifeEventSystem struct{}

// Update implements ecs.System.
func (*RandomLifeEventSystem) Update(w *ecs.World) {
	library := ecs.MustResource[Library](w)
	for _, et := range library.Types() {
		Try(w, et, nil)
	}
}
