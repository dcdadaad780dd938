package defaults

import (
	"reflect"

	"github.com/talgya/storyworld/internal/ecs"
	"github.com/talgya/storyworld/internal/lifeevent"
	"github.com/talgya/storyworld/internal/relationship"
)

// DeathEvent announces that a character died. Listeners run before the
// gameobject is physically removed at the top of the next step.
type DeathEvent struct {
	Character *ecs.GameObject
}

// EventType implements ecs.Event.
func (*DeathEvent) EventType() string { return "death" }

// Die marks a character dead: it gains the Deceased tag, deactivates along
// with all its relationships, archives down to its persistent components,
// announces the death, and is queued for destruction. The character stays
// queryable for the rest of the current step.
func Die(w *ecs.World, character *ecs.GameObject) {
	if ecs.TryComponent[Deceased](character) != nil {
		return
	}
	character.AddComponent(&Deceased{})
	character.Deactivate()
	relationship.Deactivate(character)
	character.Archive()
	w.Events().Dispatch(&DeathEvent{Character: character})
	w.Destroy(character.ID())
}

// DieOfOldAgeEventType builds the stock mortality event: a living character
// whose age has reached its lifespan dies with the given probability each
// step it remains eligible.
func DieOfOldAgeEventType(probability float64) *lifeevent.EventType {
	return &lifeevent.EventType{
		Name: "die-of-old-age",
		Roles: []*lifeevent.RoleType{
			{
				Name: "character",
				Components: []reflect.Type{
					ecs.T[GameCharacter](),
					ecs.T[Age](),
					ecs.T[Lifespan](),
					ecs.T[ecs.Active](),
				},
				Filter: func(w *ecs.World, event *lifeevent.LifeEvent, g *ecs.GameObject) bool {
					age := ecs.MustComponent[Age](g)
					lifespan := ecs.MustComponent[Lifespan](g)
					return age.Years >= lifespan.Years
				},
			},
		},
		Probability: func(w *ecs.World, event *lifeevent.LifeEvent) float64 {
			return probability
		},
		Effect: func(w *ecs.World, event *lifeevent.LifeEvent) {
			id, _ := event.Role("character")
			if character := w.TryGet(id); character != nil {
				Die(w, character)
			}
		},
	}
}
