package defaults

import (
	"github.com/talgya/storyworld/internal/ecs"
	"github.com/talgya/storyworld/internal/simtime"
)

// AgingSystem advances the Age of every active gameobject tagged CanAge by
// one simulated day per step.
type AgingSystem struct{}

// Update implements ecs.System.
func (s *AgingSystem) Update(w *ecs.World) {
	for _, g := range w.Query(ecs.T[CanAge](), ecs.T[Age](), ecs.T[ecs.Active]()) {
		age := ecs.MustComponent[Age](g)
		age.Years += 1.0 / float64(simtime.DaysPerYear)
	}
}
