package defaults

import (
	"github.com/talgya/storyworld/internal/ecs"
	"github.com/talgya/storyworld/internal/lifeevent"
	"github.com/talgya/storyworld/internal/sim"
)

// OldAgeDeathChance is the per-step probability an over-lifespan character
// dies.
const OldAgeDeathChance = 0.8

// Plugin returns the built-in content plugin.
func Plugin() sim.Plugin {
	return sim.Plugin{
		Info: sim.PluginInfo{
			Name:            "default content",
			ID:              "storyworld.defaults",
			PluginVersion:   "1.0.0",
			RequiredVersion: ">=0.3.0",
		},
		Setup: setup,
	}
}

func setup(s *sim.Simulation) error {
	w := s.World

	w.RegisterComponent(&GameCharacter{})
	w.RegisterComponent(&Age{})
	w.RegisterComponent(&Lifespan{})
	w.RegisterComponent(&CanAge{})
	w.RegisterComponent(&Deceased{})

	if err := w.Systems().AddSystem(&AgingSystem{}, sim.GroupUpdate, 0); err != nil {
		return err
	}

	library := ecs.MustResource[lifeevent.Library](w)
	return library.Add(DieOfOldAgeEventType(OldAgeDeathChance))
}
