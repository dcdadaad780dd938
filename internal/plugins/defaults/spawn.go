package defaults

import (
	"math/rand"

	"github.com/talgya/storyworld/internal/ecs"
	"github.com/talgya/storyworld/internal/lifeevent"
	"github.com/talgya/storyworld/internal/relationship"
)

// SpawnCharacter creates a character gameobject with a generated name, a
// randomized lifespan, and the standard character component set. Names and
// lifespans draw from the world's shared RNG.
func SpawnCharacter(w *ecs.World) *ecs.GameObject {
	rng := ecs.MustResource[rand.Rand](w)

	first := firstNames[rng.Intn(len(firstNames))]
	last := lastNames[rng.Intn(len(lastNames))]

	// Lifespan: bell curve centered on 73 years, floor at 40.
	lifespan := 73.0 + rng.NormFloat64()*8.0
	if lifespan < 40 {
		lifespan = 40
	}

	return w.Spawn(
		&GameCharacter{FirstName: first, LastName: last},
		&Age{},
		&Lifespan{Years: lifespan},
		&CanAge{},
		relationship.NewRelationships(),
		lifeevent.NewEventHistory(),
	)
}

// Name pools for procedural generation.
var firstNames = []string{
	"Aldric", "Astrid", "Bram", "Brenna", "Calla", "Cedric", "Daria",
	"Doran", "Elara", "Erik", "Finn", "Freya", "Gareth", "Greta",
	"Halvard", "Helene", "Iris", "Ivan", "Jasper", "Juno", "Kael",
	"Kira", "Leif", "Lena", "Magnus", "Mira", "Nessa", "Nils",
	"Olwen", "Oswin", "Petra", "Quinn", "Rowan", "Runa", "Senna",
	"Stellan", "Thea", "Theron", "Ulric", "Una", "Vera", "Willa",
	"Wren", "Yara", "Yorick", "Zander", "Zara",
}

var lastNames = []string{
	"Voss", "Thornwood", "Blackwood", "Ashford", "Ironhand", "Dunmore",
	"Greenvale", "Stormcrow", "Frostborn", "Hearthstone", "Millward",
	"Copperfield", "Ravenmoor", "Silverdale", "Wolfsbane", "Stoneheart",
	"Deepwell", "Brightwater", "Oakenshield", "Redforge", "Windholm",
	"Marshwood", "Goldhaven", "Nightingale", "Riverstone", "Steelworth",
	"Embercroft", "Holloway", "Dawnridge", "Farrow", "Wyatt", "Thatcher",
	"Briar", "Caldwell", "Frost", "Harper", "Mercer", "Ward", "Cross",
}
