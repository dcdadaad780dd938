package defaults_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/storyworld/internal/ecs"
	"github.com/talgya/storyworld/internal/lifeevent"
	"github.com/talgya/storyworld/internal/plugins/defaults"
	"github.com/talgya/storyworld/internal/relationship"
	"github.com/talgya/storyworld/internal/sim"
	"github.com/talgya/storyworld/internal/simtime"
)

func newSim(t *testing.T) *sim.Simulation {
	t.Helper()
	s, err := sim.New(sim.DefaultConfig(), defaults.Plugin())
	require.NoError(t, err)
	return s
}

func TestSpawnCharacterHasStandardComponents(t *testing.T) {
	s := newSim(t)

	g := defaults.SpawnCharacter(s.World)

	character := ecs.MustComponent[defaults.GameCharacter](g)
	assert.NotEmpty(t, character.FirstName)
	assert.NotEmpty(t, character.LastName)
	assert.Equal(t, character.FullName(), g.Name())

	assert.Zero(t, ecs.MustComponent[defaults.Age](g).Years)
	assert.GreaterOrEqual(t, ecs.MustComponent[defaults.Lifespan](g).Years, 40.0)
	assert.True(t, g.HasComponent(ecs.T[defaults.CanAge]()))
	assert.NotNil(t, ecs.TryComponent[relationship.Relationships](g))
	assert.NotNil(t, ecs.TryComponent[lifeevent.EventHistory](g))
}

func TestAgingAdvancesOneDayPerStep(t *testing.T) {
	s := newSim(t)
	g := defaults.SpawnCharacter(s.World)

	s.RunFor(context.Background(), simtime.DaysPerYear)

	age := ecs.MustComponent[defaults.Age](g)
	assert.InDelta(t, 1.0, age.Years, 1e-9)
}

func TestInactiveCharactersDoNotAge(t *testing.T) {
	s := newSim(t)
	g := defaults.SpawnCharacter(s.World)
	g.Deactivate()

	s.RunFor(context.Background(), 10)

	assert.Zero(t, ecs.MustComponent[defaults.Age](g).Years)
}

func TestDieMarksArchivesAndQueuesDestruction(t *testing.T) {
	s := newSim(t)
	w := s.World

	alice := defaults.SpawnCharacter(w)
	bob := defaults.SpawnCharacter(w)
	rel := relationship.GetOrCreate(alice, bob)

	deaths := 0
	w.Events().On("death", func(e ecs.Event) {
		deaths++
		assert.Equal(t, alice.ID(), e.(*defaults.DeathEvent).Character.ID())
	})

	defaults.Die(w, alice)

	assert.Equal(t, 1, deaths)
	assert.False(t, alice.IsActive())
	assert.True(t, alice.HasComponent(ecs.T[defaults.Deceased]()))
	// Identity and history survive archiving, transient components do not.
	assert.True(t, alice.HasComponent(ecs.T[defaults.GameCharacter]()))
	assert.True(t, alice.HasComponent(ecs.T[lifeevent.EventHistory]()))
	assert.False(t, alice.HasComponent(ecs.T[defaults.CanAge]()))
	assert.False(t, rel.IsActive())

	// Still present until the deferred purge.
	assert.True(t, w.Has(alice.ID()))
	s.Step()
	assert.False(t, w.Has(alice.ID()))
}

func TestDieKeepsRelationshipIndicesSymmetric(t *testing.T) {
	s := newSim(t)
	w := s.World

	alice := defaults.SpawnCharacter(w)
	bob := defaults.SpawnCharacter(w)
	toBob := relationship.GetOrCreate(alice, bob)
	fromBob := relationship.GetOrCreate(bob, alice)

	defaults.Die(w, alice)

	// Archiving the dead character keeps its relationship index, so both
	// endpoints of every edge still resolve.
	index := ecs.TryComponent[relationship.Relationships](alice)
	require.NotNil(t, index)
	assert.Equal(t, toBob.ID(), index.Outgoing(bob.ID()).ID())
	assert.Equal(t, fromBob.ID(), index.Incoming(bob.ID()).ID())

	other := ecs.MustComponent[relationship.Relationships](bob)
	assert.Equal(t, toBob.ID(), other.Incoming(alice.ID()).ID())
	assert.Equal(t, fromBob.ID(), other.Outgoing(alice.ID()).ID())
}

func TestDieTwiceIsNoOp(t *testing.T) {
	s := newSim(t)
	alice := defaults.SpawnCharacter(s.World)

	deaths := 0
	s.World.Events().On("death", func(e ecs.Event) { deaths++ })

	defaults.Die(s.World, alice)
	defaults.Die(s.World, alice)

	assert.Equal(t, 1, deaths)
}

func TestOldAgeDeathFiresWhenCertain(t *testing.T) {
	s, err := sim.New(sim.DefaultConfig())
	require.NoError(t, err)
	w := s.World

	// Register mortality at certainty so one step suffices.
	library := ecs.MustResource[lifeevent.Library](w)
	require.NoError(t, library.Add(defaults.DieOfOldAgeEventType(1.0)))
	require.NoError(t, w.Systems().AddSystem(&defaults.AgingSystem{}, sim.GroupUpdate, 0))

	elder := w.Spawn(
		&defaults.GameCharacter{FirstName: "Eira", LastName: "Voss"},
		&defaults.Age{Years: 90},
		&defaults.Lifespan{Years: 80},
		&defaults.CanAge{},
		relationship.NewRelationships(),
		lifeevent.NewEventHistory(),
	)
	young := w.Spawn(
		&defaults.GameCharacter{FirstName: "Finn", LastName: "Ward"},
		&defaults.Age{Years: 20},
		&defaults.Lifespan{Years: 80},
		&defaults.CanAge{},
		relationship.NewRelationships(),
		lifeevent.NewEventHistory(),
	)

	s.Step()

	require.Equal(t, 1, s.EventLog().Len())
	event := s.EventLog().History()[0]
	assert.Equal(t, "die-of-old-age", event.Name())
	id, _ := event.Role("character")
	assert.Equal(t, elder.ID(), id)

	// The death lands in the elder's own history before removal.
	assert.Equal(t, []uint64{event.ID()}, ecs.MustComponent[lifeevent.EventHistory](elder).Events())

	s.Step()
	assert.False(t, w.Has(elder.ID()))
	assert.True(t, w.Has(young.ID()))
}

func TestOldAgeDeathNeverFiresBelowLifespan(t *testing.T) {
	s := newSim(t)
	g := defaults.SpawnCharacter(s.World)

	s.RunFor(context.Background(), 50)

	assert.True(t, s.World.Has(g.ID()))
	assert.Zero(t, s.EventLog().Len())
}

func TestPluginRegistersComponentNames(t *testing.T) {
	s := newSim(t)

	for _, name := range []string{"GameCharacter", "Age", "Lifespan", "CanAge", "Deceased"} {
		_, ok := s.World.ComponentTypeByName(name)
		assert.True(t, ok, "missing component %s", name)
	}
}
