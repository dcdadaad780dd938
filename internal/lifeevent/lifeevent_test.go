package lifeevent_test

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/storyworld/internal/ecs"
	"github.com/talgya/storyworld/internal/lifeevent"
	"github.com/talgya/storyworld/internal/simtime"
)

type actor struct{ ecs.BaseComponent }

type venue struct{ ecs.BaseComponent }

type mood struct {
	ecs.BaseComponent
	Happy bool
}

func newTestWorld(seed int64) *ecs.World {
	w := ecs.NewWorld()
	w.AddResource(rand.New(rand.NewSource(seed)))
	w.AddResource(simtime.New())
	w.AddResource(lifeevent.NewEventLog())
	w.AddResource(lifeevent.NewLibrary())
	return w
}

func greetingEventType() *lifeevent.EventType {
	return &lifeevent.EventType{
		Name: "greeting",
		Roles: []*lifeevent.RoleType{
			{Name: "initiator", Components: []reflect.Type{ecs.T[actor]()}},
			{Name: "listener", Components: []reflect.Type{ecs.T[actor]()}},
		},
	}
}

func TestInstantiateBindsDeclaredRoles(t *testing.T) {
	w := newTestWorld(7)
	w.Spawn(&actor{})
	w.Spawn(&actor{})

	et := greetingEventType()
	event := et.Instantiate(w, nil)

	require.NotNil(t, event)
	assert.Equal(t, "greeting", event.Name())
	assert.Len(t, event.Roles(), 2)
	assert.Equal(t, "0001-01-01", event.Timestamp())

	id, ok := event.Role("initiator")
	assert.True(t, ok)
	assert.NotZero(t, id)
}

func TestInstantiateAllOrNothing(t *testing.T) {
	w := newTestWorld(7)
	w.Spawn(&actor{})

	et := &lifeevent.EventType{
		Name: "meeting",
		Roles: []*lifeevent.RoleType{
			{Name: "host", Components: []reflect.Type{ecs.T[actor]()}},
			{Name: "place", Components: []reflect.Type{ecs.T[venue]()}},
		},
	}

	// No venue exists: binding fails as a whole.
	assert.Nil(t, et.Instantiate(w, nil))
}

func TestCallerBindingValidatedNotTrusted(t *testing.T) {
	w := newTestWorld(7)
	w.Spawn(&actor{})
	imposter := w.Spawn(&venue{})

	et := greetingEventType()
	event := et.Instantiate(w, map[string]*ecs.GameObject{"initiator": imposter})

	assert.Nil(t, event)
}

func TestRoleFilterNarrowsCandidates(t *testing.T) {
	w := newTestWorld(7)
	w.Spawn(&actor{}, &mood{Happy: false})
	happy := w.Spawn(&actor{}, &mood{Happy: true})

	et := &lifeevent.EventType{
		Name: "celebration",
		Roles: []*lifeevent.RoleType{
			{
				Name:       "celebrant",
				Components: []reflect.Type{ecs.T[actor](), ecs.T[mood]()},
				Filter: func(w *ecs.World, event *lifeevent.LifeEvent, g *ecs.GameObject) bool {
					return ecs.MustComponent[mood](g).Happy
				},
			},
		},
	}

	for i := 0; i < 10; i++ {
		event := et.Instantiate(w, nil)
		require.NotNil(t, event)
		id, _ := event.Role("celebrant")
		assert.Equal(t, happy.ID(), id)
	}
}

func TestRoleBinderOverridesEnumeration(t *testing.T) {
	w := newTestWorld(7)
	w.Spawn(&actor{})
	chosen := w.Spawn(&actor{})

	et := &lifeevent.EventType{
		Name: "summons",
		Roles: []*lifeevent.RoleType{
			{
				Name: "subject",
				Binder: func(w *ecs.World, event *lifeevent.LifeEvent) *ecs.GameObject {
					return chosen
				},
			},
		},
	}

	event := et.Instantiate(w, nil)
	require.NotNil(t, event)
	id, _ := event.Role("subject")
	assert.Equal(t, chosen.ID(), id)
}

func TestSeededRunsBindIdentically(t *testing.T) {
	run := func() []uint64 {
		w := newTestWorld(99)
		for i := 0; i < 20; i++ {
			w.Spawn(&actor{})
		}
		et := greetingEventType()
		var ids []uint64
		for i := 0; i < 10; i++ {
			event := et.Instantiate(w, nil)
			require.NotNil(t, event)
			for _, r := range event.Roles() {
				ids = append(ids, r.GameObjectID)
			}
		}
		return ids
	}

	assert.Equal(t, run(), run())
}

func TestTryZeroProbabilityNeverExecutes(t *testing.T) {
	w := newTestWorld(7)
	w.Spawn(&actor{})
	w.Spawn(&actor{})

	executed := 0
	et := greetingEventType()
	et.Probability = func(w *ecs.World, event *lifeevent.LifeEvent) float64 { return 0 }
	et.Effect = func(w *ecs.World, event *lifeevent.LifeEvent) { executed++ }

	for i := 0; i < 50; i++ {
		assert.Nil(t, lifeevent.Try(w, et, nil))
	}
	assert.Zero(t, executed)
	assert.Zero(t, ecs.MustResource[lifeevent.EventLog](w).Len())
}

func TestTryCertainProbabilityExecutesAndRecords(t *testing.T) {
	w := newTestWorld(7)
	w.Spawn(&actor{})
	w.Spawn(&actor{})

	effects := 0
	var dispatched *lifeevent.LifeEvent
	w.Events().On("greeting", func(e ecs.Event) {
		dispatched = e.(*lifeevent.LifeEvent)
	})

	et := greetingEventType()
	et.Effect = func(w *ecs.World, event *lifeevent.LifeEvent) { effects++ }

	event := lifeevent.Try(w, et, nil)
	require.NotNil(t, event)
	assert.Equal(t, 1, effects)
	assert.Same(t, event, dispatched)

	log := ecs.MustResource[lifeevent.EventLog](w)
	assert.Equal(t, 1, log.Len())
	got, ok := log.Get(event.ID())
	assert.True(t, ok)
	assert.Same(t, event, got)
}

func TestEventLogIDsMonotonic(t *testing.T) {
	w := newTestWorld(7)
	w.Spawn(&actor{})
	w.Spawn(&actor{})

	et := greetingEventType()
	var prev uint64
	for i := 0; i < 5; i++ {
		event := lifeevent.Try(w, et, nil)
		require.NotNil(t, event)
		assert.Greater(t, event.ID(), prev)
		prev = event.ID()
	}

	history := ecs.MustResource[lifeevent.EventLog](w).History()
	require.Len(t, history, 5)
	for i := 1; i < len(history); i++ {
		assert.Greater(t, history[i].ID(), history[i-1].ID())
	}
}

func TestLibraryRejectsDuplicateNames(t *testing.T) {
	library := lifeevent.NewLibrary()

	require.NoError(t, library.Add(greetingEventType()))
	assert.Error(t, library.Add(greetingEventType()))

	_, ok := library.Get("greeting")
	assert.True(t, ok)
}

func TestRandomSystemAttemptsInRegistrationOrder(t *testing.T) {
	w := newTestWorld(7)
	w.Spawn(&actor{})

	var attempted []string
	mk := func(name string) *lifeevent.EventType {
		return &lifeevent.EventType{
			Name:  name,
			Roles: []*lifeevent.RoleType{{Name: "who", Components: []reflect.Type{ecs.T[actor]()}}},
			Effect: func(w *ecs.World, event *lifeevent.LifeEvent) {
				attempted = append(attempted, name)
			},
		}
	}

	library := ecs.MustResource[lifeevent.Library](w)
	require.NoError(t, library.Add(mk("first")))
	require.NoError(t, library.Add(mk("second")))

	(&lifeevent.RandomLifeEventSystem{}).Update(w)

	assert.Equal(t, []string{"first", "second"}, attempted)
}

func TestMetadataTravelsWithEvent(t *testing.T) {
	w := newTestWorld(7)
	w.Spawn(&actor{})
	w.Spawn(&actor{})

	et := greetingEventType()
	et.Effect = func(w *ecs.World, event *lifeevent.LifeEvent) {
		event.SetMetadata("warmth", 3)
	}

	var dispatched *lifeevent.LifeEvent
	w.Events().On("greeting", func(e ecs.Event) {
		dispatched = e.(*lifeevent.LifeEvent)
	})

	event := lifeevent.Try(w, et, nil)
	require.NotNil(t, event)
	assert.Equal(t, 3, dispatched.Metadata()["warmth"])
	assert.Equal(t, 3, event.Snapshot()["metadata"].(map[string]any)["warmth"])
}

func TestEventHistoryAccumulates(t *testing.T) {
	h := lifeevent.NewEventHistory()
	h.Append(3)
	h.Append(7)

	assert.Equal(t, []uint64{3, 7}, h.Events())
	assert.True(t, h.Persistent())
}
