package sim_test

import (
	"context"
	"errors"
	"os"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/storyworld/internal/ecs"
	"github.com/talgya/storyworld/internal/lifeevent"
	"github.com/talgya/storyworld/internal/sim"
)

type villager struct{ ecs.BaseComponent }

func TestNewWiresStandardResources(t *testing.T) {
	s, err := sim.New(sim.DefaultConfig())
	require.NoError(t, err)

	assert.NotNil(t, s.EventLog())
	assert.NotNil(t, s.Date())
	assert.Equal(t, "0001-01-01", s.Date().String())
	assert.NotNil(t, ecs.MustResource[sim.DataCollector](s.World))

	for _, name := range []string{
		sim.GroupInitialization, sim.GroupEarlyUpdate, sim.GroupUpdate,
		sim.GroupLateUpdate, sim.GroupDataCollection, sim.GroupStatusUpdate,
		sim.GroupGoalSuggestion, sim.GroupRelationshipUpdate,
	} {
		_, ok := s.World.Systems().Group(name)
		assert.True(t, ok, "missing group %s", name)
	}
}

func TestStepAdvancesOneDay(t *testing.T) {
	s, err := sim.New(sim.DefaultConfig())
	require.NoError(t, err)

	s.Step()
	s.Step()
	s.Step()

	assert.Equal(t, "0001-01-04", s.Date().String())
}

func TestRunForStopsAtContextCancel(t *testing.T) {
	s, err := sim.New(sim.DefaultConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, 0, s.RunFor(ctx, 100))
	assert.Equal(t, "0001-01-01", s.Date().String())
}

func TestRunForCompletesWithoutCancel(t *testing.T) {
	s, err := sim.New(sim.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 10, s.RunFor(context.Background(), 10))
	assert.Equal(t, "0001-01-11", s.Date().String())
}

func TestPluginWithoutSetupRejected(t *testing.T) {
	_, err := sim.New(sim.DefaultConfig(), sim.Plugin{
		Info: sim.PluginInfo{Name: "broken"},
	})

	var setupErr *sim.PluginSetupError
	require.ErrorAs(t, err, &setupErr)
	assert.Equal(t, "broken", setupErr.Plugin)
}

func TestPluginVersionMismatchRejected(t *testing.T) {
	_, err := sim.New(sim.DefaultConfig(), sim.Plugin{
		Info: sim.PluginInfo{
			Name:            "future",
			RequiredVersion: ">=99.0.0",
		},
		Setup: func(s *sim.Simulation) error { return nil },
	})

	var setupErr *sim.PluginSetupError
	assert.ErrorAs(t, err, &setupErr)
}

func TestPluginSetupErrorWrapped(t *testing.T) {
	_, err := sim.New(sim.DefaultConfig(), sim.Plugin{
		Info: sim.PluginInfo{Name: "flaky"},
		Setup: func(s *sim.Simulation) error {
			return errors.New("registry offline")
		},
	})

	var setupErr *sim.PluginSetupError
	require.ErrorAs(t, err, &setupErr)
	assert.Contains(t, setupErr.Error(), "registry offline")
}

func TestPluginRegistersContent(t *testing.T) {
	ran := false
	s, err := sim.New(sim.DefaultConfig(), sim.Plugin{
		Info: sim.PluginInfo{Name: "content", RequiredVersion: ">=0.3.0"},
		Setup: func(s *sim.Simulation) error {
			s.World.RegisterComponent(&villager{})
			ran = true
			return nil
		},
	})
	require.NoError(t, err)
	assert.True(t, ran)

	_, ok := s.World.ComponentTypeByName("villager")
	assert.True(t, ok)
}

func TestExecutedEventsLandInPersonalHistory(t *testing.T) {
	s, err := sim.New(sim.DefaultConfig())
	require.NoError(t, err)
	w := s.World

	g := w.Spawn(&villager{}, lifeevent.NewEventHistory())

	library := ecs.MustResource[lifeevent.Library](w)
	require.NoError(t, library.Add(&lifeevent.EventType{
		Name: "festival",
		Roles: []*lifeevent.RoleType{
			{Name: "guest", Components: []reflect.Type{ecs.T[villager]()}},
		},
	}))

	s.Step()

	history := ecs.MustComponent[lifeevent.EventHistory](g)
	require.Len(t, history.Events(), 1)

	event, ok := s.EventLog().Get(history.Events()[0])
	require.True(t, ok)
	assert.Equal(t, "festival", event.Name())
}

func TestDataCollectorCountsEvents(t *testing.T) {
	s, err := sim.New(sim.DefaultConfig())
	require.NoError(t, err)
	w := s.World

	w.Spawn(&villager{})
	library := ecs.MustResource[lifeevent.Library](w)
	require.NoError(t, library.Add(&lifeevent.EventType{
		Name: "festival",
		Roles: []*lifeevent.RoleType{
			{Name: "guest", Components: []reflect.Type{ecs.T[villager]()}},
		},
	}))

	s.RunFor(context.Background(), 3)

	collector := ecs.MustResource[sim.DataCollector](w)
	assert.Equal(t, 3, collector.Counter("events.festival"))
}

func TestPopulationSampledEachStep(t *testing.T) {
	s, err := sim.New(sim.DefaultConfig())
	require.NoError(t, err)

	s.World.Spawn(&villager{})
	inactive := s.World.Spawn(&villager{})
	inactive.Deactivate()

	s.RunFor(context.Background(), 2)

	rows := ecs.MustResource[sim.DataCollector](s.World).Table("population")
	require.Len(t, rows, 2)
	assert.Equal(t, "0001-01-01", rows[0]["date"])
	assert.Equal(t, "0001-01-02", rows[1]["date"])
	assert.Equal(t, 2, rows[0]["total"])
	assert.Equal(t, 1, rows[0]["active"])
}

func TestSeededRunsProduceIdenticalEventLogs(t *testing.T) {
	run := func() []string {
		s, err := sim.New(sim.DefaultConfig())
		require.NoError(t, err)
		w := s.World

		for i := 0; i < 10; i++ {
			w.Spawn(&villager{})
		}
		library := ecs.MustResource[lifeevent.Library](w)
		require.NoError(t, library.Add(&lifeevent.EventType{
			Name: "gossip",
			Roles: []*lifeevent.RoleType{
				{Name: "teller", Components: []reflect.Type{ecs.T[villager]()}},
				{Name: "hearer", Components: []reflect.Type{ecs.T[villager]()}},
			},
			Probability: func(w *ecs.World, e *lifeevent.LifeEvent) float64 { return 0.5 },
		}))

		s.RunFor(context.Background(), 30)

		var out []string
		for _, e := range s.EventLog().History() {
			out = append(out, e.String())
		}
		return out
	}

	assert.Equal(t, run(), run())
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := t.TempDir() + "/config.yaml"
	require.NoError(t, os.WriteFile(path, []byte("seed: 7\nsteps: 12\nlog_level: debug\n"), 0644))

	cfg, err := sim.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 12, cfg.Steps)
	assert.Equal(t, "debug", cfg.LogLevel)
	// Untouched fields keep defaults.
	assert.Equal(t, sim.DefaultConfig().DatabasePath, cfg.DatabasePath)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := sim.LoadConfig(t.TempDir() + "/nope.yaml")
	assert.Error(t, err)
}
