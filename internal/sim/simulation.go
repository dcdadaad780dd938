// Package sim assembles the runtime: default system groups, standard
// resources, the plugin boundary, and the step driver.
package sim

import (
	"context"
	"log/slog"
	"math/rand"

	"github.com/talgya/storyworld/internal/ecs"
	"github.com/talgya/storyworld/internal/lifeevent"
	"github.com/talgya/storyworld/internal/relationship"
	"github.com/talgya/storyworld/internal/simtime"
)

// System group names, in execution order. Top-level groups run in the order
// listed; the early-update subgroups run inside early-update in their listed
// order. The time system runs outside every group, last.
const (
	GroupInitialization     = "initialization"
	GroupEarlyUpdate        = "early-update"
	GroupUpdate             = "update"
	GroupLateUpdate         = "late-update"
	GroupDataCollection     = "data-collection"
	GroupStatusUpdate       = "status-update"
	GroupGoalSuggestion     = "goal-suggestion"
	GroupRelationshipUpdate = "relationship-update"
)

// Simulation is the main entry point for running story worlds.
type Simulation struct {
	World  *ecs.World
	Config Config
}

// New builds a simulation with the default group tree, standard resources,
// and standard event listeners, then loads the given plugins. Plugin setup
// failure aborts construction.
func New(cfg Config, plugins ...Plugin) (*Simulation, error) {
	w := ecs.NewWorld()
	s := &Simulation{World: w, Config: cfg}

	// Standard resources. The RNG is the single shared stream every
	// stochastic choice draws from.
	w.AddResource(rand.New(rand.NewSource(cfg.Seed)))
	w.AddResource(simtime.New())
	w.AddResource(relationship.NewSocialRuleLibrary())
	w.AddResource(lifeevent.NewLibrary())
	w.AddResource(lifeevent.NewEventLog())
	w.AddResource(NewDataCollector())

	// Top-level groups in execution order.
	sm := w.Systems()
	mustGroup(sm, GroupInitialization, "")
	mustGroup(sm, GroupEarlyUpdate, "")
	mustGroup(sm, GroupUpdate, "")
	mustGroup(sm, GroupLateUpdate, "")

	// Early-update subgroups in execution order.
	mustGroup(sm, GroupDataCollection, GroupEarlyUpdate)
	mustGroup(sm, GroupStatusUpdate, GroupEarlyUpdate)
	mustGroup(sm, GroupGoalSuggestion, GroupEarlyUpdate)
	mustGroup(sm, GroupRelationshipUpdate, GroupEarlyUpdate)

	// Engine systems.
	mustSystem(sm, &populationSampleSystem{}, GroupDataCollection, 0)
	mustSystem(sm, &relationship.EvaluateSocialRulesSystem{}, GroupRelationshipUpdate, 0)
	mustSystem(sm, &lifeevent.RandomLifeEventSystem{}, GroupEarlyUpdate, 0)

	// Time advancement sits outside every group at the lowest priority so
	// all other systems observe the same date for the entire step.
	mustSystem(sm, &simtime.TimeSystem{}, "", -9999)

	// Engine components.
	w.RegisterComponent(&ecs.Active{})
	w.RegisterComponent(relationship.NewRelationships())
	w.RegisterComponent(&relationship.Relationship{})
	w.RegisterComponent(relationship.NewFriendship())
	w.RegisterComponent(relationship.NewRomance())
	w.RegisterComponent(relationship.NewInteractionScore())
	w.RegisterComponent(lifeevent.NewEventHistory())

	// Cross-cutting listeners: personal history and optional event logging.
	ecs.OnEvent(w.Events(), s.recordPersonalHistory)
	w.Events().OnAny(s.countEvent)
	if cfg.LogEvents {
		ecs.OnEvent(w.Events(), logLifeEvent)
	}

	for _, p := range plugins {
		if err := s.LoadPlugin(p); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// LoadPlugin validates and runs a plugin's setup against the live runtime.
// Missing setup hooks and version mismatches are fatal.
func (s *Simulation) LoadPlugin(p Plugin) error {
	if p.Setup == nil {
		return &PluginSetupError{Plugin: p.Info.Name, Reason: "no setup hook"}
	}
	if err := checkVersion(p.Info.RequiredVersion); err != nil {
		return &PluginSetupError{Plugin: p.Info.Name, Reason: err.Error()}
	}
	if err := p.Setup(s); err != nil {
		return &PluginSetupError{Plugin: p.Info.Name, Reason: err.Error()}
	}
	slog.Info("plugin loaded", "name", p.Info.Name, "version", p.Info.PluginVersion)
	return nil
}

// Date returns the current simulated date.
func (s *Simulation) Date() *simtime.SimDateTime {
	return ecs.MustResource[simtime.SimDateTime](s.World)
}

// EventLog returns the global life-event log.
func (s *Simulation) EventLog() *lifeevent.EventLog {
	return ecs.MustResource[lifeevent.EventLog](s.World)
}

// Step advances the simulation a single tick.
func (s *Simulation) Step() {
	s.World.Step()
}

// RunFor calls Step up to the given number of times, stopping cleanly at a
// step boundary when the context is cancelled. Partial runs leave the world
// in a valid, steppable state. Returns the number of steps completed.
func (s *Simulation) RunFor(ctx context.Context, steps int) int {
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			slog.Info("run interrupted at step boundary", "completed", i)
			return i
		default:
		}
		s.Step()
	}
	return steps
}

// recordPersonalHistory appends executed life events to the EventHistory of
// every bound role holder.
func (s *Simulation) recordPersonalHistory(event *lifeevent.LifeEvent) {
	for _, role := range event.Roles() {
		g := s.World.TryGet(role.GameObjectID)
		if g == nil {
			continue
		}
		if h := ecs.TryComponent[lifeevent.EventHistory](g); h != nil {
			h.Append(event.ID())
		}
	}
}

// countEvent feeds the data collector's per-run event counters.
func (s *Simulation) countEvent(e ecs.Event) {
	ecs.MustResource[DataCollector](s.World).Increment("events." + e.EventType())
}

func logLifeEvent(event *lifeevent.LifeEvent) {
	slog.Info("life event",
		"id", event.ID(),
		"name", event.Name(),
		"date", event.Timestamp(),
		"roles", len(event.Roles()),
	)
}

func mustGroup(sm *ecs.SystemManager, name, parent string) {
	if _, err := sm.AddGroup(name, parent); err != nil {
		panic(err)
	}
}

func mustSystem(sm *ecs.SystemManager, sys ecs.System, group string, priority int) {
	if err := sm.AddSystem(sys, group, priority); err != nil {
		panic(err)
	}
}
