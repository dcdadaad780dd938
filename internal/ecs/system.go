package ecs

import (
	"fmt"
	"sort"
)

// System is one unit of per-step logic.
type System interface {
	Update(w *World)
}

type systemEntry struct {
	system   System
	priority int
	seq      int
}

// SystemGroup is an ordered collection of systems executed as a unit. Groups
// nest: a group is itself a System, so the scheduler is a fixed tree run
// depth-first. Within a group, higher priority runs first; registration order
// breaks ties.
type SystemGroup struct {
	name    string
	entries []systemEntry
	nextSeq int
}

// Name returns the group's registered name.
func (g *SystemGroup) Name() string { return g.name }

func (g *SystemGroup) add(s System, priority int) {
	g.entries = append(g.entries, systemEntry{system: s, priority: priority, seq: g.nextSeq})
	g.nextSeq++
	sort.SliceStable(g.entries, func(i, j int) bool {
		if g.entries[i].priority != g.entries[j].priority {
			return g.entries[i].priority > g.entries[j].priority
		}
		return g.entries[i].seq < g.entries[j].seq
	})
}

// Update runs every member system in order.
func (g *SystemGroup) Update(w *World) {
	for _, e := range g.entries {
		e.system.Update(w)
	}
}

// SystemManager schedules system groups in a fixed order each step. Top-level
// groups execute in registration order, never numerically negotiated: later
// groups depend on state only correctly populated by earlier ones.
type SystemManager struct {
	root   *SystemGroup
	groups map[string]*SystemGroup
}

// NewSystemManager creates an empty scheduler.
func NewSystemManager() *SystemManager {
	return &SystemManager{
		root:   &SystemGroup{name: "root"},
		groups: make(map[string]*SystemGroup),
	}
}

// AddGroup registers a new group under the named parent, or at the top level
// when parent is empty. Groups run in the order they are added.
func (sm *SystemManager) AddGroup(name, parent string) (*SystemGroup, error) {
	if _, ok := sm.groups[name]; ok {
		return nil, fmt.Errorf("system group %q already exists", name)
	}
	container := sm.root
	if parent != "" {
		p, ok := sm.groups[parent]
		if !ok {
			return nil, fmt.Errorf("parent system group %q not found", parent)
		}
		container = p
	}
	g := &SystemGroup{name: name}
	sm.groups[name] = g
	container.add(g, 0)
	return g, nil
}

// AddSystem registers a system into the named group with the given priority.
// An empty group name places the system outside every group at the top level;
// the time-advancement system uses this with the lowest priority so all other
// systems observe a consistent date for the entire step.
func (sm *SystemManager) AddSystem(s System, group string, priority int) error {
	container := sm.root
	if group != "" {
		g, ok := sm.groups[group]
		if !ok {
			return fmt.Errorf("system group %q not found", group)
		}
		container = g
	}
	container.add(s, priority)
	return nil
}

// Group returns the named group.
func (sm *SystemManager) Group(name string) (*SystemGroup, bool) {
	g, ok := sm.groups[name]
	return g, ok
}

func (sm *SystemManager) update(w *World) {
	sm.root.Update(w)
}
