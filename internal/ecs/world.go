// Package ecs is the entity-component-system runtime underneath the
// simulation: gameobject lifecycle and component storage, process-wide
// resources, ordered system groups, and a synchronous event bus.
package ecs

import (
	"fmt"
	"log/slog"
	"reflect"
)

// World manages gameobjects, resources, systems, and event listeners for one
// simulation. It is single-threaded: exactly one Step executes at a time and
// everything inside it runs synchronously to completion.
type World struct {
	nextID      uint64
	gameobjects map[uint64]*GameObject
	spawnOrder  []uint64

	// Destruction is requested during a step but applied only at the top of
	// the next one, so no system observes a gameobject vanish mid-step.
	dead      map[uint64]struct{}
	deadOrder []uint64

	index      map[reflect.Type]map[uint64]struct{}
	registered map[string]reflect.Type

	resources map[reflect.Type]any

	systems *SystemManager
	events  *EventManager
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{
		nextID:      1,
		gameobjects: make(map[uint64]*GameObject),
		dead:        make(map[uint64]struct{}),
		index:       make(map[reflect.Type]map[uint64]struct{}),
		registered:  make(map[string]reflect.Type),
		resources:   make(map[reflect.Type]any),
		systems:     NewSystemManager(),
		events:      NewEventManager(),
	}
}

// Systems returns the system scheduler.
func (w *World) Systems() *SystemManager { return w.systems }

// Events returns the event bus.
func (w *World) Events() *EventManager { return w.events }

// Spawn creates a new gameobject with a fresh id and attaches the given
// components in order, invoking each on-add hook. Every spawned gameobject
// starts live with an Active tag.
func (w *World) Spawn(components ...Component) *GameObject {
	id := w.nextID
	w.nextID++

	g := &GameObject{
		id:         id,
		name:       fmt.Sprintf("gameobject-%d", id),
		world:      w,
		active:     true,
		components: make(map[reflect.Type]Component),
	}
	w.gameobjects[id] = g
	w.spawnOrder = append(w.spawnOrder, id)

	g.AddComponent(&Active{})
	for _, c := range components {
		g.AddComponent(c)
	}
	return g
}

// Get returns the gameobject with the given id, or a typed
// GameObjectNotFoundError.
func (w *World) Get(id uint64) (*GameObject, error) {
	g, ok := w.gameobjects[id]
	if !ok {
		return nil, &GameObjectNotFoundError{ID: id}
	}
	return g, nil
}

// TryGet returns the gameobject with the given id, or nil when absent.
func (w *World) TryGet(id uint64) *GameObject {
	return w.gameobjects[id]
}

// Has reports whether a gameobject with the given id exists. It stays true
// for the remainder of the step a destruction was requested in.
func (w *World) Has(id uint64) bool {
	_, ok := w.gameobjects[id]
	return ok
}

// GameObjects returns every gameobject in spawn order.
func (w *World) GameObjects() []*GameObject {
	out := make([]*GameObject, 0, len(w.spawnOrder))
	for _, id := range w.spawnOrder {
		out = append(out, w.gameobjects[id])
	}
	return out
}

// Destroy enqueues a gameobject for removal at the top of the next step.
// Destroying twice is a no-op.
func (w *World) Destroy(id uint64) {
	if _, ok := w.gameobjects[id]; !ok {
		return
	}
	if _, ok := w.dead[id]; ok {
		return
	}
	w.dead[id] = struct{}{}
	w.deadOrder = append(w.deadOrder, id)
}

// Query returns, in spawn order, every gameobject holding all requested
// component types. Stable across calls with no intervening mutation.
func (w *World) Query(types ...reflect.Type) []*GameObject {
	var out []*GameObject
	for _, id := range w.spawnOrder {
		g := w.gameobjects[id]
		if g.HasComponent(types...) {
			out = append(out, g)
		}
	}
	return out
}

// RegisterComponent records a component type under its struct name so that
// content loaders can resolve types from data files. Registration is part of
// the plugin contract; the store itself does not require it.
func (w *World) RegisterComponent(prototype Component) {
	key := componentKey(prototype)
	if prev, ok := w.registered[key.Name()]; ok && prev != key {
		slog.Warn("component name already registered", "name", key.Name())
	}
	w.registered[key.Name()] = key
}

// ComponentTypeByName resolves a registered component type from its struct
// name.
func (w *World) ComponentTypeByName(name string) (reflect.Type, bool) {
	t, ok := w.registered[name]
	return t, ok
}

// Step purges gameobjects queued for destruction, then runs every system
// group depth-first in registration order.
func (w *World) Step() {
	w.purgeDead()
	w.systems.update(w)
}

// purgeDead physically removes gameobjects marked dead since the previous
// step. Children are destroyed transitively before their parent.
func (w *World) purgeDead() {
	// deadOrder grows while cascading into children.
	for i := 0; i < len(w.deadOrder); i++ {
		id := w.deadOrder[i]
		g, ok := w.gameobjects[id]
		if !ok {
			continue
		}
		for _, child := range g.children {
			if _, queued := w.dead[child.id]; !queued {
				w.dead[child.id] = struct{}{}
				w.deadOrder = append(w.deadOrder, child.id)
			}
		}
	}

	// Remove children before parents: a child queued after its parent sits
	// later in deadOrder, so walk it backwards.
	for i := len(w.deadOrder) - 1; i >= 0; i-- {
		id := w.deadOrder[i]
		g, ok := w.gameobjects[id]
		if !ok {
			continue
		}

		for j := len(g.order) - 1; j >= 0; j-- {
			_ = g.RemoveComponent(g.order[j])
		}
		if g.parent != nil {
			g.parent.removeChild(g)
		}
		g.active = false

		delete(w.gameobjects, id)
		for j, oid := range w.spawnOrder {
			if oid == id {
				w.spawnOrder = append(w.spawnOrder[:j], w.spawnOrder[j+1:]...)
				break
			}
		}
	}

	w.dead = make(map[uint64]struct{})
	w.deadOrder = w.deadOrder[:0]
}

func (w *World) indexAdd(t reflect.Type, id uint64) {
	set, ok := w.index[t]
	if !ok {
		set = make(map[uint64]struct{})
		w.index[t] = set
	}
	set[id] = struct{}{}
}

func (w *World) indexRemove(t reflect.Type, id uint64) {
	if set, ok := w.index[t]; ok {
		delete(set, id)
	}
}

// indexHas reports component membership in O(1); used by the query builder.
func (w *World) indexHas(t reflect.Type, id uint64) bool {
	set, ok := w.index[t]
	if !ok {
		return false
	}
	_, ok = set[id]
	return ok
}
