package lifeevent

import (
	"math/rand"
	"reflect"

	"github.com/talgya/storyworld/internal/ecs"
)

// RoleFilter narrows the gameobjects eligible for a role beyond its required
// component set.
type RoleFilter func(w *ecs.World, event *LifeEvent, g *ecs.GameObject) bool

// JoinFilters combines filters into one that passes only when all pass.
func JoinFilters(filters ...RoleFilter) RoleFilter {
	return func(w *ecs.World, event *LifeEvent, g *ecs.GameObject) bool {
		for _, f := range filters {
			if !f(w, event, g) {
				return false
			}
		}
		return true
	}
}

// RoleBinder overrides candidate enumeration for a role with custom lookup
// logic. Returning nil means the role cannot be filled.
type RoleBinder func(w *ecs.World, event *LifeEvent) *ecs.GameObject

// RoleType declares one role of a life event: the components a candidate
// must hold and an optional filter or binder.
type RoleType struct {
	Name       string
	Components []reflect.Type
	Filter     RoleFilter
	Binder     RoleBinder
}

// fill finds a gameobject for the role: the binder when one is set, otherwise
// a uniform random choice among all gameobjects satisfying the component set
// and filter, drawn from the shared RNG.
func (rt *RoleType) fill(w *ecs.World, event *LifeEvent) (Role, bool) {
	if rt.Binder != nil {
		g := rt.Binder(w, event)
		if g == nil {
			return Role{}, false
		}
		return Role{Name: rt.Name, GameObjectID: g.ID()}, true
	}

	var candidates []uint64
	for _, g := range w.Query(rt.Components...) {
		if rt.Filter == nil || rt.Filter(w, event, g) {
			candidates = append(candidates, g.ID())
		}
	}
	if len(candidates) == 0 {
		return Role{}, false
	}

	rng := ecs.MustResource[rand.Rand](w)
	chosen := candidates[rng.Intn(len(candidates))]
	return Role{Name: rt.Name, GameObjectID: chosen}, true
}

// fillWith validates a caller-supplied candidate against the role's
// requirements. A candidate that does not satisfy them is rejected outright.
func (rt *RoleType) fillWith(w *ecs.World, event *LifeEvent, candidate *ecs.GameObject) (Role, bool) {
	if !candidate.HasComponent(rt.Components...) {
		return Role{}, false
	}
	if rt.Filter != nil && !rt.Filter(w, event, candidate) {
		return Role{}, false
	}
	return Role{Name: rt.Name, GameObjectID: candidate.ID()}, true
}
