package ecs

import (
	"fmt"
	"reflect"
)

// GameObject is an entity identity plus its attached components. At most one
// component of a given type is attached at any time; adding a second instance
// of the same type replaces the stored value under that type key.
type GameObject struct {
	id     uint64
	name   string
	world  *World
	active bool

	components map[reflect.Type]Component
	order      []reflect.Type // attach order, for deterministic iteration

	parent   *GameObject
	children []*GameObject
}

// ID returns the stable unique identifier. Ids are never reused.
func (g *GameObject) ID() uint64 { return g.id }

// Name returns the display name.
func (g *GameObject) Name() string { return g.name }

// SetName overrides the default display name.
func (g *GameObject) SetName(name string) { g.name = name }

// World returns the runtime this gameobject belongs to.
func (g *GameObject) World() *World { return g.world }

// IsActive reports whether the gameobject is a live participant in the
// simulation.
func (g *GameObject) IsActive() bool { return g.active }

// Activate marks the gameobject live and restores its Active tag.
func (g *GameObject) Activate() {
	g.active = true
	if !g.HasComponent(T[Active]()) {
		g.AddComponent(&Active{})
	}
}

// Deactivate marks the gameobject inactive and strips its Active tag through
// the normal component APIs so listeners observe the change.
func (g *GameObject) Deactivate() {
	g.active = false
	if g.HasComponent(T[Active]()) {
		_ = g.RemoveComponent(T[Active]())
	}
}

// Components returns the attached components in attach order.
func (g *GameObject) Components() []Component {
	out := make([]Component, 0, len(g.order))
	for _, t := range g.order {
		out = append(out, g.components[t])
	}
	return out
}

// AddComponent attaches a component, replacing any existing component of the
// same type. The on-add hook runs synchronously after the per-type index is
// updated.
func (g *GameObject) AddComponent(c Component) *GameObject {
	key := componentKey(c)

	if prev, ok := g.components[key]; ok {
		if hook, ok := prev.(OnRemover); ok {
			hook.OnRemove()
		}
		prev.setOwner(nil)
	} else {
		g.order = append(g.order, key)
	}

	c.setOwner(g)
	g.components[key] = c
	g.world.indexAdd(key, g.id)

	if hook, ok := c.(OnAdder); ok {
		hook.OnAdd()
	}
	return g
}

// RemoveComponent detaches the component of the given type. The on-remove
// hook runs before the back-reference is cleared. Returns a typed
// ComponentNotFoundError when the type is absent.
func (g *GameObject) RemoveComponent(t reflect.Type) error {
	c, ok := g.components[t]
	if !ok {
		return &ComponentNotFoundError{Type: t}
	}

	if hook, ok := c.(OnRemover); ok {
		hook.OnRemove()
	}

	delete(g.components, t)
	for i, ot := range g.order {
		if ot == t {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	g.world.indexRemove(t, g.id)
	c.setOwner(nil)
	return nil
}

// HasComponent reports whether all given component types are attached.
func (g *GameObject) HasComponent(types ...reflect.Type) bool {
	for _, t := range types {
		if _, ok := g.components[t]; !ok {
			return false
		}
	}
	return true
}

// GetComponent returns the component of type C, or a typed
// ComponentNotFoundError when absent.
func GetComponent[C any](g *GameObject) (*C, error) {
	c, ok := g.components[T[C]()]
	if !ok {
		return nil, &ComponentNotFoundError{Type: T[C]()}
	}
	return any(c).(*C), nil
}

// TryComponent returns the component of type C, or nil when absent. Use this
// family at call sites that treat absence as a normal branch.
func TryComponent[C any](g *GameObject) *C {
	c, ok := g.components[T[C]()]
	if !ok {
		return nil
	}
	return any(c).(*C)
}

// MustComponent returns the component of type C and panics when absent. For
// call sites whose invariants guarantee presence.
func MustComponent[C any](g *GameObject) *C {
	c, err := GetComponent[C](g)
	if err != nil {
		panic(err)
	}
	return c
}

// AddChild links a child gameobject. Destroying the parent transitively
// destroys children at the deferred-removal boundary, children first.
func (g *GameObject) AddChild(child *GameObject) {
	if child.parent != nil {
		child.parent.removeChild(child)
	}
	child.parent = g
	g.children = append(g.children, child)
}

// Children returns the linked child gameobjects.
func (g *GameObject) Children() []*GameObject { return g.children }

// Parent returns the linked parent gameobject, or nil.
func (g *GameObject) Parent() *GameObject { return g.parent }

func (g *GameObject) removeChild(child *GameObject) {
	for i, c := range g.children {
		if c == child {
			g.children = append(g.children[:i], g.children[i+1:]...)
			break
		}
	}
	child.parent = nil
}

// Archive deactivates the gameobject and strips every component not marked
// Persistent, in reverse attach order. The gameobject stays in the world.
func (g *GameObject) Archive() {
	for _, t := range g.order {
		if hook, ok := g.components[t].(OnArchiver); ok {
			hook.OnArchive()
		}
	}

	for i := len(g.order) - 1; i >= 0; i-- {
		t := g.order[i]
		c := g.components[t]
		if p, ok := c.(Persistent); ok && p.Persistent() {
			continue
		}
		_ = g.RemoveComponent(t)
	}
	g.active = false
}

// Snapshot returns a pure projection of the gameobject for external
// exporters. It is side-effect free and callable at any point between steps.
func (g *GameObject) Snapshot() map[string]any {
	components := make(map[string]any, len(g.order))
	for _, t := range g.order {
		if s, ok := g.components[t].(Snapshotter); ok {
			components[t.Name()] = s.Snapshot()
		} else {
			components[t.Name()] = map[string]any{}
		}
	}
	return map[string]any{
		"id":         g.id,
		"name":       g.name,
		"active":     g.active,
		"components": components,
	}
}

func (g *GameObject) String() string {
	return fmt.Sprintf("GameObject(id=%d, name=%s)", g.id, g.name)
}
