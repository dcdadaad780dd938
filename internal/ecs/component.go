package ecs

import "reflect"

// Component is typed data owned by exactly one gameobject. Concrete components
// embed BaseComponent to satisfy the interface and are always used as
// pointers:
//
//	type Age struct {
//		ecs.BaseComponent
//		Years float64
//	}
type Component interface {
	// Owner returns the gameobject this component is attached to, or nil
	// when detached.
	Owner() *GameObject

	setOwner(*GameObject)
}

// BaseComponent carries the back-reference to the owning gameobject. It is
// the only ownership edge a component holds.
type BaseComponent struct {
	owner *GameObject
}

// Owner returns the gameobject this component is attached to.
func (b *BaseComponent) Owner() *GameObject { return b.owner }

func (b *BaseComponent) setOwner(g *GameObject) { b.owner = g }

// OnAdder is implemented by components that need to react to being attached.
// The hook runs synchronously after the owner back-reference is set and the
// per-type index is updated.
type OnAdder interface {
	OnAdd()
}

// OnRemover is implemented by components that need to react to being
// detached. The hook runs before the owner back-reference is cleared.
type OnRemover interface {
	OnRemove()
}

// OnArchiver is implemented by components that react to their gameobject
// being archived.
type OnArchiver interface {
	OnArchive()
}

// Persistent marks a component as surviving Archive. Ordinary components are
// stripped when their gameobject is archived.
type Persistent interface {
	Persistent() bool
}

// Snapshotter is implemented by components that contribute data to a
// gameobject snapshot. The projection must be side-effect free.
type Snapshotter interface {
	Snapshot() map[string]any
}

// T returns the type token used to key component and resource storage.
// Pass the value type, not the pointer: ecs.T[Age]().
func T[C any]() reflect.Type {
	return reflect.TypeOf((*C)(nil)).Elem()
}

// componentKey derives the storage key for a component instance. Components
// are pointers, so the key is the pointed-to struct type.
func componentKey(c Component) reflect.Type {
	t := reflect.TypeOf(c)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// Active tags gameobjects that are live participants in the simulation.
// Systems and role queries filter on it; deactivation removes the tag through
// the normal component APIs so listeners observe the change.
type Active struct {
	BaseComponent
}
