package ecs

import (
	"log/slog"
	"reflect"
)

// Resources are process-wide singleton services: one instance per concrete
// type, owned by the world for the lifetime of the simulation, looked up by
// static type rather than by name.

// AddResource stores one instance per concrete type. Replacing an existing
// resource logs a warning, not an error.
func (w *World) AddResource(resource any) {
	key := resourceKey(resource)
	if _, ok := w.resources[key]; ok {
		slog.Warn("replacing existing resource", "type", key.Name())
	}
	w.resources[key] = resource
}

// RemoveResource deletes the resource of type R. Removing a type that was
// never added returns a typed ResourceNotFoundError.
func RemoveResource[R any](w *World) error {
	key := T[R]()
	if _, ok := w.resources[key]; !ok {
		return &ResourceNotFoundError{Type: key}
	}
	delete(w.resources, key)
	return nil
}

// GetResource returns the resource of type R, or a typed
// ResourceNotFoundError when absent.
func GetResource[R any](w *World) (*R, error) {
	r, ok := w.resources[T[R]()]
	if !ok {
		return nil, &ResourceNotFoundError{Type: T[R]()}
	}
	return r.(*R), nil
}

// TryResource returns the resource of type R, or nil when absent.
func TryResource[R any](w *World) *R {
	r, ok := w.resources[T[R]()]
	if !ok {
		return nil
	}
	return r.(*R)
}

// MustResource returns the resource of type R and panics when absent. For
// systems whose wiring guarantees presence.
func MustResource[R any](w *World) *R {
	r, err := GetResource[R](w)
	if err != nil {
		panic(err)
	}
	return r
}

// HasResource reports whether a resource of type R is registered.
func HasResource[R any](w *World) bool {
	_, ok := w.resources[T[R]()]
	return ok
}

// Resources returns every registered resource instance.
func (w *World) Resources() []any {
	out := make([]any, 0, len(w.resources))
	for _, r := range w.resources {
		out = append(out, r)
	}
	return out
}

// resourceKey derives the lookup key for a resource instance. Resources are
// pointers, so the key is the pointed-to type.
func resourceKey(r any) reflect.Type {
	t := reflect.TypeOf(r)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
