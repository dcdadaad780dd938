package ecs

import (
	"fmt"
	"reflect"
)

// GameObjectNotFoundError is returned when a lookup references an id that is
// not in the world. Callers that treat absence as a normal branch should use
// TryGet instead.
type GameObjectNotFoundError struct {
	ID uint64
}

func (e *GameObjectNotFoundError) Error() string {
	return fmt.Sprintf("gameobject %d not found", e.ID)
}

// ComponentNotFoundError is returned by the must-exist component accessors.
type ComponentNotFoundError struct {
	Type reflect.Type
}

func (e *ComponentNotFoundError) Error() string {
	return fmt.Sprintf("component %s not found", e.Type.Name())
}

// ResourceNotFoundError is returned by the must-exist resource accessors.
type ResourceNotFoundError struct {
	Type reflect.Type
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("resource %s not found", e.Type.Name())
}
