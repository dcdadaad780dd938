// Package lifeevent is the probabilistic life-event engine: event types
// declare named roles with component and filter requirements, the engine
// binds gameobjects to roles under the shared RNG, gates execution on a
// per-event probability, and records executed events in an append-only log.
package lifeevent

import (
	"fmt"
	"strings"
)

// Role is a symbolic role name bound to a concrete gameobject.
type Role struct {
	Name         string
	GameObjectID uint64
}

// LifeEvent is an immutable, timestamped record of an occurrence in the
// story world. It exists only fully bound: every declared role of its event
// type holds a gameobject that satisfied that role's constraints at binding
// time.
type LifeEvent struct {
	id        uint64 // assigned by the event log, 0 until recorded
	name      string
	timestamp string
	roles     []Role
	metadata  map[string]any
}

// ID returns the log id. Zero until the event is recorded.
func (e *LifeEvent) ID() uint64 { return e.id }

// Name returns the event type name.
func (e *LifeEvent) Name() string { return e.name }

// Timestamp returns the simulated date the event occurred on.
func (e *LifeEvent) Timestamp() string { return e.timestamp }

// Roles returns the role bindings in declaration order.
func (e *LifeEvent) Roles() []Role {
	return append([]Role(nil), e.roles...)
}

// Role returns the gameobject id bound to the named role.
func (e *LifeEvent) Role(name string) (uint64, bool) {
	for _, r := range e.roles {
		if r.Name == name {
			return r.GameObjectID, true
		}
	}
	return 0, false
}

// SetMetadata attaches an auxiliary payload value, typically from a role
// binder or effect. Metadata never affects binding or the probability gate.
func (e *LifeEvent) SetMetadata(key string, value any) {
	if e.metadata == nil {
		e.metadata = make(map[string]any)
	}
	e.metadata[key] = value
}

// Metadata returns the attached payload values.
func (e *LifeEvent) Metadata() map[string]any {
	out := make(map[string]any, len(e.metadata))
	for k, v := range e.metadata {
		out[k] = v
	}
	return out
}

// EventType implements ecs.Event so executed life events travel over the
// world's bus.
func (e *LifeEvent) EventType() string { return e.name }

// Snapshot returns a pure projection for external exporters.
func (e *LifeEvent) Snapshot() map[string]any {
	roles := make(map[string]any, len(e.roles))
	for _, r := range e.roles {
		roles[r.Name] = r.GameObjectID
	}
	return map[string]any{
		"id":        e.id,
		"name":      e.name,
		"timestamp": e.timestamp,
		"roles":     roles,
		"metadata":  e.Metadata(),
	}
}

func (e *LifeEvent) String() string {
	parts := make([]string, 0, len(e.roles))
	for _, r := range e.roles {
		parts = append(parts, fmt.Sprintf("%s:%d", r.Name, r.GameObjectID))
	}
	return fmt.Sprintf("%s [at %s] : %s", e.name, e.timestamp, strings.Join(parts, ", "))
}
