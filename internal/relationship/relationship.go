// Package relationship models directed social ties between gameobjects.
// Each relationship is its own gameobject indexed from both endpoints: the
// owner's outgoing map and the target's incoming map always point at the same
// relationship gameobject.
package relationship

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/talgya/storyworld/internal/ecs"
)

// Relationship tags a gameobject as a directed edge and tracks its endpoints
// plus the social rules currently applied to it.
type Relationship struct {
	ecs.BaseComponent

	owner  *ecs.GameObject
	target *ecs.GameObject

	activeRules []SocialRule
}

// NewRelationship creates the edge component for the given ordered pair.
func NewRelationship(owner, target *ecs.GameObject) *Relationship {
	return &Relationship{owner: owner, target: target}
}

// RelOwner returns the gameobject that owns the relationship.
func (r *Relationship) RelOwner() *ecs.GameObject { return r.owner }

// Target returns the gameobject the relationship is directed toward.
func (r *Relationship) Target() *ecs.GameObject { return r.target }

// OnAdd wires the relationship gameobject into both endpoint indices.
func (r *Relationship) OnAdd() {
	rel := r.Owner()
	ecs.MustComponent[Relationships](r.owner).outgoing[r.target.ID()] = rel
	ecs.MustComponent[Relationships](r.target).incoming[r.owner.ID()] = rel
}

// OnRemove unwires the relationship gameobject from both endpoint indices,
// keeping them symmetric.
func (r *Relationship) OnRemove() {
	if m := ecs.TryComponent[Relationships](r.owner); m != nil {
		delete(m.outgoing, r.target.ID())
	}
	if m := ecs.TryComponent[Relationships](r.target); m != nil {
		delete(m.incoming, r.owner.ID())
	}
}

// AddRule applies a social rule to this relationship, independent of the
// library-wide evaluation pass.
func (r *Relationship) AddRule(rule SocialRule) {
	r.activeRules = append(r.activeRules, rule)
}

// RemoveRule removes a previously applied rule. Returns false when the rule
// is not active on this relationship.
func (r *Relationship) RemoveRule(rule SocialRule) bool {
	for i, active := range r.activeRules {
		if active == rule {
			r.activeRules = append(r.activeRules[:i], r.activeRules[i+1:]...)
			return true
		}
	}
	return false
}

// HasRule reports whether the rule is currently applied.
func (r *Relationship) HasRule(rule SocialRule) bool {
	for _, active := range r.activeRules {
		if active == rule {
			return true
		}
	}
	return false
}

// ActiveRules returns the rules currently applied, in application order.
func (r *Relationship) ActiveRules() []SocialRule {
	return append([]SocialRule(nil), r.activeRules...)
}

// Snapshot implements ecs.Snapshotter.
func (r *Relationship) Snapshot() map[string]any {
	return map[string]any{
		"owner":  r.owner.ID(),
		"target": r.target.ID(),
	}
}

func (r *Relationship) String() string {
	return fmt.Sprintf("Relationship(%s -> %s)", r.owner.Name(), r.target.Name())
}

// Relationships tracks every relationship attached to a gameobject, keyed by
// the id of the other endpoint.
type Relationships struct {
	ecs.BaseComponent

	outgoing map[uint64]*ecs.GameObject // target id → relationship gameobject
	incoming map[uint64]*ecs.GameObject // owner id → relationship gameobject
}

// NewRelationships creates an empty relationship index component.
func NewRelationships() *Relationships {
	return &Relationships{
		outgoing: make(map[uint64]*ecs.GameObject),
		incoming: make(map[uint64]*ecs.GameObject),
	}
}

// Outgoing returns the relationship gameobject toward the given target, or
// nil when none exists.
func (m *Relationships) Outgoing(targetID uint64) *ecs.GameObject {
	return m.outgoing[targetID]
}

// Incoming returns the relationship gameobject from the given owner, or nil
// when none exists.
func (m *Relationships) Incoming(ownerID uint64) *ecs.GameObject {
	return m.incoming[ownerID]
}

// OutgoingCount returns the number of outgoing relationships.
func (m *Relationships) OutgoingCount() int { return len(m.outgoing) }

// Persistent keeps the index on archived gameobjects so both endpoints of
// every edge stay resolvable after death.
func (m *Relationships) Persistent() bool { return true }

// Snapshot implements ecs.Snapshotter.
func (m *Relationships) Snapshot() map[string]any {
	out := make(map[string]any, len(m.outgoing))
	for target, rel := range m.outgoing {
		out[fmt.Sprintf("%d", target)] = rel.ID()
	}
	in := make(map[string]any, len(m.incoming))
	for owner, rel := range m.incoming {
		in[fmt.Sprintf("%d", owner)] = rel.ID()
	}
	return map[string]any{"outgoing": out, "incoming": in}
}

// CreatedEvent is dispatched when a relationship gameobject is first created.
type CreatedEvent struct {
	Relationship *ecs.GameObject
	RelOwner     *ecs.GameObject
	Target       *ecs.GameObject
}

// EventType implements ecs.Event.
func (*CreatedEvent) EventType() string { return "relationship-created" }

// GetOrCreate returns the relationship gameobject for the ordered
// (owner, target) pair, creating it lazily on first access. A new
// relationship gets the fixed base set of stat components and an empty rule
// list, the created event is dispatched, and every registered social rule
// whose precondition passes is applied.
func GetOrCreate(owner, target *ecs.GameObject) *ecs.GameObject {
	index := ecs.MustComponent[Relationships](owner)
	if rel := index.outgoing[target.ID()]; rel != nil {
		return rel
	}

	w := owner.World()
	rel := w.Spawn(
		NewFriendship(),
		NewRomance(),
		NewInteractionScore(),
		NewRelationship(owner, target),
	)
	rel.SetName(fmt.Sprintf("rel(%s -> %s)", owner.Name(), target.Name()))

	w.Events().Dispatch(&CreatedEvent{Relationship: rel, RelOwner: owner, Target: target})

	library := ecs.MustResource[SocialRuleLibrary](w)
	relationship := ecs.MustComponent[Relationship](rel)
	for _, rule := range library.Rules() {
		if rule.Precondition(owner, target, rel) {
			rule.Apply(owner, target, rel)
			relationship.AddRule(rule)
		}
	}
	return rel
}

// Has reports whether a relationship from owner to target exists. It is a
// pure check and never creates.
func Has(owner, target *ecs.GameObject) bool {
	index := ecs.TryComponent[Relationships](owner)
	if index == nil {
		return false
	}
	return index.outgoing[target.ID()] != nil
}

// Deactivate deactivates every relationship attached to the gameobject, both
// outgoing and incoming. The relationship gameobjects and both endpoint
// indices stay in place, keeping the graph symmetric.
func Deactivate(g *ecs.GameObject) {
	index := ecs.TryComponent[Relationships](g)
	if index == nil {
		return
	}
	for _, rel := range index.outgoing {
		rel.Deactivate()
	}
	for _, rel := range index.incoming {
		rel.Deactivate()
	}
}

// WithComponents returns the outgoing relationship gameobjects holding all
// the given component types, ordered by relationship id.
func WithComponents(g *ecs.GameObject, types ...reflect.Type) []*ecs.GameObject {
	if len(types) == 0 {
		return nil
	}
	index := ecs.TryComponent[Relationships](g)
	if index == nil {
		return nil
	}
	var out []*ecs.GameObject
	for _, rel := range index.outgoing {
		if rel.HasComponent(types...) {
			out = append(out, rel)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}
