package relationship

import (
	"github.com/talgya/storyworld/internal/ecs"
)

// SocialRule is a policy applied to relationships that match its
// precondition. Apply and Remove must be matched effects: removing a rule
// undoes what applying it did. Rules mutate relationships through the normal
// component APIs only.
type SocialRule interface {
	// Precondition reports whether the rule applies to the relationship.
	Precondition(owner, target, rel *ecs.GameObject) bool

	// Apply performs the rule's effects on the relationship.
	Apply(owner, target, rel *ecs.GameObject)

	// Remove undoes the rule's effects on the relationship.
	Remove(owner, target, rel *ecs.GameObject)
}

// SocialRuleLibrary is the registry of social rules used during the
// simulation, owned by the world's resource registry.
type SocialRuleLibrary struct {
	rules []SocialRule
}

// NewSocialRuleLibrary creates an empty library.
func NewSocialRuleLibrary() *SocialRuleLibrary {
	return &SocialRuleLibrary{}
}

// AddRule registers a social rule. Rules are evaluated in registration order.
func (l *SocialRuleLibrary) AddRule(rule SocialRule) {
	l.rules = append(l.rules, rule)
}

// Rules returns the registered rules in registration order.
func (l *SocialRuleLibrary) Rules() []SocialRule {
	return append([]SocialRule(nil), l.rules...)
}

// EvaluateSocialRulesSystem re-evaluates every library rule against every
// active relationship each step: rules whose preconditions newly pass are
// applied, rules that no longer pass are removed. Runs in the
// relationship-update subgroup.
type EvaluateSocialRulesSystem struct{}

// Update implements ecs.System.
func (*EvaluateSocialRulesSystem) Update(w *ecs.World) {
	library := ecs.MustResource[SocialRuleLibrary](w)
	rules := library.Rules()
	if len(rules) == 0 {
		return
	}

	for _, rel := range w.Query(ecs.T[Relationship](), ecs.T[ecs.Active]()) {
		relationship := ecs.MustComponent[Relationship](rel)
		owner := relationship.RelOwner()
		target := relationship.Target()

		for _, rule := range rules {
			active := relationship.HasRule(rule)
			passes := rule.Precondition(owner, target, rel)
			switch {
			case passes && !active:
				rule.Apply(owner, target, rel)
				relationship.AddRule(rule)
			case !passes && active:
				rule.Remove(owner, target, rel)
				relationship.RemoveRule(rule)
			}
		}
	}
}
