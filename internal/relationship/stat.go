package relationship

import "github.com/talgya/storyworld/internal/ecs"

// Stat is a numeric score clamped to a configured range.
type Stat struct {
	value float64
	min   float64
	max   float64
}

// NewStat creates a stat with the given starting value and range.
func NewStat(value, min, max float64) Stat {
	s := Stat{min: min, max: max}
	s.Set(value)
	return s
}

// Value returns the current score.
func (s *Stat) Value() float64 { return s.value }

// Min returns the lower clamp bound.
func (s *Stat) Min() float64 { return s.min }

// Max returns the upper clamp bound.
func (s *Stat) Max() float64 { return s.max }

// Set replaces the score, clamping to the configured range.
func (s *Stat) Set(v float64) {
	if v < s.min {
		v = s.min
	}
	if v > s.max {
		v = s.max
	}
	s.value = v
}

// Add shifts the score by delta, clamping to the configured range.
func (s *Stat) Add(delta float64) { s.Set(s.value + delta) }

// Snapshot implements ecs.Snapshotter for stat components.
func (s *Stat) Snapshot() map[string]any {
	return map[string]any{"value": s.value, "min": s.min, "max": s.max}
}

// Friendship tracks platonic affinity from the owner toward the target.
type Friendship struct {
	ecs.BaseComponent
	Stat
}

// NewFriendship returns a friendship stat at 0 in [-100, 100].
func NewFriendship() *Friendship {
	return &Friendship{Stat: NewStat(0, -100, 100)}
}

// Romance tracks romantic affinity from the owner toward the target.
type Romance struct {
	ecs.BaseComponent
	Stat
}

// NewRomance returns a romance stat at 0 in [-100, 100].
func NewRomance() *Romance {
	return &Romance{Stat: NewStat(0, -100, 100)}
}

// InteractionScore tracks how often the pair interacts.
type InteractionScore struct {
	ecs.BaseComponent
	Stat
}

// NewInteractionScore returns an interaction score at 0 in [0, 100].
func NewInteractionScore() *InteractionScore {
	return &InteractionScore{Stat: NewStat(0, 0, 100)}
}
