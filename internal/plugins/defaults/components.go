// Package defaults is the built-in content plugin: character components,
// aging, and mortality. Story packs layer on top of it through additional
// plugins.
package defaults

import (
	"fmt"

	"github.com/talgya/storyworld/internal/ecs"
)

// GameCharacter marks a gameobject as a character and carries its name.
type GameCharacter struct {
	ecs.BaseComponent

	FirstName string
	LastName  string
}

// FullName returns "First Last".
func (c *GameCharacter) FullName() string {
	return c.FirstName + " " + c.LastName
}

// OnAdd sets the owning gameobject's display name.
func (c *GameCharacter) OnAdd() {
	c.Owner().SetName(c.FullName())
}

// Persistent keeps character identity on archived gameobjects.
func (c *GameCharacter) Persistent() bool { return true }

// Snapshot implements ecs.Snapshotter.
func (c *GameCharacter) Snapshot() map[string]any {
	return map[string]any{"first_name": c.FirstName, "last_name": c.LastName}
}

func (c *GameCharacter) String() string {
	return fmt.Sprintf("GameCharacter(%s)", c.FullName())
}

// Age tracks elapsed lifetime in simulated years.
type Age struct {
	ecs.BaseComponent

	Years float64
}

// Snapshot implements ecs.Snapshotter.
func (a *Age) Snapshot() map[string]any {
	return map[string]any{"years": a.Years}
}

// Lifespan is the age at which a character becomes eligible to die of old
// age.
type Lifespan struct {
	ecs.BaseComponent

	Years float64
}

// Snapshot implements ecs.Snapshotter.
func (l *Lifespan) Snapshot() map[string]any {
	return map[string]any{"years": l.Years}
}

// CanAge tags gameobjects whose Age advances each step.
type CanAge struct {
	ecs.BaseComponent
}

// Deceased tags characters that have died. It survives archiving.
type Deceased struct {
	ecs.BaseComponent
}

// Persistent keeps the death marker on archived gameobjects.
func (d *Deceased) Persistent() bool { return true }
