// Package simtime provides the simulated calendar resource and the system
// that advances it.
package simtime

import (
	"fmt"

	"github.com/talgya/storyworld/internal/ecs"
)

// Calendar constants: twelve 28-day months per simulated year.
const (
	DaysPerMonth  = 28
	MonthsPerYear = 12
	DaysPerYear   = DaysPerMonth * MonthsPerYear
)

// SimDateTime is the current simulated date, shared as a world resource. One
// step advances one day.
type SimDateTime struct {
	days int // days since year 1, month 1, day 1
}

// New returns a date at year 1, month 1, day 1.
func New() *SimDateTime {
	return &SimDateTime{}
}

// At returns a date at the given calendar position (all 1-based).
func At(year, month, day int) *SimDateTime {
	return &SimDateTime{days: (year-1)*DaysPerYear + (month-1)*DaysPerMonth + (day - 1)}
}

// Year returns the 1-based simulated year.
func (d *SimDateTime) Year() int { return d.days/DaysPerYear + 1 }

// Month returns the 1-based month within the year.
func (d *SimDateTime) Month() int { return (d.days%DaysPerYear)/DaysPerMonth + 1 }

// Day returns the 1-based day within the month.
func (d *SimDateTime) Day() int { return d.days%DaysPerMonth + 1 }

// TotalDays returns days elapsed since the calendar origin.
func (d *SimDateTime) TotalDays() int { return d.days }

// Increment advances the date by the given number of days.
func (d *SimDateTime) Increment(days int) { d.days += days }

// Before reports whether d is earlier than other.
func (d *SimDateTime) Before(other *SimDateTime) bool { return d.days < other.days }

// Copy returns an independent copy of the date.
func (d *SimDateTime) Copy() *SimDateTime { return &SimDateTime{days: d.days} }

// String renders the date in a sortable ISO-like form.
func (d *SimDateTime) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year(), d.Month(), d.Day())
}

// TimeSystem advances the date one day per step. It registers outside every
// system group at the lowest priority so all other systems observe the same
// date for the entire step.
type TimeSystem struct{}

// Update advances the shared date resource.
func (*TimeSystem) Update(w *ecs.World) {
	ecs.MustResource[SimDateTime](w).Increment(1)
}
