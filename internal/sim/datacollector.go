package sim

import (
	"github.com/talgya/storyworld/internal/ecs"
	"github.com/talgya/storyworld/internal/simtime"
)

// DataCollector is a world resource that accumulates per-run counters and
// named tables of rows for later analysis or export.
type DataCollector struct {
	counters map[string]int
	tables   map[string][]map[string]any
}

// NewDataCollector creates an empty collector.
func NewDataCollector() *DataCollector {
	return &DataCollector{
		counters: make(map[string]int),
		tables:   make(map[string][]map[string]any),
	}
}

// Increment bumps a named counter.
func (c *DataCollector) Increment(name string) {
	c.counters[name]++
}

// Counter returns the value of a named counter.
func (c *DataCollector) Counter(name string) int {
	return c.counters[name]
}

// AddRow appends a row to a named table, creating the table on first use.
func (c *DataCollector) AddRow(table string, row map[string]any) {
	c.tables[table] = append(c.tables[table], row)
}

// Table returns the rows of a named table in append order.
func (c *DataCollector) Table(table string) []map[string]any {
	return append([]map[string]any(nil), c.tables[table]...)
}

// populationSampleSystem records per-step gameobject counts into the
// "population" table. Runs first in the data-collection subgroup so each row
// reflects the state entering the step.
type populationSampleSystem struct{}

func (*populationSampleSystem) Update(w *ecs.World) {
	collector := ecs.MustResource[DataCollector](w)
	collector.AddRow("population", map[string]any{
		"date":   ecs.MustResource[simtime.SimDateTime](w).String(),
		"total":  len(w.GameObjects()),
		"active": len(w.Query(ecs.T[ecs.Active]())),
	})
}
