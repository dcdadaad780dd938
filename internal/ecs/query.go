package ecs

import (
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// The query builder finds tuples of gameobjects matching a pattern: a
// relational join over component-indexed candidate sets, then predicate
// filtering. Variables name the tuple positions; clauses run left to right,
// each refining the relation produced so far.

// FilterFn is a predicate over the gameobjects bound to a relation row.
type FilterFn func(w *World, gameobjects ...*GameObject) bool

// Relation is a collection of gameobject-id rows associated with query
// variables.
type Relation struct {
	symbols []string
	rows    [][]uint64
}

func emptyRelation() *Relation { return &Relation{} }

// Symbols returns the variable names bound in this relation.
func (r *Relation) Symbols() []string { return r.symbols }

// Empty reports whether the relation holds no rows.
func (r *Relation) Empty() bool { return len(r.rows) == 0 }

// Tuples projects the relation onto the given symbols. Returns nil when any
// symbol is unbound.
func (r *Relation) Tuples(symbols ...string) [][]uint64 {
	if len(symbols) == 0 {
		symbols = r.symbols
	}
	idx := make([]int, len(symbols))
	for i, s := range symbols {
		pos := indexOf(r.symbols, s)
		if pos < 0 {
			return nil
		}
		idx[i] = pos
	}
	out := make([][]uint64, 0, len(r.rows))
	for _, row := range r.rows {
		tuple := make([]uint64, len(idx))
		for i, pos := range idx {
			tuple[i] = row[pos]
		}
		out = append(out, tuple)
	}
	return out
}

// unify joins two relations: a natural join on shared symbols, or a cross
// product when the symbol sets are disjoint.
func (r *Relation) unify(other *Relation) *Relation {
	if r.Empty() || other.Empty() {
		return emptyRelation()
	}

	var shared []string
	for _, s := range r.symbols {
		if indexOf(other.symbols, s) >= 0 {
			shared = append(shared, s)
		}
	}

	// Symbols of the result: all of r's, then other's non-shared.
	symbols := append([]string(nil), r.symbols...)
	var extraIdx []int
	for i, s := range other.symbols {
		if indexOf(r.symbols, s) < 0 {
			symbols = append(symbols, s)
			extraIdx = append(extraIdx, i)
		}
	}

	out := &Relation{symbols: symbols}

	if len(shared) == 0 {
		for _, a := range r.rows {
			for _, b := range other.rows {
				row := append(append([]uint64(nil), a...), b...)
				out.rows = append(out.rows, row)
			}
		}
		return out
	}

	leftKey := make([]int, len(shared))
	rightKey := make([]int, len(shared))
	for i, s := range shared {
		leftKey[i] = indexOf(r.symbols, s)
		rightKey[i] = indexOf(other.symbols, s)
	}

	index := make(map[string][][]uint64)
	for _, b := range other.rows {
		k := rowKey(b, rightKey)
		index[k] = append(index[k], b)
	}

	for _, a := range r.rows {
		for _, b := range index[rowKey(a, leftKey)] {
			row := append([]uint64(nil), a...)
			for _, i := range extraIdx {
				row = append(row, b[i])
			}
			out.rows = append(out.rows, row)
		}
	}
	return out
}

func rowKey(row []uint64, idx []int) string {
	var b strings.Builder
	for _, i := range idx {
		b.WriteString(strconv.FormatUint(row[i], 10))
		b.WriteByte('|')
	}
	return b.String()
}

func indexOf(symbols []string, s string) int {
	for i, sym := range symbols {
		if sym == s {
			return i
		}
	}
	return -1
}

type queryContext struct {
	relation *Relation
	outputs  []string
}

// Clause is one step of a query: it consumes the relation built so far and
// returns the refined relation.
type Clause func(ctx *queryContext, w *World) *Relation

// With adds candidates for the variable: every gameobject holding all the
// given component types, in spawn order. An empty variable name defaults to
// the query's first output symbol.
func With(variable string, types ...reflect.Type) Clause {
	return func(ctx *queryContext, w *World) *Relation {
		v := variable
		if v == "" {
			v = ctx.outputs[0]
		}
		data := &Relation{symbols: []string{v}}
		for _, g := range w.Query(types...) {
			data.rows = append(data.rows, []uint64{g.id})
		}
		if ctx.relation == nil {
			return data
		}
		return ctx.relation.unify(data)
	}
}

// Without removes rows whose variable holds all the given component types.
// It is an anti-join and requires a bound relation.
func Without(variable string, types ...reflect.Type) Clause {
	return func(ctx *queryContext, w *World) *Relation {
		if ctx.relation == nil {
			panic("ecs: Without clause requires a preceding With clause")
		}
		v := variable
		if v == "" {
			v = ctx.outputs[0]
		}
		pos := indexOf(ctx.relation.symbols, v)
		if pos < 0 {
			return ctx.relation
		}
		out := &Relation{symbols: ctx.relation.symbols}
		for _, row := range ctx.relation.rows {
			exclude := true
			for _, t := range types {
				if !w.indexHas(t, row[pos]) {
					exclude = false
					break
				}
			}
			if !exclude {
				out.rows = append(out.rows, row)
			}
		}
		return out
	}
}

// Filter drops rows whose bound gameobjects fail the predicate. With no
// variables given and exactly one symbol bound, the predicate applies to that
// symbol.
func Filter(fn FilterFn, variables ...string) Clause {
	return func(ctx *queryContext, w *World) *Relation {
		if ctx.relation == nil {
			panic("ecs: Filter clause requires a preceding With clause")
		}
		vars := variables
		if len(vars) == 0 && len(ctx.relation.symbols) == 1 {
			vars = ctx.relation.symbols
		}
		idx := make([]int, len(vars))
		for i, v := range vars {
			pos := indexOf(ctx.relation.symbols, v)
			if pos < 0 {
				return emptyRelation()
			}
			idx[i] = pos
		}
		out := &Relation{symbols: ctx.relation.symbols}
		for _, row := range ctx.relation.rows {
			gameobjects := make([]*GameObject, len(idx))
			ok := true
			for i, pos := range idx {
				g := w.TryGet(row[pos])
				if g == nil {
					ok = false
					break
				}
				gameobjects[i] = g
			}
			if ok && fn(w, gameobjects...) {
				out.rows = append(out.rows, row)
			}
		}
		return out
	}
}

// NotEqual drops rows where the two variables hold the same gameobject.
func NotEqual(a, b string) Clause {
	return comparator(a, b, func(x, y uint64) bool { return x != y })
}

// Equal keeps only rows where the two variables hold the same gameobject.
func Equal(a, b string) Clause {
	return comparator(a, b, func(x, y uint64) bool { return x == y })
}

func comparator(a, b string, keep func(x, y uint64) bool) Clause {
	return func(ctx *queryContext, w *World) *Relation {
		if ctx.relation == nil {
			panic("ecs: comparator clause requires a preceding With clause")
		}
		pa := indexOf(ctx.relation.symbols, a)
		pb := indexOf(ctx.relation.symbols, b)
		if pa < 0 || pb < 0 {
			return emptyRelation()
		}
		out := &Relation{symbols: ctx.relation.symbols}
		for _, row := range ctx.relation.rows {
			if keep(row[pa], row[pb]) {
				out.rows = append(out.rows, row)
			}
		}
		return out
	}
}

// Query finds tuples of gameobject ids matching its clauses.
type Query struct {
	find    []string
	clauses []Clause
}

// NewQuery builds a query returning tuples for the given output variables.
func NewQuery(find []string, clauses ...Clause) *Query {
	return &Query{find: find, clauses: clauses}
}

// Find returns the output variables.
func (q *Query) Find() []string { return q.find }

// Execute runs the query, optionally seeding variables with fixed gameobject
// ids. Returns tuples ordered by the underlying spawn-order scans.
func (q *Query) Execute(w *World, bindings map[string]uint64) [][]uint64 {
	ctx := &queryContext{outputs: q.find}

	if len(bindings) > 0 {
		symbols := make([]string, 0, len(bindings))
		for s := range bindings {
			symbols = append(symbols, s)
		}
		sort.Strings(symbols)
		row := make([]uint64, len(symbols))
		for i, s := range symbols {
			row[i] = bindings[s]
		}
		ctx.relation = &Relation{symbols: symbols, rows: [][]uint64{row}}
	}

	for _, clause := range q.clauses {
		ctx.relation = clause(ctx, w)
		if ctx.relation.Empty() {
			return nil
		}
	}

	if ctx.relation == nil {
		return nil
	}
	return ctx.relation.Tuples(q.find...)
}
