// Package planner computes a variable join order and, for each
// (pattern, variable) pair, the index and prefix variables the join
// driver should use when that variable becomes the current join target.
//
// File organization, mirroring the teacher's datalog/planner split:
//   - types.go: Plan, VariableInfo, AccessStrategy, Statistics
//   - selectivity.go: the scoring formula of spec.md §4.1.1
//   - index_selection.go: BestIndexFor / AvailableIndices, spec.md §4.1.2-3
//   - planner.go: Compute / ComputeWithInfo entry points
package planner

import (
	"github.com/wbrown/janus-triples/triples/query"
	"github.com/wbrown/janus-triples/triples/store"
)

// Statistics is the optional per-predicate cardinality hint consumed by
// the scoring formula (spec.md §6, "Statistics shape"). Absent entries are
// treated as no information, never as an error.
type Statistics struct {
	PredicateCount map[string]int // IRI string -> count of triples with that predicate
}

// CountFor returns the predicate count for iri and whether it was present.
func (s *Statistics) CountFor(iri string) (int, bool) {
	if s == nil || s.PredicateCount == nil {
		return 0, false
	}
	n, ok := s.PredicateCount[iri]
	return n, ok
}

// AccessStrategy records how one pattern resolves one of its variables:
// which index to scan, which already-bound variables form the prefix
// before that variable's slot (for explainability and the Planner API of
// spec.md §6), and the full slot-position prefix in index order (for the
// join driver to rebuild the scan's actual prefix key, constants and all).
type AccessStrategy struct {
	Index           store.IndexType
	PrefixVars      []query.Symbol
	PrefixPositions []query.Position
}

// VariableInfo is the per-variable summary the planner produces for
// explainability and for the join driver's strategy lookups (spec.md §3,
// "Variable info").
type VariableInfo struct {
	Name             query.Symbol
	Patterns         []int // indices into the original pattern slice
	Positions        []query.Position
	Selectivity      float64
	AvailableIndices []store.IndexType
}

// Plan is the ordered variable list plus, per pattern and per variable in
// that pattern, the access strategy to use when that variable becomes the
// current join target (spec.md §3, "Plan"). Strategies are keyed by
// (pattern index, variable) because a variable occurring in several
// patterns gets a distinct strategy in each.
type Plan struct {
	Order      []query.Symbol
	Strategies map[strategyKey]AccessStrategy
	Info       map[query.Symbol]*VariableInfo
}

type strategyKey struct {
	pattern int
	v       query.Symbol
}

// StrategyFor returns the access strategy chosen for variable v in
// pattern index patternIdx, or ok=false if none was recorded (this should
// only happen for a (pattern, variable) pair the planner never visited,
// e.g. v does not occur in that pattern).
func (p *Plan) StrategyFor(patternIdx int, v query.Symbol) (AccessStrategy, bool) {
	s, ok := p.Strategies[strategyKey{pattern: patternIdx, v: v}]
	return s, ok
}

func (p *Plan) setStrategy(patternIdx int, v query.Symbol, s AccessStrategy) {
	if p.Strategies == nil {
		p.Strategies = make(map[strategyKey]AccessStrategy)
	}
	p.Strategies[strategyKey{pattern: patternIdx, v: v}] = s
}
