package planner

import (
	"sort"

	"github.com/wbrown/janus-triples/triples/query"
)

// Compute implements the Planner API of spec.md §6: given a set of triple
// patterns (and optional statistics), return the total variable order the
// join driver should walk.
func Compute(patterns []query.Pattern, stats *Statistics) ([]query.Symbol, error) {
	plan, err := ComputeWithPlan(patterns, stats)
	if err != nil {
		return nil, err
	}
	return plan.Order, nil
}

// ComputeWithInfo additionally returns the VariableInfo computed for every
// variable, for plan explainability.
func ComputeWithInfo(patterns []query.Pattern, stats *Statistics) ([]query.Symbol, map[query.Symbol]*VariableInfo, error) {
	plan, err := ComputeWithPlan(patterns, stats)
	if err != nil {
		return nil, nil, err
	}
	return plan.Order, plan.Info, nil
}

// EstimateSelectivity returns the score (spec.md §4.1.1) for a single
// variable, independent of any particular plan.
func EstimateSelectivity(v query.Symbol, patterns []query.Pattern, stats *Statistics) float64 {
	info := buildVariableInfos(patterns, stats)
	if vi, ok := info[v]; ok {
		return vi.Selectivity
	}
	return baseScore
}

// ComputeWithPlan is the full planner entry point: it validates the
// patterns, orders the variables, and fills in an AccessStrategy for
// every (pattern, variable) pair, satisfying the invariants of spec.md §3.
func ComputeWithPlan(patterns []query.Pattern, stats *Statistics) (*Plan, error) {
	if err := validatePatterns(patterns); err != nil {
		return nil, err
	}

	info := buildVariableInfos(patterns, stats)

	order := orderedVariables(patterns, info)

	posIndex := make(map[query.Symbol]int, len(order))
	for i, v := range order {
		posIndex[v] = i
	}

	plan := &Plan{Order: order, Info: info}

	for pi, p := range patterns {
		vars := p.Variables()
		for _, v := range vars {
			bound := make(map[query.Symbol]bool)
			for _, u := range vars {
				if posIndex[u] < posIndex[v] {
					bound[u] = true
				}
			}
			strategy, err := bestAccessStrategy(v, p, bound)
			if err != nil {
				return nil, err
			}
			strategy.PrefixVars = bound2ordered(strategy.PrefixVars, posIndex)
			plan.setStrategy(pi, v, strategy)
		}
	}

	return plan, nil
}

// bound2ordered sorts prefix variables by their position in the global
// order, so AccessStrategy.PrefixVars reads in join order rather than
// pattern-slot order.
func bound2ordered(vars []query.Symbol, posIndex map[query.Symbol]int) []query.Symbol {
	out := append([]query.Symbol(nil), vars...)
	sort.Slice(out, func(i, j int) bool { return posIndex[out[i]] < posIndex[out[j]] })
	return out
}

// validatePatterns checks that every slot is either a bound variable or a
// non-nil constant term (spec.md §7, InvalidPattern).
func validatePatterns(patterns []query.Pattern) error {
	for _, p := range patterns {
		for _, slot := range p.Slots {
			if !slot.IsVariable() && slot.Const == nil {
				return triplesInvalidPatternf("pattern %s has an empty slot", p)
			}
		}
	}
	return nil
}

// buildVariableInfos computes a VariableInfo (including Selectivity) for
// every distinct variable across patterns.
func buildVariableInfos(patterns []query.Pattern, stats *Statistics) map[query.Symbol]*VariableInfo {
	info := make(map[query.Symbol]*VariableInfo)

	for pi, p := range patterns {
		for _, v := range p.Variables() {
			vi, ok := info[v]
			if !ok {
				vi = &VariableInfo{Name: v}
				info[v] = vi
			}
			vi.Patterns = append(vi.Patterns, pi)
			vi.Positions = append(vi.Positions, p.PositionOf(v)...)
		}
	}

	for v, vi := range info {
		constantsInPatternsOf := 0
		var predicateConstants []string
		for _, pi := range vi.Patterns {
			p := patterns[pi]
			constantsInPatternsOf += p.ConstantCount()
			if predSlot := p.Predicate(); !predSlot.IsVariable() && predSlot.Const != nil {
				predicateConstants = append(predicateConstants, predSlot.Const.String())
			}
		}

		vi.Selectivity = score(vi, constantsInPatternsOf, stats, predicateConstants)
		vi.AvailableIndices = unionAvailableIndices(v, patterns, vi.Patterns)
	}

	return info
}

// orderedVariables produces the stable sort of variables by ascending
// score, tie-broken by first-appearance order in patterns and then
// lexicographically by name (spec.md §4.1.1, "Determinism is a testable
// property").
func orderedVariables(patterns []query.Pattern, info map[query.Symbol]*VariableInfo) []query.Symbol {
	firstAppearance := make(map[query.Symbol]int)
	var all []query.Symbol
	for _, p := range patterns {
		for _, v := range p.Variables() {
			if _, ok := firstAppearance[v]; !ok {
				firstAppearance[v] = len(all)
				all = append(all, v)
			}
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		sa, sb := info[a].Selectivity, info[b].Selectivity
		if sa != sb {
			return sa < sb
		}
		if firstAppearance[a] != firstAppearance[b] {
			return firstAppearance[a] < firstAppearance[b]
		}
		return a < b
	})

	return all
}
