package planner

import (
	"github.com/wbrown/janus-triples/triples/query"
	"github.com/wbrown/janus-triples/triples/store"
)

// prefixSatisfied reports whether every pattern slot at a position in
// positions is either a constant or a variable in bound.
func prefixSatisfied(pattern query.Pattern, positions []int, bound map[query.Symbol]bool) bool {
	for _, pos := range positions {
		slot := pattern.Slots[pos]
		if slot.IsVariable() && !bound[slot.Var] {
			return false
		}
	}
	return true
}

// BestIndexFor implements the Planner API of spec.md §6 literally:
// best_index_for(var_name, pattern, bound_vars) -> (index_tag, prefix_vars[]).
func BestIndexFor(v query.Symbol, pattern query.Pattern, bound map[query.Symbol]bool) (store.IndexType, []query.Symbol, error) {
	strategy, err := bestAccessStrategy(v, pattern, bound)
	if err != nil {
		return 0, nil, err
	}
	return strategy.Index, strategy.PrefixVars, nil
}

// bestAccessStrategy implements spec.md §4.1.2: among the six
// permutations, choose the one whose prefix immediately before v's slot
// is the longest run of constants/bound-variables, breaking ties by the
// fixed preference order store.AllIndexTypes (SPO, POS, OSP, PSO, SOP,
// OPS). It returns the full AccessStrategy, including the index-order
// slot positions the join driver needs to rebuild a scan prefix.
func bestAccessStrategy(v query.Symbol, pattern query.Pattern, bound map[query.Symbol]bool) (AccessStrategy, error) {
	positions := pattern.PositionOf(v)
	if len(positions) == 0 {
		return AccessStrategy{}, triplesInvalidPatternf("variable %s does not occur in pattern %s", v, pattern)
	}
	vPos := int(positions[0])

	bestIdx := -1
	var bestIndex store.IndexType
	var bestPrefixPositions []int

	for _, idx := range store.AllIndexTypes {
		order := idx.SlotOrder()

		slotIdx := -1
		for i, pos := range order {
			if pos == vPos {
				slotIdx = i
				break
			}
		}

		prefixPositions := order[:slotIdx]
		if !prefixSatisfied(pattern, prefixPositions, bound) {
			continue
		}

		if slotIdx > bestIdx {
			bestIdx = slotIdx
			bestIndex = idx
			bestPrefixPositions = append([]int(nil), prefixPositions...)
		}
	}

	if bestIdx < 0 {
		return AccessStrategy{}, triplesPlanInfeasiblef("no index covers variable %s in pattern %s", v, pattern)
	}

	var prefixVars []query.Symbol
	var prefixPositions []query.Position
	for _, pos := range bestPrefixPositions {
		prefixPositions = append(prefixPositions, query.Position(pos))
		if slot := pattern.Slots[pos]; slot.IsVariable() {
			prefixVars = append(prefixVars, slot.Var)
		}
	}

	return AccessStrategy{
		Index:           bestIndex,
		PrefixVars:      prefixVars,
		PrefixPositions: prefixPositions,
	}, nil
}

// AvailableIndices implements spec.md §4.1.3: the permutations in which
// v's slot is preceded only by constant slots of pattern, independent of
// which other variables happen to be bound.
func AvailableIndices(v query.Symbol, pattern query.Pattern) []store.IndexType {
	positions := pattern.PositionOf(v)
	if len(positions) == 0 {
		return nil
	}
	vPos := int(positions[0])

	var out []store.IndexType
	for _, idx := range store.AllIndexTypes {
		order := idx.SlotOrder()
		slotIdx := -1
		for i, pos := range order {
			if pos == vPos {
				slotIdx = i
				break
			}
		}

		onlyConstants := true
		for _, pos := range order[:slotIdx] {
			if pattern.Slots[pos].IsVariable() {
				onlyConstants = false
				break
			}
		}
		if onlyConstants {
			out = append(out, idx)
		}
	}
	return out
}

// unionAvailableIndices merges AvailableIndices across every pattern v
// occurs in, deduplicated and in store.AllIndexTypes order, for
// VariableInfo.AvailableIndices.
func unionAvailableIndices(v query.Symbol, patterns []query.Pattern, occursIn []int) []store.IndexType {
	present := make(map[store.IndexType]bool)
	for _, pIdx := range occursIn {
		for _, idx := range AvailableIndices(v, patterns[pIdx]) {
			present[idx] = true
		}
	}

	var out []store.IndexType
	for _, idx := range store.AllIndexTypes {
		if present[idx] {
			out = append(out, idx)
		}
	}
	return out
}
