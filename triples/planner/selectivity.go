package planner

import (
	"math"

	"github.com/wbrown/janus-triples/triples/query"
)

// defaultCardinality is the DEFAULT_CARDINALITY constant of spec.md
// §4.1.1.
const defaultCardinality = 1000

// baseScore is the positive constant every variable starts from before
// the per-signal deductions are applied.
const baseScore = 1.0

// score implements spec.md §4.1.1 literally:
//
//	score(v) = base
//	         - 1.0 * (occurrences(v) - 1)
//	         - 0.5 * constants_in_patterns_of(v)
//	         - 0.3 * if v ever in predicate pos
//	         - stat_bonus(v)
//
// Lower is more selective.
func score(info *VariableInfo, constantsInPatternsOf int, stats *Statistics, predicateConstants []string) float64 {
	s := baseScore

	occurrences := len(info.Patterns)
	s -= 1.0 * float64(occurrences-1)

	s -= 0.5 * float64(constantsInPatternsOf)

	everPredicate := false
	for _, pos := range info.Positions {
		if pos == query.Predicate {
			everPredicate = true
			break
		}
	}
	if everPredicate {
		s -= 0.3
	}

	s -= statBonus(predicateConstants, stats)

	return s
}

// statBonus implements the stat_bonus(v) term: for every pattern
// containing v whose predicate is a constant IRI with a known count,
// take the minimum such count m, then
//
//	stat_bonus = max(0, log10(1 + DEFAULT_CARDINALITY / max(1, m))) * 0.4
//
// Variables whose predicates are all variables, or whose predicates carry
// no statistic, contribute 0.
func statBonus(predicateConstants []string, stats *Statistics) float64 {
	if stats == nil || len(predicateConstants) == 0 {
		return 0
	}

	min := -1
	found := false
	for _, iri := range predicateConstants {
		if n, ok := stats.CountFor(iri); ok {
			if !found || n < min {
				min = n
				found = true
			}
		}
	}
	if !found {
		return 0
	}

	denom := min
	if denom < 1 {
		denom = 1
	}
	bonus := math.Log10(1 + float64(defaultCardinality)/float64(denom))
	if bonus < 0 {
		bonus = 0
	}
	return bonus * 0.4
}
