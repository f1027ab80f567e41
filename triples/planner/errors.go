package planner

import (
	"fmt"

	"github.com/wbrown/janus-triples/triples"
)

func triplesInvalidPatternf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", triples.ErrInvalidPattern, fmt.Sprintf(format, args...))
}

func triplesPlanInfeasiblef(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", triples.ErrPlanInfeasible, fmt.Sprintf(format, args...))
}
