package triples

import "errors"

// Sentinel error kinds shared across the planner, store, and join
// packages, per spec.md §7. Each package wraps these with
// fmt.Errorf("...: %w", ...) context rather than routing through a single
// centralized error type — the same un-centralized convention the teacher
// uses (each package defines its own wrapped fmt.Errorf calls).
var (
	// ErrInvalidPattern: a pattern slot is neither a Variable nor a
	// recognised Term shape. Raised before any cursor is opened.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrPlanInfeasible: no access strategy covers some (variable,
	// pattern) pair at the chosen order. Defensive — spec.md §4.1 should
	// make this unreachable.
	ErrPlanInfeasible = errors.New("plan infeasible")

	// ErrBackendFault: a cursor operation failed.
	ErrBackendFault = errors.New("backend fault")

	// ErrCancelled: the evaluation's cancellation token tripped.
	ErrCancelled = errors.New("query cancelled")
)
