// Package join implements the leapfrog trie-join driver of spec.md §4.3:
// given a Plan from the planner package, it walks the plan's variable
// order outer-to-inner, performing leapfrog intersection at each level to
// enumerate the values every participating pattern agrees on.
//
// The result stream is modelled as a pull-based iterator (Driver.Next)
// rather than a generator coroutine, per spec.md §9's design note — this
// keeps every suspension point explicit and makes cancellation a plain
// context.Context check instead of relying on goroutine scheduling.
package join

import (
	"context"
	"fmt"
	"sort"

	"github.com/wbrown/janus-triples/triples"
	"github.com/wbrown/janus-triples/triples/dictionary"
	"github.com/wbrown/janus-triples/triples/planner"
	"github.com/wbrown/janus-triples/triples/query"
	"github.com/wbrown/janus-triples/triples/store"
)

// Row is one solution: a binding of every plan variable to its encoded
// term. Result assembly (the result package) decodes it through the
// dictionary at the boundary.
type Row map[query.Symbol]triples.Code

// Driver evaluates a Plan against a Store, pulling one Row at a time.
type Driver struct {
	ctx       context.Context
	st        store.Store
	dict      dictionary.Dictionary
	plan      *planner.Plan
	patterns  []query.Pattern

	patternsByVar [][]int // patternsByVar[level] = pattern indices using plan.Order[level]

	frames   []*frame
	bindings Row

	zeroArity     bool // true if plan.Order is empty (fully-ground patterns)
	zeroArityDone bool
	exhausted     bool
}

// NewDriver prepares a Driver for one evaluation of plan's patterns
// against st. The Driver is single-use and single-threaded, per spec.md
// §5: callers must not share it across goroutines or reuse it after
// Close.
func NewDriver(ctx context.Context, st store.Store, dict dictionary.Dictionary, patterns []query.Pattern, plan *planner.Plan) *Driver {
	if ctx == nil {
		ctx = context.Background()
	}

	d := &Driver{
		ctx:       ctx,
		st:        st,
		dict:      dict,
		plan:      plan,
		patterns:  patterns,
		bindings:  make(Row),
		zeroArity: len(plan.Order) == 0,
	}

	d.patternsByVar = make([][]int, len(plan.Order))
	for level, v := range plan.Order {
		for pi, p := range patterns {
			for _, pv := range p.Variables() {
				if pv == v {
					d.patternsByVar[level] = append(d.patternsByVar[level], pi)
					break
				}
			}
		}
	}

	return d
}

// Next returns the next solution Row, or (nil, nil) once the stream is
// exhausted, or a non-nil error (triples.ErrCancelled, triples.ErrBackendFault,
// or triples.ErrPlanInfeasible) otherwise. Cursor seek/next may block on the
// backend but Next itself never suspends mid-tuple (spec.md §5).
func (d *Driver) Next() (Row, error) {
	if d.zeroArity {
		return d.nextZeroArity()
	}

	for {
		if err := d.checkCancelled(); err != nil {
			d.closeAll()
			return nil, err
		}

		if d.exhausted {
			return nil, nil
		}

		if len(d.frames) == 0 {
			f, err := d.openFrame(0)
			if err != nil {
				d.closeAll()
				return nil, err
			}
			d.frames = append(d.frames, f)
		}

		top := d.frames[len(d.frames)-1]
		val, ok, err := top.advance()
		if err != nil {
			d.closeAll()
			return nil, err
		}

		if !ok {
			top.close()
			d.frames = d.frames[:len(d.frames)-1]
			delete(d.bindings, d.plan.Order[top.level])
			if len(d.frames) == 0 {
				d.exhausted = true
				return nil, nil
			}
			continue
		}

		d.bindings[d.plan.Order[top.level]] = val

		if top.level == len(d.plan.Order)-1 {
			return d.snapshotBindings(), nil
		}

		child, err := d.openFrame(top.level + 1)
		if err != nil {
			d.closeAll()
			return nil, err
		}
		d.frames = append(d.frames, child)
	}
}

// nextZeroArity handles a BGP with no free variables: every pattern is
// fully ground, so the "join" degenerates to a single existence check
// across all patterns, yielding the empty row once if they all hold.
func (d *Driver) nextZeroArity() (Row, error) {
	if d.zeroArityDone {
		return nil, nil
	}
	d.zeroArityDone = true

	if err := d.checkCancelled(); err != nil {
		return nil, err
	}

	for _, p := range d.patterns {
		ok, err := d.groundPatternExists(p)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
	}
	return Row{}, nil
}

func (d *Driver) groundPatternExists(p query.Pattern) (bool, error) {
	var codes [3]triples.Code
	for i, slot := range p.Slots {
		c, miss, err := d.encodeConstant(slot)
		if err != nil {
			return false, err
		}
		if miss {
			return false, nil
		}
		codes[i] = c
	}

	cur, err := d.st.Cursor(store.SPO, []store.Code{store.Code(codes[0]), store.Code(codes[1])})
	if err != nil {
		return false, fmt.Errorf("%w: %v", triples.ErrBackendFault, err)
	}
	defer cur.Close()

	target := store.Code(codes[2])
	if err := cur.Seek(target); err != nil {
		return false, fmt.Errorf("%w: %v", triples.ErrBackendFault, err)
	}
	return !cur.AtEnd() && cur.Key() == target, nil
}

func (d *Driver) checkCancelled() error {
	select {
	case <-d.ctx.Done():
		return fmt.Errorf("%w: %v", triples.ErrCancelled, d.ctx.Err())
	default:
		return nil
	}
}

func (d *Driver) snapshotBindings() Row {
	out := make(Row, len(d.bindings))
	for k, v := range d.bindings {
		out[k] = v
	}
	return out
}

// Close releases every cursor still open across the frame stack. Safe to
// call more than once.
func (d *Driver) Close() error {
	d.closeAll()
	return nil
}

func (d *Driver) closeAll() {
	for _, f := range d.frames {
		f.close()
	}
	d.frames = nil
}

// frame holds the open cursors and leapfrog state for one level of the
// plan.
type frame struct {
	level   int
	cursors []store.Cursor
	started bool
	empty   bool
}

func (f *frame) close() error {
	var firstErr error
	for _, c := range f.cursors {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// openFrame opens one cursor per pattern using plan.Order[level], seeded
// from d.bindings and the patterns' own constants, per spec.md §4.3.1
// step 1.
func (d *Driver) openFrame(level int) (*frame, error) {
	v := d.plan.Order[level]
	f := &frame{level: level}

	for _, pi := range d.patternsByVar[level] {
		strategy, ok := d.plan.StrategyFor(pi, v)
		if !ok {
			return nil, fmt.Errorf("%w: no access strategy for %s in pattern %d", triples.ErrPlanInfeasible, v, pi)
		}

		prefix, miss, err := d.buildPrefix(pi, strategy)
		if err != nil {
			return nil, err
		}

		var cur store.Cursor
		if miss {
			cur = emptyCursor{}
		} else {
			cur, err = d.st.Cursor(strategy.Index, prefix)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", triples.ErrBackendFault, err)
			}
		}
		f.cursors = append(f.cursors, cur)
	}

	for _, c := range f.cursors {
		if c.AtEnd() {
			f.empty = true
			break
		}
	}
	if !f.empty {
		sort.Slice(f.cursors, func(i, j int) bool { return f.cursors[i].Key() < f.cursors[j].Key() })
	}

	return f, nil
}

// buildPrefix encodes the prefix key for pattern pi's cursor under
// strategy: each PrefixPositions slot is either a constant (dictionary
// encoded) or an already-bound variable (read from d.bindings). Returns
// miss=true if a constant has no dictionary entry — spec.md §7's
// DictionaryMiss, handled by the caller as an immediately-exhausted
// cursor rather than an error.
func (d *Driver) buildPrefix(pi int, strategy planner.AccessStrategy) (prefix []store.Code, miss bool, err error) {
	pattern := d.patterns[pi]
	for _, pos := range strategy.PrefixPositions {
		slot := pattern.Slots[pos]
		if slot.IsVariable() {
			code, ok := d.bindings[slot.Var]
			if !ok {
				return nil, false, fmt.Errorf("%w: %s unbound while opening pattern %d", triples.ErrPlanInfeasible, slot.Var, pi)
			}
			prefix = append(prefix, store.Code(code))
			continue
		}

		code, m, err := d.encodeConstant(slot)
		if err != nil {
			return nil, false, err
		}
		if m {
			return nil, true, nil
		}
		prefix = append(prefix, store.Code(code))
	}
	return prefix, false, nil
}

func (d *Driver) encodeConstant(slot query.Slot) (triples.Code, bool, error) {
	if slot.IsVariable() {
		code, ok := d.bindings[slot.Var]
		return code, !ok, nil
	}
	code, ok := d.dict.Lookup(slot.Const)
	if !ok {
		return 0, true, nil
	}
	return code, false, nil
}
