package join

import (
	"fmt"

	"github.com/wbrown/janus-triples/triples"
	"github.com/wbrown/janus-triples/triples/store"
)

// advance implements spec.md §4.3.1's leapfrog intersection for one
// frame. The first call seats the cursors (already sorted ascending by
// Key in openFrame) and looks for initial agreement; every later call
// resumes by advancing the least cursor past its current value, per
// §4.3.2's "resumes at step 4" contract. Both paths converge on the same
// rotate-and-compare loop below.
func (f *frame) advance() (triples.Code, bool, error) {
	if f.empty {
		return 0, false, nil
	}

	if f.started {
		least := f.cursors[0]
		if err := least.Next(); err != nil {
			return 0, false, fmt.Errorf("%w: %v", triples.ErrBackendFault, err)
		}
		if least.AtEnd() {
			return 0, false, nil
		}
		f.rotate()
	}
	f.started = true

	for {
		max := f.cursors[len(f.cursors)-1].Key()
		least := f.cursors[0]

		if least.Key() == max {
			return triples.Code(max), true, nil
		}

		if err := least.Seek(max); err != nil {
			return 0, false, fmt.Errorf("%w: %v", triples.ErrBackendFault, err)
		}
		if least.AtEnd() {
			return 0, false, nil
		}
		f.rotate()
	}
}

// rotate moves the least cursor to the back of the slice, restoring the
// ascending-by-Key invariant the loop in advance relies on.
func (f *frame) rotate() {
	f.cursors = append(f.cursors[1:], f.cursors[0])
}

// emptyCursor is an always-exhausted store.Cursor, used in place of a
// real cursor when a pattern's constant has no dictionary entry
// (spec.md §7, DictionaryMiss): the surrounding frame sees it as
// exhausted at open and yields nothing for that level, without raising
// an error.
type emptyCursor struct{}

func (emptyCursor) Key() store.Code       { return 0 }
func (emptyCursor) Next() error           { return nil }
func (emptyCursor) Seek(store.Code) error { return nil }
func (emptyCursor) AtEnd() bool           { return true }
func (emptyCursor) Close() error          { return nil }
