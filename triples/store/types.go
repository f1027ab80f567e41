// Package store defines the on-disk index contract consumed by the
// planner and join packages, and ships a Badger-backed implementation of
// it. Per spec.md §1 the on-disk KV engine and the six permuted indexes
// are external collaborators; store.BadgerStore is the concrete
// implementation this module exercises the planner/join packages against,
// the same role the teacher's storage.BadgerStore plays for
// storage.Store.
package store

import "fmt"

// IndexType names one of the six S/P/O permutations a triple can be
// indexed under. The three-letter name gives the order in which the
// encoded subject/predicate/object codes are concatenated to form a key.
type IndexType uint8

const (
	SPO IndexType = iota
	SOP
	PSO
	POS
	OSP
	OPS
)

// slotOrder gives, for each IndexType, the pattern-position (0=S,1=P,2=O)
// stored at each successive key slot.
var slotOrder = [...][3]int{
	SPO: {0, 1, 2},
	SOP: {0, 2, 1},
	PSO: {1, 0, 2},
	POS: {1, 2, 0},
	OSP: {2, 0, 1},
	OPS: {2, 1, 0},
}

// SlotOrder returns the pattern positions (subject=0, predicate=1,
// object=2) in the order this index stores them.
func (t IndexType) SlotOrder() [3]int { return slotOrder[t] }

func (t IndexType) String() string {
	switch t {
	case SPO:
		return "spo"
	case SOP:
		return "sop"
	case PSO:
		return "pso"
	case POS:
		return "pos"
	case OSP:
		return "osp"
	case OPS:
		return "ops"
	default:
		return fmt.Sprintf("index(%d)", uint8(t))
	}
}

// AllIndexTypes lists every permutation, in the §4.1.2 tie-break
// preference order (SPO, POS, OSP, PSO, SOP, OPS). Index selection walks
// this slice so that ties resolve deterministically.
var AllIndexTypes = [6]IndexType{SPO, POS, OSP, PSO, SOP, OPS}

// Store is the backend collaborator consumed by the store's own Cursor
// implementation and, transitively, by the join driver: read access to
// the six indexes plus the ability to mutate them. Store has no separate
// snapshot operation. In BadgerStore every Cursor reads through its own
// read-only transaction, so cursors opened at different moments of one
// evaluation do not share a snapshot, and a write committed between two
// Cursor calls is visible to the later cursor only.
type Store interface {
	// Assert writes encoded triples into all six indexes.
	Assert(triples []EncodedTriple) error

	// Cursor opens a cursor over index scoped to a key prefix (the
	// concatenation of the already-bound slot codes, in that index's
	// order). An empty prefix scans the whole index.
	Cursor(index IndexType, prefix []Code) (Cursor, error)

	Close() error
}

// Code is the store's encoded-term value: an alias of uint64 holding the
// same bits as a triples.Code (callers convert with store.Code(c)). This
// package does not import triples; the store only ever sees encoded forms.
type Code = uint64

// EncodedTriple is a triple after dictionary encoding, ready to write into
// the six indexes.
type EncodedTriple struct {
	S, P, O Code
}

// Cursor is the Index Iterator of spec.md §4.2: a stateful scan over one
// index, fixed to a bound prefix, that enumerates the code at the slot
// immediately following the prefix in strictly ascending order,
// collapsing duplicates at that slot.
type Cursor interface {
	// Key returns the code at the focused slot. Defined only while
	// AtEnd() is false.
	Key() Code

	// Next advances to the next key whose value at the focused slot is
	// strictly greater than Key(), still within the prefix.
	Next() error

	// Seek advances to the first key whose value at the focused slot is
	// >= c, still within the prefix. No-op if already there.
	Seek(c Code) error

	// AtEnd reports whether the cursor is exhausted.
	AtEnd() bool

	// Close releases backend resources held by the cursor.
	Close() error
}
