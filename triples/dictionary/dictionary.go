// Package dictionary implements the bijection between RDF terms and the
// fixed-width Codes the store indexes on. The dictionary is pinned in
// spec.md §6 as an external collaborator; MemDictionary is the concrete,
// in-process reference implementation this module ships and tests
// against, the same way the teacher's storage.BadgerStore is a concrete
// implementation of the otherwise-external storage.Store interface.
package dictionary

import (
	"fmt"
	"sync"

	"github.com/wbrown/janus-triples/triples"
)

// Dictionary is the encode/decode contract consumed by the planner, store,
// and join packages (spec.md §6).
type Dictionary interface {
	// Encode returns the Code for t, allocating a fresh dictionary entry if
	// t has not been seen before.
	Encode(t triples.Term) (triples.Code, error)

	// Lookup returns the Code for t without allocating one, and ok=false if
	// t has no entry — the DictionaryMiss case of spec.md §7.
	Lookup(t triples.Term) (code triples.Code, ok bool)

	// Decode returns the Term for a previously encoded Code.
	Decode(c triples.Code) (triples.Term, error)
}

// entryKey is a comparable projection of a Term suitable for use as a map
// key; Term itself may embed non-comparable literal variants in the future,
// so encode() never stores a Term struct verbatim as a key.
type entryKey struct {
	kind triples.Kind
	a, b string
}

func keyOf(t triples.Term) entryKey {
	switch v := t.(type) {
	case triples.IRI:
		return entryKey{kind: triples.KindIRI, a: v.Value}
	case triples.BNode:
		return entryKey{kind: triples.KindBlank, a: v.Label}
	case triples.PlainLiteral:
		return entryKey{kind: triples.KindPlainLiteral, a: v.Lex}
	case triples.TypedLiteral:
		return entryKey{kind: triples.KindFor(t), a: v.Lex, b: v.Datatype}
	case triples.LangLiteral:
		return entryKey{kind: triples.KindLangTagged, a: v.Lex, b: v.Lang}
	default:
		panic(fmt.Sprintf("dictionary: unrecognised term type %T", t))
	}
}

// MemDictionary is a lock-protected in-memory Dictionary. Reads take a
// read lock so concurrent query evaluations (spec.md §5, "lookups must be
// lock-free or read-locked") never block each other; writes (new terms)
// take the write lock, matching the "append-only during queries" contract.
type MemDictionary struct {
	mu      sync.RWMutex
	forward map[entryKey]triples.Code
	// nextEntry is per-kind so that codes for different kinds can't collide
	// and so iteration order within one kind matches allocation order.
	nextEntry map[triples.Kind]uint64
	backward  map[triples.Code]triples.Term
}

// NewMemDictionary creates an empty dictionary.
func NewMemDictionary() *MemDictionary {
	return &MemDictionary{
		forward:   make(map[entryKey]triples.Code),
		nextEntry: make(map[triples.Kind]uint64),
		backward:  make(map[triples.Code]triples.Term),
	}
}

func (d *MemDictionary) Lookup(t triples.Term) (triples.Code, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.forward[keyOf(t)]
	return c, ok
}

func (d *MemDictionary) Encode(t triples.Term) (triples.Code, error) {
	key := keyOf(t)

	d.mu.RLock()
	if c, ok := d.forward[key]; ok {
		d.mu.RUnlock()
		return c, nil
	}
	d.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()
	if c, ok := d.forward[key]; ok {
		return c, nil
	}

	kind := key.kind
	entry := d.nextEntry[kind]
	d.nextEntry[kind] = entry + 1

	code := triples.NewCode(kind, entry)
	d.forward[key] = code
	d.backward[code] = t
	return code, nil
}

func (d *MemDictionary) Decode(c triples.Code) (triples.Term, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	t, ok := d.backward[c]
	if !ok {
		return nil, fmt.Errorf("dictionary: no term for code %s", c)
	}
	return t, nil
}
