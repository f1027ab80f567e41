// Package query holds the triple-pattern representation consumed by the
// planner and join packages: variables, constants, and the three-slot
// patterns built from them. It mirrors the role of the teacher's
// datalog/query package, narrowed from Datomic-style E/A/V/Tx patterns to
// RDF S/P/O ones.
package query

import (
	"fmt"

	"github.com/wbrown/janus-triples/triples"
)

// Symbol is the name of a query variable, e.g. "?person".
type Symbol string

// IsVariable reports whether s is a variable symbol (as opposed to a blank
// placeholder), matching the teacher's Symbol.IsVariable convention.
func (s Symbol) IsVariable() bool { return len(s) > 0 && s[0] == '?' }

func (s Symbol) String() string { return string(s) }

// Slot is one of a pattern's three positions: a bound Variable or a
// Constant term. Exactly one of Var/Const is meaningful; callers dispatch
// on IsVariable().
type Slot struct {
	Var   Symbol
	Const triples.Term
}

// IsVariable reports whether this slot is a variable (vs. a constant term).
func (s Slot) IsVariable() bool { return s.Var != "" }

func (s Slot) String() string {
	if s.IsVariable() {
		return string(s.Var)
	}
	return s.Const.String()
}

// Var builds a variable slot.
func Var(name Symbol) Slot { return Slot{Var: name} }

// Const builds a constant slot.
func Const(t triples.Term) Slot { return Slot{Const: t} }

// Position names the three pattern slots, used wherever code needs to
// refer to "the subject position" etc. without hardcoding an index.
type Position uint8

const (
	Subject Position = iota
	Predicate
	Object
)

func (p Position) String() string {
	switch p {
	case Subject:
		return "subject"
	case Predicate:
		return "predicate"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("position(%d)", uint8(p))
	}
}

// Pattern is a single triple pattern: three slots, each a variable or a
// constant term.
type Pattern struct {
	Slots [3]Slot
}

// NewPattern builds a Pattern from its subject/predicate/object slots.
func NewPattern(s, p, o Slot) Pattern {
	return Pattern{Slots: [3]Slot{s, p, o}}
}

func (pt Pattern) Subject() Slot   { return pt.Slots[Subject] }
func (pt Pattern) Predicate() Slot { return pt.Slots[Predicate] }
func (pt Pattern) Object() Slot    { return pt.Slots[Object] }

func (pt Pattern) String() string {
	return fmt.Sprintf("(%s %s %s)", pt.Slots[0], pt.Slots[1], pt.Slots[2])
}

// Variables returns the distinct variable symbols occurring in pt, in
// subject/predicate/object order.
func (pt Pattern) Variables() []Symbol {
	var out []Symbol
	seen := make(map[Symbol]bool, 3)
	for _, slot := range pt.Slots {
		if slot.IsVariable() && !seen[slot.Var] {
			seen[slot.Var] = true
			out = append(out, slot.Var)
		}
	}
	return out
}

// PositionOf returns the slot position(s) at which v occurs in pt.
func (pt Pattern) PositionOf(v Symbol) []Position {
	var out []Position
	for i, slot := range pt.Slots {
		if slot.IsVariable() && slot.Var == v {
			out = append(out, Position(i))
		}
	}
	return out
}

// ConstantCount returns the number of constant (non-variable) slots in pt.
func (pt Pattern) ConstantCount() int {
	n := 0
	for _, slot := range pt.Slots {
		if !slot.IsVariable() {
			n++
		}
	}
	return n
}
