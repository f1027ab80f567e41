package triples

import "fmt"

// Code is the fixed-width encoded form of a Term: a dictionary entry index
// with the term's kind tagged into the high bits, per spec.md §3. Codes are
// totally ordered by their unsigned integer value, and that order is what
// every one of the six index permutations sorts on.
type Code uint64

// Kind occupies the top byte of a Code; the remaining 56 bits address the
// dictionary entry. IRI/BNode/PlainLiteral/Integer/Decimal/DateTime are the
// tags spec.md §3 calls out by name; OtherTyped and LangTagged extend the
// same scheme to the rest of the XSD datatype space so every Term variant
// still gets a stable, orderable Code.
type Kind byte

const (
	KindIRI          Kind = 0b0001
	KindBlank        Kind = 0b0010
	KindPlainLiteral Kind = 0b0011
	KindInteger      Kind = 0b0100
	KindDecimal      Kind = 0b0101
	KindDateTime     Kind = 0b0110
	KindOtherTyped   Kind = 0b0111
	KindLangTagged   Kind = 0b1000
)

func (k Kind) String() string {
	switch k {
	case KindIRI:
		return "iri"
	case KindBlank:
		return "blank"
	case KindPlainLiteral:
		return "plain-literal"
	case KindInteger:
		return "integer"
	case KindDecimal:
		return "decimal"
	case KindDateTime:
		return "date-time"
	case KindOtherTyped:
		return "typed-literal"
	case KindLangTagged:
		return "lang-literal"
	default:
		return fmt.Sprintf("kind(%d)", byte(k))
	}
}

const (
	codeKindShift = 56
	codeKindMask  = Code(0xFF) << codeKindShift
	codeEntryMask = Code(1)<<codeKindShift - 1
)

// NewCode packs a kind tag and a dictionary entry index into a Code.
// entry must fit in 56 bits; callers (the dictionary) are responsible for
// that invariant.
func NewCode(k Kind, entry uint64) Code {
	return Code(k)<<codeKindShift | Code(entry)&codeEntryMask
}

// Kind returns the tagged kind of a Code.
func (c Code) Kind() Kind {
	return Kind((c & codeKindMask) >> codeKindShift)
}

// Entry returns the dictionary entry index of a Code.
func (c Code) Entry() uint64 {
	return uint64(c & codeEntryMask)
}

func (c Code) String() string {
	return fmt.Sprintf("%s:%d", c.Kind(), c.Entry())
}

// KindFor classifies a Term into the Code kind tag it should encode under.
func KindFor(t Term) Kind {
	switch v := t.(type) {
	case IRI:
		return KindIRI
	case BNode:
		return KindBlank
	case PlainLiteral:
		return KindPlainLiteral
	case TypedLiteral:
		switch v.Datatype {
		case XSDInteger:
			return KindInteger
		case XSDDecimal:
			return KindDecimal
		case XSDDateTime:
			return KindDateTime
		default:
			return KindOtherTyped
		}
	case LangLiteral:
		return KindLangTagged
	default:
		return KindOtherTyped
	}
}
