package dictionary

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/janus-triples/triples"
)

func TestMemDictionaryEncodeDecodeRoundTrip(t *testing.T) {
	d := NewMemDictionary()

	terms := []triples.Term{
		triples.IRI{Value: "http://example.org/alice"},
		triples.BNode{Label: "b1"},
		triples.PlainLiteral{Lex: "hello"},
		triples.TypedLiteral{Lex: "42", Datatype: triples.XSDInteger},
		triples.LangLiteral{Lex: "bonjour", Lang: "fr"},
	}

	for _, term := range terms {
		code, err := d.Encode(term)
		require.NoError(t, err)

		decoded, err := d.Decode(code)
		require.NoError(t, err)
		require.True(t, triples.TermsEqual(term, decoded))
	}
}

func TestMemDictionaryEncodeIsIdempotent(t *testing.T) {
	d := NewMemDictionary()
	term := triples.IRI{Value: "http://example.org/alice"}

	first, err := d.Encode(term)
	require.NoError(t, err)

	second, err := d.Encode(term)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestMemDictionaryDistinctTermsGetDistinctCodes(t *testing.T) {
	d := NewMemDictionary()
	a, err := d.Encode(triples.IRI{Value: "http://example.org/a"})
	require.NoError(t, err)
	b, err := d.Encode(triples.IRI{Value: "http://example.org/b"})
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestMemDictionaryLookupMiss(t *testing.T) {
	d := NewMemDictionary()
	_, ok := d.Lookup(triples.IRI{Value: "http://example.org/missing"})
	require.False(t, ok)
}

func TestMemDictionaryLookupAfterEncode(t *testing.T) {
	d := NewMemDictionary()
	term := triples.PlainLiteral{Lex: "hi"}

	code, err := d.Encode(term)
	require.NoError(t, err)

	looked, ok := d.Lookup(term)
	require.True(t, ok)
	require.Equal(t, code, looked)
}

func TestMemDictionaryDecodeUnknownCodeErrors(t *testing.T) {
	d := NewMemDictionary()
	_, err := d.Decode(triples.NewCode(triples.KindIRI, 999))
	require.Error(t, err)
}

func TestMemDictionaryCodeKindMatchesTermKind(t *testing.T) {
	d := NewMemDictionary()

	cases := []struct {
		term triples.Term
		kind triples.Kind
	}{
		{triples.IRI{Value: "http://x"}, triples.KindIRI},
		{triples.BNode{Label: "b"}, triples.KindBlank},
		{triples.PlainLiteral{Lex: "s"}, triples.KindPlainLiteral},
		{triples.TypedLiteral{Lex: "1", Datatype: triples.XSDInteger}, triples.KindInteger},
		{triples.TypedLiteral{Lex: "1.5", Datatype: triples.XSDDecimal}, triples.KindDecimal},
		{triples.TypedLiteral{Lex: "2024", Datatype: triples.XSDDateTime}, triples.KindDateTime},
		{triples.LangLiteral{Lex: "s", Lang: "en"}, triples.KindLangTagged},
	}

	for _, c := range cases {
		code, err := d.Encode(c.term)
		require.NoError(t, err)
		require.Equal(t, c.kind, code.Kind())
	}
}

// TestMemDictionaryConcurrentEncode exercises the read-mostly locking
// contract spec.md §5 requires ("lookups must be lock-free or read-locked"):
// many goroutines racing to encode the same term must all observe the
// same code.
func TestMemDictionaryConcurrentEncode(t *testing.T) {
	d := NewMemDictionary()
	term := triples.IRI{Value: "http://example.org/shared"}

	const n = 64
	codes := make([]triples.Code, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			code, err := d.Encode(term)
			assert.NoError(t, err)
			codes[i] = code
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		require.Equal(t, codes[0], codes[i])
	}
}
