// build-testdb populates a BadgerStore with a small synthetic RDF
// dataset, for manually exercising cmd/triplestore against real data
// without needing a Turtle/N-Triples parser (out of scope per
// spec.md §1).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/wbrown/janus-triples/triples"
	"github.com/wbrown/janus-triples/triples/dictionary"
	"github.com/wbrown/janus-triples/triples/store"
)

func main() {
	path := flag.String("db", "testdata.db", "database path")
	people := flag.Int("people", 50, "number of synthetic people to generate")
	flag.Parse()

	if _, err := os.Stat(*path); err == nil {
		fmt.Fprintf(os.Stderr, "refusing to overwrite existing database: %s\n", *path)
		os.Exit(1)
	}

	st, err := store.Open(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	dict := dictionary.NewMemDictionary()

	const (
		predName   = "http://example.org/vocab/name"
		predCity   = "http://example.org/vocab/city"
		predKnows  = "http://example.org/vocab/knows"
		cityBoston = "Boston"
		cityNYC    = "New York"
	)

	var encoded []store.EncodedTriple
	assert := func(s, p, o triples.Term) {
		sc, err := dict.Encode(s)
		must(err)
		pc, err := dict.Encode(p)
		must(err)
		oc, err := dict.Encode(o)
		must(err)
		encoded = append(encoded, store.EncodedTriple{
			S: store.Code(sc),
			P: store.Code(pc),
			O: store.Code(oc),
		})
	}

	persons := make([]triples.IRI, *people)
	for i := range persons {
		persons[i] = triples.IRI{Value: fmt.Sprintf("http://example.org/person/%d", i)}
		assert(persons[i], triples.IRI{Value: predName}, triples.PlainLiteral{Lex: fmt.Sprintf("Person %d", i)})
		city := cityNYC
		if i%2 == 0 {
			city = cityBoston
		}
		assert(persons[i], triples.IRI{Value: predCity}, triples.PlainLiteral{Lex: city})
	}
	for i, p := range persons {
		assert(p, triples.IRI{Value: predKnows}, persons[(i+1)%len(persons)])
	}

	if err := st.Assert(encoded); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write triples: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d triples (%d people) to %s\n", len(encoded), *people, *path)
}

func must(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "dictionary encode failed: %v\n", err)
		os.Exit(1)
	}
}
