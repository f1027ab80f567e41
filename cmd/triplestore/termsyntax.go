// Minimal term syntax for cmd/triplestore's REPL: enough to type triple
// patterns and data by hand. This is not an RDF/SPARQL parser (that's an
// external collaborator per spec.md §1's scope) — just a small, fixed
// grammar for one triple per line:
//
//	<subject> <predicate> <object>
//
// where each token is one of:
//
//	?name               variable
//	<http://...>         IRI
//	_:label              blank node
//	"lex"                plain literal
//	"lex"@en             language-tagged literal
//	"lex"^^<datatype-iri> typed literal
package main

import (
	"fmt"
	"strings"

	"github.com/wbrown/janus-triples/triples"
	"github.com/wbrown/janus-triples/triples/query"
)

// tokenizeLine splits a line into whitespace-separated tokens, treating a
// double-quoted span (including any @lang or ^^<...> suffix immediately
// following the closing quote) as a single token.
func tokenizeLine(line string) ([]string, error) {
	var tokens []string
	i, n := 0, len(line)

	for i < n {
		for i < n && (line[i] == ' ' || line[i] == '\t') {
			i++
		}
		if i >= n {
			break
		}

		start := i
		switch line[i] {
		case '"':
			i++
			for i < n && line[i] != '"' {
				if line[i] == '\\' && i+1 < n {
					i++
				}
				i++
			}
			if i >= n {
				return nil, fmt.Errorf("unterminated string literal starting at %d", start)
			}
			i++ // closing quote
			if i < n && line[i] == '@' {
				i++
				for i < n && line[i] != ' ' && line[i] != '\t' {
					i++
				}
			} else if i+1 < n && line[i] == '^' && line[i+1] == '^' {
				i += 2
				for i < n && line[i] != ' ' && line[i] != '\t' {
					i++
				}
			}
		case '<':
			i++
			for i < n && line[i] != '>' {
				i++
			}
			if i >= n {
				return nil, fmt.Errorf("unterminated IRI starting at %d", start)
			}
			i++
		default:
			for i < n && line[i] != ' ' && line[i] != '\t' {
				i++
			}
		}
		tokens = append(tokens, line[start:i])
	}

	return tokens, nil
}

// parseTerm parses one token as a constant term. Callers check for a
// leading '?' (variable) before calling this.
func parseTerm(tok string) (triples.Term, error) {
	switch {
	case strings.HasPrefix(tok, "<") && strings.HasSuffix(tok, ">"):
		return triples.IRI{Value: tok[1 : len(tok)-1]}, nil

	case strings.HasPrefix(tok, "_:"):
		return triples.BNode{Label: tok[2:]}, nil

	case strings.HasPrefix(tok, `"`):
		return parseLiteral(tok)

	default:
		return nil, fmt.Errorf("unrecognised term syntax: %q", tok)
	}
}

func parseLiteral(tok string) (triples.Term, error) {
	end := strings.LastIndex(tok, `"`)
	if end <= 0 {
		return nil, fmt.Errorf("malformed literal: %q", tok)
	}
	lex := tok[1:end]
	suffix := tok[end+1:]

	switch {
	case suffix == "":
		return triples.PlainLiteral{Lex: lex}, nil
	case strings.HasPrefix(suffix, "@"):
		return triples.LangLiteral{Lex: lex, Lang: suffix[1:]}, nil
	case strings.HasPrefix(suffix, "^^<") && strings.HasSuffix(suffix, ">"):
		return triples.TypedLiteral{Lex: lex, Datatype: suffix[3 : len(suffix)-1]}, nil
	default:
		return nil, fmt.Errorf("malformed literal suffix: %q", suffix)
	}
}

// parseSlot parses one token as either a variable or a constant slot.
func parseSlot(tok string) (query.Slot, error) {
	if strings.HasPrefix(tok, "?") {
		return query.Var(query.Symbol(tok)), nil
	}
	t, err := parseTerm(tok)
	if err != nil {
		return query.Slot{}, err
	}
	return query.Const(t), nil
}

// parsePatternLine parses one "subject predicate object" line into a
// Pattern.
func parsePatternLine(line string) (query.Pattern, error) {
	tokens, err := tokenizeLine(line)
	if err != nil {
		return query.Pattern{}, err
	}
	if len(tokens) != 3 {
		return query.Pattern{}, fmt.Errorf("expected 3 terms (subject predicate object), got %d", len(tokens))
	}

	slots := make([]query.Slot, 3)
	for i, tok := range tokens {
		s, err := parseSlot(tok)
		if err != nil {
			return query.Pattern{}, fmt.Errorf("term %d: %w", i+1, err)
		}
		slots[i] = s
	}
	return query.NewPattern(slots[0], slots[1], slots[2]), nil
}

// parseTripleLine parses one "subject predicate object" line into three
// constant terms, for data loading (no variables allowed).
func parseTripleLine(line string) (s, p, o triples.Term, err error) {
	tokens, err := tokenizeLine(line)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(tokens) != 3 {
		return nil, nil, nil, fmt.Errorf("expected 3 terms (subject predicate object), got %d", len(tokens))
	}
	terms := make([]triples.Term, 3)
	for i, tok := range tokens {
		if strings.HasPrefix(tok, "?") {
			return nil, nil, nil, fmt.Errorf("term %d: variables are not allowed when adding data", i+1)
		}
		t, err := parseTerm(tok)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("term %d: %w", i+1, err)
		}
		terms[i] = t
	}
	return terms[0], terms[1], terms[2], nil
}
