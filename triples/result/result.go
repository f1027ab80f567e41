// Package result assembles decoded solutions from join.Row values,
// per spec.md §4.4: binding decode happens once per variable per
// emitted tuple, at the projection boundary, never inside the join
// loop itself.
package result

import (
	"fmt"
	"sort"

	"github.com/wbrown/janus-triples/triples"
	"github.com/wbrown/janus-triples/triples/dictionary"
	"github.com/wbrown/janus-triples/triples/join"
	"github.com/wbrown/janus-triples/triples/query"
)

// Binding pairs a variable with its decoded term.
type Binding struct {
	Var  query.Symbol
	Term triples.Term
}

// Row is one decoded solution, ordered by projection order.
type Row []Binding

// String renders a Row as "?var=term ?var2=term2 ...", for CLI and test
// output.
func (r Row) String() string {
	s := ""
	for i, b := range r {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s=%s", b.Var, b.Term.String())
	}
	return s
}

// Assembler decodes join.Row values into result.Row values, projecting
// and ordering columns per a fixed variable list.
type Assembler struct {
	dict    dictionary.Dictionary
	project []query.Symbol
}

// NewAssembler builds an Assembler that projects exactly the variables
// in project, in that order. An empty project list projects every
// variable present in each join.Row, sorted by name, matching the
// zero-arity BGP's empty row.
func NewAssembler(dict dictionary.Dictionary, project []query.Symbol) *Assembler {
	return &Assembler{dict: dict, project: project}
}

// Assemble decodes one join.Row. A variable absent from row (should not
// happen for a fully-bound plan, but is possible for a malformed
// projection list) is silently skipped.
func (a *Assembler) Assemble(row join.Row) (Row, error) {
	vars := a.project
	if len(vars) == 0 {
		for v := range row {
			vars = append(vars, v)
		}
		sort.Slice(vars, func(i, j int) bool { return vars[i] < vars[j] })
	}

	out := make(Row, 0, len(vars))
	for _, v := range vars {
		code, ok := row[v]
		if !ok {
			continue
		}
		term, err := a.dict.Decode(code)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", triples.ErrBackendFault, err)
		}
		out = append(out, Binding{Var: v, Term: term})
	}
	return out, nil
}

// Collect drains a join.Driver fully, decoding every row and holding all
// of them in memory. The CLI and the tests use it to gather a whole
// result set before printing or checking it.
func Collect(d *join.Driver, a *Assembler) ([]Row, error) {
	var out []Row
	for {
		jr, err := d.Next()
		if err != nil {
			return out, err
		}
		if jr == nil {
			return out, nil
		}
		r, err := a.Assemble(jr)
		if err != nil {
			return out, err
		}
		out = append(out, r)
	}
}
