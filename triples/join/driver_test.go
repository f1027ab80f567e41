package join

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wbrown/janus-triples/triples"
	"github.com/wbrown/janus-triples/triples/dictionary"
	"github.com/wbrown/janus-triples/triples/planner"
	"github.com/wbrown/janus-triples/triples/query"
	"github.com/wbrown/janus-triples/triples/store"
)

func openTestFixture(t *testing.T) (*store.BadgerStore, *dictionary.MemDictionary) {
	t.Helper()
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st, dictionary.NewMemDictionary()
}

func mustAssert(t *testing.T, st *store.BadgerStore, dict *dictionary.MemDictionary, rows [][3]triples.Term) {
	t.Helper()
	var encoded []store.EncodedTriple
	for _, r := range rows {
		sc, err := dict.Encode(r[0])
		require.NoError(t, err)
		pc, err := dict.Encode(r[1])
		require.NoError(t, err)
		oc, err := dict.Encode(r[2])
		require.NoError(t, err)
		encoded = append(encoded, store.EncodedTriple{S: store.Code(sc), P: store.Code(pc), O: store.Code(oc)})
	}
	require.NoError(t, st.Assert(encoded))
}

func collectAll(t *testing.T, d *Driver) []Row {
	t.Helper()
	var out []Row
	for {
		row, err := d.Next()
		require.NoError(t, err)
		if row == nil {
			return out
		}
		out = append(out, row)
	}
}

func node(n string) triples.Term { return triples.IRI{Value: "http://example.org/" + n} }

// TestLeapfrogChainJoin is spec.md §8 scenario S5: leapfrog intersection
// over a two-pattern chain.
func TestLeapfrogChainJoin(t *testing.T) {
	st, dict := openTestFixture(t)
	knows := node("knows")

	mustAssert(t, st, dict, [][3]triples.Term{
		{node("1"), knows, node("2")},
		{node("1"), knows, node("3")},
		{node("1"), knows, node("5")},
		{node("2"), knows, node("3")},
		{node("2"), knows, node("5")},
	})

	patterns := []query.Pattern{
		query.NewPattern(query.Var("?a"), query.Const(knows), query.Var("?b")),
		query.NewPattern(query.Var("?b"), query.Const(knows), query.Var("?c")),
	}

	plan, err := planner.ComputeWithPlan(patterns, nil)
	require.NoError(t, err)

	driver := NewDriver(context.Background(), st, dict, patterns, plan)
	defer driver.Close()

	rows := collectAll(t, driver)

	type triple struct{ a, b, c string }
	var got []triple
	for _, row := range rows {
		a, err := dict.Decode(row["?a"])
		require.NoError(t, err)
		b, err := dict.Decode(row["?b"])
		require.NoError(t, err)
		c, err := dict.Decode(row["?c"])
		require.NoError(t, err)
		got = append(got, triple{a.String(), b.String(), c.String()})
	}

	expected := []triple{
		{node("1").String(), node("2").String(), node("3").String()},
		{node("1").String(), node("2").String(), node("5").String()},
	}
	require.ElementsMatch(t, expected, got)
}

// TestJoinResultsAreAscendingInPlanOrder is invariant 7 of spec.md §8:
// emitted tuples are strictly ascending in the lexicographic order of V
// under code order.
func TestJoinResultsAreAscendingInPlanOrder(t *testing.T) {
	st, dict := openTestFixture(t)
	likes := node("likes")

	mustAssert(t, st, dict, [][3]triples.Term{
		{node("p1"), likes, node("x1")},
		{node("p1"), likes, node("x2")},
		{node("p2"), likes, node("x1")},
		{node("p3"), likes, node("x1")},
	})

	patterns := []query.Pattern{
		query.NewPattern(query.Var("?s"), query.Const(likes), query.Var("?o")),
	}
	plan, err := planner.ComputeWithPlan(patterns, nil)
	require.NoError(t, err)

	driver := NewDriver(context.Background(), st, dict, patterns, plan)
	defer driver.Close()

	rows := collectAll(t, driver)
	require.NotEmpty(t, rows)

	var prevKey []triples.Code
	for _, row := range rows {
		key := make([]triples.Code, len(plan.Order))
		for i, v := range plan.Order {
			key[i] = row[v]
		}
		if prevKey != nil {
			less := false
			for i := range key {
				if key[i] != prevKey[i] {
					require.Greaterf(t, key[i], prevKey[i], "row %v not ascending after %v", key, prevKey)
					less = true
					break
				}
			}
			require.True(t, less)
		}
		prevKey = key
	}
}

// TestJoinDictionaryMissYieldsNoResults is spec.md §8 scenario S6: a
// pattern constant absent from the dictionary produces zero results, not
// an error.
func TestJoinDictionaryMissYieldsNoResults(t *testing.T) {
	st, dict := openTestFixture(t)
	knows := node("knows")

	mustAssert(t, st, dict, [][3]triples.Term{
		{node("alice"), knows, node("bob")},
	})

	// "mallory" is never encoded, so it has no dictionary entry.
	patterns := []query.Pattern{
		query.NewPattern(query.Var("?x"), query.Const(knows), query.Const(node("mallory"))),
	}
	plan, err := planner.ComputeWithPlan(patterns, nil)
	require.NoError(t, err)

	driver := NewDriver(context.Background(), st, dict, patterns, plan)
	defer driver.Close()

	rows := collectAll(t, driver)
	require.Empty(t, rows)
}

// TestJoinNoMatchesIsEmpty covers a query whose patterns share a
// variable but whose value sets never intersect.
func TestJoinNoMatchesIsEmpty(t *testing.T) {
	st, dict := openTestFixture(t)
	knows := node("knows")
	likes := node("likes")

	mustAssert(t, st, dict, [][3]triples.Term{
		{node("1"), knows, node("2")},
		{node("3"), likes, node("4")},
	})

	patterns := []query.Pattern{
		query.NewPattern(query.Var("?a"), query.Const(knows), query.Var("?b")),
		query.NewPattern(query.Var("?a"), query.Const(likes), query.Var("?c")),
	}
	plan, err := planner.ComputeWithPlan(patterns, nil)
	require.NoError(t, err)

	driver := NewDriver(context.Background(), st, dict, patterns, plan)
	defer driver.Close()

	rows := collectAll(t, driver)
	require.Empty(t, rows)
}

// TestJoinZeroArityFullyGroundPattern covers the degenerate case
// (documented in DESIGN.md) of a BGP with no free variables.
func TestJoinZeroArityFullyGroundPattern(t *testing.T) {
	st, dict := openTestFixture(t)
	knows := node("knows")
	mustAssert(t, st, dict, [][3]triples.Term{{node("alice"), knows, node("bob")}})

	t.Run("holds", func(t *testing.T) {
		patterns := []query.Pattern{
			query.NewPattern(query.Const(node("alice")), query.Const(knows), query.Const(node("bob"))),
		}
		plan, err := planner.ComputeWithPlan(patterns, nil)
		require.NoError(t, err)
		require.Empty(t, plan.Order)

		driver := NewDriver(context.Background(), st, dict, patterns, plan)
		defer driver.Close()
		rows := collectAll(t, driver)
		require.Len(t, rows, 1)
		require.Empty(t, rows[0])
	})

	t.Run("does not hold", func(t *testing.T) {
		patterns := []query.Pattern{
			query.NewPattern(query.Const(node("alice")), query.Const(knows), query.Const(node("carol"))),
		}
		plan, err := planner.ComputeWithPlan(patterns, nil)
		require.NoError(t, err)

		driver := NewDriver(context.Background(), st, dict, patterns, plan)
		defer driver.Close()
		rows := collectAll(t, driver)
		require.Empty(t, rows)
	})
}

// TestJoinCancellation is invariant 8 of spec.md §8: cancelling after k
// tuples delivers exactly the first k then a Cancelled status.
func TestJoinCancellation(t *testing.T) {
	st, dict := openTestFixture(t)
	likes := node("likes")

	mustAssert(t, st, dict, [][3]triples.Term{
		{node("p1"), likes, node("x1")},
		{node("p2"), likes, node("x2")},
		{node("p3"), likes, node("x3")},
	})

	patterns := []query.Pattern{
		query.NewPattern(query.Var("?s"), query.Const(likes), query.Var("?o")),
	}
	plan, err := planner.ComputeWithPlan(patterns, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	driver := NewDriver(ctx, st, dict, patterns, plan)
	defer driver.Close()

	row, err := driver.Next()
	require.NoError(t, err)
	require.NotNil(t, row)

	cancel()

	_, err = driver.Next()
	require.ErrorIs(t, err, triples.ErrCancelled)
}
