package join

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wbrown/janus-triples/triples/store"
)

// fakeCursor is a sorted-slice store.Cursor, for exercising frame.advance
// directly against spec.md §4.3.1's leapfrog intersection without going
// through a real backend.
type fakeCursor struct {
	values []store.Code
	idx    int
}

func newFakeCursor(values ...store.Code) *fakeCursor {
	sorted := append([]store.Code(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return &fakeCursor{values: sorted}
}

func (c *fakeCursor) Key() store.Code { return c.values[c.idx] }
func (c *fakeCursor) AtEnd() bool     { return c.idx >= len(c.values) }
func (c *fakeCursor) Close() error    { return nil }

func (c *fakeCursor) Next() error {
	if c.AtEnd() {
		return nil
	}
	c.idx++
	return nil
}

func (c *fakeCursor) Seek(target store.Code) error {
	for !c.AtEnd() && c.values[c.idx] < target {
		c.idx++
	}
	return nil
}

func collectFrame(t *testing.T, f *frame) []store.Code {
	t.Helper()
	var out []store.Code
	for {
		val, ok, err := f.advance()
		require.NoError(t, err)
		if !ok {
			return out
		}
		out = append(out, val)
	}
}

func newSortedFrame(cursors ...store.Cursor) *frame {
	f := &frame{cursors: cursors}
	empty := false
	for _, c := range cursors {
		if c.AtEnd() {
			empty = true
			break
		}
	}
	f.empty = empty
	if !empty {
		sort.Slice(f.cursors, func(i, j int) bool { return f.cursors[i].Key() < f.cursors[j].Key() })
	}
	return f
}

func TestFrameAdvanceIntersectsTwoCursors(t *testing.T) {
	f := newSortedFrame(
		newFakeCursor(1, 2, 3, 5, 8),
		newFakeCursor(2, 3, 5, 7),
	)
	require.Equal(t, []store.Code{2, 3, 5}, collectFrame(t, f))
}

func TestFrameAdvanceIntersectsThreeCursors(t *testing.T) {
	f := newSortedFrame(
		newFakeCursor(1, 2, 3, 4, 5),
		newFakeCursor(2, 3, 4),
		newFakeCursor(3, 4, 10),
	)
	require.Equal(t, []store.Code{3, 4}, collectFrame(t, f))
}

func TestFrameAdvanceNoOverlapIsEmpty(t *testing.T) {
	f := newSortedFrame(
		newFakeCursor(1, 2, 3),
		newFakeCursor(10, 11, 12),
	)
	require.Empty(t, collectFrame(t, f))
}

func TestFrameAdvanceExhaustedCursorAtOpenIsEmpty(t *testing.T) {
	f := newSortedFrame(
		newFakeCursor(1, 2, 3),
		newFakeCursor(), // exhausted immediately
	)
	require.Empty(t, collectFrame(t, f))
}

func TestFrameAdvanceSingleCursorYieldsEveryValue(t *testing.T) {
	f := newSortedFrame(newFakeCursor(4, 9, 16))
	require.Equal(t, []store.Code{4, 9, 16}, collectFrame(t, f))
}

func TestEmptyCursorAlwaysAtEnd(t *testing.T) {
	var c emptyCursor
	require.True(t, c.AtEnd())
	require.NoError(t, c.Next())
	require.NoError(t, c.Seek(5))
	require.NoError(t, c.Close())
	require.True(t, c.AtEnd())
}
