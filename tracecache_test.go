package graphcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceCache_RecordBottomUpAndTopDown(t *testing.T) {
	tc := NewTraceCache()
	parent := Token{Index: 5, Width: 4}
	edgeA := ChildLocation{Parent: parent, Pattern: 0, SubIndex: 0}
	edgeB := ChildLocation{Parent: parent, Pattern: 1, SubIndex: 2}

	tc.RecordBottomUp(VertexIndex(3), 0, edgeA)
	tc.RecordBottomUp(VertexIndex(3), 0, edgeB)
	tc.RecordTopDown(VertexIndex(3), 2, edgeA)

	vc, ok := tc.Get(VertexIndex(3))
	require.True(t, ok)
	require.Contains(t, vc.BottomUp, AtomPosition(0))
	assert.Len(t, vc.BottomUp[AtomPosition(0)].Edges, 2, "two distinct incoming edges at the same position both accumulate")
	require.Contains(t, vc.TopDown, AtomPosition(2))

	assert.Equal(t, []AtomPosition{0}, vc.SortedBottomUp())
	assert.Equal(t, []AtomPosition{2}, vc.SortedTopDown())
}

func TestTraceCache_DuplicateEdgeDoesNotAccumulate(t *testing.T) {
	tc := NewTraceCache()
	edge := ChildLocation{Parent: Token{Index: 1}, Pattern: 0, SubIndex: 0}
	tc.RecordBottomUp(VertexIndex(1), 0, edge)
	tc.RecordBottomUp(VertexIndex(1), 0, edge)

	vc, ok := tc.Get(VertexIndex(1))
	require.True(t, ok)
	assert.Len(t, vc.BottomUp[AtomPosition(0)].Edges, 1)
}

func TestTraceCache_VerticesSortedAscending(t *testing.T) {
	tc := NewTraceCache()
	tc.RecordBottomUp(VertexIndex(5), 0, ChildLocation{})
	tc.RecordBottomUp(VertexIndex(1), 0, ChildLocation{})
	tc.RecordBottomUp(VertexIndex(3), 0, ChildLocation{})

	assert.Equal(t, []VertexIndex{1, 3, 5}, tc.Vertices())
}

func TestTraceCache_UnknownVertexNotFound(t *testing.T) {
	tc := NewTraceCache()
	_, ok := tc.Get(VertexIndex(42))
	assert.False(t, ok)
}
