package graphcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChildCursor_NewStartsAllPositionsEqual(t *testing.T) {
	g, heldld, _, pat := buildLdHeldldGraph(t)
	rrp := NewRootedRangePath(heldld, pat)
	c := NewChildCursor(rrp, 2)

	assert.Equal(t, AtomPosition(2), c.StartPos)
	assert.Equal(t, AtomPosition(2), c.EntryPos)
	assert.Equal(t, AtomPosition(2), c.ExitPos)
	assert.Equal(t, StateCandidate, c.State)
	assert.Equal(t, AtomPosition(2), c.PositionValue())
	_ = g
}

func TestChildCursor_Advance(t *testing.T) {
	g, heldld, _, pat := buildLdHeldldGraph(t)
	rrp := NewRootedRangePath(heldld, pat)
	c := NewChildCursor(rrp, 0)
	c.ChildState.End = c.ChildState.End.Descend(heldld, pat, 0) // leaf = h, width 1

	next, result, err := c.Advance(g)
	require.NoError(t, err)
	assert.Equal(t, AdvanceContinue, result)
	assert.Equal(t, AtomPosition(1), next.ExitPos)
	assert.Equal(t, AtomPosition(0), next.StartPos, "StartPos is fixed at construction")
}

func TestChildCursor_AdvanceBreaksAtPatternEnd(t *testing.T) {
	g, heldld, _, pat := buildLdHeldldGraph(t)
	rrp := NewRootedRangePath(heldld, pat)
	c := NewChildCursor(rrp, 0)
	c.ChildState.End = c.ChildState.End.Descend(heldld, pat, 3) // last child

	_, result, err := c.Advance(g)
	require.NoError(t, err)
	assert.Equal(t, AdvanceBreak, result)
}

func TestChildCursor_MarkTransitions(t *testing.T) {
	g, heldld, _, pat := buildLdHeldldGraph(t)
	rrp := NewRootedRangePath(heldld, pat)
	c := NewChildCursor(rrp, 0)

	matched := c.MarkMatch()
	assert.Equal(t, StateMatched, matched.State)

	mismatched := c.MarkMismatch()
	assert.Equal(t, StateMismatched, mismatched.State)
	_ = g
}

func TestCompareMode_String(t *testing.T) {
	assert.Equal(t, "GraphMajor", GraphMajor.String())
	assert.Equal(t, "QueryMajor", QueryMajor.String())
}
