package graphcore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchIterator_StepwiseMatchesDrainedResult(t *testing.T) {
	g, xabyz, by, z := buildXabyzGraph(t)

	it, err := NewSearchIterator(g, []Token{by, z})
	require.NoError(t, err)

	var steps []SearchStep
	for {
		step, ok, err := it.Next(context.Background())
		require.NoError(t, err)
		if !ok {
			break
		}
		steps = append(steps, step)
	}
	require.NotEmpty(t, steps)
	assert.Equal(t, ChildCandidate, steps[0].Node.Kind, "the first popped node measures the query against its own first token")
	assert.True(t, steps[0].NewBest)
	for _, s := range steps[1:] {
		assert.Equal(t, ParentCandidate, s.Node.Kind)
	}

	resp, err := it.Response()
	require.NoError(t, err)

	// Stepping manually must land on exactly the same result as the
	// one-shot driver.
	direct, err := FindAncestor(g, []Token{by, z})
	require.NoError(t, err)
	assert.Equal(t, direct.End.MatchedAtoms, resp.End.MatchedAtoms)
	assert.Equal(t, direct.End.Path.Kind, resp.End.Path.Kind)
	assert.True(t, resp.End.Path.Path.Root.Equal(xabyz))
}

func TestSearchIterator_ExhaustionReportsDone(t *testing.T) {
	g := NewGraph()
	a := g.InsertAtom("a")

	it, err := NewSearchIterator(g, []Token{a})
	require.NoError(t, err)

	_, ok, err := it.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = it.Next(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	// Next after exhaustion stays exhausted.
	_, ok, err = it.Next(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSearchIterator_ValidationErrorsKeepCache(t *testing.T) {
	g := NewGraph()
	it, err := NewSearchIterator(g, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyQuery)
	require.NotNil(t, it, "the iterator is returned even on error so its cache stays inspectable")
	assert.NotNil(t, it.Cache())
	assert.Empty(t, it.Cache().Vertices())
}

func TestSearchIterator_CancelledContextStopsBetweenSteps(t *testing.T) {
	g := NewGraph()
	a := g.InsertAtom("a")
	b := g.InsertAtom("b")
	_, _, err := g.InsertPattern([]Token{a, b})
	require.NoError(t, err)

	it, err := NewSearchIterator(g, []Token{a, b})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok, err := it.Next(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)
}

func TestSearchIterator_DequeuesDuplicateParentSlots(t *testing.T) {
	// heldld names ld twice; both occurrences are the same (parent,
	// pattern, sub_index) family of climbs but at distinct sub-indices, so
	// both are visited exactly once and neither is re-popped.
	g := NewGraph()
	h := g.InsertAtom("h")
	e := g.InsertAtom("e")
	l := g.InsertAtom("l")
	d := g.InsertAtom("d")
	ld, _, err := g.InsertPattern([]Token{l, d})
	require.NoError(t, err)
	_, _, err = g.InsertPattern([]Token{h, e, ld, ld})
	require.NoError(t, err)

	it, err := NewSearchIterator(g, []Token{ld, ld})
	require.NoError(t, err)

	seen := make(map[[3]int]int)
	parentPops := 0
	for {
		step, ok, nerr := it.Next(context.Background())
		require.NoError(t, nerr)
		if !ok {
			break
		}
		if step.Node.Kind != ParentCandidate {
			continue
		}
		key := [3]int{int(step.Node.Root.Index), int(step.Node.Pattern), step.Node.SubIndex}
		seen[key]++
		parentPops++
	}
	assert.Equal(t, 2, parentPops, "both occurrences of ld inside heldld are distinct climb slots")
	for key, count := range seen {
		assert.Equal(t, 1, count, "parent slot %v popped more than once", key)
	}
}
