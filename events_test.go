package graphcore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_EmitsSearchEvents(t *testing.T) {
	sink := make(chan GraphOpEvent, 128)
	g := NewGraph(WithEventSink(sink))
	a := g.InsertAtom("a")
	b := g.InsertAtom("b")
	_, _, err := g.InsertPattern([]Token{a, b})
	require.NoError(t, err)

	_, err = FindAncestor(g, []Token{a, b})
	require.NoError(t, err)
	close(sink)

	var events []GraphOpEvent
	for ev := range sink {
		events = append(events, ev)
	}
	require.NotEmpty(t, events)
	assert.Equal(t, TransitionStartNode, events[0].Transition)
	assert.Equal(t, events[0].PathID, events[len(events)-1].PathID, "every event of one search shares a correlating path id")
	assert.Equal(t, TransitionDone, events[len(events)-1].Transition)
}

func TestGraph_EmitsInsertEvents(t *testing.T) {
	sink := make(chan GraphOpEvent, 128)
	g := NewGraph(WithEventSink(sink))
	a := g.InsertAtom("a")
	b := g.InsertAtom("b")

	_, err := Insert(g, []Token{a, b})
	require.NoError(t, err)
	close(sink)

	var events []GraphOpEvent
	for ev := range sink {
		events = append(events, ev)
	}
	require.NotEmpty(t, events)
	assert.Equal(t, "insert", events[0].OpType)
	assert.Equal(t, TransitionStartNode, events[0].Transition)
}

func TestGraph_NoSinkConfigured_EmitIsANoop(t *testing.T) {
	g := NewGraph()
	a := g.InsertAtom("a")
	b := g.InsertAtom("b")
	_, _, err := g.InsertPattern([]Token{a, b})
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		_, err := FindAncestor(g, []Token{a, b})
		require.NoError(t, err)
	})
}

func TestDebugTrace_RendersIndentedSteps(t *testing.T) {
	loc := ChildLocation{Parent: Token{Index: 1, Width: 2}, Pattern: 0, SubIndex: 1}
	events := []GraphOpEvent{
		{Step: 1, OpType: "search", Transition: TransitionStartNode, PathID: "p1", Description: "starting"},
		{Step: 2, OpType: "search", Transition: TransitionRootExplore, Location: &loc, PathID: "p1"},
		{Step: 3, OpType: "search", Transition: TransitionChildMismatch, Location: &loc, PathID: "p1"},
		{Step: 4, OpType: "search", Transition: TransitionDone, PathID: "p1", Description: "matched 2 atoms"},
	}
	out := DebugTrace(events)
	assert.True(t, strings.Contains(out, "StartNode"))
	assert.True(t, strings.Contains(out, "RootExplore"))
	assert.True(t, strings.Contains(out, "matched 2 atoms"))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	// RootExplore opens one indentation level for the following line.
	assert.True(t, strings.HasPrefix(lines[2], "  "))
}
