package graphcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVizPathGraph_SetRootRequiresStartNode(t *testing.T) {
	v := NewVizPathGraph()
	err := v.SetRoot(Token{Index: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVizNoStartNode)
}

func TestVizPathGraph_SetRootCannotRepeat(t *testing.T) {
	v := NewVizPathGraph()
	v.SetStartNode(Token{Index: 1})
	require.NoError(t, v.SetRoot(Token{Index: 2}))

	err := v.SetRoot(Token{Index: 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVizRootSet)
}

func TestVizPathGraph_PushChildRequiresRoot(t *testing.T) {
	v := NewVizPathGraph()
	v.SetStartNode(Token{Index: 1})

	err := v.PushChild(ChildLocation{Parent: Token{Index: 2}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVizNoRoot)
}

func TestVizPathGraph_PopAndReplaceChildRequireNonEmptyPath(t *testing.T) {
	v := NewVizPathGraph()
	v.SetStartNode(Token{Index: 1})
	require.NoError(t, v.SetRoot(Token{Index: 2}))

	err := v.PopChild()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVizEmptyPath)

	err = v.ReplaceChild(ChildLocation{Parent: Token{Index: 2}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVizEmptyPath)

	loc := ChildLocation{Parent: Token{Index: 2}, SubIndex: 0}
	require.NoError(t, v.PushChild(loc))
	require.NoError(t, v.PopChild())
	assert.Empty(t, v.EndPath())
}

func TestVizPathGraph_FullLifecycle(t *testing.T) {
	v := NewVizPathGraph()
	start := Token{Index: 1}
	root := Token{Index: 2}
	v.SetStartNode(start)
	v.PushParent(ChildLocation{Parent: root, SubIndex: 0})
	require.NoError(t, v.SetRoot(root))

	loc1 := ChildLocation{Parent: root, SubIndex: 0}
	loc2 := ChildLocation{Parent: Token{Index: 3}, SubIndex: 1}
	require.NoError(t, v.PushChild(loc1))
	require.NoError(t, v.PushChild(loc2))

	gotStart, ok := v.StartNode()
	require.True(t, ok)
	assert.True(t, gotStart.Equal(start))

	gotRoot, ok := v.Root()
	require.True(t, ok)
	assert.True(t, gotRoot.Equal(root))

	require.Len(t, v.StartPath(), 1)
	require.Len(t, v.EndPath(), 2)

	replacement := ChildLocation{Parent: Token{Index: 4}, SubIndex: 2}
	require.NoError(t, v.ReplaceChild(replacement))
	assert.Equal(t, replacement, v.EndPath()[len(v.EndPath())-1])
}
