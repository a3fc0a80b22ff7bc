package graphcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildLdHeldldGraph(t *testing.T) (g *Graph, heldld, ld Token, heldldPattern PatternID) {
	t.Helper()
	g = NewGraph()
	h := g.InsertAtom("h")
	e := g.InsertAtom("e")
	l := g.InsertAtom("l")
	d := g.InsertAtom("d")

	var err error
	ld, _, err = g.InsertPattern([]Token{l, d})
	require.NoError(t, err)
	heldld, _, err = g.InsertPattern([]Token{h, e, ld, ld})
	require.NoError(t, err)

	vd, err := g.Vertex(heldld.Index)
	require.NoError(t, err)
	heldldPattern, _, err = anyPattern(vd)
	require.NoError(t, err)
	return
}

func TestRolePath_DescendAndLeaf(t *testing.T) {
	g, heldld, ld, pat := buildLdHeldldGraph(t)

	p := NewRolePath(heldld, pat, RoleEnd)
	leaf, err := p.Leaf(g)
	require.NoError(t, err)
	assert.True(t, leaf.Equal(heldld), "an un-descended path's leaf is the root")

	p = p.Descend(heldld, pat, 2)
	leaf, err = p.Leaf(g)
	require.NoError(t, err)
	assert.True(t, leaf.Equal(ld))
}

func TestRolePath_AdvanceSibling(t *testing.T) {
	g, heldld, _, pat := buildLdHeldldGraph(t)

	p := NewRolePath(heldld, pat, RoleEnd).Descend(heldld, pat, 0)
	next, ok, err := p.AdvanceSibling(g)
	require.NoError(t, err)
	assert.True(t, ok)
	leaf, err := next.Leaf(g)
	require.NoError(t, err)
	vd, _ := g.Vertex(heldld.Index)
	seq := vd.Patterns[pat]
	assert.True(t, leaf.Equal(seq[1]))

	// Advancing past the last child reports ok=false.
	last := NewRolePath(heldld, pat, RoleEnd).Descend(heldld, pat, len(seq)-1)
	_, ok, err = last.AdvanceSibling(g)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRolePath_Ascend(t *testing.T) {
	g, heldld, ld, pat := buildLdHeldldGraph(t)
	p := NewRolePath(heldld, pat, RoleEnd).Descend(heldld, pat, 2)
	up := p.Ascend()
	leaf, err := up.Leaf(g)
	require.NoError(t, err)
	assert.True(t, leaf.Equal(heldld))

	// Ascending past the root is a no-op.
	root := NewRolePath(heldld, pat, RoleEnd)
	assert.Equal(t, root, root.Ascend())
	_ = ld
}

func TestRolePath_Simplify(t *testing.T) {
	g := NewGraph()
	a := g.InsertAtom("a")
	wrapped, pat, err := g.InsertPattern([]Token{a})
	require.NoError(t, err)

	p := NewRolePath(wrapped, pat, RoleEnd).Descend(wrapped, pat, 0)
	simplified := p.Simplify(g)
	assert.Empty(t, simplified.Steps, "a single-child pattern step adds no positional information and collapses away")
}

func TestRootedRangePath_SharesRootPattern(t *testing.T) {
	_, heldld, _, pat := buildLdHeldldGraph(t)
	rrp := NewRootedRangePath(heldld, pat)
	assert.Equal(t, pat, rrp.Start.RootPattern)
	assert.Equal(t, pat, rrp.End.RootPattern)
	assert.True(t, rrp.Root.Equal(heldld))
}
