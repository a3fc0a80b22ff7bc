package graphcore

import (
	"sort"

	"github.com/patterngraph/graphcore/internal/rangemath"
)

// AtomExpansion returns the flat sequence of width-1 atoms t covers, by
// repeatedly expanding composite tokens through one chosen pattern. Every
// alternative pattern of a vertex sums to the same width and represents
// the same underlying atom sequence (the vertex denotes one token
// regardless of how it is grouped), so any pattern is a valid expansion
// source; anyPattern picks deterministically.
func AtomExpansion(g *Graph, t Token) ([]Token, error) {
	isAtom, err := g.IsAtom(t)
	if err != nil {
		return nil, err
	}
	if isAtom {
		return []Token{t}, nil
	}
	vd, err := g.Vertex(t.Index)
	if err != nil {
		return nil, err
	}
	_, seq, err := anyPattern(vd)
	if err != nil {
		return nil, err
	}
	out := make([]Token, 0, vd.Token.Width)
	for _, child := range seq {
		atoms, err := AtomExpansion(g, child)
		if err != nil {
			return nil, err
		}
		out = append(out, atoms...)
	}
	return out, nil
}

// flattenAll flattens every token of seq in order, concatenating their
// atom expansions.
func flattenAll(g *Graph, seq []Token) ([]Token, error) {
	out := make([]Token, 0, len(seq))
	for _, t := range seq {
		atoms, err := AtomExpansion(g, t)
		if err != nil {
			return nil, err
		}
		out = append(out, atoms...)
	}
	return out, nil
}

// anyPattern picks the lowest-id pattern of vd, for deterministic
// decomposition when multiple equivalent alternatives exist.
func anyPattern(vd VertexData) (PatternID, []Token, error) {
	if len(vd.Patterns) == 0 {
		return 0, nil, newMissingPattern(vd.Token.Index, 0)
	}
	ids := make([]PatternID, 0, len(vd.Patterns))
	for id := range vd.Patterns {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	best := ids[0]
	return best, vd.Patterns[best], nil
}

// cumulativeWidthBefore returns the atom offset of the start of seq[idx]
// within the concatenation of seq.
func cumulativeWidthBefore(seq []Token, idx int) AtomPosition {
	widths := make([]int, idx)
	for i := 0; i < idx; i++ {
		widths[i] = seq[i].Width
	}
	cw := rangemath.CumulativeWidths(widths)
	return AtomPosition(cw[len(cw)-1])
}

// buildDescent reconstructs the concrete ChildLocation steps of a RolePath
// descending from root to exactly atomsWanted atoms into it. back selects
// the boundary convention used by rangemath.Locate when atomsWanted lands
// exactly between two siblings: back=true is appropriate for a Start
// boundary (the leaf begins the matched range), back=false for an End
// boundary (the leaf ends it, inclusive).
func buildDescent(g *Graph, root Token, atomsWanted AtomPosition, back bool) ([]ChildLocation, error) {
	var steps []ChildLocation
	current := root
	remaining := int(atomsWanted)
	for remaining > 0 && remaining < current.Width {
		vd, err := g.Vertex(current.Index)
		if err != nil {
			return nil, err
		}
		patID, seq, err := anyPattern(vd)
		if err != nil {
			return nil, err
		}
		widths := make([]int, len(seq))
		for i, c := range seq {
			widths[i] = c.Width
		}
		idx, inner, _, ok := rangemath.Locate(widths, remaining, !back)
		if !ok {
			return nil, newOffsetOutOfRange(remaining, current.Width)
		}
		steps = append(steps, ChildLocation{Parent: current, Pattern: patID, SubIndex: idx})
		current = seq[idx]
		remaining = inner
	}
	return steps, nil
}
