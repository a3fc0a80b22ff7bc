package graphcore

import "github.com/patterngraph/graphcore/internal/rangemath"

// ChildTracePos locates a single cut offset within one pattern:
// SubIndex names the child whose span contains the cut.
// InnerOffset is nil for a clean cut landing exactly on a child boundary;
// otherwise it is the atom offset within that child where the cut falls
// (a "dirty" cut requiring the child itself to be recursively split).
type ChildTracePos struct {
	SubIndex    int
	InnerOffset *int
}

// traceChildPos walks pattern, attributing offset o to a child per the
// TraceBack convention: an exact boundary belongs to the START of the
// next child, so splitting a sequence at o always yields "everything
// before o" / "everything from o onward" with no ambiguity about which
// side a boundary child belongs to.
func traceChildPos(pattern []Token, o AtomPosition) (ChildTracePos, error) {
	widths := make([]int, len(pattern))
	for i, c := range pattern {
		widths[i] = c.Width
	}
	idx, inner, clean, ok := rangemath.Locate(widths, int(o), false)
	if !ok {
		total := 0
		for _, w := range widths {
			total += w
		}
		return ChildTracePos{}, newOffsetOutOfRange(int(o), total)
	}
	if clean {
		return ChildTracePos{SubIndex: idx}, nil
	}
	return ChildTracePos{SubIndex: idx, InnerOffset: &inner}, nil
}

// SplitVertexCache records, for one vertex, the ChildTracePos computed
// against every one of its existing patterns at a given cut offset: a
// clean cut under one alternative pattern may be dirty under another,
// and the join stage must reconcile every pattern it touches.
type SplitVertexCache struct {
	Vertex  VertexIndex
	Offset  AtomPosition
	Traces  map[PatternID]ChildTracePos
}

// SplitCache is the full set of SplitVertexCache entries gathered while
// resolving the cut offsets of one insert call, keyed by vertex.
type SplitCache struct {
	entries map[VertexIndex]*SplitVertexCache
}

func newSplitCache() *SplitCache {
	return &SplitCache{entries: make(map[VertexIndex]*SplitVertexCache)}
}

// computeSplitCache walks every pattern of root and records where cut
// offset falls in each, seeding the join stage's choice of which pattern
// to treat as clean. It is purely diagnostic/advisory: the
// actual split (split.go/join.go's splitAt) always proceeds through one
// canonical pattern, but recording every alternative's trace keeps the
// cache genuinely reflective of all of root's structure, and a future
// join pass wanting to patch every alternative (not just the canonical
// one) can consult it without re-walking the graph.
func computeSplitCache(g *Graph, root Token, offset AtomPosition) (*SplitCache, error) {
	sc := newSplitCache()
	isAtom, err := g.IsAtom(root)
	if err != nil {
		return nil, err
	}
	if isAtom {
		return sc, nil
	}
	vd, err := g.Vertex(root.Index)
	if err != nil {
		return nil, err
	}
	vc := &SplitVertexCache{Vertex: root.Index, Offset: offset, Traces: make(map[PatternID]ChildTracePos)}
	for id, seq := range vd.Patterns {
		pos, err := traceChildPos(seq, offset)
		if err != nil {
			continue
		}
		vc.Traces[id] = pos
	}
	sc.entries[root.Index] = vc
	return sc, nil
}

// Get returns the recorded SplitVertexCache for vertex, if any.
func (sc *SplitCache) Get(vertex VertexIndex) (*SplitVertexCache, bool) {
	vc, ok := sc.entries[vertex]
	return vc, ok
}
