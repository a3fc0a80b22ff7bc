package graphcore

import (
	"iter"
	"maps"
	"sync"
)

// vertexData is the graph's internal, mutable representation of one
// vertex. Atoms have an empty patterns map; composites have one or more.
// Reads and structural mutation are serialised at vertex granularity via
// mu: shared read, exclusive mutate.
type vertexData struct {
	mu sync.RWMutex

	index  VertexIndex
	width  int
	symbol string // non-empty only for atoms

	patterns      map[PatternID][]Token
	nextPatternID PatternID

	// parents maps a parent vertex to the set of sub-locations inside that
	// parent's patterns where this vertex appears as a child.
	parents map[VertexIndex]map[SubLocation]struct{}
}

func newAtomVertex(idx VertexIndex, symbol string) *vertexData {
	return &vertexData{
		index:   idx,
		width:   1,
		symbol:  symbol,
		parents: make(map[VertexIndex]map[SubLocation]struct{}),
	}
}

func newCompositeVertex(idx VertexIndex, width int) *vertexData {
	return &vertexData{
		index:    idx,
		width:    width,
		patterns: make(map[PatternID][]Token),
		parents:  make(map[VertexIndex]map[SubLocation]struct{}),
	}
}

func (v *vertexData) isAtom() bool {
	return len(v.patterns) == 0
}

// tokenHandle returns a Token handle for this vertex.
func (v *vertexData) tokenHandle() Token {
	return Token{Index: v.index, Width: v.width}
}

func (v *vertexData) addParentLocked(child *vertexData, loc ChildLocation) {
	set, ok := child.parents[v.index]
	if !ok {
		set = make(map[SubLocation]struct{})
		child.parents[v.index] = set
	}
	set[loc.Sub()] = struct{}{}
}

func (v *vertexData) removeParentLocked(child *vertexData, loc ChildLocation) {
	set, ok := child.parents[v.index]
	if !ok {
		return
	}
	delete(set, loc.Sub())
	if len(set) == 0 {
		delete(child.parents, v.index)
	}
}

// addPatternLocked appends a new pattern to v and wires back-edges on each
// child. Caller must hold v.mu for writing and must have already validated
// the summed width.
func (v *vertexData) addPatternLocked(g *Graph, seq []Token) PatternID {
	id := v.nextPatternID
	v.nextPatternID++
	v.patterns[id] = seq
	for i, child := range seq {
		cv := g.vertexByIndex(child.Index)
		cv.mu.Lock()
		v.addParentLocked(cv, ChildLocation{Parent: v.tokenHandle(), Pattern: id, SubIndex: i})
		cv.mu.Unlock()
	}
	return id
}

// ParentEdge describes one back-edge: Parent's pattern Pattern names this
// vertex as its child at position SubIndex.
type ParentEdge struct {
	Parent   Token
	Pattern  PatternID
	SubIndex int
}

// VertexData is a read-only snapshot of a vertex, returned by Graph.Vertex.
// Patterns and Parents are copies; mutating them has no effect on the
// graph.
type VertexData struct {
	Token    Token
	Patterns map[PatternID][]Token
	Parents  map[VertexIndex]map[SubLocation]struct{}
}

func snapshotVertex(v *vertexData) VertexData {
	v.mu.RLock()
	defer v.mu.RUnlock()

	patterns := make(map[PatternID][]Token, len(v.patterns))
	for id, seq := range v.patterns {
		cp := make([]Token, len(seq))
		copy(cp, seq)
		patterns[id] = cp
	}

	parents := make(map[VertexIndex]map[SubLocation]struct{}, len(v.parents))
	for idx, set := range v.parents {
		parents[idx] = maps.Clone(set)
	}

	return VertexData{
		Token:    v.tokenHandle(),
		Patterns: patterns,
		Parents:  parents,
	}
}

// parentEdges returns a lazy iterator over this vertex's parent back-edges.
// The returned ParentEdge.Parent token's Width field is left zero; callers
// that need it should resolve it via Graph.Vertex.
func parentEdges(v *vertexData) iter.Seq[ParentEdge] {
	return func(yield func(ParentEdge) bool) {
		v.mu.RLock()
		defer v.mu.RUnlock()
		for parentIdx, set := range v.parents {
			for sub := range set {
				edge := ParentEdge{
					Parent:   Token{Index: parentIdx},
					Pattern:  sub.Pattern,
					SubIndex: sub.SubIndex,
				}
				if !yield(edge) {
					return
				}
			}
		}
	}
}
