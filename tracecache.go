package graphcore

import (
	"slices"
	"sync"
)

// PositionCache records one visited position inside a vertex during
// search: the incoming edge(s) that reached it and the sub-locations the
// traversal used to get there. Multiple edges accumulate when several
// distinct parent patterns lead to the same (vertex, position) pair.
type PositionCache struct {
	Edges        []ChildLocation
	SubLocations []SubLocation
}

func (p *PositionCache) addEdge(edge ChildLocation) {
	for _, e := range p.Edges {
		if e == edge {
			return
		}
	}
	p.Edges = append(p.Edges, edge)
	p.SubLocations = append(p.SubLocations, edge.Sub())
}

// VertexCache holds every position visited within one vertex during a
// single search, split by the direction traversal entered from.
type VertexCache struct {
	// BottomUp holds positions entered from a child, via the parent walk.
	BottomUp map[AtomPosition]*PositionCache
	// TopDown holds positions entered from a parent, via prefix descent.
	TopDown map[AtomPosition]*PositionCache
}

func newVertexCache() *VertexCache {
	return &VertexCache{
		BottomUp: make(map[AtomPosition]*PositionCache),
		TopDown:  make(map[AtomPosition]*PositionCache),
	}
}

// SortedBottomUp returns BottomUp's positions in ascending order.
func (v *VertexCache) SortedBottomUp() []AtomPosition {
	return sortedKeys(v.BottomUp)
}

// SortedTopDown returns TopDown's positions in ascending order.
func (v *VertexCache) SortedTopDown() []AtomPosition {
	return sortedKeys(v.TopDown)
}

func sortedKeys(m map[AtomPosition]*PositionCache) []AtomPosition {
	keys := make([]AtomPosition, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// TraceCache is a per-search, write-through cache: every parent climb the
// search evaluates is recorded bottom-up, and the descent steps of the
// final match's End path are recorded top-down. It is created per search
// invocation, consumed by the insert
// pipeline to seed split derivation, then discarded.
type TraceCache struct {
	mu       sync.Mutex
	vertices map[VertexIndex]*VertexCache
}

// NewTraceCache returns an empty trace cache.
func NewTraceCache() *TraceCache {
	return &TraceCache{vertices: make(map[VertexIndex]*VertexCache)}
}

func (tc *TraceCache) entry(vertex VertexIndex) *VertexCache {
	vc, ok := tc.vertices[vertex]
	if !ok {
		vc = newVertexCache()
		tc.vertices[vertex] = vc
	}
	return vc
}

// RecordBottomUp records that traversal reached (vertex, pos) by walking
// up from a child via edge.
func (tc *TraceCache) RecordBottomUp(vertex VertexIndex, pos AtomPosition, edge ChildLocation) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	vc := tc.entry(vertex)
	pc, ok := vc.BottomUp[pos]
	if !ok {
		pc = &PositionCache{}
		vc.BottomUp[pos] = pc
	}
	pc.addEdge(edge)
}

// RecordTopDown records that traversal reached (vertex, pos) by
// descending from a parent via edge.
func (tc *TraceCache) RecordTopDown(vertex VertexIndex, pos AtomPosition, edge ChildLocation) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	vc := tc.entry(vertex)
	pc, ok := vc.TopDown[pos]
	if !ok {
		pc = &PositionCache{}
		vc.TopDown[pos] = pc
	}
	pc.addEdge(edge)
}

// Get returns the VertexCache recorded for vertex, if any.
func (tc *TraceCache) Get(vertex VertexIndex) (*VertexCache, bool) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	vc, ok := tc.vertices[vertex]
	return vc, ok
}

// Vertices returns every vertex index with at least one recorded
// position, in ascending order (for deterministic iteration in tests and
// split-cache seeding).
func (tc *TraceCache) Vertices() []VertexIndex {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	out := make([]VertexIndex, 0, len(tc.vertices))
	for k := range tc.vertices {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
