package graphcore

import (
	"sort"

	"github.com/patterngraph/graphcore/internal/slicesutil"
)

// CheckInvariants re-verifies the graph's two structural invariants:
// every pattern's children widths sum to the vertex's own width, and
// every child->parent back-edge has a matching forward edge and vice
// versa. It never mutates the graph and is safe to call concurrently
// with searches; callers that also run inserts should serialise around
// an Insert call themselves if they need a point-in-time-consistent
// view.
func (g *Graph) CheckInvariants() error {
	g.structMu.RLock()
	indices := make([]VertexIndex, len(g.vertices))
	for i := range g.vertices {
		indices[i] = VertexIndex(i)
	}
	g.structMu.RUnlock()

	for _, idx := range indices {
		vd, err := g.Vertex(idx)
		if err != nil {
			return err
		}
		for pid, seq := range vd.Patterns {
			sum := 0
			for _, child := range seq {
				w, err := g.Width(child)
				if err != nil {
					return err
				}
				sum += w
			}
			if sum != vd.Token.Width {
				return newWidthMismatch("vertex %d pattern %d: children widths sum to %d, want %d", idx, pid, sum, vd.Token.Width)
			}
			if err := g.checkBackEdges(idx, pid, seq); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkBackEdges verifies, for one (vertex, pattern), that every child it
// names reports a matching parent sub-location, and that the reverse
// direction agrees exactly: the set of sub-locations recoverable by
// walking every child's parent back-edges for this vertex must equal the
// set the pattern itself implies. The two sides are compared as
// unordered sets via slicesutil since map iteration order is
// unspecified.
func (g *Graph) checkBackEdges(vertex VertexIndex, pattern PatternID, seq []Token) error {
	want := make([]SubLocation, len(seq))
	for i := range seq {
		want[i] = SubLocation{Pattern: pattern, SubIndex: i}
	}
	sort.Slice(want, func(i, j int) bool { return want[i].SubIndex < want[j].SubIndex })

	var got []SubLocation
	seen := make(map[VertexIndex]bool, len(seq))
	for _, child := range seq {
		// A child repeated in seq already yields all of its sub-locations
		// in this pattern the first time it is visited.
		if seen[child.Index] {
			continue
		}
		seen[child.Index] = true
		cv := g.vertexByIndex(child.Index)
		for e := range parentEdges(cv) {
			if e.Parent.Index != vertex || e.Pattern != pattern {
				continue
			}
			got = append(got, SubLocation{Pattern: e.Pattern, SubIndex: e.SubIndex})
		}
	}

	if !slicesutil.EqualUnsorted(want, got) {
		return newBackEdgeViolation("vertex %d pattern %d: back-edge set %v does not match pattern children %v", vertex, pattern, got, want)
	}
	return nil
}
