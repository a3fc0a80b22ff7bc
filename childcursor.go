package graphcore

// IndexRangePath is the index-side (graph/ancestor-walk) analogue of
// RootedRangePath: the same rooted-cover shape, reused for the "I" side of
// CompareState<Q,I> so query-major and graph-major decomposition share one
// representation.
type IndexRangePath = RootedRangePath

// ChildCursor wraps the current index-side traversal state as the query is
// matched against successively larger ancestors: a StartPos is
// the atom offset at which this child's span begins under its root, an
// EntryPos is the position at which traversal entered the child, and
// ExitPos is the position currently reached while descending it.
type ChildCursor struct {
	ChildState IndexRangePath
	StartPos   AtomPosition
	EntryPos   AtomPosition
	ExitPos    AtomPosition
	State      StateMarker
}

// NewChildCursor starts a ChildCursor over path with all three positions
// set to start.
func NewChildCursor(path IndexRangePath, start AtomPosition) ChildCursor {
	return ChildCursor{ChildState: path, StartPos: start, EntryPos: start, ExitPos: start, State: StateCandidate}
}

// PositionValue implements Positioned for Checkpointed[ChildCursor].
func (c ChildCursor) PositionValue() AtomPosition { return c.ExitPos }

// Leaf returns the token currently denoted by the cursor's End path.
func (c ChildCursor) Leaf(g *Graph) (Token, error) {
	return c.ChildState.End.Leaf(g)
}

// MarkMatch returns a copy of c transitioned to Matched.
func (c ChildCursor) MarkMatch() ChildCursor {
	c.State = StateMatched
	return c
}

// MarkMismatch returns a copy of c transitioned to Mismatched.
func (c ChildCursor) MarkMismatch() ChildCursor {
	c.State = StateMismatched
	return c
}

// MarkCandidate returns a copy of c transitioned back to Candidate,
// preserving its path and positions.
func (c ChildCursor) MarkCandidate() ChildCursor {
	c.State = StateCandidate
	return c
}

// Advance moves the index-side End path forward by one token, the same
// way PathCursor.Advance does, updating ExitPos.
func (c ChildCursor) Advance(g *Graph) (ChildCursor, AdvanceResult, error) {
	leaf, err := c.ChildState.End.Leaf(g)
	if err != nil {
		return c, AdvanceBreak, err
	}
	width, err := g.Width(leaf)
	if err != nil {
		return c, AdvanceBreak, err
	}
	nextEnd, ok, err := c.ChildState.End.AdvanceSibling(g)
	if err != nil {
		return c, AdvanceBreak, err
	}
	if !ok {
		return c, AdvanceBreak, nil
	}
	newState := c.ChildState
	newState.End = nextEnd
	return ChildCursor{
		ChildState: newState,
		StartPos:   c.StartPos,
		EntryPos:   c.EntryPos,
		ExitPos:    c.ExitPos + AtomPosition(width),
		State:      c.State,
	}, AdvanceContinue, nil
}

// PrefixChildren mirrors PathCursor.PrefixStatesFrom for the index side: it
// produces one candidate ChildCursor per alternative pattern of the
// current End leaf, descended one level into that pattern's first child,
// sorted by descending child width (the prefix-child decomposition
// order). Every produced cursor keeps the cursor's current
// ExitPos, since exploring a decomposition does not by itself confirm any
// further atoms.
func (c ChildCursor) PrefixChildren(g *Graph) ([]ChildCursor, error) {
	leaf, err := c.ChildState.End.Leaf(g)
	if err != nil {
		return nil, err
	}
	isAtom, err := g.IsAtom(leaf)
	if err != nil {
		return nil, err
	}
	if isAtom {
		return nil, nil
	}

	vd, err := g.Vertex(leaf.Index)
	if err != nil {
		return nil, err
	}

	type candidate struct {
		path  RolePath
		width int
	}
	candidates := make([]candidate, 0, len(vd.Patterns))
	for patID, seq := range vd.Patterns {
		if len(seq) == 0 {
			continue
		}
		child := seq[0]
		newEnd := c.ChildState.End.Descend(leaf, patID, 0)
		candidates = append(candidates, candidate{path: newEnd, width: child.Width})
	}
	sortCandidatesDesc(candidates, func(a, b candidate) bool {
		return a.width > b.width
	})

	out := make([]ChildCursor, 0, len(candidates))
	for _, cd := range candidates {
		newState := c.ChildState
		newState.End = cd.path
		out = append(out, ChildCursor{ChildState: newState, StartPos: c.ExitPos, EntryPos: c.ExitPos, ExitPos: c.ExitPos, State: StateCandidate})
	}
	return out, nil
}

// DescendPattern walks every child of the given pattern under the
// cursor's current End leaf, via repeated Advance calls starting from
// sub-index 0, returning one ChildCursor per child in order. It is used
// once PrefixChildren has picked which alternative pattern to decompose
// into.
func (c ChildCursor) DescendPattern(g *Graph, pattern PatternID) ([]ChildCursor, error) {
	leaf, err := c.ChildState.End.Leaf(g)
	if err != nil {
		return nil, err
	}
	newState := c.ChildState
	newState.End = c.ChildState.End.Descend(leaf, pattern, 0)
	cur := ChildCursor{ChildState: newState, StartPos: c.ExitPos, EntryPos: c.ExitPos, ExitPos: c.ExitPos, State: StateCandidate}
	out := []ChildCursor{cur}
	for {
		next, res, err := cur.Advance(g)
		if err != nil {
			return nil, err
		}
		if res == AdvanceBreak {
			break
		}
		out = append(out, next)
		cur = next
	}
	return out, nil
}

// CompareMode selects which side is decomposed first when two leaf tokens
// being compared have differing widths.
type CompareMode int

const (
	// GraphMajor decomposes the path/index-side (graph) leaf first.
	GraphMajor CompareMode = iota
	// QueryMajor decomposes the query-side leaf first.
	QueryMajor
)

func (m CompareMode) String() string {
	if m == GraphMajor {
		return "GraphMajor"
	}
	return "QueryMajor"
}

// CompareState is the lockstep pair driving one root's comparison:
// a checkpointed query-side cursor, a checkpointed index-side
// cursor, a Target atom width (the search drivers in rootcursor.go set
// it to 0 and nothing reads it), and the decomposition mode the last
// decompose step used.
type CompareState struct {
	Query  Checkpointed[PathCursor]
	Index  Checkpointed[ChildCursor]
	Target AtomPosition
	Mode   CompareMode
}

func newCompareState(q PathCursor, i ChildCursor, target AtomPosition) CompareState {
	return CompareState{Query: NewCheckpointed[PathCursor](q), Index: NewCheckpointed[ChildCursor](i), Target: target}
}

// compareLockstep runs the compare loop against the current fronts of
// qStack/iStack: equal leaves confirm a match and promote both
// checkpoints; two mismatching atoms revert both candidates and stop;
// anything else decomposes whichever leaf is wider (equal width
// decomposes the graph side first) and recurses one level
// deeper. It returns the advanced CompareState, the atoms confirmed this
// call, the index-side descent steps of the last confirmed leaf, the
// unconsumed remainder of qStack, and any error raised while resolving
// leaves or patterns.
func compareLockstep(g *Graph, cs CompareState, qStack []PathCursor, iStack []ChildCursor) (CompareState, AtomPosition, []ChildLocation, []PathCursor, error) {
	var matched AtomPosition
	var endSteps []ChildLocation

	for len(qStack) > 0 && len(iStack) > 0 {
		qTop := qStack[0].MarkCandidate()
		iTop := iStack[0].MarkCandidate()
		cs.Query = cs.Query.WithCandidate(qTop)
		cs.Index = cs.Index.WithCandidate(iTop)

		qLeaf, err := qTop.RoleRootedLeafToken(g, RoleEnd)
		if err != nil {
			return cs, 0, nil, nil, err
		}
		iLeaf, err := iTop.Leaf(g)
		if err != nil {
			return cs, 0, nil, nil, err
		}

		if qLeaf.Index == iLeaf.Index {
			cs.Query = cs.Query.WithCandidate(qTop.MarkMatch()).Promote()
			cs.Index = cs.Index.WithCandidate(iTop.MarkMatch()).Promote()
			matched += AtomPosition(iLeaf.Width)
			endSteps = iTop.ChildState.End.Steps
			qStack = qStack[1:]
			iStack = iStack[1:]
			continue
		}

		qAtom, err := g.IsAtom(qLeaf)
		if err != nil {
			return cs, 0, nil, nil, err
		}
		iAtom, err := g.IsAtom(iLeaf)
		if err != nil {
			return cs, 0, nil, nil, err
		}
		if qAtom && iAtom {
			cs.Query = cs.Query.WithCandidate(qTop.MarkMismatch()).Revert()
			cs.Index = cs.Index.WithCandidate(iTop.MarkMismatch()).Revert()
			break
		}

		decomposeQuery := !qAtom && (iAtom || qLeaf.Width > iLeaf.Width)
		if decomposeQuery {
			cs.Mode = QueryMajor
			candidates, err := qTop.PrefixStatesFrom(g, qTop.AtomPosition)
			if err != nil {
				return cs, 0, nil, nil, err
			}
			if len(candidates) == 0 {
				break
			}
			chosen := candidates[0]
			pattern := chosen.Path.End.Steps[len(chosen.Path.End.Steps)-1].Pattern
			children, err := qTop.DescendPattern(g, pattern)
			if err != nil {
				return cs, 0, nil, nil, err
			}
			cs.Query = cs.Query.WithCandidate(children[0])
			qStack = append(children, qStack[1:]...)
		} else {
			cs.Mode = GraphMajor
			candidates, err := iTop.PrefixChildren(g)
			if err != nil {
				return cs, 0, nil, nil, err
			}
			if len(candidates) == 0 {
				break
			}
			chosen := candidates[0]
			pattern := chosen.ChildState.End.Steps[len(chosen.ChildState.End.Steps)-1].Pattern
			children, err := iTop.DescendPattern(g, pattern)
			if err != nil {
				return cs, 0, nil, nil, err
			}
			cs.Index = cs.Index.WithCandidate(children[0])
			iStack = append(children, iStack[1:]...)
		}
	}

	return cs, matched, endSteps, qStack, nil
}
