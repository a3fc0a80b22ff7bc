package graphcore

// rootMatch is the measured outcome of comparing the query against the
// span of one candidate root, starting at startOffsetInRoot: the result
// of driving a CompareState through the lockstep compare loop rather
// than flattening both sides to atoms up front.
type rootMatch struct {
	root              Token
	pattern           PatternID
	startOffsetInRoot AtomPosition
	matchedLen        AtomPosition
	rootWidth         AtomPosition
	// endSteps are the index-side descent steps of the rightmost leaf
	// confirmed matched so far, rooted at root.
	endSteps []ChildLocation
}

func (m rootMatch) queryExhausted(queryLen AtomPosition) bool {
	return m.matchedLen == queryLen
}

// patternExhausted reports whether the confirmed match has reached
// exactly the right edge of root, i.e. the available span beginning at
// startOffsetInRoot has been entirely consumed. Only then is climbing to
// a parent meaningful: the index side ran out before the query did.
func (m rootMatch) patternExhausted() bool {
	return m.startOffsetInRoot+m.matchedLen == m.rootWidth
}

// newQueryFrontier builds the initial query-side decomposition stack: one
// candidate PathCursor per top-level query token, each rooted at that
// token itself (so PrefixStatesFrom/DescendPattern can descend into it
// exactly like any other graph-rooted path).
func newQueryFrontier(query []Token) []PathCursor {
	out := make([]PathCursor, len(query))
	for i, t := range query {
		out[i] = NewPathCursor(NewRootedRangePath(t, 0))
	}
	return out
}

// evaluateInitial measures how much of query matches root's own content
// by driving a CompareState through the lockstep compare loop: root is
// query[0] itself (whether an atom or a multi-atom composite), and
// nothing has climbed yet, so the confirmed span always starts at root's
// own position 0.
func evaluateInitial(g *Graph, root Token, query []Token) (rootMatch, []PathCursor, error) {
	width, err := g.Width(root)
	if err != nil {
		return rootMatch{}, nil, err
	}
	pattern, _, err := anyPatternForToken(g, root)
	if err != nil {
		return rootMatch{}, nil, err
	}

	qStack := newQueryFrontier(query)
	iStack := []ChildCursor{NewChildCursor(NewRootedRangePath(root, pattern), 0)}
	cs := newCompareState(qStack[0], iStack[0], 0)

	_, matched, endSteps, qRemaining, err := compareLockstep(g, cs, qStack, iStack)
	if err != nil {
		return rootMatch{}, nil, err
	}

	return rootMatch{
		root:              root,
		pattern:           pattern,
		startOffsetInRoot: 0,
		matchedLen:        matched,
		rootWidth:         AtomPosition(width),
		endSteps:          endSteps,
	}, qRemaining, nil
}

// evaluateClimb continues matching from prev — already confirmed against
// the query up to prev.matchedLen — one level up into parent, where
// prev.root sits as the child named by (pattern, subIndex).
// qFrontier is whatever prev's compare loop left
// unconsumed, so climbing resumes the same lockstep comparison against
// parent's siblings following prev.root's slot, never re-deriving the
// already-confirmed portion from scratch.
func evaluateClimb(g *Graph, qFrontier []PathCursor, prev rootMatch, parent Token, pattern PatternID, subIndex int) (rootMatch, []PathCursor, error) {
	vd, err := g.Vertex(parent.Index)
	if err != nil {
		return rootMatch{}, nil, err
	}
	seq, ok := vd.Patterns[pattern]
	if !ok {
		return rootMatch{}, nil, newMissingPattern(parent.Index, pattern)
	}
	if subIndex < 0 || subIndex >= len(seq) {
		return rootMatch{}, nil, newWidthMismatch("sub_index %d out of range for pattern of length %d", subIndex, len(seq))
	}

	startOffset := cumulativeWidthBefore(seq, subIndex) + prev.startOffsetInRoot
	width, err := g.Width(parent)
	if err != nil {
		return rootMatch{}, nil, err
	}

	if len(qFrontier) == 0 || subIndex+1 >= len(seq) {
		return rootMatch{
			root:              parent,
			pattern:           pattern,
			startOffsetInRoot: startOffset,
			matchedLen:        prev.matchedLen,
			rootWidth:         AtomPosition(width),
			endSteps:          prev.endSteps,
		}, qFrontier, nil
	}

	basePath := NewRolePath(parent, pattern, RoleEnd)
	first := ChildCursor{
		ChildState: RootedRangePath{Root: parent, RootPattern: pattern, Start: basePath, End: basePath.Descend(parent, pattern, subIndex+1)},
		StartPos:   prev.matchedLen, EntryPos: prev.matchedLen, ExitPos: prev.matchedLen, State: StateCandidate,
	}
	iStack := []ChildCursor{first}
	cur := first
	for {
		next, res, aerr := cur.Advance(g)
		if aerr != nil {
			return rootMatch{}, nil, aerr
		}
		if res == AdvanceBreak {
			break
		}
		iStack = append(iStack, next)
		cur = next
	}

	cs := newCompareState(qFrontier[0], iStack[0], 0)
	_, delta, endSteps, qRemaining, err := compareLockstep(g, cs, qFrontier, iStack)
	if err != nil {
		return rootMatch{}, nil, err
	}

	newEndSteps := prev.endSteps
	if len(endSteps) > 0 {
		newEndSteps = endSteps
	}

	return rootMatch{
		root:              parent,
		pattern:           pattern,
		startOffsetInRoot: startOffset,
		matchedLen:        prev.matchedLen + delta,
		rootWidth:         AtomPosition(width),
		endSteps:          newEndSteps,
	}, qRemaining, nil
}
