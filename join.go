package graphcore

// materialize returns the single token denoted by seq: seq[0] directly if
// it is the sole element (wrapping a length-1 sequence in its own vertex
// would be a pointless identity indirection), otherwise a composite
// vertex for seq, reusing one that already exists for these exact
// children. The bool reports whether a new vertex was allocated.
func materialize(g *Graph, seq []Token) (Token, bool, error) {
	if len(seq) == 1 {
		return seq[0], false, nil
	}
	if tok, _, ok := g.LookupPattern(seq); ok {
		return tok, false, nil
	}
	tok, _, err := g.InsertPattern(seq)
	if err != nil {
		return Token{}, false, err
	}
	g.metrics.observeSplitMerge()
	return tok, true, nil
}

// splitAt cuts t's atom span at offset o (0 < o < width(t)) into two
// tokens: left covering [0,o), right covering [o,width). When the cut
// lands cleanly on an existing child boundary of t's canonical pattern,
// left and right are drawn directly from that pattern's children (no new
// vertex needed beyond materialize's own wrapping); when it lands inside
// a child, that child is recursively split first (a dirty cut). Having
// computed the pieces, splitAt records [left, right] as a new
// alternative pattern of t itself, so a parent that already held t
// intact can be joined against either the original decomposition or the
// newly split one. The original decomposition is never discarded.
func splitAt(g *Graph, t Token, o AtomPosition) (left Token, leftNew bool, right Token, rightNew bool, err error) {
	if o <= 0 || int(o) >= t.Width {
		return Token{}, false, Token{}, false, newOffsetOutOfRange(int(o), t.Width)
	}
	isAtom, err := g.IsAtom(t)
	if err != nil {
		return Token{}, false, Token{}, false, err
	}
	if isAtom {
		return Token{}, false, Token{}, false, newOffsetOutOfRange(int(o), t.Width)
	}
	vd, err := g.Vertex(t.Index)
	if err != nil {
		return Token{}, false, Token{}, false, err
	}
	_, pattern, err := anyPattern(vd)
	if err != nil {
		return Token{}, false, Token{}, false, err
	}

	pos, err := traceChildPos(pattern, o)
	if err != nil {
		return Token{}, false, Token{}, false, err
	}

	var leftChildren, rightChildren []Token
	if pos.InnerOffset == nil {
		leftChildren = append([]Token{}, pattern[:pos.SubIndex]...)
		rightChildren = append([]Token{}, pattern[pos.SubIndex:]...)
	} else {
		innerLeft, _, innerRight, _, ierr := splitAt(g, pattern[pos.SubIndex], AtomPosition(*pos.InnerOffset))
		if ierr != nil {
			return Token{}, false, Token{}, false, ierr
		}
		leftChildren = append(append([]Token{}, pattern[:pos.SubIndex]...), innerLeft)
		rightChildren = append([]Token{innerRight}, pattern[pos.SubIndex+1:]...)
	}

	left, leftNew, err = materialize(g, leftChildren)
	if err != nil {
		return Token{}, false, Token{}, false, err
	}
	right, rightNew, err = materialize(g, rightChildren)
	if err != nil {
		return Token{}, false, Token{}, false, err
	}

	if _, _, err := g.AddAlternativePattern(t, []Token{left, right}); err != nil {
		return Token{}, false, Token{}, false, err
	}
	return left, leftNew, right, rightNew, nil
}

// extractSpan returns the token denoting root's atoms [start,end),
// splitting root at whichever of start/end is not already a boundary
// (the prefix, infix and postfix partitions). If [start,end) is
// already the whole of root, root itself is returned unchanged.
func extractSpan(g *Graph, root Token, start, end AtomPosition) (Token, bool, error) {
	if start == 0 && int(end) == root.Width {
		return root, false, nil
	}
	if start == 0 {
		left, leftNew, _, _, err := splitAt(g, root, end)
		return left, leftNew, err
	}
	if int(end) == root.Width {
		_, _, right, rightNew, err := splitAt(g, root, start)
		return right, rightNew, err
	}
	_, _, rightOfStart, _, err := splitAt(g, root, start)
	if err != nil {
		return Token{}, false, err
	}
	mid, midNew, _, _, err := splitAt(g, rightOfStart, end-start)
	return mid, midNew, err
}
