package graphcore

// StateMarker tags a cursor with its comparison state. Invalid
// transitions are prevented with runtime checks rather than type-level
// ones; the invariants are the same either way.
type StateMarker int

const (
	StateCandidate StateMarker = iota
	StateMatched
	StateMismatched
)

func (s StateMarker) String() string {
	switch s {
	case StateCandidate:
		return "Candidate"
	case StateMatched:
		return "Matched"
	case StateMismatched:
		return "Mismatched"
	default:
		return "Unknown"
	}
}

// PathCursor is the query-side (or, symmetrically, path-side) half of a
// lockstep comparison: a position along a RootedRangePath plus the atom
// count consumed so far and its current state marker.
type PathCursor struct {
	Path         RootedRangePath
	AtomPosition AtomPosition
	State        StateMarker
}

// NewPathCursor starts a cursor at atom 0 of path, in Candidate state.
func NewPathCursor(path RootedRangePath) PathCursor {
	return PathCursor{Path: path, AtomPosition: 0, State: StateCandidate}
}

// PositionValue implements Positioned for Checkpointed[PathCursor].
func (c PathCursor) PositionValue() AtomPosition { return c.AtomPosition }

// MarkMatch returns a copy of c transitioned to Matched.
func (c PathCursor) MarkMatch() PathCursor {
	c.State = StateMatched
	return c
}

// MarkMismatch returns a copy of c transitioned to Mismatched.
func (c PathCursor) MarkMismatch() PathCursor {
	c.State = StateMismatched
	return c
}

// MarkCandidate returns a copy of c transitioned back to Candidate.
// Only the marker changes; path and position are preserved.
func (c PathCursor) MarkCandidate() PathCursor {
	c.State = StateCandidate
	return c
}

// AdvanceResult reports the outcome of PathCursor.Advance.
type AdvanceResult int

const (
	AdvanceContinue AdvanceResult = iota
	AdvanceBreak
)

// Advance moves the End side of the cursor's path one token forward within
// its current deepest pattern, adding that token's width to AtomPosition.
// It reports AdvanceBreak when the End leaf is already the last child of
// its pattern (the caller must ascend to a parent pattern, or conclude the
// root pattern itself is exhausted).
func (c PathCursor) Advance(g *Graph) (PathCursor, AdvanceResult, error) {
	leaf, err := c.Path.End.Leaf(g)
	if err != nil {
		return c, AdvanceBreak, err
	}
	width, err := g.Width(leaf)
	if err != nil {
		return c, AdvanceBreak, err
	}

	nextEnd, ok, err := c.Path.End.AdvanceSibling(g)
	if err != nil {
		return c, AdvanceBreak, err
	}
	if !ok {
		return c, AdvanceBreak, nil
	}

	newPath := c.Path
	newPath.End = nextEnd
	return PathCursor{Path: newPath, AtomPosition: c.AtomPosition + AtomPosition(width), State: c.State}, AdvanceContinue, nil
}

// RoleRootedLeafToken returns the token at the cursor's current boundary
// for the given role (Start or End).
func (c PathCursor) RoleRootedLeafToken(g *Graph, role Role) (Token, error) {
	if role == RoleStart {
		return c.Path.Start.Leaf(g)
	}
	return c.Path.End.Leaf(g)
}

// PrefixStatesFrom produces a FIFO queue of candidate cursors, one per
// prefix child of the current End token, sorted by descending child
// width (largest prefix attempted first). Every produced cursor carries
// AtomPosition = basePosition so exploratory prefix expansion never
// corrupts the confirmed atom count.
func (c PathCursor) PrefixStatesFrom(g *Graph, basePosition AtomPosition) ([]PathCursor, error) {
	leaf, err := c.Path.End.Leaf(g)
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
		pat   PatternID
	}
	candidates := make([]candidate, 0, len(vd.Patterns))
	for patID, seq := range vd.Patterns {
		if len(seq) == 0 {
			continue
		}
		child := seq[0]
		newEnd := c.Path.End.Descend(leaf, patID, 0)
		candidates = append(candidates, candidate{path: newEnd, width: child.Width, pat: patID})
	}

	// Largest-width-first, ties broken by ascending pattern id. Map
	// iteration order is not stable in Go, so sort explicitly.
	sortCandidatesDesc(candidates, func(a, b candidate) bool {
		return a.width > b.width || (a.width == b.width && a.pat < b.pat)
	})

	out := make([]PathCursor, 0, len(candidates))
	for _, cd := range candidates {
		newPath := c.Path
		newPath.End = cd.path
		out = append(out, PathCursor{Path: newPath, AtomPosition: basePosition, State: StateCandidate})
	}
	return out, nil
}

// DescendPattern walks every child of the given pattern under the
// cursor's current End leaf, via repeated Advance calls starting from
// sub-index 0, returning one PathCursor per child in order, all sharing
// the cursor's current AtomPosition. It is used once PrefixStatesFrom has
// picked which alternative pattern to decompose into.
func (c PathCursor) DescendPattern(g *Graph, pattern PatternID) ([]PathCursor, error) {
	leaf, err := c.Path.End.Leaf(g)
	if err != nil {
		return nil, err
	}
	newPath := c.Path
	newPath.End = c.Path.End.Descend(leaf, pattern, 0)
	cur := PathCursor{Path: newPath, AtomPosition: c.AtomPosition, State: StateCandidate}
	out := []PathCursor{cur}
	for {
		next, res, err := cur.Advance(g)
		if err != nil {
			return nil, err
		}
		if res == AdvanceBreak {
			break
		}
		next.AtomPosition = c.AtomPosition
		out = append(out, next)
		cur = next
	}
	return out, nil
}

// sortCandidatesDesc is a tiny, allocation-free insertion sort used only
// for the small (typically < 8) alternative-pattern fan-out at a single
// vertex; a generic slices.SortFunc would work identically but this keeps
// the dependency surface to what the pattern-fan-out actually needs.
func sortCandidatesDesc[T any](s []T, less func(a, b T) bool) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && less(s[j], s[j-1]); j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

// Positioned is implemented by any cursor type that can report its own
// atom position, so Checkpointed[T] can enforce checkpoint <= candidate.
type Positioned interface {
	PositionValue() AtomPosition
}

// Checkpointed pairs a confirmed checkpoint with an optional exploratory
// candidate positioned ahead of it. The invariant
// checkpoint.AtomPosition <= candidate.AtomPosition holds at every
// observable state.
type Checkpointed[T Positioned] struct {
	checkpoint T
	candidate  *T
}

// NewCheckpointed starts AtCheckpoint with no candidate.
func NewCheckpointed[T Positioned](checkpoint T) Checkpointed[T] {
	return Checkpointed[T]{checkpoint: checkpoint}
}

// Checkpoint returns the last confirmed-matched value.
func (c Checkpointed[T]) Checkpoint() T { return c.checkpoint }

// HasCandidate reports whether an exploratory candidate is currently held.
func (c Checkpointed[T]) HasCandidate() bool { return c.candidate != nil }

// Candidate returns the exploratory value if present, otherwise the
// checkpoint itself.
func (c Checkpointed[T]) Candidate() T {
	if c.candidate != nil {
		return *c.candidate
	}
	return c.checkpoint
}

// WithCandidate returns a copy of c holding v as its exploratory
// candidate. It panics if v's position regresses behind the checkpoint,
// which would violate the core invariant of this type.
func (c Checkpointed[T]) WithCandidate(v T) Checkpointed[T] {
	if v.PositionValue() < c.checkpoint.PositionValue() {
		panic("graphcore: candidate position precedes checkpoint")
	}
	c.candidate = &v
	return c
}

// Promote commits the current candidate as the new checkpoint — the
// Candidate→Matched transition. A later mismatch can no longer regress
// past it.
func (c Checkpointed[T]) Promote() Checkpointed[T] {
	if c.candidate != nil {
		c.checkpoint = *c.candidate
		c.candidate = nil
	}
	return c
}

// Revert discards the current candidate, returning the cursor to its last
// confirmed checkpoint (the mismatch transition).
func (c Checkpointed[T]) Revert() Checkpointed[T] {
	c.candidate = nil
	return c
}
