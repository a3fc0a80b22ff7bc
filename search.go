package graphcore

import "context"

// CoverageKind classifies where a MatchResult's covered interval sits
// relative to its root token's full width.
type CoverageKind int

const (
	CoverageEntireRoot CoverageKind = iota
	CoveragePrefix
	CoveragePostfix
	CoverageRange
)

func (k CoverageKind) String() string {
	switch k {
	case CoverageEntireRoot:
		return "EntireRoot"
	case CoveragePrefix:
		return "Prefix"
	case CoveragePostfix:
		return "Postfix"
	case CoverageRange:
		return "Range"
	default:
		return "Unknown"
	}
}

// PathCoverage is the classified shape of a MatchResult's covered
// interval under its root: RootPos and EndPos are atom offsets relative
// to Path.Root.
type PathCoverage struct {
	Kind    CoverageKind
	Path    RootedRangePath
	Target  AtomPosition
	RootPos AtomPosition
	EndPos  AtomPosition
}

// MatchResult is the outcome of FindAncestor/FindParent: the checkpointed
// cursor at the point matching stopped, plus the classified coverage of
// the match.
type MatchResult struct {
	Cursor       Checkpointed[PathCursor]
	Path         PathCoverage
	MatchedAtoms AtomPosition
}

// Response is returned by FindAncestor/FindParent: the trace cache built
// while searching, plus the final match.
type Response struct {
	Cache *TraceCache
	End   MatchResult
}

type searchCandidate struct {
	root              Token
	rootWidth         AtomPosition
	startOffsetInRoot AtomPosition
	matchedLen        AtomPosition
	endSteps          []ChildLocation
}

// better reports whether next should replace current: a strictly longer
// match supersedes earlier results, with ties broken in favour of the
// larger enclosing root.
func (c searchCandidate) better(next searchCandidate) bool {
	if next.matchedLen != c.matchedLen {
		return next.matchedLen > c.matchedLen
	}
	return next.rootWidth > c.rootWidth
}

// FindAncestor returns the MatchResult covering the longest possible
// prefix of query among every known ancestor, preferring the largest
// enclosing root among ties. It never mutates the graph.
func FindAncestor(g *Graph, query []Token) (Response, error) {
	return FindAncestorContext(context.Background(), g, query)
}

// FindAncestorContext is FindAncestor with an attached context: it opens
// an OTel span around the BFS (a no-op unless the caller configured a
// TracerProvider) and checks ctx between BFS steps so a caller-driven
// timeout or cancellation can abort a runaway search.
func FindAncestorContext(ctx context.Context, g *Graph, query []Token) (Response, error) {
	ctx, span := graphTracer.Start(ctx, "graphcore.FindAncestor")
	defer span.End()
	return find(ctx, g, query, -1)
}

// FindParent restricts the search to query[0]'s direct parents: it never
// climbs past the first ancestor level.
func FindParent(g *Graph, query []Token) (Response, error) {
	return FindParentContext(context.Background(), g, query)
}

// FindParentContext is FindParent with an attached context; see
// FindAncestorContext.
func FindParentContext(ctx context.Context, g *Graph, query []Token) (Response, error) {
	ctx, span := graphTracer.Start(ctx, "graphcore.FindParent")
	defer span.End()
	return find(ctx, g, query, 1)
}

// find implements both FindAncestor (maxClimb<0, unlimited) and
// FindParent (maxClimb==1) by draining a SearchIterator to exhaustion.
func find(ctx context.Context, g *Graph, query []Token, maxClimb int) (Response, error) {
	it, err := newSearchIterator(g, query, maxClimb)
	if err != nil {
		return Response{Cache: it.Cache()}, err
	}
	for {
		_, ok, err := it.Next(ctx)
		if err != nil {
			return Response{Cache: it.Cache()}, err
		}
		if !ok {
			break
		}
	}
	return it.Response()
}

func buildMatchResult(g *Graph, best searchCandidate, queryLen AtomPosition) (MatchResult, error) {
	start := best.startOffsetInRoot
	end := start + best.matchedLen
	root := best.root

	var kind CoverageKind
	switch {
	case start == 0 && end == best.rootWidth:
		kind = CoverageEntireRoot
	case start == 0:
		kind = CoveragePrefix
	case end == best.rootWidth:
		kind = CoveragePostfix
	default:
		kind = CoverageRange
	}

	startSteps, err := buildDescent(g, root, start, true)
	if err != nil {
		return MatchResult{}, err
	}
	endSteps, err := buildDescent(g, root, end, false)
	if err != nil {
		return MatchResult{}, err
	}

	rootPattern, _, err := anyPatternForToken(g, root)
	if err != nil {
		return MatchResult{}, err
	}

	rrp := RootedRangePath{
		Root:        root,
		RootPattern: rootPattern,
		Start:       RolePath{Root: root, RootPattern: rootPattern, Steps: startSteps, Role: RoleStart},
		End:         RolePath{Root: root, RootPattern: rootPattern, Steps: endSteps, Role: RoleEnd},
	}

	cov := PathCoverage{Kind: kind, Path: rrp, Target: queryLen, RootPos: start, EndPos: end}
	cursor := NewPathCursor(rrp)
	cursor.AtomPosition = best.matchedLen
	cursor = cursor.MarkMatch()

	return MatchResult{
		Cursor:       NewCheckpointed[PathCursor](cursor),
		Path:         cov,
		MatchedAtoms: best.matchedLen,
	}, nil
}

// anyPatternForToken resolves a deterministic pattern id for root, or
// (0, nil, nil) if root is an atom.
func anyPatternForToken(g *Graph, root Token) (PatternID, []Token, error) {
	isAtom, err := g.IsAtom(root)
	if err != nil {
		return 0, nil, err
	}
	if isAtom {
		return 0, nil, nil
	}
	vd, err := g.Vertex(root.Index)
	if err != nil {
		return 0, nil, err
	}
	return anyPattern(vd)
}
