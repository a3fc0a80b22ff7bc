package graphcore

import (
	"context"
	"fmt"
)

// SearchNodeKind discriminates the two kinds of frontier entries a search
// can pop: the initial child-side root exploration of the query's first
// token, and bottom-up parent climbs discovered from it.
type SearchNodeKind int

const (
	// ChildCandidate measures the query against the popped root's own
	// span before any climbing has happened.
	ChildCandidate SearchNodeKind = iota
	// ParentCandidate continues a confirmed match one level up, into the
	// parent pattern slot named by (Root, Pattern, SubIndex).
	ParentCandidate
)

func (k SearchNodeKind) String() string {
	if k == ChildCandidate {
		return "ChildCandidate"
	}
	return "ParentCandidate"
}

// SearchNode is one entry of the BFS frontier. For a
// ParentCandidate, Root is the parent being climbed into and
// (Pattern, SubIndex) the slot where the previously matched root sits as
// a child. For the initial ChildCandidate, Root is the query's first
// token and Pattern/SubIndex are zero.
type SearchNode struct {
	Kind     SearchNodeKind
	Root     Token
	Pattern  PatternID
	SubIndex int

	depth    int
	prev     rootMatch
	frontier []PathCursor
}

// SearchStep reports what one Next call did: the node it popped, how many
// query atoms are confirmed under that node's root after evaluating it,
// whether that made it the best candidate so far, and whether the node
// was dequeued without enqueuing further parents (either because the
// query was fully consumed or because the match stopped short of the
// root's right edge).
type SearchStep struct {
	Node         SearchNode
	MatchedAtoms AtomPosition
	NewBest      bool
	Dequeued     bool
}

// SearchIterator drives one ancestor search step by step: each Next call
// pops a single frontier node, evaluates it, and enqueues whatever
// parent candidates it uncovers. FindAncestor and FindParent are thin
// drain loops over this type; callers wanting per-step inspection,
// cooperative cancellation, or their own timeout policy hold the
// iterator directly and wrap Next themselves.
type SearchIterator struct {
	g        *Graph
	query    []Token
	queryLen AtomPosition
	maxClimb int
	pathID   string
	cache    *TraceCache

	queue   []SearchNode
	visited map[[3]int]bool
	best    searchCandidate
	steps   int
	done    bool
}

// NewSearchIterator validates query and prepares an iterator over the
// full ancestor search (unlimited climb). The returned iterator is
// non-nil even on error, so its Cache is always available for
// diagnostics.
func NewSearchIterator(g *Graph, query []Token) (*SearchIterator, error) {
	return newSearchIterator(g, query, -1)
}

func newSearchIterator(g *Graph, query []Token, maxClimb int) (*SearchIterator, error) {
	it := &SearchIterator{
		g:        g,
		query:    query,
		maxClimb: maxClimb,
		pathID:   newPathID(),
		cache:    NewTraceCache(),
		visited:  make(map[[3]int]bool),
	}
	if len(query) == 0 {
		it.done = true
		return it, &SemanticError{Sentinel: ErrEmptyQuery, Detail: "query must have at least one token"}
	}
	if !g.Owns(query[0]) {
		it.done = true
		return it, &SemanticError{Sentinel: ErrUnknownToken, Detail: "query[0] is not known to this graph"}
	}
	queryAtoms, err := flattenAll(g, query)
	if err != nil {
		it.done = true
		return it, err
	}
	it.queryLen = AtomPosition(len(queryAtoms))

	g.emit(GraphOpEvent{OpType: "search", Transition: TransitionStartNode, Query: query, PathID: it.pathID,
		Description: fmt.Sprintf("starting search from %s", query[0])})
	it.queue = []SearchNode{{Kind: ChildCandidate, Root: query[0]}}
	return it, nil
}

// Cache returns the trace cache accumulated so far. It is valid (possibly
// empty) at every point in the iterator's lifetime, including after a
// construction error.
func (it *SearchIterator) Cache() *TraceCache { return it.cache }

// Next pops and evaluates the next frontier node. It reports ok=false
// once the frontier is exhausted (call Response for the final result).
// ctx is inspected between steps only, so an expired context never
// interrupts a node evaluation midway.
func (it *SearchIterator) Next(ctx context.Context) (SearchStep, bool, error) {
	if it.done {
		return SearchStep{}, false, nil
	}
	if err := ctx.Err(); err != nil {
		it.done = true
		return SearchStep{}, false, err
	}

	for len(it.queue) > 0 {
		node := it.queue[0]
		it.queue = it.queue[1:]

		if node.Kind == ParentCandidate {
			key := [3]int{int(node.Root.Index), int(node.Pattern), node.SubIndex}
			if it.visited[key] {
				continue
			}
			it.visited[key] = true
		}
		it.steps++

		step, err := it.evaluate(node)
		if err != nil {
			it.done = true
			return SearchStep{}, false, err
		}
		return step, true, nil
	}
	it.done = true
	return SearchStep{}, false, nil
}

func (it *SearchIterator) evaluate(node SearchNode) (SearchStep, error) {
	switch node.Kind {
	case ChildCandidate:
		it.g.emit(GraphOpEvent{Step: it.steps, OpType: "search", Transition: TransitionRootExplore, PathID: it.pathID,
			Description: fmt.Sprintf("measuring query against %s", node.Root)})
		m, qRem, err := evaluateInitial(it.g, node.Root, it.query)
		if err != nil {
			return SearchStep{}, err
		}
		it.best = searchCandidate{root: m.root, rootWidth: m.rootWidth, startOffsetInRoot: m.startOffsetInRoot, matchedLen: m.matchedLen, endSteps: m.endSteps}
		step := SearchStep{Node: node, MatchedAtoms: m.matchedLen, NewBest: true}
		if m.queryExhausted(it.queryLen) {
			step.Dequeued = true
			return step, nil
		}
		if err := it.enqueueParents(m, qRem, 1); err != nil {
			return SearchStep{}, err
		}
		return step, nil

	case ParentCandidate:
		loc := ChildLocation{Parent: node.Root, Pattern: node.Pattern, SubIndex: node.SubIndex}
		it.g.emit(GraphOpEvent{Step: it.steps, OpType: "search", Transition: TransitionVisitParent, Location: &loc, PathID: it.pathID,
			Description: fmt.Sprintf("visiting parent %s via pattern %d", node.Root, node.Pattern)})

		m, qRem, err := evaluateClimb(it.g, node.frontier, node.prev, node.Root, node.Pattern, node.SubIndex)
		if err != nil {
			return SearchStep{}, err
		}
		it.cache.RecordBottomUp(node.Root.Index, m.startOffsetInRoot, loc)

		cand := searchCandidate{root: m.root, rootWidth: m.rootWidth, startOffsetInRoot: m.startOffsetInRoot, matchedLen: m.matchedLen, endSteps: m.endSteps}
		step := SearchStep{Node: node, MatchedAtoms: m.matchedLen}
		if it.best.better(cand) {
			it.best = cand
			step.NewBest = true
			it.g.emit(GraphOpEvent{Step: it.steps, OpType: "search", Transition: TransitionMatchAdvance, Location: &loc, PathID: it.pathID,
				Description: fmt.Sprintf("new best match: %d atoms under root %s", m.matchedLen, node.Root)})
		}

		if m.queryExhausted(it.queryLen) || !m.patternExhausted() {
			step.Dequeued = true
			it.g.emit(GraphOpEvent{Step: it.steps, OpType: "search", Transition: TransitionDequeue, Location: &loc, PathID: it.pathID,
				Description: "root rejected further climb"})
			return step, nil
		}

		it.g.emit(GraphOpEvent{Step: it.steps, OpType: "search", Transition: TransitionParentExplore, Location: &loc, PathID: it.pathID,
			Description: fmt.Sprintf("exploring parents of %s", node.Root)})
		if err := it.enqueueParents(m, qRem, node.depth+1); err != nil {
			return SearchStep{}, err
		}
		return step, nil
	}
	return SearchStep{}, newWidthMismatch("unknown search node kind %d", node.Kind)
}

func (it *SearchIterator) enqueueParents(m rootMatch, qFrontier []PathCursor, depth int) error {
	if it.maxClimb >= 0 && depth > it.maxClimb {
		return nil
	}
	edges, err := it.g.ParentsOf(m.root)
	if err != nil {
		return err
	}
	for edge := range edges {
		it.queue = append(it.queue, SearchNode{
			Kind:     ParentCandidate,
			Root:     edge.Parent,
			Pattern:  edge.Pattern,
			SubIndex: edge.SubIndex,
			depth:    depth,
			prev:     m,
			frontier: qFrontier,
		})
	}
	return nil
}

// Response builds the final MatchResult from the best candidate seen so
// far, records the End descent into the cache's top-down side, and
// emits the Done event. It is normally called after Next has
// reported exhaustion; calling it earlier returns the best result of the
// steps taken so far.
func (it *SearchIterator) Response() (Response, error) {
	result, err := buildMatchResult(it.g, it.best, it.queryLen)
	if err != nil {
		return Response{Cache: it.cache}, err
	}
	for _, step := range result.Path.Path.End.Steps {
		it.cache.RecordTopDown(step.Parent.Index, result.Path.RootPos, step)
	}
	it.g.metrics.observeSearch(it.steps)
	if result.MatchedAtoms == 0 {
		it.g.metrics.observeNoMatch()
	}
	it.g.emit(GraphOpEvent{Step: it.steps, OpType: "search", Transition: TransitionDone, PathID: it.pathID,
		Description: fmt.Sprintf("matched %d atoms, coverage=%s", result.MatchedAtoms, result.Path.Kind)})
	return Response{Cache: it.cache, End: result}, nil
}
