package graphcore

import (
	"context"
	"fmt"
)

// InsertResult is returned by Insert: Token denotes the query's full atom
// span; IsNew reports whether that token required allocating
// a new vertex during this call (false when the query already denoted an
// existing token, including the case where a prior Insert call already
// built it — Insert is idempotent).
type InsertResult struct {
	Token Token
	IsNew bool
	// SplitTrace records the per-pattern cut positions considered while
	// extracting the matched span, if any extraction was needed. It is
	// nil when the query already denoted an existing token outright.
	SplitTrace *SplitCache
}

// Insert finds the largest existing ancestor sharing a prefix with query,
// then builds whatever new tokens are needed so the query's full atom
// span becomes directly addressable. Insert serialises with every other
// Insert call via Graph.insertMu; searches never need this lock, since
// they only read.
func Insert(g *Graph, query []Token) (InsertResult, error) {
	return InsertContext(context.Background(), g, query)
}

// InsertContext is Insert with an attached context, opening an OTel span
// around the whole split/join pipeline (see FindAncestorContext).
func InsertContext(ctx context.Context, g *Graph, query []Token) (InsertResult, error) {
	_, span := graphTracer.Start(ctx, "graphcore.Insert")
	defer span.End()

	g.insertMu.Lock()
	defer g.insertMu.Unlock()

	if len(query) == 0 {
		return InsertResult{}, &SemanticError{Sentinel: ErrEmptyQuery, Detail: "query must have at least one token"}
	}
	for _, t := range query {
		if !g.Owns(t) {
			return InsertResult{}, newForeignToken(t)
		}
	}

	pathID := newPathID()
	g.emit(GraphOpEvent{OpType: "insert", Transition: TransitionStartNode, Query: query, PathID: pathID,
		Description: fmt.Sprintf("inserting sequence of length %d", len(query))})

	tok, isNew, trace, err := insertAtoms(g, query)
	if err != nil {
		return InsertResult{}, err
	}
	g.metrics.observeInsert(isNew)
	g.emit(GraphOpEvent{OpType: "insert", Transition: TransitionDone, PathID: pathID,
		Description: fmt.Sprintf("resolved to %s, is_new=%t", tok, isNew)})
	return InsertResult{Token: tok, IsNew: isNew, SplitTrace: trace}, nil
}

// insertAtoms is Insert's recursive core: it resolves as much of query as
// already exists via search, extracts that matched span into its own
// addressable token if it was only a sub-span of a bigger ancestor, and —
// if query extends beyond what matched — recursively resolves the
// unmatched remainder and joins the two halves into a brand new token
// (the partition merge, specialised to the two-partition case that every
// top-level Insert call actually needs).
func insertAtoms(g *Graph, query []Token) (Token, bool, *SplitCache, error) {
	resp, err := FindAncestor(g, query)
	if err != nil {
		return Token{}, false, nil, err
	}
	m := resp.End
	queryAtoms, err := flattenAll(g, query)
	if err != nil {
		return Token{}, false, nil, err
	}

	if m.Path.Kind == CoverageEntireRoot && int(m.MatchedAtoms) == len(queryAtoms) && m.Path.Path.Root.Width == len(queryAtoms) {
		return m.Path.Path.Root, false, nil, nil
	}

	root := m.Path.Path.Root
	start := m.Path.RootPos
	end := m.Path.EndPos

	var matchedToken Token
	var matchedNew bool
	var trace *SplitCache
	if start == 0 && int(end) == root.Width {
		matchedToken, matchedNew = root, false
	} else {
		if start > 0 {
			if sc, serr := computeSplitCache(g, root, start); serr == nil {
				trace = mergeSplitCache(trace, sc)
			}
		}
		if int(end) < root.Width {
			if sc, serr := computeSplitCache(g, root, end); serr == nil {
				trace = mergeSplitCache(trace, sc)
			}
		}
		matchedToken, matchedNew, err = extractSpan(g, root, start, end)
		if err != nil {
			return Token{}, false, nil, err
		}
	}

	if int(m.MatchedAtoms) == len(queryAtoms) {
		return matchedToken, matchedNew, trace, nil
	}

	remainder := queryAtoms[m.MatchedAtoms:]
	remainderToken, remainderNew, remainderTrace, err := insertAtoms(g, remainder)
	if err != nil {
		return Token{}, false, nil, err
	}
	trace = mergeSplitCache(trace, remainderTrace)

	whole, wholeNew, err := materialize(g, []Token{matchedToken, remainderToken})
	if err != nil {
		return Token{}, false, nil, err
	}
	return whole, matchedNew || remainderNew || wholeNew, trace, nil
}

func mergeSplitCache(into, from *SplitCache) *SplitCache {
	if from == nil {
		return into
	}
	if into == nil {
		into = newSplitCache()
	}
	for k, v := range from.entries {
		into.entries[k] = v
	}
	return into
}
