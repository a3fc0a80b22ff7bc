package graphcore

import (
	"iter"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/patterngraph/graphcore/internal/iterutil"
)

// Graph owns every vertex. It never destroys a vertex once allocated,
// and structural mutation is always staged so that a fallible step never
// leaves the graph half updated.
type Graph struct {
	// structMu guards the vertices slice (append-only) and the two
	// dedup indices below. It is held only for the brief instant a new
	// vertex is registered; per-vertex content is guarded by each
	// vertex's own mu.
	structMu sync.RWMutex
	vertices []*vertexData

	atomIndex    map[string]VertexIndex
	patternIndex map[string]patternRef

	// insertMu serialises whole insert pipelines end to end. Reads never
	// take it.
	insertMu sync.Mutex

	log     *slog.Logger
	events  chan<- GraphOpEvent
	metrics *GraphMetrics
}

type patternRef struct {
	Vertex  VertexIndex
	Pattern PatternID
}

// GraphOption configures a Graph at construction time, mirroring the
// functional-options idiom used throughout the retrieval pack (router
// options, CLI flags) for optional, rarely-changed knobs.
type GraphOption func(*Graph)

// WithLogger attaches a structured logger. Graph mutations (atom and
// pattern insertion, pattern replacement, alternative patterns) log at
// Debug; the search and insert drivers do not log. Logging never
// influences matching outcomes.
func WithLogger(l *slog.Logger) GraphOption {
	return func(g *Graph) { g.log = l }
}

// WithEventSink registers a channel that receives a GraphOpEvent for every
// step of every search/insert run. The sink must keep up with
// the driver or be buffered; a full unbuffered channel with no reader
// blocks the driver. Passing nil (the default) disables event emission
// entirely, which is always a conforming configuration.
func WithEventSink(sink chan<- GraphOpEvent) GraphOption {
	return func(g *Graph) { g.events = sink }
}

// WithMetrics attaches a GraphMetrics collector.
func WithMetrics(m *GraphMetrics) GraphOption {
	return func(g *Graph) { g.metrics = m }
}

// WithInitialCapacity hints the expected vertex count to reduce slice
// reallocation during a bulk load.
func WithInitialCapacity(n int) GraphOption {
	return func(g *Graph) {
		if n > 0 {
			g.vertices = make([]*vertexData, 0, n)
		}
	}
}

// NewGraph creates an empty graph.
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{
		atomIndex:    make(map[string]VertexIndex),
		patternIndex: make(map[string]patternRef),
		log:          slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Graph) vertexByIndex(idx VertexIndex) *vertexData {
	g.structMu.RLock()
	defer g.structMu.RUnlock()
	return g.vertices[idx]
}

func (g *Graph) appendVertex(v *vertexData) VertexIndex {
	g.structMu.Lock()
	defer g.structMu.Unlock()
	idx := VertexIndex(len(g.vertices))
	v.index = idx
	g.vertices = append(g.vertices, v)
	return idx
}

// Owns reports whether t was allocated by this graph.
func (g *Graph) Owns(t Token) bool {
	g.structMu.RLock()
	defer g.structMu.RUnlock()
	return int(t.Index) >= 0 && int(t.Index) < len(g.vertices)
}

// Width returns the width of t as recorded by the graph, ignoring the
// caller-supplied Token.Width field.
func (g *Graph) Width(t Token) (int, error) {
	if !g.Owns(t) {
		return 0, newForeignToken(t)
	}
	v := g.vertexByIndex(t.Index)
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width, nil
}

// IsAtom reports whether t names an atom (a vertex with no patterns).
func (g *Graph) IsAtom(t Token) (bool, error) {
	if !g.Owns(t) {
		return false, newForeignToken(t)
	}
	v := g.vertexByIndex(t.Index)
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.isAtom(), nil
}

// InsertAtom allocates a fresh vertex of width 1 for symbol, or returns the
// existing atom's Token if symbol was already registered (idempotent).
func (g *Graph) InsertAtom(symbol string) Token {
	g.structMu.RLock()
	if idx, ok := g.atomIndex[symbol]; ok {
		g.structMu.RUnlock()
		v := g.vertexByIndex(idx)
		return v.tokenHandle()
	}
	g.structMu.RUnlock()

	g.structMu.Lock()
	// Re-check under the write lock: another goroutine may have inserted
	// the same symbol between the unlock above and here.
	if idx, ok := g.atomIndex[symbol]; ok {
		g.structMu.Unlock()
		v := g.vertexByIndex(idx)
		return v.tokenHandle()
	}
	idx := VertexIndex(len(g.vertices))
	v := newAtomVertex(idx, symbol)
	g.vertices = append(g.vertices, v)
	g.atomIndex[symbol] = idx
	g.structMu.Unlock()

	g.log.Debug("inserted atom", slog.String("symbol", symbol), slog.Int("vertex", int(idx)))
	return v.tokenHandle()
}

// patternKey builds a canonical string key identifying a token sequence
// for structural-equality dedup, independent of which vertex eventually
// holds it.
func patternKey(seq []Token) string {
	var b strings.Builder
	for i, t := range seq {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(t.Index)))
	}
	return b.String()
}

func seqWidth(g *Graph, seq []Token) (int, error) {
	total := 0
	for _, t := range seq {
		w, err := g.Width(t)
		if err != nil {
			return 0, err
		}
		total += w
	}
	return total, nil
}

// InsertPattern inserts seq as a new vertex's sole pattern, unless an
// existing vertex already carries a structurally-equal pattern, in which
// case that vertex and pattern id are returned unchanged.
func (g *Graph) InsertPattern(seq []Token) (Token, PatternID, error) {
	if len(seq) == 0 {
		return Token{}, 0, newWidthMismatch("pattern must have at least one child")
	}
	for _, t := range seq {
		if !g.Owns(t) {
			return Token{}, 0, newForeignToken(t)
		}
	}

	key := patternKey(seq)
	g.structMu.RLock()
	if ref, ok := g.patternIndex[key]; ok {
		g.structMu.RUnlock()
		v := g.vertexByIndex(ref.Vertex)
		return v.tokenHandle(), ref.Pattern, nil
	}
	g.structMu.RUnlock()

	width, err := seqWidth(g, seq)
	if err != nil {
		return Token{}, 0, err
	}

	v := newCompositeVertex(0, width)
	idx := g.appendVertex(v)

	v.mu.Lock()
	id := v.addPatternLocked(g, seq)
	v.mu.Unlock()

	g.structMu.Lock()
	g.patternIndex[key] = patternRef{Vertex: idx, Pattern: id}
	g.structMu.Unlock()

	g.log.Debug("inserted pattern", slog.Int("vertex", int(idx)), slog.Int("width", width))
	return v.tokenHandle(), id, nil
}

// InsertPatterns inserts every sequence in patterns as an alternative of a
// single vertex. All sequences must share the same summed width. If a
// sequence already exists as a pattern of some vertex V (per the
// structural-equality dedup index), V is reused and the remaining
// sequences are added to it as additional alternatives; otherwise a fresh
// vertex is allocated holding all (de-duplicated) sequences.
func (g *Graph) InsertPatterns(patterns [][]Token) (Token, []PatternID, error) {
	if len(patterns) == 0 {
		return Token{}, nil, newWidthMismatch("insert_patterns requires at least one pattern")
	}

	// De-duplicate identical sequences within the call itself.
	seen := make(map[string]bool, len(patterns))
	unique := make([][]Token, 0, len(patterns))
	for _, seq := range patterns {
		key := patternKey(seq)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, seq)
	}

	width := -1
	for _, seq := range unique {
		w, err := seqWidth(g, seq)
		if err != nil {
			return Token{}, nil, err
		}
		if width == -1 {
			width = w
		} else if w != width {
			return Token{}, nil, newWidthMismatch("pattern widths differ: %d vs %d", width, w)
		}
	}

	// Find an existing vertex that already owns one of these sequences.
	var target *vertexData
	g.structMu.RLock()
	for _, seq := range unique {
		if ref, ok := g.patternIndex[patternKey(seq)]; ok {
			target = g.vertices[ref.Vertex]
			break
		}
	}
	g.structMu.RUnlock()

	if target == nil {
		target = newCompositeVertex(0, width)
		g.appendVertex(target)
	}

	ids := make([]PatternID, 0, len(unique))
	target.mu.Lock()
	existingByKey := make(map[string]PatternID, len(target.patterns))
	for id, seq := range target.patterns {
		existingByKey[patternKey(seq)] = id
	}
	for _, seq := range unique {
		key := patternKey(seq)
		if id, ok := existingByKey[key]; ok {
			ids = append(ids, id)
			continue
		}
		id := target.addPatternLocked(g, seq)
		existingByKey[key] = id
		ids = append(ids, id)
	}
	idx := target.index
	target.mu.Unlock()

	g.structMu.Lock()
	for _, seq := range unique {
		g.patternIndex[patternKey(seq)] = patternRef{Vertex: idx, Pattern: existingByKey[patternKey(seq)]}
	}
	g.structMu.Unlock()

	g.log.Debug("inserted patterns", slog.Int("vertex", int(idx)), slog.Int("count", len(unique)))
	return target.tokenHandle(), ids, nil
}

// ReplaceInPattern substitutes the contiguous slice pattern[start:end] of
// PatternLocation loc with replacement, which must have the same summed
// width as the slice it replaces. Back-edges for removed and added
// children are updated, and sub-indices of children after the replaced
// slice are shifted to stay correct.
func (g *Graph) ReplaceInPattern(loc PatternLocation, start, end int, replacement []Token) error {
	if !g.Owns(loc.Parent) {
		return newForeignToken(loc.Parent)
	}
	for _, t := range replacement {
		if !g.Owns(t) {
			return newForeignToken(t)
		}
	}

	parent := g.vertexByIndex(loc.Parent.Index)
	parent.mu.Lock()
	defer parent.mu.Unlock()

	seq, ok := parent.patterns[loc.Pattern]
	if !ok {
		return newMissingPattern(parent.index, loc.Pattern)
	}
	if start < 0 || end > len(seq) || start > end {
		return newWidthMismatch("replace range [%d:%d) out of bounds for pattern of length %d", start, end, len(seq))
	}

	removedWidth := 0
	for _, t := range seq[start:end] {
		w, err := g.Width(t)
		if err != nil {
			return err
		}
		removedWidth += w
	}
	replacementWidth, err := seqWidth(g, replacement)
	if err != nil {
		return err
	}
	if removedWidth != replacementWidth {
		return newWidthMismatch("replacement width %d does not match removed width %d", replacementWidth, removedWidth)
	}

	// Detach back-edges for every removed child.
	for i, t := range seq[start:end] {
		subIndex := start + i
		cv := g.vertexByIndex(t.Index)
		cv.mu.Lock()
		parent.removeParentLocked(cv, ChildLocation{Parent: loc.Parent, Pattern: loc.Pattern, SubIndex: subIndex})
		cv.mu.Unlock()
	}

	// Shift back-edge sub-indices for children after the replaced range.
	delta := len(replacement) - (end - start)
	if delta != 0 {
		for i := end; i < len(seq); i++ {
			t := seq[i]
			cv := g.vertexByIndex(t.Index)
			cv.mu.Lock()
			if set, ok := cv.parents[parent.index]; ok {
				old := SubLocation{Pattern: loc.Pattern, SubIndex: i}
				if _, present := set[old]; present {
					delete(set, old)
					set[SubLocation{Pattern: loc.Pattern, SubIndex: i + delta}] = struct{}{}
				}
			}
			cv.mu.Unlock()
		}
	}

	newSeq := make([]Token, 0, len(seq)-(end-start)+len(replacement))
	newSeq = append(newSeq, seq[:start]...)
	newSeq = append(newSeq, replacement...)
	newSeq = append(newSeq, seq[end:]...)
	parent.patterns[loc.Pattern] = newSeq

	// Attach back-edges for every newly-inserted child.
	for i, t := range replacement {
		subIndex := start + i
		cv := g.vertexByIndex(t.Index)
		cv.mu.Lock()
		parent.addParentLocked(cv, ChildLocation{Parent: loc.Parent, Pattern: loc.Pattern, SubIndex: subIndex})
		cv.mu.Unlock()
	}

	g.structMu.Lock()
	delete(g.patternIndex, patternKey(seq))
	g.patternIndex[patternKey(newSeq)] = patternRef{Vertex: parent.index, Pattern: loc.Pattern}
	g.structMu.Unlock()

	g.log.Debug("replaced in pattern",
		slog.Int("vertex", int(parent.index)),
		slog.Int("pattern", int(loc.Pattern)),
		slog.Int("start", start),
		slog.Int("end", end),
	)
	return nil
}

// LookupPattern reports whether seq already exists as some vertex's
// pattern, without mutating the graph. It is the read-only half of
// InsertPattern, used by the join engine to tell whether a span it is
// about to materialise already has a home.
func (g *Graph) LookupPattern(seq []Token) (Token, PatternID, bool) {
	key := patternKey(seq)
	g.structMu.RLock()
	defer g.structMu.RUnlock()
	ref, ok := g.patternIndex[key]
	if !ok {
		return Token{}, 0, false
	}
	v := g.vertices[ref.Vertex]
	return v.tokenHandle(), ref.Pattern, true
}

// AddAlternativePattern adds seq as one more alternative pattern of the
// already-existing vertex, used when the join engine re-expresses a
// vertex's atoms through a newly split child. It is idempotent:
// if vertex already carries this exact sequence as one of its patterns,
// the existing id is returned and nothing is mutated.
func (g *Graph) AddAlternativePattern(vertex Token, seq []Token) (PatternID, bool, error) {
	if !g.Owns(vertex) {
		return 0, false, newForeignToken(vertex)
	}
	width, err := seqWidth(g, seq)
	if err != nil {
		return 0, false, err
	}
	v := g.vertexByIndex(vertex.Index)
	v.mu.Lock()
	if v.width != width {
		v.mu.Unlock()
		return 0, false, newWidthMismatch("alternative pattern width %d does not match vertex width %d", width, v.width)
	}
	key := patternKey(seq)
	for id, existing := range v.patterns {
		if patternKey(existing) == key {
			v.mu.Unlock()
			return id, false, nil
		}
	}
	id := v.addPatternLocked(g, seq)
	v.mu.Unlock()

	g.structMu.Lock()
	g.patternIndex[key] = patternRef{Vertex: vertex.Index, Pattern: id}
	g.structMu.Unlock()

	g.log.Debug("added alternative pattern", slog.Int("vertex", int(vertex.Index)), slog.Int("pattern", int(id)))
	return id, true, nil
}

// Vertex returns a read-only snapshot of the vertex named by idx.
func (g *Graph) Vertex(idx VertexIndex) (VertexData, error) {
	g.structMu.RLock()
	if int(idx) < 0 || int(idx) >= len(g.vertices) {
		g.structMu.RUnlock()
		return VertexData{}, newForeignToken(Token{Index: idx})
	}
	v := g.vertices[idx]
	g.structMu.RUnlock()
	return snapshotVertex(v), nil
}

// ParentsOf returns a lazy iterator over (parent_token, pattern_id,
// sub_index) triples naming every location where t appears as a child.
// The raw parentEdges iterator leaves ParentEdge.Parent.Width at zero (it
// only has the vertex index to go on); ParentsOf resolves that width via
// iterutil.Map before yielding, so downstream consumers always see
// fully-populated tokens.
func (g *Graph) ParentsOf(t Token) (iter.Seq[ParentEdge], error) {
	if !g.Owns(t) {
		return nil, newForeignToken(t)
	}
	v := g.vertexByIndex(t.Index)
	return iterutil.Map(parentEdges(v), func(edge ParentEdge) ParentEdge {
		pv := g.vertexByIndex(edge.Parent.Index)
		pv.mu.RLock()
		edge.Parent.Width = pv.width
		pv.mu.RUnlock()
		return edge
	}), nil
}

func newPathID() string {
	return uuid.NewString()
}
