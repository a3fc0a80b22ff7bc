package graphcore

import (
	"errors"
	"fmt"
)

// Sentinel errors for the public error taxonomy. Structural
// errors indicate a programmer bug and always leave the graph unchanged;
// semantic errors report bad caller input; NoMatch is an ordinary,
// expected outcome of a search rather than a defect. Inserting a sequence
// that already exists is not an error: InsertResult.IsNew is false.
var (
	// ErrWidthMismatch is a structural error: a pattern's children widths
	// do not sum to the width the caller asserted (or to the width of an
	// existing vertex being extended).
	ErrWidthMismatch = errors.New("graphcore: width mismatch")
	// ErrBackEdgeViolation is a structural error: a parent/child back-edge
	// was found inconsistent during a consistency check.
	ErrBackEdgeViolation = errors.New("graphcore: back-edge violation")
	// ErrMissingPattern is a structural error: a referenced PatternID does
	// not exist on the named vertex.
	ErrMissingPattern = errors.New("graphcore: missing pattern")

	// ErrEmptyQuery is a semantic error: Search/Insert was called with a
	// zero-length query.
	ErrEmptyQuery = errors.New("graphcore: empty query")
	// ErrUnknownToken is a semantic error: the first token of a query is
	// not a vertex allocated by this graph.
	ErrUnknownToken = errors.New("graphcore: unknown token")
	// ErrForeignToken is a semantic error: a token handle was produced by
	// a different *Graph instance.
	ErrForeignToken = errors.New("graphcore: token from a foreign graph")
	// ErrOffsetOutOfRange is a semantic error: a split offset was outside
	// (0, width(vertex)).
	ErrOffsetOutOfRange = errors.New("graphcore: split offset out of range")

	// ErrNoMatch reports that a query shares no prefix with any known
	// ancestor. The graph is unchanged; callers may still inspect the
	// partial TraceCache returned alongside this error for diagnostics.
	ErrNoMatch = errors.New("graphcore: no match")
)

// StructuralError wraps a structural-error sentinel with the offending
// detail. Structural errors are programmer bugs: the graph is always left
// unchanged and the caller should treat them as fatal to the operation.
type StructuralError struct {
	Sentinel error
	Detail   string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: %s", e.Sentinel, e.Detail)
}

func (e *StructuralError) Unwrap() error {
	return e.Sentinel
}

func newWidthMismatch(format string, args ...any) error {
	return &StructuralError{Sentinel: ErrWidthMismatch, Detail: fmt.Sprintf(format, args...)}
}

func newBackEdgeViolation(format string, args ...any) error {
	return &StructuralError{Sentinel: ErrBackEdgeViolation, Detail: fmt.Sprintf(format, args...)}
}

func newMissingPattern(v VertexIndex, p PatternID) error {
	return &StructuralError{Sentinel: ErrMissingPattern, Detail: fmt.Sprintf("vertex %d has no pattern %d", v, p)}
}

// SemanticError wraps a semantic-error sentinel (bad caller input) with
// the offending detail. The graph is always left unchanged.
type SemanticError struct {
	Sentinel error
	Detail   string
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("%s: %s", e.Sentinel, e.Detail)
}

func (e *SemanticError) Unwrap() error {
	return e.Sentinel
}

func newForeignToken(t Token) error {
	return &SemanticError{Sentinel: ErrForeignToken, Detail: fmt.Sprintf("token %s is not known to this graph", t)}
}

func newOffsetOutOfRange(offset, width int) error {
	return &SemanticError{Sentinel: ErrOffsetOutOfRange, Detail: fmt.Sprintf("offset %d not in (0, %d)", offset, width)}
}

// NoMatchError carries the partial TraceCache accumulated before a search
// gave up, so callers can still inspect where matching got to.
type NoMatchError struct {
	Query []Token
	Cache *TraceCache
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("%s: query of length %d shares no prefix with any ancestor", ErrNoMatch, len(e.Query))
}

func (e *NoMatchError) Unwrap() error {
	return ErrNoMatch
}
