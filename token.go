package graphcore

import "fmt"

// VertexIndex identifies a vertex in the graph. Ids are allocated in
// insertion order and are never reused; deletion is not supported.
type VertexIndex int

// PatternID identifies one alternative decomposition (pattern) of a
// composite vertex. Pattern ids are only unique within their owning
// vertex.
type PatternID int

// AtomPosition counts atoms consumed along a query or a path. It is always
// non-negative.
type AtomPosition int

// Token is a handle into the graph: a vertex reference plus the width that
// vertex spans. Tokens are value types; equality is structural on the
// vertex index alone, matching the source contract that two tokens
// referring to the same vertex are always interchangeable regardless of
// how their Width field happened to be populated.
type Token struct {
	Index VertexIndex
	Width int
}

// Equal reports whether two tokens reference the same vertex.
func (t Token) Equal(other Token) bool {
	return t.Index == other.Index
}

// String renders a token for debug/log output.
func (t Token) String() string {
	return fmt.Sprintf("#%d(w=%d)", t.Index, t.Width)
}

// SubLocation is a (pattern, position) pair inside a single vertex: "the
// sub_index'th child of pattern Pattern".
type SubLocation struct {
	Pattern  PatternID
	SubIndex int
}

// PatternLocation names one specific pattern of a parent token.
type PatternLocation struct {
	Parent  Token
	Pattern PatternID
}

// ChildLocation names one specific child slot of a parent token's pattern:
// the combination of a PatternLocation and a SubLocation.
type ChildLocation struct {
	Parent   Token
	Pattern  PatternID
	SubIndex int
}

// Sub returns the SubLocation half of this ChildLocation.
func (c ChildLocation) Sub() SubLocation {
	return SubLocation{Pattern: c.Pattern, SubIndex: c.SubIndex}
}

// PatternOf returns the PatternLocation half of this ChildLocation.
func (c ChildLocation) PatternOf() PatternLocation {
	return PatternLocation{Parent: c.Parent, Pattern: c.Pattern}
}
