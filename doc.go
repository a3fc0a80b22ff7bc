// Package graphcore implements a hierarchical pattern-indexing engine: a
// directed acyclic hypergraph of tokens in which every non-atomic token is
// defined by one or more alternative child sequences ("patterns"). The
// package finds the largest matching ancestor of a query sequence and
// inserts new sequences by splitting existing composite tokens at arbitrary
// offsets and re-joining the pieces.
//
// The public surface is split across three collaborating areas: the Graph
// store (token.go, vertex.go, graph.go), the search engine (search.go,
// iter.go, rootcursor.go, path.go, cursor.go, tracecache.go), and the
// split/join pipeline driving Insert (split.go, join.go, insert.go).
package graphcore
