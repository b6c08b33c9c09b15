// Package wordgraph provides a compact word graph: a finite directed
// graph with a fixed out-degree in which every edge leaving a node is
// labelled by a letter (an index in 0..outDegree-1) and carries at most
// one target per label.
//
// Word graphs are the automata consumed by the Knuth-Bendix engine in
// package kb: the Gilman graph of a rewriting system is a word graph
// whose paths from node 0 spell exactly the normal forms of the system.
// The package therefore ships only the graph-theoretic operations that
// construction needs: acyclicity testing, topological sorting, and
// path counting (with an infinite-cardinality result when a cycle is
// reachable).
//
// Nodes are dense uint32 indices; an absent edge is the None sentinel.
// A Graph is not safe for concurrent mutation, but any number of
// goroutines may query a graph that is no longer being mutated.
package wordgraph
