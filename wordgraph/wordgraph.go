// Package wordgraph declares the Graph container, its sentinel errors,
// and the Cardinality result type used by path counting.
package wordgraph

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Sentinel errors for word graph operations.
var (
	// ErrNodeOutOfBounds is returned when a node index is >= NumberOfNodes.
	ErrNodeOutOfBounds = errors.New("wordgraph: node out of bounds")

	// ErrLabelOutOfBounds is returned when an edge label is >= OutDegree.
	ErrLabelOutOfBounds = errors.New("wordgraph: label out of bounds")

	// ErrCycleDetected is returned by TopologicalSort on a cyclic graph.
	ErrCycleDetected = errors.New("wordgraph: cycle detected")
)

// None is the sentinel target meaning "no edge with this label".
const None uint32 = math.MaxUint32

// Cardinality is a possibly-infinite count of paths or congruence
// classes. Every value below Infinity is an exact finite count.
type Cardinality uint64

// Infinity is the Cardinality of any infinite set of paths.
const Infinity Cardinality = math.MaxUint64

// IsFinite reports whether c is an exact finite count.
func (c Cardinality) IsFinite() bool { return c != Infinity }

// String renders a finite count in decimal and Infinity as "+∞".
func (c Cardinality) String() string {
	if c == Infinity {
		return "+∞"
	}

	return strconv.FormatUint(uint64(c), 10)
}

// Graph is a word graph: NumberOfNodes nodes, each with OutDegree
// labelled edge slots stored row-major in targets. Slot value None
// means the edge is absent; the graph is generally not complete.
type Graph struct {
	outDegree int
	targets   []uint32 // len = NumberOfNodes * outDegree
}

// New creates a word graph with n nodes, out-degree d, and no edges.
// Complexity: O(n·d).
func New(n, d int) *Graph {
	g := &Graph{outDegree: d, targets: make([]uint32, n*d)}
	for i := range g.targets {
		g.targets[i] = None
	}

	return g
}

// NumberOfNodes returns the number of nodes in g.
func (g *Graph) NumberOfNodes() int {
	if g.outDegree == 0 {
		return 0
	}

	return len(g.targets) / g.outDegree
}

// OutDegree returns the number of edge labels per node.
func (g *Graph) OutDegree() int { return g.outDegree }

// AddNodes appends k edge-less nodes and returns the index of the
// first one. Complexity: O(k·d) amortized.
func (g *Graph) AddNodes(k int) uint32 {
	first := uint32(g.NumberOfNodes())
	for i := 0; i < k*g.outDegree; i++ {
		g.targets = append(g.targets, None)
	}

	return first
}

// Target returns the target of the edge with label a leaving node n,
// or None if the edge is absent. Bounds are checked.
func (g *Graph) Target(n uint32, a int) (uint32, error) {
	if int(n) >= g.NumberOfNodes() {
		return None, fmt.Errorf("%w: node %d, have %d nodes", ErrNodeOutOfBounds, n, g.NumberOfNodes())
	}
	if a < 0 || a >= g.outDegree {
		return None, fmt.Errorf("%w: label %d, out-degree %d", ErrLabelOutOfBounds, a, g.outDegree)
	}

	return g.TargetUnchecked(n, a), nil
}

// TargetUnchecked is Target without bounds checks; the behavior is
// undefined when n or a is out of bounds.
func (g *Graph) TargetUnchecked(n uint32, a int) uint32 {
	return g.targets[int(n)*g.outDegree+a]
}

// SetTarget defines (or, with t == None, removes) the edge with label
// a from node n. Bounds are checked; the target itself may be None.
func (g *Graph) SetTarget(n uint32, a int, t uint32) error {
	if int(n) >= g.NumberOfNodes() || (t != None && int(t) >= g.NumberOfNodes()) {
		return fmt.Errorf("%w: edge %d --%d--> %d, have %d nodes", ErrNodeOutOfBounds, n, a, t, g.NumberOfNodes())
	}
	if a < 0 || a >= g.outDegree {
		return fmt.Errorf("%w: label %d, out-degree %d", ErrLabelOutOfBounds, a, g.outDegree)
	}
	g.SetTargetUnchecked(n, a, t)

	return nil
}

// SetTargetUnchecked is SetTarget without bounds checks.
func (g *Graph) SetTargetUnchecked(n uint32, a int, t uint32) {
	g.targets[int(n)*g.outDegree+a] = t
}

// NumberOfEdges counts the defined edges. Complexity: O(n·d).
func (g *Graph) NumberOfEdges() int {
	count := 0
	for _, t := range g.targets {
		if t != None {
			count++
		}
	}

	return count
}

// Clone returns a deep copy of g.
func (g *Graph) Clone() *Graph {
	targets := make([]uint32, len(g.targets))
	copy(targets, g.targets)

	return &Graph{outDegree: g.outDegree, targets: targets}
}
