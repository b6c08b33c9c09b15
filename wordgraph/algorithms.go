// Package wordgraph algorithms: acyclicity, topological sort, and path
// counting via three-color depth-first search.
//
// Complexity (V = nodes, E = defined edges):
//
//   - IsAcyclic, TopologicalSort: O(V + E) time, O(V) memory
//   - CountPathsFrom:             O(V + E) time, O(V) memory
package wordgraph

// Visitation states for depth-first traversal.
const (
	white = iota // unvisited
	gray         // on the recursion stack
	black        // fully explored
)

// IsAcyclic reports whether g contains no directed cycle.
func (g *Graph) IsAcyclic() bool {
	_, err := g.TopologicalSort()

	return err == nil
}

// TopologicalSort returns a linear ordering of all nodes such that for
// every edge u→v, u appears before v. Returns ErrCycleDetected if g
// contains a cycle.
func (g *Graph) TopologicalSort() ([]uint32, error) {
	n := g.NumberOfNodes()
	sorter := &topoSorter{
		graph: g,
		state: make([]uint8, n),
		order: make([]uint32, 0, n),
	}
	// Drive DFS from every unvisited node.
	for v := 0; v < n; v++ {
		if sorter.state[v] == white {
			if err := sorter.visit(uint32(v)); err != nil {
				return nil, err
			}
		}
	}
	// Reverse post-order to produce topological order.
	for i, j := 0, len(sorter.order)-1; i < j; i, j = i+1, j-1 {
		sorter.order[i], sorter.order[j] = sorter.order[j], sorter.order[i]
	}

	return sorter.order, nil
}

// topoSorter encapsulates state for a topological sort traversal.
type topoSorter struct {
	graph *Graph
	state []uint8  // white, gray, or black per node
	order []uint32 // recorded post-order sequence
}

// visit performs an iterative DFS from id, marking states and
// detecting cycles via gray→gray back-edges. An explicit stack is used
// so that deep graphs cannot overflow the goroutine stack.
func (t *topoSorter) visit(id uint32) error {
	type frame struct {
		node  uint32
		label int // next edge label to explore
	}
	stack := []frame{{node: id}}
	t.state[id] = gray
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.label == t.graph.OutDegree() {
			// All edges explored: mark black, record post-order.
			t.state[top.node] = black
			t.order = append(t.order, top.node)
			stack = stack[:len(stack)-1]

			continue
		}
		next := t.graph.TargetUnchecked(top.node, top.label)
		top.label++
		if next == None {
			continue
		}
		switch t.state[next] {
		case gray:
			return ErrCycleDetected
		case white:
			t.state[next] = gray
			stack = append(stack, frame{node: next})
		}
	}

	return nil
}

// CountPathsFrom returns the number of paths in g that start at source,
// including the empty path. The result is Infinity exactly when a
// cycle is reachable from source; otherwise the count is computed by
// dynamic programming over the reverse topological order of the
// subgraph reachable from source.
func (g *Graph) CountPathsFrom(source uint32) Cardinality {
	if int(source) >= g.NumberOfNodes() {
		return 0
	}
	reachable := g.reachableFrom(source)
	order, err := g.TopologicalSort()
	if err != nil {
		// The whole graph is cyclic; the cycle matters only if it is
		// reachable from source, so re-test on the reachable subgraph.
		if g.reachableSubgraphCyclic(source, reachable) {
			return Infinity
		}
		order = g.reachableTopoOrder(reachable)
	}
	// paths(n) = 1 + Σ paths(target) over the defined edges of n,
	// evaluated in reverse topological order.
	paths := make([]uint64, g.NumberOfNodes())
	for i := len(order) - 1; i >= 0; i-- {
		n := order[i]
		if !reachable[n] {
			continue
		}
		total := uint64(1)
		for a := 0; a < g.outDegree; a++ {
			if t := g.TargetUnchecked(n, a); t != None {
				total += paths[t]
			}
		}
		paths[n] = total
	}

	return Cardinality(paths[source])
}

// reachableFrom marks every node reachable from source (inclusive).
func (g *Graph) reachableFrom(source uint32) []bool {
	seen := make([]bool, g.NumberOfNodes())
	queue := []uint32{source}
	seen[source] = true
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for a := 0; a < g.outDegree; a++ {
			if t := g.TargetUnchecked(n, a); t != None && !seen[t] {
				seen[t] = true
				queue = append(queue, t)
			}
		}
	}

	return seen
}

// reachableSubgraphCyclic reports whether the subgraph induced by the
// reachable set contains a cycle, using the same three-color DFS as
// TopologicalSort restricted to reachable nodes.
func (g *Graph) reachableSubgraphCyclic(source uint32, reachable []bool) bool {
	state := make([]uint8, g.NumberOfNodes())
	type frame struct {
		node  uint32
		label int
	}
	stack := []frame{{node: source}}
	state[source] = gray
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.label == g.outDegree {
			state[top.node] = black
			stack = stack[:len(stack)-1]

			continue
		}
		next := g.TargetUnchecked(top.node, top.label)
		top.label++
		if next == None || !reachable[next] {
			continue
		}
		switch state[next] {
		case gray:
			return true
		case white:
			state[next] = gray
			stack = append(stack, frame{node: next})
		}
	}

	return false
}

// reachableTopoOrder computes a topological order of the reachable
// subgraph only; the caller guarantees that subgraph is acyclic.
func (g *Graph) reachableTopoOrder(reachable []bool) []uint32 {
	state := make([]uint8, g.NumberOfNodes())
	order := make([]uint32, 0, g.NumberOfNodes())
	type frame struct {
		node  uint32
		label int
	}
	for v := 0; v < g.NumberOfNodes(); v++ {
		if !reachable[v] || state[v] != white {
			continue
		}
		stack := []frame{{node: uint32(v)}}
		state[v] = gray
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.label == g.outDegree {
				state[top.node] = black
				order = append(order, top.node)
				stack = stack[:len(stack)-1]

				continue
			}
			next := g.TargetUnchecked(top.node, top.label)
			top.label++
			if next == None || !reachable[next] || state[next] != white {
				continue
			}
			state[next] = gray
			stack = append(stack, frame{node: next})
		}
	}
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}

	return order
}
