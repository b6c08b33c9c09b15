// Package kb: the Gilman graph of a rewriting system, class counting,
// and normal form enumeration.
package kb

import (
	"context"
	"fmt"

	"github.com/katalvlaran/fpsemi/rewrite"
	"github.com/katalvlaran/fpsemi/wordgraph"
)

// gilmanCache holds the graph derived from one rule set version.
type gilmanCache struct {
	graph       *wordgraph.Graph
	labels      []rewrite.Word // node → its prefix word; node 0 is ε
	version     uint64
	provisional bool
	valid       bool
}

// GilmanGraph runs completion first, then returns the Gilman graph of
// the rule system: the automaton of irreducible words.
//
// Nodes are the proper prefixes of the active left-hand sides (node 0
// is the empty word); there is an edge from prefix p with letter a
// exactly when p·a is irreducible, and it targets the longest suffix
// of p·a that is a node. Words labelling paths from node 0 are
// exactly the irreducible words, so for a confluent system the graph
// encodes the normal forms: the congruence has infinitely many
// classes iff the graph has a cycle.
//
// The graph is cached and rebuilt only when the rule set changes. If
// a bounded run stopped before confluence the graph is still built;
// Provisional reports that case.
func (k *KnuthBendix) GilmanGraph(ctx context.Context) (*wordgraph.Graph, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := k.Run(ctx); err != nil {
		return nil, err
	}

	return k.gilmanGraph(ctx)
}

// Provisional reports whether the cached Gilman graph was built from
// a non-confluent system (after a bounded or cancelled run).
func (k *KnuthBendix) Provisional() bool {
	return k.gilman.valid && k.gilman.provisional
}

// GilmanGraphNodeLabels returns the prefix word of every node of the
// cached Gilman graph, over the external alphabet, indexed by node.
// The graph must have been built first.
func (k *KnuthBendix) GilmanGraphNodeLabels() []string {
	labels := make([]string, len(k.gilman.labels))
	for i, w := range k.gilman.labels {
		labels[i] = k.externalWord(w)
	}

	return labels
}

func (k *KnuthBendix) gilmanGraph(ctx context.Context) (*wordgraph.Graph, error) {
	if k.gilman.valid && k.gilman.version == k.rw.Version() {
		return k.gilman.graph, nil
	}

	// Step 1: collect the nodes, in activation then prefix-length
	// order so that node numbering is deterministic.
	labels := []rewrite.Word{{}}
	nodeOf := map[string]uint32{"": 0}
	k.rw.ActiveRules(func(r *rewrite.Rule) bool {
		lhs := r.LHS()
		for j := 1; j < len(lhs); j++ {
			key := string(lhs[:j])
			if _, ok := nodeOf[key]; !ok {
				nodeOf[key] = uint32(len(labels))
				labels = append(labels, append(rewrite.Word(nil), lhs[:j]...))
			}
		}
		return true
	})

	// Step 2: for every node p and letter a, add the edge to the
	// longest node suffix of p·a unless p·a is reducible.
	g := wordgraph.New(len(labels), k.tr.Size())
	var q rewrite.Word
	for n, p := range labels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for a := 0; a < k.tr.Size(); a++ {
			q = append(append(q[:0], p...), k.tr.Code(a))
			if !k.rw.IsIrreducible(q) {
				continue
			}
			for j := 0; j <= len(q); j++ {
				if t, ok := nodeOf[string(q[j:])]; ok {
					g.SetTargetUnchecked(uint32(n), a, t)
					break
				}
			}
		}
	}

	k.gilman = gilmanCache{
		graph:       g,
		labels:      labels,
		version:     k.rw.Version(),
		provisional: !k.finished.Load(),
		valid:       true,
	}

	return g, nil
}

// NumberOfClasses runs completion first, then counts the congruence
// classes: the number of irreducible words, which is the number of
// paths from node 0 of the Gilman graph (Infinity when the graph has
// a reachable cycle), minus the empty word unless the presentation
// contains it. A bounded run that stopped before confluence cannot
// count and returns ErrUndecided.
func (k *KnuthBendix) NumberOfClasses(ctx context.Context) (wordgraph.Cardinality, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := k.Run(ctx); err != nil {
		return 0, err
	}
	if !k.finished.Load() {
		return 0, fmt.Errorf("%w: raise MaxRules or MaxOverlap", ErrUndecided)
	}
	g, err := k.gilmanGraph(ctx)
	if err != nil {
		return 0, err
	}
	n := g.CountPathsFrom(0)
	if n.IsFinite() && !k.pres.ContainsEmptyWord() {
		n--
	}

	return n, nil
}

// NormalForms runs completion first, then enumerates the irreducible
// words in order of increasing length (within a length, in alphabet
// order for TwoSided and Right; Left enumerates the reversed system,
// so only the length order is guaranteed). visit receives each word
// over the external alphabet and returns false to stop; for an
// infinite system the enumeration only terminates through visit or
// ctx. The empty word is enumerated first iff the presentation
// contains it.
func (k *KnuthBendix) NormalForms(ctx context.Context, visit func(string) bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := k.Run(ctx); err != nil {
		return err
	}
	g, err := k.gilmanGraph(ctx)
	if err != nil {
		return err
	}
	if k.pres.ContainsEmptyWord() && !visit("") {
		return nil
	}

	type item struct {
		node uint32
		word rewrite.Word
	}
	queue := []item{{node: 0}}
	for len(queue) > 0 {
		if err = ctx.Err(); err != nil {
			return err
		}
		it := queue[0]
		queue = queue[1:]
		for a := 0; a < k.tr.Size(); a++ {
			t := g.TargetUnchecked(it.node, a)
			if t == wordgraph.None {
				continue
			}
			w := make(rewrite.Word, 0, len(it.word)+1)
			w = append(append(w, it.word...), k.tr.Code(a))
			if !visit(k.externalWord(w)) {
				return nil
			}
			queue = append(queue, item{node: t, word: w})
		}
	}

	return nil
}
