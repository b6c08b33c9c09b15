package rewrite

// ruleIndex is a trie over the reversals of the active left-hand
// sides. Walking a word backwards through the trie answers the one
// query rewriting needs: is some active lhs a suffix of this prefix?
//
// Terminal nodes hold the rule; since active left-hand sides are
// pairwise non-containing (pending-rule processing deactivates any
// rule whose lhs contains another lhs), at most one terminal can lie
// on a root-to-node path, and the walk can stop at the first hit.
type ruleIndex struct {
	root *trieNode
}

type trieNode struct {
	children map[byte]*trieNode
	rule     *Rule
}

func newRuleIndex() *ruleIndex {
	return &ruleIndex{root: &trieNode{}}
}

// insert adds rule's lhs (reversed) to the trie.
func (x *ruleIndex) insert(r *Rule) {
	n := x.root
	lhs := r.lhs
	for i := len(lhs) - 1; i >= 0; i-- {
		c := lhs[i]
		if n.children == nil {
			n.children = make(map[byte]*trieNode)
		}
		child, ok := n.children[c]
		if !ok {
			child = &trieNode{}
			n.children[c] = child
		}
		n = child
	}
	n.rule = r
}

// remove deletes rule's lhs from the trie, pruning nodes that no
// longer lead to a terminal.
func (x *ruleIndex) remove(r *Rule) {
	lhs := r.lhs
	path := make([]*trieNode, 0, len(lhs)+1)
	n := x.root
	path = append(path, n)
	for i := len(lhs) - 1; i >= 0; i-- {
		n = n.children[lhs[i]]
		if n == nil {
			return
		}
		path = append(path, n)
	}
	if n.rule != r {
		return
	}
	n.rule = nil
	for i := len(path) - 1; i > 0; i-- {
		node := path[i]
		if node.rule != nil || len(node.children) > 0 {
			break
		}
		delete(path[i-1].children, lhs[len(lhs)-i])
	}
}

// suffixRule returns an active rule whose lhs is a suffix of w, or nil.
func (x *ruleIndex) suffixRule(w Word) *Rule {
	n := x.root
	for i := len(w) - 1; i >= 0; i-- {
		n = n.children[w[i]]
		if n == nil {
			return nil
		}
		if n.rule != nil {
			return n.rule
		}
	}

	return nil
}
