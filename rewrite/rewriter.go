package rewrite

import (
	"bytes"
	"container/list"
	"context"
	"math"
	"sync/atomic"
)

// NumCursors is the number of iteration cursors a Rewriter maintains
// over its active rule list. The completion loop drives two nested
// iterations whose positions must survive rule removal.
const NumCursors = 2

// Rewriter owns the rule system: the active rule list (in activation
// order), the pending stack of candidate rules, the pool of inactive
// rules whose buffers are reused, and the suffix-trie index over the
// active left-hand sides.
//
// Invariants maintained across all operations:
//
//   - every active rule is oriented (lhs > rhs in the order);
//   - no active lhs contains another active lhs as a factor;
//   - the trie indexes exactly the active rules.
type Rewriter struct {
	cmp     Comparator
	active  *list.List // of *Rule
	cursors [NumCursors]*list.Element
	pool    []*Rule
	pending []*Rule
	index   *ruleIndex

	minLHS int // shortest lhs ever active; rewrite shortcut
	maxLHS int // longest lhs ever active

	total     atomic.Int64
	nActive   atomic.Int64
	nInactive atomic.Int64
	version   atomic.Uint64

	confluent       atomic.Bool
	confluenceKnown atomic.Bool
}

// NewRewriter creates an empty Rewriter using cmp as the reduction
// order, or ShortLex when cmp is nil.
func NewRewriter(cmp Comparator) *Rewriter {
	if cmp == nil {
		cmp = ShortLex
	}

	return &Rewriter{
		cmp:    cmp,
		active: list.New(),
		index:  newRuleIndex(),
		minLHS: math.MaxInt,
	}
}

// Order returns the reduction order in use.
func (r *Rewriter) Order() Comparator { return r.cmp }

// NumberOfActiveRules returns the active rule count; safe for
// concurrent reads.
func (r *Rewriter) NumberOfActiveRules() int { return int(r.nActive.Load()) }

// NumberOfInactiveRules returns the pooled rule count; safe for
// concurrent reads.
func (r *Rewriter) NumberOfInactiveRules() int { return int(r.nInactive.Load()) }

// TotalRules returns the number of rules ever created; safe for
// concurrent reads.
func (r *Rewriter) TotalRules() int { return int(r.total.Load()) }

// NumberOfPendingRules returns the pending stack depth.
func (r *Rewriter) NumberOfPendingRules() int { return len(r.pending) }

// Version is incremented whenever the active rule set changes; callers
// caching anything derived from the rules compare versions to detect
// staleness. Safe for concurrent reads.
func (r *Rewriter) Version() uint64 { return r.version.Load() }

// MinLHSLength returns the length of the shortest left-hand side ever
// active, or math.MaxInt when no rule was ever activated.
func (r *Rewriter) MinLHSLength() int { return r.minLHS }

// MaxActiveWordLength returns the length of the longest left-hand side
// ever active.
func (r *Rewriter) MaxActiveWordLength() int { return r.maxLHS }

// ActiveRules calls visit for every active rule in activation order
// until visit returns false.
func (r *Rewriter) ActiveRules(visit func(*Rule) bool) {
	for e := r.active.Front(); e != nil; e = e.Next() {
		if !visit(e.Value.(*Rule)) {
			return
		}
	}
}

// newRule takes a rule from the pool (or allocates one) and assigns
// it the next identifier, negated: new rules start inactive.
func (r *Rewriter) newRule(lhs, rhs Word) *Rule {
	id := r.total.Add(1)
	var rule *Rule
	if n := len(r.pool); n > 0 {
		rule = r.pool[n-1]
		r.pool = r.pool[:n-1]
		r.nInactive.Add(-1)
	} else {
		rule = &Rule{}
	}
	rule.id = -id
	rule.set(lhs, rhs)

	return rule
}

// recycle returns a rule to the pool.
func (r *Rewriter) recycle(rule *Rule) {
	rule.deactivate()
	r.pool = append(r.pool, rule)
	r.nInactive.Add(1)
}

// AddPending pushes the candidate rule lhs = rhs onto the pending
// stack; candidates with equal sides are discarded immediately.
// Orientation happens during ProcessPending, after both sides have
// been fully rewritten.
func (r *Rewriter) AddPending(lhs, rhs Word) bool {
	if bytes.Equal(lhs, rhs) {
		return false
	}
	r.pending = append(r.pending, r.newRule(lhs, rhs))

	return true
}

// Rewrite reduces w with respect to the active rules, in place, and
// returns the reduced word (a prefix of w's buffer).
//
// The scan keeps two positions into w: v bounds the already-reduced
// prefix, i the unread input. After each consumed letter the trie is
// asked for an active lhs ending the prefix; on a match the prefix
// rewinds past the lhs and the rhs is written back just before the
// unread input, to be re-read. Length-compatibility of the order
// guarantees v never overtakes i, so the buffer is never grown.
func (r *Rewriter) Rewrite(w Word) Word {
	if len(w) < r.minLHS {
		return w
	}
	v := 0
	for i := 0; i < len(w); {
		w[v] = w[i]
		v++
		i++
		if rule := r.index.suffixRule(w[:v]); rule != nil {
			v -= len(rule.lhs)
			i -= len(rule.rhs)
			copy(w[i:], rule.rhs)
		}
	}

	return w[:v]
}

// IsIrreducible reports whether w contains no active lhs as a factor.
func (r *Rewriter) IsIrreducible(w Word) bool {
	if len(w) < r.minLHS {
		return true
	}
	for i := 1; i <= len(w); i++ {
		if r.index.suffixRule(w[:i]) != nil {
			return false
		}
	}

	return true
}

// ProcessPending drains the pending stack (TEST_2 from Sims): each
// candidate is fully rewritten on both sides, discarded if trivial,
// oriented, and activated; any active rule whose lhs or rhs contains
// the new lhs is deactivated and requeued for re-processing. A
// candidate identical to an already-active rule is discarded, so a
// duplicate can never deactivate and requeue its own twin forever.
//
// stop is polled between candidates; a true return abandons the drain
// (the remaining pending rules survive for the next call). Reports
// whether at least one rule was activated.
func (r *Rewriter) ProcessPending(stop func() bool) bool {
	added := false
	for len(r.pending) > 0 {
		if stop != nil && stop() {
			return added
		}
		rule := r.pending[len(r.pending)-1]
		r.pending = r.pending[:len(r.pending)-1]

		// Step 1: reduce both sides with respect to the current rules.
		rule.lhs = r.Rewrite(rule.lhs)
		rule.rhs = r.Rewrite(rule.rhs)
		if bytes.Equal(rule.lhs, rule.rhs) {
			r.recycle(rule)
			continue
		}
		// Step 2: orient so that lhs is the larger side.
		if r.cmp(rule.lhs, rule.rhs) {
			rule.lhs, rule.rhs = rule.rhs, rule.lhs
		}
		// Step 3: deactivate every active rule the new lhs reduces.
		duplicate := false
		for e := r.active.Front(); e != nil; {
			next := e.Next()
			r2 := e.Value.(*Rule)
			if bytes.Contains(r2.lhs, rule.lhs) || bytes.Contains(r2.rhs, rule.lhs) {
				if bytes.Equal(r2.lhs, rule.lhs) && bytes.Equal(r2.rhs, rule.rhs) {
					duplicate = true
				} else {
					next = r.deactivateRule(e)
					r.pending = append(r.pending, r2)
				}
			}
			e = next
		}
		if duplicate {
			r.recycle(rule)
			continue
		}
		// Step 4: activate.
		r.addRule(rule)
		added = true
	}

	return added
}

// addRule activates rule at the back of the active list, indexes it,
// and repositions end-of-list cursors onto it.
func (r *Rewriter) addRule(rule *Rule) {
	rule.activate()
	e := r.active.PushBack(rule)
	for i := range r.cursors {
		if r.cursors[i] == nil {
			r.cursors[i] = e
		}
	}
	r.index.insert(rule)
	if len(rule.lhs) < r.minLHS {
		r.minLHS = len(rule.lhs)
	}
	if len(rule.lhs) > r.maxLHS {
		r.maxLHS = len(rule.lhs)
	}
	r.nActive.Add(1)
	r.version.Add(1)
	r.confluenceKnown.Store(false)
}

// deactivateRule removes e's rule from the active list and the index,
// advancing any cursor parked on e. Returns the element after e. The
// rule itself is neither pooled nor requeued; the caller decides.
func (r *Rewriter) deactivateRule(e *list.Element) *list.Element {
	rule := e.Value.(*Rule)
	rule.deactivate()
	r.index.remove(rule)
	next := e.Next()
	for i := range r.cursors {
		if r.cursors[i] == e {
			r.cursors[i] = next
		}
	}
	r.active.Remove(e)
	r.nActive.Add(-1)
	r.version.Add(1)
	r.confluenceKnown.Store(false)

	return next
}

// Cursor operations. A nil cursor is the past-the-end position.

// CursorToFront parks cursor i on the first active rule.
func (r *Rewriter) CursorToFront(i int) { r.cursors[i] = r.active.Front() }

// CursorClone copies cursor src's position into cursor dst.
func (r *Rewriter) CursorClone(dst, src int) { r.cursors[dst] = r.cursors[src] }

// CursorAtEnd reports whether cursor i is past the end.
func (r *Rewriter) CursorAtEnd(i int) bool { return r.cursors[i] == nil }

// CursorAtFront reports whether cursor i is on the first active rule.
func (r *Rewriter) CursorAtFront(i int) bool { return r.cursors[i] == r.active.Front() }

// CursorRule returns the rule under cursor i, or nil past the end.
func (r *Rewriter) CursorRule(i int) *Rule {
	if r.cursors[i] == nil {
		return nil
	}

	return r.cursors[i].Value.(*Rule)
}

// CursorNext advances cursor i by one rule.
func (r *Rewriter) CursorNext(i int) {
	if r.cursors[i] != nil {
		r.cursors[i] = r.cursors[i].Next()
	}
}

// CursorPrev moves cursor i back by one rule; from past-the-end it
// moves onto the last rule.
func (r *Rewriter) CursorPrev(i int) {
	if r.cursors[i] == nil {
		r.cursors[i] = r.active.Back()
	} else {
		r.cursors[i] = r.cursors[i].Prev()
	}
}

// CachedConfluent returns the cached confluence verdict and whether it
// is current. Safe for concurrent reads.
func (r *Rewriter) CachedConfluent() (confluent, known bool) {
	return r.confluent.Load(), r.confluenceKnown.Load()
}

func (r *Rewriter) setCachedConfluent(confluent, known bool) {
	r.confluent.Store(confluent)
	r.confluenceKnown.Store(known)
}

// Confluent runs the local confluence check (CONFLUENT from Sims): for
// every ordered pair of active rules and every overlap of their
// left-hand sides, both resolutions of the overlap word must rewrite
// to the same word. The verdict is cached until the rule set changes.
//
// Pending rules make the answer meaningless, so a non-empty pending
// stack reports false without checking. Cancellation of ctx also
// reports false, with the cache left unknown.
func (r *Rewriter) Confluent(ctx context.Context) bool {
	if len(r.pending) != 0 {
		r.setCachedConfluent(false, false)
		return false
	}
	if confluent, known := r.CachedConfluent(); known {
		return confluent
	}

	var word1, word2 Word
	seen := 0
	for e1 := r.active.Front(); e1 != nil; e1 = e1.Next() {
		rule1 := e1.Value.(*Rule)
		for e2 := r.active.Back(); e2 != nil; e2 = e2.Prev() {
			if seen++; seen&63 == 0 && ctx != nil && ctx.Err() != nil {
				r.setCachedConfluent(false, false)
				return false
			}
			rule2 := e2.Value.(*Rule)
			l1, l2 := rule1.lhs, rule2.lhs
			for i := len(l1) - 1; i >= 0; i-- {
				// B = l1[i:]; overlap requires B to be a prefix of l2
				// or l2 to be a factor of l1 starting at i.
				k := commonPrefix(l1[i:], l2)
				if i+k != len(l1) && k != len(l2) {
					continue
				}
				// l1 = A·B·D with A = l1[:i], and the common part
				// covers B or all of l2; the two resolutions are
				// A·rhs2·D versus rhs1·E.
				word1 = append(word1[:0], l1[:i]...)
				word1 = append(word1, rule2.rhs...)
				word1 = append(word1, l1[i+k:]...)
				word2 = append(word2[:0], rule1.rhs...)
				word2 = append(word2, l2[k:]...)
				if bytes.Equal(word1, word2) {
					continue
				}
				word1 = r.Rewrite(word1)
				word2 = r.Rewrite(word2)
				if !bytes.Equal(word1, word2) {
					r.setCachedConfluent(false, true)
					return false
				}
			}
		}
	}
	r.setCachedConfluent(true, true)

	return true
}

// commonPrefix returns the length of the longest common prefix.
func commonPrefix(u, v Word) int {
	n := len(u)
	if len(v) < n {
		n = len(v)
	}
	i := 0
	for i < n && u[i] == v[i] {
		i++
	}

	return i
}
