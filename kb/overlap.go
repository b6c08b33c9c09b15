// Package kb: overlap enumeration between active rule left-hand
// sides (OVERLAP_2 from Sims).
package kb

import (
	"bytes"
	"context"

	"github.com/katalvlaran/fpsemi/rewrite"
)

// overlapMeasure scores an overlap between rules u: AB → Q1 and
// v: BC → Q2, where s = |B|. Overlaps scoring above MaxOverlap are
// skipped.
type overlapMeasure func(u, v *rewrite.Rule, s int) uint64

func measureFor(p OverlapPolicy) overlapMeasure {
	switch p {
	case OverlapABBC:
		return measureABBC
	case OverlapMaxABBC:
		return measureMaxABBC
	default:
		return measureABC
	}
}

// |A| + |BC|
func measureABC(u, v *rewrite.Rule, s int) uint64 {
	return uint64(len(u.LHS()) - s + len(v.LHS()))
}

// |AB| + |BC|
func measureABBC(u, v *rewrite.Rule, _ int) uint64 {
	return uint64(len(u.LHS()) + len(v.LHS()))
}

// max(|AB|, |BC|)
func measureMaxABBC(u, v *rewrite.Rule, _ int) uint64 {
	if len(u.LHS()) > len(v.LHS()) {
		return uint64(len(u.LHS()))
	}

	return uint64(len(v.LHS()))
}

// overlap finds every word AB C with u: AB → Q1 and v: BC → Q2 (B
// non-empty, shorter than both sides) and queues the consequence
// A·Q2 = Q1·C as a pending rule. Pending rules are processed in
// batches of MaxPendingRules; processing can deactivate u or v, or
// reactivate them with different sides, which the identifier and
// generation guards detect before any stale slice is read.
func (k *KnuthBendix) overlap(ctx context.Context, u, v *rewrite.Rule) {
	uID, vID := u.ID(), v.ID()
	uGen, vGen := u.Generation(), v.Generation()
	ul, vl := u.LHS(), v.LHS()
	n := len(ul)
	if len(vl) < n {
		n = len(vl)
	}
	for s := 1; s < n; s++ {
		if ctx.Err() != nil {
			return
		}
		if u.ID() != uID || u.Generation() != uGen || v.ID() != vID || v.Generation() != vGen {
			// One of the rules changed under us; it was re-activated
			// at the back of the list and the pair will be revisited.
			return
		}
		if k.s.maxOverlap != Unlimited && k.measure(u, v, s) > k.s.maxOverlap {
			return
		}
		if !bytes.HasPrefix(vl, ul[len(ul)-s:]) {
			continue
		}
		// A = ul[:|AB|-s], C = vl[s:]; queue A·Q2 = Q1·C.
		buf := k.overlapBuf[:0]
		buf = append(buf, ul[:len(ul)-s]...)
		buf = append(buf, v.RHS()...)
		mid := len(buf)
		buf = append(buf, u.RHS()...)
		buf = append(buf, vl[s:]...)
		k.overlapBuf = buf
		k.rw.AddPending(buf[:mid], buf[mid:])
		if uint64(k.rw.NumberOfPendingRules()) >= k.s.maxPendingRules {
			k.rw.ProcessPending(func() bool { return ctx.Err() != nil })
			k.report()
		}
	}
}
