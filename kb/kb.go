// Package kb: engine construction, the completion loop, and the word
// problem operations.
package kb

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/katalvlaran/fpsemi/presentation"
	"github.com/katalvlaran/fpsemi/rewrite"
)

// KnuthBendix is a completion engine over one presentation. It is not
// safe for concurrent mutation; only the rule counters and the
// Started/Running/Finished flags may be read from other goroutines.
type KnuthBendix struct {
	kind Kind
	orig *presentation.Presentation // as given
	pres *presentation.Presentation // working copy; reversed for Left
	tr   *rewrite.Translator
	rw   *rewrite.Rewriter
	s    settings
	hook func(Event)

	measure overlapMeasure

	started  atomic.Bool
	running  atomic.Bool
	finished atomic.Bool

	overlapBuf rewrite.Word // scratch for candidate sides
	gilman     gilmanCache
}

// New creates an engine for the given congruence kind over p. The
// presentation is deep-copied (and reversed for Left); its relations
// become the initial pending rules.
func New(kind Kind, p *presentation.Presentation, opts ...Option) (*KnuthBendix, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil presentation", ErrInvalidPresentation)
	}
	switch kind {
	case TwoSided, Left, Right:
	default:
		return nil, fmt.Errorf("%w: unknown kind %d", ErrOptionViolation, int(kind))
	}
	o := &options{settings: defaultSettings()}
	for _, opt := range opts {
		opt(o)
	}
	if o.err != nil {
		return nil, o.err
	}

	orig := p.Clone()
	pres := orig
	if kind == Left {
		pres = orig.Reverse()
	}
	tr, err := rewrite.NewTranslator(pres.Alphabet())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPresentation, err)
	}

	k := &KnuthBendix{
		kind:    kind,
		orig:    orig,
		pres:    pres,
		tr:      tr,
		rw:      rewrite.NewRewriter(o.cmp),
		s:       o.settings,
		hook:    o.hook,
		measure: measureFor(o.overlapPolicy),
	}
	// Relations enter as pending rules; the first Run reduces and
	// orients them before any overlap is examined.
	for _, r := range pres.Rules() {
		k.rw.AddPending(tr.ToInternalUnchecked(r.LHS), tr.ToInternalUnchecked(r.RHS))
	}

	return k, nil
}

// Kind returns the congruence kind the engine decides.
func (k *KnuthBendix) Kind() Kind { return k.kind }

// Presentation returns a copy of the defining presentation as given
// to New (not reversed, even for Left).
func (k *KnuthBendix) Presentation() *presentation.Presentation { return k.orig.Clone() }

// AddGeneratingPair declares u = v in the congruence, on top of the
// presentation's relations. Only legal before the first Run.
func (k *KnuthBendix) AddGeneratingPair(u, v string) error {
	if k.Started() {
		return ErrStarted
	}
	if (len(u) == 0 || len(v) == 0) && !k.orig.ContainsEmptyWord() {
		return presentation.ErrEmptyWord
	}
	iu, err := k.internalWord(u)
	if err != nil {
		return err
	}
	iv, err := k.internalWord(v)
	if err != nil {
		return err
	}
	k.rw.AddPending(iu, iv)

	return nil
}

// Started reports whether Run was ever called. Safe for concurrent
// reads.
func (k *KnuthBendix) Started() bool { return k.started.Load() }

// Running reports whether a Run is in progress. Safe for concurrent
// reads.
func (k *KnuthBendix) Running() bool { return k.running.Load() }

// Finished reports whether completion succeeded: the system is
// confluent and every subsequent Run returns immediately. Safe for
// concurrent reads.
func (k *KnuthBendix) Finished() bool { return k.finished.Load() }

// Confluent runs the local confluence check on the current rules (the
// verdict is cached until the rule set changes).
func (k *KnuthBendix) Confluent(ctx context.Context) bool {
	return k.rw.Confluent(ctx)
}

// ConfluentKnown reports whether the cached confluence verdict is
// current.
func (k *KnuthBendix) ConfluentKnown() bool {
	_, known := k.rw.CachedConfluent()

	return known
}

// NumberOfActiveRules returns the active rule count; safe for
// concurrent reads while Run is in progress.
func (k *KnuthBendix) NumberOfActiveRules() int { return k.rw.NumberOfActiveRules() }

// NumberOfInactiveRules returns the pooled rule count; safe for
// concurrent reads.
func (k *KnuthBendix) NumberOfInactiveRules() int { return k.rw.NumberOfInactiveRules() }

// TotalRules returns the number of rules ever created; safe for
// concurrent reads.
func (k *KnuthBendix) TotalRules() int { return k.rw.TotalRules() }

// NumberOfPendingRules returns the pending stack depth.
func (k *KnuthBendix) NumberOfPendingRules() int { return k.rw.NumberOfPendingRules() }

// Run attempts completion (KBS_2 from Sims): process the pending
// relations, then resolve every overlap between active left-hand
// sides, deriving new rules, until no overlap produces anything new.
// Periodically (CheckConfluenceInterval) the loop tests confluence
// and stops early on success.
//
// Run returns ctx.Err() if cancelled, leaving a valid resumable
// state; it returns nil when the run completed or stopped at a bound
// (MaxRules). Once Finished reports true, Run is a no-op.
func (k *KnuthBendix) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if k.finished.Load() {
		return nil
	}
	k.started.Store(true)
	k.running.Store(true)
	defer k.running.Store(false)

	stop := func() bool { return ctx.Err() != nil }

	// A previous bounded run may have stopped with a system that is
	// already confluent.
	if k.rw.NumberOfPendingRules() == 0 && k.rw.Confluent(ctx) {
		k.finished.Store(true)
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if k.ruleBoundReached() {
		return nil
	}

	k.rw.ProcessPending(stop)
	k.report()

	// Main loop: cursor 0 walks forward over the active rules; for
	// each rule, cursor 1 walks back to the front pairing it with all
	// earlier rules in both orders, plus the rule with itself. Newly
	// activated rules land at the back of the list, so cursor 0
	// reaches them; a deactivated rule that comes back also lands at
	// the back and is revisited there.
	k.rw.CursorToFront(0)
	var nr uint64
	for !k.rw.CursorAtEnd(0) && !stop() && !k.ruleBoundReached() {
		rule1 := k.rw.CursorRule(0)
		k.rw.CursorClone(1, 0)
		k.rw.CursorNext(0)
		k.overlap(ctx, rule1, rule1)
		for !k.rw.CursorAtFront(1) && rule1.Active() {
			k.rw.CursorPrev(1)
			rule2 := k.rw.CursorRule(1)
			k.overlap(ctx, rule1, rule2)
			nr++
			if rule1.Active() && rule2.Active() {
				nr++
				k.overlap(ctx, rule2, rule1)
			}
		}
		if nr > k.s.checkConfluenceInterval {
			if k.rw.Confluent(ctx) {
				break
			}
			nr = 0
		}
		if k.rw.CursorAtEnd(0) {
			k.rw.ProcessPending(stop)
			k.report()
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if k.rw.NumberOfPendingRules() == 0 && k.rw.Confluent(ctx) {
		k.finished.Store(true)
	}
	k.report()

	return nil
}

func (k *KnuthBendix) ruleBoundReached() bool {
	return k.s.maxRules != Unlimited && uint64(k.rw.NumberOfActiveRules()) >= k.s.maxRules
}

func (k *KnuthBendix) report() {
	if k.hook == nil {
		return
	}
	k.hook(Event{
		ActiveRules:   k.rw.NumberOfActiveRules(),
		InactiveRules: k.rw.NumberOfInactiveRules(),
		TotalRules:    k.rw.TotalRules(),
		PendingRules:  k.rw.NumberOfPendingRules(),
	})
}

// Reduce runs completion first, then rewrites w. With a finished
// system the result is the canonical representative of w's class.
func (k *KnuthBendix) Reduce(ctx context.Context, w string) (string, error) {
	if err := k.Run(ctx); err != nil {
		return "", err
	}

	return k.ReduceNoRun(w)
}

// ReduceNoRun rewrites w with respect to the current rules without
// running. Unless the system is confluent the result is equivalent to
// w but not canonical: two equal elements may reduce to different
// words.
func (k *KnuthBendix) ReduceNoRun(w string) (string, error) {
	iw, err := k.internalWord(w)
	if err != nil {
		return "", err
	}

	return k.externalWord(k.rw.Rewrite(iw)), nil
}

// ReduceNoRunUnchecked is ReduceNoRun without letter validation;
// words outside the alphabet produce garbage.
func (k *KnuthBendix) ReduceNoRunUnchecked(w string) string {
	return k.externalWord(k.rw.Rewrite(k.internalWordUnchecked(w)))
}

// Contains runs completion first, then reports whether u and v are
// congruent. Equal reductions decide containment regardless of
// confluence; unequal reductions decide it only for a finished
// system, otherwise ErrUndecided is returned.
func (k *KnuthBendix) Contains(ctx context.Context, u, v string) (bool, error) {
	if err := k.Run(ctx); err != nil {
		return false, err
	}
	iu, err := k.internalWord(u)
	if err != nil {
		return false, err
	}
	iv, err := k.internalWord(v)
	if err != nil {
		return false, err
	}
	if bytes.Equal(k.rw.Rewrite(iu), k.rw.Rewrite(iv)) {
		return true, nil
	}
	if !k.finished.Load() {
		return false, fmt.Errorf("%w: raise MaxRules or MaxOverlap", ErrUndecided)
	}

	return false, nil
}

// CurrentlyContains answers the containment question with the rules
// known so far, without running: TrilTrue when the reductions agree,
// TrilFalse when they disagree on a finished system, TrilUnknown
// otherwise.
func (k *KnuthBendix) CurrentlyContains(u, v string) (Tril, error) {
	iu, err := k.internalWord(u)
	if err != nil {
		return TrilUnknown, err
	}
	iv, err := k.internalWord(v)
	if err != nil {
		return TrilUnknown, err
	}
	if bytes.Equal(iu, iv) {
		return TrilTrue, nil
	}
	if bytes.Equal(k.rw.Rewrite(iu), k.rw.Rewrite(iv)) {
		return TrilTrue, nil
	}
	if k.finished.Load() {
		return TrilFalse, nil
	}

	return TrilUnknown, nil
}

// ActiveRules returns the current rules over the external alphabet,
// sorted shortlex by left then right side. The result is a snapshot.
func (k *KnuthBendix) ActiveRules() [][2]string {
	out := make([][2]string, 0, k.rw.NumberOfActiveRules())
	k.rw.ActiveRules(func(r *rewrite.Rule) bool {
		out = append(out, [2]string{k.externalWord(r.LHS()), k.externalWord(r.RHS())})
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return shortlexLess(out[i][0], out[j][0])
		}
		return shortlexLess(out[i][1], out[j][1])
	})

	return out
}

func shortlexLess(u, v string) bool {
	if len(u) != len(v) {
		return len(u) < len(v)
	}

	return u < v
}

// Settings accessors. Settings may be adjusted between runs; raising
// a bound after a bounded stop lets the next Run continue further.

// MaxPendingRules returns the pending batch size.
func (k *KnuthBendix) MaxPendingRules() uint64 { return k.s.maxPendingRules }

// SetMaxPendingRules sets the pending batch size; zero is rejected.
func (k *KnuthBendix) SetMaxPendingRules(n uint64) error {
	if n == 0 {
		return fmt.Errorf("%w: MaxPendingRules must be positive", ErrOptionViolation)
	}
	k.s.maxPendingRules = n

	return nil
}

// CheckConfluenceInterval returns the confluence check period.
func (k *KnuthBendix) CheckConfluenceInterval() uint64 { return k.s.checkConfluenceInterval }

// SetCheckConfluenceInterval sets the confluence check period; zero
// is rejected.
func (k *KnuthBendix) SetCheckConfluenceInterval(n uint64) error {
	if n == 0 {
		return fmt.Errorf("%w: CheckConfluenceInterval must be positive", ErrOptionViolation)
	}
	k.s.checkConfluenceInterval = n

	return nil
}

// MaxOverlap returns the overlap measure bound.
func (k *KnuthBendix) MaxOverlap() uint64 { return k.s.maxOverlap }

// SetMaxOverlap sets the overlap measure bound.
func (k *KnuthBendix) SetMaxOverlap(n uint64) { k.s.maxOverlap = n }

// MaxRules returns the active rule bound.
func (k *KnuthBendix) MaxRules() uint64 { return k.s.maxRules }

// SetMaxRules sets the active rule bound.
func (k *KnuthBendix) SetMaxRules(n uint64) { k.s.maxRules = n }

// OverlapPolicy returns the overlap measure in use.
func (k *KnuthBendix) OverlapPolicy() OverlapPolicy { return k.s.overlapPolicy }

// SetOverlapPolicy selects the overlap measure used with MaxOverlap.
func (k *KnuthBendix) SetOverlapPolicy(p OverlapPolicy) error {
	switch p {
	case OverlapABC, OverlapABBC, OverlapMaxABBC:
	default:
		return fmt.Errorf("%w: unknown overlap policy %d", ErrOptionViolation, int(p))
	}
	k.s.overlapPolicy = p
	k.measure = measureFor(p)

	return nil
}

// internalWord validates w and converts it to internal codes,
// reversing for Left congruences.
func (k *KnuthBendix) internalWord(w string) (rewrite.Word, error) {
	if err := k.orig.ValidateWord(w); err != nil {
		return nil, err
	}

	return k.internalWordUnchecked(w), nil
}

func (k *KnuthBendix) internalWordUnchecked(w string) rewrite.Word {
	iw := k.tr.ToInternalUnchecked(w)
	if k.kind == Left {
		reverseWord(iw)
	}

	return iw
}

// externalWord converts an internal word back to the external
// alphabet, un-reversing for Left congruences. The input is not
// modified.
func (k *KnuthBendix) externalWord(w rewrite.Word) string {
	if k.kind == Left {
		rev := make(rewrite.Word, len(w))
		for i, c := range w {
			rev[len(w)-1-i] = c
		}
		w = rev
	}

	return k.tr.ToExternal(w)
}

func reverseWord(w rewrite.Word) {
	for i, j := 0, len(w)-1; i < j; i, j = i+1, j-1 {
		w[i], w[j] = w[j], w[i]
	}
}
