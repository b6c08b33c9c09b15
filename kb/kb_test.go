package kb_test

import (
	"context"
	"math/rand"
	"sync/atomic"
	"testing"

	"github.com/katalvlaran/fpsemi/kb"
	"github.com/katalvlaran/fpsemi/presentation"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, alphabet, relations string) *presentation.Presentation {
	t.Helper()
	p, err := presentation.Parse(alphabet, relations)
	require.NoError(t, err)

	return p
}

// mustPresent builds a presentation rule by rule, for alphabets the
// notation parser cannot express (digits).
func mustPresent(t *testing.T, alphabet string, rules ...[2]string) *presentation.Presentation {
	t.Helper()
	p, err := presentation.New(alphabet)
	require.NoError(t, err)
	for _, r := range rules {
		require.NoError(t, p.AddRule(r[0], r[1]))
	}

	return p
}

func TestNew_Errors(t *testing.T) {
	_, err := kb.New(kb.TwoSided, nil)
	require.ErrorIs(t, err, kb.ErrInvalidPresentation)

	p := mustParse(t, "ab", "aa=a")
	_, err = kb.New(kb.Kind(99), p)
	require.ErrorIs(t, err, kb.ErrOptionViolation)

	_, err = kb.New(kb.TwoSided, p, kb.WithMaxPendingRules(0))
	require.ErrorIs(t, err, kb.ErrOptionViolation)

	_, err = kb.New(kb.TwoSided, p, kb.WithOverlapPolicy(kb.OverlapPolicy(7)))
	require.ErrorIs(t, err, kb.ErrOptionViolation)

	_, err = kb.New(kb.TwoSided, p, kb.WithComparator(nil))
	require.ErrorIs(t, err, kb.ErrOptionViolation)
}

func TestRun_SingleRule(t *testing.T) {
	ctx := context.Background()
	eng, err := kb.New(kb.TwoSided, mustPresent(t, "01", [2]string{"00", "0"}))
	require.NoError(t, err)

	require.NoError(t, eng.Run(ctx))
	require.True(t, eng.Finished())
	require.True(t, eng.Confluent(ctx))
	require.Equal(t, 1, eng.NumberOfActiveRules())

	got, err := eng.Reduce(ctx, "000")
	require.NoError(t, err)
	require.Equal(t, "0", got)
}

// ⟨a,b | a³=a, b²=b, (ab)²=a⟩ completes to {aa→a, ab→a, bb→b}: the
// overlap of abab with bb forces ab=a, which then collapses abab to
// aa and yields aa=a.
func TestRun_CollapsingPresentation(t *testing.T) {
	ctx := context.Background()
	eng, err := kb.New(kb.TwoSided, mustParse(t, "ab", "a^3=a, b^2=b, (ab)^2=a"))
	require.NoError(t, err)

	require.NoError(t, eng.Run(ctx))
	require.True(t, eng.Finished())
	require.Equal(t, [][2]string{
		{"aa", "a"},
		{"ab", "a"},
		{"bb", "b"},
	}, eng.ActiveRules())

	got, err := eng.Reduce(ctx, "abbbabab")
	require.NoError(t, err)
	require.Equal(t, "a", got)

	ok, err := eng.Contains(ctx, "aba", "a")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = eng.Contains(ctx, "a", "b")
	require.NoError(t, err)
	require.False(t, ok)
}

// A finite semigroup of order four: completion finds four rules and
// the normal forms a, b, aa, ab.
func TestRun_SizeFour(t *testing.T) {
	ctx := context.Background()
	eng, err := kb.New(kb.TwoSided, mustParse(t, "ab", "a^3=a, b^7=b, abaabba=b^2"))
	require.NoError(t, err)

	require.False(t, eng.Confluent(ctx), "relations alone are not confluent")
	require.NoError(t, eng.Run(ctx))
	require.True(t, eng.Finished())
	require.True(t, eng.Confluent(ctx))
	require.Equal(t, 4, eng.NumberOfActiveRules())
}

// An infinite semigroup with a finite confluent system of eight rules.
func TestRun_InfiniteEightRules(t *testing.T) {
	ctx := context.Background()
	eng, err := kb.New(kb.TwoSided, mustParse(t, "ab", "a^3=a, b^4=b, (ba)^5b=b, baab=bab^3ab"))
	require.NoError(t, err)

	require.NoError(t, eng.Run(ctx))
	require.True(t, eng.Finished())
	require.Equal(t, 8, eng.NumberOfActiveRules())
}

func TestRun_ResumableAfterRuleBound(t *testing.T) {
	ctx := context.Background()
	eng, err := kb.New(kb.TwoSided,
		mustParse(t, "ab", "a^3=a, b^7=b, abaabba=b^2"),
		kb.WithMaxRules(2))
	require.NoError(t, err)

	require.NoError(t, eng.Run(ctx))
	require.True(t, eng.Started())
	require.False(t, eng.Finished(), "rule bound must stop the run early")

	eng.SetMaxRules(kb.Unlimited)
	require.NoError(t, eng.Run(ctx))
	require.True(t, eng.Finished())
	require.Equal(t, 4, eng.NumberOfActiveRules())
}

func TestRun_IdempotentOnceFinished(t *testing.T) {
	ctx := context.Background()
	eng, err := kb.New(kb.TwoSided, mustParse(t, "ab", "a^3=a, b^2=b, (ab)^2=a"))
	require.NoError(t, err)

	require.NoError(t, eng.Run(ctx))
	rules := eng.ActiveRules()
	total := eng.TotalRules()

	require.NoError(t, eng.Run(ctx))
	require.True(t, eng.Finished())
	require.Equal(t, rules, eng.ActiveRules())
	require.Equal(t, total, eng.TotalRules())
}

func TestRun_CancellationLeavesContinuableState(t *testing.T) {
	eng, err := kb.New(kb.TwoSided, mustParse(t, "ab", "a^3=a, b^7=b, abaabba=b^2"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, eng.Run(ctx), context.Canceled)
	require.True(t, eng.Started())
	require.False(t, eng.Finished())
	require.False(t, eng.Running())

	require.NoError(t, eng.Run(context.Background()))
	require.True(t, eng.Finished())
	require.Equal(t, 4, eng.NumberOfActiveRules())
}

// The rule counters and state flags are documented as safe to poll
// from another goroutine while Run is in progress; run under -race.
func TestCounters_ConcurrentPollingDuringRun(t *testing.T) {
	eng, err := kb.New(kb.TwoSided, mustParse(t, "ab", "a^3=a, b^7=b, abaabba=b^2"))
	require.NoError(t, err)

	var polls atomic.Int64
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			active := eng.NumberOfActiveRules()
			inactive := eng.NumberOfInactiveRules()
			total := eng.TotalRules()
			if active < 0 || inactive < 0 || total < active {
				t.Errorf("implausible counters: active=%d inactive=%d total=%d", active, inactive, total)
				return
			}
			_ = eng.Running()
			polls.Add(1)
			if eng.Finished() {
				return
			}
		}
	}()

	require.NoError(t, eng.Run(context.Background()))
	<-done
	require.Positive(t, polls.Load())
}

// Words related by substituting one relation side for the other are
// equal by construction, so once the system is confluent they must
// share a normal form.
func TestReduce_RandomDerivationChains(t *testing.T) {
	ctx := context.Background()
	relations := [][2]string{
		{"aaa", "a"},
		{"bbbbbbb", "b"},
		{"abaabba", "bb"},
	}
	p, err := presentation.New("ab")
	require.NoError(t, err)
	for _, r := range relations {
		require.NoError(t, p.AddRule(r[0], r[1]))
	}
	eng, err := kb.New(kb.TwoSided, p)
	require.NoError(t, err)
	require.NoError(t, eng.Run(ctx))
	require.True(t, eng.Finished())

	rng := rand.New(rand.NewSource(42))
	const letters = "ab"
	for trial := 0; trial < 50; trial++ {
		w := make([]byte, 3+rng.Intn(10))
		for i := range w {
			w[i] = letters[rng.Intn(len(letters))]
		}
		start := string(w)
		derived := start
		for step := 0; step < 20; step++ {
			r := relations[rng.Intn(len(relations))]
			from, to := r[0], r[1]
			if rng.Intn(2) == 0 {
				from, to = to, from
			}
			positions := occurrences(derived, from)
			if len(positions) == 0 {
				continue
			}
			at := positions[rng.Intn(len(positions))]
			derived = derived[:at] + to + derived[at+len(from):]
		}

		want, err := eng.Reduce(ctx, start)
		require.NoError(t, err)
		got, err := eng.Reduce(ctx, derived)
		require.NoError(t, err)
		require.Equal(t, want, got, "start %q, derived %q", start, derived)
	}
}

// occurrences lists every index at which sub occurs in s.
func occurrences(s, sub string) []int {
	var out []int
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			out = append(out, i)
		}
	}

	return out
}

// Cancel a run in flight, from inside the overlap loop, and resume.
// MaxPendingRules 1 forces a progress event on every derived rule, so
// the second event fires mid-loop; completion needs a fourth rule, so
// that event is guaranteed before the run could finish.
func TestRun_CancellationStopsARunInFlight(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := 0
	eng, err := kb.New(kb.TwoSided,
		mustParse(t, "ab", "a^3=a, b^7=b, abaabba=b^2"),
		kb.WithMaxPendingRules(1),
		kb.WithEventHook(func(kb.Event) {
			if events++; events == 2 {
				cancel()
			}
		}))
	require.NoError(t, err)

	require.ErrorIs(t, eng.Run(ctx), context.Canceled)
	require.True(t, eng.Started())
	require.False(t, eng.Finished())

	require.NoError(t, eng.Run(context.Background()))
	require.True(t, eng.Finished())
	require.Equal(t, 4, eng.NumberOfActiveRules())
}

func TestReduceNoRun_IsNotCanonical(t *testing.T) {
	eng, err := kb.New(kb.TwoSided, mustParse(t, "ab", "a^3=a, b^2=b, (ab)^2=a"))
	require.NoError(t, err)

	// Before the first run no rule is active, so nothing rewrites.
	got, err := eng.ReduceNoRun("aaa")
	require.NoError(t, err)
	require.Equal(t, "aaa", got)

	require.NoError(t, eng.Run(context.Background()))
	got, err = eng.ReduceNoRun("aaa")
	require.NoError(t, err)
	require.Equal(t, "a", got)
	require.Equal(t, "a", eng.ReduceNoRunUnchecked("aaa"))
}

func TestReduce_RejectsForeignLetters(t *testing.T) {
	eng, err := kb.New(kb.TwoSided, mustParse(t, "ab", "aa=a"))
	require.NoError(t, err)

	_, err = eng.Reduce(context.Background(), "abc")
	require.ErrorIs(t, err, presentation.ErrLetterOutOfBounds)
}

func TestContains_UndecidedOnBoundedRun(t *testing.T) {
	eng, err := kb.New(kb.TwoSided,
		mustParse(t, "ab", "a^3=a, b^7=b, abaabba=b^2"),
		kb.WithMaxRules(2))
	require.NoError(t, err)

	_, err = eng.Contains(context.Background(), "ab", "ba")
	require.ErrorIs(t, err, kb.ErrUndecided)
}

func TestCurrentlyContains(t *testing.T) {
	eng, err := kb.New(kb.TwoSided, mustParse(t, "ab", "a^3=a, b^2=b, (ab)^2=a"))
	require.NoError(t, err)

	tril, err := eng.CurrentlyContains("ab", "ab")
	require.NoError(t, err)
	require.Equal(t, kb.TrilTrue, tril, "identical words need no rules")

	tril, err = eng.CurrentlyContains("a", "b")
	require.NoError(t, err)
	require.Equal(t, kb.TrilUnknown, tril, "no verdict before the system is complete")

	require.NoError(t, eng.Run(context.Background()))
	tril, err = eng.CurrentlyContains("a", "b")
	require.NoError(t, err)
	require.Equal(t, kb.TrilFalse, tril)

	tril, err = eng.CurrentlyContains("aba", "a")
	require.NoError(t, err)
	require.Equal(t, kb.TrilTrue, tril)
}

func TestAddGeneratingPair(t *testing.T) {
	ctx := context.Background()
	p, err := presentation.New("ab")
	require.NoError(t, err)

	eng, err := kb.New(kb.TwoSided, p)
	require.NoError(t, err)
	require.NoError(t, eng.AddGeneratingPair("a", "b"))

	got, err := eng.Reduce(ctx, "ab")
	require.NoError(t, err)
	require.Equal(t, "aa", got, "b collapses onto a")

	require.ErrorIs(t, eng.AddGeneratingPair("aa", "a"), kb.ErrStarted)
}

func TestAddGeneratingPair_EmptySideNeedsEmptyWord(t *testing.T) {
	p, err := presentation.New("ab")
	require.NoError(t, err)
	eng, err := kb.New(kb.TwoSided, p)
	require.NoError(t, err)
	require.ErrorIs(t, eng.AddGeneratingPair("a", ""), presentation.ErrEmptyWord)

	m, err := presentation.New("ab", presentation.WithEmptyWord())
	require.NoError(t, err)
	meng, err := kb.New(kb.TwoSided, m)
	require.NoError(t, err)
	require.NoError(t, meng.AddGeneratingPair("a", ""))
}

func TestKinds_LeftReversesTheSystem(t *testing.T) {
	ctx := context.Background()

	left, err := kb.New(kb.Left, mustParse(t, "ab", "ba=b"))
	require.NoError(t, err)
	got, err := left.Reduce(ctx, "baa")
	require.NoError(t, err)
	require.Equal(t, "b", got)
	got, err = left.Reduce(ctx, "aba")
	require.NoError(t, err)
	require.Equal(t, "ab", got)

	right, err := kb.New(kb.Right, mustParse(t, "ab", "ba=b"))
	require.NoError(t, err)
	got, err = right.Reduce(ctx, "baa")
	require.NoError(t, err)
	require.Equal(t, "b", got)
	got, err = right.Reduce(ctx, "aba")
	require.NoError(t, err)
	require.Equal(t, "ab", got, "ba=b rewrites the inner ba")
}

func TestOverlapPolicies_AgreeOnNormalForms(t *testing.T) {
	ctx := context.Background()
	words := []string{"a", "b", "ab", "ba", "abba", "babab", "aabbaabb"}

	var reference []string
	for _, policy := range []kb.OverlapPolicy{kb.OverlapABC, kb.OverlapABBC, kb.OverlapMaxABBC} {
		eng, err := kb.New(kb.TwoSided,
			mustParse(t, "ab", "a^3=a, b^7=b, abaabba=b^2"),
			kb.WithOverlapPolicy(policy))
		require.NoError(t, err)
		require.NoError(t, eng.Run(ctx))
		require.True(t, eng.Finished())

		reduced := make([]string, len(words))
		for i, w := range words {
			reduced[i], err = eng.Reduce(ctx, w)
			require.NoError(t, err)
		}
		if reference == nil {
			reference = reduced
			continue
		}
		require.Equal(t, reference, reduced, "policy %v disagrees", policy)
	}
}

func TestEventHook(t *testing.T) {
	events := 0
	eng, err := kb.New(kb.TwoSided,
		mustParse(t, "ab", "a^3=a, b^7=b, abaabba=b^2"),
		kb.WithEventHook(func(e kb.Event) {
			events++
			if e.ActiveRules < 0 || e.TotalRules < e.ActiveRules {
				t.Errorf("implausible snapshot: %+v", e)
			}
		}))
	require.NoError(t, err)

	require.NoError(t, eng.Run(context.Background()))
	require.Positive(t, events)
}

func TestSettingsAccessors(t *testing.T) {
	eng, err := kb.New(kb.TwoSided, mustParse(t, "ab", "aa=a"),
		kb.WithMaxOverlap(10),
		kb.WithCheckConfluenceInterval(100))
	require.NoError(t, err)

	require.Equal(t, uint64(10), eng.MaxOverlap())
	require.Equal(t, uint64(100), eng.CheckConfluenceInterval())
	require.Equal(t, kb.DefaultMaxPendingRules, eng.MaxPendingRules())
	require.Equal(t, kb.Unlimited, eng.MaxRules())
	require.Equal(t, kb.OverlapABC, eng.OverlapPolicy())

	require.NoError(t, eng.SetMaxPendingRules(64))
	require.ErrorIs(t, eng.SetMaxPendingRules(0), kb.ErrOptionViolation)
	require.NoError(t, eng.SetOverlapPolicy(kb.OverlapMaxABBC))
	require.Equal(t, kb.OverlapMaxABBC, eng.OverlapPolicy())
	require.ErrorIs(t, eng.SetOverlapPolicy(kb.OverlapPolicy(9)), kb.ErrOptionViolation)

	eng.SetMaxOverlap(kb.Unlimited)
	require.Equal(t, kb.Unlimited, eng.MaxOverlap())
}

func TestKindAndPresentationAccessors(t *testing.T) {
	p := mustParse(t, "ab", "aa=a")
	eng, err := kb.New(kb.Left, p)
	require.NoError(t, err)

	require.Equal(t, kb.Left, eng.Kind())
	require.Equal(t, "left", eng.Kind().String())
	require.Equal(t, p.Rules(), eng.Presentation().Rules(), "presentation is returned as given")
}
