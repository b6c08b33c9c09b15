// Package kb: shared types, settings, functional options, and
// sentinel errors.
package kb

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/fpsemi/rewrite"
)

// Sentinel errors.
var (
	// ErrInvalidPresentation is returned by New when the presentation
	// is nil or cannot be used (wraps the underlying cause).
	ErrInvalidPresentation = errors.New("kb: invalid presentation")

	// ErrStarted is returned when an operation is only legal before the
	// first Run.
	ErrStarted = errors.New("kb: already started")

	// ErrOptionViolation is returned by New when an option carries an
	// invalid value.
	ErrOptionViolation = errors.New("kb: invalid option")

	// ErrUndecided is returned when a bounded run stopped before
	// confluence and the question cannot be answered; raise MaxRules
	// or MaxOverlap and run again.
	ErrUndecided = errors.New("kb: not confluent after bounded run")
)

// Kind selects the congruence the engine decides.
type Kind int

const (
	// TwoSided is the two-sided congruence generated by the relations.
	TwoSided Kind = iota
	// Left is the left congruence; the engine reverses every word at
	// the boundary and works on the reversed presentation.
	Left
	// Right is the right congruence, the engine's natural orientation.
	Right
)

func (k Kind) String() string {
	switch k {
	case TwoSided:
		return "two-sided"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// OverlapPolicy selects the measure that bounds which overlaps are
// considered when MaxOverlap is set. For an overlap AB · BC the
// measures are |A|+|BC|, |AB|+|BC|, and max(|AB|, |BC|).
type OverlapPolicy int

const (
	OverlapABC OverlapPolicy = iota
	OverlapABBC
	OverlapMaxABBC
)

func (p OverlapPolicy) String() string {
	switch p {
	case OverlapABC:
		return "ABC"
	case OverlapABBC:
		return "AB_BC"
	case OverlapMaxABBC:
		return "MAX_AB_BC"
	default:
		return fmt.Sprintf("OverlapPolicy(%d)", int(p))
	}
}

// Tril is a three-valued truth: a question may be unanswerable before
// the system is complete.
type Tril int8

const (
	TrilFalse Tril = iota
	TrilTrue
	TrilUnknown
)

func (t Tril) String() string {
	switch t {
	case TrilFalse:
		return "false"
	case TrilTrue:
		return "true"
	case TrilUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("Tril(%d)", int8(t))
	}
}

// Unlimited disables a bound (MaxRules, MaxOverlap).
const Unlimited uint64 = math.MaxUint64

// Event is a progress snapshot passed to the event hook during Run.
type Event struct {
	ActiveRules   int
	InactiveRules int
	TotalRules    int
	PendingRules  int
}

// Default settings.
const (
	DefaultMaxPendingRules         uint64 = 128
	DefaultCheckConfluenceInterval uint64 = 4096
)

type settings struct {
	maxPendingRules         uint64
	checkConfluenceInterval uint64
	maxOverlap              uint64
	maxRules                uint64
	overlapPolicy           OverlapPolicy
}

func defaultSettings() settings {
	return settings{
		maxPendingRules:         DefaultMaxPendingRules,
		checkConfluenceInterval: DefaultCheckConfluenceInterval,
		maxOverlap:              Unlimited,
		maxRules:                Unlimited,
		overlapPolicy:           OverlapABC,
	}
}

// options collects construction-time configuration; the first invalid
// option records an error that New surfaces as ErrOptionViolation.
type options struct {
	settings
	cmp  rewrite.Comparator
	hook func(Event)
	err  error
}

// Option configures a KnuthBendix at construction time.
type Option func(*options)

// WithMaxPendingRules sets how many pending rules may accumulate
// before a batch is processed; must be positive.
func WithMaxPendingRules(n uint64) Option {
	return func(o *options) {
		if n == 0 {
			o.err = fmt.Errorf("%w: MaxPendingRules must be positive", ErrOptionViolation)
			return
		}
		o.maxPendingRules = n
	}
}

// WithCheckConfluenceInterval sets how many overlaps are examined
// between confluence checks during Run; must be positive.
func WithCheckConfluenceInterval(n uint64) Option {
	return func(o *options) {
		if n == 0 {
			o.err = fmt.Errorf("%w: CheckConfluenceInterval must be positive", ErrOptionViolation)
			return
		}
		o.checkConfluenceInterval = n
	}
}

// WithMaxOverlap bounds the overlap measure; overlaps exceeding it are
// not considered. Unlimited by default.
func WithMaxOverlap(n uint64) Option {
	return func(o *options) { o.maxOverlap = n }
}

// WithMaxRules stops Run once the active rule count reaches n; the
// run is resumable after raising the bound. Unlimited by default.
func WithMaxRules(n uint64) Option {
	return func(o *options) { o.maxRules = n }
}

// WithOverlapPolicy selects the overlap measure used with MaxOverlap.
func WithOverlapPolicy(p OverlapPolicy) Option {
	return func(o *options) {
		switch p {
		case OverlapABC, OverlapABBC, OverlapMaxABBC:
			o.overlapPolicy = p
		default:
			o.err = fmt.Errorf("%w: unknown overlap policy %d", ErrOptionViolation, int(p))
		}
	}
}

// WithComparator replaces the shortlex reduction order. The order
// must be length-compatible; see rewrite.Comparator.
func WithComparator(cmp rewrite.Comparator) Option {
	return func(o *options) {
		if cmp == nil {
			o.err = fmt.Errorf("%w: nil comparator", ErrOptionViolation)
			return
		}
		o.cmp = cmp
	}
}

// WithEventHook installs a progress callback fired from inside Run
// after each processed batch. The hook runs on the calling goroutine;
// keep it cheap.
func WithEventHook(hook func(Event)) Option {
	return func(o *options) { o.hook = hook }
}
