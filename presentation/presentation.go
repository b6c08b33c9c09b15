// Package presentation: the Presentation value type, its sentinel
// errors, and construction options.
package presentation

import (
	"errors"
	"fmt"
)

// Sentinel errors for presentation construction and validation.
var (
	// ErrEmptyAlphabet is returned when the alphabet has no letters.
	ErrEmptyAlphabet = errors.New("presentation: alphabet is empty")

	// ErrDuplicateLetter is returned when the alphabet repeats a letter.
	ErrDuplicateLetter = errors.New("presentation: duplicate letter in alphabet")

	// ErrLetterOutOfBounds is returned when a rule uses a letter that is
	// not in the alphabet.
	ErrLetterOutOfBounds = errors.New("presentation: letter not in alphabet")

	// ErrEmptyWord is returned when a rule side is empty but the
	// presentation does not contain the empty word.
	ErrEmptyWord = errors.New("presentation: empty rule side requires WithEmptyWord")
)

// Option configures a Presentation at construction time.
type Option func(*Presentation)

// WithEmptyWord makes the empty word an element of the presented
// object (monoid convention) and permits empty rule sides.
func WithEmptyWord() Option {
	return func(p *Presentation) { p.emptyWord = true }
}

// Rule is one defining relation: the words LHS and RHS are declared
// equal in the presented semigroup or monoid.
type Rule struct {
	LHS string
	RHS string
}

// Presentation is an ordered alphabet plus an ordered sequence of
// defining relations. The zero value is not usable; construct with New
// or Parse.
type Presentation struct {
	alphabet  []byte
	index     [256]int16 // letter → position in alphabet, -1 if absent
	rules     []Rule
	emptyWord bool
}

// New creates a Presentation over the given alphabet with no rules.
// The alphabet must be non-empty and duplicate-free.
func New(alphabet string, opts ...Option) (*Presentation, error) {
	if len(alphabet) == 0 {
		return nil, ErrEmptyAlphabet
	}
	p := &Presentation{alphabet: []byte(alphabet)}
	for i := range p.index {
		p.index[i] = -1
	}
	for i, c := range p.alphabet {
		if p.index[c] >= 0 {
			return nil, fmt.Errorf("%w: %q at positions %d and %d", ErrDuplicateLetter, c, p.index[c], i)
		}
		p.index[c] = int16(i)
	}
	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// AddRule appends the relation lhs = rhs. Every letter of both sides
// must belong to the alphabet; empty sides are only legal when the
// presentation contains the empty word.
func (p *Presentation) AddRule(lhs, rhs string) error {
	for _, side := range []string{lhs, rhs} {
		if len(side) == 0 && !p.emptyWord {
			return ErrEmptyWord
		}
		if err := p.ValidateWord(side); err != nil {
			return err
		}
	}
	p.rules = append(p.rules, Rule{LHS: lhs, RHS: rhs})

	return nil
}

// Validate re-checks every rule against the alphabet and the empty
// word convention. AddRule maintains these invariants, so Validate
// only fails for a Presentation corrupted by the caller.
func (p *Presentation) Validate() error {
	for _, r := range p.rules {
		for _, side := range []string{r.LHS, r.RHS} {
			if len(side) == 0 && !p.emptyWord {
				return ErrEmptyWord
			}
			if err := p.ValidateWord(side); err != nil {
				return err
			}
		}
	}

	return nil
}

// ValidateWord checks that every letter of w is in the alphabet.
func (p *Presentation) ValidateWord(w string) error {
	for i := 0; i < len(w); i++ {
		if p.index[w[i]] < 0 {
			return fmt.Errorf("%w: %q in %q", ErrLetterOutOfBounds, w[i], w)
		}
	}

	return nil
}

// Alphabet returns the alphabet as a string; the result is a copy.
func (p *Presentation) Alphabet() string { return string(p.alphabet) }

// Size returns the number of letters in the alphabet.
func (p *Presentation) Size() int { return len(p.alphabet) }

// Letter returns the letter at position i of the alphabet.
func (p *Presentation) Letter(i int) byte { return p.alphabet[i] }

// Index returns the alphabet position of letter c, and whether c is in
// the alphabet at all.
func (p *Presentation) Index(c byte) (int, bool) {
	i := p.index[c]

	return int(i), i >= 0
}

// Rules returns the defining relations in insertion order; the slice
// is a copy and may be retained by the caller.
func (p *Presentation) Rules() []Rule {
	rules := make([]Rule, len(p.rules))
	copy(rules, p.rules)

	return rules
}

// NumberOfRules returns the number of defining relations.
func (p *Presentation) NumberOfRules() int { return len(p.rules) }

// ContainsEmptyWord reports whether the empty word is an element of
// the presented object.
func (p *Presentation) ContainsEmptyWord() bool { return p.emptyWord }

// Clone returns a deep copy of p.
func (p *Presentation) Clone() *Presentation {
	q := &Presentation{
		alphabet:  append([]byte(nil), p.alphabet...),
		index:     p.index,
		rules:     append([]Rule(nil), p.rules...),
		emptyWord: p.emptyWord,
	}

	return q
}

// Reverse returns a presentation with the same alphabet in which every
// rule word is reversed. A left congruence over p corresponds to a
// right congruence over p.Reverse(); the Knuth-Bendix engine uses this
// to handle one-sided congruences with a single orientation.
func (p *Presentation) Reverse() *Presentation {
	q := p.Clone()
	for i, r := range q.rules {
		q.rules[i] = Rule{LHS: reverse(r.LHS), RHS: reverse(r.RHS)}
	}

	return q
}

func reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}

	return string(b)
}
