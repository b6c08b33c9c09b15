package rewrite

// Rule is one rewriting rule lhs → rhs over the internal alphabet.
//
// The identifier doubles as the activity flag: a positive id means the
// rule participates in rewriting, a negative id means it is pooled or
// pending. Identifiers are assigned once per logical rule (at creation
// from the pool) and only change sign afterwards, so a caller holding
// a *Rule can detect that the rule it captured was deactivated.
type Rule struct {
	lhs Word
	rhs Word
	id  int64
	gen uint32
}

// LHS returns the left-hand side; the slice is owned by the rule.
func (r *Rule) LHS() Word { return r.lhs }

// RHS returns the right-hand side; the slice is owned by the rule.
func (r *Rule) RHS() Word { return r.rhs }

// ID returns the signed identifier (negative while inactive).
func (r *Rule) ID() int64 { return r.id }

// Active reports whether the rule is in the active set.
func (r *Rule) Active() bool { return r.id > 0 }

// Generation counts activations of this rule object. A rule can be
// deactivated, rewritten, and reactivated under the same identifier
// within one pending drain; an iteration that captured the rule's
// sides detects that by comparing generations, since the sides of a
// rule never change while its generation stays the same.
func (r *Rule) Generation() uint32 { return r.gen }

func (r *Rule) activate() {
	if r.id < 0 {
		r.id = -r.id
		r.gen++
	}
}

func (r *Rule) deactivate() {
	if r.id > 0 {
		r.id = -r.id
	}
}

// set overwrites both sides, reusing the rule's buffers.
func (r *Rule) set(lhs, rhs Word) {
	r.lhs = append(r.lhs[:0], lhs...)
	r.rhs = append(r.rhs[:0], rhs...)
}
