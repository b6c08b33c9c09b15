// Package presentation defines finitely presented semigroups and
// monoids by generators and relations.
//
// A Presentation is an ordered, duplicate-free alphabet of single-byte
// letters plus an ordered sequence of relations (pairs of words over
// the alphabet). It is the sole input of the Knuth-Bendix engine in
// package kb; the engine deep-copies the presentation at construction
// and never aliases it afterwards.
//
// Presentations can be built programmatically:
//
//	p, _ := presentation.New("ab")
//	_ = p.AddRule("aaa", "a")
//	_ = p.AddRule("bb", "b")
//
// or parsed from the usual generators-and-relations notation, in which
// ^ denotes letter exponents and 1 the empty word:
//
//	p, _ := presentation.Parse("ab", "a^3=a, b^2=b, (ab)^2=a")
//
// By default the empty word is not an element (semigroup convention);
// WithEmptyWord switches to the monoid convention and permits empty
// rule sides.
package presentation
