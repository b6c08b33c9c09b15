// Package fpsemi is a library for finitely presented semigroups and
// monoids: define an object by generators and relations, complete the
// relations into a confluent rewriting system with Knuth-Bendix, and
// answer word problems, count congruence classes, and enumerate
// normal forms.
//
// 🚀 What is fpsemi?
//
//	A pure-Go computational semigroup theory toolkit:
//		• Presentations: alphabets, relations, a generators-and-relations parser
//		• Completion: Knuth-Bendix with overlap policies, bounds, cancellation
//		• Word problems: reduction to normal form, congruence membership
//		• Counting: finite class counts or a proof of infinity, via the
//		  Gilman graph of the complete system
//		• Enumeration: lazy, length-ordered normal form streams
//
// Everything is organized under four subpackages:
//
//	presentation/ — Presentation type, validation, notation parser
//	rewrite/      — internal words, reduction orders, the rewriting core
//	kb/           — the Knuth-Bendix engine and its derived queries
//	wordgraph/    — word graphs, topological sort, path counting
//
// Quick example:
//
//	p, _ := presentation.Parse("ab", "a^3=a, b^2=b, (ab)^2=a")
//	eng, _ := kb.New(kb.TwoSided, p)
//	_ = eng.Run(ctx)
//	n, _ := eng.NumberOfClasses(ctx) // 3
//
// Completion may not terminate for presentations with no finite
// confluent system; pass a context with a deadline, or bound the
// search with kb.WithMaxRules / kb.WithMaxOverlap.
//
//	go get github.com/katalvlaran/fpsemi
package fpsemi
