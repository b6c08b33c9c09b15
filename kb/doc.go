// Package kb runs Knuth-Bendix completion on a finitely presented
// semigroup or monoid and answers questions about the congruence the
// presentation defines.
//
// What
//
//   - New(kind, presentation, options...) builds an engine for the
//     two-sided, left, or right congruence generated by the relations
//     (plus any generating pairs added before the first run).
//   - Run(ctx) attempts completion: it resolves overlaps between
//     active rule left-hand sides, derives new rules, and stops when
//     the system is confluent, a configured bound is hit, or ctx is
//     cancelled. Runs are resumable and idempotent once finished.
//   - Reduce / Contains answer word problems; with a confluent system
//     the reduced word is the canonical representative of its class.
//   - NumberOfClasses counts congruence classes, possibly Infinity,
//     via the Gilman graph of the complete system.
//   - GilmanGraph / NormalForms expose the language of irreducible
//     words: its automaton and a length-ordered enumeration.
//
// Termination
//
//	Completion is a semi-decision procedure: some presentations have
//	no finite confluent system, and Run(ctx) will not return for them
//	unless ctx expires or MaxRules/MaxOverlap bound the search. Always
//	pass a context with a deadline when the input is untrusted.
//
// Monitoring
//
//	NumberOfActiveRules, NumberOfInactiveRules, and TotalRules are
//	safe to poll from another goroutine while Run is in progress;
//	WithEventHook installs an in-band progress callback.
//
// Usage
//
//	p, _ := presentation.Parse("ab", "a^3=a, b^2=b, (ab)^2=a")
//	eng, _ := kb.New(kb.TwoSided, p)
//	if err := eng.Run(ctx); err != nil { ... }
//	n, _ := eng.NumberOfClasses(ctx) // 3
//	w, _ := eng.Reduce(ctx, "abbbabab")
//
// Errors
//
//   - ErrInvalidPresentation  if New is given a nil or unusable presentation.
//   - ErrOptionViolation      if an option value is invalid.
//   - ErrStarted              if AddGeneratingPair is called after Run.
//   - ErrUndecided            if a bounded run stopped before confluence.
//   - presentation.ErrLetterOutOfBounds for words outside the alphabet.
package kb
