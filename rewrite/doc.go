// Package rewrite implements the string rewriting core of the
// Knuth-Bendix engine: an internal alphabet translator, word orders,
// a pooled rule type, and a Rewriter that maintains the active rule
// set and rewrites words with respect to it.
//
// What
//
//   - Translator: maps external alphabet letters to compact internal
//     codes and back; words are []byte of internal codes throughout
//     the hot path.
//   - Comparator / ShortLex: the reduction order that orients rules.
//   - Rule: one rewriting rule lhs → rhs with a signed identifier;
//     negative means inactive. Deactivated rules are pooled and their
//     buffers reused.
//   - Rewriter: active rule list with a suffix-trie index, a pending
//     rule stack, scan-based rewriting, pending-rule processing, and
//     the local confluence check.
//
// Rewriting
//
//	Rewrite scans the word left to right keeping an already-reduced
//	prefix. After each consumed letter the trie is asked whether some
//	active left-hand side is a suffix of the prefix; on a match the
//	matched part is dropped and the right-hand side is pushed back
//	onto the unread input. Because every rule strictly decreases the
//	word in the reduction order, the scan terminates and the result
//	contains no active left-hand side as a factor.
//
// Complexity (n = |word|, R = active rules, L = longest lhs)
//
//   - Rewrite: O(n·L) trie steps in the worst case; each applied rule
//     strictly decreases the word in the order, so the total number of
//     applications is finite.
//   - Confluent: O(R²·L) overlap candidates, each rewritten.
//
// Concurrency
//
//	Rule counters are atomics and may be polled from other goroutines
//	while a run is in progress; everything else is single-goroutine.
package rewrite
