package rewrite

import "bytes"

// Comparator is a strict reduction order on words: it reports whether
// u precedes v. The Rewriter orients every rule so that its left-hand
// side is the larger side.
//
// A Comparator must be a total well-order compatible with
// concatenation, and length-compatible: |u| < |v| implies u < v. The
// in-place rewriting buffer relies on length-compatibility (a rule
// never grows the word it is applied to).
type Comparator func(u, v Word) bool

// ShortLex is the default reduction order: shorter words precede
// longer ones, words of equal length compare lexicographically by
// internal code (that is, by alphabet position).
func ShortLex(u, v Word) bool {
	if len(u) != len(v) {
		return len(u) < len(v)
	}

	return bytes.Compare(u, v) < 0
}
