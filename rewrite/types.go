// Package rewrite: shared types, internal alphabet constants, and
// sentinel errors.
package rewrite

import "errors"

// Sentinel errors for alphabet translation.
var (
	// ErrAlphabetTooLarge is returned when the alphabet exceeds
	// MaxAlphabetSize letters.
	ErrAlphabetTooLarge = errors.New("rewrite: alphabet exceeds 253 letters")

	// ErrLetterOutOfBounds is returned when a word uses a letter that
	// is not in the alphabet.
	ErrLetterOutOfBounds = errors.New("rewrite: letter not in alphabet")
)

// Internal letter codes. External letter i maps to byte i+codeOffset;
// the two lowest codes are reserved so that they can never collide
// with a letter.
const (
	endOfWord  byte = 0
	padding    byte = 1
	codeOffset byte = 2
)

// MaxAlphabetSize is the largest supported alphabet: 256 byte values
// minus the reserved codes below codeOffset.
const MaxAlphabetSize = 256 - int(codeOffset) - 1

// Word is a word over the internal alphabet. Words are mutated in
// place by Rewrite; callers that need the original must copy first.
type Word []byte
