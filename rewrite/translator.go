package rewrite

import "fmt"

// Translator converts between the external alphabet (arbitrary bytes,
// in presentation order) and the internal codes used by the Rewriter.
// It is stateless after construction and safe for concurrent use.
type Translator struct {
	toInternal [256]int16 // external byte → internal code, -1 if absent
	toExternal []byte     // internal code - codeOffset → external byte
}

// NewTranslator builds a Translator for the given ordered alphabet.
// The alphabet must be duplicate-free (enforced by the presentation
// layer) and at most MaxAlphabetSize letters long.
func NewTranslator(alphabet string) (*Translator, error) {
	if len(alphabet) > MaxAlphabetSize {
		return nil, fmt.Errorf("%w: %d letters", ErrAlphabetTooLarge, len(alphabet))
	}
	t := &Translator{toExternal: []byte(alphabet)}
	for i := range t.toInternal {
		t.toInternal[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		t.toInternal[alphabet[i]] = int16(i) + int16(codeOffset)
	}

	return t, nil
}

// Size returns the number of letters in the alphabet.
func (t *Translator) Size() int { return len(t.toExternal) }

// ToInternal converts an external word to internal codes, validating
// every letter.
func (t *Translator) ToInternal(w string) (Word, error) {
	out := make(Word, len(w))
	for i := 0; i < len(w); i++ {
		c := t.toInternal[w[i]]
		if c < 0 {
			return nil, fmt.Errorf("%w: %q in %q", ErrLetterOutOfBounds, w[i], w)
		}
		out[i] = byte(c)
	}

	return out, nil
}

// ToInternalUnchecked converts an external word to internal codes
// without validation; letters outside the alphabet produce garbage.
func (t *Translator) ToInternalUnchecked(w string) Word {
	out := make(Word, len(w))
	for i := 0; i < len(w); i++ {
		out[i] = byte(t.toInternal[w[i]])
	}

	return out
}

// ToExternal converts an internal word back to the external alphabet.
func (t *Translator) ToExternal(w Word) string {
	out := make([]byte, len(w))
	for i, c := range w {
		out[i] = t.toExternal[c-codeOffset]
	}

	return string(out)
}

// Letter returns the external letter for alphabet position i.
func (t *Translator) Letter(i int) byte { return t.toExternal[i] }

// Code returns the internal code for alphabet position i.
func (t *Translator) Code(i int) byte { return byte(i) + codeOffset }
