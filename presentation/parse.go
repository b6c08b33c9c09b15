// Package presentation: text notation parser for defining relations.
//
// The accepted notation is the usual generators-and-relations one:
// relations are separated by "," or ";", each relation is a chain of
// two or more words joined by "=", a word is a sequence of letter runs
// and parenthesized groups, "^" raises the preceding letter or group
// to a non-negative power, and "1" denotes the empty word. Because "1"
// is reserved, alphabets for this notation must consist of ASCII
// letters; presentations over other bytes are built with New/AddRule.
// Examples:
//
//	a^3=a, b^2=b, (ab)^2=a
//	xy = yx; x^4 = 1
package presentation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
)

// ErrParse is returned (wrapped) for malformed relation notation.
var ErrParse = errors.New("presentation: cannot parse relations")

type relationsAST struct {
	Relations []*relationAST `parser:"@@ ( ( ',' | ';' ) @@ )* ( ',' | ';' )?"`
}

type relationAST struct {
	Sides []*wordAST `parser:"@@ ( '=' @@ )+"`
}

type wordAST struct {
	Factors []*factorAST `parser:"@@+"`
}

type factorAST struct {
	Group   *wordAST `parser:"( '(' @@ ')'"`
	Letters string   `parser:"| @Ident"`
	One     string   `parser:"| @'1' )"`
	Exp     *int     `parser:"( '^' @Int )?"`
}

var relationParser = participle.MustBuild[relationsAST]()

// Parse builds a Presentation over alphabet from relation notation.
// The empty word convention is enabled automatically when "1" occurs
// in the relations, or explicitly via WithEmptyWord.
func Parse(alphabet, relations string, opts ...Option) (*Presentation, error) {
	ast, err := relationParser.ParseString("relations", relations)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	// Expand every side up front so that the empty-word convention can
	// be decided before the first AddRule.
	expanded := make([][]string, 0, len(ast.Relations))
	needEmpty := false
	for _, rel := range ast.Relations {
		sides := make([]string, 0, len(rel.Sides))
		for _, w := range rel.Sides {
			s := expandWord(w)
			if s == "" {
				needEmpty = true
			}
			sides = append(sides, s)
		}
		expanded = append(expanded, sides)
	}
	if needEmpty {
		opts = append(opts, WithEmptyWord())
	}
	p, err := New(alphabet, opts...)
	if err != nil {
		return nil, err
	}
	// A chain u=v=w contributes the pairs (u,v) and (u,w).
	for _, sides := range expanded {
		for _, rhs := range sides[1:] {
			if err = p.AddRule(sides[0], rhs); err != nil {
				return nil, err
			}
		}
	}

	return p, nil
}

// expandWord flattens an AST word into a plain letter string.
func expandWord(w *wordAST) string {
	var b strings.Builder
	for _, f := range w.Factors {
		exp := 1
		if f.Exp != nil {
			exp = *f.Exp
		}
		switch {
		case f.Group != nil:
			b.WriteString(strings.Repeat(expandWord(f.Group), exp))
		case f.Letters != "":
			// An exponent binds to the last letter of a run: ab^3 = abbb.
			b.WriteString(f.Letters[:len(f.Letters)-1])
			b.WriteString(strings.Repeat(f.Letters[len(f.Letters)-1:], exp))
		default:
			// "1" is the empty word; an exponent changes nothing.
		}
	}

	return b.String()
}
