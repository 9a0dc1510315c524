// Package token splits witness transcriptions into tokens and derives the
// normalized forms handed to the alignment engine.
//
// Normalization strips trailing ASCII punctuation (a closing square bracket
// is kept, since it marks editorial supplements) and lower-cases the token
// unless it is written entirely in capitals. Raw tokens keep their original
// case and punctuation; they become the running text of the apparatus.
package token

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Punctuation is the set of characters stripped from the end of a token.
// It is ASCII punctuation without ']'.
const Punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\^_`{|}~"

// Token is one whitespace-delimited unit of a witness.
type Token struct {
	Raw  string
	Norm string
}

// Kept reports whether the token survives normalization.
func (t Token) Kept() bool {
	return t.Norm != ""
}

var lower = cases.Lower(language.Und)

// Split splits text on Unicode whitespace.
func Split(text string) []string {
	return strings.Fields(text)
}

// StripPunct removes trailing punctuation other than ']'.
func StripPunct(w string) string {
	return strings.TrimRight(w, Punctuation)
}

// MakeLower lower-cases w unless every cased rune in it is upper-case.
// Words without any cased rune are returned lower-cased, which leaves them
// unchanged.
func MakeLower(w string) string {
	if IsUpper(w) {
		return w
	}
	return lower.String(w)
}

// IsUpper reports whether w has at least one cased rune and no lower-case
// or title-case runes.
func IsUpper(w string) bool {
	cased := false
	for _, r := range w {
		switch {
		case unicode.IsLower(r), unicode.IsTitle(r):
			return false
		case unicode.IsUpper(r):
			cased = true
		}
	}
	return cased
}

// Normalize returns the normalized form of w and whether it is non-empty.
func Normalize(w string) (string, bool) {
	n := MakeLower(StripPunct(w))
	return n, n != ""
}

// Tokenize splits text and normalizes every token. Tokens whose normalized
// form is empty are kept with an empty Norm.
func Tokenize(text string) []Token {
	words := Split(text)
	tokens := make([]Token, 0, len(words))
	for _, w := range words {
		n, _ := Normalize(w)
		tokens = append(tokens, Token{Raw: w, Norm: n})
	}
	return tokens
}

// Normalized returns the non-empty normalized forms in order.
func Normalized(tokens []Token) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t.Kept() {
			out = append(out, t.Norm)
		}
	}
	return out
}

// BaseText returns raw tokens index-aligned with Normalized(tokens).
// A raw token that normalizes to nothing is joined with a space onto the
// preceding kept token, or onto the following one when no kept token
// precedes it. If no token is kept the result is empty.
func BaseText(tokens []Token) []string {
	out := make([]string, 0, len(tokens))
	var pending []string
	for _, t := range tokens {
		if !t.Kept() {
			if len(out) == 0 {
				pending = append(pending, t.Raw)
			} else {
				out[len(out)-1] += " " + t.Raw
			}
			continue
		}
		raw := t.Raw
		if len(pending) > 0 {
			raw = strings.Join(pending, " ") + " " + raw
			pending = nil
		}
		out = append(out, raw)
	}
	return out
}
