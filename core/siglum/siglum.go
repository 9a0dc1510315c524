// Package siglum splits witness sigla into a citation prefix and a
// subscript suffix, e.g. "P12" -> "P" + "12", "P007b" -> "P" + "7b".
package siglum

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Siglum is a decomposed witness identifier.
type Siglum struct {
	// Prefix is the leading run of non-digit characters.
	Prefix string
	// Suffix is the following number without leading zeros, plus an
	// optional single lower-case letter.
	Suffix string
}

// String joins prefix and suffix.
func (s Siglum) String() string {
	return s.Prefix + s.Suffix
}

// siglumGrammar matches the first non-digit run of a siglum and the number
// that follows it. Anything after that is ignored.
type siglumGrammar struct {
	Skip   string      `parser:"@Number?"`
	Prefix string      `parser:"@Word"`
	Number *numberPart `parser:"@@?"`
	Rest   []string    `parser:"( @Number | @Word )*"`
}

type numberPart struct {
	Digits string `parser:"@Number"`
	Letter string `parser:"@Word?"`
}

var siglumLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Number", Pattern: `[0-9]+`},
	{Name: "Word", Pattern: `[^0-9]+`},
})

var siglumParser = participle.MustBuild[siglumGrammar](
	participle.Lexer(siglumLexer),
)

// Parse decomposes s. A siglum without a number has an empty suffix; a
// siglum with no non-digit characters is returned whole as the prefix.
func Parse(s string) Siglum {
	parsed, err := siglumParser.ParseString("", s)
	if err != nil {
		return Siglum{Prefix: s}
	}

	sig := Siglum{Prefix: parsed.Prefix}
	if parsed.Number == nil {
		return sig
	}
	sig.Suffix = strings.TrimLeft(parsed.Number.Digits, "0")
	if l := parsed.Number.Letter; l != "" && l[0] >= 'a' && l[0] <= 'z' {
		sig.Suffix += l[:1]
	}
	return sig
}
