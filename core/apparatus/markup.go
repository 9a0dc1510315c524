package apparatus

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/JuniperCollate/core/encoding"
	"github.com/FocuswithJustin/JuniperCollate/core/siglum"
)

// Renderer turns apparatus data into document markup.
type Renderer interface {
	// Base renders the running-text token of a column.
	Base(raw string, missing bool) string
	// Reading renders one variant with its citations.
	Reading(r Reading, sigla []siglum.Siglum) string
	// Note renders the footnote anchor and body for a column.
	Note(n int, readings []string) string
}

// DefaultMissingLabel marks an omitted word.
const DefaultMissingLabel = "fehlt"

// CTE renders TEI as imported by Classical Text Editor. Footnotes are
// inlined directly after their anchor token.
type CTE struct {
	MissingLabel string
}

func (c CTE) label() string {
	if c.MissingLabel == "" {
		return DefaultMissingLabel
	}
	return c.MissingLabel
}

// Base implements Renderer.
func (c CTE) Base(raw string, missing bool) string {
	if missing {
		return `<hi rend="font-style:italic; font-weight: bold;">` + c.label() + `</hi>`
	}
	return encoding.EscapeAngles(raw)
}

// Reading implements Renderer.
func (c CTE) Reading(r Reading, sigla []siglum.Siglum) string {
	text := encoding.EscapeAngles(r.Text)
	if r.Gap {
		text = `<hi rend="font-style:italic;">` + c.label() + `</hi>`
	}
	cites := make([]string, len(r.Witnesses))
	for i, pos := range r.Witnesses {
		cites[i] = Cite(sigla[pos])
	}
	return text + " " + strings.Join(cites, ", ")
}

// Note implements Renderer.
func (c CTE) Note(n int, readings []string) string {
	return fmt.Sprintf(` <note type="a1" place="foot" xml:id="ftn%d" n="%d"><p>`, n, n) +
		strings.Join(readings, "; ") + `</p></note>`
}

// Cite renders a siglum with its suffix as a subscript.
func Cite(s siglum.Siglum) string {
	return `<hi rend="font-size:10pt;font-style:italic;">` + s.Prefix + `</hi>` +
		`<hi rend="font-size:10pt;font-style:italic;vertical-align:sub;font-size:smaller;">` + s.Suffix + `</hi>`
}
