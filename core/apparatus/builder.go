// Package apparatus collapses an alignment table into a critical apparatus:
// the baseline witness as running text, with a footnote after every column
// where some other witness reads differently.
//
// Columns are processed once, left to right. For each column the readings
// of the non-baseline witnesses are grouped by value, ordered by the first
// witness attesting them, and the baseline's own reading is dropped. A
// column with variants left over receives the next footnote number.
package apparatus

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/JuniperCollate/core/alignment"
	"github.com/FocuswithJustin/JuniperCollate/core/errors"
	"github.com/FocuswithJustin/JuniperCollate/core/siglum"
)

// Column is the apparatus record of one aligned position.
type Column struct {
	Index int
	// Base is the raw baseline token; empty when Missing.
	Base    string
	Missing bool
	// Footnote is 0 when the column has no variants.
	Footnote int
	Readings []Reading
}

// Result is the output of a build.
type Result struct {
	// Text is the annotated running text.
	Text    string
	Columns []Column
	// Others is the non-baseline witness order that Reading.Witnesses
	// index into.
	Others []string
	// NextFootnote is the number the following footnote would receive.
	NextFootnote int
}

// Footnotes returns the number of footnotes emitted.
func (r *Result) Footnotes() int {
	n := 0
	for _, c := range r.Columns {
		if c.Footnote > 0 {
			n++
		}
	}
	return n
}

// PadBaseText inserts an empty placeholder into raw for every column where
// the baseline has a gap, so that the result lines up with the table.
func PadBaseText(t *alignment.Table, baseline string, raw []string) ([]string, error) {
	b := t.Index(baseline)
	if b < 0 {
		return nil, &errors.NotFoundError{Resource: "baseline", ID: baseline}
	}

	padded := make([]string, 0, t.Len())
	next := 0
	for i := range t.Columns {
		if t.Cell(i, b).Gap {
			padded = append(padded, "")
			continue
		}
		if next >= len(raw) {
			return nil, &errors.ValidationError{
				Field:   "base text",
				Value:   baseline,
				Message: fmt.Sprintf("baseline has %d tokens but reads at column %d", len(raw), i),
			}
		}
		padded = append(padded, raw[next])
		next++
	}
	if next != len(raw) {
		return nil, &errors.ValidationError{
			Field:   "base text",
			Value:   baseline,
			Message: fmt.Sprintf("baseline has %d tokens, alignment uses %d", len(raw), next),
		}
	}
	return padded, nil
}

// Builder builds an apparatus from a table and a padded base text.
type Builder struct {
	Table    *alignment.Table
	Baseline string
	// BaseText must be padded with PadBaseText.
	BaseText []string
	// Renderer defaults to CTE{}.
	Renderer Renderer
	// FirstFootnote defaults to 1.
	FirstFootnote int
}

// Build runs the single forward pass over all columns.
func (b *Builder) Build() (*Result, error) {
	t := b.Table
	base := t.Index(b.Baseline)
	if base < 0 {
		return nil, &errors.NotFoundError{Resource: "baseline", ID: b.Baseline}
	}
	if len(b.BaseText) != t.Len() {
		return nil, &errors.ValidationError{
			Field:   "base text",
			Value:   b.Baseline,
			Message: fmt.Sprintf("base text has %d entries, table has %d columns", len(b.BaseText), t.Len()),
		}
	}

	r := b.Renderer
	if r == nil {
		r = CTE{}
	}
	next := b.FirstFootnote
	if next <= 0 {
		next = 1
	}

	others := make([]string, 0, len(t.Witnesses)-1)
	sigla := make([]siglum.Siglum, 0, len(t.Witnesses)-1)
	for w, s := range t.Witnesses {
		if w == base {
			continue
		}
		others = append(others, s)
		sigla = append(sigla, siglum.Parse(s))
	}

	res := &Result{
		Columns: make([]Column, 0, t.Len()),
		Others:  others,
	}
	var text strings.Builder
	for i := range t.Columns {
		var (
			col      Column
			fragment string
		)
		col, fragment, next = b.column(i, base, sigla, r, next)
		res.Columns = append(res.Columns, col)
		text.WriteString(fragment)
		text.WriteString(" ")
	}
	res.Text = text.String()
	res.NextFootnote = next
	return res, nil
}

// column renders column i and returns the updated footnote counter.
func (b *Builder) column(i, base int, sigla []siglum.Siglum, r Renderer, next int) (Column, string, int) {
	cells := b.Table.Columns[i].Cells
	others := make([]alignment.Cell, 0, len(cells)-1)
	for w, c := range cells {
		if w != base {
			others = append(others, c)
		}
	}

	baseCell := cells[base]
	col := Column{
		Index:    i,
		Base:     b.BaseText[i],
		Missing:  baseCell.Gap,
		Readings: Variants(baseCell, others),
	}
	if col.Missing {
		col.Base = ""
	}

	fragment := r.Base(col.Base, col.Missing)
	if len(col.Readings) == 0 {
		return col, fragment, next
	}

	rendered := make([]string, len(col.Readings))
	for k, rd := range col.Readings {
		rendered[k] = r.Reading(rd, sigla)
	}
	col.Footnote = next
	fragment += r.Note(next, rendered)
	return col, fragment, next + 1
}

// Build pads raw, then builds the apparatus with the CTE renderer.
func Build(t *alignment.Table, baseline string, raw []string) (*Result, error) {
	padded, err := PadBaseText(t, baseline, raw)
	if err != nil {
		return nil, err
	}
	b := &Builder{Table: t, Baseline: baseline, BaseText: padded}
	return b.Build()
}
