// Package alignment defines the typed alignment table exchanged with the
// external alignment engine, and the engine contract itself.
//
// The engine receives one token stream per witness and returns a table with
// one column per aligned position. Each column holds exactly one cell per
// witness, in the order given by Table.Witnesses. That order is fixed when
// the table is decoded and is never re-derived by sorting downstream.
package alignment

import (
	"fmt"

	"github.com/FocuswithJustin/JuniperCollate/core/errors"
)

// Cell is one witness's reading at an aligned position.
// A gap cell has no reading.
type Cell struct {
	Reading string
	Gap     bool
}

// GapCell is the empty cell.
var GapCell = Cell{Gap: true}

// Read returns a cell holding reading.
func Read(reading string) Cell {
	return Cell{Reading: reading}
}

func (c Cell) String() string {
	if c.Gap {
		return "<gap>"
	}
	return c.Reading
}

// Column is one aligned position.
type Column struct {
	Cells []Cell
}

// Table is an immutable alignment of all witnesses of a run.
type Table struct {
	Witnesses []string
	Columns   []Column
}

// NewTable builds a table from a witness order and per-column cells,
// validating it the same way Decode does.
func NewTable(witnesses []string, columns [][]Cell) (*Table, error) {
	t := &Table{Witnesses: append([]string(nil), witnesses...)}
	t.Columns = make([]Column, len(columns))
	for i, cells := range columns {
		t.Columns[i] = Column{Cells: append([]Cell(nil), cells...)}
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Len returns the number of columns.
func (t *Table) Len() int {
	return len(t.Columns)
}

// Index returns the position of siglum in the witness order, or -1.
func (t *Table) Index(siglum string) int {
	for i, w := range t.Witnesses {
		if w == siglum {
			return i
		}
	}
	return -1
}

// Cell returns the cell of witness w at column i.
func (t *Table) Cell(i, w int) Cell {
	return t.Columns[i].Cells[w]
}

// Validate checks the structural invariants: sigla are non-empty and unique
// and every column has exactly one cell per witness.
func (t *Table) Validate() error {
	if len(t.Witnesses) == 0 {
		return errors.NewValidation("witnesses", "alignment table has no witnesses")
	}
	seen := make(map[string]bool, len(t.Witnesses))
	for _, w := range t.Witnesses {
		if w == "" {
			return errors.NewValidation("witnesses", "empty siglum")
		}
		if seen[w] {
			return &errors.ValidationError{Field: "witnesses", Value: w, Message: fmt.Sprintf("duplicate siglum %q", w)}
		}
		seen[w] = true
	}
	for i, col := range t.Columns {
		if len(col.Cells) != len(t.Witnesses) {
			return errors.NewValidation("table",
				fmt.Sprintf("column %d has %d cells, want %d", i, len(col.Cells), len(t.Witnesses)))
		}
	}
	return nil
}

// Readings returns the flat reading sequence of witness w; gaps are
// rendered as placeholder.
func (t *Table) Readings(w int, placeholder string) []string {
	out := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		c := col.Cells[w]
		if c.Gap {
			out[i] = placeholder
		} else {
			out[i] = c.Reading
		}
	}
	return out
}
