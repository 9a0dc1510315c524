package alignment

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/FocuswithJustin/JuniperCollate/core/errors"
)

// InputToken is one token of an engine input stream.
type InputToken struct {
	T string `json:"t"`
}

// InputWitness is one witness of the engine input.
type InputWitness struct {
	ID     string       `json:"id"`
	Tokens []InputToken `json:"tokens"`
}

// Input is the document handed to the alignment engine.
type Input struct {
	Witnesses []InputWitness `json:"witnesses"`
}

// AddWitness appends a witness with the given normalized tokens.
func (in *Input) AddWitness(id string, tokens []string) {
	w := InputWitness{ID: id, Tokens: make([]InputToken, len(tokens))}
	for i, t := range tokens {
		w.Tokens[i] = InputToken{T: t}
	}
	in.Witnesses = append(in.Witnesses, w)
}

// IDs returns the witness ids in input order.
func (in *Input) IDs() []string {
	ids := make([]string, len(in.Witnesses))
	for i, w := range in.Witnesses {
		ids[i] = w.ID
	}
	return ids
}

// WriteFile writes the input document as JSON.
func (in *Input) WriteFile(path string) error {
	data, err := json.Marshal(in)
	if err != nil {
		return errors.Wrap(err, "failed to marshal engine input")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewIO("write", path, err)
	}
	return nil
}

// rawOutput mirrors the engine output: table[column][witness] is a list of
// candidate tokens, empty for a gap.
type rawOutput struct {
	Witnesses []string         `json:"witnesses"`
	Table     [][][]InputToken `json:"table"`
}

// Decode reads and validates an engine output document.
func Decode(r io.Reader) (*Table, error) {
	var raw rawOutput
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, &errors.ParseError{Format: "alignment JSON", Message: err.Error(), Err: err}
	}
	if raw.Witnesses == nil {
		return nil, errors.NewParse("alignment JSON", "", "missing witnesses")
	}
	if raw.Table == nil {
		return nil, errors.NewParse("alignment JSON", "", "missing table")
	}

	t := &Table{
		Witnesses: raw.Witnesses,
		Columns:   make([]Column, len(raw.Table)),
	}
	for i, col := range raw.Table {
		cells := make([]Cell, len(col))
		for j, candidates := range col {
			if len(candidates) == 0 {
				cells[j] = GapCell
			} else {
				cells[j] = Read(candidates[0].T)
			}
		}
		t.Columns[i] = Column{Cells: cells}
	}
	if err := t.Validate(); err != nil {
		return nil, &errors.ParseError{Format: "alignment JSON", Message: err.Error(), Err: err}
	}
	return t, nil
}

// ReadFile decodes the engine output at path.
func ReadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errors.NotFoundError{Resource: "engine output", ID: path, Err: err}
		}
		return nil, errors.NewIO("read", path, err)
	}
	t, err := Decode(bytes.NewReader(data))
	if err != nil {
		var pe *errors.ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return t, nil
}

// Encode writes t in the engine output format.
func (t *Table) Encode(w io.Writer) error {
	raw := rawOutput{
		Witnesses: t.Witnesses,
		Table:     make([][][]InputToken, len(t.Columns)),
	}
	for i, col := range t.Columns {
		cells := make([][]InputToken, len(col.Cells))
		for j, c := range col.Cells {
			if c.Gap {
				cells[j] = []InputToken{}
			} else {
				cells[j] = []InputToken{{T: c.Reading}}
			}
		}
		raw.Table[i] = cells
	}
	return json.NewEncoder(w).Encode(raw)
}
