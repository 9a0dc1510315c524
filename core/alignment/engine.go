package alignment

import (
	"context"
	"sort"

	"github.com/FocuswithJustin/JuniperCollate/core/errors"
)

// Request is one invocation of an alignment engine.
// InputPath and OutputPath name where the engine input is written and where
// the engine is expected to leave its output.
type Request struct {
	Input      *Input
	InputPath  string
	OutputPath string
}

// Engine aligns witness token streams. Implementations block until the
// output table is available.
type Engine interface {
	Align(ctx context.Context, req *Request) (*Table, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(ctx context.Context, req *Request) (*Table, error)

// Align calls f.
func (f EngineFunc) Align(ctx context.Context, req *Request) (*Table, error) {
	return f(ctx, req)
}

// CheckWitnesses verifies that the table covers exactly the sigla of in.
func CheckWitnesses(t *Table, in *Input) error {
	want := in.IDs()
	got := append([]string(nil), t.Witnesses...)
	sort.Strings(want)
	sort.Strings(got)
	if len(want) != len(got) {
		return &errors.ValidationError{
			Field:   "witnesses",
			Message: "engine output witness set differs from input",
		}
	}
	for i := range want {
		if want[i] != got[i] {
			return &errors.ValidationError{
				Field:   "witnesses",
				Value:   got[i],
				Message: "engine output witness set differs from input",
			}
		}
	}
	return nil
}
