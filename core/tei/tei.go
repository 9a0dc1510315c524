// Package tei assembles the finished apparatus document: a fixed opening
// stub, the annotated running text, and the closing tags that match the
// stub. The result is written exactly as composed; well-formedness is not
// checked here.
package tei

import (
	_ "embed"
	"os"

	"github.com/FocuswithJustin/JuniperCollate/core/errors"
)

// Closing closes the elements opened by the stub.
const Closing = "</p></div></body></text></TEI>"

//go:embed stub.xml
var defaultStub []byte

// DefaultStub returns a copy of the built-in opening template.
func DefaultStub() []byte {
	return append([]byte(nil), defaultStub...)
}

// LoadStub reads an opening template from path, or returns the built-in
// one when path is empty.
func LoadStub(path string) ([]byte, error) {
	if path == "" {
		return DefaultStub(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errors.NotFoundError{Resource: "document stub", ID: path, Err: err}
		}
		return nil, errors.NewIO("read", path, err)
	}
	return data, nil
}

// Assemble concatenates stub, body and the closing tags.
func Assemble(stub []byte, body string) []byte {
	out := make([]byte, 0, len(stub)+len(body)+len(Closing))
	out = append(out, stub...)
	out = append(out, body...)
	out = append(out, Closing...)
	return out
}

// WriteFile assembles the document and writes it to path.
func WriteFile(path string, stub []byte, body string) error {
	if err := os.WriteFile(path, Assemble(stub, body), 0644); err != nil {
		return errors.NewIO("write", path, err)
	}
	return nil
}
