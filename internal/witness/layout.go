package witness

import (
	"os"
	"path/filepath"

	"github.com/FocuswithJustin/JuniperCollate/core/errors"
)

// Directory names below the working folder.
const (
	InputDirName        = "txt_from_XML"
	SpecialDirName      = "special"
	EngineInputDirName  = "collatex_json_input"
	EngineOutputDirName = "collatex_output"
)

// Layout names every file of one collation run inside a working folder.
type Layout struct {
	Root    string
	Prefix  string
	Special bool
}

// Name is the run name: the prefix, with "_special" appended for the
// special run.
func (l Layout) Name() string {
	if l.Special {
		return l.Prefix + "_" + SpecialDirName
	}
	return l.Prefix
}

// InputDir is where the witness text files are read from.
func (l Layout) InputDir() string {
	if l.Special {
		return filepath.Join(l.Root, InputDirName, SpecialDirName)
	}
	return filepath.Join(l.Root, InputDirName)
}

// InputFile is the path of the plain text input for siglum.
func (l Layout) InputFile(siglum string) string {
	return filepath.Join(l.InputDir(), l.Prefix+"_"+siglum+InputSuffix)
}

// EngineInput is the alignment engine input document.
func (l Layout) EngineInput() string {
	return filepath.Join(l.Root, EngineInputDirName, l.Name()+"_input.json")
}

// EngineOutput is where the alignment engine writes its table.
func (l Layout) EngineOutput() string {
	return filepath.Join(l.Root, EngineOutputDirName, l.Name()+"_output.json")
}

// CSV is the tabular serialization of the engine output.
func (l Layout) CSV() string {
	return filepath.Join(l.Root, EngineOutputDirName, l.Name()+"_output.csv")
}

// Document is the finished apparatus document.
func (l Layout) Document() string {
	return filepath.Join(l.Root, EngineOutputDirName, l.Name()+"_output_finished.xml")
}

// EnsureDirs creates the engine input and output directories.
func (l Layout) EnsureDirs() error {
	for _, dir := range []string{
		filepath.Join(l.Root, EngineInputDirName),
		filepath.Join(l.Root, EngineOutputDirName),
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.NewIO("mkdir", dir, err)
		}
	}
	return nil
}
