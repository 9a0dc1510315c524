// Package witness discovers and reads the per-manuscript transcription files
// of a collation run.
//
// An input file is named <prefix>_<siglum>_input.txt, optionally
// xz-compressed as <prefix>_<siglum>_input.txt.xz. Its content is a sequence
// of segments separated by a line of six asterisks; the transcription body is
// the fourth segment.
package witness

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/JuniperCollate/core/alignment"
	"github.com/FocuswithJustin/JuniperCollate/core/errors"
	"github.com/FocuswithJustin/JuniperCollate/core/token"
	"github.com/FocuswithJustin/JuniperCollate/internal/logging"
	"github.com/FocuswithJustin/JuniperCollate/internal/validation"
)

const (
	// Marker separates the segments of an input file.
	Marker = "******\n"
	// BodySegment is the index of the transcription body.
	BodySegment = 3
	// InputSuffix ends every plain input file name.
	InputSuffix = "_input.txt"
	// CompressedSuffix ends xz-compressed input file names.
	CompressedSuffix = InputSuffix + ".xz"
)

// Witness is one manuscript's transcription.
type Witness struct {
	Siglum string
	Path   string
	Tokens []token.Token
}

// Normalized returns the tokens handed to the alignment engine.
func (w *Witness) Normalized() []string {
	return token.Normalized(w.Tokens)
}

// BaseText returns the raw tokens aligned with Normalized.
func (w *Witness) BaseText() []string {
	return token.BaseText(w.Tokens)
}

// SiglumFromPath extracts the siglum from an input file name. ok is false
// when the name does not belong to prefix.
func SiglumFromPath(prefix, path string) (siglum string, ok bool) {
	base := filepath.Base(path)
	if !strings.HasPrefix(base, prefix+"_") {
		return "", false
	}
	rest := strings.TrimPrefix(base, prefix+"_")
	switch {
	case strings.HasSuffix(rest, CompressedSuffix):
		rest = strings.TrimSuffix(rest, CompressedSuffix)
	case strings.HasSuffix(rest, InputSuffix):
		rest = strings.TrimSuffix(rest, InputSuffix)
	default:
		return "", false
	}
	return rest, rest != ""
}

// Body returns the body segment of an input file's content.
func Body(content, path string) (string, error) {
	segments := strings.Split(content, Marker)
	if len(segments) <= BodySegment {
		return "", &errors.ParseError{
			Format:  "witness",
			Path:    path,
			Message: fmt.Sprintf("expected at least %d segments separated by %q, found %d", BodySegment+1, strings.TrimSuffix(Marker, "\n"), len(segments)),
		}
	}
	return segments[BodySegment], nil
}

// Compose builds input file content from front matter segments and a body.
// Missing front matter segments are left empty; extra ones are dropped.
func Compose(front []string, body string) string {
	var sb strings.Builder
	for i := 0; i < BodySegment; i++ {
		if i < len(front) && front[i] != "" {
			sb.WriteString(front[i])
			if !strings.HasSuffix(front[i], "\n") {
				sb.WriteString("\n")
			}
		}
		sb.WriteString(Marker)
	}
	sb.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		sb.WriteString("\n")
	}
	return sb.String()
}

// ReadFile reads an input file, decompressing it when it is xz.
func ReadFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &errors.NotFoundError{Resource: "witness input", ID: path, Err: err}
		}
		return "", errors.NewIO("open", path, err)
	}
	defer f.Close()

	kind, err := validation.ValidateFileType(f, path)
	if err != nil {
		return "", &errors.ValidationError{Field: "witness input", Value: path, Message: err.Error(), Err: err}
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", errors.NewIO("seek", path, err)
	}

	var r io.Reader = f
	if kind == validation.FileTypeXZ {
		xr, err := xz.NewReader(f)
		if err != nil {
			return "", &errors.ParseError{Format: "xz", Path: path, Message: "bad xz stream", Err: err}
		}
		r = xr
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", errors.NewIO("read", path, err)
	}
	return buf.String(), nil
}

// Read loads and tokenizes one witness.
func Read(path, siglum string) (*Witness, error) {
	content, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	body, err := Body(content, path)
	if err != nil {
		return nil, err
	}
	return &Witness{
		Siglum: siglum,
		Path:   path,
		Tokens: token.Tokenize(body),
	}, nil
}

// Discover lists the input files of a run, keyed by siglum. Files matching
// the glob whose remainder is not a valid siglum belong to a longer prefix
// and are skipped.
func Discover(ctx context.Context, l Layout) (map[string]string, error) {
	var paths []string
	for _, suffix := range []string{InputSuffix, CompressedSuffix} {
		matches, err := filepath.Glob(filepath.Join(l.InputDir(), l.Prefix+"_*"+suffix))
		if err != nil {
			return nil, &errors.ValidationError{Field: "prefix", Value: l.Prefix, Message: err.Error(), Err: err}
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	found := make(map[string]string, len(paths))
	for _, p := range paths {
		siglum, ok := SiglumFromPath(l.Prefix, p)
		if !ok {
			continue
		}
		if err := validation.ValidateSiglum(siglum); err != nil {
			logging.DebugContext(ctx, "skipping input", "path", p, "reason", err.Error())
			continue
		}
		if prev, dup := found[siglum]; dup {
			return nil, &errors.ValidationError{
				Field:   "witness input",
				Value:   siglum,
				Message: fmt.Sprintf("siglum has two input files: %s and %s", prev, p),
			}
		}
		found[siglum] = p
	}
	return found, nil
}

// Load discovers, reads and tokenizes every witness of a run, ordered by
// siglum.
func Load(ctx context.Context, l Layout) ([]*Witness, error) {
	files, err := Discover(ctx, l)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, &errors.NotFoundError{
			Resource: "witness inputs",
			ID:       filepath.Join(l.InputDir(), l.Prefix+"_*"+InputSuffix),
		}
	}

	sigla := make([]string, 0, len(files))
	for s := range files {
		sigla = append(sigla, s)
	}
	sort.Strings(sigla)

	witnesses := make([]*Witness, 0, len(sigla))
	for _, s := range sigla {
		w, err := Read(files[s], s)
		if err != nil {
			return nil, err
		}
		logging.DebugContext(ctx, "witness loaded",
			"siglum", s,
			"path", w.Path,
			"tokens", len(w.Tokens),
			"normalized", len(w.Normalized()),
		)
		witnesses = append(witnesses, w)
	}
	return witnesses, nil
}

// Find returns the witness with the given siglum, or nil.
func Find(witnesses []*Witness, siglum string) *Witness {
	for _, w := range witnesses {
		if w.Siglum == siglum {
			return w
		}
	}
	return nil
}

// Input builds the alignment engine input from witnesses in order.
func Input(witnesses []*Witness) *alignment.Input {
	in := &alignment.Input{}
	for _, w := range witnesses {
		in.AddWitness(w.Siglum, w.Normalized())
	}
	return in
}
