// Package extract turns a TEI export of one transcription into a witness
// input file.
package extract

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/FocuswithJustin/JuniperCollate/core/errors"
	"github.com/FocuswithJustin/JuniperCollate/core/xml"
	"github.com/FocuswithJustin/JuniperCollate/internal/logging"
	"github.com/FocuswithJustin/JuniperCollate/internal/witness"
)

const (
	// DefaultSelect selects the paragraphs of the TEI body.
	DefaultSelect = "//*[local-name()='body']//*[local-name()='p']"
	// TitleSelect selects the title of the TEI header.
	TitleSelect = "//*[local-name()='titleStmt']/*[local-name()='title']"
)

// DefaultExclude lists elements whose text is not part of the transcription.
var DefaultExclude = []string{"note"}

// Options controls what is extracted.
type Options struct {
	// Select is an XPath expression; each match becomes one paragraph.
	Select string
	// Exclude names elements skipped inside matches.
	Exclude []string
}

// Result is the text extracted from one document.
type Result struct {
	Title      string
	Paragraphs []string
}

// Extract selects the transcription text from a TEI document. An ampersand
// in the text is written back as "&amp;" so the apparatus document built
// from the witness stays well-formed.
func Extract(data []byte, opts Options) (*Result, error) {
	sel := opts.Select
	if sel == "" {
		sel = DefaultSelect
	}
	exclude := opts.Exclude
	if exclude == nil {
		exclude = DefaultExclude
	}

	doc, err := xml.Parse(data)
	if err != nil {
		return nil, &errors.ParseError{Format: "TEI", Message: err.Error(), Err: err}
	}

	nodes, err := doc.XPath(sel)
	if err != nil {
		return nil, &errors.ValidationError{Field: "select", Value: sel, Message: err.Error(), Err: err}
	}

	res := &Result{}
	if title, err := doc.XPathFirst(TitleSelect); err == nil && title != nil {
		res.Title = collapse(title.Text())
	}
	for _, n := range nodes {
		if p := collapse(n.TextExcluding(exclude...)); p != "" {
			res.Paragraphs = append(res.Paragraphs, strings.ReplaceAll(p, "&", "&amp;"))
		}
	}
	if len(res.Paragraphs) == 0 {
		return nil, errors.NewParse("TEI", "", fmt.Sprintf("no text matched %s", sel))
	}
	return res, nil
}

// Text renders the result as witness input content.
func (r *Result) Text(source string) string {
	front := []string{r.Title, "source: " + source, ""}
	return witness.Compose(front, strings.Join(r.Paragraphs, "\n"))
}

// File extracts src and writes the witness input to dst.
func File(ctx context.Context, src, dst string, opts Options) error {
	data, err := os.ReadFile(src)
	if err != nil {
		if os.IsNotExist(err) {
			return &errors.NotFoundError{Resource: "TEI export", ID: src, Err: err}
		}
		return errors.NewIO("read", src, err)
	}

	res, err := Extract(data, opts)
	if err != nil {
		var pe *errors.ParseError
		if errors.As(err, &pe) {
			pe.Path = src
		}
		return err
	}

	if err := os.WriteFile(dst, []byte(res.Text(src)), 0644); err != nil {
		return errors.NewIO("write", dst, err)
	}
	logging.InfoContext(ctx, "witness extracted",
		"source", src,
		"path", dst,
		"paragraphs", len(res.Paragraphs),
	)
	return nil
}

// collapse joins the whitespace-separated words of s with single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
