// Package pipeline runs a complete collation: read the witnesses, align
// them, write the tabular view, and build the apparatus document for the
// baseline.
package pipeline

import (
	"bytes"
	"context"
	"os"
	"time"

	"github.com/FocuswithJustin/JuniperCollate/core/alignment"
	"github.com/FocuswithJustin/JuniperCollate/core/apparatus"
	"github.com/FocuswithJustin/JuniperCollate/core/errors"
	"github.com/FocuswithJustin/JuniperCollate/core/tabular"
	"github.com/FocuswithJustin/JuniperCollate/core/tei"
	"github.com/FocuswithJustin/JuniperCollate/internal/config"
	"github.com/FocuswithJustin/JuniperCollate/internal/digest"
	"github.com/FocuswithJustin/JuniperCollate/internal/logging"
	"github.com/FocuswithJustin/JuniperCollate/internal/witness"
)

// Output kinds.
const (
	KindEngineInput = "engine_input"
	KindCSV         = "csv"
	KindDocument    = "document"
)

// Output is a file written by a run.
type Output struct {
	Kind   string
	Path   string
	Digest digest.Result
}

// Report summarizes a run.
type Report struct {
	RunID     string
	Witnesses []string
	Columns   int
	Footnotes int
	Outputs   []Output
	// Special is set when the special witnesses were collated as well.
	Special *Report
}

// Pipeline runs collations for one configuration.
type Pipeline struct {
	Config *config.Config
	Engine alignment.Engine
}

// New returns a Pipeline.
func New(cfg *config.Config, engine alignment.Engine) *Pipeline {
	return &Pipeline{Config: cfg, Engine: engine}
}

// layout returns the file layout of the main or the special run.
func (p *Pipeline) layout(special bool) witness.Layout {
	return witness.Layout{Root: p.Config.Folder, Prefix: p.Config.Prefix, Special: special}
}

// withRunID attaches a run ID unless ctx already carries one.
func withRunID(ctx context.Context) context.Context {
	if logging.GetRunID(ctx) != "" {
		return ctx
	}
	return logging.WithRunID(ctx, logging.NewRunID())
}

// Run collates the main witnesses, builds the apparatus document and, when
// configured, collates the special witnesses into a separate CSV.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	ctx = withRunID(ctx)
	report, err := p.run(ctx)
	if err != nil {
		logging.ErrorContext(ctx, "collation failed", "error", err)
		return nil, err
	}
	return report, nil
}

func (p *Pipeline) run(ctx context.Context) (*Report, error) {
	logging.InfoContext(ctx, "collation started",
		"prefix", p.Config.Prefix,
		"baseline", p.Config.Baseline,
		"folder", p.Config.Folder,
	)

	l := p.layout(false)
	ws, err := p.loadWitnesses(ctx, l)
	if err != nil {
		return nil, err
	}
	base := witness.Find(ws, p.Config.Baseline)
	if base == nil {
		return nil, &errors.NotFoundError{Resource: "baseline witness", ID: p.Config.Baseline}
	}

	report := &Report{RunID: logging.GetRunID(ctx)}
	table, err := p.collate(ctx, l, ws, report)
	if err != nil {
		return nil, err
	}
	if err := p.document(ctx, l, table, base.BaseText(), report); err != nil {
		return nil, err
	}

	if p.Config.Special {
		special, err := p.runSpecial(ctx)
		if err != nil {
			return nil, err
		}
		report.Special = special
	}

	logging.InfoContext(ctx, "collation finished",
		"columns", report.Columns,
		"footnotes", report.Footnotes,
	)
	return report, nil
}

// RunSpecial collates the witnesses under the special input directory. It
// produces a CSV only.
func (p *Pipeline) RunSpecial(ctx context.Context) (*Report, error) {
	ctx = withRunID(ctx)
	report, err := p.runSpecial(ctx)
	if err != nil {
		logging.ErrorContext(ctx, "special collation failed", "error", err)
		return nil, err
	}
	return report, nil
}

func (p *Pipeline) runSpecial(ctx context.Context) (*Report, error) {
	l := p.layout(true)
	ws, err := p.loadWitnesses(ctx, l)
	if err != nil {
		return nil, err
	}
	report := &Report{RunID: logging.GetRunID(ctx)}
	if _, err := p.collate(ctx, l, ws, report); err != nil {
		return nil, err
	}
	return report, nil
}

// Rebuild rewrites the CSV and the apparatus document from an existing
// engine output without running the engine.
func (p *Pipeline) Rebuild(ctx context.Context) (*Report, error) {
	ctx = withRunID(ctx)
	report, err := p.rebuild(ctx)
	if err != nil {
		logging.ErrorContext(ctx, "rebuild failed", "error", err)
		return nil, err
	}
	return report, nil
}

func (p *Pipeline) rebuild(ctx context.Context) (*Report, error) {
	l := p.layout(false)

	ws, err := p.loadWitnesses(ctx, l)
	if err != nil {
		return nil, err
	}
	base := witness.Find(ws, p.Config.Baseline)
	if base == nil {
		return nil, &errors.NotFoundError{Resource: "baseline witness", ID: p.Config.Baseline}
	}

	table, err := alignment.ReadFile(l.EngineOutput())
	if err != nil {
		return nil, err
	}
	if err := alignment.CheckWitnesses(table, witness.Input(ws)); err != nil {
		return nil, err
	}

	report := &Report{
		RunID:     logging.GetRunID(ctx),
		Witnesses: table.Witnesses,
		Columns:   table.Len(),
	}
	if err := p.writeCSV(ctx, l, table, report); err != nil {
		return nil, err
	}
	if err := p.document(ctx, l, table, base.BaseText(), report); err != nil {
		return nil, err
	}
	return report, nil
}

func (p *Pipeline) loadWitnesses(ctx context.Context, l witness.Layout) ([]*witness.Witness, error) {
	start := time.Now()
	logging.StageStart(ctx, "load", "dir", l.InputDir())
	ws, err := witness.Load(ctx, l)
	if err != nil {
		return nil, err
	}
	logging.StageDone(ctx, "load", time.Since(start), "witnesses", len(ws))
	return ws, nil
}

// collate writes the engine input, aligns, verifies the witness set and
// writes the CSV.
func (p *Pipeline) collate(ctx context.Context, l witness.Layout, ws []*witness.Witness, report *Report) (*alignment.Table, error) {
	if err := l.EnsureDirs(); err != nil {
		return nil, err
	}

	in := witness.Input(ws)
	if err := in.WriteFile(l.EngineInput()); err != nil {
		return nil, err
	}
	if err := record(ctx, report, KindEngineInput, l.EngineInput()); err != nil {
		return nil, err
	}

	start := time.Now()
	logging.StageStart(ctx, "align", "witnesses", len(ws))
	table, err := p.Engine.Align(ctx, &alignment.Request{
		Input:      in,
		InputPath:  l.EngineInput(),
		OutputPath: l.EngineOutput(),
	})
	if err != nil {
		return nil, err
	}
	if err := alignment.CheckWitnesses(table, in); err != nil {
		return nil, err
	}
	logging.StageDone(ctx, "align", time.Since(start), "columns", table.Len())

	report.Witnesses = table.Witnesses
	report.Columns = table.Len()
	if err := p.writeCSV(ctx, l, table, report); err != nil {
		return nil, err
	}
	return table, nil
}

func (p *Pipeline) writeCSV(ctx context.Context, l witness.Layout, table *alignment.Table, report *Report) error {
	var buf bytes.Buffer
	if err := tabular.Write(&buf, table); err != nil {
		return err
	}
	if err := os.WriteFile(l.CSV(), buf.Bytes(), 0644); err != nil {
		return errors.NewIO("write", l.CSV(), err)
	}
	add(ctx, report, KindCSV, l.CSV(), digest.Sum(buf.Bytes()))
	return nil
}

// document pads the baseline text, builds the apparatus and writes the
// finished document.
func (p *Pipeline) document(ctx context.Context, l witness.Layout, table *alignment.Table, raw []string, report *Report) error {
	start := time.Now()
	logging.StageStart(ctx, "apparatus", "baseline", p.Config.Baseline)

	stub, err := tei.LoadStub(p.Config.Stub)
	if err != nil {
		return err
	}
	padded, err := apparatus.PadBaseText(table, p.Config.Baseline, raw)
	if err != nil {
		return err
	}
	b := &apparatus.Builder{
		Table:         table,
		Baseline:      p.Config.Baseline,
		BaseText:      padded,
		Renderer:      apparatus.CTE{MissingLabel: p.Config.MissingLabel},
		FirstFootnote: p.Config.FootnoteStart,
	}
	res, err := b.Build()
	if err != nil {
		return err
	}
	report.Footnotes = res.Footnotes()
	logging.StageDone(ctx, "apparatus", time.Since(start),
		"footnotes", report.Footnotes,
		"next_footnote", res.NextFootnote,
	)

	if err := tei.WriteFile(l.Document(), stub, res.Text); err != nil {
		return err
	}
	return record(ctx, report, KindDocument, l.Document())
}

// record digests a written file, logs it and adds it to the report.
func record(ctx context.Context, report *Report, kind, path string) error {
	d, err := digest.File(path)
	if err != nil {
		return err
	}
	add(ctx, report, kind, path, d)
	return nil
}

// add logs an output and adds it to the report.
func add(ctx context.Context, report *Report, kind, path string, d digest.Result) {
	logging.OutputWritten(ctx, kind, path, d.Size, d.LogArgs()...)
	report.Outputs = append(report.Outputs, Output{Kind: kind, Path: path, Digest: d})
}
