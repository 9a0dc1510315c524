// Command collate collates manuscript transcriptions with CollateX and
// builds a critical apparatus for import into Classical Text Editor.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/JuniperCollate/core/xml"
	"github.com/FocuswithJustin/JuniperCollate/internal/collatex"
	"github.com/FocuswithJustin/JuniperCollate/internal/config"
	"github.com/FocuswithJustin/JuniperCollate/internal/digest"
	"github.com/FocuswithJustin/JuniperCollate/internal/extract"
	"github.com/FocuswithJustin/JuniperCollate/internal/logging"
	"github.com/FocuswithJustin/JuniperCollate/internal/pipeline"
	"github.com/FocuswithJustin/JuniperCollate/internal/validation"
	"github.com/FocuswithJustin/JuniperCollate/internal/witness"
)

const version = "0.1.0"

// Globals are flags shared by every command.
type Globals struct {
	Config    string `name:"config" short:"c" help:"YAML config file" type:"path" default:"collate.yaml"`
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)"`
	LogFormat string `name:"log-format" help:"Log format (text, json)"`
}

// CLI defines the command-line interface for collate.
type CLI struct {
	Globals

	Run       RunCmd       `cmd:"" help:"Collate witnesses and build the apparatus document"`
	Apparatus ApparatusCmd `cmd:"" help:"Rebuild CSV and apparatus from an existing CollateX output"`
	Extract   ExtractCmd   `cmd:"" help:"Convert a TEI export into a witness input file"`
	Check     CheckCmd     `cmd:"" help:"Check that documents are well-formed XML"`
	Digest    DigestCmd    `cmd:"" help:"Print SHA-256 and BLAKE3 digests of files"`
	Version   VersionCmd   `cmd:"" help:"Print version information"`
}

// CollationFlags select the witnesses and shape the apparatus. Unset flags
// keep the config file values.
type CollationFlags struct {
	Prefix        string `help:"Filename prefix of the input files, e.g. marculf_2 for marculf_2_P12_input.txt"`
	Baseline      string `help:"Siglum of the baseline witness"`
	Folder        string `help:"Folder containing txt_from_XML, collatex_json_input and collatex_output" type:"path"`
	Stub          string `help:"Opening template for the apparatus document" type:"path"`
	MissingLabel  string `name:"missing-label" help:"Label for omitted words"`
	FootnoteStart int    `name:"footnote-start" help:"Number of the first footnote"`
}

func (f *CollationFlags) apply(cfg *config.Config) {
	if f.Prefix != "" {
		cfg.Prefix = f.Prefix
	}
	if f.Baseline != "" {
		cfg.Baseline = f.Baseline
	}
	if f.Folder != "" {
		cfg.Folder = f.Folder
	}
	if f.Stub != "" {
		cfg.Stub = f.Stub
	}
	if f.MissingLabel != "" {
		cfg.MissingLabel = f.MissingLabel
	}
	if f.FootnoteStart > 0 {
		cfg.FootnoteStart = f.FootnoteStart
	}
}

// load reads the config file, applies command line overrides and
// initializes logging.
func (g *Globals) load() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.LogLevel != "" {
		cfg.Logging.Level = g.LogLevel
	}
	if g.LogFormat != "" {
		cfg.Logging.Format = g.LogFormat
	}
	if err := cfg.InitLogging(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadCollation is load plus collation flags and validation.
func (g *Globals) loadCollation(f *CollationFlags) (*config.Config, error) {
	cfg, err := g.load()
	if err != nil {
		return nil, err
	}
	f.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunCmd runs a full collation.
type RunCmd struct {
	CollationFlags `embed:""`

	Special  bool   `help:"Also collate txt_from_XML/special into a separate CSV"`
	Collatex string `help:"Path to the CollateX jar" type:"path"`
	Java     string `help:"Java launcher"`
	Timeout  string `help:"CollateX timeout, e.g. 10m (default: none)"`
}

func (c *RunCmd) Run(ctx *kong.Context, g *Globals) error {
	cfg, err := g.loadCollation(&c.CollationFlags)
	if err != nil {
		return err
	}
	if c.Special {
		cfg.Special = true
	}
	if c.Collatex != "" {
		cfg.Engine.Jar = c.Collatex
	}
	if c.Java != "" {
		cfg.Engine.Java = c.Java
	}
	if c.Timeout != "" {
		cfg.Engine.Timeout = c.Timeout
	}
	if err := cfg.ValidateEngine(); err != nil {
		return err
	}
	timeout, _ := cfg.EngineTimeout()

	engine := collatex.New(cfg.Engine.Java, cfg.Engine.Jar, timeout)
	report, err := pipeline.New(cfg, engine).Run(context.Background())
	if err != nil {
		return err
	}
	printReport(ctx, report)
	if report.Special != nil {
		printReport(ctx, report.Special)
	}
	return nil
}

// ApparatusCmd rebuilds outputs from an existing engine output.
type ApparatusCmd struct {
	CollationFlags `embed:""`
}

func (c *ApparatusCmd) Run(ctx *kong.Context, g *Globals) error {
	cfg, err := g.loadCollation(&c.CollationFlags)
	if err != nil {
		return err
	}
	report, err := pipeline.New(cfg, nil).Rebuild(context.Background())
	if err != nil {
		return err
	}
	printReport(ctx, report)
	return nil
}

func printReport(ctx *kong.Context, r *pipeline.Report) {
	fmt.Fprintf(ctx.Stdout, "%d witnesses, %d columns, %d footnotes\n", len(r.Witnesses), r.Columns, r.Footnotes)
	for _, o := range r.Outputs {
		fmt.Fprintf(ctx.Stdout, "  %-12s %s\n", o.Kind, o.Path)
	}
}

// ExtractCmd converts a TEI export into a witness input file.
type ExtractCmd struct {
	Source  string   `arg:"" help:"TEI XML export" type:"existingfile"`
	Output  string   `short:"o" help:"Output file (default: derived from --folder, --prefix and --siglum)" type:"path"`
	Folder  string   `help:"Working folder" type:"path"`
	Prefix  string   `help:"Filename prefix"`
	Siglum  string   `help:"Siglum of the witness"`
	Special bool     `help:"Write into txt_from_XML/special"`
	Select  string   `help:"XPath selecting the text paragraphs" default:"${default_select}"`
	Exclude []string `help:"Elements skipped inside paragraphs" default:"note"`
}

func (c *ExtractCmd) Run(ctx *kong.Context, g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	dst := c.Output
	if dst == "" {
		prefix := c.Prefix
		if prefix == "" {
			prefix = cfg.Prefix
		}
		folder := c.Folder
		if folder == "" {
			folder = cfg.Folder
		}
		if err := validation.ValidatePrefix(prefix); err != nil {
			return err
		}
		if err := validation.ValidateSiglum(c.Siglum); err != nil {
			return err
		}
		l := witness.Layout{Root: folder, Prefix: prefix, Special: c.Special}
		if err := os.MkdirAll(l.InputDir(), 0755); err != nil {
			return err
		}
		dst = l.InputFile(c.Siglum)
	} else if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	opts := extract.Options{Select: c.Select, Exclude: c.Exclude}
	if err := extract.File(context.Background(), c.Source, dst, opts); err != nil {
		return err
	}
	fmt.Fprintln(ctx.Stdout, dst)
	return nil
}

// CheckCmd checks documents for well-formedness.
type CheckCmd struct {
	Paths []string `arg:"" help:"Documents to check" type:"existingfile"`
}

func (c *CheckCmd) Run(ctx *kong.Context, g *Globals) error {
	if _, err := g.load(); err != nil {
		return err
	}
	failed := 0
	for _, p := range c.Paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		res := xml.Validate(data)
		if res.Valid {
			fmt.Fprintf(ctx.Stdout, "%s: ok\n", p)
			continue
		}
		failed++
		for _, e := range res.Errors {
			fmt.Fprintf(ctx.Stdout, "%s:%s\n", p, e)
		}
		logging.Warn("document not well-formed", "path", p, "errors", len(res.Errors))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents are not well-formed", failed, len(c.Paths))
	}
	return nil
}

// DigestCmd prints file digests.
type DigestCmd struct {
	Paths []string `arg:"" help:"Files to hash" type:"existingfile"`
}

func (c *DigestCmd) Run(ctx *kong.Context) error {
	for _, p := range c.Paths {
		d, err := digest.File(p)
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.Stdout, "%s  %s\n", d, p)
	}
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(ctx *kong.Context) error {
	fmt.Fprintf(ctx.Stdout, "collate version %s\n", version)
	return nil
}

// options returns the kong options shared by main and tests.
func options(extra ...kong.Option) []kong.Option {
	opts := []kong.Option{
		kong.Name("collate"),
		kong.Description("JuniperCollate - manuscript collation and critical apparatus builder"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{"default_select": extract.DefaultSelect},
	}
	return append(opts, extra...)
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli, options()...)
	err := ctx.Run(ctx, &cli.Globals)
	ctx.FatalIfErrorf(err)
}
